package mqtt

import "github.com/kilianp07/kelheim/core/events"

// Publisher forwards run lifecycle events to an MQTT broker.
type Publisher interface {
	// PublishRunEvent sends the event on the run specific topic.
	PublishRunEvent(ev events.RunEvent) error

	// Close disconnects from the broker.
	Close()
}

// NopPublisher discards every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishRunEvent(events.RunEvent) error { return nil }
func (NopPublisher) Close()                                {}
