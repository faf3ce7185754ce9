package mqtt

import (
	"context"
	"fmt"
	"sync"

	"github.com/kilianp07/kelheim/core/events"
	coremqtt "github.com/kilianp07/kelheim/core/mqtt"
	"github.com/kilianp07/kelheim/infra/logger"
	"github.com/kilianp07/kelheim/internal/eventbus"
)

// Publisher mirrors the core mqtt.Publisher interface.
type Publisher = coremqtt.Publisher

// NewPublisher returns a connected PahoClient, or a NopPublisher when no
// broker is configured.
func NewPublisher(cfg Config) (Publisher, error) {
	if !cfg.Enabled() {
		return coremqtt.NopPublisher{}, nil
	}
	return NewPahoClient(cfg)
}

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	Events  []events.RunEvent
	FailIDs map[string]bool
	Closed  bool
	mu      sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{FailIDs: make(map[string]bool)}
}

// PublishRunEvent records the event or returns an error if configured to fail.
func (m *MockPublisher) PublishRunEvent(ev events.RunEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[ev.RunID] {
		return fmt.Errorf("%w: %s", coremqtt.ErrPublishFailed, ev.RunID)
	}
	m.Events = append(m.Events, ev)
	return nil
}

// Close marks the publisher closed.
func (m *MockPublisher) Close() {
	m.mu.Lock()
	m.Closed = true
	m.mu.Unlock()
}

// Published returns a copy of the recorded events.
func (m *MockPublisher) Published() []events.RunEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.RunEvent(nil), m.Events...)
}

// StartEventPublisher forwards every event of the bus to pub until the
// context is canceled or the bus is closed. The returned channel is closed
// when forwarding stops.
func StartEventPublisher(ctx context.Context, bus *eventbus.Bus[events.RunEvent], pub Publisher) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || pub == nil {
		close(done)
		return done
	}
	log := logger.New("mqtt_forwarder")
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := pub.PublishRunEvent(ev); err != nil {
					log.Warnf("forward %s event for %s: %v", ev.Kind, ev.RunID, err)
				}
			}
		}
	}()
	return done
}
