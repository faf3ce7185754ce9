package mqtt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/kelheim/core/events"
	coremqtt "github.com/kilianp07/kelheim/core/mqtt"
	"github.com/kilianp07/kelheim/internal/eventbus"
)

func TestNewPublisherDisabled(t *testing.T) {
	pub, err := NewPublisher(Config{})
	require.NoError(t, err)
	assert.IsType(t, coremqtt.NopPublisher{}, pub)
}

func TestMockPublisherFailure(t *testing.T) {
	m := NewMockPublisher()
	m.FailIDs["bad"] = true
	assert.ErrorIs(t, m.PublishRunEvent(events.RunEvent{RunID: "bad"}), coremqtt.ErrPublishFailed)
	assert.NoError(t, m.PublishRunEvent(events.RunEvent{RunID: "good"}))
	assert.Len(t, m.Published(), 1)
}

func TestStartEventPublisherForwardsUntilClose(t *testing.T) {
	bus := eventbus.New[events.RunEvent]()
	m := NewMockPublisher()
	done := StartEventPublisher(context.Background(), bus, m)

	bus.Publish(events.RunEvent{RunID: "r", Kind: events.KindStarted})
	bus.Publish(events.RunEvent{RunID: "r", Kind: events.KindFinished, Status: "succeeded"})
	bus.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forwarder did not stop")
	}
	got := m.Published()
	require.Len(t, got, 2)
	assert.Equal(t, events.KindStarted, got[0].Kind)
	assert.Equal(t, events.KindFinished, got[1].Kind)
}

func TestStartEventPublisherContextCancel(t *testing.T) {
	bus := eventbus.New[events.RunEvent]()
	ctx, cancel := context.WithCancel(context.Background())
	done := StartEventPublisher(ctx, bus, NewMockPublisher())
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forwarder did not stop on cancel")
	}
}

func TestStartEventPublisherNilBus(t *testing.T) {
	done := StartEventPublisher(context.Background(), nil, NewMockPublisher())
	select {
	case <-done:
	default:
		t.Fatal("expected closed channel")
	}
}
