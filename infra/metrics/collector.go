package metrics

import (
	"context"

	"github.com/kilianp07/kelheim/core/events"
	coremetrics "github.com/kilianp07/kelheim/core/metrics"
	"github.com/kilianp07/kelheim/infra/logger"
	"github.com/kilianp07/kelheim/internal/eventbus"
)

// StartEventCollector subscribes to the run event bus and records every
// event in sink. It returns a channel closed once the subscription ends,
// which happens when the context is canceled or the bus is closed.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus[events.RunEvent], sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	log := logger.New("metrics-collector")
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
				if err := sink.RecordRunEvent(ev); err != nil {
					log.Warnf("record %s event for %s: %v", ev.Kind, ev.RunID, err)
				}
			}
		}
	}()
	return done
}
