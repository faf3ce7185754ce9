package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/kelheim/config"
	"github.com/kilianp07/kelheim/core/events"
	coremetrics "github.com/kilianp07/kelheim/core/metrics"
	coremon "github.com/kilianp07/kelheim/core/monitoring"
	"github.com/kilianp07/kelheim/core/runs"
	"github.com/kilianp07/kelheim/infra/java"
	"github.com/kilianp07/kelheim/infra/logger"
	"github.com/kilianp07/kelheim/infra/metrics"
	"github.com/kilianp07/kelheim/infra/monitoring"
	"github.com/kilianp07/kelheim/infra/mqtt"
	"github.com/kilianp07/kelheim/internal/eventbus"
)

// Service owns the launcher and the notification sinks around it.
type Service struct {
	Launcher *Launcher

	cfg       *config.Config
	bus       *eventbus.Bus[events.RunEvent]
	store     runs.RunStore
	sink      coremetrics.MetricsSink
	publisher mqtt.Publisher
	monitor   coremon.Monitor
	done      []<-chan struct{}
	log       logger.Logger
}

// New creates a Service from the configuration. A nil runner launches the
// JVM on the host.
func New(ctx context.Context, cfg *config.Config, runner java.Runner) (*Service, error) {
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	store, err := runs.NewStore(cfg.Store.Module())
	if err != nil {
		return nil, fmt.Errorf("run store: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	pub, err := mqtt.NewPublisher(cfg.MQTT)
	if err != nil {
		closeSink(sink)
		_ = store.Close()
		return nil, fmt.Errorf("mqtt client: %w", err)
	}

	bus := eventbus.New[events.RunEvent]()
	launcher, err := NewLauncher(cfg, store, bus, sink, runner)
	if err != nil {
		pub.Close()
		closeSink(sink)
		_ = store.Close()
		return nil, err
	}
	svc := &Service{
		Launcher:  launcher,
		cfg:       cfg,
		bus:       bus,
		store:     store,
		sink:      sink,
		publisher: pub,
		monitor:   mon,
		log:       logg,
	}
	// subscribers drain the bus after Close, so they run on a context
	// independent of the run
	bg := context.WithoutCancel(ctx)
	svc.done = append(svc.done,
		metrics.StartEventCollector(bg, bus, sink),
		mqtt.StartEventPublisher(bg, bus, pub),
	)
	return svc, nil
}

// Run launches one request. The Prometheus endpoint, when configured, is
// served while the run is active.
func (s *Service) Run(ctx context.Context, req Request) (runs.RunRecord, error) {
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" && !req.DryRun {
		promCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := metrics.StartPromServer(promCtx, addr, nil); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	return s.Launcher.Launch(ctx, req)
}

// Store exposes the run store for listings.
func (s *Service) Store() runs.RunStore { return s.store }

// Close flushes pending events and releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	for _, d := range s.done {
		select {
		case <-d:
		case <-time.After(5 * time.Second):
			s.log.Warnf("timed out draining run events")
		}
	}
	if dropped := s.bus.Dropped(); dropped > 0 {
		s.log.Warnf("%d run events dropped", dropped)
	}
	s.publisher.Close()
	closeSink(s.sink)
	s.monitor.Flush(2 * time.Second)
	return s.store.Close()
}

func closeSink(sink coremetrics.MetricsSink) {
	if c, ok := sink.(interface{ Close() }); ok {
		c.Close()
	}
}
