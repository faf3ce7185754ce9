package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/kelheim/core/events"
	coremetrics "github.com/kilianp07/kelheim/core/metrics"
)

// PromSink records run events in Prometheus metrics.
type PromSink struct {
	runs      *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	highways  *prometheus.CounterVec
	iteration *prometheus.GaugeVec
}

// NewPromSink registers run metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "runs_total",
		Help: "Finished simulation runs by status",
	}, []string{"status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "run_duration_seconds",
		Help:    "Wall time of finished simulation runs",
		Buckets: prometheus.ExponentialBuckets(60, 2, 10),
	}, []string{"status"})
	highways := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "highway_links_added_total",
		Help: "Links inserted by highway patches",
	}, []string{"plan"})
	iteration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "simulation_iteration",
		Help: "Iteration the controller of a run is in",
	}, []string{"run_id"})

	var err error
	if runs, err = register(reg, runs); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if highways, err = register(reg, highways); err != nil {
		return nil, err
	}
	if iteration, err = register(reg, iteration); err != nil {
		return nil, err
	}
	return &PromSink{runs: runs, duration: duration, highways: highways, iteration: iteration}, nil
}

// register adds c to reg, reusing an identical collector registered earlier.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRunEvent updates the iteration gauge and, for finished runs, the
// run counter and duration histogram.
func (s *PromSink) RecordRunEvent(ev events.RunEvent) error {
	switch ev.Kind {
	case events.KindIteration:
		s.iteration.WithLabelValues(ev.RunID).Set(float64(ev.Iteration))
	case events.KindFinished:
		s.runs.WithLabelValues(ev.Status).Inc()
		s.duration.WithLabelValues(ev.Status).Observe(ev.Elapsed.Seconds())
		s.iteration.DeleteLabelValues(ev.RunID)
	}
	return nil
}

// RecordHighwayPatch counts inserted highway links.
func (s *PromSink) RecordHighwayPatch(ev events.HighwayPatchEvent) error {
	s.highways.WithLabelValues(ev.Plan).Add(float64(ev.AddedLinks))
	return nil
}

var _ coremetrics.HighwayPatchRecorder = (*PromSink)(nil)
