package metrics

import "github.com/kilianp07/kelheim/core/events"

// MetricsSink records run events for observability purposes.
type MetricsSink interface {
	RecordRunEvent(ev events.RunEvent) error
}

// HighwayPatchRecorder records network patches.
type HighwayPatchRecorder interface {
	RecordHighwayPatch(ev events.HighwayPatchEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRunEvent(events.RunEvent) error              { return nil }
func (NopSink) RecordHighwayPatch(events.HighwayPatchEvent) error { return nil }

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRunEvent forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordRunEvent(ev events.RunEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRunEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordHighwayPatch forwards patch events to sinks supporting them.
func (m *MultiSink) RecordHighwayPatch(ev events.HighwayPatchEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(HighwayPatchRecorder); ok {
			if err := rec.RecordHighwayPatch(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes the sinks holding connections.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
