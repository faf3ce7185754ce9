package metrics

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/kelheim/core/events"
	"github.com/kilianp07/kelheim/core/factory"
)

type recordingSink struct {
	runs    []events.RunEvent
	patches []events.HighwayPatchEvent
	err     error
}

func (r *recordingSink) RecordRunEvent(ev events.RunEvent) error {
	r.runs = append(r.runs, ev)
	return r.err
}

func (r *recordingSink) RecordHighwayPatch(ev events.HighwayPatchEvent) error {
	r.patches = append(r.patches, ev)
	return r.err
}

type runOnlySink struct{ n int }

func (r *runOnlySink) RecordRunEvent(events.RunEvent) error {
	r.n++
	return nil
}

/*
TestNewMetricsSink validates NewMetricsSink behavior with zero, one, and multiple configs.
Cases:
  - no config -> NopSink
  - one config -> the sink itself
  - two configs -> MultiSink with two sub-sinks
  - unknown type -> error
*/
func TestNewMetricsSink(t *testing.T) {
	s, err := NewMetricsSink(nil)
	if err != nil {
		t.Fatalf("create nop default: %v", err)
	}
	if _, ok := s.(NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}

	s, err = NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}})
	if err != nil {
		t.Fatalf("create nop: %v", err)
	}
	if _, ok := s.(NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}

	s, err = NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "nop"}})
	if err != nil {
		t.Fatalf("create multi: %v", err)
	}
	m, ok := s.(*MultiSink)
	if !ok {
		t.Fatalf("expected MultiSink, got %T", s)
	}
	if len(m.Sinks) != 2 {
		t.Fatalf("expected 2 sinks, got %d", len(m.Sinks))
	}

	if _, err := NewMetricsSink([]factory.ModuleConfig{{Type: "missing"}}); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestMultiSinkForwards(t *testing.T) {
	a, b := &recordingSink{}, &runOnlySink{}
	m := NewMultiSink(a, b)
	if err := m.RecordRunEvent(events.RunEvent{RunID: "r", Kind: events.KindStarted}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := m.RecordHighwayPatch(events.HighwayPatchEvent{Plan: "kelheim"}); err != nil {
		t.Fatalf("patch: %v", err)
	}
	if len(a.runs) != 1 || b.n != 1 {
		t.Fatalf("expected both sinks to record, got %d and %d", len(a.runs), b.n)
	}
	if len(a.patches) != 1 {
		t.Fatalf("expected patch recorded")
	}

	failing := NewMultiSink(&recordingSink{err: errors.New("down")}, b)
	if err := failing.RecordRunEvent(events.RunEvent{}); err == nil {
		t.Fatal("expected error from failing sink")
	}
}

// Test decoding from YAML and JSON.
func TestMetricsConfigDecode(t *testing.T) {
	data := `sinks:
  - type: nop
  - type: nop
prometheus_addr: ":9100"
`
	var cfg Config
	if err := yaml.Unmarshal([]byte(data), &cfg); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	if len(cfg.Sinks) != 2 {
		t.Fatalf("expected 2 sinks, got %d", len(cfg.Sinks))
	}

	var jcfg Config
	if err := json.Unmarshal([]byte(`{"sinks":[{"type":"missing"}],"prometheus_addr":":9100"}`), &jcfg); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if jcfg.PrometheusAddr != ":9100" {
		t.Fatalf("unexpected addr %q", jcfg.PrometheusAddr)
	}
	if _, err := NewMetricsSink(jcfg.Sinks); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

type closingSink struct{ closed bool }

func (c *closingSink) RecordRunEvent(events.RunEvent) error { return nil }
func (c *closingSink) Close()                               { c.closed = true }

func TestNewMetricsSinkClosesOnError(t *testing.T) {
	cs := &closingSink{}
	if err := RegisterMetricsSink("closing-test", func(map[string]any) (MetricsSink, error) { return cs, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := NewMetricsSink([]factory.ModuleConfig{{Type: "closing-test"}, {Type: "missing"}})
	if err == nil {
		t.Fatal("expected error for unknown type")
	}
	if !cs.closed {
		t.Fatal("sink built before the failure was not closed")
	}
	found := false
	for _, name := range SinkTypes() {
		found = found || name == "closing-test"
	}
	if !found {
		t.Fatalf("closing-test missing from %v", SinkTypes())
	}
}
