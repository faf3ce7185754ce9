package metrics

import "github.com/kilianp07/kelheim/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr serves /metrics while a run is active; empty disables it.
	PrometheusAddr string `json:"prometheus_addr"`
}
