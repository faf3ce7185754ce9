// Package metrics defines the sinks that record run lifecycle metrics.
// Sinks like PromSink and InfluxSink (infra/metrics) record run events and
// highway patches and can be combined with NewMultiSink. NewMetricsSink
// returns a MultiSink automatically when multiple sinks are configured.
package metrics
