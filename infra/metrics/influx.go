package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/kelheim/core/events"
	coremetrics "github.com/kilianp07/kelheim/core/metrics"
	"github.com/kilianp07/kelheim/infra/logger"
)

// InfluxSink writes run events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRunEvent writes the event as a run_event point.
func (s *InfluxSink) RecordRunEvent(ev events.RunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, runEventPoint(ev))
}

// RecordHighwayPatch writes a highway_patch point.
func (s *InfluxSink) RecordHighwayPatch(ev events.HighwayPatchEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("highway_patch").
		AddTag("run_id", ev.RunID).
		AddTag("plan", ev.Plan).
		AddField("added_links", ev.AddedLinks).
		AddField("freight_links", ev.FreightLinks).
		AddField("connected", ev.Connected).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the client.
func (s *InfluxSink) Close() { s.client.Close() }

func runEventPoint(ev events.RunEvent) *write.Point {
	p := write.NewPointWithMeasurement("run_event").
		AddTag("run_id", ev.RunID).
		AddTag("kind", string(ev.Kind))
	if ev.Status != "" {
		p = p.AddTag("status", ev.Status)
	}
	p = p.AddField("iteration", ev.Iteration).
		AddField("elapsed_s", ev.Elapsed.Seconds())
	if ev.Kind == events.KindFinished {
		p = p.AddField("exit_code", ev.ExitCode)
	}
	return p.SetTime(ev.Time)
}
