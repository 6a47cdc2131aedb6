package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/sagip-ops/sagip/core/metrics"
	"github.com/sagip-ops/sagip/infra/logger"
)

// InfluxSink writes command audit points to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	client := influxdb2.NewClientWithOptions(cfg.InfluxURL, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails, so a dead backend never blocks
// command processing.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
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
		return NopSink{}
	}
	return sink
}

// RecordCommand writes the command event as a line-protocol point.
func (s *InfluxSink) RecordCommand(ev coremetrics.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("dispatch_command").
		AddTag("command", ev.Command).
		AddTag("applied", strconv.FormatBool(ev.Applied)).
		AddTag("component", "engine").
		AddField("incident_id", ev.IncidentID).
		AddField("responder_id", ev.ResponderID).
		SetTime(ev.At)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSnapshot writes store gauges as a point.
func (s *InfluxSink) RecordSnapshot(snap coremetrics.StoreSnapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("dispatch_store").
		AddTag("component", "engine").
		AddField("active_incidents", snap.ActiveIncidents).
		AddField("pending_incidents", snap.PendingIncidents).
		AddField("available_responders", snap.AvailableResponders).
		AddField("history_records", snap.HistoryRecords).
		SetTime(snap.At)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close flushes and closes the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
