package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/sagip-ops/sagip/core/metrics"
)

// PromSink records engine activity in Prometheus metrics.
type PromSink struct {
	commands  *prometheus.CounterVec
	active    prometheus.Gauge
	pending   prometheus.Gauge
	available prometheus.Gauge
	history   prometheus.Gauge
}

// NewPromSink registers dispatch metrics on the default Prometheus
// registerer. The metrics server is started separately via StartPromServer.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	commands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_commands_total",
		Help: "Total number of engine commands processed",
	}, []string{"command", "applied"})
	active := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_active_incidents",
		Help: "Number of non-terminal, non-snoozed incidents",
	})
	pending := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_pending_incidents",
		Help: "Number of incidents awaiting a responder",
	})
	available := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_available_responders",
		Help: "Number of responders ready for assignment",
	})
	history := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_history_records",
		Help: "Number of archived history records",
	})

	s := &PromSink{commands: commands, active: active, pending: pending, available: available, history: history}
	for _, c := range []prometheus.Collector{commands, active, pending, available, history} {
		if err := register(reg, c, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func register(reg prometheus.Registerer, c prometheus.Collector, s *PromSink) error {
	err := reg.Register(c)
	if err == nil {
		return nil
	}
	are, ok := err.(prometheus.AlreadyRegisteredError)
	if !ok {
		return err
	}
	switch existing := are.ExistingCollector.(type) {
	case *prometheus.CounterVec:
		s.commands = existing
	case prometheus.Gauge:
		switch c {
		case s.active:
			s.active = existing
		case s.pending:
			s.pending = existing
		case s.available:
			s.available = existing
		case s.history:
			s.history = existing
		}
	}
	return nil
}

// RecordCommand increments the command counter.
func (s *PromSink) RecordCommand(ev coremetrics.CommandEvent) error {
	s.commands.WithLabelValues(ev.Command, strconv.FormatBool(ev.Applied)).Inc()
	return nil
}

// RecordSnapshot updates the store gauges.
func (s *PromSink) RecordSnapshot(snap coremetrics.StoreSnapshot) error {
	s.active.Set(float64(snap.ActiveIncidents))
	s.pending.Set(float64(snap.PendingIncidents))
	s.available.Set(float64(snap.AvailableResponders))
	s.history.Set(float64(snap.HistoryRecords))
	return nil
}
