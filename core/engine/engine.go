// Package engine owns the dispatch state: incidents, the responder
// directory, facilities, the call log and the closed-incident history.
// Every command runs to completion under a single writer lock, so the
// cross-entity assignment invariants are never observed torn. Metrics
// recording and event publication happen after the in-memory transition
// commits and never gate it.
package engine

import (
	"sync"
	"time"

	"github.com/sagip-ops/sagip/core/logger"
	"github.com/sagip-ops/sagip/core/metrics"
	"github.com/sagip-ops/sagip/core/model"
	"github.com/sagip-ops/sagip/internal/eventbus"
)

// Engine is the single-writer dispatch store and command processor.
type Engine struct {
	mu sync.Mutex

	// incidents is kept most-recent-first; that ordering is a display
	// convention, lookups go through the slice scan by id.
	incidents  []*model.Incident
	responders map[string]*model.Responder
	// responderOrder preserves directory insertion order for listings
	// and stable ranking tie-breaks.
	responderOrder []string
	facilities     map[string]*model.Facility
	facilityOrder  []string
	history        []model.HistoryRecord
	calls          []model.CallRecord

	cfg  Config
	log  logger.Logger
	bus  eventbus.EventBus
	sink metrics.Sink
	now  func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithBus sets the event bus receiving committed-command events.
func WithBus(b eventbus.EventBus) Option {
	return func(e *Engine) { e.bus = b }
}

// WithSink sets the metrics sink.
func WithSink(s metrics.Sink) Option {
	return func(e *Engine) {
		if s != nil {
			e.sink = s
		}
	}
}

// WithClock overrides the engine clock, used by tests and replay tooling.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an empty engine.
func New(cfg Config, opts ...Option) *Engine {
	cfg.SetDefaults()
	e := &Engine{
		responders: make(map[string]*model.Responder),
		facilities: make(map[string]*model.Facility),
		cfg:        cfg,
		log:        nopLogger{},
		sink:       nopSink{},
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)        {}
func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(string, ...any)        {}
func (nopLogger) Infow(string, map[string]any) {}

type nopSink struct{}

func (nopSink) RecordCommand(metrics.CommandEvent) error { return nil }

// incidentByID returns the stored incident or nil. Callers hold the lock.
func (e *Engine) incidentByID(id string) *model.Incident {
	for _, inc := range e.incidents {
		if inc.ID == id {
			return inc
		}
	}
	return nil
}

// coerce replaces malformed coordinates with the configured fallback point.
// The unset zero point passes through: absent is legitimate and scored
// neutrally.
func (e *Engine) coerce(c model.Coordinates) model.Coordinates {
	if c.IsZero() || c.Valid() {
		return c
	}
	return e.cfg.fallback()
}

// emit records the command metric, store gauges and publishes events. It
// must be called after the lock is released.
func (e *Engine) emit(ev metrics.CommandEvent, snap *metrics.StoreSnapshot, events ...eventbus.Event) {
	if err := e.sink.RecordCommand(ev); err != nil {
		e.log.Errorf("metrics error: %v", err)
	}
	if snap != nil {
		if rec, ok := e.sink.(metrics.SnapshotRecorder); ok {
			if err := rec.RecordSnapshot(*snap); err != nil {
				e.log.Errorf("snapshot metrics error: %v", err)
			}
		}
	}
	if e.bus == nil {
		return
	}
	for _, event := range events {
		e.bus.Publish(event)
	}
}

// storeSnapshotLocked computes gauge values. Callers hold the lock.
func (e *Engine) storeSnapshotLocked(now time.Time) metrics.StoreSnapshot {
	snap := metrics.StoreSnapshot{HistoryRecords: len(e.history), At: now}
	for _, inc := range e.incidents {
		if inc.Status.Terminal() {
			continue
		}
		if !inc.Snoozed(now) {
			snap.ActiveIncidents++
		}
		if pendingStatus(inc.Status) {
			snap.PendingIncidents++
		}
	}
	for _, id := range e.responderOrder {
		if e.responders[id].Status == model.ResponderAvailable {
			snap.AvailableResponders++
		}
	}
	return snap
}

func pendingStatus(s model.IncidentStatus) bool {
	switch s {
	case model.StatusAwaitingDispatch, model.StatusResponderMobilized, model.StatusAssessmentOngoing:
		return true
	default:
		return false
	}
}
