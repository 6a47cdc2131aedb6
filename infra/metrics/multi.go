package metrics

import (
	"errors"

	coremetrics "github.com/sagip-ops/sagip/core/metrics"
)

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordCommand(coremetrics.CommandEvent) error   { return nil }
func (NopSink) RecordSnapshot(coremetrics.StoreSnapshot) error { return nil }

// MultiSink fans records out to several sinks. Every sink is invoked even
// when an earlier one fails; errors are joined.
type MultiSink struct {
	sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink over the given sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordCommand(ev coremetrics.CommandEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordCommand(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordSnapshot(snap coremetrics.StoreSnapshot) error {
	var errs []error
	for _, s := range m.sinks {
		if rec, ok := s.(coremetrics.SnapshotRecorder); ok {
			if err := rec.RecordSnapshot(snap); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
