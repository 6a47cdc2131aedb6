// Package metrics defines the observability contract for the dispatch
// engine. Sinks record command outcomes and store snapshots after each
// command commits; recording is best-effort and never gates a command.
package metrics

import "time"

// CommandEvent describes one processed engine command.
type CommandEvent struct {
	Command     string
	IncidentID  string
	ResponderID string
	Applied     bool
	At          time.Time
}

// StoreSnapshot captures store-level gauges after a command commits.
type StoreSnapshot struct {
	ActiveIncidents     int
	PendingIncidents    int
	AvailableResponders int
	HistoryRecords      int
	At                  time.Time
}

// Sink records command events for observability purposes.
type Sink interface {
	RecordCommand(ev CommandEvent) error
}

// SnapshotRecorder is implemented by sinks that also track store gauges.
type SnapshotRecorder interface {
	RecordSnapshot(s StoreSnapshot) error
}
