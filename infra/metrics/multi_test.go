package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	coremetrics "github.com/sagip-ops/sagip/core/metrics"
)

type recordingSink struct {
	commands  []coremetrics.CommandEvent
	snapshots []coremetrics.StoreSnapshot
	err       error
}

func (r *recordingSink) RecordCommand(ev coremetrics.CommandEvent) error {
	r.commands = append(r.commands, ev)
	return r.err
}

func (r *recordingSink) RecordSnapshot(s coremetrics.StoreSnapshot) error {
	r.snapshots = append(r.snapshots, s)
	return r.err
}

func TestMultiSinkFansOut(t *testing.T) {
	a := &recordingSink{}
	b := &recordingSink{}
	m := NewMultiSink(a, b)

	ev := coremetrics.CommandEvent{Command: "resolve", At: time.Now()}
	assert.NoError(t, m.RecordCommand(ev))
	assert.Len(t, a.commands, 1)
	assert.Len(t, b.commands, 1)

	assert.NoError(t, m.RecordSnapshot(coremetrics.StoreSnapshot{ActiveIncidents: 2}))
	assert.Len(t, a.snapshots, 1)
	assert.Len(t, b.snapshots, 1)
}

func TestMultiSinkContinuesPastFailures(t *testing.T) {
	bad := &recordingSink{err: errors.New("sink down")}
	good := &recordingSink{}
	m := NewMultiSink(bad, good)

	err := m.RecordCommand(coremetrics.CommandEvent{Command: "assign"})
	assert.Error(t, err)
	assert.Len(t, good.commands, 1, "later sinks still record")
}

func TestNopSink(t *testing.T) {
	var s NopSink
	assert.NoError(t, s.RecordCommand(coremetrics.CommandEvent{}))
	assert.NoError(t, s.RecordSnapshot(coremetrics.StoreSnapshot{}))
}
