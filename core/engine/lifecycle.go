package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sagip-ops/sagip/core/enrich"
	"github.com/sagip-ops/sagip/core/metrics"
	"github.com/sagip-ops/sagip/core/model"
)

// RegisterIncident enriches a raw incident record and stores it at the
// front of the collection. An existing incident with the same id is
// replaced rather than duplicated.
func (e *Engine) RegisterIncident(raw model.Incident) (model.Incident, error) {
	e.mu.Lock()
	now := e.now()
	ev := metrics.CommandEvent{Command: "register", IncidentID: raw.ID, At: now}

	raw.Coordinates = e.coerce(raw.Coordinates)
	if raw.OccurredAt.IsZero() {
		raw.OccurredAt = now
	}
	inc := enrich.Incident(raw)
	inc.Timeline = append([]model.TimelineEvent{{
		ID: uuid.NewString(), Timestamp: now, Label: "Manually logged by command center", Actor: "dispatcher",
	}}, inc.Timeline...)

	inc.Version = 1
	kept := e.incidents[:0]
	for _, existing := range e.incidents {
		if existing.ID == inc.ID {
			inc.Version = existing.Version + 1
			continue
		}
		kept = append(kept, existing)
	}
	e.incidents = append([]*model.Incident{&inc}, kept...)

	out := inc.Clone()
	snap := e.storeSnapshotLocked(now)
	e.mu.Unlock()

	ev.Applied = true
	e.log.Infow("incident registered", map[string]any{
		"incident": inc.ID, "type": inc.Type, "severity": inc.Severity.String(),
	})
	e.emit(ev, &snap, IncidentRegistered{Incident: out})
	return out, nil
}

// MarkResolved transitions the incident to the Resolved terminal state and
// releases its assignee.
func (e *Engine) MarkResolved(incidentID, notes string) (model.Incident, error) {
	return e.closeIncident(incidentID, notes, model.StatusResolved)
}

// MarkCancelled transitions the incident to the Cancelled terminal state
// and releases its assignee.
func (e *Engine) MarkCancelled(incidentID, notes string) (model.Incident, error) {
	return e.closeIncident(incidentID, notes, model.StatusCancelled)
}

func (e *Engine) closeIncident(incidentID, notes string, terminal model.IncidentStatus) (model.Incident, error) {
	outcome := terminal.String()
	command := "resolve"
	action := "Resolution"
	if terminal == model.StatusCancelled {
		command = "cancel"
		action = "Cancellation"
	}

	e.mu.Lock()
	now := e.now()
	ev := metrics.CommandEvent{Command: command, IncidentID: incidentID, At: now}

	inc := e.incidentByID(incidentID)
	if inc == nil {
		e.mu.Unlock()
		e.emit(ev, nil)
		return model.Incident{}, fmt.Errorf("%s %q: %w", command, incidentID, ErrIncidentNotFound)
	}

	inc.Status = terminal
	resolvedAt := now
	inc.ResolvedAt = &resolvedAt
	if inc.AssignedResponder != nil {
		inc.AssignedResponder.Status = model.ResponderAvailable
		inc.AssignedResponder.LastSynced = now
		if r, ok := e.responders[inc.AssignedResponder.ID]; ok && r.CurrentAssignment == incidentID {
			e.releaseResponder(r, terminalReleaseFloor)
		}
	}

	inc.Timeline = append(inc.Timeline, model.TimelineEvent{
		ID: uuid.NewString(), Timestamp: now, Label: "Marked " + outcome, Actor: "dispatcher",
	})
	inc.StatusHistory = append(inc.StatusHistory, model.StatusChange{
		Status: terminal, Timestamp: now, Detail: notes,
	})
	inc.DecisionLog = append(inc.DecisionLog, model.Decision{
		ID: uuid.NewString(), At: now, Action: action, Actor: "dispatcher", Notes: notes,
	})
	inc.Version++

	e.archiveLocked(inc, action, outcome, notes, now)

	out := inc.Clone()
	snap := e.storeSnapshotLocked(now)
	e.mu.Unlock()

	ev.Applied = true
	e.log.Infow("incident closed", map[string]any{"incident": incidentID, "outcome": outcome})
	e.emit(ev, &snap, IncidentClosed{Incident: out, Outcome: outcome})
	return out, nil
}

// SnoozeIncident defers the incident from active views for the given
// number of minutes without changing its status. Non-positive minutes use
// the configured default.
func (e *Engine) SnoozeIncident(incidentID string, minutes int) (model.Incident, error) {
	if minutes <= 0 {
		minutes = e.cfg.DefaultSnoozeMinutes
	}

	e.mu.Lock()
	now := e.now()
	ev := metrics.CommandEvent{Command: "snooze", IncidentID: incidentID, At: now}

	inc := e.incidentByID(incidentID)
	if inc == nil {
		e.mu.Unlock()
		e.emit(ev, nil)
		return model.Incident{}, fmt.Errorf("snooze %q: %w", incidentID, ErrIncidentNotFound)
	}

	until := now.Add(time.Duration(minutes) * time.Minute)
	inc.SnoozedUntil = &until
	inc.Timeline = append(inc.Timeline, model.TimelineEvent{
		ID:        uuid.NewString(),
		Timestamp: now,
		Label:     fmt.Sprintf("Snoozed for %d minutes", minutes),
		Actor:     "dispatcher",
	})
	inc.Version++

	out := inc.Clone()
	snap := e.storeSnapshotLocked(now)
	e.mu.Unlock()

	ev.Applied = true
	e.emit(ev, &snap)
	return out, nil
}

// ClearConflict removes the advisory conflict marker. Clearing an incident
// without one is a no-op that still succeeds.
func (e *Engine) ClearConflict(incidentID string) (model.Incident, error) {
	e.mu.Lock()
	now := e.now()
	ev := metrics.CommandEvent{Command: "clear_conflict", IncidentID: incidentID, At: now}

	inc := e.incidentByID(incidentID)
	if inc == nil {
		e.mu.Unlock()
		e.emit(ev, nil)
		return model.Incident{}, fmt.Errorf("clear conflict %q: %w", incidentID, ErrIncidentNotFound)
	}
	if inc.Flags.Conflict == nil {
		out := inc.Clone()
		e.mu.Unlock()
		e.emit(ev, nil)
		return out, nil
	}

	inc.Flags.Conflict = nil
	inc.Version++

	out := inc.Clone()
	snap := e.storeSnapshotLocked(now)
	e.mu.Unlock()

	ev.Applied = true
	e.emit(ev, &snap)
	return out, nil
}

// RegisterCall logs a pre-confirmation contact attempt with a responder.
// Neither status nor assignment changes.
func (e *Engine) RegisterCall(incidentID, responderID, notes string) (model.CallRecord, error) {
	e.mu.Lock()
	now := e.now()
	ev := metrics.CommandEvent{Command: "call", IncidentID: incidentID, ResponderID: responderID, At: now}

	inc := e.incidentByID(incidentID)
	if inc == nil {
		e.mu.Unlock()
		e.emit(ev, nil)
		return model.CallRecord{}, fmt.Errorf("call for %q: %w", incidentID, ErrIncidentNotFound)
	}
	r, ok := e.responders[responderID]
	if !ok {
		e.mu.Unlock()
		e.emit(ev, nil)
		return model.CallRecord{}, fmt.Errorf("call to %q: %w", responderID, ErrResponderNotFound)
	}

	call := model.CallRecord{IncidentID: incidentID, ResponderID: responderID, At: now, Notes: notes}
	e.calls = append(e.calls, call)
	inc.Timeline = append(inc.Timeline, model.TimelineEvent{
		ID:        uuid.NewString(),
		Timestamp: now,
		Label:     fmt.Sprintf("Call placed to %s", r.Name),
		Actor:     "dispatcher",
	})
	inc.DecisionLog = append(inc.DecisionLog, model.Decision{
		ID: uuid.NewString(), At: now, Action: "Call First", Actor: "dispatcher",
		ResponderID: r.ID, ResponderName: r.Name, Notes: notes,
	})
	inc.Version++

	snap := e.storeSnapshotLocked(now)
	e.mu.Unlock()

	ev.Applied = true
	e.emit(ev, &snap, CallLogged{Call: call})
	return call, nil
}
