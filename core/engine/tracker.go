package engine

import (
	"fmt"

	"github.com/sagip-ops/sagip/core/metrics"
	"github.com/sagip-ops/sagip/core/model"
)

// UpdateResponderStatus sets a responder's status and stamps its activity
// timestamps. Moving to Available or Off Duty clears the current
// assignment; if one was held, the affected incident is flagged with a
// conflict so dispatchers know it needs a fresh assignment. The incident's
// own status is left for an explicit command.
func (e *Engine) UpdateResponderStatus(responderID string, status model.ResponderStatus) (model.Responder, error) {
	e.mu.Lock()
	now := e.now()
	ev := metrics.CommandEvent{Command: "responder_status", ResponderID: responderID, At: now}

	r, ok := e.responders[responderID]
	if !ok {
		e.mu.Unlock()
		e.emit(ev, nil)
		return model.Responder{}, fmt.Errorf("update status of %q: %w", responderID, ErrResponderNotFound)
	}

	r.Status = status
	r.LastActive = now
	r.LastPingAt = now

	var flagged *model.Incident
	reason := ""
	if status.Idle() && r.CurrentAssignment != "" {
		if inc := e.incidentByID(r.CurrentAssignment); inc != nil && !inc.Status.Terminal() {
			reason = fmt.Sprintf("Assigned responder %s went %s", r.Name, status)
			inc.Flags.Conflict = &reason
			inc.Version++
			flagged = inc
		}
		r.CurrentAssignment = ""
		r.ETAMinutes = 0
	}

	out := r.Clone()
	var flaggedCopy *model.Incident
	if flagged != nil {
		c := flagged.Clone()
		flaggedCopy = &c
	}
	snap := e.storeSnapshotLocked(now)
	e.mu.Unlock()

	ev.Applied = true
	if flaggedCopy != nil {
		e.log.Warnf("incident %s flagged: %s", flaggedCopy.ID, reason)
		e.emit(ev, &snap, ConflictFlagged{Incident: *flaggedCopy, Reason: reason})
	} else {
		e.emit(ev, &snap)
	}
	return out, nil
}

// UpsertResponder creates or replaces a directory entry. Assignment state
// carries over from an existing record so directory edits cannot break the
// incident linkage.
func (e *Engine) UpsertResponder(r model.Responder) model.Responder {
	e.mu.Lock()
	now := e.now()
	r.Coordinates = e.coerce(r.Coordinates)
	if existing, ok := e.responders[r.ID]; ok {
		r.CurrentAssignment = existing.CurrentAssignment
		if existing.CurrentAssignment != "" {
			r.Status = existing.Status
			r.ETAMinutes = existing.ETAMinutes
		}
	} else {
		e.responderOrder = append(e.responderOrder, r.ID)
	}
	if r.LastActive.IsZero() {
		r.LastActive = now
	}
	stored := r.Clone()
	e.responders[r.ID] = &stored
	out := stored.Clone()
	e.mu.Unlock()
	return out
}

// UpsertFacility creates or replaces a facility record.
func (e *Engine) UpsertFacility(f model.Facility) model.Facility {
	e.mu.Lock()
	f.Coordinates = e.coerce(f.Coordinates)
	f.LastUpdated = e.now()
	if _, ok := e.facilities[f.ID]; !ok {
		e.facilityOrder = append(e.facilityOrder, f.ID)
	}
	stored := f
	e.facilities[f.ID] = &stored
	e.mu.Unlock()
	return f
}

// RemoveFacility deletes a facility record.
func (e *Engine) RemoveFacility(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.facilities[id]; !ok {
		return fmt.Errorf("remove facility %q: %w", id, ErrFacilityNotFound)
	}
	delete(e.facilities, id)
	for i, fid := range e.facilityOrder {
		if fid == id {
			e.facilityOrder = append(e.facilityOrder[:i], e.facilityOrder[i+1:]...)
			break
		}
	}
	return nil
}
