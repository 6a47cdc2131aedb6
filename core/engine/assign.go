package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/sagip-ops/sagip/core/metrics"
	"github.com/sagip-ops/sagip/core/model"
	"github.com/sagip-ops/sagip/core/scoring"
)

// AssignOptions carries the optional parameters of an assignment command.
type AssignOptions struct {
	// ETAMinutes overrides the distance-derived arrival estimate when
	// positive.
	ETAMinutes int
	Notes      string
	// DecisionSource identifies who or what triggered the assignment,
	// e.g. "dispatcher" or "auto-ranker".
	DecisionSource string
}

// Workload adjustment constants. Mobilizing a responder costs 0.2 of
// capacity; releasing one refunds it with a floor that depends on whether
// the release came from a reassignment or a terminal transition.
const (
	workloadDelta        = 0.2
	workloadCeiling      = 0.95
	reassignReleaseFloor = 0.2
	terminalReleaseFloor = 0.15
)

// AssignResponder commits an assignment or reassignment. The incident
// moves to In Progress, the new assignee is mobilized, and any responder
// previously holding the assignment is released. Nothing mutates when
// either id is unknown.
func (e *Engine) AssignResponder(incidentID, responderID string, opts AssignOptions) (model.Incident, error) {
	e.mu.Lock()
	now := e.now()
	ev := metrics.CommandEvent{Command: "assign", IncidentID: incidentID, ResponderID: responderID, At: now}

	inc := e.incidentByID(incidentID)
	if inc == nil {
		e.mu.Unlock()
		e.emit(ev, nil)
		return model.Incident{}, fmt.Errorf("assign %q: %w", incidentID, ErrIncidentNotFound)
	}
	assignee, ok := e.responders[responderID]
	if !ok {
		e.mu.Unlock()
		e.emit(ev, nil)
		return model.Incident{}, fmt.Errorf("assign %q to %q: %w", incidentID, responderID, ErrResponderNotFound)
	}

	actor := opts.DecisionSource
	if actor == "" {
		actor = "dispatcher"
	}
	eta := scoring.EstimateETA(*inc, *assignee, opts.ETAMinutes)

	reassigned := inc.AssignedResponder != nil && inc.AssignedResponder.ID != responderID
	for _, id := range e.responderOrder {
		prev := e.responders[id]
		if prev.ID != responderID && prev.CurrentAssignment == incidentID {
			e.releaseResponder(prev, reassignReleaseFloor)
		}
	}

	assignee.Status = model.ResponderEnRoute
	assignee.CurrentAssignment = incidentID
	assignee.ETAMinutes = eta
	assignee.Workload = minFloat(workloadCeiling, assignee.Workload+workloadDelta)
	assignee.LastActive = now

	inc.Status = model.StatusInProgress
	inc.AssignedResponder = &model.AssignedResponder{
		ID:         assignee.ID,
		Name:       assignee.Name,
		Status:     model.ResponderEnRoute,
		ETAMinutes: eta,
		LastSynced: now,
	}
	inc.AssignedRoute = &model.Route{
		Path:      [2]model.Coordinates{e.coerce(assignee.Coordinates), e.coerce(inc.Coordinates)},
		UpdatedAt: now,
	}

	label := fmt.Sprintf("Responder %s assigned", assignee.Name)
	action := "Assignment"
	if reassigned {
		label = fmt.Sprintf("Responder %s reassigned", assignee.Name)
		action = "Reassignment"
	}
	inc.Timeline = append(inc.Timeline, model.TimelineEvent{
		ID: uuid.NewString(), Timestamp: now, Label: label, Actor: actor,
	})
	inc.StatusHistory = append(inc.StatusHistory,
		model.StatusChange{Status: model.StatusResponderMobilized, Timestamp: now, Detail: "Responder assigned"},
		model.StatusChange{Status: model.StatusInProgress, Timestamp: now, Detail: "Response underway"},
	)
	inc.DecisionLog = append(inc.DecisionLog, model.Decision{
		ID: uuid.NewString(), At: now, Action: action, Actor: actor,
		ResponderID: assignee.ID, ResponderName: assignee.Name, Notes: opts.Notes,
	})
	inc.Flags.Conflict = nil
	inc.Version++

	e.archiveLocked(inc, action, "Ongoing", opts.Notes, now)

	out := inc.Clone()
	responderCopy := assignee.Clone()
	snap := e.storeSnapshotLocked(now)
	e.mu.Unlock()

	ev.Applied = true
	e.log.Infow("responder assigned", map[string]any{
		"incident": incidentID, "responder": responderID, "eta_minutes": eta, "reassigned": reassigned,
	})
	e.emit(ev, &snap, ResponderAssigned{Incident: out, Responder: responderCopy, Reassigned: reassigned})
	return out, nil
}

// releaseResponder returns a responder to the available pool. Callers hold
// the lock.
func (e *Engine) releaseResponder(r *model.Responder, floor float64) {
	r.Status = model.ResponderAvailable
	r.CurrentAssignment = ""
	r.ETAMinutes = 0
	r.Workload = maxFloat(floor, r.Workload-workloadDelta)
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
