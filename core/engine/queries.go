package engine

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/sagip-ops/sagip/core/dispatch"
	"github.com/sagip-ops/sagip/core/model"
	"github.com/sagip-ops/sagip/core/scoring"
)

// Queries copy out an immutable snapshot under the lock; callers can hold
// results as long as they like without observing later mutations.

// Incidents returns every incident, most-recent-first.
func (e *Engine) Incidents() []model.Incident {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Incident, 0, len(e.incidents))
	for _, inc := range e.incidents {
		out = append(out, inc.Clone())
	}
	return out
}

// ActiveIncidents returns non-terminal incidents whose snooze window has
// lapsed.
func (e *Engine) ActiveIncidents() []model.Incident {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	var out []model.Incident
	for _, inc := range e.incidents {
		if inc.Status.Terminal() || inc.Snoozed(now) {
			continue
		}
		out = append(out, inc.Clone())
	}
	return out
}

// Incident returns one incident by id.
func (e *Engine) Incident(id string) (model.Incident, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	inc := e.incidentByID(id)
	if inc == nil {
		return model.Incident{}, fmt.Errorf("incident %q: %w", id, ErrIncidentNotFound)
	}
	return inc.Clone(), nil
}

// Responders returns the directory in insertion order.
func (e *Engine) Responders() []model.Responder {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.respondersLocked()
}

func (e *Engine) respondersLocked() []model.Responder {
	out := make([]model.Responder, 0, len(e.responderOrder))
	for _, id := range e.responderOrder {
		out = append(out, e.responders[id].Clone())
	}
	return out
}

// Responder returns one responder by id.
func (e *Engine) Responder(id string) (model.Responder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.responders[id]
	if !ok {
		return model.Responder{}, fmt.Errorf("responder %q: %w", id, ErrResponderNotFound)
	}
	return r.Clone(), nil
}

// Facilities returns all facilities in insertion order.
func (e *Engine) Facilities() []model.Facility {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Facility, 0, len(e.facilityOrder))
	for _, id := range e.facilityOrder {
		out = append(out, *e.facilities[id])
	}
	return out
}

// History returns the archived records, newest first.
func (e *Engine) History() []model.HistoryRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.HistoryRecord(nil), e.history...)
}

// CallLog returns every registered contact attempt.
func (e *Engine) CallLog() []model.CallRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.CallRecord(nil), e.calls...)
}

// SuggestResponders ranks the directory for an incident and returns the
// top candidates. The ranking is computed fresh on every call.
func (e *Engine) SuggestResponders(incidentID string, limit int) ([]scoring.Candidate, error) {
	e.mu.Lock()
	inc := e.incidentByID(incidentID)
	if inc == nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("suggest for %q: %w", incidentID, ErrIncidentNotFound)
	}
	snapshot := inc.Clone()
	responders := e.respondersLocked()
	e.mu.Unlock()

	return dispatch.SuggestTop(snapshot, responders, limit), nil
}

// NearestFacilities returns the closest facility of each type for an
// incident, ascending by distance.
func (e *Engine) NearestFacilities(incidentID string) ([]dispatch.FacilityDistance, error) {
	e.mu.Lock()
	inc := e.incidentByID(incidentID)
	if inc == nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("facilities for %q: %w", incidentID, ErrIncidentNotFound)
	}
	snapshot := inc.Clone()
	facilities := make([]model.Facility, 0, len(e.facilityOrder))
	for _, id := range e.facilityOrder {
		facilities = append(facilities, *e.facilities[id])
	}
	e.mu.Unlock()

	return dispatch.NearestFacilities(snapshot, facilities), nil
}

// KPISummary aggregates dashboard counters.
type KPISummary struct {
	ActiveIncidents     int     `json:"active_incidents"`
	PendingIncidents    int     `json:"pending_incidents"`
	ResolvedToday       int     `json:"resolved_today"`
	AvailableResponders int     `json:"available_responders"`
	MeanAssignedETA     float64 `json:"mean_assigned_eta"`
	MeanWorkload        float64 `json:"mean_workload"`
}

// KPIs computes the dashboard summary from the current snapshot.
func (e *Engine) KPIs() KPISummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()

	var kpi KPISummary
	var etas []float64
	for _, inc := range e.incidents {
		if !inc.Status.Terminal() {
			if !inc.Snoozed(now) {
				kpi.ActiveIncidents++
			}
			if pendingStatus(inc.Status) {
				kpi.PendingIncidents++
			}
		}
		if inc.Status == model.StatusResolved && inc.ResolvedAt != nil && sameDay(*inc.ResolvedAt, now) {
			kpi.ResolvedToday++
		}
		if inc.AssignedResponder != nil && !inc.Status.Terminal() {
			etas = append(etas, float64(inc.AssignedResponder.ETAMinutes))
		}
	}

	var workloads []float64
	for _, id := range e.responderOrder {
		r := e.responders[id]
		if r.Status == model.ResponderAvailable {
			kpi.AvailableResponders++
		}
		workloads = append(workloads, r.Workload)
	}

	if len(etas) > 0 {
		kpi.MeanAssignedETA = stat.Mean(etas, nil)
	}
	if len(workloads) > 0 {
		kpi.MeanWorkload = stat.Mean(workloads, nil)
	}
	return kpi
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
