package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/sagip-ops/sagip/core/model"
)

// archiveLocked prepends an immutable history record snapshotting the
// incident at the moment of an assignment or terminal transition. Callers
// hold the lock. The source incident is only read, never mutated.
func (e *Engine) archiveLocked(inc *model.Incident, decisionType, outcome, notes string, at time.Time) {
	responder := "Unassigned"
	if inc.AssignedResponder != nil {
		responder = inc.AssignedResponder.Name
	}

	assisted := inc.CitizenReports * 2
	if inc.PeopleStats.Evacuated > assisted {
		assisted = inc.PeopleStats.Evacuated
	}

	var media []string
	for _, m := range inc.MediaGallery {
		media = append(media, m.URL)
		if len(media) == 3 {
			break
		}
	}

	worked := inc.RecommendedAction
	if worked == "" {
		worked = "Follow SOP."
	}

	rec := model.HistoryRecord{
		ID:             uuid.NewString(),
		IncidentID:     inc.ID,
		At:             at,
		DecisionType:   decisionType,
		Outcome:        outcome,
		Type:           inc.Type,
		Severity:       inc.Severity,
		Barangay:       inc.Location,
		Responder:      responder,
		PeopleAssisted: assisted,
		MediaURLs:      media,
		Summary:        inc.AISummary,
		Notes:          notes,
		AfterAction: model.AfterAction{
			Worked:  worked,
			Improve: "Log field updates for analytics.",
			Actions: []string{},
		},
	}
	e.history = append([]model.HistoryRecord{rec}, e.history...)
}
