// Package scoring computes composite suitability scores for pairing field
// responders with incidents. The weights are a contract with the ranking
// tests: changing them reorders dispatch shortlists.
package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/sagip-ops/sagip/core/geo"
	"github.com/sagip-ops/sagip/core/model"
)

// Score component weights.
const (
	distanceWeight = 0.35
	skillWeight    = 0.25
	workloadWeight = 0.20
	statusWeight   = 0.15
	shiftWeight    = 0.05

	// distanceHorizonKm is the range beyond which proximity no longer
	// differentiates candidates.
	distanceHorizonKm = 20.0
	// neutralDistanceScore applies when either party has no usable fix.
	neutralDistanceScore = 0.4

	defaultETAMinutes = 12
	minETAMinutes     = 3
	etaMinutesPerKm   = 4.0
)

// Candidate is a scored (incident, responder) pairing.
type Candidate struct {
	Responder   model.Responder `json:"responder"`
	DistanceKm  float64         `json:"distance_km"`
	HasDistance bool            `json:"has_distance"`

	DistanceScore float64 `json:"distance_score"`
	SkillScore    float64 `json:"skill_score"`
	WorkloadScore float64 `json:"workload_score"`
	StatusScore   float64 `json:"status_score"`
	ShiftScore    float64 `json:"shift_score"`
	Composite     float64 `json:"composite"`

	ETAMinutes int `json:"eta_minutes"`
}

// Score evaluates a responder against an incident.
func Score(inc model.Incident, r model.Responder) Candidate {
	c := Candidate{Responder: r.Clone()}
	c.DistanceKm, c.HasDistance = geo.Distance(inc.Coordinates, r.Coordinates)

	c.DistanceScore = neutralDistanceScore
	if c.HasDistance {
		capped := math.Min(c.DistanceKm, distanceHorizonKm)
		c.DistanceScore = math.Max(0, 1-capped/distanceHorizonKm)
	}
	c.SkillScore = skillScore(inc.Type, r.Specialization)
	c.WorkloadScore = 1 - math.Min(0.95, r.Workload)
	c.StatusScore = statusScore(r.Status)
	c.ShiftScore = shiftScore(inc.OccurredAt, r.ShiftWindow)

	c.Composite = distanceWeight*c.DistanceScore +
		skillWeight*c.SkillScore +
		workloadWeight*c.WorkloadScore +
		statusWeight*c.StatusScore +
		shiftWeight*c.ShiftScore

	c.ETAMinutes = EstimateETA(inc, r, 0)
	return c
}

// EstimateETA resolves the arrival estimate for an assignment. A positive
// override wins; otherwise the distance-derived estimate, then the
// responder's last-known ETA, then a fixed default.
func EstimateETA(inc model.Incident, r model.Responder, overrideMinutes int) int {
	if overrideMinutes > 0 {
		return overrideMinutes
	}
	if km, ok := geo.Distance(inc.Coordinates, r.Coordinates); ok {
		eta := int(math.Round(km * etaMinutesPerKm))
		if eta < minETAMinutes {
			eta = minETAMinutes
		}
		return eta
	}
	if r.ETAMinutes > 0 {
		return r.ETAMinutes
	}
	return defaultETAMinutes
}

// skillScore counts case-insensitive substring matches between the
// responder's specializations and the incident type.
func skillScore(incidentType string, specialization []string) float64 {
	typ := strings.ToLower(strings.TrimSpace(incidentType))
	matches := 0
	for _, s := range specialization {
		sp := strings.ToLower(strings.TrimSpace(s))
		if sp == "" || typ == "" {
			continue
		}
		if strings.Contains(typ, sp) || strings.Contains(sp, typ) {
			matches++
		}
	}
	if matches == 0 {
		return 0.35
	}
	return math.Min(1, 0.5+float64(matches)*0.25)
}

func statusScore(s model.ResponderStatus) float64 {
	switch s {
	case model.ResponderAvailable, model.ResponderStandby:
		return 1.0
	case model.ResponderEnRoute:
		return 0.6
	case model.ResponderOnScene, model.ResponderOnMission:
		return 0.4
	default:
		return 0.2
	}
}

// shiftScore checks whether the incident's occurrence time falls inside the
// responder's shift window. Windows with end <= start wrap past midnight.
// An absent or malformed window never penalizes the responder.
func shiftScore(at time.Time, window string) float64 {
	start, end, ok := parseShiftWindow(window)
	if !ok {
		return 1.0
	}
	minute := at.Hour()*60 + at.Minute()
	inside := false
	if end <= start {
		inside = minute >= start || minute < end
	} else {
		inside = minute >= start && minute < end
	}
	if inside {
		return 1.0
	}
	return 0.6
}

func parseShiftWindow(window string) (startMin, endMin int, ok bool) {
	parts := strings.Split(window, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, err1 := time.Parse("15:04", strings.TrimSpace(parts[0]))
	end, err2 := time.Parse("15:04", strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return start.Hour()*60 + start.Minute(), end.Hour()*60 + end.Minute(), true
}
