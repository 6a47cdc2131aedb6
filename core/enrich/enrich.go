// Package enrich derives default telemetry for raw incident reports. All
// derivations are pure and idempotent: fields already populated are left
// untouched, so enriching an enriched incident is a no-op.
package enrich

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sagip-ops/sagip/core/model"
)

// severityDefaults holds the fixed per-tier triage defaults.
type severityDefaults struct {
	citizenReports int
	hazardScore    float64
	riskBand       model.RiskBand
	impactRadiusKm float64
	summary        string
	peopleFactor   float64
}

var defaultsByTier = map[model.Severity]severityDefaults{
	model.SeverityHigh: {
		citizenReports: 18,
		hazardScore:    0.82,
		riskBand:       model.RiskRed,
		impactRadiusKm: 2.5,
		summary:        "Severe %s with a rapidly expanding impact zone; prioritize evacuation support.",
		peopleFactor:   2.6,
	},
	model.SeverityMedium: {
		citizenReports: 9,
		hazardScore:    0.55,
		riskBand:       model.RiskAmber,
		impactRadiusKm: 1.2,
		summary:        "Moderate %s; containment feasible with a standard response package.",
		peopleFactor:   1.8,
	},
	model.SeverityLow: {
		citizenReports: 4,
		hazardScore:    0.30,
		riskBand:       model.RiskBlue,
		impactRadiusKm: 0.6,
		summary:        "Minor %s; monitor and dispatch a single unit if reports escalate.",
		peopleFactor:   1.4,
	},
}

// Timeline seed offsets relative to the occurrence time.
var seedEvents = []struct {
	offset time.Duration
	label  string
}{
	{-2 * time.Minute, "Report received by command center"},
	{-1 * time.Minute, "AI triage completed"},
	{-18 * time.Second, "Command center verification"},
}

// Incident fills every derived field of a raw incident record. The input
// is not mutated; the returned copy is fully populated.
func Incident(raw model.Incident) model.Incident {
	inc := raw.Clone()
	tier := defaultsByTier[inc.Severity]

	if inc.OccurredAt.IsZero() {
		inc.OccurredAt = time.Now().UTC()
	}
	if inc.CitizenReports <= 0 {
		inc.CitizenReports = tier.citizenReports
	}
	if inc.AIHazardScore <= 0 || inc.AIHazardScore > 1 || math.IsNaN(inc.AIHazardScore) {
		inc.AIHazardScore = tier.hazardScore
	}
	if inc.RiskBand == model.RiskBlue && inc.Severity != model.SeverityLow {
		inc.RiskBand = tier.riskBand
	}
	if inc.ImpactRadiusKm <= 0 || math.IsNaN(inc.ImpactRadiusKm) {
		inc.ImpactRadiusKm = tier.impactRadiusKm
	}
	if inc.AISummary == "" {
		inc.AISummary = fmt.Sprintf(tier.summary, strings.ToLower(inc.Type))
	}
	if inc.PlaybookRef == "" {
		inc.PlaybookRef = PlaybookRef(inc.Type)
	}

	if len(inc.Timeline) == 0 {
		for _, ev := range seedEvents {
			inc.Timeline = append(inc.Timeline, model.TimelineEvent{
				ID:        uuid.NewString(),
				Timestamp: inc.OccurredAt.Add(ev.offset),
				Label:     ev.label,
				Actor:     "system",
			})
		}
	}
	if inc.CitizenSnapshot == (model.CitizenSnapshot{}) {
		inc.CitizenSnapshot = citizenSnapshot(inc.CitizenReports, inc.Severity, tier.peopleFactor)
	}
	if inc.PeopleStats == (model.PeopleStats{}) {
		inc.PeopleStats = peopleStats(inc.CitizenReports, inc.Severity, tier.peopleFactor)
	}
	if len(inc.MediaGallery) == 0 {
		inc.MediaGallery = placeholderMedia(inc.ID)
	}
	return inc
}

// PlaybookRef derives the standard-operating-procedure reference from the
// incident type: uppercased, spaces to hyphens, "-SOP" suffix.
func PlaybookRef(incidentType string) string {
	ref := strings.ToUpper(strings.TrimSpace(incidentType))
	ref = strings.ReplaceAll(ref, " ", "-")
	if ref == "" {
		ref = "GENERAL"
	}
	return ref + "-SOP"
}

func citizenSnapshot(reports int, sev model.Severity, factor float64) model.CitizenSnapshot {
	households := int(math.Round(float64(reports) * factor))
	perHousehold := 3.0
	vulnerableRatio := 0.08
	if sev == model.SeverityHigh {
		perHousehold = 3.4
		vulnerableRatio = 0.12
	}
	population := int(math.Round(float64(households) * perHousehold))
	return model.CitizenSnapshot{
		Households: households,
		Population: population,
		Vulnerable: int(math.Round(float64(population) * vulnerableRatio)),
	}
}

func peopleStats(reports int, sev model.Severity, factor float64) model.PeopleStats {
	estimated := int(math.Round(float64(reports) * factor * 3))
	stats := model.PeopleStats{
		Estimated: estimated,
		Evacuated: int(math.Round(float64(estimated) * 0.4)),
		Injured:   int(math.Round(float64(reports) * 0.25)),
	}
	if sev == model.SeverityHigh {
		stats.Missing = int(math.Round(float64(reports) * 0.05))
	}
	return stats
}

func placeholderMedia(incidentID string) []model.MediaItem {
	return []model.MediaItem{
		{
			ID:      uuid.NewString(),
			Kind:    "photo",
			URL:     fmt.Sprintf("https://media.sagip.local/incidents/%s/field-1.jpg", incidentID),
			Caption: "Field report pending upload",
		},
		{
			ID:      uuid.NewString(),
			Kind:    "photo",
			URL:     fmt.Sprintf("https://media.sagip.local/incidents/%s/field-2.jpg", incidentID),
			Caption: "Field report pending upload",
		},
	}
}
