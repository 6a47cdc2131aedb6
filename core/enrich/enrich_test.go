package enrich

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagip-ops/sagip/core/model"
)

func rawIncident() model.Incident {
	return model.Incident{
		ID:         "INC-001",
		Type:       "Flash Flood",
		Severity:   model.SeverityHigh,
		Location:   "Barangay Bagong Pag-asa",
		OccurredAt: time.Date(2025, 7, 12, 14, 30, 0, 0, time.UTC),
	}
}

func TestIncidentAppliesSeverityDefaults(t *testing.T) {
	inc := Incident(rawIncident())

	assert.Equal(t, 18, inc.CitizenReports)
	assert.Equal(t, 0.82, inc.AIHazardScore)
	assert.Equal(t, model.RiskRed, inc.RiskBand)
	assert.Equal(t, 2.5, inc.ImpactRadiusKm)
	assert.Contains(t, inc.AISummary, "flash flood")
	assert.Equal(t, "FLASH-FLOOD-SOP", inc.PlaybookRef)
}

func TestIncidentSeedsTimeline(t *testing.T) {
	inc := Incident(rawIncident())
	require.Len(t, inc.Timeline, 3)

	occurred := rawIncident().OccurredAt
	assert.Equal(t, occurred.Add(-2*time.Minute), inc.Timeline[0].Timestamp)
	assert.Equal(t, occurred.Add(-1*time.Minute), inc.Timeline[1].Timestamp)
	assert.Equal(t, occurred.Add(-18*time.Second), inc.Timeline[2].Timestamp)
	for _, ev := range inc.Timeline {
		assert.NotEmpty(t, ev.ID)
		assert.Equal(t, "system", ev.Actor)
	}
}

func TestIncidentDerivesCitizenFootprint(t *testing.T) {
	inc := Incident(rawIncident())

	// 18 reports * 2.6 = 47 households; * 3.4 = 160 population; * 0.12 = 19.
	assert.Equal(t, 47, inc.CitizenSnapshot.Households)
	assert.Equal(t, 160, inc.CitizenSnapshot.Population)
	assert.Equal(t, 19, inc.CitizenSnapshot.Vulnerable)

	assert.Equal(t, 140, inc.PeopleStats.Estimated)
	assert.Equal(t, 56, inc.PeopleStats.Evacuated)
	assert.Equal(t, 5, inc.PeopleStats.Injured)
	assert.Equal(t, 1, inc.PeopleStats.Missing)
}

func TestIncidentLowSeverityDefaults(t *testing.T) {
	raw := rawIncident()
	raw.Severity = model.SeverityLow
	inc := Incident(raw)

	assert.Equal(t, 4, inc.CitizenReports)
	assert.Equal(t, model.RiskBlue, inc.RiskBand)
	assert.Equal(t, 0.6, inc.ImpactRadiusKm)
	assert.Zero(t, inc.PeopleStats.Missing)
}

func TestIncidentKeepsSuppliedFields(t *testing.T) {
	raw := rawIncident()
	raw.CitizenReports = 40
	raw.AIHazardScore = 0.66
	raw.AISummary = "Field-verified summary."
	raw.MediaGallery = []model.MediaItem{{ID: "m1", Kind: "photo", URL: "https://example.com/1.jpg"}}

	inc := Incident(raw)
	assert.Equal(t, 40, inc.CitizenReports)
	assert.Equal(t, 0.66, inc.AIHazardScore)
	assert.Equal(t, "Field-verified summary.", inc.AISummary)
	require.Len(t, inc.MediaGallery, 1)
	assert.Equal(t, "m1", inc.MediaGallery[0].ID)
}

func TestIncidentIdempotent(t *testing.T) {
	once := Incident(rawIncident())
	twice := Incident(once)
	assert.Equal(t, once, twice)
}

func TestIncidentDoesNotMutateInput(t *testing.T) {
	raw := rawIncident()
	_ = Incident(raw)
	assert.Equal(t, rawIncident(), raw)
}

func TestPlaybookRef(t *testing.T) {
	assert.Equal(t, "FLOOD-SOP", PlaybookRef("Flood"))
	assert.Equal(t, "STRUCTURAL-FIRE-SOP", PlaybookRef("Structural Fire"))
	assert.Equal(t, "GENERAL-SOP", PlaybookRef(""))
}
