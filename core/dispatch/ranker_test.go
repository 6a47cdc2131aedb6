package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagip-ops/sagip/core/model"
)

func testIncident() model.Incident {
	return model.Incident{
		ID:          "INC-001",
		Type:        "Flood",
		Coordinates: model.Coordinates{Lat: 14.676, Lng: 121.0437},
		OccurredAt:  time.Date(2025, 7, 12, 14, 30, 0, 0, time.UTC),
	}
}

func testResponders() []model.Responder {
	return []model.Responder{
		{ID: "R-001", Status: model.ResponderAvailable, Specialization: []string{"Flood"}, Workload: 0.3,
			Coordinates: model.Coordinates{Lat: 14.6795, Lng: 121.0452}},
		{ID: "R-002", Status: model.ResponderOnMission, Specialization: []string{"Medical"}, Workload: 0.8,
			Coordinates: model.Coordinates{Lat: 14.70, Lng: 121.06}},
		{ID: "R-003", Status: model.ResponderOffDuty, Specialization: []string{"Flood"}, Workload: 0.1,
			Coordinates: model.Coordinates{Lat: 14.676, Lng: 121.0437}},
		{ID: "R-004", Status: model.ResponderStandby, Specialization: []string{"Fire"}, Workload: 0.5,
			Coordinates: model.Coordinates{Lat: 14.68, Lng: 121.05}},
	}
}

func TestRankExcludesOffDutyAndSortsDescending(t *testing.T) {
	ranked := Rank(testIncident(), testResponders())
	require.Len(t, ranked, 3)
	for _, c := range ranked {
		assert.NotEqual(t, "R-003", c.Responder.ID)
		assert.GreaterOrEqual(t, c.Composite, 0.0)
		assert.LessOrEqual(t, c.Composite, 1.0)
	}
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Composite, ranked[i].Composite)
	}
	assert.Equal(t, "R-001", ranked[0].Responder.ID)
}

func TestRankStableOnTies(t *testing.T) {
	twin := model.Responder{ID: "R-010", Status: model.ResponderAvailable, Specialization: []string{"Flood"},
		Workload: 0.3, Coordinates: model.Coordinates{Lat: 14.6795, Lng: 121.0452}}
	twinCopy := twin.Clone()
	twinCopy.ID = "R-011"

	ranked := Rank(testIncident(), []model.Responder{twin, twinCopy})
	require.Len(t, ranked, 2)
	assert.Equal(t, "R-010", ranked[0].Responder.ID)
	assert.Equal(t, "R-011", ranked[1].Responder.ID)
}

func TestSuggestTopLimits(t *testing.T) {
	inc := testIncident()
	responders := testResponders()

	top := SuggestTop(inc, responders, 2)
	assert.Len(t, top, 2)

	all := SuggestTop(inc, responders, 0)
	assert.Len(t, all, 3, "default limit exceeds candidate count")
}

func TestNearestFacilitiesOnePerType(t *testing.T) {
	inc := testIncident()
	facilities := []model.Facility{
		{ID: "F-001", Type: "Hospital", Coordinates: model.Coordinates{Lat: 14.68, Lng: 121.05}},
		{ID: "F-002", Type: "Hospital", Coordinates: model.Coordinates{Lat: 14.70, Lng: 121.08}},
		{ID: "F-003", Type: "Evacuation Center", Coordinates: model.Coordinates{Lat: 14.677, Lng: 121.044}},
		{ID: "F-004", Type: "Fire Station"}, // no fix, skipped
	}

	got := NearestFacilities(inc, facilities)
	require.Len(t, got, 2)
	assert.Equal(t, "F-003", got[0].Facility.ID)
	assert.Equal(t, "F-001", got[1].Facility.ID)
	assert.Less(t, got[0].DistanceKm, got[1].DistanceKm)
}
