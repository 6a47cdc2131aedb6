package dispatchapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagip-ops/sagip/core/engine"
	"github.com/sagip-ops/sagip/core/model"
	infralogger "github.com/sagip-ops/sagip/infra/logger"
)

func newTestServer(t *testing.T) (*httptest.Server, *engine.Engine) {
	t.Helper()
	eng := engine.New(engine.Config{}, engine.WithClock(func() time.Time {
		return time.Date(2025, 7, 12, 12, 0, 0, 0, time.UTC)
	}))
	_, err := eng.RegisterIncident(model.Incident{
		ID:          "INC-001",
		Type:        "Flood",
		Severity:    model.SeverityHigh,
		Location:    "Barangay Bagong Silang",
		Coordinates: model.Coordinates{Lat: 14.6507, Lng: 121.1029},
	})
	require.NoError(t, err)
	eng.UpsertResponder(model.Responder{
		ID:             "R-001",
		Name:           "Rescue Alpha",
		Status:         model.ResponderAvailable,
		Specialization: []string{"Flood Rescue"},
		Coordinates:    model.Coordinates{Lat: 14.6530, Lng: 121.1060},
		Workload:       0.3,
	})
	eng.UpsertFacility(model.Facility{
		ID:          "F-001",
		Name:        "Evac Center 1",
		Type:        "Evacuation",
		Coordinates: model.Coordinates{Lat: 14.6512, Lng: 121.1040},
	})
	srv := httptest.NewServer(New(eng, infralogger.NopLogger{}).Routes())
	t.Cleanup(srv.Close)
	return srv, eng
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func postJSON(t *testing.T, url string, body any, out any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestListAndGetIncident(t *testing.T) {
	srv, _ := newTestServer(t)

	var incidents []model.Incident
	resp := getJSON(t, srv.URL+"/api/incidents", &incidents)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, incidents, 1)
	assert.Equal(t, "INC-001", incidents[0].ID)

	var inc model.Incident
	resp = getJSON(t, srv.URL+"/api/incidents/INC-001", &inc)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, model.SeverityHigh, inc.Severity)

	resp = getJSON(t, srv.URL+"/api/incidents/INC-404", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterIncident(t *testing.T) {
	srv, eng := newTestServer(t)

	var inc model.Incident
	resp := postJSON(t, srv.URL+"/api/incidents", map[string]any{
		"id":       "INC-002",
		"type":     "Fire",
		"severity": "Medium",
		"location": "Barangay Commonwealth",
	}, &inc)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "INC-002", inc.ID)
	assert.NotEmpty(t, inc.Timeline)

	stored, err := eng.Incident("INC-002")
	require.NoError(t, err)
	assert.Equal(t, model.SeverityMedium, stored.Severity)
}

func TestRegisterIncidentRejectsBadPayload(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Post(srv.URL+"/api/incidents", "application/json", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAssignFlow(t *testing.T) {
	srv, eng := newTestServer(t)

	var inc model.Incident
	resp := postJSON(t, srv.URL+"/api/incidents/INC-001/assign", assignRequest{
		ResponderID: "R-001",
		ETAMinutes:  4,
	}, &inc)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, inc.AssignedResponder)
	assert.Equal(t, "R-001", inc.AssignedResponder.ID)
	assert.Equal(t, 4, inc.AssignedResponder.ETAMinutes)

	r, err := eng.Responder("R-001")
	require.NoError(t, err)
	assert.Equal(t, "INC-001", r.CurrentAssignment)

	resp = postJSON(t, srv.URL+"/api/incidents/INC-001/assign", assignRequest{ResponderID: "R-404"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/incidents/INC-001/assign", assignRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResolveAndHistory(t *testing.T) {
	srv, _ := newTestServer(t)

	postJSON(t, srv.URL+"/api/incidents/INC-001/assign", assignRequest{ResponderID: "R-001"}, nil)

	var inc model.Incident
	resp := postJSON(t, srv.URL+"/api/incidents/INC-001/resolve", notesRequest{Notes: "all clear"}, &inc)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, model.StatusResolved, inc.Status)
	require.NotNil(t, inc.ResolvedAt)

	var history []model.HistoryRecord
	resp = getJSON(t, srv.URL+"/api/history", &history)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, history)
	assert.Equal(t, "Resolved", history[0].Outcome)
}

func TestSnoozeAndActiveFilter(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/incidents/INC-001/snooze", map[string]int{"minutes": 0}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var active []model.Incident
	getJSON(t, srv.URL+"/api/incidents?active=true", &active)
	assert.Empty(t, active)

	var all []model.Incident
	getJSON(t, srv.URL+"/api/incidents", &all)
	assert.Len(t, all, 1)
}

func TestSuggestionsAndFacilities(t *testing.T) {
	srv, _ := newTestServer(t)

	var ranked []map[string]any
	resp := getJSON(t, srv.URL+"/api/incidents/INC-001/suggestions?limit=3", &ranked)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, ranked, 1)

	var nearest []map[string]any
	resp = getJSON(t, srv.URL+"/api/incidents/INC-001/facilities", &nearest)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, nearest, 1)

	resp = getJSON(t, srv.URL+"/api/incidents/INC-404/suggestions", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResponderEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	var responders []model.Responder
	getJSON(t, srv.URL+"/api/responders", &responders)
	require.Len(t, responders, 1)

	var updated model.Responder
	resp := postJSON(t, srv.URL+"/api/responders/R-001/status", map[string]string{"status": "Standby"}, &updated)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, model.ResponderStandby, updated.Status)

	resp = postJSON(t, srv.URL+"/api/responders/R-404/status", map[string]string{"status": "Standby"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/responders/R-001/status", map[string]string{"status": "Lost"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFacilityUpsertAndRemove(t *testing.T) {
	srv, _ := newTestServer(t)

	b, _ := json.Marshal(model.Facility{ID: "F-002", Name: "Clinic", Type: "Medical"})
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/facilities", bytes.NewReader(b))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err = http.NewRequest(http.MethodDelete, srv.URL+"/api/facilities/F-002", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	req, err = http.NewRequest(http.MethodDelete, srv.URL+"/api/facilities/F-404", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCallEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	var rec model.CallRecord
	resp := postJSON(t, srv.URL+"/api/incidents/INC-001/calls", map[string]string{
		"responder_id": "R-001",
		"notes":        "verify access road",
	}, &rec)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "R-001", rec.ResponderID)

	var calls []model.CallRecord
	getJSON(t, srv.URL+"/api/calls", &calls)
	require.Len(t, calls, 1)
}

func TestKPIEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	var kpi engine.KPISummary
	resp := getJSON(t, srv.URL+"/api/kpis", &kpi)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, kpi.ActiveIncidents)
}
