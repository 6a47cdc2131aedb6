// Package dispatchapi exposes the dispatch engine over a JSON HTTP surface.
package dispatchapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sagip-ops/sagip/core/engine"
	"github.com/sagip-ops/sagip/core/logger"
	"github.com/sagip-ops/sagip/core/model"
)

// Handler routes HTTP requests to engine commands and queries.
type Handler struct {
	eng *engine.Engine
	log logger.Logger
}

// New builds a Handler around the given engine.
func New(eng *engine.Engine, log logger.Logger) *Handler {
	return &Handler{eng: eng, log: log}
}

// Routes registers every endpoint on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/incidents", h.listIncidents)
	mux.HandleFunc("POST /api/incidents", h.registerIncident)
	mux.HandleFunc("GET /api/incidents/{id}", h.getIncident)
	mux.HandleFunc("GET /api/incidents/{id}/suggestions", h.suggestions)
	mux.HandleFunc("GET /api/incidents/{id}/facilities", h.nearestFacilities)
	mux.HandleFunc("POST /api/incidents/{id}/assign", h.assign)
	mux.HandleFunc("POST /api/incidents/{id}/resolve", h.resolve)
	mux.HandleFunc("POST /api/incidents/{id}/cancel", h.cancel)
	mux.HandleFunc("POST /api/incidents/{id}/snooze", h.snooze)
	mux.HandleFunc("POST /api/incidents/{id}/clear-conflict", h.clearConflict)
	mux.HandleFunc("POST /api/incidents/{id}/calls", h.registerCall)
	mux.HandleFunc("GET /api/responders", h.listResponders)
	mux.HandleFunc("PUT /api/responders", h.upsertResponder)
	mux.HandleFunc("POST /api/responders/{id}/status", h.responderStatus)
	mux.HandleFunc("GET /api/facilities", h.listFacilities)
	mux.HandleFunc("PUT /api/facilities", h.upsertFacility)
	mux.HandleFunc("DELETE /api/facilities/{id}", h.removeFacility)
	mux.HandleFunc("GET /api/history", h.listHistory)
	mux.HandleFunc("GET /api/calls", h.listCalls)
	mux.HandleFunc("GET /api/kpis", h.kpis)
	return mux
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("encode response: %v", err)
	}
}

func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrIncidentNotFound),
		errors.Is(err, engine.ErrResponderNotFound),
		errors.Is(err, engine.ErrFacilityNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) listIncidents(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("active") == "true" {
		h.writeJSON(w, http.StatusOK, h.eng.ActiveIncidents())
		return
	}
	h.writeJSON(w, http.StatusOK, h.eng.Incidents())
}

func (h *Handler) getIncident(w http.ResponseWriter, r *http.Request) {
	inc, err := h.eng.Incident(r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, inc)
}

func (h *Handler) registerIncident(w http.ResponseWriter, r *http.Request) {
	var raw model.Incident
	if err := decode(r, &raw); err != nil {
		http.Error(w, "invalid payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	inc, err := h.eng.RegisterIncident(raw)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, inc)
}

type assignRequest struct {
	ResponderID    string `json:"responder_id"`
	ETAMinutes     int    `json:"eta_minutes"`
	Notes          string `json:"notes"`
	DecisionSource string `json:"decision_source"`
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ResponderID == "" {
		http.Error(w, "responder_id is required", http.StatusBadRequest)
		return
	}
	inc, err := h.eng.AssignResponder(r.PathValue("id"), req.ResponderID, engine.AssignOptions{
		ETAMinutes:     req.ETAMinutes,
		Notes:          req.Notes,
		DecisionSource: req.DecisionSource,
	})
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, inc)
}

type notesRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	inc, err := h.eng.MarkResolved(r.PathValue("id"), req.Notes)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, inc)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	inc, err := h.eng.MarkCancelled(r.PathValue("id"), req.Notes)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, inc)
}

func (h *Handler) snooze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	inc, err := h.eng.SnoozeIncident(r.PathValue("id"), req.Minutes)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, inc)
}

func (h *Handler) clearConflict(w http.ResponseWriter, r *http.Request) {
	inc, err := h.eng.ClearConflict(r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, inc)
}

func (h *Handler) registerCall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ResponderID string `json:"responder_id"`
		Notes       string `json:"notes"`
	}
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ResponderID == "" {
		http.Error(w, "responder_id is required", http.StatusBadRequest)
		return
	}
	rec, err := h.eng.RegisterCall(r.PathValue("id"), req.ResponderID, req.Notes)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) suggestions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			limit = v
		}
	}
	ranked, err := h.eng.SuggestResponders(r.PathValue("id"), limit)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ranked)
}

func (h *Handler) nearestFacilities(w http.ResponseWriter, r *http.Request) {
	nearest, err := h.eng.NearestFacilities(r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, nearest)
}

func (h *Handler) listResponders(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.eng.Responders())
}

func (h *Handler) upsertResponder(w http.ResponseWriter, r *http.Request) {
	var res model.Responder
	if err := decode(r, &res); err != nil {
		http.Error(w, "invalid payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if res.ID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	h.writeJSON(w, http.StatusOK, h.eng.UpsertResponder(res))
}

func (h *Handler) responderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status model.ResponderStatus `json:"status"`
	}
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	res, err := h.eng.UpdateResponderStatus(r.PathValue("id"), req.Status)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

func (h *Handler) listFacilities(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.eng.Facilities())
}

func (h *Handler) upsertFacility(w http.ResponseWriter, r *http.Request) {
	var f model.Facility
	if err := decode(r, &f); err != nil {
		http.Error(w, "invalid payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if f.ID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	h.writeJSON(w, http.StatusOK, h.eng.UpsertFacility(f))
}

func (h *Handler) removeFacility(w http.ResponseWriter, r *http.Request) {
	if err := h.eng.RemoveFacility(r.PathValue("id")); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.eng.History())
}

func (h *Handler) listCalls(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.eng.CallLog())
}

func (h *Handler) kpis(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.eng.KPIs())
}
