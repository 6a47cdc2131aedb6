package model

import "time"

// AfterAction is the debrief block embedded in a history record.
type AfterAction struct {
	Worked  string   `json:"worked"`
	Improve string   `json:"improve"`
	Actions []string `json:"actions"`
}

// HistoryRecord is an immutable snapshot archived when an incident is
// assigned or reaches a terminal state. Records are never mutated after
// creation.
type HistoryRecord struct {
	ID             string      `json:"id"`
	IncidentID     string      `json:"incident_id"`
	At             time.Time   `json:"at"`
	DecisionType   string      `json:"decision_type"`
	Outcome        string      `json:"outcome"`
	Type           string      `json:"type"`
	Severity       Severity    `json:"severity"`
	Barangay       string      `json:"barangay"`
	Responder      string      `json:"responder"`
	PeopleAssisted int         `json:"people_assisted"`
	MediaURLs      []string    `json:"media_urls,omitempty"`
	Summary        string      `json:"summary,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	AfterAction    AfterAction `json:"after_action"`
}

// CallRecord logs a pre-confirmation contact attempt with a responder.
type CallRecord struct {
	IncidentID  string    `json:"incident_id"`
	ResponderID string    `json:"responder_id"`
	At          time.Time `json:"at"`
	Notes       string    `json:"notes,omitempty"`
}
