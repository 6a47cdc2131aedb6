package engine

import "github.com/sagip-ops/sagip/core/model"

// Events published on the engine's bus after a command commits. Consumers
// receive copies; nothing they do can affect engine state.

// IncidentRegistered signals a new or replaced incident record.
type IncidentRegistered struct {
	Incident model.Incident
}

// ResponderAssigned signals a committed assignment or reassignment.
type ResponderAssigned struct {
	Incident   model.Incident
	Responder  model.Responder
	Reassigned bool
}

// IncidentClosed signals a terminal transition (resolved or cancelled).
type IncidentClosed struct {
	Incident model.Incident
	Outcome  string
}

// CallLogged signals a pre-confirmation contact attempt.
type CallLogged struct {
	Call model.CallRecord
}

// ConflictFlagged signals that an incident needs dispatcher attention,
// typically because its assignee went off rotation.
type ConflictFlagged struct {
	Incident model.Incident
	Reason   string
}
