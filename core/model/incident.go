package model

import "time"

// Severity classifies how serious an incident is.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

// String returns a human-readable representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "Low"
	case SeverityMedium:
		return "Medium"
	case SeverityHigh:
		return "High"
	default:
		return "unknown"
	}
}

// ParseSeverity maps a severity label to its enum value. Unknown labels
// default to Medium.
func ParseSeverity(s string) Severity {
	switch s {
	case "Low", "low":
		return SeverityLow
	case "High", "high":
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// RiskBand is the triage color band assigned to an incident.
type RiskBand int

const (
	RiskBlue RiskBand = iota
	RiskAmber
	RiskRed
)

func (b RiskBand) String() string {
	switch b {
	case RiskRed:
		return "Red"
	case RiskAmber:
		return "Amber"
	default:
		return "Blue"
	}
}

// IncidentStatus is the closed vocabulary of incident lifecycle states.
type IncidentStatus int

const (
	StatusAwaitingDispatch IncidentStatus = iota
	StatusResponderMobilized
	StatusInProgress
	StatusAssessmentOngoing
	StatusResolved
	StatusCancelled
	StatusClosed
)

func (s IncidentStatus) String() string {
	switch s {
	case StatusAwaitingDispatch:
		return "Awaiting Dispatch"
	case StatusResponderMobilized:
		return "Responder Mobilized"
	case StatusInProgress:
		return "In Progress"
	case StatusAssessmentOngoing:
		return "Assessment Ongoing"
	case StatusResolved:
		return "Resolved"
	case StatusCancelled:
		return "Cancelled"
	case StatusClosed:
		return "Closed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status ends the incident lifecycle.
func (s IncidentStatus) Terminal() bool {
	return s == StatusResolved || s == StatusCancelled || s == StatusClosed
}

// TimelineEvent is a single entry in an incident's append-only timeline.
type TimelineEvent struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Label     string    `json:"label"`
	Actor     string    `json:"actor"`
}

// StatusChange records one transition in the incident status history.
type StatusChange struct {
	Status    IncidentStatus `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Detail    string         `json:"detail"`
}

// Decision is one entry of the incident's decision log.
type Decision struct {
	ID            string    `json:"id"`
	At            time.Time `json:"at"`
	Action        string    `json:"action"`
	Actor         string    `json:"actor"`
	ResponderID   string    `json:"responder_id,omitempty"`
	ResponderName string    `json:"responder_name,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

// Flags carries independent advisory markers on an incident. A nil entry
// means the marker is not set; the string is a short operator-facing reason.
type Flags struct {
	Duplicate    *string `json:"duplicate,omitempty"`
	OfflineCache *string `json:"offline_cache,omitempty"`
	Conflict     *string `json:"conflict,omitempty"`
}

// AssignedResponder is a denormalized snapshot of the responder currently
// assigned to an incident. It is a cache kept consistent by the engine's
// commands, not a live link to the responder record.
type AssignedResponder struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Status     ResponderStatus `json:"status"`
	ETAMinutes int             `json:"eta_minutes"`
	LastSynced time.Time       `json:"last_synced"`
}

// Route is a straight two-point path between responder and incident.
type Route struct {
	Path      [2]Coordinates `json:"path"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CitizenSnapshot estimates the civilian footprint of an incident.
type CitizenSnapshot struct {
	Households int `json:"households"`
	Population int `json:"population"`
	Vulnerable int `json:"vulnerable"`
}

// PeopleStats tracks affected-people counters for an incident.
type PeopleStats struct {
	Estimated int `json:"estimated"`
	Evacuated int `json:"evacuated"`
	Injured   int `json:"injured"`
	Missing   int `json:"missing"`
}

// MediaItem is one entry of an incident's media gallery.
type MediaItem struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// Incident is the central record managed by the dispatch engine.
type Incident struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Severity    Severity       `json:"severity"`
	Location    string         `json:"location"`
	Coordinates Coordinates    `json:"coordinates"`
	Status      IncidentStatus `json:"status"`
	OccurredAt  time.Time      `json:"occurred_at"`

	CitizenReports    int      `json:"citizen_reports"`
	AIHazardScore     float64  `json:"ai_hazard_score"`
	RiskBand          RiskBand `json:"risk_band"`
	ImpactRadiusKm    float64  `json:"impact_radius_km"`
	AISummary         string   `json:"ai_summary"`
	RecommendedAction string   `json:"recommended_action,omitempty"`
	PlaybookRef       string   `json:"playbook_ref,omitempty"`

	AssignedResponder *AssignedResponder `json:"assigned_responder,omitempty"`
	AssignedRoute     *Route             `json:"assigned_route,omitempty"`

	Timeline      []TimelineEvent `json:"timeline"`
	StatusHistory []StatusChange  `json:"status_history"`
	DecisionLog   []Decision      `json:"decision_log"`

	CitizenSnapshot CitizenSnapshot `json:"citizen_snapshot"`
	PeopleStats     PeopleStats     `json:"people_stats"`
	MediaGallery    []MediaItem     `json:"media_gallery"`

	Flags        Flags      `json:"flags"`
	SnoozedUntil *time.Time `json:"snoozed_until,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`

	// Version increments on every mutating command.
	Version int `json:"version"`
}

// Snoozed reports whether the incident is suppressed from active views at
// the given instant.
func (i *Incident) Snoozed(now time.Time) bool {
	return i.SnoozedUntil != nil && i.SnoozedUntil.After(now)
}

// Clone returns a deep copy of the incident so callers can hand out
// snapshots without exposing engine-owned slices.
func (i *Incident) Clone() Incident {
	out := *i
	if i.AssignedResponder != nil {
		ar := *i.AssignedResponder
		out.AssignedResponder = &ar
	}
	if i.AssignedRoute != nil {
		rt := *i.AssignedRoute
		out.AssignedRoute = &rt
	}
	out.Timeline = append([]TimelineEvent(nil), i.Timeline...)
	out.StatusHistory = append([]StatusChange(nil), i.StatusHistory...)
	out.DecisionLog = append([]Decision(nil), i.DecisionLog...)
	out.MediaGallery = append([]MediaItem(nil), i.MediaGallery...)
	out.Flags = cloneFlags(i.Flags)
	if i.SnoozedUntil != nil {
		t := *i.SnoozedUntil
		out.SnoozedUntil = &t
	}
	if i.ResolvedAt != nil {
		t := *i.ResolvedAt
		out.ResolvedAt = &t
	}
	return out
}

func cloneFlags(f Flags) Flags {
	out := Flags{}
	if f.Duplicate != nil {
		v := *f.Duplicate
		out.Duplicate = &v
	}
	if f.OfflineCache != nil {
		v := *f.OfflineCache
		out.OfflineCache = &v
	}
	if f.Conflict != nil {
		v := *f.Conflict
		out.Conflict = &v
	}
	return out
}
