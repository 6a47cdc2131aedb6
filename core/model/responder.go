package model

import "time"

// ResponderStatus is the closed vocabulary of field-responder states.
type ResponderStatus int

const (
	ResponderAvailable ResponderStatus = iota
	ResponderStandby
	ResponderEnRoute
	ResponderOnScene
	ResponderOnMission
	ResponderOffDuty
)

func (s ResponderStatus) String() string {
	switch s {
	case ResponderAvailable:
		return "Available"
	case ResponderStandby:
		return "Standby"
	case ResponderEnRoute:
		return "En Route"
	case ResponderOnScene:
		return "On Scene"
	case ResponderOnMission:
		return "On Mission"
	case ResponderOffDuty:
		return "Off Duty"
	default:
		return "unknown"
	}
}

// ParseResponderStatus maps a status label to its enum value.
func ParseResponderStatus(s string) (ResponderStatus, bool) {
	switch s {
	case "Available":
		return ResponderAvailable, true
	case "Standby":
		return ResponderStandby, true
	case "En Route":
		return ResponderEnRoute, true
	case "On Scene":
		return ResponderOnScene, true
	case "On Mission":
		return ResponderOnMission, true
	case "Off Duty":
		return ResponderOffDuty, true
	default:
		return ResponderAvailable, false
	}
}

// Deployed reports whether the responder is actively engaged on a mission.
func (s ResponderStatus) Deployed() bool {
	return s == ResponderEnRoute || s == ResponderOnScene || s == ResponderOnMission
}

// Idle reports whether the responder may not hold a current assignment.
func (s ResponderStatus) Idle() bool {
	return s == ResponderAvailable || s == ResponderOffDuty
}

// Responder is a field unit in the dispatch directory.
type Responder struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Agency         string   `json:"agency"`
	Specialization []string `json:"specialization"`
	Certifications []string `json:"certifications"`

	Status ResponderStatus `json:"status"`
	// CurrentAssignment holds the incident id the responder is committed
	// to; empty means unassigned.
	CurrentAssignment string `json:"current_assignment,omitempty"`

	Coordinates Coordinates `json:"coordinates"`
	// Workload is a soft-clamped utilization ratio in [0,1].
	Workload float64 `json:"workload"`
	// ETAMinutes is the last estimated arrival time; 0 means unknown.
	ETAMinutes int `json:"eta_minutes,omitempty"`
	// ShiftWindow is a clock range "HH:MM-HH:MM"; it may wrap past midnight.
	ShiftWindow string `json:"shift_window,omitempty"`

	LastActive time.Time `json:"last_active"`
	LastPingAt time.Time `json:"last_ping_at"`
}

// Clone returns a deep copy of the responder.
func (r *Responder) Clone() Responder {
	out := *r
	out.Specialization = append([]string(nil), r.Specialization...)
	out.Certifications = append([]string(nil), r.Certifications...)
	return out
}
