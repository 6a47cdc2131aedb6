package model

import (
	"encoding/json"
	"fmt"
)

// The closed vocabularies marshal as their display strings so API payloads
// and broker messages stay readable.

func (s Severity) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *Severity) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	*s = ParseSeverity(str)
	return nil
}

func (b RiskBand) MarshalJSON() ([]byte, error) { return json.Marshal(b.String()) }

func (b *RiskBand) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "Red":
		*b = RiskRed
	case "Amber":
		*b = RiskAmber
	default:
		*b = RiskBlue
	}
	return nil
}

func (s IncidentStatus) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *IncidentStatus) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	parsed, ok := ParseIncidentStatus(str)
	if !ok {
		return fmt.Errorf("unknown incident status %q", str)
	}
	*s = parsed
	return nil
}

// ParseIncidentStatus maps a status label to its enum value.
func ParseIncidentStatus(s string) (IncidentStatus, bool) {
	switch s {
	case "Awaiting Dispatch", "":
		return StatusAwaitingDispatch, true
	case "Responder Mobilized":
		return StatusResponderMobilized, true
	case "In Progress":
		return StatusInProgress, true
	case "Assessment Ongoing":
		return StatusAssessmentOngoing, true
	case "Resolved":
		return StatusResolved, true
	case "Cancelled":
		return StatusCancelled, true
	case "Closed":
		return StatusClosed, true
	default:
		return StatusAwaitingDispatch, false
	}
}

func (s ResponderStatus) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *ResponderStatus) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	if str == "" {
		*s = ResponderAvailable
		return nil
	}
	parsed, ok := ParseResponderStatus(str)
	if !ok {
		return fmt.Errorf("unknown responder status %q", str)
	}
	*s = parsed
	return nil
}
