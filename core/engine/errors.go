package engine

import "errors"

// Commands targeting unknown ids fail with these sentinel errors and leave
// the store untouched. Callers that prefer tolerate-and-continue semantics
// can test with errors.Is and drop the result.
var (
	ErrIncidentNotFound  = errors.New("incident not found")
	ErrResponderNotFound = errors.New("responder not found")
	ErrFacilityNotFound  = errors.New("facility not found")
)
