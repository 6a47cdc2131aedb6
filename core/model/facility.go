package model

import "time"

// Facility is a point of interest (hospital, evacuation center, fire
// station) consulted read-only by nearest-facility queries.
type Facility struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Name        string      `json:"name"`
	Address     string      `json:"address,omitempty"`
	Hotline     string      `json:"hotline,omitempty"`
	Status      string      `json:"status,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
	Notes       string      `json:"notes,omitempty"`
	LastUpdated time.Time   `json:"last_updated"`
}
