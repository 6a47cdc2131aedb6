package model

import "math"

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both components are finite and within range.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// IsZero reports whether the point is the unset zero value. The null island
// origin is treated as absent rather than a real location.
func (c Coordinates) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}
