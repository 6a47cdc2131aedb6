// Package geo provides great-circle distance math for dispatch ranking.
package geo

import (
	"math"

	"github.com/sagip-ops/sagip/core/model"
)

const earthRadiusKm = 6371.0

// Distance returns the haversine distance in kilometers between two points.
// ok is false when either point is missing or non-finite; coincident points
// yield exactly zero.
func Distance(a, b model.Coordinates) (km float64, ok bool) {
	if !a.Valid() || !b.Valid() || a.IsZero() || b.IsZero() {
		return 0, false
	}
	if a == b {
		return 0, true
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng
	// Clamp for numerical safety near antipodal points.
	if h > 1 {
		h = 1
	}
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h)), true
}
