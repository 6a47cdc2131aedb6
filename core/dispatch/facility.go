package dispatch

import (
	"sort"

	"github.com/sagip-ops/sagip/core/geo"
	"github.com/sagip-ops/sagip/core/model"
)

// FacilityDistance pairs a facility with its distance to an incident.
type FacilityDistance struct {
	Facility   model.Facility `json:"facility"`
	DistanceKm float64        `json:"distance_km"`
}

// NearestFacilities selects, for each facility type, the facility closest
// to the incident, sorted ascending by distance. Facilities without a
// usable fix are skipped.
func NearestFacilities(inc model.Incident, facilities []model.Facility) []FacilityDistance {
	nearest := make(map[string]FacilityDistance)
	for _, f := range facilities {
		km, ok := geo.Distance(inc.Coordinates, f.Coordinates)
		if !ok {
			continue
		}
		best, seen := nearest[f.Type]
		if !seen || km < best.DistanceKm {
			nearest[f.Type] = FacilityDistance{Facility: f, DistanceKm: km}
		}
	}
	out := make([]FacilityDistance, 0, len(nearest))
	for _, fd := range nearest {
		out = append(out, fd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}
