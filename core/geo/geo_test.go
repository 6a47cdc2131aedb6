package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sagip-ops/sagip/core/model"
)

func TestDistanceKnownPair(t *testing.T) {
	km, ok := Distance(
		model.Coordinates{Lat: 14.676, Lng: 121.0437},
		model.Coordinates{Lat: 14.6795, Lng: 121.0452},
	)
	assert.True(t, ok)
	assert.InDelta(t, 0.42, km, 0.02)
}

func TestDistanceCoincident(t *testing.T) {
	p := model.Coordinates{Lat: 14.676, Lng: 121.0437}
	km, ok := Distance(p, p)
	assert.True(t, ok)
	assert.Zero(t, km)
}

func TestDistanceAntipodal(t *testing.T) {
	km, ok := Distance(
		model.Coordinates{Lat: 45, Lng: 90},
		model.Coordinates{Lat: -45, Lng: -90},
	)
	assert.True(t, ok)
	// Half the Earth's circumference.
	assert.InDelta(t, math.Pi*6371, km, 1)
	assert.False(t, math.IsNaN(km))
}

func TestDistanceInvalid(t *testing.T) {
	cases := []struct {
		name string
		a, b model.Coordinates
	}{
		{"missing", model.Coordinates{}, model.Coordinates{Lat: 1, Lng: 1}},
		{"nan", model.Coordinates{Lat: math.NaN(), Lng: 0}, model.Coordinates{Lat: 1, Lng: 1}},
		{"inf", model.Coordinates{Lat: math.Inf(1), Lng: 0}, model.Coordinates{Lat: 1, Lng: 1}},
		{"out of range", model.Coordinates{Lat: 95, Lng: 0}, model.Coordinates{Lat: 1, Lng: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := Distance(tc.a, tc.b)
			assert.False(t, ok)
		})
	}
}
