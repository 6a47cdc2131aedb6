package engine

import "github.com/sagip-ops/sagip/core/model"

// Config carries the tunable defaults of the engine.
type Config struct {
	// DefaultSnoozeMinutes applies when a snooze command carries no
	// duration.
	DefaultSnoozeMinutes int `json:"default_snooze_minutes"`
	// FallbackLat/FallbackLng replace malformed coordinates on ingest.
	FallbackLat float64 `json:"fallback_lat"`
	FallbackLng float64 `json:"fallback_lng"`
}

// SetDefaults fills unset fields with service defaults. The fallback point
// is the Quezon City command center.
func (c *Config) SetDefaults() {
	if c.DefaultSnoozeMinutes <= 0 {
		c.DefaultSnoozeMinutes = 10
	}
	if c.FallbackLat == 0 && c.FallbackLng == 0 {
		c.FallbackLat = 14.6760
		c.FallbackLng = 121.0437
	}
}

func (c Config) fallback() model.Coordinates {
	return model.Coordinates{Lat: c.FallbackLat, Lng: c.FallbackLng}
}
