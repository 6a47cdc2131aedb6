package config

import "fmt"

// LoggingConfig defines log output settings.
type LoggingConfig struct {
	// Level selects the minimum level: debug, info, warn or error.
	Level string `json:"level"`
	// Format selects the output format: "json" or "console".
	Format string `json:"format"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
}

// Validate checks the configured values.
func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %s", c.Level)
	}
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("unknown log format %s", c.Format)
	}
	return nil
}
