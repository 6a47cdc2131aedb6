// Package config loads the service configuration from a yaml or json file
// with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/sagip-ops/sagip/core/engine"
	"github.com/sagip-ops/sagip/core/metrics"
	"github.com/sagip-ops/sagip/infra/mqtt"
)

// Config aggregates the configuration of every subsystem.
type Config struct {
	Engine  engine.Config  `json:"engine"`
	MQTT    mqtt.Config    `json:"mqtt"`
	Metrics metrics.Config `json:"metrics"`
	Logging LoggingConfig  `json:"logging"`
	API     APIConfig      `json:"api"`
}

// APIConfig parameterizes the JSON HTTP surface.
type APIConfig struct {
	ListenAddr string `json:"listen_addr"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
}

// Load reads the configuration file at path. Environment variables prefixed
// with SGP_ override file values, with __ separating nested keys.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("SGP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "sgp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Engine.SetDefaults()
	cfg.MQTT.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.API.SetDefaults()
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
