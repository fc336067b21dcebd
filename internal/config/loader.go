package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/synapse-ops/synapse/internal/types"
)

// Load reads a YAML config file, layers it over the defaults, applies
// environment overrides, and validates the result. An empty path skips
// the file and returns the default configuration with overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "reading config file", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "parsing config file", err)
		}
	}

	cfg.ApplyEnvironmentOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
