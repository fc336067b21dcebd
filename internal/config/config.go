// Package config holds the file-backed configuration for the engine,
// oracle, and authorization gate, with environment overrides applied on
// top of whatever the YAML file provides.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/synapse-ops/synapse/internal/types"
)

// Config is the root configuration document.
type Config struct {
	Engine     EngineConfig     `yaml:"engine"`
	Oracle     OracleConfig     `yaml:"oracle"`
	Authz      AuthzConfig      `yaml:"authorization"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// EngineConfig bounds the resolution loop.
type EngineConfig struct {
	MaxSteps       int           `yaml:"max_steps"`
	MaxReflections int           `yaml:"max_reflections"`
	OracleTimeout  time.Duration `yaml:"oracle_timeout"`
	ActionTimeout  time.Duration `yaml:"action_timeout"`
}

// OracleConfig selects and tunes the reasoning backend.
type OracleConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// AuthzConfig tunes the authorization gate.
type AuthzConfig struct {
	EmergencyOverride bool               `yaml:"emergency_override"`
	Allowlist         []string           `yaml:"allowlist"`
	Floors            map[string]float64 `yaml:"floors"`
}

// TelemetryConfig tunes the periodic reporter.
type TelemetryConfig struct {
	ReportInterval time.Duration `yaml:"report_interval"`
}

// SimulationConfig seeds the simulated action catalog and approver.
type SimulationConfig struct {
	Seed int64 `yaml:"seed"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxSteps:       15,
			MaxReflections: 3,
			OracleTimeout:  30 * time.Second,
			ActionTimeout:  10 * time.Second,
		},
		Oracle: OracleConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Temperature: 0.2,
			MaxTokens:   2000,
		},
		Authz: AuthzConfig{
			EmergencyOverride: true,
		},
		Telemetry: TelemetryConfig{
			ReportInterval: 30 * time.Second,
		},
		Simulation: SimulationConfig{
			Seed: 42,
		},
	}
}

// ApplyEnvironmentOverrides checks for SYNAPSE_* environment variables
// and overrides the corresponding values if they are set.
//
// Supported variables: SYNAPSE_MAX_STEPS, SYNAPSE_MAX_REFLECTIONS,
// SYNAPSE_ORACLE_TIMEOUT, SYNAPSE_ORACLE_PROVIDER, SYNAPSE_ORACLE_MODEL,
// SYNAPSE_SEED.
func (c *Config) ApplyEnvironmentOverrides() {
	if v := os.Getenv("SYNAPSE_MAX_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Engine.MaxSteps = n
		}
	}
	if v := os.Getenv("SYNAPSE_MAX_REFLECTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Engine.MaxReflections = n
		}
	}
	if v := os.Getenv("SYNAPSE_ORACLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Engine.OracleTimeout = d
		}
	}
	if v := os.Getenv("SYNAPSE_ORACLE_PROVIDER"); v != "" {
		c.Oracle.Provider = v
	}
	if v := os.Getenv("SYNAPSE_ORACLE_MODEL"); v != "" {
		c.Oracle.Model = v
	}
	if v := os.Getenv("SYNAPSE_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Simulation.Seed = n
		}
	}
}

// Validate checks the configuration for values the engine cannot run
// with.
func (c *Config) Validate() error {
	if c.Engine.MaxSteps <= 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "engine.max_steps must be positive")
	}
	if c.Engine.MaxReflections <= 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "engine.max_reflections must be positive")
	}
	if c.Engine.OracleTimeout <= 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "engine.oracle_timeout must be positive")
	}
	if c.Oracle.Model == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "oracle.model is required")
	}
	if c.Oracle.Temperature < 0 || c.Oracle.Temperature > 2 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "oracle.temperature must be in [0, 2]")
	}
	for name, floor := range c.Authz.Floors {
		if floor < 0 {
			return types.NewError(types.CONFIG_VALIDATION_FAILED, "authorization floor for "+name+" must not be negative")
		}
	}
	return nil
}
