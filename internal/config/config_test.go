package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapse-ops/synapse/internal/types"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 15, cfg.Engine.MaxSteps)
	assert.Equal(t, 3, cfg.Engine.MaxReflections)
	assert.Equal(t, 30*time.Second, cfg.Engine.OracleTimeout)
	assert.Equal(t, "openai", cfg.Oracle.Provider)
	assert.True(t, cfg.Authz.EmergencyOverride)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	require.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "synapse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
engine:
  max_steps: 8
  oracle_timeout: 10s
oracle:
  model: gpt-4o
authorization:
  allowlist:
    - notify_customer
  floors:
    supervisor: 50
simulation:
  seed: 7
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Engine.MaxSteps)
	assert.Equal(t, 3, cfg.Engine.MaxReflections, "unset fields keep defaults")
	assert.Equal(t, 10*time.Second, cfg.Engine.OracleTimeout)
	assert.Equal(t, "gpt-4o", cfg.Oracle.Model)
	assert.Equal(t, []string{"notify_customer"}, cfg.Authz.Allowlist)
	assert.Equal(t, 50.0, cfg.Authz.Floors["supervisor"])
	assert.Equal(t, int64(7), cfg.Simulation.Seed)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/synapse.yaml")
	require.Error(t, err)
	assert.Equal(t, types.CONFIG_LOAD_FAILED, types.CodeOf(err))
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: [not a map"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, types.CONFIG_PARSE_FAILED, types.CodeOf(err))
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Engine.MaxSteps)
}

func TestApplyEnvironmentOverrides(t *testing.T) {
	t.Setenv("SYNAPSE_MAX_STEPS", "20")
	t.Setenv("SYNAPSE_ORACLE_MODEL", "gpt-4o")
	t.Setenv("SYNAPSE_ORACLE_TIMEOUT", "45s")
	t.Setenv("SYNAPSE_SEED", "123")

	cfg := DefaultConfig()
	cfg.ApplyEnvironmentOverrides()

	assert.Equal(t, 20, cfg.Engine.MaxSteps)
	assert.Equal(t, "gpt-4o", cfg.Oracle.Model)
	assert.Equal(t, 45*time.Second, cfg.Engine.OracleTimeout)
	assert.Equal(t, int64(123), cfg.Simulation.Seed)
}

func TestApplyEnvironmentOverrides_IgnoresInvalid(t *testing.T) {
	t.Setenv("SYNAPSE_MAX_STEPS", "zero")
	t.Setenv("SYNAPSE_ORACLE_TIMEOUT", "soon")

	cfg := DefaultConfig()
	cfg.ApplyEnvironmentOverrides()

	assert.Equal(t, 15, cfg.Engine.MaxSteps)
	assert.Equal(t, 30*time.Second, cfg.Engine.OracleTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero_steps", func(c *Config) { c.Engine.MaxSteps = 0 }},
		{"zero_reflections", func(c *Config) { c.Engine.MaxReflections = 0 }},
		{"zero_timeout", func(c *Config) { c.Engine.OracleTimeout = 0 }},
		{"no_model", func(c *Config) { c.Oracle.Model = "" }},
		{"bad_temperature", func(c *Config) { c.Oracle.Temperature = 3.5 }},
		{"negative_floor", func(c *Config) { c.Authz.Floors = map[string]float64{"manager": -1} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, types.CONFIG_VALIDATION_FAILED, types.CodeOf(err))
		})
	}
}
