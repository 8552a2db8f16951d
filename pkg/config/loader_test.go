package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int    `env:"TEST_CFG_PORT" envDefault:"8080"`
	Host     string `env:"TEST_CFG_HOST" envDefault:"localhost"`
	LogLevel string `env:"TEST_CFG_LOG_LEVEL" envDefault:"info"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_HOST", "0.0.0.0")
	t.Setenv("TEST_CFG_LOG_LEVEL", "debug")

	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "debug", cfg.LogLevel)
}

type requiredConfig struct {
	APIKey string `env:"TEST_CFG_API_KEY,required"`
}

func TestLoad_RequiredFieldMissing(t *testing.T) {
	var cfg requiredConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

type validatedConfig struct {
	Workers int `env:"TEST_CFG_WORKERS" envDefault:"0"`
}

var errNoWorkers = errors.New("workers must be positive")

func (c *validatedConfig) Validate() error {
	if c.Workers < 1 {
		return errNoWorkers
	}
	return nil
}

func TestLoad_RunsValidator(t *testing.T) {
	var cfg validatedConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, errNoWorkers)
	assert.Contains(t, err.Error(), "validate config")
}

func TestLoad_ValidatorPasses(t *testing.T) {
	t.Setenv("TEST_CFG_WORKERS", "4")

	var cfg validatedConfig
	require.NoError(t, Load(&cfg))
	assert.Equal(t, 4, cfg.Workers)
}
