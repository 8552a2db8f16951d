package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "localhost", cfg.PostgresHost)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 168, cfg.CartTTLHours)
	assert.Equal(t, "", cfg.BiometricURL)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://freshmarket.example,https://admin.freshmarket.example")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	assert.Len(t, cfg.CORSAllowedOrigins, 2)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "70000")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidAccessExpiry(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY", "fifteen minutes")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_ACCESS_EXPIRY")
}

func TestLoad_ZeroCartTTLRejected(t *testing.T) {
	t.Setenv("CART_TTL_HOURS", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CART_TTL_HOURS")
}

func TestCartTTL(t *testing.T) {
	cfg := &Config{CartTTLHours: 48}
	assert.Equal(t, 48*time.Hour, cfg.CartTTL())
}
