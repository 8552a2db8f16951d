package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/freshmarket/freshmarket/pkg/config"
)

// Config holds all configuration for the marketplace server.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"freshmarket"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"freshmarket_secret"`
	PostgresDB   string `env:"POSTGRES_DB_NAME" envDefault:"freshmarket_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Redis
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart TTL in hours (default: 7 days)
	CartTTLHours int `env:"CART_TTL_HOURS" envDefault:"168"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// JWT
	JWTSecret        string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTAccessExpiry  string `env:"JWT_ACCESS_EXPIRY" envDefault:"15m"`
	JWTRefreshExpiry string `env:"JWT_REFRESH_EXPIRY" envDefault:"168h"`

	// Photo-match service. When the URL is empty, identity submissions are
	// approved on document checks alone.
	BiometricURL       string `env:"BIOMETRIC_SERVICE_URL" envDefault:""`
	BiometricTimeoutMs int    `env:"BIOMETRIC_TIMEOUT_MS" envDefault:"5000"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	// Rate limiting on auth endpoints
	LoginRateRPS   int `env:"LOGIN_RATE_RPS" envDefault:"5"`
	LoginRateBurst int `env:"LOGIN_RATE_BURST" envDefault:"10"`
}

// Load reads configuration from environment variables. Cross-field checks
// run through Validate via the loader.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if c.PostgresUser == "" {
		return fmt.Errorf("POSTGRES_USER is required")
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.CartTTLHours < 1 {
		return fmt.Errorf("CART_TTL_HOURS must be positive, got %d", c.CartTTLHours)
	}
	if _, err := time.ParseDuration(c.JWTAccessExpiry); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRY %q: %w", c.JWTAccessExpiry, err)
	}
	if _, err := time.ParseDuration(c.JWTRefreshExpiry); err != nil {
		return fmt.Errorf("invalid JWT_REFRESH_EXPIRY %q: %w", c.JWTRefreshExpiry, err)
	}
	return nil
}

// CartTTL returns the cart expiry as a duration.
func (c *Config) CartTTL() time.Duration {
	return time.Duration(c.CartTTLHours) * time.Hour
}
