package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Validator is implemented by config structs that carry cross-field
// checks beyond what `env` tags express.
type Validator interface {
	Validate() error
}

// Load parses environment variables into the provided struct and, if the
// struct implements Validator, runs its validation.
// The struct should use `env` tags to define mappings.
//
// Example:
//
//	type Config struct {
//	    RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
//	    JWTSecret string `env:"JWT_SECRET,required"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if v, ok := cfg.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
	}
	return nil
}
