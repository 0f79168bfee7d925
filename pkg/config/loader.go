// Package config parses configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load fills cfg from the process environment using `env` struct tags.
//
//	type Config struct {
//	    PostgresHost string        `env:"POSTGRES_HOST" envDefault:"localhost"`
//	    BagTTL       time.Duration `env:"BAG_TTL" envDefault:"720h"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
