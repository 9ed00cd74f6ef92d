package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load fills cfg from environment variables according to its `env` tags.
// envDefault supplies fallback values and notEmpty rejects blank-but-set
// variables, e.g.:
//
//	type Config struct {
//	    Port      int    `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`
//	    JWTSecret string `env:"JWT_SECRET,notEmpty"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
