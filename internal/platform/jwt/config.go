// Package jwtmw provides JWT generation and Gin middleware for token auth.
package jwtmw

import (
	"os"
	"time"
)

// EnvKeyJWTSecret names the environment variable holding the signing secret.
const EnvKeyJWTSecret = "JWT_SECRET"

// DefaultExpiration is the access token lifetime when JWT_EXPIRATION is unset.
const DefaultExpiration = 24 * time.Hour

// Config holds the JWT settings.
type Config struct {
	Secret     string
	Expiration time.Duration
}

// LoadConfig reads the JWT settings from environment variables.
// JWT_EXPIRATION accepts a Go duration string such as "24h".
func LoadConfig() Config {
	cfg := Config{
		Secret:     os.Getenv(EnvKeyJWTSecret),
		Expiration: DefaultExpiration,
	}
	if raw := os.Getenv("JWT_EXPIRATION"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.Expiration = d
		}
	}
	return cfg
}
