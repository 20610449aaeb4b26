// Package opendart provides a client for the DART Open API
// (corporate disclosure registry).
package opendart

import (
	"os"
	"time"
)

// DefaultBaseURL is the public OpenDART endpoint.
const DefaultBaseURL = "https://opendart.fss.or.kr"

// Config holds configuration for the OpenDART API client.
type Config struct {
	APIKey  string        // crtfc_key issued by the registry
	BaseURL string        // base URL, overridable for tests
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads OpenDART configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("OPENDART_BASE_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	return Config{
		APIKey:  os.Getenv("OPENDART_API_KEY"),
		BaseURL: base,
		Timeout: 10 * time.Second,
	}
}
