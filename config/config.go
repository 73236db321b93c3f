package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - api.go: Remote catalog API and console configuration
//   - devapi.go: Development API server configuration
//   - database.go: Redis configuration (development API sessions)
//   - observability.go: Logging configuration
type AppConfig struct {
	// IsDev controls development mode behavior (verbose logging, relaxed TLS for localhost).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Remote catalog API the console talks to.
	API APIConfig `envPrefix:"API_"`

	// Console presentation settings.
	UI UIConfig `envPrefix:"UI_"`

	// Development API server (cmd/catalog-devapi).
	DevAPI DevAPIConfig `envPrefix:"DEVAPI_"`

	// Redis configuration, used when DEVAPI_SESSION_BACKEND=redis.
	Redis RedisConfig `envPrefix:"REDIS_"`

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.UI.Sanitize()
	c.DevAPI.Sanitize()
	c.Observability.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
