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
//   - auth.go: Authentication and session configuration
//   - database.go: Database and session store configuration
//   - http.go: HTTP server configuration
type AppConfig struct {
	// IsDev controls development mode behavior (template hot reloading, etc.)
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication configuration
	Auth AuthConfig

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Uploads configuration
	Uploads UploadConfig

	// Metrics configuration
	Metrics MetricsConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.Uploads.Sanitize()
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// UploadConfig controls where uploaded profile pictures are stored.
type UploadConfig struct {
	// Dir is the directory where uploaded files are written.
	Dir string `env:"UPLOAD_DIR" envDefault:"uploads"`

	// MaxBytes caps the size of an uploaded file.
	MaxBytes int64 `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`
}

// Sanitize applies guardrails to upload configuration values.
func (u *UploadConfig) Sanitize() {
	if u.Dir == "" {
		u.Dir = "uploads"
	}
	if u.MaxBytes <= 0 {
		u.MaxBytes = 5 << 20
	}
}

// MetricsConfig contains statsd metrics configuration.
type MetricsConfig struct {
	// Addr is the UDP address of the statsd daemon. Empty disables metrics.
	Addr string `env:"STATSD_ADDR" envDefault:""`

	// Prefix is prepended to every metric name.
	Prefix string `env:"STATSD_PREFIX" envDefault:"staffdesk"`
}
