// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends selectable with DATA_BACKEND.
const (
	BackendHosted   = "hosted"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// DevSessionSecret is the SESSION_SECRET default. It is public, so it is only
// accepted while AUTH_REQUIRED=false.
const DevSessionSecret = "dev-secret-change-in-production-32bytes"

// minSessionSecretLen matches the HS256 key length used by pkg/auth.
const minSessionSecretLen = 32

// Config carries environment-driven settings for the API process.
type Config struct {
	Port        string `env:"PORT" envDefault:"3010"`
	DataBackend string `env:"DATA_BACKEND" envDefault:"hosted"`

	// Hosted data service (REST data API + auth API).
	DataServiceURL string `env:"SUPABASE_URL"`
	DataServiceKey string `env:"SUPABASE_ANON_KEY"`

	DatabaseURL string `env:"DATABASE_URL"`

	FrontendURL   string        `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	SessionSecret string        `env:"SESSION_SECRET" envDefault:"dev-secret-change-in-production-32bytes"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	AuthRequired  bool          `env:"AUTH_REQUIRED" envDefault:"true"`
	StaticDir     string        `env:"STATIC_DIR" envDefault:"./dist"`

	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"INFO"`

	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"crowdfund-api"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	TraceStdout  bool   `env:"OTEL_TRACES_STDOUT"`
}

// Load reads an optional .env file, parses the environment and validates the result.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse parses the current environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.DataBackend = strings.ToLower(strings.TrimSpace(cfg.DataBackend))
	cfg.DataServiceURL = strings.TrimRight(strings.TrimSpace(cfg.DataServiceURL), "/")
	cfg.DataServiceKey = strings.TrimSpace(cfg.DataServiceKey)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the variables required by the selected backend are present.
func (c Config) Validate() error {
	switch c.DataBackend {
	case BackendHosted:
		var missing []string
		if c.DataServiceURL == "" {
			missing = append(missing, "SUPABASE_URL")
		}
		if c.DataServiceKey == "" {
			missing = append(missing, "SUPABASE_ANON_KEY")
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
		}
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("missing required environment variables: DATABASE_URL")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("DATA_BACKEND must be one of %s, %s, %s (got %q)",
			BackendHosted, BackendPostgres, BackendMemory, c.DataBackend)
	}
	if c.RateLimitPerMinute <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be a positive integer")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.AuthRequired {
		switch {
		case c.SessionSecret == "" || c.SessionSecret == DevSessionSecret:
			return errors.New("SESSION_SECRET must be set to a private value when AUTH_REQUIRED=true")
		case len(c.SessionSecret) < minSessionSecretLen:
			return fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecretLen)
		}
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
