// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string `env:"ENV" envDefault:"development"`

	// Port is the HTTP listen port (default: 8080).
	Port int `env:"PORT" envDefault:"8080"`

	// BaseURL is the public-facing URL. An https:// base URL marks every
	// cookie the server sets as Secure.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// HTMXScriptURL is where pages load HTMX from. Its origin is added to the
	// CSP script-src. Empty renders plain forms that post with full page loads.
	HTMXScriptURL string `env:"HTMX_SCRIPT_URL" envDefault:"https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"`

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string `env:"LOG_LEVEL" envDefault:"debug"`

	// Redis holds Redis connection settings.
	Redis RedisConfig `envPrefix:"REDIS_"`

	// Auth holds the auth page settings.
	Auth AuthConfig `envPrefix:"AUTH_"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	// Empty keeps per-instance view state in process memory.
	URL string `env:"URL"`
}

// AuthConfig holds settings for the login/signup page.
type AuthConfig struct {
	// Theme is the visual variant: "light" or "glass".
	Theme string `env:"THEME" envDefault:"light"`

	// DefaultMode is the mode a new form instance starts in: "login" or "signup".
	DefaultMode string `env:"DEFAULT_MODE" envDefault:"signup"`

	// StateTTL is how long an idle form instance's view state is kept.
	StateTTL time.Duration `env:"STATE_TTL" envDefault:"1h"`

	// SubmitTimeout bounds a single call to the submit backend.
	SubmitTimeout time.Duration `env:"SUBMIT_TIMEOUT" envDefault:"10s"`

	// SubmitRate is the number of submissions allowed per client IP per minute.
	SubmitRate int `env:"SUBMIT_RATE" envDefault:"10"`

	// GoogleURL is where the "continue with Google" button navigates.
	GoogleURL string `env:"GOOGLE_URL" envDefault:"https://accounts.google.com/signin"`

	// AppleURL is where the "continue with Apple" button navigates.
	AppleURL string `env:"APPLE_URL" envDefault:"https://appleid.apple.com/auth/authorize"`
}

// Load reads configuration from the process environment.
func Load() (*Config, error) {
	return load(env.Options{})
}

// load parses with the given options so tests can inject an environment map.
func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("BASE_URL must be an absolute http(s) URL, got %q", cfg.BaseURL)
	}
	if cfg.HTMXScriptURL != "" {
		if _, err := cfg.ScriptOrigin(); err != nil {
			return nil, err
		}
	}

	switch strings.ToLower(cfg.Auth.Theme) {
	case "light", "glass":
		cfg.Auth.Theme = strings.ToLower(cfg.Auth.Theme)
	default:
		return nil, fmt.Errorf("AUTH_THEME must be \"light\" or \"glass\", got %q", cfg.Auth.Theme)
	}

	switch strings.ToLower(cfg.Auth.DefaultMode) {
	case "login", "signup":
		cfg.Auth.DefaultMode = strings.ToLower(cfg.Auth.DefaultMode)
	default:
		return nil, fmt.Errorf("AUTH_DEFAULT_MODE must be \"login\" or \"signup\", got %q", cfg.Auth.DefaultMode)
	}

	if cfg.Auth.SubmitRate < 1 {
		return nil, fmt.Errorf("AUTH_SUBMIT_RATE must be positive, got %d", cfg.Auth.SubmitRate)
	}
	if cfg.Auth.StateTTL <= 0 {
		return nil, fmt.Errorf("AUTH_STATE_TTL must be positive, got %s", cfg.Auth.StateTTL)
	}
	if cfg.Auth.SubmitTimeout <= 0 {
		return nil, fmt.Errorf("AUTH_SUBMIT_TIMEOUT must be positive, got %s", cfg.Auth.SubmitTimeout)
	}

	return cfg, nil
}

// SecureCookies reports whether cookies should carry the Secure flag, which
// is the case when the public base URL is HTTPS.
func (c *Config) SecureCookies() bool {
	return strings.HasPrefix(strings.ToLower(c.BaseURL), "https://")
}

// ScriptOrigin returns the scheme://host of HTMXScriptURL for the CSP, or ""
// if the script is served from this origin (relative URL) or disabled.
func (c *Config) ScriptOrigin() (string, error) {
	if c.HTMXScriptURL == "" {
		return "", nil
	}
	u, err := url.Parse(c.HTMXScriptURL)
	if err != nil {
		return "", fmt.Errorf("HTMX_SCRIPT_URL: %w", err)
	}
	if u.Host == "" {
		return "", nil
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", fmt.Errorf("HTMX_SCRIPT_URL must be http(s), got %q", c.HTMXScriptURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}
