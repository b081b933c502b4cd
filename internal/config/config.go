// Package config loads runtime settings for the conference service from the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Prefix is prepended to every environment variable name.
const Prefix = "CONFHUB_"

// Config holds process-wide settings. Every field has a usable default, so an
// empty environment yields a working demo server.
type Config struct {
	HTTPAddr      string        `env:"HTTP_ADDR" envDefault:":8080"`
	AuthSecret    string        `env:"AUTH_SECRET" envDefault:"confhub-demo-secret"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	Latency       time.Duration `env:"LATENCY" envDefault:"600ms"`
	ToastDuration time.Duration `env:"TOAST_DURATION" envDefault:"3s"`
	RateBurst     int           `env:"RATE_BURST" envDefault:"20"`
	RatePerSec    int           `env:"RATE_PER_SEC" envDefault:"10"`
	MaxBodyBytes  int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	SeedDemoData  bool          `env:"SEED" envDefault:"true"`
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// FromMap parses the provided variables instead of the process environment.
// Keys carry the Prefix, exactly as they would in the environment.
func FromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTPAddr) == "" {
		errs = append(errs, errors.New("http addr is required"))
	}
	if strings.TrimSpace(c.AuthSecret) == "" {
		errs = append(errs, errors.New("auth secret is required"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}
	if c.Latency < 0 {
		errs = append(errs, errors.New("latency must not be negative"))
	}
	if c.ToastDuration <= 0 {
		errs = append(errs, errors.New("toast duration must be positive"))
	}
	if c.RateBurst <= 0 || c.RatePerSec <= 0 {
		errs = append(errs, errors.New("rate limit burst and rate must be positive"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("max body bytes must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
