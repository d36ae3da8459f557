package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultListenAddr    = ":8080"
	defaultJWTAccessTTL  = "24h"
	defaultSessionLookup = "3s"
)

// Config is everything the binaries need from the environment. DATABASE_URL
// and JWT_SECRET have no defaults: a misconfigured deployment must refuse to
// start instead of degrading silently.
type Config struct {
	AppEnv               string
	ListenAddr           string
	DatabaseURL          string
	JWTSecret            string
	JWTAccessTTL         time.Duration
	SessionLookupTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg.JWTSecret = strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	cfg.ListenAddr = strings.TrimSpace(getEnv("LISTEN_ADDR", defaultListenAddr))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	cfg.SessionLookupTimeout, err = parseDurationEnv("SESSION_LOOKUP_TIMEOUT", defaultSessionLookup)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.SessionLookupTimeout <= 0 {
		return fmt.Errorf("SESSION_LOOKUP_TIMEOUT must be > 0")
	}
	if isProdLike(cfg.AppEnv) && len(cfg.JWTSecret) < 32 {
		return fmt.Errorf("in prod/release JWT_SECRET must be at least 32 characters")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
