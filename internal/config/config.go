// Package config loads service configuration. Values come from environment
// variables, with an optional YAML file underneath them; env always wins.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DevAuthSecret is the signing secret used when none is configured. It is
// fine for local development and nothing else; the server logs a warning
// when it falls back to this value.
const DevAuthSecret = "campushub-dev-secret-do-not-use-in-production"

// Defaults for non-secret settings.
const (
	DefaultAddr          = ":8080"
	DefaultTokenTTL      = 24 * time.Hour
	DefaultRateBurst     = 20
	DefaultRatePerSecond = 10
	DefaultMaxBodyBytes  = 1 << 20
)

// Config holds all settings for the API server.
type Config struct {
	Addr          string        `koanf:"addr"`
	Env           string        `koanf:"env"`
	PostgresDSN   string        `koanf:"postgres_dsn"`
	AuthSecret    string        `koanf:"auth_secret"`
	TokenTTL      time.Duration `koanf:"token_ttl"`
	RateBurst     int           `koanf:"rate_burst"`
	RatePerSecond int           `koanf:"rate_per_second"`
	MaxBodyBytes  int64         `koanf:"max_body_bytes"`
}

// UsingDevSecret reports whether the insecure development fallback is active.
func (c *Config) UsingDevSecret() bool {
	return c.AuthSecret == DevAuthSecret
}

// Load reads configuration from an optional YAML file and the environment.
func Load(configFilePath string) (*Config, error) {
	k := koanf.New(".")
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configFilePath, err)
		}
	}

	cfg := &Config{
		Addr:         getEnvOrKoanf("CAMPUSHUB_ADDR", k, "addr", DefaultAddr),
		Env:          getEnvOrKoanf("CAMPUSHUB_ENV", k, "env", "development"),
		PostgresDSN:  getEnvOrKoanf("CAMPUSHUB_PG_DSN", k, "postgres_dsn", ""),
		AuthSecret:   getEnvOrKoanf("CAMPUSHUB_AUTH_SECRET", k, "auth_secret", DevAuthSecret),
		MaxBodyBytes: DefaultMaxBodyBytes,
	}

	ttl, err := getEnvDuration("CAMPUSHUB_TOKEN_TTL", k, "token_ttl", DefaultTokenTTL)
	if err != nil {
		return nil, err
	}
	cfg.TokenTTL = ttl

	cfg.RateBurst, err = getEnvInt("CAMPUSHUB_RATE_BURST", k, "rate_burst", DefaultRateBurst)
	if err != nil {
		return nil, err
	}
	cfg.RatePerSecond, err = getEnvInt("CAMPUSHUB_RATE_PER_SECOND", k, "rate_per_second", DefaultRatePerSecond)
	if err != nil {
		return nil, err
	}

	if maxBody := k.Int64("max_body_bytes"); maxBody > 0 {
		cfg.MaxBodyBytes = maxBody
	}
	return cfg, nil
}

func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey, def string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if val := k.String(koanfKey); val != "" {
		return val
	}
	return def
}

func getEnvInt(envKey string, k *koanf.Koanf, koanfKey string, def int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer: %w", envKey, err)
		}
		return n, nil
	}
	if k.Exists(koanfKey) {
		return k.Int(koanfKey), nil
	}
	return def, nil
}

func getEnvDuration(envKey string, k *koanf.Koanf, koanfKey string, def time.Duration) (time.Duration, error) {
	if val := os.Getenv(envKey); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a duration: %w", envKey, err)
		}
		return d, nil
	}
	if k.Exists(koanfKey) {
		if d, err := time.ParseDuration(k.String(koanfKey)); err == nil {
			return d, nil
		}
		return 0, fmt.Errorf("%s must be a duration", koanfKey)
	}
	return def, nil
}
