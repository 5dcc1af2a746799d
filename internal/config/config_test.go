package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != DefaultAddr {
		t.Fatalf("addr: %q", cfg.Addr)
	}
	if cfg.TokenTTL != DefaultTokenTTL {
		t.Fatalf("token ttl: %v", cfg.TokenTTL)
	}
	if cfg.RateBurst != DefaultRateBurst || cfg.RatePerSecond != DefaultRatePerSecond {
		t.Fatalf("rate: %d/%d", cfg.RateBurst, cfg.RatePerSecond)
	}
	if !cfg.UsingDevSecret() {
		t.Fatal("expected dev secret fallback")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "addr: \":9000\"\nauth_secret: file-secret\ntoken_ttl: 2h\nrate_burst: 5\nmax_body_bytes: 2048\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Fatalf("addr: %q", cfg.Addr)
	}
	if cfg.AuthSecret != "file-secret" || cfg.UsingDevSecret() {
		t.Fatalf("auth secret: %q", cfg.AuthSecret)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Fatalf("token ttl: %v", cfg.TokenTTL)
	}
	if cfg.RateBurst != 5 {
		t.Fatalf("rate burst: %d", cfg.RateBurst)
	}
	if cfg.MaxBodyBytes != 2048 {
		t.Fatalf("max body: %d", cfg.MaxBodyBytes)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":9000\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CAMPUSHUB_ADDR", ":7000")
	t.Setenv("CAMPUSHUB_TOKEN_TTL", "30m")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Fatalf("addr: %q", cfg.Addr)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("token ttl: %v", cfg.TokenTTL)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("CAMPUSHUB_RATE_BURST", "lots")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for non-integer rate burst")
	}

	t.Setenv("CAMPUSHUB_RATE_BURST", "")
	t.Setenv("CAMPUSHUB_TOKEN_TTL", "soon")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for malformed duration")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
