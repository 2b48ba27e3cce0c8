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
		t.Fatalf("Expected defaults to load, got %v", err)
	}

	if cfg.HTTP.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.Database.Path != "contact.db" {
		t.Errorf("Expected default database path, got %q", cfg.Database.Path)
	}
	if cfg.RateLimit.SubmissionMax != 5 {
		t.Errorf("Expected default submission limit of 5, got %d", cfg.RateLimit.SubmissionMax)
	}
	if cfg.RateLimit.SubmissionWindow != 5*time.Minute {
		t.Errorf("Expected default submission window of 5m, got %v", cfg.RateLimit.SubmissionWindow)
	}
	if cfg.Privacy.IPSalt == "" {
		t.Error("Expected a default IP salt")
	}
	if cfg.Logging.Backend != "zap" {
		t.Errorf("Expected default logging backend zap, got %q", cfg.Logging.Backend)
	}
	if cfg.Tracing.Enabled {
		t.Error("Expected tracing to be disabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/override.db")
	t.Setenv("RATE_LIMIT_MAX", "10")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "120")
	t.Setenv("IP_SALT", "test_salt")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Expected config to load, got %v", err)
	}

	if cfg.HTTP.Port != 9090 {
		t.Errorf("Expected PORT override, got %d", cfg.HTTP.Port)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("Expected DB_PATH override, got %q", cfg.Database.Path)
	}
	if cfg.RateLimit.SubmissionMax != 10 {
		t.Errorf("Expected RATE_LIMIT_MAX override, got %d", cfg.RateLimit.SubmissionMax)
	}
	if cfg.RateLimit.SubmissionWindow != 2*time.Minute {
		t.Errorf("Expected RATE_LIMIT_WINDOW_SECONDS override, got %v", cfg.RateLimit.SubmissionWindow)
	}
	if cfg.Privacy.IPSalt != "test_salt" {
		t.Errorf("Expected IP_SALT override, got %q", cfg.Privacy.IPSalt)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("http:\n  port: 3000\nlogging:\n  backend: zerolog\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected config file to load, got %v", err)
	}

	if cfg.HTTP.Port != 3000 {
		t.Errorf("Expected port from file, got %d", cfg.HTTP.Port)
	}
	if cfg.Logging.Backend != "zerolog" {
		t.Errorf("Expected backend from file, got %q", cfg.Logging.Backend)
	}
	// Defaults still apply for keys the file omits
	if cfg.Database.Path != "contact.db" {
		t.Errorf("Expected default database path, got %q", cfg.Database.Path)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected an error for a missing config file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Expected defaults to load, got %v", err)
		}
		return cfg
	}

	cfg := base()
	cfg.HTTP.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected port 0 to be rejected")
	}

	cfg = base()
	cfg.Privacy.IPSalt = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected empty salt to be rejected")
	}

	cfg = base()
	cfg.RateLimit.SubmissionMax = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected zero submission limit to be rejected")
	}

	cfg = base()
	cfg.Logging.Backend = "syslog"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected unknown logging backend to be rejected")
	}

	cfg = base()
	cfg.Auth.Provider = "saml"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected unknown auth provider to be rejected")
	}
}

func TestAddr(t *testing.T) {
	cfg := &Config{HTTP: HTTPConfig{Host: "127.0.0.1", Port: 8080}}
	if got := cfg.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Expected 127.0.0.1:8080, got %q", got)
	}
}
