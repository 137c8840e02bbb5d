// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var testSecret = strings.Repeat("s", 32)

// clearEnv blanks every variable Resolve reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_URL", "DATABASE_TYPE", "SESSION_SECRET", "SESSION_TTL",
		"GEMINI_API_KEY", "GEMINI_MODEL", "REDIS_URL", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("SESSION_TTL", "2h")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected database type postgres, got %q", cfg.DatabaseType)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("expected session ttl 2h, got %s", cfg.SessionTTL)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseFlags([]string{"-d", "file:test.db", "--session-secret", testSecret})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default database type sqlite, got %q", cfg.DatabaseType)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("expected default ttl 24h, got %s", cfg.SessionTTL)
	}
	if cfg.GenAIModel != "gemini-2.5-flash" {
		t.Errorf("expected default model, got %q", cfg.GenAIModel)
	}
	if cfg.LogFormat != "auto" || cfg.LogLevel != "info" {
		t.Errorf("expected auto/info logging, got %q/%q", cfg.LogFormat, cfg.LogLevel)
	}
	if cfg.ExampleProposals != DefaultExampleProposals {
		t.Errorf("expected default example proposals, got %q", cfg.ExampleProposals)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("GEMINI_MODEL", "from-env")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "--session-secret", testSecret, "--genai-model", "from-flag"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.GenAIModel != "from-flag" {
		t.Errorf("CLI should override env: expected from-flag, got %q", cfg.GenAIModel)
	}
}

func TestParseFlags_ConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "debug")

	path := filepath.Join(t.TempDir(), "collabhub.yaml")
	err := os.WriteFile(path, []byte(`
port: 7000
database_url: file:from-yaml.db
session_secret: `+testSecret+`
session_ttl: 90m
log_level: warn
example_proposals: "Example: shipped three marketplaces."
`), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"--config", path, "-p", "7100"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 7100 {
		t.Errorf("flag should override file: expected 7100, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:from-yaml.db" {
		t.Errorf("expected database url from file, got %q", cfg.DatabaseURL)
	}
	if cfg.SessionTTL != 90*time.Minute {
		t.Errorf("expected ttl from file, got %s", cfg.SessionTTL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("env should override file: expected debug, got %q", cfg.LogLevel)
	}
	if cfg.ExampleProposals != "Example: shipped three marketplaces." {
		t.Errorf("expected example proposals from file, got %q", cfg.ExampleProposals)
	}
}

func TestParseFlags_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"missing database url", []string{"--session-secret", testSecret}, nil},
		{"missing secret", []string{"-d", "file:test.db"}, nil},
		{"short secret", []string{"-d", "file:test.db", "--session-secret", "short"}, nil},
		{"bad database type", []string{"-d", "x", "-t", "mysql", "--session-secret", testSecret}, nil},
		{"bad log format", []string{"-d", "x", "--session-secret", testSecret, "--log-format", "xml"}, nil},
		{"bad port env", []string{"-d", "x", "--session-secret", testSecret}, map[string]string{"PORT": "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("COLLABHUB_TEST_VAR=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("COLLABHUB_TEST_VAR", "")
	os.Unsetenv("COLLABHUB_TEST_VAR")

	if err := LoadDotEnv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("COLLABHUB_TEST_VAR"); got != "from-dotenv" {
		t.Errorf("expected from-dotenv, got %q", got)
	}
}
