// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/collabhub/auth"
)

// DefaultExampleProposals seeds the proposal assistant when the caller
// provides no examples of its own.
const DefaultExampleProposals = "Example 1: I built a similar app and scaled it to 100k users. " +
	"Example 2: My expertise in Next.js and Firebase is a perfect match for this project."

type Config struct {
	Port             int           `yaml:"port"`
	DatabaseURL      string        `yaml:"database_url"`
	DatabaseType     string        `yaml:"database_type"`
	SessionSecret    string        `yaml:"session_secret"`
	SessionTTL       time.Duration `yaml:"session_ttl"`
	GenAIKey         string        `yaml:"genai_key"`
	GenAIModel       string        `yaml:"genai_model"`
	RedisURL         string        `yaml:"redis_url"`
	LogLevel         string        `yaml:"log_level"`
	LogFormat        string        `yaml:"log_format"`
	ExampleProposals string        `yaml:"example_proposals"`

	// ConfigFile is the optional YAML file read by Resolve.
	ConfigFile string `yaml:"-"`
}

// RegisterFlags binds every setting to fs. Flags have zero defaults so
// Resolve can tell an explicit flag from a fallback.
func RegisterFlags(fs *pflag.FlagSet, cfg *Config) {
	// Network config (can be CLI args or env)
	fs.IntVarP(&cfg.Port, "port", "p", 0, "Server port (env PORT, default 3318)")
	fs.StringVarP(&cfg.DatabaseURL, "database-url", "d", "", "Database URL (env DATABASE_URL)")
	fs.StringVarP(&cfg.DatabaseType, "database-type", "t", "", "Database type, sqlite or postgres (env DATABASE_TYPE)")
	fs.StringVar(&cfg.RedisURL, "redis-url", "", "Redis URL for pub/sub (env REDIS_URL, default in-memory)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session token signing secret (prefer env SESSION_SECRET)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Session lifetime (env SESSION_TTL, default 24h)")
	fs.StringVar(&cfg.GenAIKey, "genai-key", "", "Gemini API key (prefer env GEMINI_API_KEY)")
	fs.StringVar(&cfg.GenAIModel, "genai-model", "", "Gemini model (env GEMINI_MODEL, default gemini-2.5-flash)")

	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level: debug, info, warn, error (env LOG_LEVEL)")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format: auto, json, console (env LOG_FORMAT)")
	fs.StringVar(&cfg.ConfigFile, "config", "", "Optional YAML config file")
}

// ParseFlags parses args and resolves the full configuration.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := pflag.NewFlagSet("collabhub", pflag.ContinueOnError)
	RegisterFlags(fs, &cfg)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	return Resolve(fs, cfg)
}

// LoadDotEnv loads .env into the environment if the file exists. Variables
// already set are not overridden.
func LoadDotEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Resolve fills every setting not given on the command line from the
// environment, then the YAML file, then defaults, and validates the result.
func Resolve(flags *pflag.FlagSet, cfg Config) (Config, error) {
	var file Config
	if cfg.ConfigFile != "" {
		data, err := os.ReadFile(cfg.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	changed := func(name string) bool {
		return flags != nil && flags.Changed(name)
	}

	if !changed("port") {
		port, err := envInt("PORT", file.Port, 3318)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}
	if !changed("session-ttl") {
		ttl, err := envDuration("SESSION_TTL", file.SessionTTL, 24*time.Hour)
		if err != nil {
			return Config{}, err
		}
		cfg.SessionTTL = ttl
	}

	strs := []struct {
		flag, env string
		dst       *string
		file, def string
	}{
		{"database-url", "DATABASE_URL", &cfg.DatabaseURL, file.DatabaseURL, ""},
		{"database-type", "DATABASE_TYPE", &cfg.DatabaseType, file.DatabaseType, "sqlite"},
		{"session-secret", "SESSION_SECRET", &cfg.SessionSecret, file.SessionSecret, ""},
		{"genai-key", "GEMINI_API_KEY", &cfg.GenAIKey, file.GenAIKey, ""},
		{"genai-model", "GEMINI_MODEL", &cfg.GenAIModel, file.GenAIModel, "gemini-2.5-flash"},
		{"redis-url", "REDIS_URL", &cfg.RedisURL, file.RedisURL, ""},
		{"log-level", "LOG_LEVEL", &cfg.LogLevel, file.LogLevel, "info"},
		{"log-format", "LOG_FORMAT", &cfg.LogFormat, file.LogFormat, "auto"},
	}
	for _, s := range strs {
		if !changed(s.flag) {
			*s.dst = envString(s.env, s.file, s.def)
		}
	}

	cfg.ExampleProposals = file.ExampleProposals
	if cfg.ExampleProposals == "" {
		cfg.ExampleProposals = DefaultExampleProposals
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first missing or malformed setting.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if c.DatabaseType != "sqlite" && c.DatabaseType != "postgres" {
		return fmt.Errorf("unknown database type %q (use sqlite or postgres)", c.DatabaseType)
	}

	// Secrets - MUST be provided
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET required")
	}
	if len(c.SessionSecret) < auth.MinSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", auth.MinSecretLength)
	}
	if c.SessionTTL <= 0 {
		return errors.New("session TTL must be positive")
	}

	switch c.LogFormat {
	case "auto", "json", "console":
	default:
		return fmt.Errorf("unknown log format %q (use auto, json or console)", c.LogFormat)
	}
	return nil
}

func envString(key, fileVal, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if fileVal != "" {
		return fileVal
	}
	return def
}

func envInt(key string, fileVal, def int) (int, error) {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s env variable", key)
		}
		return n, nil
	}
	if fileVal != 0 {
		return fileVal, nil
	}
	return def, nil
}

func envDuration(key string, fileVal, def time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s env variable", key)
		}
		return d, nil
	}
	if fileVal != 0 {
		return fileVal, nil
	}
	return def, nil
}
