// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Under cobra, bind the flags to the command and resolve after parsing:

	cliparse.RegisterFlags(cmd.Flags(), &cfg)
	cfg, err = cliparse.Resolve(cmd.Flags(), cfg)

# CLI Flags

	-p, --port           Server port
	-d, --database-url   Database URL
	-t, --database-type  sqlite or postgres
	--session-secret     Session token signing secret
	--session-ttl        Session lifetime
	--genai-key          Gemini API key
	--genai-model        Gemini model
	--redis-url          Redis URL for pub/sub
	--log-level          debug, info, warn, error
	--log-format         auto, json, console
	--config             YAML config file

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p (default 3318)
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t (default sqlite)
	SESSION_SECRET  → --session-secret
	SESSION_TTL     → --session-ttl (default 24h)
	GEMINI_API_KEY  → --genai-key (empty disables the assistant)
	GEMINI_MODEL    → --genai-model (default gemini-2.5-flash)
	REDIS_URL       → --redis-url (empty uses in-memory pub/sub)
	LOG_LEVEL       → --log-level (default info)
	LOG_FORMAT      → --log-format (default auto)

Precedence is flags, then environment, then the YAML file, then defaults.
LoadDotEnv reads .env into the environment first. example_proposals can
only be set in the YAML file.

# Validation

Resolve returns an error if required values are missing:

  - DATABASE_URL must be provided
  - SESSION_SECRET must be provided and at least 32 bytes
*/
package cliparse
