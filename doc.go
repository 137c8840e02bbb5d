// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the CollabHub API server.

CollabHub is a freelance marketplace: companies post projects, developers
browse them and apply with a proposal (optionally drafted by Gemini), and
companies move each application through a review pipeline while their
dashboard updates live.

# Commands

	collabhub serve    # run the HTTP API
	collabhub migrate  # create the schema and exit

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:collabhub.db SESSION_SECRET=... go run . serve

Or with flags:

	go run . serve -p 3318 -t postgres -d "postgres://..."

A .env file in the working directory is loaded first; a YAML file can be
given with --config. Flags win over the environment, which wins over the
file.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - SESSION_SECRET (--session-secret): at least 32 bytes, signs session tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - SESSION_TTL (--session-ttl): default 24h
  - GEMINI_API_KEY, GEMINI_MODEL: enable the proposal assistant
  - REDIS_URL: share pub/sub and rate limits across instances
  - LOG_LEVEL, LOG_FORMAT: debug..error; auto, json or console

# Architecture

  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: role guard, rate limits, CORS, logging, JSON helpers
  - identity: sign-up, sign-in and sessions
  - workflow: form validation and the application status machine
  - dashboard: developer listings, company snapshots, live updates
  - assistant: proposal drafts
  - store: projects, applications and profiles with write rules
  - pubsub: change notifications, in memory or over Redis
  - events: permission-error events
  - models: Request/response and domain types
  - auth: Passwords, session tokens and ids
  - db: Connections and schema
  - cliparse: Configuration parsing
  - logging: slog over zap

See package documentation for each component.
*/
package main
