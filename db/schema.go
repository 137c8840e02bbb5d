// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The statements are portable between PostgreSQL and SQLite, so timestamps
// are always written by the application rather than column defaults.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

var schema = []string{
	// Credentials (identity provider)
	`CREATE TABLE IF NOT EXISTS credential (
    principal_id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    display_name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
)`,

	// Sessions, one row per issued token
	`CREATE TABLE IF NOT EXISTS auth_session (
    id TEXT PRIMARY KEY,
    principal_id TEXT NOT NULL REFERENCES credential(principal_id) ON DELETE CASCADE,
    expires_at TIMESTAMP NOT NULL,
    revoked_at TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_auth_session_principal ON auth_session(principal_id)`,

	// Profiles
	`CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY REFERENCES credential(principal_id) ON DELETE CASCADE,
    role TEXT NOT NULL CHECK (role IN ('developer', 'company')),
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    skills TEXT NOT NULL DEFAULT '',
    portfolio_url TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
)`,

	// Projects
	`CREATE TABLE IF NOT EXISTS project (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    tech_stack TEXT NOT NULL,
    budget DOUBLE PRECISION NOT NULL CHECK (budget > 0),
    deadline TIMESTAMP NOT NULL,
    company_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open')),
    created_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_project_company_id ON project(company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_project_status_created ON project(status, created_at)`,

	// Applications, scoped under their project
	`CREATE TABLE IF NOT EXISTS application (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL REFERENCES project(id) ON DELETE CASCADE,
    developer_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    developer_name TEXT NOT NULL,
    developer_email TEXT NOT NULL,
    resume_url TEXT NOT NULL,
    linkedin_url TEXT NOT NULL DEFAULT '',
    github_url TEXT NOT NULL DEFAULT '',
    proposal_text TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'Submitted' CHECK (status IN ('Submitted', 'In Review', 'Shortlisted', 'Waitlisted', 'Accepted', 'Rejected')),
    submitted_at TIMESTAMP NOT NULL,
    UNIQUE (project_id, developer_id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_application_project_id ON application(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_application_developer_id ON application(developer_id)`,
}
