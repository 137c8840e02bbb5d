// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/collabhub/models"
)

// ProfileStore is the users collection, keyed by principal id.
type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// CreateWith inserts the profile using q, so sign-up can write the
// credential and the profile in one transaction.
func (s *ProfileStore) CreateWith(ctx context.Context, q DBTX, p models.Profile) error {
	if !p.Role.Valid() {
		return fmt.Errorf("invalid role %q", p.Role)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO users (id, role, name, email, skills, portfolio_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, string(p.Role), p.Name, p.Email, p.Skills, p.PortfolioURL, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

func (s *ProfileStore) Create(ctx context.Context, p models.Profile) error {
	return s.CreateWith(ctx, s.db, p)
}

func (s *ProfileStore) Get(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	var role string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, role, name, email, skills, portfolio_url, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&p.ID, &role, &p.Name, &p.Email, &p.Skills, &p.PortfolioURL, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	p.Role = models.Role(role)
	return &p, nil
}
