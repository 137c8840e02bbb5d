// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/danielhkuo/collabhub/models"
	"github.com/danielhkuo/collabhub/pubsub"
)

const projectColumns = `id, title, description, tech_stack, budget, deadline, company_id, status, created_at`

// ProjectStore is the projects collection.
type ProjectStore struct {
	db     *sql.DB
	broker pubsub.Broker
}

func NewProjectStore(db *sql.DB, broker pubsub.Broker) *ProjectStore {
	return &ProjectStore{db: db, broker: broker}
}

// Create writes a new open project owned by principal.
func (s *ProjectStore) Create(ctx context.Context, principal models.Profile, p models.Project) (*models.Project, error) {
	if !canCreateProject(principal, p) {
		return nil, &PermissionError{
			Path:                pubsub.ProjectsCollection,
			Operation:           pubsub.OpCreate,
			RequestResourceData: p,
			PrincipalID:         principal.ID,
		}
	}

	p.ID = uuid.NewString()
	p.Status = models.ProjectStatusOpen
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}
	p.Deadline = p.Deadline.UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project (`+projectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.Title, p.Description, p.TechStack, p.Budget, p.Deadline, p.CompanyID, p.Status, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}

	publish(ctx, s.broker, pubsub.Event{Collection: pubsub.ProjectsCollection, DocumentID: p.ID, Operation: pubsub.OpCreate})
	return &p, nil
}

func (s *ProjectStore) Get(ctx context.Context, id string) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM project WHERE id = $1`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return p, nil
}

// ListOpen returns open projects, newest first. limit <= 0 means no limit.
func (s *ProjectStore) ListOpen(ctx context.Context, limit int) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM project WHERE status = $1 ORDER BY created_at DESC`
	args := []any{models.ProjectStatusOpen}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	return s.list(ctx, query, args...)
}

// ListByCompany returns the projects owned by companyID, newest first.
func (s *ProjectStore) ListByCompany(ctx context.Context, companyID string) ([]models.Project, error) {
	return s.list(ctx, `
		SELECT `+projectColumns+`
		FROM project
		WHERE company_id = $1
		ORDER BY created_at DESC
	`, companyID)
}

// Subscribe delivers an event whenever a project is created.
func (s *ProjectStore) Subscribe(ctx context.Context) (*pubsub.Subscription, error) {
	return s.broker.Subscribe(ctx, pubsub.ProjectsCollection)
}

func (s *ProjectStore) list(ctx context.Context, query string, args ...any) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read projects: %w", err)
	}
	return projects, nil
}

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.TechStack, &p.Budget,
		&p.Deadline, &p.CompanyID, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Deadline = p.Deadline.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}
