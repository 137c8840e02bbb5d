// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/danielhkuo/collabhub/db"
	"github.com/danielhkuo/collabhub/models"
	"github.com/danielhkuo/collabhub/pubsub"
)

const applicationColumns = `id, project_id, developer_id, developer_name, developer_email,
	resume_url, linkedin_url, github_url, proposal_text, status, submitted_at`

// ErrDuplicateApplication means the developer already applied to the project.
var ErrDuplicateApplication = fmt.Errorf("%w: application already submitted", ErrConflict)

// ApplicationStore holds each project's applications sub-collection.
type ApplicationStore struct {
	db     *sql.DB
	broker pubsub.Broker
}

func NewApplicationStore(db *sql.DB, broker pubsub.Broker) *ApplicationStore {
	return &ApplicationStore{db: db, broker: broker}
}

// Create writes a under project. ID and SubmittedAt are assigned here
// unless already set.
func (s *ApplicationStore) Create(ctx context.Context, principal models.Profile, project models.Project, a models.Application) (*models.Application, error) {
	path := pubsub.ApplicationsCollection(project.ID)
	if !canCreateApplication(principal, project, a) {
		return nil, &PermissionError{
			Path:                path,
			Operation:           pubsub.OpCreate,
			RequestResourceData: a,
			PrincipalID:         principal.ID,
		}
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = now()
	}
	if a.Status == "" {
		a.Status = models.StatusSubmitted
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO application (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, a.ID, a.ProjectID, a.DeveloperID, a.DeveloperName, a.DeveloperEmail,
		a.ResumeURL, a.LinkedinURL, a.GithubURL, a.ProposalText, string(a.Status), a.SubmittedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateApplication
		}
		if db.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("project %s: %w", project.ID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to insert application: %w", err)
	}

	publish(ctx, s.broker, pubsub.Event{Collection: path, DocumentID: a.ID, Operation: pubsub.OpCreate})
	return &a, nil
}

func (s *ApplicationStore) Get(ctx context.Context, projectID, id string) (*models.Application, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+applicationColumns+`
		FROM application
		WHERE project_id = $1 AND id = $2
	`, projectID, id)
	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("application %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	return a, nil
}

// ListByProject returns a project's applications, oldest first.
func (s *ApplicationStore) ListByProject(ctx context.Context, projectID string) ([]models.Application, error) {
	return s.list(ctx, `
		SELECT `+applicationColumns+`
		FROM application
		WHERE project_id = $1
		ORDER BY submitted_at
	`, projectID)
}

// ListByDeveloper returns everything a developer submitted, newest first.
func (s *ApplicationStore) ListByDeveloper(ctx context.Context, developerID string) ([]models.Application, error) {
	return s.list(ctx, `
		SELECT `+applicationColumns+`
		FROM application
		WHERE developer_id = $1
		ORDER BY submitted_at DESC
	`, developerID)
}

// UpdateStatus moves an application from one status to another. The write
// only happens if the stored status still equals from; otherwise
// ErrConflict is returned and nothing changes.
func (s *ApplicationStore) UpdateStatus(ctx context.Context, principal models.Profile, project models.Project, id string, from, to models.ApplicationStatus) (*models.Application, error) {
	if err := AuthorizeStatusUpdate(principal, project, id, to); err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE application
		SET status = $1
		WHERE id = $2 AND project_id = $3 AND status = $4
	`, string(to), id, project.ID, string(from))
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	current, err := s.Get(ctx, project.ID, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: application %s is %s, not %s", ErrConflict, id, current.Status, from)
	}

	publish(ctx, s.broker, pubsub.Event{
		Collection: pubsub.ApplicationsCollection(project.ID),
		DocumentID: id,
		Operation:  pubsub.OpUpdate,
	})
	return current, nil
}

// AuthorizeStatusUpdate applies the update rule without writing, so callers
// that may skip the write still refuse non-owners.
func AuthorizeStatusUpdate(principal models.Profile, project models.Project, id string, to models.ApplicationStatus) error {
	if canUpdateApplication(principal, project) {
		return nil
	}
	return &PermissionError{
		Path:                pubsub.ApplicationsCollection(project.ID) + "/" + id,
		Operation:           pubsub.OpUpdate,
		RequestResourceData: map[string]string{"status": string(to)},
		PrincipalID:         principal.ID,
	}
}

// Subscribe delivers an event whenever an application under projectID is
// created or updated.
func (s *ApplicationStore) Subscribe(ctx context.Context, projectID string) (*pubsub.Subscription, error) {
	return s.broker.Subscribe(ctx, pubsub.ApplicationsCollection(projectID))
}

func (s *ApplicationStore) list(ctx context.Context, query string, args ...any) ([]models.Application, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	apps := []models.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read applications: %w", err)
	}
	return apps, nil
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var a models.Application
	var status string
	err := row.Scan(&a.ID, &a.ProjectID, &a.DeveloperID, &a.DeveloperName, &a.DeveloperEmail,
		&a.ResumeURL, &a.LinkedinURL, &a.GithubURL, &a.ProposalText, &status, &a.SubmittedAt)
	if err != nil {
		return nil, err
	}
	a.Status = models.ApplicationStatus(status)
	a.SubmittedAt = a.SubmittedAt.UTC()
	return &a, nil
}
