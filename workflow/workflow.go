// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/collabhub/events"
	"github.com/danielhkuo/collabhub/models"
	"github.com/danielhkuo/collabhub/store"
)

var (
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrProjectClosed     = errors.New("project is not open for applications")
)

// Service runs the write paths: project creation, application submission
// and application status changes.
type Service struct {
	projects     *store.ProjectStore
	applications *store.ApplicationStore
	emitter      *events.Emitter
	now          func() time.Time
}

func NewService(projects *store.ProjectStore, applications *store.ApplicationStore, emitter *events.Emitter) *Service {
	return &Service{
		projects:     projects,
		applications: applications,
		emitter:      emitter,
		now:          time.Now,
	}
}

// CreateProject validates the form and writes an open project owned by
// company.
func (s *Service) CreateProject(ctx context.Context, company models.Profile, req models.CreateProjectRequest) (*models.Project, error) {
	deadline, err := ValidateProject(req, s.now())
	if err != nil {
		return nil, err
	}

	p, err := s.projects.Create(ctx, company, models.Project{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		TechStack:   strings.TrimSpace(req.TechStack),
		Budget:      req.Budget,
		Deadline:    deadline,
		CompanyID:   company.ID,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		s.report(err)
		return nil, err
	}

	slog.Info("project created", "project_id", p.ID, "company_id", company.ID)
	return p, nil
}

// SubmitApplication validates the form and writes one Submitted
// application under project. Nothing is written if validation fails.
func (s *Service) SubmitApplication(ctx context.Context, project models.Project, developer models.Profile, req models.SubmitApplicationRequest) (*models.Application, error) {
	if err := ValidateApplication(req); err != nil {
		return nil, err
	}
	if project.Status != models.ProjectStatusOpen {
		return nil, ErrProjectClosed
	}

	a, err := s.applications.Create(ctx, developer, project, models.Application{
		ProjectID:      project.ID,
		DeveloperID:    developer.ID,
		DeveloperName:  strings.TrimSpace(req.Name),
		DeveloperEmail: strings.TrimSpace(req.Email),
		ResumeURL:      strings.TrimSpace(req.ResumeURL),
		LinkedinURL:    strings.TrimSpace(req.LinkedinURL),
		GithubURL:      strings.TrimSpace(req.GithubURL),
		ProposalText:   strings.TrimSpace(req.Proposal),
		Status:         models.StatusSubmitted,
		SubmittedAt:    s.now().UTC(),
	})
	if err != nil {
		s.report(err)
		return nil, err
	}

	slog.Info("application submitted", "application_id", a.ID, "project_id", project.ID, "developer_id", developer.ID)
	return a, nil
}

// Transition moves an application of project to status to. changed is
// false when the application already had that status, in which case
// nothing is written or published.
func (s *Service) Transition(ctx context.Context, company models.Profile, project models.Project, applicationID string, to models.ApplicationStatus) (app *models.Application, changed bool, err error) {
	if err := store.AuthorizeStatusUpdate(company, project, applicationID, to); err != nil {
		s.report(err)
		return nil, false, err
	}

	current, err := s.applications.Get(ctx, project.ID, applicationID)
	if err != nil {
		return nil, false, err
	}
	if current.Status == to {
		return current, false, nil
	}
	if !CanTransition(current.Status, to) {
		return nil, false, fmt.Errorf("%w: %s to %s", ErrIllegalTransition, current.Status, to)
	}

	updated, err := s.applications.UpdateStatus(ctx, company, project, applicationID, current.Status, to)
	if err != nil {
		s.report(err)
		return nil, false, err
	}

	slog.Info("application status changed",
		"application_id", applicationID,
		"project_id", project.ID,
		"from", current.Status,
		"to", to,
	)
	return updated, true, nil
}

// report emits a permission event if err is a store rule violation.
func (s *Service) report(err error) {
	var perr *store.PermissionError
	if !errors.As(err, &perr) {
		return
	}
	s.emitter.Emit(events.PermissionEvent{
		Path:                perr.Path,
		Operation:           perr.Operation,
		RequestResourceData: perr.RequestResourceData,
		PrincipalID:         perr.PrincipalID,
	})
}
