// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dashboard

import (
	"context"
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/collabhub/models"
	"github.com/danielhkuo/collabhub/store"
)

// FeaturedLimit is how many projects the landing page shows.
const FeaturedLimit = 3

// CompanyApplication is an application with the title of its project.
type CompanyApplication struct {
	models.Application
	ProjectTitle string `json:"project_title"`
}

// CompanySnapshot is everything the company dashboard shows at one moment.
type CompanySnapshot struct {
	Projects     []models.ProjectCard `json:"projects"`
	Applications []CompanyApplication `json:"applications"`
	Counters     Counters             `json:"counters"`
}

// Service builds the read-only dashboard views.
type Service struct {
	projects     *store.ProjectStore
	applications *store.ApplicationStore
	now          func() time.Time
}

func NewService(projects *store.ProjectStore, applications *store.ApplicationStore) *Service {
	return &Service{projects: projects, applications: applications, now: time.Now}
}

// Developer lists open projects, newest first. With skills, only projects
// sharing at least one tag (case-insensitive) are kept.
func (s *Service) Developer(ctx context.Context, skills []string) ([]models.ProjectCard, error) {
	projects, err := s.projects.ListOpen(ctx, 0)
	if err != nil {
		return nil, err
	}

	want := foldSet(skills)
	cards := []models.ProjectCard{}
	for _, p := range projects {
		if want.Cardinality() > 0 && foldSet(p.Tags()).Intersect(want).Cardinality() == 0 {
			continue
		}
		cards = append(cards, s.card(p))
	}
	return cards, nil
}

// Featured returns the newest FeaturedLimit open projects.
func (s *Service) Featured(ctx context.Context) ([]models.ProjectCard, error) {
	projects, err := s.projects.ListOpen(ctx, FeaturedLimit)
	if err != nil {
		return nil, err
	}
	return s.cards(projects), nil
}

// MyApplications lists the developer's own applications.
func (s *Service) MyApplications(ctx context.Context, developerID string) ([]models.Application, error) {
	return s.applications.ListByDeveloper(ctx, developerID)
}

// Company loads the company's projects and, concurrently, each project's
// applications.
func (s *Service) Company(ctx context.Context, companyID string) (*CompanySnapshot, error) {
	projects, err := s.projects.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	slices := make([][]models.Application, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range projects {
		g.Go(func() error {
			apps, err := s.applications.ListByProject(gctx, p.ID)
			if err != nil {
				return fmt.Errorf("project %s: %w", p.ID, err)
			}
			slices[i] = apps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	state := State{}
	for i, p := range projects {
		state = Reduce(state, p.ID, slices[i])
	}
	return s.snapshot(projects, state), nil
}

func (s *Service) snapshot(projects []models.Project, state State) *CompanySnapshot {
	titles := make(map[string]string, len(projects))
	for _, p := range projects {
		titles[p.ID] = p.Title
	}

	merged := Flatten(state)
	apps := make([]CompanyApplication, 0, len(merged))
	for _, a := range merged {
		apps = append(apps, CompanyApplication{Application: a, ProjectTitle: titles[a.ProjectID]})
	}

	return &CompanySnapshot{
		Projects:     s.cards(projects),
		Applications: apps,
		Counters:     Count(projects, merged),
	}
}

func (s *Service) cards(projects []models.Project) []models.ProjectCard {
	cards := make([]models.ProjectCard, 0, len(projects))
	for _, p := range projects {
		cards = append(cards, s.card(p))
	}
	return cards
}

func (s *Service) card(p models.Project) models.ProjectCard {
	return models.ProjectCard{
		Project:       p,
		Tags:          p.Tags(),
		PostedAgo:     humanize.RelTime(p.CreatedAt, s.now(), "ago", "from now"),
		BudgetDisplay: "$" + humanize.Commaf(p.Budget),
	}
}

func foldSet(tags []string) mapset.Set[string] {
	set := mapset.NewSet[string]()
	for _, t := range tags {
		if f := models.FoldTag(t); f != "" {
			set.Add(f)
		}
	}
	return set
}
