// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dashboard

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danielhkuo/collabhub/models"
	"github.com/danielhkuo/collabhub/pubsub"
)

// ErrSubscriptionClosed means the broker closed a subscription under a
// running Watch.
var ErrSubscriptionClosed = errors.New("subscription closed")

// Watch sends a company snapshot to emit, then a fresh one each time an
// application under one of the company's projects changes or the company
// posts a new project. It returns when ctx is done, emit fails or a
// subscription is closed; every subscription it opened is closed first.
func (s *Service) Watch(ctx context.Context, companyID string, emit func(*CompanySnapshot) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	projectsSub, err := s.projects.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer projectsSub.Close()

	subs := make(map[string]*pubsub.Subscription)
	defer func() {
		for _, sub := range subs {
			sub.Close()
		}
	}()

	// changed fans in the project id of every application event.
	changed := make(chan string, 16)
	closed := make(chan struct{}, 1)

	var projects []models.Project
	state := State{}

	watch := func(p models.Project) error {
		sub, err := s.applications.Subscribe(ctx, p.ID)
		if err != nil {
			return err
		}
		subs[p.ID] = sub

		go func() {
			for range sub.C {
				select {
				case changed <- p.ID:
				case <-ctx.Done():
					return
				}
			}
			select {
			case closed <- struct{}{}:
			default:
			}
		}()

		apps, err := s.applications.ListByProject(ctx, p.ID)
		if err != nil {
			return err
		}
		state = Reduce(state, p.ID, apps)
		return nil
	}

	projects, err = s.projects.ListByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	for _, p := range projects {
		if err := watch(p); err != nil {
			return err
		}
	}
	if err := emit(s.snapshot(projects, state)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-closed:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return ErrSubscriptionClosed

		case ev, ok := <-projectsSub.C:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrSubscriptionClosed
			}
			if ev.Operation != pubsub.OpCreate || subs[ev.DocumentID] != nil {
				continue
			}
			p, err := s.projects.Get(ctx, ev.DocumentID)
			if err != nil {
				slog.Warn("live dashboard could not load project", "project_id", ev.DocumentID, "error", err)
				continue
			}
			if p.CompanyID != companyID {
				continue
			}
			projects = append([]models.Project{*p}, projects...)
			if err := watch(*p); err != nil {
				return err
			}
			if err := emit(s.snapshot(projects, state)); err != nil {
				return err
			}

		case pid := <-changed:
			apps, err := s.applications.ListByProject(ctx, pid)
			if err != nil {
				return err
			}
			state = Reduce(state, pid, apps)
			if err := emit(s.snapshot(projects, state)); err != nil {
				return err
			}
		}
	}
}
