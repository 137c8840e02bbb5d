// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/danielhkuo/collabhub/assistant"
	"github.com/danielhkuo/collabhub/auth"
	"github.com/danielhkuo/collabhub/cliparse"
	"github.com/danielhkuo/collabhub/dashboard"
	"github.com/danielhkuo/collabhub/events"
	"github.com/danielhkuo/collabhub/handlers"
	"github.com/danielhkuo/collabhub/identity"
	"github.com/danielhkuo/collabhub/middleware"
	"github.com/danielhkuo/collabhub/models"
	"github.com/danielhkuo/collabhub/pubsub"
	"github.com/danielhkuo/collabhub/store"
	"github.com/danielhkuo/collabhub/workflow"
)

// Rate limits per client IP.
const (
	authLimit   = 10
	authWindow  = time.Minute
	draftLimit  = 5
	draftWindow = time.Minute
)

// Dependencies are the process-level services the routes share. Zero
// values get in-process defaults; a nil Generator disables the proposal
// assistant.
type Dependencies struct {
	Broker    pubsub.Broker
	Emitter   *events.Emitter
	Limiter   middleware.Limiter
	Generator assistant.Generator
}

func NewRouter(db *sql.DB, cfg cliparse.Config, deps Dependencies) (*http.ServeMux, error) {
	if deps.Broker == nil {
		deps.Broker = pubsub.NewMemoryBroker()
	}
	if deps.Emitter == nil {
		deps.Emitter = events.NewEmitter()
	}
	if deps.Limiter == nil {
		deps.Limiter = middleware.NewRateLimiter()
	}

	issuer, err := auth.NewIssuer(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}

	profiles := store.NewProfileStore(db)
	projects := store.NewProjectStore(db, deps.Broker)
	applications := store.NewApplicationStore(db, deps.Broker)

	provider := identity.NewProvider(db, issuer, profiles)
	guard := middleware.NewGuard(provider, profiles)
	wf := workflow.NewService(projects, applications, deps.Emitter)
	dash := dashboard.NewService(projects, applications)
	drafts := assistant.New(deps.Generator, cfg.ExampleProposals)

	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(provider)
	projectHandler := handlers.NewProjectHandler(projects, wf, dash)
	applicationHandler := handlers.NewApplicationHandler(projects, wf)
	dashboardHandler := handlers.NewDashboardHandler(dash)
	proposalHandler := handlers.NewProposalHandler(projects, drafts)

	clientKey := middleware.ClientKey(cfg.SessionSecret)
	developer := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(guard.Require(models.RoleDeveloper, h))
	}
	company := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(guard.Require(models.RoleCompany, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Identity
	mux.HandleFunc("POST /auth/signup", middleware.WithLogging(
		middleware.WithRateLimit(deps.Limiter, clientKey, authLimit, authWindow, authHandler.SignUp)))
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(
		middleware.WithRateLimit(deps.Limiter, clientKey, authLimit, authWindow, authHandler.Login)))
	mux.HandleFunc("POST /auth/logout", middleware.WithLogging(guard.Authenticate(authHandler.Logout)))
	mux.HandleFunc("GET /auth/me", middleware.WithLogging(guard.Authenticate(authHandler.Me)))

	// Projects
	mux.HandleFunc("GET /projects/featured", middleware.WithLogging(projectHandler.Featured))
	mux.HandleFunc("GET /projects/{id}", middleware.WithLogging(guard.Authenticate(projectHandler.Get)))

	// Developer portal
	mux.HandleFunc("GET /dashboard", developer(dashboardHandler.Developer))
	mux.HandleFunc("GET /dashboard/applications", developer(dashboardHandler.MyApplications))
	mux.HandleFunc("POST /projects/{id}/applications", developer(applicationHandler.Submit))
	mux.HandleFunc("POST /projects/{id}/proposal-draft", developer(
		middleware.WithRateLimit(deps.Limiter, clientKey, draftLimit, draftWindow, proposalHandler.Draft)))

	// Company portal
	mux.HandleFunc("GET /company/dashboard", company(dashboardHandler.Company))
	mux.HandleFunc("GET /company/dashboard/live", company(dashboardHandler.Live))
	mux.HandleFunc("POST /company/projects", company(projectHandler.Create))
	mux.HandleFunc("PATCH /company/projects/{projectID}/applications/{applicationID}", company(applicationHandler.UpdateStatus))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("collabhub API v1"))
	})

	return mux, nil
}
