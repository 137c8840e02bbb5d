// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the CollabHub API.

# Route Registration

NewRouter builds the stores and services over one database connection and
returns a configured http.ServeMux:

	mux, err := router.NewRouter(db, cfg, router.Dependencies{
		Broker:    broker,
		Emitter:   emitter,
		Generator: gemini,
	})

A zero Dependencies gets an in-memory broker, a fresh emitter and an
in-process rate limiter. Without a Generator the proposal draft route
answers 503.

# Endpoints

Health:

	GET /health
	GET /

Identity (signup and login are rate limited per client IP):

	POST /auth/signup - Create account and profile
	POST /auth/login  - Start a session
	POST /auth/logout - Revoke the session (authenticated)
	GET  /auth/me     - Current principal and profile (authenticated)

Projects:

	GET /projects/featured - Newest three projects (public)
	GET /projects/{id}     - Project detail (authenticated)

Developer portal (role developer):

	GET  /dashboard                      - Open projects, ?skills= filter
	GET  /dashboard/applications         - Own applications
	POST /projects/{id}/applications     - Submit an application
	POST /projects/{id}/proposal-draft   - Draft a proposal (rate limited)

Company portal (role company):

	GET   /company/dashboard       - Projects, applications and counters
	GET   /company/dashboard/live  - WebSocket stream of snapshots
	POST  /company/projects        - Post a project
	PATCH /company/projects/{projectID}/applications/{applicationID} - Change status
*/
package router
