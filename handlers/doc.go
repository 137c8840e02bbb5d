// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the CollabHub API.

# Handler Types

Each handler is a struct over the services it calls:

  - AuthHandler: sign-up, login, logout and the current session
  - ProjectHandler: featured projects, project detail, project posting
  - ApplicationHandler: application submission and status changes
  - DashboardHandler: developer and company dashboards, live updates
  - ProposalHandler: AI proposal drafts

Handlers behind the role guard read the caller's profile from the request
context, so they are always registered through Guard.Require:

	mux.HandleFunc("POST /company/projects",
		middleware.WithLogging(guard.Require(models.RoleCompany, projectHandler.Create)))

# Errors

writeError maps domain errors to one response shape:

	validation           → 400 with fields
	permission           → 403 "You do not have permission to perform this action."
	duplicate            → 409 "You have already applied to this project."
	illegal transition   → 409
	not found            → 404
	assistant failure    → 502 (503 when no model is configured)

# Live Dashboard

GET /company/dashboard/live upgrades to a WebSocket and writes a full
company snapshot on connect and after every change to the company's
projects or their applications. Browsers pass the session token as the
access_token query parameter. Closing the socket stops the watch and
releases its subscriptions.
*/
package handlers
