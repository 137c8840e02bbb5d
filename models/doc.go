// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SignUpRequest: name, email, password, role
  - LoginRequest: email, password
  - CreateProjectRequest: title, description, tech_stack, budget, deadline
  - SubmitApplicationRequest: name, email, resume_url, linkedin_url, github_url, proposal
  - UpdateStatusRequest: status
  - ProposalDraftRequest: example_proposals

# Response Types

  - AuthResponse: token, expires_at, principal, profile, redirect
  - CreateProjectResponse, SubmitApplicationResponse, UpdateStatusResponse
  - ProposalDraftResponse: proposal, message
  - DeveloperDashboardResponse: projects (as ProjectCard)
  - ErrorResponse: error, message, fields, redirect

# Domain Types

  - Principal: authenticated identity (id, display name, email)
  - Profile: user profile keyed by principal id, carrying the Role
  - Project: posting owned by a company profile
  - Application: a developer's proposal under a project

# Roles

	RoleDeveloper = "developer"
	RoleCompany   = "company"

Role.Portal gives the landing route for each role.

# Application Statuses

	Submitted, In Review, Shortlisted, Waitlisted, Accepted, Rejected

The values are stored and returned verbatim, spaces included.

# Tags

A project's tech stack is a comma-separated string. ParseTags splits it and
FoldTag gives the case-folded key used for skill matching.
*/
package models
