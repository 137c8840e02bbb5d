// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"strings"
	"time"
)

// Role is the kind of account a principal signed up as.
type Role string

const (
	RoleDeveloper Role = "developer"
	RoleCompany   Role = "company"
)

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

func (r Role) Valid() bool {
	return r == RoleDeveloper || r == RoleCompany
}

// Portal returns the landing route for the role.
func (r Role) Portal() string {
	if r == RoleCompany {
		return "/company/dashboard"
	}
	return "/dashboard"
}

// Project status constants
const (
	ProjectStatusOpen = "open"
)

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	StatusSubmitted   ApplicationStatus = "Submitted"
	StatusInReview    ApplicationStatus = "In Review"
	StatusShortlisted ApplicationStatus = "Shortlisted"
	StatusWaitlisted  ApplicationStatus = "Waitlisted"
	StatusAccepted    ApplicationStatus = "Accepted"
	StatusRejected    ApplicationStatus = "Rejected"
)

// AllStatuses lists every status in menu order.
var AllStatuses = []ApplicationStatus{
	StatusSubmitted,
	StatusInReview,
	StatusShortlisted,
	StatusWaitlisted,
	StatusAccepted,
	StatusRejected,
}

// ParseStatus matches s against the known statuses, ignoring case and
// surrounding space.
func ParseStatus(s string) (ApplicationStatus, bool) {
	s = strings.TrimSpace(s)
	for _, st := range AllStatuses {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

// Request types

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateProjectRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	TechStack   string  `json:"tech_stack"`
	Budget      float64 `json:"budget"`
	Deadline    string  `json:"deadline"` // RFC 3339 or YYYY-MM-DD
}

type SubmitApplicationRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	ResumeURL   string `json:"resume_url"`
	LinkedinURL string `json:"linkedin_url"`
	GithubURL   string `json:"github_url"`
	Proposal    string `json:"proposal"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type ProposalDraftRequest struct {
	ExampleProposals string `json:"example_proposals"`
}

// Response types

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Principal Principal `json:"principal"`
	Profile   *Profile  `json:"profile,omitempty"`
	Redirect  string    `json:"redirect"`
	Message   string    `json:"message,omitempty"`
}

type MeResponse struct {
	Principal Principal `json:"principal"`
	Profile   *Profile  `json:"profile,omitempty"`
}

type CreateProjectResponse struct {
	Project  Project `json:"project"`
	Message  string  `json:"message"`
	Redirect string  `json:"redirect"`
}

type SubmitApplicationResponse struct {
	Application Application `json:"application"`
	Message     string      `json:"message"`
	Redirect    string      `json:"redirect"`
}

type UpdateStatusResponse struct {
	Application Application `json:"application"`
	Changed     bool        `json:"changed"`
	Message     string      `json:"message"`
}

type ProposalDraftResponse struct {
	Proposal string `json:"proposal"`
	Message  string `json:"message"`
}

type DeveloperDashboardResponse struct {
	Projects []ProjectCard `json:"projects"`
}

type ApplicationsResponse struct {
	Applications []Application `json:"applications"`
}

// Domain types

// Principal is the authenticated identity behind a request.
type Principal struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

type Profile struct {
	ID           string    `json:"id"`
	Role         Role      `json:"role"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Skills       string    `json:"skills,omitempty"`
	PortfolioURL string    `json:"portfolio_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TechStack   string    `json:"tech_stack"`
	Budget      float64   `json:"budget"`
	Deadline    time.Time `json:"deadline"`
	CompanyID   string    `json:"company_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProjectCard is a project as shown in listings.
type ProjectCard struct {
	Project
	Tags          []string `json:"tags"`
	PostedAgo     string   `json:"posted_ago"`
	BudgetDisplay string   `json:"budget_display"`
}

type Application struct {
	ID             string            `json:"id"`
	ProjectID      string            `json:"project_id"`
	DeveloperID    string            `json:"developer_id"`
	DeveloperName  string            `json:"developer_name"`
	DeveloperEmail string            `json:"developer_email"`
	ResumeURL      string            `json:"resume_url"`
	LinkedinURL    string            `json:"linkedin_url"`
	GithubURL      string            `json:"github_url"`
	ProposalText   string            `json:"proposal_text"`
	Status         ApplicationStatus `json:"status"`
	SubmittedAt    time.Time         `json:"submitted_at"`
}

// Error response

type ErrorResponse struct {
	Error    string            `json:"error"`
	Message  string            `json:"message,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}
