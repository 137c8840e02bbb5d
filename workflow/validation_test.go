// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/collabhub/models"
)

func validApplication() models.SubmitApplicationRequest {
	return models.SubmitApplicationRequest{
		Name:      "Dana Dev",
		Email:     "dana@example.com",
		ResumeURL: "https://example.com/resume.pdf",
		Proposal:  strings.Repeat("p", MinProposalLength),
	}
}

func TestValidateApplication(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.SubmitApplicationRequest)
		fields []string
	}{
		{"valid", func(r *models.SubmitApplicationRequest) {}, nil},
		{"valid with optional urls", func(r *models.SubmitApplicationRequest) {
			r.LinkedinURL = "https://linkedin.com/in/dana"
			r.GithubURL = "https://github.com/dana"
		}, nil},
		{"short name", func(r *models.SubmitApplicationRequest) { r.Name = " D " }, []string{"name"}},
		{"bad email", func(r *models.SubmitApplicationRequest) { r.Email = "dana-at-example" }, []string{"email"}},
		{"relative resume url", func(r *models.SubmitApplicationRequest) { r.ResumeURL = "/resume.pdf" }, []string{"resume_url"}},
		{"ftp resume url", func(r *models.SubmitApplicationRequest) { r.ResumeURL = "ftp://example.com/cv" }, []string{"resume_url"}},
		{"bad linkedin", func(r *models.SubmitApplicationRequest) { r.LinkedinURL = "linkedin" }, []string{"linkedin_url"}},
		{"bad github", func(r *models.SubmitApplicationRequest) { r.GithubURL = "github.com/dana" }, []string{"github_url"}},
		{"proposal 99 chars", func(r *models.SubmitApplicationRequest) { r.Proposal = strings.Repeat("p", 99) }, []string{"proposal"}},
		{"everything wrong", func(r *models.SubmitApplicationRequest) {
			*r = models.SubmitApplicationRequest{}
		}, []string{"name", "email", "resume_url", "proposal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validApplication()
			tt.mutate(&req)

			err := ValidateApplication(req)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Fields, len(tt.fields))
			for _, f := range tt.fields {
				assert.Contains(t, verr.Fields, f)
			}
		})
	}
}

func TestValidateApplication_Messages(t *testing.T) {
	req := validApplication()
	req.Proposal = "too short"

	var verr *ValidationError
	require.ErrorAs(t, ValidateApplication(req), &verr)
	assert.Equal(t, "Proposal must be at least 100 characters.", verr.Fields["proposal"])
}

func TestValidateProject(t *testing.T) {
	now := time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)

	valid := models.CreateProjectRequest{
		Title:       "Marketplace MVP",
		Description: "Build the first version of a marketplace.",
		TechStack:   "Go, React",
		Budget:      5000,
		Deadline:    "2025-07-15",
	}

	tests := []struct {
		name   string
		mutate func(*models.CreateProjectRequest)
		field  string
	}{
		{"valid", func(r *models.CreateProjectRequest) {}, ""},
		{"deadline today", func(r *models.CreateProjectRequest) { r.Deadline = "2025-06-15" }, ""},
		{"rfc3339 deadline", func(r *models.CreateProjectRequest) { r.Deadline = "2025-06-20T12:00:00Z" }, ""},
		{"short title", func(r *models.CreateProjectRequest) { r.Title = "MVP" }, "title"},
		{"short description", func(r *models.CreateProjectRequest) { r.Description = "Too short" }, "description"},
		{"empty tech stack", func(r *models.CreateProjectRequest) { r.TechStack = " , " }, "tech_stack"},
		{"zero budget", func(r *models.CreateProjectRequest) { r.Budget = 0 }, "budget"},
		{"negative budget", func(r *models.CreateProjectRequest) { r.Budget = -10 }, "budget"},
		{"missing deadline", func(r *models.CreateProjectRequest) { r.Deadline = "" }, "deadline"},
		{"garbage deadline", func(r *models.CreateProjectRequest) { r.Deadline = "next week" }, "deadline"},
		{"past deadline", func(r *models.CreateProjectRequest) { r.Deadline = "2025-06-14" }, "deadline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			deadline, err := ValidateProject(req, now)
			if tt.field == "" {
				require.NoError(t, err)
				assert.False(t, deadline.IsZero())
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.ApplicationStatus
		want     bool
	}{
		{models.StatusSubmitted, models.StatusInReview, true},
		{models.StatusSubmitted, models.StatusAccepted, true},
		{models.StatusInReview, models.StatusWaitlisted, true},
		{models.StatusWaitlisted, models.StatusShortlisted, true},
		{models.StatusShortlisted, models.StatusRejected, true},
		{models.StatusInReview, models.StatusSubmitted, false},
		{models.StatusAccepted, models.StatusRejected, false},
		{models.StatusRejected, models.StatusInReview, false},
		{models.StatusAccepted, models.StatusAccepted, true},
		{models.StatusSubmitted, "Hired", false},
		{models.StatusSubmitted, "in review", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTargets(t *testing.T) {
	assert.Equal(t, []models.ApplicationStatus{
		models.StatusInReview,
		models.StatusShortlisted,
		models.StatusWaitlisted,
		models.StatusAccepted,
		models.StatusRejected,
	}, Targets(models.StatusSubmitted))
	assert.Empty(t, Targets(models.StatusAccepted))
	assert.Empty(t, Targets(models.StatusRejected))
}
