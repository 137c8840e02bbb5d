// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import (
	"fmt"
	"net/mail"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/collabhub/models"
)

// Form limits
const (
	MinNameLength        = 2
	MinProposalLength    = 100
	MinTitleLength       = 5
	MinDescriptionLength = 20
	MinTechStackLength   = 2
)

// ValidationError maps form fields to the message shown next to them.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("invalid fields: %s", strings.Join(keys, ", "))
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ValidateApplication checks an application form. It returns a
// *ValidationError listing every bad field, or nil.
func ValidateApplication(req models.SubmitApplicationRequest) error {
	verr := &ValidationError{}

	if length(req.Name) < MinNameLength {
		verr.add("name", "Name must be at least 2 characters.")
	}
	if !validEmail(req.Email) {
		verr.add("email", "Please enter a valid email address.")
	}
	if !validURL(req.ResumeURL) {
		verr.add("resume_url", "Please enter a valid URL for your resume.")
	}
	if strings.TrimSpace(req.LinkedinURL) != "" && !validURL(req.LinkedinURL) {
		verr.add("linkedin_url", "Please enter a valid LinkedIn URL.")
	}
	if strings.TrimSpace(req.GithubURL) != "" && !validURL(req.GithubURL) {
		verr.add("github_url", "Please enter a valid GitHub URL.")
	}
	if length(req.Proposal) < MinProposalLength {
		verr.add("proposal", "Proposal must be at least 100 characters.")
	}

	return verr.orNil()
}

// ValidateProject checks a project form against the current time and
// returns the parsed deadline.
func ValidateProject(req models.CreateProjectRequest, now time.Time) (time.Time, error) {
	verr := &ValidationError{}

	if length(req.Title) < MinTitleLength {
		verr.add("title", "Title must be at least 5 characters.")
	}
	if length(req.Description) < MinDescriptionLength {
		verr.add("description", "Description must be at least 20 characters.")
	}
	if length(req.TechStack) < MinTechStackLength || len(models.ParseTags(req.TechStack)) == 0 {
		verr.add("tech_stack", "Please list at least one technology.")
	}
	if !(req.Budget > 0) {
		verr.add("budget", "Budget must be a positive number.")
	}

	var deadline time.Time
	if strings.TrimSpace(req.Deadline) == "" {
		verr.add("deadline", "A project deadline is required.")
	} else if d, ok := parseDeadline(req.Deadline); !ok {
		verr.add("deadline", "Please enter a valid date.")
	} else if day(d).Before(day(now)) {
		verr.add("deadline", "The deadline cannot be in the past.")
	} else {
		deadline = d
	}

	return deadline, verr.orNil()
}

func length(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

func validEmail(s string) bool {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func validURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// parseDeadline accepts RFC 3339 timestamps and bare YYYY-MM-DD dates.
func parseDeadline(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
