// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/collabhub/auth"
	"github.com/danielhkuo/collabhub/cliparse"
	"github.com/danielhkuo/collabhub/db"
	"github.com/danielhkuo/collabhub/identity"
	"github.com/danielhkuo/collabhub/models"
	"github.com/danielhkuo/collabhub/store"
)

// TestDBURL is an in-memory SQLite database with foreign keys enforced.
// Every SetupTestDB call gets its own database.
const TestDBURL = "file::memory:?_pragma=foreign_keys(1)"

// TestSessionSecret signs session tokens in tests.
const TestSessionSecret = "test-session-secret-0123456789abcdef"

const TestPassword = "password123"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseURL:      TestDBURL,
		DatabaseType:     db.TypeSQLite,
		SessionSecret:    TestSessionSecret,
		SessionTTL:       time.Hour,
		GenAIModel:       "test-model",
		LogLevel:         "debug",
		LogFormat:        "json",
		ExampleProposals: cliparse.DefaultExampleProposals,
	}
}

// NewTestProvider returns an identity provider over conn using the test secret.
func NewTestProvider(t *testing.T, conn *sql.DB) *identity.Provider {
	t.Helper()

	issuer, err := auth.NewIssuer(TestSessionSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to create token issuer: %v", err)
	}
	return identity.NewProvider(conn, issuer, store.NewProfileStore(conn))
}

// CreateTestUser signs up a principal with the given role and returns its
// session. The email is derived from name plus a random suffix.
func CreateTestUser(t *testing.T, conn *sql.DB, role models.Role, name string) *identity.Session {
	t.Helper()

	suffix, _ := auth.GenerateID(4)
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "." + suffix + "@example.com"

	sess, err := NewTestProvider(t, conn).SignUp(context.Background(), models.SignUpRequest{
		Name:     name,
		Email:    email,
		Password: TestPassword,
		Role:     string(role),
	})
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return sess
}

// CreateTestProject creates an open project owned by company.
func CreateTestProject(t *testing.T, conn *sql.DB, company models.Profile, title string) models.Project {
	t.Helper()

	p, err := store.NewProjectStore(conn, nil).Create(context.Background(), company, models.Project{
		Title:       title,
		Description: "A test project with a long enough description.",
		TechStack:   "Go, React, PostgreSQL",
		Budget:      5000,
		Deadline:    time.Now().UTC().AddDate(0, 1, 0),
		CompanyID:   company.ID,
	})
	if err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}
	return *p
}

// CreateTestApplication submits an application from developer to project
// and forces it to status.
func CreateTestApplication(t *testing.T, conn *sql.DB, developer models.Profile, project models.Project, status models.ApplicationStatus) models.Application {
	t.Helper()

	a, err := store.NewApplicationStore(conn, nil).Create(context.Background(), developer, project, models.Application{
		ProjectID:      project.ID,
		DeveloperID:    developer.ID,
		DeveloperName:  developer.Name,
		DeveloperEmail: developer.Email,
		ResumeURL:      "https://example.com/resume.pdf",
		ProposalText:   TestProposal,
	})
	if err != nil {
		t.Fatalf("Failed to create test application: %v", err)
	}

	if status != "" && status != a.Status {
		_, err := conn.Exec(`UPDATE application SET status = $1 WHERE id = $2`, string(status), a.ID)
		if err != nil {
			t.Fatalf("Failed to set test application status: %v", err)
		}
		a.Status = status
	}
	return *a
}

// TestProposal is a proposal long enough to pass validation.
var TestProposal = strings.Repeat("I have shipped similar projects in Go and React. ", 3)

// BearerHeader returns the Authorization header for token.
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
