// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/collabhub/models"
	"github.com/danielhkuo/collabhub/testutil"
)

// TestConcurrentApplications verifies that simultaneous submissions from
// different developers are all stored
func TestConcurrentApplications(t *testing.T) {
	env := newTestEnv(t, nil)
	company := testutil.CreateTestUser(t, env.db, models.RoleCompany, "Acme Corp")
	project := testutil.CreateTestProject(t, env.db, *company.Profile, "Marketplace API")

	numDevelopers := 10
	tokens := make([]string, numDevelopers)
	for i := range tokens {
		tokens[i] = testutil.CreateTestUser(t, env.db, models.RoleDeveloper, fmt.Sprintf("Developer %d", i)).Token
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < numDevelopers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := env.as(models.RoleDeveloper, env.application.Submit,
				request("POST", "/", validApplication(fmt.Sprintf("Developer %d", i)), tokens[i], "id", project.ID))
			if w.Code == http.StatusCreated {
				successCount.Add(1)
			} else {
				t.Errorf("developer %d: expected 201, got %d - %s", i, w.Code, w.Body.String())
			}
		}(i)
	}
	wg.Wait()

	if got := successCount.Load(); got != int32(numDevelopers) {
		t.Errorf("Expected %d submissions, got %d", numDevelopers, got)
	}
	apps, err := env.applications.ListByProject(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(apps) != numDevelopers {
		t.Errorf("Expected %d stored applications, got %d", numDevelopers, len(apps))
	}
}

// TestConcurrentDuplicateApplications verifies that one developer racing
// itself ends up with exactly one application
func TestConcurrentDuplicateApplications(t *testing.T) {
	env := newTestEnv(t, nil)
	company := testutil.CreateTestUser(t, env.db, models.RoleCompany, "Acme Corp")
	developer := testutil.CreateTestUser(t, env.db, models.RoleDeveloper, "Dana Developer")
	project := testutil.CreateTestProject(t, env.db, *company.Profile, "Marketplace API")

	attempts := 5
	var created, conflicts atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := env.as(models.RoleDeveloper, env.application.Submit,
				request("POST", "/", validApplication("Dana Developer"), developer.Token, "id", project.ID))
			switch w.Code {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusConflict:
				conflicts.Add(1)
			default:
				t.Errorf("unexpected status %d - %s", w.Code, w.Body.String())
			}
		}()
	}
	wg.Wait()

	if created.Load() != 1 {
		t.Errorf("Expected exactly one submission to succeed, got %d", created.Load())
	}
	if conflicts.Load() != int32(attempts-1) {
		t.Errorf("Expected %d conflicts, got %d", attempts-1, conflicts.Load())
	}
}

// TestConcurrentStatusUpdates verifies that racing transitions leave the
// application in one of the requested states
func TestConcurrentStatusUpdates(t *testing.T) {
	env := newTestEnv(t, nil)
	company := testutil.CreateTestUser(t, env.db, models.RoleCompany, "Acme Corp")
	developer := testutil.CreateTestUser(t, env.db, models.RoleDeveloper, "Dana Developer")
	project := testutil.CreateTestProject(t, env.db, *company.Profile, "Marketplace API")
	app := testutil.CreateTestApplication(t, env.db, *developer.Profile, project, models.StatusSubmitted)

	statuses := []string{"Accepted", "Rejected", "Accepted", "Rejected"}
	var wg sync.WaitGroup
	for _, status := range statuses {
		wg.Add(1)
		go func(status string) {
			defer wg.Done()
			w := env.as(models.RoleCompany, env.application.UpdateStatus,
				request("PATCH", "/", models.UpdateStatusRequest{Status: status}, company.Token,
					"projectID", project.ID, "applicationID", app.ID))
			if w.Code != http.StatusOK && w.Code != http.StatusConflict {
				t.Errorf("unexpected status %d - %s", w.Code, w.Body.String())
			}
		}(status)
	}
	wg.Wait()

	got, err := env.applications.Get(context.Background(), project.ID, app.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != models.StatusAccepted && got.Status != models.StatusRejected {
		t.Errorf("Expected a terminal status, got %s", got.Status)
	}
}
