// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/collabhub/identity"
	"github.com/danielhkuo/collabhub/models"
	"github.com/danielhkuo/collabhub/store"
	"github.com/danielhkuo/collabhub/testutil"
)

func TestDecide(t *testing.T) {
	principal := &models.Principal{ID: "p1"}
	developer := &models.Profile{ID: "p1", Role: models.RoleDeveloper}
	company := &models.Profile{ID: "p1", Role: models.RoleCompany}

	testCases := []struct {
		name      string
		principal *models.Principal
		profile   *models.Profile
		required  models.Role
		allow     bool
		status    int
		redirect  string
		notice    string
	}{
		{"no principal", nil, nil, models.RoleDeveloper, false, http.StatusUnauthorized, "/login", "Please log in to continue."},
		{"no profile", principal, nil, models.RoleCompany, false, http.StatusForbidden, "/login", "No profile found for this account."},
		{"developer on company route", principal, developer, models.RoleCompany, false, http.StatusForbidden, "/dashboard", "Access denied: this area is for company accounts."},
		{"company on developer route", principal, company, models.RoleDeveloper, false, http.StatusForbidden, "/company/dashboard", "Access denied: this area is for developer accounts."},
		{"developer allowed", principal, developer, models.RoleDeveloper, true, http.StatusOK, "", ""},
		{"company allowed", principal, company, models.RoleCompany, true, http.StatusOK, "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := Decide(tc.principal, tc.profile, tc.required)
			if d.Allow != tc.allow {
				t.Errorf("Expected allow=%v, got %v", tc.allow, d.Allow)
			}
			if d.Status != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, d.Status)
			}
			if d.Redirect != tc.redirect {
				t.Errorf("Expected redirect '%s', got '%s'", tc.redirect, d.Redirect)
			}
			if d.Notice != tc.notice {
				t.Errorf("Expected notice '%s', got '%s'", tc.notice, d.Notice)
			}
		})
	}
}

type fakeProfiles struct {
	err error
}

func (f fakeProfiles) Get(ctx context.Context, id string) (*models.Profile, error) {
	return nil, f.err
}

type fakeAuthenticator struct {
	err error
}

func (f fakeAuthenticator) Current(ctx context.Context, token string) (*models.Principal, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Principal{ID: "p1"}, nil
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestGuard_Require(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	provider := testutil.NewTestProvider(t, conn)
	guard := NewGuard(provider, store.NewProfileStore(conn))

	dev := testutil.CreateTestUser(t, conn, models.RoleDeveloper, "Dana Developer")
	company := testutil.CreateTestUser(t, conn, models.RoleCompany, "Acme Corp")

	var seen *models.Profile
	handler := guard.Require(models.RoleCompany, func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ProfileFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("no token", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest("GET", "/company/dashboard", nil))

		testutil.AssertStatus(t, w, http.StatusUnauthorized)
		if loc := w.Header().Get("Location"); loc != "/login" {
			t.Errorf("Expected Location '/login', got '%s'", loc)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler(w, testutil.MakeRequest("GET", "/company/dashboard", nil, testutil.BearerHeader("not-a-token")))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("wrong role redirects to own portal", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler(w, testutil.MakeRequest("GET", "/company/dashboard", nil, testutil.BearerHeader(dev.Token)))

		testutil.AssertStatus(t, w, http.StatusForbidden)
		var resp models.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.Redirect != "/dashboard" {
			t.Errorf("Expected redirect '/dashboard', got '%s'", resp.Redirect)
		}
		if resp.Message != "Access denied: this area is for company accounts." {
			t.Errorf("Unexpected notice '%s'", resp.Message)
		}
	})

	t.Run("right role passes profile through", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler(w, testutil.MakeRequest("GET", "/company/dashboard", nil, testutil.BearerHeader(company.Token)))

		testutil.AssertStatus(t, w, http.StatusOK)
		if seen == nil || seen.ID != company.Principal.ID {
			t.Errorf("Expected company profile in context, got %+v", seen)
		}
	})

	t.Run("revoked session", func(t *testing.T) {
		s := testutil.CreateTestUser(t, conn, models.RoleCompany, "Globex")
		if err := provider.SignOut(context.Background(), s.Token); err != nil {
			t.Fatalf("SignOut failed: %v", err)
		}
		w := httptest.NewRecorder()
		handler(w, testutil.MakeRequest("GET", "/company/dashboard", nil, testutil.BearerHeader(s.Token)))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})
}

func TestGuard_ProfileLookup(t *testing.T) {
	testCases := []struct {
		name   string
		auth   fakeAuthenticator
		err    error
		status int
	}{
		{"missing profile", fakeAuthenticator{}, store.ErrNotFound, http.StatusForbidden},
		{"profile lookup fails", fakeAuthenticator{}, errors.New("connection reset"), http.StatusServiceUnavailable},
		{"session lookup fails", fakeAuthenticator{err: errors.New("connection reset")}, nil, http.StatusServiceUnavailable},
		{"session invalid", fakeAuthenticator{err: identity.ErrUnauthenticated}, nil, http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			guard := NewGuard(tc.auth, fakeProfiles{err: tc.err})
			w := httptest.NewRecorder()
			guard.Require(models.RoleDeveloper, okHandler)(w, testutil.MakeRequest("GET", "/dashboard", nil, testutil.BearerHeader("t")))
			testutil.AssertStatus(t, w, tc.status)
		})
	}
}

func TestGuard_Authenticate(t *testing.T) {
	guard := NewGuard(fakeAuthenticator{}, fakeProfiles{err: store.ErrNotFound})

	var token string
	var hasProfile bool
	handler := guard.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		token = TokenFromContext(r.Context())
		_, hasProfile = ProfileFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	handler(w, testutil.MakeRequest("GET", "/auth/me", nil, testutil.BearerHeader("abc")))
	testutil.AssertStatus(t, w, http.StatusOK)
	if token != "abc" {
		t.Errorf("Expected token 'abc' in context, got '%s'", token)
	}
	if hasProfile {
		t.Error("Expected no profile in context")
	}

	w = httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/auth/me", nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestBearerToken(t *testing.T) {
	testCases := []struct {
		name   string
		header string
		target string
		want   string
	}{
		{"bearer header", "Bearer abc", "/", "abc"},
		{"lower case scheme", "bearer abc", "/", "abc"},
		{"wrong scheme", "Basic abc", "/?access_token=xyz", ""},
		{"query fallback", "", "/live?access_token=xyz", "xyz"},
		{"none", "", "/", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if got := BearerToken(req); got != tc.want {
				t.Errorf("Expected '%s', got '%s'", tc.want, got)
			}
		})
	}
}
