// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/collabhub/identity"
	"github.com/danielhkuo/collabhub/models"
	"github.com/danielhkuo/collabhub/store"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	profileKey   contextKey = "profile"
	tokenKey     contextKey = "token"
)

// Decision is the outcome of a role check.
type Decision struct {
	Allow    bool
	Status   int
	Redirect string
	Notice   string
}

// Decide checks principal and profile against the required role.
func Decide(principal *models.Principal, profile *models.Profile, required models.Role) Decision {
	switch {
	case principal == nil:
		return Decision{
			Status:   http.StatusUnauthorized,
			Redirect: "/login",
			Notice:   "Please log in to continue.",
		}
	case profile == nil:
		return Decision{
			Status:   http.StatusForbidden,
			Redirect: "/login",
			Notice:   "No profile found for this account.",
		}
	case profile.Role != required:
		return Decision{
			Status:   http.StatusForbidden,
			Redirect: profile.Role.Portal(),
			Notice:   fmt.Sprintf("Access denied: this area is for %s accounts.", required),
		}
	}
	return Decision{Allow: true, Status: http.StatusOK}
}

// Authenticator resolves a session token to its principal.
type Authenticator interface {
	Current(ctx context.Context, token string) (*models.Principal, error)
}

// ProfileLoader fetches a profile by principal id.
type ProfileLoader interface {
	Get(ctx context.Context, id string) (*models.Profile, error)
}

// Guard authenticates requests and enforces roles.
type Guard struct {
	identity Authenticator
	profiles ProfileLoader
}

func NewGuard(identity Authenticator, profiles ProfileLoader) *Guard {
	return &Guard{identity: identity, profiles: profiles}
}

// Authenticate requires a valid session. The principal, its profile (which
// may be absent) and the raw token are stored in the request context.
func (g *Guard) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, ok := g.resolve(w, r)
		if !ok {
			return
		}
		if _, ok := PrincipalFromContext(ctx); !ok {
			deny(w, Decide(nil, nil, ""))
			return
		}
		next(w, r.WithContext(ctx))
	}
}

// Require allows the request through only for principals whose profile has
// the given role.
func (g *Guard) Require(role models.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, ok := g.resolve(w, r)
		if !ok {
			return
		}
		principal, _ := PrincipalFromContext(ctx)
		profile, _ := ProfileFromContext(ctx)

		d := Decide(principal, profile, role)
		if !d.Allow {
			slog.Info("access denied",
				"path", r.URL.Path,
				"required_role", role,
				"status", d.Status,
			)
			deny(w, d)
			return
		}
		next(w, r.WithContext(ctx))
	}
}

// resolve loads the principal and profile behind the request's token. It
// writes a response and returns false only on lookup failures; a missing
// or invalid token leaves the context without a principal.
func (g *Guard) resolve(w http.ResponseWriter, r *http.Request) (context.Context, bool) {
	ctx := r.Context()
	token := BearerToken(r)
	if token == "" {
		return ctx, true
	}

	principal, err := g.identity.Current(ctx, token)
	if errors.Is(err, identity.ErrUnauthenticated) {
		return ctx, true
	}
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		ErrorResponse(w, http.StatusServiceUnavailable, "Could not verify your session")
		return ctx, false
	}
	ctx = context.WithValue(ctx, principalKey, principal)
	ctx = context.WithValue(ctx, tokenKey, token)

	profile, err := g.profiles.Get(ctx, principal.ID)
	if errors.Is(err, store.ErrNotFound) {
		return ctx, true
	}
	if err != nil {
		slog.Error("failed to load profile", "principal_id", principal.ID, "error", err)
		ErrorResponse(w, http.StatusServiceUnavailable, "Could not load your profile")
		return ctx, false
	}
	return context.WithValue(ctx, profileKey, profile), true
}

func deny(w http.ResponseWriter, d Decision) {
	RedirectResponse(w, d.Status, d.Notice, d.Redirect)
}

// BearerToken returns the token from an "Authorization: Bearer" header,
// falling back to the access_token query parameter for WebSocket clients
// that cannot set headers.
func BearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return r.URL.Query().Get("access_token")
}

func PrincipalFromContext(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*models.Principal)
	return p, ok && p != nil
}

func ProfileFromContext(ctx context.Context) (*models.Profile, bool) {
	p, ok := ctx.Value(profileKey).(*models.Profile)
	return p, ok && p != nil
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
