// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/collabhub/auth"
	"github.com/danielhkuo/collabhub/db"
	"github.com/danielhkuo/collabhub/models"
	"github.com/danielhkuo/collabhub/store"
)

// MinPasswordLength is the shortest password sign-up accepts.
const MinPasswordLength = 6

var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrEmailInUse        = errors.New("email already in use")
	ErrWeakPassword      = errors.New("weak password")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrInvalidName       = errors.New("name is required")
	ErrInvalidRole       = errors.New("role must be developer or company")
	ErrUnauthenticated   = errors.New("unauthenticated")
)

// Message returns the notice shown to the user for an identity error.
// Unrecognized errors pass their own text through.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredential):
		return "Invalid email or password."
	case errors.Is(err, ErrEmailInUse):
		return "An account with this email already exists. Please log in instead."
	case errors.Is(err, ErrWeakPassword):
		return "Password should be at least 6 characters."
	case errors.Is(err, ErrInvalidEmail):
		return "Please enter a valid email address."
	case errors.Is(err, ErrInvalidName):
		return "Please enter your name."
	case errors.Is(err, ErrInvalidRole):
		return "Please choose a developer or company account."
	default:
		return err.Error()
	}
}

// Session is the result of a successful sign-up or sign-in.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Principal models.Principal
	// Profile is nil if the principal has no profile document.
	Profile *models.Profile
}

// Provider authenticates principals against the credential and
// auth_session tables and creates profiles at sign-up.
type Provider struct {
	db       *sql.DB
	issuer   *auth.Issuer
	profiles *store.ProfileStore
	now      func() time.Time
}

func NewProvider(db *sql.DB, issuer *auth.Issuer, profiles *store.ProfileStore) *Provider {
	return &Provider{db: db, issuer: issuer, profiles: profiles, now: time.Now}
}

// SignUp creates the credential, the profile and the first session in
// one transaction.
func (p *Provider) SignUp(ctx context.Context, req models.SignUpRequest) (*Session, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		return nil, ErrInvalidRole
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	principalID := uuid.NewString()
	createdAt := p.now().UTC()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO credential (principal_id, email, password_hash, display_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, principalID, email, hash, name, createdAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("failed to insert credential: %w", err)
	}

	profile := models.Profile{
		ID:        principalID,
		Role:      role,
		Name:      name,
		Email:     email,
		CreatedAt: createdAt,
	}
	if err := p.profiles.CreateWith(ctx, tx, profile); err != nil {
		return nil, err
	}

	token, claims, err := p.openSession(ctx, tx, principalID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sign-up: %w", err)
	}

	slog.Info("principal signed up", "principal_id", principalID, "role", role)

	return &Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt,
		Principal: models.Principal{ID: principalID, DisplayName: name, Email: email},
		Profile:   &profile,
	}, nil
}

// SignIn checks the password and opens a new session.
func (p *Provider) SignIn(ctx context.Context, req models.LoginRequest) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var principal models.Principal
	var hash string
	err := p.db.QueryRowContext(ctx, `
		SELECT principal_id, display_name, email, password_hash
		FROM credential
		WHERE email = $1
	`, email).Scan(&principal.ID, &principal.DisplayName, &principal.Email, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredential
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	if err := auth.CheckPassword(hash, req.Password); err != nil {
		return nil, ErrInvalidCredential
	}

	token, claims, err := p.openSession(ctx, p.db, principal.ID)
	if err != nil {
		return nil, err
	}

	profile, err := p.profiles.Get(ctx, principal.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	slog.Info("principal signed in", "principal_id", principal.ID)

	return &Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt,
		Principal: principal,
		Profile:   profile,
	}, nil
}

// SignOut revokes the session behind token. Revoking an already revoked
// session is not an error.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	claims, err := p.issuer.Parse(token)
	if err != nil {
		return ErrUnauthenticated
	}

	_, err = p.db.ExecContext(ctx, `
		UPDATE auth_session
		SET revoked_at = $1
		WHERE id = $2 AND revoked_at IS NULL
	`, p.now().UTC(), claims.SessionID)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	slog.Info("principal signed out", "principal_id", claims.PrincipalID)
	return nil
}

// Current resolves token to its principal. Invalid, expired and revoked
// tokens all return ErrUnauthenticated.
func (p *Provider) Current(ctx context.Context, token string) (*models.Principal, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := p.issuer.Parse(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	var principal models.Principal
	var expiresAt time.Time
	var revokedAt sql.NullTime
	err = p.db.QueryRowContext(ctx, `
		SELECT c.principal_id, c.display_name, c.email, s.expires_at, s.revoked_at
		FROM auth_session s
		JOIN credential c ON c.principal_id = s.principal_id
		WHERE s.id = $1
	`, claims.SessionID).Scan(&principal.ID, &principal.DisplayName, &principal.Email, &expiresAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if revokedAt.Valid || !p.now().Before(expiresAt) || principal.ID != claims.PrincipalID {
		return nil, ErrUnauthenticated
	}
	return &principal, nil
}

func (p *Provider) openSession(ctx context.Context, q store.DBTX, principalID string) (string, auth.Claims, error) {
	token, claims, err := p.issuer.Issue(principalID)
	if err != nil {
		return "", auth.Claims{}, err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO auth_session (id, principal_id, expires_at)
		VALUES ($1, $2, $3)
	`, claims.SessionID, principalID, claims.ExpiresAt)
	if err != nil {
		return "", auth.Claims{}, fmt.Errorf("failed to insert session: %w", err)
	}
	return token, claims, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
