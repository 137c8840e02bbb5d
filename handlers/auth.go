// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/collabhub/identity"
	"github.com/danielhkuo/collabhub/middleware"
	"github.com/danielhkuo/collabhub/models"
)

type AuthHandler struct {
	provider *identity.Provider
}

func NewAuthHandler(provider *identity.Provider) *AuthHandler {
	return &AuthHandler{provider: provider}
}

// SignUp handles POST /auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	session, err := h.provider.SignUp(r.Context(), req)
	if err != nil {
		writeError(w, err, "Could not create your account.")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, sessionResponse(session, "You've been successfully signed up."))
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	session, err := h.provider.SignIn(r.Context(), req)
	if err != nil {
		writeError(w, err, "Failed to sign in")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, sessionResponse(session, ""))
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.provider.SignOut(r.Context(), middleware.TokenFromContext(r.Context())); err != nil {
		writeError(w, err, "Failed to sign out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())
	profile, _ := middleware.ProfileFromContext(r.Context())

	middleware.JSONResponse(w, http.StatusOK, models.MeResponse{
		Principal: *principal,
		Profile:   profile,
	})
}

func sessionResponse(s *identity.Session, message string) models.AuthResponse {
	redirect := "/login"
	if s.Profile != nil {
		redirect = s.Profile.Role.Portal()
	}
	return models.AuthResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		Principal: s.Principal,
		Profile:   s.Profile,
		Redirect:  redirect,
		Message:   message,
	}
}
