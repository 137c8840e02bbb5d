// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/collabhub/assistant"
	"github.com/danielhkuo/collabhub/identity"
	"github.com/danielhkuo/collabhub/middleware"
	"github.com/danielhkuo/collabhub/store"
	"github.com/danielhkuo/collabhub/workflow"
)

// User-facing notices shared by several handlers.
const (
	msgPermissionDenied = "You do not have permission to perform this action."
	msgDuplicate        = "You have already applied to this project."
	msgInvalidForm      = "Please fix the highlighted fields."
	msgProposalFailed   = "Could not generate a proposal at this time."
)

// writeError maps a domain error to its status code and notice. fallback
// is the notice for unexpected errors, which are logged.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var verr *workflow.ValidationError
	var perr *store.PermissionError

	switch {
	case errors.As(err, &verr):
		middleware.FieldErrorResponse(w, msgInvalidForm, verr.Fields)
	case errors.As(err, &perr):
		middleware.ErrorResponse(w, http.StatusForbidden, msgPermissionDenied)
	case errors.Is(err, store.ErrDuplicateApplication):
		middleware.ErrorResponse(w, http.StatusConflict, msgDuplicate)
	case errors.Is(err, workflow.ErrIllegalTransition):
		middleware.ErrorResponse(w, http.StatusConflict, "This application can no longer change to that status.")
	case errors.Is(err, workflow.ErrProjectClosed):
		middleware.ErrorResponse(w, http.StatusConflict, "This project is no longer accepting applications.")
	case errors.Is(err, store.ErrConflict):
		middleware.ErrorResponse(w, http.StatusConflict, "This record changed while you were editing. Please reload and try again.")
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	case errors.Is(err, identity.ErrUnauthenticated):
		middleware.RedirectResponse(w, http.StatusUnauthorized, "Please log in to continue.", "/login")
	case errors.Is(err, identity.ErrInvalidCredential):
		middleware.ErrorResponse(w, http.StatusUnauthorized, identity.Message(err))
	case errors.Is(err, identity.ErrEmailInUse):
		middleware.ErrorResponse(w, http.StatusConflict, identity.Message(err))
	case errors.Is(err, identity.ErrWeakPassword),
		errors.Is(err, identity.ErrInvalidEmail),
		errors.Is(err, identity.ErrInvalidName),
		errors.Is(err, identity.ErrInvalidRole):
		middleware.ErrorResponse(w, http.StatusBadRequest, identity.Message(err))
	case errors.Is(err, assistant.ErrUnavailable):
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, msgProposalFailed)
	default:
		slog.Error("request failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, fallback)
	}
}
