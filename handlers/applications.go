// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/danielhkuo/collabhub/middleware"
	"github.com/danielhkuo/collabhub/models"
	"github.com/danielhkuo/collabhub/store"
	"github.com/danielhkuo/collabhub/workflow"
)

type ApplicationHandler struct {
	projects *store.ProjectStore
	workflow *workflow.Service
}

func NewApplicationHandler(projects *store.ProjectStore, wf *workflow.Service) *ApplicationHandler {
	return &ApplicationHandler{projects: projects, workflow: wf}
}

// Submit handles POST /projects/{id}/applications
func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	developer, _ := middleware.ProfileFromContext(r.Context())

	var req models.SubmitApplicationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	project, err := h.projects.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		writeError(w, err, "Failed to load project")
		return
	}

	app, err := h.workflow.SubmitApplication(r.Context(), *project, *developer, req)
	if err != nil {
		writeError(w, err, "Failed to submit application")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitApplicationResponse{
		Application: *app,
		Message:     "Application Submitted!",
		Redirect:    models.RoleDeveloper.Portal(),
	})
}

// UpdateStatus handles PATCH /company/projects/{projectID}/applications/{applicationID}
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	company, _ := middleware.ProfileFromContext(r.Context())

	var req models.UpdateStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	status, ok := models.ParseStatus(req.Status)
	if !ok {
		middleware.FieldErrorResponse(w, msgInvalidForm, map[string]string{
			"status": "Please choose a valid status.",
		})
		return
	}

	project, err := h.projects.Get(r.Context(), r.PathValue("projectID"))
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		writeError(w, err, "Failed to load project")
		return
	}

	app, changed, err := h.workflow.Transition(r.Context(), *company, *project, r.PathValue("applicationID"), status)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Application not found")
		return
	}
	if err != nil {
		writeError(w, err, "Failed to update status")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.UpdateStatusResponse{
		Application: *app,
		Changed:     changed,
		Message:     fmt.Sprintf("Applicant's status has been changed to %s.", app.Status),
	})
}
