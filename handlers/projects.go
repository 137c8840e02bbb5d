// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/collabhub/dashboard"
	"github.com/danielhkuo/collabhub/middleware"
	"github.com/danielhkuo/collabhub/models"
	"github.com/danielhkuo/collabhub/store"
	"github.com/danielhkuo/collabhub/workflow"
)

type ProjectHandler struct {
	projects  *store.ProjectStore
	workflow  *workflow.Service
	dashboard *dashboard.Service
}

func NewProjectHandler(projects *store.ProjectStore, wf *workflow.Service, dash *dashboard.Service) *ProjectHandler {
	return &ProjectHandler{projects: projects, workflow: wf, dashboard: dash}
}

// Featured handles GET /projects/featured
func (h *ProjectHandler) Featured(w http.ResponseWriter, r *http.Request) {
	cards, err := h.dashboard.Featured(r.Context())
	if err != nil {
		writeError(w, err, "Failed to load projects")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.DeveloperDashboardResponse{Projects: cards})
}

// Get handles GET /projects/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "Failed to load project")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, project)
}

// Create handles POST /company/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	company, _ := middleware.ProfileFromContext(r.Context())

	var req models.CreateProjectRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	project, err := h.workflow.CreateProject(r.Context(), *company, req)
	if err != nil {
		writeError(w, err, "Failed to create project")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateProjectResponse{
		Project:  *project,
		Message:  "Your new project has been successfully posted.",
		Redirect: models.RoleCompany.Portal(),
	})
}
