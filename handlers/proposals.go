// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/collabhub/assistant"
	"github.com/danielhkuo/collabhub/middleware"
	"github.com/danielhkuo/collabhub/models"
	"github.com/danielhkuo/collabhub/store"
)

type ProposalHandler struct {
	projects  *store.ProjectStore
	assistant *assistant.Assistant
}

func NewProposalHandler(projects *store.ProjectStore, a *assistant.Assistant) *ProposalHandler {
	return &ProposalHandler{projects: projects, assistant: a}
}

// Draft handles POST /projects/{id}/proposal-draft. Nothing is stored; the
// developer edits the draft before submitting it.
func (h *ProposalHandler) Draft(w http.ResponseWriter, r *http.Request) {
	if !h.assistant.Available() {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, msgProposalFailed)
		return
	}

	var req models.ProposalDraftRequest
	if r.ContentLength != 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	project, err := h.projects.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "Failed to load project")
		return
	}

	proposal, err := h.assistant.GenerateProposal(r.Context(), assistant.Input{
		Title:            project.Title,
		Description:      project.Description,
		TechStack:        project.TechStack,
		ExampleProposals: req.ExampleProposals,
	})
	if errors.Is(err, assistant.ErrUnavailable) {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, msgProposalFailed)
		return
	}
	if err != nil {
		slog.Error("failed to generate proposal", "project_id", project.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, msgProposalFailed)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProposalDraftResponse{
		Proposal: proposal,
		Message:  "The AI has drafted a proposal for you. Feel free to edit it.",
	})
}
