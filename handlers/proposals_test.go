// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/danielhkuo/collabhub/cliparse"
	"github.com/danielhkuo/collabhub/models"
	"github.com/danielhkuo/collabhub/testutil"
)

func TestProposalDraft(t *testing.T) {
	testCases := []struct {
		name     string
		gen      *fakeGenerator
		body     interface{}
		status   int
		proposal string
		examples string
	}{
		{
			name:   "assistant not configured",
			gen:    nil,
			status: http.StatusServiceUnavailable,
		},
		{
			name:     "default examples",
			gen:      &fakeGenerator{out: `{"proposal": "Hi, I would love to build this."}`},
			status:   http.StatusOK,
			proposal: "Hi, I would love to build this.",
			examples: cliparse.DefaultExampleProposals,
		},
		{
			name:     "caller examples",
			gen:      &fakeGenerator{out: "```json\n{\"proposal\": \"Drafted.\"}\n```"},
			body:     models.ProposalDraftRequest{ExampleProposals: "My own winning proposal."},
			status:   http.StatusOK,
			proposal: "Drafted.",
			examples: "My own winning proposal.",
		},
		{
			name:   "model failure",
			gen:    &fakeGenerator{err: errors.New("quota exceeded")},
			status: http.StatusBadGateway,
		},
		{
			name:   "blank output",
			gen:    &fakeGenerator{out: `{"proposal": "   "}`},
			status: http.StatusBadGateway,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var env *testEnv
			if tc.gen == nil {
				env = newTestEnv(t, nil)
			} else {
				env = newTestEnv(t, tc.gen)
			}
			company := testutil.CreateTestUser(t, env.db, models.RoleCompany, "Acme Corp")
			developer := testutil.CreateTestUser(t, env.db, models.RoleDeveloper, "Dana Developer")
			project := testutil.CreateTestProject(t, env.db, *company.Profile, "Marketplace API")

			w := env.as(models.RoleDeveloper, env.proposal.Draft,
				request("POST", "/projects/"+project.ID+"/proposal-draft", tc.body, developer.Token, "id", project.ID))
			testutil.AssertStatus(t, w, tc.status)

			if tc.status != http.StatusOK {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Message != "Could not generate a proposal at this time." {
					t.Errorf("Unexpected message '%s'", resp.Message)
				}
				return
			}

			var resp models.ProposalDraftResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Proposal != tc.proposal {
				t.Errorf("Expected proposal '%s', got '%s'", tc.proposal, resp.Proposal)
			}
			if len(tc.gen.prompts) != 1 {
				t.Fatalf("Expected one prompt, got %d", len(tc.gen.prompts))
			}
			prompt := tc.gen.prompts[0]
			for _, want := range []string{project.Title, project.Description, project.TechStack, tc.examples} {
				if !strings.Contains(prompt, want) {
					t.Errorf("Expected prompt to contain %q", want)
				}
			}
		})
	}
}
