// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/collabhub/assistant"
	"github.com/danielhkuo/collabhub/auth"
	"github.com/danielhkuo/collabhub/cliparse"
	"github.com/danielhkuo/collabhub/dashboard"
	"github.com/danielhkuo/collabhub/events"
	"github.com/danielhkuo/collabhub/identity"
	"github.com/danielhkuo/collabhub/middleware"
	"github.com/danielhkuo/collabhub/models"
	"github.com/danielhkuo/collabhub/pubsub"
	"github.com/danielhkuo/collabhub/store"
	"github.com/danielhkuo/collabhub/testutil"
	"github.com/danielhkuo/collabhub/workflow"
)

// testEnv wires the handlers the way the router does, over a fresh
// in-memory database.
type testEnv struct {
	db     *sql.DB
	broker *pubsub.MemoryBroker
	guard  *middleware.Guard

	projects     *store.ProjectStore
	applications *store.ApplicationStore

	auth        *AuthHandler
	project     *ProjectHandler
	application *ApplicationHandler
	dashboard   *DashboardHandler
	proposal    *ProposalHandler

	mu          sync.Mutex
	permissions []events.PermissionEvent
}

func newTestEnv(t *testing.T, gen assistant.Generator) *testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	broker := pubsub.NewMemoryBroker()
	t.Cleanup(func() { broker.Close() })

	issuer, err := auth.NewIssuer(testutil.TestSessionSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to create issuer: %v", err)
	}

	env := &testEnv{db: conn, broker: broker}
	emitter := events.NewEmitter()
	emitter.On(func(ev events.PermissionEvent) {
		env.mu.Lock()
		defer env.mu.Unlock()
		env.permissions = append(env.permissions, ev)
	})

	profiles := store.NewProfileStore(conn)
	env.projects = store.NewProjectStore(conn, broker)
	env.applications = store.NewApplicationStore(conn, broker)
	provider := identity.NewProvider(conn, issuer, profiles)
	wf := workflow.NewService(env.projects, env.applications, emitter)
	dash := dashboard.NewService(env.projects, env.applications)

	env.guard = middleware.NewGuard(provider, profiles)
	env.auth = NewAuthHandler(provider)
	env.project = NewProjectHandler(env.projects, wf, dash)
	env.application = NewApplicationHandler(env.projects, wf)
	env.dashboard = NewDashboardHandler(dash)
	env.proposal = NewProposalHandler(env.projects, assistant.New(gen, cliparse.DefaultExampleProposals))
	return env
}

// as serves req through the role guard.
func (e *testEnv) as(role models.Role, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.guard.Require(role, h)(w, req)
	return w
}

// authenticated serves req through the session check only.
func (e *testEnv) authenticated(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.guard.Authenticate(h)(w, req)
	return w
}

func (e *testEnv) permissionEvents() []events.PermissionEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]events.PermissionEvent(nil), e.permissions...)
}

// request builds a JSON request carrying token and path values.
func request(method, path string, body interface{}, token string, pathValues ...string) *http.Request {
	var headers map[string]string
	if token != "" {
		headers = testutil.BearerHeader(token)
	}
	req := testutil.MakeRequest(method, path, body, headers)
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	return req
}

func validApplication(name string) models.SubmitApplicationRequest {
	return models.SubmitApplicationRequest{
		Name:      name,
		Email:     "dev@example.com",
		ResumeURL: "https://example.com/resume.pdf",
		GithubURL: "https://github.com/dev",
		Proposal:  testutil.TestProposal,
	}
}

type fakeGenerator struct {
	out     string
	err     error
	prompts []string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.out, g.err
}
