package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/niklvrr/FossaOnboarding/internal/config"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/models/result"
	"github.com/niklvrr/FossaOnboarding/internal/transport/dto/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeFossa платформа в памяти: команды, пользователи, приглашения
type fakeFossa struct {
	mu      sync.Mutex
	teams   []map[string]any
	users   []map[string]any
	creates []map[string]any
	adds    []map[string]any
	invites [][]string
}

func (f *fakeFossa) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /teams", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer fossa-token", r.Header.Get("Authorization"))
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, f.teams)
	})
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, f.users)
	})
	mux.HandleFunc("POST /teams", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		f.mu.Lock()
		defer f.mu.Unlock()
		f.creates = append(f.creates, body)
		team := map[string]any{"id": 10, "name": body["name"]}
		f.teams = append(f.teams, team)
		writeJSON(w, team)
	})
	mux.HandleFunc("PUT /teams/{id}/users", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		body["team"] = r.PathValue("id")

		f.mu.Lock()
		defer f.mu.Unlock()
		f.adds = append(f.adds, body)
		for _, team := range f.teams {
			if fmt.Sprint(team["id"]) == r.PathValue("id") {
				team["users"] = body["users"]
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /organizations/162/invite", func(w http.ResponseWriter, r *http.Request) {
		var emails []string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&emails))

		f.mu.Lock()
		defer f.mu.Unlock()
		f.invites = append(f.invites, emails)
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

type fakeGitHub struct {
	mu     sync.Mutex
	labels map[string][]string
}

func (g *fakeGitHub) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/cncf/toc/issues", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "static-code-checks", r.URL.Query().Get("labels"))
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		writeJSON(w, []map[string]any{
			{
				"number": 7,
				"title":  "[SANDBOX PROJECT ONBOARDING] Foo",
				"state":  "open",
				"labels": []map[string]string{{"name": "static-code-checks"}},
			},
			{
				"number":       8,
				"title":        "[SANDBOX PROJECT ONBOARDING] Foo",
				"state":        "open",
				"labels":       []map[string]string{{"name": "static-code-checks"}},
				"pull_request": map[string]string{"url": "https://example.com/pr/8"},
			},
			{
				"number": 9,
				"title":  "Unrelated",
				"state":  "open",
				"labels": []map[string]string{{"name": "static-code-checks"}},
			},
		})
	})
	mux.HandleFunc("POST /repos/cncf/toc/issues/{number}/labels", func(w http.ResponseWriter, r *http.Request) {
		var labels []string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&labels))

		g.mu.Lock()
		defer g.mu.Unlock()
		g.labels[r.PathValue("number")] = append(g.labels[r.PathValue("number")], labels...)
		writeJSON(w, []map[string]string{})
	})
	return mux
}

func sheetsHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/spreadsheets/sheet-1/values/Active")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"range":"Active!A1:F3","majorDimension":"ROWS","values":[
			["#","Project","Name","","","Email"],
			["1","Foo","Alice","","","a@x.com"],
			["2","","Bob","","","b@x.com"]
		]}`))
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

type environment struct {
	fossa     *fakeFossa
	github    *fakeGitHub
	auditPath string
	app       *App
}

func newEnvironment(t *testing.T, policy config.LabelPolicy) *environment {
	env := &environment{
		fossa: &fakeFossa{
			teams: []map[string]any{{"id": 3, "name": "Other"}},
			users: []map[string]any{{"id": 1, "email": "a@x.com", "username": "alice"}},
		},
		github:    &fakeGitHub{labels: make(map[string][]string)},
		auditPath: filepath.Join(t.TempDir(), "fossa-log.json"),
	}

	fossaSrv := httptest.NewServer(env.fossa.handler(t))
	t.Cleanup(fossaSrv.Close)
	githubSrv := httptest.NewServer(env.github.handler(t))
	t.Cleanup(githubSrv.Close)
	sheetsSrv := httptest.NewServer(sheetsHandler(t))
	t.Cleanup(sheetsSrv.Close)

	cfg := &config.Config{
		App: config.AppConfig{
			Env:            "test",
			Port:           "0",
			RequestTimeout: time.Minute,
			Workers:        2,
		},
		GitHub: config.GitHubConfig{
			Token:          "gh-token",
			BaseURL:        githubSrv.URL,
			Owner:          "cncf",
			Repo:           "toc",
			OnboardingTag:  "static-code-checks",
			ProcessedLabel: "fossa-team-created",
			TitleMarker:    "[SANDBOX PROJECT ONBOARDING]",
			LabelPolicy:    policy,
		},
		Fossa: config.FossaConfig{
			Token:          "fossa-token",
			BaseURL:        fossaSrv.URL,
			OrganizationId: 162,
			TeamRoleId:     4,
		},
		Sheets: config.SheetsConfig{
			SpreadsheetId: "sheet-1",
			Range:         "Active",
			BaseURL:       sheetsSrv.URL + "/",
		},
		Audit:       config.AuditConfig{Path: env.auditPath},
		HTTPTimeout: 5 * time.Second,
	}

	app, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	env.app = app
	return env
}

func (e *environment) auditLines(t *testing.T) []string {
	data, err := os.ReadFile(e.auditPath)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestApp_Run_NewProject(t *testing.T) {
	env := newEnvironment(t, config.LabelOnCreate)

	report, err := env.app.Run(context.Background())
	require.NoError(t, err)

	// PR отброшен, issue без маркера пропущен
	require.Len(t, report.Issues, 2)
	assert.Equal(t, 1, report.Count(result.OutcomeReconciled))
	assert.Equal(t, 1, report.Count(result.OutcomeSkipped))

	require.Len(t, env.fossa.creates, 1)
	assert.Equal(t, "Foo", env.fossa.creates[0]["name"])
	assert.EqualValues(t, 4, env.fossa.creates[0]["defaultRoleId"])

	require.Len(t, env.fossa.adds, 1)
	assert.Equal(t, "10", env.fossa.adds[0]["team"])
	assert.Equal(t, "add", env.fossa.adds[0]["action"])
	assert.Equal(t, []any{map[string]any{"id": float64(1), "roleId": float64(4)}}, env.fossa.adds[0]["users"])

	assert.Equal(t, [][]string{{"b@x.com"}}, env.fossa.invites)
	assert.Equal(t, map[string][]string{"7": {"fossa-team-created"}}, env.github.labels)

	lines := env.auditLines(t)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], ", FOSSA_EVENT, TEAM_CREATED, ")
	assert.Contains(t, lines[1], ", FOSSA_EVENT, TEAM_MEMBER_SHIP_UPDATED, ")
}

func TestApp_Run_Idempotent(t *testing.T) {
	env := newEnvironment(t, config.LabelOnCreate)

	_, err := env.app.Run(context.Background())
	require.NoError(t, err)
	report, err := env.app.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Count(result.OutcomeReconciled))
	assert.Len(t, env.fossa.creates, 1)
	assert.Len(t, env.fossa.adds, 1)
	assert.Len(t, env.github.labels["7"], 1)
	// b@x.com так и не зарегистрировался, приглашение уходит повторно
	assert.Equal(t, [][]string{{"b@x.com"}, {"b@x.com"}}, env.fossa.invites)
	assert.Len(t, env.auditLines(t), 2)
}

func TestApp_Router_Reconcile(t *testing.T) {
	env := newEnvironment(t, config.LabelOnSuccess)

	req := httptest.NewRequest(http.MethodPost, "/reconcile", nil)
	w := httptest.NewRecorder()
	env.app.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp response.RunReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Reconciled)
	assert.NotEmpty(t, resp.RunId)

	req = httptest.NewRequest(http.MethodPost, "/reconcile/project", strings.NewReader(`{"project_name":"Foo"}`))
	w = httptest.NewRecorder()
	env.app.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var project response.ProjectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))
	assert.Equal(t, 10, project.TeamId)
	assert.False(t, project.TeamCreated)
	assert.Empty(t, project.Added)
	assert.Len(t, env.fossa.creates, 1)
}
