package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/niklvrr/FossaOnboarding/internal/domain"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/models/result"
	"github.com/niklvrr/FossaOnboarding/internal/transport/handler"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubOnboarding struct {
	deadline bool
}

func (s *stubOnboarding) Run(ctx context.Context) (*result.RunReport, error) {
	_, s.deadline = ctx.Deadline()
	return &result.RunReport{}, nil
}

func (s *stubOnboarding) ReconcileProject(ctx context.Context, projectName string) (*result.ProjectResult, error) {
	return &result.ProjectResult{ProjectName: projectName}, nil
}

func (s *stubOnboarding) HandleIssue(ctx context.Context, issue *domain.Issue) (*result.IssueOutcome, error) {
	return &result.IssueOutcome{IssueNumber: issue.Number}, nil
}

func newTestRouter(svc handler.OnboardingService) http.Handler {
	log := zap.NewNop()
	return NewRouter(
		handler.NewReconcileHandler(svc, log),
		handler.NewWebhookHandler(svc, "", "static-code-checks", time.Minute, log),
		handler.NewHealthHandler(log),
		time.Minute,
		log,
	)
}

func TestRouter_Routes(t *testing.T) {
	svc := &stubOnboarding{}
	router := newTestRouter(svc)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodPost, "/reconcile", "", http.StatusOK},
		{http.MethodPost, "/reconcile/project", `{"project_name":"Foo"}`, http.StatusOK},
		{http.MethodGet, "/reconcile", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
	assert.True(t, svc.deadline)
}
