package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/niklvrr/FossaOnboarding/internal/domain"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/models/result"
	"github.com/niklvrr/FossaOnboarding/internal/transport/dto/request"
	"github.com/niklvrr/FossaOnboarding/internal/transport/dto/response"
	"github.com/niklvrr/FossaOnboarding/internal/usecase/service"
	"go.uber.org/zap"
)

type OnboardingService interface {
	Run(ctx context.Context) (*result.RunReport, error)
	ReconcileProject(ctx context.Context, projectName string) (*result.ProjectResult, error)
	HandleIssue(ctx context.Context, issue *domain.Issue) (*result.IssueOutcome, error)
}

type ReconcileHandler struct {
	svc OnboardingService
	log *zap.Logger
}

func NewReconcileHandler(svc OnboardingService, log *zap.Logger) *ReconcileHandler {
	return &ReconcileHandler{
		svc: svc,
		log: log,
	}
}

// Run полный прогон по всем issues онбординга
func (h *ReconcileHandler) Run(w http.ResponseWriter, r *http.Request) {
	h.log.Info("reconcile request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	report, err := h.svc.Run(r.Context())
	if err != nil {
		h.log.Error("reconciliation run failed", zap.Error(err))
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	resp := response.NewRunReportResponse(report)
	h.log.Info("reconciliation run completed",
		zap.String("run_id", resp.RunId),
		zap.Int("reconciled", resp.Reconciled),
		zap.Int("skipped", resp.Skipped),
		zap.Int("failed", resp.Failed),
	)

	writeJSON(w, http.StatusOK, resp)
}

// ReconcileProject сверка одного проекта из таблицы без issue
func (h *ReconcileHandler) ReconcileProject(w http.ResponseWriter, r *http.Request) {
	h.log.Info("reconcile project request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	var req request.ReconcileProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, err))
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	req.ProjectName = strings.TrimSpace(req.ProjectName)
	if req.ProjectName == "" {
		h.log.Warn("validation failed: project_name is empty")
		statusCode, errResp := HandleError(service.ErrEmptyProjectName)
		WriteError(w, statusCode, errResp)
		return
	}

	res, err := h.svc.ReconcileProject(r.Context(), req.ProjectName)
	if err != nil {
		h.log.Error("failed to reconcile project",
			zap.String("project", req.ProjectName),
			zap.Error(err),
		)
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	h.log.Info("project reconciled",
		zap.String("project", res.ProjectName),
		zap.Int("team_id", res.TeamId),
		zap.Bool("team_created", res.TeamCreated),
	)

	writeJSON(w, http.StatusOK, response.NewProjectResponse(res))
}
