package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/go-github/v55/github"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/repository"
	"go.uber.org/zap"
)

// WebhookHandler принимает события issues из GitHub и запускает сверку
// issue в фоне, отвечая сразу
type WebhookHandler struct {
	svc     OnboardingService
	secret  []byte
	label   string
	timeout time.Duration
	log     *zap.Logger

	wg sync.WaitGroup
}

func NewWebhookHandler(svc OnboardingService, secret, label string, timeout time.Duration, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		svc:     svc,
		secret:  []byte(secret),
		label:   label,
		timeout: timeout,
		log:     log,
	}
}

func (h *WebhookHandler) GitHub(w http.ResponseWriter, r *http.Request) {
	deliveryId := github.DeliveryID(r)
	eventType := github.WebHookType(r)

	// без секрета подпись не проверяется
	payload, err := github.ValidatePayload(r, h.secret)
	if err != nil {
		h.log.Warn("webhook payload rejected",
			zap.String("delivery_id", deliveryId),
			zap.String("event", eventType),
			zap.Error(err),
		)
		WriteError(w, http.StatusUnauthorized, ErrorResponse{
			Error: ErrorDetail{Code: "INVALID_SIGNATURE", Message: "webhook signature mismatch"},
		})
		return
	}

	event, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		h.log.Warn("failed to parse webhook",
			zap.String("delivery_id", deliveryId),
			zap.String("event", eventType),
			zap.Error(err),
		)
		WriteError(w, http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{Code: "INVALID_INPUT", Message: "unsupported webhook payload"},
		})
		return
	}

	issueEvent, ok := event.(*github.IssuesEvent)
	if !ok || !h.relevant(issueEvent) {
		h.log.Debug("webhook ignored",
			zap.String("delivery_id", deliveryId),
			zap.String("event", eventType),
		)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	issue := repository.IssueFromEvent(issueEvent.GetIssue())
	h.log.Info("onboarding issue event accepted",
		zap.String("delivery_id", deliveryId),
		zap.String("action", issueEvent.GetAction()),
		zap.Int("issue", issue.Number),
	)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		// контекст запроса отменится после ответа
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.timeout)
		defer cancel()

		outcome, err := h.svc.HandleIssue(ctx, issue)
		if err != nil {
			h.log.Error("webhook reconciliation failed",
				zap.String("delivery_id", deliveryId),
				zap.Int("issue", issue.Number),
				zap.Error(err),
			)
			return
		}
		h.log.Info("webhook reconciliation finished",
			zap.String("delivery_id", deliveryId),
			zap.Int("issue", issue.Number),
			zap.String("outcome", string(outcome.Outcome)),
		)
	}()

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "accepted",
		"issue":  issue.Number,
	})
}

// Wait ждет завершения фоновых сверок
func (h *WebhookHandler) Wait() {
	h.wg.Wait()
}

func (h *WebhookHandler) relevant(e *github.IssuesEvent) bool {
	switch e.GetAction() {
	case "opened", "labeled", "reopened":
	default:
		return false
	}

	is := e.GetIssue()
	if is == nil || is.IsPullRequest() || is.GetState() == "closed" {
		return false
	}
	for _, l := range is.Labels {
		if l.GetName() == h.label {
			return true
		}
	}
	return false
}
