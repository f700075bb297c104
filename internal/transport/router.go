package transport

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/niklvrr/FossaOnboarding/internal/transport/handler"
	transportMiddleware "github.com/niklvrr/FossaOnboarding/internal/transport/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func NewRouter(
	reconcileHandler *handler.ReconcileHandler,
	webhookHandler *handler.WebhookHandler,
	healthHandler *handler.HealthHandler,
	requestTimeout time.Duration,
	log *zap.Logger,
) *chi.Mux {
	router := chi.NewRouter()

	// Recovery первым, чтобы ловить паники во всех middleware
	router.Use(transportMiddleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(transportMiddleware.Logging(log))
	router.Use(transportMiddleware.Metrics)

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/health", healthHandler.HealthCheck)

	router.Post("/webhook/github", webhookHandler.GitHub)

	// Полный прогон ходит в три внешних API, отсюда длинный таймаут
	router.Route("/reconcile", func(r chi.Router) {
		r.Use(transportMiddleware.Timeout(requestTimeout))
		r.Post("/", reconcileHandler.Run)
		r.Post("/project", reconcileHandler.ReconcileProject)
	})

	return router
}
