// Package app собирает слои: клиенты внешних API, репозитории, сервисы, HTTP.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/niklvrr/FossaOnboarding/internal/config"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/audit"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/fossa"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/models/result"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/repository"
	"github.com/niklvrr/FossaOnboarding/internal/transport"
	"github.com/niklvrr/FossaOnboarding/internal/transport/handler"
	"github.com/niklvrr/FossaOnboarding/internal/usecase/service"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	cfg        *config.Config
	log        *zap.Logger
	onboarding *service.OnboardingService
	webhook    *handler.WebhookHandler
	router     http.Handler
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	// Клиенты внешних API
	fossaClient, err := fossa.NewClient(fossa.Config{
		BaseURL:        cfg.Fossa.BaseURL,
		Token:          cfg.Fossa.Token,
		OrganizationId: cfg.Fossa.OrganizationId,
		Timeout:        cfg.HTTPTimeout,
	}, log.Named("fossa"))
	if err != nil {
		return nil, fmt.Errorf("creating fossa client: %w", err)
	}

	githubClient, err := repository.NewGitHubClient(ctx, cfg.GitHub.Token, cfg.GitHub.BaseURL, cfg.HTTPTimeout)
	if err != nil {
		return nil, fmt.Errorf("creating github client: %w", err)
	}

	sheetsService, err := repository.NewSheetsService(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.BaseURL)
	if err != nil {
		return nil, err
	}

	// Репозитории
	teamRepo := repository.NewTeamRepository(fossaClient, cfg.HTTPTimeout)
	userRepo := repository.NewUserRepository(fossaClient, cfg.HTTPTimeout)
	issueRepo := repository.NewIssueRepository(githubClient, cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.HTTPTimeout)
	rosterRepo := repository.NewRosterRepository(sheetsService, cfg.HTTPTimeout)

	// Сервисы
	sink := audit.NewFileSink(cfg.Audit.Path, log.Named("audit"))
	identity := service.NewIdentityService(log)
	onboarding := service.NewOnboardingService(
		service.NewRosterService(rosterRepo, cfg.Sheets.Range, log),
		service.NewIntakeService(issueRepo, cfg.GitHub.OnboardingTag, cfg.GitHub.TitleMarker, log),
		service.NewTeamService(teamRepo, identity, sink, cfg.Fossa.TeamRoleId, log),
		service.NewInviteService(userRepo, log),
		teamRepo,
		userRepo,
		service.OnboardingConfig{
			SpreadsheetId:  cfg.Sheets.SpreadsheetId,
			ProcessedLabel: cfg.GitHub.ProcessedLabel,
			LabelPolicy:    cfg.GitHub.LabelPolicy,
			Workers:        cfg.App.Workers,
		},
		log,
	)

	// HTTP
	webhook := handler.NewWebhookHandler(onboarding, cfg.GitHub.WebhookSecret, cfg.GitHub.OnboardingTag, cfg.App.RequestTimeout, log)
	router := transport.NewRouter(
		handler.NewReconcileHandler(onboarding, log),
		webhook,
		handler.NewHealthHandler(log),
		cfg.App.RequestTimeout,
		log,
	)

	return &App{
		cfg:        cfg,
		log:        log,
		onboarding: onboarding,
		webhook:    webhook,
		router:     router,
	}, nil
}

// Run один прогон сверки
func (a *App) Run(ctx context.Context) (*result.RunReport, error) {
	return a.onboarding.Run(ctx)
}

func (a *App) Router() http.Handler {
	return a.router
}

// Serve поднимает HTTP сервер до отмены ctx, затем дожидается фоновых сверок
func (a *App) Serve(ctx context.Context) error {
	server := transport.NewServer(a.cfg.App.Port, a.router, a.cfg.App.RequestTimeout, a.log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	a.webhook.Wait()
	a.log.Info("server stopped")
	return nil
}
