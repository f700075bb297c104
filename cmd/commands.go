package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/niklvrr/FossaOnboarding/internal/app"
	"github.com/niklvrr/FossaOnboarding/internal/config"
	"github.com/niklvrr/FossaOnboarding/internal/transport/dto/response"
	"github.com/niklvrr/FossaOnboarding/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var envFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fossa-onboarding",
		Short:         "Provision FOSSA teams for projects onboarding to static code checks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with configuration")

	root.AddCommand(newRunCmd(), newServeCmd())
	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one reconciliation pass over open onboarding issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, log, err := bootstrap(ctx, cmd)
			if err != nil {
				return err
			}
			defer log.Sync()

			report, err := a.Run(ctx)
			if err != nil {
				log.Error("reconciliation run failed", zap.Error(err))
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(response.NewRunReportResponse(report))
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the reconciliation HTTP API and GitHub webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, log, err := bootstrap(ctx, cmd)
			if err != nil {
				return err
			}
			defer log.Sync()

			return a.Serve(ctx)
		},
	}
}

// bootstrap конфиг -> логгер -> слои; ошибка конфига завершает процесс до любой работы
func bootstrap(ctx context.Context, cmd *cobra.Command) (*app.App, *zap.Logger, error) {
	var files []string
	if _, err := os.Stat(envFile); err == nil || cmd.Flags().Changed("env-file") {
		files = append(files, envFile)
	}

	cfg, err := config.LoadConfig(files...)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.NewLogger(cfg.App.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}

	log.Info("configuration loaded",
		zap.String("env", cfg.App.Env),
		zap.String("repository", cfg.GitHub.Owner+"/"+cfg.GitHub.Repo),
		zap.String("label_policy", string(cfg.GitHub.LabelPolicy)),
		zap.Int("workers", cfg.App.Workers),
	)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize application", zap.Error(err))
		return nil, nil, err
	}
	return a, log, nil
}
