package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"RecordsScanner/internal/app"
	"RecordsScanner/internal/config"
	"RecordsScanner/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "recordscanner",
	Short: "Court-date lookup and arrest-log ingestion for bail-bond records",
	Long: `recordscanner searches court sources for a client's upcoming hearings and
ingests the newest police arrest bulletin into storage.

Configuration is read from the YAML file named by RECORD_SCANNER_CONFIG,
with DATABASE_DSN, TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID, LOG_LEVEL and PORT
taking precedence.`,
	SilenceUsage: true,
}

// bootstrap loads config and builds the application under a signal-aware context.
func bootstrap(cmd *cobra.Command) (context.Context, context.CancelFunc, *app.Application, *slog.Logger, error) {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		cancel()
		logger.Error("application setup failed", "error", err)
		return nil, nil, nil, nil, err
	}
	return ctx, cancel, application, logger, nil
}
