package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	errwrap "github.com/uptimemock/uptimemock/internal/errors"
	"github.com/uptimemock/uptimemock/internal/mock"
	"github.com/uptimemock/uptimemock/internal/observability"
	"github.com/uptimemock/uptimemock/internal/server/handlers"
)

var healthServerURL string

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Run self-health check",
	Long: `Verify the binary can start: version info, logger, configuration and the
endpoint catalog. With --server-url, also probe a running server's readiness.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := observability.CLILogger
		if logger == nil {
			ExitWithCodeStderr(foundry.ExitConfigInvalid, "Logger not initialized", errwrap.NewConfigInvalidError("Logger not initialized"))
			return
		}
		logger.Info("Running health check...")

		if versionInfo.Version == "" {
			ExitWithCode(logger, foundry.ExitConfigInvalid, "Version information missing", errwrap.NewConfigInvalidError("Version information missing"))
			return
		}
		logger.Info("✅ Version information available", zap.String("version", versionInfo.Version))

		cfg, err := loadConfig()
		if err != nil {
			ExitWithCode(logger, foundry.ExitConfigInvalid, "Configuration invalid", err)
			return
		}
		logger.Info("✅ Configuration valid", zap.String("addr", cfg.Server.Addr()))

		n := len(mock.NewSimulator().Endpoints())
		if n == 0 {
			ExitWithCode(logger, foundry.ExitFailure, "Endpoint catalog is empty", errwrap.NewInternalError("endpoint catalog is empty"))
			return
		}
		logger.Info("✅ Endpoint catalog loaded", zap.Int("endpoints", n))

		if healthServerURL != "" {
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			var probe handlers.ProbeResponse
			if err := newOperatorClient(healthServerURL).do(ctx, http.MethodGet, "/_mock/health/ready", &probe); err != nil {
				ExitWithCode(logger, foundry.ExitFailure, "Running server is not ready", err)
				return
			}
			logger.Info("✅ Running server ready", zap.String("url", healthServerURL), zap.String("status", probe.Status))
		}

		logger.Info("✅ All health checks passed")
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().StringVar(&healthServerURL, "server-url", "", "Also probe readiness of a running server at this base URL")
}
