package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/uptimemock/uptimemock/internal/appid"
	"github.com/uptimemock/uptimemock/internal/config"
	errwrap "github.com/uptimemock/uptimemock/internal/errors"
	"github.com/uptimemock/uptimemock/internal/metrics"
	"github.com/uptimemock/uptimemock/internal/mock"
	"github.com/uptimemock/uptimemock/internal/observability"
	"github.com/uptimemock/uptimemock/internal/server"
	"github.com/uptimemock/uptimemock/internal/server/handlers"
)

// telemetryHealthChecker fails when metrics were requested but never came up.
type telemetryHealthChecker struct {
	enabled bool
}

func (t telemetryHealthChecker) CheckHealth(ctx context.Context) error {
	if t.enabled && (observability.TelemetrySystem == nil || observability.PrometheusExporter == nil) {
		return errwrap.NewInternalError("telemetry system not initialized")
	}
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock server",
	Long: `Start the mock server with graceful shutdown support.

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown; requests still parked on
    /timeout are dropped once server.shutdown_timeout elapses
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Re-read and validate the config file`,
	RunE: func(cmd *cobra.Command, args []string) error {
		identity := GetAppIdentity()
		namespace := identity.TelemetryNamespace()
		binaryName := appid.BinaryName(identity)

		cfg, err := loadConfig()
		if err != nil {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Invalid configuration", err)
		}

		logLevel := cfg.Logging.Level
		if verbose {
			logLevel = "debug"
		}
		observability.InitServerLogger(binaryName, logLevel, namespace)
		logger := observability.ServerLogger

		if cfg.Metrics.Enabled {
			if err := observability.InitMetrics(binaryName, cfg.Metrics.Port, namespace); err != nil {
				logger.Error("Failed to initialize metrics", zap.Error(err))
				return errwrap.WrapInternal(cmd.Context(), err, "metrics initialization failed")
			}
			metrics.SetServerStartTime(time.Now().Unix())
		}

		sim := mock.NewSimulator(
			mock.WithSampler(mock.NewSampler(cfg.Mock.Seed)),
			mock.WithVersion(versionInfo.Version),
			mock.WithPort(cfg.Server.Port),
			mock.WithDelayObserver(metrics.RecordSimulatedDelay),
		)

		hm := handlers.NewHealthManager(versionInfo.Version)
		hm.RegisterChecker("telemetry", telemetryHealthChecker{enabled: cfg.Metrics.Enabled})

		handlers.SetAppIdentity(identity)
		handlers.SetVersionInfo(versionInfo.Version, versionInfo.Commit, versionInfo.BuildDate)

		srv := server.New(server.Options{
			Server:    cfg.Server,
			PoweredBy: cfg.Mock.PoweredBy,
			Simulator: sim,
			Health:    hm,
			MockInfo: handlers.MockInfo{
				Endpoints: len(sim.Endpoints()),
				PoweredBy: cfg.Mock.PoweredBy,
				Seeded:    cfg.Mock.Seed != 0,
			},
		})

		logger.Info("Initializing mock server",
			zap.String("service", binaryName),
			zap.String("namespace", namespace),
			zap.String("version", versionInfo.Version),
			zap.String("addr", cfg.Server.Addr()),
			zap.Bool("metrics_enabled", cfg.Metrics.Enabled),
			zap.Int("metrics_port", cfg.Metrics.Port),
			zap.Bool("seeded", cfg.Mock.Seed != 0))
		logEndpointURLs(cfg.Server, srv.Catalog().ConcretePaths())

		// Shutdown handlers run LIFO: server first, then metrics, then the logger flush.
		signals.OnShutdown(func(ctx context.Context) error {
			logger.Info("Flushing logger...")
			if err := logger.Sync(); err != nil {
				logger.Warn("Logger sync returned error (may be benign)", zap.Error(err))
			}
			return nil
		})

		if cfg.Metrics.Enabled {
			signals.OnShutdown(func(ctx context.Context) error {
				if err := observability.ShutdownMetrics(); err != nil {
					logger.Warn("Metrics exporter did not stop cleanly", zap.Error(err))
				}
				return nil
			})
		}

		signals.OnShutdown(func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return errwrap.WrapInternal(ctx, err, "server shutdown failed")
			}
			logger.Info("Mock server stopped")
			return nil
		})

		signals.OnReload(func(ctx context.Context) error {
			return reloadConfig(ctx, cfg)
		})

		if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
			Window:  2 * time.Second,
			Message: "Press Ctrl+C again within 2 seconds to force quit",
		}); err != nil {
			logger.Warn("Failed to enable double-tap force quit", zap.Error(err))
		}

		errChan := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

		listenDone := make(chan error, 1)
		go func() {
			listenDone <- signals.Listen(cmd.Context())
		}()

		select {
		case err := <-errChan:
			return errwrap.WrapInternal(cmd.Context(), err, "server error")
		case err := <-listenDone:
			if err != nil {
				logger.Error("Signal handler error", zap.Error(err))
				return errwrap.WrapInternal(cmd.Context(), err, "signal handler error")
			}
			return nil
		}
	},
}

// reloadConfig re-reads the config file on SIGHUP. Listener settings only
// take effect after a restart, so changes to them are reported, not applied.
func reloadConfig(ctx context.Context, running *config.Config) error {
	logger := observability.ServerLogger
	logger.Info("Received SIGHUP: re-reading configuration")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.Info("No config file found - using defaults and environment variables")
			return nil
		}
		logger.Error("Failed to reload config file",
			zap.String("file", viper.ConfigFileUsed()),
			zap.Error(err))
		return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
	}

	next, err := loadConfig()
	if err != nil {
		logger.Error("Reloaded configuration is invalid", zap.Error(err))
		return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
	}

	if next.Server.Addr() != running.Server.Addr() || next.Mock != running.Mock {
		logger.Warn("Configuration changed; restart to apply",
			zap.String("running_addr", running.Server.Addr()),
			zap.String("configured_addr", next.Server.Addr()))
		return nil
	}

	logger.Info("Configuration unchanged", zap.String("file", viper.ConfigFileUsed()))
	return nil
}

func logEndpointURLs(cfg config.ServerConfig, paths []string) {
	host := cfg.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	base := fmt.Sprintf("http://%s:%d", host, cfg.Port)

	observability.ServerLogger.Info("Mock server listening",
		zap.String("url", base),
		zap.Int("endpoints", len(paths)))
	for _, p := range paths {
		observability.ServerLogger.Info("Endpoint available", zap.String("url", base+p))
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", config.DefaultHost, "listen host")
	serveCmd.Flags().IntP("port", "p", config.DefaultPort, "listen port (also PORT)")
	serveCmd.Flags().Int64("seed", 0, "seed for reproducible simulated randomness (0 = random)")
	serveCmd.Flags().String("log-level", "info", "log level (trace, debug, info, warn, error)")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("mock.seed", serveCmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("logging.level", serveCmd.Flags().Lookup("log-level"))
}
