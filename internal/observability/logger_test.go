package observability_test

import (
	"testing"

	"github.com/fulmenhq/gofulmen/crucible"
	"go.uber.org/zap"

	"github.com/uptimemock/uptimemock/internal/observability"
)

func TestLoggers(t *testing.T) {
	t.Run("CLI logger creation", func(t *testing.T) {
		observability.InitCLILogger("uptimemock-test", true)

		if observability.CLILogger == nil {
			t.Fatal("CLI logger should not be nil after initialization")
		}
		observability.CLILogger.Debug("Test CLI log message", zap.String("test", "value"))
	})

	t.Run("Server logger creation", func(t *testing.T) {
		observability.InitServerLogger("uptimemock-test", "debug", "uptimemock")

		if observability.ServerLogger == nil {
			t.Fatal("Server logger should not be nil after initialization")
		}
		observability.ServerLogger.Info("Simulated outcome",
			zap.String("endpoint", "/flapping"),
			zap.Int("status", 500))
	})

	t.Run("Unknown level falls back to info", func(t *testing.T) {
		logger, err := observability.NewServerLogger("uptimemock-test", "loud")
		if err != nil {
			t.Fatalf("NewServerLogger: %v", err)
		}
		logger.Info("fallback level")
	})
}

func TestCrucibleVersionAvailable(t *testing.T) {
	version := crucible.GetVersion()
	if version.Gofulmen == "" {
		t.Error("Gofulmen version should not be empty")
	}
}
