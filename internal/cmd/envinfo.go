package cmd

import (
	"fmt"
	"runtime"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/uptimemock/uptimemock/internal/appid"
	"github.com/uptimemock/uptimemock/internal/observability"
)

var envInfoCmd = &cobra.Command{
	Use:   "envinfo",
	Short: "Display environment information",
	Long:  "Display version, runtime and effective configuration of the mock server.",
	Run: func(cmd *cobra.Command, args []string) {
		log := observability.CLILogger
		version := crucible.GetVersion()
		identity := GetAppIdentity()

		log.Info("=== Environment Information ===")
		log.Info("")

		log.Info("Application:")
		log.Info("  Name:       " + appid.BinaryName(identity))
		log.Info("  Version:    " + versionInfo.Version)
		log.Info("  Commit:     " + versionInfo.Commit)
		log.Info("  Built:      " + versionInfo.BuildDate)
		log.Info("  Env Prefix: " + appid.EnvPrefix(identity))
		log.Info("")

		log.Info("SSOT:")
		log.Info("  Gofulmen:   "+version.Gofulmen, zap.String("gofulmen_version", version.Gofulmen))
		log.Info("  Crucible:   "+version.Crucible, zap.String("crucible_version", version.Crucible))
		log.Info("")

		log.Info("Runtime:")
		log.Info("  Go Version: "+runtime.Version(), zap.String("go_version", runtime.Version()))
		log.Info("  Platform:   "+runtime.GOOS+"/"+runtime.GOARCH)
		log.Info(fmt.Sprintf("  NumCPU:     %d", runtime.NumCPU()), zap.Int("num_cpu", runtime.NumCPU()))
		log.Info("")

		cfg, err := loadConfig()
		if err != nil {
			log.Warn("Config load failed", zap.Error(err))
			return
		}

		configFile := viper.ConfigFileUsed()
		if configFile == "" {
			configFile = "(none)"
		}

		log.Info("Configuration:")
		log.Info("  Config File:      " + configFile)
		log.Info("  Listen Addr:      "+cfg.Server.Addr(), zap.String("addr", cfg.Server.Addr()))
		log.Info("  Read Timeout:     " + cfg.Server.ReadTimeout.String())
		log.Info("  Write Timeout:    " + cfg.Server.WriteTimeout.String())
		log.Info("  Shutdown Timeout: " + cfg.Server.ShutdownTimeout.String())
		log.Info("  Log Level:        "+cfg.Logging.Level, zap.String("log_level", cfg.Logging.Level))
		log.Info(fmt.Sprintf("  Metrics:          %t (port %d)", cfg.Metrics.Enabled, cfg.Metrics.Port))
		log.Info("  Powered By:       " + cfg.Mock.PoweredBy)
		if cfg.Mock.Seed != 0 {
			log.Info(fmt.Sprintf("  Seed:             %d", cfg.Mock.Seed), zap.Int64("seed", cfg.Mock.Seed))
		} else {
			log.Info("  Seed:             (random)")
		}
		log.Info("")

		log.Info("=== End Environment Information ===")
	},
}

func init() {
	rootCmd.AddCommand(envInfoCmd)
}
