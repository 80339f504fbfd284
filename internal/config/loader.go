// Package config provides centralized configuration management for uptimemock.
// Layer 1: built-in defaults (SetDefaults)
// Layer 2: optional YAML config file located by the root command
// Layer 3: environment variables ({PREFIX}NAME and the bare PORT) and CLI flags
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Defaults shared by the loader and the CLI flag definitions.
const (
	DefaultHost      = "0.0.0.0"
	DefaultPort      = 3000
	DefaultPoweredBy = "uptime-kuma-themes-mock-server"
)

var (
	// appConfig holds the current application configuration
	appConfig *Config
	configMu  sync.RWMutex
)

// SetDefaults registers the built-in configuration layer on v.
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.read_timeout", "30s")
	// Simulated delays reach 15s and /timeout never answers, so writes are
	// not bounded by default.
	v.SetDefault("server.write_timeout", "0s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Logging defaults
	v.SetDefault("logging.level", "info")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)

	// Health check defaults
	v.SetDefault("health.enabled", true)

	// Mock defaults
	v.SetDefault("mock.powered_by", DefaultPoweredBy)
	v.SetDefault("mock.seed", 0)
}

// BindEnv maps environment variables onto config keys.
// {PREFIX}NAME variables follow the app identity prefix; PORT is honored
// unprefixed because container platforms set it.
func BindEnv(v *viper.Viper, prefix string) error {
	prefix = strings.TrimSuffix(prefix, "_")

	bindings := []struct {
		key  string
		envs []string
	}{
		{"server.host", []string{prefix + "_HOST"}},
		{"server.port", []string{prefix + "_PORT", "PORT"}},
		{"server.read_timeout", []string{prefix + "_READ_TIMEOUT"}},
		{"server.write_timeout", []string{prefix + "_WRITE_TIMEOUT"}},
		{"server.idle_timeout", []string{prefix + "_IDLE_TIMEOUT"}},
		{"server.shutdown_timeout", []string{prefix + "_SHUTDOWN_TIMEOUT"}},
		{"logging.level", []string{prefix + "_LOG_LEVEL"}},
		{"metrics.enabled", []string{prefix + "_METRICS_ENABLED"}},
		{"metrics.port", []string{prefix + "_METRICS_PORT"}},
		{"health.enabled", []string{prefix + "_HEALTH_ENABLED"}},
		{"mock.powered_by", []string{prefix + "_POWERED_BY"}},
		{"mock.seed", []string{prefix + "_SEED"}},
	}

	for _, b := range bindings {
		args := append([]string{b.key}, b.envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", b.key, err)
		}
	}
	return nil
}

// Load decodes the merged viper settings into a typed Config and stores it
// as the current configuration.
//
// This function is safe to call multiple times (e.g., for config reload)
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setConfig(cfg)

	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d: must be between 0 and 65535", c.Server.Port)
	}
	if c.Metrics.Enabled && (c.Metrics.Port < 0 || c.Metrics.Port > 65535) {
		return fmt.Errorf("invalid metrics port %d: must be between 0 and 65535", c.Metrics.Port)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	if strings.TrimSpace(c.Mock.PoweredBy) == "" {
		c.Mock.PoweredBy = DefaultPoweredBy
	}
	return nil
}

// GetConfig returns the current application configuration (thread-safe)
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

// setConfig updates the current configuration (thread-safe)
func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
