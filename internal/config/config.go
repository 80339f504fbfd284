package config

import "time"

// Config represents the complete application configuration.
// Values are layered by viper: built-in defaults, then an optional config
// file, then environment variables and bound CLI flags.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`
	Mock    MockConfig    `mapstructure:"mock"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	// Level controls the minimum log level
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	// Enabled controls whether the Prometheus exporter is started
	Enabled bool `mapstructure:"enabled"`

	// Port is the dedicated exporter port. The exporter output is also
	// proxied at /_mock/metrics on the main HTTP port.
	Port int `mapstructure:"port"`
}

// HealthConfig contains configuration for the operator probe endpoints
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// MockConfig tunes the simulated endpoints.
type MockConfig struct {
	// PoweredBy is sent as X-Powered-By on every JSON response.
	PoweredBy string `mapstructure:"powered_by"`

	// Seed makes randomized endpoints reproducible. Zero means nondeterministic.
	Seed int64 `mapstructure:"seed"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}
