package configuration

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pointscalc/internal/goal"

	"github.com/spf13/viper"
)

// AppConfig represents the complete application configuration.
type AppConfig struct {
	// Logger: logger component configuration
	Logger LoggerConfig `mapstructure:"logger"`
	// Server: HTTP server configuration
	Server ServerConfig `mapstructure:"server"`
	// Engine: points table configuration
	Engine EngineConfig `mapstructure:"engine"`
	// Sessions: calculator session storage configuration
	Sessions SessionsConfig `mapstructure:"sessions"`
	// Metrics: Prometheus endpoint configuration
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggerConfig defines logging settings.
type LoggerConfig struct {
	// Level: log level: debug, info, warn, warning, error.
	// Value is case-insensitive but checked in lowercase.
	Level string `mapstructure:"level"`
	// File: optional log file. When empty, logs are written to stdout.
	File string `mapstructure:"file"`
	// MaxSize: size of the log file in megabytes before it is rotated.
	MaxSize int `mapstructure:"max_size"`
	// MaxBackups: number of rotated log files to keep.
	MaxBackups int `mapstructure:"max_backups"`
}

// ServerConfig contains HTTP server parameters.
type ServerConfig struct {
	// Address: address and port where the server will listen (e.g., ":8080").
	Address string `mapstructure:"address"`
	// Static: path to directory with static files served by the server.
	// Can be empty if static serving is not required.
	Static string `mapstructure:"static"`
	// Cookie: name of the cookie carrying the session token.
	Cookie string `mapstructure:"cookie"`
}

// EngineConfig defines the points table.
type EngineConfig struct {
	// Rules: optional path to a YAML rules file replacing the built-in table.
	Rules string `mapstructure:"rules"`
	// DefaultGoal: goal used by stateless evaluations that do not set one.
	DefaultGoal int `mapstructure:"default_goal"`
}

// SessionsConfig defines calculator session parameters.
type SessionsConfig struct {
	// Ttl: idle time after which a session is discarded. Example: "30m".
	Ttl time.Duration `mapstructure:"ttl"`
	// History: number of changes kept per session.
	History int `mapstructure:"history"`
}

// MetricsConfig defines the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled: whether the endpoint is served.
	Enabled bool `mapstructure:"enabled"`
	// Path: URL path of the endpoint.
	Path string `mapstructure:"path"`
}

// Validate checks the correctness of the entire application configuration.
// Calls validation for each nested structure and returns the first detected error.
// Returns nil if the configuration is valid.
func (c *AppConfig) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return err
	}

	if err := c.Server.Validate(); err != nil {
		return err
	}

	if err := c.Engine.Validate(); err != nil {
		return err
	}

	if err := c.Sessions.Validate(); err != nil {
		return err
	}

	if err := c.Metrics.Validate(); err != nil {
		return err
	}

	return nil
}

// Validate checks the correctness of the logger configuration.
// Verifies that the log level is set and is one of the supported values.
// Supported values: debug, info, warn, warning, error (case-insensitive).
func (l *LoggerConfig) Validate() error {
	if l.Level == "" {
		return errors.New("logger.level: must be specified")
	}

	valid := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !valid[strings.ToLower(l.Level)] {
		return fmt.Errorf("logger.level: unsupported level '%s'", l.Level)
	}

	if l.File != "" && (l.MaxSize <= 0 || l.MaxBackups < 0) {
		return errors.New("logger.max_size must be positive and logger.max_backups non-negative")
	}

	return nil
}

// Validate checks the correctness of the server configuration.
// Verifies that the server address and the session cookie are set.
func (n *ServerConfig) Validate() error {
	if n.Address == "" {
		return errors.New("server.address: must be specified")
	}

	if n.Cookie == "" {
		return errors.New("server.cookie: must be specified")
	}

	return nil
}

// Validate checks the goal bounds. The default goal is clamped into range
// rather than rejected, the same way user goals are.
func (e *EngineConfig) Validate() error {
	e.DefaultGoal = goal.Clamp(e.DefaultGoal)
	return nil
}

// Validate checks the session parameters.
func (s *SessionsConfig) Validate() error {
	if s.Ttl <= 0 {
		return errors.New("sessions.ttl: must be positive")
	}

	if s.History <= 0 {
		return errors.New("sessions.history: must be positive")
	}

	return nil
}

// Validate checks the metrics endpoint.
func (m *MetricsConfig) Validate() error {
	if m.Enabled && !strings.HasPrefix(m.Path, "/") {
		return fmt.Errorf("metrics.path: must start with '/', got '%s'", m.Path)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cookie", "pointscalc_session")
	v.SetDefault("engine.default_goal", goal.MinimumThreshold)
	v.SetDefault("sessions.ttl", 30*time.Minute)
	v.SetDefault("sessions.history", 50)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// LoadConfig loads configuration from the specified file using Viper.
// Supports YAML format. Also includes environment variable loading (AutomaticEnv),
// which can override values from the file: server.address is read from
// SERVER_ADDRESS, sessions.ttl from SESSIONS_TTL and so on.
//
// Parameter configPath: path to the configuration file. When empty, only
// defaults and environment variables are used.
//
// Returns a pointer to AppConfig or an error if:
// - the file is not found or inaccessible
// - the configuration has invalid format
// - one of the sections fails validation
func LoadConfig(configPath string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}
