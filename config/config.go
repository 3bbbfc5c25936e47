package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config represents the overall application configuration.
type Config struct {
	Env      string         `yaml:"env"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port                   int     `yaml:"port"`
	RateLimitPerSec        float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst         int     `yaml:"rate_limit_burst"`
	LimiterIdleMinutes     int     `yaml:"limiter_idle_minutes"`
	ShutdownTimeoutSeconds int     `yaml:"shutdown_timeout_seconds"`

	LimiterIdle     time.Duration `yaml:"-"`
	ShutdownTimeout time.Duration `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
// Pool size and timeouts are fixed in the db package.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
	// Development raises the ORM log level.
	Development bool `yaml:"-"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ConfigurationError reports a missing or invalid setting.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Reason)
}

// IsDevelopment reports whether the application runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Load reads the configuration from the given path, applies environment
// overrides and fills defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if cfg.Env == "" {
		cfg.Env = EnvProduction
	}
	if cfg.Env != EnvDevelopment && cfg.Env != EnvProduction {
		return nil, &ConfigurationError{Key: "APP_ENV", Reason: fmt.Sprintf("unknown environment %q", cfg.Env)}
	}
	cfg.Database.Development = cfg.IsDevelopment()

	if cfg.Database.DSN == "" {
		return nil, &ConfigurationError{Key: "DATABASE_URL", Reason: "connection string is not set"}
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.LimiterIdleMinutes <= 0 {
		cfg.Server.LimiterIdleMinutes = 10
	}
	cfg.Server.LimiterIdle = time.Duration(cfg.Server.LimiterIdleMinutes) * time.Minute

	if cfg.Server.ShutdownTimeoutSeconds <= 0 {
		cfg.Server.ShutdownTimeoutSeconds = 5
	}
	cfg.Server.ShutdownTimeout = time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.IsDevelopment() {
			cfg.Log.Format = "console"
		} else {
			cfg.Log.Format = "json"
		}
	}

	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigurationError{Key: "PORT", Reason: err.Error()}
		}
		cfg.Server.Port = port
	}
	return nil
}
