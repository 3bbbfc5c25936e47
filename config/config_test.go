package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "APP_ENV", "LOG_LEVEL", "PORT"} {
		t.Setenv(key, "")
	}
}

func TestLoad_FromFileWithDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
database:
  dsn: "postgres://gauges@localhost/gauges"
server:
  port: 9090
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://gauges@localhost/gauges", cfg.Database.DSN)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, EnvProduction, cfg.Env)
	assert.False(t, cfg.Database.Development)
	assert.Equal(t, float64(10), cfg.Server.RateLimitPerSec)
	assert.Equal(t, 5, cfg.Server.RateLimitBurst)
	assert.Equal(t, 10*time.Minute, cfg.Server.LimiterIdle)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
database:
  dsn: "postgres://from-file"
`)
	t.Setenv("DATABASE_URL", "sqlite:file::memory:")
	t.Setenv("APP_ENV", "development")
	t.Setenv("PORT", "3000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite:file::memory:", cfg.Database.DSN)
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.Database.Development)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_NoFileUsesEnvironmentOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://env-only")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://env-only", cfg.Database.DSN)
}

func TestLoad_MissingConnectionStringFailsFast(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server:\n  port: 8080\n")

	cfg, err := Load(path)
	assert.Nil(t, cfg)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "DATABASE_URL", cfgErr.Key)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("unknown environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_URL", "postgres://x")
		t.Setenv("APP_ENV", "staging")

		_, err := Load("")
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "APP_ENV", cfgErr.Key)
	})

	t.Run("non-numeric port", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_URL", "postgres://x")
		t.Setenv("PORT", "eighty")

		_, err := Load("")
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "PORT", cfgErr.Key)
	})

	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}
