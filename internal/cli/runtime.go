package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"manometer-backend/config"
	"manometer-backend/internal/logger"
)

const serviceName = "manometerd"

// DefaultServer is the API base URL used by the client commands.
const DefaultServer = "http://localhost:8080"

// configPath resolves --config, then CONFIG_PATH. Empty means environment only.
func configPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	return os.Getenv("CONFIG_PATH")
}

// loadRuntime reads .env, the configuration and builds the logger.
func loadRuntime(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, err
	}

	cfg, err := config.Load(configPath(cmd))
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// clientLogger is a quiet console logger for the client commands.
func clientLogger() *zap.Logger {
	log, err := logger.New("error", "console", serviceName)
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func serverFlag(cmd *cobra.Command) string {
	if s, _ := cmd.Flags().GetString("server"); s != "" {
		return s
	}
	if s := os.Getenv("MANOMETER_SERVER"); s != "" {
		return s
	}
	return DefaultServer
}
