package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"manometer-backend/config"
	"manometer-backend/internal/api"
	"manometer-backend/internal/db"
	"manometer-backend/internal/store"
)

// ServeCmd returns the serve command.
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gauge API and dashboard",
		Long: `Connect to the database, migrate the gauges table and serve the JSON API,
the dashboard and the metrics endpoint until SIGINT or SIGTERM.`,
		RunE: runServe,
	}
}

// newServer dials the database, migrates it and builds the HTTP server.
// The returned connector owns the pool.
func newServer(ctx context.Context, cfg *config.Config, log *zap.Logger) (*http.Server, *db.Connector, error) {
	conn := db.NewConnector(cfg.Database, log)
	gdb, err := conn.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(gdb); err != nil {
		conn.Close()
		return nil, nil, err
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(store.NewGormStore(gdb), log, cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}
	return server, conn, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	server, conn, err := newServer(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err, ok := <-errCh:
		if ok {
			log.Error("HTTP server failed", zap.Error(err))
			return err
		}
		return nil
	case sig := <-stop:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown", zap.Error(err))
		return err
	}

	log.Info("server gracefully stopped")
	return nil
}
