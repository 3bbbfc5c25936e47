package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"manometer-backend/config"
	"manometer-backend/internal/api"
	"manometer-backend/internal/client"
	"manometer-backend/internal/dashboard"
	"manometer-backend/internal/db"
	"manometer-backend/internal/model"
	"manometer-backend/internal/store"
)

func memoryDSN() string {
	return fmt.Sprintf("sqlite:file:%s?mode=memory&cache=shared", uuid.NewString())
}

func setEnv(t *testing.T, dsn string) {
	t.Helper()
	t.Setenv("DATABASE_URL", dsn)
	t.Setenv("APP_ENV", config.EnvDevelopment)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("PORT", "")
}

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn := db.NewConnector(config.DatabaseConfig{DSN: memoryDSN()}, zap.NewNop())
	t.Cleanup(func() { conn.Close() })
	gdb, err := conn.Get(context.Background())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	srv := httptest.NewServer(api.NewRouter(store.NewGormStore(gdb), zap.NewNop(), config.ServerConfig{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		LimiterIdle:     time.Minute,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func seed(t *testing.T, srv *httptest.Server) {
	t.Helper()
	c := client.New(srv.URL, zap.NewNop())
	for _, g := range []struct{ serial, manufacturer string }{
		{"MAN-001", "Bourdon"},
		{"MAN-002", "WIKA"},
	} {
		serial, manufacturer := g.serial, g.manufacturer
		validity := model.DateOf(time.Now().AddDate(1, 0, 0))
		_, err := c.Create(context.Background(), model.GaugeFields{
			SerialNumber: &serial,
			Manufacturer: &manufacturer,
			ValidityDate: &validity,
		})
		require.NoError(t, err)
	}
}

func execute(cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListCmd(t *testing.T) {
	srv := newAPIServer(t)
	seed(t, srv)

	out, err := execute(ListCmd(), "--server", srv.URL, "--search", "bour")
	require.NoError(t, err)
	assert.Contains(t, out, "SERIAL")
	assert.Contains(t, out, "MAN-001")
	assert.NotContains(t, out, "MAN-002")
	assert.Contains(t, out, "Up to date")
}

func TestListCmd_Empty(t *testing.T) {
	srv := newAPIServer(t)

	out, err := execute(ListCmd(), "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "No gauges registered")
}

func TestListCmd_ServerUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := execute(ListCmd(), "--server", url)
	require.Error(t, err)
	assert.Contains(t, err.Error(), dashboard.MsgLoadFailed)
}

func TestSummaryCmd(t *testing.T) {
	srv := newAPIServer(t)
	seed(t, srv)

	out, err := execute(SummaryCmd(), "--server", srv.URL)
	require.NoError(t, err)
	assert.Regexp(t, `Total\s+2`, out)
	assert.Regexp(t, `Expired\s+0`, out)
	assert.Regexp(t, `Up to date\s+2`, out)
}

func TestMigrateCmd(t *testing.T) {
	setEnv(t, memoryDSN())

	out, err := execute(MigrateCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "gauges table is up to date")
}

func TestMigrateCmd_MissingConnectionString(t *testing.T) {
	setEnv(t, "")

	_, err := execute(MigrateCmd())
	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "DATABASE_URL", cfgErr.Key)
}

func TestNewServer(t *testing.T) {
	setEnv(t, memoryDSN())
	cfg, err := config.Load("")
	require.NoError(t, err)

	server, conn, err := newServer(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, ":8080", server.Addr)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/gauges", nil)
	server.Handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
}

func TestNewServer_ConnectionFailure(t *testing.T) {
	cfg := &config.Config{
		Env:      config.EnvDevelopment,
		Database: config.DatabaseConfig{DSN: "sqlite:file:/nonexistent-dir/gauges.db?mode=ro"},
	}

	_, _, err := newServer(context.Background(), cfg, zap.NewNop())
	var connErr *db.ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, "sqlite", connErr.Driver)
}
