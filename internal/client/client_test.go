package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"manometer-backend/config"
	"manometer-backend/internal/api"
	"manometer-backend/internal/dashboard"
	"manometer-backend/internal/db"
	"manometer-backend/internal/model"
	"manometer-backend/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("sqlite:file:%s?mode=memory&cache=shared", uuid.NewString())
	conn := db.NewConnector(config.DatabaseConfig{DSN: dsn}, zap.NewNop())
	t.Cleanup(func() { conn.Close() })

	gdb, err := conn.Get(context.Background())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	router := api.NewRouter(store.NewGormStore(gdb), zap.NewNop(), config.ServerConfig{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		LimiterIdle:     time.Minute,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func strPtr(s string) *string { return &s }

func TestClient_Lifecycle(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL, zap.NewNop())
	ctx := context.Background()

	gauges, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, gauges)

	validity := model.NewDate(2030, time.January, 1)
	created, err := c.Create(ctx, model.GaugeFields{
		SerialNumber: strPtr("MAN-001"),
		Manufacturer: strPtr("Bourdon"),
		Location:     strPtr("A"),
		ValidityDate: &validity,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "2030-01-01", created.ValidityDate.String())

	updated, err := c.Update(ctx, created.ID, model.GaugeFields{Location: strPtr("B")})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Location)
	assert.Equal(t, "Bourdon", updated.Manufacturer)

	summary, err := c.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, dashboard.Summary{Total: 1, UpToDate: 1}, summary)

	deleted, err := c.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted)

	_, err = c.Delete(ctx, created.ID)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, store.ErrNotFound.Error(), apiErr.Message)
}

func TestClient_ValidationError(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL, zap.NewNop())

	_, err := c.Create(context.Background(), model.GaugeFields{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	_, err = c.Update(context.Background(), "not-an-id", model.GaugeFields{Location: strPtr("B")})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "invalid gauge id")
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"success":false,"error":"internal server error","details":"dial tcp: refused"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, zap.NewNop()).List(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "internal server error", apiErr.Message)
	assert.Equal(t, "dial tcp: refused", apiErr.Details)
}

func TestClient_FeedsDashboardModel(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL, zap.NewNop())
	m := dashboard.NewModel(c)

	require.NoError(t, m.Add(context.Background(), model.GaugeFields{SerialNumber: strPtr("MAN-9"), Manufacturer: strPtr("WIKA")}))
	assert.Equal(t, dashboard.TabSummary, m.Tab())
	assert.Empty(t, m.Error())
	require.Len(t, m.Gauges(), 1)
	assert.Len(t, m.Search("wika"), 1)
}
