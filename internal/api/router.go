package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"manometer-backend/config"
	"manometer-backend/internal/dashboard"
	"manometer-backend/internal/mw"
	"manometer-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.GaugeStore, log *zap.Logger, cfg config.ServerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestLogger(log))

	// Collectors live on a per-router registry, never the global default.
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	r.Use(mw.NewMetrics(reg).Handler())

	handler := NewHandler(s, log)

	r.GET("/healthz", handler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	limiter := mw.NewIPRateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, cfg.LimiterIdle)
	limited := r.Group("", mw.RateLimiter(limiter))

	gauges := limited.Group("/gauges")
	{
		gauges.GET("", handler.ListGauges)
		gauges.POST("", handler.CreateGauge)
		gauges.PUT("", handler.UpdateGauge)
		gauges.DELETE("", handler.DeleteGauge)
		gauges.GET("/summary", handler.GaugeSummary)
		gauges.GET("/export", handler.ExportGauges)
	}

	dashboard.NewHandler(s, log).Register(limited)

	return r
}
