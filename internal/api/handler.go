package api

import (
	"time"

	"go.uber.org/zap"

	"manometer-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store store.GaugeStore
	log   *zap.Logger
	now   func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(s store.GaugeStore, log *zap.Logger) *Handler {
	return &Handler{
		store: s,
		log:   log,
		now:   time.Now,
	}
}
