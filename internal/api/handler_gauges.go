package api

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"manometer-backend/internal/dashboard"
	"manometer-backend/internal/export"
	"manometer-backend/internal/model"
)

// ListGauges handles GET /gauges.
func (h *Handler) ListGauges(c *gin.Context) {
	gauges, err := h.store.List(c.Request.Context())
	if err != nil {
		h.respondError(c, "list", err)
		return
	}
	respondData(c, gauges)
}

// CreateGauge handles POST /gauges.
func (h *Handler) CreateGauge(c *gin.Context) {
	var fields model.GaugeFields
	if err := bindJSON(c, &fields); err != nil {
		h.respondError(c, "create", err)
		return
	}

	gauge, err := h.store.Create(c.Request.Context(), fields)
	if err != nil {
		h.respondError(c, "create", err)
		return
	}
	respondData(c, gauge)
}

type updateGaugeRequest struct {
	ID string `json:"id"`
	model.GaugeFields
}

// UpdateGauge handles PUT /gauges. The body carries the identifier next to
// the attributes to merge.
func (h *Handler) UpdateGauge(c *gin.Context) {
	var req updateGaugeRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "update", err)
		return
	}

	gauge, err := h.store.Update(c.Request.Context(), req.ID, req.GaugeFields)
	if err != nil {
		h.respondError(c, "update", err)
		return
	}
	respondData(c, gauge)
}

// DeleteGauge handles DELETE /gauges?id=X.
func (h *Handler) DeleteGauge(c *gin.Context) {
	id := c.Query("id")
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "gauge deleted",
		"deletedId": id,
	})
}

// GaugeSummary handles GET /gauges/summary.
func (h *Handler) GaugeSummary(c *gin.Context) {
	gauges, err := h.store.List(c.Request.Context())
	if err != nil {
		h.respondError(c, "summary", err)
		return
	}
	respondData(c, dashboard.Summarize(gauges, h.now()))
}

// ExportGauges handles GET /gauges/export.
func (h *Handler) ExportGauges(c *gin.Context) {
	gauges, err := h.store.List(c.Request.Context())
	if err != nil {
		h.respondError(c, "export", err)
		return
	}

	now := h.now()
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, gauges, now); err != nil {
		h.respondError(c, "export", err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+export.FileName(now))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}
