package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"manometer-backend/internal/store"
)

const (
	msgInternal    = "internal server error"
	msgInvalidBody = "invalid request body"
)

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// bindJSON decodes the request body into obj. Missing bodies and binding
// failures come back as validation errors.
func bindJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return &store.ValidationError{Message: "request body is required"}
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		if errors.Is(err, io.EOF) {
			return &store.ValidationError{Message: "request body is required"}
		}
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			e := validationErrors[0]
			return &store.ValidationError{
				Field:   lowerFirst(e.Field()),
				Message: fmt.Sprintf("failed %q check (%s)", e.Tag(), e.Param()),
			}
		}
		return &store.ValidationError{Message: msgInvalidBody, Details: err.Error()}
	}
	return nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// respondError converts err into the failure envelope. Validation errors map
// to 400, missing records to 404 and everything else to 500.
func (h *Handler) respondError(c *gin.Context, op string, err error) {
	var vErr *store.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.log.Warn("rejected request", zap.String("op", op), zap.Error(err))
		body := gin.H{"success": false, "error": vErr.Error()}
		if vErr.Details != "" {
			body["details"] = vErr.Details
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, store.ErrNotFound):
		h.log.Warn("gauge not found", zap.String("op", op), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": store.ErrNotFound.Error()})
	default:
		h.log.Error("request failed", zap.String("op", op), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   msgInternal,
			"details": err.Error(),
		})
	}
}
