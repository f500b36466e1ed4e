// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	cache   ConversionCache
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, cache ConversionCache) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		cache:   cache,
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	cached := 0
	if h.cache != nil {
		cached = h.cache.Len()
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"version":     h.version,
		"conversions": cached,
	})
}
