// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/showscrub/backend/internal/models"
	"github.com/showscrub/backend/internal/transform"
)

// ConversionHandler handles conversion and review operations
type ConversionHandler interface {
	HandleConvert(c echo.Context) error
	HandleGetConversion(c echo.Context) error
	HandleGetReport(c echo.Context) error
	HandleGetOutput(c echo.Context) error
	HandleGetDiff(c echo.Context) error
	HandleGetDiffMsgpack(c echo.Context) error
}

// PrecheckHandler handles the too-old clock check
type PrecheckHandler interface {
	HandlePrecheck(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// ConversionCache defines the interface for the conversion cache.
// This allows mocking in tests
type ConversionCache interface {
	Add(fileName, encoding string, res *transform.Result, convErr error, elapsed time.Duration) *models.Conversion
	SetArtifacts(id string, names []string) error
	GetSession(id string) (*models.Conversion, bool)
	GetResult(id string) (*transform.Result, error)
	TouchSession(id string) bool
	Len() int
}
