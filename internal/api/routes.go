// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/showscrub/backend/internal/clock"
	"github.com/showscrub/backend/internal/config"
	"github.com/showscrub/backend/internal/storage"
	"github.com/showscrub/backend/internal/transform"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Pipeline      *transform.Pipeline
	Cache         ConversionCache
	// Store receives converted outputs; nil disables writing them.
	Store         storage.Store
	ClockDefaults clock.Options
	Workers       int
	Validator     *validator.Validate
	Logger        zerolog.Logger
	Version       string
}

// Handlers holds all handler instances
type Handlers struct {
	Health     HealthHandler
	Conversion ConversionHandler
	Precheck   PrecheckHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	validate := deps.Validator
	if validate == nil {
		validate = config.NewValidator()
	}
	return &Handlers{
		Health:     NewHealthHandler(deps.Version, deps.Cache),
		Conversion: NewConversionHandler(deps.Pipeline, deps.Cache, deps.Store, deps.ClockDefaults, deps.Workers, validate, deps.Logger),
		Precheck:   NewPrecheckHandler(deps.Pipeline, validate),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Health check
	e.GET("/api/health", handlers.Health.HandleHealth)

	e.POST("/api/convert", handlers.Conversion.HandleConvert)
	e.POST("/api/precheck", handlers.Precheck.HandlePrecheck)

	// Conversion review routes
	convGroup := e.Group("/api/conversions")
	convGroup.GET("/:id", handlers.Conversion.HandleGetConversion)
	convGroup.GET("/:id/report", handlers.Conversion.HandleGetReport)
	convGroup.GET("/:id/output", handlers.Conversion.HandleGetOutput)
	convGroup.GET("/:id/diff", handlers.Conversion.HandleGetDiff)
	convGroup.GET("/:id/diff/msgpack", handlers.Conversion.HandleGetDiffMsgpack)
}
