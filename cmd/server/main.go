package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/showscrub/backend/internal/api"
	"github.com/showscrub/backend/internal/commands"
	"github.com/showscrub/backend/internal/config"
	"github.com/showscrub/backend/internal/logging"
	"github.com/showscrub/backend/internal/session"
	"github.com/showscrub/backend/internal/storage"
	"github.com/showscrub/backend/internal/transform"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	// Load XML configuration
	configPath := filepath.Join(exeDir, "ShowScrub.config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogConfig())
	if err != nil {
		fmt.Printf("Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	// Ensure all data directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to create directories")
	}

	order, err := commands.LoadOrder(cfg.Clock.ProfilePath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Clock.ProfilePath).Msg("Failed to load command profile")
	}
	pipeline := transform.New(
		transform.WithOrder(order),
		transform.WithLogger(logger.With().Str("component", "transform").Logger()),
	)

	// Initialize conversion cache
	sessionMgr := session.NewManager(cfg.Processing.MaxCachedConversions, logger.With().Str("component", "session").Logger())

	// Start background cache cleanup
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Processing.CleanupIntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if n := sessionMgr.CleanupOldSessions(time.Duration(cfg.Processing.SessionTimeoutMinutes) * time.Minute); n > 0 {
				logger.Info().Int("removed", n).Msg("Cleaned up cached conversions")
			}
		}
	}()

	deps := &api.Dependencies{
		Pipeline:      pipeline,
		Cache:         sessionMgr,
		ClockDefaults: cfg.ClockOptions(),
		Workers:       cfg.Processing.MaxConcurrentConversions,
		Validator:     config.NewValidator(),
		Logger:        logger.With().Str("component", "api").Logger(),
		Version:       Version,
	}

	// Initialize artifact storage
	if cfg.Storage.EnablePersistence {
		fileStore, err := storage.NewLocalStore(cfg.GetOutputDir())
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize storage")
		}
		deps.Store = fileStore
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.NewErrorHandler(logger, cfg.Advanced.LogLevel == "debug" || cfg.Advanced.LogLevel == "trace")

	// Configure middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Skip logging if disabled in config
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			return c.Request().URL.Path == "/api/health"
		},
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := logger.Info()
			if v.Error != nil {
				event = logger.Warn().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("Request")
			return nil
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error().Err(err).Bytes("stack", stack).Msg("Recovered from panic")
			return err
		},
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		Skipper: func(c echo.Context) bool {
			// Batches of large captures can take longer than one read timeout.
			return c.Request().URL.Path == "/api/convert"
		},
		ErrorMessage: "Request timeout - conversion took too long",
	}))

	// Compression middleware
	if cfg.Processing.EnableCompression {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level: cfg.Processing.CompressionLevel,
		}))
	}

	// Body limit middleware
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// CORS configuration
	if cfg.Server.EnableCORS {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:  allowOrigins(cfg.Server.AllowOrigins),
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
			ExposeHeaders: []string{echo.HeaderContentDisposition},
		}))
	}

	// API Routes
	api.RegisterRoutes(e, api.NewHandlers(deps))

	// Configure server with settings from XML config
	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	printBanner(cfg, configPath)
	logStartup(logger, cfg, len(order))

	if err := e.StartServer(s); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("Server stopped")
	}
}

// allowOrigins splits the comma-separated origin list, defaulting to "*".
func allowOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func printBanner(cfg *config.AppConfig, configPath string) {
	persistence := "off"
	if cfg.Storage.EnablePersistence {
		persistence = cfg.GetOutputDir()
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Show Command Scrubber                           ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Outputs:   %-46s║\n", persistence)
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")
}

func logStartup(logger zerolog.Logger, cfg *config.AppConfig, orderLen int) {
	logger.Info().
		Str("addr", cfg.GetServerAddr()).
		Int("maxCached", cfg.Processing.MaxCachedConversions).
		Int("workers", cfg.Processing.MaxConcurrentConversions).
		Int("expectedCommands", orderLen).
		Str("window", cfg.Clock.DefaultStart+"-"+cfg.Clock.DefaultEnd).
		Msg("Server starting")
}
