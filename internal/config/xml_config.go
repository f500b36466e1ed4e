// Package config provides XML-based configuration management for air-gapped deployment.
package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/showscrub/backend/internal/clock"
	"github.com/showscrub/backend/internal/logging"
)

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"ShowScrub"`

	// Server configuration
	Server ServerConfig `xml:"Server"`

	// Storage configuration
	Storage StorageConfig `xml:"Storage"`

	// Processing configuration
	Processing ProcessingConfig `xml:"Processing"`

	// Clock adjustment defaults
	Clock ClockConfig `xml:"Clock"`

	// Advanced options
	Advanced AdvancedConfig `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `xml:"Port" validate:"min=1,max=65535"`
	BindAddress  string `xml:"BindAddress"`
	EnableCORS   bool   `xml:"EnableCORS"`
	AllowOrigins string `xml:"AllowOrigins"`
	ReadTimeout  int    `xml:"ReadTimeoutSeconds" validate:"min=0"`
	WriteTimeout int    `xml:"WriteTimeoutSeconds" validate:"min=0"`
	IdleTimeout  int    `xml:"IdleTimeoutSeconds" validate:"min=0"`
	BodyLimit    string `xml:"BodyLimit" validate:"required"`
}

// StorageConfig contains file storage settings
type StorageConfig struct {
	DataDirectory   string `xml:"DataDirectory" validate:"required"`
	OutputDirectory string `xml:"OutputDirectory" validate:"required"`
	// EnablePersistence writes converted outputs to OutputDirectory.
	EnablePersistence bool `xml:"EnablePersistence"`
}

// ProcessingConfig contains conversion and caching settings
type ProcessingConfig struct {
	MaxCachedConversions     int  `xml:"MaxCachedConversions" validate:"min=1"`
	SessionTimeoutMinutes    int  `xml:"SessionTimeoutMinutes" validate:"min=0"` // 0 uses the cache default
	CleanupIntervalMinutes   int  `xml:"CleanupIntervalMinutes" validate:"min=1"`
	MaxConcurrentConversions int  `xml:"MaxConcurrentConversions" validate:"min=1"`
	EnableCompression        bool `xml:"EnableCompression"`
	CompressionLevel         int  `xml:"CompressionLevel" validate:"min=-1,max=9"`
}

// ClockConfig contains the default custom-range window
type ClockConfig struct {
	DefaultStart string `xml:"DefaultStart" validate:"hms"`
	DefaultEnd   string `xml:"DefaultEnd" validate:"hms"`
	// ProfilePath is an optional YAML command profile overriding the expected order.
	ProfilePath string `xml:"ProfilePath"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	LogLevel             string `xml:"LogLevel" validate:"oneof=trace debug info warn error"`
	LogFormat            string `xml:"LogFormat" validate:"oneof=console json"`
	LogFile              string `xml:"LogFile"`
	LogMaxSizeMB         int    `xml:"LogMaxSizeMB" validate:"min=0"`
	LogMaxBackups        int    `xml:"LogMaxBackups" validate:"min=0"`
	EnableRequestLogging bool   `xml:"EnableRequestLogging"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8089,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
			BodyLimit:    "50M",
		},
		Storage: StorageConfig{
			DataDirectory:     "./data",
			OutputDirectory:   "./data/output",
			EnablePersistence: true,
		},
		Processing: ProcessingConfig{
			MaxCachedConversions:     100,
			SessionTimeoutMinutes:    30,
			CleanupIntervalMinutes:   5,
			MaxConcurrentConversions: 4,
			EnableCompression:        true,
			CompressionLevel:         5,
		},
		Clock: ClockConfig{
			DefaultStart: "08:00:00",
			DefaultEnd:   "18:00:00",
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			LogFormat:            logging.FormatConsole,
			LogMaxSizeMB:         10,
			LogMaxBackups:        3,
			EnableRequestLogging: true,
		},
	}
}

// LoadConfig loads configuration from XML file
func LoadConfig(configPath string) (*AppConfig, error) {
	config := DefaultConfig()

	// If file doesn't exist, create default
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := xml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Apply environment variable overrides
	config.applyEnvironmentOverrides()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Resolve relative paths
	config.resolvePaths(filepath.Dir(configPath))

	return config, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- ShowScrub Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	// PORT override
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
	}

	if outputDir := os.Getenv("OUTPUT_DIR"); outputDir != "" {
		c.Storage.OutputDirectory = outputDir
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Advanced.LogLevel = level
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	for _, p := range []*string{
		&c.Storage.DataDirectory,
		&c.Storage.OutputDirectory,
		&c.Clock.ProfilePath,
		&c.Advanced.LogFile,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(configDir, *p)
		}
	}
}

// Validate checks every field against its validate tag.
func (c *AppConfig) Validate() error {
	if err := NewValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// NewValidator returns a validator that also knows the "hms" tag for
// HH:MM:SS time-of-day strings.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("hms", func(fl validator.FieldLevel) bool {
		_, err := clock.ParseTimeOfDay(fl.Field().String())
		return err == nil
	})
	return v
}

// ClockOptions returns non-custom clock options using the configured window.
func (c *AppConfig) ClockOptions() clock.Options {
	opts := clock.DefaultOptions()
	if start, err := clock.ParseTimeOfDay(c.Clock.DefaultStart); err == nil {
		opts.Start = start
	}
	if end, err := clock.ParseTimeOfDay(c.Clock.DefaultEnd); err == nil {
		opts.End = end
	}
	return opts
}

// LogConfig returns the logging settings.
func (c *AppConfig) LogConfig() logging.Config {
	return logging.Config{
		Level:      c.Advanced.LogLevel,
		Format:     c.Advanced.LogFormat,
		File:       c.Advanced.LogFile,
		MaxSizeMB:  c.Advanced.LogMaxSizeMB,
		MaxBackups: c.Advanced.LogMaxBackups,
	}
}

// GetDataDir returns the absolute data directory path
func (c *AppConfig) GetDataDir() string {
	return c.Storage.DataDirectory
}

// GetOutputDir returns the absolute output directory path
func (c *AppConfig) GetOutputDir() string {
	return c.Storage.OutputDirectory
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// EnsureDirectories creates all necessary directories
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDirectory,
		c.Storage.OutputDirectory,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
