// Package logging builds the zerolog loggers used by the server and the CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config selects the level, format and destinations of a logger.
type Config struct {
	Level  string
	Format string
	// File is an optional path of a rotated log file written in JSON.
	File       string
	MaxSizeMB  int
	MaxBackups int
	// Console receives the formatted output; nil means os.Stderr.
	Console io.Writer
}

// DefaultConfig logs info and above to stderr in console format.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     FormatConsole,
		MaxSizeMB:  10,
		MaxBackups: 3,
	}
}

// ParseLevel reads a level name such as "debug" or "WARN".
func ParseLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// New builds a logger from cfg.
func New(cfg Config) (zerolog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}

	var writers []io.Writer
	switch strings.ToLower(cfg.Format) {
	case FormatJSON:
		writers = append(writers, console)
	case FormatConsole, "":
		writers = append(writers, zerolog.ConsoleWriter{Out: console, TimeFormat: "15:04:05", NoColor: console != os.Stderr})
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", cfg.Format)
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return zerolog.Nop(), fmt.Errorf("failed to create log directory: %w", err)
		}
		maxSize := cfg.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxSize,
			MaxBackups: cfg.MaxBackups,
			LocalTime:  true,
		})
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}
