package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"WARN", zerolog.WarnLevel, false},
		{"", zerolog.InfoLevel, false},
		{"loud", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: FormatJSON, Console: &buf})
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("file", "sw1.log").Msg("Converted")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "sw1.log", entry["file"])
	assert.Equal(t, "Converted", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Format: FormatConsole, Console: &buf})
	require.NoError(t, err)

	logger.Warn().Msg("clock too old")

	assert.Contains(t, buf.String(), "WRN")
	assert.Contains(t, buf.String(), "clock too old")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "showscrub.log")
	var buf bytes.Buffer
	logger, err := New(Config{Format: FormatJSON, File: path, Console: &buf})
	require.NoError(t, err)

	logger.Info().Msg("written twice")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written twice")
	assert.Contains(t, buf.String(), "written twice")
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Config{Format: "xml"})
	assert.Error(t, err)
}
