package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" INFO ", zerolog.InfoLevel},
		{"trace", zerolog.TraceLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.WarnLevel},
		{"bogus", zerolog.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func restore(t *testing.T) {
	t.Helper()
	prev := log.Logger
	t.Cleanup(func() {
		Shutdown()
		log.Logger = prev
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	})
}

func TestInit_FileOutputJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "labops.log")
	restore(t)

	require.NoError(t, Init(Config{Level: "info", Format: "json", Output: path}))
	log.Info().Str("resource", "hosts").Msg("Fetching hosts from API...")
	log.Debug().Msg("suppressed")
	Shutdown()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry), "exactly one json line expected: %s", data)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "hosts", entry["resource"])
	assert.Equal(t, "Fetching hosts from API...", entry["message"])
}

func TestInit_AutoFormatOnFileIsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auto.log")
	restore(t)

	require.NoError(t, Init(Config{Level: "warn", Format: "auto", Output: path}))
	log.Warn().Msg("careful")
	Shutdown()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestInit_BadPath(t *testing.T) {
	dir := t.TempDir()
	// a directory cannot be opened for writing
	err := Init(Config{Output: dir})
	assert.Error(t, err)
}
