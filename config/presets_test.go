package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayplanner/internal/scheduling"
)

func writePresets(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadPresets(t *testing.T) {
	t.Run("empty path means no overrides", func(t *testing.T) {
		presets, err := LoadPresets("")
		require.NoError(t, err)
		assert.Nil(t, presets)
	})

	t.Run("parses overrides", func(t *testing.T) {
		path := writePresets(t, "workday:\n  start_hour: 10\n  end_hour: 19\nfocus:\n  start_hour: 6\n  end_hour: 9\n")
		presets, err := LoadPresets(path)
		require.NoError(t, err)
		assert.Equal(t, scheduling.DayWindow{StartHour: 10, EndHour: 19}, presets["workday"])
		assert.Equal(t, scheduling.DayWindow{StartHour: 6, EndHour: 9}, presets["focus"])
	})

	t.Run("rejects inverted hours", func(t *testing.T) {
		path := writePresets(t, "broken:\n  start_hour: 18\n  end_hour: 9\n")
		_, err := LoadPresets(path)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPresets(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}
