package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("json output", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger("info", "json", &buf).Info("hello", "k", 1)

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "INFO", record["level"])
	})

	t.Run("text output", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger("debug", "text", &buf).Debug("hello")
		assert.Contains(t, buf.String(), "level=DEBUG msg=hello")
	})

	testCases := []struct {
		level     string
		wantDebug bool
		wantWarn  bool
	}{
		{level: "debug", wantDebug: true, wantWarn: true},
		{level: "warn", wantDebug: false, wantWarn: true},
		{level: "error", wantDebug: false, wantWarn: false},
		{level: "bogus", wantDebug: false, wantWarn: true},
	}
	for _, tc := range testCases {
		t.Run("level "+tc.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(tc.level, "text", &buf)
			assert.Equal(t, tc.wantDebug, logger.Enabled(t.Context(), slog.LevelDebug))
			assert.Equal(t, tc.wantWarn, logger.Enabled(t.Context(), slog.LevelWarn))
		})
	}
}
