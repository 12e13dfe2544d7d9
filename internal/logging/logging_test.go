package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseLevel verifies the accepted names and the info fallback.
func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expected slog.Level
	}{
		{name: "debug", expected: slog.LevelDebug},
		{name: "DEBUG", expected: slog.LevelDebug},
		{name: " info ", expected: slog.LevelInfo},
		{name: "warn", expected: slog.LevelWarn},
		{name: "warning", expected: slog.LevelWarn},
		{name: "error", expected: slog.LevelError},
		{name: "", expected: slog.LevelInfo},
		{name: "loud", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseLevel(tt.name), "level name %q", tt.name)
	}
}

// TestFor_TagsComponent verifies loggers built by For carry their component
// attribute and follow the current default handler.
func TestFor_TagsComponent(t *testing.T) {
	var captured bytes.Buffer

	previous := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(previous)
	})

	slog.SetDefault(slog.New(slog.NewJSONHandler(&captured, &slog.HandlerOptions{Level: slog.LevelDebug})))

	logger := For("tester")
	logger.Debug("hello", "round", 1)

	output := captured.String()
	require.NotEmpty(t, output)
	assert.Contains(t, output, `"component":"tester"`)
	assert.Contains(t, output, `"msg":"hello"`)
}

// TestFor_FollowsLaterDefault verifies a logger built before a handler swap
// writes through the new handler afterward.
func TestFor_FollowsLaterDefault(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(previous)
	})

	logger := For("roaming")

	var captured bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&captured, &slog.HandlerOptions{Level: slog.LevelInfo})))

	require.True(t, logger.Enabled(context.Background(), slog.LevelInfo))

	logger.Info("after swap")
	assert.Contains(t, captured.String(), "after swap")
}
