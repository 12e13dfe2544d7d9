// Package logging wires the process-wide slog logger. The storage layers
// stay silent; only the command-line front end logs, and it routes
// everything through here so level and format are decided in one place.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// level backs every handler built by Init so the threshold can change at
// runtime.
var level = new(slog.LevelVar)

// Init configures the global slog logger. Call once at startup.
// levelName accepts "debug", "info", "warn", or "error" (default "info").
// format accepts "text" or "json" (default "text").
func Init(levelName, format string) {
	level.Set(ParseLevel(levelName))

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// For returns a logger tagged with the given component name. The returned
// logger delegates to slog.Default() on every call, so package-level logger
// variables pick up later Init calls too.
func For(component string) *slog.Logger {
	return slog.New(&dynamicHandler{component: component})
}

// SetLevel changes the log level at runtime.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// ParseLevel maps a level name to its slog level, falling back to info for
// anything it does not recognize.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// dynamicHandler forwards each record to slog.Default().Handler() with a
// "component" attribute attached, instead of capturing the handler at
// construction time.
type dynamicHandler struct {
	component string
}

func (h *dynamicHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return slog.Default().Handler().Enabled(ctx, l)
}

func (h *dynamicHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(slog.String("component", h.component))

	return slog.Default().Handler().Handle(ctx, r)
}

func (h *dynamicHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *dynamicHandler) WithGroup(_ string) slog.Handler {
	return h
}
