// Package logging constructs the slog loggers handed to each component.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Writer io.Writer
}

// New builds a text-format slog logger. An empty level means info.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLevel(opts.Level),
	})

	return slog.New(handler)
}

// WithComponent returns a child logger tagged with the component name.
func WithComponent(logger *slog.Logger, name string) *slog.Logger {
	return logger.With("component", name)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
