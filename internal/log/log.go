// Package log configures structured logging for the tracker core.
// Thin setup layer over log/slog: pick a level, get a text-handler logger.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a text-handler logger writing to w at the given level.
// Unknown level strings fall back to info.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// Default returns an info-level logger on stderr.
func Default() *slog.Logger {
	return New(os.Stderr, "info")
}

// ParseLevel maps a level name to a slog.Level. Case-insensitive.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
