// Package logging configures structured logging for log/slog.
//
// Usage:
//
//	logging.Setup("tint", "info")                    // colored output for terminals
//	logging.Setup("json", "debug")                   // one JSON object per line
//	logger := logging.New(w, "json", slog.LevelInfo) // explicit writer, no global state
//
// Formats:
//
//	tint: colored, human-readable, with source location (default)
//	json: slog's JSON handler, for log collectors
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

const (
	FormatTint = "tint"
	FormatJSON = "json"
)

// Setup installs a logger on os.Stderr as the slog default.
// Unknown formats fall back to tint and unknown levels to INFO.
func Setup(format, level string) {
	slog.SetDefault(New(os.Stderr, format, ParseLevel(level)))
}

// New builds a logger writing to w in the given format.
func New(w io.Writer, format string, level slog.Level) *slog.Logger {
	if strings.EqualFold(format, FormatJSON) {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
		NoColor:    w != os.Stderr && w != os.Stdout,
	}))
}

// ParseLevel maps debug, info, warn and error (any case) to a slog.Level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
