// Package logger builds the structured logger shared by the CLI.
package logger

import (
	"io"
	"log/slog"
)

// New returns a text-structured logger writing to w. Debug lowers the level
// so skipped coverage classes and format detection are visible.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
