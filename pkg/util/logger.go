package util

import (
	"io"

	"golang.org/x/exp/slog"
)

// NewLogger text or json slog logger writing to w.
func NewLogger(level slog.Level, json bool, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
