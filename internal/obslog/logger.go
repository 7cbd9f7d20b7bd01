// Package obslog constructs the slog.Logger shared across shiftsolve's
// commands, wiring handler choice and level to the running environment.
package obslog

import (
	"log/slog"
	"os"
)

// New builds a logger whose handler depends on env: a human-readable
// text handler for "development" and "test", JSON for anything else
// (production included), matching the split the rest of shiftsolve
// draws between those environments for timeouts and poll intervals.
func New(env, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch env {
	case "development", "test":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler).With("component", "shiftsolve")
}

// Discard returns a logger that drops everything written to it, for
// tests and defaults that should not emit output by themselves.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
