// Package testutil provides shared helpers for tests.
package testutil

import (
	"io"
	"log/slog"
	"testing"
)

// NewTestLogger returns a logger that writes through t.Log, so output
// only surfaces on failure or with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// NewSilentLogger returns a logger that discards everything, for tests
// that exercise noisy failure paths.
func NewSilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
