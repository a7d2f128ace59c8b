package gpuhub

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the package logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the default logger for gpuhub and its backends.
// By default gpuhub produces no log output. Hubs created with WithLogger
// use their own logger instead.
//
// Pass nil to restore the silent default.
//
// Log levels used by gpuhub:
//   - [slog.LevelDebug]: registry and selection diagnostics (bucket contents, handles)
//   - [slog.LevelInfo]: lifecycle events (instance created, adapter selected, device opened)
//   - [slog.LevelWarn]: Close released surfaces, devices or adapters that were never dropped
//
// Example:
//
//	gpuhub.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current package logger. Backend packages call this to
// share the same configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
