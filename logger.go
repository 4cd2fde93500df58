package typeface

import (
	"log/slog"
	"sync/atomic"
)

// silent discards every record; its Enabled method reports false, so
// disabled call sites do not build their attributes.
var silent = slog.New(slog.DiscardHandler)

// logger holds the active logger. It is the only package-level state
// and never influences query results.
var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(silent)
}

// SetLogger configures the logger used by typeface.
// By default, typeface produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore the default
// silent behavior.
//
// All records are logged at [slog.LevelDebug]: rejected font data,
// collection index misses, unavailable outlines and skipped name records.
// Query results never depend on the logger.
//
// Example:
//
//	typeface.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	logger.Store(l)
}

// Logger returns the current logger used by typeface.
func Logger() *slog.Logger {
	return logger.Load()
}
