package blobcache

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with blobcache-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithDir adds the cache directory to the logger.
func (l *Logger) WithDir(dir string) *Logger {
	return &Logger{
		Logger: l.Logger.With("dir", dir),
	}
}

// LogSet logs a set operation.
func (l *Logger) LogSet(id uint32, valueSize int, err error) {
	if err != nil {
		l.Debug("set rejected",
			"id", id,
			"value_size", valueSize,
			"error", err,
		)
		return
	}
	l.Debug("set completed",
		"id", id,
		"value_size", valueSize,
	)
}

// LogGet logs a get operation.
func (l *Logger) LogGet(id uint32, result GetResult, err error) {
	if err != nil {
		l.Warn("get failed",
			"id", id,
			"result", result,
			"error", err,
		)
		return
	}
	l.Debug("get completed",
		"id", id,
		"result", result,
	)
}

// LogTrim logs an eviction pass over the entry store.
func (l *Logger) LogTrim(removed int, freed, totalSize int64, err error) {
	if err != nil {
		l.Error("trim failed",
			"removed", removed,
			"freed_bytes", freed,
			"total_size", totalSize,
			"error", err,
		)
		return
	}
	l.Debug("trim completed",
		"removed", removed,
		"freed_bytes", freed,
		"total_size", totalSize,
	)
}

// LogScan logs the startup scan of the cache directory.
func (l *Logger) LogScan(loaded, removed, preloaded int, totalSize int64, err error) {
	if err != nil {
		l.Error("scan failed",
			"loaded", loaded,
			"removed", removed,
			"error", err,
		)
		return
	}
	l.Info("scan completed",
		"loaded", loaded,
		"removed", removed,
		"preloaded", preloaded,
		"total_size", totalSize,
	)
}
