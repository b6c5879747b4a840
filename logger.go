package lfpreview

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with lfpreview-specific context.
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

// WithHandle adds a handle field to the logger.
func (l *Logger) WithHandle(id HandleID) *Logger {
	return &Logger{
		Logger: l.Logger.With("handle", uint64(id)),
	}
}

// WithPath adds a location field to the logger.
func (l *Logger) WithPath(location string) *Logger {
	return &Logger{
		Logger: l.Logger.With("location", location),
	}
}

// LogOpen logs an open operation.
func (l *Logger) LogOpen(ctx context.Context, location string, id HandleID, size int64, spilled bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"location", location,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "open completed",
			"location", location,
			"handle", uint64(id),
			"size", size,
			"spilled", spilled,
		)
	}
}

// LogClose logs a close operation.
func (l *Logger) LogClose(ctx context.Context, id HandleID, err error) {
	if err != nil {
		l.WarnContext(ctx, "close failed",
			"handle", uint64(id),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "close completed",
			"handle", uint64(id),
		)
	}
}

// LogShutdown logs closing every open handle.
func (l *Logger) LogShutdown(ctx context.Context, open int, err error) {
	if err != nil {
		l.WarnContext(ctx, "shutdown failed",
			"handles", open,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "shutdown completed",
			"handles", open,
		)
	}
}

// LogRead logs a line read.
func (l *Logger) LogRead(ctx context.Context, id HandleID, start, end, returned int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "read lines failed",
			"handle", uint64(id),
			"start", start,
			"end", end,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "read lines completed",
			"handle", uint64(id),
			"start", start,
			"end", end,
			"returned", returned,
		)
	}
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(ctx context.Context, id HandleID, patternLen int, res *SearchResult, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"handle", uint64(id),
			"pattern_len", patternLen,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "search completed",
		"handle", uint64(id),
		"pattern_len", patternLen,
		"count", res.Count,
		"truncated", res.Truncated,
		"scanned_bytes", res.ScannedBytes,
		"duration", res.Duration,
	)
}
