// Package logging provides structured logging using Go's slog package.
package logging

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// BookKey is the context key for the book code being processed.
	BookKey ContextKey = "book"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger *slog.Logger
)

func init() {
	// Initialize with a default logger (JSON format, Info level)
	InitLogger(LevelInfo, FormatJSON)
}

// Level represents a log level.
type Level int

const (
	// LevelDebug is for debug messages.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// Format represents a log output format.
type Format int

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = iota
	// FormatText outputs logs in human-readable text format.
	FormatText
)

// InitLogger initializes the global logger with the specified level and format.
func InitLogger(level Level, format Format) {
	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelInfo:
		slogLevel = slog.LevelInfo
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Customize timestamp format
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// GetLogger returns the global logger instance.
func GetLogger() *slog.Logger {
	return defaultLogger
}

// WithBook adds a book code to the context.
func WithBook(ctx context.Context, bookCode string) context.Context {
	return context.WithValue(ctx, BookKey, bookCode)
}

// GetBook retrieves the book code from the context.
func GetBook(ctx context.Context) string {
	if bookCode, ok := ctx.Value(BookKey).(string); ok {
		return bookCode
	}
	return ""
}

// LoggerFromContext returns a logger with context values attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := defaultLogger
	if bookCode := GetBook(ctx); bookCode != "" {
		logger = logger.With("book", bookCode)
	}
	return logger
}

// Helper functions for common logging patterns

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// DebugContext logs a debug message with context.
func DebugContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Debug(msg, args...)
}

// InfoContext logs an info message with context.
func InfoContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Info(msg, args...)
}

// WarnContext logs a warning message with context.
func WarnContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Warn(msg, args...)
}

// ErrorContext logs an error message with context.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Error(msg, args...)
}

// BookEvent logs per-book pipeline milestones (lines loaded, processed,
// indexed).
func BookEvent(bookCode, stage string, count int, args ...any) {
	allArgs := []any{
		"book", bookCode,
		"stage", stage,
		"count", count,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("book_event", allArgs...)
}

// ContentNotice logs a recoverable content problem found while processing a
// line. Higher priority means more severe.
func ContentNotice(bookCode string, priority int, chapter, verse, msg string, args ...any) {
	allArgs := []any{
		"book", bookCode,
		"priority", priority,
		"chapter", chapter,
		"verse", verse,
	}
	allArgs = append(allArgs, args...)
	if priority >= 80 {
		defaultLogger.Warn(msg, allArgs...)
	} else {
		defaultLogger.Info(msg, allArgs...)
	}
}

// ProcessingError logs structural anomaly events raised by processing or
// index building.
func ProcessingError(bookCode, operation string, err error, args ...any) {
	allArgs := []any{
		"book", bookCode,
		"operation", operation,
		"error", err.Error(),
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Error("processing_error", allArgs...)
}

// InvariantViolation logs internal consistency check failures. These are
// always Error level and flagged critical.
func InvariantViolation(bookCode, check, msg string, args ...any) {
	allArgs := []any{
		"book", bookCode,
		"check", check,
		"critical", true,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Error(msg, allArgs...)
}
