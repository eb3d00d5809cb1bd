// Package log provides the structured logging interface used across ivsim.
//
// The interface mirrors log/slog so the default implementation is a thin
// wrapper over slog, and tests can swap in the buffer-backed TestLogger.
//
//	logger := log.GetLoggerWithName("simulation").With(
//	    log.RandomSeedKey, 42,
//	)
//	logger.Info("Simulation started",
//	    log.ReplicationsKey, 1000,
//	    log.SamplesKey, 1000,
//	)

package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with log/slog.
// Fields are alternating key-value pairs.
type Logger interface {
	// Debug logs a debug-level message. Per-replication detail goes here.
	Debug(msg string, fields ...any)

	// Info logs an info-level message.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. Pass the error under ErrAttrKey
	// (or via ErrAttr) so handlers can attach its stack trace.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates loggers; the simulation takes one so tests can
// capture output.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for loggers created by this provider.
	SetLevel(level Level)
}
