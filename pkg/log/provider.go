package log

import (
	"context"
	"log/slog"
)

// SlogLogger implements Logger on top of a *slog.Logger.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps l. A nil l uses slog.Default() at call time.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: l}
}

func (s *SlogLogger) base() *slog.Logger {
	if s.logger == nil {
		return slog.Default()
	}
	return s.logger
}

// Debug implements Logger.Debug.
func (s *SlogLogger) Debug(msg string, fields ...any) { s.base().Debug(msg, fields...) }

// Info implements Logger.Info.
func (s *SlogLogger) Info(msg string, fields ...any) { s.base().Info(msg, fields...) }

// Warn implements Logger.Warn.
func (s *SlogLogger) Warn(msg string, fields ...any) { s.base().Warn(msg, fields...) }

// Error implements Logger.Error.
func (s *SlogLogger) Error(msg string, fields ...any) { s.base().Error(msg, fields...) }

// With implements Logger.With.
func (s *SlogLogger) With(fields ...any) Logger {
	return &SlogLogger{logger: s.base().With(fields...)}
}

// Enabled implements Logger.Enabled.
func (s *SlogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.base().Enabled(ctx, slog.Level(level))
}

// defaultProvider hands out loggers bound to slog.Default(), so whatever
// SetupLogger installed is picked up by loggers created earlier.
type defaultProvider struct{}

var provider = &defaultProvider{}

func (p *defaultProvider) GetLogger() Logger {
	return NewSlogLogger(nil)
}

func (p *defaultProvider) GetLoggerWithName(name string) Logger {
	return NewSlogLogger(nil).With(ComponentKey, name)
}

// SetLevel adjusts the level of the handler installed by SetupLogger.
func (p *defaultProvider) SetLevel(level Level) {
	levelVar.Set(slog.Level(level))
}

// GetLogger returns the process-wide default logger.
func GetLogger() Logger {
	return provider.GetLogger()
}

// GetLoggerWithName returns the default logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return provider.GetLoggerWithName(name)
}

// DefaultProvider returns the provider behind GetLogger.
func DefaultProvider() LoggerProvider {
	return provider
}
