package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// SetupLogger installs a JSON slog logger on stdout as the process default.
// It panics on an unknown level; use SetupLoggerTo with ParseLevel for
// user-supplied input.
func SetupLogger(loglevel string) {
	SetupLoggerTo(os.Stdout, ToLogLevel(loglevel))
}

// levelVar backs the handler installed by SetupLoggerTo so the level can be
// changed later through DefaultProvider().SetLevel.
var levelVar = new(slog.LevelVar)

// SetupLoggerTo installs a JSON slog logger writing to w as the process default.
func SetupLoggerTo(w io.Writer, level slog.Level) {
	levelVar.Set(level)
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     levelVar,
		// Replace attributes to convert to CloudLogging format.
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{
					Key:   "severity",
					Value: attr.Value,
				}
			case slog.MessageKey:
				attr = slog.Attr{
					Key:   "message",
					Value: attr.Value,
				}
			case slog.SourceKey:
				attr = slog.Attr{
					Key:   "logging.googleapis.com/sourceLocation",
					Value: attr.Value,
				}
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(w, &ops)
	errFmtHandler := WrapByErrFmtHandler(handler)
	slog.SetDefault(slog.New(errFmtHandler))
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

func ToLogLevel(level string) slog.Level {
	l, err := ParseLevel(level)
	if err != nil {
		panic(err.Error())
	}
	return l
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
