package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	simerrors "github.com/YuminosukeSato/ivsim/pkg/errors"
)

// Attribute keys added by ErrFmtHandler next to an error attribute.
const (
	ErrorTypeKey        = "error.type"
	ErrorParamKey       = "error.param"
	MinEigenvalueKey    = "error.min_eigenvalue"
	ErrorReplicationKey = "error.replication"
)

// ErrFmtHandler is a slog handler that expands the `error` attribute of a
// record: it adds the cockroachdb/errors stack trace and, for the typed
// simulation errors, the fields a reader needs to locate the failure.
type ErrFmtHandler struct {
	handler slog.Handler
}

// WrapByErrFmtHandler wraps handler with ErrFmtHandler.
func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{handler: handler}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		err, _ = attr.Value.Any().(error)
		return false
	})
	if err == nil {
		return eh.handler.Handle(ctx, r)
	}

	if stacktrace := extractStacktrace(err); stacktrace != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, stacktrace))
	}
	r.AddAttrs(errorDetails(err)...)
	return eh.handler.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

// errorDetails returns the attributes describing the first typed error on
// err's chain.
func errorDetails(err error) []slog.Attr {
	var (
		covErr   *simerrors.CovarianceError
		valErr   *simerrors.ValidationError
		numErr   *simerrors.NumericalInstabilityError
		panicErr *simerrors.PanicError
	)
	switch {
	case errors.As(err, &covErr):
		return []slog.Attr{
			slog.String(ErrorTypeKey, "CovarianceError"),
			slog.Float64(MinEigenvalueKey, covErr.MinEigenvalue),
		}
	case errors.As(err, &valErr):
		return []slog.Attr{
			slog.String(ErrorTypeKey, "ValidationError"),
			slog.String(ErrorParamKey, valErr.ParamName),
		}
	case errors.As(err, &numErr):
		return []slog.Attr{
			slog.String(ErrorTypeKey, "NumericalInstabilityError"),
			slog.Int(ErrorReplicationKey, numErr.Replication),
		}
	case errors.As(err, &panicErr):
		return []slog.Attr{slog.String(ErrorTypeKey, "PanicError")}
	}
	return nil
}

// extractStacktrace returns the first safe detail found along the cause
// chain. For errors built with errors.WithStack that is the stack trace.
func extractStacktrace(err error) string {
	for _, payload := range errors.GetAllSafeDetails(err) {
		if len(payload.SafeDetails) > 0 && payload.SafeDetails[0] != "" {
			return payload.SafeDetails[0]
		}
	}
	return ""
}
