package extensions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	template "github.com/pumped-fn/pumped-template"
	"github.com/pumped-fn/pumped-template/internal/ctxlog"
)

// LoggingExtension logs every construction operation.
//
// Usage:
//
//	// Human-readable output
//	ext := extensions.NewLoggingExtension(extensions.NewHumanHandler(os.Stdout, slog.LevelInfo))
//
//	// Structured JSON logging
//	ext := extensions.NewLoggingExtension(slog.NewJSONHandler(os.Stdout, nil))
//
// Create and build completions are logged at INFO, the steps inside them at
// DEBUG and panics at ERROR. A logger stored in the factory's base context
// through ctxlog takes precedence over the handler. With a nil handler the
// extension logs only through that context logger, or slog.Default.
type LoggingExtension struct {
	template.BaseExtension
	logger *slog.Logger
}

// NewLoggingExtension creates a new logging extension
func NewLoggingExtension(logHandler slog.Handler) *LoggingExtension {
	ext := &LoggingExtension{
		BaseExtension: template.NewBaseExtension("logging"),
	}
	if logHandler != nil {
		ext.logger = slog.New(logHandler)
	}
	return ext
}

func (e *LoggingExtension) Wrap(ctx context.Context, next func() any, op *template.Operation) any {
	logger := e.loggerFor(ctx).With(operationAttrs(op)...)
	level := levelFor(op.Kind)

	start := time.Now()
	logger.Debug(fmt.Sprintf("%s starting", op.Kind))
	result := next()

	logger.Log(ctx, level, fmt.Sprintf("%s completed", op.Kind), "duration", time.Since(start))

	return result
}

// OnPanic logs the panic with its stack trace
func (e *LoggingExtension) OnPanic(op *template.Operation, recovered any, stack []byte) {
	attrs := append(operationAttrs(op),
		"panic", fmt.Sprintf("%v", recovered),
		"stack_trace", string(stack),
	)

	e.loggerFor(op.Factory.Context()).Error("Construction Panic", attrs...)
}

func (e *LoggingExtension) loggerFor(ctx context.Context) *slog.Logger {
	if e.logger == nil {
		return ctxlog.FromContext(ctx)
	}
	if logger, ok := ctxlog.Lookup(ctx); ok {
		return logger
	}
	return e.logger
}

func levelFor(kind template.OperationKind) slog.Level {
	switch kind {
	case template.OpCreate, template.OpBuild:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func operationAttrs(op *template.Operation) []any {
	attrs := []any{
		"component", op.Name,
		"operation", string(op.Kind),
		"run_id", op.RunID,
	}
	if op.Kind == template.OpCallback {
		attrs = append(attrs, "index", op.Index)
	}
	return attrs
}
