package extensions

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// NewSilentHandler returns a handler that drops every record, for tests and
// for factories whose logging is switched off.
func NewSilentHandler() slog.Handler {
	return slog.DiscardHandler
}

// HumanHandler is a slog.Handler that formats logs for human readability.
// Panics reported by LoggingExtension get a framed block with the stack trace.
type HumanHandler struct {
	mu     *sync.Mutex
	writer io.Writer
	level  slog.Level
	attrs  []slog.Attr
}

// NewHumanHandler creates a new human-readable log handler
func NewHumanHandler(writer io.Writer, level slog.Level) *HumanHandler {
	return &HumanHandler{
		mu:     &sync.Mutex{},
		writer: writer,
		level:  level,
	}
}

func (h *HumanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *HumanHandler) Handle(ctx context.Context, record slog.Record) error {
	attrs := make([]slog.Attr, 0, len(h.attrs)+record.NumAttrs())
	attrs = append(attrs, h.attrs...)
	record.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	var sb strings.Builder
	if record.Message == "Construction Panic" {
		writePanic(&sb, attrs)
	} else {
		fmt.Fprintf(&sb, "[%s] %s", record.Level, record.Message)
		for _, a := range attrs {
			fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
		}
		sb.WriteString("\n")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, sb.String())
	return err
}

func writePanic(sb *strings.Builder, attrs []slog.Attr) {
	var panicMsg, stackTrace string
	var fields []slog.Attr
	for _, a := range attrs {
		switch a.Key {
		case "panic":
			panicMsg = a.Value.String()
		case "stack_trace":
			stackTrace = a.Value.String()
		default:
			fields = append(fields, a)
		}
	}

	rule := strings.Repeat("=", 70)
	sb.WriteString("\n" + rule + "\n")
	sb.WriteString("[Construction] Panic\n")
	sb.WriteString(rule + "\n")
	fmt.Fprintf(sb, "\nPanic: %s\n", panicMsg)
	for _, a := range fields {
		fmt.Fprintf(sb, "%s: %v\n", a.Key, a.Value)
	}
	fmt.Fprintf(sb, "\nStack Trace:\n%s\n", stackTrace)
	sb.WriteString(rule + "\n\n")
}

func (h *HumanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &HumanHandler{
		mu:     h.mu,
		writer: h.writer,
		level:  h.level,
		attrs:  merged,
	}
}

func (h *HumanHandler) WithGroup(name string) slog.Handler {
	// Groups are flattened.
	return h
}
