package extensions

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	template "github.com/pumped-fn/pumped-template"
	"github.com/pumped-fn/pumped-template/internal/ctxlog"
)

type counter struct {
	template.Hooks[int]
	Start int
}

func (c counter) Define() int {
	return c.Start
}

func TestLoggingExtension_Create(t *testing.T) {
	var buf bytes.Buffer
	ext := NewLoggingExtension(NewHumanHandler(&buf, slog.LevelDebug))
	f := template.NewFactory(template.WithExtension(ext))

	c := &counter{Start: 1}
	template.ComponentName().Set(c, "counter")
	c.OnCreate(func(out *int) { *out++ })

	val := template.CreateWith(f, c)
	assert.Equal(t, 2, val)

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] create starting component=counter operation=create")
	assert.Contains(t, out, "[DEBUG] define completed")
	assert.Contains(t, out, "operation=callback")
	assert.Contains(t, out, "index=0")
	assert.Contains(t, out, "[INFO] create completed component=counter")
}

func TestLoggingExtension_InfoLevelOnlyTerminal(t *testing.T) {
	var buf bytes.Buffer
	ext := NewLoggingExtension(NewHumanHandler(&buf, slog.LevelInfo))
	f := template.NewFactory(template.WithExtension(ext))

	template.BuildWith(f, &counter{Start: 3}, func(v int) int { return v })

	out := buf.String()
	assert.Contains(t, out, "[INFO] build completed")
	assert.Contains(t, out, "[INFO] create completed")
	assert.NotContains(t, out, "define")
	assert.NotContains(t, out, "finish")
}

func TestLoggingExtension_ContextLogger(t *testing.T) {
	var handlerBuf, ctxBuf bytes.Buffer
	ctxLogger := slog.New(NewHumanHandler(&ctxBuf, slog.LevelInfo))

	ext := NewLoggingExtension(NewHumanHandler(&handlerBuf, slog.LevelInfo))
	f := template.NewFactory(
		template.WithBaseContext(ctxlog.WithLogger(context.Background(), ctxLogger)),
		template.WithExtension(ext),
	)

	template.CreateWith(f, &counter{})

	assert.Empty(t, handlerBuf.String())
	assert.Contains(t, ctxBuf.String(), "create completed")
}

func TestLoggingExtension_NilHandlerUsesContextLogger(t *testing.T) {
	var ctxBuf bytes.Buffer
	ctxLogger := slog.New(NewHumanHandler(&ctxBuf, slog.LevelInfo))

	f := template.NewFactory(
		template.WithBaseContext(ctxlog.WithLogger(context.Background(), ctxLogger)),
		template.WithExtension(NewLoggingExtension(nil)),
	)

	c := template.Provide(func() int { return 4 }, template.WithName("four"))
	assert.Equal(t, 4, template.CreateWith(f, c))
	assert.Contains(t, ctxBuf.String(), "[INFO] create completed component=four")
}

func TestLoggingExtension_Panic(t *testing.T) {
	var buf bytes.Buffer
	ext := NewLoggingExtension(NewHumanHandler(&buf, slog.LevelError))
	f := template.NewFactory(template.WithExtension(ext))

	c := template.Provide(func() int { return 0 }, template.WithName("exploding"))
	c.OnCreate(func(out *int) {
		panic("boom")
	})

	require.PanicsWithValue(t, "boom", func() {
		template.CreateWith(f, c)
	})

	out := buf.String()
	assert.Contains(t, out, "[Construction] Panic")
	assert.Contains(t, out, "Panic: boom")
	assert.Contains(t, out, "component: exploding")
	assert.Contains(t, out, "operation: callback")
	assert.Contains(t, out, "Stack Trace:")
}

func TestSilentHandler(t *testing.T) {
	handler := NewSilentHandler()

	assert.False(t, handler.Enabled(context.Background(), slog.LevelError))
	assert.NoError(t, handler.Handle(context.Background(), slog.Record{}))
	assert.False(t, handler.WithAttrs([]slog.Attr{slog.Int("a", 1)}).Enabled(context.Background(), slog.LevelError))
	assert.False(t, handler.WithGroup("group").Enabled(context.Background(), slog.LevelError))

	ext := NewLoggingExtension(handler)
	f := template.NewFactory(template.WithExtension(ext))
	assert.Equal(t, 5, template.CreateWith(f, &counter{Start: 5}))
}

func TestHumanHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHumanHandler(&buf, slog.LevelInfo)).With("service", "api")

	logger.Info("ready", "port", 8080)

	assert.Equal(t, "[INFO] ready service=api port=8080\n", buf.String())
}
