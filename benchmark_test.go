package template

import (
	"context"
	"testing"
)

type noopExtension struct {
	BaseExtension
}

func (e *noopExtension) Wrap(ctx context.Context, next func() any, op *Operation) any {
	return next()
}

func newCallbackChain(field, callbacks int) *tripler {
	c := &tripler{Field: field}
	for i := 0; i < callbacks; i++ {
		c.OnCreate(func(out *int) {
			*out++
		})
	}
	return c
}

func BenchmarkCreate_NoCallbacks(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Create(&tripler{Field: i})
	}
}

func BenchmarkCreate_TenCallbacks(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		c := newCallbackChain(i, 10)
		b.StartTimer()

		Create(c)
	}
}

func BenchmarkBuild(b *testing.B) {
	b.ReportAllocs()
	finish := func(v int) int { return v + 1 }
	for i := 0; i < b.N; i++ {
		Build(&tripler{Field: i}, finish)
	}
}

func BenchmarkCreateWith_Extensions(b *testing.B) {
	f := NewFactory(
		WithExtension(&noopExtension{BaseExtension: NewBaseExtension("a")}),
		WithExtension(&noopExtension{BaseExtension: NewBaseExtension("b")}),
	)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		c := newCallbackChain(i, 10)
		b.StartTimer()

		CreateWith(f, c)
	}
}

func TestCreate_ManyCallbacks(t *testing.T) {
	c := newCallbackChain(0, 1000)

	if val := Create(c); val != 1000 {
		t.Errorf("expected 1000, got %d", val)
	}
}
