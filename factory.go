package template

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Factory carries the extensions and tags shared by the constructions run
// through CreateWith and BuildWith. A Factory may be shared between
// goroutines; each construction it runs is still synchronous.
type Factory struct {
	mu         sync.RWMutex
	tags       map[any]any
	extensions []Extension
	ctx        context.Context
}

// FactoryOption is a modifier for factories
type FactoryOption func(*Factory)

// WithFactoryTag returns an option that sets a tag on a factory
func WithFactoryTag[T any](tag Tag[T], val T) FactoryOption {
	return func(f *Factory) {
		tag.Set(f, val)
	}
}

// WithExtension returns an option that registers an extension to a factory
func WithExtension(ext Extension) FactoryOption {
	return func(f *Factory) {
		if err := f.UseExtension(ext); err != nil {
			panic(err)
		}
	}
}

// WithBaseContext sets the context handed to Extension.Wrap
func WithBaseContext(ctx context.Context) FactoryOption {
	return func(f *Factory) {
		f.ctx = ctx
	}
}

// NewFactory creates a new factory with optional configuration
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		tags:       make(map[any]any),
		extensions: []Extension{},
		ctx:        context.Background(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// UseExtension registers an extension to the factory
func (f *Factory) UseExtension(ext Extension) error {
	f.mu.Lock()
	f.extensions = append(f.extensions, ext)
	sort.SliceStable(f.extensions, func(i, j int) bool {
		return f.extensions[i].Order() < f.extensions[j].Order()
	})
	f.mu.Unlock()

	if err := ext.Init(f); err != nil {
		return fmt.Errorf("initializing extension %s: %w", ext.Name(), err)
	}
	return nil
}

// Context returns the context handed to Extension.Wrap
func (f *Factory) Context() context.Context {
	if f == nil || f.ctx == nil {
		return context.Background()
	}
	return f.ctx
}

// Extensions returns the registered extensions in execution order
func (f *Factory) Extensions() []Extension {
	f.mu.RLock()
	defer f.mu.RUnlock()

	exts := make([]Extension, len(f.extensions))
	copy(exts, f.extensions)
	return exts
}

// Dispose disposes every registered extension
func (f *Factory) Dispose() error {
	for _, ext := range f.Extensions() {
		if err := ext.Dispose(f); err != nil {
			return fmt.Errorf("disposing extension %s: %w", ext.Name(), err)
		}
	}

	return nil
}

// GetTag retrieves a tag value from the factory
func (f *Factory) GetTag(tag any) (any, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	val, ok := f.tags[tag]
	return val, ok
}

// SetTag stores a tag value on the factory
func (f *Factory) SetTag(tag any, val any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tags == nil {
		f.tags = make(map[any]any)
	}
	f.tags[tag] = val
}

// run is the state of one Create or Build call.
type run struct {
	factory   *Factory
	id        string
	component any
	name      string
	ctx       context.Context
	exts      []Extension
	panicked  bool
}

// newRun prepares a run. The run ID and component label are only computed
// when an extension will see them.
func (f *Factory) newRun(component any, tags Tagged) *run {
	r := &run{
		factory:   f,
		component: component,
	}
	if f == nil {
		return r
	}

	r.exts = f.Extensions()
	if len(r.exts) > 0 {
		r.id = uuid.NewString()
		r.name = label(tags, component)
		r.ctx = f.Context()
	}
	return r
}

// wrap runs fn inside the extension chain. The last registered extension
// wraps first, so the first one is outermost.
func (r *run) wrap(kind OperationKind, index int, fn func() any) any {
	if len(r.exts) == 0 {
		return fn()
	}

	op := &Operation{
		Kind:      kind,
		RunID:     r.id,
		Component: r.component,
		Name:      r.name,
		Index:     index,
		Factory:   r.factory,
	}

	defer func() {
		if rec := recover(); rec != nil {
			if !r.panicked {
				r.panicked = true
				stack := debug.Stack()
				for _, ext := range r.exts {
					ext.OnPanic(op, rec, stack)
				}
			}
			panic(rec)
		}
	}()

	next := fn
	for i := len(r.exts) - 1; i >= 0; i-- {
		ext := r.exts[i]
		currentNext := next
		next = func() any {
			return ext.Wrap(r.ctx, currentNext, op)
		}
	}

	return next()
}
