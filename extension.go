package template

import "context"

// Extension observes constructions run through a Factory
type Extension interface {
	// Name returns the extension's name
	Name() string

	// Order determines extension execution order (lower = earlier)
	Order() int

	// Init is called when the extension is registered to a factory
	Init(f *Factory) error

	// Wrap intercepts an operation. It must call next exactly once and
	// return its result.
	Wrap(ctx context.Context, next func() any, op *Operation) any

	// OnPanic is called once when define, a callback or finish panics.
	// The panic continues after every extension has been notified.
	OnPanic(op *Operation, recovered any, stack []byte)

	// Dispose is called when the factory is disposed
	Dispose(f *Factory) error
}

// BaseExtension provides default implementations for Extension methods
type BaseExtension struct {
	name string
}

// NewBaseExtension creates a new base extension with the given name
func NewBaseExtension(name string) BaseExtension {
	return BaseExtension{name: name}
}

func (e *BaseExtension) Name() string {
	return e.name
}

func (e *BaseExtension) Order() int {
	return 100
}

func (e *BaseExtension) Init(f *Factory) error {
	return nil
}

func (e *BaseExtension) Wrap(ctx context.Context, next func() any, op *Operation) any {
	return next()
}

func (e *BaseExtension) OnPanic(op *Operation, recovered any, stack []byte) {
}

func (e *BaseExtension) Dispose(f *Factory) error {
	return nil
}

// Operation describes what operation is happening
type Operation struct {
	Kind OperationKind
	// RunID identifies one Create or Build call.
	RunID string
	// Component is the construction being consumed.
	Component any
	// Name is the component's label, see ComponentName.
	Name string
	// Index is the callback's registration position for OpCallback, -1 otherwise.
	Index   int
	Factory *Factory
}

// OperationKind represents the type of operation
type OperationKind string

const (
	// OpCreate covers define plus every callback
	OpCreate OperationKind = "create"
	// OpBuild covers create plus finish
	OpBuild OperationKind = "build"
	// OpDefine is the call to Define
	OpDefine OperationKind = "define"
	// OpCallback is one on-create callback
	OpCallback OperationKind = "callback"
	// OpFinish is the finishing function passed to Build
	OpFinish OperationKind = "finish"
	// OpRegister is callback registration. Only reported through ConsumedError.
	OpRegister OperationKind = "on_create"
)
