package template

// Definition describes how a value is turned into its output.
//
// Define is expected to be total: it always yields an O. Definitions whose
// mapping can fail should use an output type that carries the failure,
// such as Result.
type Definition[O any] interface {
	Define() O
}

// DefineFunc adapts a plain function to the Definition interface.
type DefineFunc[O any] func() O

// Define calls f.
func (f DefineFunc[O]) Define() O {
	return f()
}

// Defaulter is implemented by definitions whose default state is not the
// Go zero value.
type Defaulter interface {
	SetDefaults()
}

// New returns a default definition of type D.
//
// The value starts zeroed and, when *D implements Defaulter, SetDefaults is
// applied before it is returned.
func New[D any]() *D {
	def := new(D)
	if d, ok := any(def).(Defaulter); ok {
		d.SetDefaults()
	}
	return def
}

// Provided is a construction whose definition is a single function. It is
// the quickest way to get a Construction without declaring a struct.
type Provided[O any] struct {
	Hooks[O]
	define DefineFunc[O]
}

// Define runs the wrapped function.
func (p Provided[O]) Define() O {
	return p.define.Define()
}

// ProvideOption is a modifier for provided constructions
type ProvideOption func(Tagged)

// WithTag returns an option that sets a tag on a provided construction
func WithTag[T any](tag Tag[T], val T) ProvideOption {
	return func(t Tagged) {
		tag.Set(t, val)
	}
}

// WithName returns an option that names a provided construction
func WithName(name string) ProvideOption {
	return WithTag(nameTag, name)
}

// Provide creates a construction backed by fn
func Provide[O any](fn func() O, opts ...ProvideOption) *Provided[O] {
	p := &Provided[O]{define: DefineFunc[O](fn)}

	for _, opt := range opts {
		opt(p)
	}

	return p
}
