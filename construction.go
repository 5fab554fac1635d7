package template

// Construction is a Definition that accepts on-create callbacks.
//
// It is satisfied by a pointer to any struct that embeds Hooks[O] and
// implements Define() O:
//
//	type Counter struct {
//	    template.Hooks[int]
//	    Start int
//	}
//
//	func (c Counter) Define() int { return c.Start }
type Construction[O any] interface {
	Definition[O]
	OnCreate(fn func(*O))
	hooks() *Hooks[O]
}

// Create defines the output of c and runs every registered callback on it,
// in registration order, before returning it.
//
// c is consumed: any later OnCreate, Create or Build on it panics with a
// *ConsumedError.
func Create[O any](c Construction[O]) O {
	return CreateWith(nil, c)
}

// Build is Create followed by finish. finish receives the output after all
// callbacks have run and its result is returned in place of the output.
func Build[O, R any](c Construction[O], finish func(O) R) R {
	return BuildWith(nil, c, finish)
}

// CreateWith is Create with the operations observed by the extensions of f.
// A nil factory has no extensions.
func CreateWith[O any](f *Factory, c Construction[O]) O {
	entries := take(c, OpCreate)
	r := f.newRun(c, c.hooks())
	return createRun(r, c, entries)
}

// BuildWith is Build with the operations observed by the extensions of f.
func BuildWith[O, R any](f *Factory, c Construction[O], finish func(O) R) R {
	entries := take(c, OpBuild)
	r := f.newRun(c, c.hooks())
	return castOutput[R](r.wrap(OpBuild, -1, func() any {
		out := createRun(r, c, entries)
		return r.wrap(OpFinish, -1, func() any {
			return finish(out)
		})
	}))
}

func take[O any](c Construction[O], op OperationKind) []hookEntry[O] {
	h := c.hooks()
	if h.consumed {
		panic(&ConsumedError{Component: componentName(c), Op: op})
	}
	return h.drain(c)
}

func createRun[O any](r *run, c Construction[O], entries []hookEntry[O]) O {
	return castOutput[O](r.wrap(OpCreate, -1, func() any {
		out := castOutput[O](r.wrap(OpDefine, -1, func() any {
			return c.Define()
		}))

		for _, entry := range entries {
			fn := entry.fn
			r.wrap(OpCallback, entry.order, func() any {
				fn(&out)
				return nil
			})
		}

		return out
	}))
}

// castOutput unboxes a value returned through the extension chain. A nil
// value becomes the zero O, which keeps interface-typed outputs intact.
func castOutput[O any](v any) O {
	if v == nil {
		var zero O
		return zero
	}
	return v.(O)
}

func componentName[O any](c Construction[O]) string {
	return label(c.hooks(), c)
}
