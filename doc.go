// Package template provides definitions that build an output value, with
// one-shot callbacks that run on that output the moment it is created.
//
// # Overview
//
// Two contracts cooperate:
//
//  1. Definition: a value that knows how to turn itself into an output
//  2. Construction: a definition that also queues on-create callbacks and is
//     consumed by Create or Build
//
// # Basic Usage
//
// Declare a definition struct, embed Hooks for the output type and implement
// Define:
//
//	type Tripler struct {
//	    template.Hooks[int]
//	    Field int
//	}
//
//	func (t Tripler) Define() int {
//	    return t.Field * 3
//	}
//
// Start from a default definition, customize it, register callbacks and
// create it:
//
//	t := template.New[Tripler]()
//	t.Field = 6
//	t.OnCreate(func(out *int) {
//	    *out *= 2
//	})
//	v := template.Create(t) // 36
//
// Callbacks receive a pointer to the output produced by Define, run in
// registration order, and see the changes made by earlier callbacks.
//
// # Build
//
// Build folds the created output through a finishing function, so a
// construction can be used inline:
//
//	label := template.Build(t, func(v int) string {
//	    return strconv.Itoa(v)
//	})
//
// Build(c, finish) is always finish(Create(c)); finish runs after every
// callback.
//
// # Defaults
//
// New returns a zero-valued definition. Types that need other defaults
// implement Defaulter:
//
//	func (s *Server) SetDefaults() {
//	    s.Port = 8080
//	}
//
// # Failure
//
// Define has no error return. A definition whose mapping can fail returns a
// Result:
//
//	func (l Loader) Define() template.Result[[]byte] {
//	    data, err := os.ReadFile(l.Path)
//	    if err != nil {
//	        return template.Fail[[]byte](err)
//	    }
//	    return template.Ok(data)
//	}
//
// # Consumption
//
// Create and Build consume a construction. Its queue is emptied and any
// further OnCreate, Create or Build panics with a *ConsumedError, which
// matches ErrConsumed through errors.Is.
//
// # Factories and Extensions
//
// CreateWith and BuildWith run a construction through a Factory whose
// extensions observe each step:
//
//	f := template.NewFactory(
//	    template.WithExtension(extensions.NewLoggingExtension(handler)),
//	)
//	v := template.CreateWith(f, t)
//
// Extensions see OpBuild, OpCreate, OpDefine, OpCallback and OpFinish
// operations, nested in that order. They never change the values produced
// or the order in which callbacks run. A panic in define, a callback or
// finish is reported to OnPanic and then continues unchanged.
//
// # Thread Safety
//
// A construction is not safe for concurrent use; register callbacks and
// create it on one goroutine. A Factory may be shared.
package template
