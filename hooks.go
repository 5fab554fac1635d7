package template

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

type hookEntry[O any] struct {
	fn    func(*O)
	order int
}

// Hooks holds the on-create callbacks registered against a construction.
//
// Embed Hooks[O] in a definition struct whose Define returns O; a pointer to
// that struct then satisfies Construction[O]. The zero value is ready to use.
// Hooks is not safe for concurrent use: a construction is assembled and
// created on a single goroutine.
//
// Copying a construction by value gives an independent queue and tag set:
// callbacks or tags added to one copy are not seen by the other.
type Hooks[O any] struct {
	pending  []hookEntry[O]
	tags     map[any]any
	consumed bool
	// owner is the construction that consumed the queue, kept for error labels.
	owner any
}

// OnCreate registers fn to run once the output exists. Callbacks run in
// registration order, each with a pointer to the same output.
// Registering on a construction that was already created panics with a
// *ConsumedError.
func (h *Hooks[O]) OnCreate(fn func(*O)) {
	if h.consumed {
		panic(h.consumedError(OpRegister))
	}
	if fn == nil {
		return
	}

	// Clipped so the append never writes into an array a copy still holds.
	h.pending = append(slices.Clip(h.pending), hookEntry[O]{
		fn:    fn,
		order: len(h.pending),
	})
}

// Pending returns the number of callbacks waiting for creation.
func (h *Hooks[O]) Pending() int {
	return len(h.pending)
}

// Consumed reports whether the construction was already created or built.
func (h *Hooks[O]) Consumed() bool {
	return h.consumed
}

// GetTag retrieves a tag value from the construction
func (h *Hooks[O]) GetTag(tag any) (any, bool) {
	val, ok := h.tags[tag]
	return val, ok
}

// SetTag stores a tag value on the construction
func (h *Hooks[O]) SetTag(tag any, val any) {
	tags := make(map[any]any, len(h.tags)+1)
	maps.Copy(tags, h.tags)
	tags[tag] = val
	h.tags = tags
}

func (h *Hooks[O]) hooks() *Hooks[O] {
	return h
}

// drain hands the queue over to the caller and marks the construction as
// consumed. The queue is empty afterwards.
func (h *Hooks[O]) drain(owner any) []hookEntry[O] {
	entries := h.pending
	h.pending = nil
	h.consumed = true
	h.owner = owner
	return entries
}

func (h *Hooks[O]) consumedError(op OperationKind) *ConsumedError {
	return &ConsumedError{Component: label(h, h.owner), Op: op}
}

// label names a construction: its ComponentName tag, else its Go type.
func label(tags Tagged, owner any) string {
	if name, ok := nameTag.Get(tags); ok {
		return name
	}
	if owner == nil {
		return ""
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", owner), "*")
}
