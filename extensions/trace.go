package extensions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m1gwings/treedrawer/tree"

	template "github.com/pumped-fn/pumped-template"
)

// TraceNode is one operation recorded by TraceExtension.
type TraceNode struct {
	Kind      template.OperationKind
	Component string
	// Index is the callback position for OpCallback nodes, -1 otherwise.
	Index    int
	Duration time.Duration
	Panicked bool
	Children []*TraceNode
}

// Label is the text shown for the node in Render.
func (n *TraceNode) Label() string {
	switch n.Kind {
	case template.OpCallback:
		return fmt.Sprintf("callback #%d", n.Index)
	case template.OpCreate, template.OpBuild:
		return fmt.Sprintf("%s %s", n.Kind, n.Component)
	default:
		return string(n.Kind)
	}
}

// TraceExtension records the operations of each run as a tree.
//
// The most recent runs are kept, up to the configured limit:
//
//	trace := extensions.NewTraceExtension(100)
//	f := template.NewFactory(template.WithExtension(trace))
//	template.CreateWith(f, c)
//
//	for _, id := range trace.Runs() {
//	    fmt.Println(trace.Render(id))
//	}
type TraceExtension struct {
	template.BaseExtension

	mu     sync.Mutex
	limit  int
	roots  map[string]*TraceNode
	order  []string
	stacks map[string][]*TraceNode
}

// NewTraceExtension creates a trace extension keeping at most limit runs.
// A limit of zero or less keeps every run.
func NewTraceExtension(limit int) *TraceExtension {
	return &TraceExtension{
		BaseExtension: template.NewBaseExtension("trace"),
		limit:         limit,
		roots:         make(map[string]*TraceNode),
		stacks:        make(map[string][]*TraceNode),
	}
}

// Order places tracing before other extensions so recorded durations include them.
func (e *TraceExtension) Order() int {
	return 10
}

func (e *TraceExtension) Wrap(ctx context.Context, next func() any, op *template.Operation) any {
	node := e.push(op)
	start := time.Now()
	completed := false

	defer func() {
		node.Duration = time.Since(start)
		node.Panicked = !completed
		e.pop(op.RunID)
	}()

	result := next()
	completed = true
	return result
}

func (e *TraceExtension) push(op *template.Operation) *TraceNode {
	e.mu.Lock()
	defer e.mu.Unlock()

	node := &TraceNode{
		Kind:      op.Kind,
		Component: op.Name,
		Index:     op.Index,
	}

	stack := e.stacks[op.RunID]
	if len(stack) == 0 {
		e.roots[op.RunID] = node
		e.order = append(e.order, op.RunID)
		e.evict()
	} else {
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, node)
	}
	e.stacks[op.RunID] = append(stack, node)

	return node
}

func (e *TraceExtension) pop(runID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	stack := e.stacks[runID]
	if len(stack) <= 1 {
		delete(e.stacks, runID)
		return
	}
	e.stacks[runID] = stack[:len(stack)-1]
}

func (e *TraceExtension) evict() {
	if e.limit <= 0 {
		return
	}
	for len(e.order) > e.limit {
		oldest := e.order[0]
		e.order = e.order[1:]
		delete(e.roots, oldest)
	}
}

// Runs returns the recorded run IDs, oldest first.
func (e *TraceExtension) Runs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	runs := make([]string, len(e.order))
	copy(runs, e.order)
	return runs
}

// Trace returns the root operation of a run.
func (e *TraceExtension) Trace(runID string) (*TraceNode, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	root, ok := e.roots[runID]
	return root, ok
}

// Walk visits the nodes of a run depth-first until fn returns false.
func (e *TraceExtension) Walk(runID string, fn func(*TraceNode) bool) {
	root, ok := e.Trace(runID)
	if !ok {
		return
	}

	var walk func(*TraceNode) bool
	walk = func(n *TraceNode) bool {
		if !fn(n) {
			return false
		}
		for _, child := range n.Children {
			if !walk(child) {
				return false
			}
		}
		return true
	}
	walk(root)
}

// Render draws a run as a tree. It returns an empty string for unknown runs.
func (e *TraceExtension) Render(runID string) string {
	root, ok := e.Trace(runID)
	if !ok {
		return ""
	}

	t := tree.NewTree(renderLabel(root))
	addChildren(t, root)
	return t.String()
}

func addChildren(t *tree.Tree, n *TraceNode) {
	for _, child := range n.Children {
		addChildren(t.AddChild(renderLabel(child)), child)
	}
}

func renderLabel(n *TraceNode) tree.NodeString {
	if n.Panicked {
		return tree.NodeString(n.Label() + " (panicked)")
	}
	return tree.NodeString(n.Label())
}

// Reset drops every recorded run.
func (e *TraceExtension) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.roots = make(map[string]*TraceNode)
	e.stacks = make(map[string][]*TraceNode)
	e.order = nil
}
