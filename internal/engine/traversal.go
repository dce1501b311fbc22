package engine

import "github.com/bitmonk8/dosatsu-cpp-sub000/internal/ast"

// hierFrame is one level of the hierarchy stack: the structural parent's id
// plus the running child index for PARENT_OF edges at this level, and the id
// of the previously visited child for sequential control-flow edges.
type hierFrame struct {
	id        int64
	nextChild int
	lastChild int64
	lastKind  ast.Kind
	kind      ast.Kind
}

// ScopeName pairs a scope entity's id with its declared name, feeding both
// IN_SCOPE edges and qualified-name construction.
type ScopeName struct {
	ID   int64
	Name string
	Kind ast.Kind
}

// Traversal reconstructs explicit hierarchy and lexical-scope relationships
// from the implicit order of a depth-first walk. It keeps two independent
// stacks: the structural-parent chain with per-level child counters, and the
// lexical/semantic enclosure chain.
//
// Both stacks tolerate pops on empty as silent no-ops so a malformed partial
// traversal cannot abort the run; both are empty before the first and after
// the last node of a complete walk.
type Traversal struct {
	hier   []hierFrame
	scopes []ScopeName
}

// NewTraversal returns an empty traversal context.
func NewTraversal() *Traversal {
	return &Traversal{}
}

// Push begins a new nesting level under id with a fresh child counter.
func (t *Traversal) Push(id int64, kind ast.Kind) {
	t.hier = append(t.hier, hierFrame{id: id, lastChild: InvalidID, kind: kind})
}

// Pop ends the current nesting level. Popping an empty stack is a no-op.
func (t *Traversal) Pop() {
	if len(t.hier) == 0 {
		return
	}
	t.hier = t.hier[:len(t.hier)-1]
}

// NextChild claims the next child slot of the current parent, returning the
// parent id and the child's index among its siblings. ok is false at the
// root. prev and prevKind describe the sibling visited immediately before;
// prev is InvalidID for the first child.
func (t *Traversal) NextChild(child int64, childKind ast.Kind) (parent int64, index int, prev int64, prevKind ast.Kind, ok bool) {
	if len(t.hier) == 0 {
		return InvalidID, 0, InvalidID, ast.KindUnknown, false
	}
	top := &t.hier[len(t.hier)-1]
	index = top.nextChild
	top.nextChild++
	prev = top.lastChild
	prevKind = top.lastKind
	top.lastChild = child
	top.lastKind = childKind
	return top.id, index, prev, prevKind, true
}

// ParentKind returns the kind of the current structural parent.
func (t *Traversal) ParentKind() (ast.Kind, bool) {
	if len(t.hier) == 0 {
		return ast.KindUnknown, false
	}
	return t.hier[len(t.hier)-1].kind, true
}

// PushScope enters a lexical/semantic enclosure.
func (t *Traversal) PushScope(id int64, name string, kind ast.Kind) {
	t.scopes = append(t.scopes, ScopeName{ID: id, Name: name, Kind: kind})
}

// PopScope leaves the innermost enclosure. Popping an empty stack is a no-op.
func (t *Traversal) PopScope() {
	if len(t.scopes) == 0 {
		return
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Scopes returns the current enclosure chain, outermost first. Nodes are
// visible from every enclosing scope, so the caller emits one IN_SCOPE edge
// per entry, not only for the innermost.
func (t *Traversal) Scopes() []ScopeName {
	return t.scopes
}

// Depth returns the current hierarchy depth.
func (t *Traversal) Depth() int {
	return len(t.hier)
}

// Empty reports whether both stacks have unwound.
func (t *Traversal) Empty() bool {
	return len(t.hier) == 0 && len(t.scopes) == 0
}
