package engine

import (
	"log/slog"

	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/ast"
)

// Indexer is the orchestrator: the front end drives it with EnterNode and
// LeaveNode callbacks, one pair per mapped syntax node in depth-first order.
// It is the only component that mutates the session and traversal context;
// the mapper stays pure and the synthesizer goes through Indexer helpers.
type Indexer struct {
	session *Session
	trav    *Traversal
	w       Writer

	// placed holds ids that received their first real traversal visit; the
	// base row and structural edge belong to that visit, not to on-demand
	// stub creation.
	placed map[int64]bool

	// pending holds on-demand-created entities awaiting a real visit. Rows
	// for entities nothing ever visits are written at Finish.
	pending map[int64]*ast.Node

	// defined holds ids whose declaration row records a defining occurrence.
	defined map[int64]bool

	visited int
	skipped int
}

// NewIndexer creates an indexer over a run-scoped session and a writer.
// A fresh traversal context is created per indexer; the session is shared
// across all translation units of the run.
func NewIndexer(session *Session, w Writer) *Indexer {
	return &Indexer{
		session: session,
		trav:    NewTraversal(),
		w:       w,
		placed:  make(map[int64]bool),
		pending: make(map[int64]*ast.Node),
		defined: make(map[int64]bool),
	}
}

// EnterNode ingests one visited node: resolves its identity, materializes
// its base and specialized entities on first encounter, synthesizes
// structural, scope, and semantic relationships, and opens its hierarchy
// (and scope, where applicable) level for the children that follow.
//
// Malformed input (nil node, nil ref) is skipped silently.
func (ix *Indexer) EnterNode(n *ast.Node) {
	if n == nil || n.Ref == ast.NilRef {
		ix.skipped++
		return
	}

	id := ix.session.ResolveOrCreate(n.Ref)
	if id == InvalidID {
		ix.skipped++
		return
	}
	ix.visited++

	// The first traversal visit owns the base row, even when the entity was
	// already created on demand by a reference: the visit knows the real
	// location and snippet, the stub does not.
	first := !ix.placed[id]
	if first {
		ix.placed[id] = true
		delete(ix.pending, id)
		ix.w.WriteNode(TableNodes, id, baseArgs(n)...)
	}

	// PARENT_OF before this node opens its own level; the child index
	// follows visitation order among siblings. A re-encountered entity
	// (shared-header declaration seen from another unit) keeps its original
	// parent: every non-root entity has exactly one incoming PARENT_OF.
	if parent, index, prev, prevKind, ok := ix.trav.NextChild(id, n.Kind); ok && first {
		ix.w.WriteRel(RelParentOf, parent, id, index, n.Kind.String())
		ix.emitSequentialFlow(prev, prevKind, id, n)
	}

	// One IN_SCOPE edge per enclosing scope, not only the innermost.
	for _, s := range ix.trav.Scopes() {
		ix.w.WriteRel(RelInScope, id, s.ID)
	}

	ix.emitFacets(n, id, ix.trav.Scopes())

	ix.synthesize(n, id)

	ix.trav.Push(id, n.Kind)
	if n.Kind.IsScope() {
		ix.trav.PushScope(id, n.Name(), n.Kind)
	}
}

// LeaveNode closes the hierarchy (and scope) level opened by the matching
// EnterNode. Unbalanced calls degrade to no-ops inside the stacks.
func (ix *Indexer) LeaveNode(n *ast.Node) {
	if n == nil || n.Ref == ast.NilRef {
		return
	}
	ix.trav.Pop()
	if n.Kind.IsScope() {
		ix.trav.PopScope()
	}
}

// emitSequentialFlow links consecutive statements under a compound statement
// with a sequential control-flow edge.
func (ix *Indexer) emitSequentialFlow(prev int64, prevKind ast.Kind, id int64, n *ast.Node) {
	if prev == InvalidID || !n.Kind.IsStatement() || !prevKind.IsStatement() {
		return
	}
	if pk, ok := ix.trav.ParentKind(); !ok || pk != ast.KindCompoundStmt {
		return
	}
	ix.w.WriteRel(RelCFGFlow, prev, id, "seq")
}

// emitFacets writes the specialized rows for a node, at most one row per
// facet kind per entity. A defining occurrence re-emits the declaration row
// once so a prototype visited first cannot pin is_definition to false; the
// store upgrades the column monotonically.
func (ix *Indexer) emitFacets(n *ast.Node, id int64, enclosing []ScopeName) {
	for _, build := range facetsFor(n) {
		row := build(n, enclosing)
		if row == nil {
			continue
		}
		if ix.session.HasFacet(row.facet, id) {
			if row.facet != FacetDeclaration || ix.defined[id] || !isDefinition(n) {
				continue
			}
		}
		ix.session.RegisterFacet(row.facet, id)
		if row.facet == FacetDeclaration && isDefinition(n) {
			ix.defined[id] = true
		}
		ix.w.WriteNode(row.table, id, row.args...)
	}
}

// Finish writes the rows of entities that were created on demand but never
// visited, then logs traversal counters and verifies the stacks unwound.
// Called by the pipeline after the last translation unit.
func (ix *Indexer) Finish() {
	ix.flushPending()
	if !ix.trav.Empty() {
		slog.Warn("engine.unbalanced_traversal", "depth", ix.trav.Depth())
	}
	slog.Info("engine.done",
		"visited", ix.visited,
		"skipped", ix.skipped,
		"entities", ix.session.EntityCount())
}

// Visited returns the number of nodes ingested so far.
func (ix *Indexer) Visited() int { return ix.visited }
