package engine

import (
	"slices"

	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/ast"
)

// The relationship synthesizer derives edges that depend on semantics beyond
// tree position. Endpoints that have not been visited yet are created on
// demand through the session, so a later real visit reuses the id instead of
// duplicating the entity. An unresolved endpoint silently skips only that
// relationship, never the run.

// synthesize emits the semantic edges for one visited node.
func (ix *Indexer) synthesize(n *ast.Node, id int64) {
	// HAS_TYPE: value- and function-signature-bearing declarations.
	if n.DeclType != nil {
		if tid := ix.materialize(n.DeclType); tid != InvalidID {
			ix.w.WriteRel(RelHasType, id, tid, "primary")
		}
	}

	// REFERENCES: name-use / call / member-access sites.
	if n.Target != nil {
		kind := n.TargetKind
		if kind == "" {
			kind = ast.RefUses
		}
		if tid := ix.materialize(n.Target); tid != InvalidID {
			ix.w.WriteRel(RelReferences, id, tid, string(kind))
		}
	}

	// INHERITS_FROM: zero-to-many direct bases of a class definition.
	for _, b := range n.Bases {
		bid := ix.materialize(b.Base)
		if bid == InvalidID {
			continue
		}
		access := b.Access
		if access == "" {
			access = ast.AccessPublic
		}
		ix.w.WriteRel(RelInheritsFrom, id, bid, string(access), boolInt(b.Virtual))
	}

	// OVERRIDES: virtual method overriding base-class methods.
	for _, o := range n.Overridden {
		if oid := ix.materialize(o); oid != InvalidID {
			ix.w.WriteRel(RelOverrides, id, oid)
		}
	}

	// SPECIALIZES: template specialization back to its primary template.
	if n.Template != nil {
		kind := n.TemplateKind
		if kind == "" {
			kind = "specialization"
		}
		if tid := ix.materialize(n.Template); tid != InvalidID {
			ix.w.WriteRel(RelSpecializes, id, tid, kind)
		}
	}

	// DOCUMENTS: preceding doc comment to the declaration it documents.
	if n.DocComment != nil {
		if cid := ix.materialize(n.DocComment); cid != InvalidID {
			ix.w.WriteRel(RelDocuments, cid, id)
		}
	}
}

// materialize resolves a cross-linked node to its id, creating the entity on
// demand if it has not been visited. On-demand creation goes through the
// session, so the later real visit of the same reference deduplicates against
// it. No rows are written here: the real visit owns the base row and the
// structural edges, and targets nothing ever visits are written at Finish.
func (ix *Indexer) materialize(n *ast.Node) int64 {
	if n == nil || n.Ref == ast.NilRef {
		return InvalidID
	}
	if id, ok := ix.session.Lookup(n.Ref); ok {
		return id
	}
	id := ix.session.ResolveOrCreate(n.Ref)
	if id == InvalidID {
		return InvalidID
	}
	ix.pending[id] = n
	return id
}

// flushPending writes base rows and facets for on-demand entities no
// traversal visit claimed. Their rows carry what the reference site knew;
// the qualified name is pre-resolved, so the scope chain stays nil.
func (ix *Indexer) flushPending() {
	ids := make([]int64, 0, len(ix.pending))
	for id := range ix.pending {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		n := ix.pending[id]
		ix.w.WriteNode(TableNodes, id, baseArgs(n)...)
		ix.emitFacets(n, id, nil)
	}
	clear(ix.pending)
}
