// Package engine transforms a depth-first traversal of parsed C++ source
// into a deduplicated property graph. It owns the identity registry, the
// traversal context, the entity mapper, and the relationship synthesizer;
// persistence happens through the Writer interface.
package engine

import (
	"sync"

	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/ast"
)

// InvalidID is the sentinel returned for nil node references. Callers must
// treat it as "do not synthesize".
const InvalidID int64 = -1

// Facet identifies one specialized-entity kind for dedup bookkeeping,
// independent of base-entity dedup: a base entity can exist (created on
// demand by the relationship synthesizer) before any facet is attached.
type Facet int

const (
	FacetDeclaration Facet = iota
	FacetType
	FacetStatement
	FacetExpression
	FacetTemplateParam
	FacetUsing
	FacetMacro
	FacetInclude
	FacetPragma
	FacetComment
	FacetConstEval
	FacetStaticAssert
	FacetCFGBlock
	facetCount
)

// Session is the identity and deduplication registry for one indexing run.
// It maps node references to stable integer ids and tracks which entities
// and facets have been materialized, so repeated encounters of the same node
// (within or across translation units) never create duplicates.
//
// Explicitly constructed and passed by reference, scoped to one run. All
// methods are safe for concurrent use, though the usual deployment funnels
// every caller through a single writer goroutine.
type Session struct {
	mu     sync.Mutex
	ids    map[ast.Ref]int64
	next   int64
	facets [facetCount]map[int64]struct{}
}

// NewSession creates an empty registry. Ids are allocated monotonically
// starting at 1.
func NewSession() *Session {
	s := &Session{
		ids:  make(map[ast.Ref]int64),
		next: 1,
	}
	for f := range s.facets {
		s.facets[f] = make(map[int64]struct{})
	}
	return s
}

// ResolveOrCreate returns the stable id for ref, allocating the next
// monotonic id on first encounter. A nil ref returns InvalidID.
func (s *Session) ResolveOrCreate(ref ast.Ref) int64 {
	if ref == ast.NilRef {
		return InvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.ids[ref]; ok {
		return id
	}
	id := s.next
	s.next++
	s.ids[ref] = id
	return id
}

// Lookup returns the id for ref without allocating.
func (s *Session) Lookup(ref ast.Ref) (int64, bool) {
	if ref == ast.NilRef {
		return InvalidID, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.ids[ref]
	return id, ok
}

// HasEntity reports whether ref has already been materialized.
func (s *Session) HasEntity(ref ast.Ref) bool {
	_, ok := s.Lookup(ref)
	return ok
}

// HasFacet reports whether the given specialized entity already exists for id.
func (s *Session) HasFacet(f Facet, id int64) bool {
	if id == InvalidID {
		return true // never synthesize for the sentinel
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.facets[f][id]
	return ok
}

// RegisterFacet records that the given specialized entity now exists for id.
func (s *Session) RegisterFacet(f Facet, id int64) {
	if id == InvalidID {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facets[f][id] = struct{}{}
}

// EntityCount returns the number of distinct entities registered so far.
func (s *Session) EntityCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
