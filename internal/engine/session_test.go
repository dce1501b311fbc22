package engine

import (
	"testing"

	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/ast"
)

func TestSessionResolveOrCreateIsIdempotent(t *testing.T) {
	s := NewSession()

	first := s.ResolveOrCreate(ast.Ref(42))
	if first != 1 {
		t.Fatalf("first id = %d, want 1", first)
	}
	again := s.ResolveOrCreate(ast.Ref(42))
	if again != first {
		t.Fatalf("repeat resolve = %d, want %d", again, first)
	}
	if got := s.EntityCount(); got != 1 {
		t.Fatalf("entity count = %d, want 1", got)
	}
}

func TestSessionIdsAreMonotonic(t *testing.T) {
	s := NewSession()
	for i := int64(1); i <= 5; i++ {
		if got := s.ResolveOrCreate(ast.Ref(i * 100)); got != i {
			t.Fatalf("id for ref %d = %d, want %d", i*100, got, i)
		}
	}
}

func TestSessionNilRef(t *testing.T) {
	s := NewSession()
	if got := s.ResolveOrCreate(ast.NilRef); got != InvalidID {
		t.Fatalf("ResolveOrCreate(NilRef) = %d, want %d", got, InvalidID)
	}
	if _, ok := s.Lookup(ast.NilRef); ok {
		t.Fatal("Lookup(NilRef) reported an entity")
	}
	if got := s.EntityCount(); got != 0 {
		t.Fatalf("entity count after nil refs = %d, want 0", got)
	}
}

func TestSessionFacetsIndependentOfEntity(t *testing.T) {
	s := NewSession()
	id := s.ResolveOrCreate(ast.Ref(7))

	if s.HasFacet(FacetDeclaration, id) {
		t.Fatal("fresh entity already has declaration facet")
	}
	s.RegisterFacet(FacetDeclaration, id)
	if !s.HasFacet(FacetDeclaration, id) {
		t.Fatal("registered facet not reported")
	}
	// Other facets for the same id stay unset.
	if s.HasFacet(FacetStatement, id) {
		t.Fatal("unrelated facet reported for id")
	}
}

func TestSessionFacetSentinelNeverSynthesizes(t *testing.T) {
	s := NewSession()
	if !s.HasFacet(FacetDeclaration, InvalidID) {
		t.Fatal("HasFacet for the sentinel must report true")
	}
	s.RegisterFacet(FacetDeclaration, InvalidID) // must not panic or record
	if got := s.EntityCount(); got != 0 {
		t.Fatalf("entity count = %d, want 0", got)
	}
}
