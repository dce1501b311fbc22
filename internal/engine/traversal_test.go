package engine

import (
	"testing"

	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/ast"
)

func TestTraversalChildIndicesFollowVisitationOrder(t *testing.T) {
	tr := NewTraversal()
	tr.Push(1, ast.KindTranslationUnit)

	parent, idx, prev, _, ok := tr.NextChild(2, ast.KindNamespace)
	if !ok || parent != 1 || idx != 0 {
		t.Fatalf("first child: parent=%d idx=%d ok=%v", parent, idx, ok)
	}
	if prev != InvalidID {
		t.Fatalf("first child prev = %d, want %d", prev, InvalidID)
	}

	_, idx, prev, prevKind, _ := tr.NextChild(3, ast.KindFunction)
	if idx != 1 {
		t.Fatalf("second child idx = %d, want 1", idx)
	}
	if prev != 2 || prevKind != ast.KindNamespace {
		t.Fatalf("second child prev = %d kind %v", prev, prevKind)
	}
}

func TestTraversalNextChildAtRoot(t *testing.T) {
	tr := NewTraversal()
	if _, _, _, _, ok := tr.NextChild(1, ast.KindTranslationUnit); ok {
		t.Fatal("NextChild at root reported a parent")
	}
}

func TestTraversalNestedLevelsKeepSeparateCounters(t *testing.T) {
	tr := NewTraversal()
	tr.Push(1, ast.KindTranslationUnit)
	tr.NextChild(2, ast.KindFunction)
	tr.Push(2, ast.KindFunction)

	if _, idx, _, _, _ := tr.NextChild(3, ast.KindCompoundStmt); idx != 0 {
		t.Fatalf("nested first child idx = %d, want 0", idx)
	}
	tr.Pop()

	// Back at the outer level the counter continues.
	if _, idx, _, _, _ := tr.NextChild(4, ast.KindFunction); idx != 1 {
		t.Fatalf("outer second child idx = %d, want 1", idx)
	}
}

func TestTraversalScopesChainOutermostFirst(t *testing.T) {
	tr := NewTraversal()
	tr.PushScope(1, "outer", ast.KindNamespace)
	tr.PushScope(2, "inner", ast.KindNamespace)

	scopes := tr.Scopes()
	if len(scopes) != 2 {
		t.Fatalf("scope chain length = %d, want 2", len(scopes))
	}
	if scopes[0].Name != "outer" || scopes[1].Name != "inner" {
		t.Fatalf("scope order = %q, %q", scopes[0].Name, scopes[1].Name)
	}
}

func TestTraversalPopOnEmptyIsNoOp(t *testing.T) {
	tr := NewTraversal()
	tr.Pop()
	tr.PopScope()
	if !tr.Empty() {
		t.Fatal("traversal not empty after no-op pops")
	}
}

func TestTraversalBalancedWalkUnwinds(t *testing.T) {
	tr := NewTraversal()
	tr.Push(1, ast.KindTranslationUnit)
	tr.PushScope(1, "", ast.KindTranslationUnit)
	tr.Push(2, ast.KindNamespace)
	tr.PushScope(2, "ns", ast.KindNamespace)
	tr.Pop()
	tr.PopScope()
	tr.Pop()
	tr.PopScope()
	if !tr.Empty() {
		t.Fatalf("depth %d after balanced walk", tr.Depth())
	}
}
