package graph

import (
	"path/filepath"
	"testing"

	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func writeNode(t *testing.T, s *Store, id int64, kind string) {
	t.Helper()
	_, err := s.Exec(insertSQL()[engine.TableNodes],
		id, kind, "a.cpp", 1, 1, 1, 10, 0, "")
	if err != nil {
		t.Fatalf("insert node %d: %v", id, err)
	}
}

func TestOpenCreatesSchemaOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if n, err := s.CountNodes(); err != nil || n != 0 {
		t.Fatalf("fresh store count = %d, err = %v", n, err)
	}
	// Schema definition is idempotent: reopening must not fail.
	if err := s.DefineSchema(); err != nil {
		t.Fatalf("redefine schema: %v", err)
	}
}

func TestEveryTableHasInsertStatement(t *testing.T) {
	stmts := insertSQL()
	for _, et := range engine.SchemaEntities() {
		if _, ok := stmts[et.Name]; !ok {
			t.Errorf("entity table %s has no insert statement", et.Name)
		}
	}
	for _, rt := range engine.SchemaRelations() {
		if _, ok := stmts[rt.Name]; !ok {
			t.Errorf("relationship table %s has no insert statement", rt.Name)
		}
	}
}

func TestRelationshipInsertIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	writeNode(t, s, 1, "namespace")
	writeNode(t, s, 2, "function")

	stmt := insertSQL()[engine.RelParentOf]
	for i := 0; i < 3; i++ {
		if _, err := s.Exec(stmt, 1, 2, 0, "function"); err != nil {
			t.Fatalf("insert parent_of: %v", err)
		}
	}
	n, err := s.CountTable(engine.RelParentOf)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("parent_of rows = %d, want 1 after duplicate inserts", n)
	}
}

func TestDeclarationDefinitionOnlyUpgrades(t *testing.T) {
	s := openTestStore(t)
	writeNode(t, s, 1, "function")

	stmt := insertSQL()[engine.TableDeclarations]
	insert := func(isDef int) {
		t.Helper()
		if _, err := s.Exec(stmt, 1, "f", "ns::f", "none", "none", isDef, "ns"); err != nil {
			t.Fatalf("insert decl (is_definition=%d): %v", isDef, err)
		}
	}
	isDef := func() bool {
		t.Helper()
		decl, err := s.DeclByQualifiedName("ns::f")
		if err != nil {
			t.Fatalf("decl lookup: %v", err)
		}
		return decl.IsDefinition
	}

	insert(0)
	if isDef() {
		t.Fatal("prototype row marked as definition")
	}
	insert(1)
	if !isDef() {
		t.Fatal("defining occurrence did not upgrade is_definition")
	}
	// A later prototype re-encounter must not downgrade.
	insert(0)
	if !isDef() {
		t.Fatal("prototype re-encounter downgraded is_definition")
	}
	if n, _ := s.CountTable(engine.TableDeclarations); n != 1 {
		t.Fatalf("declaration rows = %d, want 1", n)
	}
}

func TestReadHelpers(t *testing.T) {
	s := openTestStore(t)
	ins := insertSQL()

	writeNode(t, s, 1, "namespace")
	writeNode(t, s, 2, "class")
	writeNode(t, s, 3, "class")
	writeNode(t, s, 4, "call_expr")
	writeNode(t, s, 5, "type")

	if _, err := s.Exec(ins[engine.TableDeclarations], 2, "Derived", "ns::Derived", "none", "none", 1, "ns"); err != nil {
		t.Fatalf("insert decl: %v", err)
	}
	if _, err := s.Exec(ins[engine.RelParentOf], 1, 2, 0, "class"); err != nil {
		t.Fatalf("insert parent_of: %v", err)
	}
	if _, err := s.Exec(ins[engine.RelParentOf], 1, 3, 1, "class"); err != nil {
		t.Fatalf("insert parent_of: %v", err)
	}
	if _, err := s.Exec(ins[engine.RelInheritsFrom], 2, 3, "private", 1); err != nil {
		t.Fatalf("insert inherits_from: %v", err)
	}
	if _, err := s.Exec(ins[engine.RelReferences], 4, 2, "uses"); err != nil {
		t.Fatalf("insert refs: %v", err)
	}
	if _, err := s.Exec(ins[engine.RelHasType], 2, 5, "primary"); err != nil {
		t.Fatalf("insert has_type: %v", err)
	}

	decl, err := s.DeclByQualifiedName("ns::Derived")
	if err != nil {
		t.Fatalf("decl by qn: %v", err)
	}
	if decl.NodeID != 2 || decl.Name != "Derived" || !decl.IsDefinition {
		t.Fatalf("decl = %+v", decl)
	}

	children, err := s.ChildrenOf(1)
	if err != nil {
		t.Fatalf("children: %v", err)
	}
	if len(children) != 2 || children[0].ChildIndex != 0 || children[1].ChildID != 3 {
		t.Fatalf("children = %+v", children)
	}

	parent, ok, err := s.ParentOf(2)
	if err != nil || !ok || parent != 1 {
		t.Fatalf("parent of 2 = %d ok=%v err=%v", parent, ok, err)
	}
	if _, ok, _ := s.ParentOf(1); ok {
		t.Fatal("root reported a parent")
	}

	bases, err := s.BasesOf(2)
	if err != nil {
		t.Fatalf("bases: %v", err)
	}
	if len(bases) != 1 || bases[0].BaseID != 3 || bases[0].Access != "private" || !bases[0].Virtual {
		t.Fatalf("bases = %+v", bases)
	}

	refs, err := s.RefsFrom(4)
	if err != nil || len(refs) != 1 || refs[0].DeclID != 2 || refs[0].RefKind != "uses" {
		t.Fatalf("refs = %+v err=%v", refs, err)
	}
	sites, err := s.RefsTo(2)
	if err != nil || len(sites) != 1 || sites[0] != 4 {
		t.Fatalf("sites = %v err=%v", sites, err)
	}

	tid, ok, err := s.TypeOf(2)
	if err != nil || !ok || tid != 5 {
		t.Fatalf("type of 2 = %d ok=%v err=%v", tid, ok, err)
	}

	if n, _ := s.CountByKind("class"); n != 2 {
		t.Fatalf("class count = %d, want 2", n)
	}
	node, err := s.NodeByID(1)
	if err != nil || node.Kind != "namespace" || node.File != "a.cpp" {
		t.Fatalf("node = %+v err=%v", node, err)
	}
}
