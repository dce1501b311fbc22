package graph

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/engine"
)

// Read helpers over the persisted graph. They serve tests and downstream
// consumers; the indexing run itself never reads.

// NodeRow is the base entity row shared by every node.
type NodeRow struct {
	ID         int64
	Kind       string
	File       string
	StartLine  int
	StartCol   int
	EndLine    int
	EndCol     int
	IsImplicit bool
	Snippet    string
}

// DeclRow is one declarations-table row.
type DeclRow struct {
	NodeID        int64
	Name          string
	QualifiedName string
	Access        string
	Storage       string
	IsDefinition  bool
	NamespacePath string
}

// ChildRow is one parent_of edge seen from the parent.
type ChildRow struct {
	ChildID    int64
	ChildIndex int
	ChildKind  string
}

// RefRow is one refs edge seen from the use site.
type RefRow struct {
	DeclID  int64
	RefKind string
}

// BaseRow is one inherits_from edge seen from the derived class.
type BaseRow struct {
	BaseID  int64
	Access  string
	Virtual bool
}

// CountNodes returns the total number of base entities.
func (s *Store) CountNodes() (int, error) {
	return s.CountTable(engine.TableNodes)
}

// CountTable returns the row count of any entity or relationship table.
func (s *Store) CountTable(table string) (int, error) {
	var n int
	if err := s.q.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// CountByKind returns the number of base entities of one syntax kind.
func (s *Store) CountByKind(kind string) (int, error) {
	var n int
	err := s.q.QueryRow("SELECT COUNT(*) FROM nodes WHERE kind = ?", kind).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count kind %s: %w", kind, err)
	}
	return n, nil
}

// NodeByID loads one base entity row.
func (s *Store) NodeByID(id int64) (*NodeRow, error) {
	row := s.q.QueryRow(
		"SELECT id, kind, file, start_line, start_col, end_line, end_col, is_implicit, snippet FROM nodes WHERE id = ?", id)
	var n NodeRow
	var implicit int
	err := row.Scan(&n.ID, &n.Kind, &n.File, &n.StartLine, &n.StartCol, &n.EndLine, &n.EndCol, &implicit, &n.Snippet)
	if err != nil {
		return nil, fmt.Errorf("node %d: %w", id, err)
	}
	n.IsImplicit = implicit != 0
	return &n, nil
}

// DeclByQualifiedName finds a declaration by its fully qualified name.
func (s *Store) DeclByQualifiedName(qn string) (*DeclRow, error) {
	row := s.q.QueryRow(
		"SELECT node_id, name, qualified_name, access, storage, is_definition, namespace_path FROM declarations WHERE qualified_name = ? LIMIT 1", qn)
	return scanDecl(row)
}

// DeclsByName finds all declarations sharing an unqualified name.
func (s *Store) DeclsByName(name string) ([]DeclRow, error) {
	rows, err := s.q.Query(
		"SELECT node_id, name, qualified_name, access, storage, is_definition, namespace_path FROM declarations WHERE name = ? ORDER BY node_id", name)
	if err != nil {
		return nil, fmt.Errorf("decls by name %s: %w", name, err)
	}
	defer rows.Close()
	var out []DeclRow
	for rows.Next() {
		var d DeclRow
		var def int
		if err := rows.Scan(&d.NodeID, &d.Name, &d.QualifiedName, &d.Access, &d.Storage, &def, &d.NamespacePath); err != nil {
			return nil, fmt.Errorf("scan decl: %w", err)
		}
		d.IsDefinition = def != 0
		out = append(out, d)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDecl(row rowScanner) (*DeclRow, error) {
	var d DeclRow
	var def int
	err := row.Scan(&d.NodeID, &d.Name, &d.QualifiedName, &d.Access, &d.Storage, &def, &d.NamespacePath)
	if err != nil {
		return nil, fmt.Errorf("scan decl: %w", err)
	}
	d.IsDefinition = def != 0
	return &d, nil
}

// ChildrenOf returns a node's direct children in child-index order.
func (s *Store) ChildrenOf(parent int64) ([]ChildRow, error) {
	rows, err := s.q.Query(
		"SELECT child_id, child_index, child_kind FROM parent_of WHERE parent_id = ? ORDER BY child_index", parent)
	if err != nil {
		return nil, fmt.Errorf("children of %d: %w", parent, err)
	}
	defer rows.Close()
	var out []ChildRow
	for rows.Next() {
		var c ChildRow
		if err := rows.Scan(&c.ChildID, &c.ChildIndex, &c.ChildKind); err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ParentOf returns a node's parent id, or false when the node is a root.
func (s *Store) ParentOf(child int64) (int64, bool, error) {
	var parent int64
	err := s.q.QueryRow("SELECT parent_id FROM parent_of WHERE child_id = ?", child).Scan(&parent)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("parent of %d: %w", child, err)
	}
	return parent, true, nil
}

// ScopesOf returns every enclosing scope id of a node, innermost unordered.
func (s *Store) ScopesOf(id int64) ([]int64, error) {
	rows, err := s.q.Query("SELECT scope_id FROM in_scope WHERE node_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("scopes of %d: %w", id, err)
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var sid int64
		if err := rows.Scan(&sid); err != nil {
			return nil, fmt.Errorf("scan scope: %w", err)
		}
		out = append(out, sid)
	}
	return out, rows.Err()
}

// RefsFrom returns the reference edges originating at a use site.
func (s *Store) RefsFrom(site int64) ([]RefRow, error) {
	rows, err := s.q.Query("SELECT decl_id, ref_kind FROM refs WHERE site_id = ?", site)
	if err != nil {
		return nil, fmt.Errorf("refs from %d: %w", site, err)
	}
	defer rows.Close()
	var out []RefRow
	for rows.Next() {
		var r RefRow
		if err := rows.Scan(&r.DeclID, &r.RefKind); err != nil {
			return nil, fmt.Errorf("scan ref: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RefsTo returns the ids of use sites referencing a declaration.
func (s *Store) RefsTo(decl int64) ([]int64, error) {
	rows, err := s.q.Query("SELECT site_id FROM refs WHERE decl_id = ?", decl)
	if err != nil {
		return nil, fmt.Errorf("refs to %d: %w", decl, err)
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// BasesOf returns the direct bases of a class definition.
func (s *Store) BasesOf(derived int64) ([]BaseRow, error) {
	rows, err := s.q.Query("SELECT base_id, access, is_virtual FROM inherits_from WHERE derived_id = ?", derived)
	if err != nil {
		return nil, fmt.Errorf("bases of %d: %w", derived, err)
	}
	defer rows.Close()
	var out []BaseRow
	for rows.Next() {
		var b BaseRow
		var virt int
		if err := rows.Scan(&b.BaseID, &b.Access, &virt); err != nil {
			return nil, fmt.Errorf("scan base: %w", err)
		}
		b.Virtual = virt != 0
		out = append(out, b)
	}
	return out, rows.Err()
}

// TypeOf returns the primary type node of a declaration, or false when the
// declaration carries no type edge.
func (s *Store) TypeOf(decl int64) (int64, bool, error) {
	var tid int64
	err := s.q.QueryRow("SELECT type_id FROM has_type WHERE decl_id = ? AND role = 'primary'", decl).Scan(&tid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("type of %d: %w", decl, err)
	}
	return tid, true, nil
}
