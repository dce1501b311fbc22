package graph

import (
	"fmt"
	"strings"

	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/engine"
)

// The engine owns the logical schema (engine.SchemaEntities/SchemaRelations);
// this file turns those descriptors into SQLite DDL and prepared insert
// statements. Entity tables get a single-column INTEGER primary key holding
// the engine-assigned node id; relationship tables get from/to columns plus
// their typed properties and a uniqueness constraint so re-submitted edges
// stay idempotent.

// entityDDL builds the CREATE TABLE statement for one entity table.
func entityDDL(t engine.EntityTable) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE IF NOT EXISTS %s (\n", t.Name)
	if t.Name == engine.TableNodes {
		sb.WriteString("\tid INTEGER PRIMARY KEY")
	} else {
		sb.WriteString("\tnode_id INTEGER PRIMARY KEY REFERENCES nodes(id)")
	}
	for _, c := range t.Columns {
		fmt.Fprintf(&sb, ",\n\t%s %s", c.Name, c.Type)
	}
	sb.WriteString("\n);")
	return sb.String()
}

// relDDL builds the CREATE TABLE statement for one relationship table.
func relDDL(t engine.RelTable) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE IF NOT EXISTS %s (\n", t.Name)
	fmt.Fprintf(&sb, "\t%s INTEGER NOT NULL,\n", t.FromCol)
	fmt.Fprintf(&sb, "\t%s INTEGER NOT NULL", t.ToCol)
	for _, c := range t.Props {
		fmt.Fprintf(&sb, ",\n\t%s %s", c.Name, c.Type)
	}
	cols := []string{t.FromCol, t.ToCol}
	for _, c := range t.Props {
		cols = append(cols, c.Name)
	}
	fmt.Fprintf(&sb, ",\n\tUNIQUE(%s)", strings.Join(cols, ", "))
	sb.WriteString("\n);")
	return sb.String()
}

// relIndexes builds the lookup indexes for one relationship table.
func relIndexes(t engine.RelTable) []string {
	return []string{
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_from ON %s(%s);", t.Name, t.Name, t.FromCol),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_to ON %s(%s);", t.Name, t.Name, t.ToCol),
	}
}

// DDL returns the full schema-definition script.
func DDL() string {
	var stmts []string
	for _, t := range engine.SchemaEntities() {
		stmts = append(stmts, entityDDL(t))
	}
	stmts = append(stmts,
		"CREATE INDEX IF NOT EXISTS idx_nodes_kind ON nodes(kind);",
		"CREATE INDEX IF NOT EXISTS idx_nodes_file ON nodes(file);",
		"CREATE INDEX IF NOT EXISTS idx_decls_name ON declarations(name);",
		"CREATE INDEX IF NOT EXISTS idx_decls_qn ON declarations(qualified_name);",
	)
	for _, t := range engine.SchemaRelations() {
		stmts = append(stmts, relDDL(t))
		stmts = append(stmts, relIndexes(t)...)
	}
	return strings.Join(stmts, "\n")
}

// DefineSchema runs the schema-definition script. All-or-abort: any failure
// here is fatal for the run.
func (s *Store) DefineSchema() error {
	if _, err := s.db.Exec(DDL()); err != nil {
		return fmt.Errorf("schema ddl: %w", err)
	}
	return nil
}

// insertSQL builds the per-table INSERT statements used by the batcher.
// INSERT OR IGNORE keeps re-submitted rows idempotent: within a run all
// writes are append-only creations whose conflicts reduce to "skip if
// already created". Declarations are the one exception, carrying a
// monotonic is_definition upgrade for prototype/definition pairs.
func insertSQL() map[string]string {
	m := make(map[string]string)
	for _, t := range engine.SchemaEntities() {
		cols := make([]string, 0, len(t.Columns)+1)
		if t.Name == engine.TableNodes {
			cols = append(cols, "id")
		} else {
			cols = append(cols, "node_id")
		}
		for _, c := range t.Columns {
			cols = append(cols, c.Name)
		}
		if t.Name == engine.TableDeclarations {
			// Prototype and definition share one entity; whichever writes
			// first keeps the row, but is_definition only ever upgrades.
			m[t.Name] = fmt.Sprintf(
				"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(node_id) DO UPDATE SET is_definition = max(%s.is_definition, excluded.is_definition)",
				t.Name, strings.Join(cols, ", "), placeholders(len(cols)), t.Name)
			continue
		}
		m[t.Name] = fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES (%s)",
			t.Name, strings.Join(cols, ", "), placeholders(len(cols)))
	}
	for _, t := range engine.SchemaRelations() {
		cols := []string{t.FromCol, t.ToCol}
		for _, c := range t.Props {
			cols = append(cols, c.Name)
		}
		m[t.Name] = fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES (%s)",
			t.Name, strings.Join(cols, ", "), placeholders(len(cols)))
	}
	return m
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
