package engine

// The engine owns the graph schema: the fixed set of entity and relationship
// tables that syntax-node categories are mapped onto. The storage layer
// generates DDL and insert statements from these descriptors, so the column
// order here is the argument order of every Writer call.

// Entity table names.
const (
	TableNodes          = "nodes"
	TableDeclarations   = "declarations"
	TableTypes          = "types"
	TableStatements     = "statements"
	TableExpressions    = "expressions"
	TableTemplateParams = "template_parameters"
	TableUsings         = "using_declarations"
	TableMacros         = "macros"
	TableIncludes       = "includes"
	TablePragmas        = "pragmas"
	TableComments       = "comments"
	TableConstEvals     = "const_evals"
	TableStaticAsserts  = "static_asserts"
	TableCFGBlocks      = "cfg_blocks"
)

// Relationship table names.
const (
	RelParentOf     = "parent_of"
	RelHasType      = "has_type"
	RelReferences   = "refs"
	RelInScope      = "in_scope"
	RelInheritsFrom = "inherits_from"
	RelOverrides    = "overrides"
	RelSpecializes  = "specializes"
	RelCFGFlow      = "cfg_flow"
	RelDocuments    = "documents"
)

// Column is one typed column of an entity or relationship table.
type Column struct {
	Name string
	Type string // SQLite storage type: INTEGER or TEXT
}

// EntityTable declares a named entity table. Every entity table has a
// single-column INTEGER primary key holding the node id; Columns lists the
// remaining typed columns in insert order.
type EntityTable struct {
	Name    string
	Columns []Column
}

// RelTable declares a named relationship table with a fixed from/to pair and
// typed edge properties.
type RelTable struct {
	Name    string
	FromCol string
	ToCol   string
	Props   []Column
}

// SchemaEntities returns the entity tables in definition order.
func SchemaEntities() []EntityTable {
	return []EntityTable{
		{Name: TableNodes, Columns: []Column{
			{"kind", "TEXT"}, {"file", "TEXT"},
			{"start_line", "INTEGER"}, {"start_col", "INTEGER"},
			{"end_line", "INTEGER"}, {"end_col", "INTEGER"},
			{"is_implicit", "INTEGER"}, {"snippet", "TEXT"},
		}},
		{Name: TableDeclarations, Columns: []Column{
			{"name", "TEXT"}, {"qualified_name", "TEXT"},
			{"access", "TEXT"}, {"storage", "TEXT"},
			{"is_definition", "INTEGER"}, {"namespace_path", "TEXT"},
		}},
		{Name: TableTypes, Columns: []Column{
			{"name", "TEXT"}, {"category", "TEXT"},
			{"is_const", "INTEGER"}, {"is_volatile", "INTEGER"},
		}},
		{Name: TableStatements, Columns: []Column{
			{"kind", "TEXT"}, {"control_flow", "TEXT"},
			{"has_side_effects", "INTEGER"}, {"is_compound", "INTEGER"},
		}},
		{Name: TableExpressions, Columns: []Column{
			{"kind", "TEXT"}, {"value_category", "TEXT"},
			{"literal_value", "TEXT"}, {"operator", "TEXT"},
			{"is_const_foldable", "INTEGER"},
		}},
		{Name: TableTemplateParams, Columns: []Column{
			{"name", "TEXT"}, {"param_kind", "TEXT"}, {"position", "INTEGER"},
		}},
		{Name: TableUsings, Columns: []Column{
			{"target_name", "TEXT"},
		}},
		{Name: TableMacros, Columns: []Column{
			{"name", "TEXT"}, {"is_function_like", "INTEGER"},
		}},
		{Name: TableIncludes, Columns: []Column{
			{"path", "TEXT"}, {"is_system", "INTEGER"},
		}},
		{Name: TablePragmas, Columns: []Column{
			{"directive", "TEXT"},
		}},
		{Name: TableComments, Columns: []Column{
			{"text", "TEXT"}, {"is_doc", "INTEGER"},
		}},
		{Name: TableConstEvals, Columns: []Column{
			{"result", "TEXT"},
		}},
		{Name: TableStaticAsserts, Columns: []Column{
			{"message", "TEXT"},
		}},
		{Name: TableCFGBlocks, Columns: []Column{
			{"block_index", "INTEGER"},
		}},
	}
}

// SchemaRelations returns the relationship tables in definition order.
func SchemaRelations() []RelTable {
	return []RelTable{
		{Name: RelParentOf, FromCol: "parent_id", ToCol: "child_id", Props: []Column{
			{"child_index", "INTEGER"}, {"child_kind", "TEXT"},
		}},
		{Name: RelHasType, FromCol: "decl_id", ToCol: "type_id", Props: []Column{
			{"role", "TEXT"},
		}},
		{Name: RelReferences, FromCol: "site_id", ToCol: "decl_id", Props: []Column{
			{"ref_kind", "TEXT"},
		}},
		{Name: RelInScope, FromCol: "node_id", ToCol: "scope_id"},
		{Name: RelInheritsFrom, FromCol: "derived_id", ToCol: "base_id", Props: []Column{
			{"access", "TEXT"}, {"is_virtual", "INTEGER"},
		}},
		{Name: RelOverrides, FromCol: "override_id", ToCol: "overridden_id"},
		{Name: RelSpecializes, FromCol: "spec_id", ToCol: "template_id", Props: []Column{
			{"spec_kind", "TEXT"},
		}},
		{Name: RelCFGFlow, FromCol: "from_id", ToCol: "to_id", Props: []Column{
			{"flow_kind", "TEXT"},
		}},
		{Name: RelDocuments, FromCol: "comment_id", ToCol: "decl_id"},
	}
}
