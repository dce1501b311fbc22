package engine

import (
	"strings"

	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/ast"
)

// The entity mapper is a set of pure extraction functions: one visited node
// in, one base row plus zero or more specialized rows out. Nothing here
// mutates registry or traversal state; only the orchestrator does that.

// facetRow is one specialized-entity row produced for a node.
type facetRow struct {
	facet Facet
	table string
	args  []any
}

// facetBuilder maps a node onto one specialized table. enclosing is the
// current scope chain, outermost first, used for qualified-name resolution.
type facetBuilder func(n *ast.Node, enclosing []ScopeName) *facetRow

// baseArgs extracts the base-entity row shared by all syntax nodes.
func baseArgs(n *ast.Node) []any {
	loc := n.Loc
	if !loc.Valid {
		loc = ast.Location{}
	}
	return []any{
		n.Kind.String(), loc.File,
		loc.StartLine, loc.StartCol, loc.EndLine, loc.EndCol,
		boolInt(n.Implicit), n.Snippet,
	}
}

// qualifiedName resolves a declaration's scope-separated path by walking the
// enclosing-scope declarations and appending the node's own name. A name
// pre-resolved by the front end (for targets reached outside the traversal)
// wins.
func qualifiedName(n *ast.Node, enclosing []ScopeName) string {
	if n.Decl != nil && n.Decl.QualifiedName != "" {
		return n.Decl.QualifiedName
	}
	parts := make([]string, 0, len(enclosing)+1)
	for _, s := range enclosing {
		if s.Name != "" {
			parts = append(parts, s.Name)
		}
	}
	if name := n.Name(); name != "" {
		parts = append(parts, name)
	}
	return strings.Join(parts, "::")
}

// namespacePath is the enclosing-namespace chain only, ignoring records and
// functions.
func namespacePath(enclosing []ScopeName) string {
	var parts []string
	for _, s := range enclosing {
		if s.Kind == ast.KindNamespace && s.Name != "" {
			parts = append(parts, s.Name)
		}
	}
	return strings.Join(parts, "::")
}

// isDefinition is the per-kind definition predicate: functions need a body,
// variables and fields an initializer-bound storage, tags and namespaces a
// defining occurrence. Kinds without a declaration/definition split count as
// definitions.
func isDefinition(n *ast.Node) bool {
	d := n.Decl
	if d == nil {
		return false
	}
	switch {
	case n.Kind.IsFunctionLike():
		return d.HasBody
	case n.Kind == ast.KindVariable || n.Kind == ast.KindField:
		return d.HasInitializer
	case n.Kind.IsRecord() || n.Kind == ast.KindEnum || n.Kind == ast.KindNamespace:
		return d.Defining
	}
	return true
}

func declarationFacet(n *ast.Node, enclosing []ScopeName) *facetRow {
	d := n.Decl
	if d == nil {
		return nil
	}
	access := d.Access
	if access == "" {
		access = ast.AccessNone
	}
	storage := d.Storage
	if storage == "" {
		storage = ast.StorageNone
	}
	return &facetRow{
		facet: FacetDeclaration,
		table: TableDeclarations,
		args: []any{
			d.Name, qualifiedName(n, enclosing),
			string(access), string(storage),
			boolInt(isDefinition(n)), namespacePath(enclosing),
		},
	}
}

func typeFacet(n *ast.Node, _ []ScopeName) *facetRow {
	t := n.Type
	if t == nil {
		return nil
	}
	category := t.Category
	if !validTypeCategory(category) {
		category = ast.TypeUserDefined
	}
	return &facetRow{
		facet: FacetType,
		table: TableTypes,
		args:  []any{t.Name, string(category), boolInt(t.Const), boolInt(t.Volatile)},
	}
}

func validTypeCategory(c ast.TypeCategory) bool {
	switch c {
	case ast.TypeBuiltin, ast.TypePointer, ast.TypeReference, ast.TypeArray,
		ast.TypeFunction, ast.TypeRecord, ast.TypeEnum, ast.TypeTemplateParam,
		ast.TypeUserDefined:
		return true
	}
	return false
}

func statementFacet(n *ast.Node, _ []ScopeName) *facetRow {
	sideEffects := false
	if n.Stmt != nil {
		sideEffects = n.Stmt.ExprKind.HasSideEffects()
	}
	return &facetRow{
		facet: FacetStatement,
		table: TableStatements,
		args: []any{
			n.Kind.String(), n.Kind.ControlFlow(),
			boolInt(sideEffects), boolInt(n.Kind == ast.KindCompoundStmt),
		},
	}
}

func expressionFacet(n *ast.Node, _ []ScopeName) *facetRow {
	var valueCat, literal, operator string
	if n.Expr != nil {
		valueCat = n.Expr.ValueCategory
		literal = n.Expr.Literal
		operator = n.Expr.Operator
	}
	if valueCat == "" {
		valueCat = "prvalue"
	}
	// Constant-foldability is a conservative under-approximation: literal
	// expression kinds only, not full constant evaluation.
	return &facetRow{
		facet: FacetExpression,
		table: TableExpressions,
		args:  []any{n.Kind.String(), valueCat, literal, operator, boolInt(n.Kind.IsLiteral())},
	}
}

func templateParamFacet(n *ast.Node, _ []ScopeName) *facetRow {
	a := auxOf(n)
	return &facetRow{
		facet: FacetTemplateParam,
		table: TableTemplateParams,
		args:  []any{a.Name, a.ParamKind, a.Position},
	}
}

func usingFacet(n *ast.Node, _ []ScopeName) *facetRow {
	return &facetRow{
		facet: FacetUsing,
		table: TableUsings,
		args:  []any{auxOf(n).TargetName},
	}
}

func macroFacet(n *ast.Node, _ []ScopeName) *facetRow {
	a := auxOf(n)
	return &facetRow{
		facet: FacetMacro,
		table: TableMacros,
		args:  []any{a.Name, boolInt(a.IsFunctionLike)},
	}
}

func includeFacet(n *ast.Node, _ []ScopeName) *facetRow {
	a := auxOf(n)
	return &facetRow{
		facet: FacetInclude,
		table: TableIncludes,
		args:  []any{a.Path, boolInt(a.IsSystem)},
	}
}

func pragmaFacet(n *ast.Node, _ []ScopeName) *facetRow {
	return &facetRow{
		facet: FacetPragma,
		table: TablePragmas,
		args:  []any{auxOf(n).Directive},
	}
}

func commentFacet(n *ast.Node, _ []ScopeName) *facetRow {
	a := auxOf(n)
	return &facetRow{
		facet: FacetComment,
		table: TableComments,
		args:  []any{a.Text, boolInt(a.IsDoc)},
	}
}

func constEvalFacet(n *ast.Node, _ []ScopeName) *facetRow {
	a := auxOf(n)
	if a.Result == "" {
		return nil
	}
	return &facetRow{
		facet: FacetConstEval,
		table: TableConstEvals,
		args:  []any{a.Result},
	}
}

func staticAssertFacet(n *ast.Node, _ []ScopeName) *facetRow {
	return &facetRow{
		facet: FacetStaticAssert,
		table: TableStaticAsserts,
		args:  []any{auxOf(n).Message},
	}
}

func cfgBlockFacet(n *ast.Node, _ []ScopeName) *facetRow {
	a := n.Aux
	if a == nil {
		return nil
	}
	return &facetRow{
		facet: FacetCFGBlock,
		table: TableCFGBlocks,
		args:  []any{a.BlockIndex},
	}
}

func auxOf(n *ast.Node) *ast.AuxInfo {
	if n.Aux != nil {
		return n.Aux
	}
	return &ast.AuxInfo{}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// facetsFor returns the specialized-row builders for a node kind. Most kinds
// carry a single facet; compound statements additionally carry a CFG block
// facet, and constexpr declarations a constant-evaluation facet.
func facetsFor(n *ast.Node) []facetBuilder {
	k := n.Kind
	switch {
	case k.IsDeclaration():
		builders := []facetBuilder{declarationFacet}
		if n.Aux != nil && n.Aux.Result != "" {
			builders = append(builders, constEvalFacet)
		}
		return builders
	case k == ast.KindType:
		return []facetBuilder{typeFacet}
	case k.IsStatement():
		builders := []facetBuilder{statementFacet}
		if k == ast.KindCompoundStmt && n.Aux != nil {
			builders = append(builders, cfgBlockFacet)
		}
		return builders
	case k.IsExpression():
		return []facetBuilder{expressionFacet}
	}
	switch k {
	case ast.KindTemplateParam:
		return []facetBuilder{templateParamFacet}
	case ast.KindUsingDecl:
		return []facetBuilder{usingFacet}
	case ast.KindMacro:
		return []facetBuilder{macroFacet}
	case ast.KindInclude:
		return []facetBuilder{includeFacet}
	case ast.KindPragma:
		return []facetBuilder{pragmaFacet}
	case ast.KindComment:
		return []facetBuilder{commentFacet}
	case ast.KindStaticAssert:
		return []facetBuilder{staticAssertFacet}
	case ast.KindConstEval:
		return []facetBuilder{constEvalFacet}
	case ast.KindCFGBlock:
		return []facetBuilder{cfgBlockFacet}
	}
	return nil
}
