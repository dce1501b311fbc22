package frontend

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/ast"
)

// Extraction helpers shared by the prepass and the visit pass: declarator
// names, storage and qualifiers, type spellings, base clauses, doc comments.

const maxSnippet = 120

func locOf(n *tree_sitter.Node, file string) ast.Location {
	start := n.StartPosition()
	end := n.EndPosition()
	return ast.Location{
		File:      file,
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column) + 1,
		Valid:     true,
	}
}

// snippetOf is the first source line of a node, truncated.
func snippetOf(n *tree_sitter.Node, source []byte) string {
	text := nodeText(n, source)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if len(text) > maxSnippet {
		text = text[:maxSnippet]
	}
	return strings.TrimSpace(text)
}

// declaratorName walks a declarator subtree to the declared name. Qualified
// spellings (out-of-line member definitions) come back whole.
func declaratorName(n *tree_sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	switch n.Kind() {
	case "identifier", "field_identifier", "type_identifier",
		"destructor_name", "operator_name", "qualified_identifier":
		return nodeText(n, source)
	case "function_declarator", "pointer_declarator", "reference_declarator",
		"array_declarator", "init_declarator", "parenthesized_declarator":
		if d := n.ChildByFieldName("declarator"); d != nil {
			return declaratorName(d, source)
		}
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if name := declaratorName(n.NamedChild(i), source); name != "" {
			return name
		}
	}
	return ""
}

// hasFunctionDeclarator reports whether a declaration declares a callable.
func hasFunctionDeclarator(n *tree_sitter.Node) bool {
	d := n.ChildByFieldName("declarator")
	for d != nil {
		if d.Kind() == "function_declarator" {
			return true
		}
		d = d.ChildByFieldName("declarator")
	}
	return false
}

// functionDeclaratorOf returns the function_declarator in a declaration's
// declarator chain, or nil.
func functionDeclaratorOf(n *tree_sitter.Node) *tree_sitter.Node {
	d := n.ChildByFieldName("declarator")
	for d != nil {
		if d.Kind() == "function_declarator" {
			return d
		}
		d = d.ChildByFieldName("declarator")
	}
	return nil
}

// aliasName extracts the introduced name of an alias declaration or typedef.
func aliasName(n *tree_sitter.Node, source []byte) string {
	if name := fieldText(n, "name", source); name != "" {
		return name
	}
	return declaratorName(n.ChildByFieldName("declarator"), source)
}

// storageOf scans a declaration's storage-class specifiers.
func storageOf(n *tree_sitter.Node, source []byte) ast.Storage {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.Kind() != "storage_class_specifier" {
			continue
		}
		switch nodeText(c, source) {
		case "static":
			return ast.StorageStatic
		case "extern":
			return ast.StorageExtern
		case "register":
			return ast.StorageRegister
		}
	}
	return ast.StorageNone
}

// qualifiersOf scans a declaration's type qualifiers.
func qualifiersOf(n *tree_sitter.Node, source []byte) (constQ, volatileQ, constexprQ bool) {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.Kind() != "type_qualifier" {
			continue
		}
		switch nodeText(c, source) {
		case "const":
			constQ = true
		case "volatile":
			volatileQ = true
		case "constexpr", "consteval", "constinit":
			constexprQ = true
		}
	}
	return
}

// declaratorShape derives the pointer/reference/array suffix of the declared
// type from the declarator chain.
func declaratorShape(n *tree_sitter.Node) string {
	var suffix string
	d := n.ChildByFieldName("declarator")
	for d != nil {
		switch d.Kind() {
		case "pointer_declarator", "abstract_pointer_declarator":
			suffix += "*"
		case "reference_declarator", "abstract_reference_declarator":
			suffix += "&"
		case "array_declarator":
			suffix += "[]"
		}
		d = d.ChildByFieldName("declarator")
	}
	return suffix
}

// declTypeNode builds the type entity for a value declaration, or nil when
// the declaration has no type spelling.
func declTypeNode(n *tree_sitter.Node, source []byte) *ast.Node {
	typeNode := n.ChildByFieldName("type")
	if typeNode == nil {
		return nil
	}
	constQ, volatileQ, _ := qualifiersOf(n, source)
	name := nodeText(typeNode, source) + declaratorShape(n)
	return typeEntity(name, constQ, volatileQ)
}

// functionTypeNode builds the signature type entity for a callable.
func functionTypeNode(n *tree_sitter.Node, fnDecl *tree_sitter.Node, source []byte) *ast.Node {
	ret := "void"
	if typeNode := n.ChildByFieldName("type"); typeNode != nil {
		ret = nodeText(typeNode, source)
	}
	var params []string
	if fnDecl != nil {
		if list := fnDecl.ChildByFieldName("parameters"); list != nil {
			for i := uint(0); i < list.NamedChildCount(); i++ {
				p := list.NamedChild(i)
				if p.Kind() != "parameter_declaration" && p.Kind() != "optional_parameter_declaration" {
					continue
				}
				if t := p.ChildByFieldName("type"); t != nil {
					params = append(params, nodeText(t, source)+declaratorShape(p))
				}
			}
		}
	}
	info := &ast.TypeInfo{
		Name:     ret + "(" + strings.Join(params, ", ") + ")",
		Category: ast.TypeFunction,
	}
	return &ast.Node{Ref: typeRef(info), Kind: ast.KindType, Type: info}
}

// typeEntity builds a type cross-link node from a spelling.
func typeEntity(name string, constQ, volatileQ bool) *ast.Node {
	info := &ast.TypeInfo{
		Name:     name,
		Category: ast.ClassifyTypeName(name),
		Const:    constQ,
		Volatile: volatileQ,
	}
	return &ast.Node{Ref: typeRef(info), Kind: ast.KindType, Type: info}
}

// basesOf extracts the base list of a class definition. Unresolved base names
// still produce a target so the inheritance edge survives forward-declared or
// out-of-unit bases.
func basesOf(n *tree_sitter.Node, source []byte, st *symtab) []ast.BaseClause {
	clause := findChildKind(n, "base_class_clause")
	if clause == nil {
		return nil
	}
	var bases []ast.BaseClause
	access := ast.AccessPublic
	virtual := false
	for i := uint(0); i < clause.ChildCount(); i++ {
		c := clause.Child(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "access_specifier":
			access = parseAccess(nodeText(c, source))
			continue
		case "virtual":
			virtual = true
			continue
		case "type_identifier", "qualified_identifier", "template_type":
			name := baseSpelling(c, source)
			var target *ast.Node
			if sym, ok := st.resolve(name); ok {
				target = targetNode(sym)
			} else {
				target = targetNode(symbol{qn: name, kind: ast.KindClass})
			}
			bases = append(bases, ast.BaseClause{Base: target, Access: access, Virtual: virtual})
			access = ast.AccessPublic
			virtual = false
		}
	}
	return bases
}

// baseSpelling strips template arguments from a base name.
func baseSpelling(n *tree_sitter.Node, source []byte) string {
	if n.Kind() == "template_type" {
		if name := n.ChildByFieldName("name"); name != nil {
			return nodeText(name, source)
		}
	}
	text := nodeText(n, source)
	if i := strings.IndexByte(text, '<'); i >= 0 {
		text = text[:i]
	}
	return text
}

func parseAccess(text string) ast.Access {
	switch strings.TrimSpace(strings.TrimSuffix(text, ":")) {
	case "public":
		return ast.AccessPublic
	case "protected":
		return ast.AccessProtected
	case "private":
		return ast.AccessPrivate
	}
	return ast.AccessNone
}

func findChildKind(n *tree_sitter.Node, kind string) *tree_sitter.Node {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if c := n.NamedChild(i); c.Kind() == kind {
			return c
		}
	}
	return nil
}

// docCommentOf returns the documentation comment immediately preceding a
// declaration, or nil. For templated declarations the comment sits before the
// template wrapper.
func docCommentOf(n *tree_sitter.Node, source []byte, file string) *ast.Node {
	at := n
	if p := n.Parent(); p != nil && p.Kind() == "template_declaration" {
		at = p
	}
	prev := at.PrevNamedSibling()
	if prev == nil || prev.Kind() != "comment" {
		return nil
	}
	text := nodeText(prev, source)
	if !isDocComment(text) {
		return nil
	}
	if prev.EndPosition().Row+1 < at.StartPosition().Row {
		return nil
	}
	return &ast.Node{
		Ref:  posRef(file, prev.StartByte(), ast.KindComment),
		Kind: ast.KindComment,
		Loc:  locOf(prev, file),
		Aux:  &ast.AuxInfo{Text: text, IsDoc: true},
	}
}

// overriddenOf finds the method a virtual override shadows: same unqualified
// name, different qualified path, method kind. Syntactic, first match.
func overriddenOf(name string, ownQN string, st *symtab) []*ast.Node {
	leaf := name
	if i := strings.LastIndex(leaf, "::"); i >= 0 {
		leaf = leaf[i+2:]
	}
	for _, sym := range st.byName[leaf] {
		if sym.qn != ownQN && sym.kind == ast.KindMethod {
			return []*ast.Node{targetNode(sym)}
		}
	}
	return nil
}

// hasVirtualSpecifier reports whether a callable declaration carries the
// given specifier spelling ("override", "final").
func hasVirtualSpecifier(n *tree_sitter.Node, source []byte, spelling string) bool {
	fn := functionDeclaratorOf(n)
	if fn == nil {
		return false
	}
	for i := uint(0); i < fn.NamedChildCount(); i++ {
		c := fn.NamedChild(i)
		if c.Kind() == "virtual_specifier" && nodeText(c, source) == spelling {
			return true
		}
	}
	return false
}

// literalValueOf returns the literal text of an initializer value when the
// value is a plain literal, for constant-evaluation capture.
func literalValueOf(n *tree_sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	switch n.Kind() {
	case "number_literal", "char_literal", "string_literal", "true", "false", "nullptr":
		return nodeText(n, source)
	}
	return ""
}
