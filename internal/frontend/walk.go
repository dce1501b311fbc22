package frontend

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/ast"
)

// Event is one step of the depth-first node stream: an enter for a mapped
// node, or the matching leave.
type Event struct {
	Node  *ast.Node
	Leave bool
}

// Unit is one fully converted translation unit, ready for ingestion.
type Unit struct {
	Path   string
	Hash   uint64
	Events []Event
}

// ParseUnit parses one C++ source file and converts it into the engine's
// event stream. A synthesized translation-unit node roots the stream.
func ParseUnit(path string, source []byte) (*Unit, error) {
	tree, err := parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	w := &walker{
		path:   path,
		source: source,
		syms:   collectSymbols(tree.RootNode(), source),
	}
	w.run(tree.RootNode())
	return &Unit{Path: path, Hash: HashSource(source), Events: w.events}, nil
}

type walker struct {
	path   string
	source []byte
	syms   *symtab

	scopePath []scopeSeg   // mirrors the engine's scope stack for ref derivation
	access    []ast.Access // current member-access region per enclosing record
	blockIdx  int
	events    []Event
}

// walkItem is one frame of the explicit traversal stack: either a parse-tree
// node to enter, or the bookkeeping to run after its subtree.
type walkItem struct {
	node      *tree_sitter.Node
	leave     *ast.Node
	popScope  bool
	popAccess bool
}

func (w *walker) run(root *tree_sitter.Node) {
	tu := w.unitNode(root)
	w.events = append(w.events, Event{Node: tu})
	w.walkChildren(root)
	w.events = append(w.events, Event{Node: tu, Leave: true})
}

// walkChildren drives the conversion with an explicit stack: recursion depth
// in pathological sources (deep expression chains, generated code) must not
// translate into goroutine stack depth.
func (w *walker) walkChildren(root *tree_sitter.Node) {
	var stack []walkItem
	for i := root.NamedChildCount(); i > 0; i-- {
		stack = append(stack, walkItem{node: root.NamedChild(i - 1)})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if it.node == nil {
			if it.leave != nil {
				w.events = append(w.events, Event{Node: it.leave, Leave: true})
			}
			if it.popScope {
				w.scopePath = w.scopePath[:len(w.scopePath)-1]
			}
			if it.popAccess {
				w.access = w.access[:len(w.access)-1]
			}
			continue
		}

		n := it.node
		tsKind := n.Kind()

		// Access labels rewrite the current region and vanish.
		if tsKind == "access_specifier" {
			if len(w.access) > 0 {
				w.access[len(w.access)-1] = parseAccess(nodeText(n, w.source))
			}
			continue
		}

		an := w.convert(n)
		var post walkItem
		if an != nil {
			w.events = append(w.events, Event{Node: an})
			post.leave = an
			if an.Kind.IsScope() && an.Name() != "" {
				w.scopePath = append(w.scopePath, scopeSeg{name: an.Name(), record: an.Kind.IsRecord()})
				post.popScope = true
			}
			if an.Kind.IsRecord() {
				w.access = append(w.access, defaultAccess(an.Kind))
				post.popAccess = true
			}
			stack = append(stack, post)
		}
		if !noRecurse[tsKind] {
			for i := n.NamedChildCount(); i > 0; i-- {
				stack = append(stack, walkItem{node: n.NamedChild(i - 1)})
			}
		}
	}
}

// convert maps one parse-tree node to an engine node, or nil for transparent
// kinds whose children are still traversed.
func (w *walker) convert(n *tree_sitter.Node) *ast.Node {
	tsKind := n.Kind()
	switch tsKind {
	case "namespace_definition":
		return w.namespaceNode(n)
	case "class_specifier", "struct_specifier", "union_specifier":
		return w.recordNode(n)
	case "enum_specifier":
		return w.enumNode(n)
	case "enumerator":
		return w.enumeratorNode(n)
	case "function_definition":
		return w.callableNode(n, true)
	case "declaration":
		if hasFunctionDeclarator(n) {
			return w.callableNode(n, false)
		}
		return w.variableNode(n, ast.KindVariable)
	case "field_declaration":
		if hasFunctionDeclarator(n) {
			return w.callableNode(n, false)
		}
		return w.variableNode(n, ast.KindField)
	case "parameter_declaration", "optional_parameter_declaration", "variadic_parameter_declaration":
		if p := n.Parent(); p != nil && p.Kind() == "template_parameter_list" {
			return w.templateParamNode(n, "non_type")
		}
		return w.parameterNode(n)
	case "type_parameter_declaration", "optional_type_parameter_declaration":
		return w.templateParamNode(n, "type")
	case "template_template_parameter_declaration":
		return w.templateParamNode(n, "template")
	case "template_declaration":
		return w.templateDeclNode(n)
	case "alias_declaration", "type_definition":
		return w.aliasNode(n)
	case "using_declaration":
		return w.usingNode(n)
	case "preproc_include":
		return w.includeNode(n)
	case "preproc_def", "preproc_function_def":
		return w.macroNode(n)
	case "preproc_call":
		return w.pragmaNode(n)
	case "comment":
		return w.commentNode(n)
	case "static_assert_declaration":
		return w.staticAssertNode(n)
	case "case_statement":
		kind := ast.KindCaseStmt
		if c := n.Child(0); c != nil && nodeText(c, w.source) == "default" {
			kind = ast.KindDefaultStmt
		}
		return w.statementNode(n, kind)
	case "number_literal":
		return w.expressionNode(n, numberLiteralKind(nodeText(n, w.source)))
	case "identifier", "qualified_identifier":
		return w.useSiteNode(n)
	}
	if kind, ok := stmtKinds[tsKind]; ok {
		return w.statementNode(n, kind)
	}
	if kind, ok := exprKinds[tsKind]; ok {
		return w.expressionNode(n, kind)
	}
	return nil
}

// basic builds the positional skeleton shared by every converted node.
func (w *walker) basic(n *tree_sitter.Node, kind ast.Kind) *ast.Node {
	return &ast.Node{
		Ref:     posRef(w.path, n.StartByte(), kind),
		Kind:    kind,
		Loc:     locOf(n, w.path),
		Snippet: snippetOf(n, w.source),
	}
}

// qpath joins the current scope path with a declared name, mirroring the
// qualified name the engine derives from its scope chain.
func (w *walker) qpath(name string) string {
	return joinSegs(w.scopePath, name)
}

func (w *walker) currentAccess() ast.Access {
	if len(w.access) == 0 {
		return ""
	}
	return w.access[len(w.access)-1]
}

func defaultAccess(kind ast.Kind) ast.Access {
	if kind == ast.KindClass {
		return ast.AccessPrivate
	}
	return ast.AccessPublic
}

func (w *walker) unitNode(root *tree_sitter.Node) *ast.Node {
	return &ast.Node{
		Ref:  posRef(w.path, 0, ast.KindTranslationUnit),
		Kind: ast.KindTranslationUnit,
		Loc:  locOf(root, w.path),
		Decl: &ast.DeclInfo{QualifiedName: w.path, Defining: true},
	}
}

func (w *walker) namespaceNode(n *tree_sitter.Node) *ast.Node {
	name := fieldText(n, "name", w.source)
	node := w.basic(n, ast.KindNamespace)
	if name != "" {
		node.Ref = declRef(ast.KindNamespace, w.qpath(name))
	}
	node.Decl = &ast.DeclInfo{Name: name, Defining: true}
	node.DocComment = docCommentOf(n, w.source, w.path)
	return node
}

func (w *walker) recordNode(n *tree_sitter.Node) *ast.Node {
	kind := recordKind(n.Kind())
	node := w.basic(n, kind)

	spelled := ""
	nameNode := n.ChildByFieldName("name")
	if nameNode != nil {
		spelled = nodeText(nameNode, w.source)
	}
	defining := findChildKind(n, "field_declaration_list") != nil

	node.Decl = &ast.DeclInfo{
		Name:     spelled,
		Access:   w.currentAccess(),
		Defining: defining,
	}
	if spelled != "" {
		node.Ref = declRef(kind, w.qpath(spelled))
	}

	// A template_type name marks a specialization of a primary template.
	if nameNode != nil && nameNode.Kind() == "template_type" {
		primary := baseSpelling(nameNode, w.source)
		node.Decl.QualifiedName = w.qpath(spelled)
		if sym, ok := w.syms.resolve(primary); ok {
			node.Template = targetNode(sym)
		} else {
			node.Template = targetNode(symbol{qn: w.qpath(primary), kind: kind})
		}
		node.TemplateKind = specializationKind(n)
	}

	if defining {
		node.Bases = basesOf(n, w.source, w.syms)
	}
	node.DocComment = docCommentOf(n, w.source, w.path)
	return node
}

// specializationKind distinguishes full from partial specializations by the
// wrapping template parameter list.
func specializationKind(n *tree_sitter.Node) string {
	p := n.Parent()
	if p == nil || p.Kind() != "template_declaration" {
		return "instantiation"
	}
	if params := p.ChildByFieldName("parameters"); params != nil && params.NamedChildCount() > 0 {
		return "partial_specialization"
	}
	return "explicit_specialization"
}

func (w *walker) enumNode(n *tree_sitter.Node) *ast.Node {
	node := w.basic(n, ast.KindEnum)
	name := fieldText(n, "name", w.source)
	if name != "" {
		node.Ref = declRef(ast.KindEnum, w.qpath(name))
	}
	node.Decl = &ast.DeclInfo{
		Name:     name,
		Access:   w.currentAccess(),
		Defining: findChildKind(n, "enumerator_list") != nil,
	}
	node.DocComment = docCommentOf(n, w.source, w.path)
	return node
}

func (w *walker) enumeratorNode(n *tree_sitter.Node) *ast.Node {
	name := fieldText(n, "name", w.source)
	if name == "" {
		return nil
	}
	node := w.basic(n, ast.KindEnumerator)
	node.Ref = declRef(ast.KindEnumerator, w.qpath(name))
	node.Decl = &ast.DeclInfo{
		Name:           name,
		HasInitializer: n.ChildByFieldName("value") != nil,
	}
	return node
}

func (w *walker) callableNode(n *tree_sitter.Node, hasBody bool) *ast.Node {
	name := declaratorName(n.ChildByFieldName("declarator"), w.source)
	if name == "" {
		return nil
	}
	kind := callableKind(name, w.scopePath)
	qn := w.qpath(name)

	node := w.basic(n, kind)
	node.Ref = declRef(kind, qn)
	node.Decl = &ast.DeclInfo{
		Name:    name,
		Access:  w.currentAccess(),
		Storage: storageOf(n, w.source),
		HasBody: hasBody,
	}
	// Out-of-line definitions spell their owner; the leaf is the name and the
	// qualified path is pre-resolved since the lexical scope chain differs.
	if i := strings.LastIndex(name, "::"); i >= 0 {
		node.Decl.Name = name[i+2:]
		node.Decl.QualifiedName = qn
	}

	node.DeclType = functionTypeNode(n, functionDeclaratorOf(n), w.source)
	if hasVirtualSpecifier(n, w.source, "override") {
		node.Overridden = overriddenOf(name, qn, w.syms)
	}
	node.DocComment = docCommentOf(n, w.source, w.path)
	return node
}

func (w *walker) variableNode(n *tree_sitter.Node, kind ast.Kind) *ast.Node {
	name := declaratorName(n.ChildByFieldName("declarator"), w.source)
	if name == "" {
		// A bare type declaration (`class Foo;`): the specifier inside is the
		// node that matters.
		return nil
	}
	node := w.basic(n, kind)
	node.Ref = declRef(kind, w.qpath(name))

	var initValue *tree_sitter.Node
	hasInit := false
	if d := findChildKind(n, "init_declarator"); d != nil {
		if v := d.ChildByFieldName("value"); v != nil {
			hasInit = true
			initValue = v
		}
	}
	if v := n.ChildByFieldName("default_value"); v != nil {
		hasInit = true
		initValue = v
	}

	access := ast.Access("")
	if kind == ast.KindField {
		access = w.currentAccess()
	}
	node.Decl = &ast.DeclInfo{
		Name:           name,
		Access:         access,
		Storage:        storageOf(n, w.source),
		HasInitializer: hasInit,
	}
	node.DeclType = declTypeNode(n, w.source)

	if _, _, constexprQ := qualifiersOf(n, w.source); constexprQ {
		if lit := literalValueOf(initValue, w.source); lit != "" {
			node.Aux = &ast.AuxInfo{Result: lit}
		}
	}
	node.DocComment = docCommentOf(n, w.source, w.path)
	return node
}

func (w *walker) parameterNode(n *tree_sitter.Node) *ast.Node {
	node := w.basic(n, ast.KindParameter)
	node.Decl = &ast.DeclInfo{
		Name: declaratorName(n.ChildByFieldName("declarator"), w.source),
	}
	node.DeclType = declTypeNode(n, w.source)
	return node
}

func (w *walker) templateParamNode(n *tree_sitter.Node, paramKind string) *ast.Node {
	name := ""
	switch paramKind {
	case "type", "template":
		if id := findChildKind(n, "type_identifier"); id != nil {
			name = nodeText(id, w.source)
		}
	default:
		name = declaratorName(n.ChildByFieldName("declarator"), w.source)
	}
	pos := 0
	if p := n.Parent(); p != nil {
		for i := uint(0); i < p.NamedChildCount(); i++ {
			if p.NamedChild(i).StartByte() == n.StartByte() {
				pos = int(i)
				break
			}
		}
	}
	node := w.basic(n, ast.KindTemplateParam)
	node.Aux = &ast.AuxInfo{Name: name, ParamKind: paramKind, Position: pos}
	return node
}

func (w *walker) templateDeclNode(n *tree_sitter.Node) *ast.Node {
	name := ""
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		switch c.Kind() {
		case "class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
			name = fieldText(c, "name", w.source)
		case "function_definition", "declaration":
			name = declaratorName(c.ChildByFieldName("declarator"), w.source)
		case "alias_declaration":
			name = fieldText(c, "name", w.source)
		}
		if name != "" {
			break
		}
	}
	node := w.basic(n, ast.KindTemplateDecl)
	if name != "" {
		node.Ref = declRef(ast.KindTemplateDecl, w.qpath(name))
	}
	node.Decl = &ast.DeclInfo{Name: name, Defining: true}
	node.DocComment = docCommentOf(n, w.source, w.path)
	return node
}

func (w *walker) aliasNode(n *tree_sitter.Node) *ast.Node {
	name := aliasName(n, w.source)
	if name == "" {
		return nil
	}
	node := w.basic(n, ast.KindTypeAlias)
	node.Ref = declRef(ast.KindTypeAlias, w.qpath(name))
	node.Decl = &ast.DeclInfo{Name: name}
	if t := n.ChildByFieldName("type"); t != nil {
		constQ, volatileQ, _ := qualifiersOf(n, w.source)
		node.DeclType = typeEntity(nodeText(t, w.source), constQ, volatileQ)
	}
	node.DocComment = docCommentOf(n, w.source, w.path)
	return node
}

func (w *walker) usingNode(n *tree_sitter.Node) *ast.Node {
	target := ""
	if c := n.NamedChild(0); c != nil {
		target = nodeText(c, w.source)
	}
	node := w.basic(n, ast.KindUsingDecl)
	node.Aux = &ast.AuxInfo{TargetName: target}
	return node
}

func (w *walker) includeNode(n *tree_sitter.Node) *ast.Node {
	raw := fieldText(n, "path", w.source)
	if raw == "" {
		return nil
	}
	node := w.basic(n, ast.KindInclude)
	node.Aux = &ast.AuxInfo{
		Path:     strings.Trim(raw, `<>"`),
		IsSystem: strings.HasPrefix(raw, "<"),
	}
	return node
}

func (w *walker) macroNode(n *tree_sitter.Node) *ast.Node {
	name := fieldText(n, "name", w.source)
	if name == "" {
		return nil
	}
	node := w.basic(n, ast.KindMacro)
	node.Ref = declRef(ast.KindMacro, name)
	node.Aux = &ast.AuxInfo{
		Name:           name,
		IsFunctionLike: n.Kind() == "preproc_function_def",
	}
	return node
}

func (w *walker) pragmaNode(n *tree_sitter.Node) *ast.Node {
	if fieldText(n, "directive", w.source) != "#pragma" {
		return nil
	}
	node := w.basic(n, ast.KindPragma)
	node.Aux = &ast.AuxInfo{
		Directive: strings.TrimSpace(fieldText(n, "argument", w.source)),
	}
	return node
}

func (w *walker) commentNode(n *tree_sitter.Node) *ast.Node {
	text := nodeText(n, w.source)
	node := w.basic(n, ast.KindComment)
	node.Aux = &ast.AuxInfo{Text: text, IsDoc: isDocComment(text)}
	return node
}

func (w *walker) staticAssertNode(n *tree_sitter.Node) *ast.Node {
	node := w.basic(n, ast.KindStaticAssert)
	node.Aux = &ast.AuxInfo{
		Message: strings.Trim(fieldText(n, "message", w.source), `"`),
	}
	return node
}

func (w *walker) statementNode(n *tree_sitter.Node, kind ast.Kind) *ast.Node {
	node := w.basic(n, kind)
	switch kind {
	case ast.KindExprStmt:
		node.Stmt = &ast.StmtInfo{ExprKind: w.exprKindOf(n.NamedChild(0))}
	case ast.KindCompoundStmt:
		node.Aux = &ast.AuxInfo{BlockIndex: w.blockIdx}
		w.blockIdx++
	}
	return node
}

// exprKindOf classifies the wrapped expression of an expression statement.
func (w *walker) exprKindOf(n *tree_sitter.Node) ast.Kind {
	if n == nil {
		return ast.KindUnknown
	}
	switch n.Kind() {
	case "number_literal":
		return numberLiteralKind(nodeText(n, w.source))
	case "identifier", "qualified_identifier":
		return ast.KindDeclRefExpr
	}
	if kind, ok := exprKinds[n.Kind()]; ok {
		return kind
	}
	return ast.KindUnknown
}

func (w *walker) expressionNode(n *tree_sitter.Node, kind ast.Kind) *ast.Node {
	node := w.basic(n, kind)
	info := &ast.ExprInfo{
		Operator: fieldText(n, "operator", w.source),
	}
	switch {
	case kind.IsLiteral():
		info.Literal = nodeText(n, w.source)
	case kind == ast.KindMemberExpr || kind == ast.KindSubscriptExpr:
		info.ValueCategory = "lvalue"
	}
	node.Expr = info

	if kind == ast.KindCallExpr {
		if fn := n.ChildByFieldName("function"); fn != nil {
			if sym, ok := w.syms.resolve(calleeName(fn, w.source)); ok {
				node.Target = targetNode(sym)
				node.TargetKind = ast.RefCalls
			}
		}
	}
	return node
}

// calleeName extracts the called spelling from a call's function child.
func calleeName(n *tree_sitter.Node, source []byte) string {
	switch n.Kind() {
	case "identifier", "qualified_identifier":
		return nodeText(n, source)
	case "field_expression":
		if f := n.ChildByFieldName("field"); f != nil {
			return nodeText(f, source)
		}
	case "template_function":
		if name := n.ChildByFieldName("name"); name != nil {
			return nodeText(name, source)
		}
	}
	return ""
}

// useSiteNode emits a name-use expression for identifiers in value position.
// Identifiers elsewhere (declarators, type spellings) convert to nothing.
func (w *walker) useSiteNode(n *tree_sitter.Node) *ast.Node {
	p := n.Parent()
	if p == nil || !useSiteParents[p.Kind()] {
		return nil
	}
	// In an init declarator only the value side is a use.
	if p.Kind() == "init_declarator" {
		if d := p.ChildByFieldName("declarator"); d != nil && d.StartByte() == n.StartByte() {
			return nil
		}
	}
	node := w.basic(n, ast.KindDeclRefExpr)
	node.Expr = &ast.ExprInfo{ValueCategory: "lvalue"}
	if sym, ok := w.syms.resolve(nodeText(n, w.source)); ok {
		node.Target = targetNode(sym)
		node.TargetKind = ast.RefUses
	}
	return node
}
