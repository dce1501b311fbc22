package frontend

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/ast"
)

// Per-unit name resolution. A symbol-collection prepass walks the parse tree
// once and records every nameable declaration under its scope-qualified path;
// the visit pass then resolves call and name-use sites against it. Resolution
// is intentionally syntactic: no overload selection, no using-directive
// lookup. An unresolved name produces no reference edge.

type symbol struct {
	qn   string
	kind ast.Kind
}

type symtab struct {
	byQN   map[string]symbol
	byName map[string][]symbol
}

func newSymtab() *symtab {
	return &symtab{
		byQN:   make(map[string]symbol),
		byName: make(map[string][]symbol),
	}
}

func (st *symtab) add(qn string, kind ast.Kind) {
	if qn == "" {
		return
	}
	if _, ok := st.byQN[qn]; !ok {
		st.byQN[qn] = symbol{qn: qn, kind: kind}
	}
	name := qn
	if i := strings.LastIndex(qn, "::"); i >= 0 {
		name = qn[i+2:]
	}
	st.byName[name] = append(st.byName[name], symbol{qn: qn, kind: kind})
}

// resolve maps a (possibly qualified) spelling to a collected symbol.
func (st *symtab) resolve(name string) (symbol, bool) {
	name = strings.TrimPrefix(name, "::")
	if name == "" {
		return symbol{}, false
	}
	if sym, ok := st.byQN[name]; ok {
		return sym, true
	}
	if strings.Contains(name, "::") {
		return symbol{}, false
	}
	if syms := st.byName[name]; len(syms) > 0 {
		return syms[0], true
	}
	return symbol{}, false
}

// targetNode builds the cross-link node for a resolved symbol. The qualified
// name is pre-filled so on-demand materialization does not depend on the use
// site's scope chain.
func targetNode(sym symbol) *ast.Node {
	leaf := sym.qn
	if i := strings.LastIndex(leaf, "::"); i >= 0 {
		leaf = leaf[i+2:]
	}
	return &ast.Node{
		Ref:  declRef(sym.kind, sym.qn),
		Kind: sym.kind,
		Decl: &ast.DeclInfo{Name: leaf, QualifiedName: sym.qn},
	}
}

// scopeSeg is one segment of the prepass scope path. Whether the segment is a
// record decides how bare member callables classify.
type scopeSeg struct {
	name   string
	record bool
}

func joinSegs(path []scopeSeg, name string) string {
	parts := make([]string, 0, len(path)+1)
	for _, s := range path {
		parts = append(parts, s.name)
	}
	parts = append(parts, name)
	return strings.Join(parts, "::")
}

// collectSymbols runs the prepass over one parse tree.
func collectSymbols(root *tree_sitter.Node, source []byte) *symtab {
	st := newSymtab()
	collectInto(st, root, source, nil)
	return st
}

func collectInto(st *symtab, n *tree_sitter.Node, source []byte, path []scopeSeg) {
	if n == nil {
		return
	}
	descendPath := path

	switch n.Kind() {
	case "namespace_definition":
		name := fieldText(n, "name", source)
		if name != "" {
			st.add(joinSegs(path, name), ast.KindNamespace)
			descendPath = appendSeg(path, name, false)
		}
	case "class_specifier", "struct_specifier", "union_specifier":
		name := fieldText(n, "name", source)
		if name != "" {
			st.add(joinSegs(path, name), recordKind(n.Kind()))
			descendPath = appendSeg(path, name, true)
		}
	case "enum_specifier":
		name := fieldText(n, "name", source)
		if name != "" {
			st.add(joinSegs(path, name), ast.KindEnum)
			descendPath = appendSeg(path, name, false)
		}
	case "enumerator":
		if name := fieldText(n, "name", source); name != "" {
			st.add(joinSegs(path, name), ast.KindEnumerator)
		}
		return
	case "function_definition":
		if name := declaratorName(n.ChildByFieldName("declarator"), source); name != "" {
			st.add(joinSegs(path, name), callableKind(name, path))
		}
		// Locals stay out of the table; descend no further.
		return
	case "declaration", "field_declaration":
		name := declaratorName(n.ChildByFieldName("declarator"), source)
		if name == "" {
			return
		}
		kind := ast.KindVariable
		if n.Kind() == "field_declaration" {
			kind = ast.KindField
		}
		if hasFunctionDeclarator(n) {
			kind = callableKind(name, path)
		}
		st.add(joinSegs(path, name), kind)
		return
	case "alias_declaration", "type_definition":
		if name := aliasName(n, source); name != "" {
			st.add(joinSegs(path, name), ast.KindTypeAlias)
		}
		return
	case "preproc_def", "preproc_function_def":
		if name := fieldText(n, "name", source); name != "" {
			st.add(name, ast.KindMacro)
		}
		return
	}

	for i := uint(0); i < n.NamedChildCount(); i++ {
		collectInto(st, n.NamedChild(i), source, descendPath)
	}
}

func appendSeg(path []scopeSeg, name string, record bool) []scopeSeg {
	out := make([]scopeSeg, len(path), len(path)+1)
	copy(out, path)
	return append(out, scopeSeg{name: name, record: record})
}

func recordKind(tsKind string) ast.Kind {
	switch tsKind {
	case "struct_specifier":
		return ast.KindStruct
	case "union_specifier":
		return ast.KindUnion
	}
	return ast.KindClass
}

// callableKind classifies a callable by its spelling relative to its owner:
// the owning record's own name is a constructor, ~name a destructor, any
// other record member a method, everything else a free function. The owner
// comes from a qualified spelling (out-of-line definition) or from the
// enclosing record on the prepass path.
func callableKind(name string, path []scopeSeg) ast.Kind {
	segs := strings.Split(name, "::")
	leaf := segs[len(segs)-1]
	owner := ""
	ownerIsRecord := false
	if len(segs) > 1 {
		owner = segs[len(segs)-2]
		ownerIsRecord = true // a qualified callable spelling names its record
	} else if len(path) > 0 && path[len(path)-1].record {
		owner = path[len(path)-1].name
		ownerIsRecord = true
	}
	switch {
	case !ownerIsRecord:
		return ast.KindFunction
	case leaf == owner:
		return ast.KindConstructor
	case strings.HasPrefix(leaf, "~"):
		return ast.KindDestructor
	default:
		return ast.KindMethod
	}
}

func fieldText(n *tree_sitter.Node, field string, source []byte) string {
	c := n.ChildByFieldName(field)
	if c == nil {
		return ""
	}
	return nodeText(c, source)
}
