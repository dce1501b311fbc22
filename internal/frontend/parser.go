// Package frontend parses C++ sources with tree-sitter and converts the
// parse tree into the engine's syntax-node stream: one enter/leave event pair
// per mapped node, in depth-first order.
package frontend

import (
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
)

var (
	cppOnce sync.Once
	cppLang *tree_sitter.Language
	cppPool *sync.Pool
)

func initCPP() {
	cppOnce.Do(func() {
		cppLang = tree_sitter.NewLanguage(tree_sitter_cpp.Language())
		cppPool = &sync.Pool{
			New: func() any {
				p := tree_sitter.NewParser()
				if err := p.SetLanguage(cppLang); err != nil {
					panic(fmt.Sprintf("set language: %v", err))
				}
				return p
			},
		}
	})
}

// parse parses C++ source into a tree-sitter tree. The caller must call
// tree.Close() when done. Parsers are pooled to avoid per-file allocation.
func parse(source []byte) (*tree_sitter.Tree, error) {
	initCPP()
	p, _ := cppPool.Get().(*tree_sitter.Parser)
	if p == nil {
		return nil, fmt.Errorf("parser pool returned nil")
	}
	tree := p.Parse(source, nil)
	cppPool.Put(p)
	if tree == nil {
		return nil, fmt.Errorf("parse returned no tree")
	}
	return tree, nil
}

// nodeText returns the source text of a node.
func nodeText(n *tree_sitter.Node, source []byte) string {
	return string(source[n.StartByte():n.EndByte()])
}
