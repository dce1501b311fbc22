package frontend

import (
	"fmt"

	"github.com/zeebo/xxh3"

	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/ast"
)

// Ref derivation. Named declarations hash kind plus qualified path, so the
// same declaration re-encountered from another translation unit (a shared
// header, a prototype and its definition) yields the same ref and the engine
// deduplicates it. Positional nodes hash file, byte offset, and kind; types
// hash their canonical spelling.

func declRef(kind ast.Kind, qualifiedPath string) ast.Ref {
	return nonNil(xxh3.HashString("decl|" + kind.String() + "|" + qualifiedPath))
}

func typeRef(t *ast.TypeInfo) ast.Ref {
	return nonNil(xxh3.HashString(fmt.Sprintf("type|%s|%t|%t", t.Name, t.Const, t.Volatile)))
}

func posRef(file string, startByte uint, kind ast.Kind) ast.Ref {
	return nonNil(xxh3.HashString(fmt.Sprintf("%s|%d|%s", file, startByte, kind)))
}

// nonNil keeps a hash collision with the null ref from dropping a node.
func nonNil(h uint64) ast.Ref {
	if h == 0 {
		h = 1
	}
	return ast.Ref(h)
}

// HashSource is the content fingerprint logged per indexed file.
func HashSource(data []byte) uint64 {
	return xxh3.Hash(data)
}
