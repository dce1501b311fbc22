package ast

import "strings"

// builtinTypes is the set of C++ fundamental type spellings (qualifiers and
// signedness prefixes are stripped before lookup).
var builtinTypes = map[string]bool{
	"void": true, "bool": true, "char": true, "wchar_t": true,
	"char8_t": true, "char16_t": true, "char32_t": true,
	"short": true, "int": true, "long": true, "float": true,
	"signed": true, "unsigned": true, "auto": true,
	"double": true, "size_t": true, "ptrdiff_t": true,
	"int8_t": true, "int16_t": true, "int32_t": true, "int64_t": true,
	"uint8_t": true, "uint16_t": true, "uint32_t": true, "uint64_t": true,
	"intptr_t": true, "uintptr_t": true, "nullptr_t": true,
}

// ClassifyTypeName classifies a type spelling by its structural shape. The
// front end calls this with the composed declarator text; contexts that know
// better (record/enum specifiers, template parameters) override the result.
func ClassifyTypeName(name string) TypeCategory {
	s := strings.TrimSpace(name)
	for _, q := range []string{"const ", "volatile ", "signed ", "unsigned "} {
		for strings.HasPrefix(s, q) {
			s = strings.TrimSpace(strings.TrimPrefix(s, q))
		}
	}
	switch {
	case s == "":
		return TypeUserDefined
	case strings.HasSuffix(s, "]"):
		return TypeArray
	case strings.HasSuffix(s, "*"):
		return TypePointer
	case strings.HasSuffix(s, "&") || strings.HasSuffix(s, "&&"):
		return TypeReference
	case strings.HasSuffix(s, ")"):
		return TypeFunction
	case strings.HasPrefix(s, "struct ") || strings.HasPrefix(s, "class ") || strings.HasPrefix(s, "union "):
		return TypeRecord
	case strings.HasPrefix(s, "enum "):
		return TypeEnum
	}
	if builtinTypes[s] || builtinTypes[strings.Fields(s)[0]] {
		return TypeBuiltin
	}
	return TypeUserDefined
}
