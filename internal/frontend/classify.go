package frontend

import (
	"strings"

	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/ast"
)

// Parse-tree kind classification. Statements and expressions map directly;
// declarations depend on context (enclosing record, declarator shape) and are
// classified in convert.go. Kinds absent from every table are traversed
// transparently.

var stmtKinds = map[string]ast.Kind{
	"compound_statement":   ast.KindCompoundStmt,
	"if_statement":         ast.KindIfStmt,
	"while_statement":      ast.KindWhileStmt,
	"for_statement":        ast.KindForStmt,
	"for_range_loop":       ast.KindForStmt,
	"do_statement":         ast.KindDoStmt,
	"switch_statement":     ast.KindSwitchStmt,
	"break_statement":      ast.KindBreakStmt,
	"continue_statement":   ast.KindContinueStmt,
	"return_statement":     ast.KindReturnStmt,
	"goto_statement":       ast.KindGotoStmt,
	"labeled_statement":    ast.KindLabelStmt,
	"expression_statement": ast.KindExprStmt,
	"try_statement":        ast.KindTryStmt,
	"catch_clause":         ast.KindCatchClause,
}

var exprKinds = map[string]ast.Kind{
	"call_expression":             ast.KindCallExpr,
	"field_expression":            ast.KindMemberExpr,
	"binary_expression":           ast.KindBinaryExpr,
	"unary_expression":            ast.KindUnaryExpr,
	"update_expression":           ast.KindUpdateExpr,
	"assignment_expression":       ast.KindAssignExpr,
	"conditional_expression":      ast.KindConditionalExpr,
	"cast_expression":             ast.KindCastExpr,
	"new_expression":              ast.KindNewExpr,
	"delete_expression":           ast.KindDeleteExpr,
	"throw_statement":             ast.KindThrowExpr,
	"lambda_expression":           ast.KindLambdaExpr,
	"subscript_expression":        ast.KindSubscriptExpr,
	"comma_expression":            ast.KindCommaExpr,
	"initializer_list":            ast.KindInitListExpr,
	"char_literal":                ast.KindCharLiteral,
	"string_literal":              ast.KindStringLiteral,
	"raw_string_literal":          ast.KindStringLiteral,
	"concatenated_string":         ast.KindStringLiteral,
	"true":                        ast.KindBoolLiteral,
	"false":                       ast.KindBoolLiteral,
	"nullptr":                     ast.KindNullptrLiteral,
	"user_defined_literal":        ast.KindIntLiteral,
	"compound_literal_expression": ast.KindInitListExpr,
}

// useSiteParents are the parse-tree kinds under which a bare identifier is a
// name use rather than part of a declarator or type spelling.
var useSiteParents = map[string]bool{
	"binary_expression":        true,
	"unary_expression":         true,
	"update_expression":        true,
	"assignment_expression":    true,
	"argument_list":            true,
	"return_statement":         true,
	"condition_clause":         true,
	"parenthesized_expression": true,
	"subscript_expression":     true,
	"initializer_list":         true,
	"comma_expression":         true,
	"conditional_expression":   true,
	"init_declarator":          true, // value side only, checked at the site
}

// numberLiteralKind splits tree-sitter's single number_literal into the
// engine's integer/float split.
func numberLiteralKind(text string) ast.Kind {
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "0x") {
		return ast.KindIntLiteral
	}
	if strings.ContainsAny(lower, ".e") {
		return ast.KindFloatLiteral
	}
	return ast.KindIntLiteral
}

// noRecurse holds subtrees fully consumed by their own conversion: descending
// into them would misclassify their identifiers as use sites.
var noRecurse = map[string]bool{
	"comment":                   true,
	"preproc_include":           true,
	"preproc_def":               true,
	"preproc_function_def":      true,
	"preproc_call":              true,
	"using_declaration":         true,
	"alias_declaration":         true,
	"type_definition":           true,
	"static_assert_declaration": true,
	"base_class_clause":         true,
	"string_literal":            true,
	"raw_string_literal":        true,
	"char_literal":              true,
	"number_literal":            true,
}

// isDocComment reports whether a comment uses a documentation marker.
func isDocComment(text string) bool {
	return strings.HasPrefix(text, "///") ||
		strings.HasPrefix(text, "//!") ||
		strings.HasPrefix(text, "/**") ||
		strings.HasPrefix(text, "/*!")
}
