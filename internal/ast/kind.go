package ast

// Kind is the engine-facing syntax node category. The front end maps parser
// node kinds onto this fixed set; anything it cannot classify is skipped and
// traversed transparently.
type Kind int

const (
	KindUnknown Kind = iota

	// Declarations.
	KindTranslationUnit
	KindNamespace
	KindClass
	KindStruct
	KindUnion
	KindEnum
	KindEnumerator
	KindFunction
	KindMethod
	KindConstructor
	KindDestructor
	KindVariable
	KindField
	KindParameter
	KindTypeAlias
	KindTemplateDecl

	// Types.
	KindType

	// Statements.
	KindCompoundStmt
	KindIfStmt
	KindWhileStmt
	KindForStmt
	KindDoStmt
	KindSwitchStmt
	KindCaseStmt
	KindDefaultStmt
	KindBreakStmt
	KindContinueStmt
	KindReturnStmt
	KindGotoStmt
	KindLabelStmt
	KindExprStmt
	KindTryStmt
	KindCatchClause

	// Expressions.
	KindCallExpr
	KindMemberExpr
	KindDeclRefExpr
	KindBinaryExpr
	KindUnaryExpr
	KindUpdateExpr
	KindAssignExpr
	KindConditionalExpr
	KindCastExpr
	KindNewExpr
	KindDeleteExpr
	KindThrowExpr
	KindLambdaExpr
	KindSubscriptExpr
	KindCommaExpr
	KindInitListExpr
	KindIntLiteral
	KindFloatLiteral
	KindCharLiteral
	KindStringLiteral
	KindBoolLiteral
	KindNullptrLiteral

	// Auxiliary.
	KindTemplateParam
	KindUsingDecl
	KindMacro
	KindInclude
	KindPragma
	KindComment
	KindStaticAssert
	KindConstEval
	KindCFGBlock
)

var kindNames = map[Kind]string{
	KindUnknown:         "unknown",
	KindTranslationUnit: "translation_unit",
	KindNamespace:       "namespace",
	KindClass:           "class",
	KindStruct:          "struct",
	KindUnion:           "union",
	KindEnum:            "enum",
	KindEnumerator:      "enumerator",
	KindFunction:        "function",
	KindMethod:          "method",
	KindConstructor:     "constructor",
	KindDestructor:      "destructor",
	KindVariable:        "variable",
	KindField:           "field",
	KindParameter:       "parameter",
	KindTypeAlias:       "type_alias",
	KindTemplateDecl:    "template_decl",
	KindType:            "type",
	KindCompoundStmt:    "compound_stmt",
	KindIfStmt:          "if_stmt",
	KindWhileStmt:       "while_stmt",
	KindForStmt:         "for_stmt",
	KindDoStmt:          "do_stmt",
	KindSwitchStmt:      "switch_stmt",
	KindCaseStmt:        "case_stmt",
	KindDefaultStmt:     "default_stmt",
	KindBreakStmt:       "break_stmt",
	KindContinueStmt:    "continue_stmt",
	KindReturnStmt:      "return_stmt",
	KindGotoStmt:        "goto_stmt",
	KindLabelStmt:       "label_stmt",
	KindExprStmt:        "expr_stmt",
	KindTryStmt:         "try_stmt",
	KindCatchClause:     "catch_clause",
	KindCallExpr:        "call_expr",
	KindMemberExpr:      "member_expr",
	KindDeclRefExpr:     "decl_ref_expr",
	KindBinaryExpr:      "binary_expr",
	KindUnaryExpr:       "unary_expr",
	KindUpdateExpr:      "update_expr",
	KindAssignExpr:      "assign_expr",
	KindConditionalExpr: "conditional_expr",
	KindCastExpr:        "cast_expr",
	KindNewExpr:         "new_expr",
	KindDeleteExpr:      "delete_expr",
	KindThrowExpr:       "throw_expr",
	KindLambdaExpr:      "lambda_expr",
	KindSubscriptExpr:   "subscript_expr",
	KindCommaExpr:       "comma_expr",
	KindInitListExpr:    "init_list_expr",
	KindIntLiteral:      "int_literal",
	KindFloatLiteral:    "float_literal",
	KindCharLiteral:     "char_literal",
	KindStringLiteral:   "string_literal",
	KindBoolLiteral:     "bool_literal",
	KindNullptrLiteral:  "nullptr_literal",
	KindTemplateParam:   "template_param",
	KindUsingDecl:       "using_decl",
	KindMacro:           "macro",
	KindInclude:         "include",
	KindPragma:          "pragma",
	KindComment:         "comment",
	KindStaticAssert:    "static_assert",
	KindConstEval:       "const_eval",
	KindCFGBlock:        "cfg_block",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// IsDeclaration reports whether the kind carries a Declaration facet.
func (k Kind) IsDeclaration() bool {
	switch k {
	case KindTranslationUnit, KindNamespace, KindClass, KindStruct, KindUnion,
		KindEnum, KindEnumerator, KindFunction, KindMethod, KindConstructor,
		KindDestructor, KindVariable, KindField, KindParameter, KindTypeAlias,
		KindTemplateDecl:
		return true
	}
	return false
}

// IsStatement reports whether the kind carries a Statement facet.
func (k Kind) IsStatement() bool {
	return k >= KindCompoundStmt && k <= KindCatchClause
}

// IsExpression reports whether the kind carries an Expression facet.
func (k Kind) IsExpression() bool {
	return k >= KindCallExpr && k <= KindNullptrLiteral
}

// IsLiteral reports whether the kind is a literal expression.
func (k Kind) IsLiteral() bool {
	return k >= KindIntLiteral && k <= KindNullptrLiteral
}

// IsScope reports whether a node of this kind introduces a lexical or
// semantic enclosure for the nodes traversed beneath it.
func (k Kind) IsScope() bool {
	switch k {
	case KindTranslationUnit, KindNamespace, KindClass, KindStruct, KindUnion,
		KindEnum, KindFunction, KindMethod, KindConstructor, KindDestructor,
		KindLambdaExpr:
		return true
	}
	return false
}

// IsRecord reports whether the kind is a class-like tag.
func (k Kind) IsRecord() bool {
	return k == KindClass || k == KindStruct || k == KindUnion
}

// IsFunctionLike reports whether the kind is a callable declaration.
func (k Kind) IsFunctionLike() bool {
	switch k {
	case KindFunction, KindMethod, KindConstructor, KindDestructor:
		return true
	}
	return false
}

// HasSideEffects reports whether an expression of this kind is assumed to
// mutate state: calls, assignments, increment/decrement, heap allocation and
// deallocation, throw. A conservative over-approximation used by statement
// extraction.
func (k Kind) HasSideEffects() bool {
	switch k {
	case KindCallExpr, KindAssignExpr, KindUpdateExpr, KindNewExpr,
		KindDeleteExpr, KindThrowExpr:
		return true
	}
	return false
}

// ControlFlow returns the control-flow category for a statement kind, or
// "none" for statements outside the fixed category set.
func (k Kind) ControlFlow() string {
	switch k {
	case KindIfStmt:
		return "if"
	case KindWhileStmt:
		return "while"
	case KindForStmt:
		return "for"
	case KindDoStmt:
		return "do"
	case KindSwitchStmt:
		return "switch"
	case KindCaseStmt:
		return "case"
	case KindDefaultStmt:
		return "default"
	case KindBreakStmt:
		return "break"
	case KindContinueStmt:
		return "continue"
	case KindReturnStmt:
		return "return"
	case KindGotoStmt:
		return "goto"
	case KindLabelStmt:
		return "label"
	}
	return "none"
}
