package ast

import "testing"

func TestClassifyTypeName(t *testing.T) {
	cases := []struct {
		name string
		want TypeCategory
	}{
		{"int", TypeBuiltin},
		{"unsigned long long", TypeBuiltin},
		{"const char", TypeBuiltin},
		{"int*", TypePointer},
		{"std::string&", TypeReference},
		{"T&&", TypeReference},
		{"int[]", TypeArray},
		{"void(int)", TypeFunction},
		{"struct Point", TypeRecord},
		{"enum Color", TypeEnum},
		{"std::vector<int>", TypeUserDefined},
		{"MyThing", TypeUserDefined},
	}
	for _, tc := range cases {
		if got := ClassifyTypeName(tc.name); got != tc.want {
			t.Errorf("ClassifyTypeName(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestKindPredicates(t *testing.T) {
	if !KindClass.IsDeclaration() || !KindClass.IsRecord() || !KindClass.IsScope() {
		t.Error("class predicates wrong")
	}
	if !KindReturnStmt.IsStatement() || KindReturnStmt.IsExpression() {
		t.Error("return statement predicates wrong")
	}
	if !KindIntLiteral.IsLiteral() || !KindIntLiteral.IsExpression() {
		t.Error("literal predicates wrong")
	}
	if KindComment.IsDeclaration() || KindComment.IsStatement() || KindComment.IsExpression() {
		t.Error("comment must carry no primary facet predicates")
	}
	if !KindCallExpr.HasSideEffects() || KindDeclRefExpr.HasSideEffects() {
		t.Error("side-effect classification wrong")
	}
	if KindIfStmt.ControlFlow() != "if" || KindCompoundStmt.ControlFlow() != "none" {
		t.Error("control flow classification wrong")
	}
}
