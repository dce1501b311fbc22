package frontend

import (
	"testing"

	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/ast"
)

const sample = `namespace app {

/// Adds two numbers.
int add(int a, int b) {
  int sum = a + b;
  return sum;
}

class Base {
public:
  virtual void run();
};

class Derived : public Base {
public:
  void run() override;
private:
  int count_ = 0;
};

void caller() {
  add(1, 2);
}

} // namespace app
`

func parseSample(t *testing.T) *Unit {
	t.Helper()
	unit, err := ParseUnit("app.cpp", []byte(sample))
	if err != nil {
		t.Fatalf("parse unit: %v", err)
	}
	return unit
}

func findDecl(unit *Unit, kind ast.Kind, name string) *ast.Node {
	for _, ev := range unit.Events {
		if ev.Leave {
			continue
		}
		n := ev.Node
		if n.Kind == kind && n.Name() == name {
			return n
		}
	}
	return nil
}

func TestEventStreamIsBalanced(t *testing.T) {
	unit := parseSample(t)
	if len(unit.Events) == 0 {
		t.Fatal("no events")
	}
	first := unit.Events[0]
	last := unit.Events[len(unit.Events)-1]
	if first.Leave || first.Node.Kind != ast.KindTranslationUnit {
		t.Fatalf("first event = %+v, want translation unit enter", first)
	}
	if !last.Leave || last.Node.Kind != ast.KindTranslationUnit {
		t.Fatalf("last event = %+v, want translation unit leave", last)
	}
	enters, leaves := 0, 0
	for _, ev := range unit.Events {
		if ev.Leave {
			leaves++
		} else {
			enters++
		}
	}
	if enters != leaves {
		t.Fatalf("enters = %d, leaves = %d", enters, leaves)
	}
}

func TestFunctionDefinitionExtraction(t *testing.T) {
	unit := parseSample(t)
	add := findDecl(unit, ast.KindFunction, "add")
	if add == nil {
		t.Fatal("function add not found")
	}
	if !add.Decl.HasBody {
		t.Error("add should have a body")
	}
	if add.DocComment == nil {
		t.Error("add should carry its doc comment")
	} else if !add.DocComment.Aux.IsDoc {
		t.Error("doc comment not marked as documentation")
	}
	if add.DeclType == nil || add.DeclType.Type.Category != ast.TypeFunction {
		t.Errorf("add signature type = %+v", add.DeclType)
	}
	if add.Loc.File != "app.cpp" || add.Loc.StartLine != 4 {
		t.Errorf("add location = %+v", add.Loc)
	}
}

func TestInheritanceExtraction(t *testing.T) {
	unit := parseSample(t)
	derived := findDecl(unit, ast.KindClass, "Derived")
	if derived == nil {
		t.Fatal("class Derived not found")
	}
	if !derived.Decl.Defining {
		t.Error("Derived should be a definition")
	}
	if len(derived.Bases) != 1 {
		t.Fatalf("Derived bases = %d, want 1", len(derived.Bases))
	}
	base := derived.Bases[0]
	if base.Access != ast.AccessPublic || base.Virtual {
		t.Errorf("base clause = %+v", base)
	}
	if base.Base.Decl.QualifiedName != "app::Base" {
		t.Errorf("base qualified name = %q, want app::Base", base.Base.Decl.QualifiedName)
	}
}

func TestAccessRegions(t *testing.T) {
	unit := parseSample(t)
	run := findDecl(unit, ast.KindMethod, "run")
	if run == nil {
		t.Fatal("method run not found")
	}
	if run.Decl.Access != ast.AccessPublic {
		t.Errorf("run access = %q, want public", run.Decl.Access)
	}
	field := findDecl(unit, ast.KindField, "count_")
	if field == nil {
		t.Fatal("field count_ not found")
	}
	if field.Decl.Access != ast.AccessPrivate {
		t.Errorf("count_ access = %q, want private", field.Decl.Access)
	}
	if !field.Decl.HasInitializer {
		t.Error("count_ should have an initializer")
	}
}

func TestOverrideDetection(t *testing.T) {
	unit := parseSample(t)
	var override *ast.Node
	for _, ev := range unit.Events {
		if !ev.Leave && ev.Node.Kind == ast.KindMethod && len(ev.Node.Overridden) > 0 {
			override = ev.Node
		}
	}
	if override == nil {
		t.Fatal("no method with override link found")
	}
	if got := override.Overridden[0].Decl.QualifiedName; got != "app::Base::run" {
		t.Errorf("overridden = %q, want app::Base::run", got)
	}
}

func TestCallResolution(t *testing.T) {
	unit := parseSample(t)
	var call *ast.Node
	for _, ev := range unit.Events {
		if !ev.Leave && ev.Node.Kind == ast.KindCallExpr {
			call = ev.Node
		}
	}
	if call == nil {
		t.Fatal("no call expression found")
	}
	if call.Target == nil {
		t.Fatal("call target unresolved")
	}
	if call.TargetKind != ast.RefCalls {
		t.Errorf("target kind = %q, want calls", call.TargetKind)
	}
	if call.Target.Decl.QualifiedName != "app::add" {
		t.Errorf("call target = %q, want app::add", call.Target.Decl.QualifiedName)
	}
}

func TestLocalVariableExtraction(t *testing.T) {
	unit := parseSample(t)
	sum := findDecl(unit, ast.KindVariable, "sum")
	if sum == nil {
		t.Fatal("local sum not found")
	}
	if !sum.Decl.HasInitializer {
		t.Error("sum should have an initializer")
	}
	if sum.DeclType == nil || sum.DeclType.Type.Name != "int" {
		t.Errorf("sum type = %+v", sum.DeclType)
	}
}

func TestUseSitesEmitDeclRefs(t *testing.T) {
	unit := parseSample(t)
	refs := 0
	for _, ev := range unit.Events {
		if !ev.Leave && ev.Node.Kind == ast.KindDeclRefExpr {
			refs++
		}
	}
	// At least a and b inside the binary expression.
	if refs < 2 {
		t.Fatalf("decl ref expressions = %d, want at least 2", refs)
	}
}

func TestSharedDeclarationRefsCollideAcrossUnits(t *testing.T) {
	header := `namespace app { int add(int a, int b); }`
	u1, err := ParseUnit("app.h", []byte(header))
	if err != nil {
		t.Fatalf("parse header: %v", err)
	}
	u2 := parseSample(t)

	proto := findDecl(u1, ast.KindFunction, "add")
	def := findDecl(u2, ast.KindFunction, "add")
	if proto == nil || def == nil {
		t.Fatal("add not found in both units")
	}
	if proto.Ref != def.Ref {
		t.Fatalf("refs differ: %d vs %d; prototype and definition must collide", proto.Ref, def.Ref)
	}
	if proto.Decl.HasBody || !def.Decl.HasBody {
		t.Error("definition split misdetected")
	}
}

func TestPositionalRefsAreFileLocal(t *testing.T) {
	src := `int main() { return 0; }`
	u1, err := ParseUnit("a.cpp", []byte(src))
	if err != nil {
		t.Fatalf("parse a: %v", err)
	}
	u2, err := ParseUnit("b.cpp", []byte(src))
	if err != nil {
		t.Fatalf("parse b: %v", err)
	}
	if u1.Events[0].Node.Ref == u2.Events[0].Node.Ref {
		t.Fatal("translation units of different files share a ref")
	}
	if u1.Hash != u2.Hash {
		t.Fatal("identical content must hash identically")
	}
}

func TestPreprocessorEntities(t *testing.T) {
	src := `#include <vector>
#include "local.h"
#define MAX(a, b) ((a) > (b) ? (a) : (b))
#define LIMIT 10
#pragma once
`
	unit, err := ParseUnit("pp.h", []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var includes, macros, pragmas []*ast.Node
	for _, ev := range unit.Events {
		if ev.Leave {
			continue
		}
		switch ev.Node.Kind {
		case ast.KindInclude:
			includes = append(includes, ev.Node)
		case ast.KindMacro:
			macros = append(macros, ev.Node)
		case ast.KindPragma:
			pragmas = append(pragmas, ev.Node)
		}
	}
	if len(includes) != 2 {
		t.Fatalf("includes = %d, want 2", len(includes))
	}
	if includes[0].Aux.Path != "vector" || !includes[0].Aux.IsSystem {
		t.Errorf("system include = %+v", includes[0].Aux)
	}
	if includes[1].Aux.Path != "local.h" || includes[1].Aux.IsSystem {
		t.Errorf("local include = %+v", includes[1].Aux)
	}
	if len(macros) != 2 {
		t.Fatalf("macros = %d, want 2", len(macros))
	}
	if macros[0].Aux.Name != "MAX" || !macros[0].Aux.IsFunctionLike {
		t.Errorf("function-like macro = %+v", macros[0].Aux)
	}
	if macros[1].Aux.Name != "LIMIT" || macros[1].Aux.IsFunctionLike {
		t.Errorf("object-like macro = %+v", macros[1].Aux)
	}
	if len(pragmas) != 1 || pragmas[0].Aux.Directive != "once" {
		t.Errorf("pragmas = %+v", pragmas)
	}
}

func TestEnumAndConstexprExtraction(t *testing.T) {
	src := `enum class Color { Red, Green = 5 };
constexpr int answer = 42;
`
	unit, err := ParseUnit("e.cpp", []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	color := findDecl(unit, ast.KindEnum, "Color")
	if color == nil || !color.Decl.Defining {
		t.Fatalf("enum Color = %+v", color)
	}
	red := findDecl(unit, ast.KindEnumerator, "Red")
	green := findDecl(unit, ast.KindEnumerator, "Green")
	if red == nil || green == nil {
		t.Fatal("enumerators missing")
	}
	if red.Decl.HasInitializer || !green.Decl.HasInitializer {
		t.Error("enumerator initializer detection wrong")
	}

	answer := findDecl(unit, ast.KindVariable, "answer")
	if answer == nil {
		t.Fatal("constexpr variable not found")
	}
	if answer.Aux == nil || answer.Aux.Result != "42" {
		t.Errorf("constexpr capture = %+v", answer.Aux)
	}
}

func TestTemplateExtraction(t *testing.T) {
	src := `template <typename T, int N>
class Box {};

template <>
class Box<int, 1> {};
`
	unit, err := ParseUnit("t.cpp", []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	tmpl := findDecl(unit, ast.KindTemplateDecl, "Box")
	if tmpl == nil {
		t.Fatal("template declaration not found")
	}

	var params []*ast.Node
	var spec *ast.Node
	for _, ev := range unit.Events {
		if ev.Leave {
			continue
		}
		if ev.Node.Kind == ast.KindTemplateParam {
			params = append(params, ev.Node)
		}
		if ev.Node.Kind == ast.KindClass && ev.Node.Template != nil {
			spec = ev.Node
		}
	}
	if len(params) != 2 {
		t.Fatalf("template params = %d, want 2", len(params))
	}
	if params[0].Aux.ParamKind != "type" || params[0].Aux.Position != 0 {
		t.Errorf("first param = %+v", params[0].Aux)
	}
	if params[1].Aux.ParamKind != "non_type" || params[1].Aux.Position != 1 {
		t.Errorf("second param = %+v", params[1].Aux)
	}
	if spec == nil {
		t.Fatal("specialization not linked to primary")
	}
	if spec.TemplateKind != "explicit_specialization" {
		t.Errorf("template kind = %q", spec.TemplateKind)
	}
	if spec.Template.Decl.QualifiedName != "Box" {
		t.Errorf("primary = %q, want Box", spec.Template.Decl.QualifiedName)
	}
}

func TestOutOfLineMethodPreResolvesQualifiedName(t *testing.T) {
	src := `namespace app {
class Foo {
public:
  void bar();
};
void Foo::bar() {}
}
`
	unit, err := ParseUnit("o.cpp", []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var def *ast.Node
	for _, ev := range unit.Events {
		if !ev.Leave && ev.Node.Kind == ast.KindMethod && ev.Node.Decl.HasBody {
			def = ev.Node
		}
	}
	if def == nil {
		t.Fatal("out-of-line definition not found")
	}
	if def.Decl.Name != "bar" {
		t.Errorf("leaf name = %q, want bar", def.Decl.Name)
	}
	if def.Decl.QualifiedName != "app::Foo::bar" {
		t.Errorf("qualified name = %q, want app::Foo::bar", def.Decl.QualifiedName)
	}
	proto := findDecl(unit, ast.KindMethod, "bar")
	if proto == nil {
		t.Fatal("prototype not found")
	}
	if proto.Ref != def.Ref {
		t.Error("prototype and out-of-line definition must share a ref")
	}
}
