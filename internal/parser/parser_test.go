package parser

import (
	"strings"
	"testing"

	"github.com/duck-lang/duck/internal/ast"
	"github.com/duck-lang/duck/internal/lexer"
	"github.com/duck-lang/duck/internal/token"
)

func parseProgram(t *testing.T, src string) ([]*ast.Stmt, *Parser) {
	t.Helper()
	lex := lexer.New(0, src)
	p := New(0, lex)
	stmts := p.ParseProgram()
	return stmts, p
}

func TestParseSimpleAssignment(t *testing.T) {
	stmts, p := parseProgram(t, "x = 1;")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if len(stmts) != 1 {
		t.Fatalf("got %d statements", len(stmts))
	}
	assign, ok := stmts[0].Kind.(*ast.AssignmentStmt)
	if !ok {
		t.Fatalf("got %T", stmts[0].Kind)
	}
	if assign.Op != ast.AssignSet {
		t.Fatalf("got op %v", assign.Op)
	}
}

func TestNestedAssignmentBecomesEquality(t *testing.T) {
	stmts, p := parseProgram(t, "foo = bar = 1;")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	assign := stmts[0].Kind.(*ast.AssignmentStmt)
	if _, ok := assign.Target.Kind.(*ast.IdentifierExpr); !ok {
		t.Fatalf("target is %T", assign.Target.Kind)
	}
	eq, ok := assign.Value.Kind.(*ast.EqualityExpr)
	if !ok {
		t.Fatalf("value is %T, want *EqualityExpr", assign.Value.Kind)
	}
	if eq.Op != ast.EqEqual || !eq.FromAssignToken {
		t.Fatalf("unexpected equality node: %+v", eq)
	}
}

func TestCompoundAssignment(t *testing.T) {
	stmts, p := parseProgram(t, "x += 1;")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	assign := stmts[0].Kind.(*ast.AssignmentStmt)
	if assign.Op != ast.AssignAdd {
		t.Fatalf("got op %v", assign.Op)
	}
}

func TestInvalidAssignmentTarget(t *testing.T) {
	_, p := parseProgram(t, "1 = 2;")
	if len(p.Errors()) == 0 {
		t.Fatalf("expected an InvalidAssignmentTarget error")
	}
	if p.Errors()[0].Kind != InvalidAssignmentTarget {
		t.Fatalf("got %v", p.Errors()[0].Kind)
	}
}

func TestCallAsAssignmentTargetIsAccepted(t *testing.T) {
	_, p := parseProgram(t, "foo() = 1;")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
}

func TestIfElse(t *testing.T) {
	stmts, p := parseProgram(t, "if (x > 0) { y = 1; } else { y = 2; }")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	ifs := stmts[0].Kind.(*ast.IfStmt)
	if ifs.Else == nil {
		t.Fatalf("expected else branch")
	}
}

func TestThenKeywordDiscarded(t *testing.T) {
	stmts, p := parseProgram(t, "if (x) then y = 1;")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if _, ok := stmts[0].Kind.(*ast.IfStmt); !ok {
		t.Fatalf("got %T", stmts[0].Kind)
	}
}

func TestFunctionWithDefaults(t *testing.T) {
	stmts, p := parseProgram(t, "f = function(a, b = 1) { return a + b; };")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	assign := stmts[0].Kind.(*ast.AssignmentStmt)
	fn := assign.Value.Kind.(*ast.FunctionExpr)
	if len(fn.Params) != 2 || fn.Params[0].Default != nil || fn.Params[1].Default == nil {
		t.Fatalf("unexpected params: %+v", fn.Params)
	}
}

func TestInvalidDefaultArgumentOrder(t *testing.T) {
	_, p := parseProgram(t, "f = function(a = 1, b) { };")
	if len(p.Errors()) == 0 || p.Errors()[0].Kind != InvalidDefaultArgument {
		t.Fatalf("expected InvalidDefaultArgument, got %v", p.Errors())
	}
}

func TestConstructorWithParent(t *testing.T) {
	stmts, p := parseProgram(t, "f = function() constructor : parent(1, 2) { };")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	fn := stmts[0].Kind.(*ast.AssignmentStmt).Value.Kind.(*ast.FunctionExpr)
	if !fn.IsConstructor || fn.Parent == nil || fn.Parent.Name != "parent" || len(fn.Parent.Args) != 2 {
		t.Fatalf("unexpected constructor: %+v", fn)
	}
}

func TestStructVsBlockDisambiguation(t *testing.T) {
	stmts, p := parseProgram(t, "x = { a: 1, b: 2 };")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	lit := stmts[0].Kind.(*ast.AssignmentStmt).Value.Kind.(*ast.LiteralExpr)
	s, ok := lit.Variant.(ast.StructLiteral)
	if !ok || len(s.Fields) != 2 {
		t.Fatalf("unexpected literal: %+v", lit)
	}
}

func TestBlockStatementNotMisreadAsStruct(t *testing.T) {
	stmts, p := parseProgram(t, "{ x = 1; y = 2; }")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	blk, ok := stmts[0].Kind.(*ast.BlockStmt)
	if !ok || len(blk.Stmts) != 2 {
		t.Fatalf("got %T", stmts[0].Kind)
	}
}

func TestDsAccessors(t *testing.T) {
	stmts, p := parseProgram(t, "a = b[@ 0]; c = d[# 0, 1]; e = f[? \"k\"]; g = h[| 0]; i = j[$ \"k\"];")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if len(stmts) != 5 {
		t.Fatalf("got %d statements", len(stmts))
	}
	cases := []any{
		&ast.ArrayAccess{},
		&ast.GridAccess{},
		&ast.MapAccess{},
		&ast.ListAccess{},
		&ast.StructAccess{},
	}
	for i, want := range cases {
		access := stmts[i].Kind.(*ast.AssignmentStmt).Value.Kind.(*ast.AccessExpr)
		gotType := access.Variant
		wantType := want
		if fieldTypeName(gotType) != fieldTypeName(wantType) {
			t.Fatalf("stmt %d: got %T want %T", i, gotType, wantType)
		}
	}
}

func fieldTypeName(v any) string {
	switch v.(type) {
	case *ast.ArrayAccess:
		return "array"
	case *ast.GridAccess:
		return "grid"
	case *ast.MapAccess:
		return "map"
	case *ast.ListAccess:
		return "list"
	case *ast.StructAccess:
		return "struct"
	default:
		return "other"
	}
}

func TestSelfDotAccess(t *testing.T) {
	stmts, p := parseProgram(t, "x = self.y;")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	access := stmts[0].Kind.(*ast.AssignmentStmt).Value.Kind.(*ast.AccessExpr)
	if _, ok := access.Variant.(*ast.IdentityAccess); !ok {
		t.Fatalf("got %T", access.Variant)
	}
}

func TestSelfAsBareValue(t *testing.T) {
	stmts, p := parseProgram(t, "return self;")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	ret := stmts[0].Kind.(*ast.ReturnStmt)
	if ident, ok := ret.Value.Kind.(*ast.IdentifierExpr); !ok || ident.Name != "self" {
		t.Fatalf("got %T", ret.Value.Kind)
	}
}

func TestWithStatement(t *testing.T) {
	stmts, p := parseProgram(t, "with (other) { x = 1; }")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	with := stmts[0].Kind.(*ast.WithStmt)
	if _, ok := with.Target.Kind.(*ast.IdentifierExpr); !ok {
		t.Fatalf("got %T", with.Target.Kind)
	}
}

func TestForLoop(t *testing.T) {
	stmts, p := parseProgram(t, "for (var i = 0; i < 10; i += 1) { x += i; }")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	f, ok := stmts[0].Kind.(*ast.ForStmt)
	if !ok {
		t.Fatalf("got %T", stmts[0].Kind)
	}
	if f.Init == nil || f.Cond == nil || f.Post == nil {
		t.Fatalf("missing for-loop clause: %+v", f)
	}
}

func TestSwitchWithDefault(t *testing.T) {
	src := `switch (x) {
		case 1: y = 1; break;
		case 2:
		case 3: y = 2; break;
		default: y = 0;
	}`
	stmts, p := parseProgram(t, src)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	sw := stmts[0].Kind.(*ast.SwitchStmt)
	if len(sw.Cases) != 3 {
		t.Fatalf("got %d cases", len(sw.Cases))
	}
}

func TestTryCatchFinally(t *testing.T) {
	stmts, p := parseProgram(t, "try { x = 1; } catch (e) { x = 2; } finally { x = 3; }")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	tc := stmts[0].Kind.(*ast.TryCatchStmt)
	if tc.CatchName == nil || *tc.CatchName != "e" || tc.Finally == nil {
		t.Fatalf("unexpected try/catch: %+v", tc)
	}
}

func TestEnumWithValues(t *testing.T) {
	stmts, p := parseProgram(t, "enum Color { Red, Green = 5, Blue }")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	e := stmts[0].Kind.(*ast.EnumStmt)
	if len(e.Members) != 3 || e.Members[1].Value == nil {
		t.Fatalf("unexpected enum: %+v", e)
	}
}

func TestSuppressionTagAttachesToNextStatement(t *testing.T) {
	stmts, p := parseProgram(t, "//#[warn(non-pascal-case)]\nx = 1;")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if stmts[0].Tag == nil || stmts[0].Tag.Rule != "non-pascal-case" {
		t.Fatalf("tag not attached: %+v", stmts[0].Tag)
	}
}

func TestMacroPassthrough(t *testing.T) {
	stmts, p := parseProgram(t, "#macro MY_CONST 42\nx = MY_CONST;")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	m, ok := stmts[0].Kind.(*ast.MacroStmt)
	if !ok || m.Name != "MY_CONST" || m.Body != "42" {
		t.Fatalf("got %+v", stmts[0].Kind)
	}
}

func TestRoundTripPreservesShape(t *testing.T) {
	src := "if (x == 1) { return x; } else { return 0; }"
	stmts, p := parseProgram(t, src)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	printed := ast.Print(stmts[0])

	lex2 := lexer.New(0, printed)
	p2 := New(0, lex2)
	stmts2 := p2.ParseProgram()
	if len(p2.Errors()) != 0 {
		t.Fatalf("reparse errors: %v", p2.Errors())
	}
	if len(stmts2) != 1 {
		t.Fatalf("reparse produced %d statements", len(stmts2))
	}
	if _, ok := stmts2[0].Kind.(*ast.IfStmt); !ok {
		t.Fatalf("reparsed root is %T", stmts2[0].Kind)
	}
}

func TestUnterminatedBlockRecordsErrorButDoesNotHang(t *testing.T) {
	_, p := parseProgram(t, "if (x) {")
	if len(p.Errors()) == 0 {
		t.Fatalf("expected a parse error for unterminated block")
	}
}

func TestDollarHexLiteral(t *testing.T) {
	stmts, p := parseProgram(t, "x = $FF00;")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	lit := stmts[0].Kind.(*ast.AssignmentStmt).Value.Kind.(*ast.LiteralExpr)
	if _, ok := lit.Variant.(ast.HexLiteral); !ok {
		t.Fatalf("got %T", lit.Variant)
	}
}

func TestErrorMessagesAreReadable(t *testing.T) {
	_, p := parseProgram(t, "var ;")
	if len(p.Errors()) == 0 {
		t.Fatalf("expected an error")
	}
	msg := p.Errors()[0].Error()
	if !strings.Contains(msg, "expected") && !strings.Contains(msg, "unexpected") {
		t.Fatalf("unexpected message shape: %q", msg)
	}
}

var _ = token.IDENT // keep token import if future tests need it directly
