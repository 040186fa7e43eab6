package solver_test

import (
	"testing"

	"github.com/duck-lang/duck/internal/ast"
	"github.com/duck-lang/duck/internal/diagnostic"
	"github.com/duck-lang/duck/internal/lexer"
	"github.com/duck-lang/duck/internal/parser"
	"github.com/duck-lang/duck/internal/solver"
	"github.com/duck-lang/duck/internal/token"
)

func run(t *testing.T, src string) (*solver.Solver, []*ast.Stmt) {
	t.Helper()
	lex := lexer.New(token.FileId(1), src)
	p := parser.New(token.FileId(1), lex)
	stmts := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	s := solver.New(nil)
	s.RunProgram(stmts)
	return s, stmts
}

func denyCount(diags []*diagnostic.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == diagnostic.Deny {
			n++
		}
	}
	return n
}

// Scenario 1: `var a = 0, b = a + 1;` → a: Real, b: Real, no diagnostics.
func TestScenarioArithmeticInference(t *testing.T) {
	s, _ := run(t, `var a = 0, b = a + 1;`)
	if got := denyCount(s.Diagnostics()); got != 0 {
		t.Fatalf("expected no diagnostics, got %d: %v", got, s.Diagnostics())
	}
}

// Scenario 2: struct literal grows through assignment, then reads back
// the grown shape.
func TestScenarioStructFieldGrowth(t *testing.T) {
	s, _ := run(t, `var s = { x: 0 }; s.y = true; var t = s.y;`)
	if got := denyCount(s.Diagnostics()); got != 0 {
		t.Fatalf("expected no diagnostics, got %d: %v", got, s.Diagnostics())
	}
}

// Scenario 3: polymorphic instantiation — the same function checked
// out independently at two call sites with different argument types.
func TestScenarioPolymorphicCheckout(t *testing.T) {
	s, _ := run(t, `function id(x) { return x; } var a = id(0); var b = id("hi");`)
	if got := denyCount(s.Diagnostics()); got != 0 {
		t.Fatalf("expected no diagnostics, got %d: %v", got, s.Diagnostics())
	}
}

// Scenario 4: enum members are Real; comparing one against Bool fails.
func TestScenarioEnumArithmeticThenMismatch(t *testing.T) {
	s, _ := run(t, `enum Color { Red, Green } var c = Color.Red + 1;`)
	if got := denyCount(s.Diagnostics()); got != 0 {
		t.Fatalf("expected no diagnostics for the arithmetic line, got %d: %v", got, s.Diagnostics())
	}

	s2, _ := run(t, `enum Color { Red, Green } var d = Color.Red == true;`)
	if got := denyCount(s2.Diagnostics()); got == 0 {
		t.Fatalf("expected a type error comparing Real to Bool, got none")
	}
}

// Scenario 5: reading an undeclared field off a constructed, now-closed
// record is a MissingField error.
func TestScenarioConstructorMissingField(t *testing.T) {
	s, _ := run(t, `function Point(x, y) constructor { self.x = x; self.y = y; } var p = new Point(1, 2); var q = p.z;`)
	if got := denyCount(s.Diagnostics()); got == 0 {
		t.Fatalf("expected a MissingField error reading p.z, got none")
	}
}

// Scenario 6: out-of-order top-level declarations resolve via the
// discovery pass, including a self-qualified forward call.
func TestScenarioOutOfOrderSelfCall(t *testing.T) {
	s, _ := run(t, `function fwd() { return self.later(); } function later() { return 0; }`)
	if got := denyCount(s.Diagnostics()); got != 0 {
		t.Fatalf("expected no diagnostics, got %d: %v", got, s.Diagnostics())
	}
}

// Scenarios that must fail (spec §8).
func TestScenariosMustFail(t *testing.T) {
	cases := []string{
		`var a = 0 == true;`,
		`var a = 0, b = a();`,
		`"x" - "y";`,
		`function f() {} function f() {}`,
	}
	for _, src := range cases {
		s, _ := run(t, src)
		if got := denyCount(s.Diagnostics()); got == 0 {
			t.Errorf("expected a type error for %q, got none", src)
		}
	}
}

// `function(x=0, y) {}` is rejected by the parser itself (a default
// parameter may not be followed by a bare one), not by the solver.
func TestDefaultParamOrderIsAParseError(t *testing.T) {
	lex := lexer.New(token.FileId(1), `function(x=0, y) {}`)
	p := parser.New(token.FileId(1), lex)
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected a parse error for a bare parameter after a defaulted one")
	}
}
