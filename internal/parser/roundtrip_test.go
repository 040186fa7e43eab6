package parser

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/duck-lang/duck/internal/ast"
	"github.com/duck-lang/duck/internal/lexer"
	"github.com/duck-lang/duck/internal/token"
)

// printAll renders every top-level statement parsed from src back to
// source text, joined in parse order.
func printAll(stmts []*ast.Stmt) string {
	var out string
	for _, s := range stmts {
		out += ast.Print(s)
	}
	return out
}

// roundTrip asserts the testable property from spec §8: pretty-printing
// a parsed AST and re-parsing it yields an equivalent tree, "equivalent"
// meaning modulo NodeId and whitespace. ast.Print doesn't reproduce the
// original spelling of every construct (it normalizes `&&`/`and` to
// `and`, for instance), so the tree it re-parses from its own output is
// not always byte-identical to src — what must hold is that printing
// twice converges: print(parse(src)) and print(parse(print(parse(src))))
// are the same string, and neither parse reports an error.
func roundTrip(t *testing.T, src string) string {
	t.Helper()
	lex1 := lexer.New(token.FileId(1), src)
	p1 := New(token.FileId(1), lex1)
	stmts1 := p1.ParseProgram()
	if len(p1.Errors()) != 0 {
		t.Fatalf("parsing %q: %v", src, p1.Errors())
	}
	printed1 := printAll(stmts1)

	lex2 := lexer.New(token.FileId(1), printed1)
	p2 := New(token.FileId(1), lex2)
	stmts2 := p2.ParseProgram()
	if len(p2.Errors()) != 0 {
		t.Fatalf("reparsing printed output %q: %v", printed1, p2.Errors())
	}
	printed2 := printAll(stmts2)

	if printed1 != printed2 {
		t.Fatalf("print not stable under reparse:\nfirst:  %q\nsecond: %q", printed1, printed2)
	}
	return printed1
}

func TestRoundTripArithmetic(t *testing.T) {
	roundTrip(t, `var a = 0, b = a + 1 * 2 - (3 / 4);`)
}

func TestRoundTripLogicalKeywordsNormalize(t *testing.T) {
	// `&&`/`||`/`%` are printed in their keyword spelling; the second
	// parse sees FromKeyword=true either way, so the property still
	// holds even though printed1 != src.
	roundTrip(t, `var a = (x && y) || (z % 2);`)
}

func TestRoundTripControlFlow(t *testing.T) {
	roundTrip(t, `
if (x > 0) {
    show_debug_message("positive");
} else {
    show_debug_message("non-positive");
}
for (var i = 0; i < 10; i += 1) {
    break;
}
while (running) {
    continue;
}
do {
    step();
} until (done);
repeat (3) {
    tick();
}
with (obj) {
    x += 1;
}
switch (state) {
    case 0:
        enter();
    default:
        idle();
}
`)
}

func TestRoundTripFunctionAndConstructor(t *testing.T) {
	roundTrip(t, `
function add(a, b = 1) {
    return a + b;
}
function Point(x, y) constructor {
    self.x = x;
    self.y = y;
}
function Point3(x, y, z) constructor : Point(x, y) {
    self.z = z;
}
`)
}

func TestRoundTripAccessVariants(t *testing.T) {
	roundTrip(t, `
var a = arr[0];
var b = arr[0, 1];
var c = map[? "key"];
var d = grid[# 0, 1];
var e = list[| 0];
var f = struct[$ "field"];
var g = self.x;
var h = other.y;
var i = global.z;
`)
}

func TestRoundTripEnumAndMacro(t *testing.T) {
	roundTrip(t, `
enum Color {
    Red,
    Green,
    Blue = 10,
}
#macro MAX_HEALTH 100
`)
}

func TestRoundTripTryCatchAndThrow(t *testing.T) {
	roundTrip(t, `
try {
    risky();
} catch (e) {
    throw e;
} finally {
    cleanup();
}
`)
}

// TestRoundTripSnapshot pins the printed form of a representative
// program via a golden file, so an unintended change to the
// pretty-printer's output shape shows up as a reviewable diff instead
// of silently passing the weaker stability check above.
func TestRoundTripSnapshot(t *testing.T) {
	printed := roundTrip(t, `
function Point(x, y) constructor {
    self.x = x;
    self.y = y;
}
enum Color {
    Red,
    Green,
}
var p = new Point(1, 2);
switch (Color.Red) {
    case Color.Red:
        show_debug_message("red");
    default:
        show_debug_message("other");
}
`)
	snaps.MatchSnapshot(t, printed)
}
