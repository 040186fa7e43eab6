package ast

import (
	"strings"
	"testing"

	"github.com/duck-lang/duck/internal/token"
)

func loc() token.Location { return token.Location{} }

func ident(name string) *Expr {
	return NewExpr(&IdentifierExpr{Name: name}, loc())
}

func realLit(text string) *Expr {
	return NewExpr(&LiteralExpr{Variant: RealLiteral{Text: text}}, loc())
}

func TestVisitChildExprsBinary(t *testing.T) {
	e := NewExpr(&EvaluationExpr{Op: EvalAdd, Left: ident("a"), Right: realLit("1")}, loc())
	var seen []string
	e.VisitChildExprs(func(child *Expr) {
		seen = append(seen, PrintExpr(child))
	})
	if len(seen) != 2 || seen[0] != "a" || seen[1] != "1" {
		t.Fatalf("unexpected children: %v", seen)
	}
}

func TestVisitChildExprsMutRewritesInPlace(t *testing.T) {
	e := NewExpr(&EvaluationExpr{Op: EvalAdd, Left: ident("a"), Right: realLit("1")}, loc())
	e.VisitChildExprsMut(func(child **Expr) {
		*child = ident("replaced")
	})
	bin := e.Kind.(*EvaluationExpr)
	if PrintExpr(bin.Left) != "replaced" || PrintExpr(bin.Right) != "replaced" {
		t.Fatalf("mutation did not take effect: %+v", bin)
	}
}

func TestVisitChildStmtsBlockOrder(t *testing.T) {
	s1 := NewStmt(&ExprStmt{Value: ident("a")}, loc())
	s2 := NewStmt(&ExprStmt{Value: ident("b")}, loc())
	block := NewStmt(&BlockStmt{Stmts: []*Stmt{s1, s2}}, loc())

	var order []StmtId
	block.VisitChildStmts(func(child *Stmt) {
		order = append(order, child.Id)
	})
	if len(order) != 2 || order[0] != s1.Id || order[1] != s2.Id {
		t.Fatalf("unexpected traversal order: %v", order)
	}
}

func TestVisitDoesNotRecurse(t *testing.T) {
	inner := NewStmt(&ExprStmt{Value: ident("inner")}, loc())
	innerBlock := NewStmt(&BlockStmt{Stmts: []*Stmt{inner}}, loc())
	outerBlock := NewStmt(&BlockStmt{Stmts: []*Stmt{innerBlock}}, loc())

	count := 0
	outerBlock.VisitChildStmts(func(*Stmt) { count++ })
	if count != 1 {
		t.Fatalf("visitor recursed: got %d direct children, want 1", count)
	}
}

func TestPrintRoundTripShape(t *testing.T) {
	ifStmt := NewStmt(&IfStmt{
		Cond: NewExpr(&EqualityExpr{Op: EqEqual, Left: ident("x"), Right: realLit("0")}, loc()),
		Then: NewStmt(&BlockStmt{Stmts: []*Stmt{
			NewStmt(&ReturnStmt{Value: ident("x")}, loc()),
		}}, loc()),
	}, loc())

	out := Print(ifStmt)
	if !strings.Contains(out, "if ((x == 0))") {
		t.Fatalf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "return x;") {
		t.Fatalf("missing return in output: %q", out)
	}
}

func TestNodeIdsAreUnique(t *testing.T) {
	a := NewStmt(&BreakStmt{}, loc())
	b := NewStmt(&BreakStmt{}, loc())
	if a.Id == b.Id {
		t.Fatalf("expected distinct ids, got equal: %v", a.Id)
	}
}
