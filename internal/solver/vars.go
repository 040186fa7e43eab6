package solver

import (
	"fmt"

	"github.com/duck-lang/duck/internal/ast"
)

// VarKind distinguishes the three flavors of Var: one per expression
// node, a singleton Return per function scope, and freshly generated
// ones minted wherever the solver needs a new placeholder (field
// promises, element types, top-level names, checkout copies).
type VarKind int

const (
	ExprVar VarKind = iota
	ReturnVar
	FreshVar
)

// Var is a solver-internal variable, comparable so it can key Subs
// directly. ExprVar instances are identified by the expression's own
// ExprId (stable across the run); Return and Fresh instances carry a
// monotonic Seq minted by the owning Solver, since they have no AST
// node of their own to borrow identity from.
type Var struct {
	Kind VarKind
	Expr ast.ExprId
	Seq  uint64
}

func (v Var) String() string {
	switch v.Kind {
	case ExprVar:
		return fmt.Sprintf("e:%s", v.Expr)
	case ReturnVar:
		return fmt.Sprintf("ret:%d", v.Seq)
	default:
		return fmt.Sprintf("v:%d", v.Seq)
	}
}

// ExprVarFor returns the Var keyed by e's ExprId. Every expression node
// gets exactly one, minted lazily the first time it's asked for.
func ExprVarFor(id ast.ExprId) Var { return Var{Kind: ExprVar, Expr: id} }

// freshVar mints a new Fresh-flavor Var.
func (s *Solver) freshVar() Var {
	s.varSeq++
	return Var{Kind: FreshVar, Seq: s.varSeq}
}

// freshReturnVar mints a new Return-flavor Var for a function scope.
func (s *Solver) freshReturnVar() Var {
	s.varSeq++
	return Var{Kind: ReturnVar, Seq: s.varSeq}
}
