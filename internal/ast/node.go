// Package ast defines the GML abstract syntax tree: tagged Stmt/Expr
// nodes carrying a Kind value, and the four-method, non-recursive
// visitor contract every node exposes. Child traversal is dispatched
// through a single switch per visitor method rather than one method per
// concrete node type: the AST's sum types are large enough that
// double-dispatch would scatter fifty trivial methods across fifty
// files for no benefit over one switch read top to bottom.
package ast

import "github.com/duck-lang/duck/internal/token"

// SuppressionTag attaches a lint-suppression directive to the statement
// or expression that lexically follows the comment that produced it.
type SuppressionTag struct {
	Level token.SuppressionLevel
	Rule  string
}

// StmtKind is the marker interface implemented by every concrete
// statement kind (*BlockStmt, *IfStmt, *ForStmt, ...).
type StmtKind interface{ stmtKind() }

// ExprKind is the marker interface implemented by every concrete
// expression kind (*EvaluationExpr, *CallExpr, *LiteralExpr, ...).
type ExprKind interface{ exprKind() }

// Stmt is a single statement node.
type Stmt struct {
	Kind     StmtKind
	Id       StmtId
	Location token.Location
	Tag      *SuppressionTag
}

// NewStmt wraps kind in a Stmt with a fresh Id.
func NewStmt(kind StmtKind, loc token.Location) *Stmt {
	return &Stmt{Kind: kind, Id: NewStmtId(), Location: loc}
}

// Expr is a single expression node. TypeSlot is left nil by the parser
// and filled in by the solver; ast does not depend on the solver's
// type representation, so the slot is untyped from this package's view.
type Expr struct {
	Kind     ExprKind
	Id       ExprId
	Location token.Location
	Tag      *SuppressionTag
	TypeSlot any
}

// NewExpr wraps kind in an Expr with a fresh Id.
func NewExpr(kind ExprKind, loc token.Location) *Expr {
	return &Expr{Kind: kind, Id: NewExprId(), Location: loc}
}
