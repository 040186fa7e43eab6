package ast

// MacroStmt is a `#macro [config:]name body` declaration, carried whole
// into the AST since it has no sub-expression structure the solver or
// lints need to see.
type MacroStmt struct {
	Config string
	Name   string
	Body   string
}

func (*MacroStmt) stmtKind() {}

// EnumMember is one `name [= expr]` entry of an enum declaration.
type EnumMember struct {
	Name  string
	Value *Expr // nil if the member has no explicit initializer
}

// EnumStmt is `enum Name { Member, Member = expr, ... }`.
type EnumStmt struct {
	Name    string
	Members []EnumMember
}

func (*EnumStmt) stmtKind() {}

// GlobalvarStmt is `globalvar name;`.
type GlobalvarStmt struct{ Name string }

func (*GlobalvarStmt) stmtKind() {}

// LocalVarDecl is one `name [= expr]` entry of a `var` declaration.
type LocalVarDecl struct {
	Name string
	Init *Expr // nil if uninitialized
}

// LocalVariablesStmt is `var a, b = 1, c;`.
type LocalVariablesStmt struct{ Decls []LocalVarDecl }

func (*LocalVariablesStmt) stmtKind() {}

// TryCatchStmt is `try { ... } catch (name) { ... } finally { ... }`.
// CatchName and CatchBody are nil together if there is no catch clause
// (a bare try/finally); Finally is nil if there is no finally clause.
type TryCatchStmt struct {
	Try       *Stmt
	CatchName *string
	CatchBody *Stmt
	Finally   *Stmt
}

func (*TryCatchStmt) stmtKind() {}

// ForStmt is `for (init; cond; post) body`. Any of Init/Cond/Post may
// be nil for the omitted-clause form `for (;;)`.
type ForStmt struct {
	Init *Stmt
	Cond *Expr
	Post *Stmt
	Body *Stmt
}

func (*ForStmt) stmtKind() {}

// WithStmt is `with (target) body`, rebinding self to target for the
// duration of body.
type WithStmt struct {
	Target *Expr
	Body   *Stmt
}

func (*WithStmt) stmtKind() {}

// RepeatStmt is `repeat (count) body`.
type RepeatStmt struct {
	Count *Expr
	Body  *Stmt
}

func (*RepeatStmt) stmtKind() {}

// DoUntilStmt is `do body until (cond);`.
type DoUntilStmt struct {
	Body *Stmt
	Cond *Expr
}

func (*DoUntilStmt) stmtKind() {}

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	Cond *Expr
	Body *Stmt
}

func (*WhileStmt) stmtKind() {}

// IfStmt is `if (cond) then-branch [else else-branch]`.
type IfStmt struct {
	Cond   *Expr
	Then   *Stmt
	Else   *Stmt // nil if there is no else branch
}

func (*IfStmt) stmtKind() {}

// SwitchCase is one `case expr:` or `default:` arm. Values is empty for
// a default arm.
type SwitchCase struct {
	Values []*Expr
	Body   []*Stmt
}

// SwitchStmt is `switch (subject) { case ...: ... default: ... }`.
type SwitchStmt struct {
	Subject *Expr
	Cases   []SwitchCase
}

func (*SwitchStmt) stmtKind() {}

// BlockStmt is `{ stmt... }` or `begin stmt... end`.
type BlockStmt struct{ Stmts []*Stmt }

func (*BlockStmt) stmtKind() {}

// ReturnStmt is `return [expr];`.
type ReturnStmt struct{ Value *Expr } // nil Value for a bare `return;`

func (*ReturnStmt) stmtKind() {}

// ThrowStmt is `throw expr;`.
type ThrowStmt struct{ Value *Expr }

func (*ThrowStmt) stmtKind() {}

// DeleteStmt is `delete expr;`.
type DeleteStmt struct{ Target *Expr }

func (*DeleteStmt) stmtKind() {}

// BreakStmt is `break;`.
type BreakStmt struct{}

func (*BreakStmt) stmtKind() {}

// ContinueStmt is `continue;`.
type ContinueStmt struct{}

func (*ContinueStmt) stmtKind() {}

// ExitStmt is `exit;`.
type ExitStmt struct{}

func (*ExitStmt) stmtKind() {}

// AssignOp is the operator of an AssignmentStmt.
type AssignOp int

const (
	AssignSet AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
	AssignBitAnd
	AssignBitOr
	AssignBitXor
)

// AssignmentStmt is materialized only when a top-level expression
// statement's root is `=`-shaped; equality comparisons nested inside
// an assignment's value stay EqualityExpr nodes.
type AssignmentStmt struct {
	Op     AssignOp
	Target *Expr
	Value  *Expr
}

func (*AssignmentStmt) stmtKind() {}

// ExprStmt is any other expression used as a statement (most commonly
// a CallExpr).
type ExprStmt struct{ Value *Expr }

func (*ExprStmt) stmtKind() {}
