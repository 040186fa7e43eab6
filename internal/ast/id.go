package ast

import "github.com/google/uuid"

// NodeId is the identity type shared by StmtId and ExprId. A uuid.UUID
// is a comparable [16]byte, satisfying the sole invariant placed on node
// identity: uniqueness and cheap equality.
type NodeId = uuid.UUID

// StmtId uniquely identifies a Stmt within a compilation.
type StmtId NodeId

// ExprId uniquely identifies an Expr within a compilation. The solver
// keys its per-expression type variables by ExprId.
type ExprId NodeId

// NewStmtId generates a fresh, randomly-assigned StmtId.
func NewStmtId() StmtId { return StmtId(uuid.New()) }

// NewExprId generates a fresh, randomly-assigned ExprId.
func NewExprId() ExprId { return ExprId(uuid.New()) }

func (id StmtId) String() string { return NodeId(id).String() }
func (id ExprId) String() string { return NodeId(id).String() }
