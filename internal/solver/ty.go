// Package solver implements the type-inference engine: constraint
// generation and unification over the AST defined in internal/ast,
// producing a substitution map from solver variables to types. It is
// the hard part of this toolchain; the lexer/parser/AST are
// comparatively mechanical front ends feeding it.
//
// The type representation mirrors internal/ast's own idiom: a tagged
// Ty interface with one empty-method concrete struct per variant,
// dispatched through a single switch (unify, in unify.go) rather than
// double-dispatch. The Adt variant is the one exception to "hold data
// inline": two Ty values that both name the same record must be able
// to observe each other's field additions, so AdtTy carries an AdtId
// and the actual field table lives in the Solver's union-find-backed
// Adt store (adtstore.go), exactly the indirection a symbol table gives a
// nominal type checker like the teacher's (internal/semantic/symbol_table.go),
// except keyed by a record identity instead of a scope-qualified name.
package solver

import "fmt"

// Ty is the tagged variant of solver-internal types: Any, Identity,
// Undefined, Noone, Bool, Real, Str, Var(Var), Array(Ty), Adt(AdtRef),
// Func(FuncTy), Option(Ty), Uninitialized.
type Ty interface {
	isTy()
	String() string
}

// AnyTy unifies with anything and records no constraint.
type AnyTy struct{}

// IdentityTy is the sentinel meaning "the record currently being
// constructed/bound"; see sanitizeIdentity in checkout.go.
type IdentityTy struct{}

// UndefinedTy, NooneTy, BoolTy, RealTy, StrTy are GML's primitive
// concrete types.
type UndefinedTy struct{}
type NooneTy struct{}
type BoolTy struct{}
type RealTy struct{}
type StrTy struct{}

// UninitializedTy stands for a declared-but-unassigned value, distinct
// from UndefinedTy (the runtime `undefined` value). No part of the
// solver produces it: a `var x;` without an initializer, like a name
// registered by the discovery pass, gets a fresh VarTy instead.
type UninitializedTy struct{}

// VarTy wraps a solver variable awaiting resolution.
type VarTy struct{ V Var }

// ArrayTy is a homogeneous array; an empty array literal's element
// type is a fresh Var, not AnyTy, so later pushes can still pin it
// down. Any is reserved for truly unconstrained positions; this
// implementation narrows as far as it can.
type ArrayTy struct{ Elem Ty }

// OptionTy wraps the type of a null-coalesce or similarly optional
// expression whose presence is not statically guaranteed.
type OptionTy struct{ Elem Ty }

// AdtTy names a record by id; the Solver's Adt store is the only place
// that holds the actual field table (see adt.go).
type AdtTy struct{ Id AdtId }

// FuncTy wraps a function type reference; the Solver's function store
// holds the actual Def/Call pair (see functy.go), mirroring AdtTy.
type FuncTy struct{ Id FuncId }

func (AnyTy) isTy()           {}
func (IdentityTy) isTy()      {}
func (UndefinedTy) isTy()     {}
func (NooneTy) isTy()         {}
func (BoolTy) isTy()          {}
func (RealTy) isTy()          {}
func (StrTy) isTy()           {}
func (UninitializedTy) isTy() {}
func (VarTy) isTy()           {}
func (ArrayTy) isTy()         {}
func (OptionTy) isTy()        {}
func (AdtTy) isTy()           {}
func (FuncTy) isTy()          {}

func (AnyTy) String() string           { return "any" }
func (IdentityTy) String() string      { return "<identity>" }
func (UndefinedTy) String() string     { return "undefined" }
func (NooneTy) String() string         { return "noone" }
func (BoolTy) String() string          { return "bool" }
func (RealTy) String() string          { return "real" }
func (StrTy) String() string           { return "string" }
func (UninitializedTy) String() string { return "<uninitialized>" }
func (t VarTy) String() string         { return fmt.Sprintf("?%s", t.V) }
func (t ArrayTy) String() string       { return fmt.Sprintf("array<%s>", t.Elem) }
func (t OptionTy) String() string      { return fmt.Sprintf("%s?", t.Elem) }
func (t AdtTy) String() string         { return fmt.Sprintf("struct#%d", t.Id) }
func (t FuncTy) String() string        { return fmt.Sprintf("func#%d", t.Id) }
