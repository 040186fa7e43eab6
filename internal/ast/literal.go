package ast

// LiteralVariant is the marker interface implemented by each concrete
// literal form.
type LiteralVariant interface{ literalVariant() }

type TrueLiteral struct{}
type FalseLiteral struct{}
type UndefinedLiteral struct{}
type NooneLiteral struct{}

func (TrueLiteral) literalVariant()      {}
func (FalseLiteral) literalVariant()     {}
func (UndefinedLiteral) literalVariant() {}
func (NooneLiteral) literalVariant()     {}

// StringLiteral holds the already-unescaped string value.
type StringLiteral struct{ Value string }

func (StringLiteral) literalVariant() {}

// RealLiteral holds the literal's source text; the solver parses it
// to a numeric value lazily, since most type checking never needs it.
type RealLiteral struct{ Text string }

func (RealLiteral) literalVariant() {}

// HexLiteral holds the literal's source text, `$`- or `0x`-prefixed.
type HexLiteral struct{ Text string }

func (HexLiteral) literalVariant() {}

// ArrayLiteral is `[a, b, c]`.
type ArrayLiteral struct{ Elements []*Expr }

func (ArrayLiteral) literalVariant() {}

// StructField is one `name: value` pair of a struct literal.
type StructField struct {
	Name  string
	Value *Expr
}

// StructLiteral is `{ name: value, ... }`.
type StructLiteral struct{ Fields []StructField }

func (StructLiteral) literalVariant() {}

// MiscLiteral is a reference to a configured "misc named constant"
// (e.g. an engine-provided constant like pi).
type MiscLiteral struct{ Name string }

func (MiscLiteral) literalVariant() {}
