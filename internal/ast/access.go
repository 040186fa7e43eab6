package ast

// AccessVariant is the marker interface implemented by each of the nine
// field/element access forms named in the data model.
type AccessVariant interface{ accessVariant() }

// GlobalAccess is `global.right`.
type GlobalAccess struct{ Right *Expr }

func (*GlobalAccess) accessVariant() {}

// IdentityAccess is `self.right` (also reachable via bare `self` used
// as a dot-chain base).
type IdentityAccess struct{ Right *Expr }

func (*IdentityAccess) accessVariant() {}

// OtherAccess is `other.right`.
type OtherAccess struct{ Right *Expr }

func (*OtherAccess) accessVariant() {}

// DotAccess is a generic `left.right` field access on an arbitrary
// expression.
type DotAccess struct{ Left, Right *Expr }

func (*DotAccess) accessVariant() {}

// ArrayAccess is `left[idx1]` or `left[idx1, idx2]`, optionally using
// the `left[@ idx]` direct-reference accessor.
type ArrayAccess struct {
	Left          *Expr
	Idx1          *Expr
	Idx2          *Expr // nil for single-index access
	UsingAccessor bool
}

func (*ArrayAccess) accessVariant() {}

// MapAccess is `left[? key]`.
type MapAccess struct{ Left, Key *Expr }

func (*MapAccess) accessVariant() {}

// GridAccess is `left[# idx1, idx2]`.
type GridAccess struct {
	Left       *Expr
	Idx1, Idx2 *Expr
}

func (*GridAccess) accessVariant() {}

// ListAccess is `left[| idx]`.
type ListAccess struct{ Left, Idx *Expr }

func (*ListAccess) accessVariant() {}

// StructAccess is `left[$ key]`.
type StructAccess struct{ Left, Key *Expr }

func (*StructAccess) accessVariant() {}
