package solver

import (
	"testing"

	"github.com/duck-lang/duck/internal/ast"
	"github.com/duck-lang/duck/internal/token"
)

func newTestSolver() *Solver { return New(nil) }

var noLoc = token.Location{}

func identExpr(name string) *ast.Expr {
	return ast.NewExpr(&ast.IdentifierExpr{Name: name}, noLoc)
}

func TestUnifyReflexive(t *testing.T) {
	s := newTestSolver()
	v := s.freshVar()
	before := len(s.subs)
	s.unify(VarTy{V: v}, VarTy{V: v}, noLoc)
	if len(s.subs) != before {
		t.Fatalf("unify(t, t) should add no substitutions, had %d now %d", before, len(s.subs))
	}
	if len(s.diags) != 0 {
		t.Fatalf("unify(t, t) should not error, got %v", s.diags)
	}
}

func TestUnifySymmetric(t *testing.T) {
	s1 := newTestSolver()
	a1, b1 := s1.freshVar(), s1.freshVar()
	s1.unify(VarTy{V: a1}, VarTy{V: b1}, noLoc)

	s2 := newTestSolver()
	a2, b2 := s2.freshVar(), s2.freshVar()
	s2.unify(VarTy{V: b2}, VarTy{V: a2}, noLoc)

	r1 := s1.resolveTop(VarTy{V: a1})
	r2 := s1.resolveTop(VarTy{V: b1})
	if r1 != r2 {
		t.Fatalf("a and b should resolve to the same representative after unify(a,b), got %v and %v", r1, r2)
	}

	// Same shape of constraint, operands reversed: still leaves exactly
	// one variable bound to the other, not two independent bindings.
	if r3, r4 := s2.resolveTop(VarTy{V: a2}), s2.resolveTop(VarTy{V: b2}); r3 != r4 {
		t.Fatalf("a and b should resolve to the same representative after unify(b,a), got %v and %v", r3, r4)
	}
	if len(s1.diags) != 0 || len(s2.diags) != 0 {
		t.Fatalf("symmetric unify should not error")
	}
}

func TestUnifyIdempotent(t *testing.T) {
	s := newTestSolver()
	v := s.freshVar()
	s.unify(VarTy{V: v}, RealTy{}, noLoc)

	once := s.resolveTop(VarTy{V: v})
	s.unify(VarTy{V: v}, once, noLoc) // apply the substitution again
	twice := s.resolveTop(VarTy{V: v})

	if once != twice {
		t.Fatalf("applying the substitution twice should be a no-op, got %v then %v", once, twice)
	}
	if len(s.diags) != 0 {
		t.Fatalf("re-applying an already-resolved substitution should not error, got %v", s.diags)
	}
}

func TestUnifyMismatchRecordsDiagnosticAndContinues(t *testing.T) {
	s := newTestSolver()
	s.unify(RealTy{}, BoolTy{}, noLoc)
	if len(s.diags) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", len(s.diags))
	}
	// The solver must still be usable afterward (accumulate, don't abort).
	v := s.freshVar()
	s.unify(VarTy{V: v}, StrTy{}, noLoc)
	if len(s.diags) != 1 {
		t.Fatalf("an unrelated, valid unify should not add another diagnostic")
	}
}

func TestSubstitutionsAreNormalized(t *testing.T) {
	s := newTestSolver()
	a, b := s.freshVar(), s.freshVar()
	s.unify(VarTy{V: a}, VarTy{V: b}, noLoc)
	s.unify(VarTy{V: b}, RealTy{}, noLoc)

	// subs[a] may itself be a Var only if that Var is still unresolved;
	// since b now resolves to RealTy, a's chain must not dead-end on an
	// intermediate Var that has its own substitution.
	if t2, ok := s.subs[a]; ok {
		if vt, ok := t2.(VarTy); ok {
			if _, stillVar := s.subs[vt.V]; stillVar {
				t.Fatalf("subs[a] names a Var (%v) that itself has a substitution; not normalized", vt.V)
			}
		}
	}
	if _, ok := s.resolveTop(VarTy{V: a}).(RealTy); !ok {
		t.Fatalf("expected a to resolve to Real, got %v", s.resolveTop(VarTy{V: a}))
	}
}

func TestConcreteAdtRejectsNewField(t *testing.T) {
	s := newTestSolver()
	rec := s.adts.alloc(Concrete)
	rec.setField("x", &Field{Ty: RealTy{}, Resolved: true})

	before := len(rec.Order)
	s.writeField(rec.Id, identExpr("y"), BoolTy{}, noLoc)
	after := s.adts.get(rec.Id)

	if len(after.Order) != before {
		t.Fatalf("a Concrete Adt must not gain a field; had %d fields, now %d", before, len(after.Order))
	}
	if len(s.diags) == 0 {
		t.Fatalf("expected a MissingField diagnostic for writing an undeclared field on a Concrete record")
	}
}

func TestIdentitySanitizationBreaksSelfCycle(t *testing.T) {
	s := newTestSolver()
	self := s.adts.alloc(Inferred)
	self.setField("next", &Field{Ty: AdtTy{Id: self.Id}, Resolved: true})

	def := &FuncDef{Name: "Node", Self: self.Id, HasSelf: true, Return: AdtTy{Id: self.Id}}
	s.sanitizeIdentity(def)

	if _, ok := def.Return.(IdentityTy); !ok {
		t.Fatalf("Return referencing the constructor's own self should sanitize to IdentityTy, got %v", def.Return)
	}
	nextField := s.adts.get(self.Id).Fields["next"]
	if _, ok := nextField.Ty.(IdentityTy); !ok {
		t.Fatalf("a field cycling back to self should sanitize to IdentityTy, got %v", nextField.Ty)
	}
}
