package solver

import (
	"fmt"

	"github.com/duck-lang/duck/internal/token"
)

// unify is the central operation. It is eager: every call either
// succeeds immediately (possibly extending Subs or an Adt's field set)
// or records a type-error diagnostic and returns. It never defers a
// constraint for later resolution.
func (s *Solver) unify(a, b Ty, loc token.Location) {
	a = s.resolveTop(a)
	b = s.resolveTop(b)

	if _, ok := a.(AnyTy); ok {
		return
	}
	if _, ok := b.(AnyTy); ok {
		return
	}

	if av, ok := a.(VarTy); ok {
		s.bindVar(av.V, b, loc)
		return
	}
	if bv, ok := b.(VarTy); ok {
		s.bindVar(bv.V, a, loc)
		return
	}

	switch at := a.(type) {
	case IdentityTy:
		if _, ok := b.(IdentityTy); ok {
			return
		}
		s.typeMismatch(a, b, loc)
	case UndefinedTy:
		if _, ok := b.(UndefinedTy); ok {
			return
		}
		s.typeMismatch(a, b, loc)
	case NooneTy:
		if _, ok := b.(NooneTy); ok {
			return
		}
		s.typeMismatch(a, b, loc)
	case BoolTy:
		if _, ok := b.(BoolTy); ok {
			return
		}
		s.typeMismatch(a, b, loc)
	case RealTy:
		if _, ok := b.(RealTy); ok {
			return
		}
		s.typeMismatch(a, b, loc)
	case StrTy:
		if _, ok := b.(StrTy); ok {
			return
		}
		s.typeMismatch(a, b, loc)
	case UninitializedTy:
		if _, ok := b.(UninitializedTy); ok {
			return
		}
		s.typeMismatch(a, b, loc)
	case ArrayTy:
		bt, ok := b.(ArrayTy)
		if !ok {
			s.typeMismatch(a, b, loc)
			return
		}
		s.unify(at.Elem, bt.Elem, loc)
	case OptionTy:
		bt, ok := b.(OptionTy)
		if !ok {
			s.typeMismatch(a, b, loc)
			return
		}
		s.unify(at.Elem, bt.Elem, loc)
	case AdtTy:
		bt, ok := b.(AdtTy)
		if !ok {
			s.typeMismatch(a, b, loc)
			return
		}
		s.unifyAdt(at.Id, bt.Id, loc)
	case FuncTy:
		bt, ok := b.(FuncTy)
		if !ok {
			s.typeMismatch(a, b, loc)
			return
		}
		s.unifyFunc(at.Id, bt.Id, loc)
	default:
		s.typeMismatch(a, b, loc)
	}
}

// resolveTop follows a VarTy's substitution chain to the furthest type
// currently known for it (which may itself still be an unbound VarTy).
// It does not recurse into Array/Option/Adt structure; only the
// outermost layer needs resolving before a dispatch decision.
func (s *Solver) resolveTop(t Ty) Ty {
	for {
		v, ok := t.(VarTy)
		if !ok {
			return t
		}
		next, ok := s.subs[v.V]
		if !ok {
			return t
		}
		t = next
	}
}

// bindVar unifies v with t: if v already has a substitution, the new
// constraint is unified against it instead of overwriting it outright
// (so a variable can't silently forget an earlier-established type).
// Otherwise v ↦ t is recorded, after an occurs-check that rejects t
// transitively mentioning v, except through an IdentityTy, which
// carries no substructure and so can never fail the check regardless
// of what record it stands in for.
func (s *Solver) bindVar(v Var, t Ty, loc token.Location) {
	if existing, ok := s.subs[v]; ok {
		s.unify(existing, t, loc)
		return
	}
	if vt, ok := t.(VarTy); ok && vt.V == v {
		return // unify(v, v): reflexive, no-op
	}
	if s.occursIn(v, t) {
		s.errorf(loc, "occurs-check failure: %s occurs in %s", v, t)
		return
	}
	s.subs[v] = t
	// Keep substitutions normalized: a Var bound directly to v now
	// points past v to t, so no entry names a Var that has its own
	// substitution.
	for k, bound := range s.subs {
		if bt, ok := bound.(VarTy); ok && bt.V == v && k != v {
			s.subs[k] = t
		}
	}
}

func (s *Solver) occursIn(v Var, t Ty) bool {
	switch tt := t.(type) {
	case VarTy:
		if tt.V == v {
			return true
		}
		if next, ok := s.subs[tt.V]; ok {
			return s.occursIn(v, next)
		}
		return false
	case ArrayTy:
		return s.occursIn(v, tt.Elem)
	case OptionTy:
		return s.occursIn(v, tt.Elem)
	case AdtTy:
		a := s.adts.get(tt.Id)
		if a == nil {
			return false
		}
		for _, name := range a.Order {
			if s.occursIn(v, a.Fields[name].Ty) {
				return true
			}
		}
		return false
	case FuncTy:
		info := s.funcs.get(tt.Id)
		if info == nil || info.Def == nil {
			return false
		}
		for _, p := range info.Def.Params {
			if s.occursIn(v, p) {
				return true
			}
		}
		return s.occursIn(v, info.Def.Return)
	default:
		return false
	}
}

// unifyAdt merges the field sets of a and b field by field, then
// unions their identities so every remaining AdtTy holder of either id
// observes the merged record.
func (s *Solver) unifyAdt(aId, bId AdtId, loc token.Location) {
	ra, rb := s.adts.find(aId), s.adts.find(bId)
	if ra == rb {
		return
	}
	A, B := s.adts.get(ra), s.adts.get(rb)

	merged := map[string]*Field{}
	var order []string
	for _, name := range A.Order {
		merged[name] = A.Fields[name]
		order = append(order, name)
	}
	for _, name := range B.Order {
		bf := B.Fields[name]
		if af, ok := merged[name]; ok {
			s.unify(af.Ty, bf.Ty, loc)
			af.Resolved = af.Resolved || bf.Resolved
			af.Constant = af.Constant || bf.Constant
			continue
		}
		if A.State == Concrete {
			s.errorf(loc, "MissingField: field %q is not declared on this record", name)
			continue
		}
		merged[name] = bf
		order = append(order, name)
	}
	for _, name := range A.Order {
		if _, inB := B.Fields[name]; inB {
			continue
		}
		if B.State == Concrete {
			s.errorf(loc, "MissingField: field %q is not declared on this record", name)
		}
	}

	result := &Adt{Id: ra, State: combineAdtState(A.State, B.State), Fields: merged, Order: order}
	canonical := s.adts.union(ra, rb)
	s.adts.replace(canonical, result)
}

func combineAdtState(a, b AdtState) AdtState {
	if a == Concrete || b == Concrete {
		return Concrete
	}
	if a == Extendable || b == Extendable {
		return Extendable
	}
	return Inferred
}

// unifyFunc implements both Func(Def)≟Func(Call) (the call-site type
// check) and Func(Def)≟Func(Def) (two names resolving to the same
// function, or a redeclaration conflict).
func (s *Solver) unifyFunc(aId, bId FuncId, loc token.Location) {
	if aId == bId {
		return
	}
	a, b := s.funcs.get(aId), s.funcs.get(bId)
	switch {
	case a.Def != nil && b.Call != nil:
		s.unifyDefCall(a.Def, b.Call, loc)
	case a.Call != nil && b.Def != nil:
		s.unifyDefCall(b.Def, a.Call, loc)
	case a.Def != nil && b.Def != nil:
		s.unifyDefDef(a.Def, b.Def, loc)
	case a.Call != nil && b.Call != nil:
		s.unify(a.Call.Return, b.Call.Return, loc)
		n := len(a.Call.Args)
		if len(b.Call.Args) < n {
			n = len(b.Call.Args)
		}
		for i := 0; i < n; i++ {
			s.unify(a.Call.Args[i], b.Call.Args[i], loc)
		}
	}
}

func (s *Solver) unifyDefCall(def *FuncDef, call *FuncCall, loc token.Location) {
	if len(call.Args) < def.MinArgs || len(call.Args) > len(def.Params) {
		s.errorf(loc, "function %s expects %d-%d arguments, got %d", def.Name, def.MinArgs, len(def.Params), len(call.Args))
	}
	n := len(call.Args)
	if n > len(def.Params) {
		n = len(def.Params)
	}
	for i := 0; i < n; i++ {
		s.unify(call.Args[i], def.Params[i], loc)
	}
	s.unify(call.Return, def.Return, loc)
}

func (s *Solver) unifyDefDef(a, b *FuncDef, loc token.Location) {
	if a.MinArgs != b.MinArgs || len(a.Params) != len(b.Params) {
		s.errorf(loc, "conflicting declarations of %s: arity mismatch", a.Name)
		return
	}
	for i := range a.Params {
		s.unify(a.Params[i], b.Params[i], loc)
	}
	s.unify(a.Return, b.Return, loc)
}

func (s *Solver) typeMismatch(a, b Ty, loc token.Location) {
	s.errorf(loc, "type mismatch: expected %s, got %s", a, b)
}

func (s *Solver) errorf(loc token.Location, format string, args ...any) {
	s.addTypeError(loc, fmt.Sprintf(format, args...))
}
