package solver

import (
	"fmt"

	"github.com/duck-lang/duck/internal/ast"
	"github.com/duck-lang/duck/internal/token"
)

// checkExpr generates and resolves constraints for e, leaving its
// inferred type reachable via s.tyOf(e) for the caller.
func (s *Solver) checkExpr(e *ast.Expr) {
	switch k := e.Kind.(type) {
	case *ast.LiteralExpr:
		s.checkLiteral(e, k.Variant)
	case *ast.IdentifierExpr:
		s.checkIdentifier(e, k)
	case *ast.GroupingExpr:
		s.checkExpr(k.Inner)
		s.unify(s.tyOf(e), s.tyOf(k.Inner), e.Location)
	case *ast.AccessExpr:
		s.checkAccessRead(e, k.Variant)
	case *ast.CallExpr:
		s.checkCall(e, k)
	case *ast.NewInstanceExpr:
		s.checkNewInstance(e, k)
	case *ast.FunctionExpr:
		s.checkFunctionLiteral(e, k)
	case *ast.UnaryExpr:
		s.checkUnary(e, k)
	case *ast.PostfixExpr:
		s.checkExpr(k.Operand)
		s.unify(s.tyOf(k.Operand), RealTy{}, e.Location)
		s.unify(s.tyOf(e), RealTy{}, e.Location)
	case *ast.LogicalExpr:
		s.checkExpr(k.Left)
		s.checkExpr(k.Right)
		s.unify(s.tyOf(k.Left), BoolTy{}, k.Left.Location)
		s.unify(s.tyOf(k.Right), BoolTy{}, k.Right.Location)
		s.unify(s.tyOf(e), BoolTy{}, e.Location)
	case *ast.EqualityExpr:
		s.checkExpr(k.Left)
		s.checkExpr(k.Right)
		s.unify(s.tyOf(k.Left), s.tyOf(k.Right), e.Location)
		s.unify(s.tyOf(e), BoolTy{}, e.Location)
	case *ast.EvaluationExpr:
		s.checkEvaluation(e, k)
	case *ast.NullCoalesceExpr:
		s.checkNullCoalesce(e, k)
	case *ast.TernaryExpr:
		s.checkExpr(k.Cond)
		s.unify(s.tyOf(k.Cond), BoolTy{}, k.Cond.Location)
		s.checkExpr(k.Then)
		s.checkExpr(k.Else)
		s.unify(s.tyOf(k.Then), s.tyOf(k.Else), e.Location)
		s.unify(s.tyOf(e), s.tyOf(k.Then), e.Location)
	default:
		panic(fmt.Sprintf("solver: unhandled expression kind %T", e.Kind))
	}
}

func (s *Solver) checkLiteral(e *ast.Expr, v ast.LiteralVariant) {
	switch lv := v.(type) {
	case ast.TrueLiteral, ast.FalseLiteral:
		s.unify(s.tyOf(e), BoolTy{}, e.Location)
	case ast.UndefinedLiteral:
		s.unify(s.tyOf(e), UndefinedTy{}, e.Location)
	case ast.NooneLiteral:
		s.unify(s.tyOf(e), NooneTy{}, e.Location)
	case ast.StringLiteral:
		s.unify(s.tyOf(e), StrTy{}, e.Location)
	case ast.RealLiteral, ast.HexLiteral:
		s.unify(s.tyOf(e), RealTy{}, e.Location)
	case ast.MiscLiteral:
		s.unify(s.tyOf(e), RealTy{}, e.Location)
	case ast.ArrayLiteral:
		elem := Ty(VarTy{V: s.freshVar()})
		for _, el := range lv.Elements {
			s.checkExpr(el)
			s.unify(elem, s.tyOf(el), el.Location)
		}
		s.unify(s.tyOf(e), ArrayTy{Elem: elem}, e.Location)
	case ast.StructLiteral:
		rec := s.adts.alloc(Extendable)
		for _, f := range lv.Fields {
			s.checkExpr(f.Value)
			rec.setField(f.Name, &Field{Ty: s.tyOf(f.Value), Resolved: true})
		}
		s.unify(s.tyOf(e), AdtTy{Id: rec.Id}, e.Location)
	default:
		panic(fmt.Sprintf("solver: unhandled literal variant %T", v))
	}
}

// checkIdentifier resolves a bare name: a bare `self` is the current
// self record and a bare `global` the global record; any other name
// resolves first against the active
// function frame's local record, then against file-scope top-level
// declarations, falling back to installing a fresh top-level promise
// (the identifier is read before any assignment the discovery pass
// could see, e.g. a parameter, a builtin, or a genuine forward
// reference the discovery pass didn't register a Var for).
func (s *Solver) checkIdentifier(e *ast.Expr, id *ast.IdentifierExpr) {
	switch id.Name {
	case "self":
		s.unify(s.tyOf(e), AdtTy{Id: s.selfScope()}, e.Location)
		return
	case "global":
		s.unify(s.tyOf(e), AdtTy{Id: s.global.Id}, e.Location)
		return
	}
	if frame := s.currentFrame(); frame != nil {
		local := s.adts.get(frame.Local)
		if f, ok := local.Fields[id.Name]; ok {
			s.unify(s.tyOf(e), f.Ty, e.Location)
			return
		}
	}
	if v, ok := s.topLevel[id.Name]; ok {
		s.unify(s.tyOf(e), VarTy{V: v}, e.Location)
		return
	}
	v := s.freshVar()
	s.topLevel[id.Name] = v
	s.unify(s.tyOf(e), VarTy{V: v}, e.Location)
}

func (s *Solver) checkUnary(e *ast.Expr, u *ast.UnaryExpr) {
	s.checkExpr(u.Operand)
	switch u.Op {
	case ast.UnaryNot:
		s.unify(s.tyOf(u.Operand), BoolTy{}, e.Location)
		s.unify(s.tyOf(e), BoolTy{}, e.Location)
	default: // UnaryNeg, UnaryBitNot, UnaryPreInc, UnaryPreDec
		s.unify(s.tyOf(u.Operand), RealTy{}, e.Location)
		s.unify(s.tyOf(e), RealTy{}, e.Location)
	}
}

func (s *Solver) checkEvaluation(e *ast.Expr, ev *ast.EvaluationExpr) {
	s.checkExpr(ev.Left)
	s.checkExpr(ev.Right)
	if ev.Op == ast.EvalAdd {
		// `+` additionally overloads as string concatenation: unify the
		// operands together and let whichever concrete type they settle
		// on (Real or Str) propagate, instead of forcing Real.
		s.unify(s.tyOf(ev.Left), s.tyOf(ev.Right), e.Location)
		s.unify(s.tyOf(e), s.tyOf(ev.Left), e.Location)
		return
	}
	s.unify(s.tyOf(ev.Left), RealTy{}, e.Location)
	s.unify(s.tyOf(ev.Right), RealTy{}, e.Location)
	s.unify(s.tyOf(e), RealTy{}, e.Location)
}

func (s *Solver) checkNullCoalesce(e *ast.Expr, n *ast.NullCoalesceExpr) {
	s.checkExpr(n.Left)
	s.checkExpr(n.Right)
	left := s.resolveTop(s.tyOf(n.Left))
	if opt, ok := left.(OptionTy); ok {
		s.unify(opt.Elem, s.tyOf(n.Right), e.Location)
		s.unify(s.tyOf(e), opt.Elem, e.Location)
		return
	}
	// left isn't known to be optional yet: the result is whichever type
	// left and right agree on, same as a plain default-value pattern.
	s.unify(left, s.tyOf(n.Right), e.Location)
	s.unify(s.tyOf(e), left, e.Location)
}

// checkAccessRead implements the promise mechanism: reading a field
// that isn't yet present on an Inferred or Extendable record installs
// a fresh, unresolved placeholder for it rather than erroring. The
// field's real type is discovered the first time something writes to
// or otherwise constrains it. A Concrete record rejects the read
// outright.
func (s *Solver) checkAccessRead(e *ast.Expr, v ast.AccessVariant) {
	switch a := v.(type) {
	case *ast.GlobalAccess:
		s.unify(s.tyOf(e), s.accessField(s.global.Id, a.Right, e.Location), e.Location)
	case *ast.IdentityAccess:
		s.unify(s.tyOf(e), s.accessField(s.selfScope(), a.Right, e.Location), e.Location)
	case *ast.OtherAccess:
		fresh := s.adts.alloc(Extendable)
		s.unify(s.tyOf(e), s.accessField(fresh.Id, a.Right, e.Location), e.Location)
	case *ast.DotAccess:
		s.checkExpr(a.Left)
		leftTy := s.resolveTop(s.tyOf(a.Left))
		at, ok := leftTy.(AdtTy)
		if !ok {
			fresh := s.adts.alloc(Inferred)
			s.unify(leftTy, AdtTy{Id: fresh.Id}, a.Left.Location)
			at = AdtTy{Id: fresh.Id}
		}
		s.unify(s.tyOf(e), s.accessField(at.Id, a.Right, e.Location), e.Location)
	case *ast.ArrayAccess:
		s.checkExpr(a.Left)
		s.checkExpr(a.Idx1)
		s.unify(s.tyOf(a.Idx1), RealTy{}, a.Idx1.Location)
		if a.Idx2 != nil {
			s.checkExpr(a.Idx2)
			s.unify(s.tyOf(a.Idx2), RealTy{}, a.Idx2.Location)
		}
		elem := Ty(VarTy{V: s.freshVar()})
		s.unify(s.tyOf(a.Left), ArrayTy{Elem: elem}, e.Location)
		s.unify(s.tyOf(e), elem, e.Location)
	case *ast.MapAccess:
		s.checkExpr(a.Left)
		s.checkExpr(a.Key)
		s.unify(s.tyOf(e), AnyTy{}, e.Location)
	case *ast.GridAccess:
		s.checkExpr(a.Left)
		s.checkExpr(a.Idx1)
		s.checkExpr(a.Idx2)
		s.unify(s.tyOf(e), AnyTy{}, e.Location)
	case *ast.ListAccess:
		s.checkExpr(a.Left)
		s.checkExpr(a.Idx)
		s.unify(s.tyOf(e), AnyTy{}, e.Location)
	case *ast.StructAccess:
		s.checkExpr(a.Left)
		s.checkExpr(a.Key)
		s.unify(s.tyOf(e), AnyTy{}, e.Location)
	default:
		panic(fmt.Sprintf("solver: unhandled access variant %T", v))
	}
}

func (s *Solver) accessField(owner AdtId, nameExpr *ast.Expr, loc token.Location) Ty {
	name, ok := nameExpr.Kind.(*ast.IdentifierExpr)
	if !ok {
		return AnyTy{}
	}
	a := s.adts.get(owner)
	if f, exists := a.Fields[name.Name]; exists {
		return f.Ty
	}
	if a.State == Concrete {
		s.errorf(loc, "MissingField: field %q is not declared on this record", name.Name)
		return AnyTy{}
	}
	placeholder := Ty(VarTy{V: s.freshVar()})
	a.setField(name.Name, &Field{Ty: placeholder, Resolved: false})
	return placeholder
}

// checkFunctionLiteral type-checks a function literal's own body
// (anonymous literals are checked here directly; named top-level
// functions were already registered by discoverFunction and are
// checked here too, on their first and only ExprStmt visit).
func (s *Solver) checkFunctionLiteral(e *ast.Expr, fn *ast.FunctionExpr) {
	var def *FuncDef
	if fn.Name != nil {
		if v, ok := s.topLevel[*fn.Name]; ok {
			if ft, ok := s.resolveTop(VarTy{V: v}).(FuncTy); ok {
				if info := s.funcs.get(ft.Id); info != nil {
					def = info.Def
				}
			}
		}
	}
	if def == nil {
		def = s.buildFuncDef("", e, fn)
		id := s.funcs.allocDef(def)
		s.unify(s.tyOf(e), FuncTy{Id: id}, e.Location)
	}

	retVar, ok := def.Return.(VarTy)
	if !ok {
		retVar = VarTy{V: s.freshReturnVar()}
	}
	s.pushFrame(def.Local, def.Self, retVar.V, fn.IsConstructor)
	local := s.adts.get(def.Local)
	for i, name := range def.ParamNames {
		local.setField(name, &Field{Ty: def.Params[i], Resolved: true})
	}
	if fn.Parent != nil {
		if v, ok := s.topLevel[fn.Parent.Name]; ok {
			parentArgs := make([]Ty, len(fn.Parent.Args))
			for i, a := range fn.Parent.Args {
				s.checkExpr(a)
				parentArgs[i] = s.tyOf(a)
			}
			s.callTy(VarTy{V: v}, parentArgs, Ty(VarTy{V: s.freshVar()}), e.Location)
		}
	}
	s.checkStmt(fn.Body)
	s.popFrame()
	def.Checked = true
	if fn.IsConstructor {
		// Once a constructor's body finishes, the fields it assigned are
		// the record's complete shape: close it so a later read of any
		// other field is a MissingField error instead of another promise.
		s.adts.get(def.Self).State = Concrete
	}
	s.sanitizeIdentity(def)
}

// checkCall type-checks a call expression, checking out the callee's
// definition (if it resolves to one) so this call site's argument
// types can't leak into another call site's view of the same function.
func (s *Solver) checkCall(e *ast.Expr, c *ast.CallExpr) {
	args := make([]Ty, len(c.Args))
	for i, a := range c.Args {
		s.checkExpr(a)
		args[i] = s.tyOf(a)
	}
	s.checkExpr(c.Callee)
	s.callTy(s.tyOf(c.Callee), args, s.tyOf(e), e.Location)
}

// callTy applies a call's argument/return shape against whatever t
// currently stands for. A FuncTy already backed by a Def is checked
// out fresh so this call site can't pollute another's view of the
// same function; anything else (an unresolved Var, or a concrete
// non-function type) is unified against a Def built from this call's
// own shape, which either binds an open Var to "is a function with
// this shape" for a later definition to confirm, or surfaces a
// type-mismatch diagnostic when t is already known to be something
// else entirely (e.g. calling a Real).
func (s *Solver) callTy(t Ty, args []Ty, ret Ty, loc token.Location) {
	resolved := s.resolveTop(t)
	if ft, ok := resolved.(FuncTy); ok {
		s.callFuncTy(ft.Id, args, ret, loc)
		return
	}
	def := &FuncDef{Params: args, Return: ret, MinArgs: len(args)}
	id := s.funcs.allocDef(def)
	s.unify(resolved, FuncTy{Id: id}, loc)
}

func (s *Solver) callFuncTy(id FuncId, args []Ty, ret Ty, loc token.Location) {
	info := s.funcs.get(id)
	if info == nil {
		return
	}
	if info.Def != nil {
		if info.Def.Checked {
			fresh := s.checkout(info.Def)
			s.unifyDefCall(fresh, &FuncCall{Args: args, Return: ret}, loc)
		} else {
			s.unifyDefCall(info.Def, &FuncCall{Args: args, Return: ret}, loc)
		}
		return
	}
	s.unify(info.Call.Return, ret, loc)
	n := len(args)
	if n > len(info.Call.Args) {
		n = len(info.Call.Args)
	}
	for i := 0; i < n; i++ {
		s.unify(args[i], info.Call.Args[i], loc)
	}
}

// checkNewInstance checks out the named constructor's definition and
// produces a fresh copy of its Self record as the expression's result
// type, so each `new` call site gets its own independently-growable
// instance instead of sharing the constructor's one canonical Self.
func (s *Solver) checkNewInstance(e *ast.Expr, n *ast.NewInstanceExpr) {
	args := make([]Ty, len(n.Args))
	for i, a := range n.Args {
		s.checkExpr(a)
		args[i] = s.tyOf(a)
	}

	name, ok := n.Callee.Kind.(*ast.IdentifierExpr)
	if !ok {
		s.checkExpr(n.Callee)
		s.unify(s.tyOf(e), AnyTy{}, e.Location)
		return
	}
	v, ok := s.topLevel[name.Name]
	if !ok {
		s.unify(s.tyOf(e), AnyTy{}, e.Location)
		return
	}
	resolved := s.resolveTop(VarTy{V: v})
	ft, ok := resolved.(FuncTy)
	if !ok {
		s.unify(s.tyOf(e), AnyTy{}, e.Location)
		return
	}
	info := s.funcs.get(ft.Id)
	if info == nil || info.Def == nil {
		s.unify(s.tyOf(e), AnyTy{}, e.Location)
		return
	}
	fresh := s.checkout(info.Def)
	s.unifyDefCall(fresh, &FuncCall{Args: args, Return: Ty(VarTy{V: s.freshVar()})}, e.Location)
	s.unify(s.tyOf(e), AdtTy{Id: fresh.Self}, e.Location)
}
