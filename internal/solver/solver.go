// Package solver is the type checker: it walks a parsed file's
// statements twice (once to discover top-level declarations regardless
// of source order, once to generate and immediately resolve
// constraints) and reports every unification failure as a diagnostic.
// It never aborts on the first error: like the parser's
// accumulate-don't-abort error list, a failed unify() records a
// diagnostic and both operands keep whatever type they already had,
// so the walk can keep going and surface every independent problem in
// one pass.
package solver

import (
	"fmt"

	"github.com/duck-lang/duck/internal/ast"
	"github.com/duck-lang/duck/internal/diagnostic"
	"github.com/duck-lang/duck/internal/token"
)

// Solver holds all of the mutable state one compilation's worth of
// type inference needs: the union-find record store, the function
// table, the active call-frame stack, the var→type substitution map,
// and the diagnostics accumulated so far.
type Solver struct {
	adts  *adtStore
	funcs *funcStore
	subs  map[Var]Ty

	frames   []*Frame
	fileSelf AdtId

	global *GlobalScope

	// topLevel maps a top-level name (function, enum, top-level `var`,
	// or bare assignment target; globalvar names go onto the global
	// record instead) to the Var standing for its type,
	// populated during the discovery pass and read back during the
	// constraint-generation pass so forward references resolve.
	topLevel map[string]Var

	varSeq uint64
	diags  []*diagnostic.Diagnostic
}

// New creates a Solver ready to process a single file's program, with
// a fresh Extendable self-scope (the file's own top-level `self`,
// populated by top-level function declarations and `self.x = ...`
// writes at file scope; a bare `x = 1;` is recorded in topLevel) and
// linked to the shared cross-file global record.
func New(global *GlobalScope) *Solver {
	s := &Solver{
		adts:     newAdtStore(),
		funcs:    newFuncStore(),
		subs:     map[Var]Ty{},
		topLevel: map[string]Var{},
	}
	if global == nil {
		g := s.adts.allocWithId(GlobalAdtId, Extendable)
		global = &GlobalScope{Id: g.Id}
	} else {
		s.adts.allocWithId(global.Id, Extendable)
	}
	s.global = global
	s.fileSelf = s.adts.alloc(Extendable).Id
	return s
}

// Diagnostics returns every diagnostic recorded so far, in emission
// order.
func (s *Solver) Diagnostics() []*diagnostic.Diagnostic { return s.diags }

func (s *Solver) addTypeError(loc token.Location, message string) {
	s.diags = append(s.diags, diagnostic.New(diagnostic.Deny, "type-error", message, loc))
}

// ResolvedType returns t with every top-level VarTy layer followed to
// its current binding (or the furthest-resolved VarTy if still
// unbound). It does not recurse into Array/Option/Adt/Func structure;
// callers that need a fully-resolved tree should call it per field.
func (s *Solver) ResolvedType(t Ty) Ty { return s.resolveTop(t) }

// varFor returns the Var standing for an expression's inferred type,
// allocating one lazily on first use and caching it on the node's
// TypeSlot so repeated visits (e.g. the discovery then constraint
// passes) share the same Var.
func (s *Solver) varFor(e *ast.Expr) Var {
	if v, ok := e.TypeSlot.(Var); ok {
		return v
	}
	v := ExprVarFor(e.Id)
	e.TypeSlot = v
	return v
}

// tyOf returns the Ty an expression currently stands for, as a VarTy
// wrapping its Var. Callers unify against this, never against a
// snapshot, since the Var's binding can still grow.
func (s *Solver) tyOf(e *ast.Expr) Ty {
	return VarTy{V: s.varFor(e)}
}

// RunProgram type-checks an entire file: a discovery pass that
// registers every top-level function/globalvar/self-field declaration
// regardless of the order they appear in, followed by a
// constraint-generation pass over the same statements in source order.
// Two passes let a function defined near the bottom of a file be
// called from the top without a forward-declaration error.
func (s *Solver) RunProgram(stmts []*ast.Stmt) {
	for _, stmt := range stmts {
		s.discoverStmt(stmt)
	}
	for _, stmt := range stmts {
		s.checkStmt(stmt)
	}
}

// discoverStmt registers what a top-level statement declares without
// yet generating constraints for its body. Only the shapes that can be
// forward-referenced matter here; everything else is a no-op until the
// constraint pass.
func (s *Solver) discoverStmt(stmt *ast.Stmt) {
	switch k := stmt.Kind.(type) {
	case *ast.ExprStmt:
		if fn, ok := k.Value.Kind.(*ast.FunctionExpr); ok && fn.Name != nil {
			s.discoverFunction(*fn.Name, k.Value, fn)
		}
	case *ast.GlobalvarStmt:
		g := s.adts.get(s.global.Id)
		if _, exists := g.Fields[k.Name]; !exists {
			g.setField(k.Name, &Field{Ty: VarTy{V: s.freshVar()}})
		}
	case *ast.EnumStmt:
		if _, exists := s.topLevel[k.Name]; !exists {
			rec := s.adts.alloc(Concrete)
			for _, m := range k.Members {
				rec.setField(m.Name, &Field{Ty: RealTy{}, Resolved: true})
			}
			v := s.freshVar()
			s.subs[v] = AdtTy{Id: rec.Id}
			s.topLevel[k.Name] = v
			// Enums are project-global in GML (any script may reference
			// Color.Red without qualification); install the enum on the
			// shared global record too, so the pipeline's merge barrier
			// can see it from other files for the missing-case-members
			// exhaustiveness lint.
			g := s.adts.get(s.global.Id)
			if _, exists := g.Fields[k.Name]; !exists {
				g.setField(k.Name, &Field{Ty: AdtTy{Id: rec.Id}, Resolved: true})
			}
		}
	case *ast.AssignmentStmt:
		if id, ok := k.Target.Kind.(*ast.IdentifierExpr); ok {
			if _, exists := s.topLevel[id.Name]; !exists {
				s.topLevel[id.Name] = s.freshVar()
			}
		}
	}
}

// discoverFunction registers a named top-level function's Def so calls
// appearing earlier in the file still resolve. Parameter and return
// types start as fresh Vars; the constraint pass fills them in by
// unifying against the body.
func (s *Solver) discoverFunction(name string, node *ast.Expr, fn *ast.FunctionExpr) {
	if v, exists := s.topLevel[name]; exists {
		if ft, ok := s.resolveTop(VarTy{V: v}).(FuncTy); ok {
			if info := s.funcs.get(ft.Id); info != nil && info.Def != nil {
				s.errorf(node.Location, "function %q is already declared", name)
			}
		}
		return
	}
	def := s.buildFuncDef(name, node, fn)
	id := s.funcs.allocDef(def)
	v := s.freshVar()
	s.subs[v] = FuncTy{Id: id}
	s.topLevel[name] = v
	// Mirror onto the file's self-scope too: top-level functions are
	// reachable both as bare calls and as `self.name(...)` (an
	// out-of-order `self.later()` call), since free functions' self is
	// the surrounding file object.
	s.adts.get(s.fileSelf).setField(name, &Field{Ty: VarTy{V: v}, Resolved: true})
}

func (s *Solver) buildFuncDef(name string, node *ast.Expr, fn *ast.FunctionExpr) *FuncDef {
	def := &FuncDef{Name: name, Node: &node.Id}
	minArgs := 0
	seenDefault := false
	for _, p := range fn.Params {
		def.ParamNames = append(def.ParamNames, p.Name)
		def.Params = append(def.Params, VarTy{V: s.freshVar()})
		if p.Default == nil && !seenDefault {
			minArgs++
		} else {
			seenDefault = true
		}
	}
	def.MinArgs = minArgs
	def.Return = VarTy{V: s.freshReturnVar()}
	def.Local = s.adts.alloc(Extendable).Id
	if fn.IsConstructor {
		def.Self = s.adts.alloc(Inferred).Id
		def.HasSelf = true
	} else {
		def.Self = s.selfScope()
		def.HasSelf = true
	}
	return def
}

// checkStmt generates and immediately resolves constraints for one
// statement.
func (s *Solver) checkStmt(stmt *ast.Stmt) {
	switch k := stmt.Kind.(type) {
	case *ast.BlockStmt:
		for _, c := range k.Stmts {
			s.checkStmt(c)
		}
	case *ast.LocalVariablesStmt:
		for _, d := range k.Decls {
			fieldTy := Ty(VarTy{V: s.freshVar()})
			if d.Init != nil {
				s.checkExpr(d.Init)
				fieldTy = s.tyOf(d.Init)
			}
			if frame := s.currentFrame(); frame != nil {
				s.adts.get(frame.Local).setField(d.Name, &Field{Ty: fieldTy, Resolved: true})
				continue
			}
			if v, ok := s.topLevel[d.Name]; ok {
				s.unify(VarTy{V: v}, fieldTy, stmt.Location)
				continue
			}
			v := s.freshVar()
			s.subs[v] = fieldTy
			s.topLevel[d.Name] = v
		}
	case *ast.GlobalvarStmt:
		// registered during discovery; nothing further to check.
	case *ast.EnumStmt:
		for _, m := range k.Members {
			if m.Value != nil {
				s.checkExpr(m.Value)
				s.unify(s.tyOf(m.Value), RealTy{}, m.Value.Location)
			}
		}
	case *ast.MacroStmt:
		// macros carry no sub-expressions to type-check.
	case *ast.AssignmentStmt:
		s.checkAssignment(k, stmt.Location)
	case *ast.ExprStmt:
		// Named or anonymous, a function literal's body is checked here,
		// in source-order with everything else; discovery only registered
		// its skeleton Def so forward references could see it.
		s.checkExpr(k.Value)
	case *ast.ReturnStmt:
		frame := s.currentFrame()
		if frame == nil {
			return
		}
		if k.Value != nil {
			s.checkExpr(k.Value)
			s.unify(VarTy{V: frame.Return}, s.tyOf(k.Value), stmt.Location)
		} else {
			s.unify(VarTy{V: frame.Return}, UndefinedTy{}, stmt.Location)
		}
	case *ast.ThrowStmt:
		s.checkExpr(k.Value)
	case *ast.DeleteStmt:
		s.checkExpr(k.Target)
	case *ast.IfStmt:
		s.checkExpr(k.Cond)
		s.unify(s.tyOf(k.Cond), BoolTy{}, k.Cond.Location)
		s.checkStmt(k.Then)
		if k.Else != nil {
			s.checkStmt(k.Else)
		}
	case *ast.WhileStmt:
		s.checkExpr(k.Cond)
		s.unify(s.tyOf(k.Cond), BoolTy{}, k.Cond.Location)
		s.checkStmt(k.Body)
	case *ast.DoUntilStmt:
		s.checkStmt(k.Body)
		s.checkExpr(k.Cond)
		s.unify(s.tyOf(k.Cond), BoolTy{}, k.Cond.Location)
	case *ast.RepeatStmt:
		s.checkExpr(k.Count)
		s.unify(s.tyOf(k.Count), RealTy{}, k.Count.Location)
		s.checkStmt(k.Body)
	case *ast.ForStmt:
		if k.Init != nil {
			s.checkStmt(k.Init)
		}
		if k.Cond != nil {
			s.checkExpr(k.Cond)
			s.unify(s.tyOf(k.Cond), BoolTy{}, k.Cond.Location)
		}
		if k.Post != nil {
			s.checkStmt(k.Post)
		}
		s.checkStmt(k.Body)
	case *ast.SwitchStmt:
		s.checkExpr(k.Subject)
		for _, c := range k.Cases {
			for _, v := range c.Values {
				s.checkExpr(v)
				s.unify(s.tyOf(v), s.tyOf(k.Subject), v.Location)
			}
			for _, b := range c.Body {
				s.checkStmt(b)
			}
		}
	case *ast.WithStmt:
		s.checkExpr(k.Target)
		targetSelf := s.selfAdtFor(k.Target)
		s.withSelf(targetSelf, func() { s.checkStmt(k.Body) })
	case *ast.TryCatchStmt:
		s.checkStmt(k.Try)
		if k.CatchBody != nil {
			s.checkStmt(k.CatchBody)
		}
		if k.Finally != nil {
			s.checkStmt(k.Finally)
		}
	case *ast.BreakStmt, *ast.ContinueStmt, *ast.ExitStmt:
		// no sub-expressions.
	default:
		panic(fmt.Sprintf("solver: unhandled statement kind %T", stmt.Kind))
	}
}

// selfAdtFor resolves the Adt a `with (target)` expression rebinds
// self to: if target's inferred type already names a record, that
// record; otherwise a fresh Extendable record unified against target's
// type, so fields read inside the with-body still flow back out to it.
func (s *Solver) selfAdtFor(target *ast.Expr) AdtId {
	s.checkExpr(target)
	resolved := s.resolveTop(s.tyOf(target))
	if at, ok := resolved.(AdtTy); ok {
		return at.Id
	}
	fresh := s.adts.alloc(Extendable)
	s.unify(resolved, AdtTy{Id: fresh.Id}, target.Location)
	return fresh.Id
}

func (s *Solver) checkAssignment(a *ast.AssignmentStmt, loc token.Location) {
	s.checkExpr(a.Value)
	valueTy := s.tyOf(a.Value)

	switch t := a.Target.Kind.(type) {
	case *ast.IdentifierExpr:
		if frame := s.currentFrame(); frame != nil {
			local := s.adts.get(frame.Local)
			if f, ok := local.Fields[t.Name]; ok {
				s.unify(f.Ty, valueTy, loc)
				return
			}
			local.setField(t.Name, &Field{Ty: valueTy, Resolved: true})
			return
		}
		if v, ok := s.topLevel[t.Name]; ok {
			s.unify(VarTy{V: v}, valueTy, loc)
			return
		}
		v := s.freshVar()
		s.subs[v] = valueTy
		s.topLevel[t.Name] = v
	case *ast.AccessExpr:
		s.checkAccessAssignment(t.Variant, valueTy, loc)
	default:
		s.checkExpr(a.Target)
		s.unify(s.tyOf(a.Target), valueTy, loc)
	}
}

// checkAccessAssignment writes valueTy into the field an access
// expression names, installing the field if the governing Adt's state
// allows growth (the "promise resolution" / field-write half of the
// Inferred/Extendable/Concrete rules; see accessField for the read
// half).
func (s *Solver) checkAccessAssignment(v ast.AccessVariant, valueTy Ty, loc token.Location) {
	switch a := v.(type) {
	case *ast.GlobalAccess:
		s.writeField(s.global.Id, a.Right, valueTy, loc)
	case *ast.IdentityAccess:
		s.writeField(s.selfScope(), a.Right, valueTy, loc)
	case *ast.OtherAccess:
		// `other` names the with-loop's caller-side self; treated as an
		// independent Extendable record since no frame tracks it directly.
		fresh := s.adts.alloc(Extendable)
		s.writeField(fresh.Id, a.Right, valueTy, loc)
	case *ast.DotAccess:
		s.checkExpr(a.Left)
		leftTy := s.resolveTop(s.tyOf(a.Left))
		at, ok := leftTy.(AdtTy)
		if !ok {
			fresh := s.adts.alloc(Extendable)
			s.unify(leftTy, AdtTy{Id: fresh.Id}, a.Left.Location)
			at = AdtTy{Id: fresh.Id}
		}
		s.writeField(at.Id, a.Right, valueTy, loc)
	case *ast.ArrayAccess:
		s.checkExpr(a.Left)
		s.checkExpr(a.Idx1)
		if a.Idx2 != nil {
			s.checkExpr(a.Idx2)
		}
		s.unify(s.tyOf(a.Left), ArrayTy{Elem: valueTy}, loc)
	case *ast.MapAccess, *ast.GridAccess, *ast.ListAccess, *ast.StructAccess:
		// indexed containers beyond Array carry no further structural
		// checking; their element type is left to flow through AnyTy.
	default:
		panic(fmt.Sprintf("solver: unhandled access variant %T", v))
	}
}

func (s *Solver) writeField(owner AdtId, nameExpr *ast.Expr, valueTy Ty, loc token.Location) {
	name, ok := nameExpr.Kind.(*ast.IdentifierExpr)
	if !ok {
		return
	}
	a := s.adts.get(owner)
	if f, exists := a.Fields[name.Name]; exists {
		s.unify(f.Ty, valueTy, loc)
		f.Resolved = true
		return
	}
	if a.State == Concrete {
		s.errorf(loc, "MissingField: field %q is not declared on this record", name.Name)
		return
	}
	a.setField(name.Name, &Field{Ty: valueTy, Resolved: true})
}
