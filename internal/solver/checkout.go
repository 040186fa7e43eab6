package solver

// checkout produces an independent copy of def: every type variable
// reachable from its parameters, return type, and local/self scopes is
// replaced by a fresh one, while two references to the *same*
// variable or record within def still point at the same fresh
// replacement (structural sharing is preserved, only identity is
// renamed). Without this, type information learned from one call site
// would leak into every other call site through def's shared Vars: the
// cross-call-site pollution problem a Hindley-Milner checker normally
// avoids via let-generalization; this solver takes the simpler route
// of re-instantiating the whole definition per call.
type checkoutCtx struct {
	solver *Solver
	vars   map[Var]Var
	adts   map[AdtId]AdtId
}

func (s *Solver) checkout(def *FuncDef) *FuncDef {
	ctx := &checkoutCtx{solver: s, vars: map[Var]Var{}, adts: map[AdtId]AdtId{}}
	fresh := &FuncDef{
		Name:       def.Name,
		ParamNames: def.ParamNames,
		MinArgs:    def.MinArgs,
		HasSelf:    def.HasSelf,
		Node:       def.Node,
	}
	for _, p := range def.Params {
		fresh.Params = append(fresh.Params, ctx.cloneTy(p))
	}
	fresh.Return = ctx.cloneTy(def.Return)
	fresh.Local = ctx.cloneAdt(def.Local)
	fresh.Self = ctx.cloneAdt(def.Self)
	return fresh
}

func (c *checkoutCtx) cloneTy(t Ty) Ty {
	t = c.solver.resolveTop(t)
	switch tt := t.(type) {
	case VarTy:
		if nv, ok := c.vars[tt.V]; ok {
			return VarTy{V: nv}
		}
		nv := c.solver.freshVar()
		c.vars[tt.V] = nv
		return VarTy{V: nv}
	case ArrayTy:
		return ArrayTy{Elem: c.cloneTy(tt.Elem)}
	case OptionTy:
		return OptionTy{Elem: c.cloneTy(tt.Elem)}
	case AdtTy:
		return AdtTy{Id: c.cloneAdt(tt.Id)}
	case FuncTy:
		return FuncTy{Id: c.cloneFunc(tt.Id)}
	default:
		return t
	}
}

// cloneAdt copies a record, registering the fresh id before recursing
// into its fields so a self-referential field (one whose type is the
// record's own AdtTy, or reaches it through a cycle) maps back to the
// same fresh record rather than looping forever.
func (c *checkoutCtx) cloneAdt(id AdtId) AdtId {
	root := c.solver.adts.find(id)
	if nid, ok := c.adts[root]; ok {
		return nid
	}
	src := c.solver.adts.get(root)
	if src == nil {
		return root
	}
	fresh := c.solver.adts.alloc(src.State)
	c.adts[root] = fresh.Id
	for _, name := range src.Order {
		f := src.Fields[name]
		fresh.setField(name, &Field{Ty: c.cloneTy(f.Ty), Constant: f.Constant, Resolved: f.Resolved})
	}
	return fresh.Id
}

func (c *checkoutCtx) cloneFunc(id FuncId) FuncId {
	info := c.solver.funcs.get(id)
	if info == nil {
		return id
	}
	out := &FuncInfo{}
	if info.Def != nil {
		d := *info.Def
		out.Def = &d
	}
	if info.Call != nil {
		call := &FuncCall{Return: c.cloneTy(info.Call.Return)}
		for _, a := range info.Call.Args {
			call.Args = append(call.Args, c.cloneTy(a))
		}
		out.Call = call
	}
	c.solver.funcs.nextId++
	nid := c.solver.funcs.nextId
	c.solver.funcs.funcs[nid] = out
	return nid
}

// sanitizeIdentity replaces every reachable reference to self (the
// record def's own Self names) with IdentityTy, once def's body has
// finished being checked. Left unsanitized, a constructor's Self field
// of its own type (e.g. a `next` pointer in a linked-list node) would
// make every later checkout of that constructor recurse into cloning
// an infinitely-unrolled record; IdentityTy is a terminal marker that
// means exactly "refers back to the instance this definition builds."
func (s *Solver) sanitizeIdentity(def *FuncDef) {
	if !def.HasSelf {
		return
	}
	selfRoot := s.adts.find(def.Self)
	visited := map[AdtId]bool{}
	for i, p := range def.Params {
		def.Params[i] = s.sanitizeTy(p, selfRoot, visited)
	}
	def.Return = s.sanitizeTy(def.Return, selfRoot, visited)

	// The Self record's own fields are reachable too. A linked-list
	// node's `next` field typed as its own record needs the same
	// treatment as a Return type that does the same.
	if selfAdt := s.adts.get(selfRoot); selfAdt != nil {
		for _, name := range selfAdt.Order {
			f := selfAdt.Fields[name]
			f.Ty = s.sanitizeTy(f.Ty, selfRoot, visited)
		}
	}
}

func (s *Solver) sanitizeTy(t Ty, selfRoot AdtId, visited map[AdtId]bool) Ty {
	t = s.resolveTop(t)
	switch tt := t.(type) {
	case ArrayTy:
		return ArrayTy{Elem: s.sanitizeTy(tt.Elem, selfRoot, visited)}
	case OptionTy:
		return OptionTy{Elem: s.sanitizeTy(tt.Elem, selfRoot, visited)}
	case AdtTy:
		root := s.adts.find(tt.Id)
		if root == selfRoot {
			return IdentityTy{}
		}
		if visited[root] {
			return t
		}
		visited[root] = true
		a := s.adts.get(root)
		if a != nil {
			for _, name := range a.Order {
				f := a.Fields[name]
				f.Ty = s.sanitizeTy(f.Ty, selfRoot, visited)
			}
		}
		return t
	default:
		return t
	}
}
