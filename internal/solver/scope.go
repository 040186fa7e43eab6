package solver

// Frame is one function activation's slice of the three conceptual
// scope stacks: a local-variable record, the self record the function
// is bound to, and the function's own Return variable. Frames
// push/pop as the solver enters and leaves function bodies.
type Frame struct {
	Local  AdtId
	Self   AdtId
	Return Var
	// SelfIsOwnConstruction marks that Self is the record this frame's
	// own constructor is building (as opposed to an inherited/ambient
	// self). sanitizeIdentity does not read it; it works from the
	// FuncDef's HasSelf and Self instead.
	SelfIsOwnConstruction bool
}

// GlobalScope is the merged, cross-file global record: the only
// cross-file shared datum. It is exported so the late lint pass can
// read declarations from other files once the pipeline's merge
// barrier has run.
type GlobalScope struct {
	Id AdtId
}

// GlobalFieldSnapshot is one named field of a file's global record, as
// read back out of a finished Solver for the pipeline's merge barrier,
// which folds each file's per-file global scope builder into one
// consolidated global scope. It is a plain value copy, not a live
// Field, since the originating Solver (and its Adt store) is discarded
// once the file's diagnostics are flushed.
type GlobalFieldSnapshot struct {
	Name     string
	Ty       Ty
	Constant bool
	// Members holds a Concrete Adt field's own member names, in
	// declaration order. Resolved here, while the originating
	// Solver's Adt store is still alive, since a bare AdtTy{Id} is
	// meaningless once that store is discarded. Nil for any field
	// whose type isn't a Concrete Adt (e.g. an enum).
	Members []string
}

// GlobalFields returns a snapshot of every field this Solver's run
// installed on the shared global record, in declaration order.
func (s *Solver) GlobalFields() []GlobalFieldSnapshot {
	g := s.adts.get(s.global.Id)
	if g == nil {
		return nil
	}
	out := make([]GlobalFieldSnapshot, 0, len(g.Order))
	for _, name := range g.Order {
		f := g.Fields[name]
		ty := s.resolveTop(f.Ty)
		snap := GlobalFieldSnapshot{Name: name, Ty: ty, Constant: f.Constant}
		if adt, ok := ty.(AdtTy); ok {
			if rec := s.adts.get(adt.Id); rec != nil && rec.State == Concrete {
				snap.Members = append([]string(nil), rec.Order...)
			}
		}
		out = append(out, snap)
	}
	return out
}

// MergedGlobalScope is the consolidated, cross-file global record the
// pipeline builds at the barrier between the early and late lint
// passes. Unlike a live Solver's GlobalScope, it carries actual field
// data so late lints (e.g. "missing-case-members") can look up an
// enum declared in another file.
type MergedGlobalScope struct {
	Fields map[string]GlobalFieldSnapshot
	Order  []string
}

// NewMergedGlobalScope returns an empty merge target.
func NewMergedGlobalScope() *MergedGlobalScope {
	return &MergedGlobalScope{Fields: map[string]GlobalFieldSnapshot{}}
}

// Merge folds one file's global fields into m. A name seen from more
// than one file keeps the snapshot merged first; the pipeline merges
// files in the order their paths were supplied, whatever order they
// finished processing in. A conflicting later snapshot is dropped
// without a diagnostic.
func (m *MergedGlobalScope) Merge(fields []GlobalFieldSnapshot) {
	for _, f := range fields {
		if _, exists := m.Fields[f.Name]; exists {
			continue
		}
		m.Fields[f.Name] = f
		m.Order = append(m.Order, f.Name)
	}
}

// pushFrame starts a new function activation using local as its local
// record (normally the FuncDef's own Local, already allocated at
// discovery time), self as the record `self` resolves to, and ret as
// the Var every `return` statement in the body unifies against. This
// must be the same Var callers already see in the FuncDef's Return
// field, or a call site's result type would never connect to what the
// body actually returns.
func (s *Solver) pushFrame(local, self AdtId, ret Var, ownConstruction bool) *Frame {
	f := &Frame{Local: local, Self: self, Return: ret, SelfIsOwnConstruction: ownConstruction}
	s.frames = append(s.frames, f)
	return f
}

func (s *Solver) popFrame() {
	s.frames = s.frames[:len(s.frames)-1]
}

// currentFrame returns the innermost active function frame, or nil at
// top level (where only the global/self-of-file scope applies).
func (s *Solver) currentFrame() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// selfScope returns the Adt id a bare `self` resolves against: the
// innermost frame's Self if one is active, else the file-level self
// scope. For free functions this is the surrounding self (the file's
// object).
func (s *Solver) selfScope() AdtId {
	if f := s.currentFrame(); f != nil {
		return f.Self
	}
	return s.fileSelf
}

// withSelf temporarily rebinds the active self scope for the duration
// of fn, implementing `with (expr) { ... }`.
func (s *Solver) withSelf(id AdtId, fn func()) {
	if f := s.currentFrame(); f != nil {
		saved := f.Self
		f.Self = id
		defer func() { f.Self = saved }()
		fn()
		return
	}
	saved := s.fileSelf
	s.fileSelf = id
	defer func() { s.fileSelf = saved }()
	fn()
}
