package solver

import "github.com/duck-lang/duck/internal/ast"

// FuncId identifies a function type within a Solver run, the same
// indirection AdtId gives records (see ty.go's package doc).
type FuncId uint64

// FuncDef is a known function definition: its parameter types, the
// minimum number of arguments a call must supply (parameters before
// the first one with a default value), its return type, and the local
// and self scopes it closes over. Needed so checkout (checkout.go)
// can produce an independent copy per call site.
type FuncDef struct {
	Name       string
	ParamNames []string
	Params     []Ty
	MinArgs    int
	Return     Ty
	Local      AdtId
	Self       AdtId
	HasSelf    bool
	Node       *ast.ExprId // the FunctionExpr this definition came from; checkout copies it unchanged

	// Checked marks that this definition's own body has already been
	// walked in the constraint pass, so its Params/Return have settled
	// to their most general type and a call site should checkout a
	// fresh, independent copy (generic instantiation). A call reached
	// before its callee's own definition, an out-of-order forward
	// reference, unifies directly against the shared, not-yet-settled
	// Params/Return instead: the single remaining pass will still bind
	// them correctly once the definition is reached, the same
	// "one pass, not two phases" trick the promise mechanism uses for
	// fields.
	Checked bool
}

// FuncCall is an imposed constraint at a call site: the argument types
// supplied and the type the result is expected to have. Unifying a
// Call against a Def is how a call expression is type-checked.
type FuncCall struct {
	Args   []Ty
	Return Ty
}

// FuncInfo is the two-sided function type: a FuncTy Ty value (ty.go)
// is a reference to one of these, which carries a Def or a Call.
// Unifying a Call against a Def checks one against the other and
// leaves both FuncInfos as they were.
type FuncInfo struct {
	Def  *FuncDef
	Call *FuncCall
}

type funcStore struct {
	funcs  map[FuncId]*FuncInfo
	nextId FuncId
}

func newFuncStore() *funcStore {
	return &funcStore{funcs: map[FuncId]*FuncInfo{}}
}

func (st *funcStore) allocDef(def *FuncDef) FuncId {
	st.nextId++
	st.funcs[st.nextId] = &FuncInfo{Def: def}
	return st.nextId
}

func (st *funcStore) allocCall(call *FuncCall) FuncId {
	st.nextId++
	st.funcs[st.nextId] = &FuncInfo{Call: call}
	return st.nextId
}

func (st *funcStore) get(id FuncId) *FuncInfo { return st.funcs[id] }
