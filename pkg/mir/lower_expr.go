// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package mir

import (
	"github.com/lily-lang/lily/pkg/analyzer"
	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/checked"
	"github.com/lily-lang/lily/pkg/token"
)

// FunContext carries the per-function state expression/statement
// lowering needs: the builder appending to the function's blocks, the
// local-name -> instruction-ID map for variable references, and the
// loop-target stack `break`/`next` resolve against.
type FunContext struct {
	Builder *Builder
	Locals  map[string]int
	Params  map[string]int

	breakTargets []int
	nextTargets  []int
}

// checkedExprLookup adapts one package's analyzer.Result into the
// lookups expression/statement lowering needs: a node's resolved type,
// and a call callee's fully-qualified global name.
type checkedExprLookup struct {
	res        *analyzer.Result
	funcByName map[string]*analyzer.CheckedFun
}

// newCheckedExprLookup indexes res.Functions by their declared (local)
// name once, so repeated call-site lookups don't re-scan the map.
func newCheckedExprLookup(res *analyzer.Result) *checkedExprLookup {
	m := make(map[string]*analyzer.CheckedFun, len(res.Functions))
	for _, fn := range res.Functions {
		if fn.Decl != nil {
			m[fn.Decl.Name] = fn
		}
	}
	return &checkedExprLookup{res: res, funcByName: m}
}

// typeOf returns e's resolved type, or Unknown if the analyzer never
// recorded one (a node outside the checked body, e.g. a pattern leaf).
func (l *checkedExprLookup) typeOf(e ast.Expr) checked.DataType {
	if ty, ok := l.res.ExprTypes[e]; ok {
		return ty
	}
	return &checked.Unknown{}
}

// qualify resolves a call's local callee name to the global name the
// analyzer seeded it under (CheckedFun.GlobalName), falling back to
// the bare name for a callee this package's analysis never saw (an
// external/builtin/syscall callee resolved elsewhere).
func (l *checkedExprLookup) qualify(name string) string {
	if fn, ok := l.funcByName[name]; ok {
		return fn.GlobalName
	}
	return name
}

// lookupFun returns the checked function a call's local callee name
// resolves to within this package, or nil for an external/builtin
// callee this package's analysis never declared.
func (l *checkedExprLookup) lookupFun(name string) *analyzer.CheckedFun {
	return l.funcByName[name]
}

// emit appends inst to the current block and returns a Val referencing
// its result.
func (g *Generator) emit(fc *FunContext, inst Instruction) Val {
	fc.Builder.Emit(inst)
	return RegVal{ID: inst.InstID()}
}

// nextID hands out the next monotonic instruction ID for the function
// fc is building.
func (g *Generator) nextID(fc *FunContext) int {
	return fc.Builder.nextID()
}

// LowerExpr lowers one checked expression to a Val, emitting whatever
// instructions are needed to compute it into the function's current
// block (§4.6 "Expression lowering").
func (g *Generator) LowerExpr(e ast.Expr, fc *FunContext, res *checkedExprLookup) Val {
	switch v := e.(type) {
	case *ast.LiteralExpr:
		return g.lowerLiteral(v.Tok, res.typeOf(e))

	case *ast.IdentExpr:
		if id, ok := fc.Params[v.Name]; ok {
			return ParamVal{Index: id, Name: v.Name}
		}
		if _, ok := fc.Locals[v.Name]; ok {
			return VarVal{Name: v.Name}
		}
		return VarVal{Name: v.Name}

	case *ast.UnaryExpr:
		return g.lowerUnary(v, fc, res)

	case *ast.BinaryExpr:
		return g.lowerBinary(v, fc, res)

	case *ast.CastExpr:
		value := g.LowerExpr(v.Value, fc, res)
		to := g.LowerType(res.typeOf(e))
		id := g.nextID(fc)
		return g.emit(fc, &Bitcast{base: base{ID: id, Location: v.Location}, Value: value, To: to})

	case *ast.TupleExpr:
		elems := make([]Val, len(v.Elems))
		for i, el := range v.Elems {
			elems[i] = g.LowerExpr(el, fc, res)
		}
		return StructVal{Elems: elems}

	case *ast.ArrayExpr:
		elems := make([]Val, len(v.Elems))
		for i, el := range v.Elems {
			elems[i] = g.LowerExpr(el, fc, res)
		}
		return StructVal{Elems: elems}

	case *ast.FieldAccessExpr:
		return g.LowerExpr(v.Value, fc, res)

	case *ast.AccessExpr:
		return g.lowerAccess(v, fc, res)

	case *ast.CallExpr:
		return g.lowerCall(v, fc, res)

	case *ast.LambdaExpr:
		// Lambda lowering to a standalone closure function is out of
		// scope here; the value is represented as undef so statement
		// lowering around it (e.g. a var binding) still produces valid
		// MIR rather than aborting the whole function's lowering.
		return UndefVal{}

	default:
		return UndefVal{}
	}
}

// lowerUnary handles §4's prefix-operator forms: not is a dedicated
// bitwise-style instruction, neg dispatches on arithmetic mode, ref/
// make-ref allocate storage and store the operand, deref loads through
// it (§4.6: "pointer dereference becomes getptr then load").
func (g *Generator) lowerUnary(v *ast.UnaryExpr, fc *FunContext, res *checkedExprLookup) Val {
	operand := g.LowerExpr(v.Operand, fc, res)
	ty := res.typeOf(v)
	mt := g.LowerType(ty)

	switch v.Op {
	case ast.UnaryNot:
		id := g.nextID(fc)
		return g.emit(fc, &UnaryOp{base: base2(id, v.Location), Op: InstNot, Operand: operand, Type: mt})

	case ast.UnaryNeg:
		id := g.nextID(fc)
		return g.emit(fc, &UnaryOp{base: base2(id, v.Location), Op: InstNeg, Mode: arithModeOf(ty), Operand: operand, Type: mt})

	case ast.UnaryRef, ast.UnaryMakeRef:
		allocID := g.nextID(fc)
		slot := g.emit(fc, &Alloc{base: base2(allocID, v.Location), Type: mt})
		storeID := g.nextID(fc)
		fc.Builder.Emit(&Store{base: base2(storeID, v.Location), Ptr: slot, Value: operand})
		return slot

	case ast.UnaryDeref:
		ptrID := g.nextID(fc)
		ptr := g.emit(fc, &GetPtr{base: base2(ptrID, v.Location), Base: operand, Type: mt})
		loadID := g.nextID(fc)
		return g.emit(fc, &Load{base: base2(loadID, v.Location), Ptr: ptr, Type: mt})

	default:
		return operand
	}
}

func (g *Generator) lowerLiteral(tok token.Token, ty checked.DataType) Val {
	switch tok.Kind {
	case token.LiteralSuffixInt8:
		return IntVal{Value: int64(tok.Int8)}
	case token.LiteralSuffixInt16:
		return IntVal{Value: int64(tok.Int16)}
	case token.LiteralSuffixInt32:
		return IntVal{Value: int64(tok.Int32)}
	case token.LiteralSuffixInt64, token.LiteralSuffixIsize:
		return IntVal{Value: tok.Int64}
	case token.LiteralSuffixUint8:
		return UintVal{Value: uint64(tok.Uint8)}
	case token.LiteralSuffixUint16:
		return UintVal{Value: uint64(tok.Uint16)}
	case token.LiteralSuffixUint32:
		return UintVal{Value: uint64(tok.Uint32)}
	case token.LiteralSuffixUint64, token.LiteralSuffixUsize:
		return UintVal{Value: tok.Uint64}
	case token.LiteralSuffixFloat32:
		return FloatVal{Value: float64(tok.Float32)}
	case token.LiteralSuffixFloat64:
		return FloatVal{Value: tok.Float64}
	case token.LiteralInt2, token.LiteralInt8, token.LiteralInt10, token.LiteralInt16:
		if checked.IsSigned(primKindOf(ty)) {
			return IntVal{Value: parseIntLiteral(tok)}
		}
		return UintVal{Value: uint64(parseIntLiteral(tok))}
	case token.LiteralFloat:
		return FloatVal{Value: parseFloatLiteral(tok)}
	case token.LiteralString:
		return StrVal{Value: tok.Text}
	case token.LiteralBitString:
		return BytesVal{Value: []byte(tok.Text)}
	case token.LiteralChar, token.LiteralBitChar:
		return UintVal{Value: uint64([]rune(tok.Text + "\x00")[0])}
	case token.KeywordTrue:
		return BoolVal{Value: true}
	case token.KeywordFalse:
		return BoolVal{Value: false}
	case token.KeywordNil, token.KeywordNone:
		return NilVal{}
	default:
		return UndefVal{}
	}
}

func (g *Generator) lowerBinary(v *ast.BinaryExpr, fc *FunContext, res *checkedExprLookup) Val {
	if underlying, isAssign := assignBaseOp(v.Op); isAssign {
		return g.lowerAssign(v, underlying, fc, res)
	}

	left := g.LowerExpr(v.Left, fc, res)
	right := g.LowerExpr(v.Right, fc, res)
	ty := res.typeOf(v)
	mode := arithModeOf(operandTypeOf(res, v.Left, v.Right))

	op, isCmp := binInstKind(v.Op)
	id := g.nextID(fc)
	if isCmp {
		return g.emit(fc, &Cmp{base: base{ID: id, Location: v.Location}, Op: op, Mode: mode, Left: left, Right: right})
	}
	return g.emit(fc, &BinOp{base: base{ID: id, Location: v.Location}, Op: op, Mode: mode, Left: left, Right: right, Type: g.LowerType(ty)})
}

// assignBaseOp reports whether op is one of §3's assignment forms,
// returning the plain binary op a compound assignment (`+=`, `&=`, ...)
// combines with the existing value; a bare `=` has no underlying op.
func assignBaseOp(op ast.BinaryOp) (ast.BinaryOp, bool) {
	switch op {
	case ast.OpAssign:
		return 0, true
	case ast.OpAddAssign:
		return ast.OpAdd, true
	case ast.OpSubAssign:
		return ast.OpSub, true
	case ast.OpMulAssign:
		return ast.OpMul, true
	case ast.OpDivAssign:
		return ast.OpDiv, true
	case ast.OpRemAssign:
		return ast.OpRem, true
	case ast.OpAndAssign:
		return ast.OpBitAnd, true
	case ast.OpOrAssign:
		return ast.OpBitOr, true
	case ast.OpXorAssign:
		return ast.OpBitXor, true
	case ast.OpShlAssign:
		return ast.OpShl, true
	case ast.OpShrAssign:
		return ast.OpShr, true
	default:
		return 0, false
	}
}

// lowerAssign lowers one assignment form to the store its target's
// shape calls for: a plain identifier stores straight to its VarVal
// slot, a field/index access resolves the address through the same
// GetField/GetArray chain lowerAccess builds, and a dereferenced
// pointer resolves through getptr first. A compound form (`+=`) reads
// the current value before combining it with the right-hand side.
func (g *Generator) lowerAssign(v *ast.BinaryExpr, underlying ast.BinaryOp, fc *FunContext, res *checkedExprLookup) Val {
	rhs := g.LowerExpr(v.Right, fc, res)
	ty := res.typeOf(v.Left)
	mt := g.LowerType(ty)

	combine := func(addr Val, current func() Val) Val {
		value := rhs
		if v.Op != ast.OpAssign {
			op, _ := binInstKind(underlying)
			id := g.nextID(fc)
			value = g.emit(fc, &BinOp{base: base2(id, v.Location), Op: op, Mode: arithModeOf(ty), Left: current(), Right: rhs, Type: mt})
		}
		storeID := g.nextID(fc)
		fc.Builder.Emit(&Store{base: base2(storeID, v.Location), Ptr: addr, Value: value})
		return value
	}

	switch target := v.Left.(type) {
	case *ast.IdentExpr:
		slot := VarVal{Name: target.Name}
		return combine(slot, func() Val { return g.LowerExpr(target, fc, res) })

	case *ast.UnaryExpr:
		if target.Op == ast.UnaryDeref {
			derefBase := g.LowerExpr(target.Operand, fc, res)
			ptrID := g.nextID(fc)
			ptr := g.emit(fc, &GetPtr{base: base2(ptrID, target.Location), Base: derefBase, Type: mt})
			return combine(ptr, func() Val {
				loadID := g.nextID(fc)
				return g.emit(fc, &Load{base: base2(loadID, target.Location), Ptr: ptr, Type: mt})
			})
		}
		return rhs

	case *ast.AccessExpr:
		addr := g.lowerAccess(target, fc, res)
		return combine(addr, func() Val {
			loadID := g.nextID(fc)
			return g.emit(fc, &Load{base: base2(loadID, target.Location), Ptr: addr, Type: mt})
		})

	default:
		return rhs
	}
}

// operandTypeOf picks whichever operand's checked type is already
// concrete, preferring the left operand, so the arithmetic mode
// (signed/unsigned/float) is derived the same way the analyzer's
// overload resolution narrowed it.
func operandTypeOf(res *checkedExprLookup, left, right ast.Expr) checked.DataType {
	if ty := res.typeOf(left); ty != nil {
		if _, unk := ty.(*checked.Unknown); !unk {
			return ty
		}
	}
	return res.typeOf(right)
}

func binInstKind(op ast.BinaryOp) (InstKind, bool) {
	switch op {
	case ast.OpAdd:
		return InstAdd, false
	case ast.OpSub:
		return InstSub, false
	case ast.OpMul:
		return InstMul, false
	case ast.OpDiv:
		return InstDiv, false
	case ast.OpRem:
		return InstRem, false
	case ast.OpBitAnd, ast.OpAnd:
		return InstAnd, false
	case ast.OpBitOr, ast.OpOr:
		return InstOr, false
	case ast.OpBitXor:
		return InstXor, false
	case ast.OpShl:
		return InstShl, false
	case ast.OpShr:
		return InstShr, false
	case ast.OpEq:
		return InstCmpEq, true
	case ast.OpNotEq:
		return InstCmpNe, true
	case ast.OpLt:
		return InstCmpLt, true
	case ast.OpLe:
		return InstCmpLe, true
	case ast.OpGt:
		return InstCmpGt, true
	case ast.OpGe:
		return InstCmpGe, true
	default:
		return InstAdd, false
	}
}

func arithModeOf(ty checked.DataType) ArithMode {
	p, ok := ty.(*checked.Primitive)
	if !ok {
		return ModeSigned
	}
	switch {
	case checked.IsFloat(p.Kind):
		return ModeFloat
	case checked.IsSigned(p.Kind):
		return ModeSigned
	default:
		return ModeUnsigned
	}
}

func primKindOf(ty checked.DataType) ast.Primitive {
	if p, ok := ty.(*checked.Primitive); ok {
		return p.Kind
	}
	return ast.PrimInt32
}

func (g *Generator) lowerAccess(v *ast.AccessExpr, fc *FunContext, res *checkedExprLookup) Val {
	cur := g.LowerExpr(v.Base, fc, res)
	curTy := res.typeOf(v.Base)
	for _, step := range v.Steps {
		if step.Index != nil {
			idx := g.LowerExpr(step.Index, fc, res)
			id := g.nextID(fc)
			elemTy := elemTypeOf(curTy)
			cur = g.emit(fc, &GetArray{base: base2(id, v.Location), Base: cur, Index: idx, Type: g.LowerType(elemTy)})
			curTy = elemTy
			continue
		}
		fieldIdx, fieldTy := g.fieldIndexOf(curTy, step.Field)
		id := g.nextID(fc)
		cur = g.emit(fc, &GetField{base: base2(id, v.Location), Base: cur, Index: fieldIdx, Type: g.LowerType(fieldTy)})
		curTy = fieldTy
	}
	return cur
}

func base2(id int, loc token.Location) base { return base{ID: id, Location: loc} }

func elemTypeOf(ty checked.DataType) checked.DataType {
	switch v := ty.(type) {
	case *checked.List:
		return v.Elem
	case *checked.Array:
		return v.Elem
	default:
		return &checked.Unknown{}
	}
}

// fieldIndexOf looks up a record field's positional index and checked
// type, grounded on the same declaration-order rule lowerFieldOrder
// uses when building the struct definition, so a GetField index always
// lines up with the struct layout that was actually emitted.
func (g *Generator) fieldIndexOf(ty checked.DataType, field string) (int, checked.DataType) {
	c, ok := ty.(*checked.Custom)
	if !ok {
		return 0, &checked.Unknown{}
	}
	rec, ok := g.Analysis.Records[c.GlobalName]
	if !ok {
		return 0, &checked.Unknown{}
	}
	if rec.Decl != nil {
		for i, f := range rec.Decl.Fields {
			if f.Name == field {
				return i, rec.Fields[f.Name]
			}
		}
	}
	return 0, rec.Fields[field]
}

func (g *Generator) lowerCall(v *ast.CallExpr, fc *FunContext, res *checkedExprLookup) Val {
	args := make([]Val, len(v.Args))
	argTypes := make([]checked.DataType, len(v.Args))
	for i, a := range v.Args {
		args[i] = g.LowerExpr(a, fc, res)
		argTypes[i] = res.typeOf(a)
	}

	switch v.Kind {
	case ast.ExprCallRecord:
		return StructVal{Elems: args}
	case ast.ExprCallVariant:
		return StructVal{Elems: args}
	}

	calleeName := res.qualify(v.Callee)
	key := g.resolveCallee(res.lookupFun(v.Callee), calleeName, argTypes, res.typeOf(v))
	id := g.nextID(fc)
	return g.emit(fc, &Call{base: base2(id, v.Location), Callee: key, Args: args, Type: g.LowerType(res.typeOf(v))})
}

// resolveCallee picks the MIR callee key for one call site. A generic
// target is monomorphized to an argument-type-specific key, one per
// distinct instantiation (§8 scenario 6); an overloaded target's key
// carries the same argument-type suffix (§3's add_signature); any
// other call keeps its bare qualified name. Whichever key the module
// doesn't already hold a definition under gets a fun_prototype, so
// §4.6's "every call target is either defined in the module or
// present as a fun_prototype" holds at every point during lowering,
// not just once Generate finishes.
func (g *Generator) resolveCallee(fn *analyzer.CheckedFun, calleeName string, argTypes []checked.DataType, retTy checked.DataType) string {
	if fn != nil && fn.Decl != nil && len(fn.Decl.Generics) > 0 {
		return g.instantiateGeneric(fn, argTypes)
	}

	key := calleeName
	if g.overloaded(calleeName) {
		key = checked.SerializeGlobalName(calleeName, argTypes)
	}
	g.ensurePrototype(key, argTypes, retTy)
	return key
}

// overloaded reports whether calleeName's declaration carries more
// than one signature (§3's SignatureList), the only case besides
// generics where a call's key needs the argument-type suffix.
func (g *Generator) overloaded(calleeName string) bool {
	sigs, ok := g.Analysis.Signatures[calleeName]
	return ok && len(sigs.All()) > 1
}

// ensurePrototype registers a fun_prototype for key if the module
// doesn't already hold a definition under it. This covers genuine
// external/builtin callees as well as an ordinary forward reference
// to a function this Generate pass hasn't reached yet: its real body
// overwrites the prototype in place once emitted, since Module.Insert
// keeps the first-seen order slot.
func (g *Generator) ensurePrototype(key string, argTypes []checked.DataType, retTy checked.DataType) {
	if !g.Module.KeyIsUnique(key) {
		return
	}
	params := make([]DataType, len(argTypes))
	for i, t := range argTypes {
		params[i] = g.LowerType(t)
	}
	g.Module.Insert(key, &FunPrototype{GlobalName: key, Params: params, Return: g.LowerType(retTy)})
}

// instantiateGeneric lowers fn's body once per distinct concrete
// argument-type combination called against it, memoized by key so two
// calls with the same argument types share one MIR function (§8
// scenario 6: "id<T> called with i32 then f64 ... emits two fun
// instructions with distinct keys").
func (g *Generator) instantiateGeneric(fn *analyzer.CheckedFun, argTypes []checked.DataType) string {
	key := checked.SerializeGlobalName(fn.GlobalName, argTypes)
	if !g.Module.KeyIsUnique(key) {
		return key
	}

	bindings := g.genericBindings(fn.Params, argTypes)
	saved := g.Generics
	g.Generics = bindings
	defer func() { g.Generics = saved }()

	params := make([]DataType, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = g.LowerType(p)
	}
	ret := g.LowerType(fn.Return)
	// A placeholder before the body is lowered lets a self-recursive
	// call within this same instantiation resolve to key instead of
	// re-entering instantiateGeneric.
	g.Module.Insert(key, &FunPrototype{GlobalName: key, Params: params, Return: ret})

	n, err := g.generateFunction(fn, key)
	if err != nil {
		return key
	}
	g.lazyInstructions += n
	return key
}

// genericBindings matches fn's checked parameter types positionally
// against argTypes, lowering the concrete type opposite each bare
// generic-parameter placeholder into the binding LowerType's
// CompilerGeneric case consults.
func (g *Generator) genericBindings(params []checked.DataType, argTypes []checked.DataType) map[string]DataType {
	bindings := make(map[string]DataType)
	for i, p := range params {
		if i >= len(argTypes) {
			break
		}
		if cg, ok := p.(*checked.CompilerGeneric); ok {
			bindings[cg.Name] = g.LowerType(argTypes[i])
		}
	}
	return bindings
}

func parseIntLiteral(tok token.Token) int64 {
	var n int64
	for _, r := range tok.Text {
		if r < '0' || r > '9' {
			continue
		}
		n = n*10 + int64(r-'0')
	}
	return n
}

func parseFloatLiteral(tok token.Token) float64 {
	var n float64
	var frac float64 = 1
	seenDot := false
	for _, r := range tok.Text {
		switch {
		case r == '.':
			seenDot = true
		case r >= '0' && r <= '9':
			if !seenDot {
				n = n*10 + float64(r-'0')
			} else {
				frac /= 10
				n += float64(r-'0') * frac
			}
		}
	}
	return n
}
