// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/checked"
)

// funCtx is the state body checking threads through one function's
// statements and expressions: its local scope, declared return type,
// and the generics in scope for type resolution.
type funCtx struct {
	fn       *ast.FunDecl
	scope    *checked.Scope
	generics map[string]bool
	ret      checked.DataType
}

// inferExpr implements §4.5.4's bidirectional inference: expected may
// be nil (fully bottom-up) or a concrete type the surrounding context
// already demands (top-down). The resolved type is both returned and
// recorded into a.exprTypes for the MIR generator.
func (a *Analyzer) inferExpr(e ast.Expr, fc *funCtx, expected checked.DataType) checked.DataType {
	if e == nil {
		return &checked.Primitive{Kind: ast.PrimUnit}
	}
	ty := a.inferExprKind(e, fc, expected)
	a.exprTypes[e] = ty
	return ty
}

func (a *Analyzer) inferExprKind(e ast.Expr, fc *funCtx, expected checked.DataType) checked.DataType {
	switch v := e.(type) {
	case *ast.LiteralExpr:
		return a.literalType(v.Tok, expected)

	case *ast.IdentExpr:
		return a.lookupIdentType(v, fc)

	case *ast.BinaryExpr:
		return a.inferBinary(v, fc)

	case *ast.UnaryExpr:
		operand := a.inferExpr(v.Operand, fc, expected)
		if v.Op == ast.UnaryNot {
			return &checked.Primitive{Kind: ast.PrimBool}
		}
		return operand

	case *ast.CastExpr:
		a.inferExpr(v.Value, fc, nil)
		return a.resolveType(v.To, fc.scope.ID, fc.generics)

	case *ast.TupleExpr:
		if len(v.Elems) == 0 {
			return &checked.Primitive{Kind: ast.PrimUnit}
		}
		elems := make([]checked.DataType, len(v.Elems))
		for i, el := range v.Elems {
			elems[i] = a.inferExpr(el, fc, nil)
		}
		return &checked.Tuple{Elems: elems}

	case *ast.ArrayExpr:
		if len(v.Elems) == 0 {
			// §8 boundary: stays undetermined until unified with a sized context.
			return &checked.Array{Shape: ast.ArrayUndetermined, Elem: &checked.Unknown{}}
		}
		var elemExpected checked.DataType
		if arr, ok := expected.(*checked.Array); ok {
			elemExpected = arr.Elem
		}
		elem := a.inferExpr(v.Elems[0], fc, elemExpected)
		for _, el := range v.Elems[1:] {
			a.inferExpr(el, fc, elem)
		}
		return &checked.Array{Shape: ast.ArrayDynamic, Elem: elem}

	case *ast.FieldAccessExpr:
		return a.inferExpr(v.Value, fc, nil)

	case *ast.AccessExpr:
		return a.inferAccess(v, fc)

	case *ast.LambdaExpr:
		return a.inferLambda(v, fc)

	case *ast.CallExpr:
		return a.inferCall(v, fc)

	default:
		return &checked.Unknown{}
	}
}

// lookupIdentType resolves a bare name against the function's local
// scope chain (params, locals), falling back to package-level
// constants.
func (a *Analyzer) lookupIdentType(v *ast.IdentExpr, fc *funCtx) checked.DataType {
	for _, kind := range []checked.EntryKind{checked.EntryParam, checked.EntryVariable, checked.EntryCaptured} {
		if res := a.Arena.Search(fc.scope.ID, kind, v.Name); res.Found {
			if kind == checked.EntryVariable {
				a.varUsed[varKey(res.ScopeID, v.Name)] = true
			}
			if ty, ok := res.Decl.(checked.DataType); ok {
				return ty
			}
		}
	}
	if ty, ok := a.constants[a.qualify(v.Name)]; ok {
		return ty
	}
	a.Errors.Add(v.Loc(), "unknown name %q", v.Name)
	return &checked.Unknown{}
}

// inferBinary implements the compiler-choice / conditional-compiler-
// choice overload resolution §4.5.4 describes: infer both operands
// bottom-up, filter the operator register's candidates against
// whichever types are already concrete, and collapse to the single
// surviving candidate's return type when resolution is unambiguous.
func (a *Analyzer) inferBinary(v *ast.BinaryExpr, fc *funCtx) checked.DataType {
	if isAssignOp(v.Op) {
		rhs := a.inferExpr(v.Right, fc, nil)
		a.inferExpr(v.Left, fc, rhs)
		return rhs
	}

	left := a.inferExpr(v.Left, fc, nil)
	right := a.inferExpr(v.Right, fc, nil)

	name := opSymbol(v.Op)
	candidates := a.Operators.TypecheckBinary(name, concreteOrNil(left), concreteOrNil(right))
	switch len(candidates) {
	case 0:
		a.Errors.Add(v.Loc(), "no overload of %q matches the operand types", name)
		return &checked.Unknown{}
	case 1:
		return candidates[0].Return
	default:
		choice := checked.ConditionalReturn(candidates)
		choice.Lock()
		return choice
	}
}

func isAssignOp(op ast.BinaryOp) bool {
	switch op {
	case ast.OpAssign, ast.OpAddAssign, ast.OpSubAssign, ast.OpMulAssign, ast.OpDivAssign,
		ast.OpRemAssign, ast.OpAndAssign, ast.OpOrAssign, ast.OpXorAssign, ast.OpShlAssign, ast.OpShrAssign:
		return true
	default:
		return false
	}
}

// concreteOrNil treats an Unknown (or nil) operand as "still
// unconstrained" for TypecheckBinary's filtering, matching the §4.5.4
// contract that only known operand types narrow the candidate set.
func concreteOrNil(t checked.DataType) checked.DataType {
	if t == nil {
		return nil
	}
	if _, ok := t.(*checked.Unknown); ok {
		return nil
	}
	return t
}

func (a *Analyzer) inferAccess(v *ast.AccessExpr, fc *funCtx) checked.DataType {
	ty := a.inferExpr(v.Base, fc, nil)
	for _, step := range v.Steps {
		if step.Index != nil {
			a.inferExpr(step.Index, fc, nil)
			switch elemOf := ty.(type) {
			case *checked.Array:
				ty = elemOf.Elem
			case *checked.List:
				ty = elemOf.Elem
			default:
				ty = &checked.Unknown{}
			}
			continue
		}
		rec, ok := ty.(*checked.Custom)
		if !ok {
			ty = &checked.Unknown{}
			continue
		}
		fields, ok := a.records[rec.GlobalName]
		if !ok {
			a.Errors.Add(v.Loc(), "unknown field %q on %q", step.Field, rec.Name)
			ty = &checked.Unknown{}
			continue
		}
		fieldTy, ok := fields.Fields[step.Field]
		if !ok {
			a.Errors.Add(v.Loc(), "unknown field %q on %q", step.Field, rec.Name)
			ty = &checked.Unknown{}
			continue
		}
		ty = fieldTy
	}
	return ty
}

func (a *Analyzer) inferLambda(v *ast.LambdaExpr, fc *funCtx) checked.DataType {
	scope := a.Arena.New(fc.scope.ID)
	params := make([]checked.DataType, len(v.Params))
	for i, p := range v.Params {
		pty := a.resolveType(p.Type, scope.ID, fc.generics)
		params[i] = pty
		scope.Declare(checked.EntryParam, p.Name, pty)
	}
	ret := a.resolveType(v.Return, scope.ID, fc.generics)
	inner := &funCtx{fn: fc.fn, scope: scope, generics: fc.generics, ret: ret}
	for _, s := range v.Body {
		a.checkStmt(s, inner)
	}
	return &checked.Lambda{Params: params, Return: ret}
}

// inferCall resolves a call's return type from the callee's seeded
// signature, monomorphizing a generic callee by pushing a new
// SignatureFun with the call-site argument types substituted
// (§4.5.4's "generic function calls are monomorphized").
func (a *Analyzer) inferCall(v *ast.CallExpr, fc *funCtx) checked.DataType {
	args := make([]checked.DataType, len(v.Args))
	for i, arg := range v.Args {
		args[i] = a.inferExpr(arg, fc, nil)
	}

	switch v.Kind {
	case ast.ExprCallRecord:
		return &checked.Custom{Name: v.Callee, GlobalName: a.qualify(v.Callee), EntryKind: checked.CustomRecord}

	case ast.ExprCallVariant:
		return &checked.Custom{Name: v.Callee, GlobalName: a.qualify(v.Callee), EntryKind: checked.CustomEnum}
	}

	globalName := a.qualify(v.Callee)
	list, ok := a.signatures[globalName]
	if !ok {
		if v.Kind == ast.ExprCallFun || v.Kind == ast.ExprCallMethod {
			a.Errors.Add(v.Loc(), "call to unknown function %q", v.Callee)
		}
		return &checked.Unknown{}
	}
	original := list.All()[0]
	if len(original.Types) == 0 {
		return &checked.Unknown{}
	}
	ret := original.Types[len(original.Types)-1]

	if len(args) > 0 {
		serialized := checked.SerializeGlobalName(globalName, args)
		mono := &checked.SignatureFun{GlobalName: globalName, Types: append(append([]checked.DataType{}, args...), ret), Serialized: serialized}
		list.Add(mono)
	}
	return ret
}
