// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/checked"
	"github.com/lily-lang/lily/pkg/token"
)

// checkBodies is pass 4.5.4/4.5.6/4.5.7 combined: every function's
// body is walked with bidirectional inference, match statements are
// lowered to switches, and raise/try-catch statements are checked
// against the enclosing function's can_raise flag.
func (a *Analyzer) checkBodies(decls []ast.Decl) {
	for _, d := range decls {
		fn, ok := d.(*ast.FunDecl)
		if !ok || fn.Body == nil {
			continue
		}
		a.checkFun(fn)
	}
}

func (a *Analyzer) checkFun(fn *ast.FunDecl) {
	scopeID := a.declScope[fn]
	generics := genericSet(fn.Generics)
	scope := a.Arena.New(scopeID)
	scope.Owner = fn

	params := make([]checked.DataType, len(fn.Params))
	for i, p := range fn.Params {
		pty := a.resolveType(p.Type, scope.ID, generics)
		params[i] = pty
		scope.Declare(checked.EntryParam, p.Name, pty)
		if p.Default != nil {
			a.inferExpr(p.Default, &funCtx{fn: fn, scope: scope, generics: generics}, pty)
		}
	}
	ret := a.resolveType(fn.Return, scope.ID, generics)

	globalName := a.qualify(fn.Name)
	fc := &funCtx{fn: fn, scope: scope, generics: generics, ret: ret}
	a.checkBlock(fn.Body, fc)

	if !fn.CanRaise && len(scope.RaisedErrors) > 0 {
		a.Errors.Add(fn.Loc(), "function %q raises but is not declared can_raise", fn.Name)
	}

	a.functions[globalName] = &CheckedFun{
		Decl: fn, GlobalName: globalName, Params: params, Return: ret,
		Raises: a.raisedBy[globalName],
	}
}

func (a *Analyzer) checkBlock(b *ast.BlockStmt, fc *funCtx) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		a.checkStmt(s, fc)
	}
}

// checkShadow warns when a new `val`/`mut` binding reuses a name
// already bound by an enclosing scope (§7: "shadowed binding"). It
// only looks at ancestor scopes: redeclaring a name within the same
// block is the local's own Declare call's concern, not a shadowing one.
func (a *Analyzer) checkShadow(name string, fc *funCtx, loc token.Location) {
	parent := fc.scope.Parent
	if parent == checked.NoScope {
		return
	}
	if res := a.Arena.Search(parent, checked.EntryVariable, name); res.Found {
		a.Warnings.Add(loc, "declaration of %q shadows an outer binding", name)
		return
	}
	if res := a.Arena.Search(parent, checked.EntryParam, name); res.Found {
		a.Warnings.Add(loc, "declaration of %q shadows a parameter", name)
	}
}

func (a *Analyzer) checkStmt(s ast.Stmt, fc *funCtx) {
	switch v := s.(type) {
	case *ast.ExprStmt:
		a.inferExpr(v.X, fc, nil)

	case *ast.BlockStmt:
		a.checkBlock(v, fc)

	case *ast.VarDeclStmt:
		var declared checked.DataType
		if v.Type != nil {
			declared = a.resolveType(v.Type, fc.scope.ID, fc.generics)
		}
		valueTy := a.inferExpr(v.Value, fc, declared)
		if declared == nil {
			declared = valueTy
		}
		a.checkShadow(v.Name, fc, v.Loc())
		fc.scope.Declare(checked.EntryVariable, v.Name, declared)
		a.varDecls = append(a.varDecls, varDeclSite{scope: fc.scope.ID, name: v.Name, loc: v.Loc()})

	case *ast.IfStmt:
		for _, br := range v.Branches {
			a.inferExpr(br.Cond, fc, &checked.Primitive{Kind: ast.PrimBool})
			a.checkBlock(br.Body, fc)
		}
		a.checkBlock(v.Else, fc)

	case *ast.WhileStmt:
		a.inferExpr(v.Cond, fc, &checked.Primitive{Kind: ast.PrimBool})
		a.checkBlock(v.Body, fc)

	case *ast.ForStmt:
		elemTy := a.elemTypeOf(a.inferExpr(v.Iterable, fc, nil))
		loopScope := a.Arena.New(fc.scope.ID)
		loopScope.Declare(checked.EntryVariable, v.Binding, elemTy)
		inner := &funCtx{fn: fc.fn, scope: loopScope, generics: fc.generics, ret: fc.ret}
		a.checkBlock(v.Body, inner)

	case *ast.ReturnStmt:
		fc.scope.HasReturn = true
		if v.Value != nil {
			a.inferExpr(v.Value, fc, fc.ret)
		}

	case *ast.RaiseStmt:
		a.checkRaise(v, fc)

	case *ast.TryCatchStmt:
		a.checkTryCatch(v, fc)

	case *ast.UnsafeStmt:
		a.checkBlock(v.Body, fc)

	case *ast.AwaitStmt:
		a.inferExpr(v.Value, fc, nil)

	case *ast.MatchStmt:
		a.checkMatch(v, fc)

	case *ast.DeferStmt:
		a.checkStmt(v.Body, fc)

	case *ast.DropStmt, *ast.BreakStmt, *ast.NextStmt, *ast.AsmStmt:
		// no expression to check, no type to infer.
	}
}

// elemTypeOf extracts the iteration element type a `for` loop binds,
// defaulting to Unknown for anything that isn't iterable.
func (a *Analyzer) elemTypeOf(ty checked.DataType) checked.DataType {
	switch v := ty.(type) {
	case *checked.List:
		return v.Elem
	case *checked.Array:
		return v.Elem
	default:
		return &checked.Unknown{}
	}
}

// checkRaise is §4.5.7: a raise outside a can_raise function (and
// outside a try that would otherwise capture it into its catch
// binding) is an error; otherwise the error name joins the enclosing
// scope's raised set.
func (a *Analyzer) checkRaise(v *ast.RaiseStmt, fc *funCtx) {
	a.inferExpr(v.Value, fc, nil)
	name := errorNameOf(v.Value)
	insideTry := fc.scope.PendingCatch != ""
	if !insideTry && (fc.fn == nil || !fc.fn.CanRaise) {
		a.Errors.Add(v.Loc(), "raise outside a can_raise function")
		return
	}
	if name != "" {
		fc.scope.RaisedErrors[name] = true
	}
}

// checkTryCatch binds the catch name to the checked error type the
// body's raises resolve to (single error -> its Custom type; none or
// several known -> Unknown, since the MIR generator's result-type
// lowering collapses that case to a tagged union regardless).
func (a *Analyzer) checkTryCatch(v *ast.TryCatchStmt, fc *funCtx) {
	bodyScope := a.Arena.New(fc.scope.ID)
	bodyScope.PendingCatch = v.CatchName
	inner := &funCtx{fn: fc.fn, scope: bodyScope, generics: fc.generics, ret: fc.ret}
	a.checkBlock(v.Body, inner)

	catchTy := a.catchBindingType(bodyScope)
	catchScope := a.Arena.New(fc.scope.ID)
	catchScope.Declare(checked.EntryVariable, v.CatchName, catchTy)
	catchCtx := &funCtx{fn: fc.fn, scope: catchScope, generics: fc.generics, ret: fc.ret}
	a.checkBlock(v.CatchBody, catchCtx)
}

func (a *Analyzer) catchBindingType(bodyScope *checked.Scope) checked.DataType {
	for name := range collectRaisedInBody(bodyScope, nil) {
		if _, ok := a.errorDecls[a.qualify(name)]; ok {
			return &checked.Custom{Name: name, GlobalName: a.qualify(name), EntryKind: checked.CustomRecord, ScopeID: bodyScope.ID}
		}
	}
	return &checked.Unknown{}
}

// collectRaisedInBody is a thin adapter over the scope's own
// RaisedErrors bookkeeping, kept separate so it can later walk nested
// try-free sub-scopes if the scope graph grows child try statements.
func collectRaisedInBody(scope *checked.Scope, seed map[string]bool) map[string]bool {
	if seed == nil {
		seed = make(map[string]bool)
	}
	for name := range scope.RaisedErrors {
		seed[name] = true
	}
	return seed
}

// checkMatch checks every case's pattern against the subject's type
// and lowers the statement into a SwitchStmt recorded in a.switches.
func (a *Analyzer) checkMatch(v *ast.MatchStmt, fc *funCtx) {
	subjectTy := a.inferExpr(v.Subject, fc, nil)
	for _, c := range v.Cases {
		caseScope := a.Arena.New(fc.scope.ID)
		a.bindPattern(c.Pattern, subjectTy, caseScope)
		inner := &funCtx{fn: fc.fn, scope: caseScope, generics: fc.generics, ret: fc.ret}
		if c.Guard != nil {
			a.inferExpr(c.Guard, inner, &checked.Primitive{Kind: ast.PrimBool})
		}
		a.checkStmt(c.Body, inner)
	}
	a.switches[v] = a.lowerMatch(v)
}

// bindPattern declares every name a pattern introduces into scope,
// typed from ty where that is locally knowable (variant/tuple payload
// positions fall back to Unknown since the analyzer does not carry
// per-constructor payload types through a bare Custom reference).
func (a *Analyzer) bindPattern(p ast.Pattern, ty checked.DataType, scope *checked.Scope) {
	switch v := p.(type) {
	case *ast.NamePattern:
		scope.Declare(checked.EntryVariable, v.Name, ty)
	case *ast.AsPattern:
		a.bindPattern(v.Inner, ty, scope)
		scope.Declare(checked.EntryVariable, v.Name, ty)
	case *ast.VariantPattern:
		for _, sub := range v.Payload {
			a.bindPattern(sub, &checked.Unknown{}, scope)
		}
	case *ast.TuplePattern:
		if tup, ok := ty.(*checked.Tuple); ok && len(tup.Elems) == len(v.Elems) {
			for i, el := range v.Elems {
				a.bindPattern(el, tup.Elems[i], scope)
			}
			return
		}
		for _, el := range v.Elems {
			a.bindPattern(el, &checked.Unknown{}, scope)
		}
	case *ast.ArrayPattern:
		elem := a.elemTypeOf(ty)
		for _, el := range v.Elems {
			a.bindPattern(el, elem, scope)
		}
	case *ast.ListPattern:
		elem := a.elemTypeOf(ty)
		for _, el := range v.Head {
			a.bindPattern(el, elem, scope)
		}
		if v.Rest != "" {
			scope.Declare(checked.EntryVariable, v.Rest, &checked.List{Elem: elem})
		}
	case *ast.RecordPattern:
		rec, _ := ty.(*checked.Custom)
		var fields map[string]checked.DataType
		if rec != nil {
			if cr, ok := a.records[rec.GlobalName]; ok {
				fields = cr.Fields
			}
		}
		for _, f := range v.Fields {
			fieldTy := checked.DataType(&checked.Unknown{})
			if fields != nil {
				if t, ok := fields[f.Field]; ok {
					fieldTy = t
				}
			}
			a.bindPattern(f.Pattern, fieldTy, scope)
		}
	case *ast.ErrorPattern:
		a.bindPattern(v.Payload, &checked.Unknown{}, scope)
	}
}
