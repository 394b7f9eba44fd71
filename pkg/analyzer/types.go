// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/checked"
)

// resolveType turns one AstDataType node into a CheckedDataType
// (§4.5.3). A CustomType name is resolved by walking scope outward
// from scopeID; a name matching one of the enclosing declaration's
// generics binds to that generic parameter instead of a scope lookup.
// An unresolved reference produces checked.Unknown and an error.
func (a *Analyzer) resolveType(t ast.DataType, scopeID checked.ScopeID, generics map[string]bool) checked.DataType {
	if t == nil {
		return &checked.Primitive{Kind: ast.PrimUnit}
	}
	switch v := t.(type) {
	case *ast.PrimitiveType:
		return &checked.Primitive{Kind: v.Kind}
	case *ast.ArrayType:
		return &checked.Array{Shape: v.Shape, Size: v.Size, Elem: a.resolveType(v.Elem, scopeID, generics)}
	case *ast.LambdaType:
		params := make([]checked.DataType, len(v.Params))
		for i, p := range v.Params {
			params[i] = a.resolveType(p, scopeID, generics)
		}
		return &checked.Lambda{Params: params, Return: a.resolveType(v.Return, scopeID, generics)}
	case *ast.ListType:
		return &checked.List{Elem: a.resolveType(v.Elem, scopeID, generics)}
	case *ast.QualifierType:
		return &checked.Qualifier{Qualifier: v.Qualifier, Inner: a.resolveType(v.Inner, scopeID, generics)}
	case *ast.OptionalType:
		return &checked.Optional{Inner: a.resolveType(v.Inner, scopeID, generics)}
	case *ast.ResultType:
		errs := make([]checked.DataType, len(v.Errors))
		for i, e := range v.Errors {
			errs[i] = a.resolveType(e, scopeID, generics)
		}
		return &checked.Result{Ok: a.resolveType(v.Ok, scopeID, generics), Errors: errs}
	case *ast.TupleType:
		if len(v.Elems) == 0 {
			// §8 boundary: a zero-length tuple is unit, not a tuple of one.
			return &checked.Primitive{Kind: ast.PrimUnit}
		}
		elems := make([]checked.DataType, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = a.resolveType(e, scopeID, generics)
		}
		return &checked.Tuple{Elems: elems}
	case *ast.CustomType:
		return a.resolveCustom(v, scopeID, generics)
	default:
		a.Errors.Add(t.Loc(), "unresolvable type node")
		return &checked.Unknown{}
	}
}

// resolveCustom resolves a named type reference: first against the
// enclosing declaration's own generic parameters, then by a scope
// walk over every declaration kind a CustomType may name.
func (a *Analyzer) resolveCustom(v *ast.CustomType, scopeID checked.ScopeID, generics map[string]bool) checked.DataType {
	if generics[v.Name] {
		return &checked.CompilerGeneric{Name: v.Name}
	}

	kinds := []struct {
		kind  checked.EntryKind
		entry checked.CustomEntryKind
	}{
		{checked.EntryRecord, checked.CustomRecord},
		{checked.EntryEnum, checked.CustomEnum},
		{checked.EntryRecordObject, checked.CustomRecordObject},
		{checked.EntryEnumObject, checked.CustomEnumObject},
		{checked.EntryClass, checked.CustomClass},
		{checked.EntryTrait, checked.CustomTrait},
		{checked.EntryAlias, checked.CustomRecord},
	}
	for _, k := range kinds {
		res := a.Arena.Search(scopeID, k.kind, v.Name)
		if !res.Found {
			continue
		}
		if alias, ok := res.Decl.(*ast.AliasDecl); ok {
			return a.resolveType(alias.Target, scopeID, generics)
		}
		genArgs := make([]checked.DataType, len(v.Generics))
		for i, g := range v.Generics {
			genArgs[i] = a.resolveType(g, scopeID, nil)
		}
		return &checked.Custom{
			ScopeID:    res.ScopeID,
			Name:       v.Name,
			GlobalName: a.qualify(v.Name),
			Generics:   genArgs,
			EntryKind:  k.entry,
		}
	}

	a.Errors.Add(v.Loc(), "unknown type %q", v.Name)
	return &checked.Unknown{}
}

// qualify derives a declaration's global name from its package path
// plus its local name, used both for Custom type references and for
// SignatureFun.GlobalName (§3: "GlobalName").
func (a *Analyzer) qualify(name string) string {
	if a.PackagePath == "" {
		return name
	}
	return a.PackagePath + "." + name
}
