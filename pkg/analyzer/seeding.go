// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/checked"
)

// seedSignatures is pass 4.5.2: every function declaration gets its
// "original" signature pushed before any call site can reference it,
// so forward calls and recursive calls both resolve. Type declarations
// get no signature entry: their generic binding is built here and then
// dropped.
func (a *Analyzer) seedSignatures(decls []ast.Decl) {
	for _, d := range decls {
		switch v := d.(type) {
		case *ast.FunDecl:
			scopeID := a.declScope[d]
			generics := genericSet(v.Generics)
			types := make([]checked.DataType, 0, len(v.Params)+1)
			for _, p := range v.Params {
				types = append(types, a.resolveType(p.Type, scopeID, generics))
			}
			ret := a.resolveType(v.Return, scopeID, generics)
			types = append(types, ret)

			globalName := a.qualify(v.Name)
			list := &checked.SignatureList{}
			list.Add(&checked.SignatureFun{
				GlobalName: globalName,
				Types:      types,
				Serialized: checked.SerializeGlobalName(globalName, types[:len(types)-1]),
			})
			a.signatures[globalName] = list

		case *ast.RecordDecl, *ast.EnumDecl, *ast.AliasDecl, *ast.ClassDecl, *ast.TraitDecl:
			globalName := a.qualify(d.DeclName())
			binding := make(map[string]checked.DataType)
			for _, g := range genericsOf(d) {
				binding[g] = &checked.CompilerGeneric{Name: g}
			}
			_ = binding // not stored: no SignatureType is recorded for type declarations
		}
	}
}

// resolveDeclaredTypes is pass 4.5.3: every AstDataType embedded in a
// declaration is resolved to a CheckedDataType.
func (a *Analyzer) resolveDeclaredTypes(decls []ast.Decl) {
	for _, d := range decls {
		scopeID := a.declScope[d]
		switch v := d.(type) {
		case *ast.RecordDecl:
			generics := genericSet(v.Generics)
			fields := make(map[string]checked.DataType, len(v.Fields))
			for _, f := range v.Fields {
				fields[f.Name] = a.resolveType(f.Type, scopeID, generics)
			}
			a.records[a.qualify(v.Name)] = &CheckedRecord{Decl: v, Fields: fields}

		case *ast.EnumDecl:
			generics := genericSet(v.Generics)
			variants := make(map[string][]checked.DataType, len(v.Variants))
			for _, ev := range v.Variants {
				payload := make([]checked.DataType, len(ev.Payload))
				for i, p := range ev.Payload {
					payload[i] = a.resolveType(p, scopeID, generics)
				}
				variants[ev.Name] = payload
			}
			a.enums[a.qualify(v.Name)] = &CheckedEnum{Decl: v, Variants: variants}

		case *ast.AliasDecl:
			a.aliases[a.qualify(v.Name)] = a.resolveType(v.Target, scopeID, genericSet(v.Generics))

		case *ast.ErrorDecl:
			payload := make([]checked.DataType, len(v.Payload))
			for i, p := range v.Payload {
				payload[i] = a.resolveType(p, scopeID, nil)
			}
			a.errorDecls[a.qualify(v.Name)] = &CheckedError{Decl: v, Payload: payload}

		case *ast.ConstantDecl:
			if v.Type != nil {
				a.constants[a.qualify(v.Name)] = a.resolveType(v.Type, scopeID, nil)
			} else {
				fc := &funCtx{scope: a.Arena.Get(scopeID), generics: nil}
				a.constants[a.qualify(v.Name)] = a.inferExpr(v.Value, fc, nil)
			}

		case *ast.ClassDecl:
			generics := genericSet(v.Generics)
			fields := make(map[string]checked.DataType, len(v.Fields))
			for _, f := range v.Fields {
				fields[f.Name] = a.resolveType(f.Type, scopeID, generics)
			}
			a.records[a.qualify(v.Name)] = &CheckedRecord{Fields: fields}
		}
	}
}

// registerUserOperators is pass 4.5.5's user half: a top-level
// function whose name spells a recognized operator symbol extends the
// register with its declared signature, subject to the same
// duplicate-signature rejection as the built-ins.
func (a *Analyzer) registerUserOperators(decls []ast.Decl) {
	for _, d := range decls {
		fn, ok := d.(*ast.FunDecl)
		if !ok || !isOperatorName(fn.Name) {
			continue
		}
		scopeID := a.declScope[d]
		generics := genericSet(fn.Generics)
		params := make([]checked.DataType, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = a.resolveType(p.Type, scopeID, generics)
		}
		ret := a.resolveType(fn.Return, scopeID, generics)
		if a.Operators.Add(&checked.OperatorSignature{Name: fn.Name, Params: params, Return: ret}) == checked.AddAlreadyExists {
			a.Errors.Add(fn.Loc(), "operator %q with this signature is already registered", fn.Name)
		}
	}
}

func isOperatorName(name string) bool {
	switch name {
	case "+", "-", "*", "/", "%", "**", "==", "!=", "<", "<=", ">", ">=",
		"&&", "||", "&", "|", "^", "<<", ">>":
		return true
	default:
		return false
	}
}
