// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analyzer

import "github.com/lily-lang/lily/pkg/ast"

// collectRaises is a forward scan building each function's raised
// error-name set before body checking begins (§4.5.7), so a call site
// sees a callee's raises regardless of declaration order within the
// package.
func (a *Analyzer) collectRaises(decls []ast.Decl) {
	for _, d := range decls {
		fn, ok := d.(*ast.FunDecl)
		if !ok || fn.Body == nil {
			continue
		}
		set := make(map[string]bool)
		collectRaisesInBlock(fn.Body, set)
		a.raisedBy[a.qualify(fn.Name)] = set
	}
}

func collectRaisesInBlock(b *ast.BlockStmt, set map[string]bool) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		collectRaisesInStmt(s, set)
	}
}

// collectRaisesInStmt recurses into every nested block-bearing
// statement but does not cross into a TryCatchStmt's catch body (a
// caught error no longer propagates) or a lambda literal (its raises
// are the lambda's own, not the enclosing function's).
func collectRaisesInStmt(s ast.Stmt, set map[string]bool) {
	switch v := s.(type) {
	case *ast.RaiseStmt:
		if name := errorNameOf(v.Value); name != "" {
			set[name] = true
		}
	case *ast.BlockStmt:
		collectRaisesInBlock(v, set)
	case *ast.IfStmt:
		for _, br := range v.Branches {
			collectRaisesInBlock(br.Body, set)
		}
		collectRaisesInBlock(v.Else, set)
	case *ast.WhileStmt:
		collectRaisesInBlock(v.Body, set)
	case *ast.ForStmt:
		collectRaisesInBlock(v.Body, set)
	case *ast.TryCatchStmt:
		collectRaisesInBlock(v.Body, set)
	case *ast.UnsafeStmt:
		collectRaisesInBlock(v.Body, set)
	case *ast.MatchStmt:
		for _, c := range v.Cases {
			collectRaisesInStmt(c.Body, set)
		}
	case *ast.DeferStmt:
		collectRaisesInStmt(v.Body, set)
	}
}

// errorNameOf extracts the declared error-type name a raised
// expression names: a variant/record-style construction call's callee,
// or a bare identifier naming a pre-built error value.
func errorNameOf(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.CallExpr:
		return v.Callee
	case *ast.IdentExpr:
		return v.Name
	default:
		return ""
	}
}
