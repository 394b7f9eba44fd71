// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/checked"
)

// CheckedRecord is a fully type-resolved record/record-object
// declaration.
type CheckedRecord struct {
	Decl   *ast.RecordDecl
	Fields map[string]checked.DataType
}

// CheckedEnum is a fully type-resolved enum/enum-object declaration.
type CheckedEnum struct {
	Decl     *ast.EnumDecl
	Variants map[string][]checked.DataType
}

// CheckedError is a fully type-resolved error declaration.
type CheckedError struct {
	Decl    *ast.ErrorDecl
	Payload []checked.DataType
}

// CheckedFun is a fully checked function: its resolved parameter and
// return types and the set of error names its body may raise. The
// switch lowerings of its match statements are kept on Result.Switches.
type CheckedFun struct {
	Decl       *ast.FunDecl
	GlobalName string
	Params     []checked.DataType
	Return     checked.DataType
	Raises     map[string]bool
}

// Result is everything one package's analysis run produced: the scope
// graph, every resolved declaration, the per-expression inferred type
// table, and the match -> switch lowerings, ready for MIR generation
// (§4.6's "walks the checked tree").
type Result struct {
	Arena      *checked.ScopeArena
	Operators  *checked.OperatorRegister
	Signatures map[string]*checked.SignatureList

	Records   map[string]*CheckedRecord
	Enums     map[string]*CheckedEnum
	Aliases   map[string]checked.DataType
	Errors    map[string]*CheckedError
	Constants map[string]checked.DataType
	Functions map[string]*CheckedFun

	// ExprTypes is keyed by AST expression node identity (a DataType per
	// node that survived body checking); MIR lowering reads it to pick
	// the right lowering rule per §4.6's data-type mapping.
	ExprTypes map[ast.Expr]checked.DataType

	// Switches is the match -> switch lowering output (§4.5.6); nil
	// entries mean the analyzer kept the original match form.
	Switches map[*ast.MatchStmt]*ast.SwitchStmt

	// Warnings holds the non-blocking diagnostics this package's
	// analysis produced (§7): unreachable match cases, unused
	// variables, shadowed bindings. A caller never needs to treat a
	// nonempty Warnings as a build failure.
	Warnings WarningList
}
