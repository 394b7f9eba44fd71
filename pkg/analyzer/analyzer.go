// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

// Package analyzer performs semantic analysis over a package's parsed
// declarations (§4.5): declaration registration into a scope graph,
// function/type signature seeding, data-type resolution, bidirectional
// body checking with operator overload resolution, match-to-switch
// lowering, and exception-raise propagation. It is the sole producer
// of the checked data the MIR generator consumes.
package analyzer

import (
	"fmt"

	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/checked"
	"github.com/lily-lang/lily/pkg/token"
)

// Analyzer holds the mutable state of one package's analysis run. A
// fresh Analyzer is created per package; the OperatorRegister it is
// handed is seeded from the program-wide defaults before Run is
// called (§5: "program resources ... created once by the root
// package and treated as read-only shared data").
type Analyzer struct {
	PackagePath string
	Arena       *checked.ScopeArena
	Operators   *checked.OperatorRegister
	TypeVars    *checked.TypeVarTable
	Errors      ErrorList
	Warnings    WarningList

	signatures map[string]*checked.SignatureList
	records    map[string]*CheckedRecord
	enums      map[string]*CheckedEnum
	aliases    map[string]checked.DataType
	errorDecls map[string]*CheckedError
	constants  map[string]checked.DataType
	functions  map[string]*CheckedFun
	exprTypes  map[ast.Expr]checked.DataType
	switches   map[*ast.MatchStmt]*ast.SwitchStmt

	// declScope remembers the generic-binding scope created for one
	// declaration (§4.5.1: "Generic parameter lists are attached as
	// scope entries within the declaration"), so body checking and type
	// resolution both search through the same generics.
	declScope map[ast.Decl]checked.ScopeID

	// raisedBy is the forward-computed per-function raised-error-name
	// set, built before body checking so call sites can see a callee's
	// raises regardless of declaration order (§4.5.7).
	raisedBy map[string]map[string]bool

	// varDecls records every `val`/`mut` binding's declaration site
	// (scope + name) so checkBodies can report the ones never read
	// once the whole package has been checked; varUsed marks which of
	// those sites a later identifier reference actually resolved to.
	varDecls []varDeclSite
	varUsed  map[string]bool
}

// varDeclSite is one local-variable declaration's scope-qualified
// identity, keyed the same way lookupIdentType's scope search resolves
// a later reference to it (§7: "unused variable").
type varDeclSite struct {
	scope checked.ScopeID
	name  string
	loc   token.Location
}

// varKey derives the lookup key a later identifier reference's
// Arena.Search result resolves to, so usage tracking lines up exactly
// with the scope a binding was actually declared in even when an
// inner declaration shadows an outer one of the same name.
func varKey(scope checked.ScopeID, name string) string {
	return fmt.Sprintf("%d:%s", scope, name)
}

// Run analyzes decls as one package, seeding its operator register
// from operators (already populated with the program-wide defaults by
// the caller). packagePath qualifies every global name this package
// declares.
func Run(decls []ast.Decl, operators *checked.OperatorRegister, packagePath string) (*Result, ErrorList) {
	a := &Analyzer{
		PackagePath: packagePath,
		Arena:       checked.NewScopeArena(),
		Operators:   operators,
		TypeVars:    checked.NewTypeVarTable(),
		signatures:  make(map[string]*checked.SignatureList),
		records:     make(map[string]*CheckedRecord),
		enums:       make(map[string]*CheckedEnum),
		aliases:     make(map[string]checked.DataType),
		errorDecls:  make(map[string]*CheckedError),
		constants:   make(map[string]checked.DataType),
		functions:   make(map[string]*CheckedFun),
		exprTypes:   make(map[ast.Expr]checked.DataType),
		switches:    make(map[*ast.MatchStmt]*ast.SwitchStmt),
		declScope:   make(map[ast.Decl]checked.ScopeID),
		raisedBy:    make(map[string]map[string]bool),
		varUsed:     make(map[string]bool),
	}

	flat := flattenModules(decls)

	a.registerDeclarations(flat)
	a.bindGenerics(flat)
	a.seedSignatures(flat)
	a.resolveDeclaredTypes(flat)
	a.registerUserOperators(flat)
	a.collectRaises(flat)
	a.checkBodies(flat)
	a.reportUnusedVariables()

	return &Result{
		Arena:      a.Arena,
		Operators:  a.Operators,
		Signatures: a.signatures,
		Records:    a.records,
		Enums:      a.enums,
		Aliases:    a.aliases,
		Errors:     a.errorDecls,
		Constants:  a.constants,
		Functions:  a.functions,
		ExprTypes:  a.exprTypes,
		Switches:   a.switches,
		Warnings:   a.Warnings.Sorted(),
	}, a.Errors
}

// reportUnusedVariables is the tail of §7's warning pass: once every
// function body has been checked (so every identifier reference has
// had a chance to mark its binding used), any `val`/`mut` declaration
// nobody read becomes a warning rather than an error.
func (a *Analyzer) reportUnusedVariables() {
	for _, d := range a.varDecls {
		if !a.varUsed[varKey(d.scope, d.name)] {
			a.Warnings.Add(d.loc, "declared and not used: %q", d.name)
		}
	}
}

// flattenModules walks ModuleDecl nesting and returns every
// non-module declaration in encounter order, keeping module nesting
// out of the scope-registration pass: a ModuleDecl's children are
// registered into the same root scope qualified by nothing extra,
// matching the preparser/parser's own flattening of module bodies
// into top-level items.
func flattenModules(decls []ast.Decl) []ast.Decl {
	var out []ast.Decl
	for _, d := range decls {
		if m, ok := d.(*ast.ModuleDecl); ok {
			out = append(out, flattenModules(m.Decls)...)
			continue
		}
		out = append(out, d)
	}
	return out
}

// registerDeclarations is pass 4.5.1: every declaration gets a
// checked shell in the root scope; same-name-same-kind conflicts are
// reported.
func (a *Analyzer) registerDeclarations(decls []ast.Decl) {
	conflicts := checked.DeclareTopLevel(a.Arena.Root(), decls)
	for _, d := range conflicts {
		a.Errors.Add(d.Loc(), "%q is already declared in this scope", d.DeclName())
	}
}

// bindGenerics gives every generic-parameterized declaration its own
// child scope with each generic name declared as EntryGeneric
// (§4.5.1).
func (a *Analyzer) bindGenerics(decls []ast.Decl) {
	for _, d := range decls {
		generics := genericsOf(d)
		if len(generics) == 0 {
			a.declScope[d] = a.Arena.Root().ID
			continue
		}
		scope := a.Arena.New(a.Arena.Root().ID)
		scope.Owner = d
		for _, g := range generics {
			scope.Declare(checked.EntryGeneric, g, d)
		}
		a.declScope[d] = scope.ID
	}
}

func genericsOf(d ast.Decl) []string {
	switch v := d.(type) {
	case *ast.FunDecl:
		return v.Generics
	case *ast.RecordDecl:
		return v.Generics
	case *ast.EnumDecl:
		return v.Generics
	case *ast.AliasDecl:
		return v.Generics
	case *ast.ClassDecl:
		return v.Generics
	case *ast.TraitDecl:
		return v.Generics
	default:
		return nil
	}
}

// genericSet turns a declaration's generic name list into the lookup
// map resolveType expects.
func genericSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
