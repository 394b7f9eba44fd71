// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package ast

import "github.com/lily-lang/lily/pkg/token"

// FunDecl is a top-level (or method) function declaration.
type FunDecl struct {
	Name       string
	Generics   []string
	Params     []Param
	Return     DataType // nil for unit
	CanRaise   bool
	Body       *BlockStmt
	Pub        bool
	Location   token.Location
}

func (d *FunDecl) DeclKind() NodeKind    { return DeclFun }
func (d *FunDecl) Loc() token.Location   { return d.Location }
func (d *FunDecl) DeclName() string      { return d.Name }

// RecordField is one field of a record/record-object declaration.
type RecordField struct {
	Name     string
	Type     DataType
	Location token.Location
}

// RecordDecl is `record Name[T, ...] = { field: T, ... }` or an object
// variant (IsObject) carrying methods.
type RecordDecl struct {
	Name     string
	Generics []string
	Fields   []RecordField
	IsObject bool
	Pub      bool
	Location token.Location
}

func (d *RecordDecl) DeclKind() NodeKind  { return DeclRecord }
func (d *RecordDecl) Loc() token.Location { return d.Location }
func (d *RecordDecl) DeclName() string    { return d.Name }

// EnumVariant is one constructor of an enum declaration.
type EnumVariant struct {
	Name     string
	Payload  []DataType // empty for a unit variant
	Location token.Location
}

// EnumDecl is `enum Name[T, ...] = Variant1 | Variant2(T) | ...`.
type EnumDecl struct {
	Name     string
	Generics []string
	Variants []EnumVariant
	IsObject bool
	Pub      bool
	Location token.Location
}

func (d *EnumDecl) DeclKind() NodeKind  { return DeclEnum }
func (d *EnumDecl) Loc() token.Location { return d.Location }
func (d *EnumDecl) DeclName() string    { return d.Name }

// AliasDecl is `type Name = T`.
type AliasDecl struct {
	Name     string
	Generics []string
	Target   DataType
	Pub      bool
	Location token.Location
}

func (d *AliasDecl) DeclKind() NodeKind  { return DeclAlias }
func (d *AliasDecl) Loc() token.Location { return d.Location }
func (d *AliasDecl) DeclName() string    { return d.Name }

// ErrorDecl is `error Name(payload...)`.
type ErrorDecl struct {
	Name     string
	Payload  []DataType
	Pub      bool
	Location token.Location
}

func (d *ErrorDecl) DeclKind() NodeKind  { return DeclError }
func (d *ErrorDecl) Loc() token.Location { return d.Location }
func (d *ErrorDecl) DeclName() string    { return d.Name }

// ConstantDecl is a top-level `val NAME: T = expr`.
type ConstantDecl struct {
	Name     string
	Type     DataType
	Value    Expr
	Pub      bool
	Location token.Location
}

func (d *ConstantDecl) DeclKind() NodeKind  { return DeclConstant }
func (d *ConstantDecl) Loc() token.Location { return d.Location }
func (d *ConstantDecl) DeclName() string    { return d.Name }

// ModuleDecl groups a set of declarations under a nested module name.
type ModuleDecl struct {
	Name     string
	Decls    []Decl
	Pub      bool
	Location token.Location
}

func (d *ModuleDecl) DeclKind() NodeKind  { return DeclModule }
func (d *ModuleDecl) Loc() token.Location { return d.Location }
func (d *ModuleDecl) DeclName() string    { return d.Name }

// ImportRoot names which of the reserved import roots (or a named
// library/file/url) an ImportDecl resolves against (§3 ImportDirective).
type ImportRoot int

const (
	ImportStd ImportRoot = iota
	ImportCore
	ImportSys
	ImportBuiltin
	ImportLibrary // @library(name)....
	ImportFile    // @file("...")
	ImportURL     // @url("...")
)

func (r ImportRoot) String() string {
	switch r {
	case ImportStd:
		return "std"
	case ImportCore:
		return "core"
	case ImportSys:
		return "sys"
	case ImportBuiltin:
		return "builtin"
	case ImportLibrary:
		return "library"
	case ImportFile:
		return "file"
	case ImportURL:
		return "url"
	default:
		return "unknown"
	}
}

// ImportDecl is a parsed import directive.
type ImportDecl struct {
	Root       ImportRoot
	LibName    string   // set when Root == ImportLibrary
	Literal    string   // set when Root == ImportFile or ImportURL
	Path       []string // dotted path segments after the root
	As         string   // rename, empty if none
	Members    []string // selective-import member names, empty = whole path
	Pub        bool
	Location   token.Location
}

func (d *ImportDecl) DeclKind() NodeKind  { return DeclImport }
func (d *ImportDecl) Loc() token.Location { return d.Location }
func (d *ImportDecl) DeclName() string {
	if d.As != "" {
		return d.As
	}
	if len(d.Path) > 0 {
		return d.Path[len(d.Path)-1]
	}
	return d.LibName
}

// ClassDecl is `class Name[T, ...] inherit Base = { ... }`.
type ClassDecl struct {
	Name     string
	Generics []string
	Inherits string // empty if none
	Fields   []RecordField
	Methods  []*FunDecl
	Pub      bool
	Location token.Location
}

func (d *ClassDecl) DeclKind() NodeKind  { return DeclClass }
func (d *ClassDecl) Loc() token.Location { return d.Location }
func (d *ClassDecl) DeclName() string    { return d.Name }

// TraitDecl is `trait Name = { fun sig... }`.
type TraitDecl struct {
	Name      string
	Generics  []string
	Sigs      []*FunDecl // bodies are nil (signatures only)
	Pub       bool
	Location  token.Location
}

func (d *TraitDecl) DeclKind() NodeKind  { return DeclTrait }
func (d *TraitDecl) Loc() token.Location { return d.Location }
func (d *TraitDecl) DeclName() string    { return d.Name }
