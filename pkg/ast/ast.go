// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package ast defines the heterogeneous, tagged-union-shaped tree the
// parser produces: one sum-typed interface per node family (Expr, Stmt,
// Decl, Pattern, DataType), each variant a concrete struct satisfying
// Kind()/Loc(). This mirrors the source's tagged-union node categories
// without needing one Go type per concrete C variant.
package ast

import "github.com/lily-lang/lily/pkg/token"

// NodeKind tags the concrete shape of a node within its family.
type NodeKind int

const (
	// Expr kinds.
	ExprLiteral NodeKind = iota
	ExprIdent
	ExprCallFun
	ExprCallSys
	ExprCallBuiltin
	ExprCallRecord
	ExprCallVariant
	ExprCallLen
	ExprCallMethod
	ExprBinary
	ExprUnary
	ExprAccess
	ExprCast
	ExprLambda
	ExprTuple
	ExprArray
	ExprFieldAccess

	// Stmt kinds.
	StmtBlock
	StmtIf
	StmtMatch
	StmtSwitch
	StmtFor
	StmtWhile
	StmtReturn
	StmtRaise
	StmtTryCatch
	StmtUnsafe
	StmtAwait
	StmtAsm
	StmtBreak
	StmtNext
	StmtDrop
	StmtDefer
	StmtVarDecl
	StmtExpr

	// Decl kinds.
	DeclFun
	DeclObject
	DeclRecord
	DeclEnum
	DeclAlias
	DeclError
	DeclConstant
	DeclModule
	DeclImport
	DeclClass
	DeclTrait

	// Pattern kinds.
	PatternLiteral
	PatternName
	PatternWildcard
	PatternArray
	PatternList
	PatternTuple
	PatternRecord
	PatternVariant
	PatternRange
	PatternAs
	PatternError

	// DataType kinds.
	TypePrimitive
	TypeArray
	TypeLambda
	TypeList
	TypeQualifier
	TypeOptional
	TypeCustom
	TypeResult
	TypeTuple
)

// Expr is any expression node.
type Expr interface {
	ExprKind() NodeKind
	Loc() token.Location
}

// Stmt is any statement node.
type Stmt interface {
	StmtKind() NodeKind
	Loc() token.Location
}

// Decl is any top-level declaration node.
type Decl interface {
	DeclKind() NodeKind
	Loc() token.Location
	DeclName() string
}

// Pattern is any match/destructuring pattern node.
type Pattern interface {
	PatternKind() NodeKind
	Loc() token.Location
}

// DataType is any parsed (unresolved) type annotation node.
type DataType interface {
	TypeKind() NodeKind
	Loc() token.Location
}
