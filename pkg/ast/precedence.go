// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package ast

import "github.com/lily-lang/lily/pkg/token"

// BinaryOp enumerates the binary operator kinds the Pratt parser
// recognizes, each bound to a precedence in precedenceTable (§3: "30 to
// 100, left-associative except assignment and exponentiation").
type BinaryOp int

const (
	OpAssign BinaryOp = iota
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpRemAssign
	OpAndAssign
	OpOrAssign
	OpXorAssign
	OpShlAssign
	OpShrAssign
	OpOr
	OpAnd
	OpBitOr
	OpBitXor
	OpBitAnd
	OpEq
	OpNotEq
	OpLt
	OpLe
	OpGt
	OpGe
	OpShl
	OpShr
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpRange
	OpPow
)

// precedenceTable assigns each binary operator its binding power.
// Assignment forms bind loosest (and are right-associative); exponent
// binds tightest among binary operators (and is right-associative).
var precedenceTable = map[BinaryOp]int{
	OpAssign: 30, OpAddAssign: 30, OpSubAssign: 30, OpMulAssign: 30,
	OpDivAssign: 30, OpRemAssign: 30, OpAndAssign: 30, OpOrAssign: 30,
	OpXorAssign: 30, OpShlAssign: 30, OpShrAssign: 30,
	OpOr: 40, OpAnd: 45,
	OpBitOr: 50, OpBitXor: 52, OpBitAnd: 55,
	OpEq: 60, OpNotEq: 60, OpLt: 60, OpLe: 60, OpGt: 60, OpGe: 60,
	OpRange: 65,
	OpShl: 70, OpShr: 70,
	OpAdd: 80, OpSub: 80,
	OpMul: 90, OpDiv: 90, OpRem: 90,
	OpPow: 100,
}

// rightAssoc holds the operators that associate right-to-left; every
// other binary operator in the table is left-associative.
var rightAssoc = map[BinaryOp]bool{
	OpAssign: true, OpAddAssign: true, OpSubAssign: true, OpMulAssign: true,
	OpDivAssign: true, OpRemAssign: true, OpAndAssign: true, OpOrAssign: true,
	OpXorAssign: true, OpShlAssign: true, OpShrAssign: true,
	OpPow: true,
}

// Precedence returns op's binding power.
func Precedence(op BinaryOp) int { return precedenceTable[op] }

// IsRightAssociative reports whether op associates right-to-left.
func IsRightAssociative(op BinaryOp) bool { return rightAssoc[op] }

// UnaryOp enumerates the prefix unary operators, which bind tighter
// than any binary operator (§4.4).
type UnaryOp int

const (
	UnaryNot UnaryOp = iota
	UnaryNeg
	UnaryRef
	UnaryDeref
	UnaryMakeRef // `ref` keyword
)

// BinaryExpr is `lhs <op> rhs`.
type BinaryExpr struct {
	Op       BinaryOp
	Left     Expr
	Right    Expr
	Location token.Location
}

func (e *BinaryExpr) ExprKind() NodeKind  { return ExprBinary }
func (e *BinaryExpr) Loc() token.Location { return e.Location }

// UnaryExpr is a prefix-operator application.
type UnaryExpr struct {
	Op       UnaryOp
	Operand  Expr
	Location token.Location
}

func (e *UnaryExpr) ExprKind() NodeKind  { return ExprUnary }
func (e *UnaryExpr) Loc() token.Location { return e.Location }
