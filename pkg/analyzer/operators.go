// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/checked"
)

// numericPrimitives lists every integer and float primitive the
// default operator set is instantiated over.
var numericPrimitives = []ast.Primitive{
	ast.PrimInt8, ast.PrimInt16, ast.PrimInt32, ast.PrimInt64, ast.PrimIsize,
	ast.PrimUint8, ast.PrimUint16, ast.PrimUint32, ast.PrimUint64, ast.PrimUsize,
	ast.PrimFloat32, ast.PrimFloat64,
}

// opSymbol renders a BinaryOp to the spelling the operator register
// keys signatures by, e.g. for a user-defined operator function named
// "+" to be found by the same lookup a literal `a + b` uses.
func opSymbol(op ast.BinaryOp) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpRem:
		return "%"
	case ast.OpPow:
		return "**"
	case ast.OpEq:
		return "=="
	case ast.OpNotEq:
		return "!="
	case ast.OpLt:
		return "<"
	case ast.OpLe:
		return "<="
	case ast.OpGt:
		return ">"
	case ast.OpGe:
		return ">="
	case ast.OpAnd:
		return "&&"
	case ast.OpOr:
		return "||"
	case ast.OpBitAnd:
		return "&"
	case ast.OpBitOr:
		return "|"
	case ast.OpBitXor:
		return "^"
	case ast.OpShl:
		return "<<"
	case ast.OpShr:
		return ">>"
	default:
		return "?"
	}
}

// DefaultOperators builds the program-wide operator signature set the
// root package seeds every worker's OperatorRegister from (§4.5.5,
// §6's "Program resources ABI": "the array of default operator
// definitions"). One (T, T) -> T signature per numeric primitive for
// the arithmetic operators, one (T, T) -> bool per numeric primitive
// for comparisons, plus bool's logical operators and Str's `+`
// concatenation.
func DefaultOperators() []*checked.OperatorSignature {
	var defaults []*checked.OperatorSignature
	arith := []ast.BinaryOp{ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpRem}
	compare := []ast.BinaryOp{ast.OpEq, ast.OpNotEq, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe}

	for _, p := range numericPrimitives {
		ty := &checked.Primitive{Kind: p}
		for _, op := range arith {
			defaults = append(defaults, &checked.OperatorSignature{
				Name: opSymbol(op), Params: []checked.DataType{ty, ty}, Return: ty,
			})
		}
		for _, op := range compare {
			defaults = append(defaults, &checked.OperatorSignature{
				Name: opSymbol(op), Params: []checked.DataType{ty, ty}, Return: &checked.Primitive{Kind: ast.PrimBool},
			})
		}
	}

	boolTy := &checked.Primitive{Kind: ast.PrimBool}
	for _, op := range []ast.BinaryOp{ast.OpAnd, ast.OpOr, ast.OpEq, ast.OpNotEq} {
		defaults = append(defaults, &checked.OperatorSignature{
			Name: opSymbol(op), Params: []checked.DataType{boolTy, boolTy}, Return: boolTy,
		})
	}

	strTy := &checked.Primitive{Kind: ast.PrimStr}
	defaults = append(defaults, &checked.OperatorSignature{
		Name: "+", Params: []checked.DataType{strTy, strTy}, Return: strTy,
	})
	defaults = append(defaults, &checked.OperatorSignature{
		Name: "==", Params: []checked.DataType{strTy, strTy}, Return: boolTy,
	})

	return defaults
}
