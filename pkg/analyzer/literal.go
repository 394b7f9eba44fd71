// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/checked"
	"github.com/lily-lang/lily/pkg/token"
)

// literalType resolves a LiteralExpr's token to a concrete data type
// (§4.5.4): the suffix wins when present; otherwise an integer (for an
// integer literal) or float (for a float literal) expected type from
// context is taken as is, without checking the literal's value against
// that type's range; otherwise the default-priority rule applies
// (int -> i32, float -> f64). expected may be nil.
func (a *Analyzer) literalType(tok token.Token, expected checked.DataType) checked.DataType {
	switch tok.Kind {
	case token.LiteralSuffixInt8:
		return &checked.Primitive{Kind: ast.PrimInt8}
	case token.LiteralSuffixInt16:
		return &checked.Primitive{Kind: ast.PrimInt16}
	case token.LiteralSuffixInt32:
		return &checked.Primitive{Kind: ast.PrimInt32}
	case token.LiteralSuffixInt64:
		return &checked.Primitive{Kind: ast.PrimInt64}
	case token.LiteralSuffixIsize:
		return &checked.Primitive{Kind: ast.PrimIsize}
	case token.LiteralSuffixUint8:
		return &checked.Primitive{Kind: ast.PrimUint8}
	case token.LiteralSuffixUint16:
		return &checked.Primitive{Kind: ast.PrimUint16}
	case token.LiteralSuffixUint32:
		return &checked.Primitive{Kind: ast.PrimUint32}
	case token.LiteralSuffixUint64:
		return &checked.Primitive{Kind: ast.PrimUint64}
	case token.LiteralSuffixUsize:
		return &checked.Primitive{Kind: ast.PrimUsize}
	case token.LiteralSuffixFloat32:
		return &checked.Primitive{Kind: ast.PrimFloat32}
	case token.LiteralSuffixFloat64:
		return &checked.Primitive{Kind: ast.PrimFloat64}

	case token.LiteralInt2, token.LiteralInt8, token.LiteralInt10, token.LiteralInt16:
		if p, ok := expected.(*checked.Primitive); ok && checked.IsInteger(p.Kind) {
			return p
		}
		return &checked.Primitive{Kind: ast.PrimInt32}

	case token.LiteralFloat:
		if p, ok := expected.(*checked.Primitive); ok && checked.IsFloat(p.Kind) {
			return p
		}
		return &checked.Primitive{Kind: ast.PrimFloat64}

	case token.LiteralString:
		return &checked.Primitive{Kind: ast.PrimStr}
	case token.LiteralBitString:
		return &checked.Primitive{Kind: ast.PrimBytes}
	case token.LiteralChar:
		return &checked.Primitive{Kind: ast.PrimChar}
	case token.LiteralBitChar:
		return &checked.Primitive{Kind: ast.PrimUint8}
	case token.KeywordTrue, token.KeywordFalse:
		return &checked.Primitive{Kind: ast.PrimBool}
	case token.KeywordNil, token.KeywordNone:
		return &checked.Unknown{}
	default:
		return &checked.Unknown{}
	}
}
