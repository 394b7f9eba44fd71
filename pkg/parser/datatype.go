// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"strconv"

	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/token"
)

var primitiveNames = map[string]ast.Primitive{
	"Bool": ast.PrimBool, "Char": ast.PrimChar, "CStr": ast.PrimCStr,
	"Str": ast.PrimStr, "CVoid": ast.PrimCVoid, "Bytes": ast.PrimBytes,
	"Unit": ast.PrimUnit, "I8": ast.PrimInt8, "I16": ast.PrimInt16,
	"I32": ast.PrimInt32, "I64": ast.PrimInt64, "Isize": ast.PrimIsize,
	"U8": ast.PrimUint8, "U16": ast.PrimUint16, "U32": ast.PrimUint32,
	"U64": ast.PrimUint64, "Usize": ast.PrimUsize, "F32": ast.PrimFloat32,
	"F64": ast.PrimFloat64, "Any": ast.PrimAny,
}

// parseType parses one §4.4 data-type production.
func (p *Parser) parseType() ast.DataType {
	start := p.cur()

	switch start.Kind {
	case token.LHook: // [T], [T]N, [*]T, [_]T
		return p.parseArrayType()

	case token.Interrogation: // ?T
		p.advance()
		inner := p.parseType()
		return &ast.OptionalType{Inner: inner, Location: p.spanFrom(start)}

	case token.Ampersand, token.KeywordMut, token.KeywordRef, token.KeywordTrace, token.Star:
		return p.parseQualifierType()

	case token.LParen:
		return p.parseParenType()

	case token.IdentifierNormal:
		return p.parseNameOrCustomType()

	default:
		p.errorf("expected a data type, got %s", start.Kind)
		p.advance()
		return &ast.PrimitiveType{Kind: ast.PrimAny, Location: start.Loc}
	}
}

// parseTypeWithResult wraps parseType with the trailing `! E1 | E2 ...`
// result-error-union suffix, used wherever a return type may raise.
func (p *Parser) parseTypeWithResult() ast.DataType {
	start := p.cur()
	ok := p.parseType()
	if p.cur().Kind != token.Bang {
		return ok
	}
	p.advance()
	var errs []ast.DataType
	errs = append(errs, p.parseType())
	for p.cur().Kind == token.Bar {
		p.advance()
		errs = append(errs, p.parseType())
	}
	return &ast.ResultType{Ok: ok, Errors: errs, Location: p.spanFrom(start)}
}

func (p *Parser) parseArrayType() ast.DataType {
	start := p.advance() // '['
	switch p.cur().Kind {
	case token.Star: // [*]T
		p.advance()
		p.expect(token.RHook)
		elem := p.parseType()
		return &ast.ArrayType{Shape: ast.ArrayMultiPointer, Elem: elem, Location: p.spanFrom(start)}
	case token.IdentifierNormal:
		if p.cur().Text == "_" {
			p.advance()
			p.expect(token.RHook)
			elem := p.parseType()
			return &ast.ArrayType{Shape: ast.ArrayUndetermined, Elem: elem, Location: p.spanFrom(start)}
		}
	}
	elem := p.parseType()
	p.expect(token.RHook)
	if p.cur().Kind == token.LiteralInt10 {
		n, _ := strconv.Atoi(p.advance().Text)
		return &ast.ArrayType{Shape: ast.ArraySized, Elem: elem, Size: n, Location: p.spanFrom(start)}
	}
	return &ast.ArrayType{Shape: ast.ArrayDynamic, Elem: elem, Location: p.spanFrom(start)}
}

func (p *Parser) parseQualifierType() ast.DataType {
	start := p.cur()
	var q ast.Qualifier
	switch start.Kind {
	case token.Ampersand, token.Star:
		q = ast.QualPtr
	case token.KeywordMut:
		q = ast.QualMut
	case token.KeywordRef:
		q = ast.QualRef
	case token.KeywordTrace:
		q = ast.QualTrace
	}
	p.advance()
	inner := p.parseType()
	return &ast.QualifierType{Qualifier: q, Inner: inner, Location: p.spanFrom(start)}
}

func (p *Parser) parseParenType() ast.DataType {
	start := p.advance() // '('
	if p.cur().Kind == token.RParen {
		p.advance()
		return &ast.PrimitiveType{Kind: ast.PrimUnit, Location: p.spanFrom(start)}
	}

	// Could be a tuple type or a lambda parameter list; a lambda type is
	// disambiguated by a following '->'.
	var elems []ast.DataType
	elems = append(elems, p.parseType())
	for p.cur().Kind == token.Comma {
		p.advance()
		if p.cur().Kind == token.RParen {
			break
		}
		elems = append(elems, p.parseType())
	}
	p.expect(token.RParen)

	if p.cur().Kind == token.Arrow {
		p.advance()
		ret := p.parseType()
		return &ast.LambdaType{Params: elems, Return: ret, Location: p.spanFrom(start)}
	}
	if len(elems) == 1 {
		return elems[0]
	}
	return &ast.TupleType{Elems: elems, Location: p.spanFrom(start)}
}

func (p *Parser) parseNameOrCustomType() ast.DataType {
	start := p.advance()
	if prim, ok := primitiveNames[start.Text]; ok && p.cur().Kind != token.LHook {
		return &ast.PrimitiveType{Kind: prim, Location: start.Loc}
	}
	if start.Text == "List" && p.cur().Kind == token.LHook {
		p.advance()
		elem := p.parseType()
		p.expect(token.RHook)
		return &ast.ListType{Elem: elem, Location: p.spanFrom(start)}
	}

	ct := &ast.CustomType{Name: start.Text}
	if p.cur().Kind == token.LHook {
		p.advance()
		ct.Generics = append(ct.Generics, p.parseType())
		for p.cur().Kind == token.Comma {
			p.advance()
			if p.cur().Kind == token.RHook {
				break
			}
			ct.Generics = append(ct.Generics, p.parseType())
		}
		p.expect(token.RHook)
	}
	ct.Location = p.spanFrom(start)
	return ct
}
