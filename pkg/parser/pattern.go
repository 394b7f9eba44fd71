// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/token"
)

// parsePattern parses one §4.4 pattern production: literal, name,
// wildcard, array, list (head|rest), tuple, record, variant, range,
// `as` binding, or error (`exception(p)`).
func (p *Parser) parsePattern() ast.Pattern {
	start := p.cur()
	var pat ast.Pattern

	switch start.Kind {
	case token.LHook:
		pat = p.parseArrayOrListPattern()
	case token.LParen:
		pat = p.parseTuplePattern()
	case token.LBrace:
		pat = p.parseRecordPattern()
	case token.IdentifierNormal:
		pat = p.parseNamePattern()
	default:
		if isLiteralKind(start.Kind) {
			pat = p.parseLiteralOrRangePattern()
		} else {
			p.errorf("expected a pattern, got %s", start.Kind)
			p.advance()
			return &ast.WildcardPattern{Location: start.Loc}
		}
	}

	if p.cur().Kind == token.KeywordAs {
		p.advance()
		if name, ok := p.expect(token.IdentifierNormal); ok {
			return &ast.AsPattern{Inner: pat, Name: name.Text, Location: p.spanFrom(start)}
		}
	}
	return pat
}

func isLiteralKind(k token.Kind) bool {
	switch k {
	case token.LiteralInt2, token.LiteralInt8, token.LiteralInt10, token.LiteralInt16,
		token.LiteralFloat, token.LiteralString, token.LiteralChar,
		token.LiteralBitString, token.LiteralBitChar, token.KeywordTrue, token.KeywordFalse,
		token.KeywordNil, token.KeywordNone, token.Minus:
		return true
	}
	return k.IsSuffixedLiteral()
}

func (p *Parser) parseLiteralOrRangePattern() ast.Pattern {
	start := p.cur()
	lo := p.advance()
	if p.cur().Kind == token.DotDot {
		p.advance()
		hi := p.advance()
		return &ast.RangePattern{Low: lo, High: hi, Location: p.spanFrom(start)}
	}
	return &ast.LiteralPattern{Tok: lo, Location: lo.Loc}
}

func (p *Parser) parseNamePattern() ast.Pattern {
	start := p.advance()
	if start.Text == "_" {
		return &ast.WildcardPattern{Location: start.Loc}
	}
	if start.Text == "exception" && p.cur().Kind == token.LParen {
		p.advance()
		var payload ast.Pattern
		if p.cur().Kind != token.RParen {
			payload = p.parsePattern()
		}
		p.expect(token.RParen)
		return &ast.ErrorPattern{Error: "", Payload: payload, Location: p.spanFrom(start)}
	}
	// A capitalized name followed by '(' is a variant constructor
	// pattern; everything else is a plain binding.
	if p.cur().Kind == token.LParen {
		p.advance()
		var payload []ast.Pattern
		for p.cur().Kind != token.RParen && !p.atEOF() {
			payload = append(payload, p.parsePattern())
			if p.cur().Kind == token.Comma {
				p.advance()
			}
		}
		p.expect(token.RParen)
		return &ast.VariantPattern{Variant: start.Text, Payload: payload, Location: p.spanFrom(start)}
	}
	return &ast.NamePattern{Name: start.Text, Location: start.Loc}
}

func (p *Parser) parseArrayOrListPattern() ast.Pattern {
	start := p.advance() // '['
	var head []ast.Pattern
	for p.cur().Kind != token.RHook && p.cur().Kind != token.Bar && !p.atEOF() {
		head = append(head, p.parsePattern())
		if p.cur().Kind == token.Comma {
			p.advance()
		}
	}
	if p.cur().Kind == token.Bar {
		p.advance()
		rest := ""
		if p.cur().Kind == token.IdentifierNormal {
			rest = p.advance().Text
		}
		p.expect(token.RHook)
		return &ast.ListPattern{Head: head, Rest: rest, Location: p.spanFrom(start)}
	}
	p.expect(token.RHook)
	return &ast.ArrayPattern{Elems: head, Location: p.spanFrom(start)}
}

func (p *Parser) parseTuplePattern() ast.Pattern {
	start := p.advance() // '('
	var elems []ast.Pattern
	for p.cur().Kind != token.RParen && !p.atEOF() {
		elems = append(elems, p.parsePattern())
		if p.cur().Kind == token.Comma {
			p.advance()
		}
	}
	p.expect(token.RParen)
	return &ast.TuplePattern{Elems: elems, Location: p.spanFrom(start)}
}

func (p *Parser) parseRecordPattern() ast.Pattern {
	start := p.advance() // '{'
	var fields []ast.RecordFieldPattern
	for p.cur().Kind != token.RBrace && !p.atEOF() {
		name, ok := p.expect(token.IdentifierNormal)
		if !ok {
			p.advance()
			continue
		}
		p.expect(token.Eq)
		fields = append(fields, ast.RecordFieldPattern{Field: name.Text, Pattern: p.parsePattern()})
		if p.cur().Kind == token.Comma {
			p.advance()
		}
	}
	p.expect(token.RBrace)
	return &ast.RecordPattern{Fields: fields, Location: p.spanFrom(start)}
}
