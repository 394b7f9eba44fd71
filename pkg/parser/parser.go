// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

// Package parser is a recursive-descent, Pratt-style expression parser
// over a preparsed token span, producing one ast.Decl per top-level
// item (§4.4). Errors are recoverable: on an unexpected token the
// parser records an error and continues from the current token. No
// tokens are skipped to a sync point; sync exists, but no parse path
// calls it.
package parser

import (
	"fmt"

	"github.com/lily-lang/lily/internal/pipemetrics"
	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/preparser"
	"github.com/lily-lang/lily/pkg/token"
)

// Parser holds the mutable cursor state of a single top-level item's
// parse. A fresh Parser is created per item so a malformed item never
// corrupts the cursor state of its siblings.
type Parser struct {
	toks   []token.Token
	pos    int
	Errors ErrorList
}

// syncTokens are the tokens sync stops at. No parse path calls sync,
// so a failed parse does not discard tokens.
var syncTokens = map[token.Kind]bool{
	token.Semicolon: true, token.RBrace: true, token.KeywordEnd: true,
	token.KeywordFun: true, token.KeywordRecord: true, token.KeywordEnum: true,
	token.KeywordType: true, token.KeywordError: true, token.KeywordVal: true,
	token.KeywordModule: true, token.KeywordClass: true, token.KeywordTrait: true,
	token.KeywordObject: true, token.KeywordImport: true,
}

func newParser(toks []token.Token) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		toks = append(append([]token.Token{}, toks...), token.Token{Kind: token.EOF})
	}
	return &Parser{toks: toks}
}

// Run parses every ItemBody in info into an ast.Decl, and carries
// info.Imports through unchanged (the preparser already built them
// structurally; §4.4 only re-parses expression-bearing bodies).
func Run(info *preparser.PreparsedInfo) ([]ast.Decl, ErrorList) {
	var decls []ast.Decl
	var errs ErrorList

	for _, imp := range info.Imports {
		decls = append(decls, imp)
	}

	for _, item := range info.Items {
		if item.Kind != preparser.ItemBody {
			continue
		}
		p := newParser(item.Tokens)
		d := p.parseTopDecl(item.Pub)
		errs = append(errs, p.Errors...)
		if d != nil {
			decls = append(decls, d)
			pipemetrics.AddNodesParsed(1)
		}
	}
	pipemetrics.AddSyntaxErrors(len(errs))
	return decls, errs
}

func (p *Parser) cur() token.Token { return p.toks[p.pos] }

func (p *Parser) peek(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) atEOF() bool { return p.cur().Kind == token.EOF }

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// expect consumes the current token if it has kind k, else records an
// error and leaves the cursor in place (no tokens are skipped).
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.cur().Kind == k {
		return p.advance(), true
	}
	p.errorf("expected %s, got %s", k, p.cur().Kind)
	return p.cur(), false
}

func (p *Parser) errorf(format string, args ...any) {
	p.Errors.Add(p.cur().Loc, fmt.Sprintf(format, args...))
}

// sync discards tokens until the current one is a sync token or EOF.
func (p *Parser) sync() {
	for !p.atEOF() && !syncTokens[p.cur().Kind] {
		p.advance()
	}
}

func span(start, end token.Token) token.Location { return token.Join(start.Loc, end.Loc) }

func (p *Parser) spanFrom(start token.Token) token.Location {
	if p.pos == 0 {
		return start.Loc
	}
	return token.Join(start.Loc, p.toks[p.pos-1].Loc)
}
