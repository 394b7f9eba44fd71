// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/token"
)

// parseBlockUntilEnd parses statements until a matching `end` (already
// consumed on return) or EOF. Callers that open the block themselves
// (e.g. a lambda's `fun (...) ... end`) call this directly after
// parsing the header.
func (p *Parser) parseBlockUntilEnd() *ast.BlockStmt {
	start := p.cur()
	var stmts []ast.Stmt
	for !p.atEOF() && p.cur().Kind != token.KeywordEnd {
		stmts = append(stmts, p.parseStmt())
	}
	if p.cur().Kind == token.KeywordEnd {
		p.advance()
	} else {
		p.errorf("unterminated block, expected 'end'")
	}
	return &ast.BlockStmt{Stmts: stmts, Location: p.spanFrom(start)}
}

// parseDoBlock parses `do ... end`.
func (p *Parser) parseDoBlock() *ast.BlockStmt {
	p.expect(token.KeywordDo)
	return p.parseBlockUntilEnd()
}

func (p *Parser) parseStmt() ast.Stmt {
	start := p.cur()
	switch start.Kind {
	case token.KeywordIf:
		return p.parseIfStmt()
	case token.KeywordMatch:
		return p.parseMatchStmt()
	case token.KeywordFor:
		return p.parseForStmt()
	case token.KeywordWhile:
		return p.parseWhileStmt()
	case token.KeywordReturn:
		return p.parseReturnStmt()
	case token.KeywordRaise:
		p.advance()
		val := p.parseExpr()
		p.skipSemicolon()
		return &ast.RaiseStmt{Value: val, Location: p.spanFrom(start)}
	case token.KeywordTry:
		return p.parseTryCatchStmt()
	case token.KeywordUnsafe:
		p.advance()
		body := p.parseDoBlock()
		return &ast.UnsafeStmt{Body: body, Location: p.spanFrom(start)}
	case token.KeywordAwait:
		p.advance()
		val := p.parseExpr()
		p.skipSemicolon()
		return &ast.AwaitStmt{Value: val, Location: p.spanFrom(start)}
	case token.KeywordAsm:
		return p.parseAsmStmt()
	case token.KeywordBreak:
		p.advance()
		p.skipSemicolon()
		return &ast.BreakStmt{Location: start.Loc}
	case token.KeywordNext:
		p.advance()
		p.skipSemicolon()
		return &ast.NextStmt{Location: start.Loc}
	case token.KeywordDrop:
		p.advance()
		name, _ := p.expect(token.IdentifierNormal)
		p.skipSemicolon()
		return &ast.DropStmt{Name: name.Text, Location: p.spanFrom(start)}
	case token.KeywordVal, token.KeywordMut:
		return p.parseVarDeclStmt()
	case token.KeywordBegin:
		p.advance()
		return p.parseBlockUntilEnd()
	case token.KeywordGlobal:
		p.advance()
		return p.parseVarDeclStmt()
	default:
		// `defer` has no reserved keyword of its own (§4.1's ~160 token
		// kinds do not include one); it is recognized by spelling the same
		// way `len`/`sys`/`builtin` are in expression position.
		if start.Kind == token.IdentifierNormal && start.Text == "defer" {
			p.advance()
			inner := p.parseStmt()
			return &ast.DeferStmt{Body: inner, Location: p.spanFrom(start)}
		}
		expr := p.parseExpr()
		p.skipSemicolon()
		return &ast.ExprStmt{X: expr, Location: p.spanFrom(start)}
	}
}

func (p *Parser) skipSemicolon() {
	if p.cur().Kind == token.Semicolon {
		p.advance()
	}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.advance() // 'if'
	var branches []ast.IfBranch
	cond := p.parseExpr()
	body := p.parseThenBlock()
	branches = append(branches, ast.IfBranch{Cond: cond, Body: body})

	for p.cur().Kind == token.KeywordElif {
		p.advance()
		c := p.parseExpr()
		b := p.parseThenBlock()
		branches = append(branches, ast.IfBranch{Cond: c, Body: b})
	}

	var elseBody *ast.BlockStmt
	if p.cur().Kind == token.KeywordElse {
		p.advance()
		elseBody = p.parseBlockUntilEnd()
	} else if p.cur().Kind == token.KeywordEnd {
		p.advance()
	}
	return &ast.IfStmt{Branches: branches, Else: elseBody, Location: p.spanFrom(start)}
}

// parseThenBlock parses the statements between a condition and the next
// `elif`/`else`/`end`, consuming an optional `then`/`do` keyword first.
func (p *Parser) parseThenBlock() *ast.BlockStmt {
	if p.cur().Kind == token.KeywordDo || (p.cur().Kind == token.IdentifierNormal && p.cur().Text == "then") {
		p.advance()
	}
	start := p.cur()
	var stmts []ast.Stmt
	for !p.atEOF() && p.cur().Kind != token.KeywordElif && p.cur().Kind != token.KeywordElse && p.cur().Kind != token.KeywordEnd {
		stmts = append(stmts, p.parseStmt())
	}
	return &ast.BlockStmt{Stmts: stmts, Location: p.spanFrom(start)}
}

func (p *Parser) parseMatchStmt() ast.Stmt {
	start := p.advance() // 'match'
	subject := p.parseExpr()
	if p.cur().Kind == token.KeywordDo {
		p.advance()
	}
	var cases []ast.MatchCase
	for !p.atEOF() && p.cur().Kind != token.KeywordEnd {
		pat := p.parsePattern()
		var guard ast.Expr
		if p.cur().Kind == token.KeywordWhen {
			p.advance()
			guard = p.parseExpr()
		}
		p.expect(token.FatArrow)
		bodyStart := p.cur()
		var stmts []ast.Stmt
		for !p.atEOF() && !isCaseBoundary(p.cur().Kind) {
			stmts = append(stmts, p.parseStmt())
		}
		body := &ast.BlockStmt{Stmts: stmts, Location: p.spanFrom(bodyStart)}
		cases = append(cases, ast.MatchCase{Pattern: pat, Guard: guard, Body: body})
		if p.cur().Kind == token.Bar {
			p.advance()
		}
	}
	if p.cur().Kind == token.KeywordEnd {
		p.advance()
	}
	return &ast.MatchStmt{Subject: subject, Cases: cases, Location: p.spanFrom(start)}
}

func isCaseBoundary(k token.Kind) bool { return k == token.Bar || k == token.KeywordEnd }

func (p *Parser) parseForStmt() ast.Stmt {
	start := p.advance() // 'for'
	name, _ := p.expect(token.IdentifierNormal)
	p.expect(token.KeywordIn)
	iter := p.parseExpr()
	body := p.parseDoBlock()
	return &ast.ForStmt{Binding: name.Text, Iterable: iter, Body: body, Location: p.spanFrom(start)}
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.advance() // 'while'
	cond := p.parseExpr()
	body := p.parseDoBlock()
	return &ast.WhileStmt{Cond: cond, Body: body, Location: p.spanFrom(start)}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.advance() // 'return'
	var val ast.Expr
	if p.cur().Kind != token.Semicolon && p.cur().Kind != token.KeywordEnd && !p.atEOF() {
		val = p.parseExpr()
	}
	p.skipSemicolon()
	return &ast.ReturnStmt{Value: val, Location: p.spanFrom(start)}
}

func (p *Parser) parseTryCatchStmt() ast.Stmt {
	start := p.advance() // 'try'
	body := p.parseCatchOrEndBlock()
	var catchName string
	var catchBody *ast.BlockStmt
	if p.cur().Kind == token.KeywordCatch {
		p.advance()
		if p.cur().Kind == token.IdentifierNormal {
			catchName = p.advance().Text
		}
		if p.cur().Kind == token.KeywordDo {
			p.advance()
		}
		catchBody = p.parseBlockUntilEnd()
	} else if p.cur().Kind == token.KeywordEnd {
		p.advance()
	}
	return &ast.TryCatchStmt{Body: body, CatchName: catchName, CatchBody: catchBody, Location: p.spanFrom(start)}
}

// parseCatchOrEndBlock parses the `try` body, which is delimited by
// `catch` instead of `end` when a catch clause follows.
func (p *Parser) parseCatchOrEndBlock() *ast.BlockStmt {
	start := p.cur()
	var stmts []ast.Stmt
	for !p.atEOF() && p.cur().Kind != token.KeywordCatch && p.cur().Kind != token.KeywordEnd {
		stmts = append(stmts, p.parseStmt())
	}
	return &ast.BlockStmt{Stmts: stmts, Location: p.spanFrom(start)}
}

func (p *Parser) parseAsmStmt() ast.Stmt {
	start := p.advance() // 'asm'
	var src string
	if p.cur().Kind == token.LiteralString {
		src = p.advance().Text
	}
	if p.cur().Kind == token.KeywordEnd {
		p.advance()
	}
	p.skipSemicolon()
	return &ast.AsmStmt{Source: src, Location: p.spanFrom(start)}
}

// parseVarDeclStmt parses `val`/`mut name[: T] = expr`.
func (p *Parser) parseVarDeclStmt() ast.Stmt {
	start := p.advance() // 'val' or 'mut'
	mutable := start.Kind == token.KeywordMut
	name, _ := p.expect(token.IdentifierNormal)
	var ty ast.DataType
	if p.cur().Kind == token.Colon {
		p.advance()
		ty = p.parseTypeWithResult()
	}
	var val ast.Expr
	if p.cur().Kind == token.Eq {
		p.advance()
		val = p.parseExpr()
	}
	p.skipSemicolon()
	return &ast.VarDeclStmt{Name: name.Text, Mutable: mutable, Type: ty, Value: val, Location: p.spanFrom(start)}
}
