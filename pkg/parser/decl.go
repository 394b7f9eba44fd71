// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/token"
)

// parseTopDecl dispatches on the item's leading keyword. pub was
// already stripped from the token span by the preparser.
func (p *Parser) parseTopDecl(pub bool) ast.Decl {
	if p.atEOF() {
		return nil
	}
	start := p.cur()
	var d ast.Decl
	switch start.Kind {
	case token.KeywordFun:
		d = p.parseFunDecl(pub)
	case token.KeywordRecord:
		d = p.parseRecordDecl(pub, false)
	case token.KeywordEnum:
		d = p.parseEnumDecl(pub, false)
	case token.KeywordObject:
		d = p.parseObjectDecl(pub)
	case token.KeywordType:
		d = p.parseAliasDecl(pub)
	case token.KeywordError:
		d = p.parseErrorDecl(pub)
	case token.KeywordVal:
		d = p.parseConstantDecl(pub)
	case token.KeywordModule:
		d = p.parseModuleDecl(pub)
	case token.KeywordClass:
		d = p.parseClassDecl(pub)
	case token.KeywordTrait:
		d = p.parseTraitDecl(pub)
	default:
		p.errorf("unexpected top-level token %s", start.Kind)
		return nil
	}
	if !p.atEOF() {
		p.errorf("unexpected trailing tokens after declaration: %s", p.cur().Kind)
	}
	return d
}

func (p *Parser) parseGenerics() []string {
	if p.cur().Kind != token.LHook {
		return nil
	}
	p.advance()
	var gens []string
	for p.cur().Kind != token.RHook && !p.atEOF() {
		if name, ok := p.expect(token.IdentifierNormal); ok {
			gens = append(gens, name.Text)
		}
		if p.cur().Kind == token.Comma {
			p.advance()
		}
	}
	p.expect(token.RHook)
	return gens
}

func (p *Parser) parseFunDecl(pub bool) *ast.FunDecl {
	start := p.advance() // 'fun'
	name, _ := p.expect(token.IdentifierNormal)
	generics := p.parseGenerics()
	params := p.parseParamList()

	canRaise := false
	var ret ast.DataType
	if p.cur().Kind == token.Arrow {
		p.advance()
		ret = p.parseTypeWithResult()
		if rt, ok := ret.(*ast.ResultType); ok {
			canRaise = len(rt.Errors) > 0
		}
	}

	var body *ast.BlockStmt
	if p.cur().Kind == token.Eq {
		p.advance()
		body = p.parseBlockUntilEnd()
	} else if p.cur().Kind == token.KeywordEnd {
		// signature-only declaration (trait method)
		p.advance()
	}

	return &ast.FunDecl{
		Name: name.Text, Generics: generics, Params: params, Return: ret,
		CanRaise: canRaise, Body: body, Pub: pub, Location: p.spanFrom(start),
	}
}

func (p *Parser) parseFieldList() []ast.RecordField {
	p.expect(token.LBrace)
	var fields []ast.RecordField
	for p.cur().Kind != token.RBrace && !p.atEOF() {
		name, ok := p.expect(token.IdentifierNormal)
		if !ok {
			p.advance()
			continue
		}
		p.expect(token.Colon)
		ty := p.parseType()
		fields = append(fields, ast.RecordField{Name: name.Text, Type: ty, Location: name.Loc})
		if p.cur().Kind == token.Comma {
			p.advance()
		}
	}
	p.expect(token.RBrace)
	return fields
}

func (p *Parser) parseRecordDecl(pub, isObject bool) *ast.RecordDecl {
	start := p.advance() // 'record'
	name, _ := p.expect(token.IdentifierNormal)
	generics := p.parseGenerics()
	p.expect(token.Eq)
	fields := p.parseFieldList()
	return &ast.RecordDecl{Name: name.Text, Generics: generics, Fields: fields, IsObject: isObject, Pub: pub, Location: p.spanFrom(start)}
}

func (p *Parser) parseEnumDecl(pub, isObject bool) *ast.EnumDecl {
	start := p.advance() // 'enum'
	name, _ := p.expect(token.IdentifierNormal)
	generics := p.parseGenerics()
	p.expect(token.Eq)
	var variants []ast.EnumVariant
	for {
		vname, ok := p.expect(token.IdentifierNormal)
		if !ok {
			break
		}
		v := ast.EnumVariant{Name: vname.Text, Location: vname.Loc}
		if p.cur().Kind == token.LParen {
			p.advance()
			for p.cur().Kind != token.RParen && !p.atEOF() {
				v.Payload = append(v.Payload, p.parseType())
				if p.cur().Kind == token.Comma {
					p.advance()
				}
			}
			p.expect(token.RParen)
		}
		variants = append(variants, v)
		if p.cur().Kind == token.Bar {
			p.advance()
			continue
		}
		break
	}
	return &ast.EnumDecl{Name: name.Text, Generics: generics, Variants: variants, IsObject: isObject, Pub: pub, Location: p.spanFrom(start)}
}

// parseObjectDecl parses `object record|enum Name ... = ...`, the
// object-carrying variant of a record/enum declaration (§3's
// record-object/enum-object checked kinds).
func (p *Parser) parseObjectDecl(pub bool) ast.Decl {
	p.advance() // 'object'
	switch p.cur().Kind {
	case token.KeywordRecord:
		return p.parseRecordDecl(pub, true)
	case token.KeywordEnum:
		return p.parseEnumDecl(pub, true)
	default:
		p.errorf("expected 'record' or 'enum' after 'object', got %s", p.cur().Kind)
		return nil
	}
}

func (p *Parser) parseAliasDecl(pub bool) *ast.AliasDecl {
	start := p.advance() // 'type'
	name, _ := p.expect(token.IdentifierNormal)
	generics := p.parseGenerics()
	p.expect(token.Eq)
	target := p.parseType()
	return &ast.AliasDecl{Name: name.Text, Generics: generics, Target: target, Pub: pub, Location: p.spanFrom(start)}
}

func (p *Parser) parseErrorDecl(pub bool) *ast.ErrorDecl {
	start := p.advance() // 'error'
	name, _ := p.expect(token.IdentifierNormal)
	var payload []ast.DataType
	if p.cur().Kind == token.LParen {
		p.advance()
		for p.cur().Kind != token.RParen && !p.atEOF() {
			payload = append(payload, p.parseType())
			if p.cur().Kind == token.Comma {
				p.advance()
			}
		}
		p.expect(token.RParen)
	}
	return &ast.ErrorDecl{Name: name.Text, Payload: payload, Pub: pub, Location: p.spanFrom(start)}
}

func (p *Parser) parseConstantDecl(pub bool) *ast.ConstantDecl {
	start := p.advance() // 'val'
	name, _ := p.expect(token.IdentifierNormal)
	var ty ast.DataType
	if p.cur().Kind == token.Colon {
		p.advance()
		ty = p.parseType()
	}
	p.expect(token.Eq)
	val := p.parseExpr()
	return &ast.ConstantDecl{Name: name.Text, Type: ty, Value: val, Pub: pub, Location: p.spanFrom(start)}
}

// parseModuleDecl parses `module Name = decl* end`, recursively
// dispatching its inner token span through the same top-level walk
// used for the package (nested bodies are not pre-split by the
// preparser into separate items).
func (p *Parser) parseModuleDecl(pub bool) *ast.ModuleDecl {
	start := p.advance() // 'module'
	name, _ := p.expect(token.IdentifierNormal)
	p.expect(token.Eq)

	inner := p.collectNestedDecls()
	return &ast.ModuleDecl{Name: name.Text, Decls: inner, Pub: pub, Location: p.spanFrom(start)}
}

// collectNestedDecls walks tokens up to (and consuming) the matching
// `end`, dispatching each recognized starter keyword to its own
// sub-parse, the same way the preparser's top-level walk does.
func (p *Parser) collectNestedDecls() []ast.Decl {
	var decls []ast.Decl
	innerPub := false
	for !p.atEOF() && p.cur().Kind != token.KeywordEnd {
		switch p.cur().Kind {
		case token.KeywordPub:
			innerPub = true
			p.advance()
			continue
		case token.KeywordFun:
			decls = append(decls, p.parseFunDecl(innerPub))
		case token.KeywordRecord:
			decls = append(decls, p.parseRecordDecl(innerPub, false))
		case token.KeywordEnum:
			decls = append(decls, p.parseEnumDecl(innerPub, false))
		case token.KeywordObject:
			if d := p.parseObjectDecl(innerPub); d != nil {
				decls = append(decls, d)
			}
		case token.KeywordType:
			decls = append(decls, p.parseAliasDecl(innerPub))
		case token.KeywordError:
			decls = append(decls, p.parseErrorDecl(innerPub))
		case token.KeywordVal:
			decls = append(decls, p.parseConstantDecl(innerPub))
		case token.KeywordModule:
			decls = append(decls, p.parseModuleDecl(innerPub))
		case token.KeywordClass:
			decls = append(decls, p.parseClassDecl(innerPub))
		case token.KeywordTrait:
			decls = append(decls, p.parseTraitDecl(innerPub))
		default:
			p.errorf("unexpected token inside module body: %s", p.cur().Kind)
			p.advance()
			continue
		}
		innerPub = false
	}
	if p.cur().Kind == token.KeywordEnd {
		p.advance()
	}
	return decls
}

func (p *Parser) parseClassDecl(pub bool) *ast.ClassDecl {
	start := p.advance() // 'class'
	name, _ := p.expect(token.IdentifierNormal)
	generics := p.parseGenerics()
	var inherits string
	if p.cur().Kind == token.KeywordInherit {
		p.advance()
		if base, ok := p.expect(token.IdentifierNormal); ok {
			inherits = base.Text
		}
	}
	p.expect(token.Eq)
	p.expect(token.LBrace)
	var fields []ast.RecordField
	var methods []*ast.FunDecl
	for p.cur().Kind != token.RBrace && !p.atEOF() {
		if p.cur().Kind == token.KeywordFun {
			methods = append(methods, p.parseFunDecl(false))
			continue
		}
		fname, ok := p.expect(token.IdentifierNormal)
		if !ok {
			p.advance()
			continue
		}
		p.expect(token.Colon)
		ty := p.parseType()
		fields = append(fields, ast.RecordField{Name: fname.Text, Type: ty, Location: fname.Loc})
		if p.cur().Kind == token.Comma {
			p.advance()
		}
	}
	p.expect(token.RBrace)
	return &ast.ClassDecl{Name: name.Text, Generics: generics, Inherits: inherits, Fields: fields, Methods: methods, Pub: pub, Location: p.spanFrom(start)}
}

func (p *Parser) parseTraitDecl(pub bool) *ast.TraitDecl {
	start := p.advance() // 'trait'
	name, _ := p.expect(token.IdentifierNormal)
	generics := p.parseGenerics()
	p.expect(token.Eq)
	p.expect(token.LBrace)
	var sigs []*ast.FunDecl
	for p.cur().Kind != token.RBrace && !p.atEOF() {
		if p.cur().Kind == token.KeywordFun {
			sigs = append(sigs, p.parseFunDecl(false))
			continue
		}
		p.advance()
	}
	p.expect(token.RBrace)
	return &ast.TraitDecl{Name: name.Text, Generics: generics, Sigs: sigs, Pub: pub, Location: p.spanFrom(start)}
}
