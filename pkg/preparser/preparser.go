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

// Package preparser groups a scanned token stream into coarse
// declaration bodies, a split public/private macro store, and a list
// of import directives, without interpreting any expression. Macro
// invocations it recognizes are expanded eagerly by splicing the
// macro's stored token template in place, the same way the ingestion
// pipeline's protobuf extractor groups source into entities by
// tracking brace depth instead of building a full AST.
package preparser

import (
	"strings"

	"github.com/lily-lang/lily/internal/pipemetrics"
	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/token"
)

// ItemKind tags a PreparsedItem's role.
type ItemKind int

const (
	ItemMacroDef ItemKind = iota
	ItemImport
	ItemBody // module/fun/object/type/error/constant/record/enum/class/trait
)

// PreparsedItem is a coarse, token-span-only grouping of one top-level
// construct; the parser later re-scans Tokens to build a full AST node.
type PreparsedItem struct {
	Kind   ItemKind
	Name   string // best-effort name, empty if not determinable at this pass
	Pub    bool
	Tokens []token.Token
	Loc    token.Location
}

// PreparsedInfo is the preparser's full output for one file.
type PreparsedInfo struct {
	Items   []PreparsedItem
	Macros  *MacroStore
	Imports []*ast.ImportDecl
	Errors  ErrorList
}

// Stats reports the per-pass counters the driver feeds into
// internal/pipemetrics.
func (p *PreparsedInfo) Stats() (items, macros, imports, errs int) {
	return len(p.Items), len(p.Macros.Public) + len(p.Macros.Private), len(p.Imports), len(p.Errors)
}

// openers are token kinds that open a block requiring a matching
// KeywordEnd; used to find the end of a body item without a full parse.
var openers = map[token.Kind]bool{
	token.KeywordFun: true, token.KeywordIf: true, token.KeywordFor: true,
	token.KeywordWhile: true, token.KeywordMatch: true, token.KeywordUnsafe: true,
	token.KeywordBegin: true, token.KeywordModule: true, token.KeywordObject: true,
	token.KeywordClass: true, token.KeywordTrait: true, token.KeywordRecord: true,
	token.KeywordEnum: true, token.KeywordDo: true,
}

// bodyStarters are the keywords that begin a top-level item.
var bodyStarters = map[token.Kind]bool{
	token.KeywordModule: true, token.KeywordFun: true, token.KeywordObject: true,
	token.KeywordRecord: true, token.KeywordEnum: true, token.KeywordType: true,
	token.KeywordError: true, token.KeywordVal: true, token.KeywordClass: true,
	token.KeywordTrait: true,
}

type preparser struct {
	toks []token.Token
	pos  int
	info *PreparsedInfo
}

// Run walks toks (as produced by pkg/scanner, EOF-terminated) and
// returns the PreparsedInfo.
func Run(toks []token.Token) *PreparsedInfo {
	p := &preparser{
		toks: toks,
		info: &PreparsedInfo{Macros: NewMacroStore()},
	}
	p.walk()
	return p.info
}

func (p *preparser) cur() token.Token  { return p.toks[p.pos] }
func (p *preparser) atEOF() bool       { return p.cur().Kind == token.EOF }
func (p *preparser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *preparser) walk() {
	pub := false
	for !p.atEOF() {
		t := p.cur()
		switch {
		case t.Kind == token.KeywordPub:
			pub = true
			p.advance()
			continue
		case t.Kind == token.KeywordMacro:
			p.parseMacroDef(pub)
			pub = false
		case t.Kind == token.KeywordImport:
			p.parseImport(pub)
			pub = false
		case t.Kind == token.IdentifierMacro && p.tryExpand():
			// Do not reset pub: an invocation can precede a pub'd item.
		case bodyStarters[t.Kind]:
			p.parseBody(pub)
			pub = false
		default:
			// Unrecognized token at top level: record and skip one token
			// to make forward progress instead of aborting the walk.
			p.info.Errors.Add(t.Loc, "unexpected token at top level: "+t.Kind.String())
			p.advance()
		}
	}
}

// collectBlock collects tokens from the current opener (inclusive)
// through its matching KeywordEnd (inclusive), tracking nested openers.
// Macro invocations encountered anywhere in the span are expanded
// in place before the span is collected, so a body never carries an
// un-expanded invocation forward to the parser.
func (p *preparser) collectBlock() []token.Token {
	start := p.pos
	depth := 0
	for {
		if p.tryExpand() {
			continue
		}
		t := p.cur()
		if t.Kind == token.EOF {
			p.info.Errors.Add(p.toks[start].Loc, "unterminated block")
			return p.toks[start:p.pos]
		}
		if openers[t.Kind] {
			depth++
		} else if t.Kind == token.KeywordEnd {
			depth--
			p.advance()
			if depth == 0 {
				return p.toks[start:p.pos]
			}
			continue
		}
		p.advance()
	}
}

// collectSimple collects tokens from the current position through a
// terminating Semicolon (inclusive) or up to (exclusive) the next
// top-level starter/EOF, for declarations with no block body. Macro
// invocations in the span are expanded in place, as in collectBlock.
func (p *preparser) collectSimple() []token.Token {
	start := p.pos
	for {
		if p.tryExpand() {
			continue
		}
		t := p.cur()
		if t.Kind == token.Semicolon {
			p.advance()
			return p.toks[start:p.pos]
		}
		if t.Kind == token.EOF {
			return p.toks[start:p.pos]
		}
		if bodyStarters[t.Kind] || t.Kind == token.KeywordImport || t.Kind == token.KeywordMacro || t.Kind == token.KeywordPub {
			return p.toks[start:p.pos]
		}
		p.advance()
	}
}

func locSpan(toks []token.Token) token.Location {
	if len(toks) == 0 {
		return token.Location{}
	}
	return token.Join(toks[0].Loc, toks[len(toks)-1].Loc)
}

func (p *preparser) parseMacroDef(pub bool) {
	defStart := p.pos
	p.advance() // 'macro'
	if p.cur().Kind != token.IdentifierNormal {
		p.info.Errors.Add(p.cur().Loc, "expected macro name after 'macro'")
		p.collectBlock()
		return
	}
	name := p.advance().Text

	var params []string
	if p.cur().Kind == token.LParen {
		p.advance()
		for p.cur().Kind != token.RParen && p.cur().Kind != token.EOF {
			if p.cur().Kind == token.IdentifierNormal {
				params = append(params, p.cur().Text)
				p.advance()
			}
			if p.cur().Kind == token.Comma {
				p.advance()
			}
		}
		if p.cur().Kind == token.RParen {
			p.advance()
		}
	}
	if p.cur().Kind == token.Eq {
		p.advance()
	}

	// Body runs until matching 'end'; reuse collectBlock's nested-opener
	// tracking by seeding depth at 1 via a synthetic scan.
	bodyStart := p.pos
	depth := 1
	for {
		t := p.cur()
		if t.Kind == token.EOF {
			p.info.Errors.Add(p.toks[defStart].Loc, "unterminated macro definition")
			break
		}
		if openers[t.Kind] {
			depth++
		} else if t.Kind == token.KeywordEnd {
			depth--
			if depth == 0 {
				break
			}
		}
		p.advance()
	}
	body := append([]token.Token{}, p.toks[bodyStart:p.pos]...)
	if p.cur().Kind == token.KeywordEnd {
		p.advance()
	}

	loc := token.Join(p.toks[defStart].Loc, bodyEndLoc(body, p.toks, defStart, p.pos))
	m := &Macro{Name: name, Params: params, Body: body, Pub: pub, Loc: loc}
	if p.info.Macros.Define(m) {
		p.info.Errors.Add(loc, "duplicate macro definition: "+name)
	}
	p.info.Items = append(p.info.Items, PreparsedItem{Kind: ItemMacroDef, Name: name, Pub: pub, Tokens: body, Loc: loc})
}

func bodyEndLoc(body []token.Token, all []token.Token, start, end int) token.Location {
	if end > start && end <= len(all) {
		return all[end-1].Loc
	}
	if len(body) > 0 {
		return body[len(body)-1].Loc
	}
	return all[start].Loc
}

// parseImport reads one `@root.path.to.thing [as Name]` directive,
// terminated by Semicolon.
func (p *preparser) parseImport(pub bool) {
	start := p.pos
	p.advance() // 'import'

	if p.cur().Kind != token.IdentifierMacro {
		p.info.Errors.Add(p.cur().Loc, "malformed import: expected @std/@core/@sys/@builtin/@library/@file/@url")
		p.collectSimple()
		return
	}
	head := p.advance()

	decl := &ast.ImportDecl{Pub: pub}
	switch head.Text {
	case "@std":
		decl.Root = ast.ImportStd
	case "@core":
		decl.Root = ast.ImportCore
	case "@sys":
		decl.Root = ast.ImportSys
	case "@builtin":
		decl.Root = ast.ImportBuiltin
	case "@library":
		decl.Root = ast.ImportLibrary
		if p.cur().Kind == token.LParen {
			p.advance()
			if p.cur().Kind == token.IdentifierNormal {
				decl.LibName = p.advance().Text
			}
			if p.cur().Kind == token.RParen {
				p.advance()
			}
		} else {
			p.info.Errors.Add(head.Loc, "malformed import: @library requires (name)")
		}
	case "@file":
		decl.Root = ast.ImportFile
		decl.Literal = p.expectParenString(head)
	case "@url":
		decl.Root = ast.ImportURL
		decl.Literal = p.expectParenString(head)
	default:
		p.info.Errors.Add(head.Loc, "malformed import: unknown import root "+head.Text)
	}

	for p.cur().Kind == token.Dot {
		p.advance()
		if p.cur().Kind == token.IdentifierNormal {
			decl.Path = append(decl.Path, p.advance().Text)
		} else {
			p.info.Errors.Add(p.cur().Loc, "malformed import: expected identifier after '.'")
			break
		}
	}

	if p.cur().Kind == token.KeywordAs {
		p.advance()
		if p.cur().Kind == token.IdentifierNormal {
			decl.As = p.advance().Text
		}
	}

	toks := p.collectSimple()
	decl.Location = locSpan(append([]token.Token{head}, toks...))
	p.info.Imports = append(p.info.Imports, decl)
	p.info.Items = append(p.info.Items, PreparsedItem{Kind: ItemImport, Name: decl.DeclName(), Pub: pub, Tokens: p.toks[start:p.pos], Loc: decl.Location})
}

func (p *preparser) expectParenString(head token.Token) string {
	if p.cur().Kind != token.LParen {
		p.info.Errors.Add(head.Loc, "malformed import: expected '(' after "+head.Text)
		return ""
	}
	p.advance()
	var s string
	if p.cur().Kind == token.LiteralString {
		s = p.cur().Text
		p.advance()
	} else {
		p.info.Errors.Add(p.cur().Loc, "malformed import: expected string literal")
	}
	if p.cur().Kind == token.RParen {
		p.advance()
	}
	return s
}

func (p *preparser) parseBody(pub bool) {
	start := p.pos
	t := p.cur()
	var name string
	var toks []token.Token
	if openers[t.Kind] {
		toks = p.collectBlock()
	} else {
		p.advance() // the starter keyword itself is in bodyStarters
		p.collectSimple()
		toks = p.toks[start:p.pos]
	}
	// Best-effort name extraction: the identifier immediately following
	// the starter keyword, when present.
	if len(toks) > 1 && (toks[1].Kind == token.IdentifierNormal) {
		name = toks[1].Text
	}
	loc := locSpan(p.toks[start:p.pos])
	p.info.Items = append(p.info.Items, PreparsedItem{Kind: ItemBody, Name: name, Pub: pub, Tokens: toks, Loc: loc})
}

// tryExpand checks whether the current token is a macro invocation it
// recognizes, and if so splices the resolved body in place, reporting
// true so the caller re-examines the (now different) current token.
// An "@name" that isn't a known macro is left untouched and reported
// false — not every macro-shaped identifier is a macro call; the
// reserved import roots (@std, @core, ...) share the token kind.
func (p *preparser) tryExpand() bool {
	if p.cur().Kind != token.IdentifierMacro {
		return false
	}
	name := strings.TrimPrefix(p.cur().Text, "@")
	macro, ok := p.info.Macros.Lookup(name)
	if !ok {
		return false
	}
	start := p.pos
	p.advance()

	var args [][]token.Token
	if p.cur().Kind == token.LParen {
		p.advance()
		for p.cur().Kind != token.RParen && p.cur().Kind != token.EOF {
			argStart := p.pos
			depth := 0
			for {
				c := p.cur().Kind
				if c == token.LParen || c == token.LHook || c == token.LBrace {
					depth++
				} else if c == token.RParen || c == token.RHook || c == token.RBrace {
					if depth == 0 {
						break
					}
					depth--
				} else if c == token.Comma && depth == 0 {
					break
				} else if c == token.EOF {
					break
				}
				p.advance()
			}
			args = append(args, p.toks[argStart:p.pos])
			if p.cur().Kind == token.Comma {
				p.advance()
			}
		}
		if p.cur().Kind == token.RParen {
			p.advance()
		}
	}

	spliced := spliceMacroBody(macro, args)
	pipemetrics.AddMacrosExpanded(1)

	// Replace toks[start:p.pos] with spliced, preserving the remainder.
	rest := append([]token.Token{}, p.toks[p.pos:]...)
	p.toks = append(append(append([]token.Token{}, p.toks[:start]...), spliced...), rest...)
	p.pos = start
	return true
}

// spliceMacroBody substitutes each occurrence of a parameter-name
// identifier in macro.Body with the corresponding argument's token
// slice (positional by macro.Params order).
func spliceMacroBody(m *Macro, args [][]token.Token) []token.Token {
	bind := map[string][]token.Token{}
	for i, p := range m.Params {
		if i < len(args) {
			bind[p] = args[i]
		}
	}
	if len(bind) == 0 {
		return append([]token.Token{}, m.Body...)
	}
	var out []token.Token
	for _, t := range m.Body {
		if t.Kind == token.IdentifierNormal {
			if repl, ok := bind[t.Text]; ok {
				out = append(out, repl...)
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
