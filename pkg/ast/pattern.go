// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package ast

import "github.com/lily-lang/lily/pkg/token"

// LiteralPattern matches an exact scanner literal.
type LiteralPattern struct {
	Tok      token.Token
	Location token.Location
}

func (p *LiteralPattern) PatternKind() NodeKind { return PatternLiteral }
func (p *LiteralPattern) Loc() token.Location   { return p.Location }

// NamePattern binds the scrutinee to Name.
type NamePattern struct {
	Name     string
	Location token.Location
}

func (p *NamePattern) PatternKind() NodeKind { return PatternName }
func (p *NamePattern) Loc() token.Location   { return p.Location }

// WildcardPattern is `_`.
type WildcardPattern struct{ Location token.Location }

func (p *WildcardPattern) PatternKind() NodeKind { return PatternWildcard }
func (p *WildcardPattern) Loc() token.Location   { return p.Location }

// ArrayPattern is `[p1, p2, ...]` (fixed arity).
type ArrayPattern struct {
	Elems    []Pattern
	Location token.Location
}

func (p *ArrayPattern) PatternKind() NodeKind { return PatternArray }
func (p *ArrayPattern) Loc() token.Location   { return p.Location }

// ListPattern is `[p1 | rest]` (head/tail decomposition).
type ListPattern struct {
	Head     []Pattern
	Rest     string // binding name for the tail, empty if discarded
	Location token.Location
}

func (p *ListPattern) PatternKind() NodeKind { return PatternList }
func (p *ListPattern) Loc() token.Location   { return p.Location }

// TuplePattern is `(p1, p2, ...)`.
type TuplePattern struct {
	Elems    []Pattern
	Location token.Location
}

func (p *TuplePattern) PatternKind() NodeKind { return PatternTuple }
func (p *TuplePattern) Loc() token.Location   { return p.Location }

// RecordFieldPattern is one `field = pattern` entry of a RecordPattern.
type RecordFieldPattern struct {
	Field   string
	Pattern Pattern
}

// RecordPattern is `{ field = p, ... }`.
type RecordPattern struct {
	Fields   []RecordFieldPattern
	Location token.Location
}

func (p *RecordPattern) PatternKind() NodeKind { return PatternRecord }
func (p *RecordPattern) Loc() token.Location   { return p.Location }

// VariantPattern is `Variant(p1, p2, ...)`.
type VariantPattern struct {
	Variant  string
	Payload  []Pattern
	Location token.Location
}

func (p *VariantPattern) PatternKind() NodeKind { return PatternVariant }
func (p *VariantPattern) Loc() token.Location   { return p.Location }

// RangePattern is `a..b`.
type RangePattern struct {
	Low      token.Token
	High     token.Token
	Location token.Location
}

func (p *RangePattern) PatternKind() NodeKind { return PatternRange }
func (p *RangePattern) Loc() token.Location   { return p.Location }

// AsPattern binds Inner's match to Name.
type AsPattern struct {
	Inner    Pattern
	Name     string
	Location token.Location
}

func (p *AsPattern) PatternKind() NodeKind { return PatternAs }
func (p *AsPattern) Loc() token.Location   { return p.Location }

// ErrorPattern is `exception(p)`, matching a raised error value.
type ErrorPattern struct {
	Error    string // error type name, empty to match any
	Payload  Pattern
	Location token.Location
}

func (p *ErrorPattern) PatternKind() NodeKind { return PatternError }
func (p *ErrorPattern) Loc() token.Location   { return p.Location }
