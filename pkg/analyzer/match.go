// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/token"
)

// CaseAddResult is the tri-state a switch build reports when adding
// one lowered case (§4.5.6): Ok, UnusedCase (added after an `else`
// already made it unreachable), or DuplicateCase (an equal value was
// already present).
type CaseAddResult int

const (
	CaseOk CaseAddResult = iota
	CaseUnusedCase
	CaseDuplicateCase
)

// switchBuilder accumulates SwitchCase entries while tracking which
// literal spellings have been seen and whether an `else` has already
// been added, so every subsequent addCase call can classify itself.
type switchBuilder struct {
	cases   []ast.SwitchCase
	seen    map[string]bool
	hasElse bool
}

func newSwitchBuilder() *switchBuilder {
	return &switchBuilder{seen: make(map[string]bool)}
}

func (b *switchBuilder) addCase(value ast.SwitchCaseValue, sub ast.SwitchSubCase) CaseAddResult {
	if b.hasElse {
		return CaseUnusedCase
	}
	key := caseValueKey(value)
	if b.seen[key] {
		return CaseDuplicateCase
	}
	// Only an unguarded arm claims its value outright; a guarded arm may
	// be followed by further sub-cases over the same value.
	if sub.Guard == nil {
		b.seen[key] = true
		if value.Kind == ast.SwitchCaseElse {
			b.hasElse = true
		}
	}
	for i := range b.cases {
		if caseValueKey(b.cases[i].Value) == key {
			b.cases[i].SubCases = append(b.cases[i].SubCases, sub)
			return CaseOk
		}
	}
	b.cases = append(b.cases, ast.SwitchCase{Value: value, SubCases: []ast.SwitchSubCase{sub}})
	return CaseOk
}

// caseValueKey renders a SwitchCaseValue to a string unique enough for
// duplicate detection within one switch.
func caseValueKey(v ast.SwitchCaseValue) string {
	switch v.Kind {
	case ast.SwitchCaseElse:
		return "else"
	case ast.SwitchCasePrimitive:
		return "lit:" + v.Literal.Text + ":" + v.Literal.SourceSlice
	case ast.SwitchCaseUnion:
		key := "union("
		for _, n := range v.Nested {
			key += caseValueKey(n) + ","
		}
		return key + ")"
	default:
		return ""
	}
}

// lowerMatch converts a MatchStmt into a SwitchStmt (§4.5.6). Every
// pattern becomes a SwitchCaseValue; a guard, if present, rides along
// on the case's SwitchSubCase rather than on the value itself, so two
// differently-guarded arms over the same pattern share one case.
func (a *Analyzer) lowerMatch(ms *ast.MatchStmt) *ast.SwitchStmt {
	builder := newSwitchBuilder()
	for _, c := range ms.Cases {
		value := a.patternToCaseValue(c.Pattern)
		sub := ast.SwitchSubCase{Guard: c.Guard, Body: c.Body}
		switch builder.addCase(value, sub) {
		case CaseDuplicateCase:
			a.Errors.Add(c.Pattern.Loc(), "duplicate match case")
		case CaseUnusedCase:
			// Non-blocking per §7: an unreachable case after an
			// exhaustive else is a mistake worth flagging, not one
			// that should stop the package from compiling.
			a.Warnings.Add(c.Pattern.Loc(), "unreachable match case after an exhaustive else")
		}
	}
	return &ast.SwitchStmt{Subject: ms.Subject, Cases: builder.cases, Location: ms.Location}
}

// patternToCaseValue converts one pattern to its lowered case-value
// shape: a literal constant, the catch-all else, or a union of nested
// case values for a pattern that itself decomposes a payload.
func (a *Analyzer) patternToCaseValue(p ast.Pattern) ast.SwitchCaseValue {
	switch v := p.(type) {
	case *ast.LiteralPattern:
		return ast.SwitchCaseValue{Kind: ast.SwitchCasePrimitive, Literal: v.Tok}
	case *ast.WildcardPattern:
		return ast.SwitchCaseValue{Kind: ast.SwitchCaseElse}
	case *ast.NamePattern:
		return ast.SwitchCaseValue{Kind: ast.SwitchCaseElse}
	case *ast.AsPattern:
		return a.patternToCaseValue(v.Inner)
	case *ast.VariantPattern:
		nested := make([]ast.SwitchCaseValue, 0, len(v.Payload)+1)
		nested = append(nested, ast.SwitchCaseValue{
			Kind:    ast.SwitchCasePrimitive,
			Literal: token.Token{Kind: token.IdentifierNormal, Text: v.Variant},
		})
		for _, sub := range v.Payload {
			nested = append(nested, a.patternToCaseValue(sub))
		}
		return ast.SwitchCaseValue{Kind: ast.SwitchCaseUnion, Nested: nested}
	case *ast.TuplePattern:
		nested := make([]ast.SwitchCaseValue, len(v.Elems))
		for i, e := range v.Elems {
			nested[i] = a.patternToCaseValue(e)
		}
		return ast.SwitchCaseValue{Kind: ast.SwitchCaseUnion, Nested: nested}
	case *ast.ArrayPattern:
		nested := make([]ast.SwitchCaseValue, len(v.Elems))
		for i, e := range v.Elems {
			nested[i] = a.patternToCaseValue(e)
		}
		return ast.SwitchCaseValue{Kind: ast.SwitchCaseUnion, Nested: nested}
	case *ast.RangePattern:
		return ast.SwitchCaseValue{Kind: ast.SwitchCasePrimitive, Literal: v.Low}
	case *ast.ErrorPattern:
		return ast.SwitchCaseValue{Kind: ast.SwitchCasePrimitive, Literal: token.Token{Kind: token.IdentifierNormal, Text: v.Error}}
	default:
		return ast.SwitchCaseValue{Kind: ast.SwitchCaseElse}
	}
}
