// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/preparser"
	"github.com/lily-lang/lily/pkg/scanner"
	"github.com/lily-lang/lily/pkg/token"
)

func scan(t *testing.T, src string) []token.Token {
	t.Helper()
	fs := token.NewFileSet()
	f := fs.AddFile(token.NewSourceFile("t.lily", "t.lily", []byte(src)))
	toks, err := scanner.Run(fs, f)
	require.NoError(t, err)
	return toks
}

func parse(t *testing.T, src string) []ast.Decl {
	t.Helper()
	info := preparser.Run(scan(t, src))
	decls, errs := Run(info)
	require.Empty(t, errs)
	return decls
}

// TestParsePrecedence covers spec.md's canonical end-to-end scenario:
// `a + b * c` parses as binary(Add, a, binary(Mul, b, c)).
func TestParsePrecedence(t *testing.T) {
	decls := parse(t, "fun f = a + b * c end")
	require.Len(t, decls, 1)
	fn := decls[0].(*ast.FunDecl)
	require.Len(t, fn.Body.Stmts, 1)
	exprStmt := fn.Body.Stmts[0].(*ast.ExprStmt)

	add, ok := exprStmt.X.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, ast.OpAdd, add.Op)
	require.Equal(t, "a", add.Left.(*ast.IdentExpr).Name)

	mul, ok := add.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, ast.OpMul, mul.Op)
	require.Equal(t, "b", mul.Left.(*ast.IdentExpr).Name)
	require.Equal(t, "c", mul.Right.(*ast.IdentExpr).Name)
}

func TestParseMutVarDecl(t *testing.T) {
	decls := parse(t, "fun f = mut x = 1 end")
	fn := decls[0].(*ast.FunDecl)
	vd := fn.Body.Stmts[0].(*ast.VarDeclStmt)
	require.True(t, vd.Mutable)
	require.Equal(t, "x", vd.Name)
}

func TestParseFunSignature(t *testing.T) {
	decls := parse(t, "fun add(x: I64, y: I64) -> I64 = return x + y end")
	require.Len(t, decls, 1)
	fn := decls[0].(*ast.FunDecl)
	require.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	require.Equal(t, "x", fn.Params[0].Name)
	prim, ok := fn.Return.(*ast.PrimitiveType)
	require.True(t, ok)
	require.Equal(t, ast.PrimInt64, prim.Kind)
	require.False(t, fn.CanRaise)
}

func TestParseFunCanRaise(t *testing.T) {
	decls := parse(t, "fun risky() -> I64 ! ParseError = return 1 end")
	fn := decls[0].(*ast.FunDecl)
	require.True(t, fn.CanRaise)
	rt, ok := fn.Return.(*ast.ResultType)
	require.True(t, ok)
	require.Len(t, rt.Errors, 1)
}

func TestParseRecordDecl(t *testing.T) {
	decls := parse(t, "record Point = { x: I64, y: I64 }")
	rec := decls[0].(*ast.RecordDecl)
	require.Equal(t, "Point", rec.Name)
	require.Len(t, rec.Fields, 2)
	require.False(t, rec.IsObject)
}

func TestParseObjectEnumDecl(t *testing.T) {
	decls := parse(t, "object enum Shape = Circle(I64) | Square(I64)")
	en := decls[0].(*ast.EnumDecl)
	require.Equal(t, "Shape", en.Name)
	require.True(t, en.IsObject)
	require.Len(t, en.Variants, 2)
	require.Equal(t, "Circle", en.Variants[0].Name)
	require.Len(t, en.Variants[0].Payload, 1)
}

func TestParseAliasDecl(t *testing.T) {
	decls := parse(t, "type Name = Str")
	alias := decls[0].(*ast.AliasDecl)
	require.Equal(t, "Name", alias.Name)
	_, ok := alias.Target.(*ast.PrimitiveType)
	require.True(t, ok)
}

func TestParseIfElifElse(t *testing.T) {
	decls := parse(t, "fun f = if a do 1 elif b do 2 else 3 end end")
	fn := decls[0].(*ast.FunDecl)
	ifStmt := fn.Body.Stmts[0].(*ast.IfStmt)
	require.Len(t, ifStmt.Branches, 2)
	require.NotNil(t, ifStmt.Else)
}

func TestParseMatchStmt(t *testing.T) {
	decls := parse(t, "fun f = match x do 1 => a | _ => b end end")
	fn := decls[0].(*ast.FunDecl)
	m := fn.Body.Stmts[0].(*ast.MatchStmt)
	require.Len(t, m.Cases, 2)
	_, isWild := m.Cases[1].Pattern.(*ast.WildcardPattern)
	require.True(t, isWild)
}

func TestParseVariantConstructorCall(t *testing.T) {
	decls := parse(t, "fun f = Some(1) end")
	fn := decls[0].(*ast.FunDecl)
	call := fn.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.CallExpr)
	require.Equal(t, ast.ExprCallVariant, call.Kind)
	require.Equal(t, "Some", call.Callee)
}

func TestParseRecordConstruction(t *testing.T) {
	decls := parse(t, "fun f = Point{x = 1, y = 2} end")
	fn := decls[0].(*ast.FunDecl)
	call := fn.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.CallExpr)
	require.Equal(t, ast.ExprCallRecord, call.Kind)
	require.Equal(t, []string{"x", "y"}, call.Fields)
}

func TestParseModuleDecl(t *testing.T) {
	decls := parse(t, "module Util = fun helper = return 1 end end")
	mod := decls[0].(*ast.ModuleDecl)
	require.Equal(t, "Util", mod.Name)
	require.Len(t, mod.Decls, 1)
	_, ok := mod.Decls[0].(*ast.FunDecl)
	require.True(t, ok)
}

func TestParseTryCatch(t *testing.T) {
	decls := parse(t, "fun f = try raise E catch e do return 1 end end")
	fn := decls[0].(*ast.FunDecl)
	tc := fn.Body.Stmts[0].(*ast.TryCatchStmt)
	require.Equal(t, "e", tc.CatchName)
	require.NotNil(t, tc.CatchBody)
}
