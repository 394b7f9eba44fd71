// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/checked"
	"github.com/lily-lang/lily/pkg/parser"
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

func analyze(t *testing.T, src string) (*Result, ErrorList) {
	t.Helper()
	info := preparser.Run(scan(t, src))
	decls, parseErrs := parser.Run(info)
	require.Empty(t, parseErrs)

	ops := checked.NewOperatorRegister()
	ops.CopyDefaults(DefaultOperators())
	return Run(decls, ops, "main")
}

func fun(decls []ast.Decl, name string) *ast.FunDecl {
	for _, d := range decls {
		if fd, ok := d.(*ast.FunDecl); ok && fd.Name == name {
			return fd
		}
	}
	return nil
}

// TestAnalyzeOverloadResolution covers spec.md's canonical overload
// scenario: `1i32 + 2` resolves to the (i32,i32)->i32 candidate once
// the left operand's suffix pins it down.
func TestAnalyzeOverloadResolution(t *testing.T) {
	res, errs := analyze(t, "fun f() -> I64 = return 1i32 + 2 end")
	require.Empty(t, errs)

	fn := res.Functions["main.f"]
	require.NotNil(t, fn)
	ret := fn.Decl.Body.Stmts[0].(*ast.ReturnStmt)
	binary := ret.Value.(*ast.BinaryExpr)

	ty, ok := res.ExprTypes[binary].(*checked.Primitive)
	require.True(t, ok)
	require.Equal(t, ast.PrimInt32, ty.Kind)
}

func TestAnalyzeDeclarationConflict(t *testing.T) {
	_, errs := analyze(t, "record Point = { x: I64 } record Point = { y: I64 }")
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Msg, "already declared")
}

func TestAnalyzeUnknownName(t *testing.T) {
	_, errs := analyze(t, "fun f() -> I64 = return undeclared end")
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Msg, "unknown name")
}

func TestAnalyzeMatchLowering(t *testing.T) {
	res, errs := analyze(t, "fun f(x: I64) -> I64 = match x do 1 => return 1 | _ => return 2 end end")
	require.Empty(t, errs)

	fn := res.Functions["main.f"]
	ms := fn.Decl.Body.Stmts[0].(*ast.MatchStmt)
	sw, ok := res.Switches[ms]
	require.True(t, ok)
	require.Len(t, sw.Cases, 2)
	require.Equal(t, ast.SwitchCasePrimitive, sw.Cases[0].Value.Kind)
	require.Equal(t, ast.SwitchCaseElse, sw.Cases[1].Value.Kind)
}

func TestAnalyzeDuplicateMatchCase(t *testing.T) {
	_, errs := analyze(t, "fun f(x: I64) -> I64 = match x do 1 => return 1 | 1 => return 2 end end")
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if strings.Contains(e.Msg, "duplicate match case") {
			found = true
		}
	}
	require.True(t, found)
}

func TestAnalyzeRaiseOutsideCanRaise(t *testing.T) {
	_, errs := analyze(t, "error E() fun f() -> I64 = raise E return 1 end")
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if strings.Contains(e.Msg, "raise outside") {
			found = true
		}
	}
	require.True(t, found)
}

func TestAnalyzeTryCatchBindsErrorType(t *testing.T) {
	res, errs := analyze(t, "error E() fun f() -> I64 ! E = try raise E catch e do return 1 end end")
	require.Empty(t, errs)
	require.NotNil(t, res.Functions["main.f"])
}

func TestAnalyzeRecursiveCallResolvesViaSeededSignature(t *testing.T) {
	_, errs := analyze(t, "fun fact(n: I64) -> I64 = return fact(n) end")
	require.Empty(t, errs)
}

func TestAnalyzeRecordFieldAccess(t *testing.T) {
	res, errs := analyze(t, "record Point = { x: I64, y: I64 } fun f(p: Point) -> I64 = return p.x end")
	require.Empty(t, errs)

	fn := res.Functions["main.f"]
	ret := fn.Decl.Body.Stmts[0].(*ast.ReturnStmt)
	access := ret.Value.(*ast.AccessExpr)
	ty, ok := res.ExprTypes[access].(*checked.Primitive)
	require.True(t, ok)
	require.Equal(t, ast.PrimInt64, ty.Kind)
}

// TestAnalyzeUnreachableMatchCaseIsWarningNotError covers §7: a case
// added after an exhaustive else is a mistake worth flagging, but it
// must not block the package from reaching MIR lowering.
func TestAnalyzeUnreachableMatchCaseIsWarningNotError(t *testing.T) {
	res, errs := analyze(t, "fun f(x: I64) -> I64 = match x do _ => return 1 | 2 => return 2 end end")
	require.Empty(t, errs)
	require.Len(t, res.Warnings, 1)
	require.Contains(t, res.Warnings[0].Msg, "unreachable match case")
}

func TestAnalyzeUnusedVariableWarns(t *testing.T) {
	res, errs := analyze(t, "fun f() -> I64 = val x = 1i64 return 0i64 end")
	require.Empty(t, errs)
	require.Len(t, res.Warnings, 1)
	require.Contains(t, res.Warnings[0].Msg, "declared and not used")
	require.Contains(t, res.Warnings[0].Msg, "x")
}

func TestAnalyzeUsedVariableDoesNotWarn(t *testing.T) {
	res, errs := analyze(t, "fun f() -> I64 = val x = 1i64 return x end")
	require.Empty(t, errs)
	require.Empty(t, res.Warnings)
}

func TestAnalyzeShadowedBindingWarns(t *testing.T) {
	res, errs := analyze(t, `
fun f() -> I64 =
  val x = 1i64
  for y in [1i64, 2i64] do
    val x = 2i64
    return x
  end
  return x
end
`)
	require.Empty(t, errs)
	require.Len(t, res.Warnings, 1)
	require.Contains(t, res.Warnings[0].Msg, "shadows")
}

// TestAnalyzeUserOperatorDuplicateRejected builds the FunDecl directly
// (operator-named function declarations are a scanner/parser concern
// out of scope here) to exercise registerUserOperators' duplicate
// rejection against the pre-seeded i64 `+` default.
func TestAnalyzeUserOperatorDuplicateRejected(t *testing.T) {
	i64 := &ast.PrimitiveType{Kind: ast.PrimInt64}
	decls := []ast.Decl{
		&ast.FunDecl{
			Name:   "+",
			Params: []ast.Param{{Name: "a", Type: i64}, {Name: "b", Type: i64}},
			Return: i64,
			Body:   &ast.BlockStmt{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: &ast.IdentExpr{Name: "a"}}}},
		},
	}
	ops := checked.NewOperatorRegister()
	ops.CopyDefaults(DefaultOperators())
	_, errs := Run(decls, ops, "main")
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if strings.Contains(e.Msg, "already registered") {
			found = true
		}
	}
	require.True(t, found)
}
