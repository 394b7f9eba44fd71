// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lily-lang/lily/pkg/token"
)

func TestLocationSpanOrdering(t *testing.T) {
	fs := token.NewFileSet()
	f := fs.AddFile(token.NewSourceFile("t.lily", "t.lily", []byte("a + b")))

	left := token.Location{File: f, StartOffset: 0, EndOffset: 1, StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1}
	right := token.Location{File: f, StartOffset: 4, EndOffset: 5, StartLine: 1, StartCol: 5, EndLine: 1, EndCol: 5}
	loc := token.Join(left, right)

	expr := &BinaryExpr{
		Op:    OpAdd,
		Left:  &IdentExpr{Name: "a", Location: left},
		Right: &IdentExpr{Name: "b", Location: right},
		Location: loc,
	}

	require.LessOrEqual(t, expr.Loc().StartOffset, expr.Loc().EndOffset)
	require.LessOrEqual(t, left.StartOffset, expr.Loc().StartOffset+1)
	require.GreaterOrEqual(t, expr.Loc().EndOffset, right.EndOffset)
}

func TestPrecedenceTable(t *testing.T) {
	require.Less(t, Precedence(OpOr), Precedence(OpAdd))
	require.Less(t, Precedence(OpAdd), Precedence(OpMul))
	require.Less(t, Precedence(OpMul), Precedence(OpPow))
	require.True(t, IsRightAssociative(OpAssign))
	require.False(t, IsRightAssociative(OpAdd))
}

func TestCallExprKindVariants(t *testing.T) {
	c := &CallExpr{Kind: ExprCallMethod, Callee: "push", Receiver: &IdentExpr{Name: "xs"}}
	require.Equal(t, ExprCallMethod, c.ExprKind())
}
