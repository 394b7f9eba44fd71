// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileSetLineCol(t *testing.T) {
	fs := NewFileSet()
	f := fs.AddFile(NewSourceFile("a.lily", "a.lily", []byte("fun a()\nend\n")))

	pos := Pos(f.base + 8) // 'e' of "end"
	loc := fs.Position(pos)
	require.Equal(t, 2, loc.StartLine)
	require.Equal(t, 1, loc.StartCol)
}

func TestLocationJoin(t *testing.T) {
	fs := NewFileSet()
	f := fs.AddFile(NewSourceFile("a.lily", "a.lily", []byte("1 + 2")))
	left := Location{File: f, StartOffset: 0, EndOffset: 1, StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1}
	right := Location{File: f, StartOffset: 4, EndOffset: 5, StartLine: 1, StartCol: 5, EndLine: 1, EndCol: 5}

	joined := Join(left, right)
	require.Equal(t, 0, joined.StartOffset)
	require.Equal(t, 5, joined.EndOffset)
}

func TestKindString(t *testing.T) {
	require.Equal(t, "+", Plus.String())
	require.Equal(t, "fun", KeywordFun.String())
}
