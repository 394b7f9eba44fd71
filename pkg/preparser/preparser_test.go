// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package preparser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lily-lang/lily/pkg/ast"
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

func TestPreparseFunBody(t *testing.T) {
	info := Run(scan(t, "fun add x y = x + y end"))
	require.Empty(t, info.Errors)
	require.Len(t, info.Items, 1)
	require.Equal(t, ItemBody, info.Items[0].Kind)
	require.Equal(t, "add", info.Items[0].Name)
}

func TestPreparseImportStd(t *testing.T) {
	info := Run(scan(t, "import @std.io;"))
	require.Empty(t, info.Errors)
	require.Len(t, info.Imports, 1)
	require.Equal(t, ast.ImportStd, info.Imports[0].Root)
	require.Equal(t, []string{"io"}, info.Imports[0].Path)
}

func TestPreparseImportLibrary(t *testing.T) {
	info := Run(scan(t, `import @library(json);`))
	require.Empty(t, info.Errors)
	require.Equal(t, ast.ImportLibrary, info.Imports[0].Root)
	require.Equal(t, "json", info.Imports[0].LibName)
}

func TestPreparseDuplicateMacro(t *testing.T) {
	info := Run(scan(t, "macro m = end macro m = end"))
	require.Len(t, info.Errors, 1)
	require.Contains(t, info.Errors[0].Msg, "duplicate macro")
}

func TestPreparseMacroPublicPrivateSplit(t *testing.T) {
	info := Run(scan(t, "pub macro pubmac = end macro privmac = end"))
	require.Empty(t, info.Errors)
	_, pubOK := info.Macros.Public["pubmac"]
	_, privOK := info.Macros.Private["privmac"]
	require.True(t, pubOK)
	require.True(t, privOK)
}

func TestMacroExpansionSplicesBody(t *testing.T) {
	info := Run(scan(t, "macro double(x) = x + x end fun f = @double(1) end"))
	require.Empty(t, info.Errors)
	var fnItem *PreparsedItem
	for i := range info.Items {
		if info.Items[i].Kind == ItemBody && info.Items[i].Name == "f" {
			fnItem = &info.Items[i]
		}
	}
	require.NotNil(t, fnItem)
	var kinds []token.Kind
	for _, tk := range fnItem.Tokens {
		kinds = append(kinds, tk.Kind)
	}
	require.Contains(t, kinds, token.Plus)
}
