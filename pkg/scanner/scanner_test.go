// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lily-lang/lily/pkg/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	fs := token.NewFileSet()
	f := fs.AddFile(token.NewSourceFile("t.lily", "t.lily", []byte(src)))
	toks, err := Run(fs, f)
	require.NoError(t, err)
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll(t, "fun add x y = x + y end")
	require.Equal(t, []token.Kind{
		token.KeywordFun, token.IdentifierNormal,
		token.IdentifierNormal, token.IdentifierNormal,
		token.Eq, token.IdentifierNormal, token.Plus, token.IdentifierNormal,
		token.KeywordEnd, token.EOF,
	}, kinds(toks))
}

func TestScanOperators(t *testing.T) {
	toks := scanAll(t, "-> => == != <= <<= <<")
	require.Equal(t, []token.Kind{
		token.Arrow, token.FatArrow, token.EqEq, token.NotEq,
		token.LShiftEq, token.LShiftLShiftEq, token.LShiftLShift, token.EOF,
	}, kinds(toks))
}

func TestScanDecimalInt(t *testing.T) {
	toks := scanAll(t, "42")
	require.Len(t, toks, 2)
	require.Equal(t, token.LiteralInt10, toks[0].Kind)
	require.Equal(t, "42", toks[0].Text)
	require.Equal(t, 10, toks[0].Base)
}

func TestScanHexInt(t *testing.T) {
	toks := scanAll(t, "0xFF")
	require.Equal(t, token.LiteralInt16, toks[0].Kind)
	require.Equal(t, "FF", toks[0].Text)
	require.Equal(t, 16, toks[0].Base)
}

func TestScanFloat(t *testing.T) {
	toks := scanAll(t, "3.14")
	require.Equal(t, token.LiteralFloat, toks[0].Kind)
	require.Equal(t, "3.14", toks[0].Text)
}

func TestScanSuffixedInt(t *testing.T) {
	toks := scanAll(t, "100i32 200u8")
	require.Equal(t, token.LiteralSuffixInt32, toks[0].Kind)
	require.EqualValues(t, 100, toks[0].Int32)
	require.Equal(t, token.LiteralSuffixUint8, toks[1].Kind)
	require.EqualValues(t, 200, toks[1].Uint8)
}

func TestScanSuffixedIntOverflow(t *testing.T) {
	fs := token.NewFileSet()
	f := fs.AddFile(token.NewSourceFile("t.lily", "t.lily", []byte("1000i8")))
	_, err := Run(fs, f)
	require.Error(t, err)
}

func TestScanStringEscapes(t *testing.T) {
	toks := scanAll(t, `"a\nb\tc"`)
	require.Equal(t, token.LiteralString, toks[0].Kind)
	require.Equal(t, "a\nb\tc", toks[0].Text)
}

func TestScanCharLiteral(t *testing.T) {
	toks := scanAll(t, `'x'`)
	require.Equal(t, token.LiteralChar, toks[0].Kind)
	require.Equal(t, "x", toks[0].Text)
}

func TestScanUnterminatedStringIsError(t *testing.T) {
	fs := token.NewFileSet()
	f := fs.AddFile(token.NewSourceFile("t.lily", "t.lily", []byte(`"abc`)))
	_, err := Run(fs, f)
	require.Error(t, err)
}

func TestScanDiscardsComments(t *testing.T) {
	toks := scanAll(t, "x // trailing comment\ny /* block */ z")
	require.Equal(t, []token.Kind{
		token.IdentifierNormal, token.IdentifierNormal, token.IdentifierNormal, token.EOF,
	}, kinds(toks))
}

func TestScanDocCommentPreserved(t *testing.T) {
	toks := scanAll(t, "/// adds two numbers\nfun add")
	require.Equal(t, token.CommentDoc, toks[0].Kind)
	require.Equal(t, "adds two numbers", toks[0].Text)
	require.Equal(t, token.KeywordFun, toks[1].Kind)
}

func TestScanMacroIdentifier(t *testing.T) {
	toks := scanAll(t, "@std")
	require.Equal(t, token.IdentifierMacro, toks[0].Kind)
	require.Equal(t, "@std", toks[0].Text)
}

func TestScanSourceSliceReconstructsNonWhitespace(t *testing.T) {
	src := "x+y"
	fs := token.NewFileSet()
	f := fs.AddFile(token.NewSourceFile("t.lily", "t.lily", []byte(src)))
	toks, err := Run(fs, f)
	require.NoError(t, err)
	var rebuilt string
	for _, tk := range toks {
		rebuilt += tk.SourceSlice
	}
	require.Equal(t, src, rebuilt)
}
