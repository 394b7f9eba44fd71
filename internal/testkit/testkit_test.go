// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package testkit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMustParseReturnsDecls(t *testing.T) {
	decls := MustParse(t, "t.lily", "fun f() -> I64 = return 1i64 end")
	require.Len(t, decls, 1)
}

func TestMustAnalyzeReturnsResult(t *testing.T) {
	res := MustAnalyze(t, "t.lily", "main", "fun f() -> I64 = return 1i64 end")
	require.NotNil(t, res)
	require.Contains(t, res.Functions, "main.f")
}

func TestGoldenProjectBuildsLoader(t *testing.T) {
	loader := GoldenProject(map[string]string{
		"/proj":     `import @file("./sub") as sub;`,
		"/proj/sub": "fun helper = unit end",
	})
	files, err := loader.LoadPackage("/proj")
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "/proj/main.lily", files[0].Path)
}
