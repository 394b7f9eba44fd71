// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package precompiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lily-lang/lily/pkg/token"
)

func newPrecompiler(t *testing.T, loader Loader, libraries map[string]string, rootDir string) *Precompiler {
	t.Helper()
	return New(token.NewFileSet(), loader, libraries, rootDir)
}

func TestRunResolvesStdImport(t *testing.T) {
	loader := MapLoader{
		"/proj": {{Path: "/proj/main.lily", Content: []byte("import @std.io;")}},
	}
	p := newPrecompiler(t, loader, nil, t.TempDir())
	forest, cache, err := p.Run("/proj")
	require.NoError(t, err)
	require.NotNil(t, cache)
	require.Len(t, forest.Roots, 1)
	require.Len(t, forest.Roots[0].Dependencies, 1)
	require.Equal(t, PackageStd, forest.Roots[0].Dependencies[0].Kind)
	require.True(t, forest.Roots[0].Dependencies[0].IsDone)
}

func TestRunResolvesSubPackage(t *testing.T) {
	loader := MapLoader{
		"/proj":     {{Path: "/proj/main.lily", Content: []byte(`import @file("./sub") as sub;`)}},
		"/proj/sub": {{Path: "/proj/sub/mod.lily", Content: []byte("fun helper = unit end")}},
	}
	p := newPrecompiler(t, loader, nil, t.TempDir())
	forest, _, err := p.Run("/proj")
	require.NoError(t, err)
	root := forest.Roots[0]
	require.Len(t, root.Dependencies, 1)
	dep := root.Dependencies[0]
	require.Equal(t, PackageSource, dep.Kind)
	require.Equal(t, "/proj/sub", dep.Path)
	require.False(t, dep.IsDone)
}

func TestRunDetectsImportCycle(t *testing.T) {
	loader := MapLoader{
		"/proj/a": {{Path: "/proj/a/m.lily", Content: []byte(`import @file("../b") as b;`)}},
		"/proj/b": {{Path: "/proj/b/m.lily", Content: []byte(`import @file("../a") as a;`)}},
	}
	p := newPrecompiler(t, loader, nil, t.TempDir())
	_, _, err := p.Run("/proj/a")
	require.Error(t, err)
	require.NotEmpty(t, p.Errors)
}

func TestRunDedupesDiamondDependency(t *testing.T) {
	loader := MapLoader{
		"/proj": {{Path: "/proj/main.lily", Content: []byte(
			`import @file("./a") as a; import @file("./b") as b;`)}},
		"/proj/a": {{Path: "/proj/a/m.lily", Content: []byte(`import @file("../shared") as shared;`)}},
		"/proj/b": {{Path: "/proj/b/m.lily", Content: []byte(`import @file("../shared") as shared;`)}},
		"/proj/shared": {{Path: "/proj/shared/m.lily", Content: []byte("fun noop = unit end")}},
	}
	p := newPrecompiler(t, loader, nil, t.TempDir())
	forest, _, err := p.Run("/proj")
	require.NoError(t, err)
	root := forest.Roots[0]
	require.Len(t, root.Dependencies, 2)

	var a, b *PackageNode
	for _, d := range root.Dependencies {
		switch d.Path {
		case "/proj/a":
			a = d
		case "/proj/b":
			b = d
		}
	}
	require.NotNil(t, a)
	require.NotNil(t, b)
	require.Same(t, a.Dependencies[0], b.Dependencies[0])
}

func TestRunResolvesKnownLibrary(t *testing.T) {
	loader := MapLoader{
		"/proj":    {{Path: "/proj/main.lily", Content: []byte(`import @library(json);`)}},
		"/libs/json": {{Path: "/libs/json/m.lily", Content: []byte("fun parse = unit end")}},
	}
	p := newPrecompiler(t, loader, map[string]string{"json": "/libs/json"}, t.TempDir())
	forest, _, err := p.Run("/proj")
	require.NoError(t, err)
	dep := forest.Roots[0].Dependencies[0]
	require.Equal(t, PackageLibrary, dep.Kind)
	require.Equal(t, "/libs/json", dep.Path)
}

func TestRunCreatesCacheDir(t *testing.T) {
	root := t.TempDir()
	loader := MapLoader{root: {{Path: filepath.Join(root, "main.lily"), Content: []byte("fun f = unit end")}}}
	p := newPrecompiler(t, loader, nil, root)
	_, cache, err := p.Run(root)
	require.NoError(t, err)
	info, statErr := os.Stat(cache.Path)
	require.NoError(t, statErr)
	require.True(t, info.IsDir())
}

func TestForestWaitForDepsUnblocksOnMarkDone(t *testing.T) {
	forest := NewDependencyForest()
	dep := &PackageNode{Path: "dep"}
	root := &PackageNode{Path: "root", Dependencies: []*PackageNode{dep}}

	done := make(chan struct{})
	go func() {
		forest.WaitForDeps(root)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("WaitForDeps returned before dependency was marked done")
	default:
	}

	forest.MarkDone(dep)
	<-done
}
