// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"sync"
	"testing"

	"github.com/lily-lang/lily/internal/testkit"
	"github.com/lily-lang/lily/pkg/cache"
	"github.com/lily-lang/lily/pkg/precompiler"
	"github.com/lily-lang/lily/pkg/preparser"
)

func TestPackagePathForRootAndSubpackage(t *testing.T) {
	tests := []struct {
		name     string
		nodePath string
		want     string
	}{
		{"root package", "/proj", "demo"},
		{"single-segment subpackage", "/proj/util", "demo.util"},
		{"nested subpackage", "/proj/util/strings", "demo.util.strings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := packagePathFor("demo", "/proj", tt.nodePath)
			if got != tt.want {
				t.Errorf("packagePathFor(%q) = %q, want %q", tt.nodePath, got, tt.want)
			}
		})
	}
}

func TestFlattenSourceNodesVisitsEachNodeOnce(t *testing.T) {
	leaf := &precompiler.PackageNode{Path: "/proj/leaf", Kind: precompiler.PackageSource}
	shared := &precompiler.PackageNode{Path: "/proj/shared", Kind: precompiler.PackageSource, Dependencies: []*precompiler.PackageNode{leaf}}
	root := &precompiler.PackageNode{
		Path:         "/proj",
		Kind:         precompiler.PackageSource,
		Dependencies: []*precompiler.PackageNode{shared, shared}, // diamond: shared reachable twice
	}
	std := &precompiler.PackageNode{Path: "std", Kind: precompiler.PackageStd}
	root.Dependencies = append(root.Dependencies, std)

	forest := precompiler.NewDependencyForest()
	forest.Roots = []*precompiler.PackageNode{root}

	nodes := flattenSourceNodes(forest)
	if len(nodes) != 3 {
		t.Fatalf("flattenSourceNodes returned %d nodes, want 3 (root, shared, leaf, deduped); got %v", len(nodes), nodes)
	}
	if nodes[0] != root {
		t.Errorf("expected root first, got %v", nodes[0].Path)
	}
}

func preparsedPackage(t *testing.T, src string) *precompiler.PackageNode {
	t.Helper()
	_, toks := testkit.MustScan(t, "main.lily", src)
	info := preparser.Run(toks)
	return &precompiler.PackageNode{
		Path:    "/proj",
		Kind:    precompiler.PackageSource,
		Items:   info.Items,
		Macros:  info.Macros,
		Imports: info.Imports,
	}
}

func TestCompilePackageLowersToMIR(t *testing.T) {
	node := preparsedPackage(t, "fun main() -> I64 =\n  return 0i64\nend\n")

	inc, err := cache.OpenIncrementalCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenIncrementalCache: %v", err)
	}
	var mu sync.Mutex

	mod, hit, _, err := compilePackage(node, "demo", inc, &mu)
	if err != nil {
		t.Fatalf("compilePackage returned an error: %v", err)
	}
	if hit {
		t.Error("first build of a package should not be a cache hit")
	}
	if len(mod.Names()) == 0 {
		t.Error("compilePackage produced an empty module for a package defining main")
	}

	// Recompiling the same unchanged content should now report a hit.
	_, hit, _, err = compilePackage(node, "demo", inc, &mu)
	if err != nil {
		t.Fatalf("second compilePackage returned an error: %v", err)
	}
	if !hit {
		t.Error("recompiling unchanged package content should report a cache hit")
	}
}

func TestCompilePackagePropagatesAnalyzerErrors(t *testing.T) {
	node := preparsedPackage(t, "fun main() -> I64 = return undeclared end")

	inc, err := cache.OpenIncrementalCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenIncrementalCache: %v", err)
	}
	var mu sync.Mutex

	_, _, _, err = compilePackage(node, "demo", inc, &mu)
	if err == nil {
		t.Fatal("expected compilePackage to fail on an unknown name")
	}
}

func TestCompilePackageReportsUnusedVariableAsWarningNotError(t *testing.T) {
	node := preparsedPackage(t, "fun main() -> I64 =\n  val unused = 1i64\n  return 0i64\nend\n")

	inc, err := cache.OpenIncrementalCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenIncrementalCache: %v", err)
	}
	var mu sync.Mutex

	mod, _, warnings, err := compilePackage(node, "demo", inc, &mu)
	if err != nil {
		t.Fatalf("an unused variable must not fail compilation: %v", err)
	}
	if len(mod.Names()) == 0 {
		t.Error("compilePackage produced an empty module despite succeeding")
	}
	if len(warnings) != 1 {
		t.Fatalf("expected exactly one warning for the unused variable, got %v", warnings)
	}
}
