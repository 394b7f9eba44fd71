// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/lily-lang/lily/internal/clierr"
	"github.com/lily-lang/lily/internal/config"
	"github.com/lily-lang/lily/pkg/analyzer"
	"github.com/lily-lang/lily/pkg/cache"
	"github.com/lily-lang/lily/pkg/checked"
	"github.com/lily-lang/lily/pkg/mir"
	"github.com/lily-lang/lily/pkg/parser"
	"github.com/lily-lang/lily/pkg/precompiler"
	"github.com/lily-lang/lily/pkg/preparser"
	"github.com/lily-lang/lily/pkg/token"
)

// packageResult is one source package's outcome, collected by
// compileProject's worker pool and merged in dependency order once
// every worker has finished, so the final module's insertion order
// stays deterministic regardless of which goroutine happened to
// finish first.
type packageResult struct {
	node     *precompiler.PackageNode
	pkgPath  string
	module   *mir.Module
	cacheHit bool
	warnings []string
	err      error
}

// buildOutput is everything a successful compileProject run produces.
type buildOutput struct {
	Module      *mir.Module
	PackagesOK  int
	CacheHits   int
	Diagnostics []string
	Warnings    []string
}

// compileProject resolves rootDir's dependency forest and runs every
// source package through parse -> analyze -> MIR lower, one goroutine
// per package capped at cfg.Workers concurrent workers, each blocking
// on its dependencies' done-flags before starting — the same
// leaves-first worker-pool shape the teacher's resolveCallsParallel
// uses for call-edge resolution, generalized here to "compile
// dependency subtrees leaves-first instead of resolving edges".
func compileProject(rootDir string, cfg *config.Project, globals GlobalFlags, bar *progressbar.ProgressBar) (*buildOutput, error) {
	fset := token.NewFileSet()
	pc := precompiler.New(fset, precompiler.FSLoader{}, cfg.Libraries, rootDir)

	forest, cacheDir, err := pc.Run(rootDir)
	if err != nil {
		if len(pc.Errors) > 0 {
			return nil, clierr.NewCompileError(
				"failed to resolve the project's package graph",
				pc.Errors.Error(),
				"check the import directives reported above",
				nil,
			)
		}
		return nil, clierr.NewCompileError("failed to resolve the project's package graph", err.Error(), "check that every imported path exists", err)
	}

	inc, err := cache.OpenIncrementalCache(cacheDir.Path)
	if err != nil {
		return nil, clierr.NewInternalError("failed to open the incremental build cache", err.Error(), "", err)
	}
	var incMu sync.Mutex

	nodes := flattenSourceNodes(forest)
	if bar != nil {
		bar.ChangeMax(len(nodes))
	}

	numWorkers := cfg.Workers
	if numWorkers < 1 {
		numWorkers = runtime.NumCPU()
	}
	sem := make(chan struct{}, numWorkers)

	results := make([]packageResult, len(nodes))
	var wg sync.WaitGroup
	for i, n := range nodes {
		wg.Add(1)
		go func(i int, n *precompiler.PackageNode) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			forest.WaitForDeps(n)
			pkgPath := packagePathFor(cfg.Name, rootDir, n.Path)
			mod, hit, warnings, cerr := compilePackage(n, pkgPath, inc, &incMu)
			results[i] = packageResult{node: n, pkgPath: pkgPath, module: mod, cacheHit: hit, warnings: warnings, err: cerr}
			forest.MarkDone(n)
			if bar != nil {
				_ = bar.Add(1)
			}
		}(i, n)
	}
	wg.Wait()

	if err := inc.Save(); err != nil {
		return nil, clierr.NewInternalError("failed to save the incremental build cache", err.Error(), "", err)
	}

	final := mir.NewModule()
	var diagnostics, warnings []string
	okCount, hitCount := 0, 0
	for _, r := range results {
		if r.err != nil {
			diagnostics = append(diagnostics, fmt.Sprintf("%s: %v", r.node.Path, r.err))
			continue
		}
		for _, name := range r.module.Names() {
			top, _ := r.module.Get(name)
			final.Insert(name, top)
		}
		warnings = append(warnings, r.warnings...)
		okCount++
		if r.cacheHit {
			hitCount++
		}
	}

	if len(diagnostics) > 0 {
		return &buildOutput{Module: final, PackagesOK: okCount, CacheHits: hitCount, Diagnostics: diagnostics, Warnings: warnings}, clierr.NewCompileError(
			fmt.Sprintf("%d of %d packages failed to compile", len(diagnostics), len(nodes)),
			strings.Join(diagnostics, "\n"),
			"fix the errors reported above and rebuild",
			nil,
		)
	}
	return &buildOutput{Module: final, PackagesOK: okCount, CacheHits: hitCount, Warnings: warnings}, nil
}

// compilePackage runs one source package through parse -> analyze ->
// MIR lower. node.Items/Macros/Imports are the precompiler's merged
// preparser output for every file in the package directory, so no
// re-scanning happens here.
//
// inc records whether this package's preparsed content matches the
// last build's, the same "did this input change" question
// checkpoint.go's FileHashes answers for the teacher's ingestion
// pipeline. A hit is reported in buildOutput so a caller can see how
// much of a rebuild was unaffected; it does not yet skip the
// parse/analyze/lower below, since reusing a hit would require a
// persisted MIR artifact this core does not serialize (object
// emission is the LLVM backend's job, per SPEC_FULL.md's non-goals).
func compilePackage(node *precompiler.PackageNode, pkgPath string, inc *cache.IncrementalCache, incMu *sync.Mutex) (*mir.Module, bool, []string, error) {
	digest := packageContentDigest(node)

	incMu.Lock()
	hit := inc.Reusable(pkgPath, digest)
	inc.Record(pkgPath, digest)
	incMu.Unlock()

	info := &preparser.PreparsedInfo{Items: node.Items, Macros: node.Macros, Imports: node.Imports}

	decls, perrs := parser.Run(info)
	if len(perrs) > 0 {
		return nil, hit, nil, perrs
	}

	ops := checked.NewOperatorRegister()
	ops.CopyDefaults(analyzer.DefaultOperators())
	res, aerrs := analyzer.Run(decls, ops, pkgPath)
	if len(aerrs) > 0 {
		return nil, hit, nil, aerrs
	}

	warnings := make([]string, len(res.Warnings))
	for i, w := range res.Warnings {
		warnings[i] = fmt.Sprintf("%s: %s", pkgPath, w.String())
	}

	mod := mir.NewModule()
	if err := mir.Generate(mod, res); err != nil {
		return nil, hit, warnings, err
	}
	return mod, hit, warnings, nil
}

// packageContentDigest hashes a package's preparsed item list so the
// incremental cache can detect an unchanged package without
// re-reading its source files from disk.
func packageContentDigest(node *precompiler.PackageNode) []byte {
	return []byte(fmt.Sprintf("%#v", node.Items))
}

// flattenSourceNodes walks the forest once, depth first, returning
// every distinct PackageSource node in a stable order (roots first,
// each root's dependencies following it) so compileProject's results
// slice always lines up the same way for the same forest.
func flattenSourceNodes(forest *precompiler.DependencyForest) []*precompiler.PackageNode {
	var out []*precompiler.PackageNode
	seen := map[string]bool{}
	var visit func(n *precompiler.PackageNode)
	visit = func(n *precompiler.PackageNode) {
		if n == nil || seen[n.Path] {
			return
		}
		seen[n.Path] = true
		if n.Kind == precompiler.PackageSource {
			out = append(out, n)
		}
		for _, dep := range n.Dependencies {
			visit(dep)
		}
	}
	for _, root := range forest.Roots {
		visit(root)
	}
	return out
}

// packagePathFor derives the dotted package path analyzer.Run
// qualifies every global name under: the project name for the root
// package, extended with the directory's path relative to rootDir for
// every sub-package.
func packagePathFor(projectName, rootDir, nodePath string) string {
	if nodePath == rootDir {
		return projectName
	}
	rel, err := filepath.Rel(rootDir, nodePath)
	if err != nil || rel == "." {
		return projectName
	}
	segments := strings.Split(filepath.ToSlash(rel), "/")
	return projectName + "." + strings.Join(segments, ".")
}
