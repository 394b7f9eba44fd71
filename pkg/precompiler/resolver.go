// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package precompiler

import (
	"path/filepath"
	"runtime"
	"sync"

	"github.com/lily-lang/lily/pkg/ast"
)

// parallelThreshold is the edge count above which ResolveEdges switches
// from sequential to worker-pool resolution, matching the call-resolver
// this package's concurrency shape is drawn from.
const parallelThreshold = 1000

// Resolver turns import directives into directory paths or virtual
// package roots. Libraries maps a @library(name) identifier to the
// on-disk directory holding its source, as supplied by the project's
// configuration; an entry missing from the table is still a valid
// ImportLibrary directive, just one this core cannot recurse into.
type Resolver struct {
	BaseDir   string
	Libraries map[string]string
}

// NewResolver constructs a Resolver that records baseDir as BaseDir.
// Relative @file(...) literals are resolved against the importing
// package's directory (the edge's FromPath), not against BaseDir.
func NewResolver(baseDir string, libraries map[string]string) *Resolver {
	if libraries == nil {
		libraries = map[string]string{}
	}
	return &Resolver{BaseDir: baseDir, Libraries: libraries}
}

// ResolveEdges resolves every edge, choosing sequential processing for
// small batches to avoid goroutine overhead and a capped worker pool
// for large ones.
func (r *Resolver) ResolveEdges(edges []ImportEdge) []ResolvedEdge {
	if len(edges) < parallelThreshold {
		return r.resolveSequential(edges)
	}
	return r.resolveParallel(edges)
}

func (r *Resolver) resolveSequential(edges []ImportEdge) []ResolvedEdge {
	out := make([]ResolvedEdge, len(edges))
	for i, e := range edges {
		out[i] = r.resolveEdge(e)
	}
	return out
}

func (r *Resolver) resolveParallel(edges []ImportEdge) []ResolvedEdge {
	numWorkers := runtime.NumCPU()
	if numWorkers > 8 {
		numWorkers = 8
	}

	jobs := make(chan int, len(edges))
	out := make([]ResolvedEdge, len(edges))

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = r.resolveEdge(edges[i])
			}
		}()
	}

	for i := range edges {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return out
}

// resolveEdge resolves a single import directive. The index this
// method reads (Libraries) is fixed for the lifetime of a
// Resolver, so concurrent calls from resolveParallel's workers are safe.
func (r *Resolver) resolveEdge(e ImportEdge) ResolvedEdge {
	switch e.Import.Root {
	case ast.ImportStd, ast.ImportCore, ast.ImportSys, ast.ImportBuiltin:
		return ResolvedEdge{FromPath: e.FromPath, Import: e.Import, ToKind: PackageStd}

	case ast.ImportLibrary:
		if dir, ok := r.Libraries[e.Import.LibName]; ok {
			return ResolvedEdge{FromPath: e.FromPath, Import: e.Import, ToPath: dir, ToKind: PackageLibrary}
		}
		return ResolvedEdge{FromPath: e.FromPath, Import: e.Import, ToKind: PackageLibrary}

	case ast.ImportFile:
		dir := e.Import.Literal
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(e.FromPath, dir)
		}
		return ResolvedEdge{FromPath: e.FromPath, Import: e.Import, ToPath: filepath.Clean(dir), ToKind: PackageSource}

	case ast.ImportURL:
		return ResolvedEdge{FromPath: e.FromPath, Import: e.Import, ToKind: PackageURL}

	default:
		return ResolvedEdge{FromPath: e.FromPath, Import: e.Import, Err: "unknown import root"}
	}
}
