// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

// Package precompiler resolves a root package's import graph into a
// dependency forest ready for concurrent parsing: every import
// directive is resolved to a sub-package, a library, or a standard
// library root, cycles are rejected, and the on-disk object cache
// directory is prepared.
package precompiler

import (
	"fmt"

	"github.com/lily-lang/lily/internal/pipemetrics"
	"github.com/lily-lang/lily/pkg/preparser"
	"github.com/lily-lang/lily/pkg/scanner"
	"github.com/lily-lang/lily/pkg/token"
)

// Precompiler walks a root package's import graph, single-threaded,
// building the dependency forest concurrent back-end stages then
// consume. It is not safe for concurrent use; the front end runs on
// one driver thread.
type Precompiler struct {
	FileSet  *token.FileSet
	Loader   Loader
	Resolver *Resolver

	inProgress map[string]bool
	resolved   map[string]*PackageNode
	virtual    map[string]*PackageNode // memoized std/library/url leaves, keyed by a synthetic name
	Errors     ErrorList
}

// New constructs a Precompiler over loader, resolving @library(name)
// directives against libraries (name -> source directory).
func New(fset *token.FileSet, loader Loader, libraries map[string]string, rootDir string) *Precompiler {
	return &Precompiler{
		FileSet:    fset,
		Loader:     loader,
		Resolver:   NewResolver(rootDir, libraries),
		inProgress: map[string]bool{},
		resolved:   map[string]*PackageNode{},
		virtual:    map[string]*PackageNode{},
	}
}

// Run resolves rootDir's full dependency graph and prepares the cache
// directory. It implements the five precompiler steps: resolve each
// import, register the dependency, detect cycles, build the forest,
// and create/reuse the output cache directory.
func (p *Precompiler) Run(rootDir string) (*DependencyForest, *CacheDir, error) {
	root, err := p.resolvePackage(rootDir)
	if err != nil {
		return nil, nil, err
	}

	cache, err := EnsureCacheDir(rootDir)
	if err != nil {
		return nil, nil, err
	}

	forest := NewDependencyForest()
	forest.Roots = []*PackageNode{root}
	return forest, cache, p.Errors.Err()
}

// resolvePackage loads, preparses, and links one package directory,
// recursing into its source-backed dependencies. It memoizes on dir so
// a diamond-shaped import graph produces one shared node, not a copy
// per importer.
func (p *Precompiler) resolvePackage(dir string) (*PackageNode, error) {
	if n, ok := p.resolved[dir]; ok {
		return n, nil
	}
	if p.inProgress[dir] {
		pipemetrics.IncImportCycles()
		p.Errors.Add(token.Location{}, fmt.Sprintf("import cycle detected at package %q", dir))
		return nil, fmt.Errorf("precompiler: import cycle at %q", dir)
	}
	p.inProgress[dir] = true
	defer delete(p.inProgress, dir)

	files, err := p.Loader.LoadPackage(dir)
	if err != nil {
		return nil, fmt.Errorf("precompiler: load package %q: %w", dir, err)
	}

	merged, err := p.preparseFiles(files)
	if err != nil {
		return nil, err
	}

	node := &PackageNode{
		Path:    dir,
		Kind:    PackageSource,
		Items:   merged.Items,
		Macros:  merged.Macros,
		Imports: merged.Imports,
	}

	edges := make([]ImportEdge, len(merged.Imports))
	for i, imp := range merged.Imports {
		edges[i] = ImportEdge{FromPath: dir, Import: imp}
	}
	resolved := p.Resolver.ResolveEdges(edges)
	pipemetrics.AddImportsResolved(len(resolved))

	seen := map[string]bool{}
	for _, e := range resolved {
		if e.Err != "" {
			p.Errors.Add(e.Import.Loc(), e.Err)
			continue
		}

		dep, err := p.resolveDependency(e)
		if err != nil {
			return nil, err
		}
		if seen[dep.Path] {
			continue
		}
		seen[dep.Path] = true
		node.Dependencies = append(node.Dependencies, dep)
	}

	// Registered only now that every dependency has resolved without
	// hitting dir again; a genuine cycle is instead caught above, while
	// this node is still in the in-progress set.
	p.resolved[dir] = node
	return node, nil
}

// resolveDependency turns one resolved edge into a PackageNode, either
// by recursing (PackageSource) or by returning a memoized virtual leaf
// that is already done (PackageStd/PackageLibrary/PackageURL).
func (p *Precompiler) resolveDependency(e ResolvedEdge) (*PackageNode, error) {
	switch e.ToKind {
	case PackageSource:
		return p.resolvePackage(e.ToPath)

	case PackageLibrary:
		if e.ToPath != "" {
			return p.resolvePackage(e.ToPath)
		}
		key := "library:" + e.Import.LibName
		return p.virtualNode(key, PackageLibrary), nil

	case PackageStd:
		key := "std:" + e.Import.Root.String()
		return p.virtualNode(key, PackageStd), nil

	case PackageURL:
		key := "url:" + e.Import.Literal
		return p.virtualNode(key, PackageURL), nil

	default:
		pipemetrics.IncImportCycles()
		return nil, fmt.Errorf("precompiler: unresolved import kind for %q", e.FromPath)
	}
}

// virtualNode returns the memoized node standing in for an import root
// this core never recurses into. It is created already done: there is
// no parsing work a back-end worker could perform on it.
func (p *Precompiler) virtualNode(key string, kind PackageKind) *PackageNode {
	if n, ok := p.virtual[key]; ok {
		return n
	}
	n := &PackageNode{Path: key, Kind: kind, IsDone: true}
	p.virtual[key] = n
	return n
}

// preparseFiles scans and preparses every file in a package directory
// and merges the results into a single PreparsedInfo, the unit the
// precompiler and, later, the parser operate on.
func (p *Precompiler) preparseFiles(files []SourceFile) (*preparser.PreparsedInfo, error) {
	merged := &preparser.PreparsedInfo{Macros: preparser.NewMacroStore()}

	for _, sf := range files {
		srcFile := p.FileSet.AddFile(token.NewSourceFile(sf.Path, sf.Path, sf.Content))
		toks, err := scanner.Run(p.FileSet, srcFile)
		if err != nil {
			return nil, fmt.Errorf("precompiler: scan %q: %w", sf.Path, err)
		}

		info := preparser.Run(toks)
		merged.Items = append(merged.Items, info.Items...)
		merged.Imports = append(merged.Imports, info.Imports...)
		merged.Errors = append(merged.Errors, info.Errors...)
		for name, m := range info.Macros.Public {
			merged.Macros.Define(&preparser.Macro{Name: name, Params: m.Params, Body: m.Body, Pub: true, Loc: m.Loc})
		}
		for name, m := range info.Macros.Private {
			merged.Macros.Define(&preparser.Macro{Name: name, Params: m.Params, Body: m.Body, Pub: false, Loc: m.Loc})
		}
	}

	if len(merged.Errors) > 0 {
		for _, e := range merged.Errors {
			p.Errors.Add(e.Loc, e.Msg)
		}
	}

	return merged, nil
}
