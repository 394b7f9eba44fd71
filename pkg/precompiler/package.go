// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package precompiler

import (
	"sync"

	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/preparser"
)

// PackageKind distinguishes a package backed by source on disk from a
// virtual package standing in for a standard-library root, a library
// dependency, or a network-fetched URL import that this core does not
// itself recurse into.
type PackageKind int

const (
	PackageSource PackageKind = iota
	PackageStd
	PackageLibrary
	PackageURL
)

// PackageNode is one node of the dependency forest. For a PackageSource
// node, Items/Macros come from merging every file in the directory
// through the scanner and preparser. A node's Dependencies are resolved
// before the node itself is handed to a worker.
type PackageNode struct {
	Path         string
	Kind         PackageKind
	Items        []preparser.PreparsedItem
	Macros       *preparser.MacroStore
	Imports      []*ast.ImportDecl
	Dependencies []*PackageNode

	IsDone bool
}

// DependencyForest is the set of trees produced by a precompiler Run.
// Per the single-mutex discipline of the worker handoff, one lock and
// one condition variable guard every node's IsDone flag in the forest,
// rather than a lock per node.
type DependencyForest struct {
	Roots []*PackageNode

	mu   sync.Mutex
	cond *sync.Cond
}

// NewDependencyForest returns an empty forest ready for MarkDone/WaitForDeps.
func NewDependencyForest() *DependencyForest {
	f := &DependencyForest{}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// MarkDone sets n.IsDone and wakes every worker blocked in WaitForDeps.
func (f *DependencyForest) MarkDone(n *PackageNode) {
	f.mu.Lock()
	n.IsDone = true
	f.mu.Unlock()
	f.cond.Broadcast()
}

// WaitForDeps blocks the calling worker until every dependency of n has
// been marked done. This is the only suspension point a worker has;
// once it returns, the worker runs parser -> analyzer -> MIR without
// yielding.
func (f *DependencyForest) WaitForDeps(n *PackageNode) {
	for _, dep := range n.Dependencies {
		f.mu.Lock()
		for !dep.IsDone {
			f.cond.Wait()
		}
		f.mu.Unlock()
	}
}
