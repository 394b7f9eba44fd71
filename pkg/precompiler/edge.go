// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package precompiler

import "github.com/lily-lang/lily/pkg/ast"

// ImportEdge is one unresolved import directive, tagged with the
// directory of the package that declared it.
type ImportEdge struct {
	FromPath string
	Import   *ast.ImportDecl
}

// ResolvedEdge is the outcome of resolving one ImportEdge: the directive
// either names a package directory to recurse into (ToPath set, ToKind
// PackageSource/PackageLibrary) or a virtual root with no on-disk
// package of its own.
type ResolvedEdge struct {
	FromPath string
	Import   *ast.ImportDecl
	ToPath   string
	ToKind   PackageKind
	Err      string // non-empty if the edge could not be resolved
}
