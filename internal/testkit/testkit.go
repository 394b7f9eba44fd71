// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

// Package testkit provides fixture helpers shared across this
// module's test files: a one-call scan/parse/analyze pipeline for
// single-package tests, and a MapLoader-backed project builder for
// multi-package import-cycle tests. Grounded on the teacher's own
// internal/testing/helpers.go — same t.Helper()/t.Fatalf idiom,
// generalized from seeding a database to driving the compiler
// pipeline.
package testkit

import (
	"testing"

	"github.com/lily-lang/lily/pkg/analyzer"
	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/checked"
	"github.com/lily-lang/lily/pkg/parser"
	"github.com/lily-lang/lily/pkg/precompiler"
	"github.com/lily-lang/lily/pkg/preparser"
	"github.com/lily-lang/lily/pkg/scanner"
	"github.com/lily-lang/lily/pkg/token"
)

// NewSourceFile registers name as a file in a fresh FileSet and
// returns both, so a test can hand the file straight to MustScan
// without repeating the FileSet boilerplate every time.
func NewSourceFile(t *testing.T, name string, content []byte) (*token.FileSet, *token.SourceFile) {
	t.Helper()
	fs := token.NewFileSet()
	f := fs.AddFile(token.NewSourceFile(name, name, content))
	return fs, f
}

// MustScan scans src under name, failing the test immediately on any
// lexical error.
func MustScan(t *testing.T, name, src string) (*token.FileSet, []token.Token) {
	t.Helper()
	fs, f := NewSourceFile(t, name, []byte(src))
	toks, err := scanner.Run(fs, f)
	if err != nil {
		t.Fatalf("scan %s: %v", name, err)
	}
	return fs, toks
}

// MustParse scans and parses src, failing the test on any lexical or
// syntax error.
func MustParse(t *testing.T, name, src string) []ast.Decl {
	t.Helper()
	_, toks := MustScan(t, name, src)
	info := preparser.Run(toks)
	decls, errs := parser.Run(info)
	if len(errs) > 0 {
		t.Fatalf("parse %s: %v", name, errs)
	}
	return decls
}

// DefaultOperatorRegister returns an OperatorRegister pre-populated
// with analyzer.DefaultOperators, the same setup every analyzer test
// in this module repeats.
func DefaultOperatorRegister() *checked.OperatorRegister {
	ops := checked.NewOperatorRegister()
	ops.CopyDefaults(analyzer.DefaultOperators())
	return ops
}

// MustAnalyze scans, parses, and analyzes src as package packagePath,
// failing the test on any error at any stage.
func MustAnalyze(t *testing.T, name, packagePath, src string) *analyzer.Result {
	t.Helper()
	decls := MustParse(t, name, src)
	res, errs := analyzer.Run(decls, DefaultOperatorRegister(), packagePath)
	if len(errs) > 0 {
		t.Fatalf("analyze %s: %v", name, errs)
	}
	return res
}

// GoldenProject builds a precompiler.MapLoader from a package-dir to
// single-file-content map, for tests that need more than one package
// wired together (import resolution, cycle detection, dependency
// forest shape) without touching the filesystem. Each value becomes
// that package's sole source file, named "main.lily" inside that dir.
func GoldenProject(files map[string]string) precompiler.MapLoader {
	loader := make(precompiler.MapLoader, len(files))
	for dir, content := range files {
		loader[dir] = []precompiler.SourceFile{
			{Path: dir + "/main.lily", Content: []byte(content)},
		}
	}
	return loader
}
