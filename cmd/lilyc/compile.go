// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/lily-lang/lily/internal/clierr"
	"github.com/lily-lang/lily/internal/diag"
)

// runCompile builds a single entry file's containing package, rather
// than the whole project graph build walks.
func runCompile(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "Print per-package diagnostics")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lilyc compile <file> [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(clierr.ExitUsage)
	}
	if fs.NArg() != 1 {
		clierr.FatalError(clierr.NewUsageError("expected exactly one entry file", fmt.Sprintf("got %d arguments", fs.NArg()), "run 'lilyc compile <file>'"), globals.JSON)
	}

	entry := fs.Arg(0)
	dir := filepath.Dir(entry)
	out := build(dir, globals, *verbose)
	diag.Successf("compiled %s (%d package(s))", entry, out.PackagesOK)
}
