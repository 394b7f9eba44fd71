// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/lily-lang/lily/internal/clierr"
	"github.com/lily-lang/lily/internal/diag"
)

// runRun builds the project, then reports that executing the
// resulting MIR module is an extension point this core does not
// implement — running a program requires either the LLVM backend or
// an interpreter over mir.Module, both explicitly out of scope.
func runRun(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "Print per-package diagnostics")
	maxStack := fs.String("max-stack-capacity", "", "Stack size limit for the running program (e.g. 8M)")
	maxHeap := fs.String("max-heap-capacity", "", "Heap size limit for the running program (e.g. 256M)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lilyc run [options] [-- program-args...]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(clierr.ExitUsage)
	}
	_, _ = maxStack, maxHeap // accepted for CLI-surface parity; consumed once a runtime exists

	cwd, err := os.Getwd()
	if err != nil {
		clierr.FatalError(clierr.NewInternalError("cannot get current directory", err.Error(), "", err), globals.JSON)
	}
	build(cwd, globals, *verbose)

	diag.Info("build succeeded; running a Lily program requires a backend (LLVM object emission or an interpreter over pkg/mir.Module), which this core does not implement")
}
