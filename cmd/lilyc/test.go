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

// runTest builds the project, then reports that running tests past
// that point is the same extension point running a program is: it
// needs a backend this core does not implement.
func runTest(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("test", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "Print per-package diagnostics")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lilyc test [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(clierr.ExitUsage)
	}

	cwd, err := os.Getwd()
	if err != nil {
		clierr.FatalError(clierr.NewInternalError("cannot get current directory", err.Error(), "", err), globals.JSON)
	}
	build(cwd, globals, *verbose)

	diag.Info("build succeeded; running tests requires a backend this core does not implement")
}
