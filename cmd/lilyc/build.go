// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/lily-lang/lily/internal/clierr"
	"github.com/lily-lang/lily/internal/config"
	"github.com/lily-lang/lily/internal/diag"
)

func runBuild(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "Print per-package diagnostics")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lilyc build [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(clierr.ExitUsage)
	}

	cwd, err := os.Getwd()
	if err != nil {
		clierr.FatalError(clierr.NewInternalError("cannot get current directory", err.Error(), "", err), globals.JSON)
	}

	out := build(cwd, globals, *verbose)
	if out.CacheHits > 0 {
		diag.Successf("built %d package(s) (%d unchanged since the last build)", out.PackagesOK, out.CacheHits)
	} else {
		diag.Successf("built %d package(s)", out.PackagesOK)
	}
	reportWarnings(out.Warnings)
	fmt.Printf("%d errors, %d warnings\n", len(out.Diagnostics), len(out.Warnings))
}

// build loads the project descriptor, runs the full package-graph
// pipeline, and exits the process with the matching code on failure
// (clierr.FatalError never returns).
func build(cwd string, globals GlobalFlags, verbose bool) *buildOutput {
	cfg, err := config.Load(globals.ConfigPath)
	if err != nil {
		clierr.FatalError(err, globals.JSON)
	}

	progressCfg := NewProgressConfig(globals)
	bar := NewCompileProgressBar(progressCfg, 1)

	out, err := compileProject(cwd, cfg, globals, bar)
	if err != nil {
		if out != nil {
			if verbose {
				for _, d := range out.Diagnostics {
					diag.Error(d)
				}
			}
			reportWarnings(out.Warnings)
			fmt.Printf("%d errors, %d warnings\n", len(out.Diagnostics), len(out.Warnings))
		}
		clierr.FatalError(err, globals.JSON)
	}
	return out
}

// reportWarnings prints every non-blocking analyzer diagnostic a
// build collected (§7: warnings never block compilation, but a
// developer still needs to see them).
func reportWarnings(warnings []string) {
	for _, w := range warnings {
		diag.Warning(w)
	}
}
