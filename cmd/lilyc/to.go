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

// runTo builds the project and reports the requested backend target
// as a documented, unimplemented extension point: pkg/mir.Module is
// the contract a real --cc/--cpp/--js backend would consume, but
// code generation to any specific machine target is explicitly out
// of this core's scope.
func runTo(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("to", flag.ExitOnError)
	toCC := fs.Bool("cc", false, "Emit C source")
	toCPP := fs.Bool("cpp", false, "Emit C++ source")
	toJS := fs.Bool("js", false, "Emit JavaScript source")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lilyc to --cc|--cpp|--js\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(clierr.ExitUsage)
	}

	target := ""
	switch {
	case *toCC:
		target = "cc"
	case *toCPP:
		target = "cpp"
	case *toJS:
		target = "js"
	default:
		clierr.FatalError(clierr.NewUsageError("lilyc to requires exactly one of --cc, --cpp, --js", "", "run 'lilyc to --cc'"), globals.JSON)
	}

	emitExtensionPointNotice(target, globals)
}

func runBackendStub(args []string, globals GlobalFlags, target string) {
	fs := flag.NewFlagSet(target, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lilyc %s\n", target)
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(clierr.ExitUsage)
	}
	emitExtensionPointNotice(target, globals)
}

func emitExtensionPointNotice(target string, globals GlobalFlags) {
	cwd, err := os.Getwd()
	if err != nil {
		clierr.FatalError(clierr.NewInternalError("cannot get current directory", err.Error(), "", err), globals.JSON)
	}
	build(cwd, globals, false)
	diag.Infof("build succeeded; emitting to %q requires a backend this core does not implement (pkg/mir.Module is the contract such a backend would consume)", target)
}
