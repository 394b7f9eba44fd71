// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

// Package main implements lilyc, the command-line driver for the
// Lily front end: it resolves a project's package graph, runs every
// package through scan -> preparse -> parse -> analyze -> MIR lower,
// and hands the resulting *mir.Module off to whichever backend the
// invoked subcommand names (object emission itself is an extension
// point this core does not implement).
//
// Usage:
//
//	lilyc build                 Build the project rooted at the cwd
//	lilyc compile <file>        Build a single entry file
//	lilyc run [args...]         Build then run (execution is an extension point)
//	lilyc test                  Build then run tests (an extension point)
//	lilyc to --cc|--cpp|--js    Emit to a target backend (an extension point)
//	lilyc cc / lilyc cpp        Shorthand for 'to --cc' / 'to --cpp'
//	lilyc init                  Write a lily.yaml in the current directory
//	lilyc new <name>            Scaffold a new project directory
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lily-lang/lily/internal/diag"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GlobalFlags are parsed once in main and threaded into every
// subcommand, the same shape cmd/cie/start.go's GlobalFlags takes.
type GlobalFlags struct {
	ConfigPath string
	JSON       bool
	Quiet      bool
	NoColor    bool
}

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		configPath  = flag.String("config", "lily.yaml", "Path to the project descriptor")
		jsonOut     = flag.Bool("json", false, "Emit diagnostics as JSON")
		quiet       = flag.Bool("q", false, "Suppress progress output")
		noColor     = flag.Bool("no-color", false, "Disable colored output")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `lilyc - the Lily compiler front end

Usage:
  lilyc <command> [options]

Commands:
  build                Build the project rooted at the current directory
  compile <file>       Build a single entry file
  run [args...]        Build, then run (execution is an extension point)
  test                 Build, then run tests (an extension point)
  to --cc|--cpp|--js    Emit to a backend target (an extension point)
  cc                    Shorthand for 'to --cc'
  cpp                   Shorthand for 'to --cpp'
  init                  Write a lily.yaml in the current directory
  new <name>            Scaffold a new project directory

Global Options:
  --config      Path to the project descriptor (default: lily.yaml)
  --json        Emit diagnostics as JSON
  -q            Suppress progress output
  --no-color    Disable colored output
  --version     Show version and exit
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("lilyc version %s (commit %s, built %s)\n", version, commit, date)
		os.Exit(0)
	}

	globals := GlobalFlags{ConfigPath: *configPath, JSON: *jsonOut, Quiet: *quiet || *jsonOut, NoColor: *noColor}
	if *noColor {
		diag.InitColors(true)
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "build":
		runBuild(cmdArgs, globals)
	case "compile":
		runCompile(cmdArgs, globals)
	case "run":
		runRun(cmdArgs, globals)
	case "test":
		runTest(cmdArgs, globals)
	case "to":
		runTo(cmdArgs, globals)
	case "cc":
		runBackendStub(cmdArgs, globals, "cc")
	case "cpp":
		runBackendStub(cmdArgs, globals, "cpp")
	case "init":
		runInit(cmdArgs, globals)
	case "new":
		runNew(cmdArgs, globals)
	default:
		fmt.Fprintf(os.Stderr, "lilyc: unknown command %q\n", command)
		flag.Usage()
		os.Exit(2)
	}
}
