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
	"github.com/lily-lang/lily/internal/config"
	"github.com/lily-lang/lily/internal/diag"
)

// runInit writes a lily.yaml in the current directory, the same
// "create the project descriptor" role the teacher's 'cie init'
// plays for .cie/project.yaml.
func runInit(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing lily.yaml")
	projectName := fs.String("name", "", "Project name (default: the directory name)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lilyc init [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(clierr.ExitUsage)
	}

	cwd, err := os.Getwd()
	if err != nil {
		clierr.FatalError(clierr.NewInternalError("cannot get current directory", err.Error(), "", err), globals.JSON)
	}

	path := filepath.Join(cwd, "lily.yaml")
	if _, err := os.Stat(path); err == nil && !*force {
		clierr.FatalError(clierr.NewUsageError(
			fmt.Sprintf("%s already exists", path),
			"",
			"pass --force to overwrite it",
		), globals.JSON)
	}

	name := *projectName
	if name == "" {
		name = filepath.Base(cwd)
	}

	if err := config.Save(config.DefaultProject(name), path); err != nil {
		clierr.FatalError(clierr.NewInternalError("cannot write lily.yaml", err.Error(), "", err), globals.JSON)
	}
	diag.Successf("created %s", path)
}

// runNew scaffolds a new project directory: a lily.yaml and a starter
// main.lily under name/.
func runNew(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lilyc new <name>\n")
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(clierr.ExitUsage)
	}
	if fs.NArg() != 1 {
		clierr.FatalError(clierr.NewUsageError("expected exactly one project name", fmt.Sprintf("got %d arguments", fs.NArg()), "run 'lilyc new <name>'"), globals.JSON)
	}
	name := fs.Arg(0)

	if err := os.Mkdir(name, 0o750); err != nil {
		clierr.FatalError(clierr.NewInternalError("cannot create project directory", err.Error(), "", err), globals.JSON)
	}

	cfgPath := filepath.Join(name, "lily.yaml")
	if err := config.Save(config.DefaultProject(name), cfgPath); err != nil {
		clierr.FatalError(clierr.NewInternalError("cannot write lily.yaml", err.Error(), "", err), globals.JSON)
	}

	mainPath := filepath.Join(name, "main.lily")
	starter := "fun main() -> I64 =\n  return 0i64\nend\n"
	if err := os.WriteFile(mainPath, []byte(starter), 0o644); err != nil {
		clierr.FatalError(clierr.NewInternalError("cannot write main.lily", err.Error(), "", err), globals.JSON)
	}

	diag.Successf("created %s", name)
}
