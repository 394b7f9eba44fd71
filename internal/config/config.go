// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

// Package config loads and validates a Lily project descriptor
// (lily.yaml), the ambient project configuration lilyc reads before
// it can resolve a single import. Shaped after the teacher's own
// project-config file (cmd/cie/init.go's Config/DefaultConfig/
// SaveConfig trio), narrowed to what a compiler project needs instead
// of an indexing service: a program kind, a cache directory, a
// worker-pool size, the default import-root search paths, and a
// library-dependency name-to-path table.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/lily-lang/lily/internal/clierr"
)

// ProgramKind is what lilyc ultimately links the package graph into.
type ProgramKind string

const (
	KindExecutable ProgramKind = "exe"
	KindStaticLib  ProgramKind = "static-lib"
	KindDynamicLib ProgramKind = "dynamic-lib"
)

// DefaultImportRoots are the search paths every project resolves
// `@std`/`@core`/`@sys`/`@builtin`-prefixed imports against unless a
// project overrides them.
var DefaultImportRoots = map[string]string{
	"@std":     "std",
	"@core":    "core",
	"@sys":     "sys",
	"@builtin": "builtin",
}

// Project is the parsed shape of lily.yaml.
type Project struct {
	Name       string            `yaml:"name"`
	Kind       ProgramKind       `yaml:"kind"`
	CacheDir   string            `yaml:"cache_dir,omitempty"`
	Workers    int               `yaml:"workers,omitempty"`
	ImportRoot map[string]string `yaml:"import_roots,omitempty"`
	Libraries  map[string]string `yaml:"libraries,omitempty"`
}

// DefaultProject returns the configuration a fresh `lilyc init` would
// write, named after the given project name.
func DefaultProject(name string) *Project {
	roots := make(map[string]string, len(DefaultImportRoots))
	for k, v := range DefaultImportRoots {
		roots[k] = v
	}
	return &Project{
		Name:       name,
		Kind:       KindExecutable,
		CacheDir:   "out.lily",
		Workers:    runtime.NumCPU(),
		ImportRoot: roots,
		Libraries:  map[string]string{},
	}
}

// Load reads and validates the project descriptor at path.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, clierr.NewUsageError(
			"cannot read project config",
			err.Error(),
			fmt.Sprintf("run 'lilyc init' to create %s", path),
		)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, clierr.NewUsageError(
			"cannot parse project config",
			err.Error(),
			fmt.Sprintf("check %s for invalid YAML", path),
		)
	}

	applyDefaults(&p)
	if err := validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save writes p to path as YAML, creating the parent directory if
// needed and replacing any existing file atomically.
func Save(p *Project, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal project config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write config temp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// applyDefaults fills in anything Load read as the zero value with
// DefaultProject's values, so a hand-edited lily.yaml that only
// specifies "name" and "kind" still gets a usable cache dir, worker
// count, and import roots.
func applyDefaults(p *Project) {
	def := DefaultProject(p.Name)
	if p.CacheDir == "" {
		p.CacheDir = def.CacheDir
	}
	if p.Workers <= 0 {
		p.Workers = def.Workers
	}
	if p.ImportRoot == nil {
		p.ImportRoot = def.ImportRoot
	} else {
		for k, v := range def.ImportRoot {
			if _, ok := p.ImportRoot[k]; !ok {
				p.ImportRoot[k] = v
			}
		}
	}
	if p.Libraries == nil {
		p.Libraries = map[string]string{}
	}
}

// validate performs the hand-written, struct-tag-free checks this
// module's validation entries all follow: report what's wrong and
// tell the user how to fix it.
func validate(p *Project) error {
	if p.Name == "" {
		return clierr.NewUsageError(
			"project config is missing a name",
			"the \"name\" field is empty",
			"add a \"name: <project>\" field to lily.yaml",
		)
	}
	switch p.Kind {
	case KindExecutable, KindStaticLib, KindDynamicLib:
	default:
		return clierr.NewUsageError(
			"unknown program kind",
			fmt.Sprintf("got %q", p.Kind),
			"set \"kind\" to one of exe, static-lib, dynamic-lib",
		)
	}
	if p.Workers < 1 {
		return clierr.NewUsageError(
			"invalid worker count",
			fmt.Sprintf("got %d", p.Workers),
			"set \"workers\" to a positive integer, or omit it to use the number of CPUs",
		)
	}
	for name, path := range p.Libraries {
		if path == "" {
			return clierr.NewUsageError(
				"library dependency has an empty path",
				fmt.Sprintf("library %q", name),
				"set a filesystem path for every entry under \"libraries\"",
			)
		}
	}
	return nil
}
