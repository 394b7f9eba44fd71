// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package precompiler

import (
	"os"
	"path/filepath"
	"sort"
)

// SourceFile is a single .lily file handed to the scanner.
type SourceFile struct {
	Path    string
	Content []byte
}

// Loader reads the member files of a package directory. FSLoader is the
// production implementation; tests substitute an in-memory loader.
type Loader interface {
	LoadPackage(dir string) ([]SourceFile, error)
}

// FSLoader reads *.lily files directly from disk.
type FSLoader struct{}

func (FSLoader) LoadPackage(dir string) ([]SourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".lily" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	files := make([]SourceFile, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, SourceFile{Path: path, Content: content})
	}
	return files, nil
}

// MapLoader serves packages from an in-memory directory->files table.
type MapLoader map[string][]SourceFile

func (m MapLoader) LoadPackage(dir string) ([]SourceFile, error) {
	return m[dir], nil
}
