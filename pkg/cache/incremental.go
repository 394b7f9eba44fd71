// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lily-lang/lily/internal/pipemetrics"
)

// Manifest is the persisted record of which package produced which
// content hash the last time it was built, letting a later build
// decide whether a package's MIR (and therefore its cached object)
// can be reused verbatim instead of re-lowered. Shaped after
// checkpoint.go's Checkpoint, narrowed to the one field this compiler
// actually needs: a package path to content hash map, the same
// FileHashes idiom generalized from "has this file changed" to "has
// this package changed".
type Manifest struct {
	PackageHashes map[string]string `json:"package_hashes"`
}

// newManifest returns an empty Manifest ready to record hashes into.
func newManifest() *Manifest {
	return &Manifest{PackageHashes: make(map[string]string)}
}

// IncrementalCache decides, package by package, whether a build can
// skip re-lowering and re-emitting and instead reuse what's already
// sitting in an ObjectCache.
type IncrementalCache struct {
	manifestPath string
	manifest     *Manifest
}

// OpenIncrementalCache loads the manifest at "<dir>/manifest.json",
// starting from an empty one if none exists yet (a first build has
// nothing to compare against, the same "no checkpoint exists" case
// LoadCheckpoint treats as non-error).
func OpenIncrementalCache(dir string) (*IncrementalCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create incremental cache dir: %w", err)
	}
	path := filepath.Join(dir, "manifest.json")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &IncrementalCache{manifestPath: path, manifest: newManifest()}, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.PackageHashes == nil {
		m.PackageHashes = make(map[string]string)
	}
	return &IncrementalCache{manifestPath: path, manifest: &m}, nil
}

// Reusable reports whether packagePath's current source content
// hashes to the same value recorded for it in the last saved
// manifest. A true result means the package's cached object (if any)
// in an ObjectCache can stand in for a fresh lowering + emission.
// Every call reports to internal/pipemetrics so the build's overall
// cache hit rate is observable the way every other pipeline stage
// here reports its own counters.
func (c *IncrementalCache) Reusable(packagePath string, content []byte) bool {
	key := normalizePackagePath(packagePath)
	hash := ContentHash(content)

	prev, ok := c.manifest.PackageHashes[key]
	hit := ok && prev == hash
	if hit {
		pipemetrics.IncCacheHit()
	} else {
		pipemetrics.IncCacheMiss()
	}
	return hit
}

// Record stores packagePath's current content hash, to be compared
// against on the next build. Call this after a package has been
// (re)built, whether or not Reusable returned true for it, so a
// package that changed and was rebuilt doesn't keep reporting a
// miss forever.
func (c *IncrementalCache) Record(packagePath string, content []byte) {
	key := normalizePackagePath(packagePath)
	c.manifest.PackageHashes[key] = ContentHash(content)
}

// Forget drops packagePath's recorded hash, forcing the next build to
// treat it as changed regardless of its actual content.
func (c *IncrementalCache) Forget(packagePath string) {
	delete(c.manifest.PackageHashes, normalizePackagePath(packagePath))
}

// Save persists the manifest atomically (temp file + rename), the
// same discipline SaveCheckpoint uses so a build killed mid-write
// never leaves a later build reading a half-written manifest.
func (c *IncrementalCache) Save() error {
	data, err := json.MarshalIndent(c.manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	tmp := c.manifestPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write manifest temp: %w", err)
	}
	if err := os.Rename(tmp, c.manifestPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename manifest: %w", err)
	}
	return nil
}

// Clear removes the manifest file entirely, the incremental-cache
// equivalent of ClearCheckpoint, and resets the in-memory manifest to
// empty so the same IncrementalCache value can keep being used after.
func (c *IncrementalCache) Clear() error {
	if err := os.Remove(c.manifestPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove manifest: %w", err)
	}
	c.manifest = newManifest()
	return nil
}
