// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lily.yaml")

	want := DefaultProject("demo")
	want.Libraries["widgets"] = "../widgets"

	require.NoError(t, Save(want, path))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want.Name, got.Name)
	require.Equal(t, want.Kind, got.Kind)
	require.Equal(t, want.CacheDir, got.CacheDir)
	require.Equal(t, want.Workers, got.Workers)
	require.Equal(t, "../widgets", got.Libraries["widgets"])
	require.Equal(t, "std", got.ImportRoot["@std"])
}

func TestLoadFillsMissingDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lily.yaml")
	require.NoError(t, Save(&Project{Name: "demo", Kind: KindExecutable}, path))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "out.lily", got.CacheDir)
	require.Positive(t, got.Workers)
	require.Equal(t, "core", got.ImportRoot["@core"])
}

func TestLoadRejectsUnknownKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lily.yaml")
	require.NoError(t, Save(&Project{Name: "demo", Kind: "bogus"}, path))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMissingName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lily.yaml")
	require.NoError(t, Save(&Project{Kind: KindExecutable}, path))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
