// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectCachePutGetRoundTrip(t *testing.T) {
	oc, err := NewObjectCache(t.TempDir())
	require.NoError(t, err)

	require.False(t, oc.Has("main.f"))
	require.NoError(t, oc.Put("main.f", []byte("object bytes")))
	require.True(t, oc.Has("main.f"))

	got, err := oc.Get("main.f")
	require.NoError(t, err)
	require.Equal(t, []byte("object bytes"), got)

	names, err := oc.Names()
	require.NoError(t, err)
	require.Equal(t, []string{"main.f"}, names)

	require.NoError(t, oc.Remove("main.f"))
	require.False(t, oc.Has("main.f"))
}

func TestObjectCacheLongNameHashesPath(t *testing.T) {
	oc, err := NewObjectCache(t.TempDir())
	require.NoError(t, err)

	longName := ""
	for i := 0; i < 30; i++ {
		longName += "main.some_very_long_generic_function_name_"
	}
	path := oc.Path(longName)
	require.Equal(t, ".o", filepath.Ext(path))
	require.Less(t, len(filepath.Base(path)), len(longName))
}

func TestBuildLockExclusion(t *testing.T) {
	dir := t.TempDir()

	a, err := NewBuildLock(dir)
	require.NoError(t, err)
	b, err := NewBuildLock(dir)
	require.NoError(t, err)

	ok, err := a.TryAcquire()
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = b.TryAcquire()
	require.NoError(t, err)
	require.False(t, ok, "a second lock over the same directory must not be acquirable while the first is held")

	info, err := b.Info()
	require.NoError(t, err)
	require.NotNil(t, info)
	require.False(t, b.IsStale(), "the current test process is the lock holder and is not stale")

	a.Release()
	ok, err = b.TryAcquire()
	require.NoError(t, err)
	require.True(t, ok, "releasing a lets b acquire it")
	b.Release()
}

func TestIncrementalCacheReusableTracksContentHash(t *testing.T) {
	dir := t.TempDir()

	ic, err := OpenIncrementalCache(dir)
	require.NoError(t, err)

	require.False(t, ic.Reusable("pkg/foo", []byte("package foo")), "a package never seen before is never reusable")

	ic.Record("pkg/foo", []byte("package foo"))
	require.True(t, ic.Reusable("pkg/foo", []byte("package foo")), "unchanged content since the last record must be reusable")
	require.False(t, ic.Reusable("pkg/foo", []byte("package foo changed")), "changed content must not be reusable")

	require.NoError(t, ic.Save())

	reopened, err := OpenIncrementalCache(dir)
	require.NoError(t, err)
	require.True(t, reopened.Reusable("pkg/foo", []byte("package foo")), "a saved manifest must survive being reopened")

	reopened.Forget("pkg/foo")
	require.False(t, reopened.Reusable("pkg/foo", []byte("package foo")))

	require.NoError(t, reopened.Clear())
	require.False(t, reopened.Reusable("pkg/foo", []byte("package foo")))
}

func TestContentHashIsDeterministic(t *testing.T) {
	a := ContentHash([]byte("same input"))
	b := ContentHash([]byte("same input"))
	require.Equal(t, a, b)
	require.NotEqual(t, a, ContentHash([]byte("different input")))
}
