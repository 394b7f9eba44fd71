// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package precompiler

import (
	"time"

	"github.com/lily-lang/lily/pkg/cache"
)

// CacheDirName is the object-cache directory created alongside a
// project's root package.
const CacheDirName = "out.lily"

// CacheDir is the precompiler's handle onto a project's object cache:
// TryLock/WaitLock/Unlock/ObjectPath delegate straight to pkg/cache's
// BuildLock and ObjectCache, so there is exactly one flock/object-path
// implementation in this module rather than one per caller.
type CacheDir struct {
	Path string

	objects *cache.ObjectCache
	lock    *cache.BuildLock
}

// EnsureCacheDir creates (or reuses) rootDir/out.lily and returns a
// CacheDir ready for TryLock.
func EnsureCacheDir(rootDir string) (*CacheDir, error) {
	path := rootDir + "/" + CacheDirName

	objects, err := cache.NewObjectCache(path)
	if err != nil {
		return nil, err
	}
	lock, err := cache.NewBuildLock(path)
	if err != nil {
		return nil, err
	}
	return &CacheDir{Path: path, objects: objects, lock: lock}, nil
}

// TryLock attempts to acquire the cache directory's exclusive lock
// without blocking. It reports false, not an error, when another
// process already holds it.
func (c *CacheDir) TryLock() (bool, error) {
	return c.lock.TryAcquire()
}

// WaitLock retries TryLock until it succeeds or timeout elapses.
func (c *CacheDir) WaitLock(timeout time.Duration) (bool, error) {
	return c.lock.Wait(timeout)
}

// Unlock releases the cache directory lock.
func (c *CacheDir) Unlock() {
	c.lock.Release()
}

// ObjectPath returns the path an object for the given serialized
// global name would be written to.
func (c *CacheDir) ObjectPath(globalName string) string {
	return c.objects.Path(globalName)
}
