/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mapfs provides an in-memory filesystem implementation for testing.
package mapfs

import (
	"io/fs"
	"path"
	"strings"
	"testing/fstest"
	"time"
)

// MapFileSystem implements fs.FileSystem using an in-memory fstest.MapFS.
// Builds in tests run against it without touching the real filesystem.
type MapFileSystem struct {
	mapFS   fstest.MapFS
	modTime time.Time
}

// New creates a new in-memory filesystem for testing.
func New() *MapFileSystem {
	return &MapFileSystem{
		mapFS:   make(fstest.MapFS),
		modTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// AddFile adds a file to the in-memory filesystem.
func (mfs *MapFileSystem) AddFile(p string, content string, mode fs.FileMode) {
	mfs.mapFS[mfs.cleanPath(p)] = &fstest.MapFile{
		Data:    []byte(content),
		Mode:    mode,
		ModTime: mfs.modTime,
	}
}

// ReadFile implements fs.FileSystem.
func (mfs *MapFileSystem) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(mfs.mapFS, mfs.cleanPath(name))
}

// WriteFile implements fs.FileSystem.
func (mfs *MapFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	mfs.mapFS[mfs.cleanPath(name)] = &fstest.MapFile{
		Data:    append([]byte(nil), data...),
		Mode:    perm,
		ModTime: mfs.modTime,
	}
	return nil
}

// MkdirAll implements fs.FileSystem. MapFS materializes directories from
// file paths, so this only records an empty marker for the path.
func (mfs *MapFileSystem) MkdirAll(p string, perm fs.FileMode) error {
	p = mfs.cleanPath(p)
	if p == "" || p == "." {
		return nil
	}
	if _, exists := mfs.mapFS[p]; !exists {
		mfs.mapFS[p] = &fstest.MapFile{
			Mode:    perm | fs.ModeDir,
			ModTime: mfs.modTime,
		}
	}
	return nil
}

// Stat implements fs.FileSystem.
func (mfs *MapFileSystem) Stat(name string) (fs.FileInfo, error) {
	return fs.Stat(mfs.mapFS, mfs.cleanPath(name))
}

// Exists implements fs.FileSystem.
func (mfs *MapFileSystem) Exists(p string) bool {
	_, err := fs.Stat(mfs.mapFS, mfs.cleanPath(p))
	return err == nil
}

// Open implements fs.FileSystem.
func (mfs *MapFileSystem) Open(name string) (fs.File, error) {
	return mfs.mapFS.Open(mfs.cleanPath(name))
}

// Files returns the paths of all regular files, for assertions on what
// a build wrote.
func (mfs *MapFileSystem) Files() []string {
	var files []string
	for p, f := range mfs.mapFS {
		if !f.Mode.IsDir() {
			files = append(files, "/"+p)
		}
	}
	return files
}

// cleanPath normalizes a path for fstest.MapFS, which requires unrooted
// slash-separated paths.
func (mfs *MapFileSystem) cleanPath(p string) string {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimPrefix(p, "/")
}
