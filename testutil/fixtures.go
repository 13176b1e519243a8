/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package testutil provides testing utilities for cascata.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/tessellary/cascata/internal/mapfs"
)

// NewFixtureFS loads fixture files from testdata and returns a
// MapFileSystem with the files mapped under rootPath.
func NewFixtureFS(t *testing.T, fixtureDir string, rootPath string) *mapfs.MapFileSystem {
	t.Helper()

	fixturePath := filepath.Join("testdata", fixtureDir)
	if _, err := os.Stat(fixturePath); err != nil {
		t.Fatalf("could not find fixtures at %s: %v", fixturePath, err)
	}

	mfs := mapfs.New()
	err := filepath.WalkDir(fixturePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(fixturePath, path)
		if err != nil {
			return err
		}
		mfs.AddFile(filepath.Join(rootPath, relPath), string(content), 0o644)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to load fixtures from %s: %v", fixturePath, err)
	}

	return mfs
}
