/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	cfs "github.com/tessellary/cascata/fs"
	"github.com/tessellary/cascata/parser"
)

// ConfigFileName is the base name of the config file without extension.
const ConfigFileName = "cascata"

// ConfigDir is the directory where config files are stored.
const ConfigDir = ".config"

// configExtensions are the supported config extensions in priority order.
var configExtensions = []string{".yaml", ".yml", ".json"}

// Load searches for .config/cascata.{yaml,yml,json} from rootDir.
// Returns nil if no config is found (not an error). Loaded configs are
// normalized and validated.
func Load(filesystem cfs.FileSystem, rootDir string) (*Config, error) {
	for _, ext := range configExtensions {
		configPath := filepath.Join(rootDir, ConfigDir, ConfigFileName+ext)
		if !filesystem.Exists(configPath) {
			continue
		}
		return LoadFile(filesystem, configPath)
	}
	return nil, nil
}

// LoadFile loads, normalizes, and validates a config document.
func LoadFile(filesystem cfs.FileSystem, path string) (*Config, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ExpandLayers expands each layer spec's path (resolving globs) into
// parser.Meta entries in cascade order. One glob spec expanding to
// several documents keeps declaration order, with match order fixed by
// the lexical directory walk.
func (c *Config) ExpandLayers(filesystem cfs.FileSystem, rootDir string) ([]parser.Meta, error) {
	var metas []parser.Meta

	for _, spec := range c.Layers {
		paths, err := expandLayerPath(filesystem, rootDir, spec.Path)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", spec.Name, err)
		}
		if len(paths) == 0 {
			return nil, fmt.Errorf("layer %q: no documents match %s", spec.Name, spec.Path)
		}

		for _, path := range paths {
			name := spec.Name
			if len(paths) > 1 {
				name = spec.Name + ":" + baseName(path)
			}
			metas = append(metas, parser.Meta{
				Name:     name,
				Mode:     spec.Mode,
				Group:    spec.Group,
				Position: len(metas),
				Source:   path,
			})
		}
	}

	return metas, nil
}

// SourcePaths returns every document path the config's layers expand to,
// for watch-mode registration.
func (c *Config) SourcePaths(filesystem cfs.FileSystem, rootDir string) ([]string, error) {
	metas, err := c.ExpandLayers(filesystem, rootDir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(metas))
	for _, meta := range metas {
		paths = append(paths, meta.Source)
	}
	return paths, nil
}

// expandLayerPath expands a single layer path which may contain globs.
func expandLayerPath(filesystem cfs.FileSystem, rootDir, pattern string) ([]string, error) {
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(rootDir, pattern)
	}

	if !containsGlob(pattern) {
		return []string{pattern}, nil
	}

	return expandGlob(filesystem, pattern)
}

// containsGlob returns true if the pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// expandGlob expands a glob pattern against the filesystem.
func expandGlob(filesystem cfs.FileSystem, pattern string) ([]string, error) {
	// Walk from the longest non-glob prefix
	baseDir := pattern
	for containsGlob(baseDir) {
		baseDir = filepath.Dir(baseDir)
	}

	relPattern := strings.TrimPrefix(pattern, baseDir)
	relPattern = strings.TrimPrefix(relPattern, string(filepath.Separator))

	var matches []string
	err := fs.WalkDir(filesystem, baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		relPath := strings.TrimPrefix(path, baseDir)
		relPath = strings.TrimPrefix(relPath, string(filepath.Separator))

		if matched, _ := doublestar.Match(relPattern, relPath); matched {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return matches, nil
}
