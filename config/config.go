/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides build configuration for the token pipeline.
// Cascade order and mode membership are configured here, never inferred
// from document content.
package config

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config describes one token build: the layer documents, their cascade
// order (declaration order), the output modes, and the aggregation
// groups.
type Config struct {
	// Prefix is the optional vendor prefix for emitted identifiers.
	Prefix string `yaml:"prefix" json:"prefix"`

	// OutDir is the directory output files are written to.
	OutDir string `yaml:"outDir" json:"outDir"`

	// Modes lists the output modes (e.g., light, dark). The composed
	// tree of every mode must cover the same token paths.
	Modes []string `yaml:"modes" json:"modes"`

	// DefaultMode renders under :root. Defaults to the first mode.
	DefaultMode string `yaml:"defaultMode" json:"defaultMode"`

	// Layers lists the layer documents in cascade order: later entries
	// override earlier ones at the leaf-path level.
	Layers []LayerSpec `yaml:"layers" json:"layers"`

	// Groups controls output aggregation and the index @import order.
	// Layers referencing an undeclared group get one appended in
	// first-seen order.
	Groups []GroupSpec `yaml:"groups" json:"groups"`
}

// LayerSpec describes one layer document. It can be given as a plain
// string path or as an object with overrides.
type LayerSpec struct {
	// Name identifies the layer. Defaults to the path base name.
	Name string `yaml:"name" json:"name"`

	// Path is the document path. Doublestar globs are supported.
	Path string `yaml:"path" json:"path"`

	// Mode tags the layer as mode-scoped. Empty means mode-independent.
	Mode string `yaml:"mode" json:"mode"`

	// Group is the output aggregation group. Defaults to the layer name.
	Group string `yaml:"group" json:"group"`
}

// GroupSpec names an output aggregation group and its file.
type GroupSpec struct {
	Name string `yaml:"name" json:"name"`

	// File is the output file name. Defaults to "<name>.css".
	File string `yaml:"file" json:"file"`
}

// UnmarshalYAML handles both string and object forms for LayerSpec.
func (l *LayerSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		l.Path = node.Value
		return nil
	}

	type rawLayerSpec LayerSpec
	return node.Decode((*rawLayerSpec)(l))
}

// UnmarshalJSON handles both string and object forms for LayerSpec.
func (l *LayerSpec) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		l.Path = s
		return nil
	}

	type rawLayerSpec LayerSpec
	return json.Unmarshal(data, (*rawLayerSpec)(l))
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		OutDir: "css",
		Modes:  []string{"light"},
	}
}

// Normalize fills derived defaults: layer names and groups, the default
// mode, and auto-appended group specs.
func (c *Config) Normalize() {
	if c.OutDir == "" {
		c.OutDir = "css"
	}
	if len(c.Modes) == 0 {
		c.Modes = []string{"light"}
	}
	if c.DefaultMode == "" {
		c.DefaultMode = c.Modes[0]
	}

	for i := range c.Layers {
		layer := &c.Layers[i]
		if layer.Name == "" {
			layer.Name = baseName(layer.Path)
		}
		if layer.Group == "" {
			layer.Group = layer.Name
		}
	}

	declared := make(map[string]bool, len(c.Groups))
	for i := range c.Groups {
		if c.Groups[i].File == "" {
			c.Groups[i].File = c.Groups[i].Name + ".css"
		}
		declared[c.Groups[i].Name] = true
	}
	for _, layer := range c.Layers {
		if !declared[layer.Group] {
			declared[layer.Group] = true
			c.Groups = append(c.Groups, GroupSpec{
				Name: layer.Group,
				File: layer.Group + ".css",
			})
		}
	}
}

// Validate checks the configuration for authoring errors.
func (c *Config) Validate() error {
	if len(c.Layers) == 0 {
		return fmt.Errorf("config: no layers configured")
	}
	for _, layer := range c.Layers {
		if layer.Path == "" {
			return fmt.Errorf("config: layer %q has no path", layer.Name)
		}
		if layer.Mode != "" && !slices.Contains(c.Modes, layer.Mode) {
			return fmt.Errorf("config: layer %q references unknown mode %q", layer.Name, layer.Mode)
		}
	}
	if !slices.Contains(c.Modes, c.DefaultMode) {
		return fmt.Errorf("config: default mode %q is not in modes", c.DefaultMode)
	}
	return nil
}

// baseName extracts a layer name from a document path: the file name
// without extension.
func baseName(path string) string {
	base := path
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}
