/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cascade merges ordered token layers into one tree per mode.
package cascade

import (
	"fmt"
	"sort"

	"github.com/tessellary/cascata/token"
)

// Tree maps dot-joined token paths to the winning token definition for
// one mode. Trees are built fresh per pipeline run and never mutated
// after composition.
type Tree map[string]*token.Token

// Compose selects the layers applicable to mode and folds them
// left-to-right in cascade order. For each path the token from the layer
// with the highest position wins outright; there is no partial merging
// of a single value from multiple layers.
func Compose(layers []*token.Layer, mode string) Tree {
	applicable := Applicable(layers, mode)

	tree := make(Tree)
	for _, layer := range applicable {
		for _, t := range layer.Tokens {
			tree[t.DotPath()] = t
		}
	}
	return tree
}

// Applicable returns the layers that participate in the given mode's
// cascade, sorted by position. Mode-independent layers always apply;
// mode-tagged layers apply only when their tag matches.
func Applicable(layers []*token.Layer, mode string) []*token.Layer {
	applicable := make([]*token.Layer, 0, len(layers))
	for _, layer := range layers {
		if layer.Mode == "" || layer.Mode == mode {
			applicable = append(applicable, layer)
		}
	}
	sort.SliceStable(applicable, func(i, j int) bool {
		return applicable[i].Position < applicable[j].Position
	})
	return applicable
}

// CheckCoverage verifies that every mode's tree covers the same path set.
// A path present in one mode but missing in another is a token-authoring
// defect, not a valid partial-theming scenario. Returns one error per
// missing (path, mode) pair, wrapping token.ErrModeCoverage, in
// deterministic order.
func CheckCoverage(trees map[string]Tree) []error {
	modes := make([]string, 0, len(trees))
	for mode := range trees {
		modes = append(modes, mode)
	}
	sort.Strings(modes)

	union := map[string][]string{} // path -> modes that define it
	for _, mode := range modes {
		for path := range trees[mode] {
			union[path] = append(union[path], mode)
		}
	}

	paths := make([]string, 0, len(union))
	for path := range union {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var errs []error
	for _, path := range paths {
		defined := union[path]
		if len(defined) == len(modes) {
			continue
		}
		definedSet := make(map[string]bool, len(defined))
		for _, mode := range defined {
			definedSet[mode] = true
		}
		for _, mode := range modes {
			if !definedSet[mode] {
				errs = append(errs, fmt.Errorf(
					"%w: %s is defined in mode %s but missing from mode %s",
					token.ErrModeCoverage, path, defined[0], mode))
			}
		}
	}
	return errs
}
