/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"sort"

	"github.com/tessellary/cascata/cascade"
	"github.com/tessellary/cascata/token"
)

// Graph is the directed reference graph for one mode's tree: an edge
// A -> B exists when token A's raw value references token B's path.
// Built for diagnostics; resolution itself walks the tree directly.
type Graph struct {
	dependencies map[string][]string
	dependents   map[string][]string
}

// BuildGraph builds the reference graph from a composed tree.
func BuildGraph(tree cascade.Tree) *Graph {
	g := &Graph{
		dependencies: make(map[string][]string),
		dependents:   make(map[string][]string),
	}

	for path, t := range tree {
		if t.Raw.Kind != token.Reference {
			continue
		}
		target := t.Raw.TargetPath()
		g.dependencies[path] = append(g.dependencies[path], target)
		g.dependents[target] = append(g.dependents[target], path)
	}

	for _, deps := range g.dependents {
		sort.Strings(deps)
	}
	return g
}

// Dependencies returns the paths the given token references.
func (g *Graph) Dependencies(path string) []string {
	return g.dependencies[path]
}

// Dependents returns the paths that reference the given token, sorted.
func (g *Graph) Dependents(path string) []string {
	return g.dependents[path]
}
