/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/tessellary/cascata/cascade"
)

// Cache memoizes resolution results across pipeline runs, keyed by mode
// and a fingerprint of the composed raw tree. Resolution is a pure
// function of its input tree, so a fingerprint hit can reuse the prior
// resolved map wholesale. The pipeline is single-threaded; the cache is
// not safe for concurrent use.
type Cache struct {
	entries map[string]cacheEntry
}

type cacheEntry struct {
	fingerprint uint64
	resolved    Resolved
}

// NewCache creates an empty resolution cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Lookup returns the cached resolution for mode if the tree's
// fingerprint matches the cached run.
func (c *Cache) Lookup(mode string, tree cascade.Tree) (Resolved, bool) {
	entry, ok := c.entries[mode]
	if !ok || entry.fingerprint != Fingerprint(tree) {
		return nil, false
	}
	return entry.resolved, true
}

// Store records the resolution result for mode.
func (c *Cache) Store(mode string, tree cascade.Tree, resolved Resolved) {
	c.entries[mode] = cacheEntry{
		fingerprint: Fingerprint(tree),
		resolved:    resolved,
	}
}

// Fingerprint hashes a composed tree's raw content: paths, declared
// types, winning source layers, and raw values in sorted path order.
// The source layer participates because it decides which output group
// a token is emitted under, even when the value itself is unchanged.
func Fingerprint(tree cascade.Tree) uint64 {
	paths := make([]string, 0, len(tree))
	for path := range tree {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	h := fnv.New64a()
	for _, path := range paths {
		t := tree[path]
		fmt.Fprintf(h, "%s\x00%s\x00%s\x00%d\x00%v\x00%s\x1e",
			path, t.Type, t.SourceLayer, t.Raw.Kind, t.Raw.Value, t.Raw.Raw)
	}
	return h.Sum64()
}
