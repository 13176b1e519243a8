/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolver resolves token references into concrete values.
package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tessellary/cascata/cascade"
	"github.com/tessellary/cascata/token"
)

// Value is a fully resolved token: the winning definition plus the final
// literal at the end of its reference chain. The declared Type of the
// referencing token is retained through chains; numeric literals stay
// unitless.
type Value struct {
	// Token is the token definition this value was resolved for.
	Token *token.Token

	// Literal is the final concrete value.
	Literal any

	// Chain lists the dot paths traversed to reach the literal, in
	// order, excluding the token's own path. Empty for direct literals.
	Chain []string
}

// Resolved maps dot-joined paths to resolved values for one mode.
type Resolved map[string]*Value

// mark tracks per-path traversal state during the depth-first walk.
type mark int

const (
	unvisited mark = iota
	inProgress
	done
)

// Resolve resolves every token in the tree, failing on the first error.
// Resolution is a memoized depth-first traversal: O(N + E) for N tokens
// and E reference edges. It performs no I/O.
func Resolve(tree cascade.Tree) (Resolved, error) {
	r := newRun(tree)
	for _, path := range r.paths {
		if _, err := r.resolve(path, nil); err != nil {
			return nil, err
		}
	}
	return r.resolved, nil
}

// ResolveAll resolves every token in the tree, continuing past
// individual failures and collecting every distinct error. This is the
// dry-run path: authors get a complete punch-list instead of the first
// defect. The returned map holds the tokens that did resolve.
func ResolveAll(tree cascade.Tree) (Resolved, []error) {
	r := newRun(tree)
	var errs []error
	for _, path := range r.paths {
		if _, err := r.resolve(path, nil); err != nil {
			if !r.reported[err] {
				r.reported[err] = true
				errs = append(errs, err)
			}
		}
	}
	return r.resolved, errs
}

// run holds the state of one resolution pass.
type run struct {
	tree     cascade.Tree
	paths    []string
	resolved Resolved
	marks    map[string]mark
	failed   map[string]error
	reported map[error]bool
}

func newRun(tree cascade.Tree) *run {
	paths := make([]string, 0, len(tree))
	for path := range tree {
		paths = append(paths, path)
	}
	// Sorted traversal keeps error order deterministic
	sort.Strings(paths)

	return &run{
		tree:     tree,
		paths:    paths,
		resolved: make(Resolved, len(tree)),
		marks:    make(map[string]mark, len(tree)),
		failed:   make(map[string]error),
		reported: make(map[error]bool),
	}
}

// resolve resolves one path depth-first. trail is the chain of paths
// currently in progress, used to report complete cycle sequences.
func (r *run) resolve(path string, trail []string) (*Value, error) {
	if v, ok := r.resolved[path]; ok {
		return v, nil
	}
	if err, ok := r.failed[path]; ok {
		return nil, err
	}

	if r.marks[path] == inProgress {
		return nil, r.cycleError(path, trail)
	}

	t := r.tree[path]
	if t.Raw.Kind == token.Literal {
		v := &Value{Token: t, Literal: t.Raw.Value}
		r.resolved[path] = v
		r.marks[path] = done
		return v, nil
	}

	r.marks[path] = inProgress
	trail = append(trail, path)

	target := t.Raw.TargetPath()
	if _, ok := r.tree[target]; !ok {
		err := fmt.Errorf("%w: %s references %s, which is not defined in this mode",
			token.ErrUnresolvedReference, path, target)
		r.fail(path, err)
		return nil, err
	}

	dep, err := r.resolve(target, trail)
	if err != nil {
		r.fail(path, err)
		return nil, err
	}

	v := &Value{
		Token:   t,
		Literal: dep.Literal,
		Chain:   append([]string{target}, dep.Chain...),
	}
	r.resolved[path] = v
	r.marks[path] = done
	return v, nil
}

func (r *run) fail(path string, err error) {
	r.failed[path] = err
	r.marks[path] = done
}

// cycleError builds an error naming the full cycle sequence, not just
// the two colliding nodes.
func (r *run) cycleError(path string, trail []string) error {
	cycleStart := 0
	for i, p := range trail {
		if p == path {
			cycleStart = i
			break
		}
	}
	cycle := append(append([]string{}, trail[cycleStart:]...), path)
	return fmt.Errorf("%w: %s", token.ErrCircularReference, strings.Join(cycle, " -> "))
}
