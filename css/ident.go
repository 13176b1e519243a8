/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package css renders resolved token trees as CSS custom properties.
package css

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tessellary/cascata/cascade"
	"github.com/tessellary/cascata/token"
)

// Identifier converts a token path into a CSS custom property name.
// Per segment: runs of whitespace become a single hyphen, any character
// outside [A-Za-z0-9-_] becomes a hyphen, consecutive hyphens collapse,
// and leading/trailing hyphens are stripped. Segments that sanitize to
// nothing are dropped. The function is total: the result always matches
// ^--[A-Za-z0-9_-]+$.
func Identifier(path []string, prefix string) string {
	segments := make([]string, 0, len(path)+1)
	if prefix != "" {
		if p := sanitizeSegment(prefix); p != "" {
			segments = append(segments, p)
		}
	}
	for _, segment := range path {
		if s := sanitizeSegment(segment); s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return "--token"
	}
	return "--" + strings.Join(segments, "-")
}

// sanitizeSegment maps one path segment to identifier-safe text.
func sanitizeSegment(segment string) string {
	var b strings.Builder
	b.Grow(len(segment))

	lastHyphen := false
	for _, r := range segment {
		valid := r == '_' ||
			(r >= 'A' && r <= 'Z') ||
			(r >= 'a' && r <= 'z') ||
			(r >= '0' && r <= '9')

		switch {
		case valid:
			b.WriteRune(r)
			lastHyphen = false
		case lastHyphen:
			// whitespace, punctuation, and authored hyphen runs all
			// collapse to one separator
		default:
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.Trim(b.String(), "-")
}

// CheckCollisions verifies that no two distinct token paths sanitize to
// the same identifier across the given mode trees. Collisions silently
// overwrite one token's output with another's, so they are fatal.
// Returns one error per colliding pair, wrapping
// token.ErrIdentifierCollision, in deterministic order.
func CheckCollisions(trees map[string]cascade.Tree, prefix string) []error {
	// Coverage checking guarantees every mode shares one path set, but
	// collisions are checked across the union regardless.
	byPath := map[string][]string{}
	for _, tree := range trees {
		for path, t := range tree {
			if _, ok := byPath[path]; !ok {
				byPath[path] = t.Path
			}
		}
	}

	paths := make([]string, 0, len(byPath))
	for path := range byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var errs []error
	owner := map[string]string{} // identifier -> first claiming dot path
	for _, path := range paths {
		ident := Identifier(byPath[path], prefix)
		if prior, taken := owner[ident]; taken {
			errs = append(errs, fmt.Errorf("%w: %s and %s both sanitize to %s",
				token.ErrIdentifierCollision, prior, path, ident))
			continue
		}
		owner[ident] = path
	}
	return errs
}
