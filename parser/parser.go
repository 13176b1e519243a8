/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package parser loads layer documents into flat token lists.
//
// This stage is purely parse/normalize: references are classified but not
// resolved, and no cross-layer validation happens here.
package parser

// Meta describes the layer a document is parsed into.
type Meta struct {
	// Name identifies the layer in diagnostics.
	Name string

	// Mode is the layer's mode tag. Empty means mode-independent.
	Mode string

	// Group is the output aggregation group for the layer's tokens.
	Group string

	// Position is the layer's cascade order.
	Position int

	// Source is the document path, reported in parse errors.
	Source string
}

// Options configures document parsing.
type Options struct {
	// SkipPositions disables the second AST pass that records line and
	// character positions on each token. Positions only matter for
	// diagnostics, so batch callers can skip the extra parse.
	SkipPositions bool
}
