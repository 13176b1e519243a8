/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package token provides the design token data model shared by every
// pipeline stage.
package token

import "strings"

// Token represents a single design token definition from one layer.
type Token struct {
	// Path is the hierarchical path to this token
	// (e.g., ["Color", "Base", "Subtle Background", "default"]).
	// Segments may contain spaces and other characters that are not
	// valid in a CSS identifier.
	Path []string

	// Type is the token's declared type (color, dimension, etc.).
	// Informational only; it drives value serialization, never control flow.
	Type string

	// Raw is the parsed raw value: either a literal or a reference.
	Raw RawValue

	// Description is optional documentation for the token.
	Description string

	// SourceLayer is the name of the layer that defined this token.
	SourceLayer string

	// Line is the 0-based line number where this token is defined.
	Line uint32

	// Character is the 0-based character offset where this token is defined.
	Character uint32
}

// DotPath returns the dot-separated path to this token.
func (t *Token) DotPath() string {
	return strings.Join(t.Path, ".")
}

// Layer is an ordered, named collection of tokens with a fixed position
// in the cascade.
type Layer struct {
	// Name identifies the layer in diagnostics and override bookkeeping.
	Name string

	// Mode is the mode this layer belongs to. Empty means the layer is
	// mode-independent and applies to every mode.
	Mode string

	// Group is the output aggregation group this layer's tokens are
	// emitted under (e.g., "theme", "layout").
	Group string

	// Position is the layer's cascade order. Higher positions override
	// lower ones at the leaf-path level.
	Position int

	// Source is the document path the layer was loaded from.
	Source string

	// Tokens are the layer's token definitions. Paths are unique within
	// a single layer; redefinition across layers is the override mechanism.
	Tokens []*Token
}
