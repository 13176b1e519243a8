/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package token

import (
	"regexp"
	"strings"
)

// Kind indicates whether a raw value is a literal or a reference.
type Kind int

const (
	// Literal is a concrete value that resolves to itself.
	Literal Kind = iota

	// Reference points to another token's path: {Color.Brand.primary}
	Reference
)

// RawValue is a token's value as authored, classified at parse time so
// the resolver never re-parses strings during traversal.
type RawValue struct {
	// Kind is the variant tag.
	Kind Kind

	// Value is the literal payload (string or number). Unset for references.
	Value any

	// Target is the referenced token path. Unset for literals.
	Target []string

	// Raw is the original string form, kept for diagnostics.
	Raw string
}

// wholeRefPattern matches values that are exactly one {token.path}
// reference. Embedded references inside longer strings are not supported;
// such values stay literal.
var wholeRefPattern = regexp.MustCompile(`^\{([^{}]+)\}$`)

// ParseValue classifies a raw document value as a literal or a reference.
func ParseValue(v any) RawValue {
	s, ok := v.(string)
	if !ok {
		return RawValue{Kind: Literal, Value: v}
	}

	matches := wholeRefPattern.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return RawValue{Kind: Literal, Value: s, Raw: s}
	}

	return RawValue{
		Kind:   Reference,
		Target: strings.Split(matches[1], "."),
		Raw:    s,
	}
}

// TargetPath returns the dot-separated referenced path.
func (v RawValue) TargetPath() string {
	return strings.Join(v.Target, ".")
}

// IsReference reports whether a string value is a whole-value reference.
func IsReference(s string) bool {
	return wholeRefPattern.MatchString(strings.TrimSpace(s))
}
