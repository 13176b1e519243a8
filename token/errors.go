/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package token

import "errors"

// Sentinel errors for the compilation pipeline. Stage errors wrap these
// with %w plus the offending paths so callers can classify with errors.Is.
var (
	// ErrMalformedDocument indicates a source document could not be parsed
	// into the token structure.
	ErrMalformedDocument = errors.New("malformed token document")

	// ErrUnresolvedReference indicates a reference points to a path absent
	// from the merged mode tree.
	ErrUnresolvedReference = errors.New("unresolved token reference")

	// ErrCircularReference indicates a reference chain loops back on itself.
	ErrCircularReference = errors.New("circular token reference")

	// ErrIdentifierCollision indicates two distinct token paths sanitize to
	// the same CSS custom property name.
	ErrIdentifierCollision = errors.New("identifier collision")

	// ErrModeCoverage indicates a path resolved in one mode is absent from
	// another mode's tree.
	ErrModeCoverage = errors.New("mode coverage mismatch")
)
