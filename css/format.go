/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package css

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tessellary/cascata/resolver"
)

// banner heads every generated file.
const banner = "/* Generated by cascata. Do not edit. */\n"

// IndexFile is the name of the root aggregation file.
const IndexFile = "index.css"

// Group is one output aggregation: the tokens of all layers assigned to
// it, emitted into a single file. Group order is cascade priority and
// fixes the @import order in the index file.
type Group struct {
	// Name matches the group tag on layers.
	Name string

	// File is the output file name (e.g., "theme.css").
	File string
}

// Input carries everything the formatter needs for one build.
type Input struct {
	// Trees holds the resolved tree per mode.
	Trees map[string]resolver.Resolved

	// Modes is the configured mode order.
	Modes []string

	// DefaultMode renders under :root; every other mode renders under
	// [data-mode="<id>"].
	DefaultMode string

	// Groups is the ordered output aggregation.
	Groups []Group

	// LayerGroups maps layer names to group names.
	LayerGroups map[string]string

	// Prefix is the optional vendor prefix for identifiers.
	Prefix string
}

// OutputFile is one rendered output, with a path relative to the output
// directory.
type OutputFile struct {
	Path    string
	Content []byte
}

// Format renders one CSS file per non-empty group, each containing one
// rule block per mode, plus an index file that @imports the group files
// in cascade order. Output is deterministic: identical input produces
// byte-identical files.
func Format(in Input) []OutputFile {
	var files []OutputFile
	var imports []string

	for _, group := range in.Groups {
		content := formatGroup(in, group)
		if content == nil {
			continue
		}
		files = append(files, OutputFile{Path: group.File, Content: content})
		imports = append(imports, group.File)
	}

	var index strings.Builder
	index.WriteString(banner)
	index.WriteString("\n")
	for _, file := range imports {
		fmt.Fprintf(&index, "@import %q;\n", file)
	}
	files = append(files, OutputFile{Path: IndexFile, Content: []byte(index.String())})

	return files
}

// formatGroup renders one group's file, or nil when no token belongs to
// the group.
func formatGroup(in Input, group Group) []byte {
	idents := groupIdentifiers(in, group.Name)
	if len(idents) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString(banner)

	for _, mode := range modeOrder(in) {
		tree := in.Trees[mode]

		b.WriteString("\n")
		if mode == in.DefaultMode {
			b.WriteString(":root {\n")
		} else {
			fmt.Fprintf(&b, "[data-mode=%q] {\n", mode)
		}
		for _, ident := range idents {
			v := tree[ident.path]
			if v == nil {
				continue
			}
			fmt.Fprintf(&b, "  %s: %s;\n", ident.name, SerializeValue(v.Literal, v.Token.Type))
		}
		b.WriteString("}\n")
	}

	return []byte(b.String())
}

type identEntry struct {
	path string
	name string
}

// groupIdentifiers lists the tokens owned by a group, sorted by
// identifier. A token belongs to the group of the layer that defines it
// in the default mode, so a token never splits across files when a
// mode-scoped layer overrides it.
func groupIdentifiers(in Input, groupName string) []identEntry {
	tree := in.Trees[in.DefaultMode]

	var idents []identEntry
	for path, v := range tree {
		if in.LayerGroups[v.Token.SourceLayer] != groupName {
			continue
		}
		idents = append(idents, identEntry{
			path: path,
			name: Identifier(v.Token.Path, in.Prefix),
		})
	}
	sort.Slice(idents, func(i, j int) bool {
		return idents[i].name < idents[j].name
	})
	return idents
}

// modeOrder returns the default mode first, then the remaining modes in
// configured order.
func modeOrder(in Input) []string {
	order := []string{in.DefaultMode}
	for _, mode := range in.Modes {
		if mode != in.DefaultMode {
			order = append(order, mode)
		}
	}
	return order
}
