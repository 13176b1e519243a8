/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package css_test

import (
	"strings"
	"testing"

	"github.com/tessellary/cascata/css"
	"github.com/tessellary/cascata/resolver"
	"github.com/tessellary/cascata/token"
)

func resolvedValue(path []string, layer, tokenType string, literal any) *resolver.Value {
	return &resolver.Value{
		Token: &token.Token{
			Path:        path,
			Type:        tokenType,
			SourceLayer: layer,
		},
		Literal: literal,
	}
}

// Two modes sharing one token path: the base definition in light, a
// dark-layer override in dark.
func modeInput() css.Input {
	base := resolvedValue([]string{"Color", "Base", "default"}, "theme", "color", "#fff")
	dark := resolvedValue([]string{"Color", "Base", "default"}, "dark", "color", "#000")

	return css.Input{
		Trees: map[string]resolver.Resolved{
			"light": {"Color.Base.default": base},
			"dark":  {"Color.Base.default": dark},
		},
		Modes:       []string{"light", "dark"},
		DefaultMode: "light",
		Groups:      []css.Group{{Name: "theme", File: "theme.css"}},
		LayerGroups: map[string]string{"theme": "theme", "dark": "theme"},
	}
}

func TestFormat_ModeBlocks(t *testing.T) {
	files := css.Format(modeInput())

	if len(files) != 2 {
		t.Fatalf("expected theme.css and index.css, got %d files", len(files))
	}

	theme := string(files[0].Content)
	if files[0].Path != "theme.css" {
		t.Fatalf("expected theme.css first, got %s", files[0].Path)
	}
	if !strings.Contains(theme, ":root {\n  --Color-Base-default: #fff;\n}") {
		t.Errorf("missing :root block:\n%s", theme)
	}
	if !strings.Contains(theme, "[data-mode=\"dark\"] {\n  --Color-Base-default: #000;\n}") {
		t.Errorf("missing dark mode block:\n%s", theme)
	}
	if strings.Index(theme, ":root") > strings.Index(theme, "data-mode") {
		t.Error("default mode block should come first")
	}
}

func TestFormat_IndexImports(t *testing.T) {
	in := modeInput()
	layout := resolvedValue([]string{"Space", "4"}, "layout", "number", float64(10))
	in.Trees["light"]["Space.4"] = layout
	in.Trees["dark"]["Space.4"] = layout
	in.Groups = []css.Group{
		{Name: "theme", File: "theme.css"},
		{Name: "layout", File: "layout.css"},
	}
	in.LayerGroups["layout"] = "layout"

	files := css.Format(in)

	index := string(files[len(files)-1].Content)
	if files[len(files)-1].Path != "index.css" {
		t.Fatalf("expected index.css last, got %s", files[len(files)-1].Path)
	}
	themeAt := strings.Index(index, `@import "theme.css";`)
	layoutAt := strings.Index(index, `@import "layout.css";`)
	if themeAt < 0 || layoutAt < 0 {
		t.Fatalf("index missing imports:\n%s", index)
	}
	if themeAt > layoutAt {
		t.Error("imports must follow cascade priority order")
	}
}

func TestFormat_EmptyGroupOmitted(t *testing.T) {
	in := modeInput()
	in.Groups = append(in.Groups, css.Group{Name: "unused", File: "unused.css"})

	files := css.Format(in)

	for _, f := range files {
		if f.Path == "unused.css" {
			t.Error("empty group should not produce a file")
		}
	}
	index := string(files[len(files)-1].Content)
	if strings.Contains(index, "unused.css") {
		t.Error("index should not import an omitted file")
	}
}

func TestFormat_UnitlessNumbers(t *testing.T) {
	in := modeInput()
	spacing := resolvedValue([]string{"Spacing", "3"}, "theme", "number", float64(10))
	in.Trees["light"]["Spacing.3"] = spacing
	in.Trees["dark"]["Spacing.3"] = spacing

	files := css.Format(in)

	theme := string(files[0].Content)
	if !strings.Contains(theme, "--Spacing-3: 10;") {
		t.Errorf("numeric token should be emitted unitless:\n%s", theme)
	}
	if strings.Contains(theme, "10px") || strings.Contains(theme, "10.0") {
		t.Errorf("numeric token gained a unit or decimals:\n%s", theme)
	}
}

func TestFormat_Deterministic(t *testing.T) {
	first := css.Format(modeInput())
	second := css.Format(modeInput())

	if len(first) != len(second) {
		t.Fatal("file count differs between runs")
	}
	for i := range first {
		if first[i].Path != second[i].Path || string(first[i].Content) != string(second[i].Content) {
			t.Errorf("output differs for %s", first[i].Path)
		}
	}
}

func TestSerializeValue(t *testing.T) {
	cases := []struct {
		name      string
		literal   any
		tokenType string
		expected  string
	}{
		{"color passthrough", "#336699", "color", "#336699"},
		{"whole number unitless", float64(10), "number", "10"},
		{"fractional number", float64(1.5), "number", "1.5"},
		{"int", 700, "fontWeight", "700"},
		{"font family plain", "Inter", "fontFamily", "Inter"},
		{"font family with spaces", "Source Sans Pro", "fontFamily", `"Source Sans Pro"`},
		{"font family already quoted", `"Noto Sans"`, "fontFamily", `"Noto Sans"`},
		{"font family list", []any{"Source Sans Pro", "sans-serif"}, "fontFamily", `"Source Sans Pro", sans-serif`},
		{"plain string", "solid", "strokeStyle", "solid"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := css.SerializeValue(tc.literal, tc.tokenType); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}
