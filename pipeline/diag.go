/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tessellary/cascata/config"
	"github.com/tessellary/cascata/css"
	"github.com/tessellary/cascata/internal/logger"
	"github.com/tessellary/cascata/resolver"
)

// colorProximity is the LAB distance under which two mode variants of a
// color token are considered perceptually identical. An override that
// lands this close to the value it overrides is usually an authoring
// mistake.
const colorProximity = 0.02

var titleCaser = cases.Title(language.English)

// logDiagnostics prints per-token detail for the default mode, grouped
// by top-level path segment, followed by cross-mode color warnings.
func logDiagnostics(cfg *config.Config, resolved map[string]resolver.Resolved, prefix string) {
	tree := resolved[cfg.DefaultMode]

	paths := make([]string, 0, len(tree))
	for path := range tree {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var heading string
	for _, path := range paths {
		v := tree[path]

		if top := titleCaser.String(v.Token.Path[0]); top != heading {
			heading = top
			logger.Info("%s", heading)
		}

		line := fmt.Sprintf("  %s (%s) = %s",
			css.Identifier(v.Token.Path, prefix),
			typeOrDash(v.Token.Type),
			css.SerializeValue(v.Literal, v.Token.Type))
		if len(v.Chain) > 0 {
			line += "  via " + strings.Join(v.Chain, " -> ")
		}
		if swatch := colorSwatch(v); swatch != "" {
			line += "  " + swatch
		}
		logger.Info("%s", line)
	}

	for _, warning := range colorProximityWarnings(cfg, resolved) {
		logger.Warn("%s", warning)
	}
}

func typeOrDash(t string) string {
	if t == "" {
		return "-"
	}
	return t
}

// colorSwatch returns a 24-bit ANSI color block for parseable color
// values.
func colorSwatch(v *resolver.Value) string {
	if v.Token.Type != "color" {
		return ""
	}
	s, ok := v.Literal.(string)
	if !ok {
		return ""
	}
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return ""
	}
	r, g, b, _ := c.RGBA255()
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", r, g, b)
}

// colorProximityWarnings flags color tokens that are overridden in a
// non-default mode yet resolve to a perceptually near-identical color.
func colorProximityWarnings(cfg *config.Config, resolved map[string]resolver.Resolved) []string {
	base := resolved[cfg.DefaultMode]

	var warnings []string
	paths := make([]string, 0, len(base))
	for path := range base {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, mode := range cfg.Modes {
		if mode == cfg.DefaultMode {
			continue
		}
		tree := resolved[mode]
		for _, path := range paths {
			bv, mv := base[path], tree[path]
			if mv == nil || bv.Token.Type != "color" {
				continue
			}
			// Only overridden tokens are interesting; shared
			// definitions are identical by construction.
			if bv.Token == mv.Token {
				continue
			}

			bc, ok1 := parseColorful(bv.Literal)
			mc, ok2 := parseColorful(mv.Literal)
			if !ok1 || !ok2 {
				continue
			}
			if bc.DistanceLab(mc) < colorProximity {
				warnings = append(warnings, fmt.Sprintf(
					"%s: mode %s overrides %s but the colors are nearly identical (%v vs %v)",
					path, mode, cfg.DefaultMode, bv.Literal, mv.Literal))
			}
		}
	}
	return warnings
}

// parseColorful parses a CSS color literal into a colorful.Color.
func parseColorful(literal any) (colorful.Color, bool) {
	s, ok := literal.(string)
	if !ok {
		return colorful.Color{}, false
	}
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return colorful.Color{}, false
	}
	return colorful.Color{R: c.R, G: c.G, B: c.B}, true
}
