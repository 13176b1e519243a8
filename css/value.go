/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package css

import (
	"fmt"
	"strconv"
	"strings"
)

// SerializeValue renders a resolved literal as CSS declaration text.
// Colors and plain strings pass through as-is. Numeric values are
// emitted unitless, so the same token can be reused across unit
// contexts via calc(var(--x) * 1px). Font family lists are joined with
// commas, quoting names that contain spaces.
func SerializeValue(literal any, tokenType string) string {
	switch v := literal.(type) {
	case string:
		if tokenType == "fontFamily" {
			return quoteFontFamily(v)
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, SerializeValue(item, tokenType))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// quoteFontFamily quotes a font family name when it contains spaces and
// is not already quoted.
func quoteFontFamily(name string) string {
	if !strings.Contains(name, " ") {
		return name
	}
	if strings.HasPrefix(name, `"`) || strings.HasPrefix(name, "'") {
		return name
	}
	return `"` + name + `"`
}
