/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/tessellary/cascata/fs"
	"github.com/tessellary/cascata/token"
)

// ParseLayer parses a JSON or YAML layer document into a token.Layer.
// JSON documents may contain comments and trailing commas.
func ParseLayer(data []byte, meta Meta, opts Options) (*token.Layer, error) {
	var raw map[string]any
	var positionData []byte

	if isLikelyJSON(data) {
		cleanJSON := jsonc.ToJSON(data)
		if err := json.Unmarshal(cleanJSON, &raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", token.ErrMalformedDocument, meta.Source, err)
		}
		positionData = cleanJSON
	} else {
		var yamlRaw any
		if err := yaml.Unmarshal(data, &yamlRaw); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", token.ErrMalformedDocument, meta.Source, err)
		}
		// YAML numeric keys produce map[any]any
		normalized := normalizeMap(yamlRaw)
		var ok bool
		raw, ok = normalized.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: document root must be an object", token.ErrMalformedDocument, meta.Source)
		}
		positionData = data
	}

	layer := &token.Layer{
		Name:     meta.Name,
		Mode:     meta.Mode,
		Group:    meta.Group,
		Position: meta.Position,
		Source:   meta.Source,
	}
	extractTokens(raw, nil, "", meta.Name, &layer.Tokens)

	if !opts.SkipPositions {
		if err := addPositions(positionData, layer.Tokens); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", token.ErrMalformedDocument, meta.Source, err)
		}
	}

	return layer, nil
}

// ParseLayerFile reads and parses a layer document from the filesystem.
func ParseLayerFile(filesystem fs.FileSystem, meta Meta, opts Options) (*token.Layer, error) {
	data, err := filesystem.ReadFile(meta.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to read layer %s: %w", meta.Name, err)
	}
	return ParseLayer(data, meta, opts)
}

// isLikelyJSON checks if data appears to be JSON rather than YAML.
// JSON documents start with '{' (optionally preceded by whitespace/BOM).
func isLikelyJSON(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case 0xEF, 0xBB, 0xBF: // UTF-8 BOM
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}

// normalizeMap recursively converts map[any]any to map[string]any.
func normalizeMap(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			x[k] = normalizeMap(val)
		}
		return x
	case map[any]any:
		result := make(map[string]any, len(x))
		for k, val := range x {
			result[fmt.Sprintf("%v", k)] = normalizeMap(val)
		}
		return result
	case []any:
		for i, val := range x {
			x[i] = normalizeMap(val)
		}
		return x
	default:
		return v
	}
}

// extractTokens recursively extracts tokens from a parsed document map.
// inheritedType is passed down from enclosing groups for $type inheritance.
func extractTokens(data map[string]any, path []string, inheritedType, layerName string, result *[]*token.Token) {
	currentType := inheritedType
	if groupType, ok := data["$type"].(string); ok {
		currentType = groupType
	}

	// Sorted keys keep extraction order deterministic
	keys := make([]string, 0, len(data))
	for k := range data {
		if strings.HasPrefix(k, "$") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		valueMap, ok := data[key].(map[string]any)
		if !ok {
			continue
		}

		currentPath := append(path[:len(path):len(path)], key)

		if dollarValue, hasValue := valueMap["$value"]; hasValue {
			*result = append(*result, createToken(currentPath, valueMap, dollarValue, currentType, layerName))
			continue
		}

		childType := currentType
		if typeStr, ok := valueMap["$type"].(string); ok {
			childType = typeStr
		}
		extractTokens(valueMap, currentPath, childType, layerName, result)
	}
}

// createToken builds a Token from a leaf map carrying $value.
func createToken(path []string, valueMap map[string]any, dollarValue any, inheritedType, layerName string) *token.Token {
	t := &token.Token{
		Path:        path,
		Raw:         token.ParseValue(dollarValue),
		SourceLayer: layerName,
	}

	// A token's own $type takes precedence over the inherited group type
	if typeStr, ok := valueMap["$type"].(string); ok {
		t.Type = typeStr
	} else {
		t.Type = inheritedType
	}
	if descStr, ok := valueMap["$description"].(string); ok {
		t.Description = descStr
	}

	return t
}

// addPositions records line/character positions on tokens by re-parsing
// the document with yaml.v3, which handles both YAML and JSON.
func addPositions(data []byte, tokens []*token.Token) error {
	tokenByPath := make(map[string]*token.Token, len(tokens))
	for _, t := range tokens {
		tokenByPath[t.DotPath()] = t
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return err
	}

	if len(root.Content) > 0 {
		walkForPositions(root.Content[0], nil, tokenByPath)
	}
	return nil
}

// walkForPositions walks the yaml AST to find token positions.
func walkForPositions(node *yaml.Node, path []string, tokenByPath map[string]*token.Token) {
	if node.Kind != yaml.MappingNode {
		return
	}

	for i := 0; i < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]
		key := keyNode.Value

		if strings.HasPrefix(key, "$") {
			continue
		}
		if valueNode.Kind != yaml.MappingNode {
			continue
		}

		currentPath := append(path[:len(path):len(path)], key)

		if t, ok := tokenByPath[strings.Join(currentPath, ".")]; ok {
			// yaml.v3 positions are 1-based, tokens use 0-based
			if keyNode.Line > 0 && keyNode.Line-1 <= math.MaxUint32 {
				t.Line = uint32(keyNode.Line - 1)
			}
			if keyNode.Column > 0 && keyNode.Column-1 <= math.MaxUint32 {
				t.Character = uint32(keyNode.Column - 1)
			}
		}

		walkForPositions(valueNode, currentPath, tokenByPath)
	}
}
