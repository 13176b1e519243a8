/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessellary/cascata/config"
	"github.com/tessellary/cascata/internal/mapfs"
)

func TestLoadFile_YAML(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/proj/.config/cascata.yaml", `
prefix: ds
modes:
  - light
  - dark
layers:
  - tokens/core.yaml
  - name: dark
    path: tokens/dark.yaml
    mode: dark
    group: core
`, 0o644)

	cfg, err := config.LoadFile(mfs, "/proj/.config/cascata.yaml")
	require.NoError(t, err)

	assert.Equal(t, "ds", cfg.Prefix)
	assert.Equal(t, []string{"light", "dark"}, cfg.Modes)
	assert.Equal(t, "light", cfg.DefaultMode)

	require.Len(t, cfg.Layers, 2)
	// string form: name and group derived from the path base name
	assert.Equal(t, "core", cfg.Layers[0].Name)
	assert.Equal(t, "core", cfg.Layers[0].Group)
	assert.Empty(t, cfg.Layers[0].Mode)
	// object form keeps its overrides
	assert.Equal(t, "dark", cfg.Layers[1].Name)
	assert.Equal(t, "dark", cfg.Layers[1].Mode)
	assert.Equal(t, "core", cfg.Layers[1].Group)
}

func TestLoadFile_JSON(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/proj/.config/cascata.json", `{
		"layers": [
			"tokens/core.json",
			{"path": "tokens/dark.json", "mode": "dark"}
		],
		"modes": ["light", "dark"]
	}`, 0o644)

	cfg, err := config.LoadFile(mfs, "/proj/.config/cascata.json")
	require.NoError(t, err)

	require.Len(t, cfg.Layers, 2)
	assert.Equal(t, "tokens/core.json", cfg.Layers[0].Path)
	assert.Equal(t, "dark", cfg.Layers[1].Mode)
}

func TestLoad_SearchOrder(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/proj/.config/cascata.yaml", "layers:\n  - a.yaml\nprefix: from-yaml\n", 0o644)
	mfs.AddFile("/proj/.config/cascata.json", `{"layers": ["a.json"], "prefix": "from-json"}`, 0o644)

	cfg, err := config.Load(mfs, "/proj")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "from-yaml", cfg.Prefix, "yaml should win over json")
}

func TestLoad_NotFound(t *testing.T) {
	cfg, err := config.Load(mapfs.New(), "/proj")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := &config.Config{
		Layers: []config.LayerSpec{{Path: "tokens/theme.yaml"}},
	}
	cfg.Normalize()

	assert.Equal(t, "css", cfg.OutDir)
	assert.Equal(t, []string{"light"}, cfg.Modes)
	assert.Equal(t, "light", cfg.DefaultMode)
	assert.Equal(t, "theme", cfg.Layers[0].Name)
	assert.Equal(t, "theme", cfg.Layers[0].Group)

	require.Len(t, cfg.Groups, 1)
	assert.Equal(t, "theme", cfg.Groups[0].Name)
	assert.Equal(t, "theme.css", cfg.Groups[0].File)
}

func TestNormalize_Idempotent(t *testing.T) {
	cfg := &config.Config{
		Layers: []config.LayerSpec{{Path: "tokens/theme.yaml"}},
	}
	cfg.Normalize()
	cfg.Normalize()

	assert.Len(t, cfg.Groups, 1, "second normalize must not duplicate groups")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     config.Config
		wantErr string
	}{
		{
			name:    "no layers",
			cfg:     config.Config{Modes: []string{"light"}, DefaultMode: "light"},
			wantErr: "no layers",
		},
		{
			name: "layer without path",
			cfg: config.Config{
				Modes:       []string{"light"},
				DefaultMode: "light",
				Layers:      []config.LayerSpec{{Name: "broken"}},
			},
			wantErr: `layer "broken" has no path`,
		},
		{
			name: "unknown layer mode",
			cfg: config.Config{
				Modes:       []string{"light"},
				DefaultMode: "light",
				Layers:      []config.LayerSpec{{Name: "dark", Path: "dark.yaml", Mode: "dark"}},
			},
			wantErr: `unknown mode "dark"`,
		},
		{
			name: "default mode not in modes",
			cfg: config.Config{
				Modes:       []string{"light", "dark"},
				DefaultMode: "dim",
				Layers:      []config.LayerSpec{{Name: "core", Path: "core.yaml"}},
			},
			wantErr: `default mode "dim"`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestExpandLayers_Plain(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/proj/tokens/core.yaml", "Color:\n", 0o644)

	cfg := &config.Config{Layers: []config.LayerSpec{{Path: "tokens/core.yaml"}}}
	cfg.Normalize()

	metas, err := cfg.ExpandLayers(mfs, "/proj")
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, "core", metas[0].Name)
	assert.Equal(t, "/proj/tokens/core.yaml", metas[0].Source)
	assert.Equal(t, 0, metas[0].Position)
}

func TestExpandLayers_Glob(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/proj/tokens/color.json", "{}", 0o644)
	mfs.AddFile("/proj/tokens/space.json", "{}", 0o644)
	mfs.AddFile("/proj/tokens/nested/type.json", "{}", 0o644)
	mfs.AddFile("/proj/tokens/readme.md", "#", 0o644)

	cfg := &config.Config{
		Layers: []config.LayerSpec{{Name: "base", Path: "tokens/**/*.json"}},
	}
	cfg.Normalize()

	metas, err := cfg.ExpandLayers(mfs, "/proj")
	require.NoError(t, err)
	require.Len(t, metas, 3)

	// glob matches carry a disambiguated name and keep walk order
	names := make([]string, 0, len(metas))
	for i, meta := range metas {
		names = append(names, meta.Name)
		assert.Equal(t, i, meta.Position)
		assert.Equal(t, "base", meta.Group)
	}
	assert.Contains(t, names, "base:color")
	assert.Contains(t, names, "base:space")
	assert.Contains(t, names, "base:type")
}

func TestExpandLayers_NoMatch(t *testing.T) {
	cfg := &config.Config{
		Layers: []config.LayerSpec{{Name: "base", Path: "tokens/**/*.json"}},
	}
	cfg.Normalize()

	_, err := cfg.ExpandLayers(mapfs.New(), "/proj")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `layer "base"`)
	assert.Contains(t, err.Error(), "no documents match")
}

func TestSourcePaths(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/proj/tokens/core.yaml", "Color:\n", 0o644)
	mfs.AddFile("/proj/tokens/dark.yaml", "Color:\n", 0o644)

	cfg := &config.Config{
		Layers: []config.LayerSpec{
			{Path: "tokens/core.yaml"},
			{Path: "tokens/dark.yaml", Mode: "dark"},
		},
		Modes: []string{"light", "dark"},
	}
	cfg.Normalize()

	paths, err := cfg.SourcePaths(mfs, "/proj")
	require.NoError(t, err)
	assert.Equal(t, []string{"/proj/tokens/core.yaml", "/proj/tokens/dark.yaml"}, paths)
}
