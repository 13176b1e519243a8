/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package pipeline orchestrates the token build: load, compose, resolve,
// format, write.
package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/tessellary/cascata/cascade"
	"github.com/tessellary/cascata/config"
	"github.com/tessellary/cascata/css"
	"github.com/tessellary/cascata/fs"
	"github.com/tessellary/cascata/internal/logger"
	"github.com/tessellary/cascata/parser"
	"github.com/tessellary/cascata/resolver"
	"github.com/tessellary/cascata/token"
)

// State names the pipeline stage a run is in. Failed is terminal and
// reachable from any stage.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateComposing
	StateResolving
	StateFormatting
	StateWriting
	StateDone
	StateFailed
)

var stateNames = [...]string{"idle", "loading", "composing", "resolving", "formatting", "writing", "done", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Options configures one build run.
type Options struct {
	// Config is the build configuration. When nil, ConfigPath (or the
	// .config search from RootDir) supplies it.
	Config *config.Config

	// ConfigPath is an explicit config file path.
	ConfigPath string

	// RootDir anchors relative layer paths and the config search.
	// Defaults to ".".
	RootDir string

	// OutDir overrides the configured output directory.
	OutDir string

	// Prefix overrides the configured identifier prefix.
	Prefix string

	// DryRun performs full resolution and reports every error found,
	// writing nothing.
	DryRun bool

	// Verbose emits per-token diagnostics.
	Verbose bool

	// FS is the filesystem to build against. Defaults to the OS.
	FS fs.FileSystem

	// Cache is an optional resolution cache shared across runs.
	Cache *resolver.Cache
}

// Report is the build summary consumed by CI and downstream tooling.
type Report struct {
	// TotalVariables counts distinct custom properties emitted.
	TotalVariables int `json:"totalVariables"`

	// PerMode counts resolved tokens per mode.
	PerMode map[string]int `json:"perMode"`

	// FilesWritten lists output paths written this run.
	FilesWritten []string `json:"filesWritten"`

	// FilesUnchanged lists output paths skipped because their content
	// already matched.
	FilesUnchanged []string `json:"filesUnchanged,omitempty"`

	// Unresolved counts tokens that failed to resolve. Zero on success;
	// surfaced for partial diagnostics in dry runs.
	Unresolved int `json:"unresolved"`

	// Elapsed is the processing time in nanoseconds.
	Elapsed time.Duration `json:"elapsed"`

	// State is the terminal pipeline state.
	State string `json:"state"`

	// Errors lists every error found, populated in dry runs.
	Errors []string `json:"errors,omitempty"`
}

// Run executes one build. Any stage failure aborts the run before
// anything is written; partial output is never left behind. In dry-run
// mode resolution continues past individual failures so the report
// carries the complete error list, and the run still returns an error
// when any was found.
func Run(opts Options) (*Report, error) {
	start := time.Now()

	filesystem := opts.FS
	if filesystem == nil {
		filesystem = fs.NewOSFileSystem()
	}
	rootDir := opts.RootDir
	if rootDir == "" {
		rootDir = "."
	}

	report := &Report{PerMode: map[string]int{}, State: StateIdle.String()}
	fail := func(err error) (*Report, error) {
		report.State = StateFailed.String()
		report.Elapsed = time.Since(start)
		return report, err
	}

	// Loading
	setState(report, StateLoading, opts.Verbose)
	layers, cfg, err := loadLayers(opts, filesystem, rootDir)
	if err != nil {
		return fail(err)
	}
	prefix := cfg.Prefix
	if opts.Prefix != "" {
		prefix = opts.Prefix
	}
	outDir := cfg.OutDir
	if opts.OutDir != "" {
		outDir = opts.OutDir
	}

	// Composing
	setState(report, StateComposing, opts.Verbose)
	trees := make(map[string]cascade.Tree, len(cfg.Modes))
	for _, mode := range cfg.Modes {
		trees[mode] = cascade.Compose(layers, mode)
	}
	var allErrs []error
	if errs := cascade.CheckCoverage(trees); len(errs) > 0 {
		if !opts.DryRun {
			return fail(errs[0])
		}
		allErrs = append(allErrs, errs...)
	}

	// Resolving
	setState(report, StateResolving, opts.Verbose)
	resolved := make(map[string]resolver.Resolved, len(trees))
	for _, mode := range cfg.Modes {
		tree := trees[mode]
		if opts.Cache != nil {
			if cached, ok := opts.Cache.Lookup(mode, tree); ok {
				resolved[mode] = cached
				report.PerMode[mode] = len(cached)
				continue
			}
		}

		var modeResolved resolver.Resolved
		if opts.DryRun {
			var errs []error
			modeResolved, errs = resolver.ResolveAll(tree)
			allErrs = append(allErrs, errs...)
		} else {
			modeResolved, err = resolver.Resolve(tree)
			if err != nil {
				return fail(err)
			}
		}
		resolved[mode] = modeResolved
		report.PerMode[mode] = len(modeResolved)
		report.Unresolved += len(tree) - len(modeResolved)

		if opts.Cache != nil && len(tree) == len(modeResolved) {
			opts.Cache.Store(mode, tree, modeResolved)
		}
	}

	// Identifier collisions are token-data defects; fail before any
	// formatter output could silently drop a declaration.
	if errs := css.CheckCollisions(trees, prefix); len(errs) > 0 {
		if !opts.DryRun {
			return fail(errs[0])
		}
		allErrs = append(allErrs, errs...)
	}

	if opts.Verbose {
		logDiagnostics(cfg, resolved, prefix)
	}

	if len(allErrs) > 0 {
		for _, e := range allErrs {
			report.Errors = append(report.Errors, e.Error())
		}
		report.State = StateFailed.String()
		report.Elapsed = time.Since(start)
		return report, errors.Join(allErrs...)
	}

	// Formatting
	setState(report, StateFormatting, opts.Verbose)
	files := css.Format(css.Input{
		Trees:       resolved,
		Modes:       cfg.Modes,
		DefaultMode: cfg.DefaultMode,
		Groups:      outputGroups(cfg),
		LayerGroups: layerGroups(layers),
		Prefix:      prefix,
	})
	report.TotalVariables = len(trees[cfg.DefaultMode])

	// Writing
	if !opts.DryRun {
		setState(report, StateWriting, opts.Verbose)
		if err := writeFiles(filesystem, outDir, files, report); err != nil {
			return fail(err)
		}
	}

	report.State = StateDone.String()
	report.Elapsed = time.Since(start)
	return report, nil
}

// LoadLayers loads the effective configuration and parses every
// configured layer document. Exposed for tooling that inspects the raw
// layers (e.g., reference impact reporting).
func LoadLayers(opts Options) ([]*token.Layer, *config.Config, error) {
	filesystem := opts.FS
	if filesystem == nil {
		filesystem = fs.NewOSFileSystem()
	}
	rootDir := opts.RootDir
	if rootDir == "" {
		rootDir = "."
	}
	return loadLayers(opts, filesystem, rootDir)
}

func loadLayers(opts Options, filesystem fs.FileSystem, rootDir string) ([]*token.Layer, *config.Config, error) {
	cfg, err := loadConfig(opts, filesystem, rootDir)
	if err != nil {
		return nil, nil, err
	}

	metas, err := cfg.ExpandLayers(filesystem, rootDir)
	if err != nil {
		return nil, nil, err
	}

	layers := make([]*token.Layer, 0, len(metas))
	parseOpts := parser.Options{SkipPositions: !opts.Verbose}
	for _, meta := range metas {
		layer, err := parser.ParseLayerFile(filesystem, meta, parseOpts)
		if err != nil {
			return nil, nil, err
		}
		layers = append(layers, layer)
	}
	return layers, cfg, nil
}

// loadConfig resolves the effective configuration for a run.
func loadConfig(opts Options, filesystem fs.FileSystem, rootDir string) (*config.Config, error) {
	if opts.Config != nil {
		cfg := opts.Config
		cfg.Normalize()
		return cfg, cfg.Validate()
	}
	if opts.ConfigPath != "" {
		return config.LoadFile(filesystem, opts.ConfigPath)
	}
	cfg, err := config.Load(filesystem, rootDir)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config found in %s/%s", rootDir, config.ConfigDir)
	}
	return cfg, nil
}

// writeFiles writes formatter output under outDir, skipping files whose
// on-disk content already matches. All in-memory work is complete before
// the first write, keeping the window for partially-written output
// minimal.
func writeFiles(filesystem fs.FileSystem, outDir string, files []css.OutputFile, report *Report) error {
	if err := filesystem.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	for _, file := range files {
		target := filepath.Join(outDir, file.Path)
		if existing, err := filesystem.ReadFile(target); err == nil && bytes.Equal(existing, file.Content) {
			report.FilesUnchanged = append(report.FilesUnchanged, target)
			continue
		}
		if err := filesystem.WriteFile(target, file.Content, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		report.FilesWritten = append(report.FilesWritten, target)
	}
	return nil
}

// layerGroups maps layer names to their output groups. Built from the
// loaded layers rather than the config specs: a glob spec expands to
// several layers with disambiguated names, and the formatter looks
// group ownership up by those expanded names.
func layerGroups(layers []*token.Layer) map[string]string {
	groups := make(map[string]string, len(layers))
	for _, layer := range layers {
		groups[layer.Name] = layer.Group
	}
	return groups
}

// outputGroups converts configured group specs for the formatter.
func outputGroups(cfg *config.Config) []css.Group {
	groups := make([]css.Group, 0, len(cfg.Groups))
	for _, g := range cfg.Groups {
		groups = append(groups, css.Group{Name: g.Name, File: g.File})
	}
	return groups
}

func setState(report *Report, s State, verbose bool) {
	report.State = s.String()
	if verbose {
		logger.Debug("pipeline: %s", s)
	}
}
