/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tessellary/cascata/config"
	"github.com/tessellary/cascata/fs"
	"github.com/tessellary/cascata/internal/logger"
)

// debounce coalesces bursts of filesystem events (editors often write a
// file several times in quick succession) into one rebuild.
const debounce = 150 * time.Millisecond

// Watch runs an initial build, then rebuilds whenever a source document
// or the config file changes. Runs are serialized: events arriving
// while a build is in flight queue behind it and coalesce into a single
// follow-up build. Per-trigger errors are logged without stopping the
// watcher. Cancelling ctx stops listening; an in-flight build completes
// rather than being torn down mid-write.
func Watch(ctx context.Context, opts Options) error {
	filesystem := opts.FS
	if filesystem == nil {
		filesystem = fs.NewOSFileSystem()
	}
	rootDir := opts.RootDir
	if rootDir == "" {
		rootDir = "."
	}

	runOnce(opts)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Warn("closing watcher: %v", err)
		}
	}()

	watched, err := watchTargets(opts, filesystem, rootDir)
	if err != nil {
		return err
	}
	// Watch parent directories: editors commonly replace files via
	// rename, which drops inode-level watches.
	dirs := map[string]bool{}
	for _, path := range watched {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			logger.Warn("cannot watch %s: %v", dir, err)
		}
	}
	interesting := map[string]bool{}
	for _, path := range watched {
		interesting[filepath.Clean(path)] = true
	}

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !interesting[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				pending = timer.C
			} else {
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)

		case <-pending:
			timer = nil
			pending = nil
			runOnce(opts)
		}
	}
}

// runOnce executes a build and reports the outcome without ending the
// watch process.
func runOnce(opts Options) {
	report, err := Run(opts)
	if err != nil {
		logger.Warn("build failed: %v", err)
		return
	}
	logger.Info("built %d variables across %d modes in %s",
		report.TotalVariables, len(report.PerMode), report.Elapsed.Round(time.Millisecond))
}

// watchTargets lists the files whose changes trigger a rebuild: every
// configured layer document plus the config file itself.
func watchTargets(opts Options, filesystem fs.FileSystem, rootDir string) ([]string, error) {
	cfg, err := loadConfig(opts, filesystem, rootDir)
	if err != nil {
		return nil, err
	}
	paths, err := cfg.SourcePaths(filesystem, rootDir)
	if err != nil {
		return nil, err
	}
	if opts.ConfigPath != "" {
		paths = append(paths, opts.ConfigPath)
	} else if opts.Config == nil {
		for _, ext := range []string{".yaml", ".yml", ".json"} {
			candidate := filepath.Join(rootDir, config.ConfigDir, config.ConfigFileName+ext)
			if filesystem.Exists(candidate) {
				paths = append(paths, candidate)
			}
		}
	}
	return paths, nil
}
