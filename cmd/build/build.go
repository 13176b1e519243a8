/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package build provides the build command for cascata.
package build

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tessellary/cascata/pipeline"
	"github.com/tessellary/cascata/resolver"
)

// Cmd is the build cobra command.
var Cmd = &cobra.Command{
	Use:   "build",
	Short: "Compile token layers to CSS files",
	Long: `Compile the configured token layers into mode-scoped CSS custom
property files plus an @import index.

Examples:
  # Production build
  cascata build

  # Validate without writing anything, reporting every error found
  cascata build --dry-run

  # Rebuild on source changes
  cascata build --watch

  # Per-token diagnostics
  cascata build --verbose`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("out-dir", "o", "", "Output directory (overrides config)")
	Cmd.Flags().Bool("dry-run", false, "Resolve and report without writing files")
	Cmd.Flags().BoolP("verbose", "v", false, "Emit per-token diagnostics")
	Cmd.Flags().BoolP("watch", "w", false, "Rebuild on source file changes")
	Cmd.Flags().Bool("report-json", false, "Print the build report as JSON")
}

func run(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	outDir, _ := cmd.Flags().GetString("out-dir")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	watch, _ := cmd.Flags().GetBool("watch")
	reportJSON, _ := cmd.Flags().GetBool("report-json")

	opts := pipeline.Options{
		ConfigPath: configPath,
		OutDir:     outDir,
		Prefix:     viper.GetString("prefix"),
		DryRun:     dryRun,
		Verbose:    verbose,
		Cache:      resolver.NewCache(),
	}

	if watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return pipeline.Watch(ctx, opts)
	}

	report, err := pipeline.Run(opts)
	if reportJSON {
		printJSON(report)
	} else {
		printReport(report, dryRun)
	}
	return err
}

func printJSON(report *pipeline.Report) {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error marshaling report: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

func printReport(report *pipeline.Report, dryRun bool) {
	for _, msg := range report.Errors {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	}

	fmt.Printf("%d variables", report.TotalVariables)
	for _, mode := range sortedModes(report) {
		fmt.Printf("  %s:%d", mode, report.PerMode[mode])
	}
	fmt.Printf("  unresolved:%d  %s\n", report.Unresolved, report.Elapsed.Round(time.Millisecond))

	if dryRun {
		fmt.Println("dry run: nothing written")
		return
	}
	for _, file := range report.FilesWritten {
		fmt.Printf("wrote %s\n", file)
	}
	for _, file := range report.FilesUnchanged {
		fmt.Printf("unchanged %s\n", file)
	}
}

func sortedModes(report *pipeline.Report) []string {
	modes := make([]string, 0, len(report.PerMode))
	for mode := range report.PerMode {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	return modes
}
