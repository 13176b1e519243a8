/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validate provides the validate command for cascata.
package validate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tessellary/cascata/cascade"
	"github.com/tessellary/cascata/internal/logger"
	"github.com/tessellary/cascata/pipeline"
	"github.com/tessellary/cascata/resolver"
	"github.com/tessellary/cascata/token"
)

// Cmd is the validate cobra command.
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the token build without writing output",
	Long: `Run the full pipeline in dry-run mode, collecting every resolution
error, cycle, identifier collision, and mode coverage gap so token
authors get a complete punch-list in one pass.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("quiet", false, "Only output errors")
}

func run(cmd *cobra.Command, args []string) error {
	quiet, _ := cmd.Flags().GetBool("quiet")
	configPath, _ := cmd.Flags().GetString("config")
	if quiet {
		logger.SetOutput(io.Discard)
	}

	report, err := pipeline.Run(pipeline.Options{
		ConfigPath: configPath,
		Prefix:     viper.GetString("prefix"),
		DryRun:     true,
	})

	if err != nil {
		if len(report.Errors) == 0 {
			// failed before resolution could collect anything, e.g. a
			// missing or malformed config
			return err
		}
		for _, msg := range report.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", msg)
		}
		printImpact(err, configPath)
		return fmt.Errorf("validation failed with %d error(s)", len(report.Errors))
	}

	if !quiet {
		fmt.Printf("%d tokens valid across %d modes\n", report.TotalVariables, len(report.PerMode))
	}
	return nil
}

// printImpact reports, for each missing reference target, how many
// tokens would break along with it.
func printImpact(err error, configPath string) {
	if !errors.Is(err, token.ErrUnresolvedReference) {
		return
	}

	trees, defaultMode, ok := composeTrees(configPath)
	if !ok {
		return
	}
	graph := resolver.BuildGraph(trees[defaultMode])

	seen := map[string]bool{}
	for _, line := range strings.Split(err.Error(), "\n") {
		target, ok := missingTarget(line)
		if !ok || seen[target] {
			continue
		}
		seen[target] = true
		if dependents := graph.Dependents(target); len(dependents) > 0 {
			fmt.Fprintf(os.Stderr, "  %d token(s) reference the missing %s: %s\n",
				len(dependents), target, strings.Join(dependents, ", "))
		}
	}
}

// composeTrees rebuilds the composed trees for impact reporting.
func composeTrees(configPath string) (map[string]cascade.Tree, string, bool) {
	layers, cfg, err := pipeline.LoadLayers(pipeline.Options{ConfigPath: configPath})
	if err != nil {
		return nil, "", false
	}
	trees := make(map[string]cascade.Tree, len(cfg.Modes))
	for _, mode := range cfg.Modes {
		trees[mode] = cascade.Compose(layers, mode)
	}
	return trees, cfg.DefaultMode, true
}

// missingTarget extracts the missing path from an unresolved-reference
// error line.
func missingTarget(line string) (string, bool) {
	_, rest, found := strings.Cut(line, " references ")
	if !found {
		return "", false
	}
	target, _, found := strings.Cut(rest, ",")
	return target, found
}
