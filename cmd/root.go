/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for cascata.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tessellary/cascata/cmd/build"
	"github.com/tessellary/cascata/cmd/validate"
	"github.com/tessellary/cascata/cmd/version"
)

var rootCmd = &cobra.Command{
	Use:   "cascata",
	Short: "Compile layered design tokens into CSS custom properties",
	Long: `cascata compiles JSON/YAML design token layers into mode-scoped CSS
custom properties, resolving token references and detecting cycles,
overrides, and identifier collisions along the way.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file path (default: .config/cascata.{yaml,yml,json})")
	rootCmd.PersistentFlags().String("prefix", "", "Vendor prefix for emitted identifiers")
	cobra.CheckErr(viper.BindPFlag("prefix", rootCmd.PersistentFlags().Lookup("prefix")))

	rootCmd.AddCommand(build.Cmd)
	rootCmd.AddCommand(validate.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
