// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bcvariants CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bcvariants/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the bcvariants CLI.
var rootCmd = &cobra.Command{
	Use:   "bcvariants",
	Short: "Classify barcode-linked fusion variants against a design catalog",
	Long: `bcvariants filters observed barcode/variant records, resolves barcodes
that map to several variants, merges them with the reference design catalog,
and annotates every variant with an amino-acid class, a fusion phase, and a
mutation type for downstream brightness inference.

Settings come from flags, BCVARIANTS_* environment variables, or a
bcvariants.yaml config file, in that order of precedence.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bcvariants.yaml or ~/.config/bcvariants/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bcvariants")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bcvariants"))
		}
	}

	viper.SetEnvPrefix("BCVARIANTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags maps command flags onto config keys so a changed flag overrides
// the config file and an unchanged one falls back to it.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

// pipelineConfig assembles the pipeline settings from viper.
func pipelineConfig() types.PipelineConfig {
	cfg := types.DefaultPipelineConfig()
	cfg.Input.ObservedPath = viper.GetString("input.observed_path")
	cfg.Input.DesignsPath = viper.GetString("input.designs_path")
	if viper.IsSet("trim.terminal_window") {
		cfg.Trim.TerminalWindow = viper.GetInt("trim.terminal_window")
	}
	if viper.IsSet("trim.min_full_length") {
		cfg.Trim.MinFullLength = viper.GetInt("trim.min_full_length")
	}
	if viper.IsSet("trim.min_truncated_length") {
		cfg.Trim.MinTruncatedLength = viper.GetInt("trim.min_truncated_length")
	}
	if viper.IsSet("resolve.seed") {
		cfg.Resolve.Seed = viper.GetUint64("resolve.seed")
	}
	if dir := viper.GetString("store.dir"); dir != "" {
		cfg.Store.Dir = dir
	}
	if n := viper.GetInt("store.max_results"); n > 0 {
		cfg.Store.MaxResults = n
	}
	if dir := viper.GetString("report.output_dir"); dir != "" {
		cfg.Report.OutputDir = dir
	}
	if viper.IsSet("report.workbook") {
		cfg.Report.Workbook = viper.GetBool("report.workbook")
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
