// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bcvariants/internal/pipeline"
	"github.com/pdiddy/bcvariants/internal/report"
	"github.com/pdiddy/bcvariants/internal/store"
	"github.com/pdiddy/bcvariants/pkg/types"
)

const (
	summaryFile  = "run-summary.yaml"
	workbookFile = "variants.xlsx"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Run the classification pipeline on observed records and designs",
	Long: `Classify reads the combined sequencing table (CSV) and the reference
design catalog (FASTA), filters truncated sequences, resolves barcode
collisions, and annotates every variant.

It writes run-summary.yaml and, unless --workbook=false, variants.xlsx to the
output directory. With --store the run is also saved to the SQLite store.

A barcode shared by perfect and non-perfect records aborts the run.`,
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	err := bindFlags(cmd, map[string]string{
		"observed":             "input.observed_path",
		"designs":              "input.designs_path",
		"seed":                 "resolve.seed",
		"terminal-window":      "trim.terminal_window",
		"min-full-length":      "trim.min_full_length",
		"min-truncated-length": "trim.min_truncated_length",
		"output-dir":           "report.output_dir",
		"workbook":             "report.workbook",
		"store-dir":            "store.dir",
	})
	if err != nil {
		return err
	}
	cfg := pipelineConfig()

	res, err := pipeline.RunFiles(context.Background(), cfg, os.Stdout)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Report.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	summaryPath := filepath.Join(cfg.Report.OutputDir, summaryFile)
	if err := pipeline.WriteSummaryFile(summaryPath, cfg, res); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", summaryPath)

	if cfg.Report.Workbook {
		path := filepath.Join(cfg.Report.OutputDir, workbookFile)
		if err := report.WriteWorkbook(path, res); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}

	if save, _ := cmd.Flags().GetBool("store"); save {
		s, err := store.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()
		if _, err := s.Ingest(context.Background(), res, os.Stdout); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Println(renderSummary(res))
	return nil
}

func init() {
	def := types.DefaultPipelineConfig()

	classifyCmd.Flags().String("observed", "", "combined sequencing CSV of observed records")
	classifyCmd.Flags().String("designs", "", "reference design catalog FASTA")
	classifyCmd.Flags().Uint64("seed", def.Resolve.Seed, "seed for resolving degenerate perfect barcode collisions")
	classifyCmd.Flags().Int("terminal-window", def.Trim.TerminalWindow, "C-terminal residues in which a stop counts as a truncation")
	classifyCmd.Flags().Int("min-full-length", def.Trim.MinFullLength, "minimum length of a sequence without a stop")
	classifyCmd.Flags().Int("min-truncated-length", def.Trim.MinTruncatedLength, "minimum trimmed length of a truncated sequence")
	classifyCmd.Flags().String("output-dir", def.Report.OutputDir, "directory for run-summary.yaml and variants.xlsx")
	classifyCmd.Flags().Bool("workbook", def.Report.Workbook, "write variants.xlsx")
	classifyCmd.Flags().Bool("store", false, "save the run to the SQLite store")
	classifyCmd.Flags().String("store-dir", def.Store.Dir, "directory containing variants.db")

	rootCmd.AddCommand(classifyCmd)
}
