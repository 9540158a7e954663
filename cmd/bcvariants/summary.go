// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bcvariants/internal/pipeline"
	"github.com/pdiddy/bcvariants/pkg/types"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [file]",
	Short: "Print the diagnostics of a saved run",
	Long: `Summary reads a run-summary.yaml written by classify and prints its
filter, barcode-collision, and annotation counters. Without an argument it
reads run-summary.yaml from the output directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{"output-dir": "report.output_dir"}); err != nil {
		return err
	}
	path := filepath.Join(pipelineConfig().Report.OutputDir, summaryFile)
	if len(args) == 1 {
		path = args[0]
	}

	sf, err := pipeline.ReadSummaryFile(path)
	if err != nil {
		return err
	}
	fmt.Println(renderSummary(sf.Run))
	return nil
}

// renderSummary formats the diagnostic counters of a run as a table.
func renderSummary(res *pipeline.Result) string {
	itoa := strconv.Itoa
	rows := [][]string{
		{"run", res.RunID},
		{"seed", strconv.FormatUint(res.Seed, 10)},
		{"designs", itoa(res.Designs)},
		{"records read", itoa(res.Filter.Read)},
		{"records kept", itoa(res.Filter.Kept)},
		{"dropped: internal stop", itoa(res.Filter.DroppedInternalStop)},
		{"dropped: too short", itoa(res.Filter.DroppedShort)},
		{"barcodes before", itoa(res.Collisions.BarcodesBefore)},
		{"barcodes after", itoa(res.Collisions.BarcodesAfter)},
		{"barcodes dropped (ambiguous)", itoa(res.Collisions.DroppedAmbiguous)},
		{"perfect collision groups", itoa(res.Collisions.PerfectGroups)},
		{"multiplicity mean", fmt.Sprintf("%.2f", res.Collisions.MultiplicityMean)},
		{"multiplicity sd", fmt.Sprintf("%.2f", res.Collisions.MultiplicityStdDev)},
		{"variants", itoa(res.Annotation.Rows)},
	}
	for _, mt := range types.MutationTypes {
		rows = append(rows, []string{"  " + string(mt), itoa(res.Annotation.ByMutationType[mt])})
	}
	return renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

func init() {
	summaryCmd.Flags().String("output-dir", types.DefaultPipelineConfig().Report.OutputDir, "directory containing run-summary.yaml")

	rootCmd.AddCommand(summaryCmd)
}
