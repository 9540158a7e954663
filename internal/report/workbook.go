// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes the annotated variants of a run to an xlsx workbook
// for downstream brightness inference and manual review.
package report

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/bcvariants/internal/pipeline"
	"github.com/pdiddy/bcvariants/pkg/types"
)

const (
	variantsSheet = "Variants"
	summarySheet  = "Summary"
)

// variantColumns is the header row of the Variants sheet.
var variantColumns = []string{
	"barcode", "full_id", "protein_id", "phase", "degeneracy", "dna_class",
	"aa_class", "aa_phase", "mutation_type", "aa_length", "contains_stop",
	"stop_in_terminal_window", "aa_sequence", "dna_sequence",
}

// WriteWorkbook saves res to path with a Variants sheet, one row per
// annotated variant, and a Summary sheet of diagnostic counters.
func WriteWorkbook(path string, res *pipeline.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", variantsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := writeVariants(f, res.Variants); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}
	if err := writeSummary(f, res); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func writeVariants(f *excelize.File, variants []types.AnnotatedVariant) error {
	header := make([]any, len(variantColumns))
	for i, c := range variantColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(variantsSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(variantColumns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(variantsSheet, "A1", last, bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, v := range variants {
		var deg any = ""
		if v.Degeneracy != nil {
			deg = *v.Degeneracy
		}
		row := []any{
			v.Barcode, v.FullID, v.ProteinID, v.Phase, deg, string(v.DNAClass),
			string(v.AAClass), v.AAPhase, string(v.MutationType), v.AALength,
			v.ContainsStop, v.StopInTerminalWindow, v.AASequence, v.DNASequence,
		}
		if err := f.SetSheetRow(variantsSheet, "A"+strconv.Itoa(i+2), &row); err != nil {
			return fmt.Errorf("writing variant %s: %w", v.Barcode, err)
		}
	}

	return f.SetPanes(variantsSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	})
}

func writeSummary(f *excelize.File, res *pipeline.Result) error {
	rows := [][]any{
		{"run_id", res.RunID},
		{"seed", strconv.FormatUint(res.Seed, 10)},
		{"designs", res.Designs},
		{"records_read", res.Filter.Read},
		{"records_kept", res.Filter.Kept},
		{"dropped_internal_stop", res.Filter.DroppedInternalStop},
		{"dropped_short", res.Filter.DroppedShort},
		{"barcodes_before", res.Collisions.BarcodesBefore},
		{"barcodes_after", res.Collisions.BarcodesAfter},
		{"barcodes_dropped_ambiguous", res.Collisions.DroppedAmbiguous},
		{"perfect_collision_groups", res.Collisions.PerfectGroups},
		{"multiplicity_mean", res.Collisions.MultiplicityMean},
		{"multiplicity_std_dev", res.Collisions.MultiplicityStdDev},
		{"variants", res.Annotation.Rows},
	}
	for _, mt := range types.MutationTypes {
		rows = append(rows, []any{"mutation_" + string(mt), res.Annotation.ByMutationType[mt]})
	}

	for i, row := range rows {
		if err := f.SetSheetRow(summarySheet, "A"+strconv.Itoa(i+1), &row); err != nil {
			return fmt.Errorf("writing summary row: %w", err)
		}
	}
	return nil
}
