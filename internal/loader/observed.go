// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package loader reads the upstream inputs of the pipeline: the combined
// sequencing table of observed records and the reference design catalog.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/bcvariants/pkg/types"
)

// observedColumns are the header names ReadObserved requires.
var observedColumns = []string{
	"barcode", "dna_sequence", "full_id", "protein_id",
	"phase", "degeneracy", "dna_class", "aa_sequence",
}

// ReadObserved parses a CSV table of observed records. Columns are matched by
// header name in any order; extra columns are ignored. "NA" and empty cells
// are null for phase and degeneracy.
func ReadObserved(r io.Reader) ([]types.VariantRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading header: empty input")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range observedColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var records []types.VariantRecord
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}

		get := func(name string) string { return strings.TrimSpace(fields[col[name]]) }

		deg, err := parseDegeneracy(get("degeneracy"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		records = append(records, types.VariantRecord{
			Barcode:     get("barcode"),
			DNASequence: get("dna_sequence"),
			FullID:      get("full_id"),
			ProteinID:   get("protein_id"),
			Phase:       nullable(get("phase")),
			Degeneracy:  deg,
			DNAClass:    types.DNAClass(get("dna_class")),
			AASequence:  residues(get("aa_sequence")),
		})
	}
	return records, nil
}

// ReadObservedFile opens path and parses it with ReadObserved.
func ReadObservedFile(path string) ([]types.VariantRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening observed records: %w", err)
	}
	defer f.Close()

	records, err := ReadObserved(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

// residues upper-cases an amino-acid sequence so observed and design rows
// share (protein, sequence) groups regardless of input case.
func residues(s string) string {
	return strings.ToUpper(s)
}

func nullable(s string) string {
	if strings.EqualFold(s, "NA") {
		return ""
	}
	return s
}

func parseDegeneracy(s string) (*int, error) {
	s = nullable(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("invalid degeneracy %q", s)
	}
	return &n, nil
}
