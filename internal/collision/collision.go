// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collision resolves barcodes that map to more than one record.
//
// A barcode shared by mutant records cannot identify a single variant and is
// dropped. A barcode shared only by perfect records encodes degenerate fusion
// phases of the same protein and keeps one record chosen at random.
package collision

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/pdiddy/bcvariants/pkg/types"
)

// ErrDataConsistency marks a barcode group that mixes perfect and
// non-perfect records. The resolution policy has no defined answer for it.
var ErrDataConsistency = errors.New("data consistency violation")

// ConsistencyError reports the barcode that broke the perfect/non-perfect
// separation and the classes found in its group.
type ConsistencyError struct {
	Barcode string
	Classes []types.DNAClass
}

func (e *ConsistencyError) Error() string {
	names := lo.Map(e.Classes, func(c types.DNAClass, _ int) string { return string(c) })
	return fmt.Sprintf("%v: barcode %q maps to both perfect and non-perfect records (%s)",
		ErrDataConsistency, e.Barcode, strings.Join(names, ", "))
}

func (e *ConsistencyError) Unwrap() error { return ErrDataConsistency }

// Chooser picks an index in [0, n). *rand.Rand satisfies it.
type Chooser interface {
	IntN(n int) int
}

// NewChooser returns a PCG-backed random source seeded with seed.
func NewChooser(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Summary holds the diagnostic counters of a resolution pass.
type Summary struct {
	BarcodesBefore int `json:"barcodes_before" yaml:"barcodes_before"`
	BarcodesAfter  int `json:"barcodes_after" yaml:"barcodes_after"`

	// DroppedAmbiguous counts barcodes removed because their group held
	// mutant records.
	DroppedAmbiguous int `json:"dropped_ambiguous" yaml:"dropped_ambiguous"`

	// DroppedRecords counts the records behind DroppedAmbiguous.
	DroppedRecords int `json:"dropped_records" yaml:"dropped_records"`

	// PerfectGroups counts barcodes resolved by random choice.
	PerfectGroups int `json:"perfect_groups" yaml:"perfect_groups"`

	// MultiplicityMean and MultiplicityStdDev describe the sizes of the
	// perfect groups. StdDev is the sample standard deviation, 0 for fewer
	// than two groups.
	MultiplicityMean   float64 `json:"multiplicity_mean" yaml:"multiplicity_mean"`
	MultiplicityStdDev float64 `json:"multiplicity_std_dev" yaml:"multiplicity_std_dev"`
}

// Resolve returns records with at most one record per barcode. Records keep
// their input order; a resolved group keeps only the chosen member at its
// original position. Resolve fails with a *ConsistencyError before producing
// any output if a group mixes perfect and non-perfect records.
func Resolve(records []types.VariantRecord, chooser Chooser) ([]types.VariantRecord, Summary, error) {
	groups := lo.GroupBy(lo.Range(len(records)), func(i int) string { return records[i].Barcode })

	summary := Summary{BarcodesBefore: len(groups)}

	// Check every group first so a violation aborts with nothing resolved.
	for _, bc := range sortedKeys(groups) {
		if err := checkGroup(bc, groups[bc], records); err != nil {
			return nil, Summary{}, err
		}
	}

	keep := make([]bool, len(records))
	var sizes []float64
	for _, bc := range sortedKeys(groups) {
		idx := groups[bc]
		switch {
		case len(idx) == 1:
			keep[idx[0]] = true
		case records[idx[0]].DNAClass != types.ClassPerfect:
			summary.DroppedAmbiguous++
			summary.DroppedRecords += len(idx)
		default:
			keep[idx[chooser.IntN(len(idx))]] = true
			summary.PerfectGroups++
			sizes = append(sizes, float64(len(idx)))
		}
	}

	out := make([]types.VariantRecord, 0, len(groups))
	for i, rec := range records {
		if keep[i] {
			out = append(out, rec)
		}
	}

	summary.BarcodesAfter = len(out)
	summary.MultiplicityMean, summary.MultiplicityStdDev = meanStdDev(sizes)
	return out, summary, nil
}

// checkGroup verifies that a multi-record group is all perfect or all
// non-perfect.
func checkGroup(barcode string, idx []int, records []types.VariantRecord) error {
	if len(idx) < 2 {
		return nil
	}
	perfect, other := lo.FilterReject(idx, func(i int, _ int) bool {
		return records[i].DNAClass == types.ClassPerfect
	})
	if len(perfect) > 0 && len(other) > 0 {
		classes := lo.Uniq(lo.Map(idx, func(i int, _ int) types.DNAClass { return records[i].DNAClass }))
		return &ConsistencyError{Barcode: barcode, Classes: classes}
	}
	return nil
}

// sortedKeys fixes the order in which groups consume random draws, so a
// given seed always yields the same choices.
func sortedKeys(groups map[string][]int) []string {
	keys := lo.Keys(groups)
	sort.Strings(keys)
	return keys
}

func meanStdDev(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	mean := lo.Mean(xs)
	if len(xs) < 2 {
		return mean, 0
	}
	var ss float64
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(ss / float64(len(xs)-1))
}
