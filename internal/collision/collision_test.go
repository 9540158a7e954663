// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collision

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bcvariants/pkg/types"
)

// fixedChooser always returns the same index, clamped to n.
type fixedChooser struct{ index, calls int }

func (c *fixedChooser) IntN(n int) int {
	c.calls++
	if c.index >= n {
		return n - 1
	}
	return c.index
}

func row(barcode, fullID, phase string, class types.DNAClass) types.VariantRecord {
	return types.VariantRecord{
		Barcode:    barcode,
		FullID:     fullID,
		ProteinID:  "P1",
		Phase:      phase,
		DNAClass:   class,
		AASequence: "MKVLAAGIVGLLL",
	}
}

func TestResolveDegeneratePerfect(t *testing.T) {
	in := []types.VariantRecord{
		row("BC001", "P1_+1n", "+1n", types.ClassPerfect),
		row("BC001", "P1_+1c", "+1c", types.ClassPerfect),
	}

	got, summary, err := Resolve(in, &fixedChooser{index: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "+1c", got[0].Phase)
	assert.Equal(t, 1, summary.PerfectGroups)
	assert.Equal(t, 1, summary.BarcodesBefore)
	assert.Equal(t, 1, summary.BarcodesAfter)

	// Re-running leaves the single row unchanged and draws nothing.
	chooser := &fixedChooser{}
	again, _, err := Resolve(got, chooser)
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Zero(t, chooser.calls)
}

func TestResolveIsIdempotent(t *testing.T) {
	in := []types.VariantRecord{
		row("BC001", "P1_+1n", "+1n", types.ClassPerfect),
		row("BC002", "P1_+1n", "+1n", types.ClassMutantPhase),
		row("BC003", "P1_+1n", "+1n", types.ClassPerfect),
		row("BC003", "P1_+1c", "+1c", types.ClassPerfect),
		row("BC003", "P1_+2n", "+2n", types.ClassPerfect),
		row("BC004", "P1_+1n", "+1n", types.ClassMutantPhase),
		row("BC004", "P1_x", "", types.ClassMutantNoPhase),
		row("BC005", "P1_x", "", types.ClassMutantNoPhase),
		row("BC006", "P1_+1n", "+1n", types.ClassPerfect),
		row("BC006", "P1_+1c", "+1c", types.ClassPerfect),
	}

	first, summary, err := Resolve(in, NewChooser(3))
	require.NoError(t, err)
	require.Len(t, first, 5)
	assert.Equal(t, 1, summary.DroppedAmbiguous)
	assert.Equal(t, 2, summary.PerfectGroups)

	chooser := &fixedChooser{}
	second, again, err := Resolve(first, chooser)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Zero(t, again.DroppedAmbiguous)
	assert.Zero(t, again.PerfectGroups)
	assert.Equal(t, again.BarcodesBefore, again.BarcodesAfter)
	assert.Zero(t, chooser.calls)
}

func TestResolveDropsAmbiguousMutants(t *testing.T) {
	in := []types.VariantRecord{
		row("BC002", "P1_a", "A", types.ClassMutantPhase),
		row("BC002", "P1_b", "", types.ClassMutantNoPhase),
		row("BC003", "P1_c", "A", types.ClassMutantNoPhase),
	}

	got, summary, err := Resolve(in, NewChooser(1))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BC003", got[0].Barcode)
	assert.Equal(t, 1, summary.DroppedAmbiguous)
	assert.Equal(t, 2, summary.DroppedRecords)
	assert.Equal(t, 2, summary.BarcodesBefore)
	assert.Equal(t, 1, summary.BarcodesAfter)
}

func TestResolveMixedGroupIsFatal(t *testing.T) {
	in := []types.VariantRecord{
		row("BC010", "P1_a", "A", types.ClassPerfect),
		row("BC011", "P1_a", "A", types.ClassPerfect),
		row("BC010", "P1_b", "", types.ClassMutantNoPhase),
	}

	got, _, err := Resolve(in, NewChooser(1))
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, ErrDataConsistency))

	var cerr *ConsistencyError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "BC010", cerr.Barcode)
	assert.ElementsMatch(t, []types.DNAClass{types.ClassPerfect, types.ClassMutantNoPhase}, cerr.Classes)
	assert.Contains(t, err.Error(), "BC010")
}

func TestResolvePreservesOrderAndSingletons(t *testing.T) {
	in := []types.VariantRecord{
		row("BC1", "a", "A", types.ClassMutantNoPhase),
		row("BC2", "b", "+1n", types.ClassPerfect),
		row("BC3", "c", "B", types.ClassPerfect),
		row("BC2", "d", "+1c", types.ClassPerfect),
	}

	got, _, err := Resolve(in, &fixedChooser{index: 0})
	require.NoError(t, err)
	ids := []string{got[0].FullID, got[1].FullID, got[2].FullID}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestResolveSeededIsReproducible(t *testing.T) {
	var in []types.VariantRecord
	for _, bc := range []string{"X1", "X2", "X3", "X4"} {
		for _, ph := range []string{"+1n", "+1c", "+2n"} {
			in = append(in, row(bc, bc+ph, ph, types.ClassPerfect))
		}
	}

	first, _, err := Resolve(in, NewChooser(42))
	require.NoError(t, err)
	second, _, err := Resolve(in, NewChooser(42))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 4)
}

func TestResolveMultiplicityStats(t *testing.T) {
	in := []types.VariantRecord{
		row("A", "1", "", types.ClassPerfect),
		row("A", "2", "", types.ClassPerfect),
		row("B", "3", "", types.ClassPerfect),
		row("B", "4", "", types.ClassPerfect),
		row("B", "5", "", types.ClassPerfect),
		row("B", "6", "", types.ClassPerfect),
	}

	_, summary, err := Resolve(in, NewChooser(7))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.PerfectGroups)
	assert.InDelta(t, 3.0, summary.MultiplicityMean, 1e-9)
	assert.InDelta(t, 1.41421356, summary.MultiplicityStdDev, 1e-6)
}

func TestResolveEmpty(t *testing.T) {
	got, summary, err := Resolve(nil, NewChooser(1))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, Summary{}, summary)
}
