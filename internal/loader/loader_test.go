// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bcvariants/pkg/types"
)

const observedCSV = `barcode,dna_sequence,full_id,protein_id,phase,degeneracy,dna_class,aa_sequence,extra
BC001,ATGAAA,P1_+1n,P1,+1n,2,perfect,MKV*,x
BC002,ATGCCC,P1_x,P1,NA,NA,mutant_nophase,MPV,y
BC003,ATGGGG,P2_A,P2,,,mutant_phase,MGV,z
`

func TestReadObserved(t *testing.T) {
	got, err := ReadObserved(strings.NewReader(observedCSV))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "BC001", got[0].Barcode)
	assert.Equal(t, "+1n", got[0].Phase)
	require.NotNil(t, got[0].Degeneracy)
	assert.Equal(t, 2, *got[0].Degeneracy)
	assert.Equal(t, types.ClassPerfect, got[0].DNAClass)
	assert.Equal(t, "MKV*", got[0].AASequence, "loader keeps the raw sequence")

	assert.Equal(t, "", got[1].Phase)
	assert.Nil(t, got[1].Degeneracy)
	assert.Equal(t, types.ClassMutantNoPhase, got[1].DNAClass)

	assert.Equal(t, "", got[2].Phase)
	assert.Nil(t, got[2].Degeneracy)
}

func TestReadObservedColumnOrder(t *testing.T) {
	in := "aa_sequence,dna_class,degeneracy,phase,protein_id,full_id,dna_sequence,barcode\nMKV,perfect,1,A,P1,P1_A,ATG,BC9\n"
	got, err := ReadObserved(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BC9", got[0].Barcode)
	assert.Equal(t, "MKV", got[0].AASequence)
}

func TestReadObservedErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{"empty input", "", "empty input"},
		{"missing column", "barcode,full_id\nBC,F\n", `missing column "dna_sequence"`},
		{
			"bad degeneracy",
			"barcode,dna_sequence,full_id,protein_id,phase,degeneracy,dna_class,aa_sequence\nBC,A,F,P,A,two,perfect,M\n",
			`line 2: invalid degeneracy "two"`,
		},
		{
			"negative degeneracy",
			"barcode,dna_sequence,full_id,protein_id,phase,degeneracy,dna_class,aa_sequence\nBC,A,F,P,A,-1,perfect,M\n",
			"invalid degeneracy",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadObserved(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

const designFASTA = `>P1_+1n protein_id=P1 phase=+1n degeneracy=2
MKVLAAG
IVG
>P1_+1c protein_id=P1 phase=+1c degeneracy=2
MKVLAAGIVA
>P7_B
KVW
`

func TestReadDesigns(t *testing.T) {
	got, err := ReadDesigns(strings.NewReader(designFASTA))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "P1_+1n", got[0].FullID)
	assert.Equal(t, "P1", got[0].ProteinID)
	assert.Equal(t, "+1n", got[0].Phase)
	assert.Equal(t, "KVLAAGIVG", got[0].AASequence)
	require.NotNil(t, got[0].Degeneracy)
	assert.Equal(t, 2, *got[0].Degeneracy)

	for _, d := range got {
		assert.True(t, d.IsDesign())
		assert.Equal(t, types.ClassPerfect, d.DNAClass)
	}

	// No attributes: protein from the id, null phase, and a sequence
	// without an initiator is left alone.
	assert.Equal(t, "P7", got[2].ProteinID)
	assert.Equal(t, "", got[2].Phase)
	assert.Nil(t, got[2].Degeneracy)
	assert.Equal(t, "KVW", got[2].AASequence)
}

func TestReadersNormalizeResidueCase(t *testing.T) {
	observed, err := ReadObserved(strings.NewReader(
		"barcode,dna_sequence,full_id,protein_id,phase,degeneracy,dna_class,aa_sequence\nBC1,atg,P1_A,P1,A,1,mutant_nophase,kvlaag*\n"))
	require.NoError(t, err)
	designs, err := ReadDesigns(strings.NewReader(">P1_A protein_id=P1 phase=A\nmKVLaag\n"))
	require.NoError(t, err)

	require.Len(t, observed, 1)
	require.Len(t, designs, 1)
	assert.Equal(t, "KVLAAG*", observed[0].AASequence)
	assert.Equal(t, "KVLAAG", designs[0].AASequence)
	assert.Equal(t, designs[0].AASequence, strings.TrimSuffix(observed[0].AASequence, "*"))
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	obs := filepath.Join(dir, "observed.csv")
	des := filepath.Join(dir, "designs.fasta")
	require.NoError(t, os.WriteFile(obs, []byte(observedCSV), 0o644))
	require.NoError(t, os.WriteFile(des, []byte(designFASTA), 0o644))

	records, err := ReadObservedFile(obs)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	designs, err := ReadDesignsFile(des)
	require.NoError(t, err)
	assert.Len(t, designs, 3)

	_, err = ReadObservedFile(filepath.Join(dir, "missing.csv"))
	assert.ErrorContains(t, err, "opening observed records")
}
