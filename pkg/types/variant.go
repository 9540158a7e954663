// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the records and configuration shared by the pipeline
// stages, the loaders, and the store.
package types

import (
	"fmt"
	"strings"
)

// DNAClass is the DNA-level classification of how closely an observed
// sequence matches a specific design.
type DNAClass string

const (
	ClassPerfect       DNAClass = "perfect"
	ClassMutantPhase   DNAClass = "mutant_phase"
	ClassMutantNoPhase DNAClass = "mutant_nophase"
)

// Known reports whether c is one of the three classes the classifier ranks.
func (c DNAClass) Known() bool {
	switch c {
	case ClassPerfect, ClassMutantPhase, ClassMutantNoPhase:
		return true
	}
	return false
}

// MutationType is the protein-level difference between a variant and its
// reference design.
type MutationType string

const (
	MutationNone      MutationType = "None"
	MutationDNA       MutationType = "DNA"
	MutationMissense  MutationType = "Missense"
	MutationInsertion MutationType = "Insertion"
	MutationDeletion  MutationType = "Deletion"
	MutationNonsense  MutationType = "Nonsense"
	MutationUnknown   MutationType = "Unknown"
)

// MutationTypes lists every mutation type in report order.
var MutationTypes = []MutationType{
	MutationNone, MutationDNA, MutationMissense, MutationInsertion,
	MutationDeletion, MutationNonsense, MutationUnknown,
}

// ParseMutationType converts s to a MutationType. Matching ignores case.
func ParseMutationType(s string) (MutationType, error) {
	for _, m := range MutationTypes {
		if strings.EqualFold(string(m), strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mutation type %q", s)
}

// DesignBarcode tags rows that come from the reference design catalog. It
// never appears in annotated output.
const DesignBarcode = "N/A"

// StopMarker is the amino-acid stop symbol.
const StopMarker = '*'

// VariantRecord is one (barcode, observed sequence) pairing.
type VariantRecord struct {
	// Barcode identifies the physical variant. DesignBarcode for catalog rows.
	Barcode string `json:"barcode" yaml:"barcode"`

	DNASequence string `json:"dna_sequence" yaml:"dna_sequence"`

	// FullID is the composite identifier of the design the read was assigned to.
	FullID string `json:"full_id" yaml:"full_id"`

	ProteinID string `json:"protein_id" yaml:"protein_id"`

	// Phase is the fusion phase label. Empty means null.
	Phase string `json:"phase" yaml:"phase"`

	// Degeneracy is the number of fusion phases designed for the parent
	// construct. Nil means unknown.
	Degeneracy *int `json:"degeneracy" yaml:"degeneracy"`

	DNAClass DNAClass `json:"dna_class" yaml:"dna_class"`

	// AASequence is raw on input and trimmed at the first stop after
	// derivation.
	AASequence string `json:"aa_sequence" yaml:"aa_sequence"`

	AALength             int  `json:"aa_length" yaml:"aa_length"`
	ContainsStop         bool `json:"contains_stop" yaml:"contains_stop"`
	StopInTerminalWindow bool `json:"stop_in_terminal_window" yaml:"stop_in_terminal_window"`
}

// IsDesign reports whether the record carries the reference design sentinel.
func (r VariantRecord) IsDesign() bool {
	return r.Barcode == DesignBarcode
}

// NewDesignRecord builds a reference design row. Designs are always perfect
// and never take part in barcode collision logic.
func NewDesignRecord(fullID, proteinID, phase string, degeneracy *int, aaSequence string) VariantRecord {
	return VariantRecord{
		Barcode:    DesignBarcode,
		FullID:     fullID,
		ProteinID:  proteinID,
		Phase:      phase,
		Degeneracy: degeneracy,
		DNAClass:   ClassPerfect,
		AASequence: aaSequence,
	}
}

// AnnotatedVariant is a record extended with its amino-acid level class,
// phase, and mutation type.
type AnnotatedVariant struct {
	VariantRecord `yaml:",inline"`

	AAClass      DNAClass     `json:"aa_class" yaml:"aa_class"`
	AAPhase      string       `json:"aa_phase" yaml:"aa_phase"`
	MutationType MutationType `json:"mutation_type" yaml:"mutation_type"`
}
