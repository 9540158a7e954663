// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package loader

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/pdiddy/bcvariants/pkg/types"
)

// initiator is the leading methionine removed from catalog sequences so they
// line up with observed translations.
const initiator = "M"

// ReadDesigns parses the reference design catalog from FASTA. Each header is
//
//	>full_id protein_id=P1 phase=+1n degeneracy=3
//
// Missing keys are null, except protein_id, which defaults to the full_id
// prefix before its last underscore. The leading initiator residue is
// stripped and every record is tagged as a design.
func ReadDesigns(r io.Reader) ([]types.VariantRecord, error) {
	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.Protein)))

	var designs []types.VariantRecord
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		attrs := parseAttributes(s.Desc)

		proteinID := attrs["protein_id"]
		if proteinID == "" {
			proteinID = proteinFromFullID(s.ID)
		}
		deg, err := parseDegeneracy(attrs["degeneracy"])
		if err != nil {
			return nil, fmt.Errorf("design %s: %w", s.ID, err)
		}

		aa := strings.TrimPrefix(residues(string(alphabet.LettersToBytes(s.Seq))), initiator)
		designs = append(designs, types.NewDesignRecord(s.ID, proteinID, nullable(attrs["phase"]), deg, aa))
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("reading design fasta: %w", err)
	}
	return designs, nil
}

// ReadDesignsFile opens path and parses it with ReadDesigns.
func ReadDesignsFile(path string) ([]types.VariantRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening design catalog: %w", err)
	}
	defer f.Close()

	designs, err := ReadDesigns(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return designs, nil
}

// parseAttributes splits a FASTA description into key=value pairs. Tokens
// without '=' are ignored.
func parseAttributes(desc string) map[string]string {
	attrs := make(map[string]string)
	for _, tok := range strings.Fields(desc) {
		k, v, ok := strings.Cut(tok, "=")
		if !ok {
			continue
		}
		attrs[strings.ToLower(k)] = v
	}
	return attrs
}

func proteinFromFullID(fullID string) string {
	if i := strings.LastIndex(fullID, "_"); i > 0 {
		return fullID[:i]
	}
	return fullID
}
