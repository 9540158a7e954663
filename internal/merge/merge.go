// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge unions resolved observed records with the reference design
// catalog into one working table.
package merge

import "github.com/pdiddy/bcvariants/pkg/types"

// Merge returns observed followed by designs in a new slice. No
// deduplication or key matching happens here; the classifier relates rows
// through shared (protein, sequence) and (protein, phase) keys.
func Merge(observed, designs []types.VariantRecord) []types.VariantRecord {
	out := make([]types.VariantRecord, 0, len(observed)+len(designs))
	out = append(out, observed...)
	return append(out, designs...)
}
