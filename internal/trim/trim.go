// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trim derives stop-codon flags for observed sequences, trims them at
// the first stop, and applies the length and truncation-position gates.
package trim

import (
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/bcvariants/pkg/types"
)

// FilterSummary holds counts from a filtering pass.
type FilterSummary struct {
	Read int `json:"read" yaml:"read"`
	Kept int `json:"kept" yaml:"kept"`

	// DroppedInternalStop counts records with a stop before the terminal window.
	DroppedInternalStop int `json:"dropped_internal_stop" yaml:"dropped_internal_stop"`

	// DroppedShort counts records that failed only the length gate.
	DroppedShort int `json:"dropped_short" yaml:"dropped_short"`
}

// Dropped returns the number of records removed.
func (s FilterSummary) Dropped() int {
	return s.DroppedInternalStop + s.DroppedShort
}

// Derive returns a copy of rec with the stop flags computed from the raw
// amino-acid sequence, the sequence trimmed before its first stop, and the
// trimmed length.
func Derive(rec types.VariantRecord, cfg types.TrimConfig) types.VariantRecord {
	raw := rec.AASequence
	stop := strings.IndexRune(raw, types.StopMarker)

	rec.ContainsStop = stop >= 0
	rec.StopInTerminalWindow = stopInWindow(raw, cfg.TerminalWindow)
	if stop >= 0 {
		rec.AASequence = raw[:stop]
	}
	rec.AALength = utf8.RuneCountInString(rec.AASequence)
	return rec
}

// stopInWindow reports whether seq has a stop in its last window residues and
// none before them. Sequences shorter than the window are checked whole.
// Residues are counted as characters, not bytes.
func stopInWindow(seq string, window int) bool {
	cut := 0
	for skip := utf8.RuneCountInString(seq) - window; skip > 0; skip-- {
		_, size := utf8.DecodeRuneInString(seq[cut:])
		cut += size
	}
	head, tail := seq[:cut], seq[cut:]
	return strings.ContainsRune(tail, types.StopMarker) &&
		!strings.ContainsRune(head, types.StopMarker)
}

// Keep reports whether a derived record passes both gates: long enough for
// its stop status, and any stop lies in the terminal window.
func Keep(rec types.VariantRecord, cfg types.TrimConfig) bool {
	return lengthOK(rec, cfg) && positionOK(rec)
}

func lengthOK(rec types.VariantRecord, cfg types.TrimConfig) bool {
	if rec.ContainsStop {
		return rec.AALength > cfg.MinTruncatedLength-1
	}
	return rec.AALength > cfg.MinFullLength-1
}

func positionOK(rec types.VariantRecord) bool {
	return !rec.ContainsStop || rec.StopInTerminalWindow
}

// Filter derives every record and returns the ones that pass Keep, in input
// order. The input slice is not modified.
func Filter(records []types.VariantRecord, cfg types.TrimConfig) ([]types.VariantRecord, FilterSummary) {
	summary := FilterSummary{Read: len(records)}
	kept := make([]types.VariantRecord, 0, len(records))

	for _, rec := range records {
		d := Derive(rec, cfg)
		switch {
		case !positionOK(d):
			summary.DroppedInternalStop++
		case !lengthOK(d, cfg):
			summary.DroppedShort++
		default:
			kept = append(kept, d)
		}
	}
	summary.Kept = len(kept)
	return kept, summary
}

// DeriveAll applies Derive to every record without filtering. Reference
// designs go through this path so their lengths are available as baselines.
func DeriveAll(records []types.VariantRecord, cfg types.TrimConfig) []types.VariantRecord {
	out := make([]types.VariantRecord, len(records))
	for i, rec := range records {
		out[i] = Derive(rec, cfg)
	}
	return out
}
