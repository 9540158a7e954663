// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify annotates merged records with an amino-acid level class,
// a phase, and a mutation type.
//
// Annotation runs two grouping passes over the merged table. The first groups
// rows by (protein, amino-acid sequence) and resolves the class and phase once
// per group. The second groups rows by (protein, phase) and compares each
// row's length to the perfect reference of its group.
package classify

import (
	"strings"

	"github.com/samber/lo"

	"github.com/pdiddy/bcvariants/pkg/types"
)

// Summary counts annotated output rows.
type Summary struct {
	Rows int `json:"rows" yaml:"rows"`

	// DesignRowsRemoved counts catalog rows dropped after supplying context.
	DesignRowsRemoved int `json:"design_rows_removed" yaml:"design_rows_removed"`

	ByMutationType map[types.MutationType]int `json:"by_mutation_type" yaml:"by_mutation_type"`
	ByClass        map[types.DNAClass]int     `json:"by_class" yaml:"by_class"`
}

type seqKey struct {
	protein  string
	sequence string
}

type phaseKey struct {
	protein string
	phase   string
}

// groupClass is the class and phase shared by every row of a sequence group.
// An empty class means the group holds no known class and each row keeps its
// own label.
type groupClass struct {
	class types.DNAClass
	phase string
}

type reference struct {
	length int
	ok     bool
}

// classPriority is the order in which known classes win a sequence group.
var classPriority = []types.DNAClass{types.ClassPerfect, types.ClassMutantPhase, types.ClassMutantNoPhase}

// Annotate returns one AnnotatedVariant per non-design row of merged, in
// input order. merged is not modified.
func Annotate(merged []types.VariantRecord) ([]types.AnnotatedVariant, Summary) {
	rows := make([]types.AnnotatedVariant, len(merged))
	for i, rec := range merged {
		rec.Phase = normalizePhase(rec.Phase)
		rows[i] = types.AnnotatedVariant{VariantRecord: rec}
	}

	// Step A: class and phase per (protein, sequence).
	bySeq := lo.GroupBy(lo.Range(len(rows)), func(i int) seqKey {
		return seqKey{rows[i].ProteinID, rows[i].AASequence}
	})
	classes := make(map[seqKey]groupClass, len(bySeq))
	for key, idx := range bySeq {
		classes[key] = resolveGroup(rows, idx)
	}
	for i := range rows {
		gc := classes[seqKey{rows[i].ProteinID, rows[i].AASequence}]
		rows[i].AAClass = gc.class
		if gc.class == "" {
			rows[i].AAClass = rows[i].DNAClass
		}
		rows[i].AAPhase = gc.phase
	}

	// Step B: mutation type per (protein, phase).
	byPhase := lo.GroupBy(lo.Range(len(rows)), func(i int) phaseKey {
		return phaseKey{rows[i].ProteinID, rows[i].Phase}
	})
	refs := make(map[phaseKey]reference, len(byPhase))
	for key, idx := range byPhase {
		refs[key] = findReference(rows, idx)
	}
	for i := range rows {
		ref := refs[phaseKey{rows[i].ProteinID, rows[i].Phase}]
		rows[i].MutationType = mutationType(rows[i], ref)
	}

	// Step C: observed phase wins over inferred phase; drop design rows.
	out := make([]types.AnnotatedVariant, 0, len(rows))
	for _, row := range rows {
		if row.IsDesign() {
			continue
		}
		if row.Phase != "" {
			row.AAPhase = row.Phase
		}
		out = append(out, row)
	}

	return out, summarize(out, len(rows)-len(out))
}

// resolveGroup picks the highest-priority class present in the group and the
// phase of its first member. The phase precedence mirrors the class order.
func resolveGroup(rows []types.AnnotatedVariant, idx []int) groupClass {
	first := make(map[types.DNAClass]int, len(classPriority))
	for _, i := range idx {
		c := rows[i].DNAClass
		if _, seen := first[c]; !seen {
			first[c] = i
		}
	}

	var gc groupClass
	for _, c := range classPriority {
		if _, ok := first[c]; ok {
			gc.class = c
			break
		}
	}

	switch gc.class {
	case types.ClassPerfect, types.ClassMutantPhase:
		gc.phase = rows[first[gc.class]].Phase
	default:
		// Group class is neither perfect nor mutant_phase.
		if i, ok := lo.Find(idx, func(i int) bool {
			c := rows[i].DNAClass
			return c == types.ClassPerfect || c == types.ClassMutantPhase
		}); ok {
			gc.phase = rows[i].Phase
		}
	}
	return gc
}

// findReference returns the length of the first row in the group whose
// amino-acid class is perfect.
func findReference(rows []types.AnnotatedVariant, idx []int) reference {
	i, ok := lo.Find(idx, func(i int) bool { return rows[i].AAClass == types.ClassPerfect })
	if !ok {
		return reference{}
	}
	return reference{length: rows[i].AALength, ok: true}
}

// mutationType applies the rules in priority order. A stop always wins.
func mutationType(row types.AnnotatedVariant, ref reference) types.MutationType {
	switch {
	case row.ContainsStop:
		return types.MutationNonsense
	case row.DNAClass == types.ClassPerfect:
		return types.MutationNone
	case row.AAClass == types.ClassPerfect:
		return types.MutationDNA
	case !ref.ok:
		return types.MutationUnknown
	case row.AALength == ref.length:
		return types.MutationMissense
	case row.AALength > ref.length:
		return types.MutationInsertion
	default:
		return types.MutationDeletion
	}
}

// normalizePhase maps blank phases to null.
func normalizePhase(phase string) string {
	if strings.TrimSpace(phase) == "" {
		return ""
	}
	return phase
}

func summarize(rows []types.AnnotatedVariant, removed int) Summary {
	return Summary{
		Rows:              len(rows),
		DesignRowsRemoved: removed,
		ByMutationType: lo.CountValuesBy(rows, func(r types.AnnotatedVariant) types.MutationType {
			return r.MutationType
		}),
		ByClass: lo.CountValuesBy(rows, func(r types.AnnotatedVariant) types.DNAClass {
			return r.AAClass
		}),
	}
}
