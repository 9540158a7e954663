// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/bcvariants/pkg/types"
)

// QueryOptions holds filters for variant queries. Empty fields do not filter.
type QueryOptions struct {
	RunID        string
	ProteinID    string
	Phase        string
	MutationType types.MutationType
	AAClass      types.DNAClass

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// StoredVariant is an annotated variant with the run that produced it.
type StoredVariant struct {
	RunID                  string `json:"run_id" yaml:"run_id"`
	types.AnnotatedVariant `yaml:",inline"`
}

// Retrieve returns variants matching opts ordered by protein, phase, full id
// and barcode.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]StoredVariant, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT run_id, barcode, dna_sequence, full_id, protein_id, phase, degeneracy,
			dna_class, aa_sequence, aa_length, contains_stop, stop_in_terminal_window,
			aa_class, aa_phase, mutation_type
		FROM variants WHERE 1=1`)

	filters := []struct {
		column, value string
	}{
		{"run_id", opts.RunID},
		{"protein_id", opts.ProteinID},
		{"aa_phase", opts.Phase},
		{"mutation_type", string(opts.MutationType)},
		{"aa_class", string(opts.AAClass)},
	}
	for _, f := range filters {
		if f.value == "" {
			continue
		}
		qb.WriteString(` AND ` + f.column + ` = ?`)
		args = append(args, f.value)
	}

	qb.WriteString(` ORDER BY protein_id, aa_phase, full_id, barcode LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying variants: %w", err)
	}
	defer rows.Close()

	var results []StoredVariant
	for rows.Next() {
		var (
			sv       StoredVariant
			deg      sql.NullInt64
			dnaClass string
			aaClass  string
			mutation string
		)
		if err := rows.Scan(
			&sv.RunID, &sv.Barcode, &sv.DNASequence, &sv.FullID, &sv.ProteinID, &sv.Phase, &deg,
			&dnaClass, &sv.AASequence, &sv.AALength, &sv.ContainsStop, &sv.StopInTerminalWindow,
			&aaClass, &sv.AAPhase, &mutation,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if deg.Valid {
			n := int(deg.Int64)
			sv.Degeneracy = &n
		}
		sv.DNAClass = types.DNAClass(dnaClass)
		sv.AAClass = types.DNAClass(aaClass)
		sv.MutationType = types.MutationType(mutation)
		results = append(results, sv)
	}
	return results, rows.Err()
}
