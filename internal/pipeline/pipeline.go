// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the classification stages in order: trim and filter
// observed records, resolve barcode collisions, merge with the design
// catalog, and annotate.
//
// A run is all-or-nothing: any stage error aborts it and no variants are
// returned.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/bcvariants/internal/classify"
	"github.com/pdiddy/bcvariants/internal/collision"
	"github.com/pdiddy/bcvariants/internal/loader"
	"github.com/pdiddy/bcvariants/internal/merge"
	"github.com/pdiddy/bcvariants/internal/trim"
	"github.com/pdiddy/bcvariants/pkg/types"
)

// Result holds the annotated table and the diagnostics of one run.
type Result struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	Seed      uint64    `json:"seed" yaml:"seed"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	Designs    int                      `json:"designs" yaml:"designs"`
	Filter     trim.FilterSummary       `json:"filter" yaml:"filter"`
	Collisions collision.Summary        `json:"collisions" yaml:"collisions"`
	Annotation classify.Summary         `json:"annotation" yaml:"annotation"`
	Variants   []types.AnnotatedVariant `json:"-" yaml:"-"`
}

// Run classifies observed against designs. Neither input slice is modified.
// chooser resolves degenerate perfect collisions; progress lines go to w.
func Run(ctx context.Context, observed, designs []types.VariantRecord, cfg types.PipelineConfig, chooser collision.Chooser, w io.Writer) (*Result, error) {
	res := &Result{
		RunID:     uuid.New().String(),
		Seed:      cfg.Resolve.Seed,
		StartedAt: time.Now().UTC(),
		Designs:   len(designs),
	}

	filtered, fs := trim.Filter(observed, cfg.Trim)
	res.Filter = fs
	fmt.Fprintf(w, "filter:   %d read, %d kept, %d internal stop, %d too short\n",
		fs.Read, fs.Kept, fs.DroppedInternalStop, fs.DroppedShort)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolved, cs, err := collision.Resolve(filtered, chooser)
	if err != nil {
		return nil, fmt.Errorf("resolving barcodes: %w", err)
	}
	res.Collisions = cs
	fmt.Fprintf(w, "resolve:  %d barcodes before, %d after, %d ambiguous dropped, %d perfect groups (mean %.2f, sd %.2f)\n",
		cs.BarcodesBefore, cs.BarcodesAfter, cs.DroppedAmbiguous, cs.PerfectGroups,
		cs.MultiplicityMean, cs.MultiplicityStdDev)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := merge.Merge(resolved, trim.DeriveAll(designs, cfg.Trim))
	fmt.Fprintf(w, "merge:    %d observed + %d designs\n", len(resolved), len(designs))

	variants, as := classify.Annotate(merged)
	res.Variants = variants
	res.Annotation = as
	fmt.Fprintf(w, "annotate: %d variants\n", as.Rows)

	return res, nil
}

// RunFiles loads the inputs named in cfg.Input and runs the pipeline with a
// random source seeded from cfg.Resolve.Seed.
func RunFiles(ctx context.Context, cfg types.PipelineConfig, w io.Writer) (*Result, error) {
	if cfg.Input.ObservedPath == "" || cfg.Input.DesignsPath == "" {
		return nil, fmt.Errorf("observed and designs inputs are both required")
	}

	observed, err := loader.ReadObservedFile(cfg.Input.ObservedPath)
	if err != nil {
		return nil, err
	}
	designs, err := loader.ReadDesignsFile(cfg.Input.DesignsPath)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "loaded:   %d observed records, %d designs\n", len(observed), len(designs))

	return Run(ctx, observed, designs, cfg, collision.NewChooser(cfg.Resolve.Seed), w)
}
