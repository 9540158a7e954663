package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	observedInput = "data/observed.csv"
	designsInput  = "data/designs.fasta"
)

// Classify builds the CLI and runs the pipeline on data/observed.csv and
// data/designs.fasta, storing the run under results/.
func Classify() error {
	mg.Deps(Init, Build)

	for _, path := range []string{observedInput, designsInput} {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("missing input %s: %w", path, err)
		}
	}
	return sh.RunV(filepath.Join(binDir, binName), "classify",
		"--observed", observedInput,
		"--designs", designsInput,
		"--output-dir", "results",
		"--store",
	)
}

// Summary prints the diagnostics of the last run.
func Summary() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "summary")
}
