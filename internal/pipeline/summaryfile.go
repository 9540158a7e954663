// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bcvariants/pkg/types"
)

// SummaryFile is the on-disk record of a run: the settings that produced it
// and its diagnostic counters. It lets a run be inspected later without
// re-running the pipeline.
type SummaryFile struct {
	Inputs types.InputConfig `yaml:"inputs"`
	Trim   types.TrimConfig  `yaml:"trim"`
	Run    *Result           `yaml:"run"`
}

// WriteSummaryFile saves the run settings and counters to a YAML file.
func WriteSummaryFile(path string, cfg types.PipelineConfig, res *Result) error {
	sf := SummaryFile{
		Inputs: cfg.Input,
		Trim:   cfg.Trim,
		Run:    res,
	}
	data, err := yaml.Marshal(&sf)
	if err != nil {
		return fmt.Errorf("marshaling summary file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSummaryFile loads a previously saved summary file from disk.
func ReadSummaryFile(path string) (*SummaryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading summary file: %w", err)
	}
	var sf SummaryFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing summary file: %w", err)
	}
	if sf.Run == nil {
		return nil, fmt.Errorf("parsing summary file: no run section")
	}
	return &sf, nil
}
