// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TrimConfig holds the sequence trimming and length-gate settings.
type TrimConfig struct {
	// TerminalWindow is the number of C-terminal residues in which a stop
	// counts as a legitimate truncation (default 35).
	TerminalWindow int `json:"terminal_window" yaml:"terminal_window"`

	// MinFullLength is the shortest accepted length for a sequence with no
	// stop (default 200).
	MinFullLength int `json:"min_full_length" yaml:"min_full_length"`

	// MinTruncatedLength is the shortest accepted trimmed length for a
	// sequence with a terminal stop (default 170).
	MinTruncatedLength int `json:"min_truncated_length" yaml:"min_truncated_length"`
}

// ResolveConfig holds the barcode collision settings.
type ResolveConfig struct {
	// Seed initializes the random source that picks one record from a
	// degenerate perfect collision.
	Seed uint64 `json:"seed" yaml:"seed"`
}

// InputConfig names the upstream data files.
type InputConfig struct {
	// ObservedPath is the combined sequencing CSV.
	ObservedPath string `json:"observed_path" yaml:"observed_path"`

	// DesignsPath is the reference design FASTA.
	DesignsPath string `json:"designs_path" yaml:"designs_path"`
}

// StoreConfig holds settings for the annotation database.
type StoreConfig struct {
	// Dir contains variants.db and exports.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ReportConfig holds settings for the files written after a run.
type ReportConfig struct {
	// OutputDir receives the workbook and the run summary.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Workbook enables the xlsx report.
	Workbook bool `json:"workbook" yaml:"workbook"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Input   InputConfig   `json:"input" yaml:"input"`
	Trim    TrimConfig    `json:"trim" yaml:"trim"`
	Resolve ResolveConfig `json:"resolve" yaml:"resolve"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Report  ReportConfig  `json:"report" yaml:"report"`
}

// DefaultTrimConfig returns the length gates used for the fusion library.
func DefaultTrimConfig() TrimConfig {
	return TrimConfig{
		TerminalWindow:     35,
		MinFullLength:      200,
		MinTruncatedLength: 170,
	}
}

// DefaultPipelineConfig returns a configuration with every default filled in.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Trim:    DefaultTrimConfig(),
		Resolve: ResolveConfig{Seed: 1},
		Store:   StoreConfig{Dir: "results", MaxResults: 50},
		Report:  ReportConfig{OutputDir: "results", Workbook: true},
	}
}
