// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists annotated variants from pipeline runs in a SQLite
// database and exports them as YAML or JSON.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/bcvariants/internal/pipeline"
	"github.com/pdiddy/bcvariants/pkg/types"
)

const dbFile = "variants.db"

// Store manages the annotation database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates dir/variants.db and its schema.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("store directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			seed TEXT NOT NULL,
			started_at TEXT NOT NULL,
			summary TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS variants (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			barcode TEXT NOT NULL,
			dna_sequence TEXT,
			full_id TEXT,
			protein_id TEXT NOT NULL,
			phase TEXT,
			degeneracy INTEGER,
			dna_class TEXT NOT NULL,
			aa_sequence TEXT,
			aa_length INTEGER NOT NULL,
			contains_stop INTEGER NOT NULL,
			stop_in_terminal_window INTEGER NOT NULL,
			aa_class TEXT NOT NULL,
			aa_phase TEXT,
			mutation_type TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_variants_run ON variants(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_variants_protein_phase ON variants(protein_id, phase)`,
		`CREATE INDEX IF NOT EXISTS idx_variants_mutation ON variants(mutation_type)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from storing one run.
type IngestSummary struct {
	RunID    string
	Variants int
	Replaced bool
}

// Ingest stores a run and its variants in one transaction. Storing a run id
// that already exists replaces it. On success it refreshes export.yaml.
func (s *Store) Ingest(ctx context.Context, res *pipeline.Result, w io.Writer) (IngestSummary, error) {
	if res == nil || res.RunID == "" {
		return IngestSummary{}, fmt.Errorf("run has no id")
	}

	summaryJSON, err := json.Marshal(res)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("marshaling run summary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM runs WHERE id = ?`, res.RunID).Scan(&existing); err != nil {
		return IngestSummary{}, fmt.Errorf("checking run: %w", err)
	}
	if existing > 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM variants WHERE run_id = ?`, res.RunID); err != nil {
			return IngestSummary{}, fmt.Errorf("deleting old variants: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, seed, started_at, summary) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			seed=excluded.seed, started_at=excluded.started_at, summary=excluded.summary`,
		res.RunID, strconv.FormatUint(res.Seed, 10),
		res.StartedAt.UTC().Format(time.RFC3339Nano), string(summaryJSON),
	)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("upserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO variants (run_id, barcode, dna_sequence, full_id, protein_id, phase,
			degeneracy, dna_class, aa_sequence, aa_length, contains_stop,
			stop_in_terminal_window, aa_class, aa_phase, mutation_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range res.Variants {
		var deg sql.NullInt64
		if v.Degeneracy != nil {
			deg = sql.NullInt64{Int64: int64(*v.Degeneracy), Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			res.RunID, v.Barcode, v.DNASequence, v.FullID, v.ProteinID, v.Phase,
			deg, string(v.DNAClass), v.AASequence, v.AALength, v.ContainsStop,
			v.StopInTerminalWindow, string(v.AAClass), v.AAPhase, string(v.MutationType),
		)
		if err != nil {
			return IngestSummary{}, fmt.Errorf("inserting variant %s: %w", v.Barcode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return IngestSummary{}, fmt.Errorf("committing run: %w", err)
	}

	summary := IngestSummary{RunID: res.RunID, Variants: len(res.Variants), Replaced: existing > 0}
	verb := "stored"
	if summary.Replaced {
		verb = "replaced"
	}
	fmt.Fprintf(w, "%s run %s (%d variants)\n", verb, res.RunID, summary.Variants)

	if err := s.ExportYAML(ctx, QueryOptions{RunID: res.RunID}); err != nil {
		fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
	}
	return summary, nil
}

// RunInfo describes one stored run.
type RunInfo struct {
	ID        string    `json:"id" yaml:"id"`
	Seed      uint64    `json:"seed" yaml:"seed"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Variants  int       `json:"variants" yaml:"variants"`
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.seed, r.started_at, count(v.rowid)
		 FROM runs r LEFT JOIN variants v ON v.run_id = r.id
		 GROUP BY r.id ORDER BY r.started_at DESC, r.id`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var (
			ri      RunInfo
			seed    string
			started string
		)
		if err := rows.Scan(&ri.ID, &seed, &started, &ri.Variants); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		var err error
		if ri.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
			return nil, fmt.Errorf("parsing run %s: %w", ri.ID, err)
		}
		if ri.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parsing run %s: %w", ri.ID, err)
		}
		runs = append(runs, ri)
	}
	return runs, rows.Err()
}

// LatestRun returns the id of the most recently started run, or "" when the
// store is empty.
func (s *Store) LatestRun(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY started_at DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("looking up latest run: %w", err)
	}
	return id, nil
}
