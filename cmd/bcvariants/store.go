// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bcvariants/internal/store"
	"github.com/pdiddy/bcvariants/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Query and export runs saved in the SQLite store",
	Long: `Store manages the SQLite database of annotated variants written by
classify --store. Use subcommands to list runs, query variants, or export.`,
}

// --- runs subcommand ---

var storeRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored runs",
	RunE:  runStoreRuns,
}

func runStoreRuns(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.Runs(context.Background())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs stored.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID, r.StartedAt.Local().Format(time.DateTime),
			strconv.FormatUint(r.Seed, 10), strconv.Itoa(r.Variants),
		})
	}
	fmt.Println(renderTable([]string{"Run", "Started", "Seed", "Variants"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight}))
	return nil
}

// --- retrieve subcommand ---

var storeRetrieveCmd = &cobra.Command{
	Use:   "retrieve",
	Short: "Query stored variants by run, protein, phase, class, or mutation type",
	RunE:  runStoreRetrieve,
}

func runStoreRetrieve(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	opts, err := queryOptsFromFlags(cmd, s)
	if err != nil {
		return err
	}
	results, err := s.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	rows := make([][]string, 0, len(results))
	for _, v := range results {
		rows = append(rows, []string{
			v.Barcode, v.ProteinID, v.AAPhase, string(v.DNAClass), string(v.AAClass),
			string(v.MutationType), strconv.Itoa(v.AALength),
		})
	}
	fmt.Println(renderTable(
		[]string{"Barcode", "Protein", "Phase", "DNA class", "AA class", "Mutation", "Length"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	))
	fmt.Printf("\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored variants to YAML or JSON",
	Long: `Export writes stored variants (or a filtered subset) to export.yaml or
export.json in the store directory. Supports the same filter flags as
retrieve.`,
	RunE: runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	opts, err := queryOptsFromFlags(cmd, s)
	if err != nil {
		return err
	}

	switch format {
	case "yaml", "":
		err = s.ExportYAML(context.Background(), opts)
	case "json":
		err = s.ExportJSON(context.Background(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	if format == "" {
		format = "yaml"
	}
	fmt.Printf("Exported to %s/export.%s\n", pipelineConfig().Store.Dir, format)
	return nil
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*store.Store, error) {
	err := bindFlags(cmd, map[string]string{
		"store-dir":   "store.dir",
		"max-results": "store.max_results",
	})
	if err != nil {
		return nil, err
	}
	return store.NewStore(pipelineConfig().Store)
}

func queryOptsFromFlags(cmd *cobra.Command, s *store.Store) (store.QueryOptions, error) {
	runID, _ := cmd.Flags().GetString("run")
	latest, _ := cmd.Flags().GetBool("latest")
	protein, _ := cmd.Flags().GetString("protein")
	phase, _ := cmd.Flags().GetString("phase")
	class, _ := cmd.Flags().GetString("class")
	mutation, _ := cmd.Flags().GetString("mutation")
	limit, _ := cmd.Flags().GetInt("limit")

	if latest && runID == "" {
		id, err := s.LatestRun(context.Background())
		if err != nil {
			return store.QueryOptions{}, err
		}
		if id == "" {
			return store.QueryOptions{}, fmt.Errorf("no runs stored")
		}
		runID = id
	}

	opts := store.QueryOptions{
		RunID:      runID,
		ProteinID:  protein,
		Phase:      phase,
		AAClass:    types.DNAClass(class),
		MaxResults: limit,
	}
	if mutation != "" {
		mt, err := types.ParseMutationType(mutation)
		if err != nil {
			return store.QueryOptions{}, err
		}
		opts.MutationType = mt
	}
	return opts, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("run", "", "filter by run id")
	cmd.Flags().Bool("latest", false, "filter by the most recent run")
	cmd.Flags().String("protein", "", "filter by protein id")
	cmd.Flags().String("phase", "", "filter by fusion phase")
	cmd.Flags().String("class", "", "filter by amino-acid class: perfect, mutant_phase, mutant_nophase")
	cmd.Flags().String("mutation", "", "filter by mutation type: None, DNA, Missense, Insertion, Deletion, Nonsense, Unknown")
	cmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
}

func init() {
	def := types.DefaultPipelineConfig()

	// Shared flags on the parent command, inherited by subcommands.
	storeCmd.PersistentFlags().String("store-dir", def.Store.Dir, "directory containing variants.db")
	storeCmd.PersistentFlags().Int("max-results", def.Store.MaxResults, "default maximum number of query results")

	addFilterFlags(storeRetrieveCmd)
	storeRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	addFilterFlags(storeExportCmd)
	storeExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	storeCmd.AddCommand(storeRunsCmd)
	storeCmd.AddCommand(storeRetrieveCmd)
	storeCmd.AddCommand(storeExportCmd)

	rootCmd.AddCommand(storeCmd)
}
