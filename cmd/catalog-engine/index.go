// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/catalog-engine/internal/index"
	"github.com/pdiddy/catalog-engine/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the search index (store, search, export)",
	Long: `Index manages a local SQLite full-text index built from catalog
documents. Use subcommands to ingest documents, search entries, or export.`,
}

// --- store subcommand ---

var indexStoreCmd = &cobra.Command{
	Use:   "store [document...]",
	Short: "Ingest catalog documents into the search index",
	Long: `Store parses catalog documents, ingests their entries into a SQLite
database with FTS5 indexing, and records each file's modification time.
Unchanged documents are skipped on subsequent runs.`,
	RunE: runIndexStore,
}

func runIndexStore(cmd *cobra.Command, args []string) error {
	cfg := indexConfig(cmd)

	store, err := index.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	docs := args
	if len(docs) == 0 {
		docs = []string{documentPath(cmd)}
	}

	summary, err := store.Ingest(context.Background(), docs, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d document(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var indexSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the index with full-text queries and filters",
	Long: `Search queries the index using FTS5 full-text search over titles and
bodies, structural filters (--lang, --ordinal, --doc), or a combination
of both.`,
	RunE: runIndexSearch,
}

func runIndexSearch(cmd *cobra.Command, args []string) error {
	cfg := indexConfig(cmd)

	store, err := index.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --lang, --ordinal, or --doc")
	}

	results, err := store.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []index.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-7s  %-56s  %-16s  %s\n",
		"Rank", "Ordinal", "Title", "Langs", "Doc")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for i, r := range results {
		title := r.Title
		if len(title) > 56 {
			title = title[:53] + "..."
		}
		doc := r.Doc
		if len(doc) > 24 {
			doc = "..." + doc[len(doc)-21:]
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-7d  %-56s  %-16s  %s\n",
			i+1, r.Ordinal, title, strings.Join(r.Langs, ","), doc)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the index to YAML or JSON",
	Long: `Export writes the full index (or a filtered subset) to
index/export.yaml or export.json. Supports the same filter flags as
search for partial exports.`,
	RunE: runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	cfg := indexConfig(cmd)
	store, err := index.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.yaml\n", cfg.IndexDir)
	case "json":
		if err := store.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.json\n", cfg.IndexDir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func indexConfig(cmd *cobra.Command) types.IndexConfig {
	indexDir, _ := cmd.Flags().GetString("index-dir")
	if indexDir == "" {
		indexDir = "index"
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return types.IndexConfig{
		IndexDir:   indexDir,
		MaxResults: maxResults,
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	lang, _ := cmd.Flags().GetString("lang")
	ordinal, _ := cmd.Flags().GetInt("ordinal")
	doc, _ := cmd.Flags().GetString("doc")
	limit, _ := cmd.Flags().GetInt("limit")

	return index.QueryOptions{
		Query:      queryText,
		Lang:       lang,
		Ordinal:    ordinal,
		Doc:        doc,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	indexCmd.PersistentFlags().String("index-dir", "index", "directory holding the SQLite index")
	indexCmd.PersistentFlags().Int("max-results", 20, "maximum number of search results")

	// Search flags.
	indexSearchCmd.Flags().String("query", "", "full-text search query")
	indexSearchCmd.Flags().String("lang", "", "filter by snippet language tag (e.g. cpp)")
	indexSearchCmd.Flags().Int("ordinal", 0, "filter by entry ordinal")
	indexSearchCmd.Flags().String("doc", "", "filter by document path")
	indexSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	indexSearchCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	indexExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	indexExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	indexExportCmd.Flags().String("lang", "", "filter by snippet language for partial export")
	indexExportCmd.Flags().Int("ordinal", 0, "filter by entry ordinal for partial export")
	indexExportCmd.Flags().String("doc", "", "filter by document path for partial export")
	indexExportCmd.Flags().Int("limit", 0, "maximum entries to export (0 = all)")

	// Wire subcommands.
	indexCmd.AddCommand(indexStoreCmd)
	indexCmd.AddCommand(indexSearchCmd)
	indexCmd.AddCommand(indexExportCmd)

	rootCmd.AddCommand(indexCmd)
}
