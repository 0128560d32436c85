// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/catalog-engine/internal/importer"
	"github.com/pdiddy/catalog-engine/pkg/types"
)

var importCmd = &cobra.Command{
	Use:   "import <url-or-file>",
	Short: "Seed a catalog document from an HTML Q&A page",
	Long: `Import fetches an HTML page (or reads a local HTML file), selects its
question headings with a CSS selector, converts each question block to
Markdown, and writes a catalog document with ordinals assigned by
position. The existing catalog is never touched; output goes to the
--output path.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	source := args[0]
	selector, _ := cmd.Flags().GetString("selector")
	output, _ := cmd.Flags().GetString("output")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg := types.ImportConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: "catalog-engine/" + version,
		},
		Selector:   selector,
		OutputPath: output,
	}

	client := &http.Client{Timeout: cfg.Timeout}
	im := importer.New(client, cfg)

	var (
		cat *types.Catalog
		err error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		cat, err = im.Fetch(context.Background(), source)
	} else {
		var f *os.File
		f, err = os.Open(source)
		if err != nil {
			return fmt.Errorf("opening %s: %w", source, err)
		}
		defer f.Close()
		cat, err = im.FromReader(f, source)
	}
	if err != nil {
		return err
	}

	if cat.Len() == 0 {
		return fmt.Errorf("no entries matched selector %q in %s", selector, source)
	}

	doc := importer.Document(cat)
	if err := os.WriteFile(output, doc, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	fmt.Printf("Imported %d entries from %s to %s\n", cat.Len(), source, output)
	return nil
}

func init() {
	importCmd.Flags().String("selector", "h2", "CSS selector matching question headings")
	importCmd.Flags().String("output", "imported.md", "output path for the generated catalog document")
	importCmd.Flags().Duration("timeout", 30*time.Second, "HTTP request timeout")

	rootCmd.AddCommand(importCmd)
}
