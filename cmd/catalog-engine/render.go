// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/catalog-engine/internal/parse"
	"github.com/pdiddy/catalog-engine/internal/render"
	"github.com/pdiddy/catalog-engine/pkg/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the catalog to HTML pages or the terminal",
	Long: `Render converts catalog entries to display format. The default writes one
HTML page per entry plus an index page to the output directory. With
--format terminal (optionally --entry N) entries are printed to stdout
with terminal styling instead.

Snippets are rendered as opaque code blocks; nothing ever executes or
type-checks their contents.`,
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	path := documentPath(cmd)

	cat, err := parse.ParseFile(path)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "html", "":
		return renderHTML(cmd, cat)
	case "terminal":
		return renderTerminal(cmd, cat)
	default:
		return fmt.Errorf("unsupported format %q: use html or terminal", format)
	}
}

func renderHTML(cmd *cobra.Command, cat *types.Catalog) error {
	outDir, _ := cmd.Flags().GetString("output")
	baseURL, _ := cmd.Flags().GetString("base-url")
	unsafe, _ := cmd.Flags().GetBool("unsafe")

	h, err := render.NewHTML(types.RenderConfig{
		OutputDir: outDir,
		BaseURL:   baseURL,
		Unsafe:    unsafe,
	})
	if err != nil {
		return err
	}

	result, err := render.WriteSite(h, cat, outDir, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d entr(ies) failed to render", result.Failed)
	}
	return nil
}

func renderTerminal(cmd *cobra.Command, cat *types.Catalog) error {
	style, _ := cmd.Flags().GetString("style")
	wrap, _ := cmd.Flags().GetInt("wrap")
	ordinal, _ := cmd.Flags().GetInt("entry")

	t, err := render.NewTerminal(style, wrap)
	if err != nil {
		return err
	}

	if ordinal > 0 {
		e, ok := cat.ByOrdinal(ordinal)
		if !ok {
			return fmt.Errorf("no entry with ordinal %d", ordinal)
		}
		out, err := t.Render(e)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}

	for e := range cat.All() {
		out, err := t.Render(e)
		if err != nil {
			return err
		}
		fmt.Print(out)
	}
	return nil
}

func init() {
	renderCmd.Flags().String("format", "html", "output format: html or terminal")
	renderCmd.Flags().String("output", "site", "output directory for HTML pages")
	renderCmd.Flags().String("base-url", "", "absolute base URL for resolving relative links and images")
	renderCmd.Flags().Bool("unsafe", false, "allow raw HTML in the source to pass through")
	renderCmd.Flags().String("style", "", "terminal style name (default: auto-detect)")
	renderCmd.Flags().Int("wrap", 100, "terminal word-wrap width")
	renderCmd.Flags().Int("entry", 0, "render only the entry with this ordinal (terminal format)")

	rootCmd.AddCommand(renderCmd)
}
