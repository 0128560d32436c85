// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/catalog-engine/internal/parse"
	"github.com/pdiddy/catalog-engine/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the catalog document for structural problems",
	Long: `Validate parses the catalog document and checks its structural
well-formedness: ordinals contiguous from 1, non-empty titles and bodies,
and byte-exact snippet fence round-trips. Warnings (such as duplicate
titles) do not fail the run; errors do.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := documentPath(cmd)

	cat, err := parse.ParseFile(path)
	if err != nil {
		return err
	}

	report := validate.Check(cat)
	report.Print(os.Stdout)

	if !report.Ok() {
		return fmt.Errorf("%d validation error(s) in %s", report.Errors(), path)
	}
	fmt.Printf("%s: %d entries OK\n", path, cat.Len())
	return nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
