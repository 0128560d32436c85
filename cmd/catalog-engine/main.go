// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the catalog-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/catalog-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds access tokens loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the catalog-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "catalog-engine",
	Short: "Tooling for a Markdown question/answer catalog",
	Long: `catalog-engine manages a catalog of question/answer entries authored as a
single Markdown document. The content is the product; the CLI only checks,
renders, and indexes it.

Each stage is a subcommand: validate checks structural well-formedness,
render produces HTML pages or styled terminal output, index maintains a
SQLite full-text search index, import seeds a catalog from an HTML page,
and mirror downloads referenced remote images for safekeeping.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./catalog-engine.yaml or ~/.config/catalog-engine/config.yaml)")
	rootCmd.PersistentFlags().String("document", "content/questions.md", "catalog document to operate on")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("catalog-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "catalog-engine"))
		}
	}

	viper.SetEnvPrefix("CATALOG_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// documentPath resolves the catalog document: an explicit --document flag
// wins, then the config file, then the flag default.
func documentPath(cmd *cobra.Command) string {
	if cmd.Flags().Changed("document") {
		doc, _ := cmd.Flags().GetString("document")
		return doc
	}
	if v := viper.GetString("catalog.document"); v != "" {
		dir := viper.GetString("catalog.content_dir")
		return filepath.Join(dir, v)
	}
	doc, _ := cmd.Flags().GetString("document")
	return doc
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
