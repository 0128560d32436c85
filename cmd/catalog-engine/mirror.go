// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/catalog-engine/internal/mirror"
	"github.com/pdiddy/catalog-engine/internal/parse"
	"github.com/pdiddy/catalog-engine/internal/secrets"
	"github.com/pdiddy/catalog-engine/pkg/types"
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Download the catalog's remote images into assets/",
	Long: `Mirror downloads every remote image the catalog references into a local
assets directory, one request per asset with a politeness delay. Assets
already on disk are skipped. With --rewrite, image URLs in a copy of the
document are pointed at the local files; the original document is never
modified in place.`,
	RunE: runMirror,
}

func runMirror(cmd *cobra.Command, args []string) error {
	path := documentPath(cmd)

	cat, err := parse.ParseFile(path)
	if err != nil {
		return err
	}

	assetsDir, _ := cmd.Flags().GetString("assets-dir")
	delay, _ := cmd.Flags().GetDuration("delay")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	token, _ := cmd.Flags().GetString("token")

	cfg := types.MirrorConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: "catalog-engine/" + version,
		},
		AssetsDir:     assetsDir,
		DownloadDelay: delay,
		AuthToken:     secretDefault(secrets.AssetHostToken, token),
	}

	client := &http.Client{Timeout: cfg.Timeout}

	result, err := mirror.Mirror(context.Background(), client, cat, cfg, os.Stdout)
	if err != nil {
		return err
	}

	rewrite, _ := cmd.Flags().GetBool("rewrite")
	if rewrite && len(result.Local) > 0 {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		outPath := path + ".local"
		if err := os.WriteFile(outPath, mirror.Rewrite(src, result.Local), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		fmt.Printf("Rewrote image URLs in %s\n", outPath)
	}

	if result.HasFailures() {
		return fmt.Errorf("%d asset(s) failed to download", result.Failed)
	}
	return nil
}

func init() {
	mirrorCmd.Flags().String("assets-dir", "assets", "directory downloaded assets are written to")
	mirrorCmd.Flags().Duration("delay", time.Second, "delay between consecutive downloads")
	mirrorCmd.Flags().Duration("timeout", 30*time.Second, "HTTP request timeout")
	mirrorCmd.Flags().String("token", "", "bearer token for the asset host (default: .secrets/asset-host-token)")
	mirrorCmd.Flags().Bool("rewrite", false, "write a copy of the document with image URLs pointed at local assets")

	rootCmd.AddCommand(mirrorCmd)
}
