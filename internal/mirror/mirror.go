// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mirror downloads the remote image assets a catalog references
// into a local directory, so the document keeps working when the original
// host disappears.
package mirror

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/catalog-engine/internal/httputil"
	"github.com/pdiddy/catalog-engine/internal/render"
	"github.com/pdiddy/catalog-engine/pkg/types"
)

// BatchResult holds the outcome of a mirror run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int

	// Local maps each successfully mirrored (or already present) remote URL
	// to its local path, for use by Rewrite.
	Local map[string]string
}

// Total returns the number of assets processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any assets failed to download.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// RemoteImages collects the http(s) image URLs referenced across the
// catalog, preamble included, deduplicated, in document order.
func RemoteImages(cat *types.Catalog) []string {
	seen := make(map[string]struct{})
	var urls []string

	collect := func(refs []string) {
		for _, u := range refs {
			if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
				continue
			}
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			urls = append(urls, u)
		}
	}

	collect(render.ImagesInSource(cat.Preamble))
	for e := range cat.All() {
		collect(render.Images(e))
	}
	return urls
}

// LocalName returns the filename an asset URL is mirrored to: the last
// path segment, or "asset" when the URL has none.
func LocalName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "asset"
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return "asset"
	}
	return base
}

// Mirror downloads every remote image referenced by the catalog into
// cfg.AssetsDir, one request per asset with a politeness delay between
// downloads. Assets already on disk are skipped. It continues after
// individual failures, printing per-asset status to w.
func Mirror(ctx context.Context, client *http.Client, cat *types.Catalog, cfg types.MirrorConfig, w io.Writer) (BatchResult, error) {
	result := BatchResult{Local: make(map[string]string)}

	urls := RemoteImages(cat)
	if len(urls) == 0 {
		fmt.Fprintln(w, "no remote images referenced")
		return result, nil
	}

	if err := os.MkdirAll(cfg.AssetsDir, 0o755); err != nil {
		return result, fmt.Errorf("creating assets directory %s: %w", cfg.AssetsDir, err)
	}

	downloads := 0
	for _, remote := range urls {
		localPath := filepath.Join(cfg.AssetsDir, LocalName(remote))

		if _, err := os.Stat(localPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", localPath)
			result.Skipped++
			result.Local[remote] = localPath
			continue
		}

		if downloads > 0 && cfg.DownloadDelay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(cfg.DownloadDelay):
			}
		}

		fmt.Fprintf(w, "downloading: %s\n", remote)
		if err := downloadAsset(ctx, client, remote, localPath, cfg); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", remote, err)
			result.Failed++
			continue
		}
		downloads++
		result.Downloaded++
		result.Local[remote] = localPath
	}

	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result, nil
}

// downloadAsset fetches url to destPath using a temporary file renamed on
// success, so a partial download never shadows a good asset.
func downloadAsset(ctx context.Context, client *http.Client, assetURL, destPath string, cfg types.MirrorConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	if cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.AuthToken)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, assetURL)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".mirror-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Rewrite replaces mirrored remote URLs in the document source with their
// local paths. Only parenthesized destinations are touched, so a bare URL
// mentioned in prose stays as-is.
func Rewrite(src []byte, local map[string]string) []byte {
	remotes := make([]string, 0, len(local))
	for remote := range local {
		remotes = append(remotes, remote)
	}
	sort.Strings(remotes)

	out := string(src)
	for _, remote := range remotes {
		out = strings.ReplaceAll(out, "("+remote+")", "("+local[remote]+")")
	}
	return []byte(out)
}
