// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package importer seeds a catalog document from an existing HTML Q&A page.
// Question headings are selected with a CSS selector; everything between one
// heading and the next becomes the entry body, converted to Markdown.
package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/catalog-engine/internal/httputil"
	"github.com/pdiddy/catalog-engine/internal/parse"
	"github.com/pdiddy/catalog-engine/pkg/types"
)

const defaultSelector = "h2"

// Importer converts HTML Q&A pages into catalog documents.
type Importer struct {
	client   *http.Client
	conv     *md.Converter
	selector string
	cfg      types.ImportConfig
}

// New builds an importer. A zero selector in cfg falls back to "h2".
func New(client *http.Client, cfg types.ImportConfig) *Importer {
	selector := cfg.Selector
	if selector == "" {
		selector = defaultSelector
	}
	// Fenced style keeps <pre><code class="language-x"> blocks as fenced
	// code with the language tag, so snippet extraction sees them.
	conv := md.NewConverter("", true, &md.Options{CodeBlockStyle: "fenced"})

	return &Importer{
		client:   client,
		conv:     conv,
		selector: selector,
		cfg:      cfg,
	}
}

// Fetch retrieves pageURL and imports its question blocks as a catalog.
func (im *Importer) Fetch(ctx context.Context, pageURL string) (*types.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", im.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, im.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, pageURL)
	}

	return im.FromReader(resp.Body, pageURL)
}

// FromReader imports a catalog from raw HTML. source is recorded in the
// document frontmatter so the provenance survives the import.
func (im *Importer) FromReader(r io.Reader, source string) (*types.Catalog, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	cat := &types.Catalog{
		Meta: types.DocumentMeta{
			Title:  strings.TrimSpace(doc.Find("title").First().Text()),
			Source: source,
		},
	}

	doc.Find(im.selector).Each(func(i int, heading *goquery.Selection) {
		title := cleanTitle(heading.Text())
		if title == "" {
			return
		}

		answer := heading.NextUntil(im.selector)
		body := strings.TrimSpace(im.conv.Convert(answer))

		entryBody := "\n" + body + "\n"
		cat.Entries = append(cat.Entries, types.Entry{
			Ordinal:  len(cat.Entries) + 1,
			Title:    title,
			Body:     entryBody,
			Snippets: parse.Fences(entryBody),
		})
	})

	return cat, nil
}

// numberedTitle strips leading list numbering like "12." or "Q3:" that the
// source page may carry; ordinals are assigned by position here.
var numberedTitle = regexp.MustCompile(`^\s*Q?\d+\s*[.):]\s*`)

func cleanTitle(s string) string {
	return strings.TrimSpace(numberedTitle.ReplaceAllString(strings.TrimSpace(s), ""))
}

// Document renders the imported catalog back to catalog-document Markdown:
// frontmatter header, a top-level title, and one "## <ordinal>. <title>"
// section per entry.
func Document(cat *types.Catalog) []byte {
	var b strings.Builder

	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %q\n", cat.Meta.Title)
	if cat.Meta.Description != "" {
		fmt.Fprintf(&b, "description: %q\n", cat.Meta.Description)
	}
	if cat.Meta.Source != "" {
		fmt.Fprintf(&b, "source: %q\n", cat.Meta.Source)
	}
	b.WriteString("---\n\n")

	if cat.Meta.Title != "" {
		fmt.Fprintf(&b, "# %s\n", cat.Meta.Title)
	}

	for e := range cat.All() {
		fmt.Fprintf(&b, "\n## %d. %s\n", e.Ordinal, e.Title)
		b.WriteString(e.Body)
	}

	return []byte(b.String())
}
