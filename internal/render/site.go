// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/catalog-engine/pkg/types"
)

// BatchResult holds the outcome of a site render run.
type BatchResult struct {
	Rendered int
	Failed   int
}

// Total returns the number of entries processed.
func (r BatchResult) Total() int { return r.Rendered + r.Failed }

// HasFailures reports whether any entries failed to render.
func (r BatchResult) HasFailures() bool { return r.Failed > 0 }

// WriteSite renders every entry to outDir as one HTML page each, plus an
// index page linking them in ordinal order. Per-entry status is printed to
// w; one bad entry does not abort the batch.
func WriteSite(h *HTML, cat *types.Catalog, outDir string, w io.Writer) (BatchResult, error) {
	var result BatchResult

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return result, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	title := cat.Meta.Title
	if title == "" {
		title = "Catalog"
	}

	type indexItem struct {
		Title string
		Href  string
	}
	var items []indexItem

	for e := range cat.All() {
		name := PageName(e)

		body, err := h.Render(e)
		if err != nil {
			fmt.Fprintf(w, "failed:   %s (%v)\n", name, err)
			result.Failed++
			continue
		}

		var page strings.Builder
		err = pageTemplate.Execute(&page, pageData{
			SiteTitle: title,
			Title:     e.Title,
			Body:      template.HTML(body),
		})
		if err != nil {
			fmt.Fprintf(w, "failed:   %s (%v)\n", name, err)
			result.Failed++
			continue
		}

		if err := os.WriteFile(filepath.Join(outDir, name), []byte(page.String()), 0o644); err != nil {
			fmt.Fprintf(w, "failed:   %s (%v)\n", name, err)
			result.Failed++
			continue
		}

		fmt.Fprintf(w, "rendered: %s\n", name)
		result.Rendered++
		items = append(items, indexItem{Title: fmt.Sprintf("%d. %s", e.Ordinal, e.Title), Href: name})
	}

	var index strings.Builder
	err := indexTemplate.Execute(&index, struct {
		SiteTitle string
		Items     []indexItem
	}{SiteTitle: title, Items: items})
	if err != nil {
		return result, fmt.Errorf("building index page: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "index.html"), []byte(index.String()), 0o644); err != nil {
		return result, fmt.Errorf("writing index page: %w", err)
	}

	fmt.Fprintf(w, "\nBatch summary: %d rendered, %d failed (total: %d)\n",
		result.Rendered, result.Failed, result.Total())
	return result, nil
}

// PageName returns the output filename for an entry, e.g. "03-what-are-classes.html".
func PageName(e types.Entry) string {
	return fmt.Sprintf("%02d-%s.html", e.Ordinal, slugify(e.Title))
}

// slugify lowercases s and collapses runs of non-alphanumerics into single
// hyphens.
func slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

type pageData struct {
	SiteTitle string
	Title     string
	Body      template.HTML
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} | {{.SiteTitle}}</title>
</head>
<body>
<nav><a href="index.html">{{.SiteTitle}}</a></nav>
<main>
{{.Body}}</main>
</body>
</html>
`))

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.SiteTitle}}</title>
</head>
<body>
<h1>{{.SiteTitle}}</h1>
<ol>
{{range .Items}}<li><a href="{{.Href}}">{{.Title}}</a></li>
{{end}}</ol>
</body>
</html>
`))
