// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/catalog-engine/pkg/types"
)

const sampleDoc = `---
title: Sample Catalog
source: https://example.com/
---

# Sample Catalog

## 1. What are virtual functions?

Virtual functions enable dynamic dispatch through the vtable.

` + "```cpp\nstruct Base { virtual void f(); };\n```" + `

## 2. What is RAII?

Resource acquisition is initialization ties lifetime to scope.

` + "```python\nwith open(\"f\") as f: pass\n```" + `
`

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.IndexConfig{IndexDir: t.TempDir()})
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing document: %v", err)
	}
	return path
}

func ingest(t *testing.T, s *Store, paths ...string) IngestSummary {
	t.Helper()
	var buf bytes.Buffer
	summary, err := s.Ingest(context.Background(), paths, &buf)
	if err != nil {
		t.Fatalf("ingest: %v\noutput:\n%s", err, buf.String())
	}
	return summary
}

func TestIngestNewDocument(t *testing.T) {
	s := setupStore(t)
	path := writeDoc(t, sampleDoc)

	var buf bytes.Buffer
	summary, err := s.Ingest(context.Background(), []string{path}, &buf)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if summary.Indexed != 1 || summary.Total() != 1 {
		t.Errorf("summary = %+v, want 1 indexed", summary)
	}
	if !strings.Contains(buf.String(), "indexed "+path+" (2 entries)") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestIngestSkipsUnchangedDocument(t *testing.T) {
	s := setupStore(t)
	path := writeDoc(t, sampleDoc)

	ingest(t, s, path)
	summary := ingest(t, s, path)

	if summary.Skipped != 1 || summary.Indexed != 0 {
		t.Errorf("summary = %+v, want 1 skipped", summary)
	}
}

func TestIngestUpdatesChangedDocument(t *testing.T) {
	s := setupStore(t)
	path := writeDoc(t, sampleDoc)
	ingest(t, s, path)

	changed := strings.Replace(sampleDoc, "What is RAII?", "What is scope-bound resource management?", 1)
	if err := os.WriteFile(path, []byte(changed), 0o644); err != nil {
		t.Fatalf("rewriting document: %v", err)
	}
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("bumping mod time: %v", err)
	}

	summary := ingest(t, s, path)
	if summary.Updated != 1 {
		t.Errorf("summary = %+v, want 1 updated", summary)
	}

	results, err := s.Search(context.Background(), QueryOptions{Ordinal: 2})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "What is scope-bound resource management?" {
		t.Errorf("entry 2 after update = %+v", results)
	}
}

func TestIngestMissingDocument(t *testing.T) {
	s := setupStore(t)

	var buf bytes.Buffer
	summary, err := s.Ingest(context.Background(), []string{"no/such/file.md"}, &buf)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if summary.Failed != 1 {
		t.Errorf("summary = %+v, want 1 failed", summary)
	}
}

func TestSearchFullText(t *testing.T) {
	s := setupStore(t)
	ingest(t, s, writeDoc(t, sampleDoc))

	results, err := s.Search(context.Background(), QueryOptions{Query: "virtual dispatch"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	r := results[0]
	if r.Ordinal != 1 || r.Title != "What are virtual functions?" {
		t.Errorf("unexpected result: %+v", r)
	}
	if r.DocTitle != "Sample Catalog" {
		t.Errorf("doc title = %q", r.DocTitle)
	}
	if len(r.Langs) != 1 || r.Langs[0] != "cpp" {
		t.Errorf("langs = %v, want [cpp]", r.Langs)
	}
}

func TestSearchLangFilter(t *testing.T) {
	s := setupStore(t)
	ingest(t, s, writeDoc(t, sampleDoc))

	results, err := s.Search(context.Background(), QueryOptions{Lang: "python"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Ordinal != 2 {
		t.Errorf("lang filter results = %+v", results)
	}
}

func TestSearchStructuralOrder(t *testing.T) {
	s := setupStore(t)
	ingest(t, s, writeDoc(t, sampleDoc))

	results, err := s.Search(context.Background(), QueryOptions{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Ordinal != 1 || results[1].Ordinal != 2 {
		t.Errorf("results out of ordinal order: %d, %d", results[0].Ordinal, results[1].Ordinal)
	}
}

func TestSearchMaxResults(t *testing.T) {
	s := setupStore(t)
	ingest(t, s, writeDoc(t, sampleDoc))

	results, err := s.Search(context.Background(), QueryOptions{MaxResults: 1})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestQueryOptionsIsEmpty(t *testing.T) {
	if !(QueryOptions{}).IsEmpty() {
		t.Error("zero options should be empty")
	}
	if (QueryOptions{Lang: "cpp"}).IsEmpty() {
		t.Error("lang filter should not be empty")
	}
	if (QueryOptions{Query: "raii"}).IsEmpty() {
		t.Error("query should not be empty")
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(types.IndexConfig{IndexDir: dir})
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	defer s.Close()
	ingest(t, s, writeDoc(t, sampleDoc))

	ctx := context.Background()
	if err := s.ExportYAML(ctx, QueryOptions{}); err != nil {
		t.Fatalf("export yaml: %v", err)
	}
	if err := s.ExportJSON(ctx, QueryOptions{}); err != nil {
		t.Fatalf("export json: %v", err)
	}

	for _, name := range []string{"export.yaml", "export.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		if !strings.Contains(string(data), "What is RAII?") {
			t.Errorf("%s missing entry title", name)
		}
	}
}
