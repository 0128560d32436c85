// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/catalog-engine/pkg/types"
)

func newHTML(t *testing.T, cfg types.RenderConfig) *HTML {
	t.Helper()
	h, err := NewHTML(cfg)
	if err != nil {
		t.Fatalf("NewHTML: %v", err)
	}
	return h
}

func sampleEntry() types.Entry {
	return types.Entry{
		Ordinal: 3,
		Title:   "What are classes and objects in C++?",
		Body: "\nA class is a user-defined type.\n\n" +
			"```cpp\nclass Widget {};\n```\n\n" +
			"See [the reference](reference.html) and ![diagram](images/diagram.png).\n",
		Snippets: []types.Snippet{{
			Lang:    "cpp",
			Code:    "class Widget {};\n",
			Opening: "```cpp\n",
			Closing: "```\n",
		}},
	}
}

func TestRenderDeterministic(t *testing.T) {
	h := newHTML(t, types.RenderConfig{})
	e := sampleEntry()

	first, err := h.Render(e)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := h.Render(e)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("rendering the same entry twice produced different output")
	}
}

func TestRenderSnippetBecomesCodeBlock(t *testing.T) {
	h := newHTML(t, types.RenderConfig{})

	out, err := h.Render(sampleEntry())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	if !strings.Contains(html, `<pre><code class="language-cpp">`) {
		t.Errorf("output missing cpp code block:\n%s", html)
	}
	if !strings.Contains(html, "class Widget {};") {
		t.Error("snippet code missing from output")
	}
}

func TestRenderHeadingGetsID(t *testing.T) {
	h := newHTML(t, types.RenderConfig{})

	out, err := h.Render(sampleEntry())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `<h2 id=`) {
		t.Errorf("entry heading has no anchor id:\n%s", out)
	}
}

func TestRenderResolvesRelativeReferences(t *testing.T) {
	h := newHTML(t, types.RenderConfig{BaseURL: "https://docs.example.com/cpp/"})

	out, err := h.Render(sampleEntry())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	if !strings.Contains(html, `href="https://docs.example.com/cpp/reference.html"`) {
		t.Errorf("relative link not resolved:\n%s", html)
	}
	if !strings.Contains(html, `src="https://docs.example.com/cpp/images/diagram.png"`) {
		t.Errorf("relative image not resolved:\n%s", html)
	}
}

func TestRenderRawHTMLGatedByUnsafe(t *testing.T) {
	e := types.Entry{Ordinal: 1, Title: "T", Body: "\n<span>inline</span>\n"}

	safe := newHTML(t, types.RenderConfig{})
	out, err := safe.Render(e)
	if err != nil {
		t.Fatalf("safe render: %v", err)
	}
	if strings.Contains(string(out), "<span>") {
		t.Error("raw HTML passed through without Unsafe")
	}

	unsafe := newHTML(t, types.RenderConfig{Unsafe: true})
	out, err = unsafe.Render(e)
	if err != nil {
		t.Fatalf("unsafe render: %v", err)
	}
	if !strings.Contains(string(out), "<span>") {
		t.Error("raw HTML stripped despite Unsafe")
	}
}

func TestResolver(t *testing.T) {
	r, err := NewResolver("https://docs.example.com/cpp/")
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	cases := []struct {
		ref  string
		want string
	}{
		{"", ""},
		{"#anchor", "#anchor"},
		{"//cdn.example.com/a.png", "//cdn.example.com/a.png"},
		{"https://other.example.com/x", "https://other.example.com/x"},
		{"reference.html", "https://docs.example.com/cpp/reference.html"},
		{"../index.html", "https://docs.example.com/index.html"},
		{"images/diagram.png", "https://docs.example.com/cpp/images/diagram.png"},
	}
	for _, tc := range cases {
		if got := r.Resolve(tc.ref); got != tc.want {
			t.Errorf("Resolve(%q) = %q, want %q", tc.ref, got, tc.want)
		}
	}
}

func TestResolverEmptyBaseIsIdentity(t *testing.T) {
	r, err := NewResolver("")
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	if got := r.Resolve("images/diagram.png"); got != "images/diagram.png" {
		t.Errorf("identity resolver changed ref: %q", got)
	}
}

func TestResolverRejectsRelativeBase(t *testing.T) {
	if _, err := NewResolver("cpp/docs"); err == nil {
		t.Error("expected error for non-absolute base URL")
	}
}

func TestImages(t *testing.T) {
	e := types.Entry{
		Ordinal: 1,
		Title:   "T",
		Body: "\n![first](a.png) and ![second](https://img.example.com/b.png)\n\n" +
			"```md\n![not a reference](inside-fence.png)\n```\n",
	}

	got := Images(e)
	want := []string{"a.png", "https://img.example.com/b.png"}
	if len(got) != len(want) {
		t.Fatalf("Images = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Images[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEntrySource(t *testing.T) {
	e := types.Entry{Ordinal: 7, Title: "Virtual functions", Body: "\nBody text.\n"}
	want := "## 7. Virtual functions\n\nBody text.\n"
	if got := EntrySource(e); got != want {
		t.Errorf("EntrySource = %q, want %q", got, want)
	}
}

func TestPageName(t *testing.T) {
	cases := []struct {
		entry types.Entry
		want  string
	}{
		{types.Entry{Ordinal: 3, Title: "What are classes and objects in C++?"}, "03-what-are-classes-and-objects-in-c.html"},
		{types.Entry{Ordinal: 14, Title: "new/delete vs malloc/free"}, "14-new-delete-vs-malloc-free.html"},
		{types.Entry{Ordinal: 1, Title: "  Spaces  "}, "01-spaces.html"},
	}
	for _, tc := range cases {
		if got := PageName(tc.entry); got != tc.want {
			t.Errorf("PageName(%q) = %q, want %q", tc.entry.Title, got, tc.want)
		}
	}
}

func TestWriteSite(t *testing.T) {
	cat := &types.Catalog{
		Meta: types.DocumentMeta{Title: "Test Catalog"},
		Entries: []types.Entry{
			{Ordinal: 1, Title: "First question", Body: "\nAnswer one.\n"},
			{Ordinal: 2, Title: "Second question", Body: "\nAnswer two.\n"},
		},
	}

	h := newHTML(t, types.RenderConfig{})
	outDir := t.TempDir()
	var log bytes.Buffer

	result, err := WriteSite(h, cat, outDir, &log)
	if err != nil {
		t.Fatalf("WriteSite: %v", err)
	}
	if result.Rendered != 2 || result.Failed != 0 {
		t.Errorf("result = %+v, want 2 rendered, 0 failed", result)
	}
	if result.HasFailures() {
		t.Error("HasFailures() = true on clean run")
	}

	for _, name := range []string{"01-first-question.html", "02-second-question.html", "index.html"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		if !strings.Contains(string(data), "Test Catalog") {
			t.Errorf("%s missing site title", name)
		}
	}

	index, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	if err != nil {
		t.Fatalf("reading index: %v", err)
	}
	if !strings.Contains(string(index), `href="01-first-question.html"`) {
		t.Error("index missing link to first entry")
	}

	if !strings.Contains(log.String(), "Batch summary: 2 rendered, 0 failed (total: 2)") {
		t.Errorf("unexpected summary output:\n%s", log.String())
	}
}

func TestTerminalRender(t *testing.T) {
	term, err := NewTerminal("notty", 80)
	if err != nil {
		t.Fatalf("NewTerminal: %v", err)
	}

	out, err := term.Render(sampleEntry())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "What are classes and objects in C++?") {
		t.Errorf("terminal output missing title:\n%s", out)
	}
	if !strings.Contains(out, "class Widget {};") {
		t.Errorf("terminal output missing snippet:\n%s", out)
	}
}
