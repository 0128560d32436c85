// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "iter"

// Snippet is an illustrative code block embedded in an entry. Snippets are
// opaque text: no stage parses, executes, or type-checks their contents.
type Snippet struct {
	// Lang is the fence info string (e.g. "cpp"). Empty when the fence
	// carried no language tag.
	Lang string `json:"lang" yaml:"lang"`

	// Code is the text between the fence delimiters, each line with its
	// original line ending.
	Code string `json:"code" yaml:"code"`

	// Opening is the exact opening fence line, including its line ending.
	Opening string `json:"-" yaml:"-"`

	// Closing is the exact closing fence line, including its line ending.
	Closing string `json:"-" yaml:"-"`
}

// Source re-emits the snippet exactly as it appeared in the document.
func (s Snippet) Source() string {
	return s.Opening + s.Code + s.Closing
}

// Entry is one question/answer unit in the catalog.
type Entry struct {
	// Ordinal is the entry's fixed display-order index (1..N). Ordinals are
	// unique, contiguous, and strictly increasing across the catalog.
	Ordinal int `json:"ordinal" yaml:"ordinal"`

	// Title is the question text.
	Title string `json:"title" yaml:"title"`

	// Body is the explanatory Markdown between this entry's heading and the
	// next one, fenced snippets included.
	Body string `json:"body" yaml:"body"`

	// Snippets are the fenced code blocks extracted from Body, in document
	// order. Purely illustrative; never executed or validated.
	Snippets []Snippet `json:"snippets,omitempty" yaml:"snippets,omitempty"`
}

// DocumentMeta holds the optional frontmatter header of a catalog document.
type DocumentMeta struct {
	// Title is the document title (e.g. "C++ Interview Questions").
	Title string `json:"title" yaml:"title"`

	// Description is a one-line summary of the catalog.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Source is the URL of the page the catalog was originally drawn from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Catalog is an ordered collection of entries parsed from one document.
// Entries hold no references to one another; order is defined by Ordinal.
type Catalog struct {
	// Meta is the decoded frontmatter. Zero value when the document has none.
	Meta DocumentMeta `json:"meta" yaml:"meta"`

	// Preamble is the Markdown before the first entry heading.
	Preamble string `json:"preamble,omitempty" yaml:"preamble,omitempty"`

	// Entries are the catalog entries in document order.
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.Entries) }

// All returns a lazy, restartable sequence over the entries in ordinal
// order. An empty catalog yields an empty sequence.
func (c *Catalog) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range c.Entries {
			if !yield(e) {
				return
			}
		}
	}
}

// ByOrdinal returns the entry with the given ordinal, if present.
func (c *Catalog) ByOrdinal(n int) (Entry, bool) {
	for _, e := range c.Entries {
		if e.Ordinal == n {
			return e, true
		}
	}
	return Entry{}, false
}
