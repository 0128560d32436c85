// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse reads a catalog document into an ordered sequence of entries.
//
// A catalog document is CommonMark with an optional YAML frontmatter header.
// Each entry starts at a level-2 heading of the form "## <ordinal>. <title>";
// everything up to the next entry heading is the entry body. Fenced code
// blocks inside a body are the entry's snippets. Text before the first entry
// heading is the document preamble.
package parse

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/pdiddy/catalog-engine/pkg/types"
)

// headingPattern matches an entry heading line (without its line ending).
var headingPattern = regexp.MustCompile(`^##\s+(\d+)\.\s+(.+?)\s*$`)

// ParseFile reads and parses the catalog document at path.
func ParseFile(path string) (*types.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cat, nil
}

// Parse splits a catalog document into preamble and entries. Entry headings
// inside fenced code blocks do not start a new entry. A fence opener with no
// matching closer is not an error; the dangling text stays in the body as
// literal text.
func Parse(src []byte) (*types.Catalog, error) {
	var meta types.DocumentMeta
	body, err := frontmatter.Parse(bytes.NewReader(src), &meta)
	if err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}

	cat := &types.Catalog{Meta: meta}

	lines := splitLines(string(body))
	var (
		cur *types.Entry
		buf strings.Builder
	)

	flush := func() {
		text := buf.String()
		buf.Reset()
		if cur == nil {
			cat.Preamble = text
			return
		}
		cur.Body = text
		cur.Snippets = Fences(text)
		cat.Entries = append(cat.Entries, *cur)
	}

	var fence *fenceInfo
	for _, line := range lines {
		trimmed := strings.TrimRight(line, "\r\n")

		if fence != nil {
			buf.WriteString(line)
			if fence.closes(trimmed) {
				fence = nil
			}
			continue
		}

		if m := headingPattern.FindStringSubmatch(trimmed); m != nil {
			flush()
			ordinal, convErr := strconv.Atoi(m[1])
			if convErr != nil {
				return nil, fmt.Errorf("entry heading %q: %w", trimmed, convErr)
			}
			cur = &types.Entry{Ordinal: ordinal, Title: m[2]}
			continue
		}

		if f, ok := openFence(trimmed); ok {
			fence = f
		}
		buf.WriteString(line)
	}
	flush()

	return cat, nil
}

// splitLines splits s into lines, each keeping its trailing newline. The
// final element has no newline when the input does not end with one.
func splitLines(s string) []string {
	var lines []string
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}
