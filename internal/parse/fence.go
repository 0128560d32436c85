// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"strings"

	"github.com/pdiddy/catalog-engine/pkg/types"
)

// fenceInfo records an open fence so the scanner can find its closer.
type fenceInfo struct {
	char   byte // '`' or '~'
	length int  // length of the opening delimiter run
	info   string
}

// openFence reports whether line (without its line ending) opens a fenced
// code block. Up to three leading spaces are allowed, matching CommonMark.
// A backtick fence may not carry backticks in its info string.
func openFence(line string) (*fenceInfo, bool) {
	body := trimIndent(line)
	if body == "" {
		return nil, false
	}

	ch := body[0]
	if ch != '`' && ch != '~' {
		return nil, false
	}

	n := 0
	for n < len(body) && body[n] == ch {
		n++
	}
	if n < 3 {
		return nil, false
	}

	info := strings.TrimSpace(body[n:])
	if ch == '`' && strings.ContainsRune(info, '`') {
		return nil, false
	}

	return &fenceInfo{char: ch, length: n, info: info}, true
}

// closes reports whether line (without its line ending) closes the fence:
// a run of at least the opening length of the same character, with nothing
// but whitespace after it.
func (f *fenceInfo) closes(line string) bool {
	body := trimIndent(line)

	n := 0
	for n < len(body) && body[n] == f.char {
		n++
	}
	if n < f.length {
		return false
	}
	return strings.TrimSpace(body[n:]) == ""
}

// lang returns the language tag: the first word of the info string.
func (f *fenceInfo) lang() string {
	if i := strings.IndexAny(f.info, " \t"); i >= 0 {
		return f.info[:i]
	}
	return f.info
}

// trimIndent strips up to three leading spaces.
func trimIndent(line string) string {
	for i := 0; i < 3 && strings.HasPrefix(line, " "); i++ {
		line = line[1:]
	}
	return line
}

// Fences extracts the fenced code blocks from a Markdown body, in order.
// Each snippet keeps the exact opening and closing lines so that
// Snippet.Source re-emits the block byte-identically. A fence opener with
// no closer before end of input yields no snippet: the text remains plain
// body content.
func Fences(body string) []types.Snippet {
	lines := splitLines(body)

	var snippets []types.Snippet
	for i := 0; i < len(lines); i++ {
		f, ok := openFence(strings.TrimRight(lines[i], "\r\n"))
		if !ok {
			continue
		}

		j := i + 1
		for j < len(lines) && !f.closes(strings.TrimRight(lines[j], "\r\n")) {
			j++
		}
		if j == len(lines) {
			// Dangling opener: the rest of the body is literal text.
			break
		}

		snippets = append(snippets, types.Snippet{
			Lang:    f.lang(),
			Code:    strings.Join(lines[i+1:j], ""),
			Opening: lines[i],
			Closing: lines[j],
		})
		i = j
	}

	return snippets
}
