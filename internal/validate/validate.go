// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks the structural well-formedness of a catalog:
// contiguous ordinals, non-empty titles and bodies, and byte-exact snippet
// round-trips. Findings are reported, never fixed.
package validate

import (
	"fmt"
	"io"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/pdiddy/catalog-engine/pkg/types"
)

// Severity classifies a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one validation result tied to an entry (or to the catalog as
// a whole when Ordinal is zero).
type Finding struct {
	Severity Severity
	Ordinal  int
	Message  string
}

// Report collects findings from a validation run.
type Report struct {
	Findings []Finding
}

// Ok reports whether the catalog passed with no errors. Warnings do not
// fail a run.
func (r *Report) Ok() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Errors returns the number of error-severity findings.
func (r *Report) Errors() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Print writes the findings and a summary line to w.
func (r *Report) Print(w io.Writer) {
	for _, f := range r.Findings {
		if f.Ordinal > 0 {
			fmt.Fprintf(w, "%s: entry %d: %s\n", f.Severity, f.Ordinal, f.Message)
		} else {
			fmt.Fprintf(w, "%s: %s\n", f.Severity, f.Message)
		}
	}
	fmt.Fprintf(w, "\n%d finding(s), %d error(s)\n", len(r.Findings), r.Errors())
}

func (r *Report) add(sev Severity, ordinal int, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Severity: sev,
		Ordinal:  ordinal,
		Message:  fmt.Sprintf(format, args...),
	})
}

// entryRules validates a single entry's fields.
func entryRules(e types.Entry) error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Ordinal, validation.Required, validation.Min(1)),
		validation.Field(&e.Title, validation.Required),
		validation.Field(&e.Body, validation.By(nonBlank)),
	)
}

// nonBlank rejects empty or whitespace-only strings.
func nonBlank(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("cannot be blank")
	}
	return nil
}

// Check validates the catalog and returns a report. It never mutates the
// catalog and never aborts on the first finding.
func Check(cat *types.Catalog) *Report {
	r := &Report{}

	if cat.Len() == 0 {
		// An empty catalog is valid.
		return r
	}

	seenTitles := make(map[string]int)

	for i, e := range cat.Entries {
		if err := entryRules(e); err != nil {
			r.add(SeverityError, e.Ordinal, "%v", err)
		}

		// Ordinals must be contiguous from 1 in document order.
		if want := i + 1; e.Ordinal != want {
			r.add(SeverityError, e.Ordinal, "ordinal %d out of sequence, expected %d", e.Ordinal, want)
		}

		key := strings.ToLower(strings.TrimSpace(e.Title))
		if prev, ok := seenTitles[key]; ok && key != "" {
			r.add(SeverityWarning, e.Ordinal, "title duplicates entry %d", prev)
		} else {
			seenTitles[key] = e.Ordinal
		}

		checkSnippets(r, e)
	}

	return r
}

// checkSnippets verifies the extract-and-re-emit round trip: every snippet's
// Source must appear byte-identically in the entry body.
func checkSnippets(r *Report, e types.Entry) {
	for i, s := range e.Snippets {
		if s.Opening == "" || s.Closing == "" {
			r.add(SeverityError, e.Ordinal, "snippet %d has incomplete fence delimiters", i+1)
			continue
		}
		if !strings.Contains(e.Body, s.Source()) {
			r.add(SeverityError, e.Ordinal, "snippet %d does not round-trip to its source text", i+1)
		}
	}
}
