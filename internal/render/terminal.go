// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/pdiddy/catalog-engine/pkg/types"
)

// Terminal renders entries as styled text for display in a terminal.
type Terminal struct {
	tr *glamour.TermRenderer
}

// NewTerminal builds a terminal renderer. An empty style selects the
// terminal's detected style; wrap <= 0 disables word wrapping.
func NewTerminal(style string, wrap int) (*Terminal, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(wrap),
	}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("building terminal renderer: %w", err)
	}
	return &Terminal{tr: tr}, nil
}

// Render converts a single entry to styled terminal output.
func (t *Terminal) Render(e types.Entry) (string, error) {
	out, err := t.tr.Render(EntrySource(e))
	if err != nil {
		return "", fmt.Errorf("rendering entry %d: %w", e.Ordinal, err)
	}
	return out, nil
}
