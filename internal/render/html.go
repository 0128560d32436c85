// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render converts catalog entries to display formats. Rendering is
// pure: the same entry always produces the same bytes, and snippet contents
// pass through as opaque text. Malformed markup degrades to literal output
// rather than failing.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/pdiddy/catalog-engine/pkg/types"
)

// HTML renders entries to HTML fragments using goldmark. Instances are
// stateless and safe for reuse across entries.
type HTML struct {
	engine goldmark.Markdown
}

// NewHTML builds an HTML renderer from the render configuration. Relative
// link and image references are resolved against cfg.BaseURL when set.
func NewHTML(cfg types.RenderConfig) (*HTML, error) {
	resolver, err := NewResolver(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
		parser.WithASTTransformers(
			util.Prioritized(&urlTransformer{resolver: resolver}, 100),
		),
	}

	var rendererOptions []renderer.Option
	if cfg.Unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parserOptions...),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	return &HTML{engine: goldmark.New(engineOptions...)}, nil
}

// Render converts a single entry to an HTML fragment.
func (h *HTML) Render(e types.Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := h.engine.Convert([]byte(EntrySource(e)), &buf); err != nil {
		return nil, fmt.Errorf("rendering entry %d: %w", e.Ordinal, err)
	}
	return buf.Bytes(), nil
}

// EntrySource reconstructs the entry's Markdown source: the ordinal-prefixed
// heading followed by the verbatim body.
func EntrySource(e types.Entry) string {
	return fmt.Sprintf("## %d. %s\n%s", e.Ordinal, e.Title, e.Body)
}

// urlTransformer rewrites link and image destinations through a Resolver
// during parsing.
type urlTransformer struct {
	resolver *Resolver
}

func (t *urlTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Link:
			v.Destination = []byte(t.resolver.Resolve(string(v.Destination)))
		case *ast.Image:
			v.Destination = []byte(t.resolver.Resolve(string(v.Destination)))
		}
		return ast.WalkContinue, nil
	})
}

// Images returns the image destinations the entry references, in document
// order. Fenced snippets are code to the parser, so anything inside them is
// not a reference.
func Images(e types.Entry) []string {
	return ImagesInSource(EntrySource(e))
}

// ImagesInSource returns the image destinations referenced in a raw Markdown
// fragment, in document order.
func ImagesInSource(src string) []string {
	doc := goldmark.New().Parser().Parse(text.NewReader([]byte(src)))

	var urls []string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if img, ok := n.(*ast.Image); ok {
			urls = append(urls, string(img.Destination))
		}
		return ast.WalkContinue, nil
	})
	return urls
}
