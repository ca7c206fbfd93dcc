package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// newMarkdown builds the goldmark instance used for post and comment
// bodies. Reddit markdown is close enough to GFM that the GFM
// extension set (tables, strikethrough, autolinks) covers it; raw
// HTML stays disabled because dump bodies are untrusted input.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
}

// renderMarkdown converts one markdown body to HTML. The result is
// marked safe for templates because goldmark escapes raw HTML in its
// default configuration.
func (r *Renderer) renderMarkdown(src string) (template.HTML, error) {
	if src == "" || src == "[deleted]" || src == "[removed]" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // goldmark escapes raw HTML
}
