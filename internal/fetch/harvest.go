package fetch

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// harvestMarkdown is the goldmark instance used for URL extraction.
// Parsing only; the output renderer is never invoked here.
var harvestMarkdown = goldmark.New(goldmark.WithExtensions(extension.Linkify))

// HarvestMediaURLs walks the markdown AST of a post body and returns
// every image destination plus any link destination that looks like a
// direct media file. Order follows document order; duplicates are
// kept, deduplication happens at the catalog.
func HarvestMediaURLs(body string) []string {
	if body == "" {
		return nil
	}

	src := []byte(body)
	doc := harvestMarkdown.Parser().Parse(text.NewReader(src))

	var urls []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Image:
			urls = append(urls, string(v.Destination))
		case *ast.Link:
			if dest := string(v.Destination); looksLikeMedia(dest) {
				urls = append(urls, dest)
			}
		case *ast.AutoLink:
			if dest := string(v.URL(src)); looksLikeMedia(dest) {
				urls = append(urls, dest)
			}
		}
		return ast.WalkContinue, nil
	})
	return urls
}
