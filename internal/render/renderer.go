package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"

	"github.com/frostpress/frostpress/internal/model"
)

//go:embed templates/*.tmpl static/*
var content embed.FS

// Rendering limits.
const (
	// PostsPerPage is the number of rows on one listing page.
	PostsPerPage = 100

	// CommentsPerPage is the number of rows on one user comment page.
	CommentsPerPage = 100

	// DirectoryPerPage is the number of subreddits on one directory
	// page.
	DirectoryPerPage = 250

	// MaxCommentDepth is how deep a comment thread nests on the post
	// page before the subtree moves to a continuation page.
	MaxCommentDepth = 8

	// MaxItemsPerResult caps the archive entries bundled into a single
	// result. Listing sequences flush at this size so a huge subreddit
	// occupies one result-queue slot at a time, not thousands.
	MaxItemsPerResult = 200
)

// MediaResolver maps a media URL onto an archive asset. The build
// worker implements it on top of the media catalog and the shared
// deduplication index; rendering without one (tests, text-only
// archives) degrades every media post to an outbound link.
type MediaResolver interface {
	// ResolveMedia returns the asset reference and mimetype for a
	// unified media URL. ok is false when no local copy exists.
	ResolveMedia(url string) (ref model.MediaRef, mimetype string, ok bool)
}

// Renderer turns entities into results. A Renderer is immutable after
// New and safe for concurrent use from multiple workers.
type Renderer struct {
	tmpl      *template.Template
	md        goldmark.Markdown
	media     MediaResolver
	siteTitle string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMediaResolver wires the media catalog into media post pages.
func WithMediaResolver(m MediaResolver) Option {
	return func(r *Renderer) { r.media = m }
}

// WithSiteTitle sets the archive title shown on every page.
func WithSiteTitle(title string) Option {
	return func(r *Renderer) { r.siteTitle = title }
}

// New parses the embedded templates and returns a ready renderer.
func New(opts ...Option) (*Renderer, error) {
	tmpl, err := template.ParseFS(content, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	r := &Renderer{
		tmpl:      tmpl,
		md:        newMarkdown(),
		siteTitle: "frostpress archive",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Render dispatches one entity to its variant renderer. The switch is
// exhaustive over the sealed entity set.
func (r *Renderer) Render(e model.Entity) (ResultSeq, error) {
	switch v := e.(type) {
	case model.TextPost:
		return r.singlePost(v.Post, v.Comments)
	case model.MediaPost:
		return r.singlePost(v.Post, v.Comments)
	case model.Poll:
		return r.singlePost(v.Post, v.Comments)
	case model.CommentTree:
		res, err := r.CommentTree(v)
		if err != nil {
			return nil, err
		}
		return SingleResult(res), nil
	case model.SubredditPage:
		return r.SubredditPage(v)
	case model.UserPage:
		return r.UserPage(v)
	case model.StatsPage:
		res, err := r.StatsPage(v)
		if err != nil {
			return nil, err
		}
		return SingleResult(res), nil
	default:
		return nil, fmt.Errorf("render: unhandled entity type %T", e)
	}
}

func (r *Renderer) singlePost(p *model.Post, comments []*model.CommentNode) (ResultSeq, error) {
	res, err := r.Post(p, comments)
	if err != nil {
		return nil, err
	}
	return SingleResult(res), nil
}

// execute runs one named template into a buffer.
func (r *Renderer) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %q: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) base(path, pageTitle string) baseData {
	return baseData{
		Root:      relRoot(path),
		SiteTitle: r.siteTitle,
		PageTitle: pageTitle,
	}
}

// pageCount returns how many listing pages a total of rows needs.
// Empty listings still get one page so redirect targets always exist.
func pageCount(total, perPage int64) int64 {
	if total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}
