package render

import (
	"strings"

	"github.com/frostpress/frostpress/internal/model"
)

// Post renders one post page with its comment forest. Threads nested
// past MaxCommentDepth continue on their own pages, which are bundled
// into the same result together with a short-path redirect and any
// media assets the page references.
func (r *Renderer) Post(p *model.Post, comments []*model.CommentNode) (*Result, error) {
	path := PostPath(p.Subreddit, p.ID)
	root := relRoot(path)
	res := &Result{}

	view := postView{
		baseData:     r.base(path, p.Title),
		Post:         p,
		Kind:         p.Kind().String(),
		TimeStr:      formatTime(p.CreatedUTC),
		EditedStr:    formatTime(p.Edited),
		CommentCount: model.CountNodes(comments),
		SubredditURL: root + SubredditListPath(p.Subreddit, "top", 1),
		AuthorURL:    root + UserPostsPath(p.Author, "top", 1),
	}

	body, err := r.renderMarkdown(p.SelfText)
	if err != nil {
		return nil, err
	}
	view.BodyHTML = body

	switch p.Kind() {
	case model.KindImage, model.KindVideo:
		r.attachMedia(&view, res, root, p)
	case model.KindPoll:
		view.Poll, view.TotalVotes = pollViews(p)
	case model.KindLink:
		view.ExternalURL = p.URL
	case model.KindText:
		// Body only.
	}

	var pending []*model.CommentNode
	view.Comments, err = r.commentViews(comments, root, p, 0, &pending)
	if err != nil {
		return nil, err
	}

	pageBytes, err := r.execute("post", view)
	if err != nil {
		return nil, err
	}
	res.Pages = append(res.Pages, Page{
		Path:     path,
		Title:    p.Title,
		Mimetype: "text/html",
		Front:    true,
		Content:  pageBytes,
	})
	res.Redirects = append(res.Redirects, Redirect{
		Path:   PostShortPath(p.ID),
		Target: path,
		Title:  p.Title,
	})

	// Continuation pages can themselves exceed the depth limit, so the
	// queue is drained rather than iterated once.
	for len(pending) > 0 {
		node := pending[0]
		pending = pending[1:]
		page, err := r.continuationPage(p, node, &pending)
		if err != nil {
			return nil, err
		}
		res.Pages = append(res.Pages, page)
	}
	return res, nil
}

// CommentTree renders one comment subtree as a standalone page.
func (r *Renderer) CommentTree(e model.CommentTree) (*Result, error) {
	res := &Result{}
	var pending []*model.CommentNode
	page, err := r.continuationPage(e.Post, e.Root, &pending)
	if err != nil {
		return nil, err
	}
	res.Pages = append(res.Pages, page)
	for len(pending) > 0 {
		node := pending[0]
		pending = pending[1:]
		page, err := r.continuationPage(e.Post, node, &pending)
		if err != nil {
			return nil, err
		}
		res.Pages = append(res.Pages, page)
	}
	return res, nil
}

// attachMedia resolves the post's asset URL against the media catalog.
// Posts whose asset never downloaded fall back to an outbound link, so
// a text-only fetch still yields a complete archive.
func (r *Renderer) attachMedia(view *postView, res *Result, root string, p *model.Post) {
	if r.media == nil {
		view.ExternalURL = p.URL
		return
	}
	ref, mimetype, ok := r.media.ResolveMedia(p.URL)
	if !ok {
		view.ExternalURL = p.URL
		return
	}
	view.MediaSrc = root + ref.Path
	view.MediaIsVideo = strings.HasPrefix(mimetype, "video/")
	res.Media = append(res.Media, ref)
}

// commentViews converts a comment forest into template views, cutting
// subtrees at the depth limit and queueing them for continuation
// pages.
func (r *Renderer) commentViews(nodes []*model.CommentNode, root string, p *model.Post, depth int, pending *[]*model.CommentNode) ([]*commentView, error) {
	views := make([]*commentView, 0, len(nodes))
	for _, node := range nodes {
		body, err := r.renderMarkdown(node.Comment.Body)
		if err != nil {
			return nil, err
		}
		v := &commentView{
			Author:        node.Comment.Author,
			AuthorURL:     root + UserPostsPath(node.Comment.Author, "top", 1),
			Score:         node.Comment.Score,
			TimeStr:       formatTime(node.Comment.CreatedUTC),
			Distinguished: node.Comment.Distinguished,
			BodyHTML:      body,
		}
		if len(node.Replies) > 0 {
			if depth+1 >= MaxCommentDepth {
				v.ContinueURL = root + CommentTreePath(p.Subreddit, p.ID, node.Comment.ID)
				*pending = append(*pending, node)
			} else {
				v.Replies, err = r.commentViews(node.Replies, root, p, depth+1, pending)
				if err != nil {
					return nil, err
				}
			}
		}
		views = append(views, v)
	}
	return views, nil
}

// continuationPage renders the replies below one cut comment. The cut
// comment itself repeats at the top of the page for context.
func (r *Renderer) continuationPage(p *model.Post, node *model.CommentNode, pending *[]*model.CommentNode) (Page, error) {
	path := CommentTreePath(p.Subreddit, p.ID, node.Comment.ID)
	root := relRoot(path)

	views, err := r.commentViews([]*model.CommentNode{node}, root, p, 0, pending)
	if err != nil {
		return Page{}, err
	}

	view := continueView{
		baseData:  r.base(path, p.Title+" (continued)"),
		PostTitle: p.Title,
		PostURL:   root + PostPath(p.Subreddit, p.ID),
		Comments:  views,
	}
	content, err := r.execute("continue", view)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Path:     path,
		Title:    p.Title + " (continued)",
		Mimetype: "text/html",
		Content:  content,
	}, nil
}

// pollViews parses and formats poll options with vote percentages.
func pollViews(p *model.Post) ([]pollOptionView, int64) {
	options := p.ParsePollOptions()
	var total int64
	for _, opt := range options {
		total += opt.Votes
	}
	views := make([]pollOptionView, 0, len(options))
	for _, opt := range options {
		percent := 0.0
		if total > 0 {
			percent = float64(opt.Votes) / float64(total) * 100
		}
		views = append(views, pollOptionView{
			Text:    opt.Text,
			Votes:   opt.Votes,
			Percent: percent,
		})
	}
	return views, total
}
