package render

import (
	"strings"
	"testing"

	"github.com/frostpress/frostpress/internal/model"
)

// stubResolver resolves every URL to a fixed asset.
type stubResolver struct {
	ref      model.MediaRef
	mimetype string
	ok       bool
}

func (s *stubResolver) ResolveMedia(string) (model.MediaRef, string, bool) {
	return s.ref, s.mimetype, s.ok
}

func newTestRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return r
}

func textPost() *model.Post {
	return &model.Post{
		UID: 1, ID: "abc123", Title: "A question about channels",
		Author: "alice", Subreddit: "golang",
		SelfText: "How do **buffered** channels work?",
		Score:    42, NumComments: 2, CreatedUTC: 1696000000, IsSelf: true,
	}
}

func TestPostPage(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	p := textPost()
	comments := []*model.CommentNode{
		{
			Comment: &model.Comment{ID: "c1", PostID: "abc123", Author: "bob", Body: "They queue.", Score: 10, CreatedUTC: 1696000100},
			Replies: []*model.CommentNode{
				{Comment: &model.Comment{ID: "c2", PostID: "abc123", ParentID: "c1", Author: "carol", Body: "Exactly.", Score: 3, CreatedUTC: 1696000200}},
			},
		},
	}

	res, err := r.Post(p, comments)
	if err != nil {
		t.Fatalf("Post() error: %v", err)
	}
	if len(res.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(res.Pages))
	}
	page := res.Pages[0]
	if page.Path != "r/golang/abc123.html" || !page.Front {
		t.Errorf("unexpected page: path=%q front=%v", page.Path, page.Front)
	}

	html := string(page.Content)
	for _, want := range []string{
		"A question about channels",
		"<strong>buffered</strong>",
		"u/bob", "Exactly.",
		`href="../../style.css"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}

	if len(res.Redirects) != 1 || res.Redirects[0].Path != "p/abc123.html" {
		t.Errorf("expected short path redirect, got %+v", res.Redirects)
	}
}

func TestPostPageDeepThread(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	p := textPost()

	// A chain twice as deep as the limit forces at least one
	// continuation page, and that page continues again.
	depth := MaxCommentDepth * 2
	var root *model.CommentNode
	var cur *model.CommentNode
	for i := 0; i < depth; i++ {
		node := &model.CommentNode{
			Comment: &model.Comment{ID: "c" + string(rune('a'+i)), PostID: p.ID, Author: "bob", Body: "reply"},
		}
		if cur == nil {
			root = node
		} else {
			cur.Replies = append(cur.Replies, node)
		}
		cur = node
	}

	res, err := r.Post(p, []*model.CommentNode{root})
	if err != nil {
		t.Fatalf("Post() error: %v", err)
	}
	if len(res.Pages) < 3 {
		t.Fatalf("expected main page plus chained continuation pages, got %d", len(res.Pages))
	}
	if !strings.Contains(string(res.Pages[0].Content), "continue this thread") {
		t.Error("main page should link to the continuation")
	}
	if res.Pages[1].Front {
		t.Error("continuation pages should not be front entries")
	}
}

func TestMediaPost(t *testing.T) {
	t.Parallel()

	p := &model.Post{
		ID: "img1", Title: "Sunset", Author: "alice", Subreddit: "pics",
		URL: "https://i.example.com/sunset.jpg", Hint: "image",
	}

	t.Run("resolved asset embeds inline", func(t *testing.T) {
		t.Parallel()

		resolver := &stubResolver{
			ref:      model.MediaRef{ContentHash: "deadbeef", Path: "media/deadbeef.jpg"},
			mimetype: "image/jpeg",
			ok:       true,
		}
		r := newTestRenderer(t, WithMediaResolver(resolver))

		res, err := r.Post(p, nil)
		if err != nil {
			t.Fatalf("Post() error: %v", err)
		}
		html := string(res.Pages[0].Content)
		if !strings.Contains(html, `src="../../media/deadbeef.jpg"`) {
			t.Errorf("inline asset missing from page:\n%s", html)
		}
		if len(res.Media) != 1 || res.Media[0].ContentHash != "deadbeef" {
			t.Errorf("media ref not recorded: %+v", res.Media)
		}
	})

	t.Run("unresolved asset falls back to link", func(t *testing.T) {
		t.Parallel()

		r := newTestRenderer(t, WithMediaResolver(&stubResolver{}))
		res, err := r.Post(p, nil)
		if err != nil {
			t.Fatalf("Post() error: %v", err)
		}
		if !strings.Contains(string(res.Pages[0].Content), p.URL) {
			t.Error("fallback external link missing")
		}
		if len(res.Media) != 0 {
			t.Errorf("no media ref expected, got %+v", res.Media)
		}
	})

	t.Run("video uses video element", func(t *testing.T) {
		t.Parallel()

		vid := &model.Post{ID: "v1", Title: "Clip", Subreddit: "videos", URL: "https://v.example.com/c.mp4", Hint: "hosted:video"}
		resolver := &stubResolver{
			ref:      model.MediaRef{ContentHash: "cafe", Path: "media/cafe.mp4"},
			mimetype: "video/mp4",
			ok:       true,
		}
		r := newTestRenderer(t, WithMediaResolver(resolver))
		res, err := r.Post(vid, nil)
		if err != nil {
			t.Fatalf("Post() error: %v", err)
		}
		if !strings.Contains(string(res.Pages[0].Content), "<video") {
			t.Error("video element missing")
		}
	})
}

func TestPollPost(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	p := &model.Post{
		ID: "poll1", Title: "Tabs or spaces?", Author: "alice", Subreddit: "golang",
		PollData: `{"options":[{"text":"tabs","vote_count":75},{"text":"spaces","vote_count":25}],"total_vote_count":100}`,
	}

	res, err := r.Post(p, nil)
	if err != nil {
		t.Fatalf("Post() error: %v", err)
	}
	html := string(res.Pages[0].Content)
	for _, want := range []string{"tabs", "spaces", "75 votes", "100 total votes"} {
		if !strings.Contains(html, want) {
			t.Errorf("poll page missing %q", want)
		}
	}
}

func TestSubredditPageSequence(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)

	// 250 posts at 100 per page is 3 listing pages.
	total := int64(250)
	source := func(limit, offset int64) ([]*model.Post, error) {
		var posts []*model.Post
		for i := offset; i < offset+limit && i < total; i++ {
			posts = append(posts, &model.Post{
				ID: "p" + formatCount(i), Title: "post", Author: "alice",
				Subreddit: "golang", Score: total - i,
			})
		}
		return posts, nil
	}

	seq, err := r.SubredditPage(model.SubredditPage{
		Subreddit:  &model.Subreddit{Name: "golang", Subscribers: 1000},
		Sort:       "top",
		TotalPosts: total,
		Posts:      source,
	})
	if err != nil {
		t.Fatalf("SubredditPage() error: %v", err)
	}

	var pages []Page
	var redirects []Redirect
	for {
		res, err := seq()
		if err != nil {
			t.Fatalf("sequence error: %v", err)
		}
		if res == nil {
			break
		}
		pages = append(pages, res.Pages...)
		redirects = append(redirects, res.Redirects...)
	}

	if len(pages) != 3 {
		t.Fatalf("expected 3 listing pages, got %d", len(pages))
	}
	if pages[0].Path != "r/golang/top_1.html" {
		t.Errorf("unexpected first page path %q", pages[0].Path)
	}
	if len(redirects) != 1 || redirects[0].Path != "r/golang/index.html" {
		t.Errorf("expected home redirect, got %+v", redirects)
	}
	if !strings.Contains(string(pages[1].Content), "top_1.html") {
		t.Error("page 2 should link back to page 1")
	}
	if !strings.Contains(string(pages[0].Content), "1000 subscribers") {
		t.Error("subscriber subtitle missing")
	}
}

func TestSubredditPageFlushing(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)

	// Enough posts that the page count exceeds one flush.
	total := int64(PostsPerPage * (MaxItemsPerResult + 50))
	source := func(limit, offset int64) ([]*model.Post, error) {
		return []*model.Post{{ID: "x", Title: "t", Subreddit: "big", Author: "a"}}, nil
	}

	seq, err := r.SubredditPage(model.SubredditPage{
		Subreddit:  &model.Subreddit{Name: "big"},
		Sort:       "new",
		TotalPosts: total,
		Posts:      source,
	})
	if err != nil {
		t.Fatalf("SubredditPage() error: %v", err)
	}

	res, err := seq()
	if err != nil {
		t.Fatalf("sequence error: %v", err)
	}
	if res.ItemCount() > MaxItemsPerResult {
		t.Errorf("first flush carries %d items, cap is %d", res.ItemCount(), MaxItemsPerResult)
	}
	res2, err := seq()
	if err != nil {
		t.Fatalf("sequence error: %v", err)
	}
	if res2 == nil {
		t.Fatal("expected a second flush")
	}
}

func TestUserPageComments(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	source := func(limit, offset int64) ([]*model.Comment, error) {
		return []*model.Comment{
			{ID: "c1", PostID: "abc", Author: "alice", Body: "a *comment*", Score: 4, CreatedUTC: 1696000000},
		}, nil
	}

	seq, err := r.UserPage(model.UserPage{
		User:     &model.User{Name: "alice"},
		Part:     "comments",
		Total:    1,
		Comments: source,
	})
	if err != nil {
		t.Fatalf("UserPage() error: %v", err)
	}
	res, err := seq()
	if err != nil {
		t.Fatalf("sequence error: %v", err)
	}
	if len(res.Pages) != 1 || res.Pages[0].Path != "u/alice/comments_1.html" {
		t.Fatalf("unexpected pages: %+v", res.Pages)
	}
	html := string(res.Pages[0].Content)
	if !strings.Contains(html, "<em>comment</em>") {
		t.Error("comment markdown not rendered")
	}
	if !strings.Contains(html, "p/abc.html") {
		t.Error("comment row should link to its post")
	}
}

func TestUserPagePostsRedirect(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	source := func(limit, offset int64) ([]*model.Post, error) { return nil, nil }

	seq, err := r.UserPage(model.UserPage{
		User:  &model.User{Name: "bob"},
		Part:  "posts",
		Sort:  "top",
		Total: 0,
		Posts: source,
	})
	if err != nil {
		t.Fatalf("UserPage() error: %v", err)
	}
	res, err := seq()
	if err != nil {
		t.Fatalf("sequence error: %v", err)
	}
	if len(res.Redirects) != 1 || res.Redirects[0].Path != "u/bob/index.html" {
		t.Errorf("expected user home redirect, got %+v", res.Redirects)
	}
	// Empty listings still render one page so the redirect resolves.
	if len(res.Pages) != 1 {
		t.Errorf("expected 1 page for empty listing, got %d", len(res.Pages))
	}
}

func TestStatsPageScopes(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	s := &model.PostListStats{PostCount: 10, TotalScore: 50, MaxScore: 20, NumPosters: 3}

	tests := []struct {
		name     string
		entity   model.StatsPage
		wantPath string
	}{
		{"global", model.StatsPage{Scope: "global", Stats: s}, "stats.html"},
		{"subreddit", model.StatsPage{Scope: "subreddit", Subject: "golang", Stats: s}, "r/golang/stats.html"},
		{"user", model.StatsPage{Scope: "user", Subject: "alice", Stats: s}, "u/alice/stats.html"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := r.StatsPage(tt.entity)
			if err != nil {
				t.Fatalf("StatsPage() error: %v", err)
			}
			if res.Pages[0].Path != tt.wantPath {
				t.Errorf("path = %q, want %q", res.Pages[0].Path, tt.wantPath)
			}
			if !strings.Contains(string(res.Pages[0].Content), "5.0") {
				t.Error("average score missing from stats page")
			}
		})
	}

	t.Run("unknown scope", func(t *testing.T) {
		t.Parallel()

		if _, err := r.StatsPage(model.StatsPage{Scope: "galaxy", Stats: s}); err == nil {
			t.Error("expected error for unknown scope")
		}
	})
}

func TestRenderDispatch(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	seq, err := r.Render(model.TextPost{Post: textPost()})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	res, err := seq()
	if err != nil || res == nil {
		t.Fatalf("sequence broken: res=%v err=%v", res, err)
	}
	if more, err := seq(); more != nil || err != nil {
		t.Errorf("single result sequence should be exhausted, got %v, %v", more, err)
	}
}

func TestHomeDirectoryInfoAssets(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, WithSiteTitle("r/golang archive"))

	home, err := r.Home("A test archive", []model.SubredditInfo{{Name: "golang", Posts: 99}},
		&model.PostListStats{PostCount: 99})
	if err != nil {
		t.Fatalf("Home() error: %v", err)
	}
	if !strings.Contains(string(home.Pages[0].Content), "r/golang archive") {
		t.Error("site title missing from front page")
	}

	all := make([]model.SubredditInfo, DirectoryPerPage+1)
	for i := range all {
		all[i] = model.SubredditInfo{Name: "sub" + formatCount(int64(i)), Posts: 1}
	}
	seq, err := r.Directory(all)
	if err != nil {
		t.Fatalf("Directory() error: %v", err)
	}
	var pages int
	for {
		res, err := seq()
		if err != nil {
			t.Fatalf("directory sequence error: %v", err)
		}
		if res == nil {
			break
		}
		pages += len(res.Pages)
	}
	if pages != 2 {
		t.Errorf("expected 2 directory pages, got %d", pages)
	}

	info, err := r.Info(InfoData{Description: "desc", Posts: 5})
	if err != nil {
		t.Fatalf("Info() error: %v", err)
	}
	if info.Pages[0].Path != InfoPath {
		t.Errorf("unexpected info path %q", info.Pages[0].Path)
	}

	assets, err := r.Assets()
	if err != nil {
		t.Fatalf("Assets() error: %v", err)
	}
	if len(assets.Pages) != 2 {
		t.Fatalf("expected stylesheet and script, got %d pages", len(assets.Pages))
	}
	if assets.Pages[0].Mimetype != "text/css" {
		t.Errorf("unexpected stylesheet mimetype %q", assets.Pages[0].Mimetype)
	}
}

func TestPathHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"post", PostPath("golang", "abc"), "r/golang/abc.html"},
		{"subreddit listing", SubredditListPath("golang", "new", 2), "r/golang/new_2.html"},
		{"user posts", UserPostsPath("alice", "top", 1), "u/alice/posts_top_1.html"},
		{"media", MediaPath("deadbeef", ".jpg"), "media/deadbeef.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestMediaExt(t *testing.T) {
	t.Parallel()

	if got := MediaExt("image/jpeg"); got != ".jpg" {
		t.Errorf("MediaExt(image/jpeg) = %q", got)
	}
	if got := MediaExt("application/octet-stream"); got != ".bin" {
		t.Errorf("unknown mimetype should map to .bin, got %q", got)
	}
}

func TestPageCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total, per, want int64
	}{
		{0, 100, 1},
		{1, 100, 1},
		{100, 100, 1},
		{101, 100, 2},
	}
	for _, tt := range tests {
		if got := pageCount(tt.total, tt.per); got != tt.want {
			t.Errorf("pageCount(%d, %d) = %d, want %d", tt.total, tt.per, got, tt.want)
		}
	}
}
