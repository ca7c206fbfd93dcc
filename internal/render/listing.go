package render

import (
	"fmt"

	"github.com/frostpress/frostpress/internal/model"
)

// SubredditPage renders one sorted listing of a subreddit as a lazy
// sequence of results, flushing every MaxItemsPerResult pages.
func (r *Renderer) SubredditPage(e model.SubredditPage) (ResultSeq, error) {
	totalPages := pageCount(e.TotalPosts, PostsPerPage)
	page := int64(1)
	first := true

	return func() (*Result, error) {
		if page > totalPages {
			return nil, nil
		}
		res := &Result{}
		if first {
			first = false
			if e.Sort == "top" {
				// The subreddit home alias points at the first top page
				// and is registered once, by the top listing.
				res.Redirects = append(res.Redirects, Redirect{
					Path:   SubredditHomePath(e.Subreddit.Name),
					Target: SubredditListPath(e.Subreddit.Name, "top", 1),
					Title:  "r/" + e.Subreddit.Name,
				})
			}
		}
		for page <= totalPages && res.ItemCount() < MaxItemsPerResult {
			rendered, err := r.subredditListingPage(e, page, totalPages)
			if err != nil {
				return nil, err
			}
			res.Pages = append(res.Pages, rendered)
			page++
		}
		return res, nil
	}, nil
}

func (r *Renderer) subredditListingPage(e model.SubredditPage, page, totalPages int64) (Page, error) {
	name := e.Subreddit.Name
	path := SubredditListPath(name, e.Sort, page)
	root := relRoot(path)

	posts, err := e.Posts(PostsPerPage, (page-1)*PostsPerPage)
	if err != nil {
		return Page{}, fmt.Errorf("failed to load r/%s page %d: %w", name, page, err)
	}

	view := listingView{
		baseData: r.base(path, "r/"+name),
		Heading:  "r/" + name,
		StatsURL: root + SubredditStatsPath(name),
		Tabs: []tabView{
			{Label: "top", URL: root + SubredditListPath(name, "top", 1), Active: e.Sort == "top"},
			{Label: "new", URL: root + SubredditListPath(name, "new", 1), Active: e.Sort == "new"},
		},
		Nav: listNav(page, totalPages, func(n int64) string {
			return root + SubredditListPath(name, e.Sort, n)
		}),
	}
	if e.Subreddit.Subscribers > 0 {
		view.Subtitle = formatCount(e.Subreddit.Subscribers) + " subscribers"
	}
	for _, p := range posts {
		view.Rows = append(view.Rows, postRow(root, p))
	}

	content, err := r.execute("listing", view)
	if err != nil {
		return Page{}, err
	}
	title := fmt.Sprintf("r/%s (%s, page %d)", name, e.Sort, page)
	return Page{
		Path:     path,
		Title:    title,
		Mimetype: "text/html",
		Front:    page == 1 && e.Sort == "top",
		Content:  content,
	}, nil
}

// UserPage renders one part of a user's profile (posts or comments) as
// a lazy sequence of results.
func (r *Renderer) UserPage(e model.UserPage) (ResultSeq, error) {
	perPage := int64(PostsPerPage)
	if e.Part == "comments" {
		perPage = CommentsPerPage
	}
	totalPages := pageCount(e.Total, perPage)
	page := int64(1)
	first := true

	return func() (*Result, error) {
		if page > totalPages {
			return nil, nil
		}
		res := &Result{}
		if first {
			first = false
			if e.Part == "posts" && e.Sort == "top" {
				res.Redirects = append(res.Redirects, Redirect{
					Path:   UserHomePath(e.User.Name),
					Target: UserPostsPath(e.User.Name, "top", 1),
					Title:  "u/" + e.User.Name,
				})
			}
		}
		for page <= totalPages && res.ItemCount() < MaxItemsPerResult {
			var rendered Page
			var err error
			if e.Part == "comments" {
				rendered, err = r.userCommentsPage(e, page, totalPages)
			} else {
				rendered, err = r.userPostsPage(e, page, totalPages)
			}
			if err != nil {
				return nil, err
			}
			res.Pages = append(res.Pages, rendered)
			page++
		}
		return res, nil
	}, nil
}

func (r *Renderer) userTabs(root, name, activePart, activeSort string) []tabView {
	return []tabView{
		{Label: "posts/top", URL: root + UserPostsPath(name, "top", 1), Active: activePart == "posts" && activeSort == "top"},
		{Label: "posts/new", URL: root + UserPostsPath(name, "new", 1), Active: activePart == "posts" && activeSort == "new"},
		{Label: "comments", URL: root + UserCommentsPath(name, 1), Active: activePart == "comments"},
	}
}

func (r *Renderer) userPostsPage(e model.UserPage, page, totalPages int64) (Page, error) {
	name := e.User.Name
	path := UserPostsPath(name, e.Sort, page)
	root := relRoot(path)

	posts, err := e.Posts(PostsPerPage, (page-1)*PostsPerPage)
	if err != nil {
		return Page{}, fmt.Errorf("failed to load u/%s posts page %d: %w", name, page, err)
	}

	view := listingView{
		baseData: r.base(path, "u/"+name),
		Heading:  "u/" + name,
		StatsURL: root + UserStatsPath(name),
		Tabs:     r.userTabs(root, name, "posts", e.Sort),
		Nav: listNav(page, totalPages, func(n int64) string {
			return root + UserPostsPath(name, e.Sort, n)
		}),
	}
	for _, p := range posts {
		view.Rows = append(view.Rows, postRow(root, p))
	}

	content, err := r.execute("listing", view)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Path:     path,
		Title:    fmt.Sprintf("u/%s (%s posts, page %d)", name, e.Sort, page),
		Mimetype: "text/html",
		Front:    page == 1 && e.Sort == "top",
		Content:  content,
	}, nil
}

func (r *Renderer) userCommentsPage(e model.UserPage, page, totalPages int64) (Page, error) {
	name := e.User.Name
	path := UserCommentsPath(name, page)
	root := relRoot(path)

	comments, err := e.Comments(CommentsPerPage, (page-1)*CommentsPerPage)
	if err != nil {
		return Page{}, fmt.Errorf("failed to load u/%s comments page %d: %w", name, page, err)
	}

	view := commentListingView{
		baseData: r.base(path, "u/"+name+" comments"),
		Heading:  "u/" + name,
		Tabs:     r.userTabs(root, name, "comments", ""),
		Nav: listNav(page, totalPages, func(n int64) string {
			return root + UserCommentsPath(name, n)
		}),
	}
	for _, c := range comments {
		body, err := r.renderMarkdown(c.Body)
		if err != nil {
			return Page{}, err
		}
		view.Rows = append(view.Rows, commentRowView{
			PostURL:  root + PostShortPath(c.PostID),
			TimeStr:  formatTime(c.CreatedUTC),
			Score:    c.Score,
			BodyHTML: body,
		})
	}

	content, err := r.execute("comment_listing", view)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Path:     path,
		Title:    fmt.Sprintf("u/%s (comments, page %d)", name, page),
		Mimetype: "text/html",
		Content:  content,
	}, nil
}

// StatsPage renders one statistics page for a subreddit, user, or the
// whole archive.
func (r *Renderer) StatsPage(e model.StatsPage) (*Result, error) {
	var path, heading, backURL, title string
	switch e.Scope {
	case "subreddit":
		path = SubredditStatsPath(e.Subject)
		heading = "r/" + e.Subject + " statistics"
		backURL = relRoot(path) + SubredditListPath(e.Subject, "top", 1)
	case "user":
		path = UserStatsPath(e.Subject)
		heading = "u/" + e.Subject + " statistics"
		backURL = relRoot(path) + UserPostsPath(e.Subject, "top", 1)
	case "global":
		path = GlobalStatsPath
		heading = "Archive statistics"
		backURL = IndexPath
	default:
		return nil, fmt.Errorf("render: unknown stats scope %q", e.Scope)
	}
	title = heading

	view := statsView{
		baseData: r.base(path, title),
		Heading:  heading,
		BackURL:  backURL,
		Rows:     statsRows(e.Stats),
	}
	content, err := r.execute("stats", view)
	if err != nil {
		return nil, err
	}
	return &Result{Pages: []Page{{
		Path:     path,
		Title:    title,
		Mimetype: "text/html",
		Content:  content,
	}}}, nil
}

// Home renders the archive front page.
func (r *Renderer) Home(description string, top []model.SubredditInfo, s *model.PostListStats) (*Result, error) {
	view := homeView{
		baseData:     r.base(IndexPath, r.siteTitle),
		Description:  description,
		DirectoryURL: SubredditDirectoryPath(1),
		StatsURL:     GlobalStatsPath,
		InfoURL:      InfoPath,
	}
	for _, info := range top {
		view.Top = append(view.Top, dirRow{
			Name:  info.Name,
			URL:   SubredditListPath(info.Name, "top", 1),
			Posts: info.Posts,
		})
	}
	if s != nil {
		view.Stats = []statRow{
			{Label: "Posts", Value: formatCount(s.PostCount)},
			{Label: "Comments", Value: formatCount(s.TotalComments)},
			{Label: "Posters", Value: formatCount(s.NumPosters)},
			{Label: "Oldest post", Value: formatTime(s.OldestUTC)},
			{Label: "Newest post", Value: formatTime(s.NewestUTC)},
		}
	}

	content, err := r.execute("home", view)
	if err != nil {
		return nil, err
	}
	return &Result{Pages: []Page{{
		Path:     IndexPath,
		Title:    r.siteTitle,
		Mimetype: "text/html",
		Front:    true,
		Content:  content,
	}}}, nil
}

// Directory renders the paginated subreddit directory as a lazy
// sequence.
func (r *Renderer) Directory(all []model.SubredditInfo) (ResultSeq, error) {
	totalPages := pageCount(int64(len(all)), DirectoryPerPage)
	page := int64(1)

	return func() (*Result, error) {
		if page > totalPages {
			return nil, nil
		}
		res := &Result{}
		for page <= totalPages && res.ItemCount() < MaxItemsPerResult {
			rendered, err := r.directoryPage(all, page, totalPages)
			if err != nil {
				return nil, err
			}
			res.Pages = append(res.Pages, rendered)
			page++
		}
		return res, nil
	}, nil
}

func (r *Renderer) directoryPage(all []model.SubredditInfo, page, totalPages int64) (Page, error) {
	path := SubredditDirectoryPath(page)
	root := relRoot(path)

	start := (page - 1) * DirectoryPerPage
	end := min(start+DirectoryPerPage, int64(len(all)))

	view := directoryView{
		baseData: r.base(path, "Subreddits"),
		Nav: listNav(page, totalPages, func(n int64) string {
			return root + SubredditDirectoryPath(n)
		}),
	}
	for _, info := range all[start:end] {
		view.Rows = append(view.Rows, dirRow{
			Name:  info.Name,
			URL:   root + SubredditListPath(info.Name, "top", 1),
			Posts: info.Posts,
		})
	}

	content, err := r.execute("directory", view)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Path:     path,
		Title:    fmt.Sprintf("Subreddits (page %d)", page),
		Mimetype: "text/html",
		Front:    page == 1,
		Content:  content,
	}, nil
}

// InfoData carries the archive metadata shown on the about page.
type InfoData struct {
	Description string
	Creator     string
	Publisher   string
	Date        string
	Language    string
	Posts       int64
	Comments    int64
	Subreddits  int64
	Users       int64
	MediaFiles  int64
}

// Info renders the about page.
func (r *Renderer) Info(data InfoData) (*Result, error) {
	view := infoView{
		baseData:    r.base(InfoPath, "About this archive"),
		Description: data.Description,
		Creator:     data.Creator,
		Publisher:   data.Publisher,
		Date:        data.Date,
		Language:    data.Language,
		Counts: []statRow{
			{Label: "Posts", Value: formatCount(data.Posts)},
			{Label: "Comments", Value: formatCount(data.Comments)},
			{Label: "Subreddits", Value: formatCount(data.Subreddits)},
			{Label: "Users", Value: formatCount(data.Users)},
			{Label: "Media files", Value: formatCount(data.MediaFiles)},
		},
	}
	content, err := r.execute("info", view)
	if err != nil {
		return nil, err
	}
	return &Result{Pages: []Page{{
		Path:     InfoPath,
		Title:    "About this archive",
		Mimetype: "text/html",
		Content:  content,
	}}}, nil
}

// Assets returns the shared stylesheet and script.
func (r *Renderer) Assets() (*Result, error) {
	css, err := content.ReadFile("static/style.css")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded stylesheet: %w", err)
	}
	js, err := content.ReadFile("static/app.js")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded script: %w", err)
	}
	return &Result{Pages: []Page{
		{Path: StylePath, Title: "Stylesheet", Mimetype: "text/css", Content: css},
		{Path: ScriptPath, Title: "Script", Mimetype: "application/javascript", Content: js},
	}}, nil
}

// listNav builds pagination state from a page-to-path function.
func listNav(page, totalPages int64, pathFor func(int64) string) pageNav {
	nav := pageNav{Current: page, Total: totalPages}
	if page > 1 {
		nav.PrevURL = pathFor(page - 1)
	}
	if page < totalPages {
		nav.NextURL = pathFor(page + 1)
	}
	return nav
}
