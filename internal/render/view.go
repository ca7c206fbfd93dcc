package render

import (
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/frostpress/frostpress/internal/model"
)

// baseData is embedded in every template payload.
type baseData struct {
	// Root climbs from the page's directory to the archive root.
	Root string

	// SiteTitle is the archive-wide title shown in the navigation bar.
	SiteTitle string

	// PageTitle is the <title> of this page.
	PageTitle string
}

// postView is the payload of the post page template, shared by text,
// media, and poll posts.
type postView struct {
	baseData
	Post         *model.Post
	Kind         string
	TimeStr      string
	EditedStr    string
	BodyHTML     template.HTML
	MediaSrc     string
	MediaIsVideo bool
	ExternalURL  string
	Poll         []pollOptionView
	TotalVotes   int64
	CommentCount int
	Comments     []*commentView
	SubredditURL string
	AuthorURL    string
}

// commentView is one node of the rendered comment forest.
type commentView struct {
	Author        string
	AuthorURL     string
	Score         int64
	TimeStr       string
	Distinguished string
	BodyHTML      template.HTML
	Replies       []*commentView

	// ContinueURL is set instead of Replies when the subtree was cut
	// at the depth limit and continues on its own page.
	ContinueURL string
}

// continueView is the payload of a thread continuation page.
type continueView struct {
	baseData
	PostTitle string
	PostURL   string
	Comments  []*commentView
}

type pollOptionView struct {
	Text    string
	Votes   int64
	Percent float64
}

// postRowView is one row of a post listing.
type postRowView struct {
	Title        string
	URL          string
	Kind         string
	Score        int64
	NumComments  int64
	Author       string
	AuthorURL    string
	Subreddit    string
	SubredditURL string
	TimeStr      string
	Flair        string
	Over18       bool
	Locked       bool
}

// commentRowView is one row of a user comment listing.
type commentRowView struct {
	PostURL  string
	TimeStr  string
	Score    int64
	BodyHTML template.HTML
}

// tabView is one sort/part switch link above a listing.
type tabView struct {
	Label  string
	URL    string
	Active bool
}

// pageNav carries pagination state for listing templates.
type pageNav struct {
	Current int64
	Total   int64
	PrevURL string
	NextURL string
}

// listingView is the payload of subreddit and user post listings.
type listingView struct {
	baseData
	Heading  string
	Subtitle string
	StatsURL string
	Tabs     []tabView
	Rows     []postRowView
	Nav      pageNav
}

// commentListingView is the payload of a user comment listing.
type commentListingView struct {
	baseData
	Heading string
	Tabs    []tabView
	Rows    []commentRowView
	Nav     pageNav
}

// statRow is one label/value line of a statistics table.
type statRow struct {
	Label string
	Value string
}

// statsView is the payload of a statistics page.
type statsView struct {
	baseData
	Heading string
	BackURL string
	Rows    []statRow
}

// dirRow is one subreddit of the directory or front page.
type dirRow struct {
	Name  string
	URL   string
	Posts int64
}

// homeView is the payload of the archive front page.
type homeView struct {
	baseData
	Description  string
	Top          []dirRow
	Stats        []statRow
	DirectoryURL string
	StatsURL     string
	InfoURL      string
}

// directoryView is the payload of one subreddit directory page.
type directoryView struct {
	baseData
	Rows []dirRow
	Nav  pageNav
}

// infoView is the payload of the about page.
type infoView struct {
	baseData
	Description string
	Creator     string
	Publisher   string
	Date        string
	Language    string
	Counts      []statRow
}

// formatTime renders a Unix timestamp as a UTC date-time. Zero maps
// to an empty string so templates can hide unknown timestamps.
func formatTime(utc int64) string {
	if utc == 0 {
		return ""
	}
	return time.Unix(utc, 0).UTC().Format("2006-01-02 15:04")
}

// formatCount renders an integer with no locale decoration. Listing
// rows show raw numbers; the build report is where grouped digits
// live.
func formatCount(n int64) string {
	return strconv.FormatInt(n, 10)
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%.1f", f)
}

// statsRows flattens aggregate statistics into display rows.
func statsRows(s *model.PostListStats) []statRow {
	return []statRow{
		{Label: "Posts", Value: formatCount(s.PostCount)},
		{Label: "Total score", Value: formatCount(s.TotalScore)},
		{Label: "Average score", Value: formatFloat(s.AverageScore())},
		{Label: "Best score", Value: formatCount(s.MaxScore)},
		{Label: "Worst score", Value: formatCount(s.MinScore)},
		{Label: "Comments", Value: formatCount(s.TotalComments)},
		{Label: "Average comments per post", Value: formatFloat(s.AverageComments())},
		{Label: "Most commented", Value: formatCount(s.MaxComments)},
		{Label: "Distinct posters", Value: formatCount(s.NumPosters)},
		{Label: "Distinct commenters", Value: formatCount(s.NumCommenters)},
		{Label: "Oldest post", Value: formatTime(s.OldestUTC)},
		{Label: "Newest post", Value: formatTime(s.NewestUTC)},
	}
}

// postRow builds a listing row for one post. root is the relative
// prefix of the listing page the row appears on.
func postRow(root string, p *model.Post) postRowView {
	return postRowView{
		Title:        p.Title,
		URL:          root + PostPath(p.Subreddit, p.ID),
		Kind:         p.Kind().String(),
		Score:        p.Score,
		NumComments:  p.NumComments,
		Author:       p.Author,
		AuthorURL:    root + UserPostsPath(p.Author, "top", 1),
		Subreddit:    p.Subreddit,
		SubredditURL: root + SubredditListPath(p.Subreddit, "top", 1),
		TimeStr:      formatTime(p.CreatedUTC),
		Flair:        p.LinkFlairText,
		Over18:       p.Over18,
		Locked:       p.Locked,
	}
}
