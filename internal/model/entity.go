package model

import "encoding/json"

// Entity is the closed set of renderable content variants. Every task
// the worker pool executes resolves to one or more entities, and the
// renderer exposes exactly one entry point per variant.
//
// Design decision: A sealed interface (unexported marker method)
// replaces the original's duck-typed dispatch. The compiler now
// guarantees the renderer's type switch is exhaustive over content the
// pipeline can produce, and adding a variant forces every switch to be
// revisited.
type Entity interface {
	entity()
}

// TextPost is a self post together with its assembled comment forest.
type TextPost struct {
	Post     *Post
	Comments []*CommentNode
}

// MediaPost is an image, video, or external-link post together with
// its comment forest. The renderer decides between an inline asset and
// an outbound link based on Post.Kind() and media availability.
type MediaPost struct {
	Post     *Post
	Comments []*CommentNode
}

// Poll is a poll post with its parsed options and comment forest.
type Poll struct {
	Post     *Post
	Options  []PollOption
	Comments []*CommentNode
}

// CommentTree is a single comment subtree rendered as its own page.
// The renderer produces these for threads nested deeper than its
// depth limit ("continue this thread" pages); workers never construct
// one directly.
type CommentTree struct {
	Post *Post
	Root *CommentNode
}

// SubredditPage is one sorted listing of a subreddit. Posts are pulled
// page by page through the source so arbitrarily large subreddits
// never materialize in memory at once.
type SubredditPage struct {
	Subreddit  *Subreddit
	Sort       string // "top" or "new"
	TotalPosts int64
	Posts      PostSource
}

// UserPage is one sorted listing of a user's posts or comments.
type UserPage struct {
	User       *User
	Part       string // "posts" or "comments"
	Sort       string // "top" or "new"
	Total      int64
	Posts      PostSource    // set when Part == "posts"
	Comments   CommentSource // set when Part == "comments"
}

// StatsPage carries aggregate statistics for a subreddit, a user, or
// the whole archive.
type StatsPage struct {
	// Scope is "subreddit", "user", or "global".
	Scope string

	// Subject is the subreddit or user name; empty for global scope.
	Subject string

	Stats *PostListStats
}

func (TextPost) entity()      {}
func (MediaPost) entity()     {}
func (Poll) entity()          {}
func (CommentTree) entity()   {}
func (SubredditPage) entity() {}
func (UserPage) entity()      {}
func (StatsPage) entity()     {}

// PostSource fetches one page of posts. Implementations are backed by
// a sorted, offset-limited database query.
type PostSource func(limit, offset int64) ([]*Post, error)

// CommentSource fetches one page of comments.
type CommentSource func(limit, offset int64) ([]*Comment, error)

// PollOption is one answer of a poll post.
type PollOption struct {
	Text  string `json:"text"`
	Votes int64  `json:"vote_count"`
}

// pollPayload mirrors the dataset's poll_data JSON shape.
type pollPayload struct {
	Options          []PollOption `json:"options"`
	TotalVoteCount   int64        `json:"total_vote_count"`
	VotingEndsTSUTC  int64        `json:"voting_end_timestamp"`
}

// ParsePollOptions decodes the poll options from the raw poll_data
// column. Returns nil for posts without poll data or with a payload
// this version does not understand; a malformed poll renders as a
// plain text post rather than failing the task.
func (p *Post) ParsePollOptions() []PollOption {
	if p.PollData == "" {
		return nil
	}
	var payload pollPayload
	if err := json.Unmarshal([]byte(p.PollData), &payload); err != nil {
		return nil
	}
	return payload.Options
}

// PostListStats holds aggregate statistics about a set of posts and
// their comments. Computed by the stats package; rendered by the
// renderer and the build report.
type PostListStats struct {
	PostCount     int64 `json:"post_count"`
	TotalScore    int64 `json:"total_score"`
	MinScore      int64 `json:"min_score"`
	MaxScore      int64 `json:"max_score"`
	OldestUTC     int64 `json:"oldest_utc"`
	NewestUTC     int64 `json:"newest_utc"`
	TotalComments int64 `json:"total_comments"`
	MinComments   int64 `json:"min_comments"`
	MaxComments   int64 `json:"max_comments"`
	NumPosters    int64 `json:"num_posters"`
	NumCommenters int64 `json:"num_commenters"`
}

// AverageScore returns the mean post score, 0 for empty sets.
func (s *PostListStats) AverageScore() float64 {
	if s.PostCount == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.PostCount)
}

// AverageComments returns the mean comment count per post.
func (s *PostListStats) AverageComments() float64 {
	if s.PostCount == 0 {
		return 0
	}
	return float64(s.TotalComments) / float64(s.PostCount)
}
