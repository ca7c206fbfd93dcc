package render

import (
	"fmt"
	"strings"
)

// Archive path scheme. Every path is relative to the archive root and
// uses forward slashes regardless of the build platform.
const (
	// IndexPath is the archive front page.
	IndexPath = "index.html"

	// InfoPath is the "about this archive" page.
	InfoPath = "info.html"

	// GlobalStatsPath is the whole-archive statistics page.
	GlobalStatsPath = "stats.html"

	// StylePath is the shared stylesheet.
	StylePath = "style.css"

	// ScriptPath is the shared client-side script.
	ScriptPath = "scripts/app.js"
)

// PostPath returns the page path of one post.
func PostPath(subreddit, postID string) string {
	return fmt.Sprintf("r/%s/%s.html", subreddit, postID)
}

// PostShortPath returns the subreddit-independent alias of a post,
// registered as a redirect so intra-archive comment links can target
// posts without knowing their subreddit.
func PostShortPath(postID string) string {
	return fmt.Sprintf("p/%s.html", postID)
}

// CommentTreePath returns the path of a "continue this thread"
// continuation page for one comment subtree.
func CommentTreePath(subreddit, postID, commentID string) string {
	return fmt.Sprintf("r/%s/%s_%s.html", subreddit, postID, commentID)
}

// SubredditListPath returns the path of one sorted listing page of a
// subreddit. Pages are numbered from 1.
func SubredditListPath(subreddit, sort string, page int64) string {
	return fmt.Sprintf("r/%s/%s_%d.html", subreddit, sort, page)
}

// SubredditHomePath returns the redirect alias of a subreddit, which
// points at the first page of its top listing.
func SubredditHomePath(subreddit string) string {
	return fmt.Sprintf("r/%s/index.html", subreddit)
}

// SubredditStatsPath returns the statistics page path of a subreddit.
func SubredditStatsPath(subreddit string) string {
	return fmt.Sprintf("r/%s/stats.html", subreddit)
}

// UserPostsPath returns one sorted page of a user's submissions.
func UserPostsPath(user, sort string, page int64) string {
	return fmt.Sprintf("u/%s/posts_%s_%d.html", user, sort, page)
}

// UserCommentsPath returns one page of a user's comments, newest
// first.
func UserCommentsPath(user string, page int64) string {
	return fmt.Sprintf("u/%s/comments_%d.html", user, page)
}

// UserHomePath returns the redirect alias of a user page.
func UserHomePath(user string) string {
	return fmt.Sprintf("u/%s/index.html", user)
}

// UserStatsPath returns the statistics page path of a user.
func UserStatsPath(user string) string {
	return fmt.Sprintf("u/%s/stats.html", user)
}

// SubredditDirectoryPath returns one page of the subreddit directory.
func SubredditDirectoryPath(page int64) string {
	return fmt.Sprintf("subreddits_%d.html", page)
}

// MediaPath returns the content-addressed archive path of a media
// asset. The extension is derived from the asset's mimetype by the
// caller and includes the leading dot.
func MediaPath(contentHash, ext string) string {
	return "media/" + contentHash + ext
}

// relRoot returns the prefix that climbs from the directory of path
// back to the archive root, so rendered pages can reference shared
// assets with relative links.
func relRoot(path string) string {
	depth := strings.Count(path, "/")
	return strings.Repeat("../", depth)
}

// MediaExt maps a mimetype onto the file extension used in media
// paths. Unknown types fall back to .bin, which browsers handle via
// the mimetype stored in the archive index.
func MediaExt(mimetype string) string {
	switch mimetype {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "audio/mpeg":
		return ".mp3"
	default:
		return ".bin"
	}
}
