package stats

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/frostpress/frostpress/internal/model"
)

// Filter restricts a statistics computation to one subreddit or one
// author. The zero Filter covers the whole archive. Setting both
// fields is not supported.
type Filter struct {
	Subreddit string
	Author    string
}

// Compute runs the aggregate queries for one filter.
//
// Post aggregates (scores, timestamps, recorded comment counts) come
// from the posts table; the distinct commenter count comes from the
// comments table because the dataset does not record it per post.
func Compute(ctx context.Context, db *sql.DB, f Filter) (*model.PostListStats, error) {
	where := ""
	var args []any
	switch {
	case f.Subreddit != "" && f.Author != "":
		return nil, fmt.Errorf("stats: filter sets both subreddit and author")
	case f.Subreddit != "":
		where = " WHERE subreddit = ?"
		args = append(args, f.Subreddit)
	case f.Author != "":
		where = " WHERE author = ?"
		args = append(args, f.Author)
	}

	var s model.PostListStats
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(score), 0),
		       COALESCE(MIN(score), 0),
		       COALESCE(MAX(score), 0),
		       COALESCE(MIN(created_utc), 0),
		       COALESCE(MAX(created_utc), 0),
		       COALESCE(SUM(num_comments), 0),
		       COALESCE(MIN(num_comments), 0),
		       COALESCE(MAX(num_comments), 0),
		       COUNT(DISTINCT author)
		FROM posts`+where, args...).
		Scan(&s.PostCount, &s.TotalScore, &s.MinScore, &s.MaxScore,
			&s.OldestUTC, &s.NewestUTC, &s.TotalComments,
			&s.MinComments, &s.MaxComments, &s.NumPosters)
	if err != nil {
		return nil, fmt.Errorf("failed to compute post aggregates: %w", err)
	}

	commenters, err := countCommenters(ctx, db, f)
	if err != nil {
		return nil, err
	}
	s.NumCommenters = commenters
	return &s, nil
}

// countCommenters counts distinct comment authors under the filter.
// The author filter means "people who commented on this author's
// posts", which is what the user statistics page shows.
func countCommenters(ctx context.Context, db *sql.DB, f Filter) (int64, error) {
	query := "SELECT COUNT(DISTINCT author) FROM comments"
	var args []any
	switch {
	case f.Subreddit != "":
		query += " WHERE subreddit = ?"
		args = append(args, f.Subreddit)
	case f.Author != "":
		query = `SELECT COUNT(DISTINCT c.author) FROM comments c
			JOIN posts p ON c.post_id = p.id WHERE p.author = ?`
		args = append(args, f.Author)
	}

	var n int64
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count commenters: %w", err)
	}
	return n, nil
}

// ForSubreddit computes statistics for one subreddit.
func ForSubreddit(ctx context.Context, db *sql.DB, name string) (*model.PostListStats, error) {
	return Compute(ctx, db, Filter{Subreddit: name})
}

// ForAuthor computes statistics for one user's posts.
func ForAuthor(ctx context.Context, db *sql.DB, name string) (*model.PostListStats, error) {
	return Compute(ctx, db, Filter{Author: name})
}

// Global computes statistics for the whole archive.
func Global(ctx context.Context, db *sql.DB) (*model.PostListStats, error) {
	return Compute(ctx, db, Filter{})
}
