package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/frostpress/frostpress/internal/model"
)

// Order selects the sort applied to post listings.
type Order string

const (
	// OrderTop sorts by descending score.
	OrderTop Order = "top"

	// OrderNew sorts by descending creation time.
	OrderNew Order = "new"
)

// orderClause maps an Order onto a SQL fragment. Orders are mapped
// through this switch and never interpolated from caller input.
func orderClause(order Order) (string, error) {
	switch order {
	case OrderTop:
		return "score DESC, created_utc DESC", nil
	case OrderNew:
		return "created_utc DESC, score DESC", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOrder, order)
	}
}

// postColumns is the column list every post query selects, in the
// order scanPost expects.
const postColumns = `uid, id, title, author, subreddit, selftext, url, domain,
	score, num_comments, created_utc, permalink, post_hint, poll_data,
	is_self, edited, over_18, locked, link_flair_text`

// scanner abstracts sql.Row and sql.Rows for the scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

// scanPost reads one posts row.
func scanPost(sc scanner) (*model.Post, error) {
	var p model.Post
	err := sc.Scan(
		&p.UID, &p.ID, &p.Title, &p.Author, &p.Subreddit, &p.SelfText,
		&p.URL, &p.Domain, &p.Score, &p.NumComments, &p.CreatedUTC,
		&p.Permalink, &p.Hint, &p.PollData, &p.IsSelf, &p.Edited,
		&p.Over18, &p.Locked, &p.LinkFlairText,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// scanComment reads one comments row.
func scanComment(sc scanner) (*model.Comment, error) {
	var c model.Comment
	err := sc.Scan(
		&c.UID, &c.ID, &c.PostID, &c.ParentID, &c.Author, &c.Subreddit,
		&c.Body, &c.Score, &c.CreatedUTC, &c.Distinguished,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const commentColumns = `uid, id, post_id, parent_id, author, subreddit, body,
	score, created_utc, distinguished`

// CountPosts returns the number of imported posts.
func (s *Store) CountPosts(ctx context.Context) (int64, error) {
	return s.countRows(ctx, "SELECT COUNT(*) FROM posts")
}

// CountComments returns the number of imported comments.
func (s *Store) CountComments(ctx context.Context) (int64, error) {
	return s.countRows(ctx, "SELECT COUNT(*) FROM comments")
}

// CountSubreddits returns the number of known subreddits.
func (s *Store) CountSubreddits(ctx context.Context) (int64, error) {
	return s.countRows(ctx, "SELECT COUNT(*) FROM subreddits")
}

// CountUsers returns the number of known users, excluding the reserved
// archive account.
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	return s.countRows(ctx, "SELECT COUNT(*) FROM users WHERE name != ?", model.ArchiveUsername)
}

func (s *Store) countRows(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return n, nil
}

// ForEachPostUID streams every post uid in ascending order. The build
// orchestrator uses this to cut the dataset into task batches without
// materializing millions of uids at once.
func (s *Store) ForEachPostUID(ctx context.Context, fn func(uid int64) error) error {
	rows, err := s.db.QueryContext(ctx, "SELECT uid FROM posts ORDER BY uid")
	if err != nil {
		return fmt.Errorf("failed to query post uids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var uid int64
		if err := rows.Scan(&uid); err != nil {
			return fmt.Errorf("failed to scan post uid: %w", err)
		}
		if err := fn(uid); err != nil {
			return err
		}
	}
	return rows.Err()
}

// ForEachPost streams every post in uid order. The fetch phase uses
// this to harvest media URLs without holding the dataset in memory.
func (s *Store) ForEachPost(ctx context.Context, fn func(*model.Post) error) error {
	rows, err := s.db.QueryContext(ctx, "SELECT "+postColumns+" FROM posts ORDER BY uid")
	if err != nil {
		return fmt.Errorf("failed to query posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return fmt.Errorf("failed to scan post: %w", err)
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return rows.Err()
}

// PostByUID loads one post by its surrogate key.
func (s *Store) PostByUID(ctx context.Context, uid int64) (*model.Post, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE uid = ?", uid)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: post uid %d", ErrNotFound, uid)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load post uid %d: %w", uid, err)
	}
	return p, nil
}

// PostsByUIDs loads a task batch of posts. The result preserves the
// order of uids; uids that match no row are skipped silently because
// batches are cut from ForEachPostUID on the same database.
func (s *Store) PostsByUIDs(ctx context.Context, uids []int64) ([]*model.Post, error) {
	if len(uids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(uids))
	args := make([]any, len(uids))
	for i, uid := range uids {
		placeholders[i] = "?"
		args[i] = uid
	}
	query := "SELECT " + postColumns + " FROM posts WHERE uid IN (" +
		strings.Join(placeholders, ",") + ")"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query post batch: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byUID := make(map[int64]*model.Post, len(uids))
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		byUID[p.UID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	posts := make([]*model.Post, 0, len(byUID))
	for _, uid := range uids {
		if p, ok := byUID[uid]; ok {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

// CommentsForPost loads every comment of one post, best scored first.
// Tree assembly happens in the model layer; the score order here is
// what makes reply lists come out ranked.
func (s *Store) CommentsForPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE post_id = ? ORDER BY score DESC, created_utc ASC",
		postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments for post %q: %w", postID, err)
	}
	defer func() { _ = rows.Close() }()

	return collectComments(rows)
}

// CommentsForPosts loads the comments of a whole task batch in one
// query, grouped by post id. This is the eager counterpart of
// CommentsForPost used when lazy loading is disabled.
func (s *Store) CommentsForPosts(ctx context.Context, postIDs []string) (map[string][]*model.Comment, error) {
	out := make(map[string][]*model.Comment, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	placeholders := make([]string, len(postIDs))
	args := make([]any, len(postIDs))
	for i, id := range postIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := "SELECT " + commentColumns + " FROM comments WHERE post_id IN (" +
		strings.Join(placeholders, ",") + ") ORDER BY post_id, score DESC, created_utc ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comment batch: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		out[c.PostID] = append(out[c.PostID], c)
	}
	return out, rows.Err()
}

// CountPostsBySubreddit returns the number of posts in one subreddit.
func (s *Store) CountPostsBySubreddit(ctx context.Context, subreddit string) (int64, error) {
	return s.countRows(ctx, "SELECT COUNT(*) FROM posts WHERE subreddit = ?", subreddit)
}

// PostsBySubreddit returns one listing page of a subreddit.
func (s *Store) PostsBySubreddit(ctx context.Context, subreddit string, order Order, limit, offset int) ([]*model.Post, error) {
	clause, err := orderClause(order)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE subreddit = ? ORDER BY "+clause+" LIMIT ? OFFSET ?",
		subreddit, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query subreddit %q posts: %w", subreddit, err)
	}
	defer func() { _ = rows.Close() }()

	return collectPosts(rows)
}

// CountPostsByAuthor returns the number of posts by one user.
func (s *Store) CountPostsByAuthor(ctx context.Context, author string) (int64, error) {
	return s.countRows(ctx, "SELECT COUNT(*) FROM posts WHERE author = ?", author)
}

// PostsByAuthor returns one listing page of a user's posts.
func (s *Store) PostsByAuthor(ctx context.Context, author string, order Order, limit, offset int) ([]*model.Post, error) {
	clause, err := orderClause(order)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE author = ? ORDER BY "+clause+" LIMIT ? OFFSET ?",
		author, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts by %q: %w", author, err)
	}
	defer func() { _ = rows.Close() }()

	return collectPosts(rows)
}

// CountCommentsByAuthor returns the number of comments by one user.
func (s *Store) CountCommentsByAuthor(ctx context.Context, author string) (int64, error) {
	return s.countRows(ctx, "SELECT COUNT(*) FROM comments WHERE author = ?", author)
}

// CommentsByAuthor returns one listing page of a user's comments,
// newest first.
func (s *Store) CommentsByAuthor(ctx context.Context, author string, limit, offset int) ([]*model.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE author = ? ORDER BY created_utc DESC, score DESC LIMIT ? OFFSET ?",
		author, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments by %q: %w", author, err)
	}
	defer func() { _ = rows.Close() }()

	return collectComments(rows)
}

// SubredditByName loads one subreddit row.
func (s *Store) SubredditByName(ctx context.Context, name string) (*model.Subreddit, error) {
	var sub model.Subreddit
	err := s.db.QueryRowContext(ctx,
		"SELECT name, subscribers FROM subreddits WHERE name = ?", name).
		Scan(&sub.Name, &sub.Subscribers)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: subreddit %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load subreddit %q: %w", name, err)
	}
	return &sub, nil
}

// UserByName loads one user row.
func (s *Store) UserByName(ctx context.Context, name string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx,
		"SELECT name, created_utc FROM users WHERE name = ?", name).
		Scan(&u.Name, &u.CreatedUTC)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %q: %w", name, err)
	}
	return &u, nil
}

// ForEachSubredditName streams every subreddit name in lexical order.
func (s *Store) ForEachSubredditName(ctx context.Context, fn func(name string) error) error {
	return s.forEachName(ctx, "SELECT name FROM subreddits ORDER BY name", fn)
}

// ForEachUserName streams every user name in lexical order, excluding
// the reserved archive account.
func (s *Store) ForEachUserName(ctx context.Context, fn func(name string) error) error {
	return s.forEachName(ctx,
		"SELECT name FROM users WHERE name != '"+model.ArchiveUsername+"' ORDER BY name", fn)
}

func (s *Store) forEachName(ctx context.Context, query string, fn func(string) error) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query names: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan name: %w", err)
		}
		if err := fn(name); err != nil {
			return err
		}
	}
	return rows.Err()
}

// TopSubreddits returns the n subreddits with the most archived posts,
// largest first.
func (s *Store) TopSubreddits(ctx context.Context, n int) ([]model.SubredditInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT subreddit, COUNT(*) AS posts FROM posts GROUP BY subreddit ORDER BY posts DESC, subreddit ASC LIMIT ?",
		n)
	if err != nil {
		return nil, fmt.Errorf("failed to query top subreddits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectSubredditInfos(rows)
}

// AllSubredditCounts returns every subreddit with its archived post
// count, in lexical order. Feeds the paginated subreddit directory.
func (s *Store) AllSubredditCounts(ctx context.Context) ([]model.SubredditInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT subreddit, COUNT(*) AS posts FROM posts GROUP BY subreddit ORDER BY subreddit ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query subreddit counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectSubredditInfos(rows)
}

func collectPosts(rows *sql.Rows) ([]*model.Post, error) {
	var posts []*model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func collectComments(rows *sql.Rows) ([]*model.Comment, error) {
	var comments []*model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func collectSubredditInfos(rows *sql.Rows) ([]model.SubredditInfo, error) {
	var infos []model.SubredditInfo
	for rows.Next() {
		var info model.SubredditInfo
		if err := rows.Scan(&info.Name, &info.Posts); err != nil {
			return nil, fmt.Errorf("failed to scan subreddit info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
