package database

import (
	"context"
	"fmt"

	"github.com/frostpress/frostpress/internal/model"
)

// InsertPosts writes one batch of posts inside a single transaction.
//
// Dataset dumps occasionally repeat a submission (crossposted dumps,
// overlapping monthly files), so the insert ignores rows whose reddit
// id is already present instead of failing the batch.
func (s *Store) InsertPosts(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin post batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO posts
			(id, title, author, subreddit, selftext, url, domain, score,
			 num_comments, created_utc, permalink, post_hint, poll_data,
			 is_self, edited, over_18, locked, link_flair_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare post insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range posts {
		_, err := stmt.ExecContext(ctx,
			p.ID, p.Title, p.Author, p.Subreddit, p.SelfText, p.URL,
			p.Domain, p.Score, p.NumComments, p.CreatedUTC, p.Permalink,
			p.Hint, p.PollData, p.IsSelf, p.Edited, p.Over18, p.Locked,
			p.LinkFlairText)
		if err != nil {
			return fmt.Errorf("failed to insert post %q: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// InsertComments writes one batch of comments inside a single
// transaction, ignoring repeated comment ids the same way InsertPosts
// ignores repeated posts.
func (s *Store) InsertComments(ctx context.Context, comments []*model.Comment) error {
	if len(comments) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin comment batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO comments
			(id, post_id, parent_id, author, subreddit, body, score,
			 created_utc, distinguished)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare comment insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range comments {
		_, err := stmt.ExecContext(ctx,
			c.ID, c.PostID, c.ParentID, c.Author, c.Subreddit, c.Body,
			c.Score, c.CreatedUTC, c.Distinguished)
		if err != nil {
			return fmt.Errorf("failed to insert comment %q: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// UpsertUsers records one batch of authors. An existing row keeps its
// creation time unless the incoming row carries one and the stored row
// does not; post dumps rarely include account metadata, so the first
// dump that knows it wins.
func (s *Store) UpsertUsers(ctx context.Context, users []model.User) error {
	if len(users) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin user batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO users (name, created_utc) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET
			created_utc = CASE
				WHEN users.created_utc = 0 THEN excluded.created_utc
				ELSE users.created_utc
			END`)
	if err != nil {
		return fmt.Errorf("failed to prepare user upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, u := range users {
		if _, err := stmt.ExecContext(ctx, u.Name, u.CreatedUTC); err != nil {
			return fmt.Errorf("failed to upsert user %q: %w", u.Name, err)
		}
	}
	return tx.Commit()
}

// UpsertSubreddits records one batch of subreddits, keeping the
// highest subscriber count seen across dumps.
func (s *Store) UpsertSubreddits(ctx context.Context, subs []model.Subreddit) error {
	if len(subs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin subreddit batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO subreddits (name, subscribers) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET
			subscribers = MAX(subreddits.subscribers, excluded.subscribers)`)
	if err != nil {
		return fmt.Errorf("failed to prepare subreddit upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, sub := range subs {
		if _, err := stmt.ExecContext(ctx, sub.Name, sub.Subscribers); err != nil {
			return fmt.Errorf("failed to upsert subreddit %q: %w", sub.Name, err)
		}
	}
	return tx.Commit()
}
