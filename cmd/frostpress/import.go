package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/frostpress/frostpress/internal/database"
	"github.com/frostpress/frostpress/internal/jsonl"
	"github.com/frostpress/frostpress/internal/model"
	"github.com/frostpress/frostpress/internal/report"
)

// importBatchSize is how many rows accumulate before one transaction.
// Large enough to amortize transaction overhead, small enough to keep
// memory flat on multi-gigabyte dumps.
const importBatchSize = 2000

// NewImportCmd creates the import command.
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load JSON Lines dumps into the dataset database",
		Long: `Import reads reddit dataset dumps in JSON Lines format and loads them
into the dataset database. Files ending in .zst are decompressed on the
fly. Users and subreddits are derived from the posts and comments as
they stream past.

Import is idempotent: rows that already exist are left untouched, so
rerunning with the same or overlapping files is safe.

Examples:
  # Import a posts dump and a comments dump
  frostpress import --posts golang_submissions.jsonl.zst --comments golang_comments.jsonl.zst

  # Import several post dumps
  frostpress import --posts jan.jsonl --posts feb.jsonl`,
		RunE: runImportCmd,
	}

	cmd.Flags().StringArray("posts", nil,
		"Posts dump in JSON Lines format (repeatable, .zst supported)")
	cmd.Flags().StringArray("comments", nil,
		"Comments dump in JSON Lines format (repeatable, .zst supported)")
	addCommonFlags(cmd)

	return cmd
}

// importState accumulates per-run statistics and the users and
// subreddits seen while streaming the dumps.
type importState struct {
	stats report.ImportStats
	users map[string]struct{}
	subs  map[string]int64
}

// runImportCmd executes the import command.
func runImportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := commonConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	postFiles, err := cmd.Flags().GetStringArray("posts")
	if err != nil {
		return err
	}
	commentFiles, err := cmd.Flags().GetStringArray("comments")
	if err != nil {
		return err
	}
	if len(postFiles) == 0 && len(commentFiles) == 0 {
		return errors.New("nothing to import: provide --posts and/or --comments files")
	}

	logger, counter, closeLog, err := setupLogger(cfg, "import")
	if err != nil {
		return err
	}
	defer closeLog()
	ctx, cancel := signalContext(logger)
	defer cancel()

	store, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	started := time.Now()
	postsBefore, err := store.CountPosts(ctx)
	if err != nil {
		return err
	}
	commentsBefore, err := store.CountComments(ctx)
	if err != nil {
		return err
	}

	st := &importState{
		users: make(map[string]struct{}),
		subs:  make(map[string]int64),
	}
	for _, path := range postFiles {
		if err := importPosts(ctx, store, path, st, logger); err != nil {
			return fmt.Errorf("import of %s failed: %w", path, err)
		}
	}
	for _, path := range commentFiles {
		if err := importComments(ctx, store, path, st, logger); err != nil {
			return fmt.Errorf("import of %s failed: %w", path, err)
		}
	}
	if err := flushDerived(ctx, store, st); err != nil {
		return err
	}

	postsAfter, err := store.CountPosts(ctx)
	if err != nil {
		return err
	}
	commentsAfter, err := store.CountComments(ctx)
	if err != nil {
		return err
	}
	st.stats.PostsInserted = postsAfter - postsBefore
	st.stats.CommentsInserted = commentsAfter - commentsBefore

	dataset, err := datasetStats(ctx, store)
	if err != nil {
		return err
	}

	r := newReport("import", started, dataset, counter)
	r.Import = &st.stats
	return outputReport(cmd, cfg, r)
}

// importPosts streams one posts dump into the database.
func importPosts(ctx context.Context, store *database.Store, path string, st *importState, logger *slog.Logger) error {
	sc, err := jsonl.OpenFile(path)
	if err != nil {
		return err
	}
	defer func() { _ = sc.Close() }()

	logger.Info("importing posts", "file", path)

	batch := make([]*model.Post, 0, importBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := store.InsertPosts(ctx, batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		parsed, err := jsonl.ParsePost(sc.Bytes())
		if err != nil {
			logger.Warn("skipping malformed post line",
				"file", path, "line", sc.Line(), "error", err)
			st.stats.LinesSkipped++
			continue
		}
		st.stats.PostsRead++

		p := parsed.Post
		st.users[p.Author] = struct{}{}
		if parsed.Subscribers > st.subs[p.Subreddit] {
			st.subs[p.Subreddit] = parsed.Subscribers
		} else if _, ok := st.subs[p.Subreddit]; !ok {
			st.subs[p.Subreddit] = 0
		}

		batch = append(batch, p)
		if len(batch) == importBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return flush()
}

// importComments streams one comments dump into the database.
func importComments(ctx context.Context, store *database.Store, path string, st *importState, logger *slog.Logger) error {
	sc, err := jsonl.OpenFile(path)
	if err != nil {
		return err
	}
	defer func() { _ = sc.Close() }()

	logger.Info("importing comments", "file", path)

	batch := make([]*model.Comment, 0, importBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := store.InsertComments(ctx, batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		c, err := jsonl.ParseComment(sc.Bytes())
		if err != nil {
			logger.Warn("skipping malformed comment line",
				"file", path, "line", sc.Line(), "error", err)
			st.stats.LinesSkipped++
			continue
		}
		st.stats.CommentsRead++
		st.users[c.Author] = struct{}{}

		batch = append(batch, c)
		if len(batch) == importBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return flush()
}

// flushDerived upserts the users and subreddits collected during the
// streaming pass.
func flushDerived(ctx context.Context, store *database.Store, st *importState) error {
	users := make([]model.User, 0, len(st.users))
	for name := range st.users {
		if name == "" {
			continue
		}
		users = append(users, model.User{Name: name})
	}
	if err := store.UpsertUsers(ctx, users); err != nil {
		return fmt.Errorf("failed to record users: %w", err)
	}

	subs := make([]model.Subreddit, 0, len(st.subs))
	for name, subscribers := range st.subs {
		if name == "" {
			continue
		}
		subs = append(subs, model.Subreddit{Name: name, Subscribers: subscribers})
	}
	if err := store.UpsertSubreddits(ctx, subs); err != nil {
		return fmt.Errorf("failed to record subreddits: %w", err)
	}
	return nil
}
