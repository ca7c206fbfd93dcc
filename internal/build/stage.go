package build

import (
	"context"
	"fmt"

	"github.com/frostpress/frostpress/internal/database"
)

// Stage enumerates the tasks of one sequential build phase.
//
// Design decision: We use an interface rather than function types
// because stages carry configuration state (batch sizes, the store)
// and a Name() method keeps logging and memory profiles readable.
type Stage interface {
	// Name returns the stage's name for logging purposes.
	Name() string

	// Count returns how many tasks the stage will enqueue, for
	// progress reporting. It runs before Enqueue.
	Count(ctx context.Context) (int64, error)

	// Enqueue pushes every task of the stage into the queue. It must
	// respect ctx cancellation while sending; stop tasks are the
	// feeder's job, not the stage's.
	Enqueue(ctx context.Context, tasks chan<- Task) error
}

// sendTask pushes one task, giving up when the stage is cancelled so
// a dead worker pool cannot wedge the feeder on a full queue.
func sendTask(ctx context.Context, tasks chan<- Task, t Task) error {
	select {
	case tasks <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// postStage batches every post uid into PostBatchTasks.
type postStage struct {
	store        *database.Store
	postsPerTask int
}

func (s *postStage) Name() string { return "posts" }

func (s *postStage) Count(ctx context.Context) (int64, error) {
	posts, err := s.store.CountPosts(ctx)
	if err != nil {
		return 0, err
	}
	per := int64(s.postsPerTask)
	return (posts + per - 1) / per, nil
}

func (s *postStage) Enqueue(ctx context.Context, tasks chan<- Task) error {
	batch := make([]int64, 0, s.postsPerTask)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		uids := make([]int64, len(batch))
		copy(uids, batch)
		batch = batch[:0]
		return sendTask(ctx, tasks, PostBatchTask{UIDs: uids})
	}

	err := s.store.ForEachPostUID(ctx, func(uid int64) error {
		batch = append(batch, uid)
		if len(batch) >= s.postsPerTask {
			return flush()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to enumerate posts: %w", err)
	}
	return flush()
}

// subredditStage enqueues one task per subreddit.
type subredditStage struct {
	store *database.Store
}

func (s *subredditStage) Name() string { return "subreddits" }

func (s *subredditStage) Count(ctx context.Context) (int64, error) {
	return s.store.CountSubreddits(ctx)
}

func (s *subredditStage) Enqueue(ctx context.Context, tasks chan<- Task) error {
	return s.store.ForEachSubredditName(ctx, func(name string) error {
		return sendTask(ctx, tasks, SubredditTask{Name: name})
	})
}

// userStage enqueues one task per user.
type userStage struct {
	store *database.Store
}

func (s *userStage) Name() string { return "users" }

func (s *userStage) Count(ctx context.Context) (int64, error) {
	return s.store.CountUsers(ctx)
}

func (s *userStage) Enqueue(ctx context.Context, tasks chan<- Task) error {
	return s.store.ForEachUserName(ctx, func(name string) error {
		return sendTask(ctx, tasks, UserTask{Name: name})
	})
}

// siteStage enqueues the archive-level pages.
type siteStage struct {
	noStats bool
}

func (s *siteStage) Name() string { return "site" }

func (s *siteStage) Count(context.Context) (int64, error) {
	if s.noStats {
		return 4, nil
	}
	return 5, nil
}

func (s *siteStage) Enqueue(ctx context.Context, tasks chan<- Task) error {
	kinds := []SitePageKind{SiteHome, SiteDirectory, SiteInfo, SiteAssets}
	if !s.noStats {
		kinds = append(kinds, SiteStats)
	}
	for _, kind := range kinds {
		if err := sendTask(ctx, tasks, SitePageTask{Kind: kind}); err != nil {
			return err
		}
	}
	return nil
}
