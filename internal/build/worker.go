package build

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frostpress/frostpress/internal/database"
	"github.com/frostpress/frostpress/internal/model"
	"github.com/frostpress/frostpress/internal/render"
	"github.com/frostpress/frostpress/internal/stats"
)

// runWorker is one pool member's loop. It exits cleanly on a StopTask
// or channel close, and fatally when consecutive failures cross the
// threshold or the context dies.
func (b *Builder) runWorker(ctx context.Context, id int, tasks <-chan Task, results chan<- *render.Result) error {
	consecutive := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t, ok := <-tasks:
			if !ok {
				return nil
			}
			if _, stop := t.(StopTask); stop {
				return nil
			}

			if err := b.runTask(ctx, t, results); err != nil {
				// Context death is a shutdown signal, not a task
				// failure; propagate it without touching the counter.
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				b.counters.TaskFailures.Add(1)
				consecutive++
				b.logger.Error("task failed",
					"worker", id,
					"task", fmt.Sprintf("%T", t),
					"consecutive", consecutive,
					"error", err,
				)
				if consecutive >= b.cfg.MaxConsecutiveFailures {
					return fmt.Errorf("%w: worker %d, last error: %v", ErrTooManyFailures, id, err)
				}
				continue
			}
			consecutive = 0
			b.counters.TasksDone.Add(1)
		}
	}
}

// runTask dispatches one task. The switch is exhaustive over the
// sealed task set; StopTask never reaches it.
func (b *Builder) runTask(ctx context.Context, t Task, results chan<- *render.Result) error {
	switch v := t.(type) {
	case PostBatchTask:
		return b.runPostBatch(ctx, v, results)
	case SubredditTask:
		return b.runSubreddit(ctx, v, results)
	case UserTask:
		return b.runUser(ctx, v, results)
	case SitePageTask:
		return b.runSitePage(ctx, v, results)
	default:
		return fmt.Errorf("build: unhandled task type %T", t)
	}
}

// emitEntity renders one entity and forwards every flush to the
// result queue.
func (b *Builder) emitEntity(ctx context.Context, e model.Entity, results chan<- *render.Result) error {
	seq, err := b.renderer.Render(e)
	if err != nil {
		return err
	}
	return b.emitSeq(ctx, seq, results)
}

func (b *Builder) emitSeq(ctx context.Context, seq render.ResultSeq, results chan<- *render.Result) error {
	for {
		res, err := seq()
		if err != nil {
			return err
		}
		if res == nil {
			return nil
		}
		if res.Empty() {
			continue
		}
		select {
		case results <- res:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *Builder) runPostBatch(ctx context.Context, t PostBatchTask, results chan<- *render.Result) error {
	posts, err := b.store.PostsByUIDs(ctx, t.UIDs)
	if err != nil {
		return err
	}

	// Eager mode pulls the whole batch's comments in one query; lazy
	// mode trades that for one query per post and a flat memory
	// profile on comment-heavy datasets.
	var grouped map[string][]*model.Comment
	if !b.cfg.LazyComments {
		ids := make([]string, len(posts))
		for i, p := range posts {
			ids[i] = p.ID
		}
		grouped, err = b.store.CommentsForPosts(ctx, ids)
		if err != nil {
			return err
		}
	}

	for _, p := range posts {
		var comments []*model.Comment
		if b.cfg.LazyComments {
			comments, err = b.store.CommentsForPost(ctx, p.ID)
			if err != nil {
				return err
			}
		} else {
			comments = grouped[p.ID]
		}
		tree := model.BuildCommentTree(comments)

		var entity model.Entity
		switch p.Kind() {
		case model.KindPoll:
			entity = model.Poll{Post: p, Options: p.ParsePollOptions(), Comments: tree}
		case model.KindText:
			entity = model.TextPost{Post: p, Comments: tree}
		default:
			entity = model.MediaPost{Post: p, Comments: tree}
		}
		if err := b.emitEntity(ctx, entity, results); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) runSubreddit(ctx context.Context, t SubredditTask, results chan<- *render.Result) error {
	sub, err := b.store.SubredditByName(ctx, t.Name)
	if errors.Is(err, database.ErrNotFound) {
		// Posts can reference subreddits the dump carried no metadata
		// row for.
		sub = &model.Subreddit{Name: t.Name}
	} else if err != nil {
		return err
	}

	total, err := b.store.CountPostsBySubreddit(ctx, t.Name)
	if err != nil {
		return err
	}

	for _, sort := range []struct {
		name  string
		order database.Order
	}{{"top", database.OrderTop}, {"new", database.OrderNew}} {
		order := sort.order
		entity := model.SubredditPage{
			Subreddit:  sub,
			Sort:       sort.name,
			TotalPosts: total,
			Posts: func(limit, offset int64) ([]*model.Post, error) {
				return b.store.PostsBySubreddit(ctx, t.Name, order, int(limit), int(offset))
			},
		}
		if err := b.emitEntity(ctx, entity, results); err != nil {
			return err
		}
	}

	if b.cfg.NoStats {
		return nil
	}
	s, err := stats.ForSubreddit(ctx, b.store.DB(), t.Name)
	if err != nil {
		return err
	}
	return b.emitEntity(ctx, model.StatsPage{Scope: "subreddit", Subject: t.Name, Stats: s}, results)
}

func (b *Builder) runUser(ctx context.Context, t UserTask, results chan<- *render.Result) error {
	user, err := b.store.UserByName(ctx, t.Name)
	if errors.Is(err, database.ErrNotFound) {
		user = &model.User{Name: t.Name}
	} else if err != nil {
		return err
	}

	postTotal, err := b.store.CountPostsByAuthor(ctx, t.Name)
	if err != nil {
		return err
	}
	commentTotal, err := b.store.CountCommentsByAuthor(ctx, t.Name)
	if err != nil {
		return err
	}

	for _, sort := range []struct {
		name  string
		order database.Order
	}{{"top", database.OrderTop}, {"new", database.OrderNew}} {
		order := sort.order
		entity := model.UserPage{
			User:  user,
			Part:  "posts",
			Sort:  sort.name,
			Total: postTotal,
			Posts: func(limit, offset int64) ([]*model.Post, error) {
				return b.store.PostsByAuthor(ctx, t.Name, order, int(limit), int(offset))
			},
		}
		if err := b.emitEntity(ctx, entity, results); err != nil {
			return err
		}
	}

	entity := model.UserPage{
		User:  user,
		Part:  "comments",
		Total: commentTotal,
		Comments: func(limit, offset int64) ([]*model.Comment, error) {
			return b.store.CommentsByAuthor(ctx, t.Name, int(limit), int(offset))
		},
	}
	if err := b.emitEntity(ctx, entity, results); err != nil {
		return err
	}

	if b.cfg.NoStats {
		return nil
	}
	s, err := stats.ForAuthor(ctx, b.store.DB(), t.Name)
	if err != nil {
		return err
	}
	return b.emitEntity(ctx, model.StatsPage{Scope: "user", Subject: t.Name, Stats: s}, results)
}

func (b *Builder) runSitePage(ctx context.Context, t SitePageTask, results chan<- *render.Result) error {
	switch t.Kind {
	case SiteHome:
		top, err := b.store.TopSubreddits(ctx, 25)
		if err != nil {
			return err
		}
		s, err := stats.Global(ctx, b.store.DB())
		if err != nil {
			return err
		}
		res, err := b.renderer.Home(b.cfg.Metadata.Description, top, s)
		if err != nil {
			return err
		}
		return b.emitSeq(ctx, render.SingleResult(res), results)

	case SiteDirectory:
		all, err := b.store.AllSubredditCounts(ctx)
		if err != nil {
			return err
		}
		seq, err := b.renderer.Directory(all)
		if err != nil {
			return err
		}
		return b.emitSeq(ctx, seq, results)

	case SiteInfo:
		info, err := b.infoData(ctx)
		if err != nil {
			return err
		}
		res, err := b.renderer.Info(info)
		if err != nil {
			return err
		}
		return b.emitSeq(ctx, render.SingleResult(res), results)

	case SiteStats:
		s, err := stats.Global(ctx, b.store.DB())
		if err != nil {
			return err
		}
		return b.emitEntity(ctx, model.StatsPage{Scope: "global", Stats: s}, results)

	case SiteAssets:
		res, err := b.renderer.Assets()
		if err != nil {
			return err
		}
		return b.emitSeq(ctx, render.SingleResult(res), results)

	default:
		return fmt.Errorf("build: unhandled site page kind %d", t.Kind)
	}
}

func (b *Builder) infoData(ctx context.Context) (render.InfoData, error) {
	posts, err := b.store.CountPosts(ctx)
	if err != nil {
		return render.InfoData{}, err
	}
	comments, err := b.store.CountComments(ctx)
	if err != nil {
		return render.InfoData{}, err
	}
	subs, err := b.store.CountSubreddits(ctx)
	if err != nil {
		return render.InfoData{}, err
	}
	users, err := b.store.CountUsers(ctx)
	if err != nil {
		return render.InfoData{}, err
	}
	_, downloaded, err := b.store.CountMedia(ctx)
	if err != nil {
		return render.InfoData{}, err
	}

	date := b.cfg.Metadata.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	return render.InfoData{
		Description: b.cfg.Metadata.Description,
		Creator:     b.cfg.Metadata.Creator,
		Publisher:   b.cfg.Metadata.Publisher,
		Date:        date,
		Language:    b.cfg.Metadata.Language,
		Posts:       posts,
		Comments:    comments,
		Subreddits:  subs,
		Users:       users,
		MediaFiles:  downloaded,
	}, nil
}
