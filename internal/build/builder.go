package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/frostpress/frostpress/internal/archive"
	"github.com/frostpress/frostpress/internal/database"
	"github.com/frostpress/frostpress/internal/dedup"
	"github.com/frostpress/frostpress/internal/render"
)

// Queue and batching defaults, tuned for datasets in the tens of
// millions of posts on commodity hardware.
const (
	// DefaultTaskQueueSize bounds the task channel.
	DefaultTaskQueueSize = 8192

	// DefaultResultQueueSize bounds the result channel. Results are
	// heavier than tasks (rendered HTML), so the bound is tighter.
	DefaultResultQueueSize = 1024

	// DefaultPostsPerTask is the post batch size.
	DefaultPostsPerTask = 64

	// DefaultMaxConsecutiveFailures is the per-worker failure
	// threshold before the build aborts.
	DefaultMaxConsecutiveFailures = 25
)

// Config configures a Builder.
type Config struct {
	// Store is the imported dataset. The build only reads from it.
	Store *database.Store

	// Writer is the archive under construction. The Builder owns its
	// lifecycle from here: Run finalizes it on success and aborts it
	// on failure.
	Writer *archive.Writer

	// Metadata is written into the archive at finalize. MainPage and
	// Counters are filled in by the build.
	Metadata archive.Metadata

	// MediaDir is the content-addressed directory populated by the
	// fetch phase. Empty disables media embedding.
	MediaDir string

	// Workers is the worker pool size. Zero means GOMAXPROCS.
	Workers int

	// TaskQueueSize and ResultQueueSize bound the two queues. Zero
	// selects the defaults.
	TaskQueueSize   int
	ResultQueueSize int

	// PostsPerTask is the post batch size. Zero selects the default.
	PostsPerTask int

	// MaxConsecutiveFailures aborts the build when one worker fails
	// this many tasks in a row. Zero selects the default.
	MaxConsecutiveFailures int

	// LazyComments loads comments one post at a time instead of one
	// batch at a time.
	LazyComments bool

	// NoStats skips the per-subreddit, per-user, and global
	// statistics pages.
	NoStats bool

	// NoUsers skips the user stage entirely. Author links on rendered
	// pages then point at pages the archive does not carry.
	NoUsers bool

	// MemProfileDir enables a heap profile dump after every stage.
	MemProfileDir string

	// Logger receives build progress. Nil means slog.Default.
	Logger *slog.Logger
}

// Summary describes a completed build.
type Summary struct {
	Duration      time.Duration
	Counters      CounterSnapshot
	ItemCount     int
	RedirectCount int
	BytesWritten  int64
}

// Builder runs the staged build pipeline.
type Builder struct {
	cfg      Config
	store    *database.Store
	renderer *render.Renderer
	resolver *mediaResolver
	counters *Counters
	logger   *slog.Logger
}

// New validates the configuration and prepares a Builder.
func New(cfg Config) (*Builder, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("build: config needs a store")
	}
	if cfg.Writer == nil {
		return nil, fmt.Errorf("build: config needs an archive writer")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.TaskQueueSize <= 0 {
		cfg.TaskQueueSize = DefaultTaskQueueSize
	}
	if cfg.ResultQueueSize <= 0 {
		cfg.ResultQueueSize = DefaultResultQueueSize
	}
	if cfg.PostsPerTask <= 0 {
		cfg.PostsPerTask = DefaultPostsPerTask
	}
	if cfg.MaxConsecutiveFailures <= 0 {
		cfg.MaxConsecutiveFailures = DefaultMaxConsecutiveFailures
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	b := &Builder{
		cfg:      cfg,
		store:    cfg.Store,
		counters: &Counters{},
		logger:   cfg.Logger,
	}

	b.resolver = &mediaResolver{store: cfg.Store, index: dedup.NewIndex()}
	siteTitle := cfg.Metadata.Title
	if siteTitle == "" {
		siteTitle = cfg.Metadata.Name
	}

	opts := []render.Option{render.WithSiteTitle(siteTitle)}
	if cfg.MediaDir != "" {
		opts = append(opts, render.WithMediaResolver(b.resolver))
	}
	renderer, err := render.New(opts...)
	if err != nil {
		return nil, err
	}
	b.renderer = renderer
	return b, nil
}

// Counters exposes live progress, safe to read from another goroutine.
func (b *Builder) Counters() *Counters {
	return b.counters
}

// Run executes all stages and finalizes the archive. On any error the
// partially written archive is aborted and should be deleted by the
// caller.
func (b *Builder) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	nposts, err := b.store.CountPosts(ctx)
	if err != nil {
		_ = b.cfg.Writer.Abort()
		return nil, err
	}
	if nposts == 0 {
		_ = b.cfg.Writer.Abort()
		return nil, ErrNoPosts
	}

	// The resolver shares the run's context; it is set once before
	// any worker starts.
	b.resolver.ctx = ctx

	cr := newCreator(b.cfg.Writer, b.store, b.cfg.MediaDir, b.counters, b.logger)
	stages := []Stage{
		&postStage{store: b.store, postsPerTask: b.cfg.PostsPerTask},
		&subredditStage{store: b.store},
	}
	if !b.cfg.NoUsers {
		stages = append(stages, &userStage{store: b.store})
	}
	stages = append(stages, &siteStage{noStats: b.cfg.NoStats})

	for _, stage := range stages {
		if err := b.runStage(ctx, stage, cr); err != nil {
			_ = b.cfg.Writer.Abort()
			return nil, fmt.Errorf("stage %q failed: %w", stage.Name(), err)
		}
	}

	meta := b.cfg.Metadata
	meta.MainPage = render.IndexPath
	snap := b.counters.Snapshot()
	meta.Counters = map[string]int64{
		"pages":              snap.PagesWritten,
		"redirects":          snap.RedirectsWritten,
		"media_embedded":     snap.MediaEmbedded,
		"media_deduplicated": snap.MediaDeduplicated,
	}

	items := b.cfg.Writer.ItemCount()
	redirects := b.cfg.Writer.RedirectCount()
	bytes := b.cfg.Writer.BytesWritten()
	if err := b.cfg.Writer.Finalize(meta); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return &Summary{
		Duration:      time.Since(start),
		Counters:      snap,
		ItemCount:     items,
		RedirectCount: redirects,
		BytesWritten:  bytes,
	}, nil
}

// runStage runs one stage's feeder, worker pool, and creator pass.
func (b *Builder) runStage(ctx context.Context, stage Stage, cr *creator) error {
	total, err := stage.Count(ctx)
	if err != nil {
		return err
	}
	b.logger.Info("stage starting",
		"stage", stage.Name(),
		"tasks", total,
		"workers", b.cfg.Workers,
	)
	stageStart := time.Now()

	tasks := make(chan Task, b.cfg.TaskQueueSize)
	results := make(chan *render.Result, b.cfg.ResultQueueSize)

	stageCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The creator runs outside the errgroup: it must keep draining
	// until the result channel closes, which only happens after every
	// worker has joined.
	creatorErr := make(chan error, 1)
	go func() {
		creatorErr <- cr.run(stageCtx, cancel, results)
	}()

	g, gctx := errgroup.WithContext(stageCtx)
	for i := 0; i < b.cfg.Workers; i++ {
		id := i
		g.Go(func() error {
			return b.runWorker(gctx, id, tasks, results)
		})
	}
	g.Go(func() error {
		if err := stage.Enqueue(gctx, tasks); err != nil {
			return err
		}
		for i := 0; i < b.cfg.Workers; i++ {
			if err := sendTask(gctx, tasks, StopTask{}); err != nil {
				return err
			}
		}
		return nil
	})

	workerErr := g.Wait()
	close(results)
	cErr := <-creatorErr

	// The creator's error wins: when an archive write fails it
	// cancels the stage, and the workers' context errors are only
	// fallout.
	if cErr != nil {
		return cErr
	}
	if workerErr != nil {
		return workerErr
	}

	b.logger.Info("stage finished",
		"stage", stage.Name(),
		"duration", time.Since(stageStart).Round(time.Millisecond),
		"pages", b.counters.PagesWritten.Load(),
		"failures", b.counters.TaskFailures.Load(),
	)
	b.writeHeapProfile(stage.Name())
	return nil
}

// writeHeapProfile dumps a post-stage heap profile when profiling is
// enabled. Profile failures are logged, never fatal.
func (b *Builder) writeHeapProfile(stage string) {
	if b.cfg.MemProfileDir == "" {
		return
	}
	if err := os.MkdirAll(b.cfg.MemProfileDir, 0750); err != nil {
		b.logger.Warn("failed to create profile directory", "error", err)
		return
	}
	path := filepath.Join(b.cfg.MemProfileDir, "heap_"+stage+".pprof")
	f, err := os.Create(path) //nolint:gosec // profile path derives from user configuration
	if err != nil {
		b.logger.Warn("failed to create heap profile", "path", path, "error", err)
		return
	}
	defer func() { _ = f.Close() }()

	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		b.logger.Warn("failed to write heap profile", "path", path, "error", err)
		return
	}
	b.logger.Info("heap profile written", "path", path)
}
