package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/frostpress/frostpress/internal/archive"
	"github.com/frostpress/frostpress/internal/database"
	"github.com/frostpress/frostpress/internal/model"
	"github.com/frostpress/frostpress/internal/render"
)

// creator is the single consumer of the result queue and the only
// goroutine that touches the archive writer. It lives across stages;
// the per-stage result channel is handed to run each time.
type creator struct {
	writer   *archive.Writer
	store    *database.Store
	mediaDir string
	counters *Counters
	logger   *slog.Logger

	// embedded tracks which content hashes already have their bytes
	// in the archive. Single-goroutine by contract, so a plain map.
	embedded map[string]struct{}

	// err is the first fatal archive error. Once set, remaining
	// results are drained and discarded so workers never block on a
	// full queue.
	err error
}

func newCreator(w *archive.Writer, store *database.Store, mediaDir string, counters *Counters, logger *slog.Logger) *creator {
	return &creator{
		writer:   w,
		store:    store,
		mediaDir: mediaDir,
		counters: counters,
		logger:   logger,
		embedded: make(map[string]struct{}),
	}
}

// run consumes results until the channel closes. cancel tears the
// stage down on a fatal archive error while run keeps draining.
func (c *creator) run(ctx context.Context, cancel context.CancelFunc, results <-chan *render.Result) error {
	for res := range results {
		if c.err != nil {
			continue
		}
		if err := c.apply(ctx, res); err != nil {
			c.err = err
			c.logger.Error("archive write failed, draining remaining results", "error", err)
			cancel()
		}
	}
	return c.err
}

func (c *creator) apply(ctx context.Context, res *render.Result) error {
	for _, page := range res.Pages {
		if err := c.writer.AddItem(page.Path, page.Mimetype, page.Content, page.Title, page.Front); err != nil {
			return fmt.Errorf("failed to add page %q: %w", page.Path, err)
		}
		c.counters.PagesWritten.Add(1)
	}
	for _, rd := range res.Redirects {
		if err := c.writer.AddRedirect(rd.Path, rd.Target, rd.Title); err != nil {
			return fmt.Errorf("failed to add redirect %q: %w", rd.Path, err)
		}
		c.counters.RedirectsWritten.Add(1)
	}
	for _, ref := range res.Media {
		if err := c.embedMedia(ctx, ref); err != nil {
			return err
		}
	}
	return nil
}

// embedMedia writes one asset's bytes on first reference. Later
// references to the same content hash only bump the dedup counter;
// the pages already link to the single embedded copy.
func (c *creator) embedMedia(ctx context.Context, ref model.MediaRef) error {
	if _, ok := c.embedded[ref.ContentHash]; ok {
		c.counters.MediaDeduplicated.Add(1)
		return nil
	}

	m, err := c.store.MediaByContentHash(ctx, ref.ContentHash)
	if err != nil {
		return fmt.Errorf("media %q referenced but not cataloged: %w", ref.ContentHash, err)
	}
	data, err := os.ReadFile(filepath.Join(c.mediaDir, ref.ContentHash)) //nolint:gosec // content-addressed path under the configured media dir
	if err != nil {
		return fmt.Errorf("failed to read media bytes for %q: %w", ref.ContentHash, err)
	}

	if err := c.writer.AddItem(ref.Path, m.Mimetype, data, "", false); err != nil {
		return fmt.Errorf("failed to embed media %q: %w", ref.Path, err)
	}
	c.embedded[ref.ContentHash] = struct{}{}
	c.counters.MediaEmbedded.Add(1)
	return nil
}
