package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/frostpress/frostpress/internal/database"
	"github.com/frostpress/frostpress/internal/dedup"
	"github.com/frostpress/frostpress/internal/model"
)

// Fetch defaults.
const (
	// DefaultConcurrency is the number of parallel downloads.
	DefaultConcurrency = 4

	// DefaultDelay is the per-host politeness delay between requests.
	DefaultDelay = 500 * time.Millisecond

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize caps a single download.
	DefaultMaxBodySize = 64 << 20

	// DefaultUserAgent identifies the fetcher to servers.
	DefaultUserAgent = "frostpress-fetch/1.0 (archival; contact via repository)"
)

// ErrBodyTooLarge is recorded for downloads over the size cap.
var ErrBodyTooLarge = errors.New("fetch: response body exceeds size limit")

// Config configures a Fetcher.
type Config struct {
	// Store is the dataset whose media catalog is populated.
	Store *database.Store

	// MediaDir receives the content-addressed files.
	MediaDir string

	// Concurrency, Delay, Timeout, MaxBodySize, and UserAgent fall
	// back to the package defaults when zero.
	Concurrency int
	Delay       time.Duration
	Timeout     time.Duration
	MaxBodySize int64
	UserAgent   string

	// Logger receives fetch progress. Nil means slog.Default.
	Logger *slog.Logger

	// Client overrides the HTTP client, used by tests.
	Client *http.Client
}

// Summary describes a completed fetch run.
type Summary struct {
	Candidates int64
	Downloaded int64
	Aliased    int64
	Skipped    int64
	Failed     int64
	Bytes      int64
}

// Fetcher downloads dataset media.
type Fetcher struct {
	cfg     Config
	client  *http.Client
	logger  *slog.Logger
	index   *dedup.Index
	hosts   map[string]time.Time
	hostsMu sync.Mutex

	// catalogMu serializes the content-hash check and insert.
	catalogMu sync.Mutex
}

// New validates the configuration and prepares a Fetcher.
func New(cfg Config) (*Fetcher, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("fetch: config needs a store")
	}
	if cfg.MediaDir == "" {
		return nil, fmt.Errorf("fetch: config needs a media directory")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Fetcher{
		cfg:    cfg,
		client: client,
		logger: cfg.Logger,
		index:  dedup.NewIndex(),
		hosts:  make(map[string]time.Time),
	}, nil
}

// Run harvests candidate URLs from every post and downloads the ones
// the catalog has not seen. It returns counts for the build report.
func (f *Fetcher) Run(ctx context.Context) (*Summary, error) {
	if err := os.MkdirAll(f.cfg.MediaDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}

	urls, err := f.collectCandidates(ctx)
	if err != nil {
		return nil, err
	}
	summary := &Summary{Candidates: int64(len(urls))}
	f.logger.Info("fetch starting",
		"candidates", len(urls),
		"concurrency", f.cfg.Concurrency,
	)

	var mu sync.Mutex // guards summary
	queue := make(chan string)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < f.cfg.Concurrency; i++ {
		g.Go(func() error {
			for u := range queue {
				outcome, size, err := f.fetchOne(gctx, u)
				if err != nil {
					// Catalog writes failing is fatal; download
					// failures are recorded and counted instead.
					return err
				}
				mu.Lock()
				switch outcome {
				case outcomeDownloaded:
					summary.Downloaded++
					summary.Bytes += size
				case outcomeAliased:
					summary.Aliased++
				case outcomeSkipped:
					summary.Skipped++
				case outcomeFailed:
					summary.Failed++
				}
				mu.Unlock()
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(queue)
		for _, u := range urls {
			select {
			case queue <- u:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	f.logger.Info("fetch finished",
		"downloaded", summary.Downloaded,
		"aliased", summary.Aliased,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"bytes", summary.Bytes,
	)
	return summary, nil
}

// collectCandidates walks every post, gathering the post target for
// media posts plus direct media links harvested from self text. The
// result is unified and deduplicated in document order.
func (f *Fetcher) collectCandidates(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var urls []string
	add := func(raw string) {
		unified := UnifyURL(raw)
		if unified == "" {
			return
		}
		if _, dup := seen[unified]; dup {
			return
		}
		seen[unified] = struct{}{}
		urls = append(urls, unified)
	}

	err := f.cfg.Store.ForEachPost(ctx, func(p *model.Post) error {
		switch p.Kind() {
		case model.KindImage, model.KindVideo:
			if looksLikeMedia(p.URL) {
				add(p.URL)
			}
		case model.KindText:
			for _, u := range HarvestMediaURLs(p.SelfText) {
				if looksLikeMedia(u) {
					add(u)
				}
			}
		case model.KindLink, model.KindPoll:
			// Link targets are kept as outbound links; polls carry no
			// media.
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to harvest media urls: %w", err)
	}
	return urls, nil
}

type fetchOutcome int

const (
	outcomeDownloaded fetchOutcome = iota
	outcomeAliased
	outcomeSkipped
	outcomeFailed
)

// fetchOne downloads a single unified URL and records the attempt.
// The returned error is reserved for catalog and filesystem failures;
// network problems map to outcomeFailed.
func (f *Fetcher) fetchOne(ctx context.Context, unified string) (fetchOutcome, int64, error) {
	urlHash := HashURL(unified)

	// Earlier runs already decided this URL, successfully or not.
	if _, err := f.cfg.Store.MediaByURLHash(ctx, urlHash); err == nil {
		return outcomeSkipped, 0, nil
	} else if !errors.Is(err, database.ErrNotFound) {
		return 0, 0, err
	}

	data, mimetype, fetchErr := f.download(ctx, unified)
	if fetchErr != nil {
		f.logger.Warn("download failed", "url", unified, "error", fetchErr)
		_, err := f.cfg.Store.InsertMedia(ctx, &model.MediaFile{
			URL:     unified,
			URLHash: urlHash,
		})
		if err != nil {
			return 0, 0, err
		}
		return outcomeFailed, 0, nil
	}

	contentHash := dedup.HashBytes(data)

	// The index makes exactly one worker the writer of each distinct
	// content; everyone else sees the path as already claimed.
	path, isNew := f.index.Resolve(contentHash, filepath.Join(f.cfg.MediaDir, contentHash))
	if isNew {
		if err := os.WriteFile(path, data, 0600); err != nil { //nolint:gosec // content-addressed path under the configured media dir
			return 0, 0, fmt.Errorf("failed to store media bytes: %w", err)
		}
	}

	// Check-then-insert must be atomic or two workers holding the
	// same bytes would both become canonical.
	f.catalogMu.Lock()
	defer f.catalogMu.Unlock()

	if canonical, err := f.cfg.Store.MediaByContentHash(ctx, contentHash); err == nil {
		_, err := f.cfg.Store.InsertMedia(ctx, &model.MediaFile{
			URL:     unified,
			URLHash: urlHash,
			AliasOf: canonical.UID,
		})
		if err != nil {
			return 0, 0, err
		}
		return outcomeAliased, 0, nil
	} else if !errors.Is(err, database.ErrNotFound) {
		return 0, 0, err
	}

	info := probeImage(mimetype, data)
	_, err := f.cfg.Store.InsertMedia(ctx, &model.MediaFile{
		URL:         unified,
		URLHash:     urlHash,
		ContentHash: contentHash,
		Mimetype:    mimetype,
		Size:        int64(len(data)),
		Downloaded:  true,
		Width:       info.Width,
		Height:      info.Height,
		TakenAt:     info.TakenAt,
	})
	if err != nil {
		return 0, 0, err
	}
	return outcomeDownloaded, int64(len(data)), nil
}

// download performs the HTTP request with politeness delay and size
// cap.
func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, string, error) {
	f.waitForHost(ctx, rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodySize+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > f.cfg.MaxBodySize {
		return nil, "", ErrBodyTooLarge
	}

	mimetype := resp.Header.Get("Content-Type")
	if i := strings.Index(mimetype, ";"); i >= 0 {
		mimetype = strings.TrimSpace(mimetype[:i])
	}
	if mimetype == "" || mimetype == "application/octet-stream" {
		mimetype = http.DetectContentType(data)
		if i := strings.Index(mimetype, ";"); i >= 0 {
			mimetype = strings.TrimSpace(mimetype[:i])
		}
	}
	return data, mimetype, nil
}

// waitForHost enforces the per-host politeness delay across workers.
func (f *Fetcher) waitForHost(ctx context.Context, rawURL string) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return
	}

	f.hostsMu.Lock()
	now := time.Now()
	next := f.hosts[u.Host]
	if next.Before(now) {
		next = now
	}
	f.hosts[u.Host] = next.Add(f.cfg.Delay)
	f.hostsMu.Unlock()

	if wait := time.Until(next); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
		}
	}
}
