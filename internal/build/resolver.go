package build

import (
	"context"

	"github.com/frostpress/frostpress/internal/database"
	"github.com/frostpress/frostpress/internal/dedup"
	"github.com/frostpress/frostpress/internal/fetch"
	"github.com/frostpress/frostpress/internal/model"
	"github.com/frostpress/frostpress/internal/render"
)

// mediaResolver implements render.MediaResolver on top of the media
// catalog and the shared deduplication index. Many workers resolve
// concurrently; the index hands out exactly one archive path per
// content hash no matter who asks first.
type mediaResolver struct {
	ctx   context.Context
	store *database.Store
	index *dedup.Index
}

func (r *mediaResolver) ResolveMedia(url string) (model.MediaRef, string, bool) {
	if r.store == nil || url == "" {
		return model.MediaRef{}, "", false
	}

	urlHash := fetch.HashURL(fetch.UnifyURL(url))
	m, err := r.store.MediaByURLHash(r.ctx, urlHash)
	if err != nil || !m.Downloaded || m.ContentHash == "" {
		return model.MediaRef{}, "", false
	}

	candidate := render.MediaPath(m.ContentHash, render.MediaExt(m.Mimetype))
	path, _ := r.index.Resolve(m.ContentHash, candidate)
	return model.MediaRef{ContentHash: m.ContentHash, Path: path}, m.Mimetype, true
}
