package source

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/rshade/listmembers/internal/domain"
	"github.com/rshade/listmembers/internal/source/cache"
)

// Caching serves pages from a file cache, falling back to the wrapped source.
// Concurrent requests for the same page share one upstream call. Failed
// fetches are never cached.
type Caching struct {
	src    ListSource
	store  *cache.FileStore
	group  singleflight.Group
	logger zerolog.Logger
}

// NewCaching wraps src with store. A nil or disabled store passes every call
// through.
func NewCaching(src ListSource, store *cache.FileStore, logger zerolog.Logger) *Caching {
	return &Caching{src: src, store: store, logger: logger}
}

// FetchPage implements ListSource.
func (c *Caching) FetchPage(ctx context.Context, listURI, cursor string, limit int) (domain.Page, error) {
	if !c.store.Enabled() {
		return c.src.FetchPage(ctx, listURI, cursor, limit)
	}

	key := cache.PageKey(listURI, cursor, limit)
	if page, ok := c.lookup(key); ok {
		c.logger.Debug().Str("list_uri", listURI).Str("cursor", cursor).Msg("page cache hit")
		return page, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		page, fetchErr := c.src.FetchPage(ctx, listURI, cursor, limit)
		if fetchErr != nil {
			return domain.Page{}, fetchErr
		}
		c.save(key, page)
		return page, nil
	})
	if err != nil {
		return domain.Page{}, err
	}
	if shared {
		c.logger.Debug().Str("list_uri", listURI).Str("cursor", cursor).Msg("shared in-flight page fetch")
	}
	return v.(domain.Page), nil
}

// InvalidateList drops every cached page of listURI.
func (c *Caching) InvalidateList(_ context.Context, listURI string) error {
	if !c.store.Enabled() {
		return nil
	}
	n, err := c.store.DeletePrefix(cache.ListPrefix(listURI))
	if err != nil {
		return err
	}
	c.logger.Debug().Str("list_uri", listURI).Int("removed", n).Msg("invalidated cached pages")
	return nil
}

func (c *Caching) lookup(key string) (domain.Page, bool) {
	entry, err := c.store.Get(key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) && !errors.Is(err, cache.ErrExpired) {
			c.logger.Warn().Err(err).Msg("page cache read failed")
		}
		return domain.Page{}, false
	}
	var page domain.Page
	if err = entry.Decode(&page); err != nil {
		c.logger.Warn().Err(err).Msg("page cache entry corrupt")
		return domain.Page{}, false
	}
	return page, true
}

func (c *Caching) save(key string, page domain.Page) {
	raw, err := json.Marshal(page)
	if err == nil {
		err = c.store.Set(key, raw)
	}
	if err != nil {
		c.logger.Warn().Err(err).Msg("page cache write failed")
	}
}
