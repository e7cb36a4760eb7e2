package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rshade/listmembers/internal/analytics"
	"github.com/rshade/listmembers/internal/config"
	"github.com/rshade/listmembers/internal/logging"
	"github.com/rshade/listmembers/internal/membership"
	"github.com/rshade/listmembers/internal/session"
	"github.com/rshade/listmembers/internal/source"
	"github.com/rshade/listmembers/internal/source/cache"
	"github.com/rshade/listmembers/internal/source/sqlite"
)

// app holds the collaborators a members run needs.
type app struct {
	store   *sqlite.Store
	source  source.ListSource
	editor  membership.Editor
	session *session.Static
	tracker analytics.Tracker

	closeTracker func()
}

// openApp opens the store and wraps it as store -> fault injection -> cache.
// Refresh invalidation reaches the cache through source.Bind.
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logging.ComponentLogger(*logging.FromContext(ctx), "source")

	store, err := sqlite.Open(cfg.Source.Database)
	if err != nil {
		return nil, fmt.Errorf("opening list store: %w", err)
	}

	var src source.ListSource = store
	if cfg.Source.FailEvery > 0 {
		src = source.NewFlaky(src).FailEvery(cfg.Source.FailEvery)
		log.Warn().Int("fail_every", cfg.Source.FailEvery).Msg("fault injection enabled")
	}

	pages, err := openCache(cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	src = source.NewCaching(src, pages, log)

	a := &app{
		store:        store,
		source:       src,
		editor:       membership.NewStoreEditor(store),
		session:      session.NewStatic(cfg.Session.ViewerID, cfg.Session.ViewerHandle),
		tracker:      analytics.Nop{},
		closeTracker: func() {},
	}
	if cfg.Analytics.Enabled {
		t := analytics.NewLogTrackerWithBuffer(*logging.FromContext(ctx), cfg.Analytics.Buffer)
		a.tracker, a.closeTracker = t, t.Close
	}
	return a, nil
}

func openCache(cfg *config.Config) (*cache.FileStore, error) {
	if !cfg.Cache.Enabled {
		return cache.NewFileStore("", false, 0, 0)
	}
	ttl, err := cache.TTLFromSeconds(cfg.Cache.TTLSeconds)
	if err != nil {
		return nil, err
	}
	store, err := cache.NewFileStore(cfg.Cache.Directory, true, ttl, cfg.Cache.MaxSizeMB)
	if err != nil {
		return nil, fmt.Errorf("opening page cache: %w", err)
	}
	return store, nil
}

// Close flushes analytics and closes the store.
func (a *app) Close() error {
	a.closeTracker()
	return a.store.Close()
}

// contextLogger returns the command logger, or a no-op logger.
func contextLogger(ctx context.Context) zerolog.Logger {
	if l := logging.FromContext(ctx); l != nil {
		return *l
	}
	return zerolog.Nop()
}

var errNoListURI = errors.New("list URI is required")
