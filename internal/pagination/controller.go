package pagination

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rshade/listmembers/internal/domain"
	"github.com/rshade/listmembers/internal/logging"
	"github.com/rshade/listmembers/internal/rows"
)

// Reasons recorded when LoadMore declines to fetch.
const (
	skipFetching   = "fetch_in_flight"
	skipNoNextPage = "no_next_page"
	skipLastError  = "last_fetch_failed"

	skipPageOneFetching = "page_one_in_flight"
)

// Controller turns user intents into guarded fetches against a Query.
type Controller struct {
	ctx     context.Context
	query   *Query
	logger  zerolog.Logger
	listURI string

	fullRetry func() tea.Cmd

	refreshing bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for fetch failures and skipped intents.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logging.ComponentLogger(l, "pagination")
	}
}

// WithListURI tags log lines with the list being paged.
func WithListURI(uri string) Option {
	return func(c *Controller) {
		c.listURI = uri
	}
}

// WithFullRetry sets the collaborator RetryFromEmpty delegates to.
func WithFullRetry(fn func() tea.Cmd) Option {
	return func(c *Controller) {
		c.fullRetry = fn
	}
}

// NewController creates a Controller over fetcher. ctx is passed to every
// data-source call; timeouts belong to the data source.
func NewController(ctx context.Context, fetcher PageFetcher, opts ...Option) *Controller {
	c := &Controller{
		ctx:    ctx,
		query:  NewQuery(fetcher),
		logger: logging.ComponentLogger(*logging.FromContext(ctx), "pagination"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the fetch state including the refreshing flag.
func (c *Controller) State() FetchState {
	s := c.query.State()
	s.IsRefreshing = c.refreshing
	return s
}

// Rows returns the classified rows for the current state.
func (c *Controller) Rows() []rows.Row {
	return rows.Classify(c.query.RowsInput())
}

// Pages returns a copy of the loaded pages.
func (c *Controller) Pages() []domain.Page {
	return c.query.Pages()
}

// List returns page-one list metadata, or nil before it loads.
func (c *Controller) List() *domain.ListIdentity {
	return c.query.List()
}

// Summary returns load counts for status display.
func (c *Controller) Summary() Summary {
	return NewSummary(c.query.Pages(), c.State())
}

// Phase exposes the state machine phase for one fetch kind.
func (c *Controller) Phase(kind FetchKind) Phase {
	return c.query.Phase(kind)
}

// Start issues the initial fetch. It is a no-op once a fetch has completed or
// while one is in flight.
func (c *Controller) Start() tea.Cmd {
	if c.query.fetched || c.query.IsFetching() {
		return nil
	}
	return c.query.begin(c.ctx, KindInitial, OpInitialFetch)
}

// Refresh re-fetches page one. Loaded pages stay visible until it settles.
// A refresh while the first fetch or another refresh is in flight is a no-op;
// an in-flight load-more is abandoned and its response discarded.
func (c *Controller) Refresh() tea.Cmd {
	if c.query.Phase(KindInitial) == PhaseFetching || c.query.Phase(KindRefresh) == PhaseFetching {
		c.logger.Debug().Ctx(c.ctx).
			Str(logging.FieldOperation, OpRefresh).
			Str(logging.FieldListURI, c.listURI).
			Msg("refresh already in flight")
		return nil
	}
	c.refreshing = true
	return c.query.begin(c.ctx, KindRefresh, OpRefresh)
}

// LoadMore fetches the next page unless a fetch is in flight, there is no
// next page, or the last fetch failed.
func (c *Controller) LoadMore() tea.Cmd {
	if reason := c.loadMoreBlocked(); reason != "" {
		c.logger.Debug().Ctx(c.ctx).
			Str(logging.FieldOperation, OpLoadMore).
			Str(logging.FieldListURI, c.listURI).
			Str("reason", reason).
			Msg("load more skipped")
		return nil
	}
	return c.query.begin(c.ctx, KindNextPage, OpLoadMore)
}

func (c *Controller) loadMoreBlocked() string {
	switch {
	case c.query.IsFetching():
		return skipFetching
	case !c.query.HasNextPage():
		return skipNoNextPage
	case c.query.isError:
		return skipLastError
	default:
		return ""
	}
}

// RetryLoadMore re-issues the next-page fetch regardless of the error flag.
// With nothing loaded yet it re-issues the first fetch instead. It is a no-op
// while page one is being fetched, since the result would follow a cursor the
// new page one replaces, and when the last page has no cursor.
func (c *Controller) RetryLoadMore() tea.Cmd {
	if len(c.query.pages) == 0 {
		return c.query.begin(c.ctx, KindInitial, OpRetryLoadMore)
	}
	if reason := c.retryBlocked(); reason != "" {
		c.logger.Debug().Ctx(c.ctx).
			Str(logging.FieldOperation, OpRetryLoadMore).
			Str(logging.FieldListURI, c.listURI).
			Str("reason", reason).
			Msg("retry load more skipped")
		return nil
	}
	return c.query.begin(c.ctx, KindNextPage, OpRetryLoadMore)
}

func (c *Controller) retryBlocked() string {
	switch {
	case c.query.Phase(KindInitial) == PhaseFetching || c.query.Phase(KindRefresh) == PhaseFetching:
		return skipPageOneFetching
	case !c.query.HasNextPage():
		return skipNoNextPage
	default:
		return ""
	}
}

// RetryFromEmpty delegates to the full-retry collaborator, if one was supplied.
func (c *Controller) RetryFromEmpty() tea.Cmd {
	if c.fullRetry == nil {
		c.logger.Debug().Ctx(c.ctx).
			Str(logging.FieldListURI, c.listURI).
			Msg("no full retry configured")
		return nil
	}
	return c.fullRetry()
}

// Update applies a FetchSettledMsg. It reports whether msg was a settle
// message for this controller, whether or not it was current.
func (c *Controller) Update(msg tea.Msg) bool {
	settled, ok := msg.(FetchSettledMsg)
	if !ok {
		return false
	}

	if !c.query.Settle(settled) {
		c.logger.Debug().Ctx(c.ctx).
			Str(logging.FieldOperation, settled.Operation).
			Str(logging.FieldListURI, c.listURI).
			Uint64("token", settled.Token).
			Msg("discarded stale fetch response")
		return true
	}

	if settled.Kind == KindRefresh {
		c.refreshing = false
	}

	if settled.Err != nil {
		c.logger.Error().Ctx(c.ctx).
			Str(logging.FieldOperation, settled.Operation).
			Str(logging.FieldListURI, c.listURI).
			Str("kind", settled.Kind.String()).
			Err(settled.Err).
			Msg("fetch failed")
		return true
	}

	c.logger.Debug().Ctx(c.ctx).
		Str(logging.FieldOperation, settled.Operation).
		Str(logging.FieldListURI, c.listURI).
		Int("members", len(settled.Page.Members)).
		Bool("has_next_page", settled.Page.HasNext()).
		Msg("page loaded")
	return true
}

// Settle runs cmd synchronously and applies its message. The plain renderer
// uses it to drive the controller without a Bubble Tea program.
func (c *Controller) Settle(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	return c.Update(cmd())
}
