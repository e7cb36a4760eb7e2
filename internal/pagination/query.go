package pagination

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/listmembers/internal/domain"
	"github.com/rshade/listmembers/internal/rows"
)

// ErrNilFetcher is returned by fetch commands when the Query has no data source.
var ErrNilFetcher = errors.New("page fetcher is nil")

// PageFetcher fetches one page of a single list. An empty cursor means page one.
type PageFetcher interface {
	FetchPage(ctx context.Context, cursor string) (domain.Page, error)
}

// Invalidator is implemented by fetchers that cache pages. Refresh calls it
// before fetching so page one comes from the source.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc func(ctx context.Context, cursor string) (domain.Page, error)

// FetchPage implements PageFetcher.
func (f PageFetcherFunc) FetchPage(ctx context.Context, cursor string) (domain.Page, error) {
	return f(ctx, cursor)
}

// FetchSettledMsg is returned by fetch commands when the data source call completes.
type FetchSettledMsg struct {
	Kind       FetchKind
	Operation  string
	Token      uint64
	Generation uint64
	Page       domain.Page
	Err        error
}

// Query holds loaded pages and the per-kind fetch state machine.
//
// Each issued fetch gets a monotonically increasing token. Only the response
// carrying the current token for its kind, in the current generation, is
// applied; anything else is stale. A refresh starts a new generation and
// abandons any in-flight next-page fetch.
type Query struct {
	fetcher PageFetcher

	pages []domain.Page

	phases   [numFetchKinds]Phase
	inflight [numFetchKinds]uint64

	seq        uint64
	generation uint64

	fetched bool
	isError bool
	lastErr error
}

// NewQuery creates a Query over fetcher.
func NewQuery(fetcher PageFetcher) *Query {
	return &Query{fetcher: fetcher}
}

// Phase returns the phase of the given fetch kind.
func (q *Query) Phase(kind FetchKind) Phase {
	return q.phases[kind]
}

// IsFetching reports whether any fetch is in flight.
func (q *Query) IsFetching() bool {
	for _, p := range q.phases {
		if p == PhaseFetching {
			return true
		}
	}
	return false
}

// HasNextPage reports whether the last loaded page carries a cursor.
func (q *Query) HasNextPage() bool {
	if len(q.pages) == 0 {
		return false
	}
	return q.pages[len(q.pages)-1].HasNext()
}

// Pages returns a copy of the loaded pages in fetch order.
func (q *Query) Pages() []domain.Page {
	out := make([]domain.Page, len(q.pages))
	copy(out, q.pages)
	return out
}

// State returns the current fetch state snapshot.
func (q *Query) State() FetchState {
	return FetchState{
		IsFetching:  q.IsFetching(),
		IsFetched:   q.fetched,
		IsError:     q.isError,
		LastError:   q.lastErr,
		HasNextPage: q.HasNextPage(),
	}
}

// RowsInput returns the classifier input for the current state.
func (q *Query) RowsInput() rows.Input {
	return rows.Input{
		IsFetched:  q.fetched,
		IsFetching: q.IsFetching(),
		IsError:    q.isError,
		Pages:      q.pages,
	}
}

// List returns the list metadata from page one, or nil before it loads.
func (q *Query) List() *domain.ListIdentity {
	if len(q.pages) == 0 {
		return nil
	}
	list := q.pages[0].List
	return &list
}

// hasData reports whether page one is loaded and non-empty.
func (q *Query) hasData() bool {
	return len(q.pages) > 0 && len(q.pages[0].Members) > 0
}

// nextCursor returns the cursor of the last loaded page.
func (q *Query) nextCursor() string {
	if len(q.pages) == 0 {
		return ""
	}
	return q.pages[len(q.pages)-1].NextCursor
}

// begin moves kind into PhaseFetching and returns a command that runs the fetch.
func (q *Query) begin(ctx context.Context, kind FetchKind, op string) tea.Cmd {
	if kind == KindRefresh {
		q.generation++
		q.abandon(KindNextPage)
	}

	q.seq++
	token := q.seq
	q.phases[kind] = PhaseFetching
	q.inflight[kind] = token

	cursor := ""
	if kind == KindNextPage {
		cursor = q.nextCursor()
	}

	// Capture values before the command runs off the event loop.
	fetcher := q.fetcher
	generation := q.generation

	return func() tea.Msg {
		msg := FetchSettledMsg{
			Kind:       kind,
			Operation:  op,
			Token:      token,
			Generation: generation,
		}
		if fetcher == nil {
			msg.Err = ErrNilFetcher
			return msg
		}
		if kind == KindRefresh {
			if inv, ok := fetcher.(Invalidator); ok {
				if err := inv.Invalidate(ctx); err != nil {
					msg.Err = err
					return msg
				}
			}
		}
		msg.Page, msg.Err = fetcher.FetchPage(ctx, cursor)
		return msg
	}
}

// abandon drops the in-flight fetch of kind; its response will be stale.
func (q *Query) abandon(kind FetchKind) {
	if q.phases[kind] == PhaseFetching {
		q.phases[kind] = PhaseIdle
	}
	q.inflight[kind] = 0
}

// isCurrent reports whether msg answers the fetch currently in flight for its kind.
func (q *Query) isCurrent(msg FetchSettledMsg) bool {
	if msg.Kind < 0 || int(msg.Kind) >= numFetchKinds {
		return false
	}
	return q.phases[msg.Kind] == PhaseFetching &&
		q.inflight[msg.Kind] == msg.Token &&
		q.generation == msg.Generation
}

// Settle applies msg if it is current and reports whether it was applied.
// A failure never clears loaded pages.
func (q *Query) Settle(msg FetchSettledMsg) bool {
	if !q.isCurrent(msg) {
		return false
	}

	q.phases[msg.Kind] = PhaseSettled
	q.inflight[msg.Kind] = 0
	q.fetched = true

	if msg.Err != nil {
		q.lastErr = msg.Err
		switch msg.Kind {
		case KindInitial, KindNextPage:
			q.isError = true
		case KindRefresh:
			if !q.hasData() {
				q.isError = true
			}
		}
		return true
	}

	switch msg.Kind {
	case KindInitial, KindRefresh:
		q.pages = []domain.Page{msg.Page}
		// A next-page fetch in flight followed a cursor from the replaced pages.
		q.abandon(KindNextPage)
	case KindNextPage:
		q.pages = append(q.pages, msg.Page)
	}
	q.isError = false
	q.lastErr = nil
	return true
}
