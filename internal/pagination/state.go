package pagination

// FetchKind distinguishes the fetches a Query can have in flight.
type FetchKind int

const (
	// KindInitial is the first fetch of page one.
	KindInitial FetchKind = iota
	// KindRefresh re-fetches page one and replaces loaded pages.
	KindRefresh
	// KindNextPage fetches the page after the last loaded one.
	KindNextPage

	numFetchKinds = 3
)

// String returns the kind name used in logs.
func (k FetchKind) String() string {
	switch k {
	case KindInitial:
		return "initial"
	case KindRefresh:
		return "refresh"
	case KindNextPage:
		return "next_page"
	default:
		return "unknown"
	}
}

// Phase is the lifecycle position of one fetch kind.
type Phase int

const (
	// PhaseIdle means no fetch of this kind has been issued, or it was abandoned.
	PhaseIdle Phase = iota
	// PhaseFetching means a fetch of this kind is in flight.
	PhaseFetching
	// PhaseSettled means the last fetch of this kind completed.
	PhaseSettled
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFetching:
		return "fetching"
	case PhaseSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Operation names recorded in logs and settle messages.
const (
	OpInitialFetch  = "initial_fetch"
	OpRefresh       = "refresh"
	OpLoadMore      = "load_more"
	OpRetryLoadMore = "retry_load_more"
)

// FetchState is the snapshot consumed by the row classifier and renderers.
type FetchState struct {
	// IsFetching is true while any fetch is in flight.
	IsFetching bool

	// IsFetched is true once at least one fetch attempt has completed.
	IsFetched bool

	// IsError is true when the last relevant fetch ended in error.
	IsError bool

	// LastError is the most recent fetch error, including silent refresh errors.
	LastError error

	// HasNextPage is true when the last loaded page carries a cursor.
	HasNextPage bool

	// IsRefreshing is the transient pull-to-refresh indicator.
	IsRefreshing bool
}
