package rows

import (
	"github.com/rshade/listmembers/internal/domain"
)

// Kind identifies the variant of a Row.
type Kind int

const (
	// KindData is a member row.
	KindData Kind = iota
	// KindLoading is shown while the first fetch is in flight.
	KindLoading
	// KindEmpty is shown when the first page has no members.
	KindEmpty
	// KindError is shown ahead of Empty when the list could not be loaded.
	KindError
	// KindLoadMoreError is appended after member rows when a later fetch failed.
	KindLoadMoreError
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindLoading:
		return "loading"
	case KindEmpty:
		return "empty"
	case KindError:
		return "error"
	case KindLoadMoreError:
		return "load_more_error"
	default:
		return "unknown"
	}
}

// IsStatus reports whether the kind is a status row rather than a member row.
func (k Kind) IsStatus() bool {
	return k != KindData
}

// Row is one renderable entry. Member is only meaningful for KindData.
type Row struct {
	Kind   Kind
	Member domain.Member
}

// Key returns a stable identity for the row, usable as a list key.
func (r Row) Key() string {
	if r.Kind == KindData {
		return r.Member.ID
	}
	return "__" + r.Kind.String() + "__"
}

// Status rows.
var (
	Loading       = Row{Kind: KindLoading}
	Empty         = Row{Kind: KindEmpty}
	Error         = Row{Kind: KindError}
	LoadMoreError = Row{Kind: KindLoadMoreError}
)

// Data wraps a member in a data row.
func Data(m domain.Member) Row {
	return Row{Kind: KindData, Member: m}
}

// Input is the fetch state the classifier derives rows from.
type Input struct {
	// IsFetched is true once at least one fetch attempt has completed.
	IsFetched bool

	// IsFetching is true while any fetch is in flight.
	IsFetching bool

	// IsError is true when the last fetch ended in error.
	IsError bool

	// Pages are the loaded pages in fetch order.
	Pages []domain.Page
}

// IsEmpty reports whether the input represents a settled list whose first
// page has no members. A missing first page counts as zero members.
func (in Input) IsEmpty() bool {
	if in.IsFetching {
		return false
	}
	if len(in.Pages) == 0 {
		return true
	}
	return len(in.Pages[0].Members) == 0
}

// Classify returns the rows to render for the given fetch state.
func Classify(in Input) []Row {
	if !in.IsFetched {
		if in.IsFetching {
			return []Row{Loading}
		}
		return []Row{}
	}

	isEmpty := in.IsEmpty()
	out := make([]Row, 0, memberCount(in.Pages)+2) //nolint:mnd // Room for two status rows.

	if isEmpty && in.IsError {
		out = append(out, Error)
	}

	if isEmpty {
		out = append(out, Empty)
	} else {
		for _, page := range in.Pages {
			for _, m := range page.Members {
				out = append(out, Data(m))
			}
		}
	}

	if !isEmpty && in.IsError {
		out = append(out, LoadMoreError)
	}

	return out
}

// Members returns the member rows only, in order.
func Members(rs []Row) []domain.Member {
	out := make([]domain.Member, 0, len(rs))
	for _, r := range rs {
		if r.Kind == KindData {
			out = append(out, r.Member)
		}
	}
	return out
}

func memberCount(pages []domain.Page) int {
	n := 0
	for _, p := range pages {
		n += len(p.Members)
	}
	return n
}
