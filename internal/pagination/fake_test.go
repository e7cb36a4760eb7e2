package pagination

import (
	"context"
	"fmt"
	"sync"

	"github.com/rshade/listmembers/internal/domain"
)

// fakeFetcher serves pages of size pageSize from a fixed member count and
// records every call. failOn makes the call with that 1-based index fail.
type fakeFetcher struct {
	mu       sync.Mutex
	total    int
	pageSize int
	calls    []string
	failOn   map[int]error
	list     domain.ListIdentity
}

func newFakeFetcher(total, pageSize int) *fakeFetcher {
	return &fakeFetcher{
		total:    total,
		pageSize: pageSize,
		failOn:   map[int]error{},
		list:     domain.ListIdentity{URI: "at://did:owner/list/1", Name: "Friends", CreatorID: "did:owner"},
	}
}

func (f *fakeFetcher) FetchPage(_ context.Context, cursor string) (domain.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, cursor)
	if err, ok := f.failOn[len(f.calls)]; ok {
		return domain.Page{}, err
	}

	start := 0
	if cursor != "" {
		if _, err := fmt.Sscanf(cursor, "offset-%d", &start); err != nil {
			return domain.Page{}, fmt.Errorf("bad cursor %q: %w", cursor, err)
		}
	}
	end := min(start+f.pageSize, f.total)

	page := domain.Page{List: f.list, Members: []domain.Member{}}
	for i := start; i < end; i++ {
		page.Members = append(page.Members, domain.Member{
			ID:     fmt.Sprintf("did:m%03d", i),
			Handle: fmt.Sprintf("m%03d.test", i),
		})
	}
	if end < f.total {
		page.NextCursor = fmt.Sprintf("offset-%d", end)
	}
	return page, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// invalidatingFetcher records Invalidate calls.
type invalidatingFetcher struct {
	*fakeFetcher
	invalidations int
	invalidateErr error
}

func (f *invalidatingFetcher) Invalidate(context.Context) error {
	f.invalidations++
	return f.invalidateErr
}
