package source

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/rshade/listmembers/internal/domain"
)

// Source errors.
var (
	ErrListNotFound  = errors.New("list not found")
	ErrInvalidCursor = errors.New("invalid cursor")
	ErrInjected      = errors.New("injected fetch failure")
)

// ListSource serves pages of list members.
type ListSource interface {
	FetchPage(ctx context.Context, listURI, cursor string, limit int) (domain.Page, error)
}

// Bound is a ListSource narrowed to one list and page size.
type Bound struct {
	src     ListSource
	listURI string
	limit   int
}

// Bind narrows src to listURI with the given page size.
func Bind(src ListSource, listURI string, limit int) *Bound {
	return &Bound{src: src, listURI: listURI, limit: limit}
}

// FetchPage fetches the page at cursor.
func (b *Bound) FetchPage(ctx context.Context, cursor string) (domain.Page, error) {
	return b.src.FetchPage(ctx, b.listURI, cursor, b.limit)
}

// Invalidate drops cached pages for the bound list when the source caches.
func (b *Bound) Invalidate(ctx context.Context) error {
	if c, ok := b.src.(interface {
		InvalidateList(ctx context.Context, listURI string) error
	}); ok {
		return c.InvalidateList(ctx, b.listURI)
	}
	return nil
}

// ListURI returns the bound list.
func (b *Bound) ListURI() string {
	return b.listURI
}

// Memory serves lists held in memory. Cursors are decimal offsets.
type Memory struct {
	mu      sync.RWMutex
	lists   map[string]domain.ListIdentity
	members map[string][]domain.Member
}

// NewMemory creates an empty Memory source.
func NewMemory() *Memory {
	return &Memory{
		lists:   make(map[string]domain.ListIdentity),
		members: make(map[string][]domain.Member),
	}
}

// Put stores a list and its members, replacing any previous contents.
func (m *Memory) Put(list domain.ListIdentity, members []domain.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[list.URI] = list
	cp := make([]domain.Member, len(members))
	copy(cp, members)
	m.members[list.URI] = cp
}

// RemoveMember removes memberID from listURI.
func (m *Memory) RemoveMember(_ context.Context, listURI, memberID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[listURI]; !ok {
		return false, fmt.Errorf("%w: %s", ErrListNotFound, listURI)
	}
	members := m.members[listURI]
	for i, mem := range members {
		if mem.ID == memberID {
			m.members[listURI] = append(members[:i:i], members[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// FetchPage implements ListSource.
func (m *Memory) FetchPage(ctx context.Context, listURI, cursor string, limit int) (domain.Page, error) {
	if err := ctx.Err(); err != nil {
		return domain.Page{}, err
	}
	if limit <= 0 {
		return domain.Page{}, errors.New("page size must be greater than zero")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	list, ok := m.lists[listURI]
	if !ok {
		return domain.Page{}, fmt.Errorf("%w: %s", ErrListNotFound, listURI)
	}

	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 0 {
			return domain.Page{}, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
		}
		start = n
	}

	all := m.members[listURI]
	if start > len(all) {
		start = len(all)
	}
	end := min(start+limit, len(all))

	page := domain.Page{
		List:    list,
		Members: make([]domain.Member, end-start),
	}
	copy(page.Members, all[start:end])
	if end < len(all) {
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}

// Flaky wraps a ListSource and fails selected calls.
type Flaky struct {
	src ListSource

	mu     sync.Mutex
	calls  int
	failOn map[int]bool
	every  int
}

// NewFlaky wraps src. failOn lists 1-based call numbers that fail.
func NewFlaky(src ListSource, failOn ...int) *Flaky {
	f := &Flaky{src: src, failOn: make(map[int]bool, len(failOn))}
	for _, n := range failOn {
		f.failOn[n] = true
	}
	return f
}

// FailEvery makes every nth call fail. Zero disables it.
func (f *Flaky) FailEvery(n int) *Flaky {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.every = n
	return f
}

// Calls returns how many FetchPage calls were made.
func (f *Flaky) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// FetchPage implements ListSource.
func (f *Flaky) FetchPage(ctx context.Context, listURI, cursor string, limit int) (domain.Page, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	fail := f.failOn[n] || (f.every > 0 && n%f.every == 0)
	f.mu.Unlock()

	if fail {
		return domain.Page{}, fmt.Errorf("%w (call %d)", ErrInjected, n)
	}
	return f.src.FetchPage(ctx, listURI, cursor, limit)
}
