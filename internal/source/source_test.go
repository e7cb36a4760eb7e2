package source

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/listmembers/internal/domain"
	"github.com/rshade/listmembers/internal/source/cache"
)

const listURI = "at://did:plc:owner/app.bsky.graph.list/1"

func memoryWith(n int) *Memory {
	m := NewMemory()
	members := make([]domain.Member, n)
	for i := range members {
		members[i] = domain.Member{ID: fmt.Sprintf("did:plc:%d", i), Handle: fmt.Sprintf("u%d.test", i)}
	}
	m.Put(domain.ListIdentity{URI: listURI, Name: "One", CreatorID: "did:plc:owner"}, members)
	return m
}

func TestMemory_FetchPage(t *testing.T) {
	m := memoryWith(5)
	ctx := context.Background()

	p1, err := m.FetchPage(ctx, listURI, "", 2)
	require.NoError(t, err)
	assert.Len(t, p1.Members, 2)
	assert.Equal(t, "2", p1.NextCursor)

	p3, err := m.FetchPage(ctx, listURI, "4", 2)
	require.NoError(t, err)
	assert.Len(t, p3.Members, 1)
	assert.False(t, p3.HasNext())

	_, err = m.FetchPage(ctx, listURI, "-1", 2)
	require.ErrorIs(t, err, ErrInvalidCursor)

	_, err = m.FetchPage(ctx, "at://nope", "", 2)
	require.ErrorIs(t, err, ErrListNotFound)
}

func TestMemory_RemoveMember(t *testing.T) {
	m := memoryWith(3)
	ctx := context.Background()

	ok, err := m.RemoveMember(ctx, listURI, "did:plc:1")
	require.NoError(t, err)
	assert.True(t, ok)

	page, err := m.FetchPage(ctx, listURI, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Members, 2)
	assert.Equal(t, "did:plc:2", page.Members[1].ID)

	ok, err = m.RemoveMember(ctx, listURI, "did:plc:1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFlaky(t *testing.T) {
	f := NewFlaky(memoryWith(3), 2)
	ctx := context.Background()

	_, err := f.FetchPage(ctx, listURI, "", 1)
	require.NoError(t, err)
	_, err = f.FetchPage(ctx, listURI, "1", 1)
	require.ErrorIs(t, err, ErrInjected)
	_, err = f.FetchPage(ctx, listURI, "1", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Calls())

	f.FailEvery(2)
	_, err = f.FetchPage(ctx, listURI, "", 1)
	require.ErrorIs(t, err, ErrInjected)
}

func TestBind(t *testing.T) {
	b := Bind(memoryWith(4), listURI, 3)
	assert.Equal(t, listURI, b.ListURI())

	page, err := b.FetchPage(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, page.Members, 3)

	require.NoError(t, b.Invalidate(context.Background()))
}

type countingSource struct {
	src   ListSource
	calls atomic.Int32
	delay time.Duration
}

func (c *countingSource) FetchPage(ctx context.Context, listURI, cursor string, limit int) (domain.Page, error) {
	c.calls.Add(1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	return c.src.FetchPage(ctx, listURI, cursor, limit)
}

func newFileStore(t *testing.T) *cache.FileStore {
	t.Helper()
	s, err := cache.NewFileStore(filepath.Join(t.TempDir(), "cache"), true, time.Minute, 0)
	require.NoError(t, err)
	return s
}

func TestCaching_HitAndInvalidate(t *testing.T) {
	mem := memoryWith(4)
	counting := &countingSource{src: mem}
	c := NewCaching(counting, newFileStore(t), zerolog.Nop())
	b := Bind(c, listURI, 2)
	ctx := context.Background()

	first, err := b.FetchPage(ctx, "")
	require.NoError(t, err)
	second, err := b.FetchPage(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), counting.calls.Load())

	_, err = mem.RemoveMember(ctx, listURI, "did:plc:0")
	require.NoError(t, err)
	require.NoError(t, b.Invalidate(ctx))

	fresh, err := b.FetchPage(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int32(2), counting.calls.Load())
	assert.Equal(t, "did:plc:1", fresh.Members[0].ID)
}

func TestCaching_ErrorsNotCached(t *testing.T) {
	flaky := NewFlaky(memoryWith(2), 1)
	c := NewCaching(flaky, newFileStore(t), zerolog.Nop())
	ctx := context.Background()

	_, err := c.FetchPage(ctx, listURI, "", 10)
	require.ErrorIs(t, err, ErrInjected)

	page, err := c.FetchPage(ctx, listURI, "", 10)
	require.NoError(t, err)
	assert.Len(t, page.Members, 2)
	assert.Equal(t, 2, flaky.Calls())
}

func TestCaching_SharesInFlightFetch(t *testing.T) {
	counting := &countingSource{src: memoryWith(2), delay: 50 * time.Millisecond}
	c := NewCaching(counting, newFileStore(t), zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.FetchPage(context.Background(), listURI, "", 10)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, counting.calls.Load(), int32(2))
}

func TestCaching_DisabledPassesThrough(t *testing.T) {
	store, err := cache.NewFileStore("", false, time.Minute, 0)
	require.NoError(t, err)
	counting := &countingSource{src: memoryWith(1)}
	c := NewCaching(counting, store, zerolog.Nop())

	for i := 0; i < 2; i++ {
		_, err = c.FetchPage(context.Background(), listURI, "", 10)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), counting.calls.Load())
	require.NoError(t, c.InvalidateList(context.Background(), listURI))
}
