package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheEntry(t *testing.T) {
	entry := NewCacheEntry("k", json.RawMessage(`{"n":1}`), time.Minute)
	assert.False(t, entry.IsExpired())
	assert.LessOrEqual(t, entry.Age(), time.Second)

	var v struct{ N int }
	require.NoError(t, entry.Decode(&v))
	assert.Equal(t, 1, v.N)

	entry.ExpiresAt = time.Now().Add(-time.Second)
	assert.True(t, entry.IsExpired())
}

func TestPageKey(t *testing.T) {
	a := PageKey("at://list/1", "", 50)
	assert.Equal(t, a, PageKey("at://list/1", "", 50))
	assert.NotEqual(t, a, PageKey("at://list/1", "50", 50))
	assert.NotEqual(t, a, PageKey("at://list/1", "", 25))
	assert.NotEqual(t, a, PageKey("at://list/2", "", 50))
	assert.True(t, len(a) > len(ListPrefix("at://list/1")))
	assert.Equal(t, ListPrefix("at://list/1"), a[:listPrefixLen])
}

func newStore(t *testing.T, ttl time.Duration) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "pages"), true, ttl, 0)
	require.NoError(t, err)
	return s
}

func TestFileStore(t *testing.T) {
	s := newStore(t, time.Minute)

	t.Run("miss", func(t *testing.T) {
		_, err := s.Get("absent")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, s.Set("k1", json.RawMessage(`"one"`)))
		entry, err := s.Get("k1")
		require.NoError(t, err)
		assert.JSONEq(t, `"one"`, string(entry.Data))
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Set("k1", json.RawMessage(`"two"`)))
		entry, err := s.Get("k1")
		require.NoError(t, err)
		assert.JSONEq(t, `"two"`, string(entry.Data))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.Delete("k1"))
		require.NoError(t, s.Delete("k1"))
		_, err := s.Get("k1")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty key", func(t *testing.T) {
		require.ErrorIs(t, s.Set("", nil), ErrInvalidKey)
		_, err := s.Get("")
		require.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("unsafe characters", func(t *testing.T) {
		require.NoError(t, s.Set("a/b:c", json.RawMessage(`1`)))
		_, err := s.Get("a/b:c")
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(s.Dir(), "a_b_c.json"))
		require.NoError(t, err)
	})
}

func TestFileStore_DeletePrefix(t *testing.T) {
	s := newStore(t, time.Minute)
	for _, cursor := range []string{"", "50", "100"} {
		require.NoError(t, s.Set(PageKey("list-a", cursor, 50), json.RawMessage(`{}`)))
	}
	require.NoError(t, s.Set(PageKey("list-b", "", 50), json.RawMessage(`{}`)))

	n, err := s.DeletePrefix(ListPrefix("list-a"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = s.Get(PageKey("list-b", "", 50))
	require.NoError(t, err)
}

func TestFileStore_Expiry(t *testing.T) {
	s := newStore(t, time.Millisecond)
	require.NoError(t, s.Set("k", json.RawMessage(`1`)))
	require.NoError(t, s.Set("k2", json.RawMessage(`2`)))
	time.Sleep(5 * time.Millisecond)

	_, err := s.Get("k")
	require.ErrorIs(t, err, ErrExpired)

	n, err := s.CleanupExpired()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFileStore_ClearAndSize(t *testing.T) {
	s := newStore(t, time.Minute)
	require.NoError(t, s.Set("a", json.RawMessage(`"aaaa"`)))
	require.NoError(t, s.Set("b", json.RawMessage(`"bbbb"`)))

	size, err := s.Size()
	require.NoError(t, err)
	assert.Positive(t, size)

	n, err := s.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	size, err = s.Size()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestFileStore_Disabled(t *testing.T) {
	s, err := NewFileStore("", false, time.Minute, 0)
	require.NoError(t, err)
	assert.False(t, s.Enabled())

	require.ErrorIs(t, s.Set("k", nil), ErrDisabled)
	_, err = s.Get("k")
	require.ErrorIs(t, err, ErrDisabled)
	_, err = s.Clear()
	require.ErrorIs(t, err, ErrDisabled)
	_, err = s.DeletePrefix("x")
	require.ErrorIs(t, err, ErrDisabled)
}

func TestNewFileStore_RequiresDir(t *testing.T) {
	_, err := NewFileStore("", true, time.Minute, 0)
	require.ErrorIs(t, err, ErrNoDir)
}

func TestParseTTL(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"300", 5 * time.Minute, false},
		{"90s", 90 * time.Second, false},
		{"2h", 2 * time.Hour, false},
		{"0", 0, true},
		{"48h", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTTL(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTTLFromSeconds(t *testing.T) {
	d, err := TTLFromSeconds(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTLSeconds*time.Second, d)

	_, err = TTLFromSeconds(-5)
	require.ErrorIs(t, err, ErrInvalidTTL)
}
