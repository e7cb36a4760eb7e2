package membership

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/listmembers/internal/domain"
)

func TestCanEditMembership(t *testing.T) {
	list := &domain.ListIdentity{URI: "at://did:owner/list/1", CreatorID: "did:owner"}

	tests := []struct {
		name   string
		list   *domain.ListIdentity
		viewer *domain.Viewer
		want   bool
	}{
		{name: "owner", list: list, viewer: &domain.Viewer{ID: "did:owner"}, want: true},
		{name: "other viewer", list: list, viewer: &domain.Viewer{ID: "did:someone"}},
		{name: "signed out", list: list, viewer: nil},
		{name: "list not loaded", list: nil, viewer: &domain.Viewer{ID: "did:owner"}},
		{name: "blank viewer id", list: &domain.ListIdentity{}, viewer: &domain.Viewer{ID: " "}},
		{name: "empty ids never match", list: &domain.ListIdentity{}, viewer: &domain.Viewer{}},
		{name: "padded viewer id", list: list, viewer: &domain.Viewer{ID: " did:owner "}},
		{
			name:   "padded creator id",
			list:   &domain.ListIdentity{CreatorID: "did:owner "},
			viewer: &domain.Viewer{ID: "did:owner"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanEditMembership(tt.list, tt.viewer))
		})
	}
}

func TestShowEditAffordance(t *testing.T) {
	list := &domain.ListIdentity{CreatorID: "did:owner"}
	owner := &domain.Viewer{ID: "did:owner"}

	assert.True(t, ShowEditAffordance(list, owner, domain.Member{ID: "did:a", EditEligible: true}))
	assert.False(t, ShowEditAffordance(list, owner, domain.Member{ID: "did:a"}))
	assert.False(t, ShowEditAffordance(list, &domain.Viewer{ID: "did:x"}, domain.Member{ID: "did:a", EditEligible: true}))
}

type fakeWriter struct {
	calls   [][2]string
	removed bool
	err     error
}

func (w *fakeWriter) RemoveMember(_ context.Context, listURI, memberID string) (bool, error) {
	w.calls = append(w.calls, [2]string{listURI, memberID})
	return w.removed, w.err
}

func TestStoreEditor_OpenEditMembership(t *testing.T) {
	req := EditRequest{ListURI: "at://did:owner/list/1", MemberID: "did:a", Handle: "a.test"}

	t.Run("removes member", func(t *testing.T) {
		w := &fakeWriter{removed: true}
		res, err := NewStoreEditor(w).OpenEditMembership(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, res.Removed)
		assert.Equal(t, [][2]string{{req.ListURI, req.MemberID}}, w.calls)
	})

	t.Run("wraps writer error", func(t *testing.T) {
		boom := errors.New("locked")
		_, err := NewStoreEditor(&fakeWriter{err: boom}).OpenEditMembership(context.Background(), req)

		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("validates request", func(t *testing.T) {
		w := &fakeWriter{}
		_, err := NewStoreEditor(w).OpenEditMembership(context.Background(), EditRequest{ListURI: "x"})

		assert.ErrorIs(t, err, ErrMissingMember)
		assert.Empty(t, w.calls)

		_, err = NewStoreEditor(w).OpenEditMembership(context.Background(), EditRequest{MemberID: "x"})
		assert.ErrorIs(t, err, ErrMissingList)
	})

	t.Run("no writer", func(t *testing.T) {
		_, err := NewStoreEditor(nil).OpenEditMembership(context.Background(), req)

		assert.ErrorIs(t, err, ErrNoWriter)
	})
}
