package tui

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/listmembers/internal/domain"
	"github.com/rshade/listmembers/internal/rows"
)

func ownerContext() RenderContext {
	return RenderContext{
		Viewer: &domain.Viewer{ID: ownerID},
		List:   &domain.ListIdentity{URI: testListURI, CreatorID: ownerID},
		Width:  80,
	}
}

func TestDefaultRenderer_StatusRows(t *testing.T) {
	r := DefaultRenderer{}
	rc := RenderContext{Width: 80, Spinner: "*", LastError: errors.New("boom")}

	tests := []struct {
		row  rows.Row
		want []string
	}{
		{rows.Loading, []string{"*", TextLoading}},
		{rows.Empty, []string{TextEmpty, hintRetry}},
		{rows.Error, []string{TextError, "boom"}},
		{rows.LoadMoreError, []string{TextLoadMoreError}},
	}
	for _, tt := range tests {
		t.Run(tt.row.Kind.String(), func(t *testing.T) {
			out := r.RenderRow(rc, tt.row)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestDefaultRenderer_ProfileCard(t *testing.T) {
	r := DefaultRenderer{}
	m := domain.Member{ID: "did:plc:a", Handle: "alice.test", DisplayName: "Alice", Description: "First line\nsecond", EditEligible: true}

	out := r.RenderRow(ownerContext(), rows.Data(m))
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "@alice.test")
	assert.Contains(t, out, "First line")
	assert.NotContains(t, out, "second")
	assert.Contains(t, out, TextEditAction)

	t.Run("not eligible", func(t *testing.T) {
		m := m
		m.EditEligible = false
		assert.NotContains(t, r.RenderRow(ownerContext(), rows.Data(m)), TextEditAction)
	})

	t.Run("not owner", func(t *testing.T) {
		rc := ownerContext()
		rc.Viewer = &domain.Viewer{ID: "did:plc:other"}
		assert.NotContains(t, r.RenderRow(rc, rows.Data(m)), TextEditAction)
	})

	t.Run("selected", func(t *testing.T) {
		rc := ownerContext()
		rc.Selected = true
		assert.Contains(t, r.RenderRow(rc, rows.Data(m)), cursorMark)
	})
}

func TestDefaultRenderer_Override(t *testing.T) {
	r := DefaultRenderer{Overrides: map[rows.Kind]RowRenderer{
		rows.KindEmpty: RowRendererFunc(func(RenderContext, rows.Row) string { return "nothing here" }),
	}}
	assert.Equal(t, "nothing here", r.RenderRow(RenderContext{}, rows.Empty))
	assert.Contains(t, r.RenderRow(RenderContext{}, rows.LoadMoreError), TextLoadMoreError)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd"+ellipsis, truncate("abcdefgh", 5))
}

func TestPlainRenderer(t *testing.T) {
	r := PlainRenderer{}
	m := domain.Member{Handle: "bob.test", DisplayName: "Bob", Description: "hi", EditEligible: true}

	assert.Equal(t, "Bob @bob.test · hi  "+TextEditAction, r.RenderRow(ownerContext(), rows.Data(m)))
	assert.Equal(t, "Bob @bob.test · hi", r.RenderRow(RenderContext{}, rows.Data(m)))
	assert.Equal(t, TextError+" (x)", r.RenderRow(RenderContext{LastError: errors.New("x")}, rows.Error))
	assert.Equal(t, TextEmpty, r.RenderRow(RenderContext{}, rows.Empty))
}

func TestHelpLine(t *testing.T) {
	k := DefaultKeyMap()
	assert.Equal(t, "R refresh · q quit", helpLine(k.Refresh, k.Quit))
}

func TestDetectOutputMode(t *testing.T) {
	assert.Equal(t, OutputModePlain, DetectOutputMode(true, os.Stdout))
	assert.Equal(t, OutputModePlain, DetectOutputMode(false, nil))

	f, err := os.CreateTemp(t.TempDir(), "out")
	if assert.NoError(t, err) {
		defer f.Close()
		assert.Equal(t, OutputModePlain, DetectOutputMode(false, f))
		assert.Equal(t, 72, TerminalWidth(f, 72))
	}
	assert.Equal(t, "plain", OutputModePlain.String())
}
