package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/listmembers/internal/domain"
	"github.com/rshade/listmembers/internal/membership"
	"github.com/rshade/listmembers/internal/rows"
)

// Row texts.
const (
	TextLoading       = "Loading members..."
	TextEmpty         = "This list is empty."
	TextError         = "We're sorry! But something went wrong."
	TextLoadMoreError = "There was an issue fetching more members. Tap to retry."
	TextEditAction    = "[e] edit"

	hintRetry   = "press r to retry"
	cursorMark  = "> "
	noCursor    = "  "
	bioSep      = " · "
	ellipsis    = "…"
	minRowWidth = 20
)

// RenderContext is an immutable snapshot of everything a row renderer may
// consult. It is rebuilt for every render.
type RenderContext struct {
	Viewer    *domain.Viewer
	List      *domain.ListIdentity
	Selected  bool
	Width     int
	Spinner   string
	LastError error
}

// CanEdit reports whether the viewer owns the list.
func (rc RenderContext) CanEdit() bool {
	return membership.CanEditMembership(rc.List, rc.Viewer)
}

// RowRenderer produces the display text for one row.
type RowRenderer interface {
	RenderRow(rc RenderContext, row rows.Row) string
}

// RowRendererFunc adapts a function to RowRenderer.
type RowRendererFunc func(rc RenderContext, row rows.Row) string

// RenderRow implements RowRenderer.
func (f RowRendererFunc) RenderRow(rc RenderContext, row rows.Row) string {
	return f(rc, row)
}

// DefaultRenderer renders rows with the package styles. Overrides replace the
// rendering of individual kinds.
type DefaultRenderer struct {
	Overrides map[rows.Kind]RowRenderer
}

// RenderRow implements RowRenderer.
func (r DefaultRenderer) RenderRow(rc RenderContext, row rows.Row) string {
	if o, ok := r.Overrides[row.Kind]; ok && o != nil {
		return o.RenderRow(rc, row)
	}

	var line string
	switch row.Kind {
	case rows.KindLoading:
		line = rc.Spinner + " " + SubtleStyle.Render(TextLoading)
	case rows.KindEmpty:
		line = SubtleStyle.Render(TextEmpty) + "  " + AffordanceStyle.Render(hintRetry)
	case rows.KindError:
		line = CriticalStyle.Render(TextError)
		if rc.LastError != nil {
			line += " " + SubtleStyle.Render(rc.LastError.Error())
		}
	case rows.KindLoadMoreError:
		line = WarningStyle.Render(TextLoadMoreError)
	case rows.KindData:
		line = renderProfileCard(rc, row.Member)
	}
	return cursor(rc.Selected, line)
}

// renderProfileCard renders "Name @handle · bio  [e] edit" on one line,
// truncating the bio to fit the width.
func renderProfileCard(rc RenderContext, m domain.Member) string {
	nameStyle := lipgloss.NewStyle().Bold(true)
	if rc.Selected {
		nameStyle = SelectedStyle
	}

	head := nameStyle.Render(m.Title())
	if h := m.AtHandle(); h != "" && m.Title() != m.Handle {
		head += " " + HandleStyle.Render(h)
	}

	var tail string
	if membership.ShowEditAffordance(rc.List, rc.Viewer, m) {
		tail = "  " + AffordanceStyle.Render(TextEditAction)
	}

	bio := firstLine(m.Description)
	if bio == "" {
		return head + tail
	}
	room := max(rc.Width, minRowWidth) - len(cursorMark) - lipgloss.Width(head) - lipgloss.Width(tail) - len(bioSep)
	if room <= len(ellipsis) {
		return head + tail
	}
	return head + SubtleStyle.Render(bioSep+truncate(bio, room)) + tail
}

func cursor(selected bool, line string) string {
	if selected {
		return SelectedStyle.Render(cursorMark) + line
	}
	return noCursor + line
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

// truncate shortens s to at most n runes, marking the cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + ellipsis
}

// PlainRenderer renders rows without styling, for non-interactive output.
type PlainRenderer struct{}

// RenderRow implements RowRenderer.
func (PlainRenderer) RenderRow(rc RenderContext, row rows.Row) string {
	switch row.Kind {
	case rows.KindLoading:
		return TextLoading
	case rows.KindEmpty:
		return TextEmpty
	case rows.KindError:
		if rc.LastError != nil {
			return TextError + " (" + rc.LastError.Error() + ")"
		}
		return TextError
	case rows.KindLoadMoreError:
		return TextLoadMoreError
	case rows.KindData:
		m := row.Member
		line := m.Title()
		if h := m.AtHandle(); h != "" && m.Title() != m.Handle {
			line += " " + h
		}
		if bio := firstLine(m.Description); bio != "" {
			line += bioSep + bio
		}
		if membership.ShowEditAffordance(rc.List, rc.Viewer, m) {
			line += "  " + TextEditAction
		}
		return line
	}
	return ""
}
