package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/rshade/listmembers/internal/rows"
)

const refreshingLabel = "refreshing"

// View renders the model (Bubble Tea interface).
func (m MembersModel) View() string {
	if m.state == ViewStateQuitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.state == ViewStateDetail {
		b.WriteString(m.detailText)
		b.WriteString("\n")
		b.WriteString(SubtleStyle.Render(helpLine(m.detailKeys()...)))
		return b.String()
	}

	m.list.SetRenderFunc(func(row rows.Row, selected bool) string {
		return m.renderRow(m.renderContext(selected), row)
	})
	b.WriteString(m.list.View())
	b.WriteString("\n\n")

	if m.footer != "" {
		b.WriteString(m.footer)
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render(helpLine(m.listKeys()...)))
	return b.String()
}

// renderRow routes a row to the custom renderer, if any.
func (m MembersModel) renderRow(rc RenderContext, row rows.Row) string {
	if m.custom != nil {
		return m.custom.RenderRow(rc, row)
	}
	return m.renderer.RenderRow(rc, row)
}

func (m MembersModel) renderHeader() string {
	if m.header != "" {
		return m.header
	}
	list := m.ctrl.List()
	if list == nil {
		return HeaderStyle.Render("List members")
	}
	title := HeaderStyle.Render(list.Name)
	if list.CreatorHandle != "" {
		title += SubtleStyle.Render(" by @" + list.CreatorHandle)
	}
	if m.ctrl.State().IsRefreshing {
		title += " " + m.loading.Frame() + SubtleStyle.Render(" "+refreshingLabel)
	}
	return title
}

func (m MembersModel) renderStatusLine() string {
	line := InfoStyle.Render(m.ctrl.Summary().String())
	if m.status != "" {
		line += SubtleStyle.Render(" · ") + m.status
	}
	return line
}

// listKeys returns the bindings worth advertising for the current rows.
func (m MembersModel) listKeys() []key.Binding {
	out := []key.Binding{m.keys.Refresh}
	if m.hasStatusRow(rows.KindLoadMoreError, rows.KindError, rows.KindEmpty) {
		out = append(out, m.keys.Retry)
	}
	if row := m.selectedRow(); row != nil && row.Kind == rows.KindData {
		out = append(out, m.keys.Open, m.keys.Copy)
		if m.canEditSelected() {
			out = append(out, m.keys.Edit)
		}
	}
	return append(out, m.keys.Quit)
}

func (m MembersModel) detailKeys() []key.Binding {
	out := []key.Binding{m.keys.Back, m.keys.Copy}
	if m.canEditSelected() {
		out = append(out, m.keys.Edit)
	}
	return append(out, m.keys.Quit)
}

func (m MembersModel) canEditSelected() bool {
	member := m.editMember()
	return member != nil && m.editor != nil &&
		m.renderContext(false).CanEdit() && member.EditEligible
}

func (m MembersModel) hasStatusRow(kinds ...rows.Kind) bool {
	for _, r := range m.rows {
		for _, k := range kinds {
			if r.Kind == k {
				return true
			}
		}
	}
	return false
}
