package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// defaultBufferSize is the number of extra rows rendered around the viewport.
const defaultBufferSize = 2

const halfViewportDivisor = 2

// RenderFunc renders one item. selected reports whether it has the cursor.
type RenderFunc[T any] func(item T, selected bool) string

// VirtualListModel is a cursor over items with a scrolling window.
type VirtualListModel[T any] struct {
	items      []T
	renderFunc RenderFunc[T]

	selected    int
	visibleFrom int
	visibleTo   int

	height     int
	width      int
	bufferSize int
}

// NewVirtualListModel creates a list showing height rows.
func NewVirtualListModel[T any](items []T, height, width int, renderFunc RenderFunc[T]) *VirtualListModel[T] {
	m := &VirtualListModel[T]{
		items:      items,
		renderFunc: renderFunc,
		height:     height,
		width:      width,
		bufferSize: defaultBufferSize,
	}
	m.updateVisibleRange()
	return m
}

// Init implements tea.Model.
func (m *VirtualListModel[T]) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys and resizes.
func (m *VirtualListModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.HandleKey(msg)
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}
	return m, nil
}

// HandleKey moves the cursor for navigation keys and reports whether the key
// was one.
//
//nolint:exhaustive // Only navigation keys are handled.
func (m *VirtualListModel[T]) HandleKey(msg tea.KeyMsg) bool {
	last := len(m.items) - 1
	switch msg.Type {
	case tea.KeyUp:
		m.move(-1)
	case tea.KeyDown:
		m.move(1)
	case tea.KeyPgUp:
		m.move(-m.page())
	case tea.KeyPgDown:
		m.move(m.page())
	case tea.KeyHome:
		m.SetSelected(0)
	case tea.KeyEnd:
		m.SetSelected(last)
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "j":
			m.move(1)
		case "k":
			m.move(-1)
		case "g":
			m.SetSelected(0)
		case "G":
			m.SetSelected(last)
		default:
			return false
		}
	default:
		return false
	}
	return true
}

func (m *VirtualListModel[T]) page() int {
	return max(m.height, 1)
}

func (m *VirtualListModel[T]) move(delta int) {
	m.SetSelected(m.selected + delta)
}

// SetItems replaces the items, keeping the cursor on the same index where
// possible. Appended pages therefore never move the selection.
func (m *VirtualListModel[T]) SetItems(items []T) {
	m.items = items
	m.SetSelected(m.selected)
}

// SetRenderFunc replaces the item renderer.
func (m *VirtualListModel[T]) SetRenderFunc(fn RenderFunc[T]) {
	m.renderFunc = fn
}

// SetSize sets the viewport dimensions.
func (m *VirtualListModel[T]) SetSize(width, height int) {
	m.width = width
	m.height = max(height, 1)
	m.updateVisibleRange()
}

// updateVisibleRange keeps the cursor roughly centered in the window.
func (m *VirtualListModel[T]) updateVisibleRange() {
	if len(m.items) == 0 {
		m.visibleFrom, m.visibleTo = 0, 0
		return
	}

	from := m.selected - m.height/halfViewportDivisor
	to := from + m.height
	if from < 0 {
		from, to = 0, m.height
	}
	if to > len(m.items) {
		to = len(m.items)
		from = max(to-m.height, 0)
	}
	m.visibleFrom, m.visibleTo = from, to
}

// View renders the window plus buffer rows, clipped to the viewport height.
func (m *VirtualListModel[T]) View() string {
	if len(m.items) == 0 || m.renderFunc == nil {
		return ""
	}
	from := max(m.visibleFrom-m.bufferSize, 0)
	to := min(m.visibleTo+m.bufferSize, len(m.items))

	lines := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		lines = append(lines, m.renderFunc(m.items[i], i == m.selected))
	}
	// Buffer rows exist for smooth scrolling but must not overflow the screen.
	start := m.visibleFrom - from
	end := start + (m.visibleTo - m.visibleFrom)
	return strings.Join(lines[start:end], "\n")
}

// ItemCount returns the number of items.
func (m *VirtualListModel[T]) ItemCount() int {
	return len(m.items)
}

// Selected returns the cursor index.
func (m *VirtualListModel[T]) Selected() int {
	return m.selected
}

// SetSelected moves the cursor, clamped to the item range.
func (m *VirtualListModel[T]) SetSelected(index int) {
	switch {
	case len(m.items) == 0, index < 0:
		m.selected = 0
	case index >= len(m.items):
		m.selected = len(m.items) - 1
	default:
		m.selected = index
	}
	m.updateVisibleRange()
}

// VisibleFrom returns the first visible index.
func (m *VirtualListModel[T]) VisibleFrom() int {
	return m.visibleFrom
}

// VisibleTo returns one past the last visible index.
func (m *VirtualListModel[T]) VisibleTo() int {
	return m.visibleTo
}

// Height returns the viewport height in rows.
func (m *VirtualListModel[T]) Height() int {
	return m.height
}

// Width returns the viewport width.
func (m *VirtualListModel[T]) Width() int {
	return m.width
}

// ScrolledDown reports whether the first item is out of view.
func (m *VirtualListModel[T]) ScrolledDown() bool {
	return m.visibleFrom > 0
}

// NearEnd reports whether the cursor is within threshold items of the end.
func (m *VirtualListModel[T]) NearEnd(threshold int) bool {
	return len(m.items) > 0 && m.selected >= len(m.items)-1-threshold
}

// GetSelectedItem returns the item under the cursor, or nil when empty.
func (m *VirtualListModel[T]) GetSelectedItem() *T {
	if m.selected < 0 || m.selected >= len(m.items) {
		return nil
	}
	return &m.items[m.selected]
}
