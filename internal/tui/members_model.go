package tui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rshade/listmembers/internal/analytics"
	"github.com/rshade/listmembers/internal/domain"
	"github.com/rshade/listmembers/internal/logging"
	"github.com/rshade/listmembers/internal/membership"
	"github.com/rshade/listmembers/internal/pagination"
	"github.com/rshade/listmembers/internal/rows"
	"github.com/rshade/listmembers/internal/session"
	"github.com/rshade/listmembers/internal/tui/detail"
	listview "github.com/rshade/listmembers/internal/tui/list"
)

// ViewState is the members view mode.
type ViewState int

const (
	// ViewStateList shows the member rows.
	ViewStateList ViewState = iota
	// ViewStateDetail shows one member's profile.
	ViewStateDetail
	// ViewStateQuitting indicates the program is exiting.
	ViewStateQuitting
)

// Default dimensions before the first WindowSizeMsg.
const (
	defaultWidth  = 80
	defaultHeight = 24

	// chromeHeight is the header, footer and help lines around the list.
	chromeHeight = 4
	minHeight    = 3
)

// EditMembershipDoneMsg is sent when the edit surface returns.
type EditMembershipDoneMsg struct {
	Result membership.EditResult
	Err    error
}

// HandleCopiedMsg is sent when a handle copy to the clipboard finishes.
type HandleCopiedMsg struct {
	Handle string
	Err    error
}

// MembersOption configures a MembersModel.
type MembersOption func(*MembersModel)

// MembersModel is the Bubble Tea model for a list's members.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View.
type MembersModel struct {
	ctx    context.Context
	logger zerolog.Logger

	ctrl      *pagination.Controller
	session   session.Provider
	editor    membership.Editor
	tracker   analytics.Tracker
	copyFn    func(string) error
	renderer  DefaultRenderer
	custom    RowRenderer
	keys      KeyMap
	threshold int

	list    *listview.VirtualListModel[rows.Row]
	rows    []rows.Row
	loading *LoadingState

	state        ViewState
	width        int
	height       int
	detailMember *domain.Member
	detailText   string
	status       string

	header         string
	footer         string
	testID         string
	onScrolledDown func(bool)
	scrolledDown   bool
}

// WithSession sets the session provider. Without one the viewer is signed out.
func WithSession(p session.Provider) MembersOption {
	return func(m *MembersModel) { m.session = p }
}

// WithEditor sets the membership edit surface.
func WithEditor(e membership.Editor) MembersOption {
	return func(m *MembersModel) { m.editor = e }
}

// WithTracker sets the analytics tracker.
func WithTracker(t analytics.Tracker) MembersOption {
	return func(m *MembersModel) { m.tracker = t }
}

// WithModelLogger sets the logger.
func WithModelLogger(l zerolog.Logger) MembersOption {
	return func(m *MembersModel) { m.logger = logging.ComponentLogger(l, "tui") }
}

// WithPrefetchThreshold sets how close to the end the cursor must be to
// request the next page.
func WithPrefetchThreshold(n int) MembersOption {
	return func(m *MembersModel) { m.threshold = n }
}

// WithRowRenderer replaces the renderer for every row kind.
func WithRowRenderer(r RowRenderer) MembersOption {
	return func(m *MembersModel) { m.custom = r }
}

// WithKindRenderer replaces the renderer for one row kind.
func WithKindRenderer(kind rows.Kind, r RowRenderer) MembersOption {
	return func(m *MembersModel) {
		if m.renderer.Overrides == nil {
			m.renderer.Overrides = make(map[rows.Kind]RowRenderer)
		}
		m.renderer.Overrides[kind] = r
	}
}

// WithHeader replaces the default header line.
func WithHeader(s string) MembersOption {
	return func(m *MembersModel) { m.header = s }
}

// WithFooter adds a line below the list.
func WithFooter(s string) MembersOption {
	return func(m *MembersModel) { m.footer = s }
}

// WithTestID tags the model for tests and log correlation.
func WithTestID(id string) MembersOption {
	return func(m *MembersModel) { m.testID = id }
}

// WithOnScrolledDownChange registers fn to run whenever the list scrolls away
// from, or back to, the top.
func WithOnScrolledDownChange(fn func(bool)) MembersOption {
	return func(m *MembersModel) { m.onScrolledDown = fn }
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(fn func(string) error) MembersOption {
	return func(m *MembersModel) { m.copyFn = fn }
}

// WithKeyMap replaces the key bindings.
func WithKeyMap(k KeyMap) MembersOption {
	return func(m *MembersModel) { m.keys = k }
}

// NewMembersModel creates the members view over ctrl. The controller's first
// fetch is issued from Init.
func NewMembersModel(ctx context.Context, ctrl *pagination.Controller, opts ...MembersOption) MembersModel {
	m := MembersModel{
		ctx:       ctx,
		logger:    logging.ComponentLogger(*logging.FromContext(ctx), "tui"),
		ctrl:      ctrl,
		session:   session.NewStatic("", ""),
		tracker:   analytics.Nop{},
		copyFn:    clipboard.WriteAll,
		keys:      DefaultKeyMap(),
		threshold: pagination.DefaultPrefetchThreshold,
		loading:   NewLoadingState(),
		state:     ViewStateList,
		width:     defaultWidth,
		height:    defaultHeight,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.testID != "" {
		m.logger = m.logger.With().Str("test_id", m.testID).Logger()
	}
	m.list = listview.NewVirtualListModel[rows.Row](nil, m.listHeight(), m.width, nil)
	m.syncRows()
	return m
}

// Init starts the spinner and the initial fetch.
func (m MembersModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.ctrl.Start())
}

// Update handles messages (Bubble Tea interface).
func (m MembersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(m.width, m.listHeight())
		m.notifyScroll()
		return m, nil

	case spinner.TickMsg:
		return m, m.loading.Update(msg)

	case pagination.FetchSettledMsg:
		return m.handleSettled(msg)

	case EditMembershipDoneMsg:
		return m.handleEditDone(msg)

	case HandleCopiedMsg:
		if msg.Err != nil {
			m.status = "Copy failed: " + msg.Err.Error()
			m.logger.Warn().Ctx(m.ctx).Err(msg.Err).Msg("clipboard write failed")
		} else {
			m.status = "Copied @" + msg.Handle
		}
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case ViewStateList:
			return m.handleListKey(msg)
		case ViewStateDetail:
			return m.handleDetailKey(msg)
		case ViewStateQuitting:
			return m, nil
		}
	}
	return m, nil
}

func (m MembersModel) handleSettled(msg pagination.FetchSettledMsg) (tea.Model, tea.Cmd) {
	if !m.ctrl.Update(msg) {
		return m, nil
	}
	m.syncRows()
	if msg.Err != nil && msg.Kind == pagination.KindRefresh && len(m.ctrl.Pages()) > 0 {
		m.status = "Refresh failed"
	}
	return m, m.maybePrefetch()
}

func (m MembersModel) handleEditDone(msg EditMembershipDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.status = "Edit failed: " + msg.Err.Error()
		m.logger.Error().Ctx(m.ctx).
			Str(logging.FieldOperation, "edit_membership").
			Err(msg.Err).
			Msg("membership edit failed")
		return m, nil
	}
	if msg.Result.Removed {
		m.status = "Removed @" + msg.Result.Request.Handle + " from the list"
	}
	if m.state == ViewStateDetail {
		m.state = ViewStateList
		m.detailMember = nil
	}
	return m, m.refresh()
}

func (m MembersModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.state = ViewStateQuitting
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()
	case key.Matches(msg, m.keys.Retry):
		return m, m.retry()
	case key.Matches(msg, m.keys.Open):
		return m.activate()
	case key.Matches(msg, m.keys.Edit):
		return m, m.editSelected()
	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelected()
	}

	if m.list.HandleKey(msg) {
		m.status = ""
		m.notifyScroll()
		return m, m.maybePrefetch()
	}
	return m, nil
}

func (m MembersModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.state = ViewStateQuitting
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.state = ViewStateList
		m.detailMember = nil
		m.detailText = ""
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		return m, m.editSelected()
	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelected()
	}
	return m, nil
}

// activate acts on the selected row: opens a profile or retries a failed
// fetch.
func (m MembersModel) activate() (tea.Model, tea.Cmd) {
	row := m.selectedRow()
	if row == nil {
		return m, nil
	}
	switch row.Kind {
	case rows.KindData:
		member := row.Member
		text, err := detail.Render(member, m.width)
		if err != nil {
			m.logger.Warn().Ctx(m.ctx).Err(err).Msg("profile render failed")
		}
		m.state = ViewStateDetail
		m.detailMember = &member
		m.detailText = text
		m.tracker.Track(m.ctx, analytics.EventOpenProfile)
		return m, nil
	case rows.KindLoadMoreError:
		m.tracker.Track(m.ctx, analytics.EventRetryLoadMore)
		return m, m.ctrl.RetryLoadMore()
	case rows.KindEmpty, rows.KindError:
		m.tracker.Track(m.ctx, analytics.EventRetryFromEmpty)
		return m, m.ctrl.RetryFromEmpty()
	}
	return m, nil
}

// retry re-issues whichever fetch failed, based on the visible status rows.
func (m MembersModel) retry() tea.Cmd {
	for _, r := range m.rows {
		if r.Kind == rows.KindLoadMoreError {
			m.tracker.Track(m.ctx, analytics.EventRetryLoadMore)
			return m.ctrl.RetryLoadMore()
		}
	}
	if len(m.rows) > 0 && (m.rows[0].Kind == rows.KindError || m.rows[0].Kind == rows.KindEmpty) {
		m.tracker.Track(m.ctx, analytics.EventRetryFromEmpty)
		return m.ctrl.RetryFromEmpty()
	}
	return nil
}

func (m MembersModel) refresh() tea.Cmd {
	m.tracker.Track(m.ctx, analytics.EventRefresh)
	return m.ctrl.Refresh()
}

// editMember returns the member the edit and copy actions apply to.
func (m MembersModel) editMember() *domain.Member {
	if m.state == ViewStateDetail {
		return m.detailMember
	}
	row := m.selectedRow()
	if row == nil || row.Kind != rows.KindData {
		return nil
	}
	member := row.Member
	return &member
}

func (m MembersModel) editSelected() tea.Cmd {
	member := m.editMember()
	if member == nil || m.editor == nil {
		return nil
	}
	list := m.ctrl.List()
	if !membership.ShowEditAffordance(list, m.session.CurrentViewer(), *member) {
		return nil
	}
	m.tracker.Track(m.ctx, analytics.EventEditMembership)

	ctx, editor := m.ctx, m.editor
	req := membership.EditRequest{
		ListURI:     list.URI,
		MemberID:    member.ID,
		DisplayName: member.DisplayName,
		Handle:      member.Handle,
	}
	return func() tea.Msg {
		res, err := editor.OpenEditMembership(ctx, req)
		return EditMembershipDoneMsg{Result: res, Err: err}
	}
}

func (m MembersModel) copySelected() tea.Cmd {
	member := m.editMember()
	if member == nil || member.Handle == "" {
		return nil
	}
	m.tracker.Track(m.ctx, analytics.EventCopyHandle)

	handle, write := member.Handle, m.copyFn
	return func() tea.Msg {
		return HandleCopiedMsg{Handle: handle, Err: write("@" + handle)}
	}
}

// maybePrefetch requests the next page when the cursor is near the end of a
// data list. The controller guards against duplicate or doomed fetches.
func (m MembersModel) maybePrefetch() tea.Cmd {
	if len(m.rows) == 0 || m.rows[len(m.rows)-1].Kind != rows.KindData {
		return nil
	}
	if !m.list.NearEnd(m.threshold) {
		return nil
	}
	cmd := m.ctrl.LoadMore()
	if cmd != nil {
		m.tracker.Track(m.ctx, analytics.EventLoadMore)
	}
	return cmd
}

// syncRows reclassifies after a state change.
func (m *MembersModel) syncRows() {
	m.rows = m.ctrl.Rows()
	m.list.SetItems(m.rows)
	m.notifyScroll()
}

func (m *MembersModel) notifyScroll() {
	down := m.list.ScrolledDown()
	if down == m.scrolledDown {
		return
	}
	m.scrolledDown = down
	if m.onScrolledDown != nil {
		m.onScrolledDown(down)
	}
}

func (m MembersModel) selectedRow() *rows.Row {
	return m.list.GetSelectedItem()
}

func (m MembersModel) listHeight() int {
	h := m.height - chromeHeight
	if m.footer != "" {
		h--
	}
	return max(h, minHeight)
}

// renderContext snapshots the state row renderers may read.
func (m MembersModel) renderContext(selected bool) RenderContext {
	return RenderContext{
		Viewer:    m.session.CurrentViewer(),
		List:      m.ctrl.List(),
		Selected:  selected,
		Width:     m.width,
		Spinner:   m.loading.Frame(),
		LastError: m.ctrl.State().LastError,
	}
}

// Rows returns the rows currently displayed.
func (m MembersModel) Rows() []rows.Row {
	return m.rows
}

// State returns the view state.
func (m MembersModel) State() ViewState {
	return m.state
}

// TestID returns the identifier set with WithTestID.
func (m MembersModel) TestID() string {
	return m.testID
}

// Selected returns the cursor index.
func (m MembersModel) Selected() int {
	return m.list.Selected()
}

// Status returns the transient status line.
func (m MembersModel) Status() string {
	return m.status
}
