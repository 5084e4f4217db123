package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/loader"
	"github.com/five82/shelf/internal/prefs"
)

// View represents the current active view.
type View int

const (
	ViewCatalog View = iota
	ViewDetail
	ViewLogs
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *catalog.Store
	Loader    *loader.Loader
	Logger    *zap.Logger
	LogPath   string
	ThemeName string
	PrefsPath string
}

// pageRequest identifies the last list page handed to the loader.
type pageRequest struct {
	page    int
	perPage int
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *catalog.Store
	loader    *loader.Loader
	projector *catalog.Projector
	lg        *zap.Logger
	keys      keyMap
	prefsPath string
	logPath   string

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	focusedPane int // 0 = list, 1 = preview

	// Data state
	snap    catalog.State
	view    catalog.View
	fetched pageRequest
	notice  string

	// Catalog state
	selectedRow int
	spinner     spinner.Model
	pager       paginator.Model

	// Search prompt
	searching   bool
	searchInput textinput.Model
	prevQuery   string

	// Open-by-id prompt
	prompting bool
	idInput   textinput.Model

	// Detail state
	detailID       catalog.ID
	detailLoading  bool
	detailViewport viewport.Model

	// Log state
	logViewport viewport.Model
	logLines    []string
	logErr      error
	logFollow   bool

	modal    Modal
	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	lg := opts.Logger
	if lg == nil {
		lg = zap.NewNop()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	store := opts.Store
	if store == nil {
		store = catalog.NewStore()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	pager := paginator.New()
	pager.Type = paginator.Arabic

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "title or description"
	search.CharLimit = 120

	idInput := textinput.New()
	idInput.Prompt = ": "
	idInput.Placeholder = "product id"
	idInput.CharLimit = 64

	m := Model{
		ctx:         ctx,
		store:       store,
		loader:      opts.Loader,
		projector:   catalog.NewProjector(),
		lg:          lg.Named("ui"),
		keys:        DefaultKeyMap(),
		prefsPath:   opts.PrefsPath,
		logPath:     opts.LogPath,
		theme:       GetTheme(themeName),
		currentView: ViewCatalog,
		spinner:     sp,
		pager:       pager,
		searchInput: search,
		idInput:     idInput,
		logFollow:   true,
	}
	m.snap = store.Snapshot()
	m.view = m.projector.Project(m.snap)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tickCmd(DefaultUIInterval),
		func() tea.Msg { return refreshMsg{} },
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detailViewport = viewport.New(0, 0)
			m.logViewport = viewport.New(0, 0)
		}
		m.ready = true
		m.resizeViewports()
		m.updateDetailViewport()
		m.updateLogViewport()
		return m, nil

	case refreshMsg:
		return m, m.refresh()

	case productsLoadedMsg:
		return m, m.refresh()

	case productLoadedMsg:
		if msg.id == m.detailID {
			m.detailLoading = false
		}
		return m, m.refresh()

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(DefaultUIInterval)}
		if m.currentView == ViewLogs {
			cmds = append(cmds, readLogsCmd(m.logPath))
		}
		return m, tea.Batch(cmds...)

	case logLinesMsg:
		m.logLines = msg.lines
		m.logErr = msg.err
		m.updateLogViewport()
		return m, nil

	case formSubmittedMsg:
		return m, m.applyForm(msg)

	case deleteConfirmedMsg:
		m.store.SoftDelete(msg.id)
		m.notice = "Deleted " + truncate(msg.title, 40)
		if m.currentView == ViewDetail && m.detailID == msg.id {
			m.currentView = ViewCatalog
		}
		return m, m.refresh()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blinks and other component messages.
	var cmd tea.Cmd
	switch {
	case m.modal != nil:
		m.modal, cmd, _ = m.modal.Update(msg, m.keys)
	case m.searching:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case m.prompting:
		m.idInput, cmd = m.idInput.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// refresh re-projects the store, feeds the clamped page back and issues a
// list fetch when the requested page or page size moved.
func (m *Model) refresh() tea.Cmd {
	snap := m.store.Snapshot()
	view := m.projector.Project(snap)
	if snap.Page != view.Page {
		m.store.ClampPage(view.LastPage)
		snap.Page = view.Page
	}
	m.snap = snap
	m.view = view
	m.clampSelection()

	m.pager.PerPage = view.PerPage
	m.pager.SetTotalPages(view.PagingTotal)
	if m.pager.TotalPages < 1 {
		m.pager.TotalPages = 1
	}
	m.pager.Page = view.Page - 1

	m.updateDetailViewport()

	req := pageRequest{page: view.Page, perPage: view.PerPage}
	if req == m.fetched {
		return nil
	}
	m.fetched = req
	return loadProductsCmd(m.ctx, m.loader)
}

func (m *Model) clampSelection() {
	n := len(m.view.Items)
	if m.selectedRow >= n {
		m.selectedRow = n - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

// selected returns the product under the cursor, if any.
func (m Model) selected() (catalog.Product, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.view.Items) {
		return catalog.Product{}, false
	}
	return m.view.Items[m.selectedRow], true
}

// target returns the product an action applies to: the open detail in the
// detail view, the selected row otherwise.
func (m Model) target() (catalog.Product, bool) {
	if m.currentView == ViewDetail {
		return m.store.Get(m.detailID)
	}
	return m.selected()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.prompting {
		return m.handleIDPromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
				m.lg.Warn("save prefs", zap.Error(err))
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		if m.currentView == ViewLogs {
			m.currentView = ViewCatalog
			return m, nil
		}
		m.currentView = ViewLogs
		return m, readLogsCmd(m.logPath)
	}

	switch m.currentView {
	case ViewCatalog:
		return m.handleCatalogKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}

	return m, nil
}

// handleCatalogKey processes keyboard input for the catalog view.
func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.focusedPane == 1 && m.scrollViewport(&m.detailViewport, msg) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
		m.updateDetailViewport()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(m.view.Items)-1 {
			m.selectedRow++
		}
		m.updateDetailViewport()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
		m.updateDetailViewport()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = max(len(m.view.Items)-1, 0)
		m.updateDetailViewport()
		return m, nil

	case key.Matches(msg, m.keys.ToggleFocus), key.Matches(msg, m.keys.ToggleFocusRv):
		m.focusedPane = 1 - m.focusedPane
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if m.view.Page > 1 {
			m.store.SetPage(m.view.Page - 1)
			m.selectedRow = 0
		}
		return m, m.refresh()

	case key.Matches(msg, m.keys.NextPage):
		if m.view.Page < m.view.LastPage {
			m.store.SetPage(m.view.Page + 1)
			m.selectedRow = 0
		}
		return m, m.refresh()

	case key.Matches(msg, m.keys.CyclePerPage):
		m.store.SetPerPage(catalog.NextPerPage(m.view.PerPage))
		m.selectedRow = 0
		return m, m.refresh()

	case key.Matches(msg, m.keys.Retry):
		m.notice = ""
		return m, m.reload()

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.prevQuery = m.snap.Query
		m.searchInput.SetValue(m.snap.Query)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Favorites):
		m.store.SetFavoritesOnly(!m.snap.FavoritesOnly)
		m.selectedRow = 0
		return m, m.refresh()

	case key.Matches(msg, m.keys.OpenByID):
		m.prompting = true
		m.idInput.SetValue("")
		return m, m.idInput.Focus()

	case key.Matches(msg, m.keys.Open):
		if p, ok := m.selected(); ok {
			return m, m.openDetail(p.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.snap.Query != "" {
			m.store.SetQuery("")
			return m, m.refresh()
		}
		return m, nil
	}

	return m.handleProductKey(msg)
}

// handleProductKey handles the actions shared by the list and detail views.
func (m Model) handleProductKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Create):
		m.modal = newProductForm("New product", "", catalog.Draft{})
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Like):
		if p, ok := m.target(); ok {
			m.store.ToggleLiked(p.ID)
			return m, m.refresh()
		}

	case key.Matches(msg, m.keys.Edit):
		if p, ok := m.target(); ok {
			m.modal = newProductForm("Edit product", p.ID, catalog.DraftFrom(p))
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.Delete):
		if p, ok := m.target(); ok {
			m.modal = newConfirmModal(p)
		}
	}
	return m, nil
}

// handleDetailKey processes keyboard input for the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) {
		m.currentView = ViewCatalog
		m.updateDetailViewport()
		return m, nil
	}
	if key.Matches(msg, m.keys.Retry) && !m.store.Has(m.detailID) {
		m.detailLoading = true
		m.updateDetailViewport()
		return m, loadProductCmd(m.ctx, m.loader, m.detailID)
	}
	if m.scrollViewport(&m.detailViewport, msg) {
		return m, nil
	}
	return m.handleProductKey(msg)
}

// scrollViewport applies navigation keys to vp and reports whether msg was
// one of them.
func (m Model) scrollViewport(vp *viewport.Model, msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.Up):
		vp.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		vp.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		vp.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		vp.PageDown()
	case key.Matches(msg, m.keys.Top):
		vp.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()
	default:
		return false
	}
	return true
}

// handleSearchKey edits the query live; enter keeps it, esc restores the
// previous one.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.searchInput.Blur()
		m.store.SetQuery(m.prevQuery)
		return m, m.refresh()
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != m.snap.Query {
		m.store.SetQuery(m.searchInput.Value())
		m.selectedRow = 0
	}
	return m, tea.Batch(cmd, m.refresh())
}

// handleIDPromptKey reads a product id and opens its detail.
func (m Model) handleIDPromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.prompting = false
		m.idInput.Blur()
		id := strings.TrimSpace(m.idInput.Value())
		if id == "" {
			return m, nil
		}
		return m, m.openDetail(catalog.ID(id))
	case tea.KeyEsc:
		m.prompting = false
		m.idInput.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.idInput, cmd = m.idInput.Update(msg)
	return m, cmd
}

// openDetail switches to the detail view for id. Known products render
// immediately; unknown ones are fetched.
func (m *Model) openDetail(id catalog.ID) tea.Cmd {
	m.detailID = id
	m.currentView = ViewDetail
	m.detailLoading = !m.store.Has(id)
	m.updateDetailViewport()
	m.detailViewport.GotoTop()
	if !m.detailLoading {
		return nil
	}
	return loadProductCmd(m.ctx, m.loader, id)
}

// reload forces a list fetch for the current page.
func (m *Model) reload() tea.Cmd {
	m.fetched = pageRequest{}
	return m.refresh()
}

// applyForm commits a submitted product form.
func (m *Model) applyForm(msg formSubmittedMsg) tea.Cmd {
	if msg.id == "" {
		created := m.store.CreateLocal(msg.draft)
		m.notice = "Created " + truncate(created.Title, 40)
		return m.refresh()
	}
	current, ok := m.store.Get(msg.id)
	if !ok {
		return nil
	}
	patch := msg.draft.Diff(current)
	if patch.IsZero() {
		return nil
	}
	m.store.UpdateLocal(msg.id, patch)
	m.notice = "Saved " + truncate(msg.draft.Title, 40)
	return m.refresh()
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewCatalog:
		return m.renderCatalog()
	case ViewDetail:
		return m.renderDetail()
	case ViewLogs:
		return m.renderLogs()
	default:
		return ""
	}
}

// Messages

type tickMsg time.Time

type refreshMsg struct{}

type productsLoadedMsg struct{}

type productLoadedMsg struct{ id catalog.ID }

type formSubmittedMsg struct {
	id    catalog.ID
	draft catalog.Draft
}

type deleteConfirmedMsg struct {
	id    catalog.ID
	title string
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func loadProductsCmd(ctx context.Context, l *loader.Loader) tea.Cmd {
	if l == nil {
		return nil
	}
	return func() tea.Msg {
		l.LoadProducts(ctx)
		return productsLoadedMsg{}
	}
}

func loadProductCmd(ctx context.Context, l *loader.Loader, id catalog.ID) tea.Cmd {
	if l == nil {
		return nil
	}
	return func() tea.Msg {
		l.LoadProductByID(ctx, id)
		return productLoadedMsg{id: id}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or
// opts.Context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
