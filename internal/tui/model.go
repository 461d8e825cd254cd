// Package tui renders the portfolio page in a terminal. The page is one tall
// scrollable document; rows are the unit of geometry.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/page"
)

// Options tune the terminal host.
type Options struct {
	// ReferenceLine is the row, counted from the top of the scroll area,
	// that decides the active section. Rows below 1 fall back to 2.
	ReferenceLine int
	// Frame is the delay between smooth-scroll steps.
	Frame  time.Duration
	Opener page.LinkOpener
	Logger *slog.Logger
}

const (
	headerHeight = 2
	footerHeight = 1
)

// scrollFrameMsg advances the smooth scroll started with generation gen.
type scrollFrameMsg struct{ gen int }

// linkOpenedMsg reports the outcome of opening an outbound link.
type linkOpenedMsg struct {
	url string
	err error
}

type sectionLayout struct {
	id     page.SectionID
	start  int
	height int
}

// rowRegion measures a laid out section against the current scroll offset.
type rowRegion struct {
	m      *Model
	start  int
	height int
}

func (r rowRegion) Bounds() (page.Rect, bool) {
	if r.height <= 0 {
		return page.Rect{}, false
	}
	top := r.start - r.m.viewport.YOffset
	return page.Rect{Top: float64(top), Bottom: float64(top + r.height)}, true
}

// Model is the bubbletea model of the page. It must be used through a
// pointer: trackers and regions hold on to it.
type Model struct {
	ctrl      *page.Controller
	feed      page.Feed
	regions   *page.Regions
	tracker   *page.Tracker
	navigator *page.Navigator
	release   func()
	unmounts  []func()
	layout    []sectionLayout

	keys     keyMap
	styles   styles
	opts     Options
	logger   *slog.Logger
	viewport viewport.Model
	detail   viewport.Model

	width, height int
	ready         bool
	cursor        int
	status        string

	// smooth scroll state; gen invalidates pending frames
	scrolling bool
	target    int
	gen       int
	pending   tea.Cmd
}

// New builds the model for site. The tracker is mounted right away; regions
// appear once the first window size is known.
func New(site *content.Site, opts Options) (*Model, error) {
	ctrl, err := page.ForSite(site)
	if err != nil {
		return nil, err
	}
	if opts.ReferenceLine < 1 {
		opts.ReferenceLine = 2
	}
	if opts.Frame <= 0 {
		opts.Frame = 16 * time.Millisecond
	}
	if opts.Opener == nil {
		opts.Opener = SystemBrowser{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Model{
		ctrl:    ctrl,
		regions: page.NewRegions(),
		keys:    defaultKeys(),
		styles:  defaultStyles(),
		opts:    opts,
		logger:  logger,
	}
	m.tracker = ctrl.Tracker(m.regions, float64(opts.ReferenceLine))
	m.navigator = ctrl.Navigator(page.ScrollHostFunc(m.scrollIntoView), m.regions)
	m.release = m.tracker.Mount(&m.feed)
	return m, nil
}

// Controller exposes the page state.
func (m *Model) Controller() *page.Controller { return m.ctrl }

// Close stops tracking and unmounts every region.
func (m *Model) Close() {
	if m.release != nil {
		m.release()
	}
	m.unmountAll()
}

func (m *Model) Init() tea.Cmd {
	return tea.SetWindowTitle(m.ctrl.Site().Profile.Brand)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case scrollFrameMsg:
		return m, m.frame(msg.gen)

	case linkOpenedMsg:
		if msg.err != nil {
			m.logger.Warn("open link", slog.String("url", msg.url), slog.String("error", msg.err.Error()))
			m.status = "could not open " + msg.url
		} else {
			m.status = "opened " + msg.url
		}
		return m, nil

	case tea.MouseMsg:
		if !m.ready {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollBy(-3)
		case tea.MouseButtonWheelDown:
			m.scrollBy(3)
		}
		return m, nil

	case tea.KeyMsg:
		if m.ctrl.ModalOpen() {
			return m, m.modalKey(msg)
		}
		return m, m.pageKey(msg)
	}
	return m, nil
}

func (m *Model) pageKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}
	if !m.ready {
		return nil
	}
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Up):
		m.scrollBy(-1)
	case key.Matches(msg, m.keys.Down):
		m.scrollBy(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scrollBy(-m.viewport.Height)
	case key.Matches(msg, m.keys.PageDown):
		m.scrollBy(m.viewport.Height)
	case key.Matches(msg, m.keys.Top):
		m.scrollTo(0)
	case key.Matches(msg, m.keys.Bottom):
		m.scrollTo(m.viewport.TotalLineCount())
	case key.Matches(msg, m.keys.Next):
		return m.navigate(m.adjacent(1))
	case key.Matches(msg, m.keys.Prev):
		return m.navigate(m.adjacent(-1))
	case key.Matches(msg, m.keys.Contact):
		return m.navigate(page.Contact)
	case key.Matches(msg, m.keys.CardNext):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.CardPrev):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Open):
		m.openCard()
	default:
		if n, ok := digit(msg.String()); ok {
			ids := m.ctrl.Sections().IDs()
			if n <= len(ids) {
				return m.navigate(ids[n-1])
			}
		}
	}
	return nil
}

func (m *Model) modalKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	sel, _ := m.ctrl.Selected()

	switch {
	case key.Matches(msg, m.keys.Close):
		m.ctrl.CloseModal()
	case key.Matches(msg, m.keys.Live):
		return m.openLink(sel.LiveLink)
	case key.Matches(msg, m.keys.Source):
		return m.openLink(sel.GithubLink)
	case key.Matches(msg, m.keys.Up):
		m.detail.SetYOffset(m.detail.YOffset - 1)
	case key.Matches(msg, m.keys.Down):
		m.detail.SetYOffset(m.detail.YOffset + 1)
	case key.Matches(msg, m.keys.PageUp):
		m.detail.SetYOffset(m.detail.YOffset - m.detail.Height)
	case key.Matches(msg, m.keys.PageDown):
		m.detail.SetYOffset(m.detail.YOffset + m.detail.Height)
	}
	return nil
}

func digit(s string) (int, bool) {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '0'), true
}

// adjacent returns the section delta positions away from the active one.
func (m *Model) adjacent(delta int) page.SectionID {
	ids := m.ctrl.Sections().IDs()
	active := m.ctrl.Active()
	for i, id := range ids {
		if id == active {
			j := i + delta
			if j < 0 || j >= len(ids) {
				return ""
			}
			return ids[j]
		}
	}
	return ""
}

// navigate asks the navigator for a scroll and returns the first animation
// frame, if one was started.
func (m *Model) navigate(id page.SectionID) tea.Cmd {
	m.pending = nil
	m.navigator.Navigate(id)
	cmd := m.pending
	m.pending = nil
	return cmd
}

// scrollIntoView starts a smooth scroll that puts the section's first row at
// the top of the scroll area. A newer request retargets a running one.
func (m *Model) scrollIntoView(id page.SectionID) {
	for _, l := range m.layout {
		if l.id != id {
			continue
		}
		m.gen++
		m.target = l.start
		m.scrolling = true
		m.pending = m.tick()
		return
	}
}

func (m *Model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.opts.Frame, func(time.Time) tea.Msg {
		return scrollFrameMsg{gen: gen}
	})
}

// frame moves a third of the remaining distance, at least one row.
func (m *Model) frame(gen int) tea.Cmd {
	if !m.scrolling || gen != m.gen {
		return nil
	}
	cur := m.viewport.YOffset
	d := m.target - cur
	if d == 0 {
		m.scrolling = false
		return nil
	}
	step := d / 3
	if step == 0 {
		if d > 0 {
			step = 1
		} else {
			step = -1
		}
	}
	if !m.setOffset(cur + step) {
		// clamped by the end of the document
		m.scrolling = false
		return nil
	}
	if m.viewport.YOffset == m.target {
		m.scrolling = false
		return nil
	}
	return m.tick()
}

// scrollBy is a manual scroll; it cancels any smooth scroll in flight.
func (m *Model) scrollBy(n int) {
	m.scrollTo(m.viewport.YOffset + n)
}

func (m *Model) scrollTo(offset int) {
	m.scrolling = false
	m.gen++
	m.setOffset(offset)
}

// setOffset moves the scroll area and fires a scroll event when the offset
// actually changed.
func (m *Model) setOffset(offset int) bool {
	before := m.viewport.YOffset
	m.viewport.SetYOffset(offset)
	if m.viewport.YOffset == before {
		return false
	}
	m.feed.Emit()
	return true
}

func (m *Model) moveCursor(delta int) {
	n := len(m.ctrl.Site().Projects)
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + delta + n) % n
	m.relayout()
}

func (m *Model) openCard() {
	projects := m.ctrl.Site().Projects
	if m.cursor >= len(projects) {
		return
	}
	if !m.ctrl.OpenProject(projects[m.cursor].ID) {
		return
	}
	m.fillDetail()
}

func (m *Model) fillDetail() {
	sel, ok := m.ctrl.Selected()
	if !ok {
		return
	}
	w, h := m.detailSize()
	m.detail = viewport.New(w, h)
	m.detail.SetContent(m.styles.renderDetail(page.Detail(sel), w))
}

func (m *Model) detailSize() (int, int) {
	w := m.width - 8
	if w > 96 {
		w = 96
	}
	if w < 20 {
		w = 20
	}
	h := m.viewport.Height - 4
	if h < 3 {
		h = 3
	}
	return w, h
}

func (m *Model) openLink(url string) tea.Cmd {
	if url == "" {
		return nil
	}
	opener := m.opts.Opener
	return func() tea.Msg {
		return linkOpenedMsg{url: url, err: opener.Open(url)}
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	vh := height - headerHeight - footerHeight
	if vh < 1 {
		vh = 1
	}
	if !m.ready {
		m.viewport = viewport.New(width, vh)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vh
	}
	m.relayout()
	if m.ctrl.ModalOpen() {
		m.fillDetail()
	}
}

// relayout renders every section, remounts their regions and fires a scroll
// event, since reflow moves regions just like scrolling does.
func (m *Model) relayout() {
	if !m.ready {
		return
	}
	site := m.ctrl.Site()

	var doc strings.Builder
	layout := make([]sectionLayout, 0, m.ctrl.Sections().Len())
	row := 0
	for _, id := range m.ctrl.Sections().IDs() {
		body := m.styles.renderSection(site, id, m.width, m.cursor)
		h := lipgloss.Height(body) - 1
		layout = append(layout, sectionLayout{id: id, start: row, height: h})
		doc.WriteString(body)
		row += h
	}
	if last := layout[len(layout)-1]; last.start+m.viewport.Height > row {
		doc.WriteString(strings.Repeat("\n", last.start+m.viewport.Height-row))
	}

	m.unmountAll()
	m.layout = layout
	for _, l := range layout {
		m.unmounts = append(m.unmounts, m.regions.Mount(l.id, rowRegion{m: m, start: l.start, height: l.height}))
	}

	offset := m.viewport.YOffset
	m.viewport.SetContent(strings.TrimSuffix(doc.String(), "\n"))
	m.viewport.SetYOffset(offset)
	m.feed.Emit()
}

func (m *Model) unmountAll() {
	for _, u := range m.unmounts {
		u()
	}
	m.unmounts = nil
}

func (m *Model) View() string {
	if !m.ready {
		return "loading…"
	}

	var body string
	if m.ctrl.ModalOpen() {
		box := m.styles.Modal.Render(m.detail.View())
		help := m.styles.Help.Render("esc close · o live demo · s source · ↑/↓ scroll")
		body = lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center,
			lipgloss.JoinVertical(lipgloss.Left, box, help))
	} else {
		body = m.viewport.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.header(), body, m.footer())
}

func (m *Model) header() string {
	active := m.ctrl.Active()
	items := []string{m.styles.Brand.Render(m.ctrl.Site().Profile.Brand)}
	for i, id := range m.ctrl.Sections().IDs() {
		label := fmt.Sprintf("%d %s", i+1, m.ctrl.Site().SectionTitle(string(id)))
		if id == active {
			items = append(items, m.styles.NavActive.Render(label))
		} else {
			items = append(items, m.styles.NavItem.Render(label))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, items...)
	rule := m.styles.Subtle.Render(strings.Repeat("─", max(m.width, 1)))
	return lipgloss.NewStyle().MaxWidth(m.width).Render(bar) + "\n" + rule
}

func (m *Model) footer() string {
	if m.status != "" {
		return m.styles.Help.Render(m.status)
	}
	return m.styles.Help.Render("1-9/tab jump · ↑/↓ scroll · [ ] project · enter open · c contact · q quit")
}
