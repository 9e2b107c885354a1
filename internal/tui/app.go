package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/toplist/internal/config"
	"github.com/mmcdole/toplist/internal/domain"
	"github.com/mmcdole/toplist/internal/overlay"
	"github.com/mmcdole/toplist/internal/tui/components"
	"github.com/mmcdole/toplist/internal/tui/styles"
)

// Tab identifies the visible ranking
type Tab int

const (
	TabAnime Tab = iota
	TabManga
)

// Fetcher is the ranking orchestrator surface the view drives
type Fetcher interface {
	Name() string
	Start(ctx context.Context)
	Refresh(ctx context.Context)
	Stop()
	State() domain.FetchState
}

// OverlayController is the detail overlay state machine
type OverlayController interface {
	Select(trigger overlay.Rect, viewport overlay.Size, item domain.RankedItem)
	PointerEnter()
	PointerLeave()
	Hide()
	State() overlay.State
}

// Options configures the model
type Options struct {
	Context context.Context
	Anime   Fetcher
	Manga   Fetcher
	Overlay OverlayController
	Notify  <-chan tea.Msg
	UI      config.UIConfig
	Logger  *slog.Logger
}

// rankingView is everything shown for one tab
type rankingView struct {
	title   string
	kind    domain.ContentKind
	fetcher Fetcher
	state   domain.FetchState
	grid    components.Grid
	slider  components.Slider
	top     components.TopList
	hasTop  bool
}

// Model is the main application model
type Model struct {
	ctx    context.Context
	logger *slog.Logger

	views   [2]rankingView
	active  Tab
	overlay OverlayController
	notify  <-chan tea.Msg

	// Last overlay snapshot, refreshed after every controller call
	overlayState overlay.State
	panelWidth   int

	sliderInterval time.Duration
	sliderGen      int

	spinner spinner.Model
	help    help.Model
	keys    KeyMap

	width  int
	height int
}

// NewModel creates a new application model
func NewModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle
	h.Styles.ShortDesc = styles.HelpDescStyle
	h.Styles.FullKey = styles.HelpKeyStyle
	h.Styles.FullDesc = styles.HelpDescStyle

	panelWidth := opts.UI.Overlay.PanelWidth
	if panelWidth <= 0 {
		panelWidth = config.DefaultConfig().UI.Overlay.PanelWidth
	}

	m := Model{
		ctx:            ctx,
		logger:         logger,
		overlay:        opts.Overlay,
		notify:         opts.Notify,
		panelWidth:     panelWidth,
		sliderInterval: opts.UI.SliderInterval,
		spinner:        sp,
		help:           h,
		keys:           DefaultKeyMap(),
	}
	m.views[TabAnime] = rankingView{
		title:   "Seasonal Anime",
		kind:    domain.KindAnime,
		fetcher: opts.Anime,
		grid:    components.NewGrid(opts.UI.GridColumns),
		slider:  components.NewSlider(),
		top:     components.NewTopList("Top Anime"),
		hasTop:  true,
	}
	m.views[TabManga] = rankingView{
		title:   "Top Manga",
		kind:    domain.KindManga,
		fetcher: opts.Manga,
		grid:    components.NewGrid(opts.UI.GridColumns),
		slider:  components.NewSlider(),
	}
	m.views[TabAnime].grid.SetFocused(true)
	m.syncStates()

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		StartCmd(m.ctx, m.views[TabAnime].fetcher),
		StartCmd(m.ctx, m.views[TabManga].fetcher),
		WaitForNotification(m.notify),
		m.spinner.Tick,
		SliderTickCmd(m.sliderGen, m.sliderInterval),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateLayout()
		// Placement was computed for the old viewport
		m.hideOverlay()
		return m, nil

	case StateMsg:
		m.syncStates()
		return m, WaitForNotification(m.notify)

	case OverlayMsg:
		m.overlayState = m.overlay.State()
		return m, WaitForNotification(m.notify)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SliderTickMsg:
		if msg.Gen != m.sliderGen {
			return m, nil
		}
		for i := range m.views {
			m.views[i].slider.Next()
		}
		return m, SliderTickCmd(m.sliderGen, m.sliderInterval)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	}

	return m, nil
}

// syncStates pulls the current snapshot of both rankings
func (m *Model) syncStates() {
	for i := range m.views {
		v := &m.views[i]
		if v.fetcher == nil {
			continue
		}
		v.state = v.fetcher.State()
		v.grid.SetItems(v.state.Items, v.kind)
		v.slider.SetItems(v.state.Items, v.kind)
		v.top.SetItems(v.state.Items)
	}
}

func (m *Model) activeView() *rankingView {
	return &m.views[m.active]
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.activeView()

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Filter input gets all keys while typing
	if v.grid.IsFilterTyping() {
		var cmd tea.Cmd
		v.grid, cmd = v.grid.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.updateLayout()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.switchTab()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if v.fetcher == nil {
			return m, nil
		}
		return m, RefreshCmd(m.ctx, v.fetcher)

	case key.Matches(msg, m.keys.Filter):
		m.hideOverlay()
		if v.grid.IsFiltering() {
			var cmd tea.Cmd
			v.grid, cmd = v.grid.Update(msg)
			return m, cmd
		}
		v.grid.ToggleFilter()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.overlayState.Shown() {
			m.hideOverlay()
		} else if v.grid.IsFiltering() {
			v.grid.ClearFilter()
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		m.selectCursor()
		return m, nil

	case key.Matches(msg, m.keys.SlidePrev):
		v.slider.Prev()
		return m, m.restartSlider()

	case key.Matches(msg, m.keys.SlideNext):
		v.slider.Next()
		return m, m.restartSlider()
	}

	// Cursor movement
	before := v.grid.Cursor()
	var cmd tea.Cmd
	v.grid, cmd = v.grid.Update(msg)
	if v.grid.Cursor() != before {
		m.trackCursor()
	}
	return m, cmd
}

// trackCursor treats the keyboard cursor as the pointer: leaving the
// overlay's item starts the hide delay, returning to it cancels it
func (m *Model) trackCursor() {
	if !m.overlayState.Shown() || m.overlayState.Item == nil {
		return
	}
	item, ok := m.activeView().grid.SelectedItem()
	if ok && item.ID == m.overlayState.Item.ID {
		m.overlay.PointerEnter()
	} else {
		m.overlay.PointerLeave()
	}
	m.overlayState = m.overlay.State()
}

// selectCursor opens the overlay for the item under the grid cursor
func (m *Model) selectCursor() {
	v := m.activeView()
	item, ok := v.grid.SelectedItem()
	if !ok {
		return
	}
	rect, ok := v.grid.CellRect(v.grid.Cursor())
	if !ok {
		return
	}
	l := m.layout()
	m.selectItem(offset(rect, l.gridX, l.bodyTop), item)
}

func (m *Model) selectItem(trigger overlay.Rect, item domain.RankedItem) {
	m.overlay.Select(trigger, m.viewport(), item)
	m.overlayState = m.overlay.State()
}

func (m *Model) hideOverlay() {
	if m.overlay == nil {
		return
	}
	m.overlay.Hide()
	m.overlayState = m.overlay.State()
}

func (m *Model) switchTab() {
	m.hideOverlay()
	m.views[m.active].grid.SetFocused(false)
	if m.active == TabAnime {
		m.active = TabManga
	} else {
		m.active = TabAnime
	}
	m.views[m.active].grid.SetFocused(true)
	m.updateLayout()
}

// restartSlider invalidates the pending tick so a manual slide gets a full
// interval before the next automatic one
func (m *Model) restartSlider() tea.Cmd {
	m.sliderGen++
	return SliderTickCmd(m.sliderGen, m.sliderInterval)
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	v := m.activeView()

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		v.grid.Scroll(-1)

	case msg.Button == tea.MouseButtonWheelDown:
		v.grid.Scroll(1)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if _, box, ok := m.overlayBox(); ok && box.Contains(float64(msg.X), float64(msg.Y)) {
			return m, nil
		}
		h, ok := m.hitTest(msg.X, msg.Y)
		if !ok {
			m.hideOverlay()
			return m, nil
		}
		if h.gridPos >= 0 {
			v.grid.SetCursor(h.gridPos)
		}
		v.top.SetSelected(h.topRow)
		m.selectItem(h.rect, h.item)

	case msg.Action == tea.MouseActionMotion:
		m.trackPointer(msg.X, msg.Y)
	}

	return m, nil
}

// trackPointer applies pointer enter/leave for the overlay's trigger and
// the panel itself
func (m *Model) trackPointer(x, y int) {
	if !m.overlayState.Shown() {
		return
	}
	px, py := float64(x), float64(y)
	_, box, _ := m.overlayBox()
	if box.Contains(px, py) || m.overlayState.Trigger.Contains(px, py) {
		m.overlay.PointerEnter()
	} else {
		m.overlay.PointerLeave()
	}
	m.overlayState = m.overlay.State()
}

func (m Model) viewport() overlay.Size {
	return overlay.Size{Width: float64(m.width), Height: float64(m.height)}
}
