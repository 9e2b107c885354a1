package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/toplist/internal/domain"
	"github.com/mmcdole/toplist/internal/overlay"
	"github.com/mmcdole/toplist/internal/search"
	"github.com/mmcdole/toplist/internal/tui/styles"
)

// Layout constants for grid cells
const (
	// Outer size of one cell including its border
	CellWidth  = 26
	CellHeight = 4

	// Border (1 each side) + Padding(0,1)
	cellChrome = 4

	// Filter bar takes one line at the bottom when active
	FilterBarLines = 1
)

// Grid is the ranked card grid. Positions are indices into the visible
// (possibly filtered) sequence.
type Grid struct {
	items []domain.RankedItem
	kind  domain.ContentKind
	index *search.Index

	// Selection
	cursor    int
	offsetRow int

	// Dimensions
	width       int
	height      int
	wantColumns int // 0 = fit to width
	focused     bool

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	matches      []search.Match // nil when no query
}

// NewGrid creates a grid; columns <= 0 fits as many cells as the width allows
func NewGrid(columns int) Grid {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return Grid{
		wantColumns: columns,
		filterInput: ti,
		index:       search.NewIndex(nil),
	}
}

// SetItems replaces the content. The cursor stays on the same title when it
// is still present.
func (g *Grid) SetItems(items []domain.RankedItem, kind domain.ContentKind) {
	var keepID int
	if item, ok := g.SelectedItem(); ok {
		keepID = item.ID
	}

	g.items = items
	g.kind = kind
	g.index = search.NewIndex(items)
	if g.filterQuery != "" {
		g.matches = g.index.Find(g.filterQuery)
	}

	g.cursor = 0
	for pos := 0; pos < g.Len(); pos++ {
		if g.items[g.mapIndex(pos)].ID == keepID {
			g.cursor = pos
			break
		}
	}
	g.ensureVisible()
}

// Items returns the unfiltered content
func (g Grid) Items() []domain.RankedItem {
	return g.items
}

// SetSize updates the component dimensions
func (g *Grid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.ensureVisible()
}

// SetFocused sets the focus state
func (g *Grid) SetFocused(focused bool) {
	g.focused = focused
}

// Columns returns the number of cells per row
func (g Grid) Columns() int {
	fit := max(g.width/CellWidth, 1)
	if g.wantColumns > 0 && g.wantColumns < fit {
		return g.wantColumns
	}
	return fit
}

// VisibleRows returns how many cell rows fit
func (g Grid) VisibleRows() int {
	h := g.height
	if g.filterActive {
		h -= FilterBarLines
	}
	return max(h/CellHeight, 1)
}

// Len returns the number of visible positions (accounting for filter)
func (g Grid) Len() int {
	if g.filterQuery != "" {
		return len(g.matches)
	}
	return len(g.items)
}

// Cursor returns the current cursor position
func (g Grid) Cursor() int {
	return g.cursor
}

// SetCursor moves the cursor, clamped to the content
func (g *Grid) SetCursor(pos int) {
	last := g.Len() - 1
	if last < 0 {
		g.cursor = 0
		return
	}
	g.cursor = min(max(pos, 0), last)
	g.ensureVisible()
}

// SelectedItem returns the item under the cursor
func (g Grid) SelectedItem() (domain.RankedItem, bool) {
	return g.ItemAt(g.cursor)
}

// ItemAt returns the item at a visible position
func (g Grid) ItemAt(pos int) (domain.RankedItem, bool) {
	if pos < 0 || pos >= g.Len() {
		return domain.RankedItem{}, false
	}
	return g.items[g.mapIndex(pos)], true
}

// CellRect returns the on-screen rectangle of a position relative to the
// grid's top-left corner. ok is false when the cell is scrolled out of view.
func (g Grid) CellRect(pos int) (overlay.Rect, bool) {
	if pos < 0 || pos >= g.Len() {
		return overlay.Rect{}, false
	}
	cols := g.Columns()
	row, col := pos/cols, pos%cols
	if row < g.offsetRow || row >= g.offsetRow+g.VisibleRows() {
		return overlay.Rect{}, false
	}
	return overlay.Rect{
		Left:   float64(col * CellWidth),
		Top:    float64((row - g.offsetRow) * CellHeight),
		Width:  CellWidth,
		Height: CellHeight,
	}, true
}

// HitTest maps a point relative to the grid origin to a position
func (g Grid) HitTest(x, y int) (int, bool) {
	if x < 0 || y < 0 {
		return 0, false
	}
	cols := g.Columns()
	col, row := x/CellWidth, y/CellHeight
	if col >= cols || row >= g.VisibleRows() {
		return 0, false
	}
	pos := (g.offsetRow+row)*cols + col
	if pos >= g.Len() {
		return 0, false
	}
	return pos, true
}

// Scroll moves the viewport by delta rows without moving the cursor off screen
func (g *Grid) Scroll(delta int) {
	cols := g.Columns()
	totalRows := (g.Len() + cols - 1) / cols
	maxOffset := max(totalRows-g.VisibleRows(), 0)
	g.offsetRow = min(max(g.offsetRow+delta, 0), maxOffset)

	row := g.cursor / cols
	if row < g.offsetRow {
		g.cursor += (g.offsetRow - row) * cols
	} else if last := g.offsetRow + g.VisibleRows() - 1; row > last {
		g.cursor -= (row - last) * cols
	}
	g.cursor = min(max(g.cursor, 0), max(g.Len()-1, 0))
}

// ensureVisible ensures the cursor row is visible
func (g *Grid) ensureVisible() {
	cols := g.Columns()
	row := g.cursor / cols
	if row < g.offsetRow {
		g.offsetRow = row
	}
	if rows := g.VisibleRows(); row >= g.offsetRow+rows {
		g.offsetRow = row - rows + 1
	}
}

// ToggleFilter activates the filter input
func (g *Grid) ToggleFilter() {
	g.filterActive = true
	g.filterInput.Focus()
	g.ensureVisible()
}

// IsFiltering returns true if filter mode is active (showing filtered results)
func (g Grid) IsFiltering() bool {
	return g.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused (typing mode)
func (g Grid) IsFilterTyping() bool {
	return g.filterActive && g.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all items
func (g *Grid) ClearFilter() {
	g.filterActive = false
	g.filterQuery = ""
	g.matches = nil
	g.filterInput.SetValue("")
	g.filterInput.Blur()
	g.cursor = 0
	g.offsetRow = 0
}

// applyFilter filters items based on the current query
func (g *Grid) applyFilter() {
	g.filterQuery = strings.TrimSpace(g.filterInput.Value())
	g.matches = g.index.Find(g.filterQuery)

	// Reset cursor to first match
	g.cursor = 0
	g.offsetRow = 0
}

// mapIndex maps a position to the index in items
func (g Grid) mapIndex(pos int) int {
	if g.filterQuery != "" && pos < len(g.matches) {
		return g.matches[pos].Index
	}
	return pos
}

func (g Grid) matchedIndexes(pos int) []int {
	if g.filterQuery != "" && pos < len(g.matches) {
		return g.matches[pos].MatchedIndexes
	}
	return nil
}

// Init initializes the component
func (g Grid) Init() tea.Cmd {
	return nil
}

// Update handles filter input and cursor keys
func (g Grid) Update(msg tea.Msg) (Grid, tea.Cmd) {
	if !g.focused {
		return g, nil
	}

	// Typing mode
	if g.IsFilterTyping() {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "esc":
				g.ClearFilter()
				return g, nil
			case "enter":
				// Accept filter, blur input to allow navigation
				g.filterInput.Blur()
				return g, nil
			case "backspace":
				if g.filterInput.Value() == "" {
					g.ClearFilter()
					return g, nil
				}
			}
		}

		var cmd tea.Cmd
		g.filterInput, cmd = g.filterInput.Update(msg)
		g.applyFilter()
		return g, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return g, nil
	}

	if g.filterActive && keyMsg.String() == "/" {
		// Re-activate filter input
		g.filterInput.Focus()
		return g, nil
	}

	count := g.Len()
	if count == 0 {
		return g, nil
	}

	cols := g.Columns()
	switch keyMsg.String() {
	case "l", "right":
		g.SetCursor(g.cursor + 1)
	case "h", "left":
		g.SetCursor(g.cursor - 1)
	case "j", "down":
		if g.cursor+cols < count {
			g.SetCursor(g.cursor + cols)
		}
	case "k", "up":
		if g.cursor-cols >= 0 {
			g.SetCursor(g.cursor - cols)
		}
	case "g", "home":
		g.SetCursor(0)
	case "G", "end":
		g.SetCursor(count - 1)
	case "ctrl+d", "pgdown":
		g.SetCursor(g.cursor + cols*max(g.VisibleRows()/2, 1))
	case "ctrl+u", "pgup":
		g.SetCursor(g.cursor - cols*max(g.VisibleRows()/2, 1))
	}

	return g, nil
}

// View renders the visible rows of cells
func (g Grid) View() string {
	count := g.Len()
	var body string

	if count == 0 {
		emptyMsg := "No items"
		if g.filterQuery != "" {
			emptyMsg = "No matches"
		}
		body = styles.DimStyle.Render(emptyMsg)
	} else {
		cols := g.Columns()
		var rows []string
		for r := g.offsetRow; r < g.offsetRow+g.VisibleRows(); r++ {
			start := r * cols
			if start >= count {
				break
			}
			var cells []string
			for pos := start; pos < min(start+cols, count); pos++ {
				cells = append(cells, g.renderCell(pos))
			}
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		}
		body = strings.Join(rows, "\n")
	}

	gridHeight := g.height
	if g.filterActive {
		gridHeight -= FilterBarLines
	}
	body = lipgloss.NewStyle().Width(g.width).Height(max(gridHeight, 0)).MaxHeight(max(gridHeight, 0)).Render(body)

	if g.filterActive {
		body += "\n" + g.renderFilterBar()
	}
	return body
}

func (g Grid) renderCell(pos int) string {
	item := g.items[g.mapIndex(pos)]
	selected := pos == g.cursor && g.focused
	inner := CellWidth - cellChrome

	prefix := fmt.Sprintf("#%d ", item.Rank)
	if item.Rank == 0 {
		prefix = fmt.Sprintf("#%d ", g.mapIndex(pos)+1)
	}
	title := highlightTitle(item.DisplayTitle(), g.matchedIndexes(pos), inner-lipgloss.Width(prefix))
	line1 := styles.AccentStyle.Render(prefix) + title

	line2 := styles.DimStyle.Render("no score")
	switch {
	case g.kind == domain.KindManga:
		line2 = styles.ScoreStyle.Render(item.ReadingSummary())
	case item.Score > 0:
		line2 = styles.ScoreStyle.Render(fmt.Sprintf("★ %.2f", item.Score))
	}

	style := styles.GridCellStyle
	if selected {
		style = styles.GridCellSelectedStyle
	}
	return style.Width(CellWidth - 2).Render(line1 + "\n" + line2)
}

// highlightTitle truncates title to width, styling matched rune positions
func highlightTitle(title string, matched []int, width int) string {
	runes := []rune(title)
	truncated := false
	if lipgloss.Width(title) > width {
		for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
			runes = runes[:len(runes)-1]
		}
		truncated = true
	}

	if len(matched) == 0 {
		out := string(runes)
		if truncated {
			out += "…"
		}
		return styles.TitleStyle.Render(out)
	}

	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}

	var b strings.Builder
	for i, r := range runes {
		if hit[i] {
			b.WriteString(styles.MatchHighlightStyle.Render(string(r)))
		} else {
			b.WriteString(styles.TitleStyle.Render(string(r)))
		}
	}
	if truncated {
		b.WriteString(styles.TitleStyle.Render("…"))
	}
	return b.String()
}

// renderFilterBar renders the filter input bar
func (g Grid) renderFilterBar() string {
	input := g.filterInput.View()

	countStr := ""
	if g.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", g.Len(), len(g.items)))
	}
	return input + countStr
}
