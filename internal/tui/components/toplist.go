package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/toplist/internal/domain"
	"github.com/mmcdole/toplist/internal/overlay"
	"github.com/mmcdole/toplist/internal/tui/styles"
)

// Border overhead for bordered panels
const BorderSize = 2

// TopListSize is how many entries the side column shows
const TopListSize = 8

// TopList is the compact "Top 8" column beside the grid. Each row is a
// trigger for the detail overlay.
type TopList struct {
	title    string
	items    []domain.RankedItem
	width    int
	height   int
	selected int // -1 when no row is highlighted
}

// NewTopList creates a side column with the given heading
func NewTopList(title string) TopList {
	return TopList{title: title, selected: -1}
}

// SetItems keeps the first TopListSize items
func (t *TopList) SetItems(items []domain.RankedItem) {
	t.items = items[:min(len(items), TopListSize)]
	if t.selected >= len(t.items) {
		t.selected = -1
	}
}

// SetSize updates the component dimensions
func (t *TopList) SetSize(width, height int) {
	t.width = width
	t.height = height
}

// Width returns the outer width
func (t TopList) Width() int {
	return t.width
}

// Len returns the number of rows
func (t TopList) Len() int {
	return len(t.items)
}

// SetSelected highlights a row (-1 for none)
func (t *TopList) SetSelected(i int) {
	t.selected = i
}

// ItemAt returns the item in row i
func (t TopList) ItemAt(i int) (domain.RankedItem, bool) {
	if i < 0 || i >= len(t.items) {
		return domain.RankedItem{}, false
	}
	return t.items[i], true
}

// rowTop is the first row line: top border + heading
const rowTop = 2

// RowRect returns row i's rectangle relative to the column's top-left corner
func (t TopList) RowRect(i int) (overlay.Rect, bool) {
	if i < 0 || i >= len(t.items) || rowTop+i >= t.height-1 {
		return overlay.Rect{}, false
	}
	return overlay.Rect{Left: 0, Top: float64(rowTop + i), Width: float64(t.width), Height: 1}, true
}

// HitTest maps a point relative to the column origin to a row
func (t TopList) HitTest(x, y int) (int, bool) {
	if x < 0 || x >= t.width {
		return 0, false
	}
	i := y - rowTop
	if _, ok := t.RowRect(i); !ok {
		return 0, false
	}
	return i, true
}

// View renders the column
func (t TopList) View() string {
	inner := max(t.width-BorderSize, 1)

	lines := []string{styles.AccentStyle.Render(styles.Truncate(t.title, inner))}
	for i, item := range t.items {
		rank := fmt.Sprintf("%d. ", i+1)
		title := styles.Truncate(item.DisplayTitle(), inner-lipgloss.Width(rank)-2)
		var score string
		if item.Score > 0 {
			score = fmt.Sprintf(" %.1f", item.Score)
			title = styles.Truncate(item.DisplayTitle(), inner-lipgloss.Width(rank)-len(score)-2)
		}
		gold := styles.Gold
		parts := []styles.RowPart{{Text: rank + title}}
		if score != "" {
			parts = append(parts, styles.RowPart{Text: score, Foreground: &gold})
		}
		lines = append(lines, styles.RenderListRow(parts, i == t.selected, inner))
	}
	if len(t.items) == 0 {
		lines = append(lines, styles.DimStyle.Render("nothing yet"))
	}

	contentHeight := max(t.height-BorderSize, 1)
	if len(lines) > contentHeight {
		lines = lines[:contentHeight]
	}

	return styles.InactiveBorder.
		Width(inner).
		Height(contentHeight).
		Render(strings.Join(lines, "\n"))
}
