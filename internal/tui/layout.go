package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/toplist/internal/domain"
	"github.com/mmcdole/toplist/internal/overlay"
	"github.com/mmcdole/toplist/internal/tui/components"
)

// Layout constants
const (
	TabBarHeight = 1
	StatusHeight = 1

	TopListWidth = 30

	// Below this width the side column is dropped
	MinWidthForTopList = 90
)

// screenLayout holds the calculated regions for the View. Everything is in
// absolute terminal cells.
type screenLayout struct {
	sliderTop    int
	sliderHeight int // 0 if not shown

	bodyTop    int
	bodyHeight int

	sideX     int
	sideWidth int // 0 if not shown

	gridX     int
	gridWidth int

	footerTop int
}

// layout computes the screen regions for the active tab
func (m Model) layout() screenLayout {
	footerHeight := lipgloss.Height(m.renderFooter())

	l := screenLayout{
		sliderTop:    TabBarHeight + StatusHeight,
		sliderHeight: components.SliderHeight,
	}

	remaining := m.height - TabBarHeight - StatusHeight - footerHeight
	// Keep at least one row of cells
	if remaining-l.sliderHeight < components.CellHeight {
		l.sliderHeight = 0
	}

	l.bodyTop = l.sliderTop + l.sliderHeight
	l.bodyHeight = max(remaining-l.sliderHeight, 0)
	l.footerTop = l.bodyTop + l.bodyHeight

	if m.views[m.active].hasTop && m.width >= MinWidthForTopList {
		l.sideWidth = TopListWidth
	}
	l.gridX = l.sideX + l.sideWidth
	l.gridWidth = max(m.width-l.sideWidth, 0)

	return l
}

// updateLayout pushes the computed sizes into the components
func (m *Model) updateLayout() {
	l := m.layout()
	for i := range m.views {
		v := &m.views[i]
		v.slider.SetWidth(m.width)
		v.top.SetSize(l.sideWidth, l.bodyHeight)
		v.grid.SetSize(l.gridWidth, l.bodyHeight)
	}
}

// hit is a trigger under the pointer
type hit struct {
	rect    overlay.Rect // absolute
	item    domain.RankedItem
	gridPos int // -1 when from the side column
	topRow  int // -1 when from the grid
}

// hitTest finds the trigger at an absolute point
func (m Model) hitTest(x, y int) (hit, bool) {
	l := m.layout()
	v := m.views[m.active]

	if y < l.bodyTop || y >= l.bodyTop+l.bodyHeight {
		return hit{}, false
	}

	if l.sideWidth > 0 && x >= l.sideX && x < l.sideX+l.sideWidth {
		row, ok := v.top.HitTest(x-l.sideX, y-l.bodyTop)
		if !ok {
			return hit{}, false
		}
		item, _ := v.top.ItemAt(row)
		rect, _ := v.top.RowRect(row)
		return hit{rect: offset(rect, l.sideX, l.bodyTop), item: item, gridPos: -1, topRow: row}, true
	}

	pos, ok := v.grid.HitTest(x-l.gridX, y-l.bodyTop)
	if !ok {
		return hit{}, false
	}
	item, _ := v.grid.ItemAt(pos)
	rect, _ := v.grid.CellRect(pos)
	return hit{rect: offset(rect, l.gridX, l.bodyTop), item: item, gridPos: pos, topRow: -1}, true
}

// overlayBox renders the detail panel and returns its on-screen box,
// clamped to the terminal
func (m Model) overlayBox() (string, overlay.Rect, bool) {
	st := m.overlayState
	if !st.Shown() || st.Item == nil {
		return "", overlay.Rect{}, false
	}

	panel := components.RenderDetail(*st.Item, m.views[m.active].kind, m.panelWidth)
	w, h := components.DetailSize(panel)

	left := min(max(int(st.Position.Left), 0), max(m.width-w, 0))
	top := min(max(int(st.Position.Top), 0), max(m.height-h, 0))

	return panel, overlay.Rect{
		Left:   float64(left),
		Top:    float64(top),
		Width:  float64(w),
		Height: float64(h),
	}, true
}

func offset(r overlay.Rect, dx, dy int) overlay.Rect {
	r.Left += float64(dx)
	r.Top += float64(dy)
	return r
}
