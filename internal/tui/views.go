package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mmcdole/toplist/internal/tui/components"
	"github.com/mmcdole/toplist/internal/tui/styles"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	l := m.layout()
	v := m.views[m.active]

	sections := []string{
		m.renderTabs(),
		components.StatusLine(v.state, m.spinner.View(), m.width),
	}
	if l.sliderHeight > 0 {
		sections = append(sections, v.slider.View())
	}

	body := v.grid.View()
	if l.sideWidth > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, v.top.View(), body)
	}
	sections = append(sections, lipgloss.NewStyle().Height(l.bodyHeight).MaxHeight(l.bodyHeight).Render(body))
	sections = append(sections, m.renderFooter())

	view := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if panel, box, ok := m.overlayBox(); ok {
		view = composite(view, panel, int(box.Left), int(box.Top))
	}
	return view
}

// renderTabs renders the tab bar with the app name on the right
func (m Model) renderTabs() string {
	var tabs []string
	for i, v := range m.views {
		if Tab(i) == m.active {
			tabs = append(tabs, styles.ActiveTabStyle.Render(v.title))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(v.title))
		}
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	right := styles.AccentStyle.Render("toplist")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return styles.Truncate(left, m.width)
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderFooter renders the key help
func (m Model) renderFooter() string {
	return m.help.View(m.keys)
}

// composite draws panel over base with its top-left corner at (left, top)
func composite(base, panel string, left, top int) string {
	baseLines := strings.Split(base, "\n")
	panelLines := strings.Split(panel, "\n")
	panelWidth := lipgloss.Width(panel)

	for len(baseLines) < top+len(panelLines) {
		baseLines = append(baseLines, "")
	}

	for i, pl := range panelLines {
		row := top + i
		line := baseLines[row]

		prefix := ansi.Truncate(line, left, "")
		if w := ansi.StringWidth(prefix); w < left {
			prefix += strings.Repeat(" ", left-w)
		}
		suffix := ansi.TruncateLeft(line, left+panelWidth, "")

		baseLines[row] = prefix + "\x1b[0m" + pl + "\x1b[0m" + suffix
	}

	return strings.Join(baseLines, "\n")
}
