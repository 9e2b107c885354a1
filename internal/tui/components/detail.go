package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/toplist/internal/domain"
	"github.com/mmcdole/toplist/internal/tui/styles"
)

// Detail panel chrome: border (1 each side) + Padding(0,1)
const detailChrome = 4

// SynopsisLines is how many synopsis lines the panel shows
const SynopsisLines = 3

// detailField is a labelled row of the panel
type detailField struct {
	label string
	value string
}

// RenderDetail renders the detail panel for item at the given outer width
func RenderDetail(item domain.RankedItem, kind domain.ContentKind, width int) string {
	contentWidth := max(width-detailChrome, 10)

	var lines []string
	for _, l := range styles.Wrap(item.DisplayTitle(), contentWidth, 2) {
		lines = append(lines, styles.TitleStyle.Render(l))
	}
	if item.TitleEnglish != "" && item.TitleEnglish != item.Title {
		lines = append(lines, styles.SubtitleStyle.Render(styles.Truncate(item.Title, contentWidth)))
	}

	if item.Synopsis != "" {
		lines = append(lines, "")
		for _, l := range styles.Wrap(item.Synopsis, contentWidth, SynopsisLines) {
			lines = append(lines, styles.SubtitleStyle.Render(l))
		}
	}

	fields := detailFields(item, kind)
	if len(fields) > 0 {
		lines = append(lines, "")
	}
	for _, f := range fields {
		lines = append(lines, renderField(f, contentWidth)...)
	}

	return styles.OverlayStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// DetailSize returns the outer size of the rendered panel
func DetailSize(panel string) (width, height int) {
	return lipgloss.Width(panel), lipgloss.Height(panel)
}

func detailFields(item domain.RankedItem, kind domain.ContentKind) []detailField {
	creators := "Studio"
	if kind == domain.KindManga {
		creators = "Authors"
	}

	all := []detailField{
		{"Other names", item.OtherNames()},
		{"Scores", item.ScoreSummary()},
		{creators, item.StudioList()},
		{"Type", item.Type},
		{"Duration", item.Duration},
		{"Status", item.Status},
		{"Genre", item.GenreList()},
		{"Members", item.MembersSummary()},
	}
	if kind == domain.KindManga {
		all = append(all, detailField{"Reading", item.ReadingSummary()})
	}

	// Absent fields render as nothing
	fields := all[:0]
	for _, f := range all {
		if f.value != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// renderField renders "Label: value", wrapping the value under the label
func renderField(f detailField, width int) []string {
	label := f.label + ": "
	labelWidth := lipgloss.Width(label)
	if labelWidth >= width {
		return []string{styles.Truncate(styles.LabelStyle.Render(f.label), width)}
	}

	wrapped := styles.Wrap(f.value, width-labelWidth, 2)
	out := make([]string, 0, len(wrapped))
	for i, v := range wrapped {
		prefix := strings.Repeat(" ", labelWidth)
		if i == 0 {
			prefix = styles.LabelStyle.Render(label)
		}
		out = append(out, prefix+styles.SubtitleStyle.Render(v))
	}
	return out
}
