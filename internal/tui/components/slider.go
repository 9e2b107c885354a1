package components

import (
	"fmt"
	"strings"

	"github.com/mmcdole/toplist/internal/domain"
	"github.com/mmcdole/toplist/internal/tui/styles"
)

// SliderHeight is the slider's outer height: border + badge, title and
// two synopsis lines
const SliderHeight = 6

// Slider cycles through the ranked list one feature at a time
type Slider struct {
	items []domain.RankedItem
	kind  domain.ContentKind
	index int
	width int
}

// NewSlider creates an empty slider
func NewSlider() Slider {
	return Slider{}
}

// SetItems replaces the content, keeping the current feature when it is
// still in the list
func (s *Slider) SetItems(items []domain.RankedItem, kind domain.ContentKind) {
	var currentID int
	if item, ok := s.Current(); ok {
		currentID = item.ID
	}
	s.items = items
	s.kind = kind
	s.index = 0
	for i, item := range items {
		if item.ID == currentID {
			s.index = i
			break
		}
	}
}

// SetWidth sets the outer width
func (s *Slider) SetWidth(width int) {
	s.width = width
}

// Len returns the number of slides
func (s Slider) Len() int {
	return len(s.items)
}

// Index returns the current slide
func (s Slider) Index() int {
	return s.index
}

// Current returns the featured item
func (s Slider) Current() (domain.RankedItem, bool) {
	if s.index < 0 || s.index >= len(s.items) {
		return domain.RankedItem{}, false
	}
	return s.items[s.index], true
}

// Next advances to the next slide, wrapping around
func (s *Slider) Next() {
	if len(s.items) > 0 {
		s.index = (s.index + 1) % len(s.items)
	}
}

// Prev moves to the previous slide, wrapping around
func (s *Slider) Prev() {
	if len(s.items) > 0 {
		s.index = (s.index - 1 + len(s.items)) % len(s.items)
	}
}

// View renders the featured item
func (s Slider) View() string {
	inner := max(s.width-BorderSize-2, 10)

	var lines []string
	item, ok := s.Current()
	if !ok {
		lines = []string{styles.DimStyle.Render("Waiting for rankings..."), "", "", ""}
	} else {
		counter := styles.DimStyle.Render(fmt.Sprintf(" %d/%d", s.index+1, len(s.items)))
		badge := styles.BadgeStyle.Render("Trending")
		if item.Rank > 0 {
			badge += " " + styles.DimBadgeStyle.Render(fmt.Sprintf("#%d", item.Rank))
		}
		lines = append(lines, badge+counter)

		var suffix string
		switch {
		case s.kind == domain.KindManga:
			suffix = "  " + item.ReadingSummary()
		case item.Score > 0:
			suffix = fmt.Sprintf("  ★ %.2f", item.Score)
		}
		title := styles.Truncate(item.DisplayTitle(), max(inner-len([]rune(suffix)), 1))
		lines = append(lines, styles.TitleStyle.Render(title)+styles.ScoreStyle.Render(suffix))

		synopsis := styles.Wrap(item.Synopsis, inner, 2)
		for len(synopsis) < 2 {
			synopsis = append(synopsis, "")
		}
		for _, l := range synopsis {
			lines = append(lines, styles.SubtitleStyle.Render(l))
		}
	}

	return styles.InactiveBorder.
		Padding(0, 1).
		Width(max(s.width-BorderSize, 1)).
		Render(strings.Join(lines, "\n"))
}
