// Package overlay positions the detail panel next to a selected item and
// manages its show/hide hysteresis.
package overlay

import "time"

// Rect is an axis-aligned box in viewport units
type Rect struct {
	Left, Top     float64
	Width, Height float64
}

// Contains reports whether the point lies inside r (right/bottom exclusive)
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x < r.Left+r.Width && y >= r.Top && y < r.Top+r.Height
}

// Size is a viewport extent
type Size struct {
	Width, Height float64
}

// Position is the overlay's top-left anchor
type Position struct {
	Top, Left float64
}

// Layout holds the placement constants
type Layout struct {
	NarrowWidth   float64 // Viewports at or below this width centre the panel
	EdgeClearance float64 // Triggers ending within this distance of the right edge flip left
	LeftOffset    float64
	Gap           float64
	CenterOffset  float64
	HideDelay     time.Duration
}

// DefaultLayout returns the pixel layout used by browsers
func DefaultLayout() Layout {
	return Layout{
		NarrowWidth:   768,
		EdgeClearance: 350,
		LeftOffset:    320,
		Gap:           10,
		CenterOffset:  100,
		HideDelay:     300 * time.Millisecond,
	}
}

// Place computes where the overlay goes for a trigger in a viewport
func Place(trigger Rect, viewport Size, l Layout) Position {
	pos := Position{Top: trigger.Top}

	switch {
	case viewport.Width <= l.NarrowWidth:
		pos.Left = viewport.Width/2 - l.CenterOffset
	case trigger.Left+trigger.Width > viewport.Width-l.EdgeClearance:
		pos.Left = trigger.Left - l.LeftOffset
	default:
		pos.Left = trigger.Left + trigger.Width + l.Gap
	}

	return pos
}
