package tui

import (
	"github.com/mmcdole/toplist/internal/domain"
	"github.com/mmcdole/toplist/internal/overlay"
)

// Message types for the TUI

// StateMsg carries a fetch state transition of one ranking
type StateMsg struct {
	Name  string
	State domain.FetchState
}

// OverlayMsg signals that the detail overlay changed
type OverlayMsg struct {
	State overlay.State
}

// SliderTickMsg advances the slider. Ticks from an older schedule are ignored.
type SliderTickMsg struct {
	Gen int
}
