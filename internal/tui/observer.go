package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/toplist/internal/domain"
	"github.com/mmcdole/toplist/internal/overlay"
)

// ChannelObserver adapts ranking and overlay notifications to a channel for
// Bubble Tea. The model re-reads current state on every message, so a
// dropped send only delays a redraw.
type ChannelObserver struct {
	ch chan<- tea.Msg
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(ch chan<- tea.Msg) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnState implements domain.StateObserver.
func (o *ChannelObserver) OnState(name string, state domain.FetchState) {
	o.send(StateMsg{Name: name, State: state})
}

// OnOverlay is passed to overlay.NewController as its change callback.
func (o *ChannelObserver) OnOverlay(state overlay.State) {
	o.send(OverlayMsg{State: state})
}

func (o *ChannelObserver) send(msg tea.Msg) {
	select {
	case o.ch <- msg:
	default: // Non-blocking if channel full
	}
}
