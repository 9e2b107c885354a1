package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Command factories for async operations

// WaitForNotification blocks on the notification channel and delivers the
// next message. Re-issue it after each delivery.
func WaitForNotification(ch <-chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// SliderTickCmd schedules the next automatic slide
func SliderTickCmd(gen int, interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return SliderTickMsg{Gen: gen}
	})
}

// StartCmd starts a ranking fetch
func StartCmd(ctx context.Context, f Fetcher) tea.Cmd {
	return func() tea.Msg {
		f.Start(ctx)
		return nil
	}
}

// RefreshCmd starts a fresh fetch, superseding any in flight
func RefreshCmd(ctx context.Context, f Fetcher) tea.Cmd {
	return func() tea.Msg {
		f.Refresh(ctx)
		return nil
	}
}
