package components

import (
	"errors"
	"fmt"
	"math"

	"github.com/mmcdole/toplist/internal/domain"
	"github.com/mmcdole/toplist/internal/tui/styles"
)

// StatusLine renders the fetch state of the active list in one line.
// spinner is the current spinner frame.
func StatusLine(state domain.FetchState, spinner string, width int) string {
	var line string

	switch state.Status {
	case domain.StatusLoading:
		line = spinner + " " + styles.SubtitleStyle.Render("Loading...")
		if state.Attempts > 0 {
			line += styles.DimStyle.Render(fmt.Sprintf(" (attempt %d)", state.Attempts+1))
		}
	case domain.StatusFailed:
		line = styles.ErrorStyle.Render("✗ " + failureReason(state.Err))
		if state.RetryIn > 0 {
			secs := int(math.Ceil(state.RetryIn.Seconds()))
			line += styles.DimStyle.Render(fmt.Sprintf(" · retrying in %ds", secs))
		} else {
			line += styles.DimStyle.Render(" · press r to retry")
		}
		if state.HasItems() {
			line += styles.DimStyle.Render(" · showing last results")
		}
	case domain.StatusSuccess:
		line = styles.SuccessStyle.Render(fmt.Sprintf("✓ %d titles", len(state.Items)))
		if state.FromCache {
			line += styles.DimStyle.Render(" · cached")
		}
	default:
		line = styles.DimStyle.Render("idle")
	}

	return styles.Truncate(line, width)
}

func failureReason(err error) string {
	switch {
	case err == nil:
		return "failed"
	case errors.Is(err, domain.ErrRateLimited):
		return "API limit reached"
	case errors.Is(err, domain.ErrNetwork):
		return "network error"
	case errors.Is(err, domain.ErrEmptyResult):
		return "no results"
	case errors.Is(err, domain.ErrParse):
		return "unexpected response"
	default:
		return err.Error()
	}
}
