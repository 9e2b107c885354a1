package domain

import "time"

// FetchStatus is the lifecycle stage of a ranking fetch
type FetchStatus int

const (
	StatusIdle FetchStatus = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s FetchStatus) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// FetchState is a snapshot of an orchestrator.
// Items holds the payload on success and the last good payload otherwise.
type FetchState struct {
	Status    FetchStatus
	Items     []RankedItem
	Err       error         // Reason for the last failure
	Attempts  int           // Consecutive failed attempts
	RetryIn   time.Duration // Delay of the scheduled retry (0 = none)
	FromCache bool          // Success was served from the cache
}

// HasItems returns true if there is a list to display
func (s FetchState) HasItems() bool {
	return len(s.Items) > 0
}
