package ranking

import "time"

// RetryPolicy decides whether and when to retry after a failed attempt.
// failures is the number of consecutive failures so far (>= 1) and hasData
// reports whether a payload has ever been obtained.
type RetryPolicy interface {
	Next(failures int, hasData bool) (time.Duration, bool)
}

// FixedDelay retries forever after the same delay.
// Used for the seasonal slider so it heals without user action.
type FixedDelay struct {
	Delay time.Duration
}

func (p FixedDelay) Next(int, bool) (time.Duration, bool) {
	return p.Delay, true
}

// CappedBackoff retries with delay min(Base*2^failures, Max), but only until
// a payload exists. Once the user has data on screen, failures surface
// instead of retrying.
type CappedBackoff struct {
	Base time.Duration
	Max  time.Duration
}

func (p CappedBackoff) Next(failures int, hasData bool) (time.Duration, bool) {
	if hasData {
		return 0, false
	}
	if failures < 0 {
		failures = 0
	}

	delay := p.Base
	for i := 0; i < failures; i++ {
		if delay >= p.Max {
			break
		}
		delay *= 2
	}
	if delay > p.Max {
		delay = p.Max
	}
	return delay, true
}

// NoRetry never retries
type NoRetry struct{}

func (NoRetry) Next(int, bool) (time.Duration, bool) { return 0, false }
