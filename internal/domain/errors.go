package domain

import "errors"

// Sentinel errors for ranking acquisition
var (
	// ErrNetwork indicates the request failed or returned a non-success status
	ErrNetwork = errors.New("ranking api request failed")

	// ErrRateLimited indicates the API rejected the request with 429
	ErrRateLimited = errors.New("ranking api rate limit exceeded")

	// ErrParse indicates the response body was not in the expected shape
	ErrParse = errors.New("ranking api response malformed")

	// ErrEmptyResult indicates a successful response with zero items
	ErrEmptyResult = errors.New("ranking api returned no items")

	// ErrCacheCorrupt indicates a stored ranking could not be decoded
	ErrCacheCorrupt = errors.New("cached ranking is unreadable")

	// ErrPartialEnrichment indicates some per-item statistics calls failed
	ErrPartialEnrichment = errors.New("some item statistics could not be fetched")
)
