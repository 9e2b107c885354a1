package domain

// RankingStore is the persistent, best-effort cache of fetched rankings.
// One slot per key; a write replaces the whole list.
type RankingStore interface {
	// Read returns the cached list for key. Unreadable entries are a miss.
	Read(key string) ([]RankedItem, bool)

	// Write replaces the list stored under key.
	Write(key string, items []RankedItem) error

	// Keys lists every stored key.
	Keys() []string

	Invalidate(key string)
	InvalidateAll()

	Close() error
}
