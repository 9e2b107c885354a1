package domain

import "context"

// MangaStatistics is the per-title reading breakdown for a manga
type MangaStatistics struct {
	Reading    int
	Completed  int
	OnHold     int
	Dropped    int
	PlanToRead int
	Total      int
}

// RankingClient provides access to the remote ranking API
type RankingClient interface {
	// SeasonAnime returns the anime airing in the given season, in API order
	SeasonAnime(ctx context.Context, year int, season Season) ([]RankedItem, error)

	// TopManga returns the top manga ranking, in rank order
	TopManga(ctx context.Context) ([]RankedItem, error)

	// MangaStatistics returns reading statistics for a single manga
	MangaStatistics(ctx context.Context, id int) (MangaStatistics, error)
}
