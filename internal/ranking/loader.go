package ranking

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/mmcdole/toplist/internal/domain"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTopN bounds every fetched ranking; API rank order is preserved
	DefaultTopN = 24

	defaultEnrichConcurrency = 4
)

// Loader fetches one ranking from the network
type Loader interface {
	// Key returns the cache key for the ranking at now
	Key(now time.Time) string

	// Load fetches the ranking. An empty result is returned as-is; the
	// orchestrator decides what empty means.
	Load(ctx context.Context, now time.Time) ([]domain.RankedItem, error)
}

// SeasonLoader loads the current season's anime
type SeasonLoader struct {
	Client domain.RankingClient
	TopN   int
}

// Key names the current season's cache entry
func (l SeasonLoader) Key(now time.Time) string {
	return domain.SeasonKey(now)
}

// Load fetches the current season and keeps the leading TopN titles
func (l SeasonLoader) Load(ctx context.Context, now time.Time) ([]domain.RankedItem, error) {
	year, season := domain.SeasonOf(now)
	items, err := l.Client.SeasonAnime(ctx, year, season)
	if err != nil {
		return nil, fmt.Errorf("season %d %s: %w", year, season, err)
	}
	return truncate(items, l.TopN), nil
}

// EnrichedLoader loads the top manga, attaches per-title reading counts and
// orders the list by them.
type EnrichedLoader struct {
	Client      domain.RankingClient
	TopN        int
	Concurrency int
	Logger      *slog.Logger
}
// Key is the fixed top manga cache entry
func (l EnrichedLoader) Key(time.Time) string {
	return domain.TopMangaKey
}

// Load fetches the top manga, enriches the leading TopN and sorts them by
// reading count
func (l EnrichedLoader) Load(ctx context.Context, _ time.Time) ([]domain.RankedItem, error) {
	items, err := l.Client.TopManga(ctx)
	if err != nil {
		return nil, fmt.Errorf("top manga: %w", err)
	}
	items = truncate(items, l.TopN)
	if len(items) == 0 {
		return items, nil
	}

	failed, err := l.enrich(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("manga statistics: %w", err)
	}
	if failed > 0 {
		l.logger().Warn("reading counts defaulted to zero",
			"error", domain.ErrPartialEnrichment, "failed", failed, "total", len(items))
	}

	// Ties keep their API rank order
	slices.SortStableFunc(items, func(a, b domain.RankedItem) int {
		return cmp.Compare(b.Reading, a.Reading)
	})
	return items, nil
}

// enrich fills Reading for every item concurrently and returns how many
// lookups failed. A failed lookup never fails the batch; a cancelled ctx does.
func (l EnrichedLoader) enrich(ctx context.Context, items []domain.RankedItem) (int, error) {
	limit := l.Concurrency
	if limit <= 0 {
		limit = defaultEnrichConcurrency
	}

	var failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range items {
		g.Go(func() error {
			stats, err := l.Client.MangaStatistics(gctx, items[i].ID)
			if err != nil {
				l.logger().Debug("failed to fetch manga statistics", "id", items[i].ID, "error", err)
				failed.Add(1)
				items[i].Reading = 0
				return nil
			}
			items[i].Reading = stats.Reading
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return int(failed.Load()), nil
}

func (l EnrichedLoader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// truncate returns at most n leading items; n <= 0 means DefaultTopN
func truncate(items []domain.RankedItem, n int) []domain.RankedItem {
	if n <= 0 {
		n = DefaultTopN
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}
