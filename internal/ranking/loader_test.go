package ranking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/toplist/internal/clock"
	"github.com/mmcdole/toplist/internal/domain"
)

type fakeClient struct {
	mu       sync.Mutex
	season   []domain.RankedItem
	manga    []domain.RankedItem
	listErr  error
	reading  map[int]int
	statsErr map[int]error

	gotYear   int
	gotSeason domain.Season
	statCalls int
}

func (c *fakeClient) SeasonAnime(_ context.Context, year int, season domain.Season) ([]domain.RankedItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gotYear, c.gotSeason = year, season
	if c.listErr != nil {
		return nil, c.listErr
	}
	return append([]domain.RankedItem(nil), c.season...), nil
}

func (c *fakeClient) TopManga(context.Context) ([]domain.RankedItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	return append([]domain.RankedItem(nil), c.manga...), nil
}

func (c *fakeClient) MangaStatistics(_ context.Context, id int) (domain.MangaStatistics, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statCalls++
	if err := c.statsErr[id]; err != nil {
		return domain.MangaStatistics{}, err
	}
	return domain.MangaStatistics{Reading: c.reading[id]}, nil
}

func numbered(n int) []domain.RankedItem {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i + 1
	}
	return items(ids...)
}

func TestSeasonLoaderTruncates(t *testing.T) {
	client := &fakeClient{season: numbered(30)}
	loader := SeasonLoader{Client: client, TopN: 24}

	got, err := loader.Load(context.Background(), epoch)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 24 {
		t.Fatalf("expected 24 items, got %d", len(got))
	}
	for i, item := range got {
		if item.ID != i+1 {
			t.Fatalf("expected rank order preserved, got id %d at %d", item.ID, i)
		}
	}
	if client.gotYear != 2026 || client.gotSeason != domain.SeasonFall {
		t.Errorf("expected 2026 fall, got %d %s", client.gotYear, client.gotSeason)
	}
	if key := loader.Key(epoch); key != "anime:2026:fall" {
		t.Errorf("unexpected key %q", key)
	}
}

func TestSeasonLoaderWrapsError(t *testing.T) {
	client := &fakeClient{listErr: domain.ErrRateLimited}
	_, err := SeasonLoader{Client: client}.Load(context.Background(), epoch)
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("expected wrapped rate limit error, got %v", err)
	}
}

func TestEnrichedLoaderSortsByReading(t *testing.T) {
	client := &fakeClient{
		manga: items(10, 20, 30),
		reading: map[int]int{
			10: 100,
			20: 500,
			30: 250,
		},
	}
	loader := EnrichedLoader{Client: client, Logger: testLogger()}

	got, err := loader.Load(context.Background(), epoch)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []int{20, 30, 10}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected id %d, got %d", i, id, got[i].ID)
		}
	}
	if got[0].Reading != 500 {
		t.Errorf("expected reading attached, got %d", got[0].Reading)
	}
}

func TestEnrichedLoaderStableOnTies(t *testing.T) {
	client := &fakeClient{
		manga:   items(1, 2, 3, 4),
		reading: map[int]int{1: 5, 2: 9, 3: 5, 4: 5},
	}
	got, err := EnrichedLoader{Client: client, Logger: testLogger()}.Load(context.Background(), epoch)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []int{2, 1, 3, 4}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: expected id %d, got %d", i, id, got[i].ID)
		}
	}
}

func TestEnrichedLoaderPartialFailure(t *testing.T) {
	client := &fakeClient{
		manga:    items(1, 2, 3),
		reading:  map[int]int{1: 10, 2: 30, 3: 20},
		statsErr: map[int]error{2: domain.ErrNetwork},
	}
	got, err := EnrichedLoader{Client: client, Logger: testLogger()}.Load(context.Background(), epoch)
	if err != nil {
		t.Fatalf("partial enrichment should not fail the batch: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected all items kept, got %d", len(got))
	}

	want := []int{3, 1, 2}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: expected id %d, got %d", i, id, got[i].ID)
		}
	}
	if got[2].Reading != 0 {
		t.Errorf("expected failed lookup to default to zero, got %d", got[2].Reading)
	}
}

func TestEnrichedLoaderTruncatesBeforeEnriching(t *testing.T) {
	client := &fakeClient{manga: numbered(50), reading: map[int]int{}}
	got, err := EnrichedLoader{Client: client, TopN: 24, Concurrency: 2, Logger: testLogger()}.Load(context.Background(), epoch)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 24 {
		t.Errorf("expected 24 items, got %d", len(got))
	}
	if client.statCalls != 24 {
		t.Errorf("expected 24 statistics lookups, got %d", client.statCalls)
	}
}

func TestEnrichedLoaderFailsWhenCancelled(t *testing.T) {
	client := &fakeClient{manga: numbered(3), reading: map[int]int{1: 10, 2: 20, 3: 30}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := EnrichedLoader{Client: client, Logger: testLogger()}.Load(ctx, epoch)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if got != nil {
		t.Errorf("expected no items, got %+v", got)
	}
}

func TestTopMangaPresetEndToEnd(t *testing.T) {
	clk := clock.NewFake(epoch)
	client := &fakeClient{listErr: domain.ErrNetwork}

	o := NewTopManga(Deps{Client: client, Clock: clk, Logger: testLogger()}, DefaultSettings())
	defer o.Stop()

	o.Start(context.Background())
	s := waitFor(t, o, isFailed(1))
	if s.RetryIn != 2*time.Second {
		t.Fatalf("expected 2s first backoff, got %v", s.RetryIn)
	}

	client.mu.Lock()
	client.listErr = nil
	client.manga = items(5, 6)
	client.reading = map[int]int{5: 1, 6: 2}
	client.mu.Unlock()

	clk.Advance(2 * time.Second)
	s = waitFor(t, o, isSuccess)
	if s.Items[0].ID != 6 {
		t.Errorf("expected reading order, got %+v", s.Items)
	}
	if s.Attempts != 0 {
		t.Errorf("expected attempts reset, got %d", s.Attempts)
	}
}
