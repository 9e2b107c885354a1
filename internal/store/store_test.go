package store

import (
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/mmcdole/toplist/internal/domain"
	bolt "go.etcd.io/bbolt"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleItems() []domain.RankedItem {
	return []domain.RankedItem{
		{
			ID:           16498,
			Rank:         1,
			Title:        "Shingeki no Kyojin",
			TitleEnglish: "Attack on Titan",
			Synonyms:     []string{"AoT"},
			ImageURL:     "https://cdn.example/16498.jpg",
			Score:        8.55,
			ScoredBy:     2700000,
			Genres:       []string{"Action", "Drama"},
			Studios:      []string{"Wit Studio"},
		},
		{ID: 2, Rank: 2, Title: "Berserk", Reading: 41000},
	}
}

func TestRankingStoreRoundTrip(t *testing.T) {
	s, err := NewRankingStore(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("NewRankingStore failed: %v", err)
	}
	defer s.Close()

	items := sampleItems()
	if err := s.Write("anime:2026:fall", items); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, ok := s.Read("anime:2026:fall")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !reflect.DeepEqual(got, items) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, items)
	}
}

func TestRankingStoreMiss(t *testing.T) {
	s := NewMemoryStore(testLogger())

	if _, ok := s.Read("manga:top"); ok {
		t.Error("expected miss on empty store")
	}
}

func TestRankingStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewRankingStore(dir, testLogger())
	if err != nil {
		t.Fatalf("NewRankingStore failed: %v", err)
	}
	if err := s.Write(domain.TopMangaKey, sampleItems()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	s.Close()

	reopened, err := NewRankingStore(dir, testLogger())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, ok := reopened.Read(domain.TopMangaKey)
	if !ok {
		t.Fatal("expected persisted entry after reopen")
	}
	if len(got) != 2 || got[1].Reading != 41000 {
		t.Errorf("unexpected persisted payload: %+v", got)
	}
}

func TestRankingStoreWriteReplacesWholesale(t *testing.T) {
	s := NewMemoryStore(testLogger())

	s.Write("k", sampleItems())
	replacement := []domain.RankedItem{{ID: 99, Title: "Only"}}
	if err := s.Write("k", replacement); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, _ := s.Read("k")
	if !reflect.DeepEqual(got, replacement) {
		t.Errorf("expected full replacement, got %+v", got)
	}
}

func TestRankingStoreCorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	s, err := NewRankingStore(dir, testLogger())
	if err != nil {
		t.Fatalf("NewRankingStore failed: %v", err)
	}
	defer s.Close()

	// Write garbage straight into bolt, bypassing the memory cache
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRankings).Put([]byte("anime:2026:fall"), []byte("{not json"))
	})
	if err != nil {
		t.Fatalf("raw put failed: %v", err)
	}

	if _, ok := s.Read("anime:2026:fall"); ok {
		t.Fatal("expected corrupt entry to read as a miss")
	}

	// Corrupt record is evicted
	for _, k := range s.Keys() {
		if k == "anime:2026:fall" {
			t.Error("expected corrupt entry to be removed")
		}
	}
}

func TestRankingStoreInvalidate(t *testing.T) {
	s, err := NewRankingStore(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("NewRankingStore failed: %v", err)
	}
	defer s.Close()

	s.Write("a", sampleItems())
	s.Write("b", sampleItems())

	if keys := s.Keys(); !reflect.DeepEqual(keys, []string{"a", "b"}) {
		t.Errorf("unexpected keys: %v", keys)
	}

	s.Invalidate("a")
	if _, ok := s.Read("a"); ok {
		t.Error("expected a to be invalidated")
	}
	if _, ok := s.Read("b"); !ok {
		t.Error("expected b to survive")
	}

	s.InvalidateAll()
	if keys := s.Keys(); len(keys) != 0 {
		t.Errorf("expected empty store, got %v", keys)
	}
}
