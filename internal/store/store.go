package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/mmcdole/toplist/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketRankings = []byte("rankings")
)

const dbFileName = "toplist.db"

// RankingStore implements domain.RankingStore using BoltDB.
type RankingStore struct {
	db     *bolt.DB
	logger *slog.Logger
	mu     sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access).
	// Values are never mutated in place, only replaced.
	cache map[string][]byte
}

// NewRankingStore opens the store under cacheDir. An empty cacheDir gives a
// memory-only store.
func NewRankingStore(cacheDir string, logger *slog.Logger) (*RankingStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cacheDir == "" {
		// Memory-only mode (no persistence)
		return &RankingStore{logger: logger, cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cacheDir, dbFileName)
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRankings)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &RankingStore{db: db, logger: logger, cache: make(map[string][]byte)}, nil
}

// NewMemoryStore returns a store that never touches disk
func NewMemoryStore(logger *slog.Logger) *RankingStore {
	s, _ := NewRankingStore("", logger)
	return s
}

func (s *RankingStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Read returns the ranking stored under key. A corrupt record is evicted
// and reported as a miss.
func (s *RankingStore) Read(key string) ([]domain.RankedItem, bool) {
	data, ok := s.getRaw(key)
	if !ok {
		return nil, false
	}

	var items []domain.RankedItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("discarding cached ranking",
			"key", key, "error", fmt.Errorf("%w: %v", domain.ErrCacheCorrupt, err))
		s.Invalidate(key)
		return nil, false
	}
	return items, true
}

// Write replaces the ranking stored under key
func (s *RankingStore) Write(key string, items []domain.RankedItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.putRaw(key, data)
}

// Keys returns every stored key, sorted
func (s *RankingStore) Keys() []string {
	seen := make(map[string]struct{})

	s.mu.RLock()
	for k := range s.cache {
		seen[k] = struct{}{}
	}
	s.mu.RUnlock()

	if s.db != nil {
		s.db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucketRankings)
			if b == nil {
				return nil
			}
			return b.ForEach(func(k, _ []byte) error {
				seen[string(k)] = struct{}{}
				return nil
			})
		})
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *RankingStore) Invalidate(key string) {
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRankings)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

func (s *RankingStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRankings)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Raw helpers ===

func (s *RankingStore) getRaw(key string) ([]byte, bool) {
	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return data, true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false
	}

	// Bolt values are only valid inside the transaction, so copy out
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRankings)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return nil, false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	return data, true
}

func (s *RankingStore) putRaw(key string, data []byte) error {
	if s.db != nil {
		// Single transaction: readers see the old value or the new one, never a mix
		err := s.db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucketRankings)
			return b.Put([]byte(key), data)
		})
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()
	return nil
}
