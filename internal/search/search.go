// Package search filters ranked lists by title
package search

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/toplist/internal/domain"
	sfuzzy "github.com/sahilm/fuzzy"
)

// Match is a filtered item with the title positions that matched
type Match struct {
	Index          int   // Index in the source list
	MatchedIndexes []int // Rune positions in DisplayTitle (nil for alias matches)
}

// Index implements sahilm/fuzzy.Source over display titles
type Index struct {
	items       []domain.RankedItem
	lowerTitles []string
}

// NewIndex pre-computes lowercase titles for items
func NewIndex(items []domain.RankedItem) *Index {
	idx := &Index{
		items:       items,
		lowerTitles: make([]string, len(items)),
	}
	for i, item := range items {
		idx.lowerTitles[i] = strings.ToLower(item.DisplayTitle())
	}
	return idx
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx *Index) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of items (implements fuzzy.Source)
func (idx *Index) Len() int { return len(idx.items) }

// Find matches query against display titles, best first. Items that only
// match through their native title or a synonym follow in rank order.
func (idx *Index) Find(query string) []Match {
	query = strings.TrimSpace(query)
	if query == "" || idx.Len() == 0 {
		return nil
	}

	matches := sfuzzy.FindFrom(strings.ToLower(query), idx)

	results := make([]Match, 0, len(matches))
	seen := make(map[int]bool, len(matches))
	for _, m := range matches {
		seen[m.Index] = true
		results = append(results, Match{Index: m.Index, MatchedIndexes: m.MatchedIndexes})
	}

	for i, item := range idx.items {
		if seen[i] {
			continue
		}
		if matchesAlias(query, item) {
			results = append(results, Match{Index: i})
		}
	}

	return results
}

func matchesAlias(query string, item domain.RankedItem) bool {
	for _, name := range append([]string{item.Title}, item.Synonyms...) {
		if name != "" && fuzzy.MatchFold(query, name) {
			return true
		}
	}
	return false
}

// Filter returns the indices of items matching query, best first.
// An empty query returns nil.
func Filter(items []domain.RankedItem, query string) []int {
	matches := NewIndex(items).Find(query)
	if matches == nil {
		return nil
	}

	indices := make([]int, len(matches))
	for i, m := range matches {
		indices[i] = m.Index
	}
	return indices
}
