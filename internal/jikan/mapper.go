package jikan

import (
	"strings"

	"github.com/mmcdole/toplist/internal/domain"
)

// MapEntries converts Jikan entries to ranked items, preserving API order.
// Duplicate IDs keep their first occurrence.
func MapEntries(entries []Entry, kind domain.ContentKind) []domain.RankedItem {
	items := make([]domain.RankedItem, 0, len(entries))
	seen := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.MalID]; dup {
			continue
		}
		seen[e.MalID] = struct{}{}
		items = append(items, mapEntry(e, kind))
	}
	return items
}

// mapEntry converts a single entry
func mapEntry(e Entry, kind domain.ContentKind) domain.RankedItem {
	item := domain.RankedItem{
		ID:           e.MalID,
		Rank:         deref(e.Rank),
		Title:        strings.TrimSpace(e.Title),
		TitleEnglish: strings.TrimSpace(deref(e.TitleEnglish)),
		Synonyms:     nonEmpty(e.TitleSynonyms),
		ImageURL:     pickImage(e.Images),
		Synopsis:     strings.TrimSpace(deref(e.Synopsis)),
		Score:        deref(e.Score),
		ScoredBy:     deref(e.ScoredBy),
		Members:      deref(e.Members),
		Status:       e.Status,
		Type:         deref(e.Type),
		Genres:       names(e.Genres),
	}

	switch kind {
	case domain.KindManga:
		item.Studios = names(e.Authors)
	default:
		item.Duration = e.Duration
		item.Studios = names(e.Studios)
	}

	return item
}

// MapStatistics converts the statistics payload
func MapStatistics(s Statistics) domain.MangaStatistics {
	return domain.MangaStatistics{
		Reading:    s.Reading,
		Completed:  s.Completed,
		OnHold:     s.OnHold,
		Dropped:    s.Dropped,
		PlanToRead: s.PlanToRead,
		Total:      s.Total,
	}
}

// pickImage prefers the JPG cover, falling back to WebP
func pickImage(img Images) string {
	if img.JPG.ImageURL != "" {
		return img.JPG.ImageURL
	}
	return img.WebP.ImageURL
}

func names(resources []NamedResource) []string {
	if len(resources) == 0 {
		return nil
	}
	out := make([]string, 0, len(resources))
	for _, r := range resources {
		if r.Name != "" {
			out = append(out, r.Name)
		}
	}
	return out
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
