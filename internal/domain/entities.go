package domain

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// ContentKind distinguishes the two ranked catalogs
type ContentKind string

const (
	KindAnime ContentKind = "anime"
	KindManga ContentKind = "manga"
)

// RankedItem is a single anime or manga entry in a ranking.
// Only ID, Title and ImageURL are reliably present; everything else may be
// zero and must render as empty.
type RankedItem struct {
	ID           int      `json:"id"`                      // MyAnimeList ID, unique within a list
	Rank         int      `json:"rank,omitempty"`          // Position reported by the API (0 if unranked)
	Title        string   `json:"title"`                   // Primary (romanized) title
	TitleEnglish string   `json:"title_english,omitempty"` // Localized alternate title
	Synonyms     []string `json:"synonyms,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	Synopsis     string   `json:"synopsis,omitempty"`

	Score    float64 `json:"score,omitempty"`     // 0-10 community score
	ScoredBy int     `json:"scored_by,omitempty"` // Number of users behind Score
	Members  int     `json:"members,omitempty"`

	Status   string `json:"status,omitempty"`   // e.g. "Currently Airing", "Publishing"
	Type     string `json:"type,omitempty"`     // e.g. "TV", "Manga"
	Duration string `json:"duration,omitempty"` // e.g. "24 min per ep" (anime only)

	Genres  []string `json:"genres,omitempty"`
	Studios []string `json:"studios,omitempty"` // Studios for anime, authors for manga

	// Reading is the number of users currently reading (manga enrichment).
	Reading int `json:"reading,omitempty"`
}

// DisplayTitle returns the English title when present, otherwise the primary title
func (r RankedItem) DisplayTitle() string {
	if r.TitleEnglish != "" {
		return r.TitleEnglish
	}
	return r.Title
}

// OtherNames joins the synonyms for display
func (r RankedItem) OtherNames() string {
	return strings.Join(r.Synonyms, ", ")
}

// GenreList joins genre names for display
func (r RankedItem) GenreList() string {
	return strings.Join(r.Genres, ", ")
}

// StudioList joins studio (or author) names for display
func (r RankedItem) StudioList() string {
	return strings.Join(r.Studios, ", ")
}

// ScoreSummary formats "8.61 / 123,456 reviews", or "" when unscored
func (r RankedItem) ScoreSummary() string {
	if r.Score == 0 {
		return ""
	}
	if r.ScoredBy == 0 {
		return fmt.Sprintf("%.2f", r.Score)
	}
	return fmt.Sprintf("%.2f / %s reviews", r.Score, humanize.Comma(int64(r.ScoredBy)))
}

// ReadingSummary formats the reading count, e.g. "45,210 reading"
func (r RankedItem) ReadingSummary() string {
	return humanize.Comma(int64(r.Reading)) + " reading"
}

// MembersSummary formats the member count, or "" when unknown
func (r RankedItem) MembersSummary() string {
	if r.Members == 0 {
		return ""
	}
	return humanize.Comma(int64(r.Members)) + " members"
}
