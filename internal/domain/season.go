package domain

import (
	"fmt"
	"strings"
	"time"
)

// Season is one of the four anime broadcast seasons
type Season string

const (
	SeasonWinter Season = "winter"
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
)

var seasonsByQuarter = [4]Season{SeasonWinter, SeasonSpring, SeasonSummer, SeasonFall}

// TopMangaKey is the cache key for the top manga ranking.
// The manga ranking is not seasonal, so it has a single static bucket.
const TopMangaKey = "manga:top"

// SeasonOf returns the year and season that t falls in.
// Months are bucketed by quarter: Jan-Mar winter, Apr-Jun spring, and so on.
func SeasonOf(t time.Time) (int, Season) {
	return t.Year(), seasonsByQuarter[(int(t.Month())-1)/3]
}

// SeasonKey returns the cache key for the seasonal anime ranking at t
func SeasonKey(t time.Time) string {
	year, season := SeasonOf(t)
	return fmt.Sprintf("%s:%d:%s", KindAnime, year, season)
}

// Title returns the season name capitalized for headers, e.g. "Fall"
func (s Season) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}
