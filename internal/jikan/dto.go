package jikan

// listResponse is the envelope of list endpoints (/seasons, /top/manga).
// Data is a pointer so a missing array can be told apart from an empty one.
type listResponse struct {
	Data       *[]Entry    `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the page returned by a list endpoint
type Pagination struct {
	LastVisiblePage int  `json:"last_visible_page"`
	HasNextPage     bool `json:"has_next_page"`
}

// Entry is an anime or manga record. Nullable API fields are pointers.
type Entry struct {
	MalID         int      `json:"mal_id"`
	URL           string   `json:"url,omitempty"`
	Rank          *int     `json:"rank"`
	Title         string   `json:"title"`
	TitleEnglish  *string  `json:"title_english"`
	TitleJapanese *string  `json:"title_japanese"`
	TitleSynonyms []string `json:"title_synonyms"`
	Images        Images   `json:"images"`
	Synopsis      *string  `json:"synopsis"`
	Score         *float64 `json:"score"`
	ScoredBy      *int     `json:"scored_by"`
	Members       *int     `json:"members"`
	Status        string   `json:"status"`
	Type          *string  `json:"type"`

	// Anime only
	Duration string          `json:"duration,omitempty"`
	Studios  []NamedResource `json:"studios,omitempty"`

	// Manga only
	Authors []NamedResource `json:"authors,omitempty"`

	Genres []NamedResource `json:"genres"`
}

// Images holds cover art in the formats Jikan serves
type Images struct {
	JPG  ImageSet `json:"jpg"`
	WebP ImageSet `json:"webp"`
}

// ImageSet is one format's cover art at different sizes
type ImageSet struct {
	ImageURL      string `json:"image_url"`
	SmallImageURL string `json:"small_image_url,omitempty"`
	LargeImageURL string `json:"large_image_url,omitempty"`
}

// NamedResource is a genre, studio or author reference
type NamedResource struct {
	MalID int    `json:"mal_id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	URL   string `json:"url,omitempty"`
}

// statisticsResponse is the envelope of /manga/{id}/statistics
type statisticsResponse struct {
	Data *Statistics `json:"data"`
}

// Statistics is the reading breakdown of a manga
type Statistics struct {
	Reading    int `json:"reading"`
	Completed  int `json:"completed"`
	OnHold     int `json:"on_hold"`
	Dropped    int `json:"dropped"`
	PlanToRead int `json:"plan_to_read"`
	Total      int `json:"total"`
}
