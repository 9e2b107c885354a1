package jikan

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmcdole/toplist/internal/domain"
)

const seasonFixture = `{
  "pagination": {"last_visible_page": 3, "has_next_page": true},
  "data": [
    {
      "mal_id": 52991,
      "rank": 1,
      "title": "Sousou no Frieren",
      "title_english": "Frieren: Beyond Journey's End",
      "title_synonyms": ["Frieren at the Funeral", " "],
      "images": {"jpg": {"image_url": "https://cdn.example/52991.jpg"}},
      "synopsis": "The adventure is over but life goes on.",
      "score": 9.3,
      "scored_by": 512345,
      "members": 1000000,
      "status": "Currently Airing",
      "type": "TV",
      "duration": "24 min per ep",
      "studios": [{"mal_id": 11, "type": "anime", "name": "Madhouse"}],
      "genres": [{"mal_id": 2, "type": "anime", "name": "Adventure"}, {"mal_id": 8, "type": "anime", "name": "Drama"}]
    },
    {
      "mal_id": 1,
      "title": "Untitled",
      "title_english": null,
      "synopsis": null,
      "score": null,
      "scored_by": null,
      "type": null,
      "images": {"webp": {"image_url": "https://cdn.example/1.webp"}}
    },
    {"mal_id": 52991, "title": "Duplicate"}
  ]
}`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts := DefaultOptions()
	opts.BaseURL = server.URL
	opts.RequestsPerSecond = 0
	return NewClient(opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSeasonAnime(t *testing.T) {
	var gotPath string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(seasonFixture))
	})

	items, err := client.SeasonAnime(context.Background(), 2026, domain.SeasonFall)
	if err != nil {
		t.Fatalf("SeasonAnime failed: %v", err)
	}

	if gotPath != "/seasons/2026/fall" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items after dedup, got %d", len(items))
	}

	first := items[0]
	if first.ID != 52991 || first.Rank != 1 {
		t.Errorf("unexpected identity: %+v", first)
	}
	if first.DisplayTitle() != "Frieren: Beyond Journey's End" {
		t.Errorf("unexpected display title: %s", first.DisplayTitle())
	}
	if len(first.Synonyms) != 1 || first.Synonyms[0] != "Frieren at the Funeral" {
		t.Errorf("expected blank synonyms dropped, got %v", first.Synonyms)
	}
	if first.StudioList() != "Madhouse" || first.GenreList() != "Adventure, Drama" {
		t.Errorf("unexpected studios/genres: %q %q", first.StudioList(), first.GenreList())
	}
	if first.Duration != "24 min per ep" || first.Type != "TV" {
		t.Errorf("unexpected duration/type: %q %q", first.Duration, first.Type)
	}

	// Nulls degrade to zero values
	second := items[1]
	if second.TitleEnglish != "" || second.Synopsis != "" || second.Score != 0 || second.Type != "" {
		t.Errorf("expected null fields to be empty, got %+v", second)
	}
	if second.ImageURL != "https://cdn.example/1.webp" {
		t.Errorf("expected webp fallback, got %s", second.ImageURL)
	}
}

func TestTopMangaMapsAuthors(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/top/manga" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":[{"mal_id":2,"title":"Berserk","authors":[{"name":"Miura, Kentarou"}],"duration":"ignored"}]}`))
	})

	items, err := client.TopManga(context.Background())
	if err != nil {
		t.Fatalf("TopManga failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].StudioList() != "Miura, Kentarou" {
		t.Errorf("expected authors as production entities, got %q", items[0].StudioList())
	}
	if items[0].Duration != "" {
		t.Errorf("expected no duration for manga, got %q", items[0].Duration)
	}
}

func TestMangaStatistics(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/manga/2/statistics" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"reading":41234,"completed":10,"on_hold":3,"dropped":1,"plan_to_read":7,"total":41255}}`))
	})

	stats, err := client.MangaStatistics(context.Background(), 2)
	if err != nil {
		t.Fatalf("MangaStatistics failed: %v", err)
	}
	if stats.Reading != 41234 || stats.Total != 41255 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestClientErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		notErr  error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`, wantErr: domain.ErrNetwork, notErr: domain.ErrRateLimited},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`, wantErr: domain.ErrRateLimited},
		{name: "rate limited is network", status: http.StatusTooManyRequests, body: `{}`, wantErr: domain.ErrNetwork},
		{name: "malformed json", status: http.StatusOK, body: `{"data": [`, wantErr: domain.ErrParse},
		{name: "missing data", status: http.StatusOK, body: `{"status": 500}`, wantErr: domain.ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.TopManga(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.notErr != nil && errors.Is(err, tt.notErr) {
				t.Errorf("did not expect %v in %v", tt.notErr, err)
			}
		})
	}
}

func TestEmptyDataIsNotAnError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	})

	items, err := client.SeasonAnime(context.Background(), 2026, domain.SeasonWinter)
	if err != nil {
		t.Fatalf("expected no error for empty data, got %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestConnectionFailureIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	opts := DefaultOptions()
	opts.BaseURL = url
	client := NewClient(opts, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.TopManga(context.Background())
	if !errors.Is(err, domain.ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}

func TestStatisticsMissingData(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := client.MangaStatistics(context.Background(), 1)
	if !errors.Is(err, domain.ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}
