package catalog

import (
	"testing"

	"github.com/seonu/homefeed-go/internal/domain"
)

func TestMapRecItem(t *testing.T) {
	card := MapRecItem(RecItemRaw{
		ID:       42,
		Title:    "Some Movie",
		Year:     "2023",
		Poster:   "p.jpg",
		Rate:     "8.2",
		Type:     "movie",
		Region:   "KR",
		Category: "drama",
		URL:      "https://rec/42",
	})

	if card.RecID != 42 || card.Title != "Some Movie" {
		t.Errorf("identity fields lost: %+v", card)
	}
	if card.Poster != "p.jpg" || card.RecPoster != "p.jpg" {
		t.Errorf("poster must be mirrored into the per-source slot, got %q/%q", card.Poster, card.RecPoster)
	}
	if card.Type != domain.MediaTypeMovie {
		t.Errorf("type mapping failed: %q", card.Type)
	}
	if len(card.OriginCountry) != 1 || card.OriginCountry[0] != "kr" {
		t.Errorf("region must become a lower-cased country tag, got %v", card.OriginCountry)
	}
	if card.SourceName != SourceRec || card.Sources.RecURL != "https://rec/42" {
		t.Errorf("source attribution lost: %q %q", card.SourceName, card.Sources.RecURL)
	}
	if card.IMDbID != "" || card.TMDBID != "" {
		t.Error("rec catalog cannot supply external ids; they must stay empty")
	}
}

func TestMapTMDBItem(t *testing.T) {
	card := MapTMDBItem(TMDBItemRaw{
		TMDBID:           "603",
		IMDbID:           "TT0133093",
		Title:            "The Matrix",
		MediaType:        "movie",
		OriginalLanguage: "EN",
		OriginCountry:    []string{"US"},
		Poster:           "m.jpg",
		URL:              "https://tmdb/603",
	})

	if card.TMDBID != "movie/603" {
		t.Errorf("bare numeric id must gain its media kind, got %q", card.TMDBID)
	}
	if card.IMDbID != "tt0133093" {
		t.Errorf("imdb id must be lower-cased, got %q", card.IMDbID)
	}
	if card.OriginalLanguage != "en" {
		t.Errorf("language must be lower-cased, got %q", card.OriginalLanguage)
	}
	if len(card.OriginCountry) != 1 || card.OriginCountry[0] != "us" {
		t.Errorf("countries must be lower-cased, got %v", card.OriginCountry)
	}
	if card.TMDBPoster != "m.jpg" {
		t.Errorf("poster must be mirrored into the per-source slot, got %q", card.TMDBPoster)
	}
	if card.Sources.IMDbURL == "" {
		t.Error("a present imdb id must produce a detail URL")
	}
}

func TestMapTMDBItemFallsBackToOriginalTitle(t *testing.T) {
	card := MapTMDBItem(TMDBItemRaw{TMDBID: "1", OriginalTitle: "Originaltitel"})
	if card.Title != "Originaltitel" {
		t.Errorf("empty title must fall back to the original title, got %q", card.Title)
	}
}

func TestMapBangumiItem(t *testing.T) {
	raw := BangumiItemRaw{
		ID:      123,
		Name:    "Romaji Name",
		NameCN:  "中文名",
		AirDate: "2024-04-07",
		URL:     "https://cal/123",
	}
	raw.Images.Large = "large.jpg"
	raw.Rating.Score = 7.84

	card := MapBangumiItem(raw)

	if card.Title != "中文名" {
		t.Errorf("local title must win, got %q", card.Title)
	}
	if card.Year != "2024" {
		t.Errorf("year must come from the air date, got %q", card.Year)
	}
	if card.Rate != "7.8" {
		t.Errorf("score must round to one decimal, got %q", card.Rate)
	}
	if card.Type != domain.MediaTypeTV {
		t.Errorf("calendar entries are always TV, got %q", card.Type)
	}
	if card.Sources.BangumiURL != "https://cal/123" {
		t.Errorf("detail URL lost: %q", card.Sources.BangumiURL)
	}
}

func TestMapBangumiItemFallbacks(t *testing.T) {
	raw := BangumiItemRaw{ID: 5, Name: "Only Romaji"}
	raw.Images.Common = "common.jpg"

	card := MapBangumiItem(raw)
	if card.Title != "Only Romaji" {
		t.Errorf("missing local title must fall back, got %q", card.Title)
	}
	if card.Poster != "common.jpg" {
		t.Errorf("missing large image must fall back to common, got %q", card.Poster)
	}
	if card.Rate != "" {
		t.Errorf("zero score must not produce a rate, got %q", card.Rate)
	}
}

func TestNormalizeTMDBID(t *testing.T) {
	tests := []struct {
		id        string
		mediaType string
		want      string
	}{
		{"", "movie", ""},
		{"603", "movie", "movie/603"},
		{"1399", "tv", "tv/1399"},
		{"500", "show", "tv/500"},
		{"287", "person", "person/287"},
		{"MOVIE/603", "", "movie/603"},
		{"tv/1399", "movie", "tv/1399"}, // already canonical, kind kept
		{"42", "", "tv/42"},
	}

	for _, tt := range tests {
		if got := NormalizeTMDBID(tt.id, tt.mediaType); got != tt.want {
			t.Errorf("NormalizeTMDBID(%q, %q) = %q, want %q", tt.id, tt.mediaType, got, tt.want)
		}
	}
}
