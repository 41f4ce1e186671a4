package catalog

import (
	"fmt"
	"strings"

	"github.com/seonu/homefeed-go/internal/domain"
)

// Source labels recorded on canonical cards.
const (
	SourceRec     = "rec"
	SourceTMDB    = "tmdb"
	SourceBangumi = "bangumi"
)

// MapRecItem converts a recommendation-catalog record into a canonical card.
// Only fields the rec catalog can supply are set.
func MapRecItem(raw RecItemRaw) *domain.CardItem {
	card := &domain.CardItem{
		Title:      raw.Title,
		Year:       raw.Year,
		RecID:      raw.ID,
		Poster:     raw.Poster,
		RecPoster:  raw.Poster,
		Rate:       raw.Rate,
		Type:       mapMediaType(raw.Type),
		Category:   raw.Category,
		SourceName: SourceRec,
		Sources: domain.Sources{
			RecURL: raw.URL,
		},
	}
	if raw.Region != "" {
		card.OriginCountry = []string{strings.ToLower(raw.Region)}
	}
	return card
}

// MapRecItems maps a whole list.
func MapRecItems(raws []RecItemRaw) []*domain.CardItem {
	cards := make([]*domain.CardItem, len(raws))
	for i, raw := range raws {
		cards[i] = MapRecItem(raw)
	}
	return cards
}

// MapTMDBItem converts a metadata-catalog record into a canonical card.
func MapTMDBItem(raw TMDBItemRaw) *domain.CardItem {
	card := &domain.CardItem{
		Title:            raw.Title,
		Year:             raw.Year,
		TMDBID:           NormalizeTMDBID(raw.TMDBID, raw.MediaType),
		IMDbID:           strings.ToLower(raw.IMDbID),
		Poster:           raw.Poster,
		TMDBPoster:       raw.Poster,
		Rate:             raw.Rate,
		Type:             mapMediaType(raw.MediaType),
		OriginalLanguage: strings.ToLower(raw.OriginalLanguage),
		Overview:         raw.Overview,
		SourceName:       SourceTMDB,
		Sources: domain.Sources{
			TMDBURL: raw.URL,
		},
	}
	if card.Title == "" {
		card.Title = raw.OriginalTitle
	}
	for _, country := range raw.OriginCountry {
		card.OriginCountry = append(card.OriginCountry, strings.ToLower(country))
	}
	if raw.Region != "" && len(card.OriginCountry) == 0 {
		card.OriginCountry = []string{strings.ToLower(raw.Region)}
	}
	if card.IMDbID != "" {
		card.Sources.IMDbURL = "https://www.imdb.com/title/" + card.IMDbID + "/"
	}
	return card
}

// MapTMDBItems maps a whole list.
func MapTMDBItems(raws []TMDBItemRaw) []*domain.CardItem {
	cards := make([]*domain.CardItem, len(raws))
	for i, raw := range raws {
		cards[i] = MapTMDBItem(raw)
	}
	return cards
}

// MapBangumiItem converts a calendar entry into a canonical card. The local
// title wins when present.
func MapBangumiItem(raw BangumiItemRaw) *domain.CardItem {
	title := raw.NameCN
	if title == "" {
		title = raw.Name
	}

	card := &domain.CardItem{
		Title:      title,
		Type:       domain.MediaTypeTV,
		Poster:     raw.Images.Large,
		SourceName: SourceBangumi,
		Sources: domain.Sources{
			BangumiURL: raw.URL,
		},
	}
	if card.Poster == "" {
		card.Poster = raw.Images.Common
	}
	if raw.Rating.Score > 0 {
		card.Rate = fmt.Sprintf("%.1f", raw.Rating.Score)
	}
	if len(raw.AirDate) >= 4 {
		card.Year = raw.AirDate[:4]
	}
	return card
}

func mapMediaType(raw string) domain.MediaType {
	switch strings.ToLower(raw) {
	case "movie":
		return domain.MediaTypeMovie
	case "tv":
		return domain.MediaTypeTV
	case "show", "variety":
		return domain.MediaTypeShow
	case "person":
		return domain.MediaTypePerson
	default:
		return ""
	}
}
