package domain

import "time"

type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeTV     MediaType = "tv"
	MediaTypeShow   MediaType = "show"
	MediaTypePerson MediaType = "person"
)

// Region buckets for TV rails. Local is the site's home region.
type Region string

const (
	RegionLocal    Region = "local"
	RegionKorean   Region = "kr"
	RegionJapanese Region = "jp"
	RegionWestern  Region = "western"
)

// OutletRating is a single per-outlet score from the ratings catalog.
type OutletRating struct {
	Source string `json:"source"`
	Value  string `json:"value"`
}

// Contribution is the enrichment block attached to a card once the ratings
// catalog has been consulted. All fields are plain strings; "N/A" sentinels
// are normalized to empty before the block is stored.
type Contribution struct {
	Rating  string         `json:"rating,omitempty"`
	Ratings []OutletRating `json:"ratings,omitempty"`
	Runtime string         `json:"runtime,omitempty"`
	Awards  string         `json:"awards,omitempty"`
	Plot    string         `json:"plot,omitempty"`
}

// Sources holds per-source detail URLs and the optional rating contribution.
type Sources struct {
	RecURL             string        `json:"recUrl,omitempty"`
	TMDBURL            string        `json:"tmdbUrl,omitempty"`
	IMDbURL            string        `json:"imdbUrl,omitempty"`
	BangumiURL         string        `json:"bangumiUrl,omitempty"`
	RatingContribution *Contribution `json:"ratingContribution,omitempty"`
}

// CardItem is the canonical title record every source maps into. Mappers
// leave fields they cannot supply empty, so the merge engine can tell
// "no data" from an explicit empty value.
type CardItem struct {
	Title string `json:"title"`
	Year  string `json:"year,omitempty"`

	RecID  int    `json:"recId,omitempty"`
	IMDbID string `json:"imdbId,omitempty"`
	TMDBID string `json:"tmdbId,omitempty"`

	Poster     string   `json:"poster,omitempty"`
	PosterAlt  []string `json:"posterAlt,omitempty"`
	RecPoster  string   `json:"recPoster,omitempty"`
	TMDBPoster string   `json:"tmdbPoster,omitempty"`

	Rate             string    `json:"rate,omitempty"`
	Type             MediaType `json:"type,omitempty"`
	OriginalLanguage string    `json:"originalLanguage,omitempty"`
	OriginCountry    []string  `json:"originCountry,omitempty"`
	Overview         string    `json:"overview,omitempty"`
	Category         string    `json:"category,omitempty"`

	SourceName string  `json:"source_name,omitempty"`
	Sources    Sources `json:"sources,omitempty"`
}

// AiringRail is the "currently airing" row of the home feed.
type AiringRail struct {
	TitleKey string      `json:"titleKey"`
	Items    []*CardItem `json:"items"`
	CachedAt time.Time   `json:"cachedAt"`
}

const (
	AiringTitleToday = "today"
	AiringTitleWeek  = "week"
)

// FeedPayload is the full merged home feed, the unit stored in the remote
// cache blob.
type FeedPayload struct {
	Movies     []*CardItem `json:"movies"`
	TV         []*CardItem `json:"tv"`
	Variety    []*CardItem `json:"variety,omitempty"`
	NowPlaying []*CardItem `json:"nowPlaying,omitempty"`
	LocalTV    []*CardItem `json:"localTv,omitempty"`
	KoreanTV   []*CardItem `json:"krTv,omitempty"`
	JapaneseTV []*CardItem `json:"jpTv,omitempty"`
	WesternTV  []*CardItem `json:"westernTv,omitempty"`
	People     []*CardItem `json:"people,omitempty"`
	Airing     *AiringRail `json:"airing,omitempty"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// CachedAt returns the timestamp used for the freshness check, preferring
// the airing rail's own stamp over the top-level one.
func (p *FeedPayload) CachedAt() time.Time {
	if p == nil {
		return time.Time{}
	}
	if p.Airing != nil && !p.Airing.CachedAt.IsZero() {
		return p.Airing.CachedAt
	}
	return p.UpdatedAt
}

// EnrichmentCacheEntry is the durable per-id ratings cache record. Data may
// be nil when the upstream lookup found nothing; a nil entry still counts as
// fresh so the miss is not re-fetched for the full lifetime.
type EnrichmentCacheEntry struct {
	CachedAt time.Time     `json:"cachedAt"`
	Data     *Contribution `json:"data"`
}
