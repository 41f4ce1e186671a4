package feed

import (
	"github.com/seonu/homefeed-go/internal/domain"
	"github.com/seonu/homefeed-go/internal/util"
	"go.uber.org/zap"
)

// Merger folds card lists that share dedup keys into canonical records.
type Merger struct {
	logger *zap.Logger
}

func NewMerger(logger *zap.Logger) *Merger {
	return &Merger{logger: logger}
}

// Merge folds extra into base, order-stable and idempotent: the output keeps
// the first-seen order of keys, and merging an empty extra returns records
// equal to base. Inputs are not mutated.
//
// When two records share a key, the poster keeps the existing value unless
// empty, while every poster URL seen on either side joins the alternate
// list. Rating, year, category, source label and detail URLs are
// first-non-empty-wins; the remaining fields take the incoming value so a
// later source can correct them. The asymmetry is intentional.
func (m *Merger) Merge(base, extra []*domain.CardItem) []*domain.CardItem {
	out := make([]*domain.CardItem, 0, len(base)+len(extra))
	index := make(map[string]*domain.CardItem, len(base)+len(extra))

	fold := func(list []*domain.CardItem) {
		for _, incoming := range list {
			if incoming == nil {
				continue
			}
			key := DedupKey(incoming)
			if key == "" {
				m.logger.Debug("skipping card without usable identity", zap.String("title", incoming.Title))
				continue
			}
			existing, ok := index[key]
			if !ok {
				card := cloneCard(incoming)
				card.PosterAlt = posterUnion(card.PosterAlt, incoming)
				index[key] = card
				out = append(out, card)
				continue
			}
			mergeInto(existing, incoming)
		}
	}

	fold(base)
	fold(extra)
	return out
}

// mergeInto applies the field-resolution rules to existing in place.
func mergeInto(existing, incoming *domain.CardItem) {
	existing.PosterAlt = posterUnion(existing.PosterAlt, existing)
	existing.PosterAlt = posterUnion(existing.PosterAlt, incoming)
	for _, alt := range incoming.PosterAlt {
		existing.PosterAlt = appendPoster(existing.PosterAlt, alt)
	}

	if existing.Poster == "" {
		existing.Poster = incoming.Poster
	}
	if existing.RecPoster == "" {
		existing.RecPoster = incoming.RecPoster
	}
	if existing.TMDBPoster == "" {
		existing.TMDBPoster = incoming.TMDBPoster
	}

	// Protected fields: first non-empty value wins.
	if existing.Rate == "" {
		existing.Rate = incoming.Rate
	}
	if existing.Year == "" {
		existing.Year = incoming.Year
	}
	if existing.Category == "" {
		existing.Category = incoming.Category
	}
	if existing.SourceName == "" {
		existing.SourceName = incoming.SourceName
	}
	if existing.Sources.RecURL == "" {
		existing.Sources.RecURL = incoming.Sources.RecURL
	}
	if existing.Sources.TMDBURL == "" {
		existing.Sources.TMDBURL = incoming.Sources.TMDBURL
	}
	if existing.Sources.IMDbURL == "" {
		existing.Sources.IMDbURL = incoming.Sources.IMDbURL
	}
	if existing.Sources.BangumiURL == "" {
		existing.Sources.BangumiURL = incoming.Sources.BangumiURL
	}
	if existing.Sources.RatingContribution == nil {
		existing.Sources.RatingContribution = incoming.Sources.RatingContribution
	}

	// Everything else: the incoming record wins. Mappers leave fields they
	// have no data for empty, so empty incoming values never blank out an
	// existing one.
	if incoming.Title != "" {
		existing.Title = incoming.Title
	}
	if incoming.Type != "" {
		existing.Type = incoming.Type
	}
	if incoming.OriginalLanguage != "" {
		existing.OriginalLanguage = incoming.OriginalLanguage
	}
	if len(incoming.OriginCountry) > 0 {
		existing.OriginCountry = mergeCountries(existing.OriginCountry, incoming.OriginCountry)
	}
	if incoming.Overview != "" {
		existing.Overview = incoming.Overview
	}
	if incoming.RecID > 0 {
		existing.RecID = incoming.RecID
	}
	if incoming.IMDbID != "" {
		existing.IMDbID = incoming.IMDbID
	}
	if incoming.TMDBID != "" {
		existing.TMDBID = incoming.TMDBID
	}
}

// posterUnion appends the card's poster fields to alts, de-duplicated,
// insertion order preserved.
func posterUnion(alts []string, card *domain.CardItem) []string {
	for _, p := range []string{card.Poster, card.RecPoster, card.TMDBPoster} {
		alts = appendPoster(alts, p)
	}
	return alts
}

func appendPoster(alts []string, poster string) []string {
	if poster == "" || util.Contains(alts, poster) {
		return alts
	}
	return append(alts, poster)
}

func mergeCountries(existing, incoming []string) []string {
	merged := make([]string, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)
	for _, c := range incoming {
		if !util.Contains(merged, c) {
			merged = append(merged, c)
		}
	}
	return merged
}

func cloneCard(card *domain.CardItem) *domain.CardItem {
	clone := *card
	if card.PosterAlt != nil {
		clone.PosterAlt = append([]string(nil), card.PosterAlt...)
	}
	if card.OriginCountry != nil {
		clone.OriginCountry = append([]string(nil), card.OriginCountry...)
	}
	return &clone
}
