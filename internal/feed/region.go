package feed

import (
	"strings"

	"github.com/seonu/homefeed-go/internal/domain"
	"github.com/seonu/homefeed-go/internal/util"
)

// Token tables for the heuristic passes. Matching is best-effort: mixed
// language titles can land in the wrong bucket and that is accepted.
var (
	koreanCodes   = []string{"kr", "ko", "kor"}
	japaneseCodes = []string{"jp", "ja", "jpn"}
	localCodes    = []string{"cn", "zh", "chn", "hk", "tw"}

	koreanTokens   = []string{"한국", "korea", "korean", "韩国", "韓国"}
	japaneseTokens = []string{"日本", "japan", "japanese", "일본"}
	localTokens    = []string{"中国", "内地", "大陆", "国产", "台湾", "香港", "china", "chinese"}
)

// ClassifyRegion buckets a TV card into one of the four regional rails.
// Precedence: explicit region/country metadata, language code, synopsis
// token heuristics, then title script detection. Everything unmatched is
// Western.
func ClassifyRegion(card *domain.CardItem) domain.Region {
	if card == nil {
		return domain.RegionWestern
	}

	for _, country := range card.OriginCountry {
		if r, ok := regionForCode(strings.ToLower(country)); ok {
			return r
		}
	}
	if len(card.OriginCountry) > 0 {
		// Explicit metadata that matched nothing above is a western tag.
		return domain.RegionWestern
	}

	if r, ok := regionForCode(strings.ToLower(card.OriginalLanguage)); ok {
		return r
	}

	if overview := strings.ToLower(card.Overview); overview != "" {
		if r, ok := regionForTokens(overview); ok {
			return r
		}
	}

	if r, ok := regionForScript(card.Title); ok {
		return r
	}

	return domain.RegionWestern
}

// SplitRegional distributes TV cards across the regional buckets.
func SplitRegional(cards []*domain.CardItem) map[domain.Region][]*domain.CardItem {
	buckets := make(map[domain.Region][]*domain.CardItem, 4)
	for _, card := range cards {
		region := ClassifyRegion(card)
		buckets[region] = append(buckets[region], card)
	}
	return buckets
}

func regionForCode(code string) (domain.Region, bool) {
	switch {
	case util.Contains(koreanCodes, code):
		return domain.RegionKorean, true
	case util.Contains(japaneseCodes, code):
		return domain.RegionJapanese, true
	case util.Contains(localCodes, code):
		return domain.RegionLocal, true
	}
	return "", false
}

func regionForTokens(text string) (domain.Region, bool) {
	switch {
	case util.ContainsAny(text, koreanTokens):
		return domain.RegionKorean, true
	case util.ContainsAny(text, japaneseTokens):
		return domain.RegionJapanese, true
	case util.ContainsAny(text, localTokens):
		return domain.RegionLocal, true
	}
	return "", false
}

func regionForScript(title string) (domain.Region, bool) {
	switch {
	case util.ContainsHangul(title):
		return domain.RegionKorean, true
	case util.ContainsKana(title):
		return domain.RegionJapanese, true
	case util.ContainsCJKIdeograph(title) && util.ContainsAny(title, localTokens):
		return domain.RegionLocal, true
	}
	return "", false
}
