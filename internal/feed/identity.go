package feed

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/seonu/homefeed-go/internal/domain"
	"github.com/seonu/homefeed-go/internal/util"
)

var imdbIDPattern = regexp.MustCompile(`^(tt|nm)\d+$`)

// NormalizeIMDbID lower-cases an external id and strips known prefixes
// ("imdb:", a pasted title URL). Returns "" when the result does not look
// like an IMDb id.
func NormalizeIMDbID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	id = strings.TrimPrefix(id, "imdb:")
	if idx := strings.Index(id, "/title/"); idx >= 0 {
		id = strings.Trim(id[idx+len("/title/"):], "/")
	}
	if !imdbIDPattern.MatchString(id) {
		return ""
	}
	return id
}

// DedupKey derives the canonical grouping key for a card, in strict
// precedence order: positive rec id, then IMDb id, then normalized
// title+year. The title+year fallback can collide for remakes sharing both;
// callers accept that as a known limitation.
func DedupKey(card *domain.CardItem) string {
	if card == nil {
		return ""
	}
	if card.RecID > 0 {
		return fmt.Sprintf("rec:%d", card.RecID)
	}
	if id := NormalizeIMDbID(card.IMDbID); id != "" {
		return "imdb:" + id
	}
	title := util.NormalizeTitle(card.Title)
	if title == "" {
		return ""
	}
	return title + "__" + card.Year
}
