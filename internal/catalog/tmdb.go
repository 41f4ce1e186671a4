package catalog

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/seonu/homefeed-go/internal/constants"
	"go.uber.org/zap"
)

// TMDBItemRaw is the wire shape of the metadata catalog records. Optional
// fields stay empty when the upstream omits them.
type TMDBItemRaw struct {
	TMDBID           string   `json:"tmdbId"`
	IMDbID           string   `json:"imdbId,omitempty"`
	Title            string   `json:"title"`
	OriginalTitle    string   `json:"originalTitle,omitempty"`
	Year             string   `json:"year,omitempty"`
	Poster           string   `json:"poster,omitempty"`
	Rate             string   `json:"rate,omitempty"`
	MediaType        string   `json:"mediaType,omitempty"`
	OriginalLanguage string   `json:"originalLanguage,omitempty"`
	OriginCountry    []string `json:"originCountry,omitempty"`
	Overview         string   `json:"overview,omitempty"`
	Region           string   `json:"region,omitempty"`
	URL              string   `json:"url,omitempty"`
	Cast             []string `json:"cast,omitempty"`
}

// TMDBFeed is the multiplexed metadata-catalog feed response.
type TMDBFeed struct {
	Movies     []TMDBItemRaw `json:"movies"`
	TV         []TMDBItemRaw `json:"tv"`
	KrTV       []TMDBItemRaw `json:"krTv"`
	JpTV       []TMDBItemRaw `json:"jpTv"`
	People     []TMDBItemRaw `json:"people"`
	NowPlaying []TMDBItemRaw `json:"nowPlaying"`
	OnAir      []TMDBItemRaw `json:"onAir"`
}

var tmdbIDPattern = regexp.MustCompile(`^(movie|tv|person)/\d+$`)

// NormalizeTMDBID canonicalizes an id to the "<kind>/<number>" pattern. Bare
// numeric ids get the media kind prefixed; anything unrecognizable comes
// back unchanged apart from lower-casing.
func NormalizeTMDBID(id, mediaType string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return ""
	}
	if tmdbIDPattern.MatchString(id) {
		return id
	}
	kind := strings.ToLower(mediaType)
	switch kind {
	case "movie", "tv", "person":
	case "show":
		kind = "tv"
	default:
		kind = "tv"
	}
	return kind + "/" + id
}

// TMDBClient talks to the metadata catalog (a TMDB-shaped proxy).
type TMDBClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewTMDBClient(baseURL string, logger *zap.Logger) *TMDBClient {
	return &TMDBClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: constants.APIConfig.UpstreamTimeout,
		},
		logger: logger,
	}
}

// FetchFeed retrieves the multiplexed feed lists in one call.
func (c *TMDBClient) FetchFeed(ctx context.Context) (*TMDBFeed, error) {
	var feed TMDBFeed
	if err := fetchJSON(ctx, c.httpClient, c.baseURL+"/api/feed", &feed); err != nil {
		c.logger.Warn("tmdb feed fetch failed", zap.Error(err))
		return nil, err
	}
	return &feed, nil
}

// FetchTagList retrieves one per-category tag list. Failures degrade to an
// empty list; regional rails just come up short.
func (c *TMDBClient) FetchTagList(ctx context.Context, tag string) []TMDBItemRaw {
	params := url.Values{}
	params.Set("tag", tag)

	var items []TMDBItemRaw
	if err := fetchJSON(ctx, c.httpClient, c.baseURL+"/api/tags?"+params.Encode(), &items); err != nil {
		c.logger.Warn("tag list fetch failed", zap.String("tag", tag), zap.Error(err))
		return nil
	}
	return items
}
