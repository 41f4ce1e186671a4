package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/seonu/homefeed-go/internal/constants"
	"github.com/seonu/homefeed-go/internal/domain"
	"github.com/seonu/homefeed-go/internal/util"
	"go.uber.org/zap"
)

const notAvailable = "N/A"

type omdbRatingRaw struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

type omdbRecordRaw struct {
	Response   string          `json:"Response"`
	Error      string          `json:"Error,omitempty"`
	IMDbRating string          `json:"imdbRating"`
	Ratings    []omdbRatingRaw `json:"Ratings"`
	Runtime    string          `json:"Runtime"`
	Awards     string          `json:"Awards"`
	Plot       string          `json:"Plot"`
}

// OMDbClient fetches the ratings/plot contribution for a single IMDb id.
type OMDbClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewOMDbClient(apiKey string, logger *zap.Logger) *OMDbClient {
	return &OMDbClient{
		baseURL: constants.APIConfig.OMDbBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: constants.APIConfig.UpstreamTimeout,
		},
		logger: logger,
	}
}

// HasAPIKey reports whether upstream calls are possible at all.
func (c *OMDbClient) HasAPIKey() bool {
	return c.apiKey != ""
}

// FetchByIMDbID retrieves one record and normalizes it into a Contribution.
// Unrecognized rating outlets are dropped; "N/A" sentinels become empty
// strings. A negative upstream answer returns (nil, nil).
func (c *OMDbClient) FetchByIMDbID(ctx context.Context, imdbID string) (*domain.Contribution, error) {
	if !c.HasAPIKey() {
		return nil, fmt.Errorf("omdb api key not configured")
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("i", imdbID)
	params.Set("plot", "short")

	var raw omdbRecordRaw
	if err := fetchJSON(ctx, c.httpClient, c.baseURL+"/?"+params.Encode(), &raw); err != nil {
		c.logger.Warn("omdb fetch failed", zap.String("imdb_id", imdbID), zap.Error(err))
		return nil, err
	}

	if raw.Response != "True" {
		c.logger.Debug("omdb record not found", zap.String("imdb_id", imdbID), zap.String("error", raw.Error))
		return nil, nil
	}

	contribution := &domain.Contribution{
		Rating:  normalizeNA(raw.IMDbRating),
		Runtime: normalizeNA(raw.Runtime),
		Awards:  normalizeNA(raw.Awards),
		Plot:    normalizeNA(raw.Plot),
	}

	for _, r := range raw.Ratings {
		if !util.Contains(constants.RecognizedOutlets, r.Source) {
			continue
		}
		contribution.Ratings = append(contribution.Ratings, domain.OutletRating{
			Source: r.Source,
			Value:  normalizeNA(r.Value),
		})
	}

	return contribution, nil
}

func normalizeNA(s string) string {
	if s == notAvailable {
		return ""
	}
	return s
}
