package catalog

import (
	"context"
	"net/http"

	"github.com/seonu/homefeed-go/internal/constants"
	"go.uber.org/zap"
)

// RecItemRaw is the wire shape of the site's own recommendation catalog.
type RecItemRaw struct {
	ID       int    `json:"id,string"`
	Title    string `json:"title"`
	Year     string `json:"year,omitempty"`
	Poster   string `json:"poster,omitempty"`
	Rate     string `json:"rate,omitempty"`
	Type     string `json:"type,omitempty"`
	Region   string `json:"region,omitempty"`
	Category string `json:"category,omitempty"`
	URL      string `json:"url,omitempty"`
}

// RecFeed is the curated home-feed response.
type RecFeed struct {
	Movies       []RecItemRaw `json:"movies"`
	TV           []RecItemRaw `json:"tv"`
	Variety      []RecItemRaw `json:"variety"`
	LatestMovies []RecItemRaw `json:"latestMovies"`
	LatestTV     []RecItemRaw `json:"latestTv"`
}

// RecClient talks to the primary recommendation catalog.
type RecClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewRecClient(baseURL string, logger *zap.Logger) *RecClient {
	return &RecClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: constants.APIConfig.UpstreamTimeout,
		},
		logger: logger,
	}
}

// FetchFeed retrieves the full curated feed in one call.
func (c *RecClient) FetchFeed(ctx context.Context) (*RecFeed, error) {
	var feed RecFeed
	if err := fetchJSON(ctx, c.httpClient, c.baseURL+"/api/home", &feed); err != nil {
		c.logger.Warn("rec feed fetch failed", zap.Error(err))
		return nil, err
	}
	return &feed, nil
}
