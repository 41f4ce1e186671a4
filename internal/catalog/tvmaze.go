package catalog

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/seonu/homefeed-go/internal/constants"
	"go.uber.org/zap"
)

type tvmazeShow struct {
	ID    int `json:"id"`
	Links struct {
		NextEpisode struct {
			Href string `json:"href"`
		} `json:"nextepisode"`
	} `json:"_links"`
}

type tvmazeEpisode struct {
	Airdate string `json:"airdate"`
}

// TVMazeClient resolves per-title next air dates. Lookup goes by IMDb id
// first, then by the metadata-catalog id; either missing link or failed call
// yields an empty date, which callers treat as "unknown".
type TVMazeClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewTVMazeClient(logger *zap.Logger) *TVMazeClient {
	return &TVMazeClient{
		baseURL: constants.APIConfig.TVMazeBaseURL,
		httpClient: &http.Client{
			Timeout: constants.APIConfig.UpstreamTimeout,
		},
		logger: logger,
	}
}

// NextAirDate returns the ISO air date of the title's next episode, or ""
// when it cannot be resolved.
func (c *TVMazeClient) NextAirDate(ctx context.Context, imdbID, tmdbID string) string {
	show := c.lookupShow(ctx, imdbID, tmdbID)
	if show == nil || show.Links.NextEpisode.Href == "" {
		return ""
	}

	var ep tvmazeEpisode
	if err := fetchJSON(ctx, c.httpClient, show.Links.NextEpisode.Href, &ep); err != nil {
		c.logger.Debug("next episode fetch failed", zap.Error(err))
		return ""
	}
	return ep.Airdate
}

func (c *TVMazeClient) lookupShow(ctx context.Context, imdbID, tmdbID string) *tvmazeShow {
	if imdbID != "" {
		params := url.Values{}
		params.Set("imdb", strings.ToLower(imdbID))
		var show tvmazeShow
		if err := fetchJSON(ctx, c.httpClient, c.baseURL+"/lookup/shows?"+params.Encode(), &show); err == nil && show.ID > 0 {
			return &show
		}
	}

	if tmdbID != "" {
		// Canonical ids look like "tv/123"; the lookup wants the bare number.
		numeric := tmdbID
		if idx := strings.LastIndex(numeric, "/"); idx >= 0 {
			numeric = numeric[idx+1:]
		}
		params := url.Values{}
		params.Set("tmdb", numeric)
		var show tvmazeShow
		if err := fetchJSON(ctx, c.httpClient, c.baseURL+"/lookup/shows?"+params.Encode(), &show); err == nil && show.ID > 0 {
			return &show
		}
	}

	return nil
}
