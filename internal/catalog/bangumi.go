package catalog

import (
	"context"
	"net/http"

	"github.com/seonu/homefeed-go/internal/constants"
	"go.uber.org/zap"
)

// BangumiItemRaw is one entry of the anime broadcast calendar.
type BangumiItemRaw struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	NameCN  string `json:"name_cn,omitempty"`
	AirDate string `json:"air_date,omitempty"`
	URL     string `json:"url,omitempty"`
	Images  struct {
		Large  string `json:"large,omitempty"`
		Common string `json:"common,omitempty"`
	} `json:"images"`
	Rating struct {
		Score float64 `json:"score,omitempty"`
	} `json:"rating"`
}

// BangumiWeekday is one day of the weekly calendar. Weekday ids run 1..7,
// Monday first.
type BangumiWeekday struct {
	Weekday struct {
		ID int `json:"id"`
	} `json:"weekday"`
	Items []BangumiItemRaw `json:"items"`
}

// BangumiClient fetches the weekly anime broadcast calendar.
type BangumiClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewBangumiClient(logger *zap.Logger) *BangumiClient {
	return &BangumiClient{
		baseURL: constants.APIConfig.BangumiBaseURL,
		httpClient: &http.Client{
			Timeout: constants.APIConfig.UpstreamTimeout,
		},
		logger: logger,
	}
}

// FetchWeekly retrieves the calendar; failures degrade to an empty week.
func (c *BangumiClient) FetchWeekly(ctx context.Context) []BangumiWeekday {
	var week []BangumiWeekday
	if err := fetchJSON(ctx, c.httpClient, c.baseURL+"/calendar", &week); err != nil {
		c.logger.Warn("anime calendar fetch failed", zap.Error(err))
		return nil
	}
	return week
}
