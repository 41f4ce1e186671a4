package constants

import "time"

var CacheTTL = struct {
	FeedPayload time.Duration
	Enrichment  time.Duration
	NextAirDate time.Duration
}{
	FeedPayload: 10 * time.Minute,
	Enrichment:  14 * 24 * time.Hour,
	NextAirDate: 12 * time.Hour,
}

var APIConfig = struct {
	TVMazeBaseURL   string
	BangumiBaseURL  string
	OMDbBaseURL     string
	UpstreamTimeout time.Duration
	CacheTimeout    time.Duration
}{
	TVMazeBaseURL:   "https://api.tvmaze.com",
	BangumiBaseURL:  "https://api.bgm.tv",
	OMDbBaseURL:     "https://www.omdbapi.com",
	UpstreamTimeout: 10 * time.Second,
	CacheTimeout:    8 * time.Second,
}

var AiringConfig = struct {
	WindowBackDays    int
	WindowForwardDays int
	CandidatesPerList int
	MaxRailItems      int
	LookupConcurrency int
}{
	WindowBackDays:    3,
	WindowForwardDays: 7,
	CandidatesPerList: 12,
	MaxRailItems:      18,
	LookupConcurrency: 12,
}

var EnrichmentConfig = struct {
	DefaultCap int
}{
	DefaultCap: 10,
}

// Tags queried against the per-category tag-list endpoint to build the
// regional TV rails.
var RegionalTags = []string{"cn", "kr", "jp", "us", "gb"}

// Rating outlets accepted from the enrichment API. Everything else is dropped.
var RecognizedOutlets = []string{
	"Internet Movie Database",
	"Rotten Tomatoes",
	"Metacritic",
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
}{
	ReadyTimeout: 5 * time.Second,
}

var ServerConfig = struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	HandlerTimeout  time.Duration
	ShutdownTimeout time.Duration
}{
	ReadTimeout:     15 * time.Second,
	WriteTimeout:    30 * time.Second,
	HandlerTimeout:  25 * time.Second,
	ShutdownTimeout: 10 * time.Second,
}
