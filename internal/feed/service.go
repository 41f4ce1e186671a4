package feed

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"

	"github.com/seonu/homefeed-go/internal/cachestore"
	"github.com/seonu/homefeed-go/internal/catalog"
	"github.com/seonu/homefeed-go/internal/constants"
	"github.com/seonu/homefeed-go/internal/domain"
	"github.com/seonu/homefeed-go/pkg/errors"
	"go.uber.org/zap"
)

// RecCatalog is the primary recommendation feed contract.
type RecCatalog interface {
	FetchFeed(ctx context.Context) (*catalog.RecFeed, error)
}

// TMDBCatalog is the metadata catalog contract.
type TMDBCatalog interface {
	FetchFeed(ctx context.Context) (*catalog.TMDBFeed, error)
	FetchTagList(ctx context.Context, tag string) []catalog.TMDBItemRaw
}

// Service assembles the merged home feed: cache gateway in front, parallel
// upstream fetches, merge, regional split, enrichment and the airing rail
// behind it.
type Service struct {
	rec      RecCatalog
	tmdb     TMDBCatalog
	merger   *Merger
	enricher *Enricher
	airing   *AiringBuilder
	gateway  *cachestore.Gateway
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(
	rec RecCatalog,
	tmdb TMDBCatalog,
	merger *Merger,
	enricher *Enricher,
	airing *AiringBuilder,
	gateway *cachestore.Gateway,
	logger *zap.Logger,
) *Service {
	return &Service{
		rec:      rec,
		tmdb:     tmdb,
		merger:   merger,
		enricher: enricher,
		airing:   airing,
		gateway:  gateway,
		logger:   logger,
		now:      time.Now,
	}
}

// GetFeed serves the payload, from the remote cache when fresh, rebuilding
// otherwise. The boolean reports a cache hit. A rebuilt payload is uploaded
// fire-and-forget before returning.
func (s *Service) GetFeed(ctx context.Context) (*domain.FeedPayload, bool, error) {
	if payload, fresh := s.gateway.Read(ctx); fresh {
		s.logger.Debug("serving cached payload", zap.Time("cached_at", payload.CachedAt()))
		return payload, true, nil
	}

	payload, err := s.Rebuild(ctx)
	if err != nil {
		return nil, false, err
	}

	s.gateway.WriteAsync(payload)
	return payload, false, nil
}

// Rebuild fetches both upstream feeds in parallel and assembles the full
// payload. A single failed feed degrades to empty lists; only both feeds
// failing is an error.
func (s *Service) Rebuild(ctx context.Context) (*domain.FeedPayload, error) {
	var (
		recFeed  *catalog.RecFeed
		tmdbFeed *catalog.TMDBFeed
		recErr   error
		tmdbErr  error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		recFeed, recErr = s.rec.FetchFeed(ctx)
	})
	wg.Go(func() {
		tmdbFeed, tmdbErr = s.tmdb.FetchFeed(ctx)
	})
	wg.Wait()

	if recErr != nil && tmdbErr != nil {
		return nil, errors.NewFeedUnavailableError(map[string]string{
			"rec":  recErr.Error(),
			"tmdb": tmdbErr.Error(),
		})
	}
	if recFeed == nil {
		recFeed = &catalog.RecFeed{}
	}
	if tmdbFeed == nil {
		tmdbFeed = &catalog.TMDBFeed{}
	}

	movies := s.merger.Merge(
		s.merger.Merge(catalog.MapRecItems(recFeed.Movies), catalog.MapRecItems(recFeed.LatestMovies)),
		catalog.MapTMDBItems(tmdbFeed.Movies),
	)
	tv := s.merger.Merge(catalog.MapRecItems(recFeed.TV), catalog.MapTMDBItems(tmdbFeed.TV))
	variety := s.merger.Merge(catalog.MapRecItems(recFeed.Variety), nil)
	nowPlaying := s.merger.Merge(catalog.MapTMDBItems(tmdbFeed.NowPlaying), nil)
	people := s.merger.Merge(catalog.MapTMDBItems(tmdbFeed.People), nil)

	buckets := s.regionalBuckets(ctx, tmdbFeed)

	movies = s.enricher.Enrich(ctx, movies)

	rail := s.airing.Build(ctx,
		catalog.MapRecItems(recFeed.LatestTV),
		catalog.MapTMDBItems(tmdbFeed.OnAir),
	)

	payload := &domain.FeedPayload{
		Movies:     movies,
		TV:         tv,
		Variety:    variety,
		NowPlaying: nowPlaying,
		LocalTV:    buckets[domain.RegionLocal],
		KoreanTV:   buckets[domain.RegionKorean],
		JapaneseTV: buckets[domain.RegionJapanese],
		WesternTV:  buckets[domain.RegionWestern],
		People:     people,
		Airing:     rail,
		UpdatedAt:  s.now(),
	}

	s.logger.Info("feed rebuilt",
		zap.Int("movies", len(payload.Movies)),
		zap.Int("tv", len(payload.TV)),
		zap.Int("kr_tv", len(payload.KoreanTV)),
		zap.Int("jp_tv", len(payload.JapaneseTV)),
		zap.Int("airing", len(rail.Items)),
		zap.String("airing_title", rail.TitleKey),
		zap.Bool("rec_degraded", recErr != nil),
		zap.Bool("tmdb_degraded", tmdbErr != nil),
	)

	return payload, nil
}

// regionalBuckets combines the feed's explicit regional lists with the
// tag-list queries, classified by the heuristic splitter. Tag queries run
// concurrently and individually degrade to empty lists.
func (s *Service) regionalBuckets(ctx context.Context, tmdbFeed *catalog.TMDBFeed) map[domain.Region][]*domain.CardItem {
	tagResults := make([][]catalog.TMDBItemRaw, len(constants.RegionalTags))
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(len(constants.RegionalTags))
	for i, tag := range constants.RegionalTags {
		i, tag := i, tag
		p.Go(func() {
			items := s.tmdb.FetchTagList(ctx, tag)
			mu.Lock()
			tagResults[i] = items
			mu.Unlock()
		})
	}
	p.Wait()

	var tagged []*domain.CardItem
	for _, items := range tagResults {
		tagged = append(tagged, catalog.MapTMDBItems(items)...)
	}
	classified := SplitRegional(tagged)

	return map[domain.Region][]*domain.CardItem{
		domain.RegionLocal:    s.merger.Merge(classified[domain.RegionLocal], nil),
		domain.RegionKorean:   s.merger.Merge(catalog.MapTMDBItems(tmdbFeed.KrTV), classified[domain.RegionKorean]),
		domain.RegionJapanese: s.merger.Merge(catalog.MapTMDBItems(tmdbFeed.JpTV), classified[domain.RegionJapanese]),
		domain.RegionWestern:  s.merger.Merge(classified[domain.RegionWestern], nil),
	}
}
