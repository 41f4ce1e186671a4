package feed

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/seonu/homefeed-go/internal/cachestore"
	"github.com/seonu/homefeed-go/internal/constants"
	"github.com/seonu/homefeed-go/internal/domain"
	"go.uber.org/zap"
)

// RatingsAPI is the upstream enrichment catalog contract.
type RatingsAPI interface {
	HasAPIKey() bool
	FetchByIMDbID(ctx context.Context, imdbID string) (*domain.Contribution, error)
}

// Enricher attaches rating contributions to merged cards. Resolution runs
// cache-then-network: the in-process map first, the remote per-id blob
// second, the upstream API last. Both cache writes are best-effort.
type Enricher struct {
	api    RatingsAPI
	store  cachestore.Store
	cap    int
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]*domain.EnrichmentCacheEntry
}

func NewEnricher(api RatingsAPI, store cachestore.Store, cap int, logger *zap.Logger) *Enricher {
	if cap <= 0 {
		cap = constants.EnrichmentConfig.DefaultCap
	}
	return &Enricher{
		api:     api,
		store:   store,
		cap:     cap,
		ttl:     constants.CacheTTL.Enrichment,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]*domain.EnrichmentCacheEntry),
	}
}

// Enrich resolves contributions for the first cap distinct IMDb ids in
// cards, concurrently, and attaches the results in place. Cards without a
// rating id, or beyond the cap, pass through untouched.
func (e *Enricher) Enrich(ctx context.Context, cards []*domain.CardItem) []*domain.CardItem {
	ids := make([]string, 0, e.cap)
	seen := make(map[string]struct{}, e.cap)
	for _, card := range cards {
		if len(ids) >= e.cap {
			break
		}
		id := NormalizeIMDbID(card.IMDbID)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return cards
	}

	resolved := make(map[string]*domain.Contribution, len(ids))
	var resolvedMu sync.Mutex

	p := pool.New().WithMaxGoroutines(e.cap)
	for _, id := range ids {
		id := id
		p.Go(func() {
			contribution := e.resolve(ctx, id)
			if contribution == nil {
				return
			}
			resolvedMu.Lock()
			resolved[id] = contribution
			resolvedMu.Unlock()
		})
	}
	p.Wait()

	for _, card := range cards {
		id := NormalizeIMDbID(card.IMDbID)
		if id == "" {
			continue
		}
		if contribution, ok := resolved[id]; ok {
			card.Sources.RatingContribution = contribution
		}
	}
	return cards
}

// resolve walks the cache tiers for one id. A cached entry with nil data
// still counts as fresh, so a known miss is not re-fetched for the cache
// lifetime.
func (e *Enricher) resolve(ctx context.Context, id string) *domain.Contribution {
	if entry, fresh := e.memGet(id); fresh {
		return entry.Data
	}

	var stale *domain.EnrichmentCacheEntry
	if e.store != nil {
		var entry domain.EnrichmentCacheEntry
		found, err := e.store.Get(ctx, ratingsKey(id), &entry)
		if err != nil {
			e.logger.Debug("remote enrichment cache read failed", zap.String("imdb_id", id), zap.Error(err))
		} else if found {
			if e.isFresh(&entry) {
				e.memSet(id, &entry)
				return entry.Data
			}
			stale = &entry
		}
	}

	if !e.api.HasAPIKey() {
		if stale != nil {
			return stale.Data
		}
		return nil
	}

	contribution, err := e.api.FetchByIMDbID(ctx, id)
	if err != nil {
		e.logger.Warn("enrichment fetch failed", zap.String("imdb_id", id), zap.Error(err))
		if stale != nil {
			return stale.Data
		}
		return nil
	}

	entry := &domain.EnrichmentCacheEntry{
		CachedAt: e.now(),
		Data:     contribution,
	}
	e.memSet(id, entry)
	if e.store != nil {
		if err := e.store.Put(ctx, ratingsKey(id), entry); err != nil {
			e.logger.Debug("remote enrichment cache write failed", zap.String("imdb_id", id), zap.Error(err))
		}
	}
	return contribution
}

func (e *Enricher) memGet(id string) (*domain.EnrichmentCacheEntry, bool) {
	e.mu.RLock()
	entry, ok := e.entries[id]
	e.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return entry, e.isFresh(entry)
}

func (e *Enricher) memSet(id string, entry *domain.EnrichmentCacheEntry) {
	e.mu.Lock()
	e.entries[id] = entry
	e.mu.Unlock()
}

func (e *Enricher) isFresh(entry *domain.EnrichmentCacheEntry) bool {
	return entry != nil && e.now().Sub(entry.CachedAt) < e.ttl
}

func ratingsKey(id string) string {
	return "ratings/" + id
}
