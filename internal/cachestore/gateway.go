package cachestore

import (
	"context"
	"time"

	"github.com/seonu/homefeed-go/internal/constants"
	"github.com/seonu/homefeed-go/internal/domain"
	"go.uber.org/zap"
)

// FeedKey is the logical blob key of the whole merged payload.
const FeedKey = "feed/home"

// Gateway fronts the blob store with the payload freshness rule and the
// fire-and-forget write-back.
type Gateway struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewGateway(store Store, logger *zap.Logger) *Gateway {
	return &Gateway{
		store:  store,
		ttl:    constants.CacheTTL.FeedPayload,
		logger: logger,
		now:    time.Now,
	}
}

// Read returns the cached payload and whether it is fresh enough to serve
// directly. Read failures just force a rebuild; they are never surfaced.
func (g *Gateway) Read(ctx context.Context) (*domain.FeedPayload, bool) {
	var payload domain.FeedPayload
	found, err := g.store.Get(ctx, FeedKey, &payload)
	if err != nil {
		g.logger.Warn("cache read failed, rebuilding", zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}

	cachedAt := payload.CachedAt()
	if cachedAt.IsZero() || g.now().Sub(cachedAt) >= g.ttl {
		g.logger.Debug("cached payload stale",
			zap.Time("cached_at", cachedAt),
			zap.Duration("ttl", g.ttl),
		)
		return &payload, false
	}
	return &payload, true
}

// WriteAsync uploads the payload in the background. Failures are logged and
// swallowed; caching must never fail the response path.
func (g *Gateway) WriteAsync(payload *domain.FeedPayload) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.APIConfig.CacheTimeout)
		defer cancel()

		if err := g.store.Put(ctx, FeedKey, payload); err != nil {
			g.logger.Warn("cache write-back failed", zap.Error(err))
			return
		}
		g.logger.Debug("cache write-back completed")
	}()
}

// Ping reports backend reachability.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.store.Ping(ctx)
}
