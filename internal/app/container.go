package app

import (
	"fmt"
	"strings"

	"github.com/seonu/homefeed-go/internal/cachestore"
	"github.com/seonu/homefeed-go/internal/catalog"
	"github.com/seonu/homefeed-go/internal/config"
	"github.com/seonu/homefeed-go/internal/feed"
	"github.com/seonu/homefeed-go/internal/server"
	"go.uber.org/zap"
)

// Container bundles the assembled services and owns their teardown.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Server  *server.Server
	closers []func()
}

// Close releases held resources in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles the full dependency graph: cache backend per config flag,
// upstream clients, the aggregation service and the HTTP server.
func Build(cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	container = &Container{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			container.Close()
		}
	}()

	var store cachestore.Store
	if cfg.Redis.Enabled {
		redisStore, redisErr := cachestore.NewRedisStore(cachestore.RedisStoreConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if redisErr != nil {
			return nil, fmt.Errorf("failed to create redis store: %w", redisErr)
		}
		container.closers = append(container.closers, func() {
			_ = redisStore.Close()
		})
		store = redisStore
	} else {
		store = cachestore.NewHTTPStore(blobURLResolver(cfg), logger)
	}

	gateway := cachestore.NewGateway(store, logger)

	recClient := catalog.NewRecClient(cfg.Rec.BaseURL, logger)
	tmdbClient := catalog.NewTMDBClient(cfg.TMDB.BaseURL, logger)
	omdbClient := catalog.NewOMDbClient(cfg.OMDb.APIKey, logger)
	tvmazeClient := catalog.NewTVMazeClient(logger)
	bangumiClient := catalog.NewBangumiClient(logger)

	if !omdbClient.HasAPIKey() {
		logger.Warn("OMDb API key not configured, enrichment degrades to cache-only")
	}

	merger := feed.NewMerger(logger)
	enricher := feed.NewEnricher(omdbClient, store, cfg.Enrichment.Cap, logger)
	airing := feed.NewAiringBuilder(tvmazeClient, bangumiClient, logger)

	svc := feed.NewService(recClient, tmdbClient, merger, enricher, airing, gateway, logger)

	container.Server = server.NewServer(cfg.Server, svc, gateway, logger)
	return container, nil
}

// blobURLResolver maps logical blob keys onto the configured cache store.
func blobURLResolver(cfg *config.Config) cachestore.URLResolver {
	return func(key string) string {
		if key == cachestore.FeedKey {
			return cfg.CacheURL()
		}
		if id, ok := strings.CutPrefix(key, "ratings/"); ok {
			return cfg.EnrichmentCacheURL(id)
		}
		return ""
	}
}
