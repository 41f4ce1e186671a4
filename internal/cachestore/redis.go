package cachestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/seonu/homefeed-go/internal/constants"
	"github.com/seonu/homefeed-go/pkg/errors"
	"go.uber.org/zap"
)

const redisKeyPrefix = "homefeed:"

// RedisStore is the alternate cache backend, selected by config flag. It
// implements the same Store contract as the HTTP blob store; freshness is
// still judged by the gateway on the payload's own timestamp, so entries
// are written without a Redis TTL.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

type RedisStoreConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewRedisStore(cfg RedisStoreConfig, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), constants.RedisConfig.ReadyTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis cache backend connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &RedisStore{client: client, logger: logger}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	value, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		s.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return false, errors.NewCacheError("get failed", "get", key, err)
	}

	if err := json.Unmarshal([]byte(value), dest); err != nil {
		s.logger.Error("Cache unmarshal failed", zap.String("key", key), zap.Error(err))
		return false, errors.NewCacheError("unmarshal failed", "get", key, err)
	}
	return true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value any) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal failed", "put", key, err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, jsonData, 0).Err(); err != nil {
		s.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("set failed", "put", key, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		s.logger.Error("Failed to close Redis connection", zap.Error(err))
		return err
	}
	return nil
}
