// Package cache persists the viewer's own story collection across
// restarts. Stale entries are an accepted starting point; the next
// successful fetch replaces them.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/craftfolio/story-engine/internal/domain"
	"github.com/craftfolio/story-engine/pkg/config"
	"github.com/craftfolio/story-engine/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const (
	ownStoriesKey = "stories:own"
	entryTTL      = 24 * time.Hour
)

var ErrEmpty = errors.New("story cache is empty")

type Cache interface {
	LoadOwnStories(ctx context.Context) ([]domain.StoryItem, error)
	SaveOwnStories(ctx context.Context, items []domain.StoryItem) error
}

type RedisCache struct {
	rdb    *redis.Client
	logger logger.Logger
}

func NewRedisCache(rdb *redis.Client, logger logger.Logger) *RedisCache {
	return &RedisCache{rdb: rdb, logger: logger}
}

var _ Cache = (*RedisCache)(nil)

func (c *RedisCache) LoadOwnStories(ctx context.Context) ([]domain.StoryItem, error) {
	raw, err := c.rdb.Get(ctx, ownStoriesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrEmpty
		}
		return nil, err
	}

	var items []domain.StoryItem
	if err := json.Unmarshal(raw, &items); err != nil {
		// A corrupt entry is as good as no entry.
		c.logger.Warn("Discarding unreadable story cache entry", "error", err)
		return nil, ErrEmpty
	}
	return items, nil
}

func (c *RedisCache) SaveOwnStories(ctx context.Context, items []domain.StoryItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, ownStoriesKey, raw, entryTTL).Err()
}

// NewRedisClient creates the shared redis client and manages its lifecycle.
func NewRedisClient(lc fx.Lifecycle, cfg *config.Config, log logger.Logger) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Pass,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rdb.Ping(ctx).Err(); err != nil {
				return err
			}
			log.Info("Connected to redis")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return rdb.Close()
		},
	})

	return rdb
}

var Module = fx.Options(
	fx.Provide(NewRedisClient),
	fx.Provide(
		fx.Annotate(
			NewRedisCache,
			fx.As(new(Cache)),
		),
	),
)
