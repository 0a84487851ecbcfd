package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rsharma91/aircargo/config"
	"github.com/rsharma91/aircargo/internal/service/routes"
)

type RedisCache struct {
	client    *redis.Client
	routesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, routesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		routesTTL: routesTTL,
	}
}

func (c *RedisCache) GetRoutes(ctx context.Context, origin, destination string, day time.Time) (*routes.SearchResult, error) {
	data, err := c.client.Get(ctx, routesKey(origin, destination, day)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var result routes.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RedisCache) SetRoutes(ctx context.Context, origin, destination string, day time.Time, result *routes.SearchResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, routesKey(origin, destination, day), payload, c.routesTTL).Err()
}

func routesKey(origin, destination string, day time.Time) string {
	return fmt.Sprintf("cache:routes:%s:%s:%s", origin, destination, day.Format("2006-01-02"))
}

var _ routes.Cache = (*RedisCache)(nil)
