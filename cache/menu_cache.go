// Package cache keeps the public menu in Redis so the menu pages do not
// hit the database on every request.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"restaurant/models"

	"github.com/redis/go-redis/v9"
)

const menuKey = "menu:available"

type MenuCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context) (items []models.MenuItem, ok bool, err error)
	Set(ctx context.Context, items []models.MenuItem) error
	Invalidate(ctx context.Context) error
}

// RedisMenuCache stores the menu as a sorted set scored by list position,
// so ZRANGE returns the items in the order the repository produced.
type RedisMenuCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisMenuCache(rdb *redis.Client, ttl time.Duration) *RedisMenuCache {
	return &RedisMenuCache{rdb: rdb, ttl: ttl}
}

func (r *RedisMenuCache) Get(ctx context.Context) ([]models.MenuItem, bool, error) {
	members, err := r.rdb.ZRange(ctx, menuKey, 0, -1).Result()
	if err != nil {
		return nil, false, err
	}
	if len(members) == 0 {
		return nil, false, nil
	}

	items := make([]models.MenuItem, 0, len(members))
	for _, member := range members {
		var item models.MenuItem
		if err := json.Unmarshal([]byte(member), &item); err != nil {
			return nil, false, fmt.Errorf("decode cached menu item: %w", err)
		}
		items = append(items, item)
	}
	return items, true, nil
}

func (r *RedisMenuCache) Set(ctx context.Context, items []models.MenuItem) error {
	members := make([]redis.Z, 0, len(items))
	for i, item := range items {
		itemJSON, err := json.Marshal(item)
		if err != nil {
			return err
		}
		members = append(members, redis.Z{Score: float64(i), Member: itemJSON})
	}

	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, menuKey)
		if len(members) > 0 {
			pipe.ZAdd(ctx, menuKey, members...)
			if r.ttl > 0 {
				pipe.Expire(ctx, menuKey, r.ttl)
			}
		}
		return nil
	})
	return err
}

func (r *RedisMenuCache) Invalidate(ctx context.Context) error {
	return r.rdb.Del(ctx, menuKey).Err()
}

// NopMenuCache always misses. Used when Redis is disabled.
type NopMenuCache struct{}

func (NopMenuCache) Get(context.Context) ([]models.MenuItem, bool, error) { return nil, false, nil }
func (NopMenuCache) Set(context.Context, []models.MenuItem) error         { return nil }
func (NopMenuCache) Invalidate(context.Context) error                     { return nil }
