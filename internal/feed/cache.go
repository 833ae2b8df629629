package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// Cache holds composed feed pages in Redis for a short TTL so bursts of
// dashboard refreshes don't refetch every source.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache creates a feed page cache.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func cacheKey(q Query) string {
	return fmt.Sprintf("feed:page:%d:%d:%d:%v",
		q.Limit, q.Before.Unix(), q.From.Unix(), q.Kinds)
}

// Get returns a cached page and whether it was present.
func (c *Cache) Get(ctx context.Context, q Query) ([]models.FeedItem, bool) {
	data, err := c.rdb.Get(ctx, cacheKey(q)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.WithError(err).Warn("Feed cache read failed")
		}
		return nil, false
	}
	var items []models.FeedItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.WithError(err).Warn("Feed cache entry corrupt, dropping")
		c.rdb.Del(ctx, cacheKey(q))
		return nil, false
	}
	return items, true
}

// Put stores a composed page. Failures only cost a cache miss.
func (c *Cache) Put(ctx context.Context, q Query, items []models.FeedItem) {
	data, err := json.Marshal(items)
	if err != nil {
		log.WithError(err).Warn("Feed cache marshal failed")
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(q), data, c.ttl).Err(); err != nil {
		log.WithError(err).Warn("Feed cache write failed")
	}
}
