package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/newsroom-dev/newsroom/internal/collector"
	"github.com/newsroom-dev/newsroom/internal/log"
)

// Store 使用 Redis 做短 TTL 的结果缓存，只缓存成功的抓取结果；
// 缓存不可用时所有方法都退化为直接未命中。
type Store struct {
	Redis *redis.Client
	TTL   time.Duration
}

// NewStore returns a Store backed by addr. An empty addr yields a Store
// that never hits.
func NewStore(addr string, ttl time.Duration) *Store {
	if addr == "" {
		return &Store{TTL: ttl}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis ping failed", "addr", addr, "error", err)
	}

	return &Store{Redis: rdb, TTL: ttl}
}

func cacheKey(s collector.Source, limit int) string {
	return fmt.Sprintf("news:list:%s:%d", s.Token(), limit)
}

// Get returns the cached items for (s, limit) if present.
func (st *Store) Get(ctx context.Context, s collector.Source, limit int) ([]collector.NewsItem, bool) {
	if st == nil || st.Redis == nil {
		return nil, false
	}
	bs, err := st.Redis.Get(ctx, cacheKey(s, limit)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn("redis get failed", "source", s.Token(), "error", err)
		}
		return nil, false
	}
	var items []collector.NewsItem
	if err := json.Unmarshal(bs, &items); err != nil {
		log.Warn("redis entry unreadable", "source", s.Token(), "error", err)
		return nil, false
	}
	return items, true
}

// Set caches items for (s, limit) for the store's TTL.
func (st *Store) Set(ctx context.Context, s collector.Source, limit int, items []collector.NewsItem) {
	if st == nil || st.Redis == nil {
		return
	}
	bs, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := st.Redis.Set(ctx, cacheKey(s, limit), bs, st.TTL).Err(); err != nil {
		log.Warn("redis set failed", "source", s.Token(), "error", err)
	}
}

func (st *Store) Close() error {
	if st == nil || st.Redis == nil {
		return nil
	}
	return st.Redis.Close()
}

// CachingFetcher serves fetches from the store when possible and records
// successful ones.
type CachingFetcher struct {
	Next  collector.Fetcher
	Store *Store
}

func (c *CachingFetcher) Fetch(ctx context.Context, s collector.Source, limit int) ([]collector.NewsItem, error) {
	if items, ok := c.Store.Get(ctx, s, limit); ok {
		log.Debug("cache hit", "source", s.Token(), "limit", limit)
		return items, nil
	}
	items, err := c.Next.Fetch(ctx, s, limit)
	if err != nil {
		return nil, err
	}
	c.Store.Set(ctx, s, limit, items)
	return items, nil
}
