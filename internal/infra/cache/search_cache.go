package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/config"
)

// SearchCache - кэш кандидатов поиска (query -> ids) в Redis.
// Цены не кэшируются, за ними всегда ходим к провайдеру.
type SearchCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewSearchCache(cfg config.RedisConfig) *SearchCache {
	return NewSearchCacheWithClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), cfg.Prefix, cfg.TTL)
}

// NewSearchCacheWithClient - кэш поверх готового клиента
func NewSearchCacheWithClient(client *redis.Client, prefix string, ttl time.Duration) *SearchCache {
	if prefix == "" {
		prefix = "cms:search:"
	}
	return &SearchCache{client: client, prefix: prefix, ttl: ttl}
}

// Ping - проверка соединения при старте
func (c *SearchCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// GetIDs - ok=false, если ключа нет
func (c *SearchCache) GetIDs(ctx context.Context, query string) (ids []string, ok bool, err error) {
	data, err := c.client.Get(ctx, c.key(query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, false, fmt.Errorf("decode cached ids: %w", err)
	}
	return ids, true, nil
}

// SetIDs - сохраняет кандидатов с TTL
func (c *SearchCache) SetIDs(ctx context.Context, query string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(query), data, c.ttl).Err()
}

func (c *SearchCache) Close() error {
	return c.client.Close()
}

func (c *SearchCache) key(query string) string {
	return c.prefix + normalizeQuery(query)
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}
