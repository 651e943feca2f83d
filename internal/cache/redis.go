package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/segyhp/coal-settlement/internal/domain"
	"github.com/segyhp/coal-settlement/internal/service"
)

// SummaryKey is where the published account summary lives.
const SummaryKey = "coal:summary"

type RedisSummaryCache struct {
	client *redis.Client
	key    string
}

func NewRedisSummaryCache(client *redis.Client) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, key: SummaryKey}
}

func (c *RedisSummaryCache) Put(ctx context.Context, summary *domain.AccountSummary, ttl time.Duration) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, raw, ttl).Err()
}

func (c *RedisSummaryCache) Get(ctx context.Context) (*domain.AccountSummary, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, service.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var summary domain.AccountSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
