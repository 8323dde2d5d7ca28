package anomaly

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	platformredis "fundwatch/internal/platform/redis"
	"fundwatch/pkg/platform/sentinel"
)

const summaryKey = "fundwatch:anomaly:last_summary"

// SummaryCache shares the last scan summary between instances so dashboard
// reads never trigger a rescan.
type SummaryCache interface {
	SetSummary(ctx context.Context, summary Summary) error
	// GetSummary returns sentinel.ErrNotFound when no summary is cached.
	GetSummary(ctx context.Context) (Summary, error)
}

// RedisSummaryCache stores the summary as JSON under a fixed key with a TTL.
type RedisSummaryCache struct {
	client *platformredis.Client
	ttl    time.Duration
}

func NewRedisSummaryCache(client *platformredis.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, ttl: ttl}
}

func (c *RedisSummaryCache) SetSummary(ctx context.Context, summary Summary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := c.client.Set(ctx, summaryKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache summary: %w", err)
	}
	return nil
}

func (c *RedisSummaryCache) GetSummary(ctx context.Context) (Summary, error) {
	payload, err := c.client.Get(ctx, summaryKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Summary{}, sentinel.ErrNotFound
		}
		return Summary{}, fmt.Errorf("read cached summary: %w", err)
	}
	var summary Summary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return Summary{}, fmt.Errorf("decode cached summary: %w", err)
	}
	return summary, nil
}
