package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"fundwatch/internal/platform/config"
)

// Client wraps go-redis for the anomaly summary cache and exposes a health
// probe for the readiness endpoint.
type Client struct {
	*redis.Client
}

// New dials Redis using the configured URL. An empty URL means the cache is
// disabled and both return values are nil; callers fall back to in-process
// state.
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	// Fail startup on an unreachable cache rather than surfacing it later
	// as degraded summary reads.
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health reports whether the connection still answers, for /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}
