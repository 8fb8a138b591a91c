// Package redis caches analytics query results. Candidate-model responses are
// never cached; every evaluation run hits the provider.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/truth-meter/backend/internal/metrics"
	"github.com/truth-meter/backend/pkg/logger"
)

const keyPrefix = "analytics:"

type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(host string, port int, password string, db int, ttl time.Duration) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized",
		zap.String("addr", fmt.Sprintf("%s:%d", host, port)),
		zap.Duration("ttl", ttl),
	)

	return &Client{client: client, ttl: ttl}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Get loads a cached analytics result into out. A nil receiver behaves as a
// permanent miss, so callers never branch on whether caching is enabled.
func (c *Client) Get(ctx context.Context, query string, out interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}

	data, err := c.client.Get(ctx, keyPrefix+query).Bytes()
	if err == redis.Nil {
		metrics.CacheMisses.WithLabelValues(query).Inc()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get analytics cache: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}

	metrics.CacheHits.WithLabelValues(query).Inc()
	logger.Debug("Analytics cache hit", zap.String("query", query))
	return true, nil
}

func (c *Client) Set(ctx context.Context, query string, result interface{}) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+query, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set analytics cache: %w", err)
	}

	return nil
}

// Invalidate drops every cached analytics result. Called after any write to
// questions or evaluations.
func (c *Client) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}

	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warn("Failed to delete cache key", zap.Error(err))
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to iterate cache keys: %w", err)
	}

	logger.Debug("Analytics cache invalidated")
	return nil
}
