// Package idempotency remembers which transport delivery ids have
// already been processed, so upstream redelivery short-circuits at the
// edge instead of re-running the core and re-forwarding downstream.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "relay:delivery:"

// Cache is consulted before the core runs and written after a delivery
// classifies. Implementations must be safe for concurrent use.
type Cache interface {
	// Check reports whether the delivery id was already processed and,
	// if so, the fingerprint recorded for it.
	Check(ctx context.Context, dealerID, deliveryID string) (fingerprint string, seen bool, err error)
	// Remember records the fingerprint under the delivery id. The first
	// writer wins: when a concurrent delivery got there first, its
	// fingerprint comes back with duplicate true.
	Remember(ctx context.Context, dealerID, deliveryID, fingerprint string) (stored string, duplicate bool, err error)
	Close() error
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection before
// returning. Entries expire after ttl.
func NewRedisCache(redisURL string, ttl time.Duration) (Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &redisCache{client: client, ttl: ttl}, nil
}

func key(dealerID, deliveryID string) string {
	return keyPrefix + dealerID + ":" + deliveryID
}

func (c *redisCache) Check(ctx context.Context, dealerID, deliveryID string) (string, bool, error) {
	if deliveryID == "" {
		return "", false, nil
	}

	fp, err := c.client.Get(ctx, key(dealerID, deliveryID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("idempotency check: %w", err)
	}
	return fp, true, nil
}

func (c *redisCache) Remember(ctx context.Context, dealerID, deliveryID, fingerprint string) (string, bool, error) {
	if deliveryID == "" {
		return fingerprint, false, nil
	}

	k := key(dealerID, deliveryID)
	set, err := c.client.SetNX(ctx, k, fingerprint, c.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("idempotency remember: %w", err)
	}
	if set {
		return fingerprint, false, nil
	}

	existing, err := c.client.Get(ctx, k).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// The first writer's entry expired between SETNX and GET;
			// after a full TTL the redelivery counts as first sight.
			return fingerprint, false, nil
		}
		return "", false, fmt.Errorf("idempotency remember: %w", err)
	}
	return existing, true, nil
}

func (c *redisCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// NoOpCache is used when Redis is not configured: nothing is ever a
// duplicate and every delivery runs the full path.
type NoOpCache struct{}

func (NoOpCache) Check(ctx context.Context, dealerID, deliveryID string) (string, bool, error) {
	return "", false, nil
}

func (NoOpCache) Remember(ctx context.Context, dealerID, deliveryID, fingerprint string) (string, bool, error) {
	return fingerprint, false, nil
}

func (NoOpCache) Close() error {
	return nil
}
