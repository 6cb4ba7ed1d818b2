package redisclient

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/unlock.lua
var unlockScript string

type Client struct {
	rdb    *redis.Client
	unlock *redis.Script
}

// NewClient creates a new Redis client with the unlock script loaded
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:    rdb,
		unlock: redis.NewScript(unlockScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// AcquireCheckoutLock takes the per-user checkout lock. The token
// identifies the holder so only the winner can release it.
func (c *Client) AcquireCheckoutLock(ctx context.Context, userID int64, token string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("checkout-lock:%d", userID)
	return c.rdb.SetNX(ctx, key, token, ttl).Result()
}

// ReleaseCheckoutLock releases the lock if token still owns it
func (c *Client) ReleaseCheckoutLock(ctx context.Context, userID int64, token string) error {
	key := fmt.Sprintf("checkout-lock:%d", userID)

	_, err := c.unlock.Run(ctx, c.rdb, []string{key}, token).Result()
	if err != nil {
		return fmt.Errorf("unlock script failed: %w", err)
	}
	return nil
}

// SetIdempotencyKey records an idempotency key -> receipt ID mapping with TTL
func (c *Client) SetIdempotencyKey(ctx context.Context, key string, receiptID int64, ttl time.Duration) error {
	return c.rdb.Set(ctx, fmt.Sprintf("idempotency:%s", key), receiptID, ttl).Err()
}

// GetIdempotencyKey returns the receipt ID recorded for a key, or 0 when
// the key is unknown
func (c *Client) GetIdempotencyKey(ctx context.Context, key string) (int64, error) {
	id, err := c.rdb.Get(ctx, fmt.Sprintf("idempotency:%s", key)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// CacheInventoryList stores the serialized public inventory listing
func (c *Client) CacheInventoryList(ctx context.Context, payload []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, "cache:inventory-list", payload, ttl).Err()
}

// GetCachedInventoryList returns the cached listing, or nil on a miss
func (c *Client) GetCachedInventoryList(ctx context.Context) ([]byte, error) {
	payload, err := c.rdb.Get(ctx, "cache:inventory-list").Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// InvalidateInventoryList drops the cached listing after a write
func (c *Client) InvalidateInventoryList(ctx context.Context) error {
	return c.rdb.Del(ctx, "cache:inventory-list").Err()
}
