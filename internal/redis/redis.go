package redis

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	probeTimeout = 5 * time.Second
	opTimeout    = 5 * time.Second
)

// Client wraps a Redis connection whose availability is probed exactly
// once, at construction. An unavailable client is a valid configuration,
// not an error: every operation degrades to a no-op so callers can keep
// running on process-local state alone.
type Client struct {
	client    *redis.Client
	available bool
}

// New connects to Redis and pings it once. Parse or probe failures
// produce an unavailable client instead of an error; durable storage
// is optional.
func New(redisURL string) *Client {
	if redisURL == "" {
		log.Println("REDIS_URL not set, running without durable storage")
		return &Client{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("Failed to parse Redis URL: %v, running without durable storage", err)
		return &Client{}
	}

	client := redis.NewClient(opts)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Printf("Failed to connect to Redis: %v, running without durable storage", err)
		client.Close()
		return &Client{}
	}

	log.Println("Successfully connected to Redis")
	return &Client{client: client, available: true}
}

// Available reports whether the startup probe succeeded
func (c *Client) Available() bool {
	return c != nil && c.available
}

// Get retrieves a value by key. The second return is false when the key
// is absent or the client is unavailable.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	if !c.Available() {
		return "", false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores a key-value pair with an expiration. A no-op when the
// client is unavailable.
func (c *Client) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if !c.Available() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return c.client.Set(ctx, key, value, expiration).Err()
}

// Delete removes a key. A no-op when the client is unavailable.
func (c *Client) Delete(ctx context.Context, key string) error {
	if !c.Available() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return c.client.Del(ctx, key).Err()
}

// Close closes the underlying connection
func (c *Client) Close() error {
	if c != nil && c.client != nil {
		log.Println("Closing Redis connection...")
		return c.client.Close()
	}
	return nil
}
