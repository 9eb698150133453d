// Package cache defines the cache client interface.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Client is a higher-level cache client that wraps the Cache interface
// with JSON serialization helpers.
type Client interface {
	Cache

	// GetCache returns the underlying Cache implementation.
	GetCache() Cache
}

// GetJSON retrieves a key and unmarshals it into v.
// Returns false when the key does not exist.
func GetJSON(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, err := c.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached value for %s: %w", key, err)
	}
	return true, nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}
