// Package cache is a read-through Redis layer over catalog lookups.
// It is entirely optional: every method degrades to a miss or a no-op
// when Redis misbehaves, so the SQL store stays the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/toolscout/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	// KeyPrefixTool is the prefix for cached tool detail keys.
	KeyPrefixTool = "toolscout:tool:"
)

// ToolKey returns the Redis key for a cached tool detail by slug.
func ToolKey(slug string) string {
	return KeyPrefixTool + slug
}

// Cache holds the Redis client and the entry TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New wraps an established Redis client.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// GetTool returns the cached detail for a slug, or (nil, nil) on a miss.
func (c *Cache) GetTool(ctx context.Context, slug string) (*domain.ToolWithMentions, error) {
	raw, err := c.client.Get(ctx, ToolKey(slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached tool: %w", err)
	}

	var tool domain.ToolWithMentions
	if err := json.Unmarshal(raw, &tool); err != nil {
		// A stale or corrupt entry is a miss, not a failure.
		_ = c.client.Del(ctx, ToolKey(slug)).Err()
		return nil, nil
	}
	return &tool, nil
}

// SetTool stores a tool detail under its slug for the configured TTL.
func (c *Cache) SetTool(ctx context.Context, tool *domain.ToolWithMentions) error {
	raw, err := json.Marshal(tool)
	if err != nil {
		return fmt.Errorf("failed to encode tool for cache: %w", err)
	}
	if err := c.client.Set(ctx, ToolKey(tool.Slug), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache tool: %w", err)
	}
	return nil
}

// Flush removes every cached tool entry. Called after an ingestion run
// so readers never see pre-run snapshots past the run boundary.
func (c *Cache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, KeyPrefixTool+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
