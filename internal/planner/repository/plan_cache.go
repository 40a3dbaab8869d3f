package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gtnh-tools/planner-backend/internal/planner/domain"
)

const planCacheKeyPrefix = "plan:cache:" // plan:cache:{snapshot_version}:{request_hash}

// PlanCache memoizes computed plan graphs in Redis. Entries are keyed by the
// snapshot version plus a hash of the canonical request, so a catalog refresh
// naturally invalidates every cached plan.
type PlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPlanCache(client *redis.Client, ttl time.Duration) *PlanCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &PlanCache{client: client, ttl: ttl}
}

// Key derives the cache key for a request against one snapshot version.
func (c *PlanCache) Key(snapshotVersion string, req *domain.PlanRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal plan request: %w", err)
	}
	sum := sha256.Sum256(payload)
	return planCacheKeyPrefix + snapshotVersion + ":" + hex.EncodeToString(sum[:]), nil
}

// Get returns the cached graph for key, or (nil, nil) on a miss.
func (c *PlanCache) Get(ctx context.Context, key string) (*domain.PlanGraph, error) {
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached plan: %w", err)
	}

	var graph domain.PlanGraph
	if err := json.Unmarshal([]byte(data), &graph); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached plan: %w", err)
	}
	return &graph, nil
}

// Set stores a computed graph under key with the cache TTL.
func (c *PlanCache) Set(ctx context.Context, key string, graph *domain.PlanGraph) error {
	data, err := json.Marshal(graph)
	if err != nil {
		return fmt.Errorf("failed to marshal plan graph: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache plan: %w", err)
	}
	return nil
}
