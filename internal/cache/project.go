package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"devconnect/internal/model"
)

const (
	// ProjectCachePrefix is the key prefix for cached project details
	ProjectCachePrefix = "project:detail:"

	// ProjectCacheTTL bounds staleness for readers that race an invalidation
	ProjectCacheTTL = 5 * time.Minute
)

// ProjectCache is a read-through cache for fully joined project payloads.
// Using an interface enables testing with mocks and potential future backends.
type ProjectCache interface {
	// Get returns the cached project and whether it was found.
	Get(ctx context.Context, projectID int64) (*model.Project, bool, error)

	// Set stores the joined project payload.
	Set(ctx context.Context, project *model.Project) error

	// Invalidate drops the cached payload after any mutation of the project,
	// its likes set, or its owner's public fields.
	Invalidate(ctx context.Context, projectID int64) error
}

// RedisProjectCache implements ProjectCache on Redis string values.
type RedisProjectCache struct {
	client *redis.Client
}

// NewProjectCache creates a ProjectCache backed by Redis.
func NewProjectCache(client *redis.Client) ProjectCache {
	return &RedisProjectCache{client: client}
}

func projectKey(projectID int64) string {
	return fmt.Sprintf("%s%d", ProjectCachePrefix, projectID)
}

func (c *RedisProjectCache) Get(ctx context.Context, projectID int64) (*model.Project, bool, error) {
	data, err := c.client.Get(ctx, projectKey(projectID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached project: %w", err)
	}

	var project model.Project
	if err := json.Unmarshal(data, &project); err != nil {
		// Corrupt entry: treat as a miss and drop it.
		log.Printf("[ProjectCache] corrupt entry for project=%d err=%v", projectID, err)
		c.client.Del(ctx, projectKey(projectID))
		return nil, false, nil
	}

	return &project, true, nil
}

func (c *RedisProjectCache) Set(ctx context.Context, project *model.Project) error {
	data, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}

	if err := c.client.Set(ctx, projectKey(project.ID), data, ProjectCacheTTL).Err(); err != nil {
		return fmt.Errorf("set cached project: %w", err)
	}
	return nil
}

func (c *RedisProjectCache) Invalidate(ctx context.Context, projectID int64) error {
	if err := c.client.Del(ctx, projectKey(projectID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached project: %w", err)
	}
	return nil
}
