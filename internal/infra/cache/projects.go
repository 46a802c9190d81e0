package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/archfolio/archfolio/internal/config"
	"github.com/archfolio/archfolio/internal/modules/model"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	projectKeyPrefix = "project:"
	pageVersionKey   = "projects:ver"
)

// ProjectCache is a read-through cache over project queries. Page listings are
// keyed under a version counter, so one INCR invalidates every cached page
// without scanning keys.
type ProjectCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewProjectCache returns nil when caching is disabled; callers treat a nil
// cache as a permanent miss.
func NewProjectCache(rdb *redis.Client, cfg *config.Config) *ProjectCache {
	if rdb == nil || cfg.Redis.CacheTTLSec <= 0 {
		return nil
	}
	return &ProjectCache{
		rdb: rdb,
		ttl: time.Duration(cfg.Redis.CacheTTLSec) * time.Second,
	}
}

func (c *ProjectCache) GetProject(ctx context.Context, id uuid.UUID) (*model.Project, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.rdb.Get(ctx, projectKeyPrefix+id.String()).Bytes()
	if err != nil {
		return nil, false
	}
	var p model.Project
	if err := sonic.Unmarshal(b, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *ProjectCache) SetProject(ctx context.Context, p *model.Project) error {
	if c == nil || p == nil {
		return nil
	}
	b, err := sonic.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, projectKeyPrefix+p.ID.String(), b, c.ttl).Err()
}

func (c *ProjectCache) GetPage(ctx context.Context, page, size int) ([]model.Project, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.rdb.Get(ctx, c.pageKey(ctx, page, size)).Bytes()
	if err != nil {
		return nil, false
	}
	var items []model.Project
	if err := sonic.Unmarshal(b, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (c *ProjectCache) SetPage(ctx context.Context, page, size int, items []model.Project) error {
	if c == nil {
		return nil
	}
	b, err := sonic.Marshal(items)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.pageKey(ctx, page, size), b, c.ttl).Err()
}

// Invalidate drops the cached project and bumps the page-listing version.
func (c *ProjectCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if c == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, projectKeyPrefix+id.String()).Err(); err != nil {
		return err
	}
	return c.rdb.Incr(ctx, pageVersionKey).Err()
}

func (c *ProjectCache) pageKey(ctx context.Context, page, size int) string {
	ver, err := c.rdb.Get(ctx, pageVersionKey).Int64()
	if err != nil {
		ver = 0
	}
	return fmt.Sprintf("projects:page:%d:%d:%d", ver, page, size)
}
