package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/archfolio/archfolio/internal/config"
	"github.com/archfolio/archfolio/internal/modules/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *ProjectCache {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{}
	cfg.Redis.CacheTTLSec = 60
	c := NewProjectCache(rdb, cfg)
	require.NotNil(t, c)
	return c
}

func TestProjectCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	id := uuid.New()
	_, ok := c.GetProject(ctx, id)
	assert.False(t, ok)

	require.NoError(t, c.SetProject(ctx, &model.Project{ID: id, Name: "Riverside Villa"}))

	got, ok := c.GetProject(ctx, id)
	require.True(t, ok)
	assert.Equal(t, "Riverside Villa", got.Name)
}

func TestProjectCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	id := uuid.New()
	require.NoError(t, c.SetProject(ctx, &model.Project{ID: id}))
	require.NoError(t, c.SetPage(ctx, 0, 10, []model.Project{{ID: id}}))

	require.NoError(t, c.Invalidate(ctx, id))

	_, ok := c.GetProject(ctx, id)
	assert.False(t, ok)
	// Version bump moves every page key, so old pages are unreachable.
	_, ok = c.GetPage(ctx, 0, 10)
	assert.False(t, ok)
}

func TestProjectCachePageKeysIndependent(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	require.NoError(t, c.SetPage(ctx, 0, 10, []model.Project{{Name: "first"}}))
	require.NoError(t, c.SetPage(ctx, 1, 10, []model.Project{{Name: "second"}}))

	p0, ok := c.GetPage(ctx, 0, 10)
	require.True(t, ok)
	assert.Equal(t, "first", p0[0].Name)

	p1, ok := c.GetPage(ctx, 1, 10)
	require.True(t, ok)
	assert.Equal(t, "second", p1[0].Name)
}

func TestProjectCacheDisabled(t *testing.T) {
	cfg := &config.Config{}
	assert.Nil(t, NewProjectCache(nil, cfg))

	// nil cache behaves as a permanent miss
	var c *ProjectCache
	ctx := context.Background()
	_, ok := c.GetProject(ctx, uuid.New())
	assert.False(t, ok)
	assert.NoError(t, c.SetProject(ctx, &model.Project{}))
	assert.NoError(t, c.Invalidate(ctx, uuid.New()))
}
