package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMemoryCache()
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	var out map[string]string
	assert.False(t, svc.Get(ctx, "k", &out))

	svc.Set(ctx, "k", map[string]string{"a": "b"}, 0)
	require.True(t, svc.Get(ctx, "k", &out))
	assert.Equal(t, "b", out["a"])
	assert.InDelta(t, 0.5, metrics.Snapshot().CacheHitRatio, 0.001)

	require.NoError(t, svc.Invalidate(ctx, "k"))
	assert.False(t, svc.Get(ctx, "k", &out))
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newMemoryCache()
	svc := NewCacheService(repo, nil, 0, nil, false)
	ctx := context.Background()

	svc.Set(ctx, PolicyCacheKey("c-1"), "x", 0)
	assert.False(t, repo.has(PolicyCacheKey("c-1")))
	var out string
	assert.False(t, svc.Get(ctx, PolicyCacheKey("c-1"), &out))
	assert.NoError(t, svc.InvalidatePattern(ctx, "mentor:policy:*"))
}
