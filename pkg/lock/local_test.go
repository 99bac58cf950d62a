package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLockerExclusive(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLocker()

	release, err := l.Acquire(ctx, "course-1", time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "course-1", time.Minute)
	assert.ErrorIs(t, err, ErrNotAcquired)

	other, err := l.Acquire(ctx, "course-2", time.Minute)
	require.NoError(t, err)
	require.NoError(t, other(ctx))

	require.NoError(t, release(ctx))
	require.NoError(t, release(ctx))

	again, err := l.Acquire(ctx, "course-1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestLocalLockerExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	l := NewLocalLocker()
	l.clock = func() time.Time { return now }

	stale, err := l.Acquire(ctx, "course-1", 15*time.Second)
	require.NoError(t, err)

	now = now.Add(16 * time.Second)
	fresh, err := l.Acquire(ctx, "course-1", 15*time.Second)
	require.NoError(t, err)

	// the expired holder must not release the new holder's lock
	require.NoError(t, stale(ctx))
	_, err = l.Acquire(ctx, "course-1", 15*time.Second)
	assert.ErrorIs(t, err, ErrNotAcquired)

	require.NoError(t, fresh(ctx))
}
