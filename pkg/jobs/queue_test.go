package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	q := NewQueue("test", func(_ context.Context, job Job) error {
		mu.Lock()
		defer mu.Unlock()
		seen[job.Payload.(string)] = true
		return nil
	}, QueueConfig{Workers: 2, BufferSize: 8})
	q.Start(context.Background())
	defer q.Stop()

	for _, p := range []string{"a", "b", "c"} {
		require.NoError(t, q.Enqueue(Job{Type: "note", Payload: p}))
	}

	require.Eventually(t, func() bool { return q.Stats().Processed == 3 }, time.Second, 5*time.Millisecond)
	mu.Lock()
	assert.Len(t, seen, 3)
	mu.Unlock()
}

func TestQueueRetriesThenExhausts(t *testing.T) {
	var attempts atomic.Int32
	exhausted := make(chan Job, 1)
	q := NewQueue("test", func(context.Context, Job) error {
		attempts.Add(1)
		return errors.New("backend down")
	}, QueueConfig{
		MaxRetries:  2,
		RetryDelay:  time.Millisecond,
		OnExhausted: func(j Job, _ error) { exhausted <- j },
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "job-1"}))

	select {
	case j := <-exhausted:
		assert.Equal(t, "job-1", j.ID)
		assert.Equal(t, 3, j.Attempt)
	case <-time.After(time.Second):
		t.Fatal("job was never exhausted")
	}
	assert.Equal(t, int32(3), attempts.Load())
	assert.Equal(t, uint64(2), q.Stats().Retried)
	assert.Equal(t, uint64(1), q.Stats().Exhausted)
}

func TestQueueRetrySucceeds(t *testing.T) {
	var attempts atomic.Int32
	q := NewQueue("test", func(context.Context, Job) error {
		if attempts.Add(1) == 1 {
			return errors.New("transient")
		}
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{}))
	require.Eventually(t, func() bool { return q.Stats().Processed == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, uint64(1), q.Stats().Retried)
}

func TestQueueEnqueueRequiresStart(t *testing.T) {
	q := NewQueue("test", func(context.Context, Job) error { return nil }, QueueConfig{})
	assert.ErrorIs(t, q.Enqueue(Job{}), ErrNotStarted)

	q.Start(context.Background())
	q.Stop()
	assert.ErrorIs(t, q.Enqueue(Job{}), ErrNotStarted)
}

func TestQueueFull(t *testing.T) {
	block := make(chan struct{})
	q := NewQueue("test", func(ctx context.Context, _ Job) error {
		select {
		case <-block:
		case <-ctx.Done():
		}
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())
	defer q.Stop()
	defer close(block)

	require.NoError(t, q.Enqueue(Job{}))
	// the worker may or may not have picked up the first job yet
	var err error
	for i := 0; i < 3 && err == nil; i++ {
		err = q.Enqueue(Job{})
	}
	assert.ErrorIs(t, err, ErrQueueFull)
}
