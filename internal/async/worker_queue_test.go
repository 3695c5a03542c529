package async

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerQueueProcessesTasks(t *testing.T) {
	var mu sync.Mutex
	seen := map[uuid.UUID]struct{}{}

	q := NewWorkerQueue(func(_ context.Context, task Task) error {
		mu.Lock()
		seen[task.JobID] = struct{}{}
		mu.Unlock()
		return nil
	}, nil, WithWorkers(2), WithQueueSize(8))

	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = uuid.New()
		require.NoError(t, q.Enqueue(context.Background(), Task{JobID: ids[i], SubmittedAt: time.Now()}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, 5)
	for _, id := range ids {
		assert.Contains(t, seen, id)
	}
}

func TestWorkerQueueShutdownIsIdempotent(t *testing.T) {
	q := NewWorkerQueue(func(context.Context, Task) error { return nil }, nil, WithWorkers(1))

	ctx := context.Background()
	q.Shutdown(ctx)
	q.Shutdown(ctx)

	// enqueue after shutdown is dropped, not a panic
	assert.NoError(t, q.Enqueue(ctx, Task{JobID: uuid.New()}))
}

func TestWorkerQueueEnqueueHonorsContextWhenFull(t *testing.T) {
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	q := NewWorkerQueue(func(_ context.Context, _ Task) error {
		started <- struct{}{}
		<-release
		return nil
	}, nil, WithWorkers(1), WithQueueSize(1))

	// First task occupies the worker, second fills the buffer.
	require.NoError(t, q.Enqueue(context.Background(), Task{JobID: uuid.New()}))
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never picked up the first task")
	}
	require.NoError(t, q.Enqueue(context.Background(), Task{JobID: uuid.New()}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := q.Enqueue(ctx, Task{JobID: uuid.New()})
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()
	q.Shutdown(shutdownCtx)
}

func TestWorkerQueueAppliesProcessTimeout(t *testing.T) {
	done := make(chan error, 1)
	q := NewWorkerQueue(func(ctx context.Context, _ Task) error {
		<-ctx.Done()
		done <- ctx.Err()
		return ctx.Err()
	}, nil, WithWorkers(1), WithProcessTimeout(20*time.Millisecond))

	require.NoError(t, q.Enqueue(context.Background(), Task{JobID: uuid.New()}))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("task context was never canceled")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)
}
