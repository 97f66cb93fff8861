package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrySubmit_RejectsWhenQueueFull(t *testing.T) {
	pool := NewWorkingPool(1, 2)

	assert.True(t, pool.TrySubmit(func(ctx context.Context) error { return nil }))
	assert.True(t, pool.TrySubmit(func(ctx context.Context) error { return nil }))
	assert.False(t, pool.TrySubmit(func(ctx context.Context) error { return nil }),
		"third submit should be rejected, queue holds two")
}

func TestStart_DrainsQueuedJobs(t *testing.T) {
	pool := NewWorkingPool(2, 8)

	var executed atomic.Int32
	var jobsWg sync.WaitGroup
	for range 5 {
		jobsWg.Add(1)
		require.True(t, pool.TrySubmit(func(ctx context.Context) error {
			defer jobsWg.Done()
			executed.Add(1)
			return nil
		}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	var managerWg sync.WaitGroup
	managerWg.Add(1)
	go pool.Start(ctx, &managerWg)

	jobsWg.Wait()
	cancel()
	managerWg.Wait()

	assert.Equal(t, int32(5), executed.Load())
}

func TestTrySubmit_RejectsAfterShutdown(t *testing.T) {
	pool := NewWorkingPool(1, 4)

	ctx, cancel := context.WithCancel(context.Background())
	var managerWg sync.WaitGroup
	managerWg.Add(1)
	go pool.Start(ctx, &managerWg)

	cancel()
	managerWg.Wait()

	// Late submissions during shutdown are rejected, never a send on a
	// closed channel.
	assert.NotPanics(t, func() {
		assert.False(t, pool.TrySubmit(func(ctx context.Context) error { return nil }))
	})
}

func TestWorker_SurvivesPanickingJob(t *testing.T) {
	pool := NewWorkingPool(1, 4)

	var jobsWg sync.WaitGroup
	jobsWg.Add(2)

	require.True(t, pool.TrySubmit(func(ctx context.Context) error {
		defer jobsWg.Done()
		panic("boom")
	}))

	var ranAfterPanic atomic.Bool
	require.True(t, pool.TrySubmit(func(ctx context.Context) error {
		defer jobsWg.Done()
		ranAfterPanic.Store(true)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	var managerWg sync.WaitGroup
	managerWg.Add(1)
	go pool.Start(ctx, &managerWg)

	done := make(chan struct{})
	go func() {
		jobsWg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("jobs did not finish, worker likely died on panic")
	}
	cancel()
	managerWg.Wait()

	assert.True(t, ranAfterPanic.Load())
}
