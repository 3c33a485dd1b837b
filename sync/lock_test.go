package sync_test

import (
	"context"
	"testing"

	"github.com/fluxgraph/eventuals"
	xsync "github.com/fluxgraph/eventuals/sync"
	"github.com/stretchr/testify/require"
)

func TestLockSerializesAcquirers(t *testing.T) {
	lock := xsync.NewLock()
	var order []int

	// The first holder keeps the lock until the explicit Release below;
	// Acquire runs its callback synchronously, so it must not block.
	lock.Acquire(func() {
		order = append(order, 1)
	})
	lock.Acquire(func() {
		order = append(order, 2)
		lock.Release()
	})
	lock.Acquire(func() {
		order = append(order, 3)
		lock.Release()
	})

	require.Equal(t, []int{1}, order)
	lock.Release()
	require.Equal(t, []int{1, 2, 3}, order)
}

func TestLockWakesWaitersInFIFOOrder(t *testing.T) {
	lock := xsync.NewLock()
	var order []int

	lock.Acquire(func() {}) // held, never released yet by this call
	for i := 1; i <= 5; i++ {
		i := i
		lock.Acquire(func() {
			order = append(order, i)
			lock.Release()
		})
	}
	lock.Release() // release the original holder, cascading through waiters

	require.Equal(t, []int{1, 2, 3, 4, 5}, order)
}

func TestAcquireReleaseStageRoundTrips(t *testing.T) {
	lock := xsync.NewLock()
	stage := xsync.Synchronizable(lock, eventuals.Then(func(_ context.Context, in int) (int, error) {
		return in + 1, nil
	}))

	out, err := eventuals.Run(context.Background(), stage, 41)
	require.NoError(t, err)
	require.Equal(t, 42, out)
}

func TestSynchronizableSequentialPipelinesNeverOverlap(t *testing.T) {
	lock := xsync.NewLock()
	var active int
	var maxActive int

	stage := xsync.Synchronizable(lock, eventuals.Then(func(_ context.Context, in int) (int, error) {
		active++
		if active > maxActive {
			maxActive = active
		}
		active--
		return in, nil
	}))

	for i := 0; i < 10; i++ {
		_, err := eventuals.Run(context.Background(), stage, i)
		require.NoError(t, err)
	}

	require.Equal(t, 1, maxActive)
}
