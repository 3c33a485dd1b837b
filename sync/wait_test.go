package sync_test

import (
	"context"
	"testing"

	"github.com/fluxgraph/eventuals"
	xsync "github.com/fluxgraph/eventuals/sync"
	"github.com/stretchr/testify/require"
)

func TestNotificationWakesWaiterOnSet(t *testing.T) {
	lock := xsync.NewLock()
	n := xsync.NewNotification(lock)

	woken := false
	lock.Acquire(func() {
		n.Wait(func() {
			woken = true
			lock.Release()
		})
	})
	require.False(t, woken)

	n.Set()
	require.True(t, woken)
}

func TestNotificationWaitResolvesImmediatelyIfAlreadySet(t *testing.T) {
	lock := xsync.NewLock()
	n := xsync.NewNotification(lock)
	n.Set()

	woken := false
	lock.Acquire(func() {
		n.Wait(func() {
			woken = true
			lock.Release()
		})
	})
	require.True(t, woken)
}

func TestConditionVariableWakesOnlyMatchingWaitersInOrder(t *testing.T) {
	lock := xsync.NewLock()
	cv := xsync.NewConditionVariable(lock)

	threshold := 0
	var order []int

	for i := 1; i <= 3; i++ {
		i := i
		lock.Acquire(func() {
			cv.Wait(func() bool { return threshold >= i }, func() {
				order = append(order, i)
				lock.Release()
			})
		})
	}

	threshold = 2
	cv.Notify()
	require.Equal(t, []int{1, 2}, order)

	threshold = 3
	cv.Notify()
	require.Equal(t, []int{1, 2, 3}, order)
}

func TestConditionVariableReleasesLockDuringSuspension(t *testing.T) {
	lock := xsync.NewLock()
	cv := xsync.NewConditionVariable(lock)

	ready := false
	lock.Acquire(func() {
		cv.Wait(func() bool { return ready }, func() {
			lock.Release()
		})
	})

	// Wait suspended above without satisfying its predicate; if it had
	// not released lock this second Acquire would only queue, not run.
	acquired := false
	lock.Acquire(func() {
		acquired = true
	})
	require.True(t, acquired)

	ready = true
	cv.Notify()
}

func TestWaitStageSuspendsPipelineUntilPredicateHolds(t *testing.T) {
	lock := xsync.NewLock()
	cv := xsync.NewConditionVariable(lock)
	ready := false

	stage := xsync.Synchronizable(lock, xsync.Wait[int](cv, func(v int) bool { return ready && v > 0 }))

	future, driver := eventuals.Promisify(stage)
	driver.Start(context.Background(), 7)

	ready = true
	cv.Notify()

	out, err := future.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, out)
}
