// Package sync implements the cooperative synchronization primitives
// the spec layers on top of the scheduler: a Lock with FIFO waiters and
// direct (synchronous) hand-off on release, plus Wait/ConditionVariable/
// Notification built on top of it.
//
// These are not goroutine-blocking OS-level primitives — acquiring an
// already-held Lock registers a waiter and returns without blocking the
// calling goroutine; the waiter's continuation runs later, when Release
// hands the lock directly to it. This mirrors the source's cooperative
// lock, which suspends a continuation rather than parking a thread.
package sync

import (
	"context"
	stdsync "sync"

	"github.com/fluxgraph/eventuals"
)

// Lock is a cooperative, non-reentrant mutex over a sequence of
// continuations rather than threads: Acquire either runs its
// continuation immediately (lock free) or queues it as a waiter (lock
// held), and Release hands the lock directly to the oldest waiter
// in FIFO order.
//
// Release's hand-off runs the next waiter's continuation synchronously,
// on the releasing goroutine, exactly as the original library does.
// Under a long chain of immediately-re-acquiring waiters this grows the
// call stack one frame per hand-off; the original accepts the same
// trade-off for simplicity, and an implementation that needs to avoid
// it can schedule the wake onto a Scheduler instead, provided it
// preserves FIFO order.
type Lock struct {
	mu      stdsync.Mutex
	held    bool
	waiters []func()
}

// NewLock returns an unheld Lock.
func NewLock() *Lock {
	return &Lock{}
}

// Acquire runs fn once the lock is held on its behalf: immediately, if
// the lock is free, or later — from inside some other holder's Release
// call — if it is not. Acquire never blocks the calling goroutine.
func (l *Lock) Acquire(fn func()) {
	l.mu.Lock()
	if !l.held {
		l.held = true
		l.mu.Unlock()
		eventuals.Log.Debug().Msg("sync: lock acquired")
		fn()
		return
	}
	l.waiters = append(l.waiters, fn)
	waiting := len(l.waiters)
	l.mu.Unlock()
	eventuals.Log.Debug().Int("waiters", waiting).Msg("sync: lock held, queued waiter")
}

// Release hands the lock to the oldest waiter, if any, running its
// continuation directly before Release returns; otherwise it marks the
// lock free.
func (l *Lock) Release() {
	l.mu.Lock()
	if len(l.waiters) == 0 {
		l.held = false
		l.mu.Unlock()
		eventuals.Log.Debug().Msg("sync: lock released")
		return
	}
	next := l.waiters[0]
	l.waiters = l.waiters[1:]
	l.mu.Unlock()
	eventuals.Log.Debug().Msg("sync: lock released, handing off to next waiter")
	next()
}

// Acquire builds a stage that runs its upstream value through to the
// downstream continuation only once lock is held on this pipeline's
// behalf.
func Acquire[V any](lock *Lock) eventuals.Composable[V, V] {
	return eventuals.ComposableFunc[V, V](func(next eventuals.Continuation[V]) eventuals.Continuation[V] {
		return &acquireContinuation[V]{NoRegister: eventuals.NoRegister[V]{K: next}, lock: lock}
	})
}

type acquireContinuation[V any] struct {
	eventuals.NoRegister[V]
	lock *Lock
}

func (a *acquireContinuation[V]) Start(ctx context.Context, value V) {
	a.lock.Acquire(func() {
		a.K.Start(ctx, value)
	})
}

func (a *acquireContinuation[V]) Fail(ctx context.Context, err error) {
	a.lock.Acquire(func() {
		a.K.Fail(ctx, err)
	})
}

func (a *acquireContinuation[V]) Stop(ctx context.Context) {
	a.lock.Acquire(func() {
		a.K.Stop(ctx)
	})
}

// Release builds a stage that releases lock and passes its upstream
// value straight through.
func Release[V any](lock *Lock) eventuals.Composable[V, V] {
	return eventuals.ComposableFunc[V, V](func(next eventuals.Continuation[V]) eventuals.Continuation[V] {
		return &releaseContinuation[V]{NoRegister: eventuals.NoRegister[V]{K: next}, lock: lock}
	})
}

type releaseContinuation[V any] struct {
	eventuals.NoRegister[V]
	lock *Lock
}

func (r *releaseContinuation[V]) Start(ctx context.Context, value V) {
	r.lock.Release()
	r.K.Start(ctx, value)
}

func (r *releaseContinuation[V]) Fail(ctx context.Context, err error) {
	r.lock.Release()
	r.K.Fail(ctx, err)
}

func (r *releaseContinuation[V]) Stop(ctx context.Context) {
	r.lock.Release()
	r.K.Stop(ctx)
}

// Synchronizable wraps stage with Acquire/Release on lock, the sugar
// form of `Acquire | stage | Release`.
func Synchronizable[V any](lock *Lock, stage eventuals.Composable[V, V]) eventuals.Composable[V, V] {
	return eventuals.Pipe3(Acquire[V](lock), stage, Release[V](lock))
}
