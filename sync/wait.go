package sync

import (
	"context"
	stdsync "sync"

	"github.com/fluxgraph/eventuals"
)

// ConditionVariable is a cooperative condition variable built on top of
// Lock: waiters register a predicate and are woken, in the order they
// waited, whenever Notify runs and their predicate now holds.
//
// The caller must hold lock around every call to Wait and Notify. Wait
// releases lock for the duration of the suspension — so some other
// Acquire'd continuation can make progress and eventually call Notify —
// and re-acquires it before running wake, the same release/re-acquire
// dance spec.md's Wait(lock).condition(f) describes.
//
// The predicate passed to Wait must be pure: side-effect-free and
// non-blocking. It may be re-evaluated any number of times (once per
// Notify, for every still-waiting predicate, until it returns true), so
// anything it does other than read state and return a bool happens an
// unspecified number of times.
type ConditionVariable struct {
	lock    *Lock
	mu      stdsync.Mutex
	waiting []cvWaiter
}

type cvWaiter struct {
	predicate func() bool
	wake      func()
}

// NewConditionVariable returns a ConditionVariable guarded by lock. The
// caller must hold lock (via Acquire/Synchronizable) around every call
// to Wait and Notify.
func NewConditionVariable(lock *Lock) *ConditionVariable {
	return &ConditionVariable{lock: lock}
}

// Wait runs wake immediately, still holding lock, if predicate already
// holds. Otherwise it registers predicate/wake, releases lock so other
// holders can run (and eventually Notify), and returns; once Notify
// finds the predicate true it re-acquires lock before running wake.
func (cv *ConditionVariable) Wait(predicate func() bool, wake func()) {
	if predicate() {
		wake()
		return
	}
	cv.mu.Lock()
	cv.waiting = append(cv.waiting, cvWaiter{predicate: predicate, wake: wake})
	cv.mu.Unlock()
	cv.lock.Release()
}

// Notify re-evaluates every still-waiting predicate, in the order Wait
// registered them, and wakes (and removes) every one that now holds,
// re-acquiring lock on each waiter's behalf before running its wake.
func (cv *ConditionVariable) Notify() {
	cv.mu.Lock()
	remaining := cv.waiting[:0]
	var woken []func()
	for _, w := range cv.waiting {
		if w.predicate() {
			woken = append(woken, w.wake)
		} else {
			remaining = append(remaining, w)
		}
	}
	cv.waiting = remaining
	cv.mu.Unlock()

	for _, wake := range woken {
		cv.lock.Acquire(wake)
	}
}

// Wait builds a stage that suspends the pipeline, releasing lock, until
// predicate(value) holds — the composable counterpart of
// spec.md's Wait(lock).condition(f): the stage must run with lock
// already held (compose it inside a Synchronizable pipeline, or after
// an explicit Acquire), and it re-acquires lock before starting its
// downstream continuation.
func Wait[V any](cv *ConditionVariable, predicate func(value V) bool) eventuals.Composable[V, V] {
	return eventuals.ComposableFunc[V, V](func(next eventuals.Continuation[V]) eventuals.Continuation[V] {
		return &waitContinuation[V]{NoRegister: eventuals.NoRegister[V]{K: next}, cv: cv, predicate: predicate}
	})
}

type waitContinuation[V any] struct {
	eventuals.NoRegister[V]
	cv        *ConditionVariable
	predicate func(value V) bool
}

func (w *waitContinuation[V]) Start(ctx context.Context, value V) {
	w.cv.Wait(func() bool { return w.predicate(value) }, func() {
		w.K.Start(ctx, value)
	})
}

func (w *waitContinuation[V]) Fail(ctx context.Context, err error) {
	w.K.Fail(ctx, err)
}

func (w *waitContinuation[V]) Stop(ctx context.Context) {
	w.K.Stop(ctx)
}

// Notification is a ConditionVariable specialized to a single boolean:
// Set flips it true and notifies once, Wait resolves immediately if it
// is already true.
type Notification struct {
	mu  stdsync.Mutex
	set bool
	cv  *ConditionVariable
}

// NewNotification returns an unset Notification guarded by lock.
func NewNotification(lock *Lock) *Notification {
	return &Notification{cv: NewConditionVariable(lock)}
}

// Set marks the notification as having occurred and wakes every
// waiter. Calling Set more than once has no further effect.
func (n *Notification) Set() {
	n.mu.Lock()
	n.set = true
	n.mu.Unlock()
	n.cv.Notify()
}

// IsSet reports whether Set has been called.
func (n *Notification) IsSet() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.set
}

// Wait runs wake once the notification has been Set, immediately if it
// already has been.
func (n *Notification) Wait(wake func()) {
	n.cv.Wait(n.IsSet, wake)
}
