package stream

import (
	"context"

	"github.com/fluxgraph/eventuals"
)

// -- Reduce ------------------------------------------------------------

type reduceContinuation[In, Out any] struct {
	k      eventuals.Continuation[Out]
	f      func(ctx context.Context, acc Out, in In) (Out, error)
	acc    Out
	handle Handle
	failed bool
}

func (r *reduceContinuation[In, Out]) Start(ctx context.Context, handle Handle) {
	r.handle = handle
	handle.Next()
}

func (r *reduceContinuation[In, Out]) Body(ctx context.Context, in In) {
	acc, err := r.f(ctx, r.acc, in)
	if err != nil {
		// Done makes the upstream deliver Ended; failed keeps that from
		// also starting k, so k sees only the Fail below.
		r.failed = true
		r.handle.Done()
		r.k.Fail(ctx, err)
		return
	}
	r.acc = acc
	r.handle.Next()
}

func (r *reduceContinuation[In, Out]) Ended(ctx context.Context) {
	if r.failed {
		return
	}
	r.k.Start(ctx, r.acc)
}

func (r *reduceContinuation[In, Out]) Fail(ctx context.Context, err error) { r.k.Fail(ctx, err) }
func (r *reduceContinuation[In, Out]) Stop(ctx context.Context)        { r.k.Stop(ctx) }
func (r *reduceContinuation[In, Out]) Register(i *eventuals.Interrupt) { r.k.Register(i) }

type reduceSink[In, Out any] struct {
	initial Out
	f       func(ctx context.Context, acc Out, in In) (Out, error)
}

func (r *reduceSink[In, Out]) Compose(next eventuals.Continuation[Out]) Continuation[In] {
	return &reduceContinuation[In, Out]{k: next, f: r.f, acc: r.initial}
}

// Reduce folds every element into an accumulator seeded with initial,
// starting its downstream eventual continuation with the final
// accumulator once the stream ends.
func Reduce[In, Out any](initial Out, f func(ctx context.Context, acc Out, in In) (Out, error)) Sink[In, Out] {
	return &reduceSink[In, Out]{initial: initial, f: f}
}

// Collect gathers every element into a slice, in order.
func Collect[V any]() Sink[V, []V] {
	return Reduce(([]V)(nil), func(_ context.Context, acc []V, v V) ([]V, error) {
		return append(acc, v), nil
	})
}

// -- Head ------------------------------------------------------------------

type headContinuation[V any] struct {
	k      eventuals.Continuation[V]
	got    bool
	value  V
	handle Handle
}

func (h *headContinuation[V]) Start(ctx context.Context, handle Handle) {
	h.handle = handle
	handle.Next()
}

func (h *headContinuation[V]) Body(ctx context.Context, v V) {
	h.value = v
	h.got = true
	h.handle.Done()
}

func (h *headContinuation[V]) Ended(ctx context.Context) {
	if !h.got {
		h.k.Fail(ctx, eventuals.ErrEmptyStream)
		return
	}
	h.k.Start(ctx, h.value)
}

func (h *headContinuation[V]) Fail(ctx context.Context, err error) { h.k.Fail(ctx, err) }
func (h *headContinuation[V]) Stop(ctx context.Context)        { h.k.Stop(ctx) }
func (h *headContinuation[V]) Register(i *eventuals.Interrupt) { h.k.Register(i) }

type headSink[V any] struct{}

func (headSink[V]) Compose(next eventuals.Continuation[V]) Continuation[V] {
	return &headContinuation[V]{k: next}
}

// Head resolves to the first element of the stream, or fails with
// ErrEmptyStream if the stream ends without producing one — the source
// implementation leaves this case undefined; this module treats it as
// an ordinary failure instead.
func Head[V any]() Sink[V, V] {
	return headSink[V]{}
}

// -- Loop --------------------------------------------------------------

type loopContinuation[V any] struct {
	k      eventuals.Continuation[eventuals.Unit]
	f      func(ctx context.Context, v V) error
	handle Handle
	failed bool
}

func (l *loopContinuation[V]) Start(ctx context.Context, handle Handle) {
	l.handle = handle
	handle.Next()
}

func (l *loopContinuation[V]) Body(ctx context.Context, v V) {
	if err := l.f(ctx, v); err != nil {
		l.failed = true
		l.handle.Done()
		l.k.Fail(ctx, err)
		return
	}
	l.handle.Next()
}

func (l *loopContinuation[V]) Ended(ctx context.Context) {
	if l.failed {
		return
	}
	l.k.Start(ctx, eventuals.Unit{})
}

func (l *loopContinuation[V]) Fail(ctx context.Context, err error) { l.k.Fail(ctx, err) }
func (l *loopContinuation[V]) Stop(ctx context.Context)        { l.k.Stop(ctx) }
func (l *loopContinuation[V]) Register(i *eventuals.Interrupt) { l.k.Register(i) }

type loopSink[V any] struct {
	f func(ctx context.Context, v V) error
}

func (l *loopSink[V]) Compose(next eventuals.Continuation[eventuals.Unit]) Continuation[V] {
	return &loopContinuation[V]{k: next, f: l.f}
}

// Loop drains the entire stream, calling f once per element purely for
// its side effect, and resolves to eventuals.Unit once the stream ends.
func Loop[V any](f func(ctx context.Context, v V) error) Sink[V, eventuals.Unit] {
	return &loopSink[V]{f: f}
}
