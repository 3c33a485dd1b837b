package stream

import (
	"context"

	"github.com/fluxgraph/eventuals"
)

// -- Map -----------------------------------------------------------------

type mapContinuation[In, Out any] struct {
	k      Continuation[Out]
	f      func(ctx context.Context, in In) (Out, error)
	handle Handle
	failed bool
}

func (m *mapContinuation[In, Out]) Start(ctx context.Context, handle Handle) {
	m.handle = handle
	m.k.Start(ctx, handle)
}

func (m *mapContinuation[In, Out]) Body(ctx context.Context, in In) {
	out, err := m.f(ctx, in)
	if err != nil {
		m.failed = true
		m.handle.Done()
		m.k.Fail(ctx, err)
		return
	}
	m.k.Body(ctx, out)
}

func (m *mapContinuation[In, Out]) Ended(ctx context.Context) {
	if m.failed {
		return
	}
	m.k.Ended(ctx)
}
func (m *mapContinuation[In, Out]) Fail(ctx context.Context, err error) { m.k.Fail(ctx, err) }
func (m *mapContinuation[In, Out]) Stop(ctx context.Context)        { m.k.Stop(ctx) }
func (m *mapContinuation[In, Out]) Register(i *eventuals.Interrupt) { m.k.Register(i) }

type mapAdapter[In, Out any] struct {
	f func(ctx context.Context, in In) (Out, error)
}

func (m *mapAdapter[In, Out]) Compose(next Continuation[Out]) Continuation[In] {
	return &mapContinuation[In, Out]{k: next, f: m.f}
}

// Map transforms every element with f. Chaining Map directly onto
// another Map — via PipeAdapter, or any helper built on it — fuses the
// two into a single stage automatically; see PipeAdapter.
func Map[In, Out any](f func(ctx context.Context, in In) (Out, error)) Adapter[In, Out] {
	return &mapAdapter[In, Out]{f: f}
}

// FuseMap composes two element transforms into one Map stage, avoiding
// an extra layer of stream-continuation indirection for the common
// Map-then-Map case (grounded on the original library's Map-on-Map
// flattening optimization).
func FuseMap[In, Mid, Out any](
	f func(ctx context.Context, in In) (Mid, error),
	g func(ctx context.Context, mid Mid) (Out, error),
) Adapter[In, Out] {
	return Map(func(ctx context.Context, in In) (Out, error) {
		mid, err := f(ctx, in)
		if err != nil {
			var zero Out
			return zero, err
		}
		return g(ctx, mid)
	})
}

// -- Filter ----------------------------------------------------------------

type filterContinuation[V any] struct {
	k      Continuation[V]
	pred   func(ctx context.Context, v V) bool
	handle Handle
}

func (f *filterContinuation[V]) Start(ctx context.Context, handle Handle) {
	f.handle = handle
	f.k.Start(ctx, handle)
}

func (f *filterContinuation[V]) Body(ctx context.Context, v V) {
	if f.pred(ctx, v) {
		f.k.Body(ctx, v)
		return
	}
	f.handle.Next()
}

func (f *filterContinuation[V]) Ended(ctx context.Context)       { f.k.Ended(ctx) }
func (f *filterContinuation[V]) Fail(ctx context.Context, err error) { f.k.Fail(ctx, err) }
func (f *filterContinuation[V]) Stop(ctx context.Context)        { f.k.Stop(ctx) }
func (f *filterContinuation[V]) Register(i *eventuals.Interrupt) { f.k.Register(i) }

type filterAdapter[V any] struct {
	pred func(ctx context.Context, v V) bool
}

func (f *filterAdapter[V]) Compose(next Continuation[V]) Continuation[V] {
	return &filterContinuation[V]{k: next, pred: f.pred}
}

// Filter only passes through elements for which predicate returns true;
// every other element is silently pulled past with Next, so downstream
// sees a consistent 1:1 Body/Next-or-Done sequence.
func Filter[V any](predicate func(ctx context.Context, v V) bool) Adapter[V, V] {
	return &filterAdapter[V]{pred: predicate}
}

// -- Until -----------------------------------------------------------------

type untilContinuation[V any] struct {
	k      Continuation[V]
	pred   func(ctx context.Context, v V) bool
	handle Handle
}

func (u *untilContinuation[V]) Start(ctx context.Context, handle Handle) {
	u.handle = handle
	u.k.Start(ctx, handle)
}

func (u *untilContinuation[V]) Body(ctx context.Context, v V) {
	if u.pred(ctx, v) {
		u.handle.Done()
		return
	}
	u.k.Body(ctx, v)
}

func (u *untilContinuation[V]) Ended(ctx context.Context)       { u.k.Ended(ctx) }
func (u *untilContinuation[V]) Fail(ctx context.Context, err error) { u.k.Fail(ctx, err) }
func (u *untilContinuation[V]) Stop(ctx context.Context)        { u.k.Stop(ctx) }
func (u *untilContinuation[V]) Register(i *eventuals.Interrupt) { u.k.Register(i) }

type untilAdapter[V any] struct {
	pred func(ctx context.Context, v V) bool
}

func (u *untilAdapter[V]) Compose(next Continuation[V]) Continuation[V] {
	return &untilContinuation[V]{k: next, pred: u.pred}
}

// Until stops the stream, without forwarding the triggering element,
// the first time predicate returns true: no element for which predicate
// holds is ever seen downstream, and every element before it passes
// through unchanged.
func Until[V any](predicate func(ctx context.Context, v V) bool) Adapter[V, V] {
	return &untilAdapter[V]{pred: predicate}
}

// -- TakeFirstN / TakeRange ------------------------------------------------

type takeRangeContinuation[V any] struct {
	k       Continuation[V]
	begin   int
	amount  int
	i       int
	inRange bool
	handle  Handle
}

func (t *takeRangeContinuation[V]) Start(ctx context.Context, handle Handle) {
	t.handle = handle
	t.k.Start(ctx, handle)
}

func (t *takeRangeContinuation[V]) checkRange() bool {
	result := t.i >= t.begin && t.i < t.begin+t.amount
	t.i++
	return result
}

func (t *takeRangeContinuation[V]) Body(ctx context.Context, v V) {
	switch {
	case t.checkRange():
		t.inRange = true
		t.k.Body(ctx, v)
	case !t.inRange:
		t.handle.Next()
	default:
		t.handle.Done()
	}
}

func (t *takeRangeContinuation[V]) Ended(ctx context.Context)       { t.k.Ended(ctx) }
func (t *takeRangeContinuation[V]) Fail(ctx context.Context, err error) { t.k.Fail(ctx, err) }
func (t *takeRangeContinuation[V]) Stop(ctx context.Context)        { t.k.Stop(ctx) }
func (t *takeRangeContinuation[V]) Register(i *eventuals.Interrupt) { t.k.Register(i) }

type takeRangeAdapter[V any] struct {
	begin  int
	amount int
}

func (t *takeRangeAdapter[V]) Compose(next Continuation[V]) Continuation[V] {
	return &takeRangeContinuation[V]{k: next, begin: t.begin, amount: t.amount}
}

// TakeRange passes through the amount elements starting at position
// begin (0-indexed) and ends the stream once they have all been seen.
func TakeRange[V any](begin, amount int) Adapter[V, V] {
	return &takeRangeAdapter[V]{begin: begin, amount: amount}
}

// TakeFirstN passes through only the first n elements.
func TakeFirstN[V any](n int) Adapter[V, V] {
	return TakeRange[V](0, n)
}

// -- TakeLastN ---------------------------------------------------------------

type takeLastNContinuation[V any] struct {
	k      Continuation[V]
	n      int
	buffer []V
	ended  bool
	ups    Handle
	ctx    context.Context
}

func (t *takeLastNContinuation[V]) Start(ctx context.Context, handle Handle) {
	t.ups = handle
	t.ctx = ctx
	// This continuation stands in as the Handle the downstream
	// continuation pulls from: while the upstream is still producing,
	// Next/Done forward to it; once it has Ended, Next/Done instead
	// drain the buffered last n values.
	t.k.Start(ctx, t)
}

func (t *takeLastNContinuation[V]) Body(ctx context.Context, v V) {
	if len(t.buffer) == t.n {
		t.buffer = t.buffer[1:]
	}
	t.buffer = append(t.buffer, v)
	t.ups.Next()
}

func (t *takeLastNContinuation[V]) Ended(ctx context.Context) {
	t.ended = true
	t.emit(ctx)
}

func (t *takeLastNContinuation[V]) emit(ctx context.Context) {
	if len(t.buffer) == 0 {
		t.k.Ended(ctx)
		return
	}
	v := t.buffer[0]
	t.buffer = t.buffer[1:]
	t.k.Body(ctx, v)
}

func (t *takeLastNContinuation[V]) Fail(ctx context.Context, err error) { t.k.Fail(ctx, err) }
func (t *takeLastNContinuation[V]) Stop(ctx context.Context)        { t.k.Stop(ctx) }
func (t *takeLastNContinuation[V]) Register(i *eventuals.Interrupt) { t.k.Register(i) }

// Next implements Handle, called by the downstream continuation.
func (t *takeLastNContinuation[V]) Next() {
	if !t.ended {
		t.ups.Next()
		return
	}
	t.emit(t.ctx)
}

// Done implements Handle, called by the downstream continuation.
func (t *takeLastNContinuation[V]) Done() {
	if !t.ended {
		t.ups.Done()
	}
}

type takeLastNAdapter[V any] struct {
	n int
}

func (t *takeLastNAdapter[V]) Compose(next Continuation[V]) Continuation[V] {
	return &takeLastNContinuation[V]{k: next, n: t.n, buffer: make([]V, 0, t.n)}
}

// TakeLastN buffers every element as it arrives and, once the upstream
// stream has ended, replays only the most recent n of them (fewer, if
// the stream produced less than n values in total).
func TakeLastN[V any](n int) Adapter[V, V] {
	return &takeLastNAdapter[V]{n: n}
}
