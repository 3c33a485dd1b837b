// Package stream implements the stream half of the eventuals composition
// model: a producer that emits a sequence of values one at a time under
// explicit backpressure, rather than a single value.
//
// A stream pipeline has three kinds of stage. A Source is started like
// an ordinary eventual and, once running, drives a stream Continuation
// instead of calling Start once. An Adapter sits between two stream
// Continuations (Map, Filter, Until, the Take* family). A Sink converts
// a stream back into a single eventual value (Collect, Reduce, Head,
// Loop). PipeSource and PipeSink are the composers that stitch these
// three kinds together into a runnable eventuals.Composable.
package stream

import (
	"context"

	"github.com/fluxgraph/eventuals"
)

// Handle is what a stream Continuation uses to pull more values from
// upstream (Next) or signal it wants no more (Done), the stream
// analogue of backpressure: every Body the Continuation receives must
// be answered, eventually, with exactly one Next or Done.
type Handle interface {
	Next()
	Done()
}

// Continuation is one link in a stream pipeline. It receives a Handle
// once via Start, then any number of Body signals each carrying one
// element, terminated by exactly one of Ended, Fail, or Stop.
type Continuation[V any] interface {
	Start(ctx context.Context, handle Handle)
	Body(ctx context.Context, value V)
	Ended(ctx context.Context)
	Fail(ctx context.Context, err error)
	Stop(ctx context.Context)
	Register(i *eventuals.Interrupt)
}

// Source materializes a stream-producing stage: composed against a
// downstream stream Continuation, it yields the ordinary
// eventuals.Continuation that a single eventuals.Run call can start.
type Source[In, Out any] interface {
	Compose(next Continuation[Out]) eventuals.Continuation[In]
}

// SourceFunc adapts a plain function into a Source.
type SourceFunc[In, Out any] func(next Continuation[Out]) eventuals.Continuation[In]

// Compose implements Source.
func (f SourceFunc[In, Out]) Compose(next Continuation[Out]) eventuals.Continuation[In] {
	return f(next)
}

// Adapter sits between two stream Continuations, transforming,
// filtering, or windowing the values that pass through it.
type Adapter[In, Out any] interface {
	Compose(next Continuation[Out]) Continuation[In]
}

// AdapterFunc adapts a plain function into an Adapter.
type AdapterFunc[In, Out any] func(next Continuation[Out]) Continuation[In]

// Compose implements Adapter.
func (f AdapterFunc[In, Out]) Compose(next Continuation[Out]) Continuation[In] {
	return f(next)
}

// Sink drains a stream into a single eventual value.
type Sink[In, Out any] interface {
	Compose(next eventuals.Continuation[Out]) Continuation[In]
}

// SinkFunc adapts a plain function into a Sink.
type SinkFunc[In, Out any] func(next eventuals.Continuation[Out]) Continuation[In]

// Compose implements Sink.
func (f SinkFunc[In, Out]) Compose(next eventuals.Continuation[Out]) Continuation[In] {
	return f(next)
}

// PipeAdapter chains two adapters into one. When both a and b are Map
// stages, it fuses their transforms into a single Map instead of
// nesting two stream continuations — the construction-time flattening
// the original library's Map-on-Map optimization performs, so chaining
// Maps back to back never pays for an extra stage.
func PipeAdapter[A, B, C any](a Adapter[A, B], b Adapter[B, C]) Adapter[A, C] {
	if am, ok := a.(*mapAdapter[A, B]); ok {
		if bm, ok := b.(*mapAdapter[B, C]); ok {
			return FuseMap(am.f, bm.f)
		}
	}
	return AdapterFunc[A, C](func(next Continuation[C]) Continuation[A] {
		return a.Compose(b.Compose(next))
	})
}

// PipeSource attaches an adapter after a source, yielding a new source.
func PipeSource[A, B, C any](source Source[A, B], adapter Adapter[B, C]) Source[A, C] {
	return SourceFunc[A, C](func(next Continuation[C]) eventuals.Continuation[A] {
		return source.Compose(adapter.Compose(next))
	})
}

// PipeSink attaches a sink after a source, collapsing the whole stream
// pipeline back into an ordinary eventuals.Composable — the point where
// a stream rejoins the single-value eventual world.
func PipeSink[A, B, C any](source Source[A, B], sink Sink[B, C]) eventuals.Composable[A, C] {
	return eventuals.ComposableFunc[A, C](func(next eventuals.Continuation[C]) eventuals.Continuation[A] {
		return source.Compose(sink.Compose(next))
	})
}

// PipeSinkAdapter attaches a sink after an adapter, for building a
// reusable "adapter + sink" tail that can be reattached to several
// sources.
func PipeSinkAdapter[A, B, C any](adapter Adapter[A, B], sink Sink[B, C]) Sink[A, C] {
	return SinkFunc[A, C](func(next eventuals.Continuation[C]) Continuation[A] {
		return adapter.Compose(sink.Compose(next))
	})
}

type funcHandle[V any] struct {
	ctx  context.Context
	gen  func(ctx context.Context) (V, bool, error)
	down Continuation[V]
	done bool
}

func (h *funcHandle[V]) Next() {
	eventuals.Log.Debug().Msg("stream: next")
	if h.done {
		return
	}
	value, ok, err := h.gen(h.ctx)
	if err != nil {
		h.done = true
		h.down.Fail(h.ctx, err)
		return
	}
	if !ok {
		h.done = true
		h.down.Ended(h.ctx)
		return
	}
	h.down.Body(h.ctx, value)
}

func (h *funcHandle[V]) Done() {
	eventuals.Log.Debug().Msg("stream: done")
	if h.done {
		return
	}
	h.done = true
	h.down.Ended(h.ctx)
}

type funcSourceContinuation[V any] struct {
	gen  func(ctx context.Context) (V, bool, error)
	down Continuation[V]
}

func (c *funcSourceContinuation[V]) Start(ctx context.Context, _ eventuals.Unit) {
	handle := &funcHandle[V]{ctx: ctx, gen: c.gen, down: c.down}
	c.down.Start(ctx, handle)
}

func (c *funcSourceContinuation[V]) Fail(ctx context.Context, err error) {
	c.down.Fail(ctx, err)
}

func (c *funcSourceContinuation[V]) Stop(ctx context.Context) {
	c.down.Stop(ctx)
}

func (c *funcSourceContinuation[V]) Register(i *eventuals.Interrupt) {
	c.down.Register(i)
}

type funcSource[V any] struct {
	newGen func() func(ctx context.Context) (V, bool, error)
}

func (fs *funcSource[V]) Compose(next Continuation[V]) eventuals.Continuation[eventuals.Unit] {
	return &funcSourceContinuation[V]{gen: fs.newGen(), down: next}
}

// FromFunc builds a Source out of a generator factory: newGen is called
// once per pipeline instantiation (mirroring eventuals.Closure) and
// returns the function that Next() calls to produce the next value;
// returning ok=false ends the stream, a non-nil error fails it.
func FromFunc[V any](newGen func() func(ctx context.Context) (V, bool, error)) Source[eventuals.Unit, V] {
	return &funcSource[V]{newGen: newGen}
}
