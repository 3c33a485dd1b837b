// Package eventuals implements a continuation-passing composition model
// for asynchronous computation, in the spirit of a pipe operator over
// typed stages: a producer composes into a consumer by handing it a
// continuation, and the whole chain is driven by a single terminal
// adapter at the end of the pipe.
package eventuals

import "context"

// Unit is the value type for continuations that carry no payload, the
// Go analogue of a void eventual.
type Unit struct{}

// Continuation is one link in a composed pipeline. A continuation
// receives exactly one of Start, Fail, or Stop for a given value it is
// driving, never more than one, and never none once the pipeline has
// begun running it.
//
// ctx carries the current Scheduler and Scheduler Context (see package
// scheduler) as values, and is propagated unchanged unless a stage
// deliberately reschedules.
type Continuation[V any] interface {
	// Start delivers the upstream value.
	Start(ctx context.Context, value V)

	// Fail delivers an upstream error. Once Fail is called the
	// continuation must not be started or stopped again.
	Fail(ctx context.Context, err error)

	// Stop signals upstream cancellation with no error. Once Stop is
	// called the continuation must not be started or failed again.
	Stop(ctx context.Context)

	// Register gives the continuation a chance to install an interrupt
	// handler for cooperative cancellation. A continuation that owns no
	// cancellable resource can embed NoRegister to satisfy this with a
	// no-op that still forwards to the next continuation in the chain.
	Register(i *Interrupt)
}

// Composable is a not-yet-materialized stage: piping it into a
// downstream continuation produces the upstream continuation that
// drives it. Out is the value type this stage starts its downstream
// continuation with; In is the value type this stage itself is started
// with.
type Composable[In, Out any] interface {
	// Compose materializes this stage against next, returning a
	// continuation of In that, once started/failed/stopped, eventually
	// drives next.
	Compose(next Continuation[Out]) Continuation[In]
}

// ComposableFunc adapts a plain function into a Composable, the
// generic-function analogue of an http.HandlerFunc.
type ComposableFunc[In, Out any] func(next Continuation[Out]) Continuation[In]

// Compose implements Composable.
func (f ComposableFunc[In, Out]) Compose(next Continuation[Out]) Continuation[In] {
	return f(next)
}

// NoRegister embeds into a continuation that forwards Register to a
// single downstream continuation k and does nothing else, which is the
// common case for stages that don't themselves own an interruptible
// resource.
type NoRegister[Out any] struct {
	K Continuation[Out]
}

// Register forwards to the wrapped downstream continuation.
func (n NoRegister[Out]) Register(i *Interrupt) {
	n.K.Register(i)
}
