package eventuals

import "context"

// terminal is the continuation at the end of every pipeline: it
// observes exactly one of Start/Fail/Stop and reports it through done.
type terminal[V any] struct {
	done func(value V, err error, stopped bool)
}

func (t *terminal[V]) Start(_ context.Context, value V) {
	Log.Info().Msg("eventuals: pipeline completed")
	t.done(value, nil, false)
}

func (t *terminal[V]) Fail(_ context.Context, err error) {
	Log.Info().Err(err).Msg("eventuals: pipeline failed")
	var zero V
	t.done(zero, err, false)
}

func (t *terminal[V]) Stop(_ context.Context) {
	Log.Info().Msg("eventuals: pipeline stopped")
	var zero V
	t.done(zero, nil, true)
}

func (t *terminal[V]) Register(*Interrupt) {
	// The terminal owns no cancellable resource of its own.
}

// Terminal returns the continuation that ends a pipeline, invoking done
// exactly once with whichever of (value, nil, false), (zero, err,
// false), or (zero, nil, true) corresponds to the signal it received.
func Terminal[V any](done func(value V, err error, stopped bool)) Continuation[V] {
	return &terminal[V]{done: done}
}

// Future is the result of Promisify: Get blocks until the pipeline
// reaches its terminal, then returns the value it started with, or the
// error it failed or was stopped with (StoppedError in the stop case).
type Future[V any] struct {
	result chan terminalResult[V]
}

type terminalResult[V any] struct {
	value V
	err   error
}

// Get blocks until the underlying pipeline completes or ctx is done,
// whichever happens first. If ctx is done first, Get returns ctx.Err()
// without waiting for the pipeline (the pipeline keeps running; use
// Driver.Interrupt to cancel it).
func (f *Future[V]) Get(ctx context.Context) (V, error) {
	select {
	case r := <-f.result:
		return r.value, r.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Driver starts the value a Promisified pipeline is waiting for, and
// can interrupt it before it completes.
type Driver[In any] struct {
	start     func(ctx context.Context, value In)
	interrupt *Interrupt
}

// Start runs value through the pipeline this driver was created for.
// Start must be called at most once.
func (d *Driver[In]) Start(ctx context.Context, value In) {
	d.start(ctx, value)
}

// Interrupt triggers the pipeline's Interrupt, requesting cooperative
// cancellation of whatever stage is currently running.
func (d *Driver[In]) Interrupt() {
	d.interrupt.Trigger()
}

// Promisify wraps a stage into a one-shot (Future, Driver) pair: the
// Driver starts the pipeline and can request its cancellation; the
// Future resolves once the pipeline reaches Start, Fail, or Stop. This
// is the bridge between the continuation-passing world and ordinary
// synchronous call/return code.
func Promisify[In, Out any](stage Composable[In, Out]) (*Future[Out], *Driver[In]) {
	result := make(chan terminalResult[Out], 1)
	term := Terminal[Out](func(value Out, err error, stopped bool) {
		if stopped {
			err = StoppedError{}
		}
		result <- terminalResult[Out]{value: value, err: err}
	})
	k := stage.Compose(term)
	interrupt := NewInterrupt()
	k.Register(interrupt)
	return &Future[Out]{result: result},
		&Driver[In]{
			start: k.Start,
			interrupt: interrupt,
		}
}

// Run drives value through stage to completion, binding ctx cancellation
// to the pipeline's Interrupt via context.AfterFunc (the same bridge
// bassosimone-nop's CancelWatchFunc uses to tie context cancellation to
// resource cleanup), and returns the pipeline's terminal value or error.
// Run is the common-case synchronous entry point; use Promisify directly
// when the value to start isn't available yet.
func Run[In, Out any](ctx context.Context, stage Composable[In, Out], value In) (Out, error) {
	Log.Debug().Msg("eventuals: pipeline starting")
	future, driver := Promisify(stage)
	stop := context.AfterFunc(ctx, driver.Interrupt)
	defer stop()
	driver.Start(ctx, value)
	return future.Get(context.Background())
}
