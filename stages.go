package eventuals

import "context"

// -- Just ------------------------------------------------------------

type justContinuation[In, Out any] struct {
	NoRegister[Out]
	value Out
}

func (j *justContinuation[In, Out]) Start(ctx context.Context, _ In) {
	j.K.Start(ctx, j.value)
}

func (j *justContinuation[In, Out]) Fail(ctx context.Context, err error) {
	j.K.Fail(ctx, err)
}

func (j *justContinuation[In, Out]) Stop(ctx context.Context) {
	j.K.Stop(ctx)
}

// Just produces value regardless of what it is started with, the way a
// constant function ignores its argument.
func Just[In, Out any](value Out) Composable[In, Out] {
	return ComposableFunc[In, Out](func(next Continuation[Out]) Continuation[In] {
		return &justContinuation[In, Out]{NoRegister: NoRegister[Out]{K: next}, value: value}
	})
}

// -- Raise -------------------------------------------------------------

type raiseContinuation[In, Out any] struct {
	NoRegister[Out]
	err error
}

func (r *raiseContinuation[In, Out]) Start(ctx context.Context, _ In) {
	r.K.Fail(ctx, r.err)
}

func (r *raiseContinuation[In, Out]) Fail(ctx context.Context, err error) {
	r.K.Fail(ctx, err)
}

func (r *raiseContinuation[In, Out]) Stop(ctx context.Context) {
	r.K.Stop(ctx)
}

// Raise fails with err as soon as it is started, regardless of input.
func Raise[In, Out any](err error) Composable[In, Out] {
	return ComposableFunc[In, Out](func(next Continuation[Out]) Continuation[In] {
		return &raiseContinuation[In, Out]{NoRegister: NoRegister[Out]{K: next}, err: err}
	})
}

// -- Then ----------------------------------------------------------------

type thenContinuation[In, Out any] struct {
	NoRegister[Out]
	f func(ctx context.Context, in In) (Out, error)
}

func (t *thenContinuation[In, Out]) Start(ctx context.Context, in In) {
	out, err := t.f(ctx, in)
	if err != nil {
		t.K.Fail(ctx, err)
		return
	}
	t.K.Start(ctx, out)
}

func (t *thenContinuation[In, Out]) Fail(ctx context.Context, err error) {
	t.K.Fail(ctx, err)
}

func (t *thenContinuation[In, Out]) Stop(ctx context.Context) {
	t.K.Stop(ctx)
}

// Then applies f synchronously to the upstream value, starting its
// downstream continuation with the result, or failing it if f errors.
// The composers (Pipe2..Pipe8) accept only Composable stages and do not
// wrap plain functions themselves; a plain function becomes a stage by
// passing it to Then.
func Then[In, Out any](f func(ctx context.Context, in In) (Out, error)) Composable[In, Out] {
	return ComposableFunc[In, Out](func(next Continuation[Out]) Continuation[In] {
		return &thenContinuation[In, Out]{NoRegister: NoRegister[Out]{K: next}, f: f}
	})
}

// -- Bind (monadic Then) --------------------------------------------------

type bindContinuation[In, Out any] struct {
	k    Continuation[Out]
	f    func(ctx context.Context, in In) Composable[Unit, Out]
	intr *Interrupt
}

func (b *bindContinuation[In, Out]) Start(ctx context.Context, in In) {
	inner := b.f(ctx, in).Compose(b.k)
	if b.intr != nil {
		inner.Register(b.intr)
	}
	inner.Start(ctx, Unit{})
}

func (b *bindContinuation[In, Out]) Fail(ctx context.Context, err error) {
	b.k.Fail(ctx, err)
}

func (b *bindContinuation[In, Out]) Stop(ctx context.Context) {
	b.k.Stop(ctx)
}

func (b *bindContinuation[In, Out]) Register(i *Interrupt) {
	b.intr = i
	b.k.Register(i)
}

// Bind chains a second, independently-composed stage whose construction
// depends on the upstream value — the flat-map/monadic counterpart of
// Then, for when the continuation of the next step is itself an
// eventual rather than a plain computation.
func Bind[In, Out any](f func(ctx context.Context, in In) Composable[Unit, Out]) Composable[In, Out] {
	return ComposableFunc[In, Out](func(next Continuation[Out]) Continuation[In] {
		return &bindContinuation[In, Out]{k: next, f: f}
	})
}

// -- Closure ---------------------------------------------------------------

// Closure materializes build exactly once per Compose call, which
// happens once per pipeline instantiation: stateful stages (a counter, a
// retry budget) that must not be shared across separately-started
// pipelines construct their state inside build so every instantiation
// gets its own.
func Closure[In, Out any](build func() Composable[In, Out]) Composable[In, Out] {
	return ComposableFunc[In, Out](func(next Continuation[Out]) Continuation[In] {
		return build().Compose(next)
	})
}

// -- Let ---------------------------------------------------------------

type letKey[V any] struct{}

type letContinuation[In, V any] struct {
	NoRegister[In]
	derive func(in In) V
}

func (l *letContinuation[In, V]) Start(ctx context.Context, in In) {
	v := l.derive(in)
	l.K.Start(context.WithValue(ctx, letKey[V]{}, &v), in)
}

func (l *letContinuation[In, V]) Fail(ctx context.Context, err error) {
	l.K.Fail(ctx, err)
}

func (l *letContinuation[In, V]) Stop(ctx context.Context) {
	l.K.Stop(ctx)
}

// Let binds a value derived from the current input into ctx for every
// downstream stage, the way a local variable is bound once and read by
// name from nested scopes, rather than threaded explicitly through every
// signature.
func Let[In, V any](derive func(in In) V) Composable[In, In] {
	return ComposableFunc[In, In](func(next Continuation[In]) Continuation[In] {
		return &letContinuation[In, V]{NoRegister: NoRegister[In]{K: next}, derive: derive}
	})
}

// GetLet retrieves a value bound by Let, or the zero value and false if
// none has been bound on ctx.
func GetLet[V any](ctx context.Context) (V, bool) {
	v, ok := ctx.Value(letKey[V]{}).(*V)
	if !ok {
		var zero V
		return zero, false
	}
	return *v, true
}

// -- Conditional -----------------------------------------------------------

type conditionalContinuation[In, Out any] struct {
	predicate func(in In) bool
	ifTrue    Composable[In, Out]
	ifFalse   Composable[In, Out]
	k         Continuation[Out]
	intr      *Interrupt
}

func (c *conditionalContinuation[In, Out]) Start(ctx context.Context, in In) {
	var branch Composable[In, Out]
	if c.predicate(in) {
		branch = c.ifTrue
	} else {
		branch = c.ifFalse
	}
	inner := branch.Compose(c.k)
	if c.intr != nil {
		inner.Register(c.intr)
	}
	inner.Start(ctx, in)
}

func (c *conditionalContinuation[In, Out]) Fail(ctx context.Context, err error) {
	c.k.Fail(ctx, err)
}

func (c *conditionalContinuation[In, Out]) Stop(ctx context.Context) {
	c.k.Stop(ctx)
}

func (c *conditionalContinuation[In, Out]) Register(i *Interrupt) {
	c.intr = i
	c.k.Register(i)
}

// Conditional dispatches to one of two stages depending on predicate,
// evaluated against the upstream value.
func Conditional[In, Out any](predicate func(in In) bool, ifTrue, ifFalse Composable[In, Out]) Composable[In, Out] {
	return ComposableFunc[In, Out](func(next Continuation[Out]) Continuation[In] {
		return &conditionalContinuation[In, Out]{predicate: predicate, ifTrue: ifTrue, ifFalse: ifFalse, k: next}
	})
}

// -- Catch -------------------------------------------------------------

type catchContinuation[V any] struct {
	k       Continuation[V]
	handler func(ctx context.Context, err error) Composable[error, V]
	intr    *Interrupt
}

func (c *catchContinuation[V]) Start(ctx context.Context, value V) {
	c.k.Start(ctx, value)
}

func (c *catchContinuation[V]) Fail(ctx context.Context, err error) {
	inner := c.handler(ctx, err).Compose(c.k)
	if c.intr != nil {
		inner.Register(c.intr)
	}
	inner.Start(ctx, err)
}

func (c *catchContinuation[V]) Stop(ctx context.Context) {
	c.k.Stop(ctx)
}

func (c *catchContinuation[V]) Register(i *Interrupt) {
	c.intr = i
	c.k.Register(i)
}

// Catch intercepts an upstream failure and materializes handler(err) as
// the recovery eventual, the way Bind materializes its own continuation
// from the upstream value — so recovery can itself be asynchronous,
// multi-stage, or fail in turn, not just compute a replacement value
// synchronously. Start and Stop signals pass straight through unchanged.
func Catch[V any](handler func(ctx context.Context, err error) Composable[error, V]) Composable[V, V] {
	return ComposableFunc[V, V](func(next Continuation[V]) Continuation[V] {
		return &catchContinuation[V]{k: next, handler: handler}
	})
}
