// Package scheduler implements the spec's scheduling and resource model:
// a Scheduler decides what goroutine (or worker) runs a piece of work,
// and a Context identifies one logical task across however many times it
// gets rescheduled, preempted, or resumed.
//
// The original C++ library tracks "the current Scheduler::Context" in a
// thread-local. That doesn't translate to Go, where the unit of
// execution is a goroutine rather than a pinned OS thread and
// continuations routinely resume on whichever goroutine last called
// them. Instead, the current (Scheduler, *Context) pair travels
// explicitly as a value on the context.Context threaded through every
// Start/Fail/Stop call — the same convention the teacher repo uses for
// its own ctx parameter, and one that gets save/restore for free from
// Go's call stack instead of needing an explicit restore step.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/fluxgraph/eventuals"
	"github.com/google/uuid"
)

// Scheduler runs submitted work, possibly on a different goroutine than
// the caller's.
type Scheduler interface {
	Name() string
	// Submit runs fn, eventually. The default Scheduler runs it inline,
	// synchronously, on the calling goroutine.
	Submit(ctx context.Context, fn func(ctx context.Context))
}

// Context identifies one logical task across reschedules. Two
// continuations running as part of the same logical task (for example
// a pipeline and the interrupt handler it installed) share a Context so
// log lines and scheduler bookkeeping can be correlated.
type Context struct {
	Name      string
	Scheduler Scheduler
}

// NewContext creates a Context bound to s. If name is empty, a UUID is
// minted so concurrently preempted branches stay distinguishable in
// logs, the way bassosimone-nop mints a span ID for concurrent request
// traces.
func NewContext(s Scheduler, name string) *Context {
	if name == "" {
		name = uuid.NewString()
	}
	return &Context{Name: name, Scheduler: s}
}

type contextKey struct{}

// WithScheduler binds sched and schedCtx onto ctx, to be retrieved later
// with Current.
func WithScheduler(ctx context.Context, sched Scheduler, schedCtx *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, &pair{scheduler: sched, context: schedCtx})
}

type pair struct {
	scheduler Scheduler
	context   *Context
}

// Current returns the Scheduler and Context bound to ctx by the nearest
// enclosing WithScheduler, or (defaultScheduler, nil) if none has been
// bound yet.
func Current(ctx context.Context) (Scheduler, *Context) {
	if p, ok := ctx.Value(contextKey{}).(*pair); ok {
		return p.scheduler, p.context
	}
	return Default(), nil
}

var (
	defaultMu  sync.Mutex
	defaultSch Scheduler = inlineScheduler{}
	defaultSet bool
)

// Default returns the process-wide default Scheduler.
func Default() Scheduler {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultSch
}

// SetDefault installs the process-wide default Scheduler. It is a
// one-shot initializer: calling it more than once panics, even with the
// same Scheduler value, the same way the original static-thread-pool.cc
// installs its singleton exactly once at process start — swapping the
// default scheduler out from under pipelines that already captured it
// would be a correctness trap, not a feature.
func SetDefault(s Scheduler) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultSet {
		panic(fmt.Sprintf("scheduler: SetDefault called more than once (already set to %q)", defaultSch.Name()))
	}
	defaultSch = s
	defaultSet = true
}

type inlineScheduler struct{}

func (inlineScheduler) Name() string { return "inline" }

func (inlineScheduler) Submit(ctx context.Context, fn func(ctx context.Context)) {
	fn(ctx)
}

// Reschedule hops execution of fn to schedCtx's scheduler, rebinding ctx
// to schedCtx for the duration of fn. This is the Go counterpart of the
// source's Scheduler::Context::Reschedule: it changes which
// scheduler/context pair is "current" without needing to save and
// restore a thread-local, because the rebinding only affects the ctx
// value passed into fn's call tree.
func Reschedule(ctx context.Context, schedCtx *Context, fn func(ctx context.Context)) {
	eventuals.Log.Debug().Str("context", schedCtx.Name).Str("scheduler", schedCtx.Scheduler.Name()).
		Msg("scheduler: reschedule")
	rescheduled := WithScheduler(ctx, schedCtx.Scheduler, schedCtx)
	schedCtx.Scheduler.Submit(rescheduled, fn)
}
