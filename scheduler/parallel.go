package scheduler

import (
	"context"
	"sync"

	"github.com/fluxgraph/eventuals"
)

// Schedulable wraps a stage so that it runs on s instead of wherever it
// is composed, rebinding ctx's current Scheduler/Context for the
// duration of the stage.
func Schedulable[In, Out any](s Scheduler, name string, stage eventuals.Composable[In, Out]) eventuals.Composable[In, Out] {
	return eventuals.ComposableFunc[In, Out](func(next eventuals.Continuation[Out]) eventuals.Continuation[In] {
		inner := stage.Compose(next)
		return scheduledContinuation[In, Out]{
			scheduler: s,
			name:      name,
			inner:     inner,
		}
	})
}

type scheduledContinuation[In, Out any] struct {
	scheduler Scheduler
	name      string
	inner     eventuals.Continuation[In]
}

func (s scheduledContinuation[In, Out]) Start(ctx context.Context, value In) {
	schedCtx := NewContext(s.scheduler, s.name)
	Reschedule(ctx, schedCtx, func(rescheduled context.Context) {
		s.inner.Start(rescheduled, value)
	})
}

func (s scheduledContinuation[In, Out]) Fail(ctx context.Context, err error) {
	s.inner.Fail(ctx, err)
}

func (s scheduledContinuation[In, Out]) Stop(ctx context.Context) {
	s.inner.Stop(ctx)
}

func (s scheduledContinuation[In, Out]) Register(i *eventuals.Interrupt) {
	s.inner.Register(i)
}

// Parallel runs every stage concurrently with the same input value,
// waits for all of them to reach a terminal signal, and starts its own
// downstream continuation with their outputs in the same order the
// stages were given — the generalization of the teacher's
// BarrierConfig-synchronized fan-out: N branches run concurrently and a
// single consolidated result is emitted once every branch has finished.
// If any branch fails, the downstream continuation is failed with the
// error of the earliest failing branch in stage order; a failure does
// not cancel the other branches, which still run to completion.
func Parallel[In, Out any](s Scheduler, stages []eventuals.Composable[In, Out]) eventuals.Composable[In, []Out] {
	return eventuals.ComposableFunc[In, []Out](func(next eventuals.Continuation[[]Out]) eventuals.Continuation[In] {
		return &parallelContinuation[In, Out]{scheduler: s, stages: stages, k: next}
	})
}

type parallelContinuation[In, Out any] struct {
	scheduler Scheduler
	stages    []eventuals.Composable[In, Out]
	k         eventuals.Continuation[[]Out]
	intr      *eventuals.Interrupt
}

func (p *parallelContinuation[In, Out]) Start(ctx context.Context, value In) {
	n := len(p.stages)
	results := make([]Out, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	wg.Add(n)

	for idx, stage := range p.stages {
		idx, stage := idx, stage
		schedCtx := NewContext(p.scheduler, "")
		Reschedule(ctx, schedCtx, func(branchCtx context.Context) {
			defer wg.Done()
			out, err := eventuals.Run(branchCtx, stage, value)
			results[idx] = out
			errs[idx] = err
		})
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			p.k.Fail(ctx, err)
			return
		}
	}
	p.k.Start(ctx, results)
}

func (p *parallelContinuation[In, Out]) Fail(ctx context.Context, err error) {
	p.k.Fail(ctx, err)
}

func (p *parallelContinuation[In, Out]) Stop(ctx context.Context) {
	p.k.Stop(ctx)
}

func (p *parallelContinuation[In, Out]) Register(i *eventuals.Interrupt) {
	p.intr = i
	p.k.Register(i)
}
