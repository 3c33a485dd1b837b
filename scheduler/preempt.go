package scheduler

import (
	"context"

	"github.com/fluxgraph/eventuals"
)

// Preempt runs fn on target's scheduler, under a Context scoped to
// target, then reschedules back onto the parent (ctx's current
// scheduler and Context) before calling resume — mirroring the original
// library's Preempt, which runs a piece of work on a different
// scheduler and then hands control back to whichever context initiated
// the preemption, rather than leaving execution stranded on the
// borrowed scheduler.
func Preempt(ctx context.Context, target Scheduler, name string, fn func(ctx context.Context), resume func(ctx context.Context)) {
	parentSched, parentCtx := Current(ctx)
	preemptCtx := NewContext(target, name)

	eventuals.Log.Info().Str("context", preemptCtx.Name).Str("scheduler", target.Name()).
		Msg("scheduler: preempt")

	Reschedule(ctx, preemptCtx, func(preempted context.Context) {
		fn(preempted)

		if parentCtx == nil {
			eventuals.Log.Debug().Str("context", preemptCtx.Name).Msg("scheduler: preempt resuming without a parent context")
			resume(WithScheduler(ctx, parentSched, nil))
			return
		}
		eventuals.Log.Debug().Str("context", preemptCtx.Name).Str("resume_context", parentCtx.Name).
			Msg("scheduler: preempt resuming on parent context")
		Reschedule(preempted, parentCtx, resume)
	})
}
