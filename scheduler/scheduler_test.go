package scheduler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fluxgraph/eventuals"
	"github.com/fluxgraph/eventuals/scheduler"
	"github.com/stretchr/testify/require"
)

func TestRescheduleRunsOnTargetScheduler(t *testing.T) {
	pool := scheduler.NewStaticThreadPool(2)
	defer pool.Close()

	schedCtx := scheduler.NewContext(pool, "worker")
	done := make(chan struct{})
	var ranOnPool bool

	scheduler.Reschedule(context.Background(), schedCtx, func(ctx context.Context) {
		sched, _ := scheduler.Current(ctx)
		ranOnPool = sched == scheduler.Scheduler(pool)
		close(done)
	})

	<-done
	require.True(t, ranOnPool)
}

func TestSchedulableRebindsCurrentScheduler(t *testing.T) {
	pool := scheduler.NewStaticThreadPool(1)
	defer pool.Close()

	stage := scheduler.Schedulable(pool, "task", eventuals.Then(func(ctx context.Context, in int) (int, error) {
		sched, _ := scheduler.Current(ctx)
		if sched != scheduler.Scheduler(pool) {
			return 0, errors.New("not running on the target scheduler")
		}
		return in * 2, nil
	}))

	out, err := eventuals.Run(context.Background(), stage, 21)
	require.NoError(t, err)
	require.Equal(t, 42, out)
}

func TestParallelCollectsResultsInOrder(t *testing.T) {
	pool := scheduler.NewStaticThreadPool(4)
	defer pool.Close()

	stages := []eventuals.Composable[int, int]{
		eventuals.Then(func(_ context.Context, in int) (int, error) { return in + 1, nil }),
		eventuals.Then(func(_ context.Context, in int) (int, error) { return in + 2, nil }),
		eventuals.Then(func(_ context.Context, in int) (int, error) { return in + 3, nil }),
	}

	out, err := eventuals.Run(context.Background(), scheduler.Parallel(pool, stages), 10)
	require.NoError(t, err)
	require.Equal(t, []int{11, 12, 13}, out)
}

func TestParallelPropagatesFirstError(t *testing.T) {
	pool := scheduler.NewStaticThreadPool(2)
	defer pool.Close()

	boom := errors.New("branch failed")
	stages := []eventuals.Composable[int, int]{
		eventuals.Then(func(_ context.Context, in int) (int, error) { return in, nil }),
		eventuals.Raise[int, int](boom),
	}

	_, err := eventuals.Run(context.Background(), scheduler.Parallel(pool, stages), 0)
	require.ErrorIs(t, err, boom)
}

func TestPreemptResumesOnParentContext(t *testing.T) {
	pool := scheduler.NewStaticThreadPool(2)
	defer pool.Close()

	parentCtx := scheduler.NewContext(scheduler.Default(), "parent")
	ctx := scheduler.WithScheduler(context.Background(), scheduler.Default(), parentCtx)

	done := make(chan struct{})
	var resumedOnParent bool

	scheduler.Preempt(ctx, pool, "preempted", func(preemptedCtx context.Context) {
		// runs on pool
	}, func(resumeCtx context.Context) {
		_, resumeSchedCtx := scheduler.Current(resumeCtx)
		resumedOnParent = resumeSchedCtx == parentCtx
		close(done)
	})

	<-done
	require.True(t, resumedOnParent)
}
