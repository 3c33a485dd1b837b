package eventuals_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fluxgraph/eventuals"
	"github.com/stretchr/testify/require"
)

func TestJustIgnoresInput(t *testing.T) {
	stage := eventuals.Just[int, string]("hello")
	out, err := eventuals.Run(context.Background(), stage, 42)
	require.NoError(t, err)
	require.Equal(t, "hello", out)
}

func TestRaiseFails(t *testing.T) {
	boom := errors.New("boom")
	stage := eventuals.Raise[int, string](boom)
	_, err := eventuals.Run(context.Background(), stage, 0)
	require.ErrorIs(t, err, boom)
}

func TestThenTransformsAndPropagatesErrors(t *testing.T) {
	double := eventuals.Then(func(_ context.Context, in int) (int, error) {
		return in * 2, nil
	})
	out, err := eventuals.Run(context.Background(), double, 21)
	require.NoError(t, err)
	require.Equal(t, 42, out)

	failing := eventuals.Then(func(_ context.Context, in int) (int, error) {
		return 0, errors.New("not even")
	})
	_, err = eventuals.Run(context.Background(), failing, 3)
	require.Error(t, err)
}

func TestPipe2ComposesLeftToRight(t *testing.T) {
	parseLen := eventuals.Then(func(_ context.Context, in string) (int, error) {
		return len(in), nil
	})
	double := eventuals.Then(func(_ context.Context, in int) (int, error) {
		return in * 2, nil
	})
	pipeline := eventuals.Pipe2(parseLen, double)
	out, err := eventuals.Run(context.Background(), pipeline, "hello")
	require.NoError(t, err)
	require.Equal(t, 10, out)
}

func TestConditionalDispatchesOnPredicate(t *testing.T) {
	isEven := func(in int) bool { return in%2 == 0 }
	stage := eventuals.Conditional(
		isEven,
		eventuals.Just[int, string]("even"),
		eventuals.Just[int, string]("odd"),
	)

	out, err := eventuals.Run(context.Background(), stage, 4)
	require.NoError(t, err)
	require.Equal(t, "even", out)

	out, err = eventuals.Run(context.Background(), stage, 5)
	require.NoError(t, err)
	require.Equal(t, "odd", out)
}

func TestCatchRecoversFailure(t *testing.T) {
	failing := eventuals.Pipe2(
		eventuals.Raise[int, int](errors.New("upstream failed")),
		eventuals.Catch(func(_ context.Context, err error) eventuals.Composable[error, int] {
			return eventuals.Just[error, int](-1)
		}),
	)
	out, err := eventuals.Run(context.Background(), failing, 0)
	require.NoError(t, err)
	require.Equal(t, -1, out)
}

func TestCatchCanReraise(t *testing.T) {
	wrapped := errors.New("wrapped")
	failing := eventuals.Pipe2(
		eventuals.Raise[int, int](errors.New("upstream failed")),
		eventuals.Catch(func(_ context.Context, err error) eventuals.Composable[error, int] {
			return eventuals.Raise[error, int](wrapped)
		}),
	)
	_, err := eventuals.Run(context.Background(), failing, 0)
	require.ErrorIs(t, err, wrapped)
}

func TestCatchRecoveryCanBeMultiStage(t *testing.T) {
	failing := eventuals.Pipe2(
		eventuals.Raise[int, int](errors.New("upstream failed")),
		eventuals.Catch(func(_ context.Context, _ error) eventuals.Composable[error, int] {
			return eventuals.Pipe2(
				eventuals.Then(func(_ context.Context, _ error) (int, error) {
					return 41, nil
				}),
				eventuals.Then(func(_ context.Context, v int) (int, error) {
					return v + 1, nil
				}),
			)
		}),
	)
	out, err := eventuals.Run(context.Background(), failing, 0)
	require.NoError(t, err)
	require.Equal(t, 42, out)
}

func TestClosureGivesEachRunFreshState(t *testing.T) {
	stage := eventuals.Closure(func() eventuals.Composable[int, int] {
		count := 0
		return eventuals.Then(func(_ context.Context, in int) (int, error) {
			count++
			return count, nil
		})
	})

	out1, err := eventuals.Run(context.Background(), stage, 0)
	require.NoError(t, err)
	require.Equal(t, 1, out1)

	out2, err := eventuals.Run(context.Background(), stage, 0)
	require.NoError(t, err)
	require.Equal(t, 1, out2, "a fresh Closure instantiation must not see state from a prior run")
}

func TestLetBindsValueForDownstream(t *testing.T) {
	type requestID struct{}
	stage := eventuals.Pipe2(
		eventuals.Let(func(in int) string { return "req-1" }),
		eventuals.Then(func(ctx context.Context, in int) (string, error) {
			id, ok := eventuals.GetLet[string](ctx)
			if !ok {
				return "", errors.New("no id bound")
			}
			return id, nil
		}),
	)
	out, err := eventuals.Run(context.Background(), stage, 0)
	require.NoError(t, err)
	require.Equal(t, "req-1", out)
}
