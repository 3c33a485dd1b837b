package stream

import (
	"context"

	"github.com/fluxgraph/eventuals"
)

// Iterate streams the elements of values in order, ending once they are
// exhausted.
func Iterate[V any](values []V) Source[eventuals.Unit, V] {
	return FromFunc(func() func(ctx context.Context) (V, bool, error) {
		i := 0
		return func(_ context.Context) (V, bool, error) {
			if i >= len(values) {
				var zero V
				return zero, false, nil
			}
			v := values[i]
			i++
			return v, true, nil
		}
	})
}

// Range streams the half-open integer range [begin, end) stepping by
// step each call. A step that cannot reach end from begin — zero, or
// the wrong sign for the direction from begin to end — terminates the
// stream immediately rather than looping forever or the wrong way.
func Range(begin, end, step int) Source[eventuals.Unit, int] {
	return FromFunc(func() func(ctx context.Context) (int, bool, error) {
		i := begin
		return func(_ context.Context) (int, bool, error) {
			var inRange bool
			switch {
			case step > 0:
				inRange = i < end
			case step < 0:
				inRange = i > end
			default:
				inRange = false
			}
			if !inRange {
				return 0, false, nil
			}
			v := i
			i += step
			return v, true, nil
		}
	})
}

// Repeat streams the result of running build's eventual over and over,
// forever, materializing a fresh copy of it for every iteration (so
// stateful builders see no cross-iteration state). The stream only ends
// when a downstream adapter calls Done (see Until, TakeFirstN) or
// build's eventual fails.
func Repeat[V any](build func() eventuals.Composable[eventuals.Unit, V]) Source[eventuals.Unit, V] {
	return FromFunc(func() func(ctx context.Context) (V, bool, error) {
		return func(ctx context.Context) (V, bool, error) {
			value, err := eventuals.Run(ctx, build(), eventuals.Unit{})
			if err != nil {
				return value, false, err
			}
			return value, true, nil
		}
	})
}

// RepeatN streams the result of running build's eventual exactly n
// times, then ends — the bounded counterpart of Repeat.
func RepeatN[V any](n int, build func() eventuals.Composable[eventuals.Unit, V]) Source[eventuals.Unit, V] {
	return FromFunc(func() func(ctx context.Context) (V, bool, error) {
		i := 0
		return func(ctx context.Context) (V, bool, error) {
			if i >= n {
				var zero V
				return zero, false, nil
			}
			i++
			value, err := eventuals.Run(ctx, build(), eventuals.Unit{})
			if err != nil {
				return value, false, err
			}
			return value, true, nil
		}
	})
}
