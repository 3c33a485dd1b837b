package eventuals_test

import (
	"testing"

	"github.com/fluxgraph/eventuals"
	"pgregory.net/rapid"
)

// TestPropertyInterruptTriggerIdempotent mirrors the teacher's
// core/events_test.go rapid.Check idiom: Trigger called any number of
// times must run installed handlers exactly once in total.
func TestPropertyInterruptTriggerIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		handlerCount := rapid.IntRange(0, 8).Draw(rt, "handlerCount")
		triggerCount := rapid.IntRange(1, 5).Draw(rt, "triggerCount")

		i := eventuals.NewInterrupt()
		calls := make([]int, handlerCount)
		for idx := range calls {
			idx := idx
			i.Install(func() { calls[idx]++ })
		}

		for n := 0; n < triggerCount; n++ {
			i.Trigger()
		}

		for idx, c := range calls {
			if c != 1 {
				rt.Fatalf("handler %d called %d times, want exactly 1", idx, c)
			}
		}
	})
}
