package eventuals_test

import (
	"testing"

	"github.com/fluxgraph/eventuals"
	"github.com/stretchr/testify/require"
)

func TestInterruptRunsHandlersLIFO(t *testing.T) {
	var order []int
	i := eventuals.NewInterrupt()
	i.Install(func() { order = append(order, 1) })
	i.Install(func() { order = append(order, 2) })
	i.Install(func() { order = append(order, 3) })

	i.Trigger()

	require.Equal(t, []int{3, 2, 1}, order)
}

func TestInterruptTriggerIsOneShot(t *testing.T) {
	calls := 0
	i := eventuals.NewInterrupt()
	i.Install(func() { calls++ })

	i.Trigger()
	i.Trigger()
	i.Trigger()

	require.Equal(t, 1, calls)
	require.True(t, i.Triggered())
}

func TestInstallAfterTriggerLeavesHandlerToCaller(t *testing.T) {
	i := eventuals.NewInterrupt()
	i.Trigger()

	ran := false
	ok := i.Install(func() { ran = true })

	require.False(t, ok)
	require.False(t, ran, "caller, not Install, is responsible for invoking the handler when Install returns false")
}
