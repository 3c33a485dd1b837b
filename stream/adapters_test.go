package stream

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPipeAdapterFusesMapOntoMap(t *testing.T) {
	double := Map(func(_ context.Context, v int) (int, error) { return v * 2, nil })
	plusOne := Map(func(_ context.Context, v int) (int, error) { return v + 1, nil })

	fused := PipeAdapter[int, int, int](double, plusOne)

	_, ok := fused.(*mapAdapter[int, int])
	require.True(t, ok, "PipeAdapter(Map, Map) should fuse into a single mapAdapter, not nest two stages")
}

func TestPipeAdapterLeavesNonMapPairsUnfused(t *testing.T) {
	double := Map(func(_ context.Context, v int) (int, error) { return v * 2, nil })
	keepEven := Filter(func(_ context.Context, v int) bool { return v%2 == 0 })

	chained := PipeAdapter[int, int, int](double, keepEven)

	_, ok := chained.(*mapAdapter[int, int])
	require.False(t, ok)
}
