package buffer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataflow-analyzer/dataflow-analyzer/graph"
)

// twoActorSDF builds spec.md §8 end-to-end scenario 1's topology: A
// (exec=2) -- rate 1 --> B (exec=3); back-edge B -- rate 1 --> A with
// 1 initial token. As derived in package csdf (see its
// TestRunComputesSteadyStateThroughput and DESIGN.md's csdf entry),
// this topology's throughput is 1/5, not the 1/3 spec.md's worked
// example states; its minimum-buffer Pareto point (size=2) does match
// spec.md exactly.
func twoActorSDF(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder()
	a := b.AddActor("A", graph.KindPlain)
	b.SetExecTimes(a, []int{2})
	aOut := b.AddPort(a, graph.Out, []int{1})
	aIn := b.AddPort(a, graph.In, []int{1})

	bb := b.AddActor("B", graph.KindPlain)
	b.SetExecTimes(bb, []int{3})
	bIn := b.AddPort(bb, graph.In, []int{1})
	bOut := b.AddPort(bb, graph.Out, []int{1})

	b.AddChannel(a, aOut, bb, bIn, 0, nil, false)
	b.AddChannel(bb, bOut, a, aIn, 1, nil, false)

	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestExploreFindsMinimalTwoActorParetoPoint(t *testing.T) {
	g := twoActorSDF(t)

	points, err := Explore(g, math.Inf(1))
	require.NoError(t, err)
	require.NotEmpty(t, points)

	assert.Equal(t, 2, points[0].Size)
	assert.InDelta(t, 1.0/5.0, points[0].Throughput, 1e-9)
}

func TestExploreFrontReachesUnconstrainedThroughput(t *testing.T) {
	g := twoActorSDF(t)

	points, err := Explore(g, math.Inf(1))
	require.NoError(t, err)
	require.NotEmpty(t, points)

	maxThr, err := unconstrainedThroughput(g, defaultMaxStackSize, defaultMaxHashSize)
	require.NoError(t, err)

	last := points[len(points)-1]
	assert.InDelta(t, maxThr, last.Throughput, 1e-9)
}

func TestExploreDegenerateDeadlockSeed(t *testing.T) {
	// A <-> B cycle with zero initial tokens anywhere: the minimal
	// distribution always deadlocks, so Explore must fall back to the
	// all-zero-beyond-initial-tokens distribution at throughput 0
	// rather than erroring.
	b := graph.NewBuilder()
	a := b.AddActor("A", graph.KindPlain)
	b.SetExecTimes(a, []int{1})
	bb := b.AddActor("B", graph.KindPlain)
	b.SetExecTimes(bb, []int{1})

	aOut := b.AddPort(a, graph.Out, []int{1})
	aIn := b.AddPort(a, graph.In, []int{1})
	bIn := b.AddPort(bb, graph.In, []int{1})
	bOut := b.AddPort(bb, graph.Out, []int{1})

	b.AddChannel(a, aOut, bb, bIn, 0, nil, false)
	b.AddChannel(bb, bOut, a, aIn, 0, nil, false)

	g, err := b.Build()
	require.NoError(t, err)

	points, err := Explore(g, math.Inf(1))
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 0, points[0].Size)
	assert.Equal(t, 0.0, points[0].Throughput)
}
