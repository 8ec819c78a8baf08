package tpsanalysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataflow-analyzer/dataflow-analyzer/graph"
	"github.com/dataflow-analyzer/dataflow-analyzer/sadf"
)

// deadlineMissGraph mirrors package sadf's own test fixture for
// spec.md §8 scenario 4: detector D controls kernel K, with a fast
// sub-scenario (K exec=2) and a slow one (K exec=10).
func deadlineMissGraph(t *testing.T) (*graph.Graph, int, int) {
	t.Helper()
	b := graph.NewBuilder()

	d := b.AddActor("D", graph.KindDetector)
	dOut := b.AddPort(d, graph.Out, []int{1})

	k := b.AddActor("K", graph.KindKernel)
	kIn := b.AddPort(k, graph.In, []int{1})

	b.AddChannel(d, dOut, k, kIn, 0, nil, true)

	b.AddSubScenario(d, &graph.SubScenario{Name: "fast", Profiles: []graph.Profile{{ExecTime: 1, Weight: 1}}})
	b.AddSubScenario(d, &graph.SubScenario{Name: "slow", Profiles: []graph.Profile{{ExecTime: 1, Weight: 1}}})
	b.AddMarkovChain(d, "detect", &graph.MarkovChain{
		States:  []string{"fast", "slow"},
		Initial: "fast",
		Trans: map[string]map[string]float64{
			"fast": {"fast": 0.85, "slow": 0.15},
			"slow": {"fast": 0.35, "slow": 0.65},
		},
	})

	b.AddScenario(k, &graph.Scenario{Name: "fast", Profiles: []graph.Profile{{ExecTime: 2, Weight: 1}}})
	b.AddScenario(k, &graph.Scenario{Name: "slow", Profiles: []graph.Profile{{ExecTime: 10, Weight: 1}}})

	g, err := b.Build()
	require.NoError(t, err)
	return g, d, k
}

func TestEquilibriumDistributionSumsToOne(t *testing.T) {
	g, _, _ := deadlineMissGraph(t)
	tps, err := sadf.BuildResolved(g, 5000)
	require.NoError(t, err)

	pi, ids, err := Equilibrium(tps)
	require.NoError(t, err)
	require.NotEmpty(t, ids)

	var total float64
	for _, p := range pi {
		assert.GreaterOrEqual(t, p, -1e-9)
		total += p
	}
	assert.InDelta(t, 1.0, total, 1e-6)
}

func TestPeriodicDeadlineMissMonotonicInDeadline(t *testing.T) {
	g, _, k := deadlineMissGraph(t)
	tps, err := sadf.BuildResolved(g, 5000)
	require.NoError(t, err)

	tiny, err := PeriodicDeadlineMiss(tps, k, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, tiny, 1e-9, "every interval takes strictly positive time")

	huge, err := PeriodicDeadlineMiss(tps, k, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, huge, 1e-9, "no interval takes 1000 time units")

	mid, err := PeriodicDeadlineMiss(tps, k, 5)
	require.NoError(t, err)
	assert.Greater(t, mid, 0.0)
	assert.Less(t, mid, 1.0)
}

func TestLongRunLatencyWithinFastSlowRange(t *testing.T) {
	g, _, k := deadlineMissGraph(t)
	tps, err := sadf.BuildResolved(g, 5000)
	require.NoError(t, err)

	latency, err := LongRunLatency(tps, k)
	require.NoError(t, err)
	// K's own exec time is 2 (fast) or 10 (slow); the inter-firing
	// interval also spans D's detect/start/end steps, of which only D's
	// firing takes time (1 tick for either sub-scenario in this
	// fixture). The average is expected to land strictly between the
	// two exec times.
	assert.Greater(t, latency.Mean, 2.0)
	assert.Less(t, latency.Mean, 10.0)
	// Both sub-scenarios occur with nonzero long-run probability, so the
	// interval time is genuinely dispersed, not a point mass.
	assert.Greater(t, latency.Variance, 0.0)
}

func TestBufferOccupancyDistributionSumsToOne(t *testing.T) {
	g, _, _ := deadlineMissGraph(t)
	tps, err := sadf.BuildResolved(g, 5000)
	require.NoError(t, err)

	// D's single outgoing channel is the control channel itself (id 0
	// in build order); its token count toggles between 0 and 1.
	res, err := BufferOccupancy(tps, 0)
	require.NoError(t, err)

	var total float64
	for _, p := range res.Distribution {
		total += p
	}
	assert.InDelta(t, 1.0, total, 1e-6)
	assert.GreaterOrEqual(t, res.Expected, 0.0)
	// Occupancy toggles between 0 and 1 with nonzero probability mass on
	// each, so its time-weighted variance must be strictly positive.
	assert.Greater(t, res.Variance, 0.0)
}
