package analyze

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataflow-analyzer/dataflow-analyzer/graph"
	"github.com/dataflow-analyzer/dataflow-analyzer/sadf"
)

// twoActorSDF builds a minimal producer/consumer SDF graph: A produces
// 2 tokens/firing (exec=1), B consumes 2/firing (exec=1), one
// unbounded channel with 2 initial tokens.
func twoActorSDF(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder()

	a := b.AddActor("A", graph.KindPlain)
	b.SetExecTimes(a, []int{1})
	aOut := b.AddPort(a, graph.Out, []int{2})

	c := b.AddActor("B", graph.KindPlain)
	b.SetExecTimes(c, []int{1})
	cIn := b.AddPort(c, graph.In, []int{2})

	b.AddChannel(a, aOut, c, cIn, 2, nil, false)

	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestThroughputWrapsCSDFRun(t *testing.T) {
	g := twoActorSDF(t)
	sp := make([]int, g.NumChannels())
	for _, ch := range g.Channels {
		sp[ch.ID()] = ch.InitialTokens
	}

	thr, dep, err := Throughput(context.Background(), g, sp, Bounds{})
	require.NoError(t, err)
	assert.Greater(t, thr, 0.0)
	assert.NotNil(t, dep)
}

func TestStorageBufferAnalysisReturnsNonDominatedFront(t *testing.T) {
	g := twoActorSDF(t)

	points, err := StorageBufferAnalysis(context.Background(), g, 1.0, Bounds{MaxStackSize: 1 << 16, MaxHashSize: 1 << 16})
	require.NoError(t, err)
	require.NotEmpty(t, points)

	for i := 1; i < len(points); i++ {
		assert.GreaterOrEqual(t, points[i].Size, points[i-1].Size)
	}
}

func deadlineMissGraph(t *testing.T) *graph.Graph {
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
	return g
}

func TestBuildSADFTPSAndEquilibriumEndToEnd(t *testing.T) {
	g := deadlineMissGraph(t)

	tps, err := BuildSADFTPS(context.Background(), g, Bounds{MaxConfigs: 5000}, sadf.ResolvedASAP)
	require.NoError(t, err)
	require.NotEmpty(t, tps.Configs)

	res, err := Equilibrium(context.Background(), tps)
	require.NoError(t, err)
	require.NotEmpty(t, res.Distribution)

	var total float64
	for _, p := range res.Distribution {
		total += p
	}
	assert.InDelta(t, 1.0, total, 1e-6)
}
