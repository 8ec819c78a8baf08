package analyze

import (
	"context"

	"github.com/dataflow-analyzer/dataflow-analyzer/buffer"
	"github.com/dataflow-analyzer/dataflow-analyzer/csdf"
	"github.com/dataflow-analyzer/dataflow-analyzer/graph"
	"github.com/dataflow-analyzer/dataflow-analyzer/sadf"
	"github.com/dataflow-analyzer/dataflow-analyzer/tpsanalysis"
)

// Throughput wraps csdf.RunBounded: the self-timed execution engine's
// long-run throughput and per-channel storage-dependency analysis for
// storage distribution sp. ctx is accepted for signature uniformity
// across this package's entry points but unused — the engine itself
// never suspends.
func Throughput(ctx context.Context, g *graph.Graph, sp []int, bounds Bounds) (float64, Dependencies, error) {
	res, err := csdf.RunBounded(g, sp, bounds.MaxStackSize, bounds.MaxHashSize)
	if err != nil {
		if res != nil {
			return 0, Dependencies(res.Dep), err
		}
		return 0, nil, err
	}
	return res.Throughput, Dependencies(res.Dep), nil
}

// StorageBufferAnalysis wraps buffer.ExploreBounded: the
// throughput/storage Pareto front up to thrBound.
func StorageBufferAnalysis(ctx context.Context, g *graph.Graph, thrBound float64, bounds Bounds) ([]buffer.ParetoPoint, error) {
	return buffer.ExploreBounded(g, thrBound, bounds.MaxStackSize, bounds.MaxHashSize)
}

// BuildSADFTPS wraps sadf.BuildWithPolicy: the Timed Probabilistic
// System for g under the chosen ASAP scheduling policy.
func BuildSADFTPS(ctx context.Context, g *graph.Graph, bounds Bounds, policy sadf.Policy) (*sadf.TPS, error) {
	return sadf.BuildWithPolicy(g, bounds.MaxConfigs, policy)
}

// Equilibrium wraps tpsanalysis.Analyze: t's stationary distribution.
func Equilibrium(ctx context.Context, t *sadf.TPS) (*tpsanalysis.Result, error) {
	return tpsanalysis.Analyze(t)
}
