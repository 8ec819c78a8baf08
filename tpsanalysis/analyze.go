package tpsanalysis

import (
	"github.com/dataflow-analyzer/dataflow-analyzer/analyzererr"
	"github.com/dataflow-analyzer/dataflow-analyzer/graph"
	"github.com/dataflow-analyzer/dataflow-analyzer/sadf"
)

// Result is the outcome of Analyze: a TPS's equilibrium distribution,
// indexed by the configuration ids it was solved over.
type Result struct {
	Distribution []float64
	ConfigIDs    []int
}

// Analyze is package analyze's Equilibrium entry point: it computes
// tps's stationary distribution and nothing more, leaving the
// per-process/per-channel metrics (LongRunLatency,
// PeriodicDeadlineMiss, BufferOccupancy) to separate calls, since each
// needs extra parameters a single generic entry point cannot supply.
func Analyze(tps *sadf.TPS) (*Result, error) {
	pi, ids, err := Equilibrium(tps)
	if err != nil {
		return nil, err
	}
	return &Result{Distribution: pi, ConfigIDs: ids}, nil
}

// CheckErgodic verifies the two preconditions original_source's
// sadf_ergodic.cc checks before any TPS-derived long-run metric is
// trustworthy: g is a single weakly-connected component (a
// disconnected graph has no single long-run behavior), and at least
// one actor has a nonzero execution time somewhere in its
// scenarios/sub-scenarios (an all-instantaneous graph has no
// meaningful timing distribution to speak of).
func CheckErgodic(g *graph.Graph) error {
	if comps := g.WeaklyConnectedComponents(); len(comps) != 1 {
		return analyzererr.New(analyzererr.UnsupportedTopology,
			"tpsanalysis: graph has more than one weakly-connected component")
	}
	for _, a := range g.Actors {
		for _, s := range a.Scenarios {
			for _, p := range s.Profiles {
				if p.ExecTime > 0 {
					return nil
				}
			}
		}
		for _, s := range a.SubScenarios {
			for _, p := range s.Profiles {
				if p.ExecTime > 0 {
					return nil
				}
			}
		}
	}
	return analyzererr.New(analyzererr.UnsupportedTopology,
		"tpsanalysis: graph has no timed action")
}
