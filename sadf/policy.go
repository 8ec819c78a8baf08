package sadf

import "github.com/dataflow-analyzer/dataflow-analyzer/graph"

// Policy selects which ASAP scheduling variant BuildWithPolicy uses.
type Policy int

const (
	// FullASAP produces the full (possibly non-deterministic) TPS via Build.
	FullASAP Policy = iota
	// ResolvedASAP produces a proper Markov chain via BuildResolved.
	ResolvedASAP
)

func (p Policy) String() string {
	switch p {
	case ResolvedASAP:
		return "resolved"
	default:
		return "full"
	}
}

// BuildWithPolicy dispatches to Build or BuildResolved according to
// policy, so callers (package analyze) can select the scheduling
// variant through a single config value instead of choosing a
// function at compile time.
func BuildWithPolicy(g *graph.Graph, maxConfigs int, policy Policy) (*TPS, error) {
	if policy == ResolvedASAP {
		return BuildResolved(g, maxConfigs)
	}
	return Build(g, maxConfigs)
}
