package tpsanalysis

import (
	"fmt"

	"github.com/dataflow-analyzer/dataflow-analyzer/analyzererr"
	"github.com/dataflow-analyzer/dataflow-analyzer/sadf"
)

// IntervalEdge is one contracted edge of an IntervalGraph: To is a
// position into IntervalGraph.Boundary (not a raw TPS configuration
// id), Probability is the combined probability of the whole excursion
// it summarizes, and Time is that excursion's combined elapsed time.
type IntervalEdge struct {
	To          int
	Probability float64
	Time        int64
}

// IntervalGraph is a TPS contracted down to the configurations that
// immediately follow one chosen process's End action (plus the TPS
// root, the start of the first interval): every path between two such
// boundary states — however many Control/Detect/Start/Time steps of
// other processes it passes through — becomes a single edge carrying
// the combined probability and elapsed time of that whole excursion.
// Mirrors original_source's SADF_ProgressTPS_ASAP_InterFiringLatency,
// which builds exactly this reduced TPS so a periodic deadline-miss or
// inter-firing-latency metric can be read off its own (separate)
// equilibrium distribution instead of the full TPS's.
type IntervalGraph struct {
	Boundary []int
	Edges    [][]IntervalEdge
}

type contractStatus int

const (
	unvisited contractStatus = iota
	inProgress
	done
)

// ContractInterFiring builds actorID's IntervalGraph. It assumes (as
// this package's sadf scope guarantees — see DESIGN.md) that every
// cycle in tps passes through some process's End action; if a cycle is
// found that never reaches actorID's own End, actorID can never
// complete and the contraction reports analyzererr.NonErgodic rather
// than recursing forever.
func ContractInterFiring(tps *sadf.TPS, actorID int) (*IntervalGraph, error) {
	boundaryPos := map[int]int{0: 0}
	order := []int{0}

	status := make([]contractStatus, len(tps.Configs))
	memo := make([][]IntervalEdge, len(tps.Configs))

	var contractFrom func(v int) ([]IntervalEdge, error)
	contractFrom = func(v int) ([]IntervalEdge, error) {
		switch status[v] {
		case done:
			return memo[v], nil
		case inProgress:
			return nil, analyzererr.New(analyzererr.NonErgodic,
				fmt.Sprintf("tpsanalysis: inter-firing contraction found a cycle that never reaches actor %d's end action", actorID))
		}
		status[v] = inProgress

		var out []IntervalEdge
		for _, e := range tps.Transitions[v] {
			if e.Kind == sadf.End && e.Actor == actorID {
				pos, ok := boundaryPos[e.To]
				if !ok {
					pos = len(order)
					boundaryPos[e.To] = pos
					order = append(order, e.To)
				}
				out = append(out, IntervalEdge{To: pos, Probability: e.Probability, Time: e.Time})
				continue
			}
			rest, err := contractFrom(e.To)
			if err != nil {
				return nil, err
			}
			for _, r := range rest {
				out = append(out, IntervalEdge{To: r.To, Probability: e.Probability * r.Probability, Time: e.Time + r.Time})
			}
		}

		status[v] = done
		memo[v] = out
		return out, nil
	}

	var edges [][]IntervalEdge
	for i := 0; i < len(order); i++ {
		e, err := contractFrom(order[i])
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}

	return &IntervalGraph{Boundary: order, Edges: edges}, nil
}

// equilibrium computes ig's own stationary distribution over its
// boundary states, independent of the full TPS's equilibrium.
func (ig *IntervalGraph) equilibrium() ([]float64, []int, error) {
	n := len(ig.Boundary)
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	succs := func(i int) []int {
		out := make([]int, 0, len(ig.Edges[i]))
		for _, e := range ig.Edges[i] {
			out = append(out, e.To)
		}
		return out
	}
	rec, err := terminalComponent(n, succs)
	if err != nil {
		return nil, nil, err
	}
	trans := func(id int) []edgeProb {
		out := make([]edgeProb, 0, len(ig.Edges[id]))
		for _, e := range ig.Edges[id] {
			out = append(out, edgeProb{To: e.To, Prob: e.Probability})
		}
		return out
	}
	pi, err := equilibrium(rec, trans)
	return pi, rec, err
}
