package tpsanalysis

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/dataflow-analyzer/dataflow-analyzer/analyzererr"
)

// terminalComponent returns, sorted, the node ids of the unique
// terminal strongly-connected component reachable from node 0 in a
// graph of n nodes whose out-edges are given by succs. A terminal
// component has no edge leaving it; a chain can settle into more than
// one such component depending on which branch it happens to take, in
// which case the long-run distribution is path-dependent and
// undefined, reported as analyzererr.NonErgodic — the same condition
// original_source's isErgodic guards against before trusting a
// computeEquilibriumDistribution() result.
func terminalComponent(n int, succs func(i int) []int) ([]int, error) {
	dg := simple.NewDirectedGraph()
	for i := 0; i < n; i++ {
		dg.AddNode(simple.Node(i))
	}
	for i := 0; i < n; i++ {
		for _, j := range succs(i) {
			if i == j {
				continue
			}
			dg.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
		}
	}

	sccs := topo.TarjanSCC(dg)
	compOf := make([]int, n)
	for ci, scc := range sccs {
		for _, node := range scc {
			compOf[int(node.ID())] = ci
		}
	}

	terminal := make([]bool, len(sccs))
	for i := range terminal {
		terminal[i] = true
	}
	for i := 0; i < n; i++ {
		for _, j := range succs(i) {
			if compOf[i] != compOf[j] {
				terminal[compOf[i]] = false
			}
		}
	}

	reachable := make([]bool, n)
	reachable[0] = true
	queue := []int{0}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, j := range succs(v) {
			if !reachable[j] {
				reachable[j] = true
				queue = append(queue, j)
			}
		}
	}

	reached := map[int]bool{}
	for i := 0; i < n; i++ {
		if reachable[i] && terminal[compOf[i]] {
			reached[compOf[i]] = true
		}
	}
	if len(reached) != 1 {
		return nil, analyzererr.New(analyzererr.NonErgodic,
			fmt.Sprintf("tpsanalysis: %d terminal classes reachable from the root, want exactly 1", len(reached)))
	}

	var target int
	for c := range reached {
		target = c
	}
	var ids []int
	for i := 0; i < n; i++ {
		if compOf[i] == target {
			ids = append(ids, i)
		}
	}
	sort.Ints(ids)
	return ids, nil
}
