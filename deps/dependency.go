package deps

import (
	"sort"

	"github.com/dataflow-analyzer/dataflow-analyzer/graph"
	"github.com/dataflow-analyzer/dataflow-analyzer/state"
)

// depEdge is one directed actor-level dependency edge, labelled with
// every channel id whose token/space change is the reason b became
// (or remains, in the deadlock case) blocked on a.
type depEdge struct {
	to       int
	channels []int
}

// Result is the dependency analyzer's output: a per-channel bitset
// marking storage dependencies (spec.md §4.3).
type Result struct {
	Dep []bool // indexed by channel id
}

// AnalyzeStep builds the dependency graph from the transition
// prev -> curr (spec.md §4.3's differential case) and returns the
// storage-dependency bitset over g's channels.
func AnalyzeStep(g *graph.Graph, prev, curr *state.Configuration) *Result {
	adj := buildDifferentialGraph(g, prev, curr)
	return finish(g, adj)
}

// AnalyzeDeadlock builds the dependency graph directly from a single
// stalled configuration (spec.md §4.3's deadlock case: "any channel
// whose rate exceeds available tokens or available space yields the
// corresponding edge").
func AnalyzeDeadlock(g *graph.Graph, cfg *state.Configuration) *Result {
	adj := buildDeadlockGraph(g, cfg)
	return finish(g, adj)
}

func finish(g *graph.Graph, adj map[int][]depEdge) *Result {
	dep := make([]bool, g.NumChannels())
	markCircuitChannels(adj, numActors(g), dep)
	return &Result{Dep: dep}
}

func numActors(g *graph.Graph) int { return g.NumActors() }

// buildDifferentialGraph implements: edge a->b exists if b became
// fireable in curr but was not fireable in prev, because some input
// of b sourced from a gained a token, or some output of b towards a
// gained space.
func buildDifferentialGraph(g *graph.Graph, prev, curr *state.Configuration) map[int][]depEdge {
	adj := map[int][]depEdge{}

	newlyFireable := make([]bool, g.NumActors())
	for _, b := range g.Actors {
		newlyFireable[b.ID()] = !CanFire(g, b, prev) && CanFire(g, b, curr)
	}

	for _, ch := range g.Channels {
		if ch.SelfEdge() {
			continue
		}
		src := ch.SrcPort.Actor
		dst := ch.DstPort.Actor

		// Case 1: channel src->dst gained tokens, and dst newly fireable.
		if newlyFireable[dst.ID()] {
			if curr.Channels[ch.ID()].Tokens > prev.Channels[ch.ID()].Tokens {
				addEdge(adj, src.ID(), dst.ID(), ch.ID())
			}
		}
		// Case 2: channel src->dst gained space (dst side freed it up
		// by consuming), and src newly fireable as a result.
		if newlyFireable[src.ID()] {
			if curr.Channels[ch.ID()].Space > prev.Channels[ch.ID()].Space {
				addEdge(adj, dst.ID(), src.ID(), ch.ID())
			}
		}
	}

	return adj
}

// buildDeadlockGraph implements the deadlock case: for channel
// src->dst, if available tokens are less than dst's required
// consumption, dst depends on src (edge src->dst); if available space
// is less than src's required production, src depends on dst having
// freed space (edge dst->src).
func buildDeadlockGraph(g *graph.Graph, cfg *state.Configuration) map[int][]depEdge {
	adj := map[int][]depEdge{}

	for _, ch := range g.Channels {
		if ch.SelfEdge() {
			continue
		}
		src := ch.SrcPort.Actor
		dst := ch.DstPort.Actor
		cs := cfg.Channels[ch.ID()]

		dstPhase := cfg.Actors[dst.ID()].Phase
		if cs.Tokens < ch.DstPort.RateAt(dstPhase) {
			addEdge(adj, src.ID(), dst.ID(), ch.ID())
		}

		srcPhase := cfg.Actors[src.ID()].Phase
		if cs.Space < ch.SrcPort.RateAt(srcPhase) {
			addEdge(adj, dst.ID(), src.ID(), ch.ID())
		}
	}

	return adj
}

func addEdge(adj map[int][]depEdge, from, to, channel int) {
	edges := adj[from]
	for i := range edges {
		if edges[i].to == to {
			edges[i].channels = append(edges[i].channels, channel)
			adj[from] = edges
			return
		}
	}
	adj[from] = append(edges, depEdge{to: to, channels: []int{channel}})
}

// markCircuitChannels enumerates all elementary circuits reachable
// from each vertex, in stable id order, via DFS with recolouring;
// after a start vertex's circuits have all been emitted its outgoing
// edges are removed so later starts cannot rediscover the same
// circuits (spec.md §4.3).
func markCircuitChannels(adj map[int][]depEdge, nActors int, dep []bool) {
	starts := make([]int, 0, nActors)
	for id := range adjAndIsolated(adj, nActors) {
		starts = append(starts, id)
	}
	sort.Ints(starts)

	const (
		white = 0
		gray  = 1
	)
	color := make(map[int]int)

	var path []int
	var pathEdges []depEdge // pathEdges[i] is the edge used to reach path[i] from path[i-1]

	var dfs func(start, v int)
	dfs = func(start, v int) {
		color[v] = gray
		path = append(path, v)
		defer func() {
			color[v] = white
			path = path[:len(path)-1]
		}()

		for _, e := range adj[v] {
			if e.to == start {
				// Found an elementary circuit start -> ... -> v -> start.
				pathEdges = append(pathEdges, e)
				markChannels(pathEdges, dep)
				pathEdges = pathEdges[:len(pathEdges)-1]
				continue
			}
			if color[e.to] == gray {
				continue // would revisit a vertex already on the path
			}
			pathEdges = append(pathEdges, e)
			dfs(start, e.to)
			pathEdges = pathEdges[:len(pathEdges)-1]
		}
	}

	for _, s := range starts {
		path = path[:0]
		pathEdges = pathEdges[:0]
		dfs(s, s)
		delete(adj, s) // remove s's outgoing edges to avoid rediscovery
	}
}

func markChannels(edges []depEdge, dep []bool) {
	for _, e := range edges {
		for _, c := range e.channels {
			dep[c] = true
		}
	}
}

func adjAndIsolated(adj map[int][]depEdge, nActors int) map[int]bool {
	ids := make(map[int]bool, nActors)
	for from, edges := range adj {
		ids[from] = true
		for _, e := range edges {
			ids[e.to] = true
		}
	}
	return ids
}
