package graph

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// StronglyConnectedComponents returns the graph's strongly-connected
// components as lists of actor ids (spec.md §4.1: "Tarjan-equivalent
// decomposition used by throughput analysis"). Built on gonum's
// TarjanSCC rather than a hand-rolled Tarjan, per DESIGN.md.
func (g *Graph) StronglyConnectedComponents() [][]int {
	dg := simple.NewDirectedGraph()
	for _, a := range g.Actors {
		dg.AddNode(simple.Node(a.ID()))
	}
	for _, ch := range g.Channels {
		if ch.SelfEdge() {
			dg.SetEdge(simple.Edge{F: simple.Node(ch.SrcPort.Actor.ID()), T: simple.Node(ch.DstPort.Actor.ID())})
			continue
		}
		dg.SetEdge(simple.Edge{F: simple.Node(ch.SrcPort.Actor.ID()), T: simple.Node(ch.DstPort.Actor.ID())})
	}

	sccs := topo.TarjanSCC(dg)
	out := make([][]int, len(sccs))
	for i, scc := range sccs {
		ids := make([]int, len(scc))
		for j, node := range scc {
			ids[j] = int(node.ID())
		}
		out[i] = ids
	}
	return out
}

// ComponentSubgraph returns a view of g restricted to the actors in cc
// (an id list as returned by StronglyConnectedComponents, or more
// generally any weakly-connected component): only channels with both
// endpoints in cc are kept. Ports are not filtered: each actor in the
// view keeps its full port list, including ports whose channel lies
// outside cc.
//
// The returned Graph shares Actor/Port/Channel pointers with g — it is
// a read-only restriction, not a deep copy.
func (g *Graph) ComponentSubgraph(cc []int) *Graph {
	inCC := make(map[int]bool, len(cc))
	for _, id := range cc {
		inCC[id] = true
	}

	sub := &Graph{
		actorByID:   make(map[int]*Actor),
		channelByID: make(map[int]*Channel),
	}
	for _, a := range g.Actors {
		if inCC[a.ID()] {
			sub.Actors = append(sub.Actors, a)
			sub.actorByID[a.ID()] = a
		}
	}
	for _, ch := range g.Channels {
		if inCC[ch.SrcPort.Actor.ID()] && inCC[ch.DstPort.Actor.ID()] {
			sub.Channels = append(sub.Channels, ch)
			sub.channelByID[ch.ID()] = ch
		}
	}
	return sub
}

// WeaklyConnectedComponents groups actors by weak connectivity over
// the channel adjacency (used by analyses that need per-component
// throughput, e.g. the disconnected-graph case in spec.md §8).
func (g *Graph) WeaklyConnectedComponents() [][]int {
	idx := g.componentIndex()
	groups := map[int][]int{}
	for _, a := range g.Actors {
		c := idx[a.ID()]
		groups[c] = append(groups[c], a.ID())
	}
	out := make([][]int, 0, len(groups))
	for _, ids := range groups {
		out = append(out, ids)
	}
	return out
}
