package deps

import (
	"github.com/dataflow-analyzer/dataflow-analyzer/graph"
	"github.com/dataflow-analyzer/dataflow-analyzer/state"
)

// CanFire reports whether actor a has enough tokens on every input
// port and enough reserved space on every output port to start a new
// firing at cfg. Shared by package deps (to build the "became
// fireable" differential) and package csdf (the start phase of the
// execution step), per spec.md §4.3/§4.4.
//
// Output space is always checked against cs.Space, which the owning
// csdf.Run/RunBounded call derives from its sp storage-distribution
// argument for every channel — graph.Channel.Bounded()/BufferSize is a
// separate, static declaration consulted by package sadf's own TPS
// construction, not by this engine; a channel that should behave as
// unconstrained under E is represented by a sufficiently large sp
// entry, not by skipping the check here.
func CanFire(g *graph.Graph, a *graph.Actor, cfg *state.Configuration) bool {
	phase := cfg.Actors[a.ID()].Phase
	for _, p := range a.Ports {
		ch := g.ChannelOf(p)
		if ch == nil {
			return false
		}
		cs := &cfg.Channels[ch.ID()]
		need := p.RateAt(phase)
		if p.Dir == graph.In {
			if cs.Tokens < need {
				return false
			}
		} else if cs.Space < need {
			return false
		}
	}
	return true
}
