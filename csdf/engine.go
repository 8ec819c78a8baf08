package csdf

import (
	"fmt"

	"github.com/dataflow-analyzer/dataflow-analyzer/analyzererr"
	"github.com/dataflow-analyzer/dataflow-analyzer/deps"
	"github.com/dataflow-analyzer/dataflow-analyzer/graph"
	"github.com/dataflow-analyzer/dataflow-analyzer/hashstack"
	"github.com/dataflow-analyzer/dataflow-analyzer/state"
)

// Run performs a self-timed execution of g under the per-channel
// storage distribution sp (indexed by channel id) with an unbounded
// hashed stack.
func Run(g *graph.Graph, sp []int) (*Result, error) {
	return RunBounded(g, sp, 0, 0)
}

// RunBounded is Run with explicit bounds on the recurrence-detection
// hashed stack, so callers (package buffer) can surface
// ResourceExhausted instead of growing without limit.
func RunBounded(g *graph.Graph, sp []int, maxStackSize, maxHashSize int) (*Result, error) {
	rep, err := g.RepetitionVector()
	if err != nil {
		return nil, err
	}
	output := designatedOutput(g, rep)

	cfg, err := initialConfiguration(g, sp)
	if err != nil {
		dep := make([]bool, g.NumChannels())
		for _, ch := range g.Channels {
			if sp[ch.ID()] < ch.InitialTokens {
				dep[ch.ID()] = true
			}
		}
		return &Result{Dep: dep}, err
	}

	hs := hashstack.New(maxStackSize, maxHashSize)
	var marks []iterMark
	var outputFiringsTotal, outputFiringsThisIter, totalClk int64

	for {
		prev := cfg.Clone()

		recurred, thr, stepErr := endPhase(g, cfg, output, rep[output.ID()], hs, &marks, &outputFiringsTotal, &outputFiringsThisIter, &totalClk)
		if stepErr != nil {
			return nil, stepErr
		}
		if recurred {
			res := deps.AnalyzeStep(g, prev, cfg)
			return &Result{Throughput: thr, Dep: res.Dep}, nil
		}

		startPhase(g, cfg)

		delta, ok := minRemaining(cfg)
		if !ok {
			res := deps.AnalyzeDeadlock(g, cfg)
			return &Result{Dep: res.Dep, Deadlock: true}, analyzererr.New(analyzererr.Deadlock, "maximal time step produced no firing")
		}
		advanceClock(cfg, delta)
		totalClk += delta
	}
}

func initialConfiguration(g *graph.Graph, sp []int) (*state.Configuration, error) {
	cfg := state.New(g.NumActors(), g.NumChannels())
	for _, ch := range g.Channels {
		if sp[ch.ID()] < ch.InitialTokens {
			return nil, analyzererr.New(analyzererr.InsufficientInitialSpace,
				fmt.Sprintf("channel %d: initial tokens %d exceed allotted storage %d", ch.ID(), ch.InitialTokens, sp[ch.ID()]))
		}
		cfg.Channels[ch.ID()] = state.ChannelState{
			Tokens: ch.InitialTokens,
			Space:  sp[ch.ID()] - ch.InitialTokens,
		}
	}
	return cfg, nil
}

// designatedOutput picks the actor with the smallest repetition count,
// ties broken by lowest id (spec.md §4.4).
func designatedOutput(g *graph.Graph, rep []int64) *graph.Actor {
	var best *graph.Actor
	for _, a := range g.Actors {
		if best == nil || rep[a.ID()] < rep[best.ID()] ||
			(rep[a.ID()] == rep[best.ID()] && a.ID() < best.ID()) {
			best = a
		}
	}
	return best
}

// endPhase pops every in-flight firing with zero remaining time, in
// actor-id order, releasing input-side space and producing output
// tokens per spec.md §4.4 step 2. It returns (true, throughput, nil)
// the instant the designated output actor completes its repCount-th
// firing of the current iteration and the resulting configuration
// matches one already on the hashed stack.
//
// cfg.GlbClk is the elapsed time *since the previous iteration
// boundary*, not an absolute clock: original_source's buffer.cc resets
// GLB_CLK to 0 at every NEXT_ITER, because equalStates compares it
// directly and an absolute, monotonically increasing clock could never
// recur. totalClk is this engine's own running absolute clock, kept
// outside the Configuration, used only to compute elapsed wall time
// for the throughput ratio once a recurrence is found.
func endPhase(g *graph.Graph, cfg *state.Configuration, output *graph.Actor, repCount int64,
	hs *hashstack.HashedStack, marks *[]iterMark, outputTotal, outputThisIter, totalClk *int64) (bool, float64, error) {

	for _, a := range g.Actors {
		as := &cfg.Actors[a.ID()]
		for len(as.Firings) > 0 && as.Firings[0].Remaining == 0 {
			f := as.Firings[0]
			as.Firings = as.Firings[1:]

			for _, p := range a.OutPorts() {
				ch := g.ChannelOf(p)
				cs := &cfg.Channels[ch.ID()]
				cs.Tokens += p.RateAt(f.Phase)
				cs.SrcRatePos = (cs.SrcRatePos + 1) % max1(p.NumPhases())
			}
			for _, p := range a.InPorts() {
				ch := g.ChannelOf(p)
				cs := &cfg.Channels[ch.ID()]
				cs.Space += p.RateAt(f.Phase)
			}

			if a.ID() != output.ID() {
				continue
			}
			*outputTotal++
			*outputThisIter++
			if *outputThisIter < repCount {
				continue
			}
			*outputThisIter = 0

			if pos := hs.Lookup(cfg); pos >= 0 {
				mark := (*marks)[pos]
				firings := *outputTotal - mark.outputFirings
				elapsed := *totalClk - mark.glbClk
				if elapsed <= 0 {
					return true, 0, nil
				}
				return true, float64(firings) / float64(elapsed), nil
			}
			snap := cfg.Clone()
			pos, err := hs.Push(snap)
			if err != nil {
				return false, 0, err
			}
			for len(*marks) <= pos {
				*marks = append(*marks, iterMark{})
			}
			(*marks)[pos] = iterMark{outputFirings: *outputTotal, glbClk: *totalClk}
			cfg.GlbClk = 0 // NEXT_ITER: relative clock resets at the iteration boundary
		}
	}
	return false, 0, nil
}

// startPhase attempts to begin a new firing on every actor for as
// long as it remains fireable, per spec.md §4.4 step 3.
func startPhase(g *graph.Graph, cfg *state.Configuration) {
	for _, a := range g.Actors {
		for deps.CanFire(g, a, cfg) {
			as := &cfg.Actors[a.ID()]
			phase := as.Phase
			numPhases := max1(a.NumPhases())

			for _, p := range a.InPorts() {
				ch := g.ChannelOf(p)
				cs := &cfg.Channels[ch.ID()]
				cs.Tokens -= p.RateAt(phase)
				cs.DstRatePos = (cs.DstRatePos + 1) % numPhases
			}
			for _, p := range a.OutPorts() {
				ch := g.ChannelOf(p)
				cs := &cfg.Channels[ch.ID()]
				cs.Space -= p.RateAt(phase)
			}

			execTime := 0
			if len(a.ExecTimes) > 0 {
				execTime = a.ExecTimes[as.ExecPos%len(a.ExecTimes)]
			}
			as.Firings = append(as.Firings, state.Firing{Remaining: execTime, Phase: phase})
			as.Normalize()

			as.Phase = (as.Phase + 1) % numPhases
			as.ExecPos = (as.ExecPos + 1) % numPhases
		}
	}
}

// minRemaining returns the smallest remaining time among all in-flight
// firings, or (0, false) if none exist (the deadlock condition of
// spec.md §4.4 step 4, Δ = +∞).
func minRemaining(cfg *state.Configuration) (int64, bool) {
	found := false
	var min int
	for _, as := range cfg.Actors {
		if len(as.Firings) == 0 {
			continue
		}
		r := as.Firings[0].Remaining
		if !found || r < min {
			min = r
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return int64(min), true
}

func advanceClock(cfg *state.Configuration, delta int64) {
	for i := range cfg.Actors {
		for j := range cfg.Actors[i].Firings {
			cfg.Actors[i].Firings[j].Remaining -= int(delta)
		}
	}
	cfg.GlbClk += delta
}

func max1(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}
