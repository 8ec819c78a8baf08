package sadf

import (
	"fmt"
	"sort"

	"github.com/dataflow-analyzer/dataflow-analyzer/analyzererr"
	"github.com/dataflow-analyzer/dataflow-analyzer/graph"
)

// Build constructs the full (unresolved) ASAP TPS rooted at g's
// initial configuration, expanding at most maxConfigs nodes (0 means
// unbounded) before failing with ResourceExhausted. Mirrors
// original_source's SADF_ProgressTPS_ASAP: from a source
// configuration, every ready kernel/detector contributes its own
// outgoing edge(s) independently — one micro-step per edge, never a
// combined product of several processes' actions — and a Time step is
// generated only when no process has any action enabled. When more
// than one process is simultaneously ready this yields a genuine
// Markov Decision Process (a configuration's outgoing edges need not
// sum to 1, since each ready process's contribution is an alternative,
// not a joint probability) — use BuildResolved for a proper Markov
// chain suitable for package tpsanalysis's equilibrium solver.
func Build(g *graph.Graph, maxConfigs int) (*TPS, error) {
	return build(g, maxConfigs, expand)
}

// BuildResolved constructs the resolved ASAP TPS: original_source's
// SADF_ProgressTPS_ASAP_Resolved forces a single deterministic
// schedule by running only the first ready action found in the fixed
// precedence order (Control over kernels, then Detect over detectors,
// then Start over all processes, then End over all processes, each
// group scanned in ascending actor id), still branching over that one
// action's own probabilities (a Detect or Start). Every configuration
// it produces therefore has outgoing edges that sum to exactly 1,
// which is what a stationary-distribution computation requires.
func BuildResolved(g *graph.Graph, maxConfigs int) (*TPS, error) {
	return build(g, maxConfigs, expandResolved)
}

type expandFunc func(g *graph.Graph, procs []*process, cfg *Configuration) ([]succ, error)

func build(g *graph.Graph, maxConfigs int, expandWith expandFunc) (*TPS, error) {
	procs, err := collectProcesses(g)
	if err != nil {
		return nil, err
	}

	init, err := initialConfiguration(g, procs)
	if err != nil {
		return nil, err
	}

	t := newTPS()
	root := t.intern(init)

	work := []int{root}
	for len(work) > 0 {
		id := work[len(work)-1]
		work = work[:len(work)-1]
		if t.expanded[id] {
			continue
		}
		t.expanded[id] = true

		if maxConfigs > 0 && len(t.Configs) > maxConfigs {
			return nil, analyzererr.New(analyzererr.ResourceExhausted,
				"sadf: TPS exceeded configuration budget")
		}

		succs, err := expandWith(g, procs, t.Configs[id])
		if err != nil {
			return nil, err
		}
		edges := make([]Transition, 0, len(succs))
		for _, s := range succs {
			to := t.intern(s.cfg)
			edges = append(edges, Transition{To: to, Kind: s.kind, Probability: s.prob, Time: s.time, Actor: s.actor})
			if !t.expanded[to] {
				work = append(work, to)
			}
		}
		t.Transitions[id] = edges
	}
	return t, nil
}

// expandResolved applies the fixed precedence scan and returns only
// the first ready process's action (see BuildResolved), or the Time
// fallback if nothing is ready.
func expandResolved(g *graph.Graph, procs []*process, cfg *Configuration) ([]succ, error) {
	for _, pr := range procs {
		if pr.actor.Kind == graph.KindKernel && readyToControl(cfg, pr) {
			return []succ{controlStep(cfg, pr)}, nil
		}
	}
	for _, pr := range procs {
		if pr.actor.Kind == graph.KindDetector && readyToDetect(cfg, pr) {
			return detectStep(cfg, pr)
		}
	}
	for _, pr := range procs {
		if readyToStart(g, cfg, pr) {
			return startStep(g, cfg, pr)
		}
	}
	for _, pr := range procs {
		if readyToEnd(cfg, pr) {
			return []succ{endStep(g, cfg, pr)}, nil
		}
	}

	delta, ok := minRemaining(cfg)
	if !ok {
		return nil, analyzererr.New(analyzererr.Deadlock, "sadf: no action enabled and no process has finite remaining time")
	}
	next := cfg.clone()
	for id, p := range next.Procs {
		if p.Stage == stageRunning {
			p.Remaining -= int(delta)
			next.Procs[id] = p
		}
	}
	return []succ{{cfg: next, kind: Time, prob: 1, time: delta, actor: -1}}, nil
}

// process is a kernel or detector together with the single control
// channel and (for detectors) the single Markov chain this package's
// scope requires (see doc.go).
type process struct {
	actor   *graph.Actor
	control *graph.Channel // in for kernels, out for detectors
	chain   *graph.MarkovChain
}

func collectProcesses(g *graph.Graph) ([]*process, error) {
	var procs []*process
	for _, a := range g.Actors {
		if a.Kind == graph.KindPlain {
			continue
		}
		var control *graph.Channel
		for _, p := range a.Ports {
			ch := g.ChannelOf(p)
			if ch != nil && ch.Control {
				if control != nil {
					return nil, analyzererr.New(analyzererr.UnsupportedTopology,
						fmt.Sprintf("actor %q: more than one control channel is unsupported", a.Name()))
				}
				control = ch
			}
		}
		if control == nil {
			return nil, analyzererr.New(analyzererr.UnsupportedTopology,
				fmt.Sprintf("actor %q: a kernel/detector needs exactly one control channel", a.Name()))
		}

		pr := &process{actor: a, control: control}
		if a.Kind == graph.KindDetector {
			if len(a.Markov) != 1 {
				return nil, analyzererr.New(analyzererr.UnsupportedTopology,
					fmt.Sprintf("detector %q: needs exactly one Markov chain", a.Name()))
			}
			for _, mc := range a.Markov {
				pr.chain = mc
			}
		}
		procs = append(procs, pr)
	}
	sort.Slice(procs, func(i, j int) bool { return procs[i].actor.ID() < procs[j].actor.ID() })
	return procs, nil
}

func initialConfiguration(g *graph.Graph, procs []*process) (*Configuration, error) {
	cfg := &Configuration{Procs: map[int]procState{}, Channels: map[int]chanState{}}

	for _, ch := range g.Channels {
		cs := chanState{Tokens: ch.InitialTokens}
		if ch.Control {
			cs.Queue = append([]string(nil), ch.ControlFIFO...)
			cs.Tokens = len(cs.Queue)
		}
		cfg.Channels[ch.ID()] = cs
	}

	for _, pr := range procs {
		switch pr.actor.Kind {
		case graph.KindKernel:
			cfg.Procs[pr.actor.ID()] = procState{Stage: stageAwaitControl}
		case graph.KindDetector:
			cfg.Procs[pr.actor.ID()] = procState{Stage: stageAwaitDetect, MarkovAt: pr.chain.Initial}
		}
	}
	return cfg, nil
}

// succ is one candidate successor produced while expanding a single
// source configuration.
type succ struct {
	cfg   *Configuration
	kind  StepKind
	prob  float64
	time  int64
	actor int
}

// expand generates every successor of cfg: one edge per enabled
// action of every process (control, then detect, then start, then
// end, in that order across all processes — spec.md §4.6's listed
// step kinds), or, if nothing is enabled, a single Time edge.
func expand(g *graph.Graph, procs []*process, cfg *Configuration) ([]succ, error) {
	var out []succ

	for _, pr := range procs {
		if pr.actor.Kind == graph.KindKernel && readyToControl(cfg, pr) {
			out = append(out, controlStep(cfg, pr))
		}
	}
	for _, pr := range procs {
		if pr.actor.Kind == graph.KindDetector && readyToDetect(cfg, pr) {
			s, err := detectStep(cfg, pr)
			if err != nil {
				return nil, err
			}
			out = append(out, s...)
		}
	}
	for _, pr := range procs {
		if readyToStart(g, cfg, pr) {
			s, err := startStep(g, cfg, pr)
			if err != nil {
				return nil, err
			}
			out = append(out, s...)
		}
	}
	for _, pr := range procs {
		if readyToEnd(cfg, pr) {
			out = append(out, endStep(g, cfg, pr))
		}
	}

	if len(out) > 0 {
		return out, nil
	}

	delta, ok := minRemaining(cfg)
	if !ok {
		return nil, analyzererr.New(analyzererr.Deadlock, "sadf: no action enabled and no process has finite remaining time")
	}
	next := cfg.clone()
	for id, p := range next.Procs {
		if p.Stage == stageRunning {
			p.Remaining -= int(delta)
			next.Procs[id] = p
		}
	}
	return []succ{{cfg: next, kind: Time, prob: 1, time: delta, actor: -1}}, nil
}

func minRemaining(cfg *Configuration) (int64, bool) {
	found := false
	min := 0
	for _, p := range cfg.Procs {
		if p.Stage != stageRunning {
			continue
		}
		if !found || p.Remaining < min {
			min = p.Remaining
			found = true
		}
	}
	return int64(min), found
}

// readyToControl: a kernel awaiting control with at least one queued
// tag (spec.md §4.6 Control row).
func readyToControl(cfg *Configuration, pr *process) bool {
	p := cfg.Procs[pr.actor.ID()]
	if p.Stage != stageAwaitControl {
		return false
	}
	return len(cfg.Channels[pr.control.ID()].Queue) > 0
}

// controlStep deterministically peeks (this package's scope: and
// immediately dequeues, see DESIGN.md) the front control tag and
// resolves the kernel's active scenario.
func controlStep(cfg *Configuration, pr *process) succ {
	next := cfg.clone()
	cs := next.Channels[pr.control.ID()]
	tag := cs.Queue[0]
	cs.Queue = cs.Queue[1:]
	cs.Tokens = len(cs.Queue)
	next.Channels[pr.control.ID()] = cs

	p := next.Procs[pr.actor.ID()]
	p.Stage = stageReady
	p.Scenario = tag
	next.Procs[pr.actor.ID()] = p

	return succ{cfg: next, kind: Control, prob: 1, actor: pr.actor.ID()}
}

// readyToDetect: a detector awaiting detection (spec.md §4.6 Detect
// row: "detector at end-state with controls ready" — in this
// package's single-chain scope, controls are always ready once the
// detector has completed its previous firing).
func readyToDetect(cfg *Configuration, pr *process) bool {
	return cfg.Procs[pr.actor.ID()].Stage == stageAwaitDetect
}

// detectStep branches probabilistically over the detector's Markov
// chain successors, each destination resolving a new sub-scenario.
func detectStep(cfg *Configuration, pr *process) ([]succ, error) {
	p := cfg.Procs[pr.actor.ID()]
	successors := pr.chain.Successors(p.MarkovAt)
	if len(successors) == 0 {
		return nil, analyzererr.New(analyzererr.UnsupportedTopology,
			fmt.Sprintf("detector %q: Markov state %q has no outgoing transitions", pr.actor.Name(), p.MarkovAt))
	}

	out := make([]succ, 0, len(successors))
	for _, tr := range successors {
		next := cfg.clone()
		np := next.Procs[pr.actor.ID()]
		np.Stage = stageReady
		np.MarkovAt = tr.To
		np.Scenario = tr.To
		next.Procs[pr.actor.ID()] = np
		out = append(out, succ{cfg: next, kind: Detect, prob: tr.Probability, actor: pr.actor.ID()})
	}
	return out, nil
}

// readyToStart: process at a control/detect-resolved state with
// enough input tokens and output space for its active scenario
// (spec.md §4.6 Start row).
func readyToStart(g *graph.Graph, cfg *Configuration, pr *process) bool {
	p := cfg.Procs[pr.actor.ID()]
	if p.Stage != stageReady {
		return false
	}
	profiles, ok := profilesFor(pr, p.Scenario)
	if !ok {
		return false
	}
	if len(profiles) == 0 {
		return false
	}
	for _, port := range pr.actor.InPorts() {
		ch := g.ChannelOf(port)
		if ch.Control {
			continue
		}
		if cfg.Channels[ch.ID()].Tokens < port.RateAt(0) {
			return false
		}
	}
	for _, port := range pr.actor.OutPorts() {
		ch := g.ChannelOf(port)
		if ch.Control {
			continue
		}
		if !ch.Bounded() {
			continue
		}
		cs := cfg.Channels[ch.ID()]
		if cs.Tokens+cs.Reserved+port.RateAt(0) > *ch.BufferSize {
			return false
		}
	}
	return true
}

func profilesFor(pr *process, scenario string) ([]graph.Profile, bool) {
	if pr.actor.Kind == graph.KindKernel {
		s, ok := pr.actor.Scenarios[scenario]
		if !ok {
			return nil, false
		}
		return s.Profiles, true
	}
	s, ok := pr.actor.SubScenarios[scenario]
	if !ok {
		return nil, false
	}
	return s.Profiles, true
}

// startStep branches probabilistically over the active scenario's
// profiles, reserving output-side production space for each
// (original_source reserves only on Start; input tokens are removed
// only at End, see DESIGN.md).
func startStep(g *graph.Graph, cfg *Configuration, pr *process) ([]succ, error) {
	p := cfg.Procs[pr.actor.ID()]
	profiles, _ := profilesFor(pr, p.Scenario)

	var total float64
	for _, pf := range profiles {
		total += pf.Weight
	}
	if total <= 0 {
		return nil, analyzererr.New(analyzererr.UnsupportedTopology,
			fmt.Sprintf("actor %q: scenario %q has no positive-weight profile", pr.actor.Name(), p.Scenario))
	}

	out := make([]succ, 0, len(profiles))
	for _, pf := range profiles {
		next := cfg.clone()
		for _, port := range pr.actor.OutPorts() {
			ch := g.ChannelOf(port)
			if ch.Control {
				continue
			}
			cs := next.Channels[ch.ID()]
			cs.Reserved += port.RateAt(0)
			next.Channels[ch.ID()] = cs
		}
		np := next.Procs[pr.actor.ID()]
		np.Stage = stageRunning
		np.Remaining = pf.ExecTime
		next.Procs[pr.actor.ID()] = np
		out = append(out, succ{cfg: next, kind: Start, prob: pf.Weight / total, actor: pr.actor.ID()})
	}
	return out, nil
}

// readyToEnd: a running process whose remaining execution time has
// reached zero (spec.md §4.6 End row).
func readyToEnd(cfg *Configuration, pr *process) bool {
	p := cfg.Procs[pr.actor.ID()]
	return p.Stage == stageRunning && p.Remaining <= 0
}

// endStep resynchronizes a kernel's control-channel token count with
// its queue (the kernel's control tag was already dequeued by
// controlStep), consumes input tokens, produces output tokens, and — for a detector
// — writes its resolved sub-scenario name onto its control output
// queue so the controlled kernel can later peek it.
func endStep(g *graph.Graph, cfg *Configuration, pr *process) succ {
	next := cfg.clone()
	p := next.Procs[pr.actor.ID()]
	scenario := p.Scenario

	if pr.actor.Kind == graph.KindKernel {
		cs := next.Channels[pr.control.ID()]
		cs.Tokens = len(cs.Queue)
		next.Channels[pr.control.ID()] = cs
	}

	for _, port := range pr.actor.InPorts() {
		ch := g.ChannelOf(port)
		if ch.Control {
			continue
		}
		cs := next.Channels[ch.ID()]
		cs.Tokens -= port.RateAt(0)
		next.Channels[ch.ID()] = cs
	}
	for _, port := range pr.actor.OutPorts() {
		ch := g.ChannelOf(port)
		if ch.Control {
			continue
		}
		cs := next.Channels[ch.ID()]
		rate := port.RateAt(0)
		cs.Tokens += rate
		cs.Reserved -= rate
		next.Channels[ch.ID()] = cs
	}

	if pr.actor.Kind == graph.KindDetector {
		cs := next.Channels[pr.control.ID()]
		cs.Queue = append(cs.Queue, scenario)
		cs.Tokens = len(cs.Queue)
		next.Channels[pr.control.ID()] = cs
	}

	np := next.Procs[pr.actor.ID()]
	np.Remaining = 0
	if pr.actor.Kind == graph.KindKernel {
		np.Stage = stageAwaitControl
		np.Scenario = ""
	} else {
		np.Stage = stageAwaitDetect
	}
	next.Procs[pr.actor.ID()] = np

	return succ{cfg: next, kind: End, prob: 1, actor: pr.actor.ID()}
}
