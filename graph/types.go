package graph

// Identifiable is implemented by every named, identity-bearing graph
// component (Actor, Port, Channel). Per DESIGN.md, this replaces the
// source analyzer's Component -> Actor/Port/Channel/Graph class
// hierarchy with a plain interface over plain records.
type Identifiable interface {
	ID() int
	Name() string
}

// Direction is a port's data direction.
type Direction int

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == In {
		return "in"
	}
	return "out"
}

// ActorKind tags an actor's role. Kernels and detectors are
// SADF-specific; a plain actor is a CSDF/SDF actor with no scenario
// machinery. This is a tagged variant, not a subclass (DESIGN.md).
type ActorKind int

const (
	KindPlain ActorKind = iota
	KindKernel
	KindDetector
)

func (k ActorKind) String() string {
	switch k {
	case KindKernel:
		return "kernel"
	case KindDetector:
		return "detector"
	default:
		return "plain"
	}
}

// Port is an actor's input or output terminal. Rates is the rate
// sequence: for SDF actors it has length 1; for CSDF actors it is
// indexed cyclically by the actor's current phase.
type Port struct {
	id        int
	name      string
	Dir       Direction
	Rates     []int
	Actor     *Actor
	ChannelID int // id of the one channel this port connects to, or -1
}

func (p *Port) ID() int       { return p.id }
func (p *Port) Name() string  { return p.name }
func (p *Port) NumPhases() int { return len(p.Rates) }

// RateAt returns the rate at the given phase, indexed cyclically.
func (p *Port) RateAt(phase int) int {
	return p.Rates[phase%len(p.Rates)]
}

// Actor is a computational node: a plain CSDF actor, or an SADF kernel
// or detector. CSDF timing lives in ExecTimes (one entry per phase, same
// length as the port rate sequences). SADF timing lives in Scenarios
// (kernel) / SubScenarios+Markov (detector); see scenario.go.
type Actor struct {
	id   int
	name string
	Kind ActorKind

	Ports []*Port

	// CSDF timing: execution-time sequence, one entry per phase.
	ExecTimes []int

	// SADF timing, populated only when Kind != KindPlain.
	Scenarios    map[string]*Scenario    // kernel: scenario name -> profile set
	SubScenarios map[string]*SubScenario // detector: sub-scenario name -> data
	Markov       map[string]*MarkovChain // detector: scenario name -> chain over its sub-scenarios

	// phase/exec-time sequence cursors, reset per analysis run by the
	// engine that owns the Configuration; not touched by the static
	// graph model itself.
}

func (a *Actor) ID() int       { return a.id }
func (a *Actor) Name() string  { return a.name }

// NumPhases returns the CSDF phase count (length of ExecTimes / every
// port's rate sequence). Zero for an actor with neither ExecTimes nor
// ports.
func (a *Actor) NumPhases() int {
	if len(a.ExecTimes) > 0 {
		return len(a.ExecTimes)
	}
	for _, p := range a.Ports {
		return p.NumPhases()
	}
	return 0
}

func (a *Actor) InPorts() []*Port {
	var out []*Port
	for _, p := range a.Ports {
		if p.Dir == In {
			out = append(out, p)
		}
	}
	return out
}

func (a *Actor) OutPorts() []*Port {
	var out []*Port
	for _, p := range a.Ports {
		if p.Dir == Out {
			out = append(out, p)
		}
	}
	return out
}

// Channel connects an output port to an input port, optionally with a
// finite buffer. Control channels additionally carry a FIFO of
// scenario tags (consumed by kernels, produced by detectors).
type Channel struct {
	id            int
	name          string
	SrcPort       *Port
	DstPort       *Port
	InitialTokens int
	BufferSize    *int // nil means unbounded
	Control       bool
	ControlFIFO   []string // only meaningful when Control is true
}

func (c *Channel) ID() int      { return c.id }
func (c *Channel) Name() string { return c.name }

// Bounded reports whether the channel has a finite buffer.
func (c *Channel) Bounded() bool { return c.BufferSize != nil }

// SelfEdge reports whether this channel connects an actor to itself.
func (c *Channel) SelfEdge() bool {
	return c.SrcPort != nil && c.DstPort != nil && c.SrcPort.Actor == c.DstPort.Actor
}

// Graph is the directed multigraph of actors and channels (spec.md §3).
type Graph struct {
	Actors   []*Actor
	Channels []*Channel

	actorByID   map[int]*Actor
	channelByID map[int]*Channel
}

// NumActors returns the number of actors in the graph.
func (g *Graph) NumActors() int { return len(g.Actors) }

// NumChannels returns the number of channels in the graph.
func (g *Graph) NumChannels() int { return len(g.Channels) }

// Actor looks up an actor by id.
func (g *Graph) Actor(id int) *Actor { return g.actorByID[id] }

// Channel looks up a channel by id.
func (g *Graph) Channel(id int) *Channel { return g.channelByID[id] }

// Validate checks the invariant that every port connects to exactly one
// channel.
func (g *Graph) Validate() error {
	connected := make(map[*Port]bool)
	for _, ch := range g.Channels {
		if ch.SrcPort != nil {
			connected[ch.SrcPort] = true
		}
		if ch.DstPort != nil {
			connected[ch.DstPort] = true
		}
	}
	for _, a := range g.Actors {
		for _, p := range a.Ports {
			if !connected[p] {
				return ErrPortDisconnected
			}
		}
		if len(a.ExecTimes) > 0 {
			n := len(a.ExecTimes)
			for _, p := range a.Ports {
				if p.NumPhases() != n {
					return ErrPhaseLengthMismatch
				}
			}
		}
	}
	return nil
}

// ChannelOf returns the channel a port is attached to, or nil.
func (g *Graph) ChannelOf(p *Port) *Channel {
	if p == nil || p.ChannelID < 0 {
		return nil
	}
	return g.channelByID[p.ChannelID]
}
