package sadf

import (
	"sort"
	"strconv"
	"strings"
)

// StepKind tags which of the five TPS transition kinds (spec.md §4.6)
// produced a transition.
type StepKind int

const (
	Control StepKind = iota
	Detect
	Start
	End
	Time
)

func (k StepKind) String() string {
	switch k {
	case Control:
		return "control"
	case Detect:
		return "detect"
	case Start:
		return "start"
	case End:
		return "end"
	case Time:
		return "time"
	default:
		return "unknown"
	}
}

// stage is a process's position within its local Control/Detect ->
// Start -> End cycle (spec.md §4.6's step-kind table).
type stage int

const (
	stageAwaitControl stage = iota // kernel only: waiting for a control tag
	stageAwaitDetect                // detector only: waiting to advance its chain
	stageReady                      // scenario/sub-scenario resolved, ready to Start
	stageRunning                    // mid-execution, counting down Remaining
)

// procState is one kernel or detector's local state within a
// Configuration. Scenario holds the kernel's active scenario name or
// the detector's active sub-scenario name, once resolved; MarkovAt is
// the detector's current Markov-chain state (kernels leave it empty).
type procState struct {
	Stage     stage
	Scenario  string
	MarkovAt  string
	Remaining int
}

// chanState is one channel's dynamic content within a Configuration.
// Tokens is available (unreserved) tokens; Reserved is production
// space claimed by a Start action but not yet written by the matching
// End action (original_source's reserve()/write() split, see
// DESIGN.md). Queue is populated only for control channels: the FIFO
// of scenario tags a detector's End action has written and a kernel's
// Control action consumes.
type chanState struct {
	Tokens   int
	Reserved int
	Queue    []string
}

// Configuration is one TPS node: the joint local state of every
// kernel/detector plus every channel's dynamic content (spec.md
// §4.6). Unlike state.Configuration (package state, the CSDF/SDF
// engine's notion), identity never includes an elapsed-clock field —
// SADF TPS recurrence is a function of local process/channel state
// alone, exactly original_source's SADF_Configuration::equal, which
// never compares a clock.
type Configuration struct {
	Procs    map[int]procState
	Channels map[int]chanState
}

func (c *Configuration) clone() *Configuration {
	out := &Configuration{
		Procs:    make(map[int]procState, len(c.Procs)),
		Channels: make(map[int]chanState, len(c.Channels)),
	}
	for id, p := range c.Procs {
		out.Procs[id] = p
	}
	for id, cs := range c.Channels {
		nc := chanState{Tokens: cs.Tokens, Reserved: cs.Reserved}
		if cs.Queue != nil {
			nc.Queue = append([]string(nil), cs.Queue...)
		}
		out.Channels[id] = nc
	}
	return out
}

// key returns a deterministic string identity for recurrence
// deduplication: sorted actor ids and channel ids with their full
// local state, so two Configurations with the same content always
// produce the same key regardless of map iteration order.
func (c *Configuration) key() string {
	var b strings.Builder

	procIDs := make([]int, 0, len(c.Procs))
	for id := range c.Procs {
		procIDs = append(procIDs, id)
	}
	sort.Ints(procIDs)
	for _, id := range procIDs {
		p := c.Procs[id]
		b.WriteString("p")
		b.WriteString(strconv.Itoa(id))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(int(p.Stage)))
		b.WriteByte(',')
		b.WriteString(p.Scenario)
		b.WriteByte(',')
		b.WriteString(p.MarkovAt)
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(p.Remaining))
		b.WriteByte(';')
	}

	chIDs := make([]int, 0, len(c.Channels))
	for id := range c.Channels {
		chIDs = append(chIDs, id)
	}
	sort.Ints(chIDs)
	for _, id := range chIDs {
		cs := c.Channels[id]
		b.WriteString("c")
		b.WriteString(strconv.Itoa(id))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(cs.Tokens))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(cs.Reserved))
		b.WriteByte(',')
		b.WriteString(strings.Join(cs.Queue, "."))
		b.WriteByte(';')
	}

	return b.String()
}

// Transition is one outgoing TPS edge (spec.md §4.6): Kind records
// which step produced it, Probability is its branch weight (1 for
// every deterministic Control/End/Time step), and Time is the clock
// ticks charged to taking it (nonzero only for Time steps). Actor is
// the id of the process whose action produced this edge, or -1 for a
// Time edge (no single process owns a pure time advance) — package
// tpsanalysis uses it to find the End edges of a specific kernel or
// detector when contracting inter-firing intervals.
type Transition struct {
	To          int
	Kind        StepKind
	Probability float64
	Time        int64
	Actor       int
}

// TPS is a fully expanded Timed Probabilistic System: Configs holds
// every reachable node and Transitions[i] holds Configs[i]'s outgoing
// edges, in the same order they were generated.
type TPS struct {
	Configs     []*Configuration
	Transitions [][]Transition

	indexOf  map[string]int
	expanded []bool
}

func newTPS() *TPS {
	return &TPS{indexOf: map[string]int{}}
}

// intern returns cfg's index, allocating a fresh one if this exact
// state has not been seen before.
func (t *TPS) intern(cfg *Configuration) int {
	k := cfg.key()
	if id, ok := t.indexOf[k]; ok {
		return id
	}
	id := len(t.Configs)
	t.Configs = append(t.Configs, cfg)
	t.Transitions = append(t.Transitions, nil)
	t.expanded = append(t.expanded, false)
	t.indexOf[k] = id
	return id
}
