package state

import "sort"

// Firing is one in-flight actor firing: the execution time remaining
// before it ends, and the phase at which it began (needed to pick the
// right output-rate sequence entry when it ends).
type Firing struct {
	Remaining int
	Phase     int
}

// ActorState is the per-actor slice of a Configuration: its current
// phase and execution-time-sequence cursors, plus its ordered
// multiset of in-flight firings (spec.md §3). Firings is kept sorted
// by (Remaining, Phase) so that two configurations with the same
// multiset of firings compare and hash identically regardless of
// start order — the spec makes no claim about in-flight firing order
// being observable beyond the multiset itself.
type ActorState struct {
	Phase   int
	ExecPos int
	Firings []Firing
}

// Clone returns a deep copy of a.
func (a ActorState) Clone() ActorState {
	out := ActorState{Phase: a.Phase, ExecPos: a.ExecPos}
	if len(a.Firings) > 0 {
		out.Firings = append([]Firing(nil), a.Firings...)
	}
	return out
}

// Normalize sorts Firings into canonical order. Call after mutating
// Firings directly (the csdf engine calls it after each firing it
// inserts in its start phase).
func (a *ActorState) Normalize() {
	sort.Slice(a.Firings, func(i, j int) bool {
		if a.Firings[i].Remaining != a.Firings[j].Remaining {
			return a.Firings[i].Remaining < a.Firings[j].Remaining
		}
		return a.Firings[i].Phase < a.Firings[j].Phase
	})
}

// ChannelState is the per-channel slice of a Configuration: available
// tokens, reserved-but-unused space, and the current rate-sequence
// cursor on each side (source and destination rate sequences may have
// different lengths, spec.md §3). Space is always derived from the
// owning csdf.Run/RunBounded call's per-channel storage-distribution
// argument, regardless of graph.Channel.Bounded() (a separate, static
// declaration consulted by package sadf, not by package csdf).
type ChannelState struct {
	Tokens     int
	Space      int
	SrcRatePos int
	DstRatePos int
}

// Configuration is a complete snapshot of one observable instant of a
// running graph (spec.md §3). GlbClk is relative: ticks elapsed since
// the last iteration boundary, reset to 0 there by the owning engine
// (mirrors original_source's GLB_CLK/NEXT_ITER — see package csdf),
// not an absolute wall clock. An absolute clock could never recur, so
// comparing it directly in Equal would defeat recurrence detection.
type Configuration struct {
	GlbClk   int64
	Actors   []ActorState
	Channels []ChannelState
}

// New allocates a zero Configuration sized for nActors actors and
// nChannels channels.
func New(nActors, nChannels int) *Configuration {
	return &Configuration{
		Actors:   make([]ActorState, nActors),
		Channels: make([]ChannelState, nChannels),
	}
}

// Clone returns a deep, independent copy of c.
func (c *Configuration) Clone() *Configuration {
	out := &Configuration{
		GlbClk:   c.GlbClk,
		Actors:   make([]ActorState, len(c.Actors)),
		Channels: make([]ChannelState, len(c.Channels)),
	}
	for i, a := range c.Actors {
		out.Actors[i] = a.Clone()
	}
	copy(out.Channels, c.Channels)
	return out
}

// Equal reports whether c and other are the same observable
// configuration: relative clock (GlbClk, see its doc comment), every
// channel's token/space counts, every actor's phase positions, every
// actor's in-flight-firing vector, and every channel's rate-position
// pair, in that order (spec.md §4.2).
func (c *Configuration) Equal(other *Configuration) bool {
	if other == nil {
		return false
	}
	if c.GlbClk != other.GlbClk {
		return false
	}
	if len(c.Channels) != len(other.Channels) || len(c.Actors) != len(other.Actors) {
		return false
	}
	for i := range c.Channels {
		if c.Channels[i].Tokens != other.Channels[i].Tokens || c.Channels[i].Space != other.Channels[i].Space {
			return false
		}
	}
	for i := range c.Actors {
		if c.Actors[i].Phase != other.Actors[i].Phase || c.Actors[i].ExecPos != other.Actors[i].ExecPos {
			return false
		}
	}
	for i := range c.Actors {
		if len(c.Actors[i].Firings) != len(other.Actors[i].Firings) {
			return false
		}
		for j := range c.Actors[i].Firings {
			if c.Actors[i].Firings[j] != other.Actors[i].Firings[j] {
				return false
			}
		}
	}
	for i := range c.Channels {
		if c.Channels[i].SrcRatePos != other.Channels[i].SrcRatePos || c.Channels[i].DstRatePos != other.Channels[i].DstRatePos {
			return false
		}
	}
	return true
}
