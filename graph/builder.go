package graph

// Builder assembles a Graph incrementally. It is the "any builder that
// produces equivalent in-memory objects" collaborator named in
// spec.md §6 — the core never parses XML or YAML itself; package
// config is one concrete caller of this API.
type Builder struct {
	g         *Graph
	nextActor int
	nextChan  int
}

// NewBuilder starts an empty graph.
func NewBuilder() *Builder {
	return &Builder{
		g: &Graph{
			actorByID:   make(map[int]*Actor),
			channelByID: make(map[int]*Channel),
		},
	}
}

// AddActor registers a new actor and returns its id.
func (b *Builder) AddActor(name string, kind ActorKind) int {
	id := b.nextActor
	b.nextActor++
	a := &Actor{id: id, name: name, Kind: kind}
	b.g.Actors = append(b.g.Actors, a)
	b.g.actorByID[id] = a
	return id
}

// SetExecTimes sets a plain/kernel actor's CSDF execution-time
// sequence (ignored for SADF timing, which is set via AddScenario).
func (b *Builder) SetExecTimes(actorID int, execTimes []int) {
	a := b.g.actorByID[actorID]
	a.ExecTimes = append([]int(nil), execTimes...)
}

// AddPort adds a port with the given rate sequence to an actor and
// returns the port's id (unique within the actor's own port list index
// space, used by AddChannel).
func (b *Builder) AddPort(actorID int, dir Direction, rates []int) int {
	a := b.g.actorByID[actorID]
	p := &Port{
		id:        len(a.Ports),
		name:      portDefaultName(a, dir, len(a.Ports)),
		Dir:       dir,
		Rates:     append([]int(nil), rates...),
		Actor:     a,
		ChannelID: -1,
	}
	a.Ports = append(a.Ports, p)
	return p.id
}

func portDefaultName(a *Actor, dir Direction, idx int) string {
	if dir == In {
		return a.name + ".in" + itoa(idx)
	}
	return a.name + ".out" + itoa(idx)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// AddChannel connects an output port to an input port. initialTokens
// is the channel's initial token count; bufferSize, if non-nil, bounds
// the channel (nil means unbounded).
func (b *Builder) AddChannel(srcActor, srcPort, dstActor, dstPort int, initialTokens int, bufferSize *int, control bool) int {
	id := b.nextChan
	b.nextChan++
	sp := b.g.actorByID[srcActor].Ports[srcPort]
	dp := b.g.actorByID[dstActor].Ports[dstPort]
	ch := &Channel{
		id:            id,
		name:          "ch" + itoa(id),
		SrcPort:       sp,
		DstPort:       dp,
		InitialTokens: initialTokens,
		BufferSize:    bufferSize,
		Control:       control,
	}
	sp.ChannelID = id
	dp.ChannelID = id
	b.g.Channels = append(b.g.Channels, ch)
	b.g.channelByID[id] = ch
	return id
}

// AddScenario attaches a scenario (profile set) to a kernel actor.
func (b *Builder) AddScenario(actorID int, s *Scenario) {
	a := b.g.actorByID[actorID]
	if a.Scenarios == nil {
		a.Scenarios = make(map[string]*Scenario)
	}
	a.Scenarios[s.Name] = s
}

// AddSubScenario attaches a sub-scenario to a detector actor.
func (b *Builder) AddSubScenario(actorID int, s *SubScenario) {
	a := b.g.actorByID[actorID]
	if a.SubScenarios == nil {
		a.SubScenarios = make(map[string]*SubScenario)
	}
	a.SubScenarios[s.Name] = s
}

// AddMarkovChain attaches a scenario-keyed Markov chain to a detector.
func (b *Builder) AddMarkovChain(actorID int, scenario string, m *MarkovChain) {
	a := b.g.actorByID[actorID]
	if a.Markov == nil {
		a.Markov = make(map[string]*MarkovChain)
	}
	a.Markov[scenario] = m
}

// Build validates and returns the finished Graph.
func (b *Builder) Build() (*Graph, error) {
	if err := b.g.Validate(); err != nil {
		return nil, err
	}
	return b.g, nil
}
