package buffer

import (
	"sort"

	"github.com/dataflow-analyzer/dataflow-analyzer/analyzererr"
	"github.com/dataflow-analyzer/dataflow-analyzer/csdf"
	"github.com/dataflow-analyzer/dataflow-analyzer/graph"
)

// defaultMaxStackSize/defaultMaxHashSize bound each csdf.RunBounded
// call the explorer makes, so a single pathological distribution
// cannot exhaust memory without the explorer itself noticing and
// failing with ResourceExhausted (spec.md §4.5 "Failure modes").
const (
	defaultMaxStackSize = 1 << 20
	defaultMaxHashSize  = 1 << 20
)

// Explore runs ExploreBounded with this package's own default
// stack/hash bounds.
func Explore(g *graph.Graph, thrBound float64) ([]ParetoPoint, error) {
	return ExploreBounded(g, thrBound, defaultMaxStackSize, defaultMaxHashSize)
}

// ExploreBounded runs the Buffer Pareto Explorer (spec.md §4.5) over
// g, searching storage distributions from the minimal per-channel
// lower bounds upward until the measured throughput reaches thrBound
// (pass +Inf to explore the full front up to the graph's unconstrained
// throughput), bounding every csdf.RunBounded call it makes by
// maxStackSize/maxHashSize (package analyze threads its own Bounds
// through here). It returns the non-dominated (size, throughput)
// points in increasing size order.
func ExploreBounded(g *graph.Graph, thrBound float64, maxStackSize, maxHashSize int) ([]ParetoPoint, error) {
	nCh := g.NumChannels()
	minSz, minStep := minBounds(g)

	maxThr, err := unconstrainedThroughput(g, maxStackSize, maxHashSize)
	if err != nil {
		return nil, err
	}

	sets := newSetList()
	seed := append([]int(nil), minSz...)

	_, _, deadlocked, err := measure(g, seed, maxStackSize, maxHashSize)
	if err != nil {
		return nil, err
	}
	if deadlocked {
		// Degenerate case (spec.md §4.5): rewrite the seed to the
		// all-zero distribution, the unique minimal Pareto point at
		// throughput 0. "Zero" here means zero buffer beyond each
		// channel's own initial tokens — a distribution can never
		// legally go below that floor (csdf.RunBounded rejects it as
		// InsufficientInitialSpace), so this is the true minimum.
		seed = make([]int, nCh)
		for _, ch := range g.Channels {
			seed[ch.ID()] = ch.InitialTokens
		}
	}
	seedSize := sum(seed)
	s := sets.getOrCreate(seedSize)
	s.add(seed)

	var points []ParetoPoint

	for {
		s := sets.popSmallest()
		if s == nil {
			break
		}

		// Re-measure every distribution currently in the set (the
		// seed's measurement above already covers the very first
		// one, but re-running it is harmless and keeps the loop
		// uniform for every later insertion).
		var propose [][]int
		for _, idx := range s.liveIndices() {
			d := &s.arena[idx]
			thr, dep, dl, err := measure(g, d.Sizes, maxStackSize, maxHashSize)
			if err != nil {
				return nil, err
			}
			d.Thr = thr
			d.Dep = dep
			if thr > s.MaxThroughput {
				s.MaxThroughput = thr
			}
			if dl {
				continue
			}
			for c := 0; c < nCh; c++ {
				ch := g.Channel(c)
				if !dep[c] || ch.SelfEdge() {
					continue
				}
				next := append([]int(nil), d.Sizes...)
				next[c] += minStep[c]
				propose = append(propose, next)
			}
		}

		// Minimization (spec.md §4.5 step 4): if the previous set (by
		// size) made no improvement over this one, this whole set is
		// dominated and discarded; otherwise only the sub-threshold
		// distributions are discarded.
		prevThr, hasPrev := sets.prevThroughput(s.Size)
		if hasPrev && prevThr == s.MaxThroughput {
			for _, idx := range s.liveIndices() {
				s.remove(idx)
			}
		} else {
			for _, idx := range s.liveIndices() {
				if s.arena[idx].Thr < s.MaxThroughput {
					s.remove(idx)
				}
			}
		}

		for _, idx := range s.liveIndices() {
			d := s.arena[idx]
			points = append(points, ParetoPoint{
				Sizes:      d.Sizes,
				Size:       s.Size,
				Throughput: d.Thr,
			})
		}

		if s.MaxThroughput >= thrBound || s.MaxThroughput >= maxThr {
			break
		}

		for _, next := range propose {
			size := sum(next)
			target := sets.getOrCreate(size)
			if !target.hasVector(next) {
				target.add(next)
			}
		}
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Size < points[j].Size })
	return points, nil
}

func measure(g *graph.Graph, sizes []int, maxStackSize, maxHashSize int) (thr float64, dep []bool, deadlock bool, err error) {
	res, err := csdf.RunBounded(g, sizes, maxStackSize, maxHashSize)
	if err != nil {
		if ae, ok := err.(*analyzererr.Error); ok {
			switch ae.Kind {
			case analyzererr.Deadlock:
				return 0, res.Dep, true, nil
			case analyzererr.ResourceExhausted:
				return 0, nil, false, err
			}
		}
		return 0, nil, false, err
	}
	return res.Throughput, res.Dep, false, nil
}

// unconstrainedThroughput measures throughput with every channel
// given effectively infinite storage, computed once upfront per
// spec.md §4.5 step 5's termination condition.
func unconstrainedThroughput(g *graph.Graph, maxStackSize, maxHashSize int) (float64, error) {
	sizes := make([]int, g.NumChannels())
	for _, ch := range g.Channels {
		sizes[ch.ID()] = unboundedProxy(g, ch)
	}
	res, err := csdf.RunBounded(g, sizes, maxStackSize, maxHashSize)
	if err != nil {
		if ae, ok := err.(*analyzererr.Error); ok && ae.Kind == analyzererr.Deadlock {
			return 0, nil
		}
		return 0, err
	}
	return res.Throughput, nil
}

// unboundedProxy stands in for "infinite" storage on a channel: a
// size large enough that the channel can never become the binding
// storage dependency within this graph's own token-rate scale.
func unboundedProxy(g *graph.Graph, ch *graph.Channel) int {
	const slack = 1 << 20
	total := ch.InitialTokens
	for _, r := range ch.SrcPort.Rates {
		total += r
	}
	for _, r := range ch.DstPort.Rates {
		total += r
	}
	return total*slack + slack
}

func sum(v []int) int {
	t := 0
	for _, x := range v {
		t += x
	}
	return t
}

// minBounds computes, per channel, the SDFG-style minimal buffer size
// and the minimal growth step (spec.md §4.5 step 1).
func minBounds(g *graph.Graph) (minSz, minStep []int) {
	n := g.NumChannels()
	minSz = make([]int, n)
	minStep = make([]int, n)
	for _, ch := range g.Channels {
		p := sumRates(ch.SrcPort.Rates)
		c := sumRates(ch.DstPort.Rates)
		t := ch.InitialTokens

		if ch.SelfEdge() {
			sz := p + max(c, t)
			minSz[ch.ID()] = max(sz, t)
		} else {
			d := gcdInt(p, c)
			sz := p + c - d + t%d
			minSz[ch.ID()] = max(sz, t)
		}

		minStep[ch.ID()] = gcdAll(append(append([]int(nil), ch.SrcPort.Rates...), ch.DstPort.Rates...))
	}
	return minSz, minStep
}

func sumRates(rates []int) int {
	s := 0
	for _, r := range rates {
		s += r
	}
	return s
}

func gcdInt(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func gcdAll(vals []int) int {
	g := 0
	for _, v := range vals {
		if v < 0 {
			v = -v
		}
		g = gcdInt(g, v)
	}
	if g == 0 {
		return 1
	}
	return g
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
