package buffer

// Distribution is one storage-distribution point inside a
// DistributionSet: the per-channel buffer sizes, the dependency
// bitset and throughput measured by the last csdf.Run over it, and
// its position in the owning set's intrusive doubly-linked list.
//
// prev/next are arena indices, -1 meaning "no neighbor" — the
// index-based re-architecture of the source analyzer's raw-pointer
// list (DESIGN.md "pointer graphs"): the owning DistributionSet has
// exclusive ownership of the arena, so removal is an O(1) relink with
// no aliasing concern.
type Distribution struct {
	Sizes []int
	Dep   []bool
	Thr   float64

	prev, next int
	live       bool
}

// DistributionSet holds every distribution of one particular total
// storage size (spec.md §4.5), plus the best throughput measured
// among them so far.
type DistributionSet struct {
	Size          int
	MaxThroughput float64

	arena      []Distribution
	head, tail int // arena indices, -1 when empty
	count      int
}

func newDistributionSet(size int) *DistributionSet {
	return &DistributionSet{Size: size, head: -1, tail: -1}
}

// add appends a new distribution (sizes cloned) to the set's arena and
// links it at the tail. Returns its arena index.
func (s *DistributionSet) add(sizes []int) int {
	d := Distribution{
		Sizes: append([]int(nil), sizes...),
		prev:  s.tail,
		next:  -1,
		live:  true,
	}
	idx := len(s.arena)
	s.arena = append(s.arena, d)
	if s.tail >= 0 {
		s.arena[s.tail].next = idx
	} else {
		s.head = idx
	}
	s.tail = idx
	s.count++
	return idx
}

// remove unlinks idx from the list in place, without moving any other
// arena entry (so previously captured indices stay valid).
func (s *DistributionSet) remove(idx int) {
	d := &s.arena[idx]
	if !d.live {
		return
	}
	d.live = false
	if d.prev >= 0 {
		s.arena[d.prev].next = d.next
	} else {
		s.head = d.next
	}
	if d.next >= 0 {
		s.arena[d.next].prev = d.prev
	} else {
		s.tail = d.prev
	}
	s.count--
}

// hasVector reports whether some live distribution in the set already
// has the exact sizes vector (spec.md §4.5 step 3's "deduplicating by
// vector equality").
func (s *DistributionSet) hasVector(sizes []int) bool {
	for idx := s.head; idx != -1; idx = s.arena[idx].next {
		if intSliceEqual(s.arena[idx].Sizes, sizes) {
			return true
		}
	}
	return false
}

// liveIndices yields the arena indices of every currently-live
// distribution, snapshotted up front so callers may safely remove
// entries while iterating the returned slice.
func (s *DistributionSet) liveIndices() []int {
	out := make([]int, 0, s.count)
	for idx := s.head; idx != -1; idx = s.arena[idx].next {
		out = append(out, idx)
	}
	return out
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ParetoPoint is one non-dominated (total storage size, throughput)
// point returned by Explore, together with the per-channel sizes that
// achieve it.
type ParetoPoint struct {
	Sizes      []int
	Size       int
	Throughput float64
}
