package buffer

import "sort"

// setList is the persistent, size-ordered list of DistributionSets
// (spec.md §4.5's "doubly-linked list of DistributionSets sorted by
// total storage size"). Sets are never removed once created — even a
// fully-minimized, empty set stays present so a later, larger set can
// still look up its MaxThroughput as "S.prev" — only individual
// distributions are discarded. pending tracks which sizes have not
// yet been popped for processing.
type setList struct {
	all     []*DistributionSet // sorted ascending by Size
	pending map[int]bool
}

func newSetList() *setList {
	return &setList{pending: make(map[int]bool)}
}

// getOrCreate returns the set for the given total size, creating and
// inserting it in sorted position if it does not yet exist. A newly
// proposed distribution's size is always strictly greater than every
// already-popped set's size (minStep is always positive and only
// applied to the set currently being processed), so this never needs
// to reopen a set that has already been popped.
func (l *setList) getOrCreate(size int) *DistributionSet {
	i := sort.Search(len(l.all), func(i int) bool { return l.all[i].Size >= size })
	if i < len(l.all) && l.all[i].Size == size {
		return l.all[i]
	}
	s := newDistributionSet(size)
	l.all = append(l.all, nil)
	copy(l.all[i+1:], l.all[i:])
	l.all[i] = s
	l.pending[size] = true
	return s
}

// popSmallest returns the smallest-size set that has not yet been
// processed, or nil if none remain.
func (l *setList) popSmallest() *DistributionSet {
	for _, s := range l.all {
		if l.pending[s.Size] {
			delete(l.pending, s.Size)
			return s
		}
	}
	return nil
}

// prevThroughput returns the MaxThroughput of the set immediately
// preceding (by size) the set of the given size, if one exists.
func (l *setList) prevThroughput(size int) (float64, bool) {
	i := sort.Search(len(l.all), func(i int) bool { return l.all[i].Size >= size })
	if i == 0 {
		return 0, false
	}
	return l.all[i-1].MaxThroughput, true
}
