package hashstack

import (
	"github.com/dataflow-analyzer/dataflow-analyzer/analyzererr"
	"github.com/dataflow-analyzer/dataflow-analyzer/state"
)

const defaultTableSize = 1021 // a modest prime; fixed for the life of a HashedStack

// HashedStack is the combined growable stack + hash index over
// state.Configuration values described in spec.md §4.2. Pop and Top
// are O(1); Push/Lookup are O(chain length) amortized O(1).
type HashedStack struct {
	configs []*state.Configuration

	table     [][]int // bucket head -> chain of stack positions, closed array
	tableSize uint64

	maxStackSize int
	maxHashSize  int
	entryCount   int
}

// New creates an empty HashedStack bounded by maxStackSize stack
// entries and maxHashSize hashed entries (the bucket count is also
// capped at maxHashSize). A bound of 0 means unbounded.
func New(maxStackSize, maxHashSize int) *HashedStack {
	tableSize := uint64(defaultTableSize)
	if maxHashSize > 0 && uint64(maxHashSize) < tableSize {
		tableSize = uint64(maxHashSize)
	}
	return &HashedStack{
		table:        make([][]int, tableSize),
		tableSize:    tableSize,
		maxStackSize: maxStackSize,
		maxHashSize:  maxHashSize,
	}
}

// Len returns the current stack depth.
func (h *HashedStack) Len() int { return len(h.configs) }

// At returns the configuration stored at stack position pos.
func (h *HashedStack) At(pos int) *state.Configuration { return h.configs[pos] }

// Top returns the configuration at the top of the stack, or nil if
// empty.
func (h *HashedStack) Top() *state.Configuration {
	if len(h.configs) == 0 {
		return nil
	}
	return h.configs[len(h.configs)-1]
}

// Pop removes and returns the top configuration.
func (h *HashedStack) Pop() *state.Configuration {
	n := len(h.configs)
	if n == 0 {
		return nil
	}
	c := h.configs[n-1]
	h.configs = h.configs[:n-1]
	return c
}

// Lookup returns the stack position of the first prior occurrence of
// cfg (by Configuration.Equal), or -1 if cfg has never been stored.
// Per spec.md §9's open question, this reports the *first* revisit —
// i.e. the earliest matching stack position, not a later one.
func (h *HashedStack) Lookup(cfg *state.Configuration) int {
	bucket := cfg.Hash(h.tableSize)
	for _, pos := range h.table[bucket] {
		if h.configs[pos].Equal(cfg) {
			return pos
		}
	}
	return -1
}

// Push stores cfg at the next stack position and indexes it in the
// hash table, growing the backing stack geometrically (×2) as needed.
// It does not check Lookup itself — callers that need recurrence
// detection call Lookup first and only Push on a miss, mirroring the
// source analyzer's storeState().
func (h *HashedStack) Push(cfg *state.Configuration) (int, error) {
	if h.maxStackSize > 0 && len(h.configs) >= h.maxStackSize {
		return 0, analyzererr.New(analyzererr.ResourceExhausted, "hashed stack exceeded maxStackSize")
	}
	pos := len(h.configs)
	h.configs = growAndAppend(h.configs, cfg)

	if h.maxHashSize > 0 && h.entryCount >= h.maxHashSize {
		return 0, analyzererr.New(analyzererr.ResourceExhausted, "hashed stack exceeded maxHashSize")
	}
	bucket := cfg.Hash(h.tableSize)
	h.table[bucket] = append(h.table[bucket], pos)
	h.entryCount++
	return pos, nil
}

// growAndAppend appends to configs, doubling the backing capacity
// explicitly whenever it is full (starting at 64), like the source's
// ×2 stack growth.
func growAndAppend(configs []*state.Configuration, cfg *state.Configuration) []*state.Configuration {
	if cap(configs) == len(configs) {
		grown := make([]*state.Configuration, len(configs), newCap(cap(configs)))
		copy(grown, configs)
		configs = grown
	}
	return append(configs, cfg)
}

func newCap(c int) int {
	if c == 0 {
		return 64
	}
	return c * 2
}

// Reset empties the stack and hash table, releasing all retained
// configurations.
func (h *HashedStack) Reset() {
	h.configs = nil
	h.entryCount = 0
	for i := range h.table {
		h.table[i] = nil
	}
}
