package state

import "math"

// Hash constants reproduced exactly from the source analyzer's
// multiplicative rolling hash (spec.md §9 "Hash constants";
// original_source/csdf/analysis/statespace/buffer.cc's hash()).
const (
	hashMul = 39164205.20662217
	hashAdd = 0.6180339887
)

// Hash computes a pure function of c's observable state (spec.md
// §4.2): a multiplicative rolling hash folding in the relative clock
// (see Configuration.GlbClk), then every actor's phase and
// execution-time cursors and its in-flight firings, then every
// channel's token/space counts and rate-sequence cursors, reduced into
// [0, tableSize). Two Equal configurations always produce
// the same Hash; the converse need not hold (collisions are expected
// and handled by hashstack's chaining).
func (c *Configuration) Hash(tableSize uint64) uint64 {
	key := 0.0
	key = rollIn(key, int64(c.GlbClk))

	for _, a := range c.Actors {
		key = rollIn(key, int64(a.Phase))
		key = rollIn(key, int64(a.ExecPos))
		for _, f := range a.Firings {
			key = rollIn(key, int64(f.Remaining))
			key = rollIn(key, int64(f.Phase))
		}
	}

	for _, ch := range c.Channels {
		key = rollIn(key, int64(ch.Tokens))
		key = rollIn(key, int64(ch.Space))
		key = rollIn(key, int64(ch.SrcRatePos))
		key = rollIn(key, int64(ch.DstRatePos))
	}

	key = math.Mod(key, 1)
	if key < 0 {
		key += 1
	}
	return uint64(float64(tableSize) * key)
}

func rollIn(key float64, part int64) float64 {
	return key*hashMul + float64(part)*hashAdd
}
