package analyze

// Bounds collects the resource ceilings spec.md §5 requires every
// analysis entry point to honor: stack/hash bounds for the CSDF
// self-timed execution engine's recurrence-detection structures
// (package hashstack, via csdf.RunBounded), and a configuration-count
// ceiling for SADF TPS construction (package sadf).
//
// A zero Bounds means "unbounded" throughout, matching
// csdf.RunBounded's and sadf.Build's own zero-means-unbounded
// convention.
type Bounds struct {
	MaxStackSize int
	MaxHashSize  int
	MaxConfigs   int
}

// Dependencies is the per-channel storage-dependency mask a run
// reports when it finds a recurrence, hits a deadlock, or fails for
// insufficient initial space (spec.md §4.3): Dependencies[c] is
// true if channel c's storage was a binding constraint on the
// recurrence that was found (or the deadlock that was hit).
type Dependencies []bool

// IsDependent reports whether channel c's storage was a binding
// constraint, false for any out-of-range id (no dependency data was
// ever produced for it).
func (d Dependencies) IsDependent(c int) bool {
	return c >= 0 && c < len(d) && d[c]
}
