package csdf

// Result is the engine's output for one storage-distribution run
// (spec.md §4.4): the self-timed throughput (0 on deadlock) and the
// per-channel storage-dependency bitset computed by package deps.
type Result struct {
	Throughput float64
	Dep        []bool
	Deadlock   bool
}

// iterMark records, for one pushed recurrence-detection stack entry,
// the designated output actor's cumulative firing count and the
// engine's running absolute clock at that point — the two quantities
// the throughput formula in spec.md §4.4 needs once a recurrence is
// found. The absolute clock lives here rather than on the
// Configuration itself because Configuration.GlbClk is the relative,
// per-iteration clock that Equal/Hash compare (see engine.go).
type iterMark struct {
	outputFirings int64
	glbClk        int64 // engine's cumulative totalClk at push time
}
