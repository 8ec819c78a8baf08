// Package tpsanalysis implements the TPS Analyzer (spec.md §4.7,
// component A): given a sadf.TPS built with sadf.BuildResolved, it
// locates the unique recurrent class the chain settles into, computes
// its equilibrium distribution, and derives the long-run metrics
// (inter-firing latency, periodic deadline-miss probability, buffer
// occupancy) spec.md asks for.
//
// Reading guide: reduce.go finds the unique terminal strongly-connected
// component reachable from the TPS root (original_source's
// removeTransientConfigurations + isErgodic, adapted onto gonum's
// TarjanSCC rather than a hand-rolled DFS, mirroring graph.scc.go's own
// use of gonum for the same decomposition); equilibrium.go solves the
// balance-equations-plus-normalization system original_source's
// matrix.cc builds by hand, using gonum/mat's LU solve in place of its
// manual deferred-pivot elimination; interfiring.go contracts a TPS
// down to the boundary states immediately following a chosen process's
// End action (original_source's SADF_ProgressTPS_ASAP_InterFiringLatency),
// which metrics.go uses for the two per-process metrics; metrics.go
// follows sadf_deadline_miss.cc's orchestration: verify preconditions,
// build/contract the TPS, find the recurrent class, solve for π, and
// weight-sum a per-state local result.
package tpsanalysis
