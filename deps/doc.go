// Package deps implements the dependency analyzer (spec.md §4.3,
// component D): given a transient trace ending in a recurrent
// configuration (or, in the deadlock case, a single stalled
// configuration), it builds an abstract actor-level dependency graph
// and enumerates elementary circuits to find which channels are the
// binding constraint on throughput ("storage dependencies").
package deps
