// Package csdf implements the CSDF execution engine (spec.md §4.4,
// component E): self-timed execution of a graph under a fixed
// per-channel storage distribution, producing either a throughput (a
// recurring configuration was found) or a deadlock report (a maximal
// time step made no progress), plus the storage-dependency bitset
// from package deps.
//
// Reading Guide: types.go (Engine, Result), engine.go (the step loop:
// end phase, start phase, time step).
package csdf
