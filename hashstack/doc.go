// Package hashstack implements the hashed stack used by the CSDF
// engine (package csdf) to detect recurring configurations during
// state-space exploration (spec.md §4.2 "H — Hashed Stack"). The SADF
// TPS builder (package sadf) does not use it; it deduplicates
// configurations by a string key of its own.
//
// A HashedStack owns a growable stack of state.Configuration values
// and a closed hash table of bucket heads chained on collision; a
// configuration's position on the stack is its identity for later
// cycle reconstruction.
package hashstack
