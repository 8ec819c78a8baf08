// Package state implements the Configuration snapshot of a running
// CSDF/SDF graph (spec.md §3 "Configuration S") and its equality and
// hashing rules (spec.md §4.2).
//
// A Configuration is a value object: no shared mutable aliasing, safe
// to copy, compare, and stash in the hashed stack (package hashstack).
package state
