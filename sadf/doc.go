// Package sadf implements the SADF TPS Builder (spec.md §4.6,
// component T): it expands a scenario-aware dataflow graph into its
// Timed Probabilistic System, the state graph whose nodes are joint
// kernel/detector/channel configurations and whose edges are labelled
// with a step kind, a branch probability, and an elapsed-time sample.
//
// Reading guide: types.go defines Configuration (one TPS node) and
// TPS (the built graph); builder.go performs the explicit-worklist
// ASAP expansion described in original_source's
// SADF_ProgressTPS_ASAP — one outgoing edge per enabled action of
// every ready kernel/detector, not a combined product step, falling
// back to a single Time edge when nothing else is enabled — plus its
// Resolved variant (SADF_ProgressTPS_ASAP_Resolved) which forces a
// single deterministic schedule so the result is a proper Markov
// chain, not just an MDP, for package tpsanalysis to solve.
//
// Scope: a kernel must have exactly one inbound control channel and a
// detector exactly one outbound control channel plus exactly one
// Markov chain (graph.Actor.Markov); see DESIGN.md's sadf entry for
// why this single-controller topology is this package's supported
// scope rather than the fully general multi-controller case the
// original analyzer supports.
package sadf
