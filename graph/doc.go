// Package graph implements the in-memory dataflow graph model (actors,
// ports, channels, scenarios) shared by the CSDF and SADF dialects, plus
// the structural analyses that operate on the static graph alone:
// repetition-vector solving and strongly-connected-component
// decomposition.
//
// Reading Guide
//
//   - types.go: Actor, Port, Channel, Graph and the Identifiable
//     interface (see DESIGN.md — no class hierarchy, a tagged Kind
//     instead).
//   - scenario.go: SADF kernel/detector scenario, profile and
//     Markov-chain types.
//   - builder.go: the Builder used by collaborators (e.g. package
//     config) to assemble a Graph without needing direct field access.
//   - repetition.go: RepetitionVector() (spec.md §4.1).
//   - scc.go: StronglyConnectedComponents() and ComponentSubgraph()
//     (spec.md §4.1), built on gonum's Tarjan implementation, plus
//     WeaklyConnectedComponents().
package graph
