// Package config loads a YAML description of a dataflow graph (actors,
// ports, channels, and — for SADF graphs — scenarios, sub-scenarios,
// and Markov chains) plus the analysis bounds spec.md §5 requires,
// assembling the result through graph.Builder rather than touching
// graph.Graph's fields directly. Grounded on the teacher's
// sim/bundle.go: unmarshal into a plain tagged struct tree, then
// validate and translate field by field into the real domain types,
// wrapping every validation failure in analyzererr.InconsistentGraph.
package config
