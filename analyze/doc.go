// Package analyze is the thin orchestration layer tying packages
// graph, csdf, buffer, sadf, and tpsanalysis together into the four
// entry points spec.md §6's Outputs imply: Throughput,
// StorageBufferAnalysis, BuildSADFTPS, and Equilibrium. Every entry
// point takes a context.Context as its first argument, matching the
// convention the retrieval pack uses for any function with I/O during
// setup — here that is package config's YAML loads, not the pure
// computational core itself, which never suspends.
package analyze
