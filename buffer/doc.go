// Package buffer implements the Buffer Pareto Explorer (spec.md §4.5,
// component B): a breadth-first search over per-channel storage
// distributions that repeatedly invokes package csdf to measure
// throughput and storage dependencies, growing only the channels that
// are actually blocking, and keeping only the non-dominated
// (throughput, total-size) points.
//
// Reading guide: types.go defines the index-arena DistributionSet/
// Distribution lists (per DESIGN.md's "pointer graphs" note);
// explorer.go is the BFS itself.
package buffer
