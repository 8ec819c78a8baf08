package graph

import "fmt"

// ErrPortDisconnected indicates a port that is not attached to exactly
// one channel.
var ErrPortDisconnected = fmt.Errorf("graph: %w", errPortDisconnected)
var errPortDisconnected = fmt.Errorf("port is not connected to exactly one channel")

// ErrInconsistentRates indicates the balance equations for the
// repetition vector have no positive integer solution.
var ErrInconsistentRates = fmt.Errorf("graph: %w", errInconsistentRates)
var errInconsistentRates = fmt.Errorf("rates are inconsistent: no positive integer repetition vector exists")

// ErrPhaseLengthMismatch indicates an actor's port rate sequences do
// not all share the same length.
var ErrPhaseLengthMismatch = fmt.Errorf("graph: %w", errPhaseLengthMismatch)
var errPhaseLengthMismatch = fmt.Errorf("actor's port rate sequences have inconsistent phase lengths")
