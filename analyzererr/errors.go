// Package analyzererr declares the typed error surface of the dataflow
// analyzer, per spec.md §7: every analysis entry point fails with one
// of a small fixed set of error kinds, and the kind must be
// programmatically dispatchable with errors.Is/errors.As rather than
// string-matched.
package analyzererr

import "fmt"

// Kind identifies one of the analyzer's seven error categories.
type Kind int

const (
	// InconsistentGraph: the balance equations have no positive integer
	// solution, or a port is disconnected.
	InconsistentGraph Kind = iota
	// InsufficientInitialSpace: a channel's initial tokens exceed its
	// specified buffer.
	InsufficientInitialSpace
	// Deadlock: a full maximal time step makes no progress and no
	// process has finite remaining time.
	Deadlock
	// UnsupportedTopology: an analysis precondition was violated (e.g.
	// SADF long-run analysis requires a single weak component and at
	// least one timed action).
	UnsupportedTopology
	// NonErgodic: the TPS analyzer's post-hoc SCC check failed.
	NonErgodic
	// SingularSystem: Gaussian elimination hit a zero pivot after
	// pivot deferral.
	SingularSystem
	// ResourceExhausted: a configured stack/hash bound was exceeded.
	ResourceExhausted
)

func (k Kind) String() string {
	switch k {
	case InconsistentGraph:
		return "InconsistentGraph"
	case InsufficientInitialSpace:
		return "InsufficientInitialSpace"
	case Deadlock:
		return "Deadlock"
	case UnsupportedTopology:
		return "UnsupportedTopology"
	case NonErgodic:
		return "NonErgodic"
	case SingularSystem:
		return "SingularSystem"
	case ResourceExhausted:
		return "ResourceExhausted"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by every analysis entry
// point. It wraps an optional underlying cause and carries a Kind for
// errors.Is/errors.As dispatch against the sentinels below.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dataflow-analyzer: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("dataflow-analyzer: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e.Kind, so that
// errors.Is(err, analyzererr.ErrDeadlock) works against a wrapped
// *Error the same way it would against a plain sentinel.
func (e *Error) Is(target error) bool {
	sentinel, ok := target.(*sentinelError)
	if !ok {
		return false
	}
	return sentinel.kind == e.Kind
}

type sentinelError struct{ kind Kind }

func (s *sentinelError) Error() string { return "dataflow-analyzer: " + s.kind.String() }

// Sentinels for errors.Is comparisons, e.g.:
//
//	if errors.Is(err, analyzererr.ErrDeadlock) { ... }
var (
	ErrInconsistentGraph        = &sentinelError{InconsistentGraph}
	ErrInsufficientInitialSpace = &sentinelError{InsufficientInitialSpace}
	ErrDeadlock                 = &sentinelError{Deadlock}
	ErrUnsupportedTopology      = &sentinelError{UnsupportedTopology}
	ErrNonErgodic               = &sentinelError{NonErgodic}
	ErrSingularSystem           = &sentinelError{SingularSystem}
	ErrResourceExhausted        = &sentinelError{ResourceExhausted}
)

// New constructs an *Error of the given kind with a message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap constructs an *Error of the given kind, wrapping cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}
