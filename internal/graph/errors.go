package graph

import "fmt"

// ErrorKind classifies a graph construction failure.
type ErrorKind int

const (
	// DuplicateOutput means two stages declared the same output key.
	DuplicateOutput ErrorKind = iota
	// UnsatisfiedInput means a required input key is neither a seed key nor
	// produced by any stage.
	UnsatisfiedInput
	// Cycle means the derived dependency edges form a cycle.
	Cycle
)

func (k ErrorKind) String() string {
	switch k {
	case DuplicateOutput:
		return "duplicate output"
	case UnsatisfiedInput:
		return "unsatisfied input"
	case Cycle:
		return "cycle"
	default:
		return "unknown"
	}
}

// Error is a construction-time validation failure. A graph that fails
// validation is never usable, even partially.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid graph (%s): %s", e.Kind, e.Detail)
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
