package engine

import (
	"fmt"
	"time"

	"github.com/42maru-ai/prospector/internal/document"
)

// StageError wraps a failure inside one stage. Every error escaping a stage
// is wrapped, so the failing stage is always identifiable.
type StageError struct {
	Stage string
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %q: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error { return e.Cause }

// PipelineError reports a failed sequential run. It carries the partially
// built model as diagnostic context; the partial model is finalized and must
// not be treated as a usable result.
type PipelineError struct {
	Stage   string
	Cause   error
	Partial *document.Model
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline failed at stage %q: %v", e.Stage, e.Cause)
}

func (e *PipelineError) Unwrap() error { return e.Cause }

// TimeoutError marks a batch document that exceeded its per-document budget.
type TimeoutError struct {
	Input string
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("document %q exceeded timeout of %s", e.Input, e.Limit)
}

// CancellationError marks a batch document that was never dispatched, or was
// abandoned mid-flight, because the batch was cancelled.
type CancellationError struct {
	Input string
}

func (e *CancellationError) Error() string {
	return fmt.Sprintf("document %q cancelled", e.Input)
}
