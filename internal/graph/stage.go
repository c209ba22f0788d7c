// Package graph defines the digging pipeline as a validated DAG of stages.
//
// A Stage declares the data keys it consumes and produces; the Graph derives
// dependency edges from matching keys, validates the whole structure up front
// and exposes a deterministic execution plan. The Graph itself never runs
// anything: executors in the engine package drive the plan.
package graph

import "context"

// Values carries keyed stage inputs and outputs. Keys are the declared data
// names ("pdf.pages", "doc.tables", ...), values are whatever the producing
// stage emitted.
type Values map[string]any

// Stage is one named unit of extraction or transformation work.
//
// Implementations must be safe for concurrent use across documents: any
// configuration is fixed at construction time and read-only afterwards, and
// Run must not retain or mutate its input values beyond building the returned
// map.
type Stage interface {
	// Name identifies the stage. Names must be unique within a graph.
	Name() string

	// Inputs lists the keys this stage requires. The executor passes exactly
	// these keys to Run.
	Inputs() []string

	// Outputs lists the keys this stage produces. No other stage in the same
	// graph may produce any of them.
	Outputs() []string

	// Run consumes the declared inputs and returns the declared outputs.
	Run(ctx context.Context, in Values) (Values, error)
}

// Clone returns a shallow copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
