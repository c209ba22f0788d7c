package graph

import "context"

type funcStage struct {
	name    string
	inputs  []string
	outputs []string
	fn      func(ctx context.Context, in Values) (Values, error)
}

// StageFunc wraps a plain function into a Stage. It is the cheapest way for
// callers to plug their own work into a graph without defining a type.
func StageFunc(name string, inputs, outputs []string, fn func(ctx context.Context, in Values) (Values, error)) Stage {
	return &funcStage{name: name, inputs: inputs, outputs: outputs, fn: fn}
}

func (s *funcStage) Name() string      { return s.name }
func (s *funcStage) Inputs() []string  { return s.inputs }
func (s *funcStage) Outputs() []string { return s.outputs }

func (s *funcStage) Run(ctx context.Context, in Values) (Values, error) {
	return s.fn(ctx, in)
}
