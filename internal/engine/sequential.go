// Package engine drives validated pipeline graphs: once per document in
// sequential mode, fanned out over a worker pool in batch mode.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/42maru-ai/prospector/internal/document"
	"github.com/42maru-ai/prospector/internal/graph"
)

// SeedPath is the conventional seed key carrying the source file path.
const SeedPath = "source.path"

// Sequential runs a graph against a single input on the calling goroutine.
// It is stateless and safe to share.
type Sequential struct {
	graph  *graph.Graph
	logger zerolog.Logger
}

// NewSequential returns an executor bound to a validated graph.
func NewSequential(g *graph.Graph, logger zerolog.Logger) *Sequential {
	return &Sequential{graph: g, logger: logger}
}

// Execute walks the graph plan, feeding each stage its declared inputs from
// the seed values and previously produced outputs, and merging the outputs
// into a fresh model. On the first stage failure execution halts and the
// partially built model travels inside the returned *PipelineError.
func (e *Sequential) Execute(ctx context.Context, seeds graph.Values) (*document.Model, error) {
	source, _ := seeds[SeedPath].(string)
	model := document.NewModel(source)
	logger := e.logger.With().Str("source", source).Logger()

	for _, stage := range e.graph.Plan() {
		if err := ctx.Err(); err != nil {
			model.Finalize()
			return nil, &PipelineError{Stage: stage.Name(), Cause: err, Partial: model}
		}

		in, err := e.assembleInputs(stage, seeds, model)
		if err != nil {
			model.Finalize()
			return nil, &PipelineError{Stage: stage.Name(), Cause: err, Partial: model}
		}

		started := time.Now()
		logger.Debug().Str("stage", stage.Name()).Msg("running stage")

		out, err := stage.Run(ctx, in)
		elapsed := time.Since(started)

		if err != nil {
			serr := &StageError{Stage: stage.Name(), Cause: err}
			model.RecordStage(document.StageStatus{
				Stage:    stage.Name(),
				Started:  started,
				Duration: elapsed,
				Err:      serr,
			})
			model.Finalize()
			logger.Error().Err(err).Str("stage", stage.Name()).Dur("duration", elapsed).Msg("stage failed")
			return nil, &PipelineError{Stage: stage.Name(), Cause: serr, Partial: model}
		}

		if err := e.mergeOutputs(stage, out, model); err != nil {
			model.Finalize()
			return nil, &PipelineError{Stage: stage.Name(), Cause: err, Partial: model}
		}

		model.RecordStage(document.StageStatus{
			Stage:    stage.Name(),
			Started:  started,
			Duration: elapsed,
		})
		logger.Debug().Str("stage", stage.Name()).Dur("duration", elapsed).Msg("stage done")
	}

	model.Finalize()
	return model, nil
}

// assembleInputs builds exactly the declared input set for a stage.
func (e *Sequential) assembleInputs(stage graph.Stage, seeds graph.Values, model *document.Model) (graph.Values, error) {
	in := make(graph.Values, len(stage.Inputs()))
	for _, key := range stage.Inputs() {
		if v, ok := seeds[key]; ok {
			in[key] = v
			continue
		}
		if v, ok := model.Value(key); ok {
			in[key] = v
			continue
		}
		// Graph validation guarantees a producer exists, so a miss here means
		// the producer ran without emitting its declared key.
		return nil, fmt.Errorf("input %q for stage %q not available", key, stage.Name())
	}
	return in, nil
}

// mergeOutputs checks the stage emitted what it declared, then folds the
// outputs into the model.
func (e *Sequential) mergeOutputs(stage graph.Stage, out graph.Values, model *document.Model) error {
	produced := make(map[string]any, len(stage.Outputs()))
	for _, key := range stage.Outputs() {
		v, ok := out[key]
		if !ok {
			return &StageError{
				Stage: stage.Name(),
				Cause: fmt.Errorf("declared output %q was not produced", key),
			}
		}
		produced[key] = v
	}
	if err := model.Merge(produced); err != nil {
		return &StageError{Stage: stage.Name(), Cause: err}
	}
	return nil
}
