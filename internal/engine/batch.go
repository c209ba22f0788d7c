package engine

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/42maru-ai/prospector/internal/document"
	"github.com/42maru-ai/prospector/internal/graph"
)

// Record is the batch executor's unit of output: one input identifier paired
// with either a completed model or a failure. Completion order is
// unconstrained; callers needing input order must correlate via Input.
type Record struct {
	// ID uniquely identifies this execution attempt.
	ID uuid.UUID
	// Input is the source identifier carried in the seed values.
	Input string
	// Model is the completed document model. Nil when Err is set.
	Model *document.Model
	// Err is the failure outcome, nil on success.
	Err error
	// Duration covers the whole per-document pass, queueing excluded.
	Duration time.Duration
}

// Sink receives each record as soon as its document completes. Sinks are
// invoked from worker goroutines, one call at a time.
type Sink func(Record)

// BatchOptions tunes a batch executor.
type BatchOptions struct {
	// Concurrency bounds the number of documents in flight. Zero or negative
	// means the available parallelism.
	Concurrency int
	// Timeout is the per-document budget. Zero disables it.
	Timeout time.Duration
	// Sink, if set, streams records instead of only buffering them.
	Sink Sink
}

// Batch fans a graph out over many independent inputs using a bounded worker
// pool. Each document gets a fully isolated sequential pass; one corrupt
// input never aborts the batch.
type Batch struct {
	seq    *Sequential
	opts   BatchOptions
	logger zerolog.Logger
}

// NewBatch returns a batch executor over the given graph.
func NewBatch(g *graph.Graph, opts BatchOptions, logger zerolog.Logger) *Batch {
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	return &Batch{
		seq:    NewSequential(g, logger),
		opts:   opts,
		logger: logger,
	}
}

// Execute runs every input through the graph and returns one record per
// input, in input order. At most Concurrency documents are inside stage
// execution at any time; excess inputs queue until a worker frees up.
//
// Cancelling ctx stops dispatch of queued inputs; in-flight documents observe
// the cancellation through their own context. Undispatched and abandoned
// inputs are recorded with a *CancellationError so the returned slice always
// pairs 1:1 with inputs.
func (b *Batch) Execute(ctx context.Context, inputs []graph.Values) []Record {
	records := make([]Record, len(inputs))
	if len(inputs) == 0 {
		return records
	}

	workers := b.opts.Concurrency
	if workers > len(inputs) {
		workers = len(inputs)
	}

	type workItem struct {
		index int
		seeds graph.Values
	}

	workChan := make(chan workItem, len(inputs))
	for i, seeds := range inputs {
		workChan <- workItem{index: i, seeds: seeds}
	}
	close(workChan)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		sinkMu sync.Mutex
	)

	b.logger.Info().
		Int("inputs", len(inputs)).
		Int("workers", workers).
		Msg("starting batch run")

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workChan {
				var rec Record
				if ctx.Err() != nil {
					rec = Record{
						ID:    uuid.New(),
						Input: sourceOf(item.seeds),
						Err:   &CancellationError{Input: sourceOf(item.seeds)},
					}
				} else {
					rec = b.runOne(ctx, item.seeds)
				}

				mu.Lock()
				records[item.index] = rec
				mu.Unlock()

				// The sink has its own mutex so a slow consumer never holds
				// up record commits on other workers.
				if b.opts.Sink != nil {
					sinkMu.Lock()
					b.opts.Sink(rec)
					sinkMu.Unlock()
				}
			}
		}()
	}

	wg.Wait()

	b.logger.Info().
		Int("inputs", len(inputs)).
		Int("failures", countFailures(records)).
		Msg("batch run finished")

	return records
}

// runOne executes a single isolated pass, translating context outcomes into
// the batch failure taxonomy.
func (b *Batch) runOne(ctx context.Context, seeds graph.Values) Record {
	input := sourceOf(seeds)
	docCtx := ctx
	cancel := context.CancelFunc(func() {})
	if b.opts.Timeout > 0 {
		docCtx, cancel = context.WithTimeout(ctx, b.opts.Timeout)
	}
	defer cancel()

	started := time.Now()
	model, err := b.seq.Execute(docCtx, seeds)
	elapsed := time.Since(started)

	rec := Record{
		ID:       uuid.New(),
		Input:    input,
		Duration: elapsed,
	}

	switch {
	case err == nil:
		rec.Model = model
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		rec.Err = &TimeoutError{Input: input, Limit: b.opts.Timeout}
	case errors.Is(err, context.Canceled):
		rec.Err = &CancellationError{Input: input}
	default:
		rec.Err = err
	}

	if rec.Err != nil {
		b.logger.Warn().Err(rec.Err).Str("input", input).Dur("duration", elapsed).Msg("document failed")
	} else {
		b.logger.Debug().Str("input", input).Dur("duration", elapsed).Msg("document done")
	}
	return rec
}

func sourceOf(seeds graph.Values) string {
	s, _ := seeds[SeedPath].(string)
	return s
}

func countFailures(records []Record) int {
	n := 0
	for _, r := range records {
		if r.Err != nil {
			n++
		}
	}
	return n
}
