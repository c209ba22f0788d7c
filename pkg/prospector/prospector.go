// Package prospector is the public entry point for the PDF content
// extraction pipeline. It wires the extraction stages into a validated
// graph and exposes three operations: Dig for a single document,
// Pumpjack for a concurrent batch, and IsSearchable as a cheap probe.
package prospector

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/42maru-ai/prospector/internal/config"
	"github.com/42maru-ai/prospector/internal/document"
	"github.com/42maru-ai/prospector/internal/engine"
	"github.com/42maru-ai/prospector/internal/graph"
	"github.com/42maru-ai/prospector/internal/observability"
	"github.com/42maru-ai/prospector/internal/pdf"
	"github.com/42maru-ai/prospector/internal/stages"
)

// Re-export the document model for public consumption.
type (
	Document  = document.Document
	Element   = document.Element
	Title     = document.Title
	Paragraph = document.Paragraph
	Table     = document.Table
	Image     = document.Image
	Model     = document.Model
)

// Re-export execution types.
type (
	Record = engine.Record
	Sink   = engine.Sink
	Values = graph.Values
	Stage  = graph.Stage
)

// Re-export the failure taxonomy.
type (
	GraphError        = graph.Error
	StageError        = engine.StageError
	PipelineError     = engine.PipelineError
	TimeoutError      = engine.TimeoutError
	CancellationError = engine.CancellationError
	ProbeError        = pdf.ProbeError
)

// SeedPath is the seed key carrying the source file path.
const SeedPath = engine.SeedPath

// Client runs the extraction pipeline with a fixed configuration. It builds
// and validates the stage graph once and is safe for concurrent use.
type Client struct {
	cfg    *config.Config
	graph  *graph.Graph
	logger zerolog.Logger
}

type settings struct {
	cfg    *config.Config
	logger *zerolog.Logger
}

// Option adjusts the client configuration.
type Option func(*settings)

// WithNormalize copies inputs into a content-addressed cache before reading.
func WithNormalize(cacheDir string) Option {
	return func(s *settings) {
		s.cfg.Pipeline.Normalize = true
		s.cfg.Pipeline.CacheDir = cacheDir
	}
}

// WithOCR runs tesseract over image-only pages in the given language.
func WithOCR(language string) Option {
	return func(s *settings) {
		s.cfg.Pipeline.OCR = true
		if language != "" {
			s.cfg.Pipeline.OCRLanguage = language
		}
	}
}

// WithTables toggles column-gap table detection.
func WithTables(enabled bool) Option {
	return func(s *settings) { s.cfg.Pipeline.Tables = enabled }
}

// WithGroupBullets toggles keeping bullet lists attached to their
// introducing sentence.
func WithGroupBullets(enabled bool) Option {
	return func(s *settings) { s.cfg.Pipeline.GroupBullets = enabled }
}

// WithRenderedImages saves image-only pages as JPEG files under dir.
func WithRenderedImages(dir string, quality int) Option {
	return func(s *settings) {
		s.cfg.Pipeline.RenderImages = true
		s.cfg.Pipeline.ImageDir = dir
		if quality > 0 {
			s.cfg.Pipeline.ImageQuality = quality
		}
	}
}

// WithBatch bounds batch concurrency and the per-document timeout.
func WithBatch(batch config.BatchConfig) Option {
	return func(s *settings) { s.cfg.Batch = batch }
}

// WithLogger replaces the default logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) { s.logger = &logger }
}

// New builds a client over the default configuration plus options.
func New(opts ...Option) (*Client, error) {
	return NewWithConfig(config.DefaultConfig(), opts...)
}

// NewWithConfig builds a client over an explicit configuration.
func NewWithConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	s := settings{cfg: cfg}
	for _, opt := range opts {
		opt(&s)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var logger zerolog.Logger
	switch {
	case s.logger != nil:
		logger = *s.logger
	case cfg.Logging == (config.LoggingConfig{}):
		logger = observability.Default()
	default:
		logger = observability.NewLogger(observability.LogConfig{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
	}

	g, err := buildGraph(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{cfg: cfg, graph: g, logger: logger}, nil
}

// buildGraph assembles the extraction stages into a validated graph. The
// graph shape is fixed; optional features run as pass-throughs when
// disabled, so key wiring never changes.
func buildGraph(cfg *config.Config) (*graph.Graph, error) {
	p := cfg.Pipeline
	list := []graph.Stage{
		stages.NewNormalize(p.Normalize, p.CacheDir),
		stages.NewExtractPages(),
		stages.NewRemoveLandscapePages(),
		stages.NewRemoveContentTable(),
		stages.NewMarkSearchablePages(),
		stages.NewRemoveMathCharacters(),
		stages.NewRemoveEmptyLines(),
		stages.NewRemoveHeaderFooter(),
		stages.NewOCR(p.OCR, p.OCRLanguage),
		stages.NewReorderColumns(),
		stages.NewDetectTables(p.Tables),
		stages.NewParagraphize(p.GroupBullets),
		stages.NewFindTitles(),
		stages.NewRenderImages(p.RenderImages, p.ImageQuality, p.ImageDir),
		stages.NewAssemble(),
	}
	return graph.New(list, engine.SeedPath)
}

// Graph exposes the validated stage graph, mainly for inspection.
func (c *Client) Graph() *graph.Graph { return c.graph }

// Dig runs the whole pipeline against one PDF and returns the completed
// document model. On stage failure the returned error is a *PipelineError
// carrying the partial model.
func (c *Client) Dig(ctx context.Context, path string) (*Model, error) {
	seq := engine.NewSequential(c.graph, c.logger)
	return seq.Execute(ctx, Values{engine.SeedPath: path})
}

// Pumpjack runs the pipeline over many PDFs with a bounded worker pool and
// returns one record per path, in path order. A sink, when given, receives
// each record as soon as its document completes.
func (c *Client) Pumpjack(ctx context.Context, paths []string, sink Sink) []Record {
	batch := engine.NewBatch(c.graph, engine.BatchOptions{
		Concurrency: c.cfg.Batch.Concurrency,
		Timeout:     c.cfg.Batch.Timeout,
		Sink:        sink,
	}, c.logger)

	inputs := make([]Values, len(paths))
	for i, p := range paths {
		inputs[i] = Values{engine.SeedPath: p}
	}
	return batch.Execute(ctx, inputs)
}

var (
	defaultOnce   sync.Once
	defaultClient *Client
	defaultErr    error
)

// defaultFor reuses one shared default client for option-free calls; the
// graph behind it is built and validated exactly once per process.
func defaultFor(opts []Option) (*Client, error) {
	if len(opts) == 0 {
		defaultOnce.Do(func() {
			defaultClient, defaultErr = New()
		})
		return defaultClient, defaultErr
	}
	return New(opts...)
}

// Dig runs a single PDF through a default pipeline.
func Dig(ctx context.Context, path string, opts ...Option) (*Model, error) {
	c, err := defaultFor(opts)
	if err != nil {
		return nil, err
	}
	return c.Dig(ctx, path)
}

// Pumpjack runs many PDFs through a default pipeline.
func Pumpjack(ctx context.Context, paths []string, sink Sink, opts ...Option) ([]Record, error) {
	c, err := defaultFor(opts)
	if err != nil {
		return nil, err
	}
	return c.Pumpjack(ctx, paths, sink), nil
}

// IsSearchable reports whether any page of the PDF carries an extractable
// text layer. It opens at most the pages needed to find the first text line
// and never runs the pipeline.
func IsSearchable(path string) (bool, error) {
	return pdf.IsSearchable(path)
}
