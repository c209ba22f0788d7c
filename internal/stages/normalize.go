package stages

import (
	"context"

	"github.com/42maru-ai/prospector/internal/graph"
	"github.com/42maru-ai/prospector/internal/pdf"
)

// Normalize validates the source file and rewrites it into the cache
// directory under a content-addressed name. Some producers emit PDFs that
// bend the format; working from a private normalized copy keeps downstream
// stages and external tools off the caller's file.
type Normalize struct {
	enabled  bool
	cacheDir string
}

// NewNormalize builds the normalization stage. When disabled the source path
// passes through untouched, as the original name is still derived from it.
func NewNormalize(enabled bool, cacheDir string) *Normalize {
	return &Normalize{enabled: enabled, cacheDir: cacheDir}
}

func (s *Normalize) Name() string      { return "normalize" }
func (s *Normalize) Inputs() []string  { return []string{KeySource} }
func (s *Normalize) Outputs() []string { return []string{KeyPDFPath, KeyDocName} }

func (s *Normalize) Run(ctx context.Context, in graph.Values) (graph.Values, error) {
	source, err := stringInput(in, KeySource)
	if err != nil {
		return nil, err
	}
	if err := pdf.ValidatePath(source); err != nil {
		return nil, err
	}

	name := pdf.DocumentName(source)
	path := source
	if s.enabled {
		path, err = pdf.Normalize(source, s.cacheDir)
		if err != nil {
			return nil, err
		}
	}

	return graph.Values{KeyPDFPath: path, KeyDocName: name}, nil
}
