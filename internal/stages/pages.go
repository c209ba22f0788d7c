package stages

import (
	"context"

	"github.com/42maru-ai/prospector/internal/graph"
	"github.com/42maru-ai/prospector/internal/pdf"
)

// ExtractPages reads the working PDF and produces the raw page slice every
// later stage works on, plus the document metadata MuPDF reports.
type ExtractPages struct{}

// NewExtractPages builds the page extraction stage.
func NewExtractPages() *ExtractPages { return &ExtractPages{} }

func (s *ExtractPages) Name() string      { return "pages" }
func (s *ExtractPages) Inputs() []string  { return []string{KeyPDFPath} }
func (s *ExtractPages) Outputs() []string { return []string{KeyRawPages, KeyMetadata} }

func (s *ExtractPages) Run(ctx context.Context, in graph.Values) (graph.Values, error) {
	path, err := stringInput(in, KeyPDFPath)
	if err != nil {
		return nil, err
	}

	pages, meta, err := pdf.ExtractPages(path)
	if err != nil {
		return nil, err
	}

	return graph.Values{KeyRawPages: pages, KeyMetadata: meta}, nil
}
