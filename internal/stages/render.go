package stages

import (
	"context"
	"os"

	"github.com/42maru-ai/prospector/internal/document"
	"github.com/42maru-ai/prospector/internal/graph"
	"github.com/42maru-ai/prospector/internal/pdf"
)

// RenderImages renders image-only pages to JPEG files so the assembled
// document keeps a trace of content the text stages cannot represent.
type RenderImages struct {
	enabled bool
	quality int
	// dir is where page images land; empty means a fresh temp directory per
	// document.
	dir string
}

// NewRenderImages builds the page rendering stage.
func NewRenderImages(enabled bool, quality int, dir string) *RenderImages {
	if quality <= 0 {
		quality = 85
	}
	return &RenderImages{enabled: enabled, quality: quality, dir: dir}
}

func (s *RenderImages) Name() string      { return "render" }
func (s *RenderImages) Inputs() []string  { return []string{KeyPDFPath, KeyBody} }
func (s *RenderImages) Outputs() []string { return []string{KeyImages} }

func (s *RenderImages) Run(ctx context.Context, in graph.Values) (graph.Values, error) {
	if !s.enabled {
		return graph.Values{KeyImages: []document.Image{}}, nil
	}

	pages, err := pagesInput(in, KeyBody)
	if err != nil {
		return nil, err
	}

	var targets []int
	for _, p := range pages {
		if len(p.Lines) == 0 && p.HasImages {
			targets = append(targets, p.Number)
		}
	}
	if len(targets) == 0 {
		return graph.Values{KeyImages: []document.Image{}}, nil
	}

	path, err := stringInput(in, KeyPDFPath)
	if err != nil {
		return nil, err
	}

	dir := s.dir
	if dir == "" {
		dir, err = os.MkdirTemp("", "prospector-render-*")
		if err != nil {
			return nil, err
		}
	}

	rendered, err := pdf.RenderJPEG(path, targets, s.quality, dir)
	if err != nil {
		return nil, err
	}

	images := make([]document.Image, len(rendered))
	for i, r := range rendered {
		images[i] = document.Image{
			Page:   r.Number,
			Path:   r.Path,
			Width:  r.Width,
			Height: r.Height,
		}
	}

	return graph.Values{KeyImages: images}, nil
}
