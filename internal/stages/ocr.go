package stages

import (
	"bytes"
	"context"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"

	"github.com/42maru-ai/prospector/internal/graph"
	"github.com/42maru-ai/prospector/internal/pdf"
)

// OCR recognizes text on image-only pages through Tesseract. The engine
// treats it like any other stage; disabling it turns the stage into a
// pass-through so the graph shape stays fixed.
//
// Tesseract must be installed on the system when the stage is enabled.
type OCR struct {
	enabled  bool
	language string
}

// NewOCR builds the OCR stage. An empty language defaults to English.
func NewOCR(enabled bool, language string) *OCR {
	if language == "" {
		language = "eng"
	}
	return &OCR{enabled: enabled, language: language}
}

func (s *OCR) Name() string      { return "ocr" }
func (s *OCR) Inputs() []string  { return []string{KeyPDFPath, KeyBody} }
func (s *OCR) Outputs() []string { return []string{KeyText} }

func (s *OCR) Run(ctx context.Context, in graph.Values) (graph.Values, error) {
	pages, err := pagesInput(in, KeyBody)
	if err != nil {
		return nil, err
	}
	out := pdf.ClonePages(pages)

	if !s.enabled {
		return graph.Values{KeyText: out}, nil
	}

	var targets []int
	for i, p := range out {
		if len(p.Lines) == 0 && p.HasImages {
			targets = append(targets, i)
		}
	}
	if len(targets) == 0 {
		return graph.Values{KeyText: out}, nil
	}

	path, err := stringInput(in, KeyPDFPath)
	if err != nil {
		return nil, err
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	// One client per call: gosseract clients are not safe to share across
	// concurrent documents.
	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(s.language); err != nil {
		return nil, err
	}

	for _, i := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := doc.Image(out[i].Number)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
		if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
			return nil, err
		}
		text, err := client.Text()
		if err != nil {
			return nil, err
		}

		for _, raw := range strings.Split(text, "\n") {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			out[i].Lines = append(out[i].Lines, pdf.Line{Text: raw})
		}
	}

	return graph.Values{KeyText: out}, nil
}
