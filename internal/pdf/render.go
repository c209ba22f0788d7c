package pdf

import (
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
)

// RenderedPage is one page rendered to a JPEG file on disk.
type RenderedPage struct {
	Number int
	Path   string
	Width  int
	Height int
}

// RenderJPEG renders the listed 0-based pages of a document into dir as
// page_NNN.jpg files at the given JPEG quality (1-100).
func RenderJPEG(path string, pageNumbers []int, quality int, dir string) ([]RenderedPage, error) {
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("quality must be between 1 and 100, got %d", quality)
	}
	if len(pageNumbers) == 0 {
		return nil, nil
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer doc.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create render directory: %w", err)
	}

	rendered := make([]RenderedPage, 0, len(pageNumbers))
	for _, n := range pageNumbers {
		img, err := doc.Image(n)
		if err != nil {
			return nil, fmt.Errorf("render page %d of %q: %w", n, path, err)
		}

		outPath := filepath.Join(dir, fmt.Sprintf("page_%03d.jpg", n+1))
		out, err := os.Create(outPath)
		if err != nil {
			return nil, fmt.Errorf("create %q: %w", outPath, err)
		}
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: quality})
		out.Close()
		if err != nil {
			return nil, fmt.Errorf("encode page %d: %w", n, err)
		}

		bounds := img.Bounds()
		rendered = append(rendered, RenderedPage{
			Number: n,
			Path:   outPath,
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
		})
	}

	return rendered, nil
}
