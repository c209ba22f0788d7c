// Package pdf wraps the MuPDF backend (go-fitz) behind the small surface the
// pipeline stages need: page extraction, searchability probing, page
// rendering and source normalization.
package pdf

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Line is one text line on a page, with enough geometry and font information
// for the downstream cleanup and title-detection stages.
type Line struct {
	Text string
	// Top and Left locate the line in points from the page's top-left corner.
	Top  float64
	Left float64
	// FontSize is the dominant span size in points, 0 when unknown.
	FontSize float64
	Bold     bool
}

// Page is the extracted content of one PDF page.
type Page struct {
	// Number is the 0-based page index in the source document.
	Number int
	Width  float64
	Height float64
	Lines  []Line
	// HasImages reports whether the page carries raster content.
	HasImages bool
}

// Searchable reports whether the page has an extractable text layer.
func (p Page) Searchable() bool {
	for _, l := range p.Lines {
		if strings.TrimSpace(l.Text) != "" {
			return true
		}
	}
	return false
}

// Landscape reports whether the page is wider than tall.
func (p Page) Landscape() bool { return p.Width > p.Height }

// Text joins the page's lines with newlines.
func (p Page) Text() string {
	parts := make([]string, len(p.Lines))
	for i, l := range p.Lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}

// Clone returns a deep copy of the page.
func (p Page) Clone() Page {
	out := p
	out.Lines = make([]Line, len(p.Lines))
	copy(out.Lines, p.Lines)
	return out
}

// ClonePages deep-copies a page slice. Stages use it to keep their inputs
// untouched.
func ClonePages(pages []Page) []Page {
	out := make([]Page, len(pages))
	for i, p := range pages {
		out[i] = p.Clone()
	}
	return out
}

// ExtractPages opens the document and extracts every page's lines, geometry
// and metadata. Line geometry and font sizes come from MuPDF's structured
// HTML rendering; when that yields nothing but a text layer exists, the raw
// text is used without geometry.
func ExtractPages(path string) ([]Page, map[string]string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer doc.Close()

	total := doc.NumPage()
	pages := make([]Page, 0, total)

	for n := 0; n < total; n++ {
		page := Page{Number: n}

		if bound, err := doc.Bound(n); err == nil {
			page.Width = float64(bound.Dx())
			page.Height = float64(bound.Dy())
		}

		markup, err := doc.HTML(n, false)
		if err == nil {
			page.Lines, page.HasImages = parsePageHTML(markup)
		}

		if len(page.Lines) == 0 {
			text, err := doc.Text(n)
			if err != nil {
				return nil, nil, fmt.Errorf("extract page %d of %q: %w", n, path, err)
			}
			for _, raw := range strings.Split(text, "\n") {
				if strings.TrimSpace(raw) == "" {
					continue
				}
				page.Lines = append(page.Lines, Line{Text: raw})
			}
		}

		pages = append(pages, page)
	}

	return pages, doc.Metadata(), nil
}
