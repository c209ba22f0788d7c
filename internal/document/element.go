// Package document holds the per-run result model: the keyed output map an
// execution accumulates, and the typed document aggregate serializers render.
package document

import "fmt"

// Element is one structural piece of a digged document. The concrete types
// are Title, Paragraph, Table and Image.
type Element interface {
	isElement()
}

// Title is a heading with a hierarchy level. Level 0 is the most important.
type Title struct {
	Page  int
	Text  string
	Level int
}

// Paragraph is a block of running text.
type Paragraph struct {
	Page int
	Text string
}

// Table is a grid of cell text. Rows may have differing lengths when the
// source layout was ragged.
type Table struct {
	Page  int
	Cells [][]string
}

// Image is a rendered page region, stored on disk. Produced for image-only
// pages when rendering is enabled.
type Image struct {
	Page   int
	Path   string
	Width  int
	Height int
}

func (Title) isElement()     {}
func (Paragraph) isElement() {}
func (Table) isElement()     {}
func (Image) isElement()     {}

func (t Title) String() string {
	return fmt.Sprintf("<Title %s p%d (#%d)>", snip(t.Text), t.Page, t.Level)
}

func (p Paragraph) String() string {
	return fmt.Sprintf("<Paragraph %s p%d>", snip(p.Text), p.Page)
}

func (t Table) String() string {
	return fmt.Sprintf("<Table %dx%d p%d>", len(t.Cells), t.cols(), t.Page)
}

func (t Table) cols() int {
	if len(t.Cells) == 0 {
		return 0
	}
	return len(t.Cells[0])
}

func snip(s string) string {
	if len(s) <= 13 {
		return s
	}
	return s[:10] + "..."
}

// Document is the full structured content of one source file.
type Document struct {
	// Name is the source file name without extension.
	Name string
	// Searchable reports whether the source contained a machine readable
	// text layer on at least one page.
	Searchable bool
	// Content lists the document elements in reading order.
	Content []Element
}
