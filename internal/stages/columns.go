package stages

import (
	"context"
	"sort"
	"strings"

	"github.com/42maru-ai/prospector/internal/graph"
	"github.com/42maru-ai/prospector/internal/pdf"
)

// ReorderColumns rewrites each page into reading order for two-column
// layouts. Extraction yields lines in layout order, which interleaves the
// columns; this stage buckets every line into the left column, the right
// column, or the common full-width area, then emits the left column before
// the right one between consecutive common lines.
//
// The middle of the page is taken with a margin: scanned documents are
// rarely aligned perfectly, so a line is only columnar when it stays clear
// of a band around the exact center. Same-height fragments whose horizontal
// gap is too small to be a column split are merged back into one line first.
type ReorderColumns struct {
	// middleMargin widens the center line into a band, as a ratio of the
	// page width.
	middleMargin float64
	// sameLineTol is the vertical tolerance for treating two lines as being
	// at the same height.
	sameLineTol float64
	// minColumnGap is the smallest horizontal gap between same-height
	// fragments that still reads as a column split.
	minColumnGap float64
}

// NewReorderColumns builds the column reordering stage.
func NewReorderColumns() *ReorderColumns {
	return &ReorderColumns{middleMargin: 0.05, sameLineTol: 1, minColumnGap: 13.5}
}

func (s *ReorderColumns) Name() string      { return "columns" }
func (s *ReorderColumns) Inputs() []string  { return []string{KeyText} }
func (s *ReorderColumns) Outputs() []string { return []string{KeyOrdered} }

func (s *ReorderColumns) Run(ctx context.Context, in graph.Values) (graph.Values, error) {
	pages, err := pagesInput(in, KeyText)
	if err != nil {
		return nil, err
	}
	out := pdf.ClonePages(pages)

	for i := range out {
		if out[i].Width <= 0 {
			continue
		}
		out[i].Lines = s.gatherLines(out[i])
		out[i].Lines = s.reorder(out[i])
	}

	return graph.Values{KeyOrdered: out}, nil
}

// hasGeometry reports whether the line carries layout coordinates. Lines
// recovered from the raw text fallback or OCR have none and always stay in
// the common area, in their existing order.
func hasGeometry(l pdf.Line) bool { return l.Top > 0 || l.Left > 0 }

// lineRight estimates the right edge of a line. The extractor only records
// the left offset, so the width is approximated from the glyph count at
// roughly half the font size per glyph.
func lineRight(l pdf.Line) float64 {
	size := l.FontSize
	if size <= 0 {
		size = 11
	}
	runes := len([]rune(strings.TrimSpace(l.Text)))
	return l.Left + 0.5*size*float64(runes)
}

// area is the horizontal bucket a line falls into.
type area int

const (
	areaLeft area = iota
	areaRight
	areaCommon
)

// assignArea buckets one line against the page's middle band.
func (s *ReorderColumns) assignArea(l pdf.Line, width float64) area {
	if !hasGeometry(l) {
		return areaCommon
	}
	middle := width / 2
	low := middle - width*s.middleMargin
	up := middle + width*s.middleMargin

	right := lineRight(l)
	switch {
	case l.Left < low && right <= up:
		return areaLeft
	case l.Left >= low && right > up:
		return areaRight
	default:
		return areaCommon
	}
}

// gatherLines merges same-height fragments that do not straddle the middle
// of the page, or whose gap is too narrow for a column split. Extraction
// sometimes breaks one visual line into several boxes; genuine two-column
// pairs are the only split kept.
func (s *ReorderColumns) gatherLines(page pdf.Page) []pdf.Line {
	lines := append([]pdf.Line(nil), page.Lines...)

	for merged := true; merged; {
		merged = false
	scan:
		for i := 0; i < len(lines); i++ {
			if !hasGeometry(lines[i]) {
				continue
			}
			for j := i + 1; j < len(lines); j++ {
				if !hasGeometry(lines[j]) {
					continue
				}
				if diff := lines[i].Top - lines[j].Top; diff > s.sameLineTol || diff < -s.sameLineTol {
					continue
				}

				a, b := i, j
				if lines[b].Left < lines[a].Left {
					a, b = b, a
				}
				gap := lines[b].Left - lineRight(lines[a])
				if gap < 0 {
					continue
				}
				columnar := s.assignArea(lines[a], page.Width) == areaLeft &&
					s.assignArea(lines[b], page.Width) == areaRight
				if columnar && gap >= s.minColumnGap {
					continue
				}

				lines[a].Text = strings.TrimRight(lines[a].Text, " ") + " " + strings.TrimLeft(lines[b].Text, " ")
				lines = append(lines[:b], lines[b+1:]...)
				merged = true
				break scan
			}
		}
	}

	return lines
}

// reorder emits the page in reading order: between two consecutive common
// lines, the left column comes out first, then the right column.
func (s *ReorderColumns) reorder(page pdf.Page) []pdf.Line {
	var left, right, common []pdf.Line
	for _, l := range page.Lines {
		switch s.assignArea(l, page.Width) {
		case areaLeft:
			left = append(left, l)
		case areaRight:
			right = append(right, l)
		default:
			common = append(common, l)
		}
	}
	if len(left) == 0 && len(right) == 0 {
		return page.Lines
	}

	byTop := func(lines []pdf.Line) {
		sort.SliceStable(lines, func(i, j int) bool { return lines[i].Top < lines[j].Top })
	}
	byTop(left)
	byTop(right)

	ordered := make([]pdf.Line, 0, len(page.Lines))
	li, ri := 0, 0
	for _, c := range common {
		for li < len(left) && left[li].Top <= c.Top {
			ordered = append(ordered, left[li])
			li++
		}
		for ri < len(right) && right[ri].Top <= c.Top {
			ordered = append(ordered, right[ri])
			ri++
		}
		ordered = append(ordered, c)
	}
	ordered = append(ordered, left[li:]...)
	ordered = append(ordered, right[ri:]...)

	return ordered
}
