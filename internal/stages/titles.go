package stages

import (
	"context"
	"sort"
	"strings"

	"github.com/42maru-ai/prospector/internal/document"
	"github.com/42maru-ai/prospector/internal/graph"
)

// FindTitles separates title blocks from body text using font information,
// then normalizes the title hierarchy to dense levels.
//
// The body font is the size carrying the most text in the whole document.
// Blocks set notably larger than the body, or bold one-liners at body size,
// are titles; distinct title sizes rank into levels, largest first.
type FindTitles struct {
	// maxTitleLines caps how many merged lines a block may have and still be
	// a title candidate.
	maxTitleLines int
	// maxTitleRunes caps title length; longer blocks read as body text.
	maxTitleRunes int
}

// NewFindTitles builds the title detection stage.
func NewFindTitles() *FindTitles {
	return &FindTitles{maxTitleLines: 2, maxTitleRunes: 120}
}

func (s *FindTitles) Name() string      { return "titles" }
func (s *FindTitles) Inputs() []string  { return []string{KeyParagraphs} }
func (s *FindTitles) Outputs() []string { return []string{KeyOutline} }

func (s *FindTitles) Run(ctx context.Context, in graph.Values) (graph.Values, error) {
	v, ok := in[KeyParagraphs]
	if !ok {
		return nil, missingInput(KeyParagraphs)
	}
	blocks, ok := v.([]TextBlock)
	if !ok {
		return nil, wrongType(KeyParagraphs, v, "[]stages.TextBlock")
	}

	bodySize := dominantFontSize(blocks)

	// Collect the distinct font sizes of title candidates, largest first,
	// to rank them into levels.
	sizeLevels := make(map[float64]int)
	var sizes []float64
	for _, b := range blocks {
		if s.isTitle(b, bodySize) && b.FontSize > bodySize+0.5 {
			if _, seen := sizeLevels[b.FontSize]; !seen {
				sizeLevels[b.FontSize] = 0
				sizes = append(sizes, b.FontSize)
			}
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))
	for level, size := range sizes {
		sizeLevels[size] = level
	}
	// Bold body-sized titles rank below every larger size.
	boldLevel := len(sizes)

	outline := make([]document.Element, 0, len(blocks))
	for _, b := range blocks {
		if !s.isTitle(b, bodySize) {
			outline = append(outline, document.Paragraph{Page: b.Page, Text: b.Text})
			continue
		}
		level, ok := sizeLevels[b.FontSize]
		if !ok {
			level = boldLevel
		}
		outline = append(outline, document.Title{Page: b.Page, Text: b.Text, Level: level})
	}

	return graph.Values{KeyOutline: outline}, nil
}

// isTitle decides whether a block is a title candidate relative to the body
// font size.
func (s *FindTitles) isTitle(b TextBlock, bodySize float64) bool {
	if b.Lines > s.maxTitleLines || len([]rune(b.Text)) > s.maxTitleRunes {
		return false
	}
	if strings.HasSuffix(strings.TrimSpace(b.Text), ".") {
		// Sentences are body text no matter the font.
		return false
	}
	if bodySize > 0 && b.FontSize > bodySize+0.5 {
		return true
	}
	return b.Bold && b.FontSize > 0 && bodySize > 0 && b.FontSize >= bodySize-0.25
}

// dominantFontSize returns the size carrying the most text, 0 when no block
// has font information.
func dominantFontSize(blocks []TextBlock) float64 {
	weights := make(map[float64]int)
	for _, b := range blocks {
		if b.FontSize > 0 {
			weights[b.FontSize] += len(b.Text)
		}
	}
	var (
		best   float64
		weight int
	)
	for size, w := range weights {
		if w > weight || (w == weight && size < best) {
			best, weight = size, w
		}
	}
	return best
}
