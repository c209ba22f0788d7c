package stages

import (
	"context"
	"strings"

	"github.com/42maru-ai/prospector/internal/graph"
)

// TextBlock is a grouped run of lines: a paragraph candidate or, once the
// title stage has looked at fonts, a title candidate.
type TextBlock struct {
	Page     int
	Text     string
	FontSize float64
	Bold     bool
	// Lines counts the source lines merged into the block.
	Lines int
}

// Paragraphize merges consecutive lines into text blocks. Lines join the
// current block while the font stays the same and the vertical gap stays
// within normal leading; with bullet grouping on, a block ending in ":" pulls
// the bullet list that follows it into the same block.
type Paragraphize struct {
	groupBullets bool
}

// NewParagraphize builds the paragraph grouping stage.
func NewParagraphize(groupBullets bool) *Paragraphize {
	return &Paragraphize{groupBullets: groupBullets}
}

func (s *Paragraphize) Name() string      { return "paragraphs" }
func (s *Paragraphize) Inputs() []string  { return []string{KeyProse} }
func (s *Paragraphize) Outputs() []string { return []string{KeyParagraphs} }

var bulletPrefixes = []string{"-", "*", "•", "‣", "◦", "·", "●", "○", "»"}

func isBullet(text string) bool {
	trimmed := strings.TrimSpace(text)
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

func (s *Paragraphize) Run(ctx context.Context, in graph.Values) (graph.Values, error) {
	pages, err := pagesInput(in, KeyProse)
	if err != nil {
		return nil, err
	}

	var blocks []TextBlock
	for _, page := range pages {
		var (
			current *TextBlock
			lastTop float64
		)
		flush := func() {
			if current != nil {
				current.Text = strings.TrimSpace(current.Text)
				if current.Text != "" {
					blocks = append(blocks, *current)
				}
				current = nil
			}
		}

		for _, line := range page.Lines {
			text := strings.TrimSpace(line.Text)
			if text == "" {
				continue
			}

			if current == nil || s.breaksBlock(current, lastTop, line.Top, line.FontSize, text) {
				flush()
				current = &TextBlock{
					Page:     page.Number,
					Text:     text,
					FontSize: line.FontSize,
					Bold:     line.Bold,
					Lines:    1,
				}
			} else {
				current.Text += " " + text
				current.Lines++
				// A block is only bold if every line in it is.
				current.Bold = current.Bold && line.Bold
			}
			lastTop = line.Top
		}
		flush()
	}

	return graph.Values{KeyParagraphs: blocks}, nil
}

// breaksBlock decides whether a line starts a new block.
func (s *Paragraphize) breaksBlock(current *TextBlock, lastTop, top, fontSize float64, text string) bool {
	if isBullet(text) {
		// Bullets continue the block when it introduces a list with ":".
		if s.groupBullets && (strings.HasSuffix(current.Text, ":") || isBullet(lastLine(current.Text))) {
			return false
		}
		return true
	}

	if fontSize > 0 && current.FontSize > 0 {
		delta := fontSize - current.FontSize
		if delta > 0.5 || delta < -0.5 {
			return true
		}
	}

	// A vertical gap well beyond normal leading separates paragraphs. Lines
	// without geometry never break on distance.
	if top > 0 && lastTop > 0 {
		leading := current.FontSize
		if leading <= 0 {
			leading = 11
		}
		if top-lastTop > 1.8*leading {
			return true
		}
	}

	return false
}

// lastLine returns the text after the final bullet already merged into the
// block, so consecutive bullets keep grouping.
func lastLine(text string) string {
	for i := len(bulletPrefixes) - 1; i >= 0; i-- {
		if idx := strings.LastIndex(text, bulletPrefixes[i]); idx >= 0 {
			return text[idx:]
		}
	}
	return ""
}
