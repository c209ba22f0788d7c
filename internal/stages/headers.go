package stages

import (
	"context"
	"regexp"
	"strings"

	"github.com/42maru-ai/prospector/internal/graph"
	"github.com/42maru-ai/prospector/internal/pdf"
)

// RemoveHeaderFooter strips lines that repeat across pages inside the top and
// bottom margin zones: running titles, page numbers, confidentiality notices.
//
// Repetition is detected on a folded form of the text: digit runs collapse to
// a placeholder so "Page 3" and "Page 17" match, and the characters OCR most
// often confuses (1, I, i, L, l) fold together.
type RemoveHeaderFooter struct {
	// topMargin and bottomMargin are ratios of the page height defining the
	// zones where headers and footers may live.
	topMargin    float64
	bottomMargin float64
	// minShare is the fraction of candidate pages a folded line must appear
	// on to count as a header or footer.
	minShare float64
}

func NewRemoveHeaderFooter() *RemoveHeaderFooter {
	return &RemoveHeaderFooter{topMargin: 0.25, bottomMargin: 0.2, minShare: 0.5}
}

func (s *RemoveHeaderFooter) Name() string      { return "headerfooter" }
func (s *RemoveHeaderFooter) Inputs() []string  { return []string{KeyNonEmpty} }
func (s *RemoveHeaderFooter) Outputs() []string { return []string{KeyBody} }

var (
	digitRun   = regexp.MustCompile(`\d+`)
	confusable = regexp.MustCompile(`[1IiLl]`)
)

// foldLine normalizes a line for repetition matching.
func foldLine(s string) string {
	s = confusable.ReplaceAllString(s, "1")
	s = digitRun.ReplaceAllString(s, "<#>")
	return strings.Join(strings.Fields(s), " ")
}

func (s *RemoveHeaderFooter) Run(ctx context.Context, in graph.Values) (graph.Values, error) {
	pages, err := pagesInput(in, KeyNonEmpty)
	if err != nil {
		return nil, err
	}
	out := pdf.ClonePages(pages)

	// Count, per folded text, on how many pages it shows up inside a margin
	// zone. Pages blanked by earlier stages do not count as candidates.
	counts := make(map[string]int)
	candidates := 0
	for _, page := range out {
		if len(page.Lines) == 0 {
			continue
		}
		candidates++
		seen := make(map[string]struct{})
		for _, line := range page.Lines {
			if !s.inMarginZone(page, line) {
				continue
			}
			folded := foldLine(line.Text)
			if folded == "" {
				continue
			}
			if _, dup := seen[folded]; dup {
				continue
			}
			seen[folded] = struct{}{}
			counts[folded]++
		}
	}

	// A single page cannot establish repetition.
	if candidates < 2 {
		return graph.Values{KeyBody: out}, nil
	}

	threshold := float64(candidates) * s.minShare
	for i := range out {
		kept := out[i].Lines[:0]
		for _, line := range out[i].Lines {
			if s.inMarginZone(out[i], line) && float64(counts[foldLine(line.Text)]) >= threshold {
				continue
			}
			kept = append(kept, line)
		}
		out[i].Lines = kept
	}

	return graph.Values{KeyBody: out}, nil
}

// inMarginZone reports whether the line sits in the header or footer band.
// Lines without geometry are never treated as headers.
func (s *RemoveHeaderFooter) inMarginZone(page pdf.Page, line pdf.Line) bool {
	if page.Height <= 0 || line.Top <= 0 {
		return false
	}
	rel := line.Top / page.Height
	return rel <= s.topMargin || rel >= 1-s.bottomMargin
}
