package stages

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/42maru-ai/prospector/internal/graph"
	"github.com/42maru-ai/prospector/internal/pdf"
)

// RemoveLandscapePages blanks pages wider than tall. Landscape pages are
// almost always rotated tables or diagrams that the text heuristics would
// mangle; blanking instead of deleting keeps page numbering intact.
type RemoveLandscapePages struct{}

func NewRemoveLandscapePages() *RemoveLandscapePages { return &RemoveLandscapePages{} }

func (s *RemoveLandscapePages) Name() string      { return "landscape" }
func (s *RemoveLandscapePages) Inputs() []string  { return []string{KeyRawPages} }
func (s *RemoveLandscapePages) Outputs() []string { return []string{KeyPortrait} }

func (s *RemoveLandscapePages) Run(ctx context.Context, in graph.Values) (graph.Values, error) {
	pages, err := pagesInput(in, KeyRawPages)
	if err != nil {
		return nil, err
	}

	out := pdf.ClonePages(pages)
	for i := range out {
		if out[i].Landscape() {
			out[i].Lines = nil
		}
	}
	return graph.Values{KeyPortrait: out}, nil
}

// RemoveContentTable blanks table-of-contents pages, together with anything
// before the first one: documents usually start for real after the TOC.
//
// A TOC starts at a page holding a contents-like title and extends while most
// lines end with a page number.
type RemoveContentTable struct {
	// ratio is the share of lines that must end in a digit for a page to
	// still count as TOC content.
	ratio float64
}

func NewRemoveContentTable() *RemoveContentTable {
	return &RemoveContentTable{ratio: 0.6}
}

func (s *RemoveContentTable) Name() string      { return "toc" }
func (s *RemoveContentTable) Inputs() []string  { return []string{KeyPortrait} }
func (s *RemoveContentTable) Outputs() []string { return []string{KeyNoTOC} }

var (
	tocEndsWithDigit = regexp.MustCompile(`\d\s*$`)
	tocNonWord       = regexp.MustCompile(`[\W_]+`)
)

var tocTitles = map[string]struct{}{
	"content":         {},
	"contents":        {},
	"tableofcontent":  {},
	"tableofcontents": {},
}

func (s *RemoveContentTable) Run(ctx context.Context, in graph.Values) (graph.Values, error) {
	pages, err := pagesInput(in, KeyPortrait)
	if err != nil {
		return nil, err
	}
	out := pdf.ClonePages(pages)

	type span struct{ start, end int }
	var (
		tocs     []span
		tocStart = -1
	)
	for i, page := range out {
		if tocStart < 0 && hasTOCTitle(page) {
			tocStart = i
		}
		if tocStart >= 0 && !s.looksLikeTOCContent(page) && i > tocStart {
			tocs = append(tocs, span{start: tocStart, end: i})
			tocStart = -1
		}
	}
	if tocStart >= 0 {
		tocs = append(tocs, span{start: tocStart, end: tocStart + 1})
	}

	if len(tocs) > 0 {
		// Everything before the first TOC goes with it.
		tocs[0].start = 0
	}
	for _, t := range tocs {
		for i := t.start; i < t.end && i < len(out); i++ {
			out[i].Lines = nil
		}
	}

	return graph.Values{KeyNoTOC: out}, nil
}

func hasTOCTitle(page pdf.Page) bool {
	for _, line := range page.Lines {
		normalized := strings.ToLower(tocNonWord.ReplaceAllString(line.Text, ""))
		if _, ok := tocTitles[normalized]; ok {
			return true
		}
	}
	return false
}

func (s *RemoveContentTable) looksLikeTOCContent(page pdf.Page) bool {
	var total, digitEnding int
	for _, line := range page.Lines {
		if strings.TrimSpace(line.Text) == "" {
			continue
		}
		total++
		if tocEndsWithDigit.MatchString(line.Text) {
			digitEnding++
		}
	}
	if total == 0 {
		return false
	}
	return float64(digitEnding)/float64(total) > s.ratio
}

// MarkSearchablePages blanks image-only pages and reports whether the
// document carries any text layer at all. Blanked pages keep their number so
// later stages, and the optional renderer, still see them.
type MarkSearchablePages struct{}

func NewMarkSearchablePages() *MarkSearchablePages { return &MarkSearchablePages{} }

func (s *MarkSearchablePages) Name() string      { return "searchable" }
func (s *MarkSearchablePages) Inputs() []string  { return []string{KeyNoTOC} }
func (s *MarkSearchablePages) Outputs() []string { return []string{KeyVisible, KeySearchable} }

func (s *MarkSearchablePages) Run(ctx context.Context, in graph.Values) (graph.Values, error) {
	pages, err := pagesInput(in, KeyNoTOC)
	if err != nil {
		return nil, err
	}
	out := pdf.ClonePages(pages)

	searchable := false
	for i := range out {
		if out[i].Searchable() {
			searchable = true
			continue
		}
		out[i].Lines = nil
	}

	return graph.Values{KeyVisible: out, KeySearchable: searchable}, nil
}

// RemoveMathCharacters strips mathematical symbols from every line. Formula
// fragments survive text extraction as stray operators that pollute
// paragraphs and titles.
type RemoveMathCharacters struct{}

func NewRemoveMathCharacters() *RemoveMathCharacters { return &RemoveMathCharacters{} }

func (s *RemoveMathCharacters) Name() string      { return "mathchars" }
func (s *RemoveMathCharacters) Inputs() []string  { return []string{KeyVisible} }
func (s *RemoveMathCharacters) Outputs() []string { return []string{KeyNoMath} }

func (s *RemoveMathCharacters) Run(ctx context.Context, in graph.Values) (graph.Values, error) {
	pages, err := pagesInput(in, KeyVisible)
	if err != nil {
		return nil, err
	}
	out := pdf.ClonePages(pages)

	for i := range out {
		for j := range out[i].Lines {
			out[i].Lines[j].Text = stripMath(out[i].Lines[j].Text)
		}
	}
	return graph.Values{KeyNoMath: out}, nil
}

func stripMath(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Sm, r) && r != '<' && r != '>' && r != '=' && r != '+' && r != '|' && r != '~' {
			return -1
		}
		switch {
		case r >= 0x2190 && r <= 0x21FF, // arrows
			r >= 0x2200 && r <= 0x22FF, // mathematical operators
			r >= 0x27C0 && r <= 0x27EF,
			r >= 0x2980 && r <= 0x29FF,
			r >= 0x2A00 && r <= 0x2AFF:
			return -1
		}
		return r
	}, s)
}

// RemoveEmptyLines drops lines that contain only whitespace.
type RemoveEmptyLines struct{}

func NewRemoveEmptyLines() *RemoveEmptyLines { return &RemoveEmptyLines{} }

func (s *RemoveEmptyLines) Name() string      { return "emptylines" }
func (s *RemoveEmptyLines) Inputs() []string  { return []string{KeyNoMath} }
func (s *RemoveEmptyLines) Outputs() []string { return []string{KeyNonEmpty} }

func (s *RemoveEmptyLines) Run(ctx context.Context, in graph.Values) (graph.Values, error) {
	pages, err := pagesInput(in, KeyNoMath)
	if err != nil {
		return nil, err
	}
	out := pdf.ClonePages(pages)

	for i := range out {
		kept := out[i].Lines[:0]
		for _, line := range out[i].Lines {
			if strings.TrimSpace(line.Text) != "" {
				kept = append(kept, line)
			}
		}
		out[i].Lines = kept
	}
	return graph.Values{KeyNonEmpty: out}, nil
}
