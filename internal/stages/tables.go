package stages

import (
	"context"
	"regexp"
	"strings"

	"github.com/42maru-ai/prospector/internal/document"
	"github.com/42maru-ai/prospector/internal/graph"
	"github.com/42maru-ai/prospector/internal/pdf"
)

// DetectTables pre-detects tabular regions from the text layout and parses
// them into cell grids, removing the matched lines from the prose stream.
//
// Detection is purely structural: a run of consecutive lines that all break
// into two or more columns at wide gaps, with stable column counts, is a
// table. Tables that continue across a page break are merged when their
// column counts line up.
type DetectTables struct {
	enabled bool
	// minRows is the smallest run of columnar lines accepted as a table.
	minRows int
}

// NewDetectTables builds the table detection stage. When disabled, the prose
// stream passes through and no tables are emitted.
func NewDetectTables(enabled bool) *DetectTables {
	return &DetectTables{enabled: enabled, minRows: 2}
}

func (s *DetectTables) Name() string      { return "tables" }
func (s *DetectTables) Inputs() []string  { return []string{KeyOrdered} }
func (s *DetectTables) Outputs() []string { return []string{KeyProse, KeyTables} }

var columnGap = regexp.MustCompile(`\s{2,}|\t+`)

func (s *DetectTables) Run(ctx context.Context, in graph.Values) (graph.Values, error) {
	pages, err := pagesInput(in, KeyOrdered)
	if err != nil {
		return nil, err
	}
	out := pdf.ClonePages(pages)

	if !s.enabled {
		return graph.Values{KeyProse: out, KeyTables: []document.Table{}}, nil
	}

	var tables []document.Table
	for i := range out {
		pageTables, prose := s.extractFromPage(out[i])
		tables = append(tables, pageTables...)
		out[i].Lines = prose
	}

	tables = mergeSuccessive(tables)

	return graph.Values{KeyProse: out, KeyTables: tables}, nil
}

// extractFromPage splits one page into detected tables and remaining prose
// lines.
func (s *DetectTables) extractFromPage(page pdf.Page) ([]document.Table, []pdf.Line) {
	var (
		tables []document.Table
		prose  []pdf.Line
		run    [][]string
	)

	flush := func() {
		if len(run) >= s.minRows {
			cells := make([][]string, len(run))
			copy(cells, run)
			tables = append(tables, document.Table{Page: page.Number, Cells: cells})
		} else {
			// Too short to be a table: the run was prose after all, but the
			// original lines were already consumed, so rebuild them.
			for _, row := range run {
				prose = append(prose, pdf.Line{Text: strings.Join(row, "  ")})
			}
		}
		run = nil
	}

	for _, line := range page.Lines {
		cells := splitColumns(line.Text)
		switch {
		case len(cells) >= 2 && (len(run) == 0 || columnsCompatible(run[len(run)-1], cells)):
			run = append(run, cells)
		case len(cells) >= 2:
			flush()
			run = append(run, cells)
		default:
			flush()
			prose = append(prose, line)
		}
	}
	flush()

	return tables, prose
}

// splitColumns breaks a line at wide gaps.
func splitColumns(text string) []string {
	parts := columnGap.Split(strings.TrimSpace(text), -1)
	cells := parts[:0]
	for _, p := range parts {
		if p != "" {
			cells = append(cells, p)
		}
	}
	return cells
}

// columnsCompatible accepts rows whose column counts differ by at most one,
// tolerating merged or empty cells.
func columnsCompatible(prev, next []string) bool {
	diff := len(prev) - len(next)
	if diff < 0 {
		diff = -diff
	}
	return diff <= 1
}

// mergeSuccessive joins a table ending one page with a compatible table
// opening the next: page breaks routinely split one logical table in two.
func mergeSuccessive(tables []document.Table) []document.Table {
	if len(tables) < 2 {
		return tables
	}

	merged := tables[:1]
	for _, t := range tables[1:] {
		last := &merged[len(merged)-1]
		if t.Page == last.Page+1 && sameWidth(*last, t) {
			last.Cells = append(last.Cells, t.Cells...)
			continue
		}
		merged = append(merged, t)
	}
	return merged
}

func sameWidth(a, b document.Table) bool {
	if len(a.Cells) == 0 || len(b.Cells) == 0 {
		return false
	}
	return len(a.Cells[len(a.Cells)-1]) == len(b.Cells[0])
}
