package stages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/42maru-ai/prospector/internal/graph"
	"github.com/42maru-ai/prospector/internal/pdf"
)

func TestFoldLine(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Page 3", "Page <#>"},
		{"Page 17", "Page <#>"},
		{"Page I7", "Page <#>"},
		{"Confidential   Report", "Conf<#>dent<#>a<#> Report"},
		{"Ill", "<#>"},
		{"   ", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, foldLine(c.in), "input %q", c.in)
	}
}

func TestFoldLineMatchesVaryingPageNumbers(t *testing.T) {
	assert.Equal(t, foldLine("Page 1"), foldLine("Page 42"))
	assert.Equal(t, foldLine("3 / 120"), foldLine("99 / 120"))
	assert.NotEqual(t, foldLine("Chapter notes"), foldLine("Page 42"))
}

func headerPage(number int, header, body, footer string) pdf.Page {
	return pdf.Page{Number: number, Width: 600, Height: 800, Lines: []pdf.Line{
		{Text: header, Top: 40},
		{Text: body, Top: 400},
		{Text: footer, Top: 770},
	}}
}

func TestRemoveHeaderFooterStripsRepeatedMarginLines(t *testing.T) {
	in := []pdf.Page{
		headerPage(0, "ACME Annual Report", "First page body text.", "Page 1"),
		headerPage(1, "ACME Annual Report", "Second page body text.", "Page 2"),
		headerPage(2, "ACME Annual Report", "Third page body text.", "Page 3"),
	}

	out := runStage(t, NewRemoveHeaderFooter(), graph.Values{KeyNonEmpty: in})
	pages := outPages(t, out, KeyBody)

	for i, page := range pages {
		require.Len(t, page.Lines, 1, "page %d", i)
		assert.Contains(t, page.Lines[0].Text, "body text")
	}
}

func TestRemoveHeaderFooterKeepsUniqueMarginLines(t *testing.T) {
	in := []pdf.Page{
		headerPage(0, "Chapter One", "Body.", "Page 1"),
		headerPage(1, "Chapter Two", "Body.", "Page 2"),
		headerPage(2, "Chapter Three", "Body.", "Page 3"),
	}

	out := runStage(t, NewRemoveHeaderFooter(), graph.Values{KeyNonEmpty: in})
	pages := outPages(t, out, KeyBody)

	// Page numbers repeat after folding and go; the chapter headers differ
	// and stay.
	for i, page := range pages {
		require.Len(t, page.Lines, 2, "page %d", i)
		assert.Contains(t, page.Lines[0].Text, "Chapter")
	}
}

func TestRemoveHeaderFooterIgnoresBodyZoneRepeats(t *testing.T) {
	page := func(n int) pdf.Page {
		return pdf.Page{Number: n, Width: 600, Height: 800, Lines: []pdf.Line{
			{Text: "repeated mid-page warning", Top: 400},
			{Text: "unique body line", Top: 430},
		}}
	}
	in := []pdf.Page{page(0), page(1), page(2)}

	out := runStage(t, NewRemoveHeaderFooter(), graph.Values{KeyNonEmpty: in})
	pages := outPages(t, out, KeyBody)

	for _, p := range pages {
		assert.Len(t, p.Lines, 2)
	}
}

func TestRemoveHeaderFooterSinglePageKeepsAll(t *testing.T) {
	in := []pdf.Page{headerPage(0, "Header", "Body.", "Page 1")}

	out := runStage(t, NewRemoveHeaderFooter(), graph.Values{KeyNonEmpty: in})
	pages := outPages(t, out, KeyBody)

	assert.Len(t, pages[0].Lines, 3)
}

func TestRemoveHeaderFooterLinesWithoutGeometrySurvive(t *testing.T) {
	page := func(n int) pdf.Page {
		return pdf.Page{Number: n, Width: 600, Height: 800, Lines: []pdf.Line{
			{Text: "Page 9"}, // no Top set
			{Text: "body", Top: 400},
		}}
	}
	in := []pdf.Page{page(0), page(1)}

	out := runStage(t, NewRemoveHeaderFooter(), graph.Values{KeyNonEmpty: in})
	pages := outPages(t, out, KeyBody)

	for _, p := range pages {
		assert.Len(t, p.Lines, 2)
	}
}
