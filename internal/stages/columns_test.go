package stages

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/42maru-ai/prospector/internal/graph"
	"github.com/42maru-ai/prospector/internal/pdf"
)

func geoLine(text string, top, left float64) pdf.Line {
	return pdf.Line{Text: text, Top: top, Left: left, FontSize: 10}
}

const fullWidthText = "A full width heading that spans the whole page from edge to edge"

func TestReorderColumnsReadsLeftColumnFirst(t *testing.T) {
	page := pdf.Page{Number: 0, Width: 600, Height: 800, Lines: []pdf.Line{
		geoLine("left first", 100, 50),
		geoLine("right first", 100, 320),
		geoLine("left second", 120, 50),
		geoLine("right second", 120, 320),
		geoLine(fullWidthText, 200, 50),
	}}

	out := runStage(t, NewReorderColumns(), graph.Values{KeyText: []pdf.Page{page}})
	got := outPages(t, out, KeyOrdered)

	var texts []string
	for _, l := range got[0].Lines {
		texts = append(texts, l.Text)
	}
	assert.Equal(t, []string{
		"left first", "left second",
		"right first", "right second",
		fullWidthText,
	}, texts)
}

func TestReorderColumnsKeepsFullWidthLinesInPlace(t *testing.T) {
	page := pdf.Page{Number: 0, Width: 600, Height: 800, Lines: []pdf.Line{
		geoLine(fullWidthText, 50, 50),
		geoLine("right upper", 80, 320),
		geoLine("left upper", 100, 50),
		geoLine(fullWidthText, 200, 50),
		geoLine("right lower", 230, 320),
		geoLine("left lower", 250, 50),
	}}

	out := runStage(t, NewReorderColumns(), graph.Values{KeyText: []pdf.Page{page}})
	got := outPages(t, out, KeyOrdered)

	var texts []string
	for _, l := range got[0].Lines {
		texts = append(texts, l.Text)
	}
	assert.Equal(t, []string{
		fullWidthText,
		"left upper", "right upper",
		fullWidthText,
		"left lower", "right lower",
	}, texts)
}

func TestReorderColumnsMergesSameHeightFragments(t *testing.T) {
	page := pdf.Page{Number: 0, Width: 600, Height: 800, Lines: []pdf.Line{
		geoLine("Figure 1:", 100, 50),
		geoLine("overview", 100, 110),
	}}

	out := runStage(t, NewReorderColumns(), graph.Values{KeyText: []pdf.Page{page}})
	got := outPages(t, out, KeyOrdered)

	assert.Len(t, got[0].Lines, 1)
	assert.Equal(t, "Figure 1: overview", got[0].Lines[0].Text)
}

func TestReorderColumnsKeepsColumnarFragmentsSplit(t *testing.T) {
	page := pdf.Page{Number: 0, Width: 600, Height: 800, Lines: []pdf.Line{
		geoLine("left cell", 100, 50),
		geoLine("right cell", 100, 320),
	}}

	out := runStage(t, NewReorderColumns(), graph.Values{KeyText: []pdf.Page{page}})
	got := outPages(t, out, KeyOrdered)

	assert.Len(t, got[0].Lines, 2)
}

func TestReorderColumnsLeavesLinesWithoutGeometryAlone(t *testing.T) {
	in := []pdf.Page{textPage(0, "first", "second", "third")}

	out := runStage(t, NewReorderColumns(), graph.Values{KeyText: in})
	got := outPages(t, out, KeyOrdered)

	var texts []string
	for _, l := range got[0].Lines {
		texts = append(texts, l.Text)
	}
	assert.Equal(t, []string{"first", "second", "third"}, texts)
}

func TestReorderColumnsSingleColumnPageUnchanged(t *testing.T) {
	page := pdf.Page{Number: 0, Width: 600, Height: 800, Lines: []pdf.Line{
		geoLine(fullWidthText, 100, 50),
		geoLine(fullWidthText, 120, 50),
	}}

	out := runStage(t, NewReorderColumns(), graph.Values{KeyText: []pdf.Page{page}})
	got := outPages(t, out, KeyOrdered)

	assert.Len(t, got[0].Lines, 2)
	assert.Equal(t, float64(100), got[0].Lines[0].Top)
}

func TestReorderColumnsMissingInput(t *testing.T) {
	_, err := NewReorderColumns().Run(t.Context(), graph.Values{})
	assert.Error(t, err)
}
