package stages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/42maru-ai/prospector/internal/graph"
	"github.com/42maru-ai/prospector/internal/pdf"
)

func textPage(number int, lines ...string) pdf.Page {
	p := pdf.Page{Number: number, Width: 600, Height: 800}
	for _, l := range lines {
		p.Lines = append(p.Lines, pdf.Line{Text: l})
	}
	return p
}

func runStage(t *testing.T, s graph.Stage, in graph.Values) graph.Values {
	t.Helper()
	out, err := s.Run(context.Background(), in)
	require.NoError(t, err)
	return out
}

func outPages(t *testing.T, v graph.Values, key string) []pdf.Page {
	t.Helper()
	pages, ok := v[key].([]pdf.Page)
	require.True(t, ok, "output %q is %T", key, v[key])
	return pages
}

func TestRemoveLandscapePagesBlanksWithoutRenumbering(t *testing.T) {
	wide := pdf.Page{Number: 1, Width: 800, Height: 600,
		Lines: []pdf.Line{{Text: "rotated table"}}}
	in := []pdf.Page{textPage(0, "portrait text"), wide, textPage(2, "more text")}

	out := runStage(t, NewRemoveLandscapePages(), graph.Values{KeyRawPages: in})
	pages := outPages(t, out, KeyPortrait)

	require.Len(t, pages, 3)
	assert.NotEmpty(t, pages[0].Lines)
	assert.Empty(t, pages[1].Lines)
	assert.Equal(t, 1, pages[1].Number)
	assert.NotEmpty(t, pages[2].Lines)

	// The input pages are untouched.
	assert.NotEmpty(t, in[1].Lines)
}

func TestRemoveContentTableBlanksTOCAndEverythingBefore(t *testing.T) {
	in := []pdf.Page{
		textPage(0, "Cover page", "ACME Corp"),
		textPage(1, "Table of Contents", "1. Introduction ......... 3", "2. Results ......... 7"),
		textPage(2, "Introduction", "This chapter explains the setting."),
	}

	out := runStage(t, NewRemoveContentTable(), graph.Values{KeyPortrait: in})
	pages := outPages(t, out, KeyNoTOC)

	require.Len(t, pages, 3)
	assert.Empty(t, pages[0].Lines, "pages before the TOC go with it")
	assert.Empty(t, pages[1].Lines)
	assert.NotEmpty(t, pages[2].Lines)
}

func TestRemoveContentTableSpansMultiplePages(t *testing.T) {
	in := []pdf.Page{
		textPage(0, "Contents", "Chapter one ... 2", "Chapter two ... 9"),
		textPage(1, "Chapter three ... 14", "Chapter four ... 21"),
		textPage(2, "Chapter One", "Body text without trailing numbers."),
	}

	out := runStage(t, NewRemoveContentTable(), graph.Values{KeyPortrait: in})
	pages := outPages(t, out, KeyNoTOC)

	assert.Empty(t, pages[0].Lines)
	assert.Empty(t, pages[1].Lines)
	assert.NotEmpty(t, pages[2].Lines)
}

func TestRemoveContentTableWithoutTOCKeepsEverything(t *testing.T) {
	in := []pdf.Page{
		textPage(0, "Plain opening page."),
		textPage(1, "More plain text."),
	}

	out := runStage(t, NewRemoveContentTable(), graph.Values{KeyPortrait: in})
	pages := outPages(t, out, KeyNoTOC)

	assert.NotEmpty(t, pages[0].Lines)
	assert.NotEmpty(t, pages[1].Lines)
}

func TestMarkSearchablePages(t *testing.T) {
	imageOnly := pdf.Page{Number: 1, Width: 600, Height: 800, HasImages: true}
	in := []pdf.Page{textPage(0, "real text"), imageOnly}

	out := runStage(t, NewMarkSearchablePages(), graph.Values{KeyNoTOC: in})
	pages := outPages(t, out, KeyVisible)

	assert.True(t, out[KeySearchable].(bool))
	assert.NotEmpty(t, pages[0].Lines)
	assert.Empty(t, pages[1].Lines)
}

func TestMarkSearchablePagesAllImages(t *testing.T) {
	in := []pdf.Page{
		{Number: 0, Width: 600, Height: 800, HasImages: true},
		{Number: 1, Width: 600, Height: 800, HasImages: true},
	}

	out := runStage(t, NewMarkSearchablePages(), graph.Values{KeyNoTOC: in})
	assert.False(t, out[KeySearchable].(bool))
}

func TestStripMath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"a ± b ÷ c", "a  b  c"},
		{"x → y", "x  y"},
		{"∀x ∈ S: ∑ f(x)", "x  S:  f(x)"},
		{"5 < 10 and x = y + 1", "5 < 10 and x = y + 1"},
		{"a | b ~ c", "a | b ~ c"},
		{"no math at all", "no math at all"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, stripMath(c.in), "input %q", c.in)
	}
}

func TestRemoveEmptyLines(t *testing.T) {
	in := []pdf.Page{{Number: 0, Width: 600, Height: 800, Lines: []pdf.Line{
		{Text: "keep me"},
		{Text: "   "},
		{Text: ""},
		{Text: "\t"},
		{Text: "and me"},
	}}}

	out := runStage(t, NewRemoveEmptyLines(), graph.Values{KeyNoMath: in})
	pages := outPages(t, out, KeyNonEmpty)

	require.Len(t, pages[0].Lines, 2)
	assert.Equal(t, "keep me", pages[0].Lines[0].Text)
	assert.Equal(t, "and me", pages[0].Lines[1].Text)
}

func TestStageRejectsMissingAndMistypedInput(t *testing.T) {
	s := NewRemoveLandscapePages()

	_, err := s.Run(context.Background(), graph.Values{})
	require.Error(t, err)

	_, err = s.Run(context.Background(), graph.Values{KeyRawPages: "not pages"})
	require.Error(t, err)
}
