package stages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/42maru-ai/prospector/internal/document"
	"github.com/42maru-ai/prospector/internal/graph"
	"github.com/42maru-ai/prospector/internal/pdf"
)

func TestSplitColumns(t *testing.T) {
	assert.Equal(t, []string{"Name", "Age"}, splitColumns("Name   Age"))
	assert.Equal(t, []string{"Name", "Age"}, splitColumns("Name\tAge"))
	assert.Equal(t, []string{"one cell only"}, splitColumns("one cell only"))
	assert.Equal(t, []string{"a", "b", "c"}, splitColumns("  a  b\t\tc  "))
	assert.Empty(t, splitColumns("   "))
}

func TestDetectTablesExtractsColumnarRuns(t *testing.T) {
	in := []pdf.Page{textPage(0,
		"Quarterly results are shown below.",
		"Quarter   Revenue   Margin",
		"Q1        10.5      12%",
		"Q2        11.2      13%",
		"The trend continued through summer.",
	)}

	out := runStage(t, NewDetectTables(true), graph.Values{KeyOrdered: in})

	tables, ok := out[KeyTables].([]document.Table)
	require.True(t, ok)
	require.Len(t, tables, 1)
	assert.Equal(t, 0, tables[0].Page)
	require.Len(t, tables[0].Cells, 3)
	assert.Equal(t, []string{"Quarter", "Revenue", "Margin"}, tables[0].Cells[0])
	assert.Equal(t, []string{"Q2", "11.2", "13%"}, tables[0].Cells[2])

	prose := outPages(t, out, KeyProse)
	require.Len(t, prose[0].Lines, 2)
	assert.Contains(t, prose[0].Lines[0].Text, "Quarterly results")
	assert.Contains(t, prose[0].Lines[1].Text, "trend continued")
}

func TestDetectTablesShortRunStaysProse(t *testing.T) {
	in := []pdf.Page{textPage(0,
		"Intro line.",
		"left   right",
		"Closing line.",
	)}

	s := NewDetectTables(true)
	out := runStage(t, s, graph.Values{KeyOrdered: in})

	tables := out[KeyTables].([]document.Table)
	assert.Empty(t, tables)

	prose := outPages(t, out, KeyProse)
	assert.Len(t, prose[0].Lines, 3)
}

func TestDetectTablesMergesAcrossPageBreak(t *testing.T) {
	in := []pdf.Page{
		textPage(0,
			"Item   Count",
			"bolts  12",
		),
		textPage(1,
			"nuts   7",
			"screws   31",
		),
	}

	out := runStage(t, NewDetectTables(true), graph.Values{KeyOrdered: in})

	tables := out[KeyTables].([]document.Table)
	require.Len(t, tables, 1)
	assert.Equal(t, 0, tables[0].Page)
	assert.Len(t, tables[0].Cells, 4)
}

func TestDetectTablesDoesNotMergeNonAdjacentPages(t *testing.T) {
	in := []pdf.Page{
		textPage(0, "a   1", "b   2"),
		textPage(2, "c   3", "d   4"),
	}

	out := runStage(t, NewDetectTables(true), graph.Values{KeyOrdered: in})

	tables := out[KeyTables].([]document.Table)
	assert.Len(t, tables, 2)
}

func TestDetectTablesDisabledPassesThrough(t *testing.T) {
	in := []pdf.Page{textPage(0,
		"Quarter   Revenue",
		"Q1        10.5",
		"Q2        11.2",
	)}

	out := runStage(t, NewDetectTables(false), graph.Values{KeyOrdered: in})

	tables := out[KeyTables].([]document.Table)
	assert.Empty(t, tables)

	prose := outPages(t, out, KeyProse)
	assert.Len(t, prose[0].Lines, 3)
}

func TestColumnsCompatibleToleratesOneCellDrift(t *testing.T) {
	assert.True(t, columnsCompatible([]string{"a", "b"}, []string{"c", "d", "e"}))
	assert.True(t, columnsCompatible([]string{"a", "b", "c"}, []string{"d", "e"}))
	assert.False(t, columnsCompatible([]string{"a", "b"}, []string{"c", "d", "e", "f"}))
}
