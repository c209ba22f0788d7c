package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFakePDF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake content"), 0o644))
	return path
}

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	pdfPath := writeFakePDF(t, dir, "ok.pdf")

	assert.NoError(t, ValidatePath(pdfPath))
	assert.Error(t, ValidatePath(""))
	assert.Error(t, ValidatePath("   "))
	assert.Error(t, ValidatePath(filepath.Join(dir, "missing.pdf")))
	assert.Error(t, ValidatePath(dir))

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o644))
	err := ValidatePath(txt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a PDF")
}

func TestNormalizeIsContentAddressedAndIdempotent(t *testing.T) {
	dir := t.TempDir()
	cache := t.TempDir()
	src := writeFakePDF(t, dir, "report.pdf")

	first, err := Normalize(src, cache)
	require.NoError(t, err)
	assert.Equal(t, cache, filepath.Dir(first))
	assert.Contains(t, filepath.Base(first), "report-")

	second, err := Normalize(src, cache)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Same content from a different name lands under a different base name
	// but the same hash suffix.
	other := writeFakePDF(t, dir, "copy.pdf")
	third, err := Normalize(other, cache)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestDocumentName(t *testing.T) {
	assert.Equal(t, "report", DocumentName("/tmp/report.pdf"))
	assert.Equal(t, "archive.2024", DocumentName("archive.2024.pdf"))
	assert.Equal(t, "plain", DocumentName("plain"))
}

func TestIsSearchableRejectsBadInputs(t *testing.T) {
	_, err := IsSearchable("")
	var perr *ProbeError
	require.ErrorAs(t, err, &perr)

	_, err = IsSearchable("/nonexistent/file.pdf")
	require.ErrorAs(t, err, &perr)
}
