package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Pipeline.GroupBullets)
	assert.Greater(t, cfg.Batch.Concurrency, 0)
}

func TestLoadMissingPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pipeline:
  ocr: true
  ocr_language: kor
  tables: false
batch:
  concurrency: 4
  timeout: 90s
output:
  format: html
  dir: /tmp/out
logging:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Pipeline.OCR)
	assert.Equal(t, "kor", cfg.Pipeline.OCRLanguage)
	assert.False(t, cfg.Pipeline.Tables)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, 90*time.Second, cfg.Batch.Timeout)
	assert.Equal(t, "html", cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: xml\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.format")
}

func TestLoadRejectsUnreadableFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PROSPECTOR_LOG_LEVEL", "warn")
	t.Setenv("PROSPECTOR_CONCURRENCY", "2")
	t.Setenv("PROSPECTOR_TIMEOUT", "45s")
	t.Setenv("PROSPECTOR_OUTPUT_FORMAT", "html")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 2, cfg.Batch.Concurrency)
	assert.Equal(t, 45*time.Second, cfg.Batch.Timeout)
	assert.Equal(t, "html", cfg.Output.Format)
}

func TestValidateCatchesBadRanges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Batch.Concurrency = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Pipeline.ImageQuality = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Pipeline.OCR = true
	cfg.Pipeline.OCRLanguage = ""
	assert.Error(t, cfg.Validate())
}
