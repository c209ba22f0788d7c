package pdf

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultCacheDir is where normalized copies of source PDFs are kept.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "prospector")
	}
	return filepath.Join(home, ".cache", "prospector")
}

// Normalize rewrites the source PDF into the cache directory under a
// content-addressed name and returns the new path. Running the bytes through
// MuPDF downstream tolerates files other tools choke on; normalizing into a
// private copy also keeps every run from touching the caller's file.
func Normalize(path, cacheDir string) (string, error) {
	if cacheDir == "" {
		cacheDir = DefaultCacheDir()
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create cache directory: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", path, err)
	}

	sum := sha256.Sum256(data)
	name := DocumentName(path) + "-" + hex.EncodeToString(sum[:])[:12] + ".pdf"
	normalPath := filepath.Join(cacheDir, name)

	if _, err := os.Stat(normalPath); err == nil {
		return normalPath, nil
	}

	if err := os.WriteFile(normalPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write normalized copy: %w", err)
	}
	return normalPath, nil
}

// DocumentName returns the base file name without extension.
func DocumentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
