// Package writer holds the serializer collaborators the batch pipeline hands
// completed documents to: HTML and JSON serialization, a directory sink and a
// SQLite sink.
//
// The engine never depends on any of this; sinks plug into the batch
// executor through its callback and serializers only consume the document
// model's public view.
package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/42maru-ai/prospector/internal/document"
	"github.com/42maru-ai/prospector/internal/engine"
)

// Serializer renders an assembled document into an output format.
type Serializer interface {
	// Extension is the file extension for the format, without the dot.
	Extension() string
	// Write renders the document to w.
	Write(w io.Writer, doc *document.Document) error
}

// ForFormat returns the serializer for a format name.
func ForFormat(format string) (Serializer, error) {
	switch format {
	case "html":
		return HTML{}, nil
	case "json":
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// Dir saves each successful record's document into a directory as
// <name>.<ext>. Failed records are counted and logged, never written.
type Dir struct {
	dir    string
	ser    Serializer
	logger zerolog.Logger

	mu       sync.Mutex
	failures int
}

// NewDir builds a directory sink. The directory is created if missing.
func NewDir(dir string, ser Serializer, logger zerolog.Logger) (*Dir, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Dir{dir: dir, ser: ser, logger: logger}, nil
}

// Consume implements the batch sink contract.
func (d *Dir) Consume(rec engine.Record) {
	if rec.Err != nil {
		d.fail()
		d.logger.Warn().Err(rec.Err).Str("input", rec.Input).Msg("skipping failed document")
		return
	}

	doc, ok := rec.Model.Document()
	if !ok {
		d.fail()
		d.logger.Warn().Str("input", rec.Input).Msg("record has no assembled document")
		return
	}

	path := filepath.Join(d.dir, doc.Name+"."+d.ser.Extension())
	f, err := os.Create(path)
	if err != nil {
		d.fail()
		d.logger.Error().Err(err).Str("path", path).Msg("cannot create output file")
		return
	}
	defer f.Close()

	if err := d.ser.Write(f, doc); err != nil {
		d.fail()
		d.logger.Error().Err(err).Str("path", path).Msg("serialization failed")
	}
}

func (d *Dir) fail() {
	d.mu.Lock()
	d.failures++
	d.mu.Unlock()
}

// Failures returns how many records could not be written.
func (d *Dir) Failures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.failures
}
