// Package stages contains the built-in digging stages: PDF normalization and
// page extraction, page-level cleanup, OCR, table and title detection,
// paragraph grouping, page rendering and final document assembly.
//
// Every stage implements graph.Stage with fixed read-only configuration, so
// one stage instance can serve any number of concurrent documents.
package stages

import (
	"fmt"

	"github.com/42maru-ai/prospector/internal/engine"
	"github.com/42maru-ai/prospector/internal/graph"
	"github.com/42maru-ai/prospector/internal/pdf"
)

// Data keys flowing between the built-in stages.
const (
	KeySource     = engine.SeedPath
	KeyPDFPath    = "pdf.path"
	KeyDocName    = "doc.name"
	KeyRawPages   = "pdf.pages"
	KeyMetadata   = "pdf.meta"
	KeyPortrait   = "pages.portrait"
	KeyNoTOC      = "pages.notoc"
	KeyVisible    = "pages.visible"
	KeySearchable = "doc.searchable"
	KeyNoMath     = "pages.nomath"
	KeyNonEmpty   = "pages.nonempty"
	KeyBody       = "pages.body"
	KeyText       = "pages.text"
	KeyOrdered    = "pages.ordered"
	KeyProse      = "pages.prose"
	KeyTables     = "doc.tables"
	KeyParagraphs = "doc.paragraphs"
	KeyOutline    = "doc.outline"
	KeyImages     = "doc.images"
	KeyDocument   = "doc"
)

func missingInput(key string) error {
	return fmt.Errorf("missing input %q", key)
}

func wrongType(key string, got any, want string) error {
	return fmt.Errorf("input %q is %T, want %s", key, got, want)
}

// pagesInput pulls a typed page slice out of the stage inputs.
func pagesInput(in graph.Values, key string) ([]pdf.Page, error) {
	v, ok := in[key]
	if !ok {
		return nil, missingInput(key)
	}
	pages, ok := v.([]pdf.Page)
	if !ok {
		return nil, wrongType(key, v, "[]pdf.Page")
	}
	return pages, nil
}

// stringInput pulls a typed string out of the stage inputs.
func stringInput(in graph.Values, key string) (string, error) {
	v, ok := in[key]
	if !ok {
		return "", missingInput(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(key, v, "string")
	}
	return s, nil
}
