package writer

import (
	"encoding/json"
	"io"

	"github.com/42maru-ai/prospector/internal/document"
)

// JSON renders a document as a JSON object with a content array. Tables keep
// their HTML body, matching the historical format consumers already parse.
type JSON struct {
	// Pretty indents the output.
	Pretty bool
}

func (JSON) Extension() string { return "json" }

func (j JSON) Write(w io.Writer, doc *document.Document) error {
	content := make([]map[string]any, 0, len(doc.Content))
	for _, el := range doc.Content {
		switch e := el.(type) {
		case document.Title:
			content = append(content, map[string]any{
				"title": e.Text, "level": e.Level, "page": e.Page,
			})
		case document.Paragraph:
			content = append(content, map[string]any{
				"paragraph": e.Text, "page": e.Page,
			})
		case document.Table:
			content = append(content, map[string]any{
				"table": elementHTML(e), "page": e.Page,
			})
		case document.Image:
			content = append(content, map[string]any{
				"image": e.Path, "width": e.Width, "height": e.Height, "page": e.Page,
			})
		}
	}

	payload := map[string]any{
		"title":      doc.Name,
		"searchable": doc.Searchable,
		"content":    content,
	}

	enc := json.NewEncoder(w)
	if j.Pretty {
		enc.SetIndent("", "    ")
	}
	return enc.Encode(payload)
}
