package writer

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/42maru-ai/prospector/internal/document"
)

// HTML renders a document as a standalone HTML page: titles as h1..h6 by
// level, paragraphs as p, tables as plain bordered tables. Every element
// carries its source page in a data-page attribute.
type HTML struct {
	// Pretty adds newlines between top level elements.
	Pretty bool
}

func (HTML) Extension() string { return "html" }

func (h HTML) Write(w io.Writer, doc *document.Document) error {
	var sb strings.Builder
	sep := ""
	if h.Pretty {
		sep = "\n"
	}

	sb.WriteString("<html>")
	sb.WriteString(sep)
	fmt.Fprintf(&sb, "<head><title>%s</title></head>", html.EscapeString(doc.Name))
	sb.WriteString(sep)
	sb.WriteString("<body>")
	sb.WriteString(sep)

	for _, el := range doc.Content {
		writeElementHTML(&sb, el)
		sb.WriteString(sep)
	}

	sb.WriteString("</body>")
	sb.WriteString(sep)
	sb.WriteString("</html>")
	sb.WriteString(sep)

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeElementHTML(sb *strings.Builder, el document.Element) {
	switch e := el.(type) {
	case document.Title:
		if e.Level < 6 {
			fmt.Fprintf(sb, `<h%d data-page="%d">%s</h%d>`,
				e.Level+1, e.Page, html.EscapeString(e.Text), e.Level+1)
		} else {
			// Deeper levels than h6 fall back to an annotated paragraph.
			fmt.Fprintf(sb, `<p data-page="%d" data-level="%d">%s</p>`,
				e.Page, e.Level+1, html.EscapeString(e.Text))
		}
	case document.Paragraph:
		fmt.Fprintf(sb, `<p data-page="%d">%s</p>`, e.Page, html.EscapeString(e.Text))
	case document.Table:
		fmt.Fprintf(sb, `<table border="1" cellspacing="0" data-page="%d">`, e.Page)
		for _, row := range e.Cells {
			sb.WriteString("<tr>")
			for _, cell := range row {
				fmt.Fprintf(sb, "<td>%s</td>", html.EscapeString(cell))
			}
			sb.WriteString("</tr>")
		}
		sb.WriteString("</table>")
	case document.Image:
		fmt.Fprintf(sb, `<img src="%s" width="%d" height="%d" data-page="%d"/>`,
			html.EscapeString(e.Path), e.Width, e.Height, e.Page)
	}
}

// elementHTML renders a single element, used by the JSON serializer for
// table bodies.
func elementHTML(el document.Element) string {
	var sb strings.Builder
	writeElementHTML(&sb, el)
	return sb.String()
}
