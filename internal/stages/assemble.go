package stages

import (
	"context"
	"sort"

	"github.com/42maru-ai/prospector/internal/document"
	"github.com/42maru-ai/prospector/internal/graph"
)

// Assemble builds the final document from the outline, the detected tables
// and the rendered images, interleaved in page order. Within a page, text
// keeps its reading order, tables follow the text, images come last.
type Assemble struct{}

// NewAssemble builds the assembly stage.
func NewAssemble() *Assemble { return &Assemble{} }

func (s *Assemble) Name() string { return "assemble" }

func (s *Assemble) Inputs() []string {
	return []string{KeyDocName, KeySearchable, KeyOutline, KeyTables, KeyImages}
}

func (s *Assemble) Outputs() []string { return []string{KeyDocument} }

func (s *Assemble) Run(ctx context.Context, in graph.Values) (graph.Values, error) {
	name, err := stringInput(in, KeyDocName)
	if err != nil {
		return nil, err
	}

	searchable, ok := in[KeySearchable].(bool)
	if !ok {
		return nil, wrongType(KeySearchable, in[KeySearchable], "bool")
	}
	outline, ok := in[KeyOutline].([]document.Element)
	if !ok {
		return nil, wrongType(KeyOutline, in[KeyOutline], "[]document.Element")
	}
	tables, ok := in[KeyTables].([]document.Table)
	if !ok {
		return nil, wrongType(KeyTables, in[KeyTables], "[]document.Table")
	}
	images, ok := in[KeyImages].([]document.Image)
	if !ok {
		return nil, wrongType(KeyImages, in[KeyImages], "[]document.Image")
	}

	type ordered struct {
		page int
		rank int // 0 text, 1 table, 2 image
		seq  int
		el   document.Element
	}

	items := make([]ordered, 0, len(outline)+len(tables)+len(images))
	for i, el := range outline {
		items = append(items, ordered{page: elementPage(el), rank: 0, seq: i, el: el})
	}
	for i, t := range tables {
		items = append(items, ordered{page: t.Page, rank: 1, seq: i, el: t})
	}
	for i, img := range images {
		items = append(items, ordered{page: img.Page, rank: 2, seq: i, el: img})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].page != items[j].page {
			return items[i].page < items[j].page
		}
		if items[i].rank != items[j].rank {
			return items[i].rank < items[j].rank
		}
		return items[i].seq < items[j].seq
	})

	content := make([]document.Element, len(items))
	for i, it := range items {
		content[i] = it.el
	}

	doc := &document.Document{
		Name:       name,
		Searchable: searchable,
		Content:    content,
	}
	return graph.Values{KeyDocument: doc}, nil
}

func elementPage(el document.Element) int {
	switch e := el.(type) {
	case document.Title:
		return e.Page
	case document.Paragraph:
		return e.Page
	case document.Table:
		return e.Page
	case document.Image:
		return e.Page
	default:
		return 0
	}
}
