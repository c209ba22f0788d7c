package pdf

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// parsePageHTML turns MuPDF's per-page HTML rendering into lines. MuPDF
// emits one <p> per text line with top/left offsets in its style attribute
// and <span> children carrying font-family/font-size; raster content shows
// up as <img> nodes.
func parsePageHTML(markup string) ([]Line, bool) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, false
	}

	var (
		lines     []Line
		hasImages bool
	)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "img":
				hasImages = true
			case "p":
				if line, ok := parseLineNode(n); ok {
					lines = append(lines, line)
				}
				return // spans are consumed by parseLineNode
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return lines, hasImages
}

// parseLineNode extracts one Line from a <p> node.
func parseLineNode(p *html.Node) (Line, bool) {
	line := Line{}
	style := attrValue(p, "style")
	line.Top = stylePoints(style, "top")
	line.Left = stylePoints(style, "left")

	var (
		sb       strings.Builder
		bestSize float64
		bestLen  int
	)

	var walk func(n *html.Node, bold bool, size float64)
	walk = func(n *html.Node, bold bool, size float64) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			if l := len(strings.TrimSpace(n.Data)); l > bestLen && size > 0 {
				bestLen = l
				bestSize = size
				line.Bold = bold
			}
		case html.ElementNode:
			switch n.Data {
			case "b", "strong":
				bold = true
			case "span":
				if s := stylePoints(attrValue(n, "style"), "font-size"); s > 0 {
					size = s
				}
			case "img":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, bold, size)
		}
	}
	walk(p, false, 0)

	line.Text = strings.TrimRight(sb.String(), "\n")
	line.FontSize = bestSize
	if strings.TrimSpace(line.Text) == "" {
		return Line{}, false
	}
	return line, true
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// stylePoints pulls a "<prop>:<value>pt" declaration out of an inline style.
func stylePoints(style, prop string) float64 {
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok || strings.TrimSpace(k) != prop {
			continue
		}
		v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "pt"))
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}
