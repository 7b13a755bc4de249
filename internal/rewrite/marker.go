package rewrite

import (
	"fmt"

	"github.com/dgallion1/dnrewrite/internal/phrase"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MarkerAttr tags spans produced by the engine. Its value is MarkerReplaced or MarkerFlagged.
const (
	MarkerAttr     = "data-dnr"
	MarkerReplaced = "replaced"
	MarkerFlagged  = "flagged"
)

const (
	replacedStyle = "background-color: #F5F1E1; font-weight: bold; padding: 2px 4px; border-radius: 3px; cursor: help;"
	flaggedStyle  = "text-decoration-line: underline; text-decoration-color: #FAA754; text-decoration-style: wavy;"
)

func replacedMarker(m phrase.Match) *html.Node {
	span := &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
		Attr: []html.Attribute{
			{Key: MarkerAttr, Val: MarkerReplaced},
			{Key: "title", Val: fmt.Sprintf("Original text: '%s'", m.Original)},
			{Key: "style", Val: replacedStyle},
		},
	}
	span.AppendChild(textNode(m.Replacement))
	return span
}

func flaggedMarker(m phrase.Match) *html.Node {
	span := &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
		Attr: []html.Attribute{
			{Key: MarkerAttr, Val: MarkerFlagged},
			{Key: "style", Val: flaggedStyle},
		},
	}
	span.AppendChild(textNode(m.Original))
	return span
}

// isMarker reports whether n is a span produced by a previous run.
func isMarker(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && hasAttr(n, MarkerAttr)
}

// MarkerKind returns MarkerReplaced, MarkerFlagged, or "" for non-marker nodes.
func MarkerKind(n *html.Node) string {
	if !isMarker(n) {
		return ""
	}
	return attr(n, MarkerAttr)
}
