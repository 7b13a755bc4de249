package parser

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// bodyHTML renders the children of <body>.
func bodyHTML(t *testing.T, doc *html.Node) string {
	t.Helper()
	body := findElement(doc, atom.Body)
	if body == nil {
		t.Fatal("document has no body")
	}
	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			t.Fatalf("render: %v", err)
		}
	}
	return strings.TrimSpace(buf.String())
}

func titleOf(doc *html.Node) string {
	n := findElement(doc, atom.Title)
	if n == nil || n.FirstChild == nil {
		return ""
	}
	return n.FirstChild.Data
}

func countElements(doc *html.Node, a atom.Atom) int {
	count := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == a {
			count++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return count
}
