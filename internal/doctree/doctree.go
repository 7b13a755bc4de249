package doctree

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DocTree is the root of a document recovered from a format without markup.
type DocTree struct {
	Title    string     // Document title (from metadata or filename)
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	Text     string     // Text content of this node (may be empty for container nodes)
	Page     int        // Source page/line (0 if N/A)
	Children []*DocNode // Subsections

	// Preformatted text is emitted as a single <pre> block instead of paragraphs.
	Preformatted bool
}

// Build converts the tree into an HTML document: section titles become
// headings (h1-h6 by depth), text is split into paragraphs on blank lines and
// preformatted nodes become <pre> blocks.
func (t *DocTree) Build() *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	root := Element(atom.Html)
	head := Element(atom.Head)
	body := Element(atom.Body)
	doc.AppendChild(root)
	root.AppendChild(head)
	root.AppendChild(body)

	if t.Title != "" {
		title := Element(atom.Title)
		title.AppendChild(Text(t.Title))
		head.AppendChild(title)
	}

	var walk func(nodes []*DocNode, depth int)
	walk = func(nodes []*DocNode, depth int) {
		for _, n := range nodes {
			if n.Title != "" {
				h := Element(headingAtom(depth))
				h.AppendChild(Text(n.Title))
				body.AppendChild(h)
			}
			if n.Preformatted && n.Text != "" {
				pre := Element(atom.Pre)
				pre.AppendChild(Text(n.Text))
				body.AppendChild(pre)
			} else {
				for _, para := range Paragraphs(n.Text) {
					p := Element(atom.P)
					p.AppendChild(Text(para))
					body.AppendChild(p)
				}
			}
			walk(n.Children, depth+1)
		}
	}
	walk(t.Children, 1)
	return doc
}

// Paragraphs splits text on blank lines, dropping empty paragraphs.
func Paragraphs(text string) []string {
	var out []string
	for _, block := range strings.Split(text, "\n\n") {
		if b := strings.TrimSpace(block); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// Element creates an empty element node.
func Element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
}

// Text creates a text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func headingAtom(depth int) atom.Atom {
	switch depth {
	case 1:
		return atom.H1
	case 2:
		return atom.H2
	case 3:
		return atom.H3
	case 4:
		return atom.H4
	case 5:
		return atom.H5
	}
	return atom.H6
}
