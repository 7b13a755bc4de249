package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Format selects the output representation of a rewritten document.
type Format string

const (
	FormatHTML     Format = "html"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// ParseFormat maps a user-supplied name to a Format. Empty means HTML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "html":
		return FormatHTML, nil
	case "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown output format: %q", s)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	}
	return "text/html; charset=utf-8"
}

// Ext returns the file extension used when writing the format to disk.
func (f Format) Ext() string {
	switch f {
	case FormatText:
		return ".txt"
	case FormatMarkdown:
		return ".md"
	}
	return ".html"
}

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// Render serializes doc in the requested format.
func Render(doc *html.Node, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return []byte(Text(doc)), nil
	case FormatMarkdown:
		var buf bytes.Buffer
		if err := html.Render(&buf, doc); err != nil {
			return nil, fmt.Errorf("render html: %w", err)
		}
		md, err := mdConverter.ConvertString(buf.String())
		if err != nil {
			return nil, fmt.Errorf("convert markdown: %w", err)
		}
		return []byte(md), nil
	default:
		var buf bytes.Buffer
		if err := html.Render(&buf, doc); err != nil {
			return nil, fmt.Errorf("render html: %w", err)
		}
		return buf.Bytes(), nil
	}
}

// Text returns the visible text of the document body. Block elements end a line.
func Text(doc *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Head, atom.Script, atom.Style, atom.Template:
				return
			case atom.Br:
				sb.WriteString("\n")
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && block(n.DataAtom) {
			sb.WriteString("\n")
		}
	}
	walk(doc)
	return collapseBlankLines(sb.String())
}

func block(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Pre, atom.Blockquote, atom.Li, atom.Ul, atom.Ol,
		atom.Tr, atom.Table, atom.Section, atom.Article, atom.Header, atom.Footer,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

// collapseBlankLines trims trailing spaces and keeps at most one blank line in a row.
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := 0
	for _, l := range lines {
		l = strings.TrimRight(l, " \t")
		if l == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n")) + "\n"
}

var sanitizer = newSanitizer()

func newSanitizer() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowDataAttributes()
	p.AllowAttrs("title", "id").OnElements("span", "div")
	p.AllowStyles(
		"background-color", "color", "font-weight", "padding", "border-radius", "cursor",
		"text-decoration-line", "text-decoration-color", "text-decoration-style",
	).OnElements("span", "div")
	return p
}

// SanitizeDocument sanitizes doc and parses the result back into a tree, so
// trusted markup such as the banner can be added afterwards.
func SanitizeDocument(doc *html.Node) (*html.Node, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	clean, err := html.Parse(bytes.NewReader(Sanitize(buf.Bytes())))
	if err != nil {
		return nil, fmt.Errorf("parse sanitized html: %w", err)
	}
	return clean, nil
}

// Sanitize strips scripts, event handlers and unknown markup from rendered HTML
// while keeping marker spans and their styling.
func Sanitize(b []byte) []byte {
	return sanitizer.SanitizeBytes(b)
}
