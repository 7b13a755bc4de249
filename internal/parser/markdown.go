package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
)

// MarkdownParser handles Markdown files using goldmark. Fenced and indented
// code render as <pre><code>, inline code as <code>.
type MarkdownParser struct{}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*html.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := markdown.Convert(src, &out); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	doc, err := html.Parse(&out)
	if err != nil {
		return nil, fmt.Errorf("parse rendered markdown: %w", err)
	}
	ensureTitle(doc, baseTitle(filename))
	return doc, nil
}
