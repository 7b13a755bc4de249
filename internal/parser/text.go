package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/dnrewrite/internal/doctree"
	"golang.org/x/net/html"
)

// TextParser handles plain text files. Blocks whose every line is indented
// by a tab or four spaces are treated as preformatted.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*html.Node, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var blocks [][]string
	var current []string

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
		} else {
			current = append(current, line)
		}
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	tree := &doctree.DocTree{
		Title: baseTitle(filename),
	}

	// Each block becomes a child node.
	for _, lines := range blocks {
		tree.Children = append(tree.Children, &doctree.DocNode{
			Text:         strings.Join(lines, "\n"),
			Preformatted: indented(lines),
		})
	}

	return tree.Build(), nil
}

func indented(lines []string) bool {
	for _, l := range lines {
		if !strings.HasPrefix(l, "\t") && !strings.HasPrefix(l, "    ") {
			return false
		}
	}
	return true
}
