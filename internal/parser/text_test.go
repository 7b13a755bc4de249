package parser

import (
	"strings"
	"testing"

	"golang.org/x/net/html/atom"
)

func TestTextParser_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := titleOf(doc); got != "notes" {
		t.Errorf("expected title %q, got %q", "notes", got)
	}

	want := "<p>First paragraph line one.\nFirst paragraph line two.</p>" +
		"<p>Second paragraph.</p><p>Third paragraph.</p>"
	if got := bodyHTML(t, doc); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := titleOf(doc); got != "empty" {
		t.Errorf("expected title %q, got %q", "empty", got)
	}
	if got := bodyHTML(t, doc); got != "" {
		t.Errorf("expected empty body, got %q", got)
	}
}

func TestTextParser_MultipleBlankLines(t *testing.T) {
	// Multiple consecutive blank lines should not produce empty paragraphs.
	input := "Para one.\n\n\n\nPara two."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "gaps.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := countElements(doc, atom.P); n != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", n)
	}
}

func TestTextParser_WhitespaceOnlyLines(t *testing.T) {
	input := "Para one.\n   \nPara two."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := countElements(doc, atom.P); n != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", n)
	}
}

func TestTextParser_IndentedBlockIsPreformatted(t *testing.T) {
	input := "Example:\n\n    if x != nil {\n\treturn\n    }\n\nDone."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "code.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := countElements(doc, atom.Pre); n != 1 {
		t.Fatalf("expected 1 pre block, got %d", n)
	}
	if n := countElements(doc, atom.P); n != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", n)
	}
}
