package parser

import (
	"strings"
	"testing"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		wantErr  bool
	}{
		{"a.txt", "*parser.TextParser", false},
		{"a.MD", "*parser.MarkdownParser", false},
		{"a.markdown", "*parser.MarkdownParser", false},
		{"a.csv", "*parser.CSVParser", false},
		{"a.htm", "*parser.HTMLParser", false},
		{"a.html", "*parser.HTMLParser", false},
		{"a.pdf", "*parser.PDFParser", false},
		{"a.docx", "*parser.DOCXParser", false},
		{"a.exe", "", true},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename, Options{})
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.filename)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.filename, err)
		}
		if got := typeName(p); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.filename, tt.want, got)
		}
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("x.HTML") {
		t.Error("expected .HTML to be supported")
	}
	if IsSupportedExtension("x.go") {
		t.Error("expected .go to be unsupported")
	}
}

func TestHTMLParser_KeepsDocumentAndAddsTitle(t *testing.T) {
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(`<p class="lead">Hi</p>`), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := bodyHTML(t, doc); got != `<p class="lead">Hi</p>` {
		t.Errorf("unexpected body %q", got)
	}
	if got := titleOf(doc); got != "page" {
		t.Errorf("expected title %q, got %q", "page", got)
	}
}

func TestHTMLParser_ExistingTitleWins(t *testing.T) {
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(`<title>Real</title><p>Hi</p>`), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := titleOf(doc); got != "Real" {
		t.Errorf("expected title %q, got %q", "Real", got)
	}
}

func TestCSVParser_Table(t *testing.T) {
	input := "name,note\nalpha,not unusual\nbeta,fine\n"
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(input), "rows.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<table><thead><tr><th>name</th><th>note</th></tr></thead>" +
		"<tbody><tr><td>alpha</td><td>not unusual</td></tr><tr><td>beta</td><td>fine</td></tr></tbody></table>"
	if got := bodyHTML(t, doc); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCSVParser_Empty(t *testing.T) {
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := bodyHTML(t, doc); got != "" {
		t.Errorf("expected empty body, got %q", got)
	}
}

func typeName(p Parser) string {
	switch p.(type) {
	case *TextParser:
		return "*parser.TextParser"
	case *MarkdownParser:
		return "*parser.MarkdownParser"
	case *CSVParser:
		return "*parser.CSVParser"
	case *HTMLParser:
		return "*parser.HTMLParser"
	case *PDFParser:
		return "*parser.PDFParser"
	case *DOCXParser:
		return "*parser.DOCXParser"
	}
	return ""
}
