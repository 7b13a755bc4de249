package parser

import (
	"reflect"
	"testing"

	"github.com/dgallion1/dnrewrite/internal/phrase"
	"github.com/dgallion1/dnrewrite/internal/rewrite"
)

func TestReflow(t *testing.T) {
	tests := []struct {
		name string
		page string
		want []string
	}{
		{
			name: "wrapped lines join",
			page: "This result is not\nuncommon in practice.",
			want: []string{"This result is not uncommon in practice."},
		},
		{
			name: "hyphenated word rejoins",
			page: "The step is not unneces-\nsary here.",
			want: []string{"The step is not unnecessary here."},
		},
		{
			name: "capitalised continuation keeps hyphen",
			page: "See Jean-\nPaul.",
			want: []string{"See Jean- Paul."},
		},
		{
			name: "blank lines split paragraphs",
			page: "  First   para.\n\n\n\tSecond para.\r\n",
			want: []string{"First para.", "Second para."},
		},
		{
			name: "blank page",
			page: " \n\n ",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reflow(tt.page); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("reflow(%q) = %q, want %q", tt.page, got, tt.want)
			}
		})
	}
}

func TestPagesTree_SectionPerPage(t *testing.T) {
	pages := []string{"It is not\nunusual.", "", "Second line.\n\nnot wrong"}
	doc := pagesTree("report", pages).Build()

	if got := titleOf(doc); got != "report" {
		t.Errorf("expected title %q, got %q", "report", got)
	}
	want := "<h1>Page 1</h1><p>It is not unusual.</p>" +
		"<h1>Page 3</h1><p>Second line.</p><p>not wrong</p>"
	if got := bodyHTML(t, doc); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	res := rewrite.New(phrase.Default(), nil).RewriteDocument(doc)
	if res.Replaced != 2 {
		t.Errorf("expected 2 replacements across reflowed pages, got %+v", res)
	}
}
