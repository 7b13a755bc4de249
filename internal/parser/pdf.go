package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/dnrewrite/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
)

// PDFParser handles PDF files. Pages come from ledongthuc/pdf, or from
// pdftotext when the library fails and the fallback is enabled. Each
// non-empty page becomes a "Page N" section whose wrapped lines are joined
// back into paragraphs, so phrases broken across lines still match.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*html.Node, error) {
	path, cleanup, err := spoolPDF(r)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	pages, err := libraryPages(path)
	if err != nil && p.FallbackPdftotext {
		pages, err = pdftotextPages(path)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	return pagesTree(baseTitle(filename), pages).Build(), nil
}

// spoolPDF copies r to a temp file; the pdf library needs random access.
func spoolPDF(r io.Reader) (string, func(), error) {
	tmp, err := os.CreateTemp("", "dnrewrite-pdf-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() { os.Remove(tmp.Name()) }
	_, err = io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	return tmp.Name(), cleanup, nil
}

// pagesTree builds one section per non-empty page, numbered by its
// position in the source document.
func pagesTree(title string, pages []string) *doctree.DocTree {
	tree := &doctree.DocTree{Title: title}
	for i, page := range pages {
		paras := reflow(page)
		if len(paras) == 0 {
			continue
		}
		tree.Children = append(tree.Children, &doctree.DocNode{
			Title: fmt.Sprintf("Page %d", i+1),
			Text:  strings.Join(paras, "\n\n"),
			Page:  i + 1,
		})
	}
	return tree
}

func libraryPages(path string) ([]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n := reader.NumPage()
	pages := make([]string, n)
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages[i-1] = text
	}
	return pages, nil
}

func pdftotextPages(path string) ([]string, error) {
	out, err := exec.Command("pdftotext", "-layout", path, "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	// pdftotext ends every page, including the last, with a form feed.
	return strings.Split(strings.TrimSuffix(string(out), "\f"), "\f"), nil
}

// reflow splits page text into paragraphs at blank lines and joins the
// lines of each paragraph. A line ending in a hyphen followed by a
// lowercase continuation is treated as a broken word.
func reflow(page string) []string {
	var (
		paras []string
		cur   strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			paras = append(paras, cur.String())
			cur.Reset()
		}
	}
	for _, line := range strings.Split(strings.ReplaceAll(page, "\r\n", "\n"), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			flush()
			continue
		}
		switch {
		case cur.Len() == 0:
		case brokenWord(cur.String(), line):
			s := strings.TrimSuffix(cur.String(), "-")
			cur.Reset()
			cur.WriteString(s)
		default:
			cur.WriteByte(' ')
		}
		cur.WriteString(line)
	}
	flush()
	return paras
}

func brokenWord(prev, next string) bool {
	if !strings.HasSuffix(prev, "-") || strings.HasSuffix(prev, " -") || len(prev) < 2 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(next)
	return unicode.IsLower(r)
}
