package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/dnrewrite/internal/doctree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CSVParser handles CSV files. The first row becomes the table header.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*html.Node, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := (&doctree.DocTree{Title: baseTitle(filename)}).Build()
	if len(records) == 0 {
		return doc, nil
	}

	table := doctree.Element(atom.Table)
	thead := doctree.Element(atom.Thead)
	thead.AppendChild(row(records[0], atom.Th))
	table.AppendChild(thead)

	tbody := doctree.Element(atom.Tbody)
	for _, rec := range records[1:] {
		tbody.AppendChild(row(rec, atom.Td))
	}
	table.AppendChild(tbody)

	findElement(doc, atom.Body).AppendChild(table)
	return doc, nil
}

func row(cells []string, cell atom.Atom) *html.Node {
	tr := doctree.Element(atom.Tr)
	for _, c := range cells {
		td := doctree.Element(cell)
		td.AppendChild(doctree.Text(c))
		tr.AppendChild(td)
	}
	return tr
}
