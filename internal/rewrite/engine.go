package rewrite

import (
	"log/slog"
	"unicode/utf8"

	"github.com/dgallion1/dnrewrite/internal/phrase"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Result holds the counters of a single rewrite run.
type Result struct {
	Replaced int `json:"replaced"`
	Skipped  int `json:"skipped"`
}

// Add accumulates another run's counters.
func (r *Result) Add(o Result) {
	r.Replaced += o.Replaced
	r.Skipped += o.Skipped
}

// Empty reports whether the run found nothing.
func (r Result) Empty() bool {
	return r.Replaced == 0 && r.Skipped == 0
}

// Engine rewrites double negatives in an HTML node tree.
// An Engine holds no per-run state; concurrent runs must use separate trees.
type Engine struct {
	table *phrase.Table
	log   *slog.Logger
}

// New creates an engine for the given phrase table. A nil logger discards output.
func New(table *phrase.Table, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{table: table, log: log}
}

// Table returns the engine's phrase table.
func (e *Engine) Table() *phrase.Table {
	return e.table
}

// RewriteDocument rewrites the <body> of a parsed document.
// A document without a body is left alone.
func (e *Engine) RewriteDocument(doc *html.Node) Result {
	body := FindBody(doc)
	if body == nil {
		return Result{}
	}
	return e.Rewrite(body)
}

// Rewrite walks the subtree rooted at root depth-first, replacing phrases
// in active text and flagging them in excluded text.
func (e *Engine) Rewrite(root *html.Node) Result {
	var res Result
	if root == nil {
		return res
	}
	excluded := IsExcluded(root.Parent)
	e.walk(root, excluded, &res)
	return res
}

func (e *Engine) walk(n *html.Node, excluded bool, res *Result) {
	switch n.Type {
	case html.TextNode:
		if isMarker(n.Parent) {
			return
		}
		if excluded || rawText(n.Parent) {
			e.rewriteExcluded(n, res)
		} else {
			e.rewriteActive(n, res)
		}
	case html.ElementNode:
		if isMarker(n) {
			return
		}
		excluded = excluded || excludedSelf(n)
		for _, c := range children(n) {
			e.walk(c, excluded, res)
		}
	case html.DocumentNode:
		for _, c := range children(n) {
			e.walk(c, excluded, res)
		}
	}
}

// rewriteActive replaces each match with a marker carrying the replacement.
func (e *Engine) rewriteActive(n *html.Node, res *Result) {
	text := n.Data
	matches := e.table.FindMatches(text)
	if len(matches) == 0 || n.Parent == nil {
		return
	}

	pieces := make([]*html.Node, 0, 2*len(matches)+1)
	cursor := 0
	for _, m := range matches {
		if m.Start > cursor {
			pieces = append(pieces, textNode(text[cursor:m.Start]))
		}
		pieces = append(pieces, replacedMarker(m))
		cursor = m.End
		res.Replaced++

		e.log.Debug("replaced double negative",
			"ordinal", res.Replaced,
			"original", m.Original,
			"replacement", m.Replacement,
			"parent", n.Parent.Data,
			"context", contextWindow(text, m.Start, m.End),
		)
	}
	if cursor < len(text) {
		pieces = append(pieces, textNode(text[cursor:]))
	}
	splice(n, pieces)
}

// rewriteExcluded wraps each match in a flagged marker showing the original text.
func (e *Engine) rewriteExcluded(n *html.Node, res *Result) {
	text := n.Data
	matches := e.table.FindMatches(text)
	if len(matches) == 0 {
		return
	}

	// Raw text cannot hold markers, so these matches are only counted.
	// Nothing marks them as seen, and a later run counts them again.
	if n.Parent == nil || rawText(n.Parent) {
		res.Skipped += len(matches)
		e.log.Debug("counted double negatives in raw text", "count", len(matches))
		return
	}

	pieces := make([]*html.Node, 0, 2*len(matches)+1)
	cursor := 0
	for _, m := range matches {
		if m.Start > cursor {
			pieces = append(pieces, textNode(text[cursor:m.Start]))
		}
		pieces = append(pieces, flaggedMarker(m))
		cursor = m.End
		res.Skipped++
	}
	if cursor < len(text) {
		pieces = append(pieces, textNode(text[cursor:]))
	}
	splice(n, pieces)
}

// splice replaces n with pieces at the same sibling position.
func splice(n *html.Node, pieces []*html.Node) {
	parent := n.Parent
	for _, p := range pieces {
		parent.InsertBefore(p, n)
	}
	parent.RemoveChild(n)
}

// children snapshots n's children so the walk survives splicing.
func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// contextWindow returns up to 20 bytes either side of a match, on rune boundaries.
func contextWindow(text string, start, end int) string {
	from := max(0, start-20)
	to := min(len(text), end+20)
	for from > 0 && !utf8.RuneStart(text[from]) {
		from--
	}
	for to < len(text) && !utf8.RuneStart(text[to]) {
		to++
	}
	return text[from:to]
}

// FindBody returns the first <body> element under n, or nil.
func FindBody(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := FindBody(c); b != nil {
			return b
		}
	}
	return nil
}
