package rewrite

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/dgallion1/dnrewrite/internal/phrase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseDoc(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func render(t *testing.T, n *html.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, html.Render(&buf, n))
	return buf.String()
}

func first(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := first(c, tag); f != nil {
			return f
		}
	}
	return nil
}

// reconstruct rebuilds the pre-rewrite text of n from its fragments.
func reconstruct(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			sb.WriteString(c.Data)
		case MarkerKind(c) == MarkerReplaced:
			title := attr(c, "title")
			sb.WriteString(strings.TrimSuffix(strings.TrimPrefix(title, "Original text: '"), "'"))
		default:
			sb.WriteString(reconstruct(c))
		}
	}
	return sb.String()
}

func newEngine() *Engine {
	return New(phrase.Default(), nil)
}

func TestRewrite_ActiveReplacement(t *testing.T) {
	doc := parseDoc(t, `<p>This is not uncommon in practice.</p>`)
	res := newEngine().RewriteDocument(doc)

	assert.Equal(t, Result{Replaced: 1}, res)

	p := first(doc, "p")
	frags := children(p)
	require.Len(t, frags, 3)
	assert.Equal(t, "This is ", frags[0].Data)
	assert.Equal(t, MarkerReplaced, MarkerKind(frags[1]))
	assert.Equal(t, "common", frags[1].FirstChild.Data)
	assert.Equal(t, "Original text: 'not uncommon'", attr(frags[1], "title"))
	assert.Equal(t, replacedStyle, attr(frags[1], "style"))
	assert.Equal(t, " in practice.", frags[2].Data)
}

func TestRewrite_ExcludedPreIsFlaggedNotReplaced(t *testing.T) {
	doc := parseDoc(t, `<pre>This is not uncommon in practice.</pre>`)
	res := newEngine().RewriteDocument(doc)

	assert.Equal(t, Result{Skipped: 1}, res)

	pre := first(doc, "pre")
	frags := children(pre)
	require.Len(t, frags, 3)
	assert.Equal(t, "This is ", frags[0].Data)
	assert.Equal(t, MarkerFlagged, MarkerKind(frags[1]))
	assert.Equal(t, "not uncommon", frags[1].FirstChild.Data)
	assert.Equal(t, flaggedStyle, attr(frags[1], "style"))
	assert.Equal(t, " in practice.", frags[2].Data)
}

func TestRewrite_TwoMatchesInOneNode(t *testing.T) {
	doc := parseDoc(t, `<p>I wouldn't disagree that it's not unusual.</p>`)
	res := newEngine().RewriteDocument(doc)

	assert.Equal(t, 2, res.Replaced)
	p := first(doc, "p")
	assert.Equal(t, "I agree that it's usual.", textContent(p))
}

func TestRewrite_MatchSpanningWholeNodeEmitsNoEmptyText(t *testing.T) {
	doc := parseDoc(t, `<p>not wrong</p>`)
	newEngine().RewriteDocument(doc)

	p := first(doc, "p")
	frags := children(p)
	require.Len(t, frags, 1)
	assert.Equal(t, MarkerReplaced, MarkerKind(frags[0]))
}

func TestRewrite_NonInterference(t *testing.T) {
	doc := parseDoc(t, `<p>Nothing negative here.</p>`)
	p := first(doc, "p")
	orig := p.FirstChild

	res := newEngine().RewriteDocument(doc)

	assert.True(t, res.Empty())
	assert.Same(t, orig, p.FirstChild)
	assert.Nil(t, orig.NextSibling)
	assert.Equal(t, "Nothing negative here.", orig.Data)
}

func TestRewrite_OrderPreservation(t *testing.T) {
	src := "Unclear? It's not unlikely and not impossible, I don't disagree."
	for _, tag := range []string{"p", "pre"} {
		t.Run(tag, func(t *testing.T) {
			doc := parseDoc(t, "<"+tag+">"+src+"</"+tag+">")
			newEngine().RewriteDocument(doc)
			assert.Equal(t, src, reconstruct(first(doc, tag)))
		})
	}
}

func TestRewrite_Idempotent(t *testing.T) {
	src := `<div><p>It is not uncommon.</p><pre>not unusual</pre><code class="x">don't not</code></div>`
	doc := parseDoc(t, src)
	e := newEngine()

	firstRes := e.RewriteDocument(doc)
	once := render(t, doc)
	secondRes := e.RewriteDocument(doc)
	twice := render(t, doc)

	assert.Equal(t, Result{Replaced: 1, Skipped: 2}, firstRes)
	assert.True(t, secondRes.Empty())
	assert.Equal(t, once, twice)
}

func TestRewrite_NestedInlineElements(t *testing.T) {
	doc := parseDoc(t, `<p>It is <em>not unusual</em> and <strong>not wrong</strong>.</p>`)
	res := newEngine().RewriteDocument(doc)

	assert.Equal(t, 2, res.Replaced)
	assert.Equal(t, "It is usual and right.", textContent(first(doc, "p")))
}

func TestRewrite_ExcludedSubtreeDescendants(t *testing.T) {
	doc := parseDoc(t, `<div class="codehilite"><p>not unlikely</p><ul><li>not wrong</li></ul></div><p>not wrong</p>`)
	res := newEngine().RewriteDocument(doc)

	assert.Equal(t, Result{Replaced: 1, Skipped: 2}, res)
	assert.Contains(t, textContent(first(doc, "li")), "not wrong")
}

func TestRewrite_ScriptAndStyleCountedButUntouched(t *testing.T) {
	doc := parseDoc(t, `<body><script>var s = "not wrong";</script><style>/* not unusual */</style></body>`)
	res := newEngine().RewriteDocument(doc)

	assert.Equal(t, Result{Skipped: 2}, res)
	script := first(doc, "script")
	require.NotNil(t, script.FirstChild)
	assert.Nil(t, script.FirstChild.NextSibling)
	assert.Equal(t, `var s = "not wrong";`, script.FirstChild.Data)
}

func TestRewrite_RawTextContainersCountedButUntouched(t *testing.T) {
	src := `<body><textarea>it is not unusual</textarea><xmp>not wrong</xmp><noscript>not unlikely</noscript><p>not wrong</p></body>`
	doc := parseDoc(t, src)
	res := newEngine().RewriteDocument(doc)

	assert.Equal(t, Result{Replaced: 1, Skipped: 3}, res)
	for tag, want := range map[string]string{
		"textarea": "it is not unusual",
		"xmp":      "not wrong",
		"noscript": "not unlikely",
	} {
		el := first(doc, tag)
		require.NotNil(t, el, tag)
		require.NotNil(t, el.FirstChild, tag)
		assert.Nil(t, el.FirstChild.NextSibling, tag)
		assert.Equal(t, want, el.FirstChild.Data, tag)
	}

	out := render(t, doc)
	assert.Contains(t, out, "<textarea>it is not unusual</textarea>")
	assert.Contains(t, out, "<xmp>not wrong</xmp>")
}

func TestRewrite_RawTextRecountedOnEveryRun(t *testing.T) {
	doc := parseDoc(t, `<body><script>var s = "not wrong";</script><p>not wrong</p></body>`)
	e := newEngine()

	assert.Equal(t, Result{Replaced: 1, Skipped: 1}, e.RewriteDocument(doc))
	once := render(t, doc)
	assert.Equal(t, Result{Skipped: 1}, e.RewriteDocument(doc))
	assert.Equal(t, once, render(t, doc))
}

func TestRewrite_SubtreeRootUnderExcludedAncestor(t *testing.T) {
	doc := parseDoc(t, `<div class="hljs"><p>not unusual</p></div>`)
	res := newEngine().Rewrite(first(doc, "p"))
	assert.Equal(t, Result{Skipped: 1}, res)
}

func TestRewrite_NoBodyIsNoop(t *testing.T) {
	e := newEngine()
	assert.True(t, e.RewriteDocument(&html.Node{Type: html.DocumentNode}).Empty())
	assert.True(t, e.RewriteDocument(nil).Empty())
	assert.True(t, e.Rewrite(nil).Empty())
}

func TestRewrite_ResultIsPerInvocation(t *testing.T) {
	e := newEngine()
	a := e.RewriteDocument(parseDoc(t, `<p>not wrong</p>`))
	b := e.RewriteDocument(parseDoc(t, `<p>not wrong, not unusual</p>`))
	assert.Equal(t, 1, a.Replaced)
	assert.Equal(t, 2, b.Replaced)

	var total Result
	total.Add(a)
	total.Add(b)
	assert.Equal(t, Result{Replaced: 3}, total)
}

func TestRewrite_LogsEachReplacement(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e := New(phrase.Default(), log)

	e.RewriteDocument(parseDoc(t, `<p>I wouldn't disagree that it's not unusual.</p>`))

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "replaced double negative"))
	assert.Contains(t, out, "ordinal=1")
	assert.Contains(t, out, "ordinal=2")
}

func TestContextWindow(t *testing.T) {
	text := strings.Repeat("a", 30) + "not wrong" + strings.Repeat("b", 30)
	got := contextWindow(text, 30, 39)
	assert.Equal(t, strings.Repeat("a", 20)+"not wrong"+strings.Repeat("b", 20), got)

	assert.Equal(t, "not wrong", contextWindow("not wrong", 0, 9))

	// Multi-byte runes are never split.
	text = strings.Repeat("é", 15) + "x"
	got = contextWindow(text, 30, 31)
	assert.True(t, strings.HasPrefix(got, "é"))
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
