package rewrite

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Substrings of a class attribute that mark code-like content.
var codeClasses = []string{"code", "syntax", "highlight", "codehilite", "sourceCode", "hljs"}

// Substrings of a class attribute that mark inline link preview widgets.
var previewClasses = []string{"intralink-content", "intralink-content-preview"}

// IsExcluded reports whether text under element n must be left verbatim.
// It checks n itself and every ancestor.
func IsExcluded(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if excludedSelf(p) {
			return true
		}
	}
	return false
}

// excludedSelf checks a single element without looking at its ancestors.
func excludedSelf(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if verbatimTag(n) {
		return true
	}
	class := attr(n, "class")
	if class == "" {
		return false
	}
	for _, c := range codeClasses {
		if strings.Contains(class, c) {
			return true
		}
	}
	for _, c := range previewClasses {
		if strings.Contains(class, c) {
			return true
		}
	}
	return false
}

func verbatimTag(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Pre, atom.Code, atom.Script, atom.Style:
		return true
	}
	// Nodes built by hand may carry only Data.
	switch strings.ToLower(n.Data) {
	case "pre", "code", "script", "style":
		return true
	}
	return false
}

// rawText reports whether n serializes its children as raw text or RCDATA.
// Markers placed under such an element would render as literal markup.
func rawText(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	switch strings.ToLower(n.Data) {
	case "script", "style", "textarea", "title", "xmp", "iframe",
		"noembed", "noframes", "noscript", "plaintext":
		return true
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return true
		}
	}
	return false
}
